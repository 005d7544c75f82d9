package search

import (
	"context"
	"sort"

	"github.com/corpora-kb/corpora/dataset"
)

// ScoreType indicates the source of a search result's score.
type ScoreType string

const (
	// ScoreBM25 indicates the score came from lexical scoring.
	ScoreBM25 ScoreType = "bm25"

	// ScoreEmbedding indicates the score came from embedding similarity.
	ScoreEmbedding ScoreType = "embedding"

	// ScoreHybrid indicates a weighted combination of lexical and embedding.
	ScoreHybrid ScoreType = "hybrid"

	// ScoreText indicates the score came from the bleve full-text index.
	ScoreText ScoreType = "text"
)

// Result is a single search hit.
type Result struct {
	Record    dataset.Record
	Score     float64
	ScoreType ScoreType
}

// Results is a slice of Result with helper methods.
type Results []Result

// IDs returns the record IDs in result order.
func (r Results) IDs() []string {
	ids := make([]string, len(r))
	for i, res := range r {
		ids[i] = res.Record.ID
	}
	return ids
}

// Records returns the records in result order.
func (r Results) Records() []dataset.Record {
	recs := make([]dataset.Record, len(r))
	for i, res := range r {
		recs[i] = res.Record
	}
	return recs
}

// FilterByKind returns results whose record matches the given kind.
func (r Results) FilterByKind(kind string) Results {
	var filtered Results
	for _, res := range r {
		if res.Record.Kind == kind {
			filtered = append(filtered, res)
		}
	}
	return filtered
}

// FilterByMinScore returns results with score >= minScore.
func (r Results) FilterByMinScore(minScore float64) Results {
	var filtered Results
	for _, res := range r {
		if res.Score >= minScore {
			filtered = append(filtered, res)
		}
	}
	return filtered
}

// Options configures a Searcher.
type Options struct {
	// Dataset is the record store to search. Required.
	Dataset *dataset.Dataset

	// Strategy overrides the scoring strategy. When nil, BM25 is used, or a
	// hybrid strategy when Embedder is provided.
	Strategy Strategy

	// Embedder enables hybrid search when provided and Strategy is nil.
	Embedder Embedder

	// HybridAlpha is the lexical weight for hybrid search, in [0, 1].
	// Zero selects the default of 0.5. Only used when Embedder is provided.
	HybridAlpha float64

	// BM25 tunes the lexical strategy.
	BM25 BM25Config
}

// Searcher scores dataset records against free-text queries.
type Searcher struct {
	ds        *dataset.Dataset
	strategy  Strategy
	scoreType ScoreType
}

// New creates a Searcher from options, defaulting missing pieces the way
// the options describe.
func New(opts Options) (*Searcher, error) {
	if opts.Dataset == nil {
		return nil, ErrNilDataset
	}

	s := &Searcher{ds: opts.Dataset}

	switch {
	case opts.Strategy != nil:
		s.strategy = opts.Strategy
		s.scoreType = ScoreBM25
	case opts.Embedder != nil:
		alpha := opts.HybridAlpha
		if alpha == 0 {
			alpha = 0.5
		}
		semantic, err := NewEmbeddingStrategy(opts.Embedder)
		if err != nil {
			return nil, err
		}
		hybrid, err := NewHybridStrategy(NewBM25Strategy(opts.BM25), semantic, alpha)
		if err != nil {
			return nil, err
		}
		s.strategy = hybrid
		s.scoreType = ScoreHybrid
	default:
		s.strategy = NewBM25Strategy(opts.BM25)
		s.scoreType = ScoreBM25
	}

	return s, nil
}

// Search scores every record against the query and returns up to limit
// results ordered by score descending, ID ascending.
func (s *Searcher) Search(ctx context.Context, query string, limit int) (Results, error) {
	return s.SearchFilter(ctx, dataset.Filter{}, query, limit)
}

// SearchFilter restricts scoring to records matching the filter before
// ranking. Applications use this to scope queries to their own kind.
func (s *Searcher) SearchFilter(ctx context.Context, f dataset.Filter, query string, limit int) (Results, error) {
	if limit <= 0 {
		return Results{}, nil
	}

	recs, err := s.ds.Filter(ctx, f)
	if err != nil {
		return nil, err
	}

	scored := make(Results, 0, len(recs))
	for _, rec := range recs {
		score, err := s.strategy.Score(ctx, query, rec)
		if err != nil {
			return nil, err
		}
		if score <= 0 {
			continue
		}
		scored = append(scored, Result{Record: rec, Score: score, ScoreType: s.scoreType})
	}

	sortResults(scored)
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// sortResults orders by score descending, then record ID ascending for
// determinism.
func sortResults(results Results) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Record.ID < results[j].Record.ID
	})
}
