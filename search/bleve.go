package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/corpora-kb/corpora/dataset"
)

// BleveIndex provides full-text search over dataset records using an
// in-memory bleve index. The index is rebuilt lazily: each search compares a
// fingerprint of the current records against the indexed snapshot and
// reindexes only when they differ.
type BleveIndex struct {
	ds *dataset.Dataset

	mu          sync.Mutex
	idx         bleve.Index
	fingerprint string
	byID        map[string]dataset.Record
}

// bleveDoc is the shape indexed per record.
type bleveDoc struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
	Meta    string `json:"meta"`
}

// NewBleveIndex creates a full-text index over the dataset. The index is
// built on first search.
func NewBleveIndex(ds *dataset.Dataset) (*BleveIndex, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	return &BleveIndex{ds: ds}, nil
}

// Search runs a bleve match query over the indexed records and returns up to
// limit results with ScoreText scores. An empty query returns no results.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int) (Results, error) {
	if limit <= 0 || query == "" {
		return Results{}, nil
	}

	if err := b.refresh(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	idx := b.idx
	byID := b.byID
	b.mu.Unlock()

	if idx == nil {
		return Results{}, nil
	}

	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: bleve query: %w", err)
	}

	results := make(Results, 0, len(res.Hits))
	for _, hit := range res.Hits {
		rec, ok := byID[hit.ID]
		if !ok {
			continue
		}
		results = append(results, Result{Record: rec, Score: hit.Score, ScoreType: ScoreText})
	}
	return results, nil
}

// Close releases the underlying bleve index.
func (b *BleveIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.idx == nil {
		return nil
	}
	err := b.idx.Close()
	b.idx = nil
	b.fingerprint = ""
	b.byID = nil
	return err
}

// refresh rebuilds the bleve index when the dataset contents changed since
// the last build.
func (b *BleveIndex) refresh(ctx context.Context) error {
	recs, err := b.ds.All(ctx)
	if err != nil {
		return err
	}

	fp := computeFingerprint(recs)

	b.mu.Lock()
	defer b.mu.Unlock()

	if fp == b.fingerprint && b.idx != nil {
		return nil
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return fmt.Errorf("search: create bleve index: %w", err)
	}

	batch := idx.NewBatch()
	byID := make(map[string]dataset.Record, len(recs))
	for _, rec := range recs {
		byID[rec.ID] = rec
		doc := bleveDoc{
			Kind:    rec.Kind,
			Content: rec.Content,
			Meta:    metadataText(rec),
		}
		if err := batch.Index(rec.ID, doc); err != nil {
			_ = idx.Close()
			return fmt.Errorf("search: index %s: %w", rec.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return fmt.Errorf("search: apply batch: %w", err)
	}

	if b.idx != nil {
		_ = b.idx.Close()
	}
	b.idx = idx
	b.fingerprint = fp
	b.byID = byID
	return nil
}
