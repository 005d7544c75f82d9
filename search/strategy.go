package search

import (
	"context"
	"math"
	"strings"

	"github.com/corpora-kb/corpora/dataset"
)

// Strategy scores a record's relevance to a query. Implementations must be
// safe for concurrent Score calls.
type Strategy interface {
	Score(ctx context.Context, query string, rec dataset.Record) (float64, error)
}

// bm25Strategy is a lexical strategy: term-frequency scoring with BM25-style
// saturation over tokenized record content. It needs no corpus statistics and
// no external dependencies.
type bm25Strategy struct {
	k1 float64
	b  float64
}

// BM25Config tunes the lexical strategy. Zero values select the defaults
// (k1=1.2, b=0.75).
type BM25Config struct {
	K1 float64
	B  float64
}

// NewBM25Strategy creates the default lexical strategy.
func NewBM25Strategy(cfg BM25Config) Strategy {
	k1 := cfg.K1
	if k1 == 0 {
		k1 = 1.2
	}
	b := cfg.B
	if b == 0 {
		b = 0.75
	}
	return &bm25Strategy{k1: k1, b: b}
}

// avgDocLen approximates the average document length for length
// normalization. Per-record scoring has no corpus view, so a fixed prior
// keeps scores comparable across records.
const avgDocLen = 32.0

func (s *bm25Strategy) Score(_ context.Context, query string, rec dataset.Record) (float64, error) {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return 0, nil
	}
	docTokens := Tokenize(rec.Content + " " + metadataText(rec))
	if len(docTokens) == 0 {
		return 0, nil
	}

	tf := make(map[string]int, len(docTokens))
	for _, tok := range docTokens {
		tf[tok]++
	}

	docLen := float64(len(docTokens))
	norm := s.k1 * (1 - s.b + s.b*docLen/avgDocLen)

	var score float64
	for _, tok := range queryTokens {
		f := float64(tf[tok])
		if f == 0 {
			continue
		}
		score += (f * (s.k1 + 1)) / (f + norm)
	}
	// Normalize by query length so multi-term queries stay in a comparable range.
	return score / float64(len(queryTokens)), nil
}

// embeddingStrategy scores by cosine similarity between the query embedding
// and the record embedding. Records without a stored embedding are embedded
// from their content on the fly.
type embeddingStrategy struct {
	embedder Embedder
}

// NewEmbeddingStrategy creates a semantic strategy backed by the given
// embedder.
func NewEmbeddingStrategy(embedder Embedder) (Strategy, error) {
	if embedder == nil {
		return nil, ErrInvalidEmbedder
	}
	return &embeddingStrategy{embedder: embedder}, nil
}

func (s *embeddingStrategy) Score(ctx context.Context, query string, rec dataset.Record) (float64, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return 0, err
	}

	docVec := rec.Embedding
	if len(docVec) == 0 {
		docVec, err = s.embedder.Embed(ctx, rec.Content)
		if err != nil {
			return 0, err
		}
	}

	sim := cosineSimilarity(queryVec, docVec)
	if sim < 0 {
		return 0, nil
	}
	return sim, nil
}

// hybridStrategy combines a lexical and a semantic strategy with a fixed
// weighting: alpha*lexical + (1-alpha)*semantic.
type hybridStrategy struct {
	lexical  Strategy
	semantic Strategy
	alpha    float64
}

// NewHybridStrategy combines two strategies. Alpha is the lexical weight and
// must be in [0, 1].
func NewHybridStrategy(lexical, semantic Strategy, alpha float64) (Strategy, error) {
	if alpha < 0 || alpha > 1 {
		return nil, ErrInvalidAlpha
	}
	return &hybridStrategy{lexical: lexical, semantic: semantic, alpha: alpha}, nil
}

func (s *hybridStrategy) Score(ctx context.Context, query string, rec dataset.Record) (float64, error) {
	lex, err := s.lexical.Score(ctx, query, rec)
	if err != nil {
		return 0, err
	}
	sem, err := s.semantic.Score(ctx, query, rec)
	if err != nil {
		return 0, err
	}
	return s.alpha*lex + (1-s.alpha)*sem, nil
}

// Tokenize lowercases text and splits it on non-alphanumeric runes.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
}

// metadataText flattens string metadata values into searchable text.
func metadataText(rec dataset.Record) string {
	if len(rec.Metadata) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, v := range rec.Metadata {
		switch t := v.(type) {
		case string:
			sb.WriteString(t)
			sb.WriteByte(' ')
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					sb.WriteString(s)
					sb.WriteByte(' ')
				}
			}
		}
	}
	return sb.String()
}

// cosineSimilarity returns 0 for mismatched lengths or zero-magnitude
// vectors instead of erroring; a non-match scores like any other non-match.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na += va * va
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
