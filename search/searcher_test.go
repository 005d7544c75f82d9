package search

import (
	"context"
	"errors"
	"testing"

	"github.com/corpora-kb/corpora/dataset"
)

func seedDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })

	recs := []dataset.Record{
		{ID: "rel-1", Kind: "release", Content: "Added dark mode support", Metadata: dataset.Metadata{"version": "1.2.0"}},
		{ID: "rel-2", Kind: "release", Content: "Fixed crash on startup", Metadata: dataset.Metadata{"version": "1.2.1"}},
		{ID: "item-1", Kind: "action_item", Content: "Review dark mode rollout plan", Metadata: dataset.Metadata{"assignee": "ana"}},
	}
	if _, err := ds.AddBatch(context.Background(), recs); err != nil {
		t.Fatalf("AddBatch() error = %v", err)
	}
	return ds
}

func TestNew_NilDataset(t *testing.T) {
	_, err := New(Options{})
	if !errors.Is(err, ErrNilDataset) {
		t.Errorf("New() error = %v, want ErrNilDataset", err)
	}
}

func TestSearch_BM25Default(t *testing.T) {
	s, err := New(Options{Dataset: seedDataset(t)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results, err := s.Search(context.Background(), "dark mode", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.ScoreType != ScoreBM25 {
			t.Errorf("ScoreType = %v, want %v", r.ScoreType, ScoreBM25)
		}
		if r.Score <= 0 {
			t.Errorf("Score = %v, want > 0", r.Score)
		}
	}
}

func TestSearch_Hybrid(t *testing.T) {
	s, err := New(Options{
		Dataset:     seedDataset(t),
		Embedder:    NewHashingEmbedder(64),
		HybridAlpha: 0.7,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results, err := s.Search(context.Background(), "dark mode", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	for _, r := range results {
		if r.ScoreType != ScoreHybrid {
			t.Errorf("ScoreType = %v, want %v", r.ScoreType, ScoreHybrid)
		}
	}
}

func TestSearchFilter_ScopesByKind(t *testing.T) {
	s, _ := New(Options{Dataset: seedDataset(t)})

	results, err := s.SearchFilter(context.Background(), dataset.Filter{Kind: "release"}, "dark mode", 10)
	if err != nil {
		t.Fatalf("SearchFilter() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("SearchFilter() returned %d results, want 1", len(results))
	}
	if results[0].Record.ID != "rel-1" {
		t.Errorf("top result = %s, want rel-1", results[0].Record.ID)
	}
}

func TestSearch_ZeroLimit(t *testing.T) {
	s, _ := New(Options{Dataset: seedDataset(t)})

	results, err := s.Search(context.Background(), "dark", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search() with limit 0 returned %d results, want 0", len(results))
	}
}

func TestSearch_LimitApplies(t *testing.T) {
	s, _ := New(Options{Dataset: seedDataset(t)})

	results, err := s.Search(context.Background(), "dark mode crash startup review", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Search() returned %d results, want 1", len(results))
	}
}

func TestSearch_DeterministicTieOrder(t *testing.T) {
	ds, err := dataset.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })

	ctx := context.Background()
	// Identical content produces identical scores; order must fall back to ID.
	_, err = ds.AddBatch(ctx, []dataset.Record{
		{ID: "z", Content: "same text"},
		{ID: "a", Content: "same text"},
		{ID: "m", Content: "same text"},
	})
	if err != nil {
		t.Fatalf("AddBatch() error = %v", err)
	}

	s, _ := New(Options{Dataset: ds})
	results, err := s.Search(ctx, "same text", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := []string{"a", "m", "z"}
	got := results.IDs()
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestResults_Helpers(t *testing.T) {
	results := Results{
		{Record: dataset.Record{ID: "a", Kind: "release"}, Score: 0.9},
		{Record: dataset.Record{ID: "b", Kind: "release"}, Score: 0.4},
		{Record: dataset.Record{ID: "c", Kind: "action_item"}, Score: 0.8},
	}

	if got := results.FilterByKind("release"); len(got) != 2 {
		t.Errorf("FilterByKind() = %d results, want 2", len(got))
	}
	if got := results.FilterByMinScore(0.5); len(got) != 2 {
		t.Errorf("FilterByMinScore() = %d results, want 2", len(got))
	}
	if ids := results.IDs(); ids[0] != "a" || len(ids) != 3 {
		t.Errorf("IDs() = %v", ids)
	}
	if recs := results.Records(); len(recs) != 3 || recs[2].Kind != "action_item" {
		t.Errorf("Records() = %v", recs)
	}
}

func TestHashingEmbedder_Deterministic(t *testing.T) {
	e := NewHashingEmbedder(128)
	ctx := context.Background()

	a, err := e.Embed(ctx, "translation memory cache")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	b, _ := e.Embed(ctx, "translation memory cache")

	if len(a) != 128 {
		t.Fatalf("len = %d, want 128", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("embeddings are not deterministic")
		}
	}
}

func TestHashingEmbedder_Normalized(t *testing.T) {
	e := NewHashingEmbedder(0)
	if e.Dimensions() != DefaultDimensions {
		t.Errorf("Dimensions() = %d, want %d", e.Dimensions(), DefaultDimensions)
	}

	vec, err := e.Embed(context.Background(), "some text to embed")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm < 0.999 || norm > 1.001 {
		t.Errorf("norm = %v, want 1", norm)
	}
}

func TestHashingEmbedder_EmptyText(t *testing.T) {
	e := NewHashingEmbedder(32)
	vec, err := e.Embed(context.Background(), "")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	for _, v := range vec {
		if v != 0 {
			t.Fatal("expected zero vector for empty text")
		}
	}
}
