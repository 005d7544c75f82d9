package search

import (
	"context"
	"testing"

	"github.com/corpora-kb/corpora/dataset"
)

func TestBleveIndex_Search(t *testing.T) {
	ds := seedDataset(t)
	idx, err := NewBleveIndex(ds)
	if err != nil {
		t.Fatalf("NewBleveIndex() error = %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	results, err := idx.Search(context.Background(), "dark mode", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	for _, r := range results {
		if r.ScoreType != ScoreText {
			t.Errorf("ScoreType = %v, want %v", r.ScoreType, ScoreText)
		}
		if r.Record.ID == "" {
			t.Error("expected hydrated record")
		}
	}
}

func TestBleveIndex_NilDataset(t *testing.T) {
	if _, err := NewBleveIndex(nil); err == nil {
		t.Error("expected error for nil dataset")
	}
}

func TestBleveIndex_EmptyQuery(t *testing.T) {
	idx, _ := NewBleveIndex(seedDataset(t))
	t.Cleanup(func() { _ = idx.Close() })

	results, err := idx.Search(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty query returned %d results, want 0", len(results))
	}
}

func TestBleveIndex_ReindexesAfterChange(t *testing.T) {
	ds := seedDataset(t)
	idx, _ := NewBleveIndex(ds)
	t.Cleanup(func() { _ = idx.Close() })

	ctx := context.Background()
	before, err := idx.Search(ctx, "telemetry", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(before) != 0 {
		t.Fatalf("unexpected hits before insert: %d", len(before))
	}

	_, err = ds.Add(ctx, dataset.Record{ID: "rel-3", Kind: "release", Content: "Added telemetry opt-out"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	after, err := idx.Search(ctx, "telemetry", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(after) != 1 {
		t.Fatalf("expected 1 hit after insert, got %d", len(after))
	}
	if after[0].Record.ID != "rel-3" {
		t.Errorf("hit = %s, want rel-3", after[0].Record.ID)
	}
}

func TestComputeFingerprint_Stable(t *testing.T) {
	recs := []dataset.Record{
		{ID: "a", Kind: "x", Content: "one", Metadata: dataset.Metadata{"k": "v", "j": "w"}},
		{ID: "b", Kind: "y", Content: "two"},
	}

	fp1 := computeFingerprint(recs)
	fp2 := computeFingerprint(recs)
	if fp1 != fp2 {
		t.Error("fingerprint is not stable")
	}

	changed := []dataset.Record{
		{ID: "a", Kind: "x", Content: "one CHANGED", Metadata: dataset.Metadata{"k": "v", "j": "w"}},
		{ID: "b", Kind: "y", Content: "two"},
	}
	if computeFingerprint(changed) == fp1 {
		t.Error("fingerprint did not change with content")
	}
}
