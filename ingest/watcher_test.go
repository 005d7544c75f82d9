package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case e, ok := <-w.Events():
		if !ok {
			t.Fatal("events channel closed")
		}
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := Watch(WatchOptions{Root: dir, Glob: "**/*.md", Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	path := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte("# Notes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	e := waitEvent(t, w)
	if e.Path != path {
		t.Errorf("event path = %q, want %q", e.Path, path)
	}
}

func TestWatcher_IgnoresNonMatching(t *testing.T) {
	dir := t.TempDir()
	w, err := Watch(WatchOptions{Root: dir, Glob: "**/*.md", Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if err := os.WriteFile(filepath.Join(dir, "data.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case e := <-w.Events():
		t.Errorf("unexpected event for %q", e.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_DebouncesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := Watch(WatchOptions{Root: dir, Glob: "**/*.md", Debounce: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	path := filepath.Join(dir, "doc.md")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("rev"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	waitEvent(t, w)

	select {
	case e := <-w.Events():
		t.Errorf("expected writes to coalesce, got extra event for %q", e.Path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_Close(t *testing.T) {
	w, err := Watch(WatchOptions{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// Close is idempotent.
	if err := w.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("events channel still open after Close")
	}
}
