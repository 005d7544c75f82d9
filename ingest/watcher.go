package ingest

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces rapid successive writes to the same file.
const DefaultDebounce = 200 * time.Millisecond

// Event reports a matching file that was created or written.
type Event struct {
	Path string
}

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Root is the directory tree to watch. Required.
	Root string

	// Glob is matched against paths relative to Root. Defaults to
	// DefaultGlob.
	Glob string

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Watcher reports create and write events for matching files under a root,
// debounced per path. New subdirectories are watched as they appear.
type Watcher struct {
	root     string
	glob     string
	debounce time.Duration
	log      *slog.Logger

	fsw    *fsnotify.Watcher
	events chan Event

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// Watch starts watching the root tree.
func Watch(opts WatchOptions) (*Watcher, error) {
	if opts.Root == "" {
		return nil, ErrEmptyRoot
	}
	if opts.Glob == "" {
		opts.Glob = DefaultGlob
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("ingest: create watcher: %w", err)
	}

	w := &Watcher{
		root:     opts.Root,
		glob:     opts.Glob,
		debounce: opts.Debounce,
		log:      opts.Logger,
		fsw:      fsw,
		events:   make(chan Event, 64),
		timers:   make(map[string]*time.Timer),
	}

	if err := w.addRecursive(opts.Root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

// Events returns the channel of debounced file events. It is closed by Close.
func (w *Watcher) Events() <-chan Event { return w.events }

// Close stops the watcher and closes the event channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	close(w.events)
	w.mu.Unlock()

	return w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	// Watch directories as they appear so nested files are seen.
	if event.Has(fsnotify.Create) {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.log.Warn("watch subdir failed", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !w.matches(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.timers[event.Name]; ok {
		t.Reset(w.debounce)
		return
	}
	path := event.Name
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.timers, path)
		if w.closed {
			return
		}
		select {
		case w.events <- Event{Path: path}:
			w.log.Debug("file changed", "path", path)
		default:
			w.log.Warn("event dropped", "path", path)
		}
	})
}

func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	ok, _ := doublestar.Match(w.glob, filepath.ToSlash(rel))
	return ok
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("ingest: watch %s: %w", path, err)
			}
		}
		return nil
	})
}
