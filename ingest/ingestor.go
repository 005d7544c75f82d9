package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultGlob matches markdown files at any depth.
const DefaultGlob = "**/*.md"

// Handler processes one matched file.
type Handler func(ctx context.Context, path string, content []byte) error

// Sentinel errors.
var (
	ErrNilHandler = errors.New("ingest: handler is nil")
	ErrEmptyRoot  = errors.New("ingest: root is empty")
)

// Options configures an Ingestor.
type Options struct {
	// Root is the directory to walk. Required.
	Root string

	// Glob is a doublestar pattern matched against paths relative to
	// Root. Defaults to DefaultGlob.
	Glob string

	// Handler receives each matched file. Required.
	Handler Handler

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Failure records one file the handler rejected.
type Failure struct {
	Path string
	Err  error
}

// Result summarizes a Run.
type Result struct {
	Ingested []string
	Failed   []Failure
}

// Ingestor walks a directory and feeds matching files to a handler.
type Ingestor struct {
	root    string
	glob    string
	handler Handler
	log     *slog.Logger
}

// New creates an Ingestor with the given options.
func New(opts Options) (*Ingestor, error) {
	if opts.Root == "" {
		return nil, ErrEmptyRoot
	}
	if opts.Handler == nil {
		return nil, ErrNilHandler
	}
	if opts.Glob == "" {
		opts.Glob = DefaultGlob
	}
	if !doublestar.ValidatePattern(opts.Glob) {
		return nil, fmt.Errorf("ingest: invalid glob %q", opts.Glob)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Ingestor{
		root:    opts.Root,
		glob:    opts.Glob,
		handler: opts.Handler,
		log:     opts.Logger,
	}, nil
}

// Run walks the root and hands every matching file to the handler. Handler
// failures are collected in the result; walking continues past them.
func (in *Ingestor) Run(ctx context.Context) (Result, error) {
	var res Result

	err := filepath.WalkDir(in.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(in.root, path)
		if err != nil {
			return err
		}
		if ok, _ := doublestar.Match(in.glob, filepath.ToSlash(rel)); !ok {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			in.log.Warn("read failed", "path", path, "error", err)
			res.Failed = append(res.Failed, Failure{Path: path, Err: err})
			return nil
		}

		if err := in.handler(ctx, path, content); err != nil {
			in.log.Warn("ingest failed", "path", path, "error", err)
			res.Failed = append(res.Failed, Failure{Path: path, Err: err})
			return nil
		}

		in.log.Debug("ingested", "path", path)
		res.Ingested = append(res.Ingested, path)
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("ingest: walk %s: %w", in.root, err)
	}
	return res, nil
}

// IngestFile runs the handler on a single file without glob matching.
func (in *Ingestor) IngestFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ingest: read %s: %w", path, err)
	}
	if err := in.handler(ctx, path, content); err != nil {
		return fmt.Errorf("ingest: %s: %w", path, err)
	}
	return nil
}

// Matches reports whether a path under the root matches the glob.
func (in *Ingestor) Matches(path string) bool {
	rel, err := filepath.Rel(in.root, path)
	if err != nil {
		return false
	}
	ok, _ := doublestar.Match(in.glob, filepath.ToSlash(rel))
	return ok
}
