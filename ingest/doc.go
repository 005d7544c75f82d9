// Package ingest loads files into application importers.
//
// An Ingestor walks a root directory, matches files against a doublestar
// glob like "**/*.md", and hands each file to a Handler. Failures are
// collected per file so one bad document does not stop a bulk import.
//
//	ing, err := ingest.New(ingest.Options{
//	    Root: "docs",
//	    Glob: "**/*.md",
//	    Handler: func(ctx context.Context, path string, content []byte) error {
//	        _, err := tracker.ImportMarkdown(ctx, string(content))
//	        return err
//	    },
//	})
//	res, err := ing.Run(ctx)
//
// A Watcher re-reports matching files as they are created or written, with
// rapid successive writes debounced into one event.
package ingest
