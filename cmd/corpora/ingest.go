package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corpora-kb/corpora/dataset"
	"github.com/corpora-kb/corpora/ingest"
)

var (
	ingestGlob  string
	ingestKind  string
	ingestWatch bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [root]",
	Short: "Load matching files into the dataset",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		glob := cfg.Glob
		if ingestGlob != "" {
			glob = ingestGlob
		}

		ds := openDataset()
		defer ds.Close()

		handler := func(ctx context.Context, path string, content []byte) error {
			return ds.Upsert(ctx, dataset.Record{
				ID:      "file:" + filepath.ToSlash(path),
				Kind:    ingestKind,
				Content: string(content),
				Metadata: dataset.Metadata{
					"path":     path,
					"filename": filepath.Base(path),
				},
			})
		}

		ing, err := ingest.New(ingest.Options{
			Root:    root,
			Glob:    glob,
			Handler: handler,
			Logger:  slog.Default(),
		})
		if err != nil {
			fatal("creating ingestor", err)
		}

		ctx := context.Background()
		res, err := ing.Run(ctx)
		if err != nil {
			fatal("ingesting", err)
		}
		fmt.Printf("ingested %d files, %d failed\n", len(res.Ingested), len(res.Failed))
		for _, f := range res.Failed {
			fmt.Printf("  %s: %v\n", f.Path, f.Err)
		}

		if !ingestWatch {
			return
		}

		watchCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w, err := ingest.Watch(ingest.WatchOptions{Root: root, Glob: glob, Logger: slog.Default()})
		if err != nil {
			fatal("starting watcher", err)
		}
		defer w.Close()

		fmt.Println("watching for changes, Ctrl-C to stop")
		for {
			select {
			case <-watchCtx.Done():
				return
			case e, ok := <-w.Events():
				if !ok {
					return
				}
				if err := ing.IngestFile(watchCtx, e.Path); err != nil {
					slog.Warn("re-ingest failed", "path", e.Path, "error", err)
					continue
				}
				fmt.Printf("re-ingested %s\n", e.Path)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestGlob, "glob", "", "File pattern (overrides config)")
	ingestCmd.Flags().StringVar(&ingestKind, "kind", "file", "Record kind for ingested files")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "Keep watching and re-ingest on change")
}
