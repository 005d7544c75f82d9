package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/corpora-kb/corpora/dataset"
	"github.com/corpora-kb/corpora/search"
)

var (
	verbose    bool
	configPath string
	dataPath   string

	cfg Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "corpora",
	Short: "Knowledge bases over an embedded document dataset",
	Long: `Corpora stores documents, extracted records, and embeddings in a local
SQLite dataset and answers search, filter, and analysis queries over them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		loaded, err := loadConfig(configPath)
		if err != nil {
			fatal("loading config", err)
		}
		cfg = loaded
		if dataPath != "" {
			cfg.Dataset = dataPath
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default corpora.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Dataset file (overrides config)")
}

func openDataset() *dataset.Dataset {
	ds, err := dataset.Open(cfg.Dataset)
	if err != nil {
		fatal("opening dataset", err)
	}
	return ds
}

func newSearcher(ds *dataset.Dataset) *search.Searcher {
	opts := search.Options{Dataset: ds}
	if cfg.HybridAlpha > 0 {
		opts.Embedder = search.NewHashingEmbedder(cfg.EmbeddingDimensions)
		opts.HybridAlpha = cfg.HybridAlpha
	}
	s, err := search.New(opts)
	if err != nil {
		fatal("creating searcher", err)
	}
	return s
}
