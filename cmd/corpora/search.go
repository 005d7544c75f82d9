package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corpora-kb/corpora/dataset"
)

var (
	searchLimit int
	searchKind  string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search records by relevance",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")

		ds := openDataset()
		defer ds.Close()

		searcher := newSearcher(ds)
		results, err := searcher.SearchFilter(context.Background(), dataset.Filter{Kind: searchKind}, query, searchLimit)
		if err != nil {
			fatal("searching", err)
		}

		if searchJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(results); err != nil {
				fatal("encoding JSON", err)
			}
			return
		}

		for _, r := range results {
			content := r.Record.Content
			if i := strings.IndexByte(content, '\n'); i >= 0 {
				content = content[:i]
			}
			fmt.Printf("%.4f  %-12s  %s  %s\n", r.Score, r.Record.Kind, r.Record.ID, content)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results")
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "Restrict to a record kind")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
}
