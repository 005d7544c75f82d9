package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corpora-kb/corpora/dataset"
)

var (
	listKind  string
	listJSON  bool
	listKinds bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records in the dataset",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ds := openDataset()
		defer ds.Close()

		ctx := context.Background()

		if listKinds {
			kinds, err := ds.Kinds(ctx)
			if err != nil {
				fatal("listing kinds", err)
			}
			for _, k := range kinds {
				fmt.Println(k)
			}
			return
		}

		recs, err := ds.Filter(ctx, dataset.Filter{Kind: listKind})
		if err != nil {
			fatal("listing records", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(recs); err != nil {
				fatal("encoding JSON", err)
			}
			return
		}

		for _, rec := range recs {
			fmt.Printf("%-12s  %s\n", rec.Kind, rec.ID)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listKind, "kind", "", "Restrict to a record kind")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listKinds, "kinds", false, "List record kinds instead of records")
}
