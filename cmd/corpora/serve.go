package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corpora-kb/corpora/server"
)

var serveHTTP string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset over MCP (stdio by default)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ds := openDataset()
		defer ds.Close()

		srv, err := server.New(server.Config{
			Dataset:    ds,
			Searcher:   newSearcher(ds),
			ServerInfo: server.ServerInfo{Name: "corpora", Version: Version},
		})
		if err != nil {
			fatal("creating server", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if serveHTTP != "" {
			httpSrv := &http.Server{Addr: serveHTTP, Handler: server.ServeHTTP(srv)}
			go func() {
				<-ctx.Done()
				_ = httpSrv.Shutdown(context.Background())
			}()
			fmt.Printf("serving MCP over HTTP on %s\n", serveHTTP)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fatal("serving HTTP", err)
			}
			return
		}

		if err := server.ServeStdio(ctx, srv); err != nil && err != context.Canceled {
			fatal("serving stdio", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHTTP, "http", "", "Serve over HTTP on this address instead of stdio")
}
