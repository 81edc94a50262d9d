package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/dpotapov/htmldiff/internal/liveview"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve OLD.html NEW.html",
		Short: "Serve a live-updating view of the diff between two files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger()
			h := &liveview.Handler{
				OldPath: args[0],
				NewPath: args[1],
				Config:  cfg,
				Logger:  logger,
			}
			logger.Info("starting live-view server", "address", "http://"+addr)
			return http.ListenAndServe(addr, h)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "address to listen on")
	return cmd
}
