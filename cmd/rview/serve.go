package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/rview/internal/config"
	"github.com/vango-dev/rview/internal/serve"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the examples with live updates",
		Long: `Serve renders every example on request and keeps a live session per
browser tab: clicks are sent to the server over a WebSocket and the updated
markup is sent back.

With --metrics, Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var gatherer prometheus.Gatherer
			if a.registry != nil {
				gatherer = a.registry
			}
			s := serve.New(serve.Config{
				Logger:       a.logger,
				ViewOptions:  a.viewOptions(),
				Gatherer:     gatherer,
				SyncInterval: a.cfg.Serve.SyncInterval,
			})
			defer s.Close()

			info(cmd.OutOrStdout(), "Serving examples on http://%s", a.cfg.Serve.Addr)
			return serve.Run(ctx, a.cfg.Serve.Addr, s.Handler(), a.logger)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default "+config.DefaultAddr+")")

	return cmd
}
