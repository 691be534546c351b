package main

import (
	"github.com/spf13/cobra"

	"github.com/njchilds90/plotsense/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis over HTTP",
		Long: `Serve the analysis over HTTP until interrupted.

  POST /analyze  {"functions": ["x^2 - 4"], "xmin": -5, "xmax": 5, "npoints": 1600}
  POST /plot     same body, responds with a PNG
  GET  /schema
  GET  /health
  GET  /metrics  Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			an, err := a.analyzer()
			if err != nil {
				return err
			}
			return server.New(an, a.cfg.Interval, a.cfg.Server, a.log).ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
