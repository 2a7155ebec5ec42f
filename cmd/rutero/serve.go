package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rutero-ai/rutero/internal/runtime"
	srv "github.com/rutero-ai/rutero/internal/server"
)

func serveCMD() *cobra.Command {
	var cfgPath string
	var addr string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, cfgPath)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			rt, _, _, err := runtime.SetupTelemetry(ctx, a.cfg.Telemetry, runtime.TelemetryOptions{
				ServiceName:    "rutero",
				ServiceVersion: "dev",
				MetricsPort:    a.cfg.Telemetry.MetricsPort,
			})
			if err != nil {
				return err
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = rt.Shutdown(sctx)
			}()

			if addr == "" {
				addr = a.cfg.Server.Address
			}
			if addr == "" {
				addr = ":8080"
			}
			return srv.New(a.cfg, a.dispatcher).Start(addr)
		},
	}
	serve.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")
	serve.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return serve
}
