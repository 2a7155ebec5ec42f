package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rutero-ai/rutero/config"
	"github.com/rutero-ai/rutero/internal/agent/core"
	"github.com/rutero-ai/rutero/internal/agent/telemetry"
	"github.com/rutero-ai/rutero/internal/cache"
	"github.com/rutero-ai/rutero/internal/dataset"
	"github.com/rutero-ai/rutero/internal/services/currency"
	"github.com/rutero-ai/rutero/internal/services/weather"
	"github.com/rutero-ai/rutero/internal/tracing"
)

func main() {
	root := &cobra.Command{Use: "rutero", Short: "Multi-agent travel planner"}
	root.AddCommand(planCMD(), serveCMD(), migrateCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired dispatcher with everything that needs flushing on
// exit.
type app struct {
	cfg        *config.Config
	dispatcher *core.Dispatcher
	sink       tracing.Sink
	telemetry  *telemetry.Telemetry
}

func buildApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	var store *dataset.Store
	switch cfg.Dataset.Source {
	case "postgres":
		store, err = dataset.NewPostgresStore(ctx, cfg.Dataset.Postgres)
	default:
		store, err = dataset.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	c := cache.FromConfig(cfg.Cache)
	toolbox := core.NewToolbox(store,
		weather.NewClient(cfg.Services.Weather, c),
		currency.NewClient(cfg.Services.Currency, c),
	)

	oracle, err := core.NewOpenAIOracle(cfg.LLM)
	if err != nil {
		return nil, err
	}

	sink := tracing.FromConfig(cfg.Tracing)
	tel := telemetry.NewTelemetry(cfg.Telemetry)
	registry := core.NewRegistry(cfg, oracle, toolbox, sink, tel)

	return &app{
		cfg:        cfg,
		dispatcher: core.NewDispatcher(cfg, oracle, registry, sink, tel),
		sink:       sink,
		telemetry:  tel,
	}, nil
}

func (a *app) close(ctx context.Context) {
	_ = a.sink.Flush(ctx)
	if closer, ok := a.sink.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	a.telemetry.Shutdown()
}
