package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rutero-ai/rutero/config"
	"github.com/rutero-ai/rutero/internal/agent/core"
	"github.com/rutero-ai/rutero/internal/agent/telemetry"
	"github.com/rutero-ai/rutero/internal/cache"
	"github.com/rutero-ai/rutero/internal/dataset"
	"github.com/rutero-ai/rutero/internal/qa"
	"github.com/rutero-ai/rutero/internal/services/currency"
	"github.com/rutero-ai/rutero/internal/services/weather"
	"github.com/rutero-ai/rutero/internal/tracing"
)

func main() {
	var cfgPath string
	var caseID string
	flag.StringVar(&cfgPath, "config", "", "config file (default is .)")
	flag.StringVar(&caseID, "case", "", "run a single case by ID (TC-001, TC-MA-001, ...)")
	flag.Parse()

	if err := run(cfgPath, caseID); err != nil {
		fmt.Fprintf(os.Stderr, "qa: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, caseID string) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	store, err := dataset.Load()
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	c := cache.FromConfig(cfg.Cache)
	toolbox := core.NewToolbox(store,
		weather.NewClient(cfg.Services.Weather, c),
		currency.NewClient(cfg.Services.Currency, c),
	)
	oracle, err := core.NewOpenAIOracle(cfg.LLM)
	if err != nil {
		return err
	}
	tel := telemetry.NewTelemetry(cfg.Telemetry)
	registry := core.NewRegistry(cfg, oracle, toolbox, tracing.Nop{}, tel)
	dispatcher := core.NewDispatcher(cfg, oracle, registry, tracing.Nop{}, tel)

	cases := qa.Cases
	if caseID != "" {
		tc, ok := qa.CaseByID(caseID)
		if !ok {
			return fmt.Errorf("case %s not found", caseID)
		}
		cases = []qa.Case{tc}
	}

	ctx := context.Background()
	if cfg.General.MaxProcessingTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.General.MaxProcessingTime*time.Duration(len(cases)))
		defer cancel()
	}

	sum := qa.NewRunner(dispatcher, os.Stdout).Run(ctx, cases)
	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d cases failed", sum.Failed, len(cases))
	}
	return nil
}
