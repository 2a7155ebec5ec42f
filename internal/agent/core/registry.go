package core

import (
	"fmt"
	"sync"

	"github.com/rutero-ai/rutero/config"
	"github.com/rutero-ai/rutero/internal/agent/telemetry"
	"github.com/rutero-ai/rutero/internal/tracing"
)

// Registry hands out workers, constructing each kind lazily and exactly once.
// Concurrent first access for the same kind yields the identical instance.
type Registry struct {
	mu      sync.Mutex
	workers map[Kind]*Worker
	build   func(Kind) (*Worker, error)
}

// NewRegistry wires worker construction to the shared toolbox, oracle,
// tracing sink and telemetry. The per-kind temperature comes from config.
func NewRegistry(cfg *config.Config, oracle Oracle, toolbox *Toolbox, sink tracing.Sink, tel *telemetry.Telemetry) *Registry {
	if sink == nil {
		sink = tracing.Nop{}
	}
	return &Registry{
		workers: make(map[Kind]*Worker),
		build: func(kind Kind) (*Worker, error) {
			model := cfg.LLM.Model
			temps := cfg.LLM.Temperatures
			switch kind {
			case KindFlight:
				return newWorker(kind, oracle, model, temps.Flight, flightPrompt,
					[]Tool{toolbox.SearchFlights()}, sink, tel)
			case KindActivity:
				return newWorker(kind, oracle, model, temps.Activity, activityPrompt,
					[]Tool{
						toolbox.SearchActivities(),
						toolbox.SearchActivityDescriptions(),
						toolbox.PlanItinerary(),
						toolbox.OptimizeRoute(),
						toolbox.GetRecommendations(),
					}, sink, tel)
			case KindWeather:
				return newWorker(kind, oracle, model, temps.Weather, weatherPrompt,
					[]Tool{toolbox.GetWeather()}, sink, tel)
			case KindBudget:
				return newWorker(kind, oracle, model, temps.Budget, budgetPrompt,
					[]Tool{toolbox.ConvertUSDToARS(), toolbox.OptimizeBudget()}, sink, tel)
			default:
				return nil, fmt.Errorf("unknown worker kind %q", kind)
			}
		},
	}
}

// Get returns the cached worker for kind, constructing it on first access.
func (r *Registry) Get(kind Kind) (*Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.workers[kind]; ok {
		return w, nil
	}
	w, err := r.build(kind)
	if err != nil {
		return nil, err
	}
	r.workers[kind] = w
	return w, nil
}
