package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rutero-ai/rutero/config"
	"github.com/rutero-ai/rutero/internal/agent/telemetry"
	"github.com/rutero-ai/rutero/internal/dataset"
	"github.com/rutero-ai/rutero/internal/services/currency"
	"github.com/rutero-ai/rutero/internal/services/weather"
	"github.com/rutero-ai/rutero/internal/tracing"
)

// scriptedOracle replays canned decisions per oracle binding, keyed by system
// prompt. An optional delay simulates slow turns.
type scriptedOracle struct {
	mu      sync.Mutex
	scripts map[string][]Decision
	delays  map[string]time.Duration
}

func newScriptedOracle() *scriptedOracle {
	return &scriptedOracle{
		scripts: make(map[string][]Decision),
		delays:  make(map[string]time.Duration),
	}
}

func (o *scriptedOracle) enqueue(prompt string, d Decision) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scripts[prompt] = append(o.scripts[prompt], d)
}

func (o *scriptedOracle) Decide(ctx context.Context, req DecisionRequest) (Decision, error) {
	o.mu.Lock()
	delay := o.delays[req.SystemPrompt]
	queue := o.scripts[req.SystemPrompt]
	if len(queue) == 0 {
		o.mu.Unlock()
		return Decision{}, fmt.Errorf("no scripted decision for this binding")
	}
	next := queue[0]
	o.scripts[req.SystemPrompt] = queue[1:]
	o.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Decision{}, ctx.Err()
		}
	}
	return next, nil
}

func toolCall(id, name, args string) ToolCall {
	return ToolCall{ID: id, Name: name, Arguments: json.RawMessage(args)}
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Model: "anthropic/claude-3.5-sonnet",
			Temperatures: config.TemperatureConfig{
				Dispatcher: 0.3, Flight: 0.3, Activity: 0.5, Weather: 0.3, Budget: 0.2,
			},
		},
		Workers: config.WorkersConfig{WorkerTimeout: 30 * time.Second},
	}
}

func testToolbox(t *testing.T) *Toolbox {
	t.Helper()
	store, err := dataset.NewFromRecords([]dataset.ActivityRecord{
		{City: "Madrid", Name: "Prado Museum", Category: "culture", CostUSD: 15, IdealWeather: "any", Description: "World-class art museum"},
		{City: "Madrid", Name: "Retiro Park Walk", Category: "adventure", CostUSD: 0, IdealWeather: "sunny", Description: "Stroll through the park"},
		{City: "Madrid", Name: "Tapas Route", Category: "gastronomy", CostUSD: 35, IdealWeather: "any", Description: "Guided tapas crawl"},
	}, []dataset.FlightRecord{
		{Destination: "Madrid", Airline: "Iberia", FlightNumber: "IB6842", PriceUSD: 950, DepartureTime: "22:05", ArrivalTime: "14:30", DurationHours: 12.5},
		{Destination: "Madrid", Airline: "Aerolineas Argentinas", FlightNumber: "AR1132", PriceUSD: 870, DepartureTime: "23:40", ArrivalTime: "16:10", DurationHours: 12.5},
	})
	if err != nil {
		t.Fatalf("build store: %v", err)
	}

	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily":{"time":["2026-08-28"],"temperature_2m_max":[30],"temperature_2m_min":[18],"weather_code":[0],"precipitation_sum":[0]}}`))
	}))
	t.Cleanup(weatherSrv.Close)
	currencySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"ARS":1000}}`))
	}))
	t.Cleanup(currencySrv.Close)

	return NewToolbox(store,
		weather.NewClient(config.WeatherConfig{BaseURL: weatherSrv.URL, Timeout: 2 * time.Second}, nil),
		currency.NewClient(config.CurrencyConfig{BaseURL: currencySrv.URL, Timeout: 2 * time.Second, FallbackRate: 1000}, nil),
	)
}

func testRegistry(t *testing.T, oracle Oracle) *Registry {
	t.Helper()
	return NewRegistry(testConfig(), oracle, testToolbox(t), tracing.Nop{}, telemetry.NewTelemetry(config.TelemetryConfig{}))
}
