package telemetry

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rutero-ai/rutero/config"
)

// Telemetry provides monitoring and cost tracking over dispatched requests,
// worker executions, tool invocations and oracle turns.
type Telemetry struct {
	config      config.TelemetryConfig
	logger      *log.Logger
	metrics     *Metrics
	costTracker *CostTracker
	mu          sync.RWMutex
}

// Metrics holds various performance metrics.
type Metrics struct {
	// Request metrics
	TotalRequests         int64
	SuccessfulRequests    int64
	FailedRequests        int64
	AverageProcessingTime time.Duration

	// Worker metrics
	WorkerExecutions   map[string]int64
	WorkerSuccessRates map[string]float64
	WorkerAverageTimes map[string]time.Duration

	// Oracle metrics
	OracleRequests   map[string]int64
	OracleTokensUsed map[string]int64

	// Tool metrics
	ToolInvocations  map[string]int64
	ToolFailures     map[string]int64
	ToolAverageTimes map[string]time.Duration
}

// CostTracker tracks oracle spend per model and per worker.
type CostTracker struct {
	ModelCosts  map[string]float64
	WorkerCosts map[string]float64
	TotalCost   float64
	TotalTokens int64
}

// RequestEvent represents one complete dispatched request.
type RequestEvent struct {
	ID             string
	Query          string
	StartTime      time.Time
	EndTime        time.Time
	ProcessingTime time.Duration
	Success        bool
	Error          string
	Cost           float64
	TokensUsed     int64
	WorkersUsed    []string
	ModelsUsed     []string
}

// WorkerEvent represents one worker sub-invocation.
type WorkerEvent struct {
	Worker     string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Success    bool
	Error      string
	Cost       float64
	TokensUsed int64
	ModelUsed  string
}

// ToolEvent represents one capability invocation.
type ToolEvent struct {
	Tool      string
	Caller    string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Success   bool
	Error     string
}

// NewTelemetry creates a new telemetry instance.
func NewTelemetry(cfg config.TelemetryConfig) *Telemetry {
	t := &Telemetry{
		config: cfg,
		logger: log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		metrics: &Metrics{
			WorkerExecutions:   make(map[string]int64),
			WorkerSuccessRates: make(map[string]float64),
			WorkerAverageTimes: make(map[string]time.Duration),
			OracleRequests:     make(map[string]int64),
			OracleTokensUsed:   make(map[string]int64),
			ToolInvocations:    make(map[string]int64),
			ToolFailures:       make(map[string]int64),
			ToolAverageTimes:   make(map[string]time.Duration),
		},
		costTracker: &CostTracker{
			ModelCosts:  make(map[string]float64),
			WorkerCosts: make(map[string]float64),
		},
	}

	if cfg.Enabled && cfg.PeriodicLogs {
		go t.startMetricsCollection()
	}

	return t
}

// RecordRequestEvent records a complete request cycle.
func (t *Telemetry) RecordRequestEvent(ctx context.Context, event RequestEvent) {
	if !t.config.Enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.TotalRequests++
	if event.Success {
		t.metrics.SuccessfulRequests++
	} else {
		t.metrics.FailedRequests++
	}

	if t.metrics.TotalRequests == 1 {
		t.metrics.AverageProcessingTime = event.ProcessingTime
	} else {
		total := t.metrics.AverageProcessingTime * time.Duration(t.metrics.TotalRequests-1)
		t.metrics.AverageProcessingTime = (total + event.ProcessingTime) / time.Duration(t.metrics.TotalRequests)
	}

	for _, model := range event.ModelsUsed {
		t.metrics.OracleRequests[model]++
		t.metrics.OracleTokensUsed[model] += event.TokensUsed
	}

	t.costTracker.TotalCost += event.Cost
	t.costTracker.TotalTokens += event.TokensUsed

	t.logger.Printf("Request Event: ID=%s, Success=%t, Duration=%v, Cost=$%.4f, Tokens=%d",
		event.ID, event.Success, event.ProcessingTime, event.Cost, event.TokensUsed)
}

// RecordWorkerEvent records a worker sub-invocation.
func (t *Telemetry) RecordWorkerEvent(ctx context.Context, event WorkerEvent) {
	if !t.config.Enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.WorkerExecutions[event.Worker]++

	currentSuccess := t.metrics.WorkerSuccessRates[event.Worker]
	currentExecutions := t.metrics.WorkerExecutions[event.Worker]
	if event.Success {
		currentSuccess += 1.0
	}
	t.metrics.WorkerSuccessRates[event.Worker] = currentSuccess / float64(currentExecutions)

	currentAvg := t.metrics.WorkerAverageTimes[event.Worker]
	if currentExecutions == 1 {
		t.metrics.WorkerAverageTimes[event.Worker] = event.Duration
	} else {
		total := currentAvg * time.Duration(currentExecutions-1)
		t.metrics.WorkerAverageTimes[event.Worker] = (total + event.Duration) / time.Duration(currentExecutions)
	}

	t.metrics.OracleRequests[event.ModelUsed]++
	t.metrics.OracleTokensUsed[event.ModelUsed] += event.TokensUsed

	t.costTracker.TotalCost += event.Cost
	t.costTracker.TotalTokens += event.TokensUsed
	t.costTracker.ModelCosts[event.ModelUsed] += event.Cost
	t.costTracker.WorkerCosts[event.Worker] += event.Cost

	t.logger.Printf("Worker Event: Worker=%s, Success=%t, Duration=%v, Cost=$%.4f",
		event.Worker, event.Success, event.Duration, event.Cost)
}

// RecordToolEvent records a capability invocation.
func (t *Telemetry) RecordToolEvent(ctx context.Context, event ToolEvent) {
	if !t.config.Enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.ToolInvocations[event.Tool]++
	if !event.Success {
		t.metrics.ToolFailures[event.Tool]++
	}

	currentInvocations := t.metrics.ToolInvocations[event.Tool]
	currentAvg := t.metrics.ToolAverageTimes[event.Tool]
	if currentInvocations == 1 {
		t.metrics.ToolAverageTimes[event.Tool] = event.Duration
	} else {
		total := currentAvg * time.Duration(currentInvocations-1)
		t.metrics.ToolAverageTimes[event.Tool] = (total + event.Duration) / time.Duration(currentInvocations)
	}

	t.logger.Printf("Tool Event: Tool=%s, Caller=%s, Success=%t, Duration=%v",
		event.Tool, event.Caller, event.Success, event.Duration)
}

// GetMetrics returns a current metrics snapshot.
func (t *Telemetry) GetMetrics() Metrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	metrics := *t.metrics
	metrics.WorkerExecutions = copyMap(t.metrics.WorkerExecutions)
	metrics.WorkerSuccessRates = copyMap(t.metrics.WorkerSuccessRates)
	metrics.WorkerAverageTimes = copyMap(t.metrics.WorkerAverageTimes)
	metrics.OracleRequests = copyMap(t.metrics.OracleRequests)
	metrics.OracleTokensUsed = copyMap(t.metrics.OracleTokensUsed)
	metrics.ToolInvocations = copyMap(t.metrics.ToolInvocations)
	metrics.ToolFailures = copyMap(t.metrics.ToolFailures)
	metrics.ToolAverageTimes = copyMap(t.metrics.ToolAverageTimes)
	return metrics
}

func copyMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// GetCostSummary returns the current cost summary.
func (t *Telemetry) GetCostSummary() CostSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return CostSummary{
		TotalCost:   t.costTracker.TotalCost,
		TotalTokens: t.costTracker.TotalTokens,
		ModelCosts:  copyMap(t.costTracker.ModelCosts),
		WorkerCosts: copyMap(t.costTracker.WorkerCosts),
	}
}

// CostSummary provides a summary of oracle spend.
type CostSummary struct {
	TotalCost   float64
	TotalTokens int64
	ModelCosts  map[string]float64
	WorkerCosts map[string]float64
}

// CalculateCost calculates the cost for a given number of tokens.
func (t *Telemetry) CalculateCost(inputTokens, outputTokens int64, costPer1KInput, costPer1KOutput float64) float64 {
	inputCost := float64(inputTokens) / 1000.0 * costPer1KInput
	outputCost := float64(outputTokens) / 1000.0 * costPer1KOutput
	return inputCost + outputCost
}

// startMetricsCollection starts periodic metrics logging.
func (t *Telemetry) startMetricsCollection() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		metrics := t.GetMetrics()
		costs := t.GetCostSummary()

		t.logger.Printf("Metrics Snapshot: Requests=%d/%d, AvgTime=%v, TotalCost=$%.4f, TotalTokens=%d",
			metrics.SuccessfulRequests, metrics.TotalRequests,
			metrics.AverageProcessingTime, costs.TotalCost, costs.TotalTokens)
	}
}

// Shutdown logs a final report.
func (t *Telemetry) Shutdown() {
	metrics := t.GetMetrics()
	costs := t.GetCostSummary()
	if metrics.TotalRequests == 0 {
		return
	}

	t.logger.Printf("Final Report:")
	t.logger.Printf("  Total Requests: %d", metrics.TotalRequests)
	t.logger.Printf("  Success Rate: %.2f%%", float64(metrics.SuccessfulRequests)/float64(metrics.TotalRequests)*100)
	t.logger.Printf("  Average Processing Time: %v", metrics.AverageProcessingTime)
	t.logger.Printf("  Total Cost: $%.4f", costs.TotalCost)
	t.logger.Printf("  Total Tokens: %d", costs.TotalTokens)
}

// GetPerformanceReport returns a human-readable performance report.
func (t *Telemetry) GetPerformanceReport() string {
	metrics := t.GetMetrics()
	costs := t.GetCostSummary()
	if metrics.TotalRequests == 0 {
		return "No requests processed yet.\n"
	}

	report := fmt.Sprintf(`
=== PERFORMANCE REPORT ===
Overall Metrics:
  Total Requests: %d
  Successful: %d (%.2f%%)
  Failed: %d (%.2f%%)
  Average Processing Time: %v
  Total Cost: $%.4f
  Total Tokens: %d

Worker Performance:
`, metrics.TotalRequests, metrics.SuccessfulRequests,
		float64(metrics.SuccessfulRequests)/float64(metrics.TotalRequests)*100,
		metrics.FailedRequests, float64(metrics.FailedRequests)/float64(metrics.TotalRequests)*100,
		metrics.AverageProcessingTime, costs.TotalCost, costs.TotalTokens)

	for worker, executions := range metrics.WorkerExecutions {
		successRate := metrics.WorkerSuccessRates[worker]
		avgTime := metrics.WorkerAverageTimes[worker]
		report += fmt.Sprintf("  %s: %d executions, %.2f%% success, %v avg time\n",
			worker, executions, successRate*100, avgTime)
	}

	report += "\nOracle Usage:\n"
	for model, requests := range metrics.OracleRequests {
		tokens := metrics.OracleTokensUsed[model]
		cost := costs.ModelCosts[model]
		report += fmt.Sprintf("  %s: %d requests, %d tokens, $%.4f\n", model, requests, tokens, cost)
	}

	report += "\nTool Usage:\n"
	for tool, invocations := range metrics.ToolInvocations {
		failures := metrics.ToolFailures[tool]
		avgTime := metrics.ToolAverageTimes[tool]
		report += fmt.Sprintf("  %s: %d invocations, %d failures, %v avg time\n", tool, invocations, failures, avgTime)
	}

	return report
}
