package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rutero-ai/rutero/internal/agent/telemetry"
	"github.com/rutero-ai/rutero/internal/capability"
	"github.com/rutero-ai/rutero/internal/tracing"
)

// Kind identifies a worker domain. The values double as the capability names
// the dispatcher exposes to its oracle.
type Kind string

const (
	KindFlight   Kind = "flight_agent"
	KindActivity Kind = "activity_agent"
	KindWeather  Kind = "weather_agent"
	KindBudget   Kind = "budget_agent"
)

// Kinds lists every worker kind in the dispatcher's advisory ordering.
func Kinds() []Kind {
	return []Kind{KindFlight, KindWeather, KindActivity, KindBudget}
}

// Worker couples an oracle binding with a fixed capability subset and a
// scope-limiting prompt. Workers are stateless between invocations and safe
// for concurrent use.
type Worker struct {
	kind        Kind
	oracle      Oracle
	model       string
	temperature float64
	prompt      string
	tools       map[string]Tool
	catalog     *capability.Catalog
	sink        tracing.Sink
	telemetry   *telemetry.Telemetry
	logger      *log.Logger
}

func newWorker(kind Kind, oracle Oracle, model string, temperature float64, prompt string, tools []Tool, sink tracing.Sink, tel *telemetry.Telemetry) (*Worker, error) {
	byName := make(map[string]Tool, len(tools))
	descriptors := make([]capability.Descriptor, 0, len(tools))
	for _, t := range tools {
		byName[t.Name] = t
		descriptors = append(descriptors, t.Descriptor)
	}
	catalog, err := capability.NewCatalog(descriptors...)
	if err != nil {
		return nil, fmt.Errorf("worker %s: %w", kind, err)
	}
	return &Worker{
		kind:        kind,
		oracle:      oracle,
		model:       model,
		temperature: temperature,
		prompt:      prompt,
		tools:       byName,
		catalog:     catalog,
		sink:        sink,
		telemetry:   tel,
		logger:      log.New(log.Writer(), fmt.Sprintf("[%s] ", kind), log.LstdFlags),
	}, nil
}

// Kind returns the worker's domain identifier.
func (w *Worker) Kind() Kind { return w.kind }

// Capabilities returns the worker's capability subset.
func (w *Worker) Capabilities() []capability.Descriptor { return w.catalog.List() }

// Run drives the worker's own oracle loop for a derived sub-request and
// returns the oracle's final textual answer. Tool calls within a turn run
// sequentially; the context deadline is the only hard stop.
func (w *Worker) Run(ctx context.Context, query string, trace *Trace) (string, error) {
	start := time.Now()
	messages := []Message{{Role: "user", Content: query}}
	var tokens int64

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		turnStart := time.Now()
		decision, err := w.oracle.Decide(ctx, DecisionRequest{
			Model:        w.model,
			Temperature:  w.temperature,
			SystemPrompt: w.prompt,
			Messages:     messages,
			Capabilities: w.catalog.List(),
		})
		if err != nil {
			return "", fmt.Errorf("%s oracle: %w", w.kind, err)
		}
		tokens += decision.Usage.PromptTokens + decision.Usage.CompletionTokens
		if trace != nil {
			trace.OracleTurns++
		}
		w.sink.Record(tracing.Event{
			TraceID:   traceID(trace),
			Kind:      "oracle_turn",
			Name:      string(w.kind),
			Model:     w.model,
			Output:    decision.FinalText,
			StartTime: turnStart,
			EndTime:   time.Now(),
		})

		if decision.Final() {
			w.telemetry.RecordWorkerEvent(ctx, telemetry.WorkerEvent{
				Worker:     string(w.kind),
				StartTime:  start,
				EndTime:    time.Now(),
				Duration:   time.Since(start),
				Success:    true,
				TokensUsed: tokens,
				ModelUsed:  w.model,
			})
			return decision.FinalText, nil
		}

		messages = append(messages, Message{Role: "assistant", ToolCalls: decision.ToolCalls})
		for _, call := range decision.ToolCalls {
			result := w.invokeTool(ctx, call, trace)
			messages = append(messages, Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Name:       call.Name,
				Content:    result,
			})
		}
	}
}

// invokeTool validates and executes one capability call. Failures come back
// as error text so the oracle can react instead of the loop aborting.
func (w *Worker) invokeTool(ctx context.Context, call ToolCall, trace *Trace) string {
	start := time.Now()
	result, err := w.runTool(ctx, call)

	inv := ToolInvocation{
		Name:      call.Name,
		Caller:    string(w.kind),
		Arguments: call.Arguments,
		Result:    result,
		StartTime: start,
		Duration:  time.Since(start),
	}
	if err != nil {
		inv.Error = err.Error()
		result = fmt.Sprintf("Error: %s", err)
		inv.Result = result
		w.logger.Printf("tool %s failed: %v", call.Name, err)
	}
	if trace != nil {
		trace.Invocations = append(trace.Invocations, inv)
	}
	w.sink.Record(tracing.Event{
		TraceID:   traceID(trace),
		Kind:      "tool_call",
		Name:      call.Name,
		Caller:    string(w.kind),
		Input:     string(call.Arguments),
		Output:    result,
		StartTime: start,
		EndTime:   time.Now(),
	})
	w.telemetry.RecordToolEvent(ctx, telemetry.ToolEvent{
		Tool:      call.Name,
		Caller:    string(w.kind),
		StartTime: start,
		EndTime:   time.Now(),
		Duration:  time.Since(start),
		Success:   err == nil,
		Error:     inv.Error,
	})
	return result
}

func (w *Worker) runTool(ctx context.Context, call ToolCall) (string, error) {
	tool, ok := w.tools[call.Name]
	if !ok {
		return "", fmt.Errorf("unknown capability %q", call.Name)
	}
	if err := tool.ValidateArgs(call.Arguments); err != nil {
		return "", err
	}
	return tool.Run(ctx, call.Arguments)
}

func traceID(trace *Trace) string {
	if trace == nil {
		return ""
	}
	return trace.RequestID
}
