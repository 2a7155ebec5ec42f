package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rutero-ai/rutero/config"
	"github.com/rutero-ai/rutero/internal/agent/telemetry"
	"github.com/rutero-ai/rutero/internal/capability"
	"github.com/rutero-ai/rutero/internal/tracing"
)

var dispatcherTracer trace.Tracer = otel.Tracer("rutero/internal/agent/dispatcher")

// Dispatcher is the top-level router. It presents each worker as a capability
// to its own oracle binding and iterates a propose/execute loop until the
// oracle judges the answer complete.
type Dispatcher struct {
	registry      *Registry
	oracle        Oracle
	model         string
	temperature   float64
	workerTimeout time.Duration
	sink          tracing.Sink
	telemetry     *telemetry.Telemetry
	logger        *log.Logger
}

func NewDispatcher(cfg *config.Config, oracle Oracle, registry *Registry, sink tracing.Sink, tel *telemetry.Telemetry) *Dispatcher {
	if sink == nil {
		sink = tracing.Nop{}
	}
	return &Dispatcher{
		registry:      registry,
		oracle:        oracle,
		model:         cfg.LLM.Model,
		temperature:   cfg.LLM.Temperatures.Dispatcher,
		workerTimeout: cfg.Workers.WorkerTimeout,
		sink:          sink,
		telemetry:     tel,
		logger:        log.New(log.Writer(), "[DISPATCHER] ", log.LstdFlags),
	}
}

// workerDescriptors describes each worker to the dispatcher's oracle. Every
// worker takes one free-text query argument.
func workerDescriptors() []capability.Descriptor {
	querySchema := capability.ObjectSchema(map[string]any{
		"query": map[string]any{"type": "string", "description": "The sub-request for this agent, in natural language"},
	}, "query")
	return []capability.Descriptor{
		{
			Name: string(KindFlight),
			Description: "Use this agent when the user needs to search for flights to a destination, compare flight options, " +
				"filter flights by price, airline, or schedule, or get flight recommendations. " +
				"This agent specializes in finding and comparing flights from Buenos Aires to various destinations.",
			Parameters: querySchema,
		},
		{
			Name: string(KindActivity),
			Description: "Use this agent when the user needs to search for activities and attractions in a city, find activities " +
				"by category (culture, adventure, gastronomy, etc.), plan day-by-day itineraries, optimize activity routes, " +
				"or get activity recommendations. This agent specializes in discovering and recommending activities and attractions.",
			Parameters: querySchema,
		},
		{
			Name: string(KindWeather),
			Description: "Use this agent when the user needs weather forecasts for a city, wants to plan activities based on " +
				"weather conditions, or needs daily weather information for trip planning. " +
				"This agent specializes in weather forecasts and weather-based activity planning.",
			Parameters: querySchema,
		},
		{
			Name: string(KindBudget),
			Description: "Use this agent when the user needs to convert currencies (USD to ARS), calculate travel costs, " +
				"optimize budget distribution, or get budget-related information. " +
				"This agent specializes in currency conversion and budget calculations.",
			Parameters: querySchema,
		},
	}
}

// Invoke processes one request end to end. Worker failures never abort the
// loop; they come back to the oracle as error-string tool results. The
// caller's context deadline is the hard stop for the whole invocation.
func (d *Dispatcher) Invoke(ctx context.Context, req Request) (Result, error) {
	startTime := time.Now()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	ctx, span := dispatcherTracer.Start(ctx, "dispatcher.invoke",
		trace.WithAttributes(attribute.String("request.id", req.ID)))
	defer span.End()

	reqTrace := &Trace{RequestID: req.ID}
	workersUsed := map[string]bool{}
	var tokens int64

	event := telemetry.RequestEvent{ID: req.ID, Query: req.Query, StartTime: startTime}
	defer func() {
		event.EndTime = time.Now()
		event.ProcessingTime = event.EndTime.Sub(event.StartTime)
		event.TokensUsed = tokens
		for w := range workersUsed {
			event.WorkersUsed = append(event.WorkersUsed, w)
		}
		event.ModelsUsed = []string{d.model}
		d.telemetry.RecordRequestEvent(ctx, event)
	}()

	d.logger.Printf("Starting request %s", req.ID)
	messages := []Message{{Role: "user", Content: composeQuery(req)}}

	for {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			event.Error = err.Error()
			return Result{}, err
		}

		turnStart := time.Now()
		decision, err := d.oracle.Decide(ctx, DecisionRequest{
			Model:        d.model,
			Temperature:  d.temperature,
			SystemPrompt: dispatcherPrompt,
			Messages:     messages,
			Capabilities: workerDescriptors(),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			event.Error = err.Error()
			return Result{}, fmt.Errorf("dispatcher oracle: %w", err)
		}
		tokens += decision.Usage.PromptTokens + decision.Usage.CompletionTokens
		reqTrace.OracleTurns++
		d.sink.Record(tracing.Event{
			TraceID:   req.ID,
			Kind:      "oracle_turn",
			Name:      "dispatcher",
			Model:     d.model,
			Output:    decision.FinalText,
			StartTime: turnStart,
			EndTime:   time.Now(),
		})

		if decision.Final() {
			event.Success = true
			span.SetAttributes(
				attribute.Int("oracle.turns", reqTrace.OracleTurns),
				attribute.Int("tool.invocations", len(reqTrace.Invocations)),
			)
			workers := make([]string, 0, len(workersUsed))
			for _, k := range Kinds() {
				if workersUsed[string(k)] {
					workers = append(workers, string(k))
				}
			}
			return Result{
				RequestID:      req.ID,
				Answer:         decision.FinalText,
				Trace:          reqTrace,
				ProcessingTime: time.Since(startTime),
				TokensUsed:     tokens,
				WorkersUsed:    workers,
				CreatedAt:      time.Now(),
			}, nil
		}

		messages = append(messages, Message{Role: "assistant", ToolCalls: decision.ToolCalls})
		results := d.executeCalls(ctx, decision.ToolCalls, reqTrace, workersUsed)
		messages = append(messages, results...)
	}
}

// executeCalls runs one turn's worker invocations. Independent calls execute
// concurrently, but results come back in the order the oracle issued them.
func (d *Dispatcher) executeCalls(ctx context.Context, calls []ToolCall, reqTrace *Trace, workersUsed map[string]bool) []Message {
	invocations := make([]ToolInvocation, len(calls))
	outputs := make([]string, len(calls))
	subTraces := make([]*Trace, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		workersUsed[call.Name] = true
		subTraces[i] = &Trace{RequestID: reqTrace.RequestID}
		wg.Add(1)
		go func(i int, call ToolCall) {
			defer wg.Done()
			outputs[i], invocations[i] = d.invokeWorker(ctx, call, subTraces[i])
		}(i, call)
	}
	wg.Wait()

	messages := make([]Message, 0, len(calls))
	for i, call := range calls {
		reqTrace.Invocations = append(reqTrace.Invocations, invocations[i])
		reqTrace.Invocations = append(reqTrace.Invocations, subTraces[i].Invocations...)
		reqTrace.OracleTurns += subTraces[i].OracleTurns
		d.sink.Record(tracing.Event{
			TraceID:   reqTrace.RequestID,
			Kind:      "tool_call",
			Name:      call.Name,
			Caller:    "dispatcher",
			Input:     string(call.Arguments),
			Output:    outputs[i],
			StartTime: invocations[i].StartTime,
			EndTime:   invocations[i].StartTime.Add(invocations[i].Duration),
		})
		messages = append(messages, Message{
			Role:       "tool",
			ToolCallID: call.ID,
			Name:       call.Name,
			Content:    outputs[i],
		})
	}
	return messages
}

// invokeWorker resolves one worker and forwards the derived sub-request. Any
// failure, including a panic, converts to an error-string tool result.
func (d *Dispatcher) invokeWorker(ctx context.Context, call ToolCall, subTrace *Trace) (result string, inv ToolInvocation) {
	start := time.Now()
	inv = ToolInvocation{
		Name:      call.Name,
		Caller:    "dispatcher",
		Arguments: call.Arguments,
		StartTime: start,
	}
	defer func() {
		if r := recover(); r != nil {
			result = fmt.Sprintf("Error in %s: %v", call.Name, r)
			inv.Error = fmt.Sprint(r)
			inv.Result = result
		}
		inv.Duration = time.Since(start)
	}()

	text, err := d.runWorker(ctx, call, subTrace)
	if err != nil {
		d.logger.Printf("worker %s failed: %v", call.Name, err)
		result = fmt.Sprintf("Error in %s: %s", trimAgentSuffix(call.Name), err)
		inv.Error = err.Error()
		inv.Result = result
		return result, inv
	}
	inv.Result = text
	return text, inv
}

func (d *Dispatcher) runWorker(ctx context.Context, call ToolCall, subTrace *Trace) (string, error) {
	var args struct {
		Query string `json:"query"`
	}
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return "", fmt.Errorf("decode query: %w", err)
		}
	}
	worker, err := d.registry.Get(Kind(call.Name))
	if err != nil {
		return "", err
	}
	if d.workerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.workerTimeout)
		defer cancel()
	}
	return worker.Run(ctx, args.Query, subTrace)
}

// trimAgentSuffix turns "flight_agent" into "flight" for error messages.
func trimAgentSuffix(name string) string {
	return strings.TrimSuffix(name, "_agent") + " agent"
}

// composeQuery folds the structured overrides into the free-text query.
func composeQuery(req Request) string {
	var b strings.Builder
	b.WriteString(req.Query)
	if req.Budget > 0 {
		fmt.Fprintf(&b, "\nTotal budget: $%g USD.", req.Budget)
	}
	if req.Days > 0 {
		fmt.Fprintf(&b, "\nTrip length: %d days.", req.Days)
	}
	if len(req.Preferences) > 0 {
		fmt.Fprintf(&b, "\nPreferences: %s.", strings.Join(req.Preferences, ", "))
	}
	return b.String()
}
