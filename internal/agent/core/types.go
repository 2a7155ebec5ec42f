package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rutero-ai/rutero/internal/capability"
)

// Request represents one end-to-end travel planning query. The structured
// fields are optional overrides appended to the free-text query.
type Request struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Budget      float64   `json:"budget,omitempty"`
	Days        int       `json:"days,omitempty"`
	Preferences []string  `json:"preferences,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Message is one entry in an oracle conversation.
type Message struct {
	Role       string     `json:"role"` // system, user, assistant, tool
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall is one capability invocation proposed by the oracle.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Usage reports token consumption for one oracle turn.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

// Decision is the normalized outcome of one oracle turn: either a final
// answer or a list of capability calls to perform next, never both.
type Decision struct {
	FinalText string
	ToolCalls []ToolCall
	Usage     Usage
}

// Final reports whether the oracle considers the answer complete.
func (d Decision) Final() bool { return len(d.ToolCalls) == 0 }

// DecisionRequest carries everything an oracle needs for one turn.
type DecisionRequest struct {
	Model        string
	Temperature  float64
	SystemPrompt string
	Messages     []Message
	Capabilities []capability.Descriptor
}

// Oracle is the reasoning engine deciding which capabilities to invoke. It is
// opaque; tests substitute a scripted implementation.
type Oracle interface {
	Decide(ctx context.Context, req DecisionRequest) (Decision, error)
}

// ToolInvocation records one capability call for tracing and tests.
type ToolInvocation struct {
	Name      string          `json:"name"`
	Caller    string          `json:"caller"`
	Arguments json.RawMessage `json:"arguments"`
	Result    string          `json:"result"`
	Error     string          `json:"error,omitempty"`
	StartTime time.Time       `json:"start_time"`
	Duration  time.Duration   `json:"duration"`
}

// Trace accumulates the observable steps of one request.
type Trace struct {
	RequestID   string           `json:"request_id"`
	OracleTurns int              `json:"oracle_turns"`
	Invocations []ToolInvocation `json:"invocations"`
}

// Result is the final output of a dispatched request.
type Result struct {
	RequestID      string        `json:"request_id"`
	Answer         string        `json:"answer"`
	Trace          *Trace        `json:"trace,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
	TokensUsed     int64         `json:"tokens_used"`
	WorkersUsed    []string      `json:"workers_used"`
	CreatedAt      time.Time     `json:"created_at"`
}
