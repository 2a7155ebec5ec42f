package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rutero-ai/rutero/config"
	"github.com/rutero-ai/rutero/internal/capability"
)

func chatServer(t *testing.T, handler func(req map[string]any) string) (*httptest.Server, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r.Clone(r.Context())
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode chat request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(handler(req))); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func newTestOracle(t *testing.T, baseURL string) *OpenAIOracle {
	t.Helper()
	o, err := NewOpenAIOracle(config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("new oracle: %v", err)
	}
	return o
}

func TestOracleRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIOracle(config.LLMConfig{}); err == nil {
		t.Fatalf("empty api key must be rejected")
	}
}

func TestOracleFinalAnswer(t *testing.T) {
	srv, captured := chatServer(t, func(req map[string]any) string {
		return `{"choices":[{"message":{"role":"assistant","content":"All set."}}],
		         "usage":{"prompt_tokens":120,"completion_tokens":34}}`
	})

	o := newTestOracle(t, srv.URL)
	d, err := o.Decide(context.Background(), DecisionRequest{
		Model:        "anthropic/claude-3.5-sonnet",
		Temperature:  0.3,
		SystemPrompt: "You are a planner.",
		Messages:     []Message{{Role: "user", Content: "plan Madrid"}},
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if !d.Final() || d.FinalText != "All set." {
		t.Fatalf("expected final decision, got %+v", d)
	}
	if d.Usage.PromptTokens != 120 || d.Usage.CompletionTokens != 34 {
		t.Fatalf("usage not captured: %+v", d.Usage)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer test-key" {
		t.Fatalf("auth header = %q", got)
	}
	if captured.URL.Path != "/chat/completions" {
		t.Fatalf("path = %q", captured.URL.Path)
	}
}

func TestOracleParsesToolCalls(t *testing.T) {
	srv, _ := chatServer(t, func(req map[string]any) string {
		return `{"choices":[{"message":{"role":"assistant","content":"",
		  "tool_calls":[
		    {"id":"c1","type":"function","function":{"name":"search_flights","arguments":"{\"destination\":\"Madrid\"}"}},
		    {"id":"c2","type":"function","function":{"name":"get_weather","arguments":""}}
		  ]}}]}`
	})

	o := newTestOracle(t, srv.URL)
	d, err := o.Decide(context.Background(), DecisionRequest{Model: "m", Messages: []Message{{Role: "user", Content: "q"}}})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if d.Final() {
		t.Fatalf("tool-call turn must not be final")
	}
	if len(d.ToolCalls) != 2 {
		t.Fatalf("want 2 tool calls, got %d", len(d.ToolCalls))
	}
	if d.ToolCalls[0].Name != "search_flights" || d.ToolCalls[0].ID != "c1" {
		t.Fatalf("first call = %+v", d.ToolCalls[0])
	}
	var args map[string]string
	if err := json.Unmarshal(d.ToolCalls[0].Arguments, &args); err != nil {
		t.Fatalf("arguments not raw json: %v", err)
	}
	if args["destination"] != "Madrid" {
		t.Fatalf("arguments = %v", args)
	}
	// Empty argument strings normalize to an empty object.
	if string(d.ToolCalls[1].Arguments) != "{}" {
		t.Fatalf("empty arguments = %q", d.ToolCalls[1].Arguments)
	}
}

func TestOracleSendsSystemPromptAndTools(t *testing.T) {
	var seen map[string]any
	srv, _ := chatServer(t, func(req map[string]any) string {
		seen = req
		return `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`
	})

	o := newTestOracle(t, srv.URL)
	desc := capability.Descriptor{
		Name:        "search_flights",
		Description: "Search flights.",
		Parameters:  capability.ObjectSchema(map[string]any{"destination": map[string]any{"type": "string"}}, "destination"),
	}
	_, err := o.Decide(context.Background(), DecisionRequest{
		Model:        "m",
		SystemPrompt: "system text",
		Messages:     []Message{{Role: "user", Content: "q"}},
		Capabilities: []capability.Descriptor{desc},
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	msgs := seen["messages"].([]any)
	first := msgs[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "system text" {
		t.Fatalf("system prompt must lead the message list, got %v", first)
	}
	tools := seen["tools"].([]any)
	tool := tools[0].(map[string]any)
	if tool["type"] != "function" {
		t.Fatalf("tool type = %v", tool["type"])
	}
	fn := tool["function"].(map[string]any)
	if fn["name"] != "search_flights" {
		t.Fatalf("tool name = %v", fn["name"])
	}
}

func TestOracleNoChoices(t *testing.T) {
	srv, _ := chatServer(t, func(req map[string]any) string {
		return `{"choices":[]}`
	})
	o := newTestOracle(t, srv.URL)
	if _, err := o.Decide(context.Background(), DecisionRequest{Model: "m"}); err == nil {
		t.Fatalf("empty choices must error")
	}
}
