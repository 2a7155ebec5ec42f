package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rutero-ai/rutero/config"
	"github.com/rutero-ai/rutero/internal/capability"
	"github.com/rutero-ai/rutero/internal/httpx"
)

// OpenAIOracle speaks the OpenAI chat-completions protocol with native tool
// calling. OpenRouter and compatible gateways work unchanged.
type OpenAIOracle struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
}

func NewOpenAIOracle(cfg config.LLMConfig) (*OpenAIOracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is not configured")
	}
	return &OpenAIOracle{
		http:    httpx.NewClient(cfg.Timeout, cfg.MaxRetries, 0),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

type chatTool struct {
	Type     string                `json:"type"`
	Function capability.Descriptor `json:"function"`
}

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Name       string         `json:"name,omitempty"`
}

type chatToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Tools       []chatTool    `json:"tools,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

// Decide runs one oracle turn and normalizes the response into a Decision.
func (o *OpenAIOracle) Decide(ctx context.Context, req DecisionRequest) (Decision, error) {
	body := chatRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
	}
	if req.SystemPrompt != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		cm := chatMessage{Role: m.Role, Content: m.Content, ToolCallID: m.ToolCallID, Name: m.Name}
		for _, tc := range m.ToolCalls {
			ctc := chatToolCall{ID: tc.ID, Type: "function"}
			ctc.Function.Name = tc.Name
			ctc.Function.Arguments = string(tc.Arguments)
			cm.ToolCalls = append(cm.ToolCalls, ctc)
		}
		body.Messages = append(body.Messages, cm)
	}
	for _, d := range req.Capabilities {
		body.Tools = append(body.Tools, chatTool{Type: "function", Function: d})
	}

	headers := map[string]string{"Authorization": "Bearer " + o.apiKey}
	var resp chatResponse
	if err := o.http.DoJSON(ctx, "POST", o.baseURL+"/chat/completions", headers, body, &resp); err != nil {
		return Decision{}, fmt.Errorf("oracle request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Decision{}, fmt.Errorf("oracle returned no choices")
	}

	msg := resp.Choices[0].Message
	decision := Decision{Usage: Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}}
	if len(msg.ToolCalls) == 0 {
		decision.FinalText = msg.Content
		return decision, nil
	}
	for _, tc := range msg.ToolCalls {
		args := tc.Function.Arguments
		if args == "" {
			args = "{}"
		}
		decision.ToolCalls = append(decision.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(args),
		})
	}
	return decision, nil
}
