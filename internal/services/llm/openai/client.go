// Package openai implements llm.Backend against any OpenAI-compatible
// /chat/completions endpoint.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rosteriq/advisor-service/internal/pkg/httpx"
	"github.com/rosteriq/advisor-service/internal/services/llm"
)

// ClientConfig holds the configuration for the OpenAI-compatible client.
type ClientConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// Client talks to an OpenAI-compatible server.
type Client struct {
	http  *httpx.Client
	model string
}

// NewClient creates a new OpenAI-compatible client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}
	return &Client{
		http:  httpx.NewClient(httpx.Config{Name: "cloud model", BaseURL: cfg.BaseURL, Timeout: cfg.Timeout, Headers: headers}),
		model: cfg.Model,
	}, nil
}

// Name identifies the backend in message metadata.
func (c *Client) Name() string {
	return "cloud:" + c.model
}

type function struct {
	Name string `json:"name"`
	// Arguments is a JSON document encoded as a string.
	Arguments string `json:"arguments"`
}

type toolCall struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Function function `json:"function"`
}

type message struct {
	Role       string     `json:"role"`
	Content    *string    `json:"content"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type tool struct {
	Type     string             `json:"type"`
	Function llm.ToolDefinition `json:"function"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Tools    []tool    `json:"tools,omitempty"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

// Complete sends one chat completion request.
func (c *Client) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	body := completionRequest{Model: c.model, Messages: toMessages(req)}
	for _, t := range req.Tools {
		body.Tools = append(body.Tools, tool{Type: "function", Function: t})
	}

	var resp completionResponse
	if err := c.http.PostJSON(ctx, "/chat/completions", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("completion returned no choices")
	}

	msg := resp.Choices[0].Message
	out := &llm.CompletionResponse{Model: resp.Model, Backend: c.Name()}
	if msg.Content != nil {
		out.Content = *msg.Content
	}
	for _, tc := range msg.ToolCalls {
		args := json.RawMessage(tc.Function.Arguments)
		if len(args) == 0 {
			args = json.RawMessage("{}")
		}
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: args})
	}
	return out, nil
}

func toMessages(req *llm.CompletionRequest) []message {
	msgs := make([]message, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, message{Role: string(llm.RoleSystem), Content: strPtr(req.System)})
	}
	for _, m := range req.Messages {
		out := message{Role: string(m.Role), ToolCallID: m.ToolCallID}
		if m.Content != "" || len(m.ToolCalls) == 0 {
			out.Content = strPtr(m.Content)
		}
		for _, tc := range m.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, toolCall{
				ID:       tc.ID,
				Type:     "function",
				Function: function{Name: tc.Name, Arguments: string(tc.Arguments)},
			})
		}
		msgs = append(msgs, out)
	}
	return msgs
}

func strPtr(s string) *string {
	return &s
}
