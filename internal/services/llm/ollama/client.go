// Package ollama implements llm.Backend against a local Ollama server's
// /api/chat endpoint.
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rosteriq/advisor-service/internal/pkg/httpx"
	"github.com/rosteriq/advisor-service/internal/services/llm"
)

// ClientConfig holds the configuration for the Ollama client.
type ClientConfig struct {
	BaseURL string
	Model   string
	// SupportsTools is false for models without function calling; requests
	// carrying tools then fail fast so the chain moves on.
	SupportsTools bool
	Timeout       time.Duration
}

// Client talks to Ollama.
type Client struct {
	http          *httpx.Client
	model         string
	supportsTools bool
}

// NewClient creates a new Ollama client.
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
	return &Client{
		http:          httpx.NewClient(httpx.Config{Name: "ollama", BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}),
		model:         cfg.Model,
		supportsTools: cfg.SupportsTools,
	}, nil
}

// Name identifies the backend in message metadata.
func (c *Client) Name() string {
	return "local:" + c.model
}

type chatFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type chatToolCall struct {
	Function chatFunction `json:"function"`
}

type chatMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []chatToolCall `json:"tool_calls,omitempty"`
	ToolName  string         `json:"tool_name,omitempty"`
}

type chatTool struct {
	Type     string             `json:"type"`
	Function llm.ToolDefinition `json:"function"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Tools    []chatTool    `json:"tools,omitempty"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// Complete sends one non-streaming chat request.
func (c *Client) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if len(req.Tools) > 0 && !c.supportsTools {
		return nil, llm.ErrToolsUnsupported
	}

	body := chatRequest{Model: c.model, Messages: toChatMessages(req)}
	for _, t := range req.Tools {
		body.Tools = append(body.Tools, chatTool{Type: "function", Function: t})
	}

	var resp chatResponse
	if err := c.http.PostJSON(ctx, "/api/chat", body, &resp); err != nil {
		var statusErr *httpx.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusBadRequest &&
			strings.Contains(statusErr.Body, "does not support tools") {
			return nil, llm.ErrToolsUnsupported
		}
		return nil, err
	}

	out := &llm.CompletionResponse{Content: resp.Message.Content, Model: resp.Model, Backend: c.Name()}
	for i, tc := range resp.Message.ToolCalls {
		args := tc.Function.Arguments
		if len(args) == 0 {
			args = json.RawMessage("{}")
		}
		// Ollama does not assign call IDs.
		out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
			ID:        "call_" + strconv.Itoa(i),
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}
	return out, nil
}

func toChatMessages(req *llm.CompletionRequest) []chatMessage {
	msgs := make([]chatMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, chatMessage{Role: string(llm.RoleSystem), Content: req.System})
	}
	for _, m := range req.Messages {
		cm := chatMessage{Role: string(m.Role), Content: m.Content}
		for _, tc := range m.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, chatToolCall{Function: chatFunction{Name: tc.Name, Arguments: tc.Arguments}})
		}
		if m.Role == llm.RoleTool {
			cm.ToolName = m.Name
		}
		msgs = append(msgs, cm)
	}
	return msgs
}
