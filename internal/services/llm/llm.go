// Package llm defines the language-model backend contract and the per-request
// fallback chain across backends.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Role is a chat message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ErrToolsUnsupported is returned by a backend that cannot honor a request
// carrying tool declarations.
var ErrToolsUnsupported = errors.New("backend does not support tool calling")

// Message is one entry of the conversation sent to a backend. Assistant
// messages may carry ToolCalls; tool messages answer one call by ToolCallID.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"toolCalls,omitempty"`
	ToolCallID string     `json:"toolCallId,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall is a function call requested by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition declares a callable tool with a JSON-schema parameter object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// CompletionRequest is one model invocation.
type CompletionRequest struct {
	System   string
	Messages []Message
	Tools    []ToolDefinition
}

// CompletionResponse is either final text or a set of tool calls.
type CompletionResponse struct {
	Content   string
	ToolCalls []ToolCall
	// Backend names the backend that produced the response.
	Backend string
	Model   string
}

// WantsTools reports whether the model asked for tool calls.
func (r *CompletionResponse) WantsTools() bool {
	return len(r.ToolCalls) > 0
}

// Backend is a language-model endpoint.
type Backend interface {
	Name() string
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}
