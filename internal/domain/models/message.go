package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the role of a message sender.
type MessageRole string

const (
	// RoleUser represents a message from the user.
	RoleUser MessageRole = "user"
	// RoleAssistant represents a message from the assistant.
	RoleAssistant MessageRole = "assistant"
)

// Metadata keys written on assistant messages.
const (
	MetaToolLookup = "tool_lookup"
	MetaToolsUsed  = "tools_used"
	MetaBackend    = "backend"
	MetaIterations = "iterations"
	MetaDegraded   = "degraded"
	MetaError      = "error"
)

// ChatMessage is an immutable, append-only entry in a session's history.
// Seq is assigned by the store on append and is unique within a session.
type ChatMessage struct {
	ID        string         `json:"id" bson:"_id"`
	SessionID string         `json:"sessionId" bson:"sessionId"`
	Seq       int64          `json:"seq" bson:"seq"`
	Role      MessageRole    `json:"role" bson:"role"`
	Content   string         `json:"content" bson:"content"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
	Metadata  map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// NewChatMessage creates an unsequenced message for the given session.
func NewChatMessage(sessionID string, role MessageRole, content string, metadata map[string]any) *ChatMessage {
	return &ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		Metadata:  metadata,
	}
}
