package dto

import (
	"time"

	"github.com/rosteriq/advisor-service/internal/domain/models"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// SessionResponse represents a chat session in API responses.
type SessionResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	LeagueID       string    `json:"leagueId"`
	RosterID       string    `json:"rosterId"`
	Status         string    `json:"status"`
	MessageCount   int64     `json:"messageCount"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// MessageResponse represents a chat message in API responses.
type MessageResponse struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId"`
	Seq       int64          `json:"seq"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// CreateSessionResponse represents the response for starting a session.
type CreateSessionResponse struct {
	Session *SessionResponse `json:"session"`
	Reply   *MessageResponse `json:"reply,omitempty"`
}

// ListSessionsResponse represents the response for listing sessions.
type ListSessionsResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
}

// SendMessageResponse represents the response for posting a message.
type SendMessageResponse struct {
	Message *MessageResponse `json:"message"`
}

// GetMessagesResponse represents the response for reading history.
type GetMessagesResponse struct {
	Messages []*MessageResponse `json:"messages"`
}

// InvalidateCacheResponse reports how many cache entries were dropped.
type InvalidateCacheResponse struct {
	LeagueID string `json:"leagueId"`
	Removed  int64  `json:"removed"`
}

// StreamEvent is a server frame on the WebSocket stream.
type StreamEvent struct {
	Type    string           `json:"type"`
	Message *MessageResponse `json:"message,omitempty"`
	Error   *ErrorResponse   `json:"error,omitempty"`
}

// NewSessionResponse converts a session model.
func NewSessionResponse(s *models.ChatSession) *SessionResponse {
	if s == nil {
		return nil
	}
	return &SessionResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		LeagueID:       s.LeagueID,
		RosterID:       s.RosterID,
		Status:         string(s.Status),
		MessageCount:   s.MessageCount,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
	}
}

// NewSessionResponses converts a list of sessions.
func NewSessionResponses(sessions []*models.ChatSession) []*SessionResponse {
	out := make([]*SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, NewSessionResponse(s))
	}
	return out
}

// NewMessageResponse converts a message model.
func NewMessageResponse(m *models.ChatMessage) *MessageResponse {
	if m == nil {
		return nil
	}
	return &MessageResponse{
		ID:        m.ID,
		SessionID: m.SessionID,
		Seq:       m.Seq,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Metadata:  m.Metadata,
	}
}

// NewMessageResponses converts a list of messages.
func NewMessageResponses(messages []*models.ChatMessage) []*MessageResponse {
	out := make([]*MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, NewMessageResponse(m))
	}
	return out
}
