// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// CreateSessionRequest represents the request body for starting a session.
type CreateSessionRequest struct {
	UserID   string `json:"userId" binding:"required"`
	LeagueID string `json:"leagueId" binding:"required"`
	RosterID string `json:"rosterId" binding:"required"`
	// Message is an optional opening question answered in the same request.
	Message string `json:"message" binding:"omitempty,max=4000"`
}

// ListSessionsRequest represents the query parameters for listing sessions.
type ListSessionsRequest struct {
	UserID          string `form:"userId" binding:"required"`
	LeagueID        string `form:"leagueId"`
	IncludeArchived bool   `form:"includeArchived"`
}

// SendMessageRequest represents the request body for posting a message.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=4000"`
}

// GetMessagesRequest represents the query parameters for reading history.
type GetMessagesRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// StreamCommand is a client frame on the WebSocket stream.
type StreamCommand struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}
