// Package store defines the chat session repository interface.
package store

import (
	"context"
	"time"

	"github.com/rosteriq/advisor-service/internal/domain/models"
)

// DefaultListLimit caps ListSessions when no limit is given.
const DefaultListLimit = 50

// ListFilter selects sessions for ListSessions.
type ListFilter struct {
	UserID          string
	LeagueID        string
	IncludeArchived bool
	Limit           int
}

// SessionRepository persists chat sessions and their append-only message log.
//
// AppendMessage is the only message mutation. It assigns Seq atomically so
// that concurrent appends to one session never share a sequence number, and
// it never stores a CreatedAt earlier than the session's last activity, so
// ordering by (CreatedAt, Seq) matches append order.
type SessionRepository interface {
	// CreateSession inserts a new session.
	CreateSession(ctx context.Context, session *models.ChatSession) error

	// GetSession returns a session or a SESSION_NOT_FOUND error.
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)

	// ListSessions returns a user's sessions, most recently active first.
	ListSessions(ctx context.Context, filter ListFilter) ([]*models.ChatSession, error)

	// AppendMessage stores msg, filling in Seq and possibly CreatedAt, and
	// returns the stored message. Appending to an archived session is a
	// CONFLICT error.
	AppendMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error)

	// ListMessages returns the last limit messages of a session, oldest
	// first. A limit of zero or less returns the whole history.
	ListMessages(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error)

	// ArchiveSession marks the session read-only. Archiving twice is a no-op.
	ArchiveSession(ctx context.Context, sessionID string, at time.Time) (*models.ChatSession, error)

	// Ping verifies the backend connection.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close(ctx context.Context) error
}

// NextCreatedAt returns the timestamp to store for a message appended at
// proposed to a session last active at last.
func NextCreatedAt(proposed, last time.Time) time.Time {
	if proposed.Before(last) {
		return last
	}
	return proposed
}
