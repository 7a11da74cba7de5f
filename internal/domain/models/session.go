// Package models contains domain models for the Roster Advisor service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle state of a chat session.
type SessionStatus string

const (
	// SessionStatusActive accepts new messages.
	SessionStatusActive SessionStatus = "active"
	// SessionStatusArchived is read-only; archived sessions are never hard-deleted.
	SessionStatusArchived SessionStatus = "archived"
)

// ChatSession is one user's conversation about one roster in one league.
type ChatSession struct {
	ID             string        `json:"id" bson:"_id"`
	UserID         string        `json:"userId" bson:"userId"`
	LeagueID       string        `json:"leagueId" bson:"leagueId"`
	RosterID       string        `json:"rosterId" bson:"rosterId"`
	Status         SessionStatus `json:"status" bson:"status"`
	MessageCount   int64         `json:"messageCount" bson:"messageCount"`
	CreatedAt      time.Time     `json:"createdAt" bson:"createdAt"`
	LastActivityAt time.Time     `json:"lastActivityAt" bson:"lastActivityAt"`
}

// NewChatSession creates an active session with a fresh identifier.
func NewChatSession(userID, leagueID, rosterID string) *ChatSession {
	now := time.Now().UTC()
	return &ChatSession{
		ID:             uuid.NewString(),
		UserID:         userID,
		LeagueID:       leagueID,
		RosterID:       rosterID,
		Status:         SessionStatusActive,
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

// IsArchived reports whether the session no longer accepts messages.
func (s *ChatSession) IsArchived() bool {
	return s.Status == SessionStatusArchived
}
