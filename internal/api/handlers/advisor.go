// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"context"

	"github.com/rosteriq/advisor-service/internal/domain/models"
	"github.com/rosteriq/advisor-service/internal/services/broadcast"
)

// Advisor is the service surface the handlers call.
type Advisor interface {
	StartSession(ctx context.Context, userID, leagueID, rosterID, opening string) (*models.ChatSession, *models.ChatMessage, error)
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	ListSessions(ctx context.Context, userID, leagueID string, includeArchived bool) ([]*models.ChatSession, error)
	Archive(ctx context.Context, sessionID string) (*models.ChatSession, error)
	PostMessage(ctx context.Context, sessionID, content string) (*models.ChatMessage, error)
	History(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error)
	Subscribe(ctx context.Context, sessionID string) (*broadcast.Listener, error)
	Unsubscribe(l *broadcast.Listener)
	InvalidateLeague(ctx context.Context, leagueID string) (int64, error)
}
