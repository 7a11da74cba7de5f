// Package session provides chat session lifecycle and message history on top
// of the session repository.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rosteriq/advisor-service/internal/core/store"
	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/domain/models"
)

// MaxMessageLength bounds user message content, in runes.
const MaxMessageLength = 4000

// Service manages sessions and their append-only message log.
type Service interface {
	// CreateSession starts an active session for a user's roster in a league.
	CreateSession(ctx context.Context, userID, leagueID, rosterID string) (*models.ChatSession, error)

	// GetSession returns a session or SESSION_NOT_FOUND.
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)

	// AppendMessage appends one message and returns it with Seq assigned.
	AppendMessage(ctx context.Context, sessionID string, role models.MessageRole, content string, metadata map[string]any) (*models.ChatMessage, error)

	// GetHistory returns the last limit messages, oldest first. A limit of
	// zero or less returns everything.
	GetHistory(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error)

	// ListSessionsFor lists a user's sessions, optionally narrowed to one league.
	ListSessionsFor(ctx context.Context, userID, leagueID string, includeArchived bool) ([]*models.ChatSession, error)

	// Archive marks a session read-only.
	Archive(ctx context.Context, sessionID string) (*models.ChatSession, error)
}

// Config holds the configuration for the session service.
type Config struct {
	Repository store.SessionRepository
	Logger     *zerolog.Logger
	Now        func() time.Time
}

type service struct {
	repo   store.SessionRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new session service.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Repository == nil {
		return nil, fmt.Errorf("session repository is required")
	}

	s := &service{
		repo:   cfg.Repository,
		logger: log.Logger,
		now:    time.Now,
	}
	if cfg.Logger != nil {
		s.logger = *cfg.Logger
	}
	if cfg.Now != nil {
		s.now = cfg.Now
	}
	return s, nil
}

func (s *service) CreateSession(ctx context.Context, userID, leagueID, rosterID string) (*models.ChatSession, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainerrors.NewValidationError("userId is required", "")
	}
	if strings.TrimSpace(leagueID) == "" {
		return nil, domainerrors.NewValidationError("leagueId is required", "")
	}
	if strings.TrimSpace(rosterID) == "" {
		return nil, domainerrors.NewValidationError("rosterId is required", "")
	}

	session := models.NewChatSession(userID, leagueID, rosterID)
	now := s.now().UTC().Truncate(time.Millisecond)
	session.CreatedAt = now
	session.LastActivityAt = now

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Str("user_id", userID).
		Str("league_id", leagueID).
		Str("roster_id", rosterID).
		Msg("session created")
	return session, nil
}

func (s *service) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	if sessionID == "" {
		return nil, domainerrors.NewSessionNotFoundError(sessionID)
	}
	return s.repo.GetSession(ctx, sessionID)
}

func (s *service) AppendMessage(ctx context.Context, sessionID string, role models.MessageRole, content string, metadata map[string]any) (*models.ChatMessage, error) {
	switch role {
	case models.RoleUser:
		if strings.TrimSpace(content) == "" {
			return nil, domainerrors.NewValidationError("message content is required", "")
		}
		if n := len([]rune(content)); n > MaxMessageLength {
			return nil, domainerrors.NewValidationError("message is too long",
				fmt.Sprintf("%d characters, limit %d", n, MaxMessageLength))
		}
	case models.RoleAssistant:
	default:
		return nil, domainerrors.NewValidationError("unknown message role", string(role))
	}

	msg := models.NewChatMessage(sessionID, role, content, metadata)
	msg.CreatedAt = s.now().UTC()

	stored, err := s.repo.AppendMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Int64("seq", stored.Seq).
		Str("role", string(role)).
		Msg("message appended")
	return stored, nil
}

func (s *service) GetHistory(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	messages, err := s.repo.ListMessages(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return messages, nil
}

func (s *service) ListSessionsFor(ctx context.Context, userID, leagueID string, includeArchived bool) ([]*models.ChatSession, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainerrors.NewValidationError("userId is required", "")
	}
	sessions, err := s.repo.ListSessions(ctx, store.ListFilter{
		UserID:          userID,
		LeagueID:        leagueID,
		IncludeArchived: includeArchived,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *service) Archive(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	session, err := s.repo.ArchiveSession(ctx, sessionID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("session_id", sessionID).Msg("session archived")
	return session, nil
}
