// Package advisor runs chat turns: it persists the user message, assembles
// the league briefing, drives the model and persists and broadcasts the reply.
package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/domain/models"
	"github.com/rosteriq/advisor-service/internal/services/briefing"
	"github.com/rosteriq/advisor-service/internal/services/broadcast"
	"github.com/rosteriq/advisor-service/internal/services/conversation"
	"github.com/rosteriq/advisor-service/internal/services/session"
	"github.com/rosteriq/advisor-service/internal/services/tools"
)

const (
	// DefaultHistoryLimit is how many recent messages the model sees.
	DefaultHistoryLimit = 12
	// DefaultTurnTimeout bounds the briefing and model work of one turn.
	DefaultTurnTimeout = 90 * time.Second
	// DefaultPersistTimeout bounds each store write. It is separate from the
	// turn budget so a reply is stored even after the turn runs out of time.
	DefaultPersistTimeout = 10 * time.Second

	// FailureText is stored as the reply when a turn cannot reach the model
	// at all.
	FailureText = "Sorry, something went wrong while preparing that answer. Please try again."
)

// Reply failure codes stored under models.MetaError.
const (
	errHistoryUnavailable = "history_unavailable"
	errTurnFailed         = "turn_failed"
)

// Briefer builds the league briefing for a turn.
type Briefer interface {
	Build(ctx context.Context, req *briefing.Request) (*briefing.Briefing, error)
}

// TurnRunner drives the model for one turn.
type TurnRunner interface {
	Run(ctx context.Context, in *conversation.Input) (*conversation.Output, error)
}

// CacheInvalidator drops cached league data.
type CacheInvalidator interface {
	InvalidateLeague(ctx context.Context, leagueID string) (int64, error)
}

// Config holds the configuration for the advisor service.
type Config struct {
	Sessions     session.Service
	Broadcaster  broadcast.Broadcaster
	Briefings    Briefer
	Driver       TurnRunner
	Cache        CacheInvalidator
	HistoryLimit int
	TurnTimeout  time.Duration
	// PersistTimeout bounds each session store call. Defaults to
	// DefaultPersistTimeout.
	PersistTimeout time.Duration
	Logger         *zerolog.Logger
}

// Service is the entry point used by the HTTP API.
type Service struct {
	sessions     session.Service
	broadcaster  broadcast.Broadcaster
	briefings    Briefer
	driver       TurnRunner
	cache        CacheInvalidator
	historyLimit   int
	turnTimeout    time.Duration
	persistTimeout time.Duration
	locks          *sessionLocks
	logger       zerolog.Logger
}

// NewService creates a new advisor service.
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session service is required")
	}
	if cfg.Broadcaster == nil {
		return nil, fmt.Errorf("broadcaster is required")
	}
	if cfg.Briefings == nil {
		return nil, fmt.Errorf("briefing assembler is required")
	}
	if cfg.Driver == nil {
		return nil, fmt.Errorf("conversation driver is required")
	}

	s := &Service{
		sessions:     cfg.Sessions,
		broadcaster:  cfg.Broadcaster,
		briefings:    cfg.Briefings,
		driver:       cfg.Driver,
		cache:        cfg.Cache,
		historyLimit: cfg.HistoryLimit,
		turnTimeout:    cfg.TurnTimeout,
		persistTimeout: cfg.PersistTimeout,
		locks:          newSessionLocks(),
		logger:       log.Logger,
	}
	if s.historyLimit <= 0 {
		s.historyLimit = DefaultHistoryLimit
	}
	if s.turnTimeout <= 0 {
		s.turnTimeout = DefaultTurnTimeout
	}
	if s.persistTimeout <= 0 {
		s.persistTimeout = DefaultPersistTimeout
	}
	if cfg.Logger != nil {
		s.logger = *cfg.Logger
	}
	return s, nil
}

// StartSession creates a session and, when opening is non-empty, runs the
// first turn. The returned reply is nil without an opening message.
func (s *Service) StartSession(ctx context.Context, userID, leagueID, rosterID, opening string) (*models.ChatSession, *models.ChatMessage, error) {
	sess, err := s.sessions.CreateSession(ctx, userID, leagueID, rosterID)
	if err != nil {
		return nil, nil, err
	}
	if opening == "" {
		return sess, nil, nil
	}

	reply, err := s.PostMessage(ctx, sess.ID, opening)
	if err != nil {
		return sess, nil, err
	}
	if fresh, err := s.sessions.GetSession(ctx, sess.ID); err == nil {
		sess = fresh
	}
	return sess, reply, nil
}

// PostMessage runs one turn and returns the persisted assistant reply.
//
// The turn is detached from ctx cancellation: a client that disconnects does
// not stop persistence. Turns on one session run one at a time. Once the user
// message is stored an assistant reply is always stored too, falling back to
// FailureText when the turn cannot run.
func (s *Service) PostMessage(ctx context.Context, sessionID, content string) (*models.ChatMessage, error) {
	base := context.WithoutCancel(ctx)

	unlock := s.locks.lock(sessionID)
	defer unlock()

	logger := s.logger.With().Str("session_id", sessionID).Logger()
	started := time.Now()

	sess, history, err := s.beginTurn(base, &logger, sessionID, content)
	if err != nil {
		return nil, err
	}
	if history == nil {
		return s.storeReply(base, &logger, sessionID, FailureText, map[string]any{
			models.MetaError:    errHistoryUnavailable,
			models.MetaDegraded: true,
		})
	}

	turnCtx, cancel := context.WithTimeout(base, s.turnTimeout)
	defer cancel()

	brief := ""
	b, briefErr := s.briefings.Build(turnCtx, &briefing.Request{Session: sess, Message: content})
	if briefErr != nil {
		logger.Warn().Err(briefErr).Msg("briefing failed; answering without league context")
	} else {
		brief = b.String()
	}

	out, err := s.driver.Run(turnCtx, &conversation.Input{
		SessionID: sessionID,
		Scope:     tools.Scope{LeagueID: sess.LeagueID, RosterID: sess.RosterID},
		History:   history,
		Briefing:  brief,
	})
	if err != nil {
		logger.Error().Err(err).Msg("turn failed")
		return s.storeReply(base, &logger, sessionID, FailureText, map[string]any{
			models.MetaError:    errTurnFailed,
			models.MetaDegraded: true,
		})
	}
	if briefErr != nil {
		out.Degraded = true
	}

	reply, err := s.storeReply(base, &logger, sessionID, out.Content, out.Metadata())
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("seq", reply.Seq).
		Str("backend", out.Backend).
		Int("iterations", out.Iterations).
		Strs("tools", out.ToolsUsed).
		Bool("degraded", out.Degraded).
		Dur("duration", time.Since(started)).
		Msg("turn completed")
	return reply, nil
}

// beginTurn validates the session, stores and broadcasts the user message
// and loads the history window. A nil history with a nil error means the
// user message is stored but the history could not be read.
func (s *Service) beginTurn(base context.Context, logger *zerolog.Logger, sessionID, content string) (*models.ChatSession, []*models.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(base, s.persistTimeout)
	defer cancel()

	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if sess.IsArchived() {
		return nil, nil, domainerrors.NewConflictError("session is archived", sessionID)
	}

	userMsg, err := s.sessions.AppendMessage(ctx, sessionID, models.RoleUser, content, nil)
	if err != nil {
		return nil, nil, err
	}
	s.publish(ctx, logger, userMsg)

	history, err := s.sessions.GetHistory(ctx, sessionID, s.historyLimit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load history")
		return sess, nil, nil
	}
	return sess, history, nil
}

// storeReply appends and broadcasts the assistant message on a fresh
// deadline, independent of how much of the turn budget was used.
func (s *Service) storeReply(base context.Context, logger *zerolog.Logger, sessionID, content string, meta map[string]any) (*models.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(base, s.persistTimeout)
	defer cancel()

	reply, err := s.sessions.AppendMessage(ctx, sessionID, models.RoleAssistant, content, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to store reply: %w", err)
	}
	s.publish(ctx, logger, reply)
	return reply, nil
}

func (s *Service) publish(ctx context.Context, logger *zerolog.Logger, msg *models.ChatMessage) {
	if err := s.broadcaster.Publish(ctx, msg.SessionID, msg); err != nil {
		logger.Warn().Err(err).Int64("seq", msg.Seq).Msg("broadcast failed")
	}
}

// GetSession returns a session.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	return s.sessions.GetSession(ctx, sessionID)
}

// History returns the last limit messages, oldest first.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error) {
	return s.sessions.GetHistory(ctx, sessionID, limit)
}

// ListSessions lists a user's sessions.
func (s *Service) ListSessions(ctx context.Context, userID, leagueID string, includeArchived bool) ([]*models.ChatSession, error) {
	return s.sessions.ListSessionsFor(ctx, userID, leagueID, includeArchived)
}

// Archive makes a session read-only. It waits for an in-flight turn.
func (s *Service) Archive(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()
	return s.sessions.Archive(ctx, sessionID)
}

// Subscribe attaches a live listener to an existing session.
func (s *Service) Subscribe(ctx context.Context, sessionID string) (*broadcast.Listener, error) {
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.broadcaster.Subscribe(sessionID), nil
}

// Unsubscribe detaches a listener.
func (s *Service) Unsubscribe(l *broadcast.Listener) {
	s.broadcaster.Unsubscribe(l)
}

// InvalidateLeague drops the cached snapshot of a league.
func (s *Service) InvalidateLeague(ctx context.Context, leagueID string) (int64, error) {
	if leagueID == "" {
		return 0, domainerrors.NewValidationError("leagueId is required", "")
	}
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.InvalidateLeague(ctx, leagueID)
}
