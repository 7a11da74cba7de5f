// Package sqlite provides the relational session repository on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rosteriq/advisor-service/internal/core/store"
	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/domain/models"
)

// Repository implements store.SessionRepository on SQLite.
type Repository struct {
	db *sql.DB
	// writeMu serializes appends so sequence assignment never hits SQLITE_BUSY.
	writeMu sync.Mutex
}

// connPragmas are applied by the driver to every pooled connection.
const connPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"

// Config holds the SQLite repository configuration.
type Config struct {
	Path string
}

// NewRepository opens (and if needed creates) the database file.
func NewRepository(cfg *Config) (*Repository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Path+connPragmas)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &Repository{db: db}
	if err := r.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return r, nil
}

func (r *Repository) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS chat_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		league_id TEXT NOT NULL,
		roster_id TEXT NOT NULL,
		status TEXT NOT NULL,
		message_count INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		last_activity_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions(user_id, last_activity_at);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES chat_sessions(id),
		seq INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		metadata_json TEXT,
		created_at INTEGER NOT NULL,
		UNIQUE(session_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_chat_messages_order ON chat_messages(session_id, created_at, seq);
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CreateSession inserts a new session.
func (r *Repository) CreateSession(ctx context.Context, session *models.ChatSession) error {
	query := `
	INSERT INTO chat_sessions (id, user_id, league_id, roster_id, status, message_count, created_at, last_activity_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.LeagueID, session.RosterID, string(session.Status),
		session.MessageCount, session.CreatedAt.UnixMilli(), session.LastActivityAt.UnixMilli(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domainerrors.NewConflictError("session already exists", session.ID)
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

const sessionColumns = `id, user_id, league_id, roster_id, status, message_count, created_at, last_activity_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.ChatSession, error) {
	var s models.ChatSession
	var status string
	var createdAt, lastActivity int64
	if err := row.Scan(&s.ID, &s.UserID, &s.LeagueID, &s.RosterID, &status, &s.MessageCount, &createdAt, &lastActivity); err != nil {
		return nil, err
	}
	s.Status = models.SessionStatus(status)
	s.CreatedAt = time.UnixMilli(createdAt).UTC()
	s.LastActivityAt = time.UnixMilli(lastActivity).UTC()
	return &s, nil
}

// GetSession returns a session by ID.
func (r *Repository) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM chat_sessions WHERE id = ?`, sessionID)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NewSessionNotFoundError(sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}
	return s, nil
}

// ListSessions returns sessions matching the filter, most recently active first.
func (r *Repository) ListSessions(ctx context.Context, filter store.ListFilter) ([]*models.ChatSession, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.LeagueID != "" {
		where = append(where, "league_id = ?")
		args = append(args, filter.LeagueID)
	}
	if !filter.IncludeArchived {
		where = append(where, "status = ?")
		args = append(args, string(models.SessionStatusActive))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	query := `SELECT ` + sessionColumns + ` FROM chat_sessions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY last_activity_at DESC, created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.ChatSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// AppendMessage assigns the next sequence number and stores the message in
// one transaction.
func (r *Repository) AppendMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	var metadata sql.NullString
	if len(msg.Metadata) > 0 {
		raw, err := json.Marshal(msg.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshal message metadata: %w", err)
		}
		metadata = sql.NullString{String: string(raw), Valid: true}
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	var lastActivity int64
	err = tx.QueryRowContext(ctx, `SELECT status, last_activity_at FROM chat_sessions WHERE id = ?`, msg.SessionID).
		Scan(&status, &lastActivity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NewSessionNotFoundError(msg.SessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if models.SessionStatus(status) == models.SessionStatusArchived {
		return nil, domainerrors.NewConflictError("session is archived", msg.SessionID)
	}

	createdAt := store.NextCreatedAt(msg.CreatedAt.UTC().Truncate(time.Millisecond), time.UnixMilli(lastActivity).UTC())

	insert := `
	INSERT INTO chat_messages (id, session_id, seq, role, content, metadata_json, created_at)
	SELECT ?, ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?
	FROM chat_messages WHERE session_id = ?`
	if _, err := tx.ExecContext(ctx, insert,
		msg.ID, msg.SessionID, string(msg.Role), msg.Content, metadata, createdAt.UnixMilli(), msg.SessionID,
	); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT seq FROM chat_messages WHERE id = ?`, msg.ID).Scan(&seq); err != nil {
		return nil, fmt.Errorf("read message seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE chat_sessions SET message_count = message_count + 1, last_activity_at = ? WHERE id = ?`,
		createdAt.UnixMilli(), msg.SessionID,
	); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}

	stored := *msg
	stored.Seq = seq
	stored.CreatedAt = createdAt
	return &stored, nil
}

// ListMessages returns the last limit messages of a session, oldest first.
func (r *Repository) ListMessages(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
	SELECT id, session_id, seq, role, content, metadata_json, created_at FROM (
		SELECT id, session_id, seq, role, content, metadata_json, created_at
		FROM chat_messages WHERE session_id = ?
		ORDER BY created_at DESC, seq DESC LIMIT ?
	) ORDER BY created_at ASC, seq ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		var role string
		var metadata sql.NullString
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Seq, &role, &m.Content, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		m.Role = models.MessageRole(role)
		m.CreatedAt = time.UnixMilli(createdAt).UTC()
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &m.Metadata); err != nil {
				return nil, fmt.Errorf("decode message metadata: %w", err)
			}
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// ArchiveSession marks a session archived.
func (r *Repository) ArchiveSession(ctx context.Context, sessionID string, at time.Time) (*models.ChatSession, error) {
	r.writeMu.Lock()
	_, err := r.db.ExecContext(ctx,
		`UPDATE chat_sessions SET status = ?, last_activity_at = MAX(last_activity_at, ?) WHERE id = ? AND status = ?`,
		string(models.SessionStatusArchived), at.UnixMilli(), sessionID, string(models.SessionStatusActive),
	)
	r.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("archive session: %w", err)
	}
	return r.GetSession(ctx, sessionID)
}

// Ping verifies database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database.
func (r *Repository) Close(_ context.Context) error {
	return r.db.Close()
}

var _ store.SessionRepository = (*Repository)(nil)
