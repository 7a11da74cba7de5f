package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rosteriq/advisor-service/internal/core/store"
	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/domain/models"
)

func sessionIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "lastActivityAt", Value: -1},
			},
			Options: options.Index().SetName("idx_user_activity"),
		},
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "leagueId", Value: 1},
			},
			Options: options.Index().SetName("idx_user_league"),
		},
	}
}

// CreateSession inserts a new session document.
func (c *Client) CreateSession(ctx context.Context, session *models.ChatSession) error {
	if session.ID == "" {
		return fmt.Errorf("session ID is required")
	}
	if _, err := c.sessions.InsertOne(ctx, session); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainerrors.NewConflictError("session already exists", session.ID)
		}
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := c.sessions.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainerrors.NewSessionNotFoundError(sessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// ListSessions lists sessions matching the filter, most recently active first.
func (c *Client) ListSessions(ctx context.Context, filter store.ListFilter) ([]*models.ChatSession, error) {
	cursor, err := c.sessions.Find(ctx, sessionFilter(filter), sessionFindOptions(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*models.ChatSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

// ArchiveSession marks a session archived. Archiving twice is a no-op.
func (c *Client) ArchiveSession(ctx context.Context, sessionID string, at time.Time) (*models.ChatSession, error) {
	update := bson.M{
		"$set": bson.M{"status": models.SessionStatusArchived},
		"$max": bson.M{"lastActivityAt": at.UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session models.ChatSession
	err := c.sessions.FindOneAndUpdate(ctx, bson.M{"_id": sessionID}, update, opts).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainerrors.NewSessionNotFoundError(sessionID)
		}
		return nil, fmt.Errorf("failed to archive session: %w", err)
	}
	return &session, nil
}

func sessionFilter(filter store.ListFilter) bson.M {
	query := bson.M{}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	if filter.LeagueID != "" {
		query["leagueId"] = filter.LeagueID
	}
	if !filter.IncludeArchived {
		query["status"] = models.SessionStatusActive
	}
	return query
}

func sessionFindOptions(filter store.ListFilter) *options.FindOptions {
	limit := filter.Limit
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	return options.Find().
		SetSort(bson.D{{Key: "lastActivityAt", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
}
