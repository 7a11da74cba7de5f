package mongodb

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/domain/models"
)

func messageIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "sessionId", Value: 1},
				{Key: "seq", Value: 1},
			},
			Options: options.Index().SetName("idx_session_seq").SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "sessionId", Value: 1},
				{Key: "createdAt", Value: -1},
				{Key: "seq", Value: -1},
			},
			Options: options.Index().SetName("idx_session_created"),
		},
	}
}

// AppendMessage reserves the next sequence number with $inc on the session
// document, then inserts the message.
func (c *Client) AppendMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	if msg.ID == "" {
		return nil, fmt.Errorf("message ID is required")
	}

	proposed := msg.CreatedAt.UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$inc": bson.M{"messageCount": 1},
		"$max": bson.M{"lastActivityAt": proposed},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session models.ChatSession
	err := c.sessions.FindOneAndUpdate(ctx,
		bson.M{"_id": msg.SessionID, "status": models.SessionStatusActive}, update, opts,
	).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.appendRejected(ctx, msg.SessionID)
		}
		return nil, fmt.Errorf("failed to reserve message sequence: %w", err)
	}

	stored := *msg
	stored.Seq = session.MessageCount
	stored.CreatedAt = session.LastActivityAt.UTC()

	if _, err := c.messages.InsertOne(ctx, &stored); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return &stored, nil
}

// appendRejected explains why the session update matched nothing.
func (c *Client) appendRejected(ctx context.Context, sessionID string) error {
	session, err := c.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.IsArchived() {
		return domainerrors.NewConflictError("session is archived", sessionID)
	}
	return fmt.Errorf("failed to reserve message sequence for session %s", sessionID)
}

// ListMessages returns the last limit messages of a session, oldest first.
func (c *Client) ListMessages(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error) {
	cursor, err := c.messages.Find(ctx, bson.M{"sessionId": sessionID}, messageFindOptions(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*models.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	slices.Reverse(messages)
	return messages, nil
}

// messageFindOptions reads newest first so the limit keeps the tail.
func messageFindOptions(limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "seq", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}
