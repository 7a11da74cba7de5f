// Package mongodb provides the document session repository on MongoDB.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rosteriq/advisor-service/internal/core/store"
)

const (
	// SessionsCollection is the name of the sessions collection.
	SessionsCollection = "sessions"
	// MessagesCollection is the name of the messages collection.
	MessagesCollection = "messages"
)

// Client implements store.SessionRepository for MongoDB.
type Client struct {
	client   *mongo.Client
	sessions *mongo.Collection
	messages *mongo.Collection
}

// ClientConfig holds MongoDB connection configuration.
type ClientConfig struct {
	URI          string
	DatabaseName string
}

// NewClient connects to MongoDB and verifies the connection.
func NewClient(ctx context.Context, config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if config.DatabaseName == "" {
		return nil, fmt.Errorf("database name is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(config.DatabaseName)
	return &Client{
		client:   client,
		sessions: db.Collection(SessionsCollection),
		messages: db.Collection(MessagesCollection),
	}, nil
}

// Ping verifies the connection to MongoDB.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes the repository queries rely on.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	if _, err := c.sessions.Indexes().CreateMany(ctx, sessionIndexes()); err != nil {
		return fmt.Errorf("failed to create sessions indexes: %w", err)
	}
	if _, err := c.messages.Indexes().CreateMany(ctx, messageIndexes()); err != nil {
		return fmt.Errorf("failed to create messages indexes: %w", err)
	}
	return nil
}

var _ store.SessionRepository = (*Client)(nil)
