package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rosteriq/advisor-service/internal/core/store"
	"github.com/rosteriq/advisor-service/internal/domain/models"
)

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(context.Background(), nil)
	assert.EqualError(t, err, "config cannot be nil")

	_, err = NewClient(context.Background(), &ClientConfig{DatabaseName: "advisor"})
	assert.EqualError(t, err, "mongodb URI is required")

	_, err = NewClient(context.Background(), &ClientConfig{URI: "mongodb://localhost:27017"})
	assert.EqualError(t, err, "database name is required")
}

func TestSessionFilter(t *testing.T) {
	assert.Equal(t, bson.M{"userId": "u1", "status": models.SessionStatusActive},
		sessionFilter(store.ListFilter{UserID: "u1"}))
	assert.Equal(t, bson.M{"userId": "u1", "leagueId": "L1"},
		sessionFilter(store.ListFilter{UserID: "u1", LeagueID: "L1", IncludeArchived: true}))
}

func TestSessionFindOptions_DefaultLimit(t *testing.T) {
	opts := sessionFindOptions(store.ListFilter{})
	assert.Equal(t, int64(store.DefaultListLimit), *opts.Limit)

	opts = sessionFindOptions(store.ListFilter{Limit: 5})
	assert.Equal(t, int64(5), *opts.Limit)
}

func TestMessageFindOptions(t *testing.T) {
	opts := messageFindOptions(12)
	assert.Equal(t, int64(12), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "seq", Value: -1}}, opts.Sort)

	assert.Nil(t, messageFindOptions(0).Limit)
}
