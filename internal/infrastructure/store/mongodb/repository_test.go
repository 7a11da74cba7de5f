package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/domain/models"
)

func newMockClient(mt *mtest.T) *Client {
	return &Client{
		client:   mt.Client,
		sessions: mt.DB.Collection(SessionsCollection),
		messages: mt.DB.Collection(MessagesCollection),
	}
}

// toDoc round-trips v through BSON so mock replies use the real field names.
func toDoc(mt *mtest.T, v any) bson.D {
	raw, err := bson.Marshal(v)
	require.NoError(mt, err)
	var doc bson.D
	require.NoError(mt, bson.Unmarshal(raw, &doc))
	return doc
}

func ns(mt *mtest.T, collection string) string {
	return mt.DB.Name() + "." + collection
}

func testSession(status models.SessionStatus, count int64, lastActivity time.Time) *models.ChatSession {
	created := time.Date(2023, 10, 16, 9, 0, 0, 0, time.UTC)
	return &models.ChatSession{
		ID: "s1", UserID: "u1", LeagueID: "L1", RosterID: "1",
		Status: status, MessageCount: count,
		CreatedAt: created, LastActivityAt: lastActivity,
	}
}

func TestAppendMessage_ReservesSequenceOnSession(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("seq and timestamp come from the updated session", func(mt *mtest.T) {
		c := newMockClient(mt)
		proposed := time.Date(2023, 10, 16, 10, 0, 0, 0, time.UTC)
		// Another writer already moved lastActivityAt past our clock.
		ahead := proposed.Add(2 * time.Second)

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt, testSession(models.SessionStatusActive, 3, ahead))}),
			mtest.CreateSuccessResponse(),
		)
		mt.ClearEvents()

		msg := &models.ChatMessage{ID: "m3", SessionID: "s1", Role: models.RoleUser, Content: "hi", CreatedAt: proposed}
		stored, err := c.AppendMessage(context.Background(), msg)
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), stored.Seq)
		assert.True(mt, ahead.Equal(stored.CreatedAt), "got %s", stored.CreatedAt)
		assert.Equal(mt, int64(0), msg.Seq)

		reserve := mt.GetStartedEvent()
		require.NotNil(mt, reserve)
		assert.Equal(mt, "findAndModify", reserve.CommandName)
		assert.Equal(mt, "s1", reserve.Command.Lookup("query", "_id").StringValue())
		assert.Equal(mt, string(models.SessionStatusActive), reserve.Command.Lookup("query", "status").StringValue())
		_, err = reserve.Command.LookupErr("update", "$inc", "messageCount")
		assert.NoError(mt, err)
		maxAt, err := reserve.Command.LookupErr("update", "$max", "lastActivityAt")
		require.NoError(mt, err)
		assert.True(mt, proposed.Equal(maxAt.Time()))

		insert := mt.GetStartedEvent()
		require.NotNil(mt, insert)
		assert.Equal(mt, "insert", insert.CommandName)
		docs, err := insert.Command.LookupErr("documents")
		require.NoError(mt, err)
		values, err := docs.Array().Values()
		require.NoError(mt, err)
		require.Len(mt, values, 1)
		assert.Equal(mt, int64(3), values[0].Document().Lookup("seq").Int64())
	})

	mt.Run("message ID is required", func(mt *mtest.T) {
		c := newMockClient(mt)
		_, err := c.AppendMessage(context.Background(), &models.ChatMessage{SessionID: "s1"})
		assert.EqualError(mt, err, "message ID is required")
	})
}

func TestAppendMessage_Rejected(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	at := time.Date(2023, 10, 16, 10, 0, 0, 0, time.UTC)
	msg := func() *models.ChatMessage {
		return &models.ChatMessage{ID: "m1", SessionID: "s1", Role: models.RoleUser, Content: "hi", CreatedAt: at}
	}

	mt.Run("archived session is a conflict", func(mt *mtest.T) {
		c := newMockClient(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ns(mt, SessionsCollection), mtest.FirstBatch,
				toDoc(mt, testSession(models.SessionStatusArchived, 4, at))),
		)

		_, err := c.AppendMessage(context.Background(), msg())
		domainErr, ok := domainerrors.GetDomainError(err)
		require.True(mt, ok, "got %v", err)
		assert.Equal(mt, domainerrors.ErrCodeConflict, domainErr.Code)
	})

	mt.Run("missing session is not found", func(mt *mtest.T) {
		c := newMockClient(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ns(mt, SessionsCollection), mtest.FirstBatch),
		)

		_, err := c.AppendMessage(context.Background(), msg())
		assert.True(mt, domainerrors.IsSessionNotFound(err))
	})

	mt.Run("duplicate message ID fails the insert", func(mt *mtest.T) {
		c := newMockClient(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt, testSession(models.SessionStatusActive, 1, at))}),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}),
		)

		_, err := c.AppendMessage(context.Background(), msg())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to insert message")
	})
}

func TestListMessages_TailOldestFirst(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("newest first from the server, reversed for the caller", func(mt *mtest.T) {
		c := newMockClient(mt)
		at := time.Date(2023, 10, 16, 10, 0, 0, 0, time.UTC)
		// Seq 3 and 4 share a timestamp; seq breaks the tie.
		newestFirst := []*models.ChatMessage{
			{ID: "m4", SessionID: "s1", Seq: 4, Role: models.RoleAssistant, Content: "four", CreatedAt: at.Add(time.Second)},
			{ID: "m3", SessionID: "s1", Seq: 3, Role: models.RoleUser, Content: "three", CreatedAt: at.Add(time.Second)},
			{ID: "m2", SessionID: "s1", Seq: 2, Role: models.RoleAssistant, Content: "two", CreatedAt: at},
		}
		batch := make([]bson.D, 0, len(newestFirst))
		for _, m := range newestFirst {
			batch = append(batch, toDoc(mt, m))
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, MessagesCollection), mtest.FirstBatch, batch...))
		mt.ClearEvents()

		got, err := c.ListMessages(context.Background(), "s1", 3)
		require.NoError(mt, err)
		require.Len(mt, got, 3)
		assert.Equal(mt, []int64{2, 3, 4}, []int64{got[0].Seq, got[1].Seq, got[2].Seq})
		assert.Equal(mt, "four", got[2].Content)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, "find", find.CommandName)
		assert.Equal(mt, "s1", find.Command.Lookup("filter", "sessionId").StringValue())
		assert.Equal(mt, int64(3), find.Command.Lookup("limit").Int64())

		sortKeys, err := find.Command.Lookup("sort").Document().Elements()
		require.NoError(mt, err)
		require.Len(mt, sortKeys, 2)
		assert.Equal(mt, "createdAt", sortKeys[0].Key())
		assert.Equal(mt, "seq", sortKeys[1].Key())
	})

	mt.Run("empty session", func(mt *mtest.T) {
		c := newMockClient(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, MessagesCollection), mtest.FirstBatch))

		got, err := c.ListMessages(context.Background(), "s1", 0)
		require.NoError(mt, err)
		assert.Empty(mt, got)
	})
}

func TestArchiveSession_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	at := time.Date(2023, 10, 16, 10, 0, 0, 0, time.UTC)

	mt.Run("returns the archived session", func(mt *mtest.T) {
		c := newMockClient(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: toDoc(mt, testSession(models.SessionStatusArchived, 2, at))}))

		s, err := c.ArchiveSession(context.Background(), "s1", at)
		require.NoError(mt, err)
		assert.True(mt, s.IsArchived())
	})

	mt.Run("unknown session", func(mt *mtest.T) {
		c := newMockClient(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := c.ArchiveSession(context.Background(), "missing", at)
		assert.True(mt, domainerrors.IsSessionNotFound(err))
	})
}
