package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosteriq/advisor-service/internal/api/dto"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{BaseURL: srv.URL + "/", APIKey: "service-key"})
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(nil)
	assert.EqualError(t, err, "config is required")

	_, err = NewClient(&Config{})
	assert.EqualError(t, err, "base URL is required")
}

func TestClient_CreateSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/advisor/sessions", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("X-API-Key"))

		var req dto.CreateSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "L1", req.LeagueID)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"session":{"id":"s1","leagueId":"L1","status":"active"},
			"reply":{"id":"m2","seq":2,"role":"assistant","content":"Start Brunson."}}`))
	})

	resp, err := c.CreateSession(context.Background(), dto.CreateSessionRequest{
		UserID: "u1", LeagueID: "L1", RosterID: "3", Message: "who starts?",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", resp.Session.ID)
	assert.Equal(t, "Start Brunson.", resp.Reply.Content)
}

func TestClient_ListSessions_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "u1", q.Get("userId"))
		assert.Equal(t, "L1", q.Get("leagueId"))
		assert.Equal(t, "true", q.Get("includeArchived"))
		_, _ = w.Write([]byte(`{"sessions":[{"id":"s1"},{"id":"s2"}]}`))
	})

	sessions, err := c.ListSessions(context.Background(), "u1", "L1", true)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestClient_GetMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/advisor/sessions/s1/messages", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"messages":[{"seq":1,"role":"user","content":"hi"}]}`))
	})

	messages, err := c.GetMessages(context.Background(), "s1", 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Content)
}

func TestClient_InvalidateLeague(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/advisor/leagues/L1/cache", r.URL.Path)
		_, _ = w.Write([]byte(`{"leagueId":"L1","removed":3}`))
	})

	removed, err := c.InvalidateLeague(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
}

func TestClient_ErrorResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"CONFLICT","message":"session is archived","details":"s1"}`))
	})

	_, err := c.SendMessage(context.Background(), "s1", "hello")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "CONFLICT", apiErr.Code)
	assert.Equal(t, "409 CONFLICT: session is archived (s1)", apiErr.Error())
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GetSession(context.Background(), "s1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
