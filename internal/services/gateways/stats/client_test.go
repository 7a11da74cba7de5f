package stats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(&ClientConfig{BaseURL: srv.URL, APIKey: "key-123", Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func TestClient_SearchPlayers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-123", r.Header.Get("Authorization"))
		assert.Equal(t, "/players", r.URL.Path)
		assert.Equal(t, "Jalen Brunson", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`{"data":[{"id":666,"first_name":"Jalen","last_name":"Brunson","team":{"abbreviation":"NYK"}}]}`))
	})

	players, err := c.SearchPlayers(context.Background(), "Jalen Brunson")
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, Player{ID: "666", FullName: "Jalen Brunson", Team: "NYK"}, players[0])
}

func TestClient_GetGames(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2023-10-24", r.URL.Query().Get("dates[]"))
		_, _ = w.Write([]byte(`{"data":[{"id":1,"date":"2023-10-24","status":"7:30 pm ET",
			"home_team":{"abbreviation":"DEN"},"visitor_team":{"abbreviation":"LAL"}}]}`))
	})

	games, err := c.GetGames(context.Background(), time.Date(2023, 10, 24, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.True(t, games[0].Involves("LAL"))
	assert.Equal(t, time.Date(2023, 10, 24, 0, 0, 0, 0, time.UTC), games[0].Date)
}

func TestClient_GetPlayerStats_DateRange(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "237", q.Get("player_ids[]"))
		assert.Equal(t, "2022-10-02", q.Get("start_date"))
		assert.Equal(t, "2022-10-30", q.Get("end_date"))
		_, _ = w.Write([]byte(`{"data":[
			{"id":9,"min":"34","pts":30,"reb":8,"ast":5,"game":{"id":1,"date":"2022-10-18T00:00:00.000Z"}},
			{"id":10,"min":"36","pts":20,"reb":10,"ast":7,"game":{"id":2,"date":"2022-10-20T00:00:00.000Z"}}]}`))
	})

	lines, err := c.GetPlayerStats(context.Background(), "237",
		time.Date(2022, 10, 2, 0, 0, 0, 0, time.UTC), time.Date(2022, 10, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "34", lines[0].Minutes)
	assert.Equal(t, 30.0, lines[0].Stats["pts"])
	assert.NotContains(t, lines[0].Stats, "id")
	assert.Equal(t, time.Date(2022, 10, 18, 0, 0, 0, 0, time.UTC), lines[0].Date)
}

func TestClient_GetSeasonAverages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("season") == "2019" {
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"player_id":237,"season":2022,"games_played":55,"pts":28.9,"reb":8.3,"min":"35:30"}]}`))
	})

	avg, err := c.GetSeasonAverages(context.Background(), "237", 2022)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, 55, avg.GamesPlayed)
	assert.InDelta(t, 28.9, avg.Stats["pts"], 0.001)
	assert.NotContains(t, avg.Stats, "player_id")

	avg, err = c.GetSeasonAverages(context.Background(), "237", 2019)
	require.NoError(t, err)
	assert.Nil(t, avg)
}

func TestClient_RateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.GetGames(context.Background(), time.Now())
	assert.True(t, domainerrors.IsRateLimited(err))
}
