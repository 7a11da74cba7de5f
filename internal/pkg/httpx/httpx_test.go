package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
)

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/league/1", r.URL.Path)
		assert.Equal(t, "2023", r.URL.Query().Get("season"))
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"name":"Dynasty"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Name: "fantasy platform", BaseURL: srv.URL + "/", Headers: map[string]string{"Authorization": "secret"}})

	var out struct{ Name string }
	err := c.GetJSON(context.Background(), "/league/1", url.Values{"season": {"2023"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Dynasty", out.Name)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		check  func(t *testing.T, err error)
	}{
		{"not found", http.StatusNotFound, nil, func(t *testing.T, err error) {
			assert.True(t, domainerrors.IsUpstreamNotFound(err))
		}},
		{"rate limited", http.StatusTooManyRequests, map[string]string{"Retry-After": "7"}, func(t *testing.T, err error) {
			assert.True(t, domainerrors.IsRateLimited(err))
			assert.Equal(t, 7*time.Second, domainerrors.RetryAfter(err))
		}},
		{"server error", http.StatusBadGateway, nil, func(t *testing.T, err error) {
			assert.True(t, domainerrors.IsUpstreamUnavailable(err))
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, http.StatusBadGateway, se.HTTPStatusCode())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := NewClient(Config{Name: "x", BaseURL: srv.URL}).GetJSON(context.Background(), "/p", nil, nil)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	err := NewClient(Config{Name: "stats provider", BaseURL: base}).GetJSON(context.Background(), "/games", nil, nil)
	assert.True(t, domainerrors.IsUpstreamUnavailable(err))
}

func TestClient_BadJSONIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	var out map[string]any
	err := NewClient(Config{Name: "x", BaseURL: srv.URL}).GetJSON(context.Background(), "/", nil, &out)
	assert.True(t, domainerrors.IsUpstreamUnavailable(err))
}

func TestRetry_RetriesOnlyRetryableErrors(t *testing.T) {
	policy := RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

	calls := 0
	err := Retry(context.Background(), policy, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return domainerrors.NewUpstreamUnavailableError("x", nil)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = Retry(context.Background(), policy, func(ctx context.Context) error {
		calls++
		return domainerrors.NewUpstreamNotFoundError("x", "league")
	})
	assert.True(t, domainerrors.IsUpstreamNotFound(err))
	assert.Equal(t, 1, calls)
}

func TestRetry_GivesUpAfterAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Attempts: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
		func(ctx context.Context) error {
			calls++
			return domainerrors.NewUpstreamRateLimitedError("x", time.Hour)
		})
	assert.True(t, domainerrors.IsRateLimited(err))
	assert.Equal(t, 2, calls)
}

func TestRetryAfterDuration(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": {"120"}}}
	assert.Equal(t, time.Minute, RetryAfterDuration(resp, time.Second, time.Minute))
	assert.Equal(t, time.Second, RetryAfterDuration(nil, time.Second, time.Minute))
}
