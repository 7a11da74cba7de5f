package errors

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_ErrorString(t *testing.T) {
	err := NewSessionNotFoundError("abc")
	assert.Equal(t, "SESSION_NOT_FOUND: session not found (abc)", err.Error())
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)

	assert.Equal(t, "TIMEOUT: model call timed out", NewTimeoutError("model call").Error())
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("fetch rosters: %w", NewUpstreamRateLimitedError("fantasy platform", 3*time.Second))

	assert.True(t, IsRateLimited(wrapped))
	assert.True(t, IsRetryable(wrapped))
	assert.False(t, IsUpstreamUnavailable(wrapped))
	assert.Equal(t, 3*time.Second, RetryAfter(wrapped))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewUpstreamUnavailableError("stats provider", fmt.Errorf("dial tcp: refused"))))
	assert.False(t, IsRetryable(NewUpstreamNotFoundError("fantasy platform", "league 1")))
	assert.False(t, IsRetryable(fmt.Errorf("plain error")))
	assert.Zero(t, RetryAfter(fmt.Errorf("plain error")))
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := NewModelUnavailableError("all backends failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsModelUnavailable(err))
	assert.True(t, IsDomainError(err))
}

func TestInvalidTool(t *testing.T) {
	err := NewInvalidToolError("delete_league", "unknown tool")
	assert.True(t, IsInvalidTool(err))
	assert.Contains(t, err.Error(), `"delete_league"`)
}
