package middleware_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/rosteriq/advisor-service/internal/api/middleware"
	"github.com/rosteriq/advisor-service/internal/testutil"
)

func newAuthRouter(keys ...string) *gin.Engine {
	auth := middleware.NewAuthMiddleware(keys)

	router := testutil.SetupTestRouter()
	router.GET("/protected", auth.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAuthMiddleware_NoKeysAllowsAll(t *testing.T) {
	auth := middleware.NewAuthMiddleware([]string{"", "  "})
	assert.False(t, auth.Enabled())

	w := testutil.PerformRequest(newAuthRouter(), http.MethodGet, "/protected", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    int
		message string
	}{
		{name: "api key header", headers: map[string]string{"X-API-Key": "secret-2"}, want: http.StatusNoContent},
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer secret-1"}, want: http.StatusNoContent},
		{name: "lowercase scheme", headers: map[string]string{"Authorization": "bearer secret-1"}, want: http.StatusNoContent},
		{name: "missing", want: http.StatusUnauthorized, message: "missing service key"},
		{name: "wrong scheme", headers: map[string]string{"Authorization": "Basic secret-1"}, want: http.StatusUnauthorized, message: "invalid authorization header format"},
		{name: "wrong key", headers: map[string]string{"X-API-Key": "nope"}, want: http.StatusUnauthorized, message: "invalid service key"},
	}

	router := newAuthRouter("secret-1", "secret-2")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.PerformRequest(router, http.MethodGet, "/protected", nil, tt.headers)

			assert.Equal(t, tt.want, w.Code)
			if tt.message != "" {
				var response middleware.ErrorResponse
				testutil.ParseJSONResponse(t, w, &response)
				assert.Equal(t, "UNAUTHORIZED", response.Code)
				assert.Equal(t, tt.message, response.Message)
			}
		})
	}
}
