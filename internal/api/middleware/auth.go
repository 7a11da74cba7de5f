// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader carries the service key when no bearer token is sent.
const APIKeyHeader = "X-API-Key"

// AuthMiddleware checks the caller's service key. User identity is asserted
// by the calling front end; this service does not authenticate end users.
type AuthMiddleware struct {
	keys [][]byte
}

// NewAuthMiddleware creates a new AuthMiddleware. With no keys every request
// is allowed.
func NewAuthMiddleware(keys []string) *AuthMiddleware {
	m := &AuthMiddleware{}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			m.keys = append(m.keys, []byte(k))
		}
	}
	return m
}

// Enabled reports whether any key is configured.
func (m *AuthMiddleware) Enabled() bool {
	return len(m.keys) > 0
}

// Authenticate returns a gin middleware that validates the service key from
// "Authorization: Bearer <key>" or the X-API-Key header.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
					Code:    "UNAUTHORIZED",
					Message: "missing service key",
				})
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
					Code:    "UNAUTHORIZED",
					Message: "invalid authorization header format",
				})
				return
			}
			key = strings.TrimSpace(parts[1])
		}

		if !m.valid(key) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "invalid service key",
			})
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) valid(key string) bool {
	if key == "" {
		return false
	}
	for _, k := range m.keys {
		if subtle.ConstantTimeCompare(k, []byte(key)) == 1 {
			return true
		}
	}
	return false
}
