package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosteriq/advisor-service/internal/api/dto"
)

// Pinger is a dependency whose reachability is reported by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health states.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	cache Pinger
	store Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cache, store Pinger) *HealthHandler {
	return &HealthHandler{cache: cache, store: store}
}

func componentStatus(ctx context.Context, p Pinger) string {
	if err := p.Ping(ctx); err != nil {
		return StatusUnhealthy
	}
	return StatusHealthy
}

// Health handles the /health endpoint. A cache outage only degrades the
// service since reads fall through to the upstreams; a store outage makes
// it unhealthy.
// @Summary Health check
// @Description Returns the overall health status and component statuses
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy or degraded"
// @Failure 503 {object} dto.HealthResponse "Service unhealthy"
// @Router /api/v1/advisor/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	resp := dto.HealthResponse{
		Status: StatusHealthy,
		Components: map[string]string{
			"cache": componentStatus(ctx, h.cache),
			"store": componentStatus(ctx, h.store),
		},
	}

	code := http.StatusOK
	switch {
	case resp.Components["store"] != StatusHealthy:
		resp.Status = StatusUnhealthy
		code = http.StatusServiceUnavailable
	case resp.Components["cache"] != StatusHealthy:
		resp.Status = StatusDegraded
	}
	c.JSON(code, resp)
}

// Ready handles the /ready endpoint. Only the session store gates readiness.
// @Summary Readiness check
// @Description Returns 200 if the service is ready to accept traffic
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service ready"
// @Failure 503 {object} dto.HealthResponse "Service not ready"
// @Router /api/v1/advisor/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if componentStatus(c.Request.Context(), h.store) != StatusHealthy {
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status:     "not ready",
			Components: map[string]string{"store": StatusUnhealthy},
		})
		return
	}
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ready"})
}

// Live handles the /live endpoint.
// @Summary Liveness check
// @Description Returns 200 if the service is alive
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service alive"
// @Router /api/v1/advisor/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "alive"})
}
