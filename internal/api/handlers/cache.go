package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosteriq/advisor-service/internal/api/dto"
	"github.com/rosteriq/advisor-service/internal/api/middleware"
)

// CacheHandler handles cache maintenance endpoints.
type CacheHandler struct {
	advisor Advisor
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(advisor Advisor) *CacheHandler {
	return &CacheHandler{advisor: advisor}
}

// InvalidateLeague handles DELETE /leagues/{leagueId}/cache
// @Summary Invalidate league cache
// @Description Drops cached settings, rosters, users and matchups for a league so the next turn refetches them
// @Tags Cache
// @Produce json
// @Param leagueId path string true "League ID"
// @Success 200 {object} dto.InvalidateCacheResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/advisor/leagues/{leagueId}/cache [delete]
func (h *CacheHandler) InvalidateLeague(c *gin.Context) {
	leagueID := c.Param("leagueId")
	removed, err := h.advisor.InvalidateLeague(c.Request.Context(), leagueID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.InvalidateCacheResponse{LeagueID: leagueID, Removed: removed})
}
