package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosteriq/advisor-service/internal/api/dto"
	"github.com/rosteriq/advisor-service/internal/api/middleware"
	"github.com/rosteriq/advisor-service/internal/domain/errors"
)

// SessionsHandler handles session lifecycle endpoints.
type SessionsHandler struct {
	advisor Advisor
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(advisor Advisor) *SessionsHandler {
	return &SessionsHandler{advisor: advisor}
}

// CreateSession handles POST /sessions
// @Summary Start a session
// @Description Starts a chat session for a user's roster. When message is set, the first turn runs in the same request.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest true "Session request"
// @Success 201 {object} dto.CreateSessionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/advisor/sessions [post]
func (h *SessionsHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	session, reply, err := h.advisor.StartSession(c.Request.Context(), req.UserID, req.LeagueID, req.RosterID, req.Message)
	if err != nil && session == nil {
		middleware.HandleError(c, err)
		return
	}
	if err != nil {
		// The session exists; the opening turn did not complete.
		logger := middleware.GetRequestLogger(c)
		logger.Warn().Err(err).Str("session_id", session.ID).Msg("opening message failed")
	}

	c.JSON(http.StatusCreated, dto.CreateSessionResponse{
		Session: dto.NewSessionResponse(session),
		Reply:   dto.NewMessageResponse(reply),
	})
}

// ListSessions handles GET /sessions
// @Summary List sessions
// @Description Lists a user's sessions, most recently active first
// @Tags Sessions
// @Produce json
// @Param userId query string true "User ID"
// @Param leagueId query string false "League ID"
// @Param includeArchived query bool false "Include archived sessions"
// @Success 200 {object} dto.ListSessionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/advisor/sessions [get]
func (h *SessionsHandler) ListSessions(c *gin.Context) {
	var req dto.ListSessionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid query parameters", err.Error()))
		return
	}

	sessions, err := h.advisor.ListSessions(c.Request.Context(), req.UserID, req.LeagueID, req.IncludeArchived)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListSessionsResponse{Sessions: dto.NewSessionResponses(sessions)})
}

// GetSession handles GET /sessions/{sessionId}
// @Summary Get a session
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/advisor/sessions/{sessionId} [get]
func (h *SessionsHandler) GetSession(c *gin.Context) {
	session, err := h.advisor.GetSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(session))
}

// ArchiveSession handles POST /sessions/{sessionId}/archive
// @Summary Archive a session
// @Description Makes a session read-only. History stays readable.
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/advisor/sessions/{sessionId}/archive [post]
func (h *SessionsHandler) ArchiveSession(c *gin.Context) {
	session, err := h.advisor.Archive(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(session))
}
