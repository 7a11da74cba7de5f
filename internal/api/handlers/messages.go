package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosteriq/advisor-service/internal/api/dto"
	"github.com/rosteriq/advisor-service/internal/api/middleware"
	"github.com/rosteriq/advisor-service/internal/domain/errors"
)

// DefaultHistoryPageSize is used when no limit is given.
const DefaultHistoryPageSize = 50

// MessagesHandler handles message endpoints.
type MessagesHandler struct {
	advisor Advisor
}

// NewMessagesHandler creates a new MessagesHandler.
func NewMessagesHandler(advisor Advisor) *MessagesHandler {
	return &MessagesHandler{advisor: advisor}
}

// GetMessages handles GET /sessions/{sessionId}/messages
// @Summary Get messages
// @Description Returns the most recent messages of a session, oldest first
// @Tags Messages
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param limit query int false "Maximum number of messages" default(50) minimum(1) maximum(500)
// @Success 200 {object} dto.GetMessagesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/advisor/sessions/{sessionId}/messages [get]
func (h *MessagesHandler) GetMessages(c *gin.Context) {
	var req dto.GetMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid query parameters", err.Error()))
		return
	}
	if req.Limit == 0 {
		req.Limit = DefaultHistoryPageSize
	}

	messages, err := h.advisor.History(c.Request.Context(), c.Param("sessionId"), req.Limit)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GetMessagesResponse{Messages: dto.NewMessageResponses(messages)})
}

// SendMessage handles POST /sessions/{sessionId}/messages
// @Summary Send a message
// @Description Posts a user message and returns the assistant reply. The turn completes even if the client disconnects.
// @Tags Messages
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 200 {object} dto.SendMessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/advisor/sessions/{sessionId}/messages [post]
func (h *MessagesHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	reply, err := h.advisor.PostMessage(c.Request.Context(), c.Param("sessionId"), req.Content)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SendMessageResponse{Message: dto.NewMessageResponse(reply)})
}
