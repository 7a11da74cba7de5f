package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rosteriq/advisor-service/internal/api/dto"
	"github.com/rosteriq/advisor-service/internal/api/middleware"
	"github.com/rosteriq/advisor-service/internal/api/sse"
	domainerrors "github.com/rosteriq/advisor-service/internal/domain/errors"
	"github.com/rosteriq/advisor-service/internal/domain/models"
)

// DefaultHeartbeat is the keep-alive interval on idle streams.
const DefaultHeartbeat = 15 * time.Second

// Stream frame types.
const (
	StreamTypeMessage = "message"
	StreamTypeError   = "error"
)

// StreamHandler serves live message streams over SSE and WebSocket.
type StreamHandler struct {
	advisor        Advisor
	heartbeat      time.Duration
	originPatterns []string
}

// StreamConfig holds the configuration for the stream handler.
type StreamConfig struct {
	Heartbeat time.Duration
	// OriginPatterns are the WebSocket origins accepted besides same-host.
	OriginPatterns []string
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(advisor Advisor, cfg *StreamConfig) *StreamHandler {
	h := &StreamHandler{advisor: advisor, heartbeat: DefaultHeartbeat}
	if cfg != nil {
		if cfg.Heartbeat > 0 {
			h.heartbeat = cfg.Heartbeat
		}
		h.originPatterns = cfg.OriginPatterns
	}
	return h
}

// StreamSSE handles GET /sessions/{sessionId}/stream
// @Summary Stream messages (SSE)
// @Description Streams every message appended to the session. Send Last-Event-ID to replay messages after that sequence number.
// @Tags Stream
// @Produce text/event-stream
// @Param sessionId path string true "Session ID"
// @Param Last-Event-ID header string false "Last sequence number received"
// @Success 200 {string} string "event stream"
// @Failure 404 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/advisor/sessions/{sessionId}/stream [get]
func (h *StreamHandler) StreamSSE(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("sessionId")
	logger := middleware.GetRequestLogger(c)

	listener, err := h.advisor.Subscribe(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	defer h.advisor.Unsubscribe(listener)

	w, err := sse.NewWriter(c.Writer)
	if err != nil {
		middleware.HandleError(c, domainerrors.NewInternalError("streaming not supported", err))
		return
	}
	c.Status(http.StatusOK)

	if err := w.Send(sse.Event{Type: sse.EventReady, Data: gin.H{"sessionId": sessionID}}); err != nil {
		return
	}

	var lastSeq int64
	send := func(msg *models.ChatMessage) error {
		if msg.Seq <= lastSeq {
			return nil
		}
		lastSeq = msg.Seq
		return w.Send(sse.Event{
			ID:   strconv.FormatInt(msg.Seq, 10),
			Type: sse.EventMessage,
			Data: dto.NewMessageResponse(msg),
		})
	}

	if after, err := strconv.ParseInt(c.GetHeader("Last-Event-ID"), 10, 64); err == nil && after > 0 {
		lastSeq = after
		missed, err := h.advisor.History(ctx, sessionID, 0)
		if err != nil {
			_ = w.SendError(domainerrors.ErrCodeInternal, "failed to replay history")
			return
		}
		for _, msg := range missed {
			if err := send(msg); err != nil {
				return
			}
		}
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("sse client disconnected")
			return
		case msg, ok := <-listener.C:
			if !ok {
				return
			}
			if err := send(msg); err != nil {
				logger.Debug().Err(err).Msg("sse write failed")
				return
			}
		case <-ticker.C:
			if err := w.Comment("ping"); err != nil {
				return
			}
		}
	}
}

// StreamWS handles GET /sessions/{sessionId}/ws
// @Summary Stream messages (WebSocket)
// @Description Streams every message appended to the session as JSON frames. Clients may post by sending {"type":"message","content":"..."}; the reply arrives on the stream.
// @Tags Stream
// @Param sessionId path string true "Session ID"
// @Success 101 {string} string "switching protocols"
// @Failure 404 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/advisor/sessions/{sessionId}/ws [get]
func (h *StreamHandler) StreamWS(c *gin.Context) {
	sessionID := c.Param("sessionId")
	logger := middleware.GetRequestLogger(c)

	listener, err := h.advisor.Subscribe(c.Request.Context(), sessionID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	defer h.advisor.Unsubscribe(listener)

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to accept websocket")
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "stream closed") }()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	go h.readCommands(ctx, cancel, conn, sessionID, &logger)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-listener.C:
			if !ok {
				return
			}
			if err := writeFrame(ctx, conn, dto.StreamEvent{Type: StreamTypeMessage, Message: dto.NewMessageResponse(msg)}); err != nil {
				logger.Debug().Err(err).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			pingCtx, pingCancel := context.WithTimeout(ctx, h.heartbeat)
			err := conn.Ping(pingCtx)
			pingCancel()
			if err != nil {
				return
			}
		}
	}
}

// readCommands handles client frames until the connection closes.
func (h *StreamHandler) readCommands(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sessionID string, logger *zerolog.Logger) {
	defer cancel()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				logger.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}

		var cmd dto.StreamCommand
		if err := json.Unmarshal(data, &cmd); err != nil || cmd.Type != StreamTypeMessage {
			_ = writeFrame(ctx, conn, dto.StreamEvent{Type: StreamTypeError, Error: &dto.ErrorResponse{
				Code:    domainerrors.ErrCodeValidation,
				Message: `expected {"type":"message","content":"..."}`,
			}})
			continue
		}

		// The reply is delivered through the broadcast like any other message.
		go func() {
			if _, err := h.advisor.PostMessage(context.WithoutCancel(ctx), sessionID, cmd.Content); err != nil {
				resp := dto.ErrorResponse{Code: domainerrors.ErrCodeInternal, Message: "failed to post message"}
				if domainErr, ok := domainerrors.GetDomainError(err); ok {
					resp = dto.ErrorResponse{Code: domainErr.Code, Message: domainErr.Message, Details: domainErr.Details}
				}
				_ = writeFrame(ctx, conn, dto.StreamEvent{Type: StreamTypeError, Error: &resp})
			}
		}()
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, event dto.StreamEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}
