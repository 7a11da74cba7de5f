// Package broadcast fans appended chat messages out to live listeners.
//
// Delivery is best effort. The session store is the source of truth; a
// listener that falls behind or disconnects misses messages and must reload
// history to catch up.
package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rosteriq/advisor-service/internal/domain/models"
)

// DefaultBufferSize is the per-listener outbound buffer.
const DefaultBufferSize = 16

// Broadcaster delivers newly appended messages to a session's listeners.
type Broadcaster interface {
	// Subscribe registers a listener for one session.
	Subscribe(sessionID string) *Listener
	// Unsubscribe removes the listener and closes its channel. Safe to call twice.
	Unsubscribe(l *Listener)
	// Publish delivers msg to every current listener of the session without
	// blocking on any of them.
	Publish(ctx context.Context, sessionID string, msg *models.ChatMessage) error
	// Close releases resources held by the broadcaster.
	Close() error
}

// Listener receives messages for one session on C.
type Listener struct {
	ID        string
	SessionID string
	C         <-chan *models.ChatMessage

	out       chan *models.ChatMessage
	closeOnce sync.Once
}

func (l *Listener) close() {
	l.closeOnce.Do(func() { close(l.out) })
}

// Hub is the in-process Broadcaster.
type Hub struct {
	mu          sync.RWMutex
	bufferSize  int
	subscribers map[string]map[*Listener]struct{}
	logger      zerolog.Logger
}

// HubConfig holds the configuration for a Hub.
type HubConfig struct {
	BufferSize int
	Logger     *zerolog.Logger
}

// NewHub creates a new in-process hub.
func NewHub(cfg *HubConfig) *Hub {
	h := &Hub{
		bufferSize:  DefaultBufferSize,
		subscribers: make(map[string]map[*Listener]struct{}),
		logger:      log.Logger,
	}
	if cfg != nil {
		if cfg.BufferSize > 0 {
			h.bufferSize = cfg.BufferSize
		}
		if cfg.Logger != nil {
			h.logger = *cfg.Logger
		}
	}
	return h
}

// Subscribe registers a listener for sessionID.
func (h *Hub) Subscribe(sessionID string) *Listener {
	out := make(chan *models.ChatMessage, h.bufferSize)
	l := &Listener{ID: uuid.NewString(), SessionID: sessionID, C: out, out: out}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subscribers[sessionID]
	if !ok {
		set = make(map[*Listener]struct{})
		h.subscribers[sessionID] = set
	}
	set[l] = struct{}{}

	h.logger.Debug().Str("session_id", sessionID).Str("listener_id", l.ID).Msg("listener subscribed")
	return l
}

// Unsubscribe removes l and closes its channel.
func (h *Hub) Unsubscribe(l *Listener) {
	if l == nil {
		return
	}

	h.mu.Lock()
	if set, ok := h.subscribers[l.SessionID]; ok {
		delete(set, l)
		if len(set) == 0 {
			delete(h.subscribers, l.SessionID)
		}
	}
	h.mu.Unlock()

	l.close()
	h.logger.Debug().Str("session_id", l.SessionID).Str("listener_id", l.ID).Msg("listener unsubscribed")
}

// Publish delivers msg to the session's listeners. A listener whose buffer
// is full misses the message.
func (h *Hub) Publish(_ context.Context, sessionID string, msg *models.ChatMessage) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for l := range h.subscribers[sessionID] {
		select {
		case l.out <- msg:
		default:
			h.logger.Warn().
				Str("session_id", sessionID).
				Str("listener_id", l.ID).
				Int64("seq", msg.Seq).
				Msg("dropping message; listener buffer full")
		}
	}
	return nil
}

// ListenerCount returns the number of listeners on a session.
func (h *Hub) ListenerCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[sessionID])
}

// Close unsubscribes every listener.
func (h *Hub) Close() error {
	h.mu.Lock()
	subscribers := h.subscribers
	h.subscribers = make(map[string]map[*Listener]struct{})
	h.mu.Unlock()

	for _, set := range subscribers {
		for l := range set {
			l.close()
		}
	}
	return nil
}
