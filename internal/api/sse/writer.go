// Package sse writes Server-Sent Events for the session message stream.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// EventType represents the type of SSE event.
type EventType string

const (
	// EventReady is sent once the listener is attached.
	EventReady EventType = "ready"
	// EventMessage carries one appended chat message.
	EventMessage EventType = "message"
	// EventError is an error event.
	EventError EventType = "error"
)

// Event is one frame on the stream. Data is JSON-encoded; ID, when set,
// becomes the client's Last-Event-ID on reconnect.
type Event struct {
	ID   string
	Type EventType
	Data any
}

// ErrorData is the payload of an EventError frame.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Writer writes Server-Sent Events to an HTTP response.
type Writer struct {
	writer  http.ResponseWriter
	flusher http.Flusher
}

// NewWriter sets the event-stream headers on w.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	return &Writer{writer: w, flusher: flusher}, nil
}

// Send writes and flushes one event.
func (w *Writer) Send(ev Event) error {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}

	var b strings.Builder
	if ev.ID != "" {
		fmt.Fprintf(&b, "id: %s\n", ev.ID)
	}
	fmt.Fprintf(&b, "event: %s\ndata: %s\n\n", ev.Type, data)
	return w.flush(b.String())
}

// SendError writes an EventError frame.
func (w *Writer) SendError(code, message string) error {
	return w.Send(Event{Type: EventError, Data: ErrorData{Code: code, Message: message}})
}

// Comment writes a comment line, used as a keep-alive.
func (w *Writer) Comment(text string) error {
	return w.flush(": " + text + "\n\n")
}

func (w *Writer) flush(frame string) error {
	if _, err := w.writer.Write([]byte(frame)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	w.flusher.Flush()
	return nil
}
