// File: internal/handlers/sse.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// sseWriter frames events for a text/event-stream response: each event
// is a "data: " prefix, the serialized payload, then a blank line; the
// terminal sentinel is "data: [DONE]".
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEWriter(w http.ResponseWriter) *sseWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, _ := w.(http.Flusher)
	return &sseWriter{w: w, flusher: flusher}
}

// SendJSON emits one data frame carrying v serialized as JSON.
func (s *sseWriter) SendJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flush()
	return nil
}

// SendError emits one frame carrying the wire error envelope, so
// clients parsing SSE incrementally surface the failure without an
// out-of-band channel.
func (s *sseWriter) SendError(errType, code, message string) {
	_ = s.SendJSON(ErrorEnvelope{Error: APIError{
		Message: message,
		Type:    errType,
		Code:    code,
	}})
}

// SendDone emits the terminal sentinel frame.
func (s *sseWriter) SendDone() {
	fmt.Fprint(s.w, "data: [DONE]\n\n")
	s.flush()
}

func (s *sseWriter) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}
