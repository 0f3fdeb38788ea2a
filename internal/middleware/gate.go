// File: internal/middleware/gate.go
package middleware

import (
	"encoding/json"
	"net/http"

	"llmgate/internal/logging"
)

// InferenceGate serializes access to the single inference engine: one
// completion at a time, later requests get a 429 instead of queueing
// behind a potentially seconds-long generation.
type InferenceGate struct {
	slot   chan struct{}
	logger logging.Logger
}

func NewInferenceGate(logger logging.Logger) *InferenceGate {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	return &InferenceGate{slot: make(chan struct{}, 1), logger: logger}
}

// Wrap applies the gate to a handler chain.
func (g *InferenceGate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case g.slot <- struct{}{}:
			defer func() { <-g.slot }()
			next.ServeHTTP(w, r)
		default:
			g.logger.Warn("inference rejected, engine busy", "remote", r.RemoteAddr)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{
					"message": "an inference is already in progress",
					"type":    "server_error",
					"code":    "engine_busy",
				},
			})
		}
	})
}
