// File: internal/handlers/wire.go

// Package handlers maps HTTP-shaped requests onto the store and the
// inference engine, producing OpenAI-compatible JSON and SSE responses.
package handlers

import (
	"encoding/json"
	"net/http"
)

// Error taxonomy used in the wire envelope.
const (
	ErrTypeInvalidRequest = "invalid_request_error"
	ErrTypeServer         = "server_error"
	ErrTypeNotFound       = "not_found"

	CodeEngineNotReady = "engine_not_ready"
	CodeEngineBusy     = "engine_busy"
)

// APIError is the error payload inside the wire envelope.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope is the OpenAI-style error body: {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending wire-envelope error responses.
func writeError(w http.ResponseWriter, status int, errType, code, message string) {
	writeJSON(w, status, ErrorEnvelope{Error: APIError{
		Message: message,
		Type:    errType,
		Code:    code,
	}})
}
