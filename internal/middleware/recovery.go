// File: internal/middleware/recovery.go
package middleware

import (
	"encoding/json"
	"net/http"

	"llmgate/internal/logging"
)

// RecoverPanic turns handler panics into a wire-envelope 500 instead of
// dropping the connection.
func RecoverPanic(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", "panic", rec, "path", r.URL.Path)
					w.Header().Set("Connection", "close")
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]interface{}{
						"error": map[string]string{
							"message": "internal server error",
							"type":    "server_error",
						},
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
