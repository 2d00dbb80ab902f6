package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"
)

type panicResponse struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// RecoveryMiddleware turns a panic into a JSON 500 carrying the request id,
// so the reply can be matched with its log line.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				id := requestID(w, r)
				log.Printf("[%s] panic on %s %s: %v\n%s", id, r.Method, r.URL.Path, err, debug.Stack())

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(panicResponse{
					Error:     "Internal server error",
					Code:      http.StatusInternalServerError,
					RequestID: id,
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestID prefers the id LoggingMiddleware put on the response.
func requestID(w http.ResponseWriter, r *http.Request) string {
	if id := w.Header().Get(RequestIDHeader); id != "" {
		return id
	}
	return r.Header.Get(RequestIDHeader)
}
