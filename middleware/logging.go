package middleware

import (
	"log"
	"net/http"
	"time"

	uuid "github.com/satori/go.uuid"
)

const RequestIDHeader = "X-Request-Id"

// LoggingMiddleware logs one line per request and tags it with a request id.
// An incoming X-Request-Id is reused.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewV4().String()
		}
		w.Header().Set(RequestIDHeader, id)

		// Create a custom response writer to capture status code
		wrw := &responseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		next.ServeHTTP(wrw, r)

		log.Printf(
			"%s %s %s %s %d %v",
			id,
			r.RemoteAddr,
			r.Method,
			r.URL.Path,
			wrw.status,
			time.Since(start),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
