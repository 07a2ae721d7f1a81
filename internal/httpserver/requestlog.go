package httpserver

import (
	"log"
	"net/http"
	"time"

	"github.com/fdg312/health-diary/internal/auth"
	"github.com/fdg312/health-diary/internal/config"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach Flush for the dashboard stream.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogMiddleware logs one line per request when LogLevel is debug,
// with the token subject when the caller sent one.
func RequestLogMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	if cfg.LogLevel != "debug" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		sub, ok := auth.Subject(r.Context())
		if !ok {
			sub = "-"
		}
		log.Printf("DEBUG http: %s %s status=%d sub=%s dur=%s", r.Method, r.URL.Path, rec.status, sub, time.Since(start).Round(time.Millisecond))
	})
}
