// Package middleware provides HTTP middleware for the downtime
// reporting server: request logging, rate limiting, security headers,
// and basic auth for the metrics endpoint.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// skipLogPaths are high-frequency probe paths that would drown the log.
var skipLogPaths = []string{
	"/health",
	"/metrics",
	"/static/",
}

// loggingResponseWriter captures the status code and bytes written.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *loggingResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// RequestLogging logs one line per request with method, path, status,
// duration and client IP.
func RequestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range skipLogPaths {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			start := time.Now()
			lw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(lw, r)

			logger.Info("http request",
				"method", r.Method,
				"path", sanitizePath(r),
				"status", lw.status,
				"bytes", lw.bytes,
				"duration", time.Since(start).Round(time.Microsecond).String(),
				"ip", clientIP(r),
			)
		})
	}
}

// sanitizePath returns the request path without query values. Query
// strings can carry control numbers and form tokens that do not belong
// in the log.
func sanitizePath(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?<redacted>"
}
