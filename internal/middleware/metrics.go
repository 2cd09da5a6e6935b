package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// MetricsAuth protects the Prometheus scrape endpoint with basic auth.
// Auth is enforced whenever either credential is set; with both empty
// the endpoint is open, which is only acceptable behind a private
// network.
func MetricsAuth(username, password string, logger *slog.Logger) func(http.Handler) http.Handler {
	enabled := username != "" || password != ""

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1

			if !ok || !userMatch || !passMatch {
				logger.Warn("metrics auth failed", "ip", clientIP(r))
				w.Header().Set("WWW-Authenticate", `Basic realm="metrics"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
