package middleware

import (
	"net/http"
	"time"

	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/logging"
)

// Logging writes one structured line per request once it completes.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lw, r)

		logger := logging.WithRequest(RequestIDFrom(r.Context()), common.ClientIP(r), routePattern(r))
		fields := []interface{}{
			"method", r.Method,
			"status_code", lw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		if lw.statusCode >= http.StatusInternalServerError {
			logger.Warnw("HTTP request completed", fields...)
			return
		}
		logger.Infow("HTTP request completed", fields...)
	})
}
