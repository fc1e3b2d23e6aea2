package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Logger injects a request-scoped logger into the context and logs each
// request with its duration on completion.
func Logger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqLogger := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr).
				Logger()

			ctx := reqLogger.WithContext(req.Context())
			req = req.WithContext(ctx)

			start := time.Now()
			next.ServeHTTP(w, req)
			reqLogger.Info().Dur("duration", time.Since(start)).Msg("request handled")
		})
	}
}
