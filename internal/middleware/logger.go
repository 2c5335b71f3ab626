package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// AccessLog writes one line per request through the request scoped logger.
// Static files and metrics scrapes are logged at debug level.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		l := zerolog.Ctx(r.Context())
		ev := l.Info()
		switch {
		case status >= 500:
			ev = l.Error()
		case isQuietPath(r.URL.Path):
			ev = l.Debug()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("locale", LocaleFromContext(r.Context())).
			Msg("request")
	})
}

func isQuietPath(path string) bool {
	return path == "/metrics" || path == "/v1/healthz" || len(path) >= 8 && path[:8] == "/static/"
}
