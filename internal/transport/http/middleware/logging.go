package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/commerce-api/internal/domain"
	"github.com/baechuer/commerce-api/internal/logger"
)

// RequestLogger writes one line per request after it completes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)
		next.ServeHTTP(sw, r)

		lg := logger.WithCtx(r.Context())
		var ev *zerolog.Event
		switch {
		case sw.status >= 500:
			ev = lg.Error()
		case sw.status >= 400:
			ev = lg.Warn()
		default:
			ev = lg.Info()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Int("bytes", sw.bytes).
			Dur("duration", time.Since(start)).
			Msg("http_request")
	})
}

// Recoverer turns a panic into a 500 error envelope.
func Recoverer(writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.WithCtx(r.Context()).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				writeErr(w, r, domain.ErrInternal(nil))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
