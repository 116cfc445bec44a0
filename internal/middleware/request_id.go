package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Siddarth2230/kiters/pkg/idgen"
	"github.com/Siddarth2230/kiters/pkg/logging"
	"github.com/Siddarth2230/kiters/pkg/metrics"
)

// HeaderRequestID carries the correlation ID in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestID tags every request with an ID from gen. An inbound
// X-Request-ID is kept when it has gen's width and alphabet, so callers can
// propagate their own ID across hops. The ID is echoed in the response,
// stored in the request context and attached to the access log line.
func RequestID(gen *idgen.Generator, logger *slog.Logger) func(http.Handler) http.Handler {
	width := gen.Width().String()
	mode := metrics.Mode(gen.Mixed())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(HeaderRequestID)
			if !idgen.Valid(id, gen.Width()) {
				id = gen.NextIDString()
				metrics.IDsIssued.WithLabelValues(width, mode).Inc()
			}

			ctx := logging.WithRequestID(r.Context(), id)
			w.Header().Set(HeaderRequestID, id)
			ww := wrap(w)

			next.ServeHTTP(ww, r.WithContext(ctx))

			logger.InfoContext(ctx, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration", time.Since(start),
			)
		})
	}
}
