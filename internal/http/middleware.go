package http

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/slok/tfe-notifier/internal/log"
)

// newRequestMiddleware returns a middleware that tags every request with an
// id for log correlation, logs the handled request and records its metrics.
func newRequestMiddleware(logger log.Logger, metrics MetricsRecorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.SetValuesOnCtx(r.Context(), log.Kv{"request-id": uuid.NewString()})
			r = r.WithContext(ctx)

			m := httpsnoop.CaptureMetrics(next, w, r)

			metrics.HTTPRequest(r.URL.Path, r.Method, m.Code, m.Duration)
			logger.WithCtxValues(ctx).WithValues(log.Kv{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   m.Code,
				"duration": m.Duration,
				"bytes":    m.Written,
			}).Infof("HTTP request handled")
		})
	}
}
