package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HTTPMetrics receives per-request observations. The Prometheus
// implementation lives in pkg/metrics/prometheus.
type HTTPMetrics interface {
	// ObserveRequest records one finished request. route is the chi route
	// pattern, never the raw path, to keep label cardinality bounded.
	ObserveRequest(method, route string, status int, duration time.Duration)

	// RecordForbidden counts a request rejected by the access gate.
	RecordForbidden()
}

// Metrics records request counts and latencies. A nil m disables it.
func Metrics(m HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(r.Method, route, status, time.Since(start))
		})
	}
}
