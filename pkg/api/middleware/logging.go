package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/filegate/internal/logger"
	"github.com/marmos91/filegate/internal/telemetry"
)

// RequestLogger installs a logger.LogContext on the request and logs its
// completion. It must run after chi's RequestID and RealIP middleware.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lc := logger.NewLogContext(middleware.GetReqID(r.Context()), r.RemoteAddr)
		if traceID := telemetry.TraceID(r.Context()); traceID != "" {
			lc = lc.WithTrace(traceID)
		}
		ctx := logger.WithContext(r.Context(), lc)

		logger.DebugCtx(ctx, "Request started",
			logger.KeyMethod, r.Method,
			logger.KeyRoute, r.URL.Path,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.InfoCtx(ctx, "Request completed",
			logger.KeyMethod, r.Method,
			logger.KeyRoute, r.URL.Path,
			logger.KeyStatus, ww.Status(),
			logger.KeyBytes, ww.BytesWritten(),
			logger.KeyDuration, time.Since(lc.StartTime).String(),
		)
	})
}
