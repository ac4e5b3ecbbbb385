package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/filegate/internal/logger"
	"github.com/marmos91/filegate/internal/telemetry"
	storeerrors "github.com/marmos91/filegate/pkg/store/errors"
)

var spanNames = map[string]string{
	OpGetFile:      telemetry.SpanGetFile,
	OpStatFile:     telemetry.SpanStatFile,
	OpListFolder:   telemetry.SpanListFolder,
	OpStatFolder:   telemetry.SpanStatFolder,
	OpPutFile:      telemetry.SpanPutFile,
	OpDeleteFile:   telemetry.SpanDeleteFile,
	OpDeleteFolder: telemetry.SpanDeleteFolder,
}

// opScope tracks one operation for tracing, metrics and logging.
type opScope struct {
	s     *Store
	ctx   context.Context
	op    string
	span  trace.Span
	start time.Time
}

func (s *Store) begin(ctx context.Context, op, folder, file string) (context.Context, *opScope) {
	lc := logger.FromContext(ctx)
	if lc == nil {
		lc = &logger.LogContext{StartTime: time.Now()}
	}
	ctx = logger.WithContext(ctx, lc.WithOperation(op).WithTarget(folder, file))
	ctx, span := telemetry.StartStoreSpan(ctx, spanNames[op], folder, file, telemetry.Operation(op))
	return ctx, &opScope{s: s, ctx: ctx, op: op, span: span, start: time.Now()}
}

// end closes the span and records the outcome. Internal failures are logged
// with their cause; client-side failures only at debug level.
func (o *opScope) end(err error) {
	elapsed := time.Since(o.start)
	defer o.span.End()

	if o.s.metrics != nil {
		o.s.metrics.ObserveOperation(o.op, elapsed, err)
	}

	if err == nil {
		logger.DebugCtx(o.ctx, "Store operation completed",
			logger.DurationMs(float64(elapsed.Microseconds())/1000.0))
		return
	}

	kind := storeerrors.KindOf(err)
	o.span.SetAttributes(telemetry.ErrorKind(kind.String()))

	switch kind {
	case storeerrors.Internal:
		telemetry.RecordError(o.ctx, err)
		logger.ErrorCtx(o.ctx, "Store operation failed",
			logger.Kind(kind.String()), logger.Err(err))
	case storeerrors.InvalidUpload:
		if o.s.metrics != nil {
			o.s.metrics.RecordRejection(storeerrors.ReasonOf(err))
		}
		logger.DebugCtx(o.ctx, "Upload rejected",
			logger.Reason(storeerrors.ReasonOf(err)))
	default:
		logger.DebugCtx(o.ctx, "Store operation refused",
			logger.Kind(kind.String()), logger.Err(err))
	}
}

func (o *opScope) bytes(direction string, n int64) {
	if o.s.metrics != nil && n > 0 {
		o.s.metrics.RecordBytes(direction, n)
	}
}
