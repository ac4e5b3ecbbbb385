package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys.
const (
	AttrClientIP  = "client.ip"
	AttrRequestID = "http.request_id"
	AttrRoute     = "http.route"

	AttrOperation   = "filegate.operation"
	AttrFolder      = "filegate.folder"
	AttrFile        = "filegate.file"
	AttrSize        = "filegate.size"
	AttrCount       = "filegate.count"
	AttrContentType = "filegate.content_type"
	AttrErrorKind   = "filegate.error_kind"
)

// Span names, one per store operation.
const (
	SpanGetFile      = "store.GetFile"
	SpanStatFile     = "store.StatFile"
	SpanListFolder   = "store.ListFolder"
	SpanStatFolder   = "store.StatFolder"
	SpanPutFile      = "store.PutFile"
	SpanDeleteFile   = "store.DeleteFile"
	SpanDeleteFolder = "store.DeleteFolder"
)

func ClientIP(ip string) attribute.KeyValue { return attribute.String(AttrClientIP, ip) }
func RequestID(id string) attribute.KeyValue { return attribute.String(AttrRequestID, id) }
func Route(pattern string) attribute.KeyValue { return attribute.String(AttrRoute, pattern) }
func Operation(op string) attribute.KeyValue { return attribute.String(AttrOperation, op) }
func Folder(name string) attribute.KeyValue { return attribute.String(AttrFolder, name) }
func File(name string) attribute.KeyValue { return attribute.String(AttrFile, name) }
func Size(n int64) attribute.KeyValue { return attribute.Int64(AttrSize, n) }
func Count(n int) attribute.KeyValue { return attribute.Int(AttrCount, n) }
func ContentType(ct string) attribute.KeyValue { return attribute.String(AttrContentType, ct) }
func ErrorKind(kind string) attribute.KeyValue { return attribute.String(AttrErrorKind, kind) }

// StartStoreSpan starts a span for a store operation on folder (and file,
// when non-empty).
func StartStoreSpan(ctx context.Context, spanName, folder, file string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, 2+len(attrs))
	all = append(all, Folder(folder))
	if file != "" {
		all = append(all, File(file))
	}
	all = append(all, attrs...)
	return StartSpan(ctx, spanName, trace.WithAttributes(all...))
}
