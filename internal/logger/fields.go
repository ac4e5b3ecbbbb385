package logger

import "log/slog"

// Standard field keys. Use these consistently so logs can be queried by key.
const (
	KeyRequestID = "request_id"
	KeyTraceID   = "trace_id"
	KeyOperation = "operation"
	KeyClientIP  = "client_ip"

	KeyMethod   = "method"
	KeyRoute    = "path"
	KeyStatus   = "status"
	KeyBytes    = "bytes"
	KeyDuration = "duration"

	KeyRoot   = "root"
	KeyFolder = "folder"
	KeyFile   = "file"
	KeyPath   = "resolved_path"
	KeySize   = "size"
	KeyCount  = "count"

	KeyContentType = "content_type"
	KeyReason      = "reason"
	KeyKind        = "kind"
	KeyDurationMs  = "duration_ms"
	KeyError       = "error"
)

// Folder returns a slog.Attr for a folder segment
func Folder(name string) slog.Attr {
	return slog.String(KeyFolder, name)
}

// File returns a slog.Attr for a file leaf
func File(name string) slog.Attr {
	return slog.String(KeyFile, name)
}

// Path returns a slog.Attr for a resolved filesystem path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Size returns a slog.Attr for a byte size
func Size(n int64) slog.Attr {
	return slog.Int64(KeySize, n)
}

// Count returns a slog.Attr for an entry count
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// ContentType returns a slog.Attr for a declared media type
func ContentType(ct string) slog.Attr {
	return slog.String(KeyContentType, ct)
}

// Reason returns a slog.Attr for a rejection reason
func Reason(r string) slog.Attr {
	return slog.String(KeyReason, r)
}

// Kind returns a slog.Attr for an error kind
func Kind(k string) slog.Attr {
	return slog.String(KeyKind, k)
}

// DurationMs returns a slog.Attr for a duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error. A nil error yields an empty attr,
// which handlers drop.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
