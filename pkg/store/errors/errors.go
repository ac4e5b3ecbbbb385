// Package errors defines the failure taxonomy of the store operations.
// It is a leaf package so that the store, the HTTP handlers and the API
// client can all share it without import cycles.
package errors

import (
	goerrors "errors"
	"fmt"
)

// Kind classifies a store failure.
type Kind int

const (
	// Forbidden means the credential check failed.
	Forbidden Kind = iota + 1

	// InvalidPath means a name failed validation or escaped the root.
	// Always raised before any filesystem access.
	InvalidPath

	// NotFound means the target does not exist, or exists with the wrong type.
	NotFound

	// InvalidUpload means the upload policy rejected the payload. Reason
	// carries the client-facing explanation.
	InvalidUpload

	// Internal covers every other failure. Details are logged, not returned.
	Internal
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Forbidden:
		return "Forbidden"
	case InvalidPath:
		return "InvalidPath"
	case NotFound:
		return "NotFound"
	case InvalidUpload:
		return "InvalidUpload"
	case Internal:
		return "Internal"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Sentinels for errors.Is comparisons by kind.
var (
	ErrForbidden     = &StoreError{Kind: Forbidden}
	ErrInvalidPath   = &StoreError{Kind: InvalidPath}
	ErrNotFound      = &StoreError{Kind: NotFound}
	ErrInvalidUpload = &StoreError{Kind: InvalidUpload}
	ErrInternal      = &StoreError{Kind: Internal}
)

// StoreError is the error returned by every store operation.
type StoreError struct {
	Kind Kind

	// Op is the operation name, e.g. "PutFile".
	Op string

	// Path is the folder or folder/file the client asked for.
	Path string

	// Reason is a short client-safe explanation (InvalidUpload only).
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

func (e *StoreError) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (path: %s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches another *StoreError of the same kind, so the package sentinels
// work with errors.Is.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	return ok && t.Kind == e.Kind
}

// NewInvalidPathError wraps a validation failure.
func NewInvalidPathError(op, path string, cause error) *StoreError {
	return &StoreError{Kind: InvalidPath, Op: op, Path: path, Err: cause}
}

// NewNotFoundError reports a missing file or folder.
func NewNotFoundError(op, path string) *StoreError {
	return &StoreError{Kind: NotFound, Op: op, Path: path}
}

// NewInvalidUploadError reports a policy rejection with a client-facing reason.
func NewInvalidUploadError(op, path, reason string) *StoreError {
	return &StoreError{Kind: InvalidUpload, Op: op, Path: path, Reason: reason}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(op, path string, cause error) *StoreError {
	return &StoreError{Kind: Internal, Op: op, Path: path, Err: cause}
}

// KindOf returns the kind of err. Errors that are not StoreErrors are Internal;
// nil yields 0.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var se *StoreError
	if goerrors.As(err, &se) {
		return se.Kind
	}
	return Internal
}

// ReasonOf returns the client-facing reason carried by err, if any.
func ReasonOf(err error) string {
	var se *StoreError
	if goerrors.As(err, &se) {
		return se.Reason
	}
	return ""
}

func IsNotFound(err error) bool      { return KindOf(err) == NotFound }
func IsInvalidPath(err error) bool   { return KindOf(err) == InvalidPath }
func IsInvalidUpload(err error) bool { return KindOf(err) == InvalidUpload }
func IsInternal(err error) bool      { return KindOf(err) == Internal }
