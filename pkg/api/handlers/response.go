package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/marmos91/filegate/internal/logger"
	storeerrors "github.com/marmos91/filegate/pkg/store/errors"
)

// Client-facing messages.
const (
	MsgFileUploaded      = "File uploaded successfully"
	MsgFileDeleted       = "File deleted successfully"
	MsgDirectoryDeleted  = "Directory deleted successfully"
	MsgInvalidPath       = "Invalid path"
	MsgFileNotFound      = "File not found"
	MsgDirectoryNotFound = "Directory not found"
	MsgUploadFailed      = "Upload failed"
	MsgForbidden         = "Forbidden"
	MsgInternal          = "Internal Server Error"
)

// MessageResponse is the body of a successful mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// FilesResponse is the body of a folder listing.
type FilesResponse struct {
	Files []string `json:"files"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("Failed to encode response", logger.Err(err))
	}
}

// writeError writes an error body, or only the status for HEAD requests.
func writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	if r.Method == http.MethodHead {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, body)
}

// writeStoreError maps a store failure to its HTTP status. notFound is the
// message used for NotFound, which differs between file and folder routes.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch storeerrors.KindOf(err) {
	case storeerrors.Forbidden:
		writeError(w, r, http.StatusForbidden, ErrorResponse{Error: MsgForbidden})
	case storeerrors.InvalidPath:
		writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: MsgInvalidPath})
	case storeerrors.NotFound:
		writeError(w, r, http.StatusNotFound, ErrorResponse{Error: notFound})
	case storeerrors.InvalidUpload:
		writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: MsgUploadFailed, Details: storeerrors.ReasonOf(err)})
	default:
		// The store has already logged the cause.
		writeError(w, r, http.StatusInternalServerError, ErrorResponse{Error: MsgInternal})
	}
}

func uploadFailed(w http.ResponseWriter, r *http.Request, reason string) {
	writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: MsgUploadFailed, Details: reason})
}
