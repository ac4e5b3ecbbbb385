package handlers

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/marmos91/filegate/internal/bytesize"
	"github.com/marmos91/filegate/internal/logger"
	"github.com/marmos91/filegate/pkg/bufpool"
	"github.com/marmos91/filegate/pkg/store"
	"github.com/marmos91/filegate/pkg/upload"
)

// FormField is the multipart field carrying the uploaded file.
const FormField = "file"

// multipartOverhead is the room left above the payload ceiling for part
// headers and boundaries before the request body is cut off.
const multipartOverhead = int64(bytesize.MiB)

// HeaderCreatedAt carries the file's creation time on HEAD responses.
const HeaderCreatedAt = "Created-At"

// FileHandler serves the /{folder}/{file} routes.
type FileHandler struct {
	store Store
}

// NewFileHandler creates a FileHandler backed by s.
func NewFileHandler(s Store) *FileHandler {
	return &FileHandler{store: s}
}

// Get handles GET /{folder}/{file}.
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	folder, file, ok := fileParams(w, r)
	if !ok {
		return
	}

	obj, err := h.store.GetFile(r.Context(), folder, file)
	if err != nil {
		writeStoreError(w, r, err, MsgFileNotFound)
		return
	}
	defer func() { _ = obj.Close() }()

	hdr := w.Header()
	hdr.Set("Content-Type", contentTypeFor(obj.Info.Name))
	hdr.Set("Content-Length", strconv.FormatInt(obj.Info.Size, 10))
	hdr.Set("Last-Modified", obj.Info.ModTime.UTC().Format(http.TimeFormat))
	hdr.Set("Cache-Control", obj.CacheControl)
	w.WriteHeader(http.StatusOK)

	if _, err := bufpool.Copy(w, obj); err != nil {
		// Headers are gone; the client sees a short body.
		logger.WarnCtx(r.Context(), "File transfer interrupted", logger.Err(err))
	}
}

// Head handles HEAD /{folder}/{file}.
func (h *FileHandler) Head(w http.ResponseWriter, r *http.Request) {
	folder, file, ok := fileParams(w, r)
	if !ok {
		return
	}

	info, err := h.store.StatFile(r.Context(), folder, file)
	if err != nil {
		writeStoreError(w, r, err, MsgFileNotFound)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Length", strconv.FormatInt(info.Size, 10))
	hdr.Set("Last-Modified", info.ModTime.UTC().Format(http.TimeFormat))
	hdr.Set(HeaderCreatedAt, info.CreatedAt.UTC().Format(http.TimeFormat))
	hdr.Set("Cache-Control", store.CacheControl)
	w.WriteHeader(http.StatusOK)
}

// Upload handles POST /{folder}/{file}. The payload is the multipart field
// "file"; it is streamed to the store without buffering the whole body.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	folder, file, ok := fileParams(w, r)
	if !ok {
		return
	}

	limit := h.store.Policy().MaxSize() + multipartOverhead
	if r.ContentLength > limit {
		uploadFailed(w, r, upload.ErrTooLarge.Error())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	part, reason := filePart(r)
	if part == nil {
		uploadFailed(w, r, reason)
		return
	}
	defer func() { _ = part.Close() }()

	_, err := h.store.PutFile(r.Context(), store.PutInput{
		Folder:      folder,
		File:        file,
		SourceName:  part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		Size:        -1,
		Body:        part,
	})
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			uploadFailed(w, r, upload.ErrTooLarge.Error())
			return
		}
		writeStoreError(w, r, err, MsgFileNotFound)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: MsgFileUploaded})
}

// Delete handles DELETE /{folder}/{file}.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	folder, file, ok := fileParams(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteFile(r.Context(), folder, file); err != nil {
		writeStoreError(w, r, err, MsgFileNotFound)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: MsgFileDeleted})
}

// filePart advances the multipart stream to the "file" field. On failure it
// returns nil and the client-facing reason.
func filePart(r *http.Request) (*multipart.Part, string) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, "expected multipart/form-data body"
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, "no file provided"
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, upload.ErrTooLarge.Error()
			}
			return nil, "malformed multipart body"
		}
		if part.FormName() == FormField && part.FileName() != "" {
			return part, ""
		}
		_ = part.Close()
	}
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
