package handlers

import (
	"net/http"
	"strconv"
)

// FolderHandler serves the /{folder} routes.
type FolderHandler struct {
	store Store
}

// NewFolderHandler creates a FolderHandler backed by s.
func NewFolderHandler(s Store) *FolderHandler {
	return &FolderHandler{store: s}
}

// List handles GET /{folder}.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	folder, ok := folderParam(w, r)
	if !ok {
		return
	}

	names, err := h.store.ListFolder(r.Context(), folder)
	if err != nil {
		writeStoreError(w, r, err, MsgDirectoryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, FilesResponse{Files: names})
}

// Head handles HEAD /{folder}. Content-Length carries the summed size of
// the folder's direct files.
func (h *FolderHandler) Head(w http.ResponseWriter, r *http.Request) {
	folder, ok := folderParam(w, r)
	if !ok {
		return
	}

	info, err := h.store.StatFolder(r.Context(), folder)
	if err != nil {
		writeStoreError(w, r, err, MsgDirectoryNotFound)
		return
	}

	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("Last-Modified", info.ModTime.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
}

// Delete handles DELETE /{folder}, removing the folder and its contents.
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	folder, ok := folderParam(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteFolder(r.Context(), folder); err != nil {
		writeStoreError(w, r, err, MsgDirectoryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: MsgDirectoryDeleted})
}
