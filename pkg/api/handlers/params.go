package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// pathParam returns a decoded route parameter. chi matches against the raw
// path when the request carried escaped separators, in which case the
// parameter is still percent-encoded.
func pathParam(r *http.Request, key string) (string, bool) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, true
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", false
	}
	return decoded, true
}

func folderParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	folder, ok := pathParam(r, "folder")
	if !ok {
		writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: MsgInvalidPath})
	}
	return folder, ok
}

func fileParams(w http.ResponseWriter, r *http.Request) (folder, file string, ok bool) {
	if folder, ok = pathParam(r, "folder"); ok {
		file, ok = pathParam(r, "file")
	}
	if !ok {
		writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: MsgInvalidPath})
	}
	return folder, file, ok
}
