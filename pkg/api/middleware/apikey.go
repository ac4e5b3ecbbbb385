// Package middleware provides the HTTP middleware of the file API.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/marmos91/filegate/internal/logger"
	"github.com/marmos91/filegate/pkg/auth"
)

// ForbiddenBody is the JSON body of a rejected request.
const ForbiddenBody = `{"error":"Forbidden"}`

// APIKey rejects every request whose header does not carry the shared
// secret. It runs before routing, so no path is resolved and no file is
// touched for a rejected request. HEAD responses carry the status only.
func APIKey(gate *auth.Gate, header string, metrics HTTPMetrics) func(http.Handler) http.Handler {
	if header == "" {
		header = auth.DefaultHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.Check(r.Header.Get(header)); err != nil {
				logger.DebugCtx(r.Context(), "Request rejected by access gate", logger.Reason(err.Error()))
				if metrics != nil {
					metrics.RecordForbidden()
				}
				writeForbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeForbidden(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Forbidden"})
}
