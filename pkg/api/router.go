package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/filegate/pkg/api/handlers"
	"github.com/marmos91/filegate/pkg/api/middleware"
	"github.com/marmos91/filegate/pkg/auth"
)

// NewRouter creates the chi router of the file API.
//
// Every route sits behind the API-key gate, which runs before routing
// parameters are looked at. The gate is preceded by request ID, real IP,
// tracing, logging, panic recovery and metrics, and followed by the
// request timeout.
//
// Routes:
//   - GET, HEAD, POST, DELETE /{folder}/{file}
//   - GET, HEAD, DELETE /{folder}
//
// metrics may be nil.
func NewRouter(cfg Config, store handlers.Store, gate *auth.Gate, metrics middleware.HTTPMetrics) http.Handler {
	cfg.ApplyDefaults()

	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Tracing)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.APIKey(gate, cfg.AuthHeader, metrics))
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	files := handlers.NewFileHandler(store)
	folders := handlers.NewFolderHandler(store)

	r.Route("/{folder}", func(r chi.Router) {
		r.Get("/", folders.List)
		r.Head("/", folders.Head)
		r.Delete("/", folders.Delete)

		r.Get("/{file}", files.Get)
		r.Head("/{file}", files.Head)
		r.Post("/{file}", files.Upload)
		r.Delete("/{file}", files.Delete)
	})

	return r
}
