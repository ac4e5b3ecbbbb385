package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/marmos91/filegate/internal/logger"
	"github.com/marmos91/filegate/pkg/auth"
)

type fakeMetrics struct {
	mu        sync.Mutex
	routes    []string
	statuses  []int
	forbidden int
}

func (f *fakeMetrics) ObserveRequest(_, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes = append(f.routes, route)
	f.statuses = append(f.statuses, status)
}

func (f *fakeMetrics) RecordForbidden() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forbidden++
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKey(t *testing.T) {
	gate := auth.NewGate("secret")

	tests := []struct {
		name   string
		method string
		key    string
		set    bool
		status int
		body   string
	}{
		{"valid", http.MethodGet, "secret", true, http.StatusOK, ""},
		{"missing", http.MethodGet, "", false, http.StatusForbidden, ForbiddenBody},
		{"wrong", http.MethodDelete, "nope", true, http.StatusForbidden, ForbiddenBody},
		{"head wrong", http.MethodHead, "nope", true, http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMetrics{}
			var called bool
			h := APIKey(gate, "", m)(okHandler(&called))

			req := httptest.NewRequest(tt.method, "/photos/a.png", nil)
			if tt.set {
				req.Header.Set(auth.DefaultHeader, tt.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status == http.StatusOK, called)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rec.Body.String())
			} else if tt.status != http.StatusOK {
				assert.Empty(t, rec.Body.String())
			}
			if tt.status == http.StatusForbidden {
				assert.Equal(t, 1, m.forbidden)
			}
		})
	}
}

func TestAPIKey_CustomHeaderAndEmptySecret(t *testing.T) {
	var called bool
	h := APIKey(auth.NewGate("k"), "X-Token", nil)(okHandler(&called))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Token", "k")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	called = false
	h = APIKey(auth.NewGate(""), "", nil)(okHandler(&called))
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(auth.DefaultHeader, "")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestMetrics_RoutePattern(t *testing.T) {
	m := &fakeMetrics{}
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/{folder}/{file}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/{folder}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/photos/a.png", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/photos", nil))

	assert.Equal(t, []string{"/{folder}/{file}", "/{folder}"}, m.routes)
	assert.Equal(t, []int{http.StatusNotFound, http.StatusOK}, m.statuses)
}

func TestMetrics_NilIsPassthrough(t *testing.T) {
	var called bool
	h := Metrics(nil)(okHandler(&called))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestRequestLogger_InstallsLogContext(t *testing.T) {
	var lc *logger.LogContext
	h := chimw.RequestID(RequestLogger(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		lc = logger.FromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/photos", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	h.ServeHTTP(httptest.NewRecorder(), req)

	if assert.NotNil(t, lc) {
		assert.NotEmpty(t, lc.RequestID)
		assert.Equal(t, "10.1.2.3:4567", lc.ClientIP)
	}
}

func TestTracing_PassesThrough(t *testing.T) {
	var called bool
	h := Tracing(okHandler(&called))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}
