package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeerrors "github.com/marmos91/filegate/pkg/store/errors"
)

func TestNilRegistererDisables(t *testing.T) {
	assert.Nil(t, NewStoreMetrics(nil))
	assert.Nil(t, NewHTTPMetrics(nil))
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *storeMetrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("GetFile", time.Millisecond, nil)
		m.RecordBytes("read", 1)
		m.RecordRejection("file too large")
	})
	var h *httpMetrics
	assert.NotPanics(t, func() {
		h.ObserveRequest("GET", "/{folder}", 200, time.Millisecond)
		h.RecordForbidden()
	})
}

func TestStoreMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetrics(reg).(*storeMetrics)

	m.ObserveOperation("GetFile", 2*time.Millisecond, nil)
	m.ObserveOperation("GetFile", time.Millisecond, storeerrors.NewNotFoundError("GetFile", "a/b"))
	m.ObserveOperation("PutFile", time.Millisecond, errors.New("boom"))
	m.RecordBytes("write", 500)
	m.RecordBytes("write", 12)
	m.RecordRejection("invalid file type")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("GetFile", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("GetFile", "notfound")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("PutFile", "internal")))
	assert.Equal(t, 512.0, testutil.ToFloat64(m.bytes.WithLabelValues("write")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("invalid file type")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg).(*httpMetrics)

	m.ObserveRequest("GET", "/{folder}/{file}", 200, time.Millisecond)
	m.ObserveRequest("GET", "/{folder}/{file}", 404, time.Millisecond)
	m.RecordForbidden()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/{folder}/{file}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.denied))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "filegate_http_requests_total")
	assert.Contains(t, names, "filegate_http_forbidden_total")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "invalidpath", Outcome(storeerrors.NewInvalidPathError("ListFolder", "..", nil)))
	assert.Equal(t, "invalidupload", Outcome(storeerrors.NewInvalidUploadError("PutFile", "x", "file too large")))
}
