// Package prometheus provides the Prometheus-backed implementations of the
// metrics interfaces declared by the store and the HTTP middleware.
package prometheus

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/filegate/pkg/metrics"
	"github.com/marmos91/filegate/pkg/store"
	storeerrors "github.com/marmos91/filegate/pkg/store/errors"
)

// Label names.
const (
	labelOperation = "operation"
	labelOutcome   = "outcome"
	labelDirection = "direction"
	labelReason    = "reason"
)

// OutcomeOK is the outcome label of a successful operation. Failures use the
// lower-cased error kind, e.g. "notfound".
const OutcomeOK = "ok"

type storeMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	bytes      *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// NewStoreMetrics registers the store collectors on reg. It returns nil when
// reg is nil, which the store treats as metrics disabled.
func NewStoreMetrics(reg prometheus.Registerer) store.Metrics {
	if reg == nil {
		return nil
	}
	f := promauto.With(reg)

	return &storeMetrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by operation and outcome",
		}, []string{labelOperation, labelOutcome}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{labelOperation}),
		bytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "store",
			Name:      "bytes_total",
			Help:      "Payload bytes by direction (read = served, write = stored)",
		}, []string{labelDirection}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "upload",
			Name:      "rejections_total",
			Help:      "Uploads refused by the upload policy, by reason",
		}, []string{labelReason}),
	}
}

func (m *storeMetrics) ObserveOperation(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, Outcome(err)).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *storeMetrics) RecordBytes(direction string, n int64) {
	if m == nil {
		return
	}
	m.bytes.WithLabelValues(direction).Add(float64(n))
}

func (m *storeMetrics) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

// Outcome returns the outcome label for err.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	return strings.ToLower(storeerrors.KindOf(err).String())
}
