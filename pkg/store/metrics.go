package store

import "time"

// Metrics receives per-operation observations. A nil Metrics disables
// collection; the Prometheus implementation lives in pkg/metrics/prometheus.
type Metrics interface {
	// ObserveOperation records one finished operation. err is nil on success.
	ObserveOperation(op string, duration time.Duration, err error)

	// RecordBytes records payload bytes moved in direction "read" or "write".
	RecordBytes(direction string, n int64)

	// RecordRejection records an upload refused by the policy.
	RecordRejection(reason string)
}

// Byte directions passed to Metrics.RecordBytes.
const (
	DirectionRead  = "read"
	DirectionWrite = "write"
)
