package examine

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics
// from a SearcherCache. Implement this interface to integrate with
// monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordOpen is called after each open of the cached pair.
	// duration is the time taken, err is nil if successful.
	RecordOpen(duration time.Duration, err error)

	// RecordReopen is called after each staleness refresh. replaced
	// reports whether a new handle was installed.
	RecordReopen(duration time.Duration, replaced bool, err error)

	// RecordStalenessProbe is called after each fast-path IsCurrent check.
	RecordStalenessProbe(current bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(time.Duration, error)         {}
func (NoopMetricsCollector) RecordReopen(time.Duration, bool, error) {}
func (NoopMetricsCollector) RecordStalenessProbe(bool)               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpenCount       atomic.Int64
	OpenErrors      atomic.Int64
	OpenTotalNanos  atomic.Int64
	ReopenCount     atomic.Int64
	ReopenErrors    atomic.Int64
	ReopenReplaced  atomic.Int64
	ProbeCount      atomic.Int64
	ProbeStaleCount atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (m *BasicMetricsCollector) RecordOpen(duration time.Duration, err error) {
	m.OpenCount.Add(1)
	m.OpenTotalNanos.Add(int64(duration))
	if err != nil {
		m.OpenErrors.Add(1)
	}
}

// RecordReopen implements MetricsCollector.
func (m *BasicMetricsCollector) RecordReopen(duration time.Duration, replaced bool, err error) {
	m.ReopenCount.Add(1)
	if err != nil {
		m.ReopenErrors.Add(1)
	}
	if replaced {
		m.ReopenReplaced.Add(1)
	}
}

// RecordStalenessProbe implements MetricsCollector.
func (m *BasicMetricsCollector) RecordStalenessProbe(current bool) {
	m.ProbeCount.Add(1)
	if !current {
		m.ProbeStaleCount.Add(1)
	}
}
