package examine

import "time"

type options struct {
	logger            *Logger
	metricsCollector  MetricsCollector
	reservedFields    []string
	stalenessInterval time.Duration
}

// Option configures a SearcherCache.
type Option func(*options)

// WithLogger configures the logger used for cache transitions.
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures operational metrics collection.
// If nil is passed, collection is disabled.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithReservedFields extends the set of field names hidden from
// ListSearchableFields. Engine bookkeeping fields are always hidden.
func WithReservedFields(fields ...string) Option {
	return func(o *options) {
		o.reservedFields = append(o.reservedFields, fields...)
	}
}

// WithStalenessInterval rate-limits the fast-path staleness probe: between
// probes the cached searcher is served as-is, bounding how often a hot
// search loop touches the engine. Staleness is then detected at most d
// late. Zero (the default) probes on every call.
func WithStalenessInterval(d time.Duration) Option {
	return func(o *options) {
		o.stalenessInterval = d
	}
}
