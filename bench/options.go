package bench

import "github.com/hupe1980/hybridvec/blobstore"

type options struct {
	logger  *Logger
	metrics MetricsCollector
	store   blobstore.Store
}

func defaultOptions() options {
	return options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
}

// Option configures a Runner.
type Option func(*options)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics sink.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

// WithStore sets where fixtures are read from and reports are written to.
// Without a store, fixtures are unavailable and Run only returns the report.
func WithStore(s blobstore.Store) Option {
	return func(o *options) {
		o.store = s
	}
}
