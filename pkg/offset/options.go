package offset

import "log/slog"

// BisectorEpsilon is the length below which the sum of two unit edge
// vectors is treated as having no direction.
const BisectorEpsilon = 1e-12

type options struct {
	logger  *slog.Logger
	workers int
}

func newOptions(opts []Option) options {
	o := options{
		logger:  slog.New(slog.DiscardHandler),
		workers: 1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a call into the offset engine.
type Option func(*options)

// WithLogger sets the diagnostic sink. Per-vertex decisions are logged at
// debug level, flips at info level. A nil logger keeps the engine silent.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithParallel computes vertex displacements on up to workers goroutines.
// Values below 2 keep the computation on the calling goroutine.
func WithParallel(workers int) Option {
	return func(o *options) {
		if workers < 1 {
			workers = 1
		}
		o.workers = workers
	}
}
