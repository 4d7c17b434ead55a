package fiber

// config holds Scheduler construction-time settings, assembled from a
// slice of Option values. There is no environment variable or file based
// configuration - per the data model, process-wide state is owned
// entirely by a Scheduler instance, constructed explicitly by the host
// program.
type config struct {
	logger          Logger
	invariantChecks bool
}

// Option configures a Scheduler at construction time, via Run or
// NewScheduler.
type Option func(*config)

// WithLogger attaches a structured tracer to a Scheduler. Every thread
// lifecycle transition (create, yield, block, wake, exit, reap) and
// semaphore operation is logged as a TraceEvent. A nil logger (the
// default) disables tracing entirely - no Logger calls are made on the
// hot path. Use NewLogifaceLogger to adapt the corpus's structured
// logging stack (github.com/joeycumines/logiface, with
// github.com/joeycumines/stumpy as a JSON backend) onto this interface.
func WithLogger(logger Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithInvariantChecks enables runtime assertions of the data model's
// invariants (I1-I6) after every operation that could violate them. This
// is intended for tests and debugging: it panics on the first violation,
// with a message naming the invariant. It is disabled by default, since
// the invariants are supposed to hold by construction and the checks
// duplicate work on every scheduling decision.
func WithInvariantChecks(enabled bool) Option {
	return func(c *config) {
		c.invariantChecks = enabled
	}
}

func resolveOptions(opts []Option) config {
	var c config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}
