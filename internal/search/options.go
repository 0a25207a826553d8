package search

import "go.uber.org/zap"

// Option configures a search run.
type Option func(*config)

type config struct {
	threads    int
	findAll    bool
	sink       Sink
	logger     *zap.Logger
	flushEvery int64
}

func defaultConfig() *config {
	return &config{
		threads:    1,
		findAll:    false,
		logger:     zap.NewNop(),
		flushEvery: 1 << 16,
	}
}

func newConfig(opts []Option) *config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	if c.threads <= 0 {
		c.threads = 1
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.flushEvery <= 0 {
		c.flushEvery = 1
	}
	return c
}

// WithThreads sets the number of workers. Values <= 0 fall back to one.
func WithThreads(n int) Option {
	return func(c *config) {
		c.threads = n
	}
}

// WithFindAll selects between stopping after the first discovery (false,
// the default) and enumerating every discovery.
func WithFindAll(enabled bool) Option {
	return func(c *config) {
		c.findAll = enabled
	}
}

// WithSink sets where discoveries are persisted. Sink calls are
// serialized; IDs are assigned before the lock, so they may reach the sink
// out of order.
func WithSink(s Sink) Option {
	return func(c *config) {
		c.sink = s
	}
}

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithFlushEvery sets how many checked paths a worker accumulates locally
// before publishing them to the shared counter.
func WithFlushEvery(n int64) Option {
	return func(c *config) {
		c.flushEvery = n
	}
}
