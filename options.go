package bitcube

import (
	"go.uber.org/zap"

	"github.com/SeamusWaldron/bitcube/internal/layer"
	"github.com/SeamusWaldron/bitcube/internal/search"
)

// Option configures generation and search behavior.
type Option func(*config)

type config struct {
	search []search.Option
	layer  []layer.Option
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithThreads sets the worker count. Values below 1 use a single worker.
func WithThreads(n int) Option {
	return func(c *config) {
		c.search = append(c.search, search.WithThreads(n))
	}
}

// WithFindAll keeps searching after the first discovery.
func WithFindAll(enabled bool) Option {
	return func(c *config) {
		c.search = append(c.search, search.WithFindAll(enabled))
	}
}

// WithSink receives every discovery. Save is never called concurrently,
// but with several workers IDs may arrive out of order.
func WithSink(s Sink) Option {
	return func(c *config) {
		c.search = append(c.search, search.WithSink(s))
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.search = append(c.search, search.WithLogger(l))
	}
}

// WithCandidates replaces the pool layer rows are drawn from.
func WithCandidates(values []byte) Option {
	return func(c *config) {
		c.layer = append(c.layer, layer.WithCandidates(values))
	}
}

// WithCandidateLimit restricts the candidate pool to its first n values.
func WithCandidateLimit(n int) Option {
	return func(c *config) {
		c.layer = append(c.layer, layer.WithCandidateLimit(n))
	}
}
