package search

import (
	"sync"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
	"github.com/SeamusWaldron/bitcube/internal/cube"
)

// Strategy names the construction path that produced a discovery.
type Strategy string

const (
	StrategyLayers Strategy = "layers"
	StrategyOrbits Strategy = "orbits"
)

// Discovery is one cube accepted by a search, with its independent
// verification report.
type Discovery struct {
	ID       int64
	Strategy Strategy
	Cube     cube.Cube
	Report   cube.Report

	// Layers holds the indices of the four stacked layers (layers path).
	Layers []int
	// Orbits holds the eight stacked orbits (orbits path).
	Orbits []balanced.Orbit
}

// Sink persists discoveries. A search never calls Save concurrently, but
// discovery IDs are not guaranteed to arrive in increasing order.
type Sink interface {
	Save(d Discovery) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(d Discovery) error

// Save calls f(d).
func (f SinkFunc) Save(d Discovery) error {
	return f(d)
}

// MultiSink saves to every sink in order and returns the first error.
type MultiSink []Sink

// Save implements Sink.
func (m MultiSink) Save(d Discovery) error {
	var first error
	for _, s := range m {
		if err := s.Save(d); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Collector keeps discoveries in memory.
type Collector struct {
	mu          sync.Mutex
	discoveries []Discovery
}

// Save implements Sink.
func (c *Collector) Save(d Discovery) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discoveries = append(c.discoveries, d)
	return nil
}

// Discoveries returns a copy of everything saved so far.
func (c *Collector) Discoveries() []Discovery {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Discovery, len(c.discoveries))
	copy(out, c.discoveries)
	return out
}

// Len returns the number of saved discoveries.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.discoveries)
}
