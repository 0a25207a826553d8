package bitcube

import (
	"context"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
	"github.com/SeamusWaldron/bitcube/internal/cube"
	"github.com/SeamusWaldron/bitcube/internal/layer"
	"github.com/SeamusWaldron/bitcube/internal/search"
)

type (
	// Domain is the balanced-number domain.
	Domain = balanced.Domain
	// Orbit is the eight left rotations of a balanced base.
	Orbit = balanced.Orbit
	// Layer is one 8x8 slice of a cube.
	Layer = layer.Layer
	// Cube is an 8x8x8 bit structure.
	Cube = cube.Cube
	// Report is the verification result of a cube.
	Report = cube.Report
	// Discovery is one accepted cube.
	Discovery = search.Discovery
	// Stats is a snapshot of a search's counters.
	Stats = search.Stats
	// Sink persists discoveries.
	Sink = search.Sink
	// SinkFunc adapts a function to Sink.
	SinkFunc = search.SinkFunc
)

// Result is the outcome of a finished search.
type Result struct {
	Stats Stats
	First *Discovery
}

// Cube returns the first discovered cube, or ErrNoDiscovery.
func (r Result) Cube() (Cube, error) {
	if r.First == nil {
		return Cube{}, ErrNoDiscovery
	}
	return r.First.Cube, nil
}

// NewDomain enumerates the balanced bytes and their orbits.
func NewDomain() *Domain {
	return balanced.New()
}

// NewOrbit builds the orbit of base, reporting false when base is not a
// valid orbit base.
func NewOrbit(base byte) (Orbit, bool) {
	return balanced.NewOrbit(base)
}

// GenerateLayers returns every valid layer over the domain's upper set,
// or over the pool set with WithCandidates and WithCandidateLimit.
func GenerateLayers(d *Domain, opts ...Option) []Layer {
	c := newConfig(opts)
	return layer.NewGenerator(d, c.layer...).Generate()
}

// AssembleLayers stacks four layers plus their complements into cubes.
// Cancelling ctx stops the search the same way a first-only match does.
func AssembleLayers(ctx context.Context, layers []Layer, opts ...Option) (Result, error) {
	c := newConfig(opts)
	a := search.NewAssembler(layers, c.search...)
	stats, err := a.Run(ctx)
	return newResult(stats, a), err
}

// SearchOrbits stacks eight distinct orbits from pool into cubes.
func SearchOrbits(ctx context.Context, pool []Orbit, opts ...Option) (Result, error) {
	c := newConfig(opts)
	s := search.NewSearcher(pool, c.search...)
	stats, err := s.Run(ctx)
	return newResult(stats, s), err
}

func newResult(stats Stats, src interface{ First() (Discovery, bool) }) Result {
	res := Result{Stats: stats}
	if d, ok := src.First(); ok {
		res.First = &d
	}
	return res
}

// Verify checks all 192 lines of c and the distinct-row rule.
func Verify(c *Cube) Report {
	return cube.Verify(c)
}

// DecodeCube parses the hex form produced by Cube.Hex.
func DecodeCube(s string) (Cube, error) {
	return cube.Decode(s)
}
