package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/bitcube/internal/cube"
	"github.com/SeamusWaldron/bitcube/internal/layer"
)

// Assembler stacks four generated layers, in ascending index order, whose
// combined column counts leave exactly the fourth layer's bits empty and
// whose row values never repeat. Layers 4-7 of each cube are the
// complements of the chosen four.
type Assembler struct {
	*run
	layers []layer.Layer

	// lookup maps a first-row value to the ascending indices of the layers
	// that start with it.
	lookup [256][]int32
}

// NewAssembler indexes layers by first row. layers must not be modified
// while the assembler is in use.
func NewAssembler(layers []layer.Layer, opts ...Option) *Assembler {
	a := &Assembler{run: newRun(StrategyLayers, opts), layers: layers}
	for i := range layers {
		first := layers[i].Rows[0]
		a.lookup[first] = append(a.lookup[first], int32(i))
	}
	return a
}

// Buckets returns the number of non-empty lookup buckets.
func (a *Assembler) Buckets() int {
	n := 0
	for _, b := range a.lookup {
		if len(b) > 0 {
			n++
		}
	}
	return n
}

// Progress returns a snapshot of the counters; safe to call while Run is
// in progress.
func (a *Assembler) Progress() Stats { return a.stats() }

// First returns the discovery with ID 1, if any.
func (a *Assembler) First() (Discovery, bool) { return a.firstDiscovery() }

// Run searches every root layer. It returns the first sink error, if any,
// after all workers have finished. An empty layer set yields zero stats.
// Run must not be called concurrently with itself.
func (a *Assembler) Run(ctx context.Context) (Stats, error) {
	n := len(a.layers)
	a.reset(n, EstimateStackings(n))

	log := a.cfg.logger
	log.Info("assembling cubes from layers",
		zap.Int("layers", n),
		zap.Int("buckets", a.Buckets()),
		zap.Int("threads", a.cfg.threads),
		zap.Bool("find_all", a.cfg.findAll))

	a.parallel(ctx, n, a.searchRoot)

	stats := a.stats()
	log.Info("assembly complete",
		zap.Int64("found", stats.Found),
		zap.Int64("checked", stats.Checked),
		zap.Duration("elapsed", stats.Elapsed.Round(time.Millisecond)))
	return stats, a.err()
}

func (a *Assembler) searchRoot(root int, t *tally) {
	l := &a.layers[root]
	picked := [4]int{root}
	a.search(root+1, 1, Planes{l.BitMatrix}, l.Values, &picked, t)
}

// search places layer depth (1 or 2) from start onwards, or at depth 3
// resolves the last layer through the lookup.
func (a *Assembler) search(start, depth int, z Planes, used layer.ValueSet, picked *[4]int, t *tally) {
	if depth == 3 {
		target := z.Zero()
		for _, idx := range a.lookup[byte(target)] {
			if a.stop.Requested() {
				return
			}
			if int(idx) < start {
				continue
			}
			t.inc()
			cand := &a.layers[idx]
			if cand.BitMatrix != target || cand.Values.Intersects(used) {
				continue
			}
			picked[3] = int(idx)
			a.materialize(picked)
		}
		return
	}

	for i := start; i < len(a.layers); i++ {
		if a.stop.Requested() {
			return
		}
		cand := &a.layers[i]
		// A column already at 4 cannot take another bit.
		if z[2]&cand.BitMatrix != 0 {
			continue
		}
		if cand.Values.Intersects(used) {
			continue
		}
		t.inc()
		picked[depth] = i
		a.search(i+1, depth+1, z.Add(cand.BitMatrix), used.Union(cand.Values), picked, t)
	}
}

func (a *Assembler) materialize(picked *[4]int) {
	var front [4]layer.Layer
	for z, idx := range picked {
		front[z] = a.layers[idx]
	}
	indices := picked[:]
	a.accept(cube.FromLayers(front), func(d *Discovery) {
		d.Layers = append([]int(nil), indices...)
	})
}

// EstimateStackings returns C(n, 3), the number of ascending three-layer
// prefixes an assembly over n layers may visit. It sizes progress
// reporting only.
func EstimateStackings(n int) uint64 {
	if n < 3 {
		return 0
	}
	m := uint64(n)
	return m * (m - 1) * (m - 2) / 6
}
