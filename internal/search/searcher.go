package search

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
	"github.com/SeamusWaldron/bitcube/internal/cube"
)

// Searcher stacks eight orbits from a pool, the first fixed per root and
// the rest chosen in order without reusing a base, and accepts stacks
// whose every (row, bit) cell sums to 4 across the layers.
type Searcher struct {
	*run
	pool []balanced.Orbit
}

// NewSearcher creates a searcher over pool, normally the domain's
// filtered orbits. pool must not be modified while the searcher is in use.
func NewSearcher(pool []balanced.Orbit, opts ...Option) *Searcher {
	return &Searcher{run: newRun(StrategyOrbits, opts), pool: pool}
}

// Progress returns a snapshot of the counters; safe to call while Run is
// in progress.
func (s *Searcher) Progress() Stats { return s.stats() }

// First returns the discovery with ID 1, if any.
func (s *Searcher) First() (Discovery, bool) { return s.firstDiscovery() }

// EstimateVolume returns n·(n-1)·…·(n-6), stopping early when n < 7. It
// sizes progress reporting only.
func EstimateVolume(n int) uint64 {
	if n <= 0 {
		return 0
	}
	total := uint64(1)
	for i := 0; i < 7 && i < n; i++ {
		total *= uint64(n - i)
	}
	return total
}

// Run searches every root orbit. It returns the first sink error, if any,
// after all workers have finished. An empty pool yields zero stats.
// Run must not be called concurrently with itself.
func (s *Searcher) Run(ctx context.Context) (Stats, error) {
	n := len(s.pool)
	s.reset(n, EstimateVolume(n))

	log := s.cfg.logger
	log.Info("searching orbit stacks",
		zap.Int("orbits", n),
		zap.Uint64("estimated", s.estimated.Load()),
		zap.Int("threads", s.cfg.threads),
		zap.Bool("find_all", s.cfg.findAll))

	s.parallel(ctx, n, s.searchRoot)

	stats := s.stats()
	log.Info("orbit search complete",
		zap.Int64("found", stats.Found),
		zap.Int64("checked", stats.Checked),
		zap.Duration("elapsed", stats.Elapsed.Round(time.Millisecond)))
	return stats, s.err()
}

func (s *Searcher) searchRoot(root int, t *tally) {
	var stack [8]balanced.Orbit
	stack[0] = s.pool[root]

	used := make([]byte, 1, 8)
	used[0] = stack[0].Base
	s.search(1, &stack, used, baseMask(0, stack[0].Base), t)
}

// search fills stack[depth:]. used lists the placed bases; mask mirrors
// the bases below 64 for a constant-time check.
func (s *Searcher) search(depth int, stack *[8]balanced.Orbit, used []byte, mask uint64, t *tally) {
	if depth == 8 {
		if !zBalanced(stack) {
			return
		}
		orbits := slices.Clone(stack[:])
		s.accept(cube.FromOrbits(*stack), func(d *Discovery) {
			d.Orbits = orbits
		})
		return
	}

	for _, cand := range s.pool {
		if s.stop.Requested() {
			return
		}
		t.inc()
		if baseUsed(cand.Base, used, mask) {
			continue
		}
		stack[depth] = cand
		s.search(depth+1, stack, append(used, cand.Base), baseMask(mask, cand.Base), t)
	}
}

func baseMask(mask uint64, base byte) uint64 {
	if base < 64 {
		mask |= 1 << base
	}
	return mask
}

func baseUsed(base byte, used []byte, mask uint64) bool {
	if base < 64 {
		return mask&(1<<base) != 0
	}
	return slices.Contains(used, base)
}

// zBalanced recomputes every (row, bit) sum across the eight layers.
func zBalanced(stack *[8]balanced.Orbit) bool {
	for row := 0; row < 8; row++ {
		for bit := 0; bit < 8; bit++ {
			n := 0
			for z := 0; z < 8; z++ {
				n += int(stack[z].Values[row]>>bit) & 1
			}
			if n != 4 {
				return false
			}
		}
	}
	return true
}
