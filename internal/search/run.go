// Package search runs the two perfect-cube search strategies: stacking
// generated layers through a first-row lookup, and stacking filtered
// rotation orbits. Both partition root-level work statically across a
// fixed set of workers and report discoveries to a serialized sink.
package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SeamusWaldron/bitcube/internal/cube"
)

// Stop is a cooperative stop request shared by the workers of one run.
//
// Workers check it at the head of each candidate loop. Requesting a stop
// never interrupts a worker mid-step: calls already past a check point run
// to their next check, so further discoveries may still be reported after
// the request. It bounds wasted work; it does not guarantee that exactly
// one discovery is made.
type Stop struct {
	flag atomic.Bool
}

// Request asks every worker to unwind.
func (s *Stop) Request() { s.flag.Store(true) }

// Requested reports whether a stop was requested.
func (s *Stop) Requested() bool { return s.flag.Load() }

// Stats is a snapshot of a run's shared counters.
type Stats struct {
	Strategy       Strategy
	Found          int64
	Checked        int64
	Estimated      uint64 // progress hint only
	Roots          int
	CompletedRoots int
	Stopped        bool
	Elapsed        time.Duration
}

// Percent returns completed roots as a percentage of all roots.
func (s Stats) Percent() float64 {
	if s.Roots == 0 {
		return 0
	}
	return float64(s.CompletedRoots) / float64(s.Roots) * 100
}

// Rate returns checked paths per second.
func (s Stats) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Checked) / s.Elapsed.Seconds()
}

// ETA extrapolates the remaining time from the completed roots. It returns
// zero until at least one root has completed.
func (s Stats) ETA() time.Duration {
	if s.CompletedRoots == 0 || s.CompletedRoots >= s.Roots {
		return 0
	}
	perRoot := s.Elapsed / time.Duration(s.CompletedRoots)
	return perRoot * time.Duration(s.Roots-s.CompletedRoots)
}

// run holds the state shared by the workers of one search. Everything else
// a worker touches is private to its goroutine.
type run struct {
	cfg      *config
	strategy Strategy

	found     atomic.Int64
	checked   atomic.Int64
	doneRoots atomic.Int64
	roots     atomic.Int64
	startedAt atomic.Int64 // unix nanos
	endedAt   atomic.Int64
	estimated atomic.Uint64

	stop Stop

	// mu serializes verification and persistence of discoveries.
	mu      sync.Mutex
	first   *Discovery
	sinkErr error
}

func newRun(strategy Strategy, opts []Option) *run {
	return &run{cfg: newConfig(opts), strategy: strategy}
}

func (r *run) reset(roots int, estimated uint64) {
	r.found.Store(0)
	r.checked.Store(0)
	r.doneRoots.Store(0)
	r.roots.Store(int64(roots))
	r.startedAt.Store(time.Now().UnixNano())
	r.endedAt.Store(0)
	r.estimated.Store(estimated)
	r.stop.flag.Store(false)

	r.mu.Lock()
	r.first = nil
	r.sinkErr = nil
	r.mu.Unlock()
}

func (r *run) stats() Stats {
	s := Stats{
		Strategy:       r.strategy,
		Found:          r.found.Load(),
		Checked:        r.checked.Load(),
		Estimated:      r.estimated.Load(),
		Roots:          int(r.roots.Load()),
		CompletedRoots: int(r.doneRoots.Load()),
		Stopped:        r.stop.Requested(),
	}
	if start := r.startedAt.Load(); start != 0 {
		end := r.endedAt.Load()
		if end == 0 {
			end = time.Now().UnixNano()
		}
		s.Elapsed = time.Duration(end - start)
	}
	return s
}

func (r *run) firstDiscovery() (Discovery, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.first == nil {
		return Discovery{}, false
	}
	return *r.first, true
}

// tally is a worker-local checked-path counter flushed to the shared one
// every flushEvery increments.
type tally struct {
	n      int64
	every  int64
	shared *atomic.Int64
}

func (t *tally) inc() {
	t.n++
	if t.n >= t.every {
		t.flush()
	}
}

func (t *tally) flush() {
	if t.n != 0 {
		t.shared.Add(t.n)
		t.n = 0
	}
}

// parallel splits roots [0, n) into contiguous chunks, one per worker, and
// calls visit for each root until the chunk is exhausted or a stop is
// requested. Cancelling ctx requests a stop.
func (r *run) parallel(ctx context.Context, n int, visit func(root int, t *tally)) {
	defer func() { r.endedAt.Store(time.Now().UnixNano()) }()

	if n == 0 {
		return
	}
	release := context.AfterFunc(ctx, r.stop.Request)
	defer release()
	if ctx.Err() != nil {
		r.stop.Request()
	}

	threads := r.cfg.threads
	chunk := (n + threads - 1) / threads

	var g errgroup.Group
	for w := 0; w < threads; w++ {
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			continue
		}
		g.Go(func() error {
			t := &tally{every: r.cfg.flushEvery, shared: &r.checked}
			for i := start; i < end; i++ {
				if r.stop.Requested() {
					break
				}
				visit(i, t)
				t.flush()
				r.doneRoots.Add(1)
			}
			t.flush()
			return nil
		})
	}
	_ = g.Wait()
}

// accept assigns the next discovery ID, then verifies and persists the
// cube inside the critical section.
func (r *run) accept(c cube.Cube, fill func(d *Discovery)) {
	id := r.found.Add(1)
	if !r.cfg.findAll {
		r.stop.Request()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d := Discovery{ID: id, Strategy: r.strategy, Cube: c}
	fill(&d)
	d.Report = cube.Verify(&d.Cube)

	if id == 1 {
		first := d
		r.first = &first
	}

	log := r.cfg.logger
	if d.Report.Perfect() {
		log.Info("perfect cube found",
			zap.Int64("id", id),
			zap.String("strategy", string(r.strategy)))
	} else {
		log.Warn("cube saved but failed verification",
			zap.Int64("id", id),
			zap.String("strategy", string(r.strategy)),
			zap.Int("line_failures", len(d.Report.Failures)),
			zap.Int("duplicate_values", len(d.Report.Duplicates)))
	}

	if r.cfg.sink == nil {
		return
	}
	if err := r.cfg.sink.Save(d); err != nil {
		log.Error("failed to persist discovery", zap.Int64("id", id), zap.Error(err))
		if r.sinkErr == nil {
			r.sinkErr = err
		}
	}
}

func (r *run) err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sinkErr
}
