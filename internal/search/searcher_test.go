package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
)

// One base from each rotation class with every bit position set in
// exactly four bases, so every ordering stacks into a perfect cube.
var perfectBases = []byte{15, 23, 27, 232, 228, 178, 105, 212}

func orbitPool(t *testing.T, bases ...byte) []balanced.Orbit {
	t.Helper()
	pool := make([]balanced.Orbit, 0, len(bases))
	for _, b := range bases {
		o, ok := balanced.NewOrbit(b)
		require.True(t, ok, "base %d", b)
		pool = append(pool, o)
	}
	return pool
}

func cubeKeys(ds []Discovery) map[string]bool {
	keys := make(map[string]bool, len(ds))
	for _, d := range ds {
		keys[d.Cube.Hex()] = true
	}
	return keys
}

func TestEstimateVolume(t *testing.T) {
	tests := []struct {
		n    int
		want uint64
	}{
		{0, 0},
		{1, 1},
		{3, 6},
		{8, 40320},
		{32, 32 * 31 * 30 * 29 * 28 * 27 * 26},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateVolume(tt.n), "n=%d", tt.n)
	}
}

func TestSearcherFindsEveryOrdering(t *testing.T) {
	var sink Collector
	s := NewSearcher(orbitPool(t, perfectBases...), WithThreads(4), WithFindAll(true), WithSink(&sink))

	stats, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(40320), stats.Found)
	assert.Equal(t, uint64(40320), stats.Estimated)
	assert.Equal(t, 8, stats.CompletedRoots)
	assert.False(t, stats.Stopped)

	got := sink.Discoveries()
	require.Len(t, got, 40320)
	assert.Len(t, cubeKeys(got), 40320)

	ids := make(map[int64]bool, len(got))
	for _, d := range got {
		assert.False(t, ids[d.ID], "duplicate id %d", d.ID)
		ids[d.ID] = true
		require.Len(t, d.Orbits, 8)
		assert.Equal(t, StrategyOrbits, d.Strategy)
	}
	for _, d := range got[:100] {
		assert.True(t, d.Report.Perfect())
		assert.Equal(t, 256, d.Report.Ones)
	}
}

func TestSearcherThreadCountDoesNotChangeResults(t *testing.T) {
	// A ninth orbit unbalances the columns whenever it replaces one of the
	// others.
	pool := orbitPool(t, append([]byte{29}, perfectBases...)...)

	var single Collector
	_, err := NewSearcher(pool, WithThreads(1), WithFindAll(true), WithSink(&single)).Run(context.Background())
	require.NoError(t, err)

	var multi Collector
	_, err = NewSearcher(pool, WithThreads(5), WithFindAll(true), WithSink(&multi)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, single.Len(), multi.Len())
	assert.Equal(t, cubeKeys(single.Discoveries()), cubeKeys(multi.Discoveries()))
}

func TestSearcherStopsAfterFirst(t *testing.T) {
	var sink Collector
	s := NewSearcher(orbitPool(t, perfectBases...), WithThreads(1), WithSink(&sink))

	stats, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Found)
	assert.True(t, stats.Stopped)
	assert.Less(t, stats.CompletedRoots, 8)

	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, perfectBases[0], first.Orbits[0].Base)
	assert.True(t, first.Report.Perfect())
}

func TestSearcherCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSearcher(orbitPool(t, perfectBases...), WithThreads(2), WithFindAll(true))
	stats, err := s.Run(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Stopped)
	assert.Zero(t, stats.Found)
}

func TestSearcherChecksBasesNotValues(t *testing.T) {
	// Eight orbits from only four rotation classes: columns can balance but
	// the row values then repeat, which the verifier reports.
	d := balanced.New()
	var sink Collector
	s := NewSearcher(d.Filtered()[:8], WithFindAll(true), WithSink(&sink))
	stats, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.Found, int64(sink.Len()))
	for _, disc := range sink.Discoveries() {
		assert.False(t, disc.Report.UniqueRows)
		assert.True(t, disc.Report.ZBalanced)
	}
}

func TestSearcherEmptyPool(t *testing.T) {
	s := NewSearcher(nil, WithThreads(4))
	stats, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Found)
	assert.Zero(t, stats.Roots)
	_, ok := s.First()
	assert.False(t, ok)
}

func TestBaseUsed(t *testing.T) {
	used := []byte{15, 200}
	mask := baseMask(baseMask(0, 15), 200)
	assert.True(t, baseUsed(15, used, mask))
	assert.True(t, baseUsed(200, used, mask))
	assert.False(t, baseUsed(23, used, mask))
	assert.False(t, baseUsed(201, used, mask))
	assert.Equal(t, uint64(1)<<15, mask)
}
