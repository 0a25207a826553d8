package search

import (
	"context"
	"math/bits"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
	"github.com/SeamusWaldron/bitcube/internal/cube"
	"github.com/SeamusWaldron/bitcube/internal/layer"
)

// syntheticLayers returns a pool admitting exactly one stacking, at
// indices 0, 2, 3 and 5: per row, layer 0 holds bit r, layer 2 bits r+1
// and r+2, layer 3 nothing, and layer 5 the remaining five bits. Layer 1
// reuses a value of layer 0 and layer 4 shares layer 5's first row but
// differs further down.
func syntheticLayers() []layer.Layer {
	var one, two, empty, rest [8]byte
	for r := 0; r < 8; r++ {
		one[r] = bits.RotateLeft8(0x01, r)
		two[r] = bits.RotateLeft8(0x06, r)
		rest[r] = ^bits.RotateLeft8(0x07, r)
	}
	decoy := rest
	decoy[7] = 0x3C
	return []layer.Layer{
		layer.New(one),
		layer.New([8]byte{0x01, 0x90, 0x48, 0x24, 0x12, 0x09, 0x84, 0x42}),
		layer.New(two),
		layer.New(empty),
		layer.New(decoy),
		layer.New(rest),
	}
}

func TestAssemblerFindsSingleStacking(t *testing.T) {
	var sink Collector
	a := NewAssembler(syntheticLayers(), WithSink(&sink), WithFindAll(true))

	stats, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Found)
	assert.Equal(t, 6, stats.Roots)
	assert.Equal(t, 6, stats.CompletedRoots)
	assert.Positive(t, stats.Checked)

	got := sink.Discoveries()
	require.Len(t, got, 1)
	d := got[0]
	assert.Equal(t, int64(1), d.ID)
	assert.Equal(t, StrategyLayers, d.Strategy)
	assert.Equal(t, []int{0, 2, 3, 5}, d.Layers)

	// The synthetic rows are not balanced, so the independent check must
	// flag the cube rather than drop it.
	assert.False(t, d.Report.Perfect())
	assert.False(t, d.Report.XBalanced)
	assert.NotEmpty(t, d.Report.Failures)

	first, ok := a.First()
	require.True(t, ok)
	assert.Equal(t, d.Cube, first.Cube)
}

func TestAssemblerThreadCountDoesNotChangeResults(t *testing.T) {
	layers := syntheticLayers()
	for _, threads := range []int{0, 1, 2, 3, 8} {
		var sink Collector
		a := NewAssembler(layers, WithThreads(threads), WithFindAll(true), WithSink(&sink))
		stats, err := a.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Found, "threads=%d", threads)
		require.Equal(t, 1, sink.Len())
		assert.Equal(t, []int{0, 2, 3, 5}, sink.Discoveries()[0].Layers)
	}
}

func TestAssemblerGeneratedLayers(t *testing.T) {
	d := balanced.New()
	layers := layer.NewGenerator(d, layer.WithCandidateLimit(6)).Generate()
	require.NotEmpty(t, layers)

	var sink Collector
	a := NewAssembler(layers, WithThreads(4), WithFindAll(true), WithSink(&sink))
	stats, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(layers), stats.CompletedRoots)
	assert.Equal(t, stats.Found, int64(sink.Len()))
	for _, disc := range sink.Discoveries() {
		assert.True(t, disc.Report.Perfect(), "cube %d: %v", disc.ID, disc.Report.Failures)
	}
}

func TestAssemblerEmptyPool(t *testing.T) {
	a := NewAssembler(nil)
	stats, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Found)
	assert.Zero(t, stats.Checked)
	assert.Zero(t, stats.Estimated)
	_, ok := a.First()
	assert.False(t, ok)
}

func TestAssemblerSinkErrorIsReported(t *testing.T) {
	boom := assert.AnError
	a := NewAssembler(syntheticLayers(), WithSink(SinkFunc(func(Discovery) error { return boom })))
	stats, err := a.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), stats.Found)
}

func TestAssemblerCubeRowsMatchLayers(t *testing.T) {
	layers := syntheticLayers()
	var sink Collector
	_, err := NewAssembler(layers, WithSink(&sink)).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sink.Len())

	d := sink.Discoveries()[0]
	want := cube.FromLayers([4]layer.Layer{layers[0], layers[2], layers[3], layers[5]})
	assert.Equal(t, want, d.Cube)

	rows := d.Cube.Rows()[:32]
	sort.Slice(rows, func(i, j int) bool { return rows[i] < rows[j] })
	for i := 1; i < len(rows); i++ {
		if rows[i] == rows[i-1] {
			assert.Equal(t, byte(0), rows[i], "only the empty layer repeats a value")
		}
	}
}

func TestEstimateStackings(t *testing.T) {
	assert.Zero(t, EstimateStackings(2))
	assert.Equal(t, uint64(1), EstimateStackings(3))
	assert.Equal(t, uint64(4), EstimateStackings(4))
	assert.Equal(t, uint64(7711320), EstimateStackings(360))
}
