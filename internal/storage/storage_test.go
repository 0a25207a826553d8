package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
	"github.com/SeamusWaldron/bitcube/internal/cube"
	"github.com/SeamusWaldron/bitcube/internal/search"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.MigrateUp())
	t.Cleanup(func() { db.Close() })
	return db
}

func perfectDiscovery(t *testing.T, id int64) search.Discovery {
	t.Helper()
	var orbits [8]balanced.Orbit
	for i, base := range []byte{15, 23, 27, 232, 228, 178, 105, 212} {
		o, ok := balanced.NewOrbit(base)
		require.True(t, ok, "base %d", base)
		orbits[i] = o
	}
	c := cube.FromOrbits(orbits)
	return search.Discovery{
		ID:       id,
		Strategy: search.StrategyOrbits,
		Cube:     c,
		Report:   cube.Verify(&c),
		Orbits:   orbits[:],
	}
}

func brokenDiscovery(t *testing.T, id int64) search.Discovery {
	t.Helper()
	d := perfectDiscovery(t, id)
	d.Strategy = search.StrategyLayers
	d.Orbits = nil
	d.Layers = []int{0, 2, 3, 5}
	d.Cube.Data[0][0] ^= 0x80
	d.Report = cube.Verify(&d.Cube)
	return d
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.MigrateUp())

	v, err := db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestRunLifecycle(t *testing.T) {
	db := openTestDB(t)
	runs := NewRunRepository(db)

	id, err := runs.Create(RunParams{
		Strategy:   "orbits",
		FindAll:    true,
		Threads:    4,
		PoolSize:   32,
		Estimated:  3315312000,
		AppVersion: "test",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := runs.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "orbits", run.Strategy)
	assert.True(t, run.FindAll)
	assert.Equal(t, 4, run.Threads)
	assert.Equal(t, uint64(3315312000), run.Estimated)
	assert.Nil(t, run.EndedAt)
	require.NotNil(t, run.AppVersion)
	assert.Equal(t, "test", *run.AppVersion)

	require.NoError(t, runs.Finish(id, 7, 1234))
	run, err = runs.Get(id)
	require.NoError(t, err)
	assert.NotNil(t, run.EndedAt)
	assert.Equal(t, int64(7), run.Found)
	assert.Equal(t, int64(1234), run.Checked)

	last, err := runs.GetLast()
	require.NoError(t, err)
	assert.Equal(t, id, last.RunID)

	list, err := runs.List(10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRunNotFound(t *testing.T) {
	db := openTestDB(t)
	runs := NewRunRepository(db)

	_, err := runs.Get("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	assert.ErrorIs(t, runs.Finish("missing", 0, 0), ErrRunNotFound)
	assert.ErrorIs(t, runs.Delete("missing"), ErrRunNotFound)

	_, err = runs.GetLast()
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestDiscoveryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	runID, err := NewRunRepository(db).Create(RunParams{Strategy: "orbits", Threads: 1})
	require.NoError(t, err)

	sink := NewCubeSink(db, runID)
	good := perfectDiscovery(t, 1)
	bad := brokenDiscovery(t, 2)
	require.NoError(t, sink.Save(good))
	require.NoError(t, sink.Save(bad))

	repo := NewDiscoveryRepository(db)
	total, perfect, err := repo.Count(runID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, perfect)

	stored, err := repo.List(runID, 0)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	assert.Equal(t, int64(1), stored[0].DiscoveryID)
	assert.True(t, stored[0].Perfect)
	assert.Equal(t, good.Cube, stored[0].Cube)
	assert.Equal(t, []byte{15, 23, 27, 232, 228, 178, 105, 212}, stored[0].OrbitBases)
	assert.Empty(t, stored[0].LayerIdx)
	assert.Empty(t, stored[0].Report.Failures)

	assert.False(t, stored[1].Perfect)
	assert.Equal(t, []int{0, 2, 3, 5}, stored[1].LayerIdx)
	assert.Equal(t, bad.Report.Failures, stored[1].Report.Failures)
	assert.Equal(t, bad.Report.XBalanced, stored[1].Report.XBalanced)

	limited, err := repo.List(runID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDuplicateDiscoveryRejected(t *testing.T) {
	db := openTestDB(t)
	runID, err := NewRunRepository(db).Create(RunParams{Strategy: "orbits", Threads: 1})
	require.NoError(t, err)

	sink := NewCubeSink(db, runID)
	require.NoError(t, sink.Save(perfectDiscovery(t, 1)))
	assert.Error(t, sink.Save(perfectDiscovery(t, 1)))
}

func TestDeleteRunRemovesDiscoveries(t *testing.T) {
	db := openTestDB(t)
	runs := NewRunRepository(db)
	runID, err := runs.Create(RunParams{Strategy: "layers", Threads: 1})
	require.NoError(t, err)
	require.NoError(t, NewCubeSink(db, runID).Save(brokenDiscovery(t, 1)))

	require.NoError(t, runs.Delete(runID))

	total, _, err := NewDiscoveryRepository(db).Count(runID)
	require.NoError(t, err)
	assert.Zero(t, total)
	_, err = runs.Get(runID)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestReportWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	w, err := NewReportWriter(dir)
	require.NoError(t, err)

	require.NoError(t, w.Save(perfectDiscovery(t, 3)))
	require.NoError(t, w.Save(brokenDiscovery(t, 4)))

	raw, err := os.ReadFile(w.Path(3))
	require.NoError(t, err)
	text := string(raw)
	assert.True(t, strings.HasPrefix(text, "=== PERFECT BIT CUBE #3 ===\n"))
	assert.Contains(t, text, "Total 1s: 256 (should be 256) ✓")
	assert.Contains(t, text, "VERDICT: ✓✓✓ PERFECT CUBE ✓✓✓")
	assert.Contains(t, text, "Set 0 (base: 15): 15 30 60 120 240 225 195 135")
	assert.Contains(t, text, "Layer Z=7:")
	assert.NotContains(t, text, "ERRORS:")

	raw, err = os.ReadFile(filepath.Join(dir, "PerfectCube_4.txt"))
	require.NoError(t, err)
	text = string(raw)
	assert.Contains(t, text, "VERDICT: ✗ INVALID")
	assert.Contains(t, text, "ERRORS:\nX-axis FAIL at z=0 y=0\n")
	assert.Contains(t, text, "All Y-axis lines balanced: ✗ NO")
	assert.NotContains(t, text, "Set 0")
}
