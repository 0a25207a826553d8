package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), cfg.Threads)
	assert.False(t, cfg.FindAll)
	assert.Equal(t, 5*time.Second, cfg.ProgressInterval)
	assert.Nil(t, cfg.CandidateBytes())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
threads: 0
find_all: true
db_path: /tmp/cubes.db
candidates: [240, 232, 228]
progress_interval: 250ms
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Threads)
	assert.True(t, cfg.FindAll)
	assert.Equal(t, "/tmp/cubes.db", cfg.DBPath)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, []byte{240, 232, 228}, cfg.CandidateBytes())
	assert.Equal(t, 250*time.Millisecond, cfg.ProgressInterval)
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"candidate":  "candidates: [300]\n",
		"unbalanced": "candidates: [255, 240]\n",
		"duplicate":  "candidates: [240, 232, 240]\n",
		"complement": "candidates: [240, 15]\n",
		"interval":   "progress_interval: -1s\n",
		"syntax":     "threads: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.Threads = 3
	cfg.Candidates = []int{23, 27}
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
