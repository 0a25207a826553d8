package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
)

func TestValueSet(t *testing.T) {
	var a, b ValueSet
	a.Add(0)
	a.Add(63)
	a.Add(64)
	a.Add(255)
	assert.True(t, a.Has(63))
	assert.True(t, a.Has(255))
	assert.False(t, a.Has(1))
	assert.Equal(t, 4, a.Len())

	b.Add(1)
	assert.False(t, a.Intersects(b))
	b.Add(255)
	assert.True(t, a.Intersects(b))
	assert.Equal(t, 5, a.Union(b).Len())
}

func TestNewPacksRows(t *testing.T) {
	rows := [8]byte{0xF0, 0xCC, 0xAA, 0x96, 0x0F, 0x33, 0x55, 0x69}
	l := New(rows)
	assert.Equal(t, uint64(0xF0), l.BitMatrix&0xFF)
	assert.Equal(t, uint64(0x69), l.BitMatrix>>56)
	assert.Equal(t, l, FromMatrix(l.BitMatrix))
	for _, r := range rows {
		assert.True(t, l.Values.Has(r))
	}
	assert.True(t, l.Valid())
}

func TestValidRejects(t *testing.T) {
	tests := []struct {
		name string
		rows [8]byte
	}{
		{"unbalanced row", [8]byte{0xF8, 0xCC, 0xAA, 0x96, 0x07, 0x33, 0x55, 0x69}},
		{"broken symmetry", [8]byte{0xF0, 0xCC, 0xAA, 0x96, 0x33, 0x0F, 0x55, 0x69}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, New(tt.rows).Valid())
		})
	}
}

func TestGeneratorRestrictedPool(t *testing.T) {
	d := balanced.New()
	g := NewGenerator(d, WithCandidateLimit(6))
	require.Len(t, g.Candidates(), 6)

	layers := g.Generate()
	// Every ordered choice of four distinct candidates balances once the
	// complements are appended.
	assert.Len(t, layers, 6*5*4*3)
	assert.Greater(t, g.Attempts(), uint64(len(layers)))

	seen := map[uint64]bool{}
	for _, l := range layers {
		assert.True(t, l.Valid(), "layer %v", l.Rows)
		assert.Equal(t, [8]int{4, 4, 4, 4, 4, 4, 4, 4}, ColumnCounts(l.Rows))
		assert.Equal(t, [8]int{4, 4, 4, 4, 4, 4, 4, 4}, BitCounts(l.Rows))
		for i := 0; i < 4; i++ {
			assert.Equal(t, ^l.Rows[i], l.Rows[i+4])
		}
		assert.Equal(t, 8, l.Values.Len(), "rows within a layer are distinct")
		assert.False(t, seen[l.BitMatrix])
		seen[l.BitMatrix] = true
	}
}

func TestGeneratorWalkMatchesGenerate(t *testing.T) {
	d := balanced.New()
	g := NewGenerator(d, WithCandidates([]byte{0xF0, 0xE8, 0xD8, 0xB8, 0x78}))

	var walked []Layer
	n := g.Walk(func(l Layer) { walked = append(walked, l) })
	assert.Equal(t, len(walked), n)
	assert.Equal(t, walked, g.Generate())
}

func TestGeneratorDropsUnusableCandidates(t *testing.T) {
	d := balanced.New()
	tests := []struct {
		name string
		pool []byte
		want []byte
	}{
		{"unbalanced", []byte{0xFF, 0xF0, 0xCC, 0xAA, 0x01}, []byte{0xF0, 0xCC, 0xAA}},
		{"repeated", []byte{0xF0, 0xF0, 0xCC, 0xAA}, []byte{0xF0, 0xCC, 0xAA}},
		{"complement", []byte{0xF0, 0x0F, 0xCC, 0xAA, 0x96}, []byte{0xF0, 0xCC, 0xAA, 0x96}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(d, WithCandidates(tt.pool))
			assert.Equal(t, tt.want, g.Candidates())
			for _, l := range g.Generate() {
				assert.True(t, l.Valid(), "layer %v", l.Rows)
				assert.Equal(t, 8, l.Values.Len(), "layer %v repeats a row", l.Rows)
			}
		})
	}
}

func TestGeneratorCandidatesAreNotAliased(t *testing.T) {
	pool := []byte{0xF0, 0xE8, 0xD8, 0xB8}
	g := NewGenerator(balanced.New(), WithCandidates(pool))
	pool[0] = 0xFF
	assert.Equal(t, byte(0xF0), g.Candidates()[0])
	assert.Len(t, g.Generate(), 24)
}

func TestGeneratorFullUpperSet(t *testing.T) {
	if testing.Short() {
		t.Skip("walks the full upper set")
	}
	g := NewGenerator(balanced.New())
	n := g.Walk(func(Layer) {})
	assert.Equal(t, 35*34*33*32, n)
}
