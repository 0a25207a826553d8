package layer

import "github.com/SeamusWaldron/bitcube/internal/balanced"

// maxCandidates bounds the pool so the used-candidate set fits in a uint64.
const maxCandidates = 64

// Option configures a Generator.
type Option func(*Generator)

// WithCandidates replaces the default candidate pool (the domain's upper
// set). Unbalanced values, repeats and complements of earlier values are
// dropped, since each would put a repeated row into a layer. Pools longer
// than 64 are truncated.
func WithCandidates(candidates []byte) Option {
	return func(g *Generator) {
		g.candidates = candidates
	}
}

// WithCandidateLimit restricts the pool to its first n entries. n <= 0
// keeps the whole pool.
func WithCandidateLimit(n int) Option {
	return func(g *Generator) {
		g.limit = n
	}
}

// Generator enumerates every layer whose first four rows are distinct
// candidates and whose columns balance once the complements are added.
// A Generator is not safe for concurrent use.
type Generator struct {
	domain     *balanced.Domain
	candidates []byte
	limit      int

	colCounts [8]int // per column, MSB first
	bitCounts [8]int // per bit position, LSB first

	attempts uint64
	accepted int
}

// NewGenerator creates a generator over the domain's upper set.
func NewGenerator(d *balanced.Domain, opts ...Option) *Generator {
	g := &Generator{domain: d, candidates: d.Upper()}
	for _, opt := range opts {
		opt(g)
	}
	g.candidates = usable(g.candidates)
	if g.limit > 0 && g.limit < len(g.candidates) {
		g.candidates = g.candidates[:g.limit]
	}
	if len(g.candidates) > maxCandidates {
		g.candidates = g.candidates[:maxCandidates]
	}
	return g
}

// usable returns the balanced values of pool in order, skipping any value
// that repeats an earlier one or its complement.
func usable(pool []byte) []byte {
	var seen ValueSet
	out := make([]byte, 0, len(pool))
	for _, v := range pool {
		if !balanced.IsBalanced(v) || seen.Has(v) || seen.Has(balanced.Complement(v)) {
			continue
		}
		seen.Add(v)
		out = append(out, v)
	}
	return out
}

// Candidates returns the pool rows 0-3 are drawn from.
func (g *Generator) Candidates() []byte { return g.candidates }

// Attempts returns the number of search nodes visited by the last walk.
func (g *Generator) Attempts() uint64 { return g.attempts }

// Generate collects every valid layer.
func (g *Generator) Generate() []Layer {
	var layers []Layer
	g.Walk(func(l Layer) {
		layers = append(layers, l)
	})
	return layers
}

// Walk calls fn for every valid layer in search order and returns how many
// were accepted.
func (g *Generator) Walk(fn func(Layer)) int {
	g.colCounts = [8]int{}
	g.bitCounts = [8]int{}
	g.attempts = 0
	g.accepted = 0

	var rows [8]byte
	g.backtrack(0, &rows, 0, fn)
	return g.accepted
}

func (g *Generator) backtrack(rowIdx int, rows *[8]byte, used uint64, fn func(Layer)) {
	g.attempts++

	if rowIdx == 4 {
		for i := 0; i < 4; i++ {
			rows[i+4] = g.domain.Complement(rows[i])
		}
		// Recount from scratch rather than trusting the running counters.
		if !allFour(ColumnCounts(*rows)) || !allFour(BitCounts(*rows)) {
			return
		}
		g.accepted++
		fn(New(*rows))
		return
	}

	for i, cand := range g.candidates {
		if used&(1<<i) != 0 {
			continue
		}
		if !g.canAdd(cand, rowIdx) {
			continue
		}
		rows[rowIdx] = cand
		g.update(cand, 1)
		g.backtrack(rowIdx+1, rows, used|1<<i, fn)
		g.update(cand, -1)
	}
}

// canAdd applies the two-sided bound to every column and bit position: the
// count may not pass 4, and the rows still to come in the full layer,
// complements included, must be able to lift it to 4.
func (g *Generator) canAdd(row byte, rowIdx int) bool {
	remaining := 7 - rowIdx
	for c := 0; c < 8; c++ {
		n := g.colCounts[c] + int((row>>(7-c))&1)
		if n > 4 || n+remaining < 4 {
			return false
		}
	}
	for b := 0; b < 8; b++ {
		n := g.bitCounts[b] + int((row>>b)&1)
		if n > 4 || n+remaining < 4 {
			return false
		}
	}
	return true
}

func (g *Generator) update(row byte, delta int) {
	for c := 0; c < 8; c++ {
		g.colCounts[c] += int((row>>(7-c))&1) * delta
	}
	for b := 0; b < 8; b++ {
		g.bitCounts[b] += int((row>>b)&1) * delta
	}
}
