// Package layer builds 8x8 balanced bit layers. Rows 0-3 are searched by
// backtracking over a candidate pool and rows 4-7 are their complements.
package layer

import "github.com/SeamusWaldron/bitcube/internal/balanced"

// Layer is an 8x8 bit matrix stored as eight row bytes.
type Layer struct {
	Rows [8]byte

	// BitMatrix packs row i into bits [8i, 8i+8).
	BitMatrix uint64

	// Values marks which byte values appear among Rows.
	Values ValueSet
}

// New builds a Layer from its rows, deriving BitMatrix and Values.
func New(rows [8]byte) Layer {
	l := Layer{Rows: rows}
	for i, r := range rows {
		l.BitMatrix |= uint64(r) << (8 * i)
		l.Values.Add(r)
	}
	return l
}

// FromMatrix rebuilds a Layer from a packed bit matrix.
func FromMatrix(m uint64) Layer {
	var rows [8]byte
	for i := range rows {
		rows[i] = byte(m >> (8 * i))
	}
	return New(rows)
}

// ColumnCounts returns the number of set bits in each column across the
// rows, column 0 being the most significant bit.
func ColumnCounts(rows [8]byte) [8]int {
	var counts [8]int
	for _, r := range rows {
		for c := 0; c < 8; c++ {
			counts[c] += int(r>>(7-c)) & 1
		}
	}
	return counts
}

// BitCounts returns the number of rows with each bit position set, bit 0
// being the least significant bit.
func BitCounts(rows [8]byte) [8]int {
	var counts [8]int
	for _, r := range rows {
		for b := 0; b < 8; b++ {
			counts[b] += int(r>>b) & 1
		}
	}
	return counts
}

// Valid reports whether every row is balanced, every column and bit
// position sums to 4, and rows 4-7 complement rows 0-3.
func (l Layer) Valid() bool {
	for i, r := range l.Rows {
		if !balanced.IsBalanced(r) {
			return false
		}
		if i < 4 && l.Rows[i+4] != balanced.Complement(r) {
			return false
		}
	}
	return allFour(ColumnCounts(l.Rows)) && allFour(BitCounts(l.Rows))
}

func allFour(counts [8]int) bool {
	for _, n := range counts {
		if n != 4 {
			return false
		}
	}
	return true
}
