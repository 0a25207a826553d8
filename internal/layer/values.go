package layer

import "math/bits"

// ValueSet is a presence set over the 256 byte values, stored as four
// 64-bit words. Value v lives in word v>>6 at bit v&63.
type ValueSet [4]uint64

// Add marks v as present.
func (s *ValueSet) Add(v byte) {
	s[v>>6] |= 1 << (v & 63)
}

// Has reports whether v is present.
func (s ValueSet) Has(v byte) bool {
	return s[v>>6]&(1<<(v&63)) != 0
}

// Intersects reports whether s and o share any value.
func (s ValueSet) Intersects(o ValueSet) bool {
	return s[0]&o[0] != 0 || s[1]&o[1] != 0 || s[2]&o[2] != 0 || s[3]&o[3] != 0
}

// Union returns the values present in either set.
func (s ValueSet) Union(o ValueSet) ValueSet {
	return ValueSet{s[0] | o[0], s[1] | o[1], s[2] | o[2], s[3] | o[3]}
}

// Len returns the number of values present.
func (s ValueSet) Len() int {
	return bits.OnesCount64(s[0]) + bits.OnesCount64(s[1]) +
		bits.OnesCount64(s[2]) + bits.OnesCount64(s[3])
}
