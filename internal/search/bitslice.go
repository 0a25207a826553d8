package search

// Planes holds 64 independent small counters in bit-sliced form: counter i
// is bit i of Planes[0] (weight 1), Planes[1] (weight 2) and Planes[2]
// (weight 4).
type Planes [3]uint64

// Add adds one to every counter whose bit is set in m, carrying from each
// plane into the next. The top plane absorbs its carry with OR; counters
// are kept at or below 4 by the callers' pruning.
func (p Planes) Add(m uint64) Planes {
	carry0 := p[0] & m
	carry1 := p[1] & carry0
	return Planes{
		p[0] ^ m,
		p[1] ^ carry0,
		p[2] | carry1,
	}
}

// Count returns counter i.
func (p Planes) Count(i uint) int {
	return int(p[0]>>i&1) | int(p[1]>>i&1)<<1 | int(p[2]>>i&1)<<2
}

// Zero returns a mask of the counters that are zero in the two low planes.
// After at most three additions this is exactly the set of zero counters.
func (p Planes) Zero() uint64 {
	return ^(p[0] | p[1])
}
