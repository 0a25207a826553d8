// Package balanced models the domain of balanced bytes: 8-bit values with
// exactly four set bits, their complements and their rotation orbits.
package balanced

import (
	"math/bits"
	"sort"
)

// Size is the number of balanced bytes, C(8,4).
const Size = 70

// Orbit is the sequence of eight bytes obtained by repeatedly rotating Base
// left by one bit. Values[0] is Base.
type Orbit struct {
	Base   byte
	Values [8]byte
}

// Domain holds the read-only tables every search component consumes.
// It is built once by New and must not be mutated afterwards.
type Domain struct {
	all        []byte
	upper      []byte
	complement [256]byte
	orbits     []Orbit
	filtered   []Orbit
}

// IsBalanced reports whether v has exactly four set bits.
func IsBalanced(v byte) bool {
	return bits.OnesCount8(v) == 4
}

// RotateLeft rotates v left by one bit with wraparound.
func RotateLeft(v byte) byte {
	return bits.RotateLeft8(v, 1)
}

// Complement returns the bitwise complement of v.
func Complement(v byte) byte {
	return ^v
}

// New enumerates the balanced bytes, the upper set and the rotation orbits.
func New() *Domain {
	d := &Domain{}
	for i := 0; i < 256; i++ {
		v := byte(i)
		d.complement[v] = Complement(v)
		if !IsBalanced(v) {
			continue
		}
		d.all = append(d.all, v)
		if v >= 128 {
			d.upper = append(d.upper, v)
		}
	}
	sort.Slice(d.upper, func(i, j int) bool { return d.upper[i] > d.upper[j] })

	for _, base := range d.all {
		o, ok := NewOrbit(base)
		if !ok {
			continue
		}
		d.orbits = append(d.orbits, o)
		if PassesFilter(o.Values) {
			d.filtered = append(d.filtered, o)
		}
	}
	return d
}

// NewOrbit rotates base eight times. It reports false when base is not
// balanced or a rotation repeats before the eighth step.
func NewOrbit(base byte) (Orbit, bool) {
	if !IsBalanced(base) {
		return Orbit{}, false
	}
	o := Orbit{Base: base}
	cur := base
	for i := 0; i < 8; i++ {
		o.Values[i] = cur
		cur = RotateLeft(cur)
	}
	for i := 0; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			if o.Values[i] == o.Values[j] {
				return Orbit{}, false
			}
		}
	}
	return o, true
}

// PassesFilter reports whether values split 4/4 across 128 and each half
// holds exactly two even and two odd values.
func PassesFilter(values [8]byte) bool {
	var upperEven, upperOdd, lowerEven, lowerOdd int
	for _, v := range values {
		even := v%2 == 0
		switch {
		case v >= 128 && even:
			upperEven++
		case v >= 128:
			upperOdd++
		case even:
			lowerEven++
		default:
			lowerOdd++
		}
	}
	return upperEven == 2 && upperOdd == 2 && lowerEven == 2 && lowerOdd == 2
}

// All returns the 70 balanced bytes in ascending order.
func (d *Domain) All() []byte { return d.all }

// Upper returns the balanced bytes >= 128, sorted descending.
func (d *Domain) Upper() []byte { return d.upper }

// Orbits returns every valid rotation orbit, one per valid base. Orbits of
// bases that rotate into each other are kept as separate records.
func (d *Domain) Orbits() []Orbit { return d.orbits }

// Filtered returns the orbits passing PassesFilter.
func (d *Domain) Filtered() []Orbit { return d.filtered }

// Complement looks v up in the complement table.
func (d *Domain) Complement(v byte) byte { return d.complement[v] }

// Contains reports whether v is one of the orbit's values.
func (o Orbit) Contains(v byte) bool {
	for _, x := range o.Values {
		if x == v {
			return true
		}
	}
	return false
}
