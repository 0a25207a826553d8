// Package cube provides the 8x8x8 bit cube model and its independent
// verification.
package cube

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
	"github.com/SeamusWaldron/bitcube/internal/layer"
)

// ErrInvalidEncoding is returned when a hex-encoded cube is malformed.
var ErrInvalidEncoding = errors.New("cube: invalid encoding")

// Cube is an 8x8x8 bit structure. Data[z][y] is row y of layer z; bit
// 7-x of that byte is column x.
type Cube struct {
	Data [8][8]byte
}

// FromLayers stacks four layers and fills layers 4-7 with their
// complements in reverse order, so layer 7-z is the complement of layer z.
func FromLayers(front [4]layer.Layer) Cube {
	var c Cube
	for z, l := range front {
		c.Data[z] = l.Rows
		for y, r := range l.Rows {
			c.Data[7-z][y] = balanced.Complement(r)
		}
	}
	return c
}

// FromOrbits stacks eight orbits; orbit z supplies the rows of layer z.
func FromOrbits(orbits [8]balanced.Orbit) Cube {
	var c Cube
	for z, o := range orbits {
		c.Data[z] = o.Values
	}
	return c
}

// Ones returns the total number of set bits.
func (c *Cube) Ones() int {
	n := 0
	for z := 0; z < 8; z++ {
		for y := 0; y < 8; y++ {
			n += bits.OnesCount8(c.Data[z][y])
		}
	}
	return n
}

// Rows returns the 64 row values, layer by layer.
func (c *Cube) Rows() []byte {
	rows := make([]byte, 0, 64)
	for z := 0; z < 8; z++ {
		rows = append(rows, c.Data[z][:]...)
	}
	return rows
}

// Bit returns the bit at column x, row y, layer z.
func (c *Cube) Bit(x, y, z int) int {
	return int(c.Data[z][y]>>(7-x)) & 1
}

// Hex encodes the 64 row bytes as a 128-character hex string.
func (c *Cube) Hex() string {
	return hex.EncodeToString(c.Rows())
}

// Decode parses a string produced by Hex.
func Decode(s string) (Cube, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Cube{}, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if len(raw) != 64 {
		return Cube{}, fmt.Errorf("%w: got %d bytes, want 64", ErrInvalidEncoding, len(raw))
	}
	var c Cube
	for i, b := range raw {
		c.Data[i/8][i%8] = b
	}
	return c, nil
}

// String dumps every layer as binary rows with their decimal values.
func (c *Cube) String() string {
	var b strings.Builder
	for z := 0; z < 8; z++ {
		fmt.Fprintf(&b, "Layer Z=%d:\n", z)
		for y := 0; y < 8; y++ {
			fmt.Fprintf(&b, "%08b (%3d)\n", c.Data[z][y], c.Data[z][y])
		}
		if z < 7 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
