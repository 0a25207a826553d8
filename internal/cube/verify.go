package cube

import (
	"fmt"

	"github.com/SeamusWaldron/bitcube/internal/balanced"
)

// Axis identifies one of the three line directions.
type Axis int

const (
	AxisX Axis = iota // a row within a layer
	AxisY             // a bit position across the rows of a layer
	AxisZ             // a (row, column) cell across the layers
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "?"
	}
}

// LineFailure locates one unbalanced line. For AxisX, Layer and Row are
// set; for AxisY, Layer and Position (bit index); for AxisZ, Row and
// Position (column).
type LineFailure struct {
	Axis     Axis `json:"axis"`
	Layer    int  `json:"layer"`
	Row      int  `json:"row"`
	Position int  `json:"position"`
}

func (f LineFailure) String() string {
	switch f.Axis {
	case AxisX:
		return fmt.Sprintf("X-axis FAIL at z=%d y=%d", f.Layer, f.Row)
	case AxisY:
		return fmt.Sprintf("Y-axis FAIL at z=%d bitPos=%d", f.Layer, f.Position)
	default:
		return fmt.Sprintf("Z-axis FAIL at y=%d x=%d", f.Row, f.Position)
	}
}

// Duplicate records a row value used more than once.
type Duplicate struct {
	Value byte `json:"value"`
	Count int  `json:"count"`
}

// Report is the result of checking all 192 lines and the one-use-per-value
// rule.
type Report struct {
	Ones  int
	Zeros int

	XBalanced  bool
	YBalanced  bool
	ZBalanced  bool
	UniqueRows bool

	Failures   []LineFailure
	Duplicates []Duplicate
}

// Perfect reports whether every check passed.
func (r Report) Perfect() bool {
	return r.XBalanced && r.YBalanced && r.ZBalanced && r.UniqueRows && r.Ones == 256
}

// Verify recomputes every line of c without relying on how c was built.
func Verify(c *Cube) Report {
	r := Report{
		Ones:       c.Ones(),
		XBalanced:  true,
		YBalanced:  true,
		ZBalanced:  true,
		UniqueRows: true,
	}
	r.Zeros = 512 - r.Ones

	for z := 0; z < 8; z++ {
		for y := 0; y < 8; y++ {
			if !balanced.IsBalanced(c.Data[z][y]) {
				r.XBalanced = false
				r.Failures = append(r.Failures, LineFailure{Axis: AxisX, Layer: z, Row: y})
			}
		}
	}

	for z := 0; z < 8; z++ {
		for bit := 0; bit < 8; bit++ {
			var line byte
			for y := 0; y < 8; y++ {
				line |= ((c.Data[z][y] >> bit) & 1) << y
			}
			if !balanced.IsBalanced(line) {
				r.YBalanced = false
				r.Failures = append(r.Failures, LineFailure{Axis: AxisY, Layer: z, Position: bit})
			}
		}
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			var line byte
			for z := 0; z < 8; z++ {
				line |= byte(c.Bit(x, y, z)) << z
			}
			if !balanced.IsBalanced(line) {
				r.ZBalanced = false
				r.Failures = append(r.Failures, LineFailure{Axis: AxisZ, Row: y, Position: x})
			}
		}
	}

	var counts [256]int
	for _, v := range c.Rows() {
		counts[v]++
	}
	for v, n := range counts {
		if n > 1 {
			r.UniqueRows = false
			r.Duplicates = append(r.Duplicates, Duplicate{Value: byte(v), Count: n})
		}
	}
	return r
}
