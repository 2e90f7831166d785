package core

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Snapshot is an immutable copy of a grid's values taken between steps.
// The zero value is an empty 0x0 snapshot.
type Snapshot struct {
	w, h  int
	cells []float64
}

// Size returns the snapshot dimensions.
func (s Snapshot) Size() Size { return Size{W: s.w, H: s.h} }

// Width returns the number of columns.
func (s Snapshot) Width() int { return s.w }

// Height returns the number of rows.
func (s Snapshot) Height() int { return s.h }

// Len returns the number of cells.
func (s Snapshot) Len() int { return len(s.cells) }

// At returns the value at (x, y). Out-of-bounds coordinates yield ok=false.
func (s Snapshot) At(x, y int) (v float64, ok bool) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return 0, false
	}
	return s.cells[y*s.w+x], true
}

// Values returns a fresh row-major copy of the cell values.
func (s Snapshot) Values() []float64 {
	out := make([]float64, len(s.cells))
	copy(out, s.cells)
	return out
}

// Dense returns a fresh 2D array indexed [x][y].
func (s Snapshot) Dense() [][]float64 {
	out := make([][]float64, s.w)
	for x := range out {
		col := make([]float64, s.h)
		for y := range col {
			col[y] = s.cells[y*s.w+x]
		}
		out[x] = col
	}
	return out
}

// Sum returns the total mass in the snapshot.
func (s Snapshot) Sum() float64 {
	if len(s.cells) == 0 {
		return 0
	}
	return floats.Sum(s.cells)
}

// Max returns the largest cell value, or 0 for an empty snapshot.
func (s Snapshot) Max() float64 {
	if len(s.cells) == 0 {
		return 0
	}
	return floats.Max(s.cells)
}

// Min returns the smallest cell value, or 0 for an empty snapshot.
func (s Snapshot) Min() float64 {
	if len(s.cells) == 0 {
		return 0
	}
	return floats.Min(s.cells)
}

// MaxAbs returns the largest absolute cell value. NaN cells propagate.
func (s Snapshot) MaxAbs() float64 {
	peak := 0.0
	for _, v := range s.cells {
		if math.IsNaN(v) {
			return v
		}
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// Equal reports whether two snapshots have identical dimensions and
// bit-identical values.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.w != o.w || s.h != o.h || len(s.cells) != len(o.cells) {
		return false
	}
	for i, v := range s.cells {
		if math.Float64bits(v) != math.Float64bits(o.cells[i]) {
			return false
		}
	}
	return true
}
