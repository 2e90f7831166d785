package core

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidDimensions is returned when a grid is requested with a
// non-positive width or height.
var ErrInvalidDimensions = errors.New("grid dimensions must be positive")

// Grid stores a 2D toroidal grid of scalar cell values in row-major order.
type Grid struct {
	w, h int
	data []float64
}

// NewGrid allocates a zeroed grid with the given dimensions.
func NewGrid(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("new grid %dx%d: %w", w, h, ErrInvalidDimensions)
	}
	return &Grid{w: w, h: h, data: make([]float64, w*h)}, nil
}

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{W: g.w, H: g.h} }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Cells exposes the backing slice so update rules can read/write values
// directly. Callers outside a rule should use Snapshot.
func (g *Grid) Cells() []float64 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.w + x }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

// Set writes v at (x, y). Out-of-bounds writes are ignored and reported as
// false.
func (g *Grid) Set(x, y int, v float64) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.data[g.Index(x, y)] = v
	return true
}

// Get returns the value at (x, y). ok is false when the coordinates are
// outside the grid.
func (g *Grid) Get(x, y int) (v float64, ok bool) {
	if !g.InBounds(x, y) {
		return 0, false
	}
	return g.data[g.Index(x, y)], true
}

// WrapX returns (x+offset) mod W, always in [0, W).
func (g *Grid) WrapX(x, offset int) int {
	return wrap(x+offset, g.w)
}

// WrapY returns (y+offset) mod H, always in [0, H).
func (g *Grid) WrapY(y, offset int) int {
	return wrap(y+offset, g.h)
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(x, y int) (int, int) {
	return wrap(x, g.w), wrap(y, g.h)
}

func wrap(v, n int) int {
	return (v%n + n) % n
}

// Fill sets every cell to v.
func (g *Grid) Fill(v float64) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Clear fills the grid with zeros.
func (g *Grid) Clear() { g.Fill(0) }

// Sum returns the total mass held by the grid.
func (g *Grid) Sum() float64 { return floats.Sum(g.data) }

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	data := make([]float64, len(g.data))
	copy(data, g.data)
	return &Grid{w: g.w, h: g.h, data: data}
}

// NewLike allocates a zeroed grid with the same dimensions as g.
func (g *Grid) NewLike() *Grid {
	return &Grid{w: g.w, h: g.h, data: make([]float64, len(g.data))}
}

// Snapshot returns a read-only copy of the grid for presentation code.
func (g *Grid) Snapshot() Snapshot {
	cells := make([]float64, len(g.data))
	copy(cells, g.data)
	return Snapshot{w: g.w, h: g.h, cells: cells}
}
