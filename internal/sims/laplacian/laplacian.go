// Package laplacian implements diffusion as an explicit finite-difference
// solution of dc/dt = D * laplacian(c) on a toroidal grid.
//
// The scheme is only stable for coefficients below 0.25 on a unit-spaced 2D
// grid. Larger values make the field oscillate and diverge; nothing here
// checks for that.
package laplacian

import "diffuse/internal/core"

// Name is the registry key of the Laplacian rule.
const Name = "laplacian"

// StableLimit is the coefficient at and above which the explicit scheme
// diverges.
const StableLimit = 0.25

// stencil is the 3-point central difference for the second derivative
// with unit spacing, applied at offsets -1, 0, +1.
var stencil = [3]float64{1, -2, 1}

// Diffuser advances a concentration field by one explicit Euler step.
type Diffuser struct {
	coefficient float64
}

// New creates a Laplacian diffuser with the given coefficient.
func New(coefficient float64) *Diffuser {
	return &Diffuser{coefficient: coefficient}
}

// Name identifies the rule.
func (d *Diffuser) Name() string { return Name }

// Coefficient returns the diffusion coefficient.
func (d *Diffuser) Coefficient() float64 { return d.coefficient }

// Stable reports whether the coefficient is inside the explicit scheme's
// stability region.
func (d *Diffuser) Stable() bool { return d.coefficient < StableLimit }

// Update computes the next field from cur without touching it.
func (d *Diffuser) Update(cur *core.Grid) *core.Grid {
	next := cur.NewLike()
	src := cur.Cells()
	dst := next.Cells()
	for y := 0; y < cur.Height(); y++ {
		for x := 0; x < cur.Width(); x++ {
			idx := cur.Index(x, y)
			dst[idx] = src[idx] + d.coefficient*Laplacian(cur, x, y)
		}
	}
	return next
}

// SecondDerivatives returns the discrete second derivatives along X and Y
// at (x, y) using toroidal neighbours.
func SecondDerivatives(g *core.Grid, x, y int) (dx2, dy2 float64) {
	cells := g.Cells()
	for i, c := range stencil {
		off := i - 1
		dx2 += c * cells[g.Index(g.WrapX(x, off), y)]
		dy2 += c * cells[g.Index(x, g.WrapY(y, off))]
	}
	return dx2, dy2
}

// Laplacian returns the discrete Laplacian at (x, y).
func Laplacian(g *core.Grid, x, y int) float64 {
	dx2, dy2 := SecondDerivatives(g, x, y)
	return dx2 + dy2
}

func init() {
	core.Register(Name, func(p core.RuleParams) core.Rule {
		return New(p.Coefficient)
	})
}
