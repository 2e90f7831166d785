// Package stochastic implements diffusion as a random walk of discrete
// particles on a toroidal grid.
package stochastic

import (
	"math"

	"diffuse/internal/core"
)

// Name is the registry key of the stochastic rule.
const Name = "stochastic"

// shortStepThreshold is the draw above which a particle moves one cell less
// than the full step, giving a 30% chance of the shorter move.
const shortStepThreshold = 0.7

// MaxParticles is the largest count a cell may hold and still be walked.
// Cells above it are carried over unchanged so their mass is kept.
const MaxParticles = 1 << 32

const (
	dirPosX = iota
	dirNegX
	dirPosY
	dirNegY
	numDirections
)

// Diffuser moves every particle one random step per update.
type Diffuser struct {
	coefficient float64
	rng         core.Source
}

// New creates a stochastic diffuser. A nil source falls back to a PCG RNG
// seeded with zero so runs stay reproducible.
func New(coefficient float64, src core.Source) *Diffuser {
	if src == nil {
		src = core.NewRNG(0)
	}
	return &Diffuser{coefficient: coefficient, rng: src}
}

// Name identifies the rule.
func (d *Diffuser) Name() string { return Name }

// Coefficient returns the diffusion coefficient.
func (d *Diffuser) Coefficient() float64 { return d.coefficient }

// StepSize returns the full per-particle step, ceil(coefficient).
func (d *Diffuser) StepSize() int { return int(math.Ceil(d.coefficient)) }

// Update redistributes the particles held in cur into a new grid. Cell
// values are read as particle counts; fractional parts and negative values
// carry no particles. Cells holding more than MaxParticles stay where they
// are.
func (d *Diffuser) Update(cur *core.Grid) *core.Grid {
	next := cur.NewLike()
	src := cur.Cells()
	dst := next.Cells()
	delta := d.StepSize()

	for j := 0; j < cur.Height(); j++ {
		for i := 0; i < cur.Width(); i++ {
			idx := cur.Index(i, j)
			if src[idx] > MaxParticles && !math.IsInf(src[idx], 1) {
				dst[idx] += src[idx]
				continue
			}
			n := particles(src[idx])
			for p := 0; p < n; p++ {
				step := delta
				if d.rng.Float64() > shortStepThreshold {
					step--
				}
				x, y := i, j
				switch d.rng.IntN(numDirections) {
				case dirPosX:
					x = cur.WrapX(i, step)
				case dirNegX:
					x = cur.WrapX(i, -step)
				case dirPosY:
					y = cur.WrapY(j, step)
				default:
					y = cur.WrapY(j, -step)
				}
				dst[next.Index(x, y)]++
			}
		}
	}
	return next
}

func particles(v float64) int {
	if !(v > 0) || math.IsInf(v, 1) {
		return 0
	}
	return int(math.Floor(v))
}

func init() {
	core.Register(Name, func(p core.RuleParams) core.Rule {
		return New(p.Coefficient, p.Source)
	})
}
