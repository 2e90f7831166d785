package diffusion

import (
	"fmt"
	"math"

	"diffuse/internal/core"
)

// Initial condition kinds.
const (
	InitParticle = "particle"
	InitPoint    = "point"
	InitLine     = "line"
	InitGradient = "gradient"
)

// Default magnitudes for each initial condition kind.
const (
	DefaultParticleValue = 1.0
	DefaultPointValue    = 1250.0
	DefaultLineValue     = 125.0
	DefaultGradientScale = 2.0
)

// InitialCondition seeds a simulation before it starts stepping. Omitted
// coordinates default to the centre of the grid.
//
//   - particle: Value (default 1) at (X, Y)
//   - point:    Value (default 1250) at (X, Y)
//   - line:     Value (default 125) on every cell of row Y
//   - gradient: Value*|X - x| (default scale 2) on every cell of column x
type InitialCondition struct {
	Kind  string   `yaml:"kind"`
	X     *int     `yaml:"x,omitempty"`
	Y     *int     `yaml:"y,omitempty"`
	Value *float64 `yaml:"value,omitempty"`
}

func (ic InitialCondition) validate() error {
	switch ic.Kind {
	case InitParticle, InitPoint, InitLine, InitGradient:
	default:
		return fmt.Errorf("unknown initial condition %q", ic.Kind)
	}
	if ic.Value != nil && (math.IsNaN(*ic.Value) || math.IsInf(*ic.Value, 0)) {
		return fmt.Errorf("%s value must be finite", ic.Kind)
	}
	return nil
}

// Apply seeds sim. Points outside the grid are ignored like any other
// out-of-bounds seed.
func (ic InitialCondition) Apply(sim *Simulation) error {
	if err := ic.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	size := sim.Size()
	cx, cy := size.W/2, size.H/2
	if ic.X != nil {
		cx = *ic.X
	}
	if ic.Y != nil {
		cy = *ic.Y
	}

	switch ic.Kind {
	case InitParticle:
		sim.Seed(cx, cy, ic.value(DefaultParticleValue))
	case InitPoint:
		sim.Seed(cx, cy, ic.value(DefaultPointValue))
	case InitLine:
		v := ic.value(DefaultLineValue)
		for x := 0; x < size.W; x++ {
			sim.Seed(x, cy, v)
		}
	case InitGradient:
		scale := ic.value(DefaultGradientScale)
		for x := 0; x < size.W; x++ {
			v := scale * math.Abs(float64(cx-x))
			for y := 0; y < size.H; y++ {
				sim.Seed(x, y, v)
			}
		}
	}
	return nil
}

func (ic InitialCondition) value(def float64) float64 {
	if ic.Value == nil {
		return def
	}
	return *ic.Value
}

// Origin returns the cell an initial condition is centred on, used as the
// reference point for spread measurements.
func (ic InitialCondition) Origin(size core.Size) (int, int) {
	x, y := size.W/2, size.H/2
	if ic.X != nil {
		x = *ic.X
	}
	if ic.Y != nil {
		y = *ic.Y
	}
	return x, y
}
