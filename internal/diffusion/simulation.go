// Package diffusion drives a lattice diffusion simulation: it owns the grid
// and the update rule, seeds initial conditions and advances time.
//
// A Simulation is not safe for concurrent use. Run independent simulations
// on separate goroutines instead.
package diffusion

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"diffuse/internal/core"
)

// ErrNilRule is returned when a simulation is created without an update rule.
var ErrNilRule = errors.New("update rule is required")

// Phase describes where a simulation is in its lifecycle.
type Phase int

const (
	// PhaseSeeded covers a freshly created simulation that may still be
	// receiving initial values.
	PhaseSeeded Phase = iota
	// PhaseRunning is entered on the first applied step and never left.
	PhaseRunning
)

func (p Phase) String() string {
	switch p {
	case PhaseSeeded:
		return "seeded"
	case PhaseRunning:
		return "running"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Simulation owns one grid and one update rule.
type Simulation struct {
	grid  *core.Grid
	rule  core.Rule
	steps int

	peak   float64
	finite bool
}

// New creates a simulation over a zeroed width x height grid.
func New(width, height int, rule core.Rule) (*Simulation, error) {
	if rule == nil {
		return nil, ErrNilRule
	}
	grid, err := core.NewGrid(width, height)
	if err != nil {
		return nil, fmt.Errorf("create simulation: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"rule":        rule.Name(),
		"coefficient": rule.Coefficient(),
		"width":       width,
		"height":      height,
	}).Debug("simulation created")
	return &Simulation{grid: grid, rule: rule, finite: true}, nil
}

// Name returns the name of the bound update rule.
func (s *Simulation) Name() string { return s.rule.Name() }

// Rule returns the bound update rule.
func (s *Simulation) Rule() core.Rule { return s.rule }

// Size returns the grid dimensions.
func (s *Simulation) Size() core.Size { return s.grid.Size() }

// Steps returns the number of steps applied so far.
func (s *Simulation) Steps() int { return s.steps }

// Phase reports the lifecycle phase.
func (s *Simulation) Phase() Phase {
	if s.steps > 0 {
		return PhaseRunning
	}
	return PhaseSeeded
}

// Seed writes value at (x, y). Out-of-bounds coordinates are ignored and
// reported as false.
func (s *Simulation) Seed(x, y int, value float64) bool {
	if !s.grid.Set(x, y, value) {
		return false
	}
	s.observe(value)
	return true
}

// Value returns the current value at (x, y); ok is false out of bounds.
func (s *Simulation) Value(x, y int) (float64, bool) {
	return s.grid.Get(x, y)
}

// Step applies the update rule n times. Non-positive n does nothing.
func (s *Simulation) Step(n int) {
	for i := 0; i < n; i++ {
		s.grid = s.rule.Update(s.grid)
		s.steps++
		for _, v := range s.grid.Cells() {
			s.observe(v)
		}
	}
	if n > 0 && logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.WithFields(logrus.Fields{
			"rule":  s.rule.Name(),
			"steps": s.steps,
			"mass":  s.grid.Sum(),
		}).Trace("simulation advanced")
	}
}

// CurrentState returns a snapshot of the grid.
func (s *Simulation) CurrentState() core.Snapshot {
	return s.grid.Snapshot()
}

// Mass returns the sum of all cell values.
func (s *Simulation) Mass() float64 { return s.grid.Sum() }

// MaxMagnitude returns the largest absolute value observed since creation.
// It never decreases, which makes it usable as an external divergence probe.
func (s *Simulation) MaxMagnitude() float64 { return s.peak }

// Finite reports whether every value observed so far was finite.
func (s *Simulation) Finite() bool { return s.finite }

func (s *Simulation) observe(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s.finite = false
		s.peak = math.Inf(1)
		return
	}
	if a := math.Abs(v); a > s.peak {
		s.peak = a
	}
}

// Parameters exposes the configuration of the simulation for display.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	size := s.Size()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.IntParam("width", "Width", size.W),
				core.IntParam("height", "Height", size.H),
			},
		},
		{
			Name: "Rule",
			Params: []core.Parameter{
				core.StringParam("rule", "Rule", s.rule.Name()),
				core.FloatParam("coefficient", "Diffusion", s.rule.Coefficient()),
			},
		},
		{
			Name: "State",
			Params: []core.Parameter{
				core.IntParam("steps", "Step", s.steps),
				core.FloatParam("mass", "Mass", s.Mass()),
				core.FloatParam("peak", "Peak |c|", s.peak),
			},
		},
	}}
}
