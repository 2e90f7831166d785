package diffusion

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diffuse/internal/core"
	"diffuse/internal/sims/laplacian"
	"diffuse/internal/sims/stochastic"
)

// fixedSource always draws the same direction and never shortens a step.
type fixedSource struct {
	dir   int
	draws int
}

func (f *fixedSource) IntN(n int) int {
	f.draws++
	return f.dir % n
}

func (f *fixedSource) Float64() float64 { return 0 }

func TestNewRejectsInvalidInputs(t *testing.T) {
	_, err := New(0, 5, laplacian.New(0.1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidDimensions))

	_, err = New(5, -3, laplacian.New(0.1))
	assert.ErrorIs(t, err, core.ErrInvalidDimensions)

	_, err = New(5, 5, nil)
	assert.ErrorIs(t, err, ErrNilRule)
}

func TestEndToEndStochasticPointMass(t *testing.T) {
	src := &fixedSource{dir: 0}
	sim, err := New(3, 3, stochastic.New(1, src))
	require.NoError(t, err)
	require.True(t, sim.Seed(1, 1, 8))

	sim.Step(1)

	state := sim.CurrentState()
	v, ok := state.At(1, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
	v, _ = state.At(2, 1)
	assert.Equal(t, 8.0, v)
	assert.Equal(t, 8.0, state.Sum())
	assert.Equal(t, 8, src.draws)
}

func TestOutOfBoundsSeedIsNoOp(t *testing.T) {
	sim, err := New(5, 5, laplacian.New(0.1))
	require.NoError(t, err)
	sim.Seed(2, 2, 3)
	before := sim.CurrentState()

	assert.False(t, sim.Seed(-1, 0, 100))
	assert.False(t, sim.Seed(0, 5, 100))
	assert.True(t, before.Equal(sim.CurrentState()))

	_, ok := sim.Value(-1, 0)
	assert.False(t, ok)
}

func TestStepAppliesRuleNTimes(t *testing.T) {
	a, err := New(7, 7, laplacian.New(0.2))
	require.NoError(t, err)
	b, err := New(7, 7, laplacian.New(0.2))
	require.NoError(t, err)
	a.Seed(3, 3, 50)
	b.Seed(3, 3, 50)

	a.Step(5)
	for i := 0; i < 5; i++ {
		b.Step(1)
	}
	assert.True(t, a.CurrentState().Equal(b.CurrentState()))
	assert.Equal(t, 5, a.Steps())

	a.Step(0)
	a.Step(-2)
	assert.Equal(t, 5, a.Steps())
}

func TestLaplacianDeterministic(t *testing.T) {
	build := func() *Simulation {
		sim, err := New(8, 6, laplacian.New(0.15))
		require.NoError(t, err)
		rng := core.NewRNG(21)
		for y := 0; y < 6; y++ {
			for x := 0; x < 8; x++ {
				sim.Seed(x, y, rng.Float64()*10)
			}
		}
		return sim
	}
	a, b := build(), build()
	a.Step(1)
	b.Step(1)
	assert.True(t, a.CurrentState().Equal(b.CurrentState()))
}

func TestStochasticMassConserved(t *testing.T) {
	sim, err := New(11, 11, stochastic.New(2, core.NewRNG(7)))
	require.NoError(t, err)
	sim.Seed(5, 5, 500)
	sim.Seed(0, 0, 37)
	for i := 0; i < 40; i++ {
		sim.Step(1)
		require.Equal(t, 537.0, sim.Mass(), "step %d", i+1)
	}
}

func TestCurrentStateIsDetached(t *testing.T) {
	sim, err := New(4, 4, laplacian.New(0.1))
	require.NoError(t, err)
	sim.Seed(1, 1, 10)
	snap := sim.CurrentState()
	sim.Step(3)
	v, _ := snap.At(1, 1)
	assert.Equal(t, 10.0, v)
}

func TestPhaseTransitions(t *testing.T) {
	sim, err := New(3, 3, laplacian.New(0.1))
	require.NoError(t, err)
	assert.Equal(t, PhaseSeeded, sim.Phase())
	sim.Seed(1, 1, 1)
	assert.Equal(t, PhaseSeeded, sim.Phase())
	sim.Step(1)
	assert.Equal(t, PhaseRunning, sim.Phase())
	sim.Step(3)
	assert.Equal(t, PhaseRunning, sim.Phase())
	assert.Equal(t, "running", sim.Phase().String())
}

func TestMaxMagnitudeIsMonotonic(t *testing.T) {
	sim, err := New(9, 9, laplacian.New(0.2))
	require.NoError(t, err)
	sim.Seed(4, 4, 100)
	assert.Equal(t, 100.0, sim.MaxMagnitude())

	prev := sim.MaxMagnitude()
	for i := 0; i < 20; i++ {
		sim.Step(1)
		require.GreaterOrEqual(t, sim.MaxMagnitude(), prev)
		prev = sim.MaxMagnitude()
	}
	assert.Equal(t, 100.0, sim.MaxMagnitude())
	assert.Less(t, sim.CurrentState().Max(), 100.0)
	assert.True(t, sim.Finite())
}

func TestUnstableLaplacianLosesFiniteness(t *testing.T) {
	sim, err := New(9, 9, laplacian.New(1.5))
	require.NoError(t, err)
	sim.Seed(4, 4, 1)
	sim.Step(2000)
	assert.False(t, sim.Finite())
	assert.True(t, math.IsInf(sim.MaxMagnitude(), 1))
}

func TestParameters(t *testing.T) {
	sim, err := New(6, 4, laplacian.New(0.2))
	require.NoError(t, err)
	sim.Seed(0, 0, 5)
	sim.Step(2)
	params := sim.Parameters()

	rule, ok := params.Lookup("rule")
	require.True(t, ok)
	assert.Equal(t, laplacian.Name, rule.Value)
	steps, ok := params.Lookup("steps")
	require.True(t, ok)
	assert.Equal(t, "2", steps.Value)
	w, _ := params.Lookup("width")
	assert.Equal(t, "6", w.Value)
}
