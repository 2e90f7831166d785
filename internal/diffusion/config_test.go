package diffusion

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diffuse/internal/core"
	_ "diffuse/internal/sims/laplacian"
	_ "diffuse/internal/sims/stochastic"
)

func intPtr(v int) *int             { return &v }
func float64Ptr(v float64) *float64 { return &v }

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diffuse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigPerRule(t *testing.T) {
	stoc := DefaultConfig("stoc")
	assert.Equal(t, RuleStochastic, stoc.Rule)
	assert.Equal(t, 2.0, stoc.Coefficient)
	assert.Equal(t, 25, stoc.Width)
	assert.Equal(t, 25, stoc.Height)
	require.Len(t, stoc.Init, 1)
	assert.Equal(t, InitPoint, stoc.Init[0].Kind)

	lap := DefaultConfig("LAP")
	assert.Equal(t, RuleLaplacian, lap.Rule)
	assert.Equal(t, 0.24, lap.Coefficient)

	assert.Equal(t, RuleStochastic, DefaultConfig("").Rule)
}

func TestValidate(t *testing.T) {
	ok := DefaultConfig(RuleLaplacian)
	require.NoError(t, ok.Validate())

	bad := ok
	bad.Width = 0
	err := bad.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, core.ErrInvalidDimensions)

	bad = ok
	bad.Coefficient = -0.1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = ok
	bad.Coefficient = math.NaN()
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = ok
	bad.Rule = "spectral"
	assert.ErrorIs(t, bad.Validate(), ErrUnknownRule)

	bad = ok
	bad.Init = []InitialCondition{{Kind: "ring"}}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
}

func TestBuildSeedsDefaultPointMass(t *testing.T) {
	sim, err := DefaultConfig(RuleLaplacian).Build()
	require.NoError(t, err)
	assert.Equal(t, RuleLaplacian, sim.Name())
	v, _ := sim.Value(12, 12)
	assert.Equal(t, DefaultPointValue, v)
	assert.Equal(t, DefaultPointValue, sim.Mass())
}

func TestBuildStochasticIsReproducible(t *testing.T) {
	cfg := DefaultConfig(RuleStochastic)
	cfg.Width, cfg.Height = 9, 9
	cfg.Init = []InitialCondition{{Kind: InitPoint, Value: float64Ptr(300)}}

	a, err := cfg.Build()
	require.NoError(t, err)
	b, err := cfg.Build()
	require.NoError(t, err)
	a.Step(10)
	b.Step(10)
	assert.True(t, a.CurrentState().Equal(b.CurrentState()))

	cfg.Seed++
	c, err := cfg.Build()
	require.NoError(t, err)
	c.Step(10)
	assert.False(t, a.CurrentState().Equal(c.CurrentState()))
}

func TestWithOverrides(t *testing.T) {
	base := DefaultConfig(RuleStochastic)
	cfg, err := base.WithOverrides(map[string]string{"w": "40", "height": "30", "seed": "7"})
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 25, base.Width, "overrides must not touch the receiver")

	cfg, err = base.WithOverrides(map[string]string{"rule": "lap"})
	require.NoError(t, err)
	assert.Equal(t, RuleLaplacian, cfg.Rule)
	assert.Equal(t, 0.24, cfg.Coefficient, "switching rule without a coefficient takes the rule default")

	file, err := ParseConfig([]byte("rule: laplacian\ncoefficient: 0.1\n"))
	require.NoError(t, err)
	cfg, err = file.WithOverrides(map[string]string{"rule": "laplacian"})
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Coefficient, "restating the same rule keeps the coefficient")
	cfg, err = file.WithOverrides(map[string]string{"rule": "LAP"})
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Coefficient, "aliases of the same rule keep the coefficient")

	cfg, err = base.WithOverrides(map[string]string{"rule": "lap", "diffusion": "0.1"})
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Coefficient)

	_, err = base.WithOverrides(map[string]string{"w": "wide"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = base.WithOverrides(map[string]string{"colour": "red"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	path := writeTempYAML(t, `
rule: lap
width: 31
height: 21
init:
  - kind: line
    y: 3
  - kind: particle
    x: 0
    y: 0
    value: 2
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, RuleLaplacian, cfg.Rule)
	assert.Equal(t, 0.24, cfg.Coefficient)
	assert.Equal(t, 31, cfg.Width)
	assert.Equal(t, 21, cfg.Height)
	assert.Equal(t, int64(42), cfg.Seed)
	require.Len(t, cfg.Init, 2)
	assert.Equal(t, InitLine, cfg.Init[0].Kind)
	require.NotNil(t, cfg.Init[0].Y)
	assert.Equal(t, 3, *cfg.Init[0].Y)
	assert.Nil(t, cfg.Init[0].X)
}

func TestLoadConfigExplicitZeroDistinctFromUnset(t *testing.T) {
	path := writeTempYAML(t, "rule: stochastic\ncoefficient: 0\nseed: 0\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Coefficient)
	assert.Equal(t, int64(0), cfg.Seed)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := writeTempYAML(t, "rule: lap\ntimestep: 0.1\n")
	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfigEmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeTempYAML(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(""), cfg)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInitialConditions(t *testing.T) {
	newSim := func() *Simulation {
		sim, err := New(5, 5, stochasticRule(t))
		require.NoError(t, err)
		return sim
	}

	t.Run("particle at centre", func(t *testing.T) {
		sim := newSim()
		require.NoError(t, InitialCondition{Kind: InitParticle}.Apply(sim))
		v, _ := sim.Value(2, 2)
		assert.Equal(t, 1.0, v)
		assert.Equal(t, 1.0, sim.Mass())
	})

	t.Run("point with explicit position", func(t *testing.T) {
		sim := newSim()
		ic := InitialCondition{Kind: InitPoint, X: intPtr(0), Y: intPtr(4), Value: float64Ptr(9)}
		require.NoError(t, ic.Apply(sim))
		v, _ := sim.Value(0, 4)
		assert.Equal(t, 9.0, v)
	})

	t.Run("line fills a row", func(t *testing.T) {
		sim := newSim()
		require.NoError(t, InitialCondition{Kind: InitLine}.Apply(sim))
		for x := 0; x < 5; x++ {
			v, _ := sim.Value(x, 2)
			assert.Equal(t, DefaultLineValue, v)
		}
		assert.Equal(t, 5*DefaultLineValue, sim.Mass())
	})

	t.Run("gradient grows away from the centre column", func(t *testing.T) {
		sim := newSim()
		require.NoError(t, InitialCondition{Kind: InitGradient}.Apply(sim))
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				v, _ := sim.Value(x, y)
				assert.Equal(t, 2*math.Abs(float64(2-x)), v)
			}
		}
	})

	t.Run("outside the grid is ignored", func(t *testing.T) {
		sim := newSim()
		require.NoError(t, InitialCondition{Kind: InitPoint, X: intPtr(-1)}.Apply(sim))
		assert.Equal(t, 0.0, sim.Mass())
	})

	t.Run("unknown kind", func(t *testing.T) {
		err := InitialCondition{Kind: "ring"}.Apply(newSim())
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func stochasticRule(t *testing.T) core.Rule {
	t.Helper()
	rule, err := DefaultConfig(RuleStochastic).NewRule()
	require.NoError(t, err)
	return rule
}
