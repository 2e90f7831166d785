package diffusion

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"diffuse/internal/core"
)

// Rule names understood by the configuration layer.
const (
	RuleStochastic = "stochastic"
	RuleLaplacian  = "laplacian"
)

var ruleAliases = map[string]string{
	"stoc": RuleStochastic,
	"lap":  RuleLaplacian,
}

var (
	// ErrInvalidConfig is returned for configurations that cannot build a
	// simulation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnknownRule is returned when no update rule is registered under the
	// requested name.
	ErrUnknownRule = errors.New("unknown update rule")
)

// Config holds the immutable settings of one simulation run.
type Config struct {
	Width       int                `yaml:"width"`
	Height      int                `yaml:"height"`
	Rule        string             `yaml:"rule"`
	Coefficient float64            `yaml:"coefficient"`
	Seed        int64              `yaml:"seed"`
	Init        []InitialCondition `yaml:"init"`
}

// DefaultConfig returns the standard configuration for the named rule: a
// 25x25 grid with a point mass of 1250 at the centre. The stochastic rule
// takes a step of 2 cells, the Laplacian rule a coefficient just inside its
// stability limit.
func DefaultConfig(rule string) Config {
	rule = NormalizeRule(rule)
	if rule == "" {
		rule = RuleStochastic
	}
	c := Config{
		Width:       25,
		Height:      25,
		Rule:        rule,
		Coefficient: 2,
		Seed:        42,
		Init:        []InitialCondition{{Kind: InitPoint}},
	}
	if rule == RuleLaplacian {
		c.Coefficient = 0.24
	}
	return c
}

// NormalizeRule lower-cases a rule name and resolves the short aliases
// "stoc" and "lap".
func NormalizeRule(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if full, ok := ruleAliases[name]; ok {
		return full
	}
	return name
}

// Validate checks that the configuration can build a simulation.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: grid %dx%d: %w", ErrInvalidConfig, c.Width, c.Height, core.ErrInvalidDimensions)
	}
	if math.IsNaN(c.Coefficient) || math.IsInf(c.Coefficient, 0) || c.Coefficient < 0 {
		return fmt.Errorf("%w: coefficient %v must be a finite non-negative number", ErrInvalidConfig, c.Coefficient)
	}
	if _, ok := core.Rules()[NormalizeRule(c.Rule)]; !ok {
		return fmt.Errorf("%w %q (available: %s)", ErrUnknownRule, c.Rule, strings.Join(core.RuleNames(), ", "))
	}
	for i, ic := range c.Init {
		if err := ic.validate(); err != nil {
			return fmt.Errorf("%w: init[%d]: %w", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

// NewRule builds the configured update rule. Stochastic rules draw from a
// PCG source seeded with c.Seed.
func (c Config) NewRule() (core.Rule, error) {
	name := NormalizeRule(c.Rule)
	factory, ok := core.Rules()[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRule, c.Rule)
	}
	return factory(core.RuleParams{
		Coefficient: c.Coefficient,
		Source:      core.NewRNG(c.Seed),
	}), nil
}

// Build validates the configuration, creates the simulation and applies the
// initial conditions.
func (c Config) Build() (*Simulation, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rule, err := c.NewRule()
	if err != nil {
		return nil, err
	}
	sim, err := New(c.Width, c.Height, rule)
	if err != nil {
		return nil, err
	}
	for _, ic := range c.Init {
		if err := ic.Apply(sim); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

// WithOverrides returns a copy of c with key=value overrides applied. Keys
// are width/w, height/h, rule, coefficient/diffusion and seed. Switching to a
// different rule without a coefficient key resets the coefficient to that
// rule's default.
func (c Config) WithOverrides(kv map[string]string) (Config, error) {
	out := c
	out.Init = append([]InitialCondition(nil), c.Init...)
	for key, raw := range kv {
		v := strings.TrimSpace(raw)
		switch strings.ToLower(key) {
		case "w", "width":
			n, err := strconv.Atoi(v)
			if err != nil {
				return c, fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, key, raw, err)
			}
			out.Width = n
		case "h", "height":
			n, err := strconv.Atoi(v)
			if err != nil {
				return c, fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, key, raw, err)
			}
			out.Height = n
		case "rule":
			out.Rule = NormalizeRule(v)
		case "coefficient", "diffusion":
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return c, fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, key, raw, err)
			}
			out.Coefficient = f
		case "seed":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return c, fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, key, raw, err)
			}
			out.Seed = n
		default:
			return c, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, key)
		}
	}
	ruleChanged := NormalizeRule(out.Rule) != NormalizeRule(c.Rule)
	if ruleChanged && !hasAnyKey(kv, "coefficient", "diffusion") {
		out.Coefficient = DefaultConfig(out.Rule).Coefficient
	}
	return out, nil
}

func hasAnyKey(kv map[string]string, keys ...string) bool {
	for k := range kv {
		for _, want := range keys {
			if strings.EqualFold(k, want) {
				return true
			}
		}
	}
	return false
}

// fileConfig mirrors Config with optional fields so that an explicit zero in
// YAML is distinguishable from an omitted key.
type fileConfig struct {
	Width       *int               `yaml:"width"`
	Height      *int               `yaml:"height"`
	Rule        string             `yaml:"rule"`
	Coefficient *float64           `yaml:"coefficient"`
	Seed        *int64             `yaml:"seed"`
	Init        []InitialCondition `yaml:"init"`
}

// LoadConfig reads a YAML configuration file. Omitted keys take the defaults
// of the configured rule. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration document.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: parse yaml: %w", ErrInvalidConfig, err)
	}
	c := DefaultConfig(fc.Rule)
	if fc.Width != nil {
		c.Width = *fc.Width
	}
	if fc.Height != nil {
		c.Height = *fc.Height
	}
	if fc.Coefficient != nil {
		c.Coefficient = *fc.Coefficient
	}
	if fc.Seed != nil {
		c.Seed = *fc.Seed
	}
	if fc.Init != nil {
		c.Init = fc.Init
	}
	return c, nil
}
