package core

import "sort"

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Rule computes the next grid state from the current one. Implementations
// must not modify cur; they return a freshly allocated grid of the same size.
type Rule interface {
	Name() string
	Coefficient() float64
	Update(cur *Grid) *Grid
}

// RuleParams carries construction-time settings shared by every rule.
// Source is only consulted by stochastic rules.
type RuleParams struct {
	Coefficient float64
	Source      Source
}

// Factory constructs a Rule from the provided parameters.
type Factory func(p RuleParams) Rule

var rules = map[string]Factory{}

// Register adds an update rule factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	rules[name] = f
}

// Rules exposes the registry of available update rule factories.
func Rules() map[string]Factory {
	return rules
}

// RuleNames returns the registered rule names in sorted order.
func RuleNames() []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
