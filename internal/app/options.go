package app

import (
	"errors"

	"diffuse/internal/render"
)

// ErrGUIUnavailable is returned by Run in builds without the ebiten tag.
var ErrGUIUnavailable = errors.New("the GUI requires building with the 'ebiten' tag")

// Options controls the interactive viewer.
type Options struct {
	Scale         int
	TPS           int
	StepsPerFrame int
	// MaxSteps pauses the viewer once reached; zero means unlimited.
	MaxSteps int
	// ConvergeTol pauses the viewer when the peak value settles; zero
	// disables the check.
	ConvergeTol float64
	// ClickValue is added to a cell on left click.
	ClickValue float64
	HUDWidth   int
	Range      render.Range
}

// DefaultOptions returns the viewer defaults.
func DefaultOptions() Options {
	return Options{
		Scale:         16,
		TPS:           30,
		StepsPerFrame: 1,
		MaxSteps:      10000,
		ClickValue:    100,
		HUDWidth:      220,
	}
}

// Normalize replaces out-of-range values with defaults.
func (o Options) Normalize() Options {
	def := DefaultOptions()
	if o.Scale <= 0 {
		o.Scale = def.Scale
	}
	if o.TPS <= 0 {
		o.TPS = def.TPS
	}
	if o.StepsPerFrame <= 0 {
		o.StepsPerFrame = def.StepsPerFrame
	}
	if o.MaxSteps < 0 {
		o.MaxSteps = 0
	}
	if o.ConvergeTol < 0 {
		o.ConvergeTol = 0
	}
	if o.HUDWidth < 0 {
		o.HUDWidth = 0
	}
	return o
}
