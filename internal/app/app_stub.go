//go:build !ebiten

package app

import "diffuse/internal/diffusion"

// Run reports that the GUI is unavailable in headless builds.
func Run(diffusion.Config, Options) error {
	return ErrGUIUnavailable
}
