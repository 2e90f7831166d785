// Package render turns simulation snapshots into pixels, terminal frames and
// charts. Nothing in the simulation core depends on it.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/crazy3lf/colorconv"

	"diffuse/internal/core"
)

// DefaultPaletteSize is the number of entries in the default colormap.
const DefaultPaletteSize = 256

// Palette maps normalized intensities in [0, 1] to colors.
type Palette []color.RGBA

// CoolPalette builds a cyan-to-magenta ramp of n colors by sweeping the HSV
// hue from 180 to 300 degrees.
func CoolPalette(n int) Palette {
	if n < 2 {
		n = 2
	}
	p := make(Palette, n)
	for i := range p {
		hue := 180 + 120*float64(i)/float64(n-1)
		r, g, b, err := colorconv.HSVToRGB(hue, 1, 1)
		if err != nil {
			// unreachable for hues in [180, 300]
			panic(fmt.Sprintf("render: hsv palette: %v", err))
		}
		p[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return p
}

// At returns the color for a normalized intensity. Values outside [0, 1]
// clamp; NaN maps to the first entry.
func (p Palette) At(t float64) color.RGBA {
	if len(p) == 0 {
		return color.RGBA{}
	}
	if !(t > 0) {
		return p[0]
	}
	if t >= 1 {
		return p[len(p)-1]
	}
	return p[int(t*float64(len(p)-1)+0.5)]
}

// Range selects how raw cell values map onto the palette. A zero Range is
// dynamic: every frame spans its own min..max.
type Range struct {
	Lo, Hi float64
	Fixed  bool
}

// FixedRange pins the colorbar to [lo, hi].
func FixedRange(lo, hi float64) Range {
	return Range{Lo: lo, Hi: hi, Fixed: true}
}

// Bounds returns the value interval used for snap.
func (r Range) Bounds(snap core.Snapshot) (lo, hi float64) {
	if r.Fixed {
		return r.Lo, r.Hi
	}
	return snap.Min(), snap.Max()
}

// Normalize maps v into [0, 1] for the interval [lo, hi]. A degenerate
// interval maps everything to 0.
func Normalize(v, lo, hi float64) float64 {
	span := hi - lo
	if !(span > 0) || math.IsInf(span, 0) {
		return 0
	}
	t := (v - lo) / span
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// FillRGBA writes one RGBA pixel per cell of snap into buf, row-major.
// buf must hold at least 4*W*H bytes.
func FillRGBA(buf []byte, snap core.Snapshot, p Palette, r Range) {
	lo, hi := r.Bounds(snap)
	w, h := snap.Width(), snap.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v, _ := snap.At(x, y)
			c := p.At(Normalize(v, lo, hi))
			base := (y*w + x) * 4
			buf[base+0] = c.R
			buf[base+1] = c.G
			buf[base+2] = c.B
			buf[base+3] = c.A
		}
	}
}
