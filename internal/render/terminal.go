package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"diffuse/internal/core"
)

const clearScreen = "\x1b[H\x1b[2J"

var (
	glyphRamp = []rune(" .:-=+*#%@")
	colorRamp = []aurora.Color{
		aurora.BlueFg,
		aurora.CyanFg,
		aurora.GreenFg,
		aurora.YellowFg,
		aurora.RedFg,
		aurora.MagentaFg,
	}
)

// Terminal draws snapshots as character shaded frames.
type Terminal struct {
	au    aurora.Aurora
	Range Range
	// Clear moves the cursor home and clears the screen before each frame.
	Clear bool
}

// NewTerminal creates a terminal renderer; colors toggles ANSI coloring.
func NewTerminal(colors bool) *Terminal {
	return &Terminal{au: aurora.NewAurora(colors)}
}

// Glyph returns the shade character for a normalized intensity.
func Glyph(t float64) rune {
	return glyphRamp[rampIndex(t, len(glyphRamp))]
}

func rampIndex(t float64, n int) int {
	if !(t > 0) {
		return 0
	}
	if t >= 1 {
		return n - 1
	}
	return int(t*float64(n-1) + 0.5)
}

// Frame writes one frame for snap, preceded by an optional header line.
// Each cell is drawn two characters wide to keep the aspect ratio square.
func (t *Terminal) Frame(w io.Writer, snap core.Snapshot, header string) error {
	bw := bufio.NewWriter(w)
	if t.Clear {
		bw.WriteString(clearScreen)
	}
	if header != "" {
		fmt.Fprintln(bw, t.au.Colorize(header, aurora.GreenFg))
	}
	lo, hi := t.Range.Bounds(snap)
	for y := 0; y < snap.Height(); y++ {
		for x := 0; x < snap.Width(); x++ {
			v, _ := snap.At(x, y)
			n := Normalize(v, lo, hi)
			g := Glyph(n)
			cell := string([]rune{g, g})
			bw.WriteString(t.au.Colorize(cell, colorRamp[rampIndex(n, len(colorRamp))]).String())
		}
		bw.WriteByte('\n')
	}
	fmt.Fprintf(bw, "range [%.4g, %.4g]\n", lo, hi)
	return bw.Flush()
}
