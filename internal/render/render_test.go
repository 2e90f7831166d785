package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diffuse/internal/core"
	"diffuse/internal/diffusion"
	"diffuse/internal/sims/laplacian"
)

func gridSnapshot(t *testing.T, w, h int, vals ...float64) core.Snapshot {
	t.Helper()
	g, err := core.NewGrid(w, h)
	require.NoError(t, err)
	copy(g.Cells(), vals)
	return g.Snapshot()
}

func TestCoolPaletteEndpoints(t *testing.T) {
	p := CoolPalette(DefaultPaletteSize)
	require.Len(t, p, DefaultPaletteSize)

	first, last := p[0], p[len(p)-1]
	assert.Equal(t, uint8(0), first.R)
	assert.Equal(t, uint8(255), first.G)
	assert.Equal(t, uint8(255), first.B)
	assert.Equal(t, uint8(255), last.R)
	assert.Equal(t, uint8(0), last.G)
	assert.Equal(t, uint8(255), last.B)
	for _, c := range p {
		assert.Equal(t, uint8(255), c.A)
	}

	assert.Len(t, CoolPalette(0), 2)
}

func TestPaletteAtClamps(t *testing.T) {
	p := CoolPalette(4)
	assert.Equal(t, p[0], p.At(-3))
	assert.Equal(t, p[3], p.At(7))
	assert.Equal(t, p[0], p.At(0))
	assert.Equal(t, p[2], p.At(0.6))
	var empty Palette
	assert.Equal(t, uint8(0), empty.At(0.5).A)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 0.5, Normalize(5, 0, 10))
	assert.Equal(t, 0.0, Normalize(-1, 0, 10))
	assert.Equal(t, 1.0, Normalize(11, 0, 10))
	assert.Equal(t, 0.0, Normalize(3, 3, 3), "degenerate range")
}

func TestFillRGBADynamicAndFixed(t *testing.T) {
	snap := gridSnapshot(t, 2, 1, 0, 4)
	p := Palette{{R: 1, A: 255}, {R: 2, A: 255}}
	buf := make([]byte, 8)

	FillRGBA(buf, snap, p, Range{})
	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, byte(2), buf[4])

	FillRGBA(buf, snap, p, FixedRange(0, 100))
	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, byte(1), buf[4], "4 is near the bottom of a 0..100 colorbar")
}

func TestTerminalFramePlain(t *testing.T) {
	snap := gridSnapshot(t, 3, 2, 0, 5, 10, 10, 0, 0)
	term := NewTerminal(false)
	var out bytes.Buffer
	require.NoError(t, term.Frame(&out, snap, "step 1"))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "step 1", lines[0])
	assert.Equal(t, "  ++@@", lines[1])
	assert.Equal(t, "@@    ", lines[2])
	assert.Equal(t, "range [0, 10]", lines[3])
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestTerminalFrameClearAndColor(t *testing.T) {
	snap := gridSnapshot(t, 1, 1, 1)
	term := NewTerminal(true)
	term.Clear = true
	var out bytes.Buffer
	require.NoError(t, term.Frame(&out, snap, ""))
	assert.True(t, strings.HasPrefix(out.String(), clearScreen))
	assert.Contains(t, out.String(), "\x1b[")
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, ' ', Glyph(0))
	assert.Equal(t, '@', Glyph(1))
	assert.Equal(t, '@', Glyph(3))
}

func TestWriteHistoryChart(t *testing.T) {
	sim, err := diffusion.New(15, 15, laplacian.New(0.2))
	require.NoError(t, err)
	sim.Seed(7, 7, 100)
	h := diffusion.NewHistory(7, 7)
	h.Record(sim)
	for i := 0; i < 5; i++ {
		sim.Step(1)
		h.Record(sim)
	}

	var out bytes.Buffer
	require.NoError(t, WriteHistoryChart(&out, "laplacian", h))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("\x89PNG")))

	short := diffusion.NewHistory(0, 0)
	short.Record(sim)
	assert.ErrorIs(t, WriteHistoryChart(&out, "", short), ErrTooFewSamples)
	assert.ErrorIs(t, WriteHistoryChart(&out, "", nil), ErrTooFewSamples)
}
