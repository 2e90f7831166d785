//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"diffuse/internal/core"
)

// HeatmapPainter uploads snapshots into a single RGBA image and draws it.
type HeatmapPainter struct {
	w, h    int
	img     *ebiten.Image
	buf     []byte
	palette Palette
	Range   Range
}

// NewHeatmapPainter allocates a painter for a grid of size w*h.
func NewHeatmapPainter(w, h int, palette Palette, r Range) *HeatmapPainter {
	if len(palette) == 0 {
		palette = CoolPalette(DefaultPaletteSize)
	}
	return &HeatmapPainter{
		w:       w,
		h:       h,
		img:     ebiten.NewImage(w, h),
		buf:     make([]byte, 4*w*h),
		palette: palette,
		Range:   r,
	}
}

// Blit converts snap to pixels and draws it scaled onto dst.
func (hp *HeatmapPainter) Blit(dst *ebiten.Image, snap core.Snapshot, scale int) {
	if snap.Width() != hp.w || snap.Height() != hp.h {
		return
	}
	FillRGBA(hp.buf, snap, hp.palette, hp.Range)
	hp.img.WritePixels(hp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(hp.img, op)
}

// Palette returns the colormap used by the painter.
func (hp *HeatmapPainter) Palette() Palette { return hp.palette }

// Size returns the dimensions of the underlying image.
func (hp *HeatmapPainter) Size() (int, int) { return hp.w, hp.h }
