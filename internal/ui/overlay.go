//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"diffuse/internal/core"
	"diffuse/internal/render"
)

// Overlay draws an optional colorbar and a cursor probe over the grid.
type Overlay struct {
	size         core.Size
	palette      render.Palette
	scale        int
	showColorbar bool

	bar   *ebiten.Image
	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim interface{ Size() core.Size }, palette render.Palette, scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{size: sim.Size(), palette: palette, scale: scale, showColorbar: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	if len(palette) > 0 {
		o.bar = ebiten.NewImage(1, len(palette))
		buf := make([]byte, 4*len(palette))
		for i := range palette {
			// top of the bar is the highest value
			c := palette[len(palette)-1-i]
			buf[i*4+0], buf[i*4+1], buf[i*4+2], buf[i*4+3] = c.R, c.G, c.B, c.A
		}
		o.bar.WritePixels(buf)
	}
	return o
}

// Update processes overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		o.showColorbar = !o.showColorbar
	}
}

// Draw paints the overlay for the current frame.
func (o *Overlay) Draw(screen *ebiten.Image, snap core.Snapshot) {
	face := basicfont.Face7x13
	gridW := o.size.W * o.scale
	gridH := o.size.H * o.scale

	if o.showColorbar && o.bar != nil {
		barH := gridH / 2
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(barWidth, float64(barH)/float64(len(o.palette)))
		op.GeoM.Translate(float64(gridW-barWidth-barMargin), barMargin)
		screen.DrawImage(o.bar, op)
		hi := fmt.Sprintf("%.3g", snap.Max())
		lo := fmt.Sprintf("%.3g", snap.Min())
		hb := text.BoundString(face, hi)
		lb := text.BoundString(face, lo)
		text.Draw(screen, hi, face, gridW-barWidth-2*barMargin-hb.Dx(), barMargin+hb.Dy(), color.White)
		text.Draw(screen, lo, face, gridW-barWidth-2*barMargin-lb.Dx(), barMargin+barH, color.White)
	}

	mx, my := ebiten.CursorPosition()
	x, y := mx/o.scale, my/o.scale
	if v, ok := snap.At(x, y); ok && mx >= 0 && my >= 0 {
		o.highlight(screen, x, y)
		probe := fmt.Sprintf("(%d,%d) %.4g", x, y, v)
		text.Draw(screen, probe, face, barMargin, gridH-barMargin, color.White)
	}
}

func (o *Overlay) highlight(screen *ebiten.Image, x, y int) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	op.GeoM.Translate(float64(x*o.scale), float64(y*o.scale))
	op.ColorScale.ScaleAlpha(0.25)
	screen.DrawImage(o.pixel, op)
}

const (
	barWidth  = 10
	barMargin = 8
)
