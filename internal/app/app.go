//go:build ebiten

package app

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"diffuse/internal/core"
	"diffuse/internal/diffusion"
	"diffuse/internal/render"
	"diffuse/internal/ui"
)

// Game adapts a diffusion simulation to the ebiten.Game interface.
type Game struct {
	cfg  diffusion.Config
	opts Options

	sim     *diffusion.Simulation
	painter *render.HeatmapPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	prev      core.Snapshot
	paused    bool
	tickOnce  bool
	converged bool
}

// New constructs a Game for the provided configuration.
func New(cfg diffusion.Config, opts Options) (*Game, error) {
	opts = opts.Normalize()
	g := &Game{cfg: cfg, opts: opts}
	if err := g.Reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// Run opens a window and drives the simulation until it is closed.
func Run(cfg diffusion.Config, opts Options) error {
	g, err := New(cfg, opts)
	if err != nil {
		return err
	}
	size := g.sim.Size()
	ebiten.SetWindowTitle(fmt.Sprintf("diffuse: %s (D=%g)", g.sim.Name(), g.sim.Rule().Coefficient()))
	ebiten.SetTPS(g.opts.TPS)
	ebiten.SetWindowSize(size.W*g.opts.Scale+g.opts.HUDWidth, size.H*g.opts.Scale)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Reset rebuilds the simulation from its configuration.
func (g *Game) Reset() error {
	sim, err := g.cfg.Build()
	if err != nil {
		return err
	}
	size := sim.Size()
	g.sim = sim
	g.painter = render.NewHeatmapPainter(size.W, size.H, nil, g.opts.Range)
	g.hud = ui.NewHUD(sim, g.opts.HUDWidth)
	g.overlay = ui.NewOverlay(sim, g.painter.Palette(), g.opts.Scale)
	g.prev = sim.CurrentState()
	g.tickOnce = false
	g.converged = false
	return nil
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(); err != nil {
			return err
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.inject()
	}

	g.overlay.Update()
	g.hud.Update()

	if g.done() && !g.tickOnce {
		return nil
	}
	if !g.paused || g.tickOnce {
		n := g.opts.StepsPerFrame
		if g.tickOnce {
			n = 1
		}
		g.sim.Step(n)
		g.tickOnce = false
		g.checkProgress()
	}
	return nil
}

func (g *Game) done() bool {
	if g.converged {
		return true
	}
	return g.opts.MaxSteps > 0 && g.sim.Steps() >= g.opts.MaxSteps
}

func (g *Game) checkProgress() {
	cur := g.sim.CurrentState()
	if !g.converged && diffusion.Converged(g.prev, cur, g.opts.ConvergeTol) {
		g.converged = true
		logrus.Infof("converged after %d steps", g.sim.Steps())
	}
	g.prev = cur
	if !g.sim.Finite() {
		logrus.Warnf("field diverged at step %d; pausing", g.sim.Steps())
		g.paused = true
	}
}

func (g *Game) inject() {
	mx, my := ebiten.CursorPosition()
	x, y := mx/g.opts.Scale, my/g.opts.Scale
	cur, ok := g.sim.Value(x, y)
	if !ok {
		return
	}
	g.sim.Seed(x, y, cur+g.opts.ClickValue)
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.sim.CurrentState()
	g.painter.Blit(screen, snap, g.opts.Scale)
	g.overlay.Draw(screen, snap)
	g.hud.Draw(screen, g.sim.Size().W*g.opts.Scale, g.opts.Scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.opts.Scale + g.opts.HUDWidth, s.H * g.opts.Scale
}
