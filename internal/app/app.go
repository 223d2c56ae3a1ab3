//go:build ebiten

package app

import (
	"image/color"
	"log/slog"
	"time"

	"niche-ca/internal/core"
	"niche-ca/internal/render"
	"niche-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

var fallbackPalette = []color.RGBA{{A: 255}, {R: 255, G: 255, B: 255, A: 255}}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	clock   *core.FixedStep
	palette []color.RGBA

	scale    int
	hudWidth int
	sps      int
	paused   bool
	tickOnce bool
	finished bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg *Config) *Game {
	size := sim.Size()
	g := &Game{
		sim:      sim,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(sim, cfg.Scale),
		hud:      ui.NewHUD(sim, cfg.HUD),
		clock:    core.NewFixedStep(cfg.SPS),
		palette:  fallbackPalette,
		scale:    cfg.Scale,
		hudWidth: cfg.HUD,
		sps:      cfg.SPS,
		seed:     cfg.Seed,
	}
	if p, ok := sim.(paletteProvider); ok {
		g.palette = p.Palette()
	}
	return g
}

// Reset rebuilds the simulation from the provided seed.
func (g *Game) Reset(seed int64) {
	if err := g.sim.Reset(seed); err != nil {
		slog.Error("reset failed", "seed", seed, "err", err)
		return
	}
	g.seed = seed
	g.tickOnce = false
	g.finished = false
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
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.sps *= 2
		g.clock.SetRate(g.sps)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && g.sps > 1 {
		g.sps /= 2
		g.clock.SetRate(g.sps)
	}

	g.overlay.Update()

	step := g.tickOnce || (!g.paused && g.clock.ShouldStep())
	if step && !g.finished {
		if !g.sim.Step() {
			g.finished = true
			slog.Info("simulation stopped", "sim", g.sim.Name())
		}
	}
	g.tickOnce = false
	g.hud.Update()
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
