//go:build ebiten

package ui

import (
	"image"

	"niche-ca/internal/core"
	"niche-ca/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type frameProvider interface {
	Frame() render.Frame
}

// View selects what the overlay paints over the occupancy grid.
type View int

const (
	ViewOccupancy View = iota
	ViewChanges
	ViewConditions
)

// Overlay replaces the occupancy view with the change counters or the
// condition field.
type Overlay struct {
	sim   core.Sim
	scale int
	view  View
	img   *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	return &Overlay{sim: sim, scale: scale}
}

// View reports the active view.
func (o *Overlay) View() View { return o.view }

// Update switches views: 1 occupancy, 2 changes, 3 conditions.
func (o *Overlay) Update() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit1):
		o.view = ViewOccupancy
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit2):
		o.view = ViewChanges
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit3):
		o.view = ViewConditions
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.view == ViewOccupancy {
		return
	}
	provider, ok := o.sim.(frameProvider)
	if !ok {
		return
	}
	f := provider.Frame()
	var panel render.Panel
	switch o.view {
	case ViewChanges:
		panel = render.Changes(f)
	case ViewConditions:
		panel = render.Conditions(f)
	}
	o.blit(screen, panel.Image)
}

func (o *Overlay) blit(screen *ebiten.Image, src *image.RGBA) {
	b := src.Bounds()
	if o.img == nil || o.img.Bounds().Dx() != b.Dx() || o.img.Bounds().Dy() != b.Dy() {
		o.img = ebiten.NewImage(b.Dx(), b.Dy())
	}
	o.img.WritePixels(src.Pix)
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.img, op)
}
