//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"strings"

	"niche-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type statusProvider interface {
	Status() string
}

// HUD renders the parameter panel to the right of the simulation view.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	title      string
	status     string
	lines      []hudLine
}

type hudLine struct {
	text   string
	header bool
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{sim: sim, width: width, title: buildTitle(sim)}
}

// Update refreshes the status line and the cached parameter listing.
func (h *HUD) Update() {
	if h == nil {
		return
	}
	if provider, ok := h.sim.(statusProvider); ok {
		h.status = provider.Status()
	}
	provider, ok := h.sim.(core.ParameterProvider)
	if !ok {
		h.lines = nil
		return
	}
	h.lines = h.lines[:0]
	for _, group := range provider.Parameters().Groups {
		h.lines = append(h.lines, hudLine{text: group.Name, header: true})
		for _, p := range group.Params {
			h.lines = append(h.lines, hudLine{text: fmt.Sprintf("%s: %s", p.Label, p.Value)})
		}
	}
}

// Draw paints the HUD panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawLines(height)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawLines(height int) {
	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	if h.status != "" {
		y += lineHeight
		text.Draw(h.panel, h.status, face, panelPadding, y, color.RGBA{R: 240, G: 210, B: 120, A: 255})
	}
	if len(h.lines) == 0 {
		text.Draw(h.panel, "No parameters", face, panelPadding, y+lineHeight, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		return
	}
	maxChars := (h.width - 2*panelPadding) / glyphWidth
	for _, line := range h.lines {
		y += lineHeight
		if line.header {
			y += sectionGap
		}
		if y > height-panelPadding {
			return
		}
		col := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if line.header {
			col = color.RGBA{R: 150, G: 190, B: 240, A: 255}
		}
		text.Draw(h.panel, truncate(line.text, maxChars), face, panelPadding, y, col)
	}
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Parameters"
	}
	name := sim.Name()
	return strings.ToUpper(name[:1]) + name[1:] + " Parameters"
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "~"
}

const (
	panelPadding   = 12
	lineHeight     = 16
	sectionGap     = 6
	glyphWidth     = 7
	headerBaseline = 18
)
