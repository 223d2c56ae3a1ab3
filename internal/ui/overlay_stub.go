//go:build !ebiten

package ui

import "niche-ca/internal/core"

// View selects what the overlay paints over the occupancy grid.
type View int

const (
	ViewOccupancy View = iota
	ViewChanges
	ViewConditions
)

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(core.Sim, int) *Overlay { return &Overlay{} }

// View always reports the occupancy view.
func (o *Overlay) View() View { return ViewOccupancy }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
