// Package render draws simulation snapshots as images, charts and movies.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

var (
	// Low and High are the end points of the intensity ramp used by the
	// change and condition panels.
	Low  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	High = color.RGBA{R: 255, A: 255}
)

// Frame is everything needed to draw one step of a run.
type Frame struct {
	Rows, Cols int

	// Residents holds a roster index per cell, -1 for empty cells.
	Residents []int
	Changes   []int
	// Condition is one component of every cell's condition.
	Condition []float64

	Palette []color.RGBA
	Names   []string
	Step    int
	Caption string
}

// Panel is a rendered lattice plus the range its colour bar should show.
type Panel struct {
	Image    *image.RGBA
	Title    string
	Min, Max string
	Lo, Hi   color.RGBA
}

// Occupancy paints residents with the frame palette. Palette index 0 is the
// empty colour and index i+1 is population i.
func Occupancy(f Frame) Panel {
	cells := make([]uint8, len(f.Residents))
	for i, slot := range f.Residents {
		cells[i] = uint8(slot + 1)
	}
	p := Panel{
		Image: PaletteImage(cells, f.Cols, f.Rows, f.Palette),
		Title: "repartition",
	}
	if len(f.Palette) > 1 {
		p.Lo, p.Hi = f.Palette[1], f.Palette[len(f.Palette)-1]
	}
	if len(f.Names) > 0 {
		p.Min, p.Max = f.Names[0], f.Names[len(f.Names)-1]
	}
	return p
}

// Changes paints the change counters on the white to red ramp.
func Changes(f Frame) Panel {
	vals := make([]float64, len(f.Changes))
	for i, c := range f.Changes {
		vals[i] = float64(c)
	}
	img, lo, hi := ramp(vals, f.Cols, f.Rows)
	return Panel{Image: img, Title: "changes", Min: fmt.Sprint(int(lo)), Max: fmt.Sprint(int(hi)), Lo: Low, Hi: High}
}

// Conditions paints one condition component on the white to red ramp.
func Conditions(f Frame) Panel {
	img, lo, hi := ramp(f.Condition, f.Cols, f.Rows)
	return Panel{Image: img, Title: "conditions", Min: fmt.Sprintf("%.2f", lo), Max: fmt.Sprintf("%.2f", hi), Lo: Low, Hi: High}
}

// ramp maps vals linearly onto [Low, High] between their minimum and maximum.
// A flat field is drawn entirely in Low.
func ramp(vals []float64, cols, rows int) (*image.RGBA, float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(vals) == 0 {
		lo, hi = 0, 0
	}
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for i, v := range vals {
		t := 0.0
		if hi > lo {
			t = (v - lo) / (hi - lo)
		}
		c := lerp(Low, High, t)
		copy(img.Pix[i*4:], []uint8{c.R, c.G, c.B, c.A})
	}
	return img, lo, hi
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + t*(float64(y)-float64(x))))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
