package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/icza/mjpeg"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// CountsChart plots one line per population of cells held against time and
// writes it as PNG. counts[i][t] is the size of population i at step t and
// cells is the lattice size, used as the top of the y axis.
func CountsChart(w io.Writer, names []string, counts [][]int, palette []color.RGBA, cells int) error {
	if len(counts) == 0 {
		return fmt.Errorf("no series to plot")
	}
	steps := 0
	series := make([]chart.Series, 0, len(counts))
	for i, c := range counts {
		xs := make([]float64, len(c))
		ys := make([]float64, len(c))
		for t, n := range c {
			xs[t] = float64(t)
			ys[t] = float64(n)
		}
		steps = max(steps, len(c))
		name := fmt.Sprintf("population %d", i)
		if i < len(names) {
			name = names[i]
		}
		style := chart.Style{StrokeWidth: 3}
		if i+1 < len(palette) {
			p := palette[i+1]
			style.StrokeColor = drawing.Color{R: p.R, G: p.G, B: p.B, A: 255}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	graph := chart.Chart{
		Width:  640,
		Height: 320,
		XAxis: chart.XAxis{
			Name:  "t",
			Style: chart.Style{FontSize: 10},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(steps-1, 1))},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "cells",
			Style: chart.Style{FontSize: 10},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(cells, 1))},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

// Movie writes frames into a Motion-JPEG AVI file.
type Movie struct {
	w             mjpeg.AviWriter
	width, height int
	canvas        *image.RGBA
	buf           bytes.Buffer
	opts          jpeg.Options
}

// NewMovie creates an AVI at path. Frames of a different size are drawn onto
// a white canvas of width x height anchored at the top left.
func NewMovie(path string, width, height, fps int) (*Movie, error) {
	if width <= 0 || height <= 0 || fps <= 0 {
		return nil, fmt.Errorf("invalid movie geometry %dx%d at %d fps", width, height, fps)
	}
	w, err := mjpeg.New(path, int32(width), int32(height), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("creating movie: %w", err)
	}
	return &Movie{
		w:      w,
		width:  width,
		height: height,
		canvas: image.NewRGBA(image.Rect(0, 0, width, height)),
		opts:   jpeg.Options{Quality: 90},
	}, nil
}

// Add appends one frame.
func (m *Movie) Add(img image.Image) error {
	frame := img
	if b := img.Bounds(); b.Dx() != m.width || b.Dy() != m.height {
		draw.Draw(m.canvas, m.canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.Draw(m.canvas, b.Sub(b.Min), img, b.Min, draw.Src)
		frame = m.canvas
	}
	m.buf.Reset()
	if err := jpeg.Encode(&m.buf, frame, &m.opts); err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	if err := m.w.AddFrame(m.buf.Bytes()); err != nil {
		return fmt.Errorf("adding frame: %w", err)
	}
	return nil
}

// Close finalises the AVI index.
func (m *Movie) Close() error {
	return m.w.Close()
}
