package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	lineHeight = 13
	glyphWidth = 7
	barWidth   = 10
	barHeight  = 40
	pad        = 4
)

// Label draws text with its baseline at (x, y).
func Label(img draw.Image, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// ColorBar draws a vertical gradient from lo at the bottom to hi at the top.
func ColorBar(img draw.Image, x, y int, lo, hi color.RGBA) {
	for row := 0; row < barHeight; row++ {
		c := lerp(lo, hi, float64(barHeight-1-row)/float64(barHeight-1))
		for col := 0; col < barWidth; col++ {
			img.Set(x+col, y+row, c)
		}
	}
}

// Annotate scales a panel by scale and adds a legend strip underneath with
// the caption lines on the left and a labelled colour bar on the right.
func Annotate(p Panel, scale int, caption string) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	src := Scale(p.Image, scale)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	var lines []string
	for _, line := range strings.Split(p.Title+"\n"+caption, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	legend := max(len(lines)*lineHeight, barHeight) + 2*pad
	labelWidth := max(len(p.Min), len(p.Max)) * glyphWidth
	width := max(w, barWidth+labelWidth+3*pad)

	out := image.NewRGBA(image.Rect(0, 0, width, h+legend))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, src.Bounds(), src, image.Point{}, draw.Src)

	for i, line := range lines {
		Label(out, pad, h+pad+(i+1)*lineHeight-2, line, color.Black)
	}
	barX := width - barWidth - labelWidth - 2*pad
	ColorBar(out, barX, h+pad, p.Lo, p.Hi)
	Label(out, barX+barWidth+pad, h+pad+lineHeight-2, p.Max, color.Black)
	Label(out, barX+barWidth+pad, h+pad+barHeight, p.Min, color.Black)
	return out
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling.
func Scale(img *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	for y := 0; y < out.Bounds().Dy(); y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			si := img.PixOffset(b.Min.X+x/factor, b.Min.Y+y/factor)
			di := out.PixOffset(x, y)
			copy(out.Pix[di:di+4], img.Pix[si:si+4])
		}
	}
	return out
}

// Compose places images side by side, top aligned, on a white background.
func Compose(imgs ...image.Image) *image.RGBA {
	width, height := 0, 0
	for _, img := range imgs {
		b := img.Bounds()
		width += b.Dx()
		height = max(height, b.Dy())
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	x := 0
	for _, img := range imgs {
		b := img.Bounds()
		draw.Draw(out, image.Rect(x, 0, x+b.Dx(), b.Dy()), img, b.Min, draw.Src)
		x += b.Dx()
	}
	return out
}

// Render draws the condition, occupancy and change panels of f side by side,
// each scaled by scale and annotated with the frame caption.
func Render(f Frame, scale int) *image.RGBA {
	caption := fmt.Sprintf("%s\nt=%d", f.Caption, f.Step)
	return Compose(
		Annotate(Conditions(f), scale, caption),
		Annotate(Occupancy(f), scale, caption),
		Annotate(Changes(f), scale, caption),
	)
}
