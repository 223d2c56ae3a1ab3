package competition

import "image/color"

var fixedColors = []color.RGBA{
	{R: 100, G: 175, B: 50, A: 255},
	{R: 225, G: 216, B: 75, A: 255},
	{R: 150, G: 175, B: 100, A: 255},
}

// Palette returns one colour per cell value: index 0 is an empty cell and
// index i+1 is roster population i. The first three populations have fixed
// colours; later ones are shades of blue spread over the roster size.
func Palette(populations int) []color.RGBA {
	palette := make([]color.RGBA, populations+1)
	palette[0] = color.RGBA{A: 255}
	for i := 0; i < populations; i++ {
		if i < len(fixedColors) {
			palette[i+1] = fixedColors[i]
			continue
		}
		palette[i+1] = color.RGBA{B: uint8((i + 1) * 255 / populations), A: 255}
	}
	return palette
}

// Palette exposes the colours used for rendering the lattice.
func (s *Sim) Palette() []color.RGBA {
	return Palette(len(s.cfg.Populations))
}
