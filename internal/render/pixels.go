package render

import (
	"image"
	"image/color"
)

// fillBinaryRGBA converts binary cell data (0/1) into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, cells []uint8, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range cells {
		base := i * 4
		if c != 0 {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// PaletteImage paints one pixel per cell from a palette index grid.
func PaletteImage(cells []uint8, cols, rows int, palette []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	fillPaletteRGBA(img.Pix, cells, palette)
	return img
}

// FieldImage paints a boolean site field, open sites in on and blocked sites
// in off.
func FieldImage(field []bool, cols, rows int, on, off color.Color) *image.RGBA {
	cells := make([]uint8, len(field))
	for i, open := range field {
		if open {
			cells[i] = 1
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	fillBinaryRGBA(img.Pix, cells, on, off)
	return img
}
