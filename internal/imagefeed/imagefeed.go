// Package imagefeed turns raster images into per-cell condition samples.
package imagefeed

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrDimension reports an image whose size does not match the lattice.
var ErrDimension = errors.New("image size does not match grid")

// Channel maps the red component of a pixel onto a condition value.
type Channel struct {
	Invert bool
	Scale  float64
}

// Inverted maps red r to (255-r)/255·scale, so dark pixels give high values.
func Inverted(scale float64) Channel { return Channel{Invert: true, Scale: scale} }

// Direct maps red r to r/255·scale.
func Direct(scale float64) Channel { return Channel{Scale: scale} }

// DefaultChannel is the mapping used for condition dimension dim when none
// is configured: inverted at scale 15 for the first image, direct at scale
// 10 for the second.
func DefaultChannel(dim int) Channel {
	if dim == 0 {
		return Inverted(15)
	}
	return Direct(10)
}

// Value converts one 8-bit red sample.
func (c Channel) Value(r uint8) float64 {
	v := float64(r)
	if c.Invert {
		v = 255 - v
	}
	return v / 255 * c.Scale
}

// Decode reads any registered image format (PNG, JPEG, GIF, BMP, TIFF).
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// Samples extracts one value per pixel in row-major order. The image must be
// exactly cols pixels wide and rows pixels tall.
func Samples(img image.Image, rows, cols int, ch Channel) ([]float64, error) {
	b := img.Bounds()
	if b.Dy() != rows || b.Dx() != cols {
		return nil, fmt.Errorf("%w: image is %dx%d, grid is %dx%d", ErrDimension, b.Dy(), b.Dx(), rows, cols)
	}
	out := make([]float64, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out[y*cols+x] = ch.Value(uint8(r >> 8))
		}
	}
	return out, nil
}

// Load decodes the image at path and extracts its samples.
func Load(path string, rows, cols int, ch Channel) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	samples, err := Samples(img, rows, cols, ch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return samples, nil
}
