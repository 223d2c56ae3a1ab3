package core

// Size describes the dimensions of a simulation lattice: W columns by H rows.
type Size struct {
	W int
	H int
}

// Cells returns the number of lattice sites.
func (s Size) Cells() int {
	if s.W <= 0 || s.H <= 0 {
		return 0
	}
	return s.W * s.H
}

// Index returns the row-major slice index for (row, col).
func (s Size) Index(row, col int) int { return row*s.W + col }

// Coords is the inverse of Index.
func (s Size) Coords(idx int) (row, col int) { return idx / s.W, idx % s.W }

// InBounds reports whether (row, col) lies on the lattice. The lattice does
// not wrap.
func (s Size) InBounds(row, col int) bool {
	return row >= 0 && row < s.H && col >= 0 && col < s.W
}

// Center returns the central site, rounding down on even dimensions.
func (s Size) Center() (row, col int) { return s.H / 2, s.W / 2 }

// ManhattanOffsets lists every (dy, dx) with |dy|+|dx| <= radius, origin
// included, ordered by dy then dx.
func ManhattanOffsets(radius int) [][2]int {
	if radius < 0 {
		return nil
	}
	out := make([][2]int, 0, 2*radius*(radius+1)+1)
	for dy := -radius; dy <= radius; dy++ {
		span := radius - abs(dy)
		for dx := -span; dx <= span; dx++ {
			out = append(out, [2]int{dy, dx})
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
