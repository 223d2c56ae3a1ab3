// Package niche models populations and the Gaussian fitness they draw from
// the environmental conditions of a lattice cell.
package niche

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Condition is a vector of environmental parameters. Methods never mutate
// the receiver; arithmetic requires operands of equal dimension.
type Condition []float64

// NewCondition copies vals into a Condition.
func NewCondition(vals ...float64) Condition {
	return append(Condition(nil), vals...)
}

// Uniform returns a condition of dimension dim with every component set to v.
func Uniform(dim int, v float64) Condition {
	c := make(Condition, dim)
	for i := range c {
		c[i] = v
	}
	return c
}

// Dim returns the number of components.
func (c Condition) Dim() int { return len(c) }

// Clone returns an independent copy.
func (c Condition) Clone() Condition { return append(Condition(nil), c...) }

// Add returns c + o.
func (c Condition) Add(o Condition) Condition {
	return Condition(floats.AddTo(make([]float64, len(c)), c, o))
}

// Sub returns c - o.
func (c Condition) Sub(o Condition) Condition {
	return Condition(floats.SubTo(make([]float64, len(c)), c, o))
}

// Scale returns s·c.
func (c Condition) Scale(s float64) Condition {
	return Condition(floats.ScaleTo(make([]float64, len(c)), s, c))
}

// Dot returns the inner product of c and o.
func (c Condition) Dot(o Condition) float64 { return floats.Dot(c, o) }

// Norm returns the Euclidean norm.
func (c Condition) Norm() float64 {
	if len(c) == 0 {
		return 0
	}
	return floats.Norm(c, 2)
}

// Equal reports exact component-wise equality.
func (c Condition) Equal(o Condition) bool {
	return len(c) == len(o) && floats.Equal(c, o)
}

// Finite reports whether no component is NaN or infinite.
func (c Condition) Finite() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
