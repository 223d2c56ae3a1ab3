package niche

import (
	"math"

	"niche-ca/internal/linalg"
)

// Scorer evaluates the Gaussian fitness of one population. The tolerance is
// factorised once at construction.
type Scorer struct {
	niche     Condition
	chol      linalg.Matrix
	normConst float64
}

// NewScorer prepares a scorer for p. p is expected to have passed Validate;
// otherwise scores come out as NaN.
func NewScorer(p Population) *Scorer {
	l := linalg.Cholesky(p.Tolerance)
	k := float64(len(p.Niche))
	// Determinant(L) is sqrt(det(tolerance)).
	norm := 1 / (math.Pow(2*math.Pi, k/2) * linalg.Determinant(l))
	return &Scorer{niche: p.Niche.Clone(), chol: l, normConst: norm}
}

// Score returns the multivariate normal density of c under the niche mean
// and tolerance covariance. Higher is better adapted.
func (s *Scorer) Score(c Condition) float64 {
	diff := c.Sub(s.niche)
	y := Condition(linalg.Solve(s.chol, diff))
	exponent := -0.5 * diff.Dot(y)
	return s.normConst * math.Exp(exponent)
}

// Score is a convenience for NewScorer(p).Score(c).
func Score(c Condition, p Population) float64 {
	return NewScorer(p).Score(c)
}

// ScoreGrid scores p against every cell condition.
func ScoreGrid(conds []Condition, p Population) []float64 {
	s := NewScorer(p)
	out := make([]float64, len(conds))
	for i, c := range conds {
		out[i] = s.Score(c)
	}
	return out
}
