package niche

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"niche-ca/internal/linalg"
)

// ErrInvalidPopulation wraps every population validation failure.
var ErrInvalidPopulation = errors.New("invalid population")

// symmetryTolerance bounds |T[i][j]-T[j][i]| for a tolerance matrix.
const symmetryTolerance = 1e-9

// Population is a named competitor with a niche optimum, a tolerance
// covariance around it and the Manhattan radius it diffuses per step.
type Population struct {
	Name           string
	Niche          Condition
	Tolerance      linalg.Matrix
	DiffusionSpeed int
}

// Key is the identity of a population. Two populations with the same name
// are the same competitor regardless of niche or tolerance.
func (p Population) Key() string { return p.Name }

// Dim returns the dimension of the niche.
func (p Population) Dim() int { return len(p.Niche) }

// Validate checks the preconditions the scorer relies on: a square,
// symmetric, positive definite tolerance matching the niche dimension.
func (p Population) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPopulation)
	}
	if p.DiffusionSpeed < 0 {
		return fmt.Errorf("%w %q: negative diffusion speed %d", ErrInvalidPopulation, p.Name, p.DiffusionSpeed)
	}
	k := len(p.Niche)
	if k == 0 {
		return fmt.Errorf("%w %q: empty niche", ErrInvalidPopulation, p.Name)
	}
	if !p.Niche.Finite() {
		return fmt.Errorf("%w %q: niche has non-finite components", ErrInvalidPopulation, p.Name)
	}
	if len(p.Tolerance) != k || !p.Tolerance.Square() {
		return fmt.Errorf("%w %q: tolerance must be %dx%d", ErrInvalidPopulation, p.Name, k, k)
	}
	for _, row := range p.Tolerance {
		if !Condition(row).Finite() {
			return fmt.Errorf("%w %q: tolerance has non-finite entries", ErrInvalidPopulation, p.Name)
		}
	}
	if !p.Tolerance.Symmetric(symmetryTolerance) {
		return fmt.Errorf("%w %q: tolerance is not symmetric", ErrInvalidPopulation, p.Name)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(mat.NewSymDense(k, p.Tolerance.Flat())); !ok {
		return fmt.Errorf("%w %q: tolerance is not positive definite", ErrInvalidPopulation, p.Name)
	}
	if det := chol.Det(); det <= 0 || math.IsInf(det, 0) {
		return fmt.Errorf("%w %q: tolerance determinant %g out of range", ErrInvalidPopulation, p.Name, det)
	}
	return nil
}

// ValidateRoster validates every population, checks that names are unique
// and that all niches share one dimension, which it returns.
func ValidateRoster(pops []Population) (int, error) {
	if len(pops) == 0 {
		return 0, fmt.Errorf("%w: no populations", ErrInvalidPopulation)
	}
	seen := make(map[string]struct{}, len(pops))
	dim := pops[0].Dim()
	for _, p := range pops {
		if err := p.Validate(); err != nil {
			return 0, err
		}
		if _, dup := seen[p.Key()]; dup {
			return 0, fmt.Errorf("%w: duplicate name %q", ErrInvalidPopulation, p.Name)
		}
		seen[p.Key()] = struct{}{}
		if p.Dim() != dim {
			return 0, fmt.Errorf("%w %q: niche dimension %d, roster uses %d", ErrInvalidPopulation, p.Name, p.Dim(), dim)
		}
	}
	return dim, nil
}
