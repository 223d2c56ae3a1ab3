package linalg

import "math"

// Cholesky returns the lower triangular factor L with L·Lᵀ = a.
//
// a must be symmetric positive definite; only its lower triangle is read. For
// other inputs the square root of a negative pivot yields NaN, which then
// propagates through the remaining entries. No error is reported, so callers
// validate tolerance matrices before factorising them.
func Cholesky(a Matrix) Matrix {
	n := len(a)
	l := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			var sum float64
			for k := 0; k < j; k++ {
				sum += l[i][k] * l[j][k]
			}
			if i == j {
				l[i][j] = math.Sqrt(a[i][i] - sum)
				continue
			}
			l[i][j] = (a[i][j] - sum) / l[j][j]
		}
	}
	return l
}

// Determinant returns the product of the diagonal of the Cholesky factor l.
// That is sqrt(det(A)) for A = L·Lᵀ; use DeterminantOf for det(A) itself.
func Determinant(l Matrix) float64 {
	det := 1.0
	for i := range l {
		det *= l[i][i]
	}
	return det
}

// DeterminantOf returns det(a) for a symmetric positive definite a.
func DeterminantOf(a Matrix) float64 {
	d := Determinant(Cholesky(a))
	return d * d
}

// Solve solves A·x = b given the Cholesky factor l of A, by forward
// substitution on L·y = b followed by backward substitution on Lᵀ·x = y.
// There is no pivoting: a zero pivot produces Inf or NaN in the result.
func Solve(l Matrix, b []float64) []float64 {
	n := len(b)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < i; j++ {
			sum += l[i][j] * y[j]
		}
		y[i] = (b[i] - sum) / l[i][i]
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := 0.0
		for j := i + 1; j < n; j++ {
			sum += l[j][i] * x[j]
		}
		x[i] = (y[i] - sum) / l[i][i]
	}
	return x
}
