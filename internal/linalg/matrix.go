// Package linalg holds the small dense linear algebra needed to score
// populations: a Cholesky factorisation and the triangular solves built on it.
package linalg

import "math"

// Matrix is a dense row-major matrix. Rows may not share backing storage.
type Matrix [][]float64

// NewMatrix allocates a zeroed rows×cols matrix.
func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// Identity returns the k×k identity matrix.
func Identity(k int) Matrix {
	m := NewMatrix(k, k)
	for i := 0; i < k; i++ {
		m[i][i] = 1
	}
	return m
}

// Diagonal returns a square matrix with vals on the diagonal.
func Diagonal(vals ...float64) Matrix {
	m := NewMatrix(len(vals), len(vals))
	for i, v := range vals {
		m[i][i] = v
	}
	return m
}

// Rows reports the number of rows.
func (m Matrix) Rows() int { return len(m) }

// Cols reports the number of columns of the first row.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Square reports whether every row has exactly Rows() entries.
func (m Matrix) Square() bool {
	for _, row := range m {
		if len(row) != len(m) {
			return false
		}
	}
	return true
}

// Symmetric reports whether m is square and m[i][j] and m[j][i] differ by at
// most tol.
func (m Matrix) Symmetric(tol float64) bool {
	if !m.Square() {
		return false
	}
	for i := range m {
		for j := 0; j < i; j++ {
			if math.Abs(m[i][j]-m[j][i]) > tol {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// T returns the transpose.
func (m Matrix) T() Matrix {
	out := NewMatrix(m.Cols(), m.Rows())
	for i, row := range m {
		for j, v := range row {
			out[j][i] = v
		}
	}
	return out
}

// Mul returns m·b. The caller guarantees m.Cols() == b.Rows().
func (m Matrix) Mul(b Matrix) Matrix {
	out := NewMatrix(m.Rows(), b.Cols())
	for i := range m {
		for k, a := range m[i] {
			if a == 0 {
				continue
			}
			for j, v := range b[k] {
				out[i][j] += a * v
			}
		}
	}
	return out
}

// Flat returns the entries in row-major order.
func (m Matrix) Flat() []float64 {
	out := make([]float64, 0, m.Rows()*m.Cols())
	for _, row := range m {
		out = append(out, row...)
	}
	return out
}
