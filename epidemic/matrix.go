// Package epidemic implements the SEAIR compartmental step engine for an
// age-stratified, multi-region epidemic with commuter-driven spread.
//
// The state space is a set of (regions × age-groups) matrices, one per
// compartment. The engine advances all compartments through a fixed number
// of sub-periods per decision period, applying vaccination, commuting
// transmission during working hours, local contact transmission and the
// standard flow-conservation arithmetic. Draws are deterministic by default
// and Poisson-distributed in stochastic mode.
package epidemic

import "math"

// Matrix is a dense (regions × age-groups) matrix of float64 values.
// All compartments and most intermediate quantities use this shape.
type Matrix [][]float64

// NewMatrix returns a zero-valued matrix with the given dimensions.
func NewMatrix(regions, ageGroups int) Matrix {
	m := make(Matrix, regions)
	for i := range m {
		m[i] = make([]float64, ageGroups)
	}
	return m
}

// Clone returns a deep copy of the matrix.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Rows returns the number of regions.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of age groups.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Sum returns the sum of all entries.
func (m Matrix) Sum() float64 {
	total := 0.0
	for _, row := range m {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// ColSums returns the per-age-group column sums.
func (m Matrix) ColSums() []float64 {
	out := make([]float64, m.Cols())
	for _, row := range m {
		for j, v := range row {
			out[j] += v
		}
	}
	return out
}

// Scale returns m multiplied entrywise by s.
func (m Matrix) Scale(s float64) Matrix {
	out := NewMatrix(m.Rows(), m.Cols())
	for i, row := range m {
		for j, v := range row {
			out[i][j] = v * s
		}
	}
	return out
}

// addScaled accumulates s*src into dst in place.
func addScaled(dst, src Matrix, s float64) {
	for i, row := range src {
		for j, v := range row {
			dst[i][j] += v * s
		}
	}
}

// clip bounds v to the interval [lo, hi].
func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// safeDiv returns a/b, treating a zero or non-finite quotient as zero.
// Zero allocation over zero demand must yield zero doses, never NaN.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	q := a / b
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

// SameShape reports whether two matrices have identical dimensions.
func SameShape(a, b Matrix) bool {
	return a.Rows() == b.Rows() && a.Cols() == b.Cols()
}
