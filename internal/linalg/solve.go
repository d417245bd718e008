// Package linalg provides the single dense linear-solve routine shared by the
// ridge solver and the OLS baselines.
package linalg

import (
	"math"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

const pivotEps = 1e-12

// SolveDense solves a*x = b in place using Gaussian elimination with partial
// pivoting. The pivot rule is fixed (largest absolute value, lowest row index
// on ties) so identical inputs always produce bit-identical solutions.
// The inputs are copied; callers keep their matrices.
func SolveDense(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	m := make([][]float64, n)
	for i := 0; i < n; i++ {
		m[i] = make([]float64, n+1)
		copy(m[i], a[i])
		m[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		best := math.Abs(m[col][col])
		for row := col + 1; row < n; row++ {
			if v := math.Abs(m[row][col]); v > best {
				best = v
				pivot = row
			}
		}
		if best < pivotEps {
			return nil, &models.SingularSystemError{Size: n, Pivot: col}
		}
		if pivot != col {
			m[col], m[pivot] = m[pivot], m[col]
		}

		for row := col + 1; row < n; row++ {
			factor := m[row][col] / m[col][col]
			if factor == 0 {
				continue
			}
			for k := col; k <= n; k++ {
				m[row][k] -= factor * m[col][k]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := m[i][n]
		for k := i + 1; k < n; k++ {
			sum -= m[i][k] * x[k]
		}
		x[i] = sum / m[i][i]
	}
	return x, nil
}

// WeightedNormal accumulates the weighted normal equations AtWA and AtWb for
// a dense design matrix. rows and targets must have equal length; weights may
// be nil for unit weights.
func WeightedNormal(rows [][]float64, targets []float64, weights []float64) ([][]float64, []float64) {
	if len(rows) == 0 {
		return nil, nil
	}
	p := len(rows[0])
	ata := make([][]float64, p)
	for i := range ata {
		ata[i] = make([]float64, p)
	}
	atb := make([]float64, p)

	for r, row := range rows {
		w := 1.0
		if weights != nil {
			w = weights[r]
		}
		for i := 0; i < p; i++ {
			if row[i] == 0 {
				continue
			}
			wi := w * row[i]
			atb[i] += wi * targets[r]
			for j := i; j < p; j++ {
				ata[i][j] += wi * row[j]
			}
		}
	}
	// Mirror the upper triangle.
	for i := 0; i < p; i++ {
		for j := i + 1; j < p; j++ {
			ata[j][i] = ata[i][j]
		}
	}
	return ata, atb
}
