// Package eval scores prediction vectors and runs the fixed baseline suite
// used as a regression-safety check on every pipeline run.
package eval

import (
	"math"
	"sort"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// Evaluate scores a prediction vector against a target vector. weights may be
// nil for unit weights. Sign agreement only counts rows with a non-zero target.
func Evaluate(pred, target, weights []float64) models.MetricsRecord {
	n := len(pred)
	rec := models.MetricsRecord{Rows: n}
	if n == 0 {
		return rec
	}

	sumW := 0.0
	sumSq := 0.0
	sumAbs := 0.0
	signed := 0
	agreed := 0
	for i := 0; i < n; i++ {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		diff := pred[i] - target[i]
		sumW += w
		sumSq += w * diff * diff
		sumAbs += w * math.Abs(diff)
		if target[i] != 0 {
			signed++
			if sign(pred[i]) == sign(target[i]) {
				agreed++
			}
		}
	}
	if sumW > 0 {
		rec.RMSE = math.Sqrt(sumSq / sumW)
		rec.MAE = sumAbs / sumW
	}
	if signed > 0 {
		rec.SignAgreement = float64(agreed) / float64(signed)
	}
	rec.Pearson = Pearson(pred, target)
	rec.Spearman = Spearman(pred, target)
	return rec
}

// Pearson computes the Pearson correlation coefficient. Returns 0 when either
// vector has zero variance.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0
	}
	meanX := mean(x)
	meanY := mean(y)
	cov := 0.0
	varX := 0.0
	varY := 0.0
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// Spearman computes the Spearman rank correlation: Pearson on rank-transformed
// vectors, with tied values assigned their average rank.
func Spearman(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	return Pearson(ranks(x), ranks(y))
}

// ranks returns average ranks (1-based) with ties sharing their mean rank.
func ranks(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	result := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		// Average of 1-based positions i..j.
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			result[order[k]] = avg
		}
		i = j + 1
	}
	return result
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
