package eval

import (
	"fmt"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/linalg"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// varianceEps is the threshold below which a feature is considered constant
// and dropped to keep the OLS design matrix non-singular.
const varianceEps = 1e-9

// Baseline model names as reported in the comparison table.
const (
	BaselineZero    = "zero"
	BaselineHFAOnly = "hfa_only"
	BaselineFullOLS = "full_ols"
)

// BaselineInput carries the per-row evaluation features for the baseline
// suite. RatingDiff is the blended home-minus-away rating difference and
// HFAFeature is 1 for true home games, 0 for neutral sites.
type BaselineInput struct {
	RatingDiff []float64
	HFAFeature []float64
	Target     []float64
	Weights    []float64
}

// RunBaselines computes the fixed baseline suite: the zero model, a weighted
// OLS on the HFA feature alone, and a weighted OLS on rating difference plus
// HFA. Zero-variance features are dropped rather than fed into a singular
// design matrix.
func RunBaselines(in BaselineInput) ([]models.BaselineComparison, error) {
	n := len(in.Target)
	results := make([]models.BaselineComparison, 0, 3)

	zeros := make([]float64, n)
	results = append(results, models.BaselineComparison{
		Model:   BaselineZero,
		Metrics: Evaluate(zeros, in.Target, in.Weights),
	})

	hfaOnly, err := fitHFAOnly(in)
	if err != nil {
		return nil, err
	}
	results = append(results, hfaOnly)

	fullOLS, err := fitFullOLS(in)
	if err != nil {
		return nil, err
	}
	results = append(results, fullOLS)

	return results, nil
}

func fitHFAOnly(in BaselineInput) (models.BaselineComparison, error) {
	if weightedVariance(in.HFAFeature, in.Weights) < varianceEps {
		return models.BaselineComparison{
			Model:   BaselineHFAOnly,
			Skipped: true,
			Reason:  "hfa feature has no variance",
		}, nil
	}

	rows := make([][]float64, len(in.Target))
	for i := range rows {
		rows[i] = []float64{1, in.HFAFeature[i]}
	}
	pred, err := fitAndPredict(rows, in.Target, in.Weights)
	if err != nil {
		return models.BaselineComparison{}, fmt.Errorf("hfa-only baseline: %w", err)
	}
	return models.BaselineComparison{
		Model:   BaselineHFAOnly,
		Metrics: Evaluate(pred, in.Target, in.Weights),
	}, nil
}

func fitFullOLS(in BaselineInput) (models.BaselineComparison, error) {
	features := make([][]float64, 0, 2)
	if weightedVariance(in.RatingDiff, in.Weights) >= varianceEps {
		features = append(features, in.RatingDiff)
	}
	if weightedVariance(in.HFAFeature, in.Weights) >= varianceEps {
		features = append(features, in.HFAFeature)
	}
	if len(features) == 0 {
		return models.BaselineComparison{
			Model:   BaselineFullOLS,
			Skipped: true,
			Reason:  "all features have no variance",
		}, nil
	}

	rows := make([][]float64, len(in.Target))
	for i := range rows {
		row := make([]float64, len(features))
		for j, f := range features {
			row[j] = f[i]
		}
		rows[i] = row
	}
	pred, err := fitAndPredict(rows, in.Target, in.Weights)
	if err != nil {
		return models.BaselineComparison{}, fmt.Errorf("full-ols baseline: %w", err)
	}
	return models.BaselineComparison{
		Model:   BaselineFullOLS,
		Metrics: Evaluate(pred, in.Target, in.Weights),
	}, nil
}

// fitAndPredict solves the weighted normal equations and returns in-sample
// predictions.
func fitAndPredict(rows [][]float64, target, weights []float64) ([]float64, error) {
	ata, atb := linalg.WeightedNormal(rows, target, weights)
	coef, err := linalg.SolveDense(ata, atb)
	if err != nil {
		return nil, err
	}
	pred := make([]float64, len(rows))
	for i, row := range rows {
		sum := 0.0
		for j, c := range coef {
			sum += c * row[j]
		}
		pred[i] = sum
	}
	return pred, nil
}

// Deployable reports whether the primary model beats the HFA-only baseline on
// both held-out RMSE and Pearson correlation. A model that does not is a
// pipeline-health failure and must not be persisted as usable.
func Deployable(primary models.MetricsRecord, baselines []models.BaselineComparison) bool {
	for _, b := range baselines {
		if b.Model != BaselineHFAOnly || b.Skipped {
			continue
		}
		if primary.RMSE >= b.Metrics.RMSE || primary.Pearson <= b.Metrics.Pearson {
			return false
		}
	}
	return true
}

func weightedVariance(values, weights []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumW := 0.0
	meanV := 0.0
	for i, v := range values {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		sumW += w
		meanV += w * v
	}
	if sumW == 0 {
		return 0
	}
	meanV /= sumW
	variance := 0.0
	for i, v := range values {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		d := v - meanV
		variance += w * d * d
	}
	return variance / sumW
}
