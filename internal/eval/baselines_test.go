package eval

import (
	"math/rand"
	"testing"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// Synthetic data where the target is a noisy linear function of the rating
// difference. Full OLS must beat both trivial baselines.
func TestBaselineDominance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := 200
	ratingDiff := make([]float64, n)
	hfa := make([]float64, n)
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		ratingDiff[i] = rng.NormFloat64() * 8
		hfa[i] = 1
		if i%7 == 0 {
			hfa[i] = 0
		}
		target[i] = 3*ratingDiff[i] + 2*hfa[i] + rng.NormFloat64()
	}

	in := BaselineInput{RatingDiff: ratingDiff, HFAFeature: hfa, Target: target}
	results, err := RunBaselines(in)
	if err != nil {
		t.Fatalf("baseline suite failed: %v", err)
	}
	byName := map[string]models.BaselineComparison{}
	for _, r := range results {
		byName[r.Model] = r
	}

	zero := byName[BaselineZero]
	hfaOnly := byName[BaselineHFAOnly]
	full := byName[BaselineFullOLS]
	if hfaOnly.Skipped {
		t.Fatal("hfa-only baseline unexpectedly skipped")
	}
	if full.Metrics.RMSE >= zero.Metrics.RMSE {
		t.Fatalf("full OLS rmse %v not below zero model %v", full.Metrics.RMSE, zero.Metrics.RMSE)
	}
	if full.Metrics.RMSE >= hfaOnly.Metrics.RMSE {
		t.Fatalf("full OLS rmse %v not below hfa-only %v", full.Metrics.RMSE, hfaOnly.Metrics.RMSE)
	}
}

func TestHFAOnlySkippedWithoutVariance(t *testing.T) {
	n := 60
	in := BaselineInput{
		RatingDiff: make([]float64, n),
		HFAFeature: make([]float64, n),
		Target:     make([]float64, n),
	}
	for i := 0; i < n; i++ {
		in.HFAFeature[i] = 1 // every game at home: constant feature
		in.RatingDiff[i] = float64(i%11) - 5
		in.Target[i] = in.RatingDiff[i] * 2
	}

	results, err := RunBaselines(in)
	if err != nil {
		t.Fatalf("baseline suite failed: %v", err)
	}
	for _, r := range results {
		if r.Model == BaselineHFAOnly && !r.Skipped {
			t.Fatal("expected hfa-only baseline to be skipped for constant feature")
		}
		if r.Model == BaselineFullOLS && r.Skipped {
			t.Fatal("full OLS should still run on the rating-diff feature alone")
		}
	}
}

func TestDeployableContract(t *testing.T) {
	baselines := []models.BaselineComparison{
		{Model: BaselineZero, Metrics: models.MetricsRecord{RMSE: 14}},
		{Model: BaselineHFAOnly, Metrics: models.MetricsRecord{RMSE: 13, Pearson: 0.1}},
	}

	good := models.MetricsRecord{RMSE: 10, Pearson: 0.6}
	if !Deployable(good, baselines) {
		t.Fatal("model beating hfa-only should be deployable")
	}

	bad := models.MetricsRecord{RMSE: 13.5, Pearson: 0.6}
	if Deployable(bad, baselines) {
		t.Fatal("model losing to hfa-only on rmse must not be deployable")
	}

	lowCorr := models.MetricsRecord{RMSE: 10, Pearson: 0.05}
	if Deployable(lowCorr, baselines) {
		t.Fatal("model losing to hfa-only on correlation must not be deployable")
	}
}
