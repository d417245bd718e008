package solver

import (
	"github.com/sirupsen/logrus"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/eval"
)

// DefaultLambda is the fallback regularization strength when cross-validation
// has too few eligible folds to be trusted.
const DefaultLambda = 0.1

// minFoldGames is the smallest held-out week for which a correlation is
// meaningful.
const minFoldGames = 2

// LambdaResult records the cross-validation outcome for one candidate.
type LambdaResult struct {
	Lambda       float64
	MeanPearson  float64
	Folds        int
	SkippedFolds int
}

// SelectLambda chooses the regularization strength by leave-one-week-out
// cross-validation restricted to the validation window. For each candidate
// lambda it refits on all weeks but one, scores Pearson correlation of
// predicted vs actual spread on the held-out week, and averages across folds.
// Folds whose predictions have zero variance are skipped and logged rather
// than crashing the selector. With fewer than two eligible folds the safe
// default is returned.
func SelectLambda(sys *System, prior []float64, grid []float64, validationWeeks []int, logger *logrus.Logger) (float64, []LambdaResult, error) {
	folds := eligibleFolds(sys, validationWeeks)
	if len(folds) < 2 {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"eligible_folds": len(folds),
				"lambda":         DefaultLambda,
			}).Warn("Too few cross-validation folds, using default lambda")
		}
		return DefaultLambda, nil, nil
	}

	results := make([]LambdaResult, 0, len(grid))
	bestLambda := DefaultLambda
	bestScore := 0.0
	haveBest := false

	for _, lambda := range grid {
		res, err := scoreLambda(sys, prior, lambda, folds, logger)
		if err != nil {
			return 0, nil, err
		}
		results = append(results, res)
		if res.Folds == 0 {
			continue
		}
		if !haveBest || res.MeanPearson > bestScore {
			haveBest = true
			bestScore = res.MeanPearson
			bestLambda = res.Lambda
		}
	}

	if !haveBest {
		if logger != nil {
			logger.WithField("lambda", DefaultLambda).Warn("Every fold was skipped for every lambda, using default")
		}
		return DefaultLambda, results, nil
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"lambda":       bestLambda,
			"mean_pearson": bestScore,
			"folds":        len(folds),
		}).Info("Selected regularization strength")
	}
	return bestLambda, results, nil
}

// scoreLambda runs all folds for one candidate. Fold results are combined
// with an arithmetic mean, so the aggregation is order-independent.
func scoreLambda(sys *System, prior []float64, lambda float64, folds []int, logger *logrus.Logger) (LambdaResult, error) {
	res := LambdaResult{Lambda: lambda}
	sum := 0.0

	for _, week := range folds {
		heldOut := week
		train := sys.Subset(func(eq Equation) bool { return eq.Week != heldOut })
		sol, err := SolveRidge(train, prior, lambda)
		if err != nil {
			return LambdaResult{}, err
		}

		var pred, actual []float64
		for _, eq := range sys.Equations {
			if eq.Week != heldOut {
				continue
			}
			pred = append(pred, sol.Predict(eq))
			actual = append(actual, eq.Target)
		}

		if !hasVariance(pred) {
			res.SkippedFolds++
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"week":   heldOut,
					"lambda": lambda,
				}).Warn("Skipping fold with zero-variance predictions")
			}
			continue
		}

		sum += eval.Pearson(pred, actual)
		res.Folds++
	}

	if res.Folds > 0 {
		res.MeanPearson = sum / float64(res.Folds)
	}
	return res, nil
}

func eligibleFolds(sys *System, validationWeeks []int) []int {
	counts := make(map[int]int)
	for _, eq := range sys.Equations {
		counts[eq.Week]++
	}
	folds := make([]int, 0, len(validationWeeks))
	for _, w := range validationWeeks {
		if counts[w] >= minFoldGames {
			folds = append(folds, w)
		}
	}
	return folds
}

func hasVariance(values []float64) bool {
	if len(values) < 2 {
		return false
	}
	first := values[0]
	for _, v := range values[1:] {
		if v != first {
			return true
		}
	}
	return false
}
