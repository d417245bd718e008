// Package logger provides solver-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SolverLogger provides dedicated logging for rating-solver operations.
type SolverLogger struct {
	*logrus.Entry
}

// NewSolverLogger creates a new solver logger.
func NewSolverLogger(baseLogger *logrus.Logger) *SolverLogger {
	return &SolverLogger{
		Entry: baseLogger.WithField("component", "solver"),
	}
}

// LogSystemBuilt logs the assembled linear system.
func (sl *SolverLogger) LogSystemBuilt(season, equations, teams, filtered int) {
	sl.WithFields(logrus.Fields{
		"season":    season,
		"equations": equations,
		"teams":     teams,
		"filtered":  filtered,
	}).Info("Weighted linear system built")
}

// LogLambdaSelected logs the cross-validation outcome.
func (sl *SolverLogger) LogLambdaSelected(lambda, meanPearson float64, folds, skippedFolds int) {
	sl.WithFields(logrus.Fields{
		"lambda":        lambda,
		"mean_pearson":  meanPearson,
		"folds":         folds,
		"skipped_folds": skippedFolds,
	}).Info("Regularization strength selected")
}

// LogSolveCompleted logs a completed ridge solve.
func (sl *SolverLogger) LogSolveCompleted(lambda, hfa float64, teams int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"lambda":      lambda,
		"hfa":         hfa,
		"teams":       teams,
		"duration_ms": durationMs,
	}).Info("Ridge solve completed")
}

// LogBlendSelected logs the blend optimizer outcome with its guardrail flags.
func (sl *SolverLogger) LogBlendSelected(weight, primaryPearson, secondaryPearson float64, floorForced, suspect, sanityFailed bool) {
	sl.WithFields(logrus.Fields{
		"weight":            weight,
		"primary_pearson":   primaryPearson,
		"secondary_pearson": secondaryPearson,
		"floor_forced":      floorForced,
		"suspect":           suspect,
		"sanity_failed":     sanityFailed,
	}).Info("Blend weight selected")
}
