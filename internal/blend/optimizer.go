// Package blend grid-searches the mixing weight between the ridge rating
// vector and an independently produced rating source, subject to safety
// guardrails that keep a degenerate blend from ever being emitted.
package blend

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/eval"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// stdFloor keeps standardization defined for a degenerate rating source.
const stdFloor = 1e-9

// Config controls the weight grid and the guardrails.
type Config struct {
	Step                  float64 // grid step over [0,1]
	FloorWeight           float64 // minimum weight forced by the guardrail
	SecondaryGuardPearson float64 // secondary-set Pearson below which the guardrail fires
}

// DefaultConfig returns the production guardrail settings.
func DefaultConfig() Config {
	return Config{Step: 0.05, FloorWeight: 0.10, SecondaryGuardPearson: 0.25}
}

// Input carries the two rating sources and the evaluation games. Games are
// split into the primary and secondary evaluation sets by their set label.
type Input struct {
	SourceA map[string]float64 // ridge ratings
	SourceB map[string]float64 // external ratings
	Games   []models.Game
}

// Candidate records the evaluation of one blend weight.
type Candidate struct {
	Weight    float64
	Primary   models.MetricsRecord
	Secondary models.MetricsRecord
	Objective float64
	Rejected  bool
}

// Result is the optimizer outcome: the chosen weight, its per-set metrics,
// the normalization constants needed to reproduce the blend, flags raised by
// the guardrails, and the full candidate table for reporting.
type Result struct {
	OptimalWeight float64
	Normalization models.BlendNormalization
	Primary       models.MetricsRecord
	Secondary     models.MetricsRecord
	FloorForced   bool
	Suspect       bool
	SanityFailed  bool
	Candidates    []Candidate
	Blended       map[string]float64

	// Calibration maps the unitless blended rating difference back to spread
	// points: predicted spread = Intercept + Slope*diff. Fitted by the same
	// weighted regression that backs the sanity check.
	Slope     float64
	Intercept float64
}

// PredictDiff returns the blended home-minus-away rating difference for a
// matchup. Teams missing from both sources predict 0.
func (r *Result) PredictDiff(home, away string) float64 {
	return r.Blended[home] - r.Blended[away]
}

// Optimize runs the grid search. Any weight whose secondary-set Pearson
// correlation is negative is discarded outright; if every candidate is
// discarded the optimizer fails with NoValidBlendError instead of returning a
// degenerate blend.
func Optimize(in Input, cfg Config, logger *logrus.Logger) (*Result, error) {
	if cfg.Step <= 0 {
		cfg.Step = DefaultConfig().Step
	}
	norm := normalization(in.SourceA, in.SourceB)
	lookupA := normalizedLookup(in.SourceA, norm.MeanA, norm.StdA)
	lookupB := normalizedLookup(in.SourceB, norm.MeanB, norm.StdB)

	primary, secondary := splitGames(in.Games)

	candidates := make([]Candidate, 0, int(1/cfg.Step)+1)
	best := -1
	for step := 0; ; step++ {
		w := float64(step) * cfg.Step
		if w > 1+1e-12 {
			break
		}
		if w > 1 {
			w = 1
		}
		c := evaluateWeight(w, lookupA, lookupB, primary, secondary)
		c.Rejected = c.Secondary.Pearson < 0
		candidates = append(candidates, c)
		// Ties break toward the lower weight: strict improvement required.
		if !c.Rejected && (best < 0 || c.Objective > candidates[best].Objective) {
			best = len(candidates) - 1
		}
	}

	if best < 0 {
		return nil, &models.NoValidBlendError{Candidates: len(candidates)}
	}

	res := &Result{
		OptimalWeight: candidates[best].Weight,
		Normalization: norm,
		Primary:       candidates[best].Primary,
		Secondary:     candidates[best].Secondary,
		Candidates:    candidates,
	}

	applyFloorGuardrail(res, candidates, cfg, logger)
	res.Blended = blendTeams(res.OptimalWeight, in.SourceA, in.SourceB, lookupA, lookupB)
	applySanityCheck(res, lookupA, lookupB, in.Games, logger)

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"weight":            res.OptimalWeight,
			"primary_pearson":   res.Primary.Pearson,
			"secondary_pearson": res.Secondary.Pearson,
			"floor_forced":      res.FloorForced,
			"suspect":           res.Suspect,
			"sanity_failed":     res.SanityFailed,
		}).Info("Blend optimization complete")
	}
	return res, nil
}

// applyFloorGuardrail handles the degenerate optimum where the ridge source
// is entirely discarded while the secondary set gives only weak support: the
// weight is floored if the floor itself passes the safety filter, otherwise
// the result is kept at zero and flagged suspect.
func applyFloorGuardrail(res *Result, candidates []Candidate, cfg Config, logger *logrus.Logger) {
	if res.OptimalWeight != 0 || res.Secondary.Pearson >= cfg.SecondaryGuardPearson {
		return
	}
	for _, c := range candidates {
		if math.Abs(c.Weight-cfg.FloorWeight) > 1e-9 {
			continue
		}
		if c.Rejected {
			break
		}
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"floor":             cfg.FloorWeight,
				"secondary_pearson": res.Secondary.Pearson,
			}).Warn("Forcing minimum blend weight floor")
		}
		res.OptimalWeight = c.Weight
		res.Primary = c.Primary
		res.Secondary = c.Secondary
		res.FloorForced = true
		return
	}
	res.Suspect = true
	if logger != nil {
		logger.Warn("Blend optimum discards the ridge source entirely, flagging result as suspect")
	}
}

// applySanityCheck fits a weighted univariate regression of target spread on
// the final blended rating difference over all evaluation rows; a non-positive
// slope flags the result without aborting.
func applySanityCheck(res *Result, lookupA, lookupB func(string) float64, games []models.Game, logger *logrus.Logger) {
	w := res.OptimalWeight
	var sumW, meanX, meanY float64
	type point struct{ x, y, w float64 }
	points := make([]point, 0, len(games))
	for _, g := range games {
		x := blendDiff(w, lookupA, lookupB, g)
		points = append(points, point{x: x, y: g.TargetSpread, w: g.RowWeight})
		sumW += g.RowWeight
		meanX += g.RowWeight * x
		meanY += g.RowWeight * g.TargetSpread
	}
	if sumW == 0 {
		return
	}
	meanX /= sumW
	meanY /= sumW

	var cov, varX float64
	for _, p := range points {
		cov += p.w * (p.x - meanX) * (p.y - meanY)
		varX += p.w * (p.x - meanX) * (p.x - meanX)
	}
	if varX < stdFloor {
		res.SanityFailed = true
	} else {
		res.Slope = cov / varX
		res.Intercept = meanY - res.Slope*meanX
		if res.Slope <= 0 {
			res.SanityFailed = true
		}
	}
	if res.SanityFailed && logger != nil {
		logger.Warn("Blend sanity check failed: non-positive slope of target on rating difference")
	}
}

// PredictSpread returns the calibrated spread prediction for a matchup.
func (r *Result) PredictSpread(home, away string) float64 {
	return r.Intercept + r.Slope*r.PredictDiff(home, away)
}

func evaluateWeight(w float64, lookupA, lookupB func(string) float64, primary, secondary []models.Game) Candidate {
	p := scoreSet(w, lookupA, lookupB, primary)
	s := scoreSet(w, lookupA, lookupB, secondary)
	return Candidate{
		Weight:    w,
		Primary:   p,
		Secondary: s,
		Objective: 0.5*(p.Pearson+p.Spearman) + 0.5*(s.Pearson+s.Spearman),
	}
}

func scoreSet(w float64, lookupA, lookupB func(string) float64, games []models.Game) models.MetricsRecord {
	pred := make([]float64, len(games))
	target := make([]float64, len(games))
	weights := make([]float64, len(games))
	for i, g := range games {
		pred[i] = blendDiff(w, lookupA, lookupB, g)
		target[i] = g.TargetSpread
		weights[i] = g.RowWeight
	}
	return eval.Evaluate(pred, target, weights)
}

// blendTeams materializes the final blended rating over the union of both
// team universes.
func blendTeams(w float64, sourceA, sourceB map[string]float64, lookupA, lookupB func(string) float64) map[string]float64 {
	teams := make(map[string]bool, len(sourceA))
	for t := range sourceA {
		teams[t] = true
	}
	for t := range sourceB {
		teams[t] = true
	}
	out := make(map[string]float64, len(teams))
	for t := range teams {
		out[t] = w*lookupA(t) + (1-w)*lookupB(t)
	}
	return out
}

func blendDiff(w float64, lookupA, lookupB func(string) float64, g models.Game) float64 {
	home := w*lookupA(g.HomeTeamID) + (1-w)*lookupB(g.HomeTeamID)
	away := w*lookupA(g.AwayTeamID) + (1-w)*lookupB(g.AwayTeamID)
	return home - away
}

func normalization(a, b map[string]float64) models.BlendNormalization {
	meanA, stdA := meanStd(a)
	meanB, stdB := meanStd(b)
	return models.BlendNormalization{MeanA: meanA, StdA: stdA, MeanB: meanB, StdB: stdB}
}

// normalizedLookup z-scores a source; teams absent from it land at the mean.
func normalizedLookup(source map[string]float64, mean, std float64) func(string) float64 {
	return func(team string) float64 {
		v, ok := source[team]
		if !ok {
			return 0
		}
		return (v - mean) / std
	}
}

func meanStd(source map[string]float64) (float64, float64) {
	if len(source) == 0 {
		return 0, stdFloor
	}
	keys := make([]string, 0, len(source))
	for k := range source {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mean := 0.0
	for _, k := range keys {
		mean += source[k]
	}
	mean /= float64(len(keys))
	variance := 0.0
	for _, k := range keys {
		d := source[k] - mean
		variance += d * d
	}
	variance /= float64(len(keys))
	std := math.Sqrt(variance)
	if std < stdFloor {
		std = stdFloor
	}
	return mean, std
}

func splitGames(games []models.Game) ([]models.Game, []models.Game) {
	var primary, secondary []models.Game
	for _, g := range games {
		if g.SetLabel == models.SetLabelSecondary {
			secondary = append(secondary, g)
		} else {
			primary = append(primary, g)
		}
	}
	return primary, secondary
}
