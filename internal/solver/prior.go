package solver

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// stdFloor keeps standardization defined when a prior feature is constant
// across the team universe.
const stdFloor = 1e-9

// PriorWeights controls the relative contribution of each standardized prior
// feature. Zero value means equal weighting.
type PriorWeights struct {
	Talent       float64
	ReturningOff float64
	ReturningDef float64
}

func (w PriorWeights) orEqual() PriorWeights {
	if w.Talent == 0 && w.ReturningOff == 0 && w.ReturningDef == 0 {
		return PriorWeights{Talent: 1, ReturningOff: 1, ReturningDef: 1}
	}
	return w
}

// BuildPriorVector standardizes each raw prior feature to zero mean and unit
// variance over the team universe, then averages the standardized features
// into a single per-team prior scalar aligned with the system's team columns.
// Teams absent from the prior source get prior 0 and are logged, never
// excluded.
func BuildPriorVector(sys *System, priors []models.TeamPrior, weights PriorWeights, logger *logrus.Logger) []float64 {
	weights = weights.orEqual()
	byTeam := make(map[string]models.TeamPrior, len(priors))
	for _, p := range priors {
		byTeam[p.TeamID] = p
	}

	talent := standardizeFeature(sys.Teams, byTeam, func(p models.TeamPrior) *float64 { return p.TalentScore })
	retOff := standardizeFeature(sys.Teams, byTeam, func(p models.TeamPrior) *float64 { return p.ReturningProdOff })
	retDef := standardizeFeature(sys.Teams, byTeam, func(p models.TeamPrior) *float64 { return p.ReturningProdDef })

	totalWeight := weights.Talent + weights.ReturningOff + weights.ReturningDef
	vector := make([]float64, sys.NumTeams())
	for i := range sys.Teams {
		vector[i] = (weights.Talent*talent[i] + weights.ReturningOff*retOff[i] + weights.ReturningDef*retDef[i]) / totalWeight
	}

	if logger != nil {
		missing := 0
		for _, team := range sys.Teams {
			if _, ok := byTeam[team]; !ok {
				missing++
				logger.WithField("team_id", team).Warn("No prior data for team, defaulting to league average")
			}
		}
		if missing > 0 {
			logger.WithField("missing", missing).Warn("Teams without prior data")
		}
	}
	return vector
}

// standardizeFeature z-scores one raw feature over the teams that have it;
// teams without the feature land at 0, i.e. exactly average.
func standardizeFeature(teams []string, byTeam map[string]models.TeamPrior, get func(models.TeamPrior) *float64) []float64 {
	present := make([]float64, 0, len(teams))
	for _, team := range teams {
		if p, ok := byTeam[team]; ok {
			if v := get(p); v != nil {
				present = append(present, *v)
			}
		}
	}

	meanV := 0.0
	for _, v := range present {
		meanV += v
	}
	if len(present) > 0 {
		meanV /= float64(len(present))
	}
	variance := 0.0
	for _, v := range present {
		d := v - meanV
		variance += d * d
	}
	if len(present) > 0 {
		variance /= float64(len(present))
	}
	std := math.Sqrt(variance)
	if std < stdFloor {
		std = stdFloor
	}

	out := make([]float64, len(teams))
	for i, team := range teams {
		p, ok := byTeam[team]
		if !ok {
			continue
		}
		v := get(p)
		if v == nil {
			continue
		}
		out[i] = (*v - meanV) / std
	}
	return out
}
