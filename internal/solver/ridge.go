package solver

import (
	"fmt"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/linalg"
)

// Solution holds the solved ridge estimate: centered team ratings aligned
// with the system's team columns plus the jointly solved home-field-advantage
// constant. The HFA column is never regularized.
type Solution struct {
	Ratings []float64
	HFA     float64
	Lambda  float64
}

// SolveRidge solves (AtWA + lambda*D)x = AtWb + lambda*D*prior where D is 1
// on team columns and 0 on the HFA column. prior may be nil for a zero prior.
// Team ratings are re-centered to mean 0 after solving, which changes no
// pairwise difference and leaves the HFA estimate untouched.
func SolveRidge(sys *System, prior []float64, lambda float64) (*Solution, error) {
	n := sys.NumTeams()
	if prior != nil && len(prior) != n {
		return nil, fmt.Errorf("prior length %d does not match %d teams", len(prior), n)
	}

	// Accumulate the weighted normal equations directly from the sparse rows.
	// Column n is the HFA constant.
	size := n + 1
	ata := make([][]float64, size)
	for i := range ata {
		ata[i] = make([]float64, size)
	}
	atb := make([]float64, size)

	for _, eq := range sys.Equations {
		w := eq.Weight
		h, a := eq.Home, eq.Away
		ata[h][h] += w
		ata[a][a] += w
		ata[h][a] -= w
		ata[a][h] -= w
		atb[h] += w * eq.Target
		atb[a] -= w * eq.Target
		if eq.HFA != 0 {
			f := eq.HFA
			ata[n][n] += w * f * f
			ata[h][n] += w * f
			ata[n][h] += w * f
			ata[a][n] -= w * f
			ata[n][a] -= w * f
			atb[n] += w * f * eq.Target
		}
	}

	for i := 0; i < n; i++ {
		ata[i][i] += lambda
		if prior != nil {
			atb[i] += lambda * prior[i]
		}
	}

	x, err := linalg.SolveDense(ata, atb)
	if err != nil {
		return nil, err
	}

	ratings := x[:n]
	meanR := 0.0
	for _, r := range ratings {
		meanR += r
	}
	meanR /= float64(n)
	centered := make([]float64, n)
	for i, r := range ratings {
		centered[i] = r - meanR
	}

	return &Solution{Ratings: centered, HFA: x[n], Lambda: lambda}, nil
}

// RatingsByTeam maps the solution back onto team IDs.
func (s *Solution) RatingsByTeam(sys *System) map[string]float64 {
	out := make(map[string]float64, len(sys.Teams))
	for i, team := range sys.Teams {
		out[team] = s.Ratings[i]
	}
	return out
}

// Predict returns the modeled spread for one equation: rating difference plus
// the HFA constant when the game has a home-field edge.
func (s *Solution) Predict(eq Equation) float64 {
	return s.Ratings[eq.Home] - s.Ratings[eq.Away] + s.HFA*eq.HFA
}
