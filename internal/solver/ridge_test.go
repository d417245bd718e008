package solver

import (
	"math"
	"testing"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// roundRobinGames builds the 6-game round robin of 4 teams with true
// strengths {A:+6, B:+2, C:-2, D:-6}, a true HFA of 2, and zero noise.
func roundRobinGames() []models.Game {
	strength := map[string]float64{"A": 6, "B": 2, "C": -2, "D": -6}
	pairs := [][2]string{
		{"A", "B"}, {"A", "C"}, {"A", "D"},
		{"B", "C"}, {"B", "D"}, {"C", "D"},
	}
	games := make([]models.Game, 0, len(pairs))
	for i, p := range pairs {
		games = append(games, models.Game{
			Season:       2025,
			Week:         i + 1,
			HomeTeamID:   p[0],
			AwayTeamID:   p[1],
			TargetSpread: strength[p[0]] - strength[p[1]] + 2,
			SetLabel:     models.SetLabelPrimary,
			RowWeight:    1,
		})
	}
	return games
}

func buildRoundRobin(t *testing.T) *System {
	t.Helper()
	sys, err := BuildSystem(roundRobinGames(), BuilderConfig{OutlierCap: 35, MinGames: 1})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return sys
}

func TestRidgeRecoversRoundRobin(t *testing.T) {
	sys := buildRoundRobin(t)
	sol, err := SolveRidge(sys, make([]float64, sys.NumTeams()), 0.01)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	if math.Abs(sol.HFA-2.0) > 0.5 {
		t.Fatalf("HFA = %v, want within 0.5 of 2.0", sol.HFA)
	}

	truth := map[string]float64{"A": 6, "B": 2, "C": -2, "D": -6}
	byTeam := sol.RatingsByTeam(sys)
	for _, t1 := range sys.Teams {
		for _, t2 := range sys.Teams {
			if t1 == t2 {
				continue
			}
			got := byTeam[t1] - byTeam[t2]
			want := truth[t1] - truth[t2]
			if math.Abs(got-want) > 0.5 {
				t.Fatalf("rating diff %s-%s = %v, want within 0.5 of %v", t1, t2, got, want)
			}
		}
	}
}

func TestRidgeCenteringInvariant(t *testing.T) {
	sys := buildRoundRobin(t)
	for _, lambda := range []float64{1e-6, 0.01, 1, 100} {
		sol, err := SolveRidge(sys, nil, lambda)
		if err != nil {
			t.Fatalf("solve failed at lambda=%v: %v", lambda, err)
		}
		sum := 0.0
		for _, r := range sol.Ratings {
			sum += r
		}
		if math.Abs(sum/float64(len(sol.Ratings))) > 1e-9 {
			t.Fatalf("mean rating %v exceeds 1e-9 at lambda=%v", sum/float64(len(sol.Ratings)), lambda)
		}
	}
}

func TestRidgeDeterminism(t *testing.T) {
	sys := buildRoundRobin(t)
	prior := []float64{0.5, -0.25, 0.1, -0.35}
	first, err := SolveRidge(sys, prior, 0.3)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := SolveRidge(sys, prior, 0.3)
		if err != nil {
			t.Fatalf("solve failed: %v", err)
		}
		if again.HFA != first.HFA {
			t.Fatal("HFA not bit-identical across solves")
		}
		for j := range first.Ratings {
			if again.Ratings[j] != first.Ratings[j] {
				t.Fatalf("rating %d not bit-identical across solves", j)
			}
		}
	}
}

func TestRidgeConvergesToPriorAtLargeLambda(t *testing.T) {
	sys := buildRoundRobin(t)
	prior := []float64{3, 1, -1, -3}
	sol, err := SolveRidge(sys, prior, 1e6)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	// The prior is already centered, so ratings must land on it.
	for i, want := range prior {
		if math.Abs(sol.Ratings[i]-want) > 1e-2 {
			t.Fatalf("rating %d = %v, want near prior %v", i, sol.Ratings[i], want)
		}
	}
}

func TestRidgeMatchesOLSAtSmallLambda(t *testing.T) {
	// The round robin is fully connected, so at tiny lambda the ridge
	// solution must coincide with unregularized least squares, which here
	// recovers the exact noiseless generating values.
	sys := buildRoundRobin(t)
	sol, err := SolveRidge(sys, make([]float64, sys.NumTeams()), 1e-6)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	truth := []float64{6, 2, -2, -6} // teams sort as A, B, C, D
	for i, want := range truth {
		if math.Abs(sol.Ratings[i]-want) > 1e-3 {
			t.Fatalf("rating %d = %v, want %v", i, sol.Ratings[i], want)
		}
	}
	if math.Abs(sol.HFA-2) > 1e-3 {
		t.Fatalf("HFA = %v, want 2", sol.HFA)
	}
}

func TestOutlierCapMatchesManualRemoval(t *testing.T) {
	games := roundRobinGames()
	extra := models.Game{
		Season:       2025,
		Week:         7,
		HomeTeamID:   "A",
		AwayTeamID:   "D",
		TargetSpread: 90,
		SetLabel:     models.SetLabelPrimary,
		RowWeight:    1,
	}
	withOutlier := append(append([]models.Game{}, games...), extra)

	capped, err := BuildSystem(withOutlier, BuilderConfig{OutlierCap: 35, MinGames: 1})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	manual, err := BuildSystem(games, BuilderConfig{OutlierCap: 35, MinGames: 1})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	capSol, err := SolveRidge(capped, nil, 0.01)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	manSol, err := SolveRidge(manual, nil, 0.01)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	if capSol.HFA != manSol.HFA {
		t.Fatalf("HFA differs: %v vs %v", capSol.HFA, manSol.HFA)
	}
	for i := range capSol.Ratings {
		if capSol.Ratings[i] != manSol.Ratings[i] {
			t.Fatalf("rating %d differs: %v vs %v", i, capSol.Ratings[i], manSol.Ratings[i])
		}
	}
}

func TestRidgeWeightsMatter(t *testing.T) {
	games := roundRobinGames()
	// A contradictory heavy row should drag the solution; duplicate the
	// first game with an opposite target and dominant weight.
	contradiction := games[0]
	contradiction.TargetSpread = -contradiction.TargetSpread
	contradiction.RowWeight = 100
	games = append(games, contradiction)

	sys, err := BuildSystem(games, BuilderConfig{OutlierCap: 35, MinGames: 1})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	weighted, err := SolveRidge(sys, nil, 0.01)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	base := buildRoundRobin(t)
	unweighted, err := SolveRidge(base, nil, 0.01)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if math.Abs(weighted.Ratings[0]-unweighted.Ratings[0]) < 0.5 {
		t.Fatal("heavy contradictory row had no visible effect on the solution")
	}
}
