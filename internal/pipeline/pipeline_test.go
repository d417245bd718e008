package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/eval"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

type fixtureSource struct {
	games    []models.Game
	priors   []models.TeamPrior
	external []models.ExternalRating
	gamesErr error
}

func (f *fixtureSource) GetBySeasonWeeks(_ context.Context, _ int, _ []int) ([]models.Game, error) {
	return f.games, f.gamesErr
}

func (f *fixtureSource) GetBySeason(_ context.Context, _ int) ([]models.TeamPrior, error) {
	return f.priors, nil
}

type fixtureExternal struct {
	ratings []models.ExternalRating
}

func (f *fixtureExternal) GetBySeason(_ context.Context, _ int) ([]models.ExternalRating, error) {
	return f.ratings, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// buildSeason generates a synthetic season over a known strength table: each
// week pairs every team once, targets are strength difference plus HFA plus
// noise.
func buildSeason(seed int64, teams, weeks int, noise float64) (*fixtureSource, *fixtureExternal, map[string]float64) {
	rng := rand.New(rand.NewSource(seed))
	strength := make(map[string]float64, teams)
	ids := make([]string, teams)
	for i := 0; i < teams; i++ {
		ids[i] = fmt.Sprintf("team-%02d", i)
		strength[ids[i]] = float64(i) - float64(teams-1)/2
	}

	src := &fixtureSource{}
	for w := 1; w <= weeks; w++ {
		perm := rng.Perm(teams)
		for i := 0; i+1 < teams; i += 2 {
			home := ids[perm[i]]
			away := ids[perm[i+1]]
			label := models.SetLabelSecondary
			if w > weeks/2 {
				label = models.SetLabelPrimary
			}
			neutral := len(src.games)%9 == 0
			hfa := 2.0
			if neutral {
				hfa = 0
			}
			src.games = append(src.games, models.Game{
				Season:       2025,
				Week:         w,
				HomeTeamID:   home,
				AwayTeamID:   away,
				NeutralSite:  neutral,
				TargetSpread: strength[home] - strength[away] + hfa + rng.NormFloat64()*noise,
				SetLabel:     label,
				RowWeight:    1,
			})
		}
	}
	for _, id := range ids {
		talent := strength[id]*50 + 750 + rng.NormFloat64()*20
		src.priors = append(src.priors, models.TeamPrior{TeamID: id, Season: 2025, TalentScore: &talent})
	}

	ext := &fixtureExternal{}
	for _, id := range ids {
		ext.ratings = append(ext.ratings, models.ExternalRating{
			TeamID: id,
			Season: 2025,
			Rating: strength[id] + rng.NormFloat64()*0.5,
		})
	}
	return src, ext, strength
}

func testConfig() Config {
	cfg := DefaultConfig(2025)
	cfg.Weeks = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	cfg.ValidationWeeks = []int{9, 10, 11, 12}
	cfg.MinGames = 30
	return cfg
}

func TestPipelineEndToEnd(t *testing.T) {
	src, ext, strength := buildSeason(21, 16, 12, 2)
	p, err := New(src, src, ext, quietLogger())
	require.NoError(t, err)

	res, err := p.Run(context.Background(), testConfig())
	require.NoError(t, err)

	require.Len(t, res.RatingTable.Ratings, 16)
	assert.InDelta(t, 2.0, res.RatingTable.HFA, 1.0)

	// Ratings must track true strengths closely.
	var pred, truth []float64
	for team, rating := range res.RatingTable.Ratings {
		pred = append(pred, rating)
		truth = append(truth, strength[team])
	}
	assert.Greater(t, eval.Pearson(pred, truth), 0.95)

	// Centering invariant on the emitted artifact.
	sum := 0.0
	for _, r := range res.RatingTable.Ratings {
		sum += r
	}
	assert.InDelta(t, 0, sum/16, 1e-9)

	assert.GreaterOrEqual(t, res.BlendConfig.OptimalWeight, 0.0)
	assert.LessOrEqual(t, res.BlendConfig.OptimalWeight, 1.0)
	assert.False(t, res.BlendConfig.SanityFailed)

	require.Contains(t, res.Report.PerSplit, SplitPrimary)
	require.Contains(t, res.Report.PerSplit, SplitSecondary)
	require.Contains(t, res.Report.PerSplit, SplitAll)
	require.Len(t, res.Report.Baselines, 3)
	assert.True(t, res.Report.Deployable, "well-specified synthetic season must beat the trivial baselines")
}

func TestPipelineInsufficientData(t *testing.T) {
	src, ext, _ := buildSeason(4, 8, 2, 1)
	p, err := New(src, src, ext, quietLogger())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.MinGames = 500
	_, err = p.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientData))
}

func TestPipelineSourceErrorPropagates(t *testing.T) {
	src, ext, _ := buildSeason(4, 16, 12, 2)
	src.gamesErr = errors.New("connection refused")
	p, err := New(src, src, ext, quietLogger())
	require.NoError(t, err)

	_, err = p.Run(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPipelineDeterministicRatings(t *testing.T) {
	src, ext, _ := buildSeason(33, 12, 12, 3)
	p, err := New(src, src, ext, quietLogger())
	require.NoError(t, err)

	first, err := p.Run(context.Background(), testConfig())
	require.NoError(t, err)
	second, err := p.Run(context.Background(), testConfig())
	require.NoError(t, err)

	require.Equal(t, len(first.RatingTable.Ratings), len(second.RatingTable.Ratings))
	for team, r := range first.RatingTable.Ratings {
		if second.RatingTable.Ratings[team] != r {
			t.Fatalf("rating for %s differs across identical runs", team)
		}
	}
	if first.RatingTable.HFA != second.RatingTable.HFA {
		t.Fatal("HFA differs across identical runs")
	}
	assert.Equal(t, first.BlendConfig.OptimalWeight, second.BlendConfig.OptimalWeight)
}

func TestPipelineOutlierRowsExcludedEverywhere(t *testing.T) {
	src, ext, _ := buildSeason(8, 12, 12, 2)
	// A 90-point line must not leak into equations or evaluation.
	blowout := src.games[0]
	blowout.TargetSpread = 90
	withOutlier := &fixtureSource{
		games:  append(append([]models.Game{}, src.games...), blowout),
		priors: src.priors,
	}

	p1, err := New(src, src, ext, quietLogger())
	require.NoError(t, err)
	p2, err := New(withOutlier, withOutlier, ext, quietLogger())
	require.NoError(t, err)

	clean, err := p1.Run(context.Background(), testConfig())
	require.NoError(t, err)
	capped, err := p2.Run(context.Background(), testConfig())
	require.NoError(t, err)

	for team, r := range clean.RatingTable.Ratings {
		if math.Abs(capped.RatingTable.Ratings[team]-r) > 1e-12 {
			t.Fatalf("outlier row changed rating for %s", team)
		}
	}
}
