// Package pipeline wires the rating-estimation stages into a strict,
// fail-fast sequence: load inputs, build equations and priors, select the
// regularization strength, solve, optimize the blend, and evaluate against
// the baseline suite. All data access is injected so the numeric core runs
// on in-memory fixtures in tests.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/blend"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/eval"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/logger"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/metrics"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/solver"
)

// Evaluation split names in the metrics report.
const (
	SplitPrimary   = "primary"
	SplitSecondary = "secondary"
	SplitAll       = "all"
)

// Pipeline stage names used in logs and failure metrics.
const (
	stageLoad      = "load_inputs"
	stageEquations = "build_equations"
	stageLambda    = "select_lambda"
	stageSolve     = "ridge_solve"
	stageBlend     = "optimize_blend"
	stageEvaluate  = "evaluate"
)

// GameSource supplies game observations for a season restricted to the
// requested weeks.
type GameSource interface {
	GetBySeasonWeeks(ctx context.Context, season int, weeks []int) ([]models.Game, error)
}

// PriorSource supplies the external per-team prior signals for a season.
type PriorSource interface {
	GetBySeason(ctx context.Context, season int) ([]models.TeamPrior, error)
}

// ExternalRatingSource supplies the independently produced rating vector.
type ExternalRatingSource interface {
	GetBySeason(ctx context.Context, season int) ([]models.ExternalRating, error)
}

// Config carries the invocation parameters for one pipeline run.
type Config struct {
	Season                int
	Weeks                 []int
	ValidationWeeks       []int
	LambdaGrid            []float64
	BlendWeightStep       float64
	OutlierCap            float64
	MinGames              int
	BlendFloorWeight      float64
	SecondaryGuardPearson float64
	PriorWeights          solver.PriorWeights
}

// DefaultConfig returns the production invocation parameters for a season.
func DefaultConfig(season int) Config {
	weeks := make([]int, 0, 15)
	for w := 1; w <= 15; w++ {
		weeks = append(weeks, w)
	}
	return Config{
		Season:                season,
		Weeks:                 weeks,
		ValidationWeeks:       []int{9, 10, 11, 12, 13, 14, 15},
		LambdaGrid:            []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 50},
		BlendWeightStep:       0.05,
		OutlierCap:            35,
		MinGames:              50,
		BlendFloorWeight:      0.10,
		SecondaryGuardPearson: 0.25,
	}
}

// Result bundles the artifacts of one successful run.
type Result struct {
	RunID         uuid.UUID
	RatingTable   models.RatingTable
	BlendConfig   models.BlendConfig
	Report        models.MetricsReport
	LambdaResults []solver.LambdaResult
}

// Pipeline runs the rating-estimation and calibration sequence.
type Pipeline struct {
	games     GameSource
	priors    PriorSource
	external  ExternalRatingSource
	logger    *logrus.Logger
	solverLog *logger.SolverLogger
}

// New creates a pipeline with injected data sources.
func New(games GameSource, priors PriorSource, external ExternalRatingSource, log *logrus.Logger) (*Pipeline, error) {
	if games == nil || priors == nil || external == nil {
		return nil, fmt.Errorf("all data sources are required")
	}
	if log == nil {
		log = logrus.New()
	}
	return &Pipeline{
		games:     games,
		priors:    priors,
		external:  external,
		logger:    log,
		solverLog: logger.NewSolverLogger(log),
	}, nil
}

// Run executes the full sequence. Data-integrity failures (insufficient
// rows, unsolvable system, no valid blend) abort the run; soft-quality
// issues are carried forward as flags on the artifacts.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (*Result, error) {
	runID := uuid.New()
	metrics.PipelineRunsTotal.Inc()
	log := p.logger.WithFields(logrus.Fields{"run_id": runID, "season": cfg.Season})
	log.Info("Starting rating pipeline")

	games, priors, external, err := p.loadInputs(ctx, cfg)
	if err != nil {
		metrics.RecordPipelineFailure(stageLoad)
		return nil, fmt.Errorf("load inputs: %w", err)
	}

	sys, priorVec, err := p.buildEquations(games, priors, cfg)
	if err != nil {
		metrics.RecordPipelineFailure(stageEquations)
		return nil, err
	}

	lambda, lambdaResults, err := p.selectLambda(sys, priorVec, cfg)
	if err != nil {
		metrics.RecordPipelineFailure(stageLambda)
		return nil, fmt.Errorf("select lambda: %w", err)
	}

	sol, err := p.solve(sys, priorVec, lambda)
	if err != nil {
		metrics.RecordPipelineFailure(stageSolve)
		return nil, fmt.Errorf("ridge solve: %w", err)
	}

	blendRes, err := p.optimizeBlend(sys, sol, external, games, cfg)
	if err != nil {
		metrics.RecordPipelineFailure(stageBlend)
		return nil, fmt.Errorf("optimize blend: %w", err)
	}

	report, err := p.evaluate(runID, blendRes, games, cfg, log)
	if err != nil {
		metrics.RecordPipelineFailure(stageEvaluate)
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	res := &Result{
		RunID: runID,
		RatingTable: models.RatingTable{
			RunID:   runID,
			Season:  cfg.Season,
			Ratings: sol.RatingsByTeam(sys),
			HFA:     sol.HFA,
			Lambda:  lambda,
		},
		BlendConfig: models.BlendConfig{
			RunID:         runID,
			Season:        cfg.Season,
			OptimalWeight: blendRes.OptimalWeight,
			Normalization: blendRes.Normalization,
			PerSetMetrics: map[string]models.MetricsRecord{
				SplitPrimary:   blendRes.Primary,
				SplitSecondary: blendRes.Secondary,
			},
			FloorForced:  blendRes.FloorForced,
			Suspect:      blendRes.Suspect,
			SanityFailed: blendRes.SanityFailed,
			CreatedAt:    time.Now().UTC(),
		},
		Report:        *report,
		LambdaResults: lambdaResults,
	}

	log.WithFields(logrus.Fields{
		"teams":      len(res.RatingTable.Ratings),
		"hfa":        res.RatingTable.HFA,
		"lambda":     lambda,
		"weight":     blendRes.OptimalWeight,
		"deployable": report.Deployable,
	}).Info("Rating pipeline complete")
	return res, nil
}

func (p *Pipeline) loadInputs(ctx context.Context, cfg Config) ([]models.Game, []models.TeamPrior, []models.ExternalRating, error) {
	defer track(stageLoad)()
	games, err := p.games.GetBySeasonWeeks(ctx, cfg.Season, cfg.Weeks)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("games: %w", err)
	}
	priors, err := p.priors.GetBySeason(ctx, cfg.Season)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("priors: %w", err)
	}
	external, err := p.external.GetBySeason(ctx, cfg.Season)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("external ratings: %w", err)
	}
	return games, priors, external, nil
}

func (p *Pipeline) buildEquations(games []models.Game, priors []models.TeamPrior, cfg Config) (*solver.System, []float64, error) {
	defer track(stageEquations)()
	sys, err := solver.BuildSystem(games, solver.BuilderConfig{
		OutlierCap: cfg.OutlierCap,
		MinGames:   cfg.MinGames,
	})
	if err != nil {
		return nil, nil, err
	}
	metrics.GamesFilteredTotal.Add(float64(sys.Filtered))
	p.solverLog.LogSystemBuilt(cfg.Season, len(sys.Equations), sys.NumTeams(), sys.Filtered)

	priorVec := solver.BuildPriorVector(sys, priors, cfg.PriorWeights, p.logger)
	return sys, priorVec, nil
}

func (p *Pipeline) selectLambda(sys *solver.System, priorVec []float64, cfg Config) (float64, []solver.LambdaResult, error) {
	defer track(stageLambda)()
	lambda, results, err := solver.SelectLambda(sys, priorVec, cfg.LambdaGrid, cfg.ValidationWeeks, p.logger)
	if err != nil {
		return 0, nil, err
	}
	for _, r := range results {
		metrics.FoldsSkippedTotal.Add(float64(r.SkippedFolds))
		if r.Lambda == lambda {
			p.solverLog.LogLambdaSelected(r.Lambda, r.MeanPearson, r.Folds, r.SkippedFolds)
		}
	}
	return lambda, results, nil
}

func (p *Pipeline) solve(sys *solver.System, priorVec []float64, lambda float64) (*solver.Solution, error) {
	defer track(stageSolve)()
	start := time.Now()
	sol, err := solver.SolveRidge(sys, priorVec, lambda)
	if err != nil {
		return nil, err
	}
	metrics.RecordSolveResult(lambda, sol.HFA, sys.NumTeams())
	p.solverLog.LogSolveCompleted(lambda, sol.HFA, sys.NumTeams(), float64(time.Since(start).Microseconds())/1000)
	return sol, nil
}

func (p *Pipeline) optimizeBlend(sys *solver.System, sol *solver.Solution, external []models.ExternalRating, games []models.Game, cfg Config) (*blend.Result, error) {
	defer track(stageBlend)()
	sourceB := make(map[string]float64, len(external))
	for _, r := range external {
		sourceB[r.TeamID] = r.Rating
	}
	res, err := blend.Optimize(blend.Input{
		SourceA: sol.RatingsByTeam(sys),
		SourceB: sourceB,
		Games:   evaluationGames(games, cfg.OutlierCap),
	}, blend.Config{
		Step:                  cfg.BlendWeightStep,
		FloorWeight:           cfg.BlendFloorWeight,
		SecondaryGuardPearson: cfg.SecondaryGuardPearson,
	}, p.logger)
	if err != nil {
		return nil, err
	}
	metrics.ChosenBlendWeight.Set(res.OptimalWeight)
	p.solverLog.LogBlendSelected(res.OptimalWeight, res.Primary.Pearson, res.Secondary.Pearson,
		res.FloorForced, res.Suspect, res.SanityFailed)
	return res, nil
}

// evaluate scores the final blend on every split and runs the baseline
// suite. A blend that fails to beat the HFA-only baseline marks the run
// not-deployable; callers must treat that as a validation failure.
func (p *Pipeline) evaluate(runID uuid.UUID, blendRes *blend.Result, games []models.Game, cfg Config, log *logrus.Entry) (*models.MetricsReport, error) {
	defer track(stageEvaluate)()
	rows := evaluationGames(games, cfg.OutlierCap)

	in := eval.BaselineInput{
		RatingDiff: make([]float64, len(rows)),
		HFAFeature: make([]float64, len(rows)),
		Target:     make([]float64, len(rows)),
		Weights:    make([]float64, len(rows)),
	}
	calibrated := make([]float64, len(rows))
	for i, g := range rows {
		in.RatingDiff[i] = blendRes.PredictDiff(g.HomeTeamID, g.AwayTeamID)
		calibrated[i] = blendRes.PredictSpread(g.HomeTeamID, g.AwayTeamID)
		if !g.NeutralSite {
			in.HFAFeature[i] = 1
		}
		in.Target[i] = g.TargetSpread
		in.Weights[i] = g.RowWeight
	}

	// The primary model is scored on calibrated spread-unit predictions so
	// its RMSE is comparable to the baseline suite.
	overall := eval.Evaluate(calibrated, in.Target, in.Weights)
	baselines, err := eval.RunBaselines(in)
	if err != nil {
		return nil, err
	}

	deployable := eval.Deployable(overall, baselines)
	if !deployable {
		metrics.ValidationFailuresTotal.Inc()
		log.Warn("Blended model failed to beat the HFA-only baseline, run is not deployable")
	}
	metrics.ModelRMSE.WithLabelValues(SplitPrimary).Set(blendRes.Primary.RMSE)
	metrics.ModelRMSE.WithLabelValues(SplitSecondary).Set(blendRes.Secondary.RMSE)
	metrics.ModelRMSE.WithLabelValues(SplitAll).Set(overall.RMSE)

	return &models.MetricsReport{
		RunID:  runID,
		Season: cfg.Season,
		PerSplit: map[string]models.MetricsRecord{
			SplitPrimary:   blendRes.Primary,
			SplitSecondary: blendRes.Secondary,
			SplitAll:       overall,
		},
		Baselines:  baselines,
		Deployable: deployable,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// evaluationGames applies the same outlier cap used for equation building so
// evaluation never scores against implausible blowout lines.
func evaluationGames(games []models.Game, outlierCap float64) []models.Game {
	out := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.TargetSpread > outlierCap || g.TargetSpread < -outlierCap {
			continue
		}
		out = append(out, g)
	}
	return out
}

func track(stage string) func() {
	start := time.Now()
	return func() {
		metrics.RecordStageDuration(stage, time.Since(start).Seconds())
	}
}
