// Package main provides the entry point for the rating pipeline runner.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/config"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/database"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/logger"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/pipeline"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/report"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/repository"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/solver"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	seasonFlag int
	outputDir  string
	dryRun     bool

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().IntVar(&seasonFlag, "season", 0, "Season to rate (overrides config)")
	rootCmd.Flags().StringVar(&outputDir, "output", "", "Artifact output directory (overrides config)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the pipeline without persisting artifacts")
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
}

var rootCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Solve team ratings and calibrate the blended model",
	Long:  `Runs the full rating pipeline: builds the weighted linear system from stored games, selects the regularization strength by cross-validation, solves the ridge system, optimizes the blend against the external rating source, and evaluates the result against the baseline suite.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if seasonFlag > 0 {
		cfg.Pipeline.Season = seasonFlag
	}
	if outputDir != "" {
		cfg.Pipeline.OutputPath = outputDir
	}
	return nil
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"season":      cfg.Pipeline.Season,
	}).Info("Gridiron Edge rating runner starting")

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	return nil
}

func runPipeline(ctx context.Context) error {
	p, err := pipeline.New(
		&gameSource{repo: repos.Game},
		&priorSource{repo: repos.TeamPrior},
		&externalRatingSource{repo: repos.ExternalRating},
		appLog,
	)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, pipelineConfig(cfg.Pipeline))
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	if !dryRun {
		if err := persistArtifacts(ctx, result); err != nil {
			return err
		}
		runDir := filepath.Join(cfg.Pipeline.OutputPath, result.RunID.String())
		if err := report.ExportArtifacts(result, runDir); err != nil {
			return fmt.Errorf("failed to export artifacts: %w", err)
		}
		appLog.WithField("output_dir", runDir).Info("Artifacts exported")
	}

	fmt.Println(report.GenerateConsoleReport(result))

	if !result.Report.Deployable {
		return fmt.Errorf("run %s is not deployable", result.RunID)
	}
	return nil
}

func persistArtifacts(ctx context.Context, result *pipeline.Result) error {
	if err := repos.Rating.SaveTable(ctx, &result.RatingTable); err != nil {
		return fmt.Errorf("failed to save rating table: %w", err)
	}
	if err := repos.BlendConfig.Save(ctx, &result.BlendConfig); err != nil {
		return fmt.Errorf("failed to save blend config: %w", err)
	}
	if err := repos.MetricsReport.Save(ctx, &result.Report); err != nil {
		return fmt.Errorf("failed to save metrics report: %w", err)
	}
	return nil
}

func pipelineConfig(pc config.PipelineConfig) pipeline.Config {
	return pipeline.Config{
		Season:                pc.Season,
		Weeks:                 pc.Weeks,
		ValidationWeeks:       pc.ValidationWeeks,
		LambdaGrid:            pc.LambdaGrid,
		BlendWeightStep:       pc.BlendWeightStep,
		OutlierCap:            pc.OutlierCap,
		MinGames:              pc.MinGames,
		BlendFloorWeight:      pc.BlendFloorWeight,
		SecondaryGuardPearson: pc.SecondaryGuardPearson,
		PriorWeights: solver.PriorWeights{
			Talent:       pc.PriorTalentWeight,
			ReturningOff: pc.PriorReturningOff,
			ReturningDef: pc.PriorReturningDef,
		},
	}
}

// Repository adapters: repositories hand back pointer slices, the pipeline
// consumes value slices.

type gameSource struct {
	repo repository.GameRepository
}

func (s *gameSource) GetBySeasonWeeks(ctx context.Context, season int, weeks []int) ([]models.Game, error) {
	rows, err := s.repo.GetBySeasonWeeks(ctx, season, weeks)
	if err != nil {
		return nil, err
	}
	out := make([]models.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}

type priorSource struct {
	repo repository.TeamPriorRepository
}

func (s *priorSource) GetBySeason(ctx context.Context, season int) ([]models.TeamPrior, error) {
	rows, err := s.repo.GetBySeason(ctx, season)
	if err != nil {
		return nil, err
	}
	out := make([]models.TeamPrior, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}

type externalRatingSource struct {
	repo repository.ExternalRatingRepository
}

func (s *externalRatingSource) GetBySeason(ctx context.Context, season int) ([]models.ExternalRating, error) {
	rows, err := s.repo.GetBySeason(ctx, season)
	if err != nil {
		return nil, err
	}
	out := make([]models.ExternalRating, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}
