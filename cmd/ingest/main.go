// Package main provides the entry point for the feed ingestion service.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/config"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/database"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/datasource"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/health"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/logger"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/metrics"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/repository"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/scheduler"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/service"
)

var (
	configFile string
	runOnce    bool

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	svc    *service.IngestionService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&runOnce, "once", false, "Run one full sync and exit instead of scheduling")
}

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest game results, market lines, and team signals",
	Long:  `Fetches completed games with closing lines plus preseason talent signals and the external rating source, normalizes and validates every record, and stores the survivors for the rating pipeline.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if runOnce {
			return runSync(cmd.Context())
		}
		return runService(cmd.Context())
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
	return config.ValidateEnvironment(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"season":      cfg.Pipeline.Season,
	}).Info("Gridiron Edge ingestion service starting")

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), appLog)
	feeds, err := datasource.NewFactory(appLog).NewFeeds(cfg.Ingestion, httpClient)
	if err != nil {
		return fmt.Errorf("failed to create data sources: %w", err)
	}

	svc = service.NewIngestionService(
		feeds,
		repos.Game,
		repos.TeamPrior,
		repos.ExternalRating,
		service.NewDataValidator(appLog),
		service.NewDataNormalizer(appLog),
		logger.NewIngestLogger(appLog),
		batchSize(cfg.Ingestion),
	)
	return nil
}

// batchSize takes the first configured source batch size; the service falls
// back to its own default when none is set.
func batchSize(ingestion config.IngestionConfig) int {
	for _, src := range ingestion.Sources {
		if src.Enabled && src.BatchSize > 0 {
			return src.BatchSize
		}
	}
	return 0
}

// runSync performs one full synchronization pass and exits.
func runSync(ctx context.Context) error {
	stats, err := svc.IngestTeamSignals(ctx, cfg.Pipeline.Season)
	if err != nil {
		return fmt.Errorf("team signal sync failed: %w", err)
	}
	appLog.WithField("stats", stats.String()).Info("Team signal sync completed")

	stats, err = svc.IngestGames(ctx, cfg.Pipeline.Season, cfg.Pipeline.Weeks, cfg.Pipeline.ValidationWeeks)
	if err != nil {
		return fmt.Errorf("game sync failed: %w", err)
	}
	appLog.WithField("stats", stats.String()).Info("Game sync completed")
	return nil
}

// runService schedules recurring syncs and serves probes and metrics until
// signalled.
func runService(ctx context.Context) error {
	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	opsServer := newOpsServer()
	if err := opsServer.Start(serverCtx); err != nil {
		return fmt.Errorf("failed to start operational server: %w", err)
	}

	sched := scheduler.NewScheduler(svc, appLog)

	if err := sched.ScheduleGameSync(
		cfg.Ingestion.Schedule.HistoricalSync,
		cfg.Pipeline.Season,
		cfg.Pipeline.Weeks,
		cfg.Pipeline.ValidationWeeks,
	); err != nil {
		return fmt.Errorf("failed to schedule game sync: %w", err)
	}

	if err := sched.ScheduleTeamSignalPolling(
		cfg.Ingestion.Schedule.PollIntervalSeconds,
		cfg.Pipeline.Season,
	); err != nil {
		return fmt.Errorf("failed to schedule team signal polling: %w", err)
	}

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	appLog.WithField("next_run", sched.GetNextRun()).Info("Scheduler started")
	opsServer.SetReady(true)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case <-ctx.Done():
		appLog.Info("Context cancelled")
	}

	opsServer.SetReady(false)
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}
	if err := opsServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error stopping operational server")
	}

	appLog.Info("Ingestion service shut down")
	return nil
}

// newOpsServer builds the probe server, with the Prometheus endpoint mounted
// when metrics are enabled.
func newOpsServer() *health.Server {
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Port:        cfg.Metrics.Port,
		Logger:      appLog,
		DB:          db,
	}
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		healthCfg.MetricsPath = cfg.Metrics.Path
		healthCfg.MetricsHandler = metrics.Handler()
	}
	return health.NewServer(healthCfg)
}
