package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/database"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// PostgresMetricsReportRepository implements MetricsReportRepository for PostgreSQL
type PostgresMetricsReportRepository struct {
	db *database.DB
}

// NewPostgresMetricsReportRepository creates a new metrics report repository
func NewPostgresMetricsReportRepository(db *database.DB) MetricsReportRepository {
	return &PostgresMetricsReportRepository{db: db}
}

// Save persists an evaluation report. Split metrics and the baseline suite are
// stored as jsonb
func (r *PostgresMetricsReportRepository) Save(ctx context.Context, report *models.MetricsReport) error {
	splitJSON, err := json.Marshal(report.PerSplit)
	if err != nil {
		return fmt.Errorf("failed to marshal split metrics: %w", err)
	}

	baselineJSON, err := json.Marshal(report.Baselines)
	if err != nil {
		return fmt.Errorf("failed to marshal baseline suite: %w", err)
	}

	query := `
		INSERT INTO metrics_reports (run_id, season, per_split, baselines, deployable)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		report.RunID, report.Season, splitJSON, baselineJSON, report.Deployable,
	)
	if err != nil {
		return fmt.Errorf("failed to save metrics report: %w", err)
	}

	return nil
}

// GetByRunID retrieves the evaluation report of one run
func (r *PostgresMetricsReportRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*models.MetricsReport, error) {
	query := `
		SELECT run_id, season, per_split, baselines, deployable, created_at
		FROM metrics_reports
		WHERE run_id = $1
	`

	report := &models.MetricsReport{}
	var splitJSON, baselineJSON []byte

	err := r.db.GetPool().QueryRow(ctx, query, runID).Scan(
		&report.RunID, &report.Season, &splitJSON, &baselineJSON,
		&report.Deployable, &report.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics report: %w", err)
	}

	if err := json.Unmarshal(splitJSON, &report.PerSplit); err != nil {
		return nil, fmt.Errorf("failed to unmarshal split metrics: %w", err)
	}
	if err := json.Unmarshal(baselineJSON, &report.Baselines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal baseline suite: %w", err)
	}

	return report, nil
}
