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

const blendConfigColumns = `run_id, season, optimal_weight, normalization, per_set_metrics,
	       floor_forced, suspect, sanity_failed, created_at`

// PostgresBlendConfigRepository implements BlendConfigRepository for PostgreSQL
type PostgresBlendConfigRepository struct {
	db *database.DB
}

// NewPostgresBlendConfigRepository creates a new blend config repository
func NewPostgresBlendConfigRepository(db *database.DB) BlendConfigRepository {
	return &PostgresBlendConfigRepository{db: db}
}

// Save persists a blend artifact. Normalization constants and per-set metrics
// are stored as jsonb
func (r *PostgresBlendConfigRepository) Save(ctx context.Context, cfg *models.BlendConfig) error {
	normJSON, err := json.Marshal(cfg.Normalization)
	if err != nil {
		return fmt.Errorf("failed to marshal blend normalization: %w", err)
	}

	metricsJSON, err := json.Marshal(cfg.PerSetMetrics)
	if err != nil {
		return fmt.Errorf("failed to marshal per-set metrics: %w", err)
	}

	query := `
		INSERT INTO blend_configs (run_id, season, optimal_weight, normalization, per_set_metrics,
		                           floor_forced, suspect, sanity_failed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		cfg.RunID, cfg.Season, cfg.OptimalWeight, normJSON, metricsJSON,
		cfg.FloorForced, cfg.Suspect, cfg.SanityFailed,
	)
	if err != nil {
		return fmt.Errorf("failed to save blend config: %w", err)
	}

	return nil
}

// GetByRunID retrieves the blend artifact of one run
func (r *PostgresBlendConfigRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*models.BlendConfig, error) {
	query := `SELECT ` + blendConfigColumns + ` FROM blend_configs WHERE run_id = $1`
	return r.scanOne(r.db.GetPool().QueryRow(ctx, query, runID))
}

// GetLatest retrieves the most recently created blend artifact for a season
func (r *PostgresBlendConfigRepository) GetLatest(ctx context.Context, season int) (*models.BlendConfig, error) {
	query := `
		SELECT ` + blendConfigColumns + `
		FROM blend_configs
		WHERE season = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.db.GetPool().QueryRow(ctx, query, season))
}

// scanOne scans a single blend config row, decoding the jsonb columns
func (r *PostgresBlendConfigRepository) scanOne(row pgx.Row) (*models.BlendConfig, error) {
	cfg := &models.BlendConfig{}
	var normJSON, metricsJSON []byte

	err := row.Scan(
		&cfg.RunID, &cfg.Season, &cfg.OptimalWeight, &normJSON, &metricsJSON,
		&cfg.FloorForced, &cfg.Suspect, &cfg.SanityFailed, &cfg.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blend config: %w", err)
	}

	if err := json.Unmarshal(normJSON, &cfg.Normalization); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blend normalization: %w", err)
	}
	if err := json.Unmarshal(metricsJSON, &cfg.PerSetMetrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal per-set metrics: %w", err)
	}

	return cfg, nil
}
