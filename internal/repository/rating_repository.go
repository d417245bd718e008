package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/database"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// PostgresRatingRepository implements RatingRepository for PostgreSQL
type PostgresRatingRepository struct {
	db *database.DB
}

// NewPostgresRatingRepository creates a new rating repository
func NewPostgresRatingRepository(db *database.DB) RatingRepository {
	return &PostgresRatingRepository{db: db}
}

// SaveTable persists a solved rating table: one run header row plus one row
// per team, atomically
func (r *PostgresRatingRepository) SaveTable(ctx context.Context, table *models.RatingTable) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		headerQuery := `
			INSERT INTO rating_runs (run_id, season, hfa, lambda)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.Exec(ctx, headerQuery, table.RunID, table.Season, table.HFA, table.Lambda); err != nil {
			return fmt.Errorf("failed to insert rating run: %w", err)
		}

		rowQuery := `
			INSERT INTO team_ratings (run_id, season, team_id, rating)
			VALUES ($1, $2, $3, $4)
		`
		for teamID, rating := range table.Ratings {
			if _, err := tx.Exec(ctx, rowQuery, table.RunID, table.Season, teamID, rating); err != nil {
				return fmt.Errorf("failed to insert team rating: %w", err)
			}
		}
		return nil
	})
}

// GetByRunID retrieves the rating table of one run
func (r *PostgresRatingRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*models.RatingTable, error) {
	headerQuery := `SELECT run_id, season, hfa, lambda FROM rating_runs WHERE run_id = $1`

	table := &models.RatingTable{Ratings: make(map[string]float64)}
	err := r.db.GetPool().QueryRow(ctx, headerQuery, runID).Scan(
		&table.RunID, &table.Season, &table.HFA, &table.Lambda,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating run: %w", err)
	}

	return r.loadRatings(ctx, table)
}

// GetLatest retrieves the most recently created rating table for a season
func (r *PostgresRatingRepository) GetLatest(ctx context.Context, season int) (*models.RatingTable, error) {
	headerQuery := `
		SELECT run_id, season, hfa, lambda
		FROM rating_runs
		WHERE season = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	table := &models.RatingTable{Ratings: make(map[string]float64)}
	err := r.db.GetPool().QueryRow(ctx, headerQuery, season).Scan(
		&table.RunID, &table.Season, &table.HFA, &table.Lambda,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest rating run: %w", err)
	}

	return r.loadRatings(ctx, table)
}

// loadRatings fills the per-team rows of a rating table
func (r *PostgresRatingRepository) loadRatings(ctx context.Context, table *models.RatingTable) (*models.RatingTable, error) {
	query := `SELECT team_id, rating FROM team_ratings WHERE run_id = $1 ORDER BY team_id ASC`

	rows, err := r.db.GetPool().Query(ctx, query, table.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var teamID string
		var rating float64
		if err := rows.Scan(&teamID, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan team rating: %w", err)
		}
		table.Ratings[teamID] = rating
	}

	return table, rows.Err()
}
