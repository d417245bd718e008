package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/database"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

const upsertExternalRatingQuery = `
	INSERT INTO external_ratings (team_id, season, rating)
	VALUES ($1, $2, $3)
	ON CONFLICT (team_id, season) DO UPDATE SET rating = EXCLUDED.rating
`

// PostgresExternalRatingRepository implements ExternalRatingRepository for PostgreSQL
type PostgresExternalRatingRepository struct {
	db *database.DB
}

// NewPostgresExternalRatingRepository creates a new external rating repository
func NewPostgresExternalRatingRepository(db *database.DB) ExternalRatingRepository {
	return &PostgresExternalRatingRepository{db: db}
}

// Upsert inserts or updates an external rating
func (r *PostgresExternalRatingRepository) Upsert(ctx context.Context, rating *models.ExternalRating) error {
	_, err := r.db.GetPool().Exec(ctx, upsertExternalRatingQuery,
		rating.TeamID, rating.Season, rating.Rating,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert external rating: %w", err)
	}

	return nil
}

// UpsertBatch upserts a batch of external ratings within one transaction
func (r *PostgresExternalRatingRepository) UpsertBatch(ctx context.Context, ratings []*models.ExternalRating) error {
	if len(ratings) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, rating := range ratings {
			_, err := tx.Exec(ctx, upsertExternalRatingQuery,
				rating.TeamID, rating.Season, rating.Rating,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert external rating batch row: %w", err)
			}
		}
		return nil
	})
}

// GetBySeason retrieves all external ratings for a season
func (r *PostgresExternalRatingRepository) GetBySeason(ctx context.Context, season int) ([]*models.ExternalRating, error) {
	query := `
		SELECT team_id, season, rating
		FROM external_ratings
		WHERE season = $1
		ORDER BY team_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query external ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*models.ExternalRating
	for rows.Next() {
		rating := &models.ExternalRating{}
		if err := rows.Scan(&rating.TeamID, &rating.Season, &rating.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan external rating: %w", err)
		}
		ratings = append(ratings, rating)
	}

	return ratings, rows.Err()
}
