package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/database"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

const errScanPrior = "failed to scan team prior: %w"

const upsertPriorQuery = `
	INSERT INTO team_priors (team_id, season, talent_score, returning_prod_off, returning_prod_def)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (team_id, season) DO UPDATE SET
		talent_score = EXCLUDED.talent_score,
		returning_prod_off = EXCLUDED.returning_prod_off,
		returning_prod_def = EXCLUDED.returning_prod_def
`

// PostgresTeamPriorRepository implements TeamPriorRepository for PostgreSQL
type PostgresTeamPriorRepository struct {
	db *database.DB
}

// NewPostgresTeamPriorRepository creates a new team prior repository
func NewPostgresTeamPriorRepository(db *database.DB) TeamPriorRepository {
	return &PostgresTeamPriorRepository{db: db}
}

// Upsert inserts or updates a team prior
func (r *PostgresTeamPriorRepository) Upsert(ctx context.Context, prior *models.TeamPrior) error {
	_, err := r.db.GetPool().Exec(ctx, upsertPriorQuery,
		prior.TeamID, prior.Season, prior.TalentScore, prior.ReturningProdOff, prior.ReturningProdDef,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team prior: %w", err)
	}

	return nil
}

// UpsertBatch upserts a batch of team priors within one transaction
func (r *PostgresTeamPriorRepository) UpsertBatch(ctx context.Context, priors []*models.TeamPrior) error {
	if len(priors) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, prior := range priors {
			_, err := tx.Exec(ctx, upsertPriorQuery,
				prior.TeamID, prior.Season, prior.TalentScore, prior.ReturningProdOff, prior.ReturningProdDef,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert team prior batch row: %w", err)
			}
		}
		return nil
	})
}

// GetBySeason retrieves all team priors for a season
func (r *PostgresTeamPriorRepository) GetBySeason(ctx context.Context, season int) ([]*models.TeamPrior, error) {
	query := `
		SELECT team_id, season, talent_score, returning_prod_off, returning_prod_def
		FROM team_priors
		WHERE season = $1
		ORDER BY team_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query team priors: %w", err)
	}
	defer rows.Close()

	var priors []*models.TeamPrior
	for rows.Next() {
		prior := &models.TeamPrior{}
		err := rows.Scan(
			&prior.TeamID, &prior.Season, &prior.TalentScore,
			&prior.ReturningProdOff, &prior.ReturningProdDef,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPrior, err)
		}
		priors = append(priors, prior)
	}

	return priors, rows.Err()
}
