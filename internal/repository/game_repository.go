package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/database"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

const (
	errScanGame       = "failed to scan game: %w"
	pgUniqueViolation = "23505"
	gameSelectColumns = `id, season, week, home_team_id, away_team_id, neutral_site,
	       target_spread, set_label, row_weight, created_at, updated_at`
)

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// Create inserts a new game
func (r *PostgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, season, week, home_team_id, away_team_id, neutral_site,
		                   target_spread, set_label, row_weight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		game.ID, game.Season, game.Week, game.HomeTeamID, game.AwayTeamID,
		game.NeutralSite, game.TargetSpread, game.SetLabel, game.RowWeight,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create game: %w", err)
	}

	return nil
}

// CreateBatch inserts a batch of games within one transaction
func (r *PostgresGameRepository) CreateBatch(ctx context.Context, games []*models.Game) error {
	if len(games) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO games (id, season, week, home_team_id, away_team_id, neutral_site,
			                   target_spread, set_label, row_weight)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (season, week, home_team_id, away_team_id) DO UPDATE SET
				neutral_site = EXCLUDED.neutral_site,
				target_spread = EXCLUDED.target_spread,
				set_label = EXCLUDED.set_label,
				row_weight = EXCLUDED.row_weight,
				updated_at = NOW()
		`

		for _, game := range games {
			_, err := tx.Exec(ctx, query,
				game.ID, game.Season, game.Week, game.HomeTeamID, game.AwayTeamID,
				game.NeutralSite, game.TargetSpread, game.SetLabel, game.RowWeight,
			)
			if err != nil {
				return fmt.Errorf("failed to insert game batch row: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := `SELECT ` + gameSelectColumns + ` FROM games WHERE id = $1`

	game := &models.Game{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&game.ID, &game.Season, &game.Week, &game.HomeTeamID, &game.AwayTeamID,
		&game.NeutralSite, &game.TargetSpread, &game.SetLabel, &game.RowWeight,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetBySeasonWeeks retrieves all games of a season within the given weeks,
// ordered by week then team for deterministic downstream processing
func (r *PostgresGameRepository) GetBySeasonWeeks(ctx context.Context, season int, weeks []int) ([]*models.Game, error) {
	query := `
		SELECT ` + gameSelectColumns + `
		FROM games
		WHERE season = $1 AND week = ANY($2)
		ORDER BY week ASC, home_team_id ASC, away_team_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, season, weeks)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by season and weeks: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		err := rows.Scan(
			&game.ID, &game.Season, &game.Week, &game.HomeTeamID, &game.AwayTeamID,
			&game.NeutralSite, &game.TargetSpread, &game.SetLabel, &game.RowWeight,
			&game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}

// Update updates an existing game
func (r *PostgresGameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games SET
			neutral_site = $2, target_spread = $3, set_label = $4, row_weight = $5,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		game.ID, game.NeutralSite, game.TargetSpread, game.SetLabel, game.RowWeight,
	)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete deletes a game
func (r *PostgresGameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM games WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
