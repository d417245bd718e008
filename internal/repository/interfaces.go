package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// GameRepository defines the interface for game data access
type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	CreateBatch(ctx context.Context, games []*models.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	GetBySeasonWeeks(ctx context.Context, season int, weeks []int) ([]*models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TeamPriorRepository defines the interface for preseason prior data access
type TeamPriorRepository interface {
	Upsert(ctx context.Context, prior *models.TeamPrior) error
	UpsertBatch(ctx context.Context, priors []*models.TeamPrior) error
	GetBySeason(ctx context.Context, season int) ([]*models.TeamPrior, error)
}

// ExternalRatingRepository defines the interface for the independent rating
// source consumed by the blend optimizer
type ExternalRatingRepository interface {
	Upsert(ctx context.Context, rating *models.ExternalRating) error
	UpsertBatch(ctx context.Context, ratings []*models.ExternalRating) error
	GetBySeason(ctx context.Context, season int) ([]*models.ExternalRating, error)
}

// RatingRepository defines the interface for solved rating table persistence
type RatingRepository interface {
	SaveTable(ctx context.Context, table *models.RatingTable) error
	GetByRunID(ctx context.Context, runID uuid.UUID) (*models.RatingTable, error)
	GetLatest(ctx context.Context, season int) (*models.RatingTable, error)
}

// BlendConfigRepository defines the interface for blend artifact persistence
type BlendConfigRepository interface {
	Save(ctx context.Context, cfg *models.BlendConfig) error
	GetByRunID(ctx context.Context, runID uuid.UUID) (*models.BlendConfig, error)
	GetLatest(ctx context.Context, season int) (*models.BlendConfig, error)
}

// MetricsReportRepository defines the interface for evaluation report persistence
type MetricsReportRepository interface {
	Save(ctx context.Context, report *models.MetricsReport) error
	GetByRunID(ctx context.Context, runID uuid.UUID) (*models.MetricsReport, error)
}
