package repository

import (
	"fmt"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Game           GameRepository
	TeamPrior      TeamPriorRepository
	ExternalRating ExternalRatingRepository
	Rating         RatingRepository
	BlendConfig    BlendConfigRepository
	MetricsReport  MetricsReportRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Game:           NewPostgresGameRepository(db),
		TeamPrior:      NewPostgresTeamPriorRepository(db),
		ExternalRating: NewPostgresExternalRatingRepository(db),
		Rating:         NewPostgresRatingRepository(db),
		BlendConfig:    NewPostgresBlendConfigRepository(db),
		MetricsReport:  NewPostgresMetricsReportRepository(db),
	}, nil
}
