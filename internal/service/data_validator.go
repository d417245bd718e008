package service

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// maxPlausibleSpread bounds market lines; anything beyond it is feed garbage
// rather than a real game
const maxPlausibleSpread = 100.0

// DataValidator validates normalized records before persistence
type DataValidator struct {
	logger *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidateGame validates a game row for required fields and constraints
func (v *DataValidator) ValidateGame(game *models.Game) []string {
	var errors []string

	if game.Season <= 0 {
		errors = append(errors, "season is required")
	}

	if game.Week < 1 || game.Week > 20 {
		errors = append(errors, fmt.Sprintf("week out of range (1-20), got %d", game.Week))
	}

	if game.HomeTeamID == "" {
		errors = append(errors, "home_team_id is required")
	}

	if game.AwayTeamID == "" {
		errors = append(errors, "away_team_id is required")
	}

	if game.HomeTeamID != "" && game.HomeTeamID == game.AwayTeamID {
		errors = append(errors, "home and away team must differ")
	}

	if game.SetLabel != models.SetLabelPrimary && game.SetLabel != models.SetLabelSecondary {
		errors = append(errors, fmt.Sprintf("set_label must be A or B, got %q", game.SetLabel))
	}

	if game.RowWeight <= 0 {
		errors = append(errors, fmt.Sprintf("row_weight must be positive, got %v", game.RowWeight))
	}

	if math.Abs(game.TargetSpread) > maxPlausibleSpread {
		errors = append(errors, fmt.Sprintf("target_spread out of range, got %v", game.TargetSpread))
	}

	if math.IsNaN(game.TargetSpread) || math.IsInf(game.TargetSpread, 0) {
		errors = append(errors, "target_spread is not a finite number")
	}

	return errors
}

// ValidatePrior validates a team prior row
func (v *DataValidator) ValidatePrior(prior *models.TeamPrior) []string {
	var errors []string

	if prior.TeamID == "" {
		errors = append(errors, "team_id is required")
	}

	if prior.Season <= 0 {
		errors = append(errors, "season is required")
	}

	for name, signal := range map[string]*float64{
		"talent_score":       prior.TalentScore,
		"returning_prod_off": prior.ReturningProdOff,
		"returning_prod_def": prior.ReturningProdDef,
	} {
		if signal != nil && (math.IsNaN(*signal) || math.IsInf(*signal, 0)) {
			errors = append(errors, fmt.Sprintf("%s is not a finite number", name))
		}
	}

	return errors
}

// ValidateExternalRating validates an external rating row
func (v *DataValidator) ValidateExternalRating(rating *models.ExternalRating) []string {
	var errors []string

	if rating.TeamID == "" {
		errors = append(errors, "team_id is required")
	}

	if rating.Season <= 0 {
		errors = append(errors, "season is required")
	}

	if math.IsNaN(rating.Rating) || math.IsInf(rating.Rating, 0) {
		errors = append(errors, "rating is not a finite number")
	}

	return errors
}

// ValidateGameUniqueness checks a game against already accepted rows from the
// same batch
func (v *DataValidator) ValidateGameUniqueness(game *models.Game, accepted []*models.Game) error {
	for _, existing := range accepted {
		if existing.Season == game.Season &&
			existing.Week == game.Week &&
			existing.HomeTeamID == game.HomeTeamID &&
			existing.AwayTeamID == game.AwayTeamID {
			return fmt.Errorf("duplicate game: %s vs %s week %d", game.HomeTeamID, game.AwayTeamID, game.Week)
		}
	}
	return nil
}
