package service

import (
	"testing"

	"github.com/google/uuid"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

func validGame() *models.Game {
	return &models.Game{
		ID:           uuid.New(),
		Season:       2025,
		Week:         5,
		HomeTeamID:   "georgia",
		AwayTeamID:   "alabama",
		TargetSpread: -3.5,
		SetLabel:     models.SetLabelPrimary,
		RowWeight:    1.0,
	}
}

// TestDataValidatorValidGame tests validation of a correct game row
func TestDataValidatorValidGame(t *testing.T) {
	validator := NewDataValidator(nil)

	problems := validator.ValidateGame(validGame())
	if len(problems) > 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
}

// TestDataValidatorGameFieldErrors tests per-field game validation
func TestDataValidatorGameFieldErrors(t *testing.T) {
	validator := NewDataValidator(nil)

	tests := []struct {
		name   string
		mutate func(*models.Game)
	}{
		{"missing season", func(g *models.Game) { g.Season = 0 }},
		{"week too high", func(g *models.Game) { g.Week = 25 }},
		{"missing home team", func(g *models.Game) { g.HomeTeamID = "" }},
		{"same teams", func(g *models.Game) { g.AwayTeamID = g.HomeTeamID }},
		{"bad set label", func(g *models.Game) { g.SetLabel = "C" }},
		{"zero weight", func(g *models.Game) { g.RowWeight = 0 }},
		{"negative weight", func(g *models.Game) { g.RowWeight = -1 }},
		{"absurd spread", func(g *models.Game) { g.TargetSpread = 250 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := validGame()
			tt.mutate(game)
			if problems := validator.ValidateGame(game); len(problems) == 0 {
				t.Error("expected validation problems, got none")
			}
		})
	}
}

// TestDataValidatorPrior tests prior validation including nil signals
func TestDataValidatorPrior(t *testing.T) {
	validator := NewDataValidator(nil)

	talent := 950.0
	prior := &models.TeamPrior{
		TeamID:      "georgia",
		Season:      2025,
		TalentScore: &talent,
	}

	if problems := validator.ValidatePrior(prior); len(problems) > 0 {
		t.Errorf("expected no problems for partial prior, got %v", problems)
	}

	prior.TeamID = ""
	if problems := validator.ValidatePrior(prior); len(problems) == 0 {
		t.Error("expected problem for missing team_id")
	}
}

// TestDataValidatorGameUniqueness tests in-batch duplicate detection
func TestDataValidatorGameUniqueness(t *testing.T) {
	validator := NewDataValidator(nil)

	first := validGame()
	duplicate := validGame()

	if err := validator.ValidateGameUniqueness(duplicate, []*models.Game{first}); err == nil {
		t.Error("expected duplicate error")
	}

	other := validGame()
	other.Week = 6
	if err := validator.ValidateGameUniqueness(other, []*models.Game{first}); err != nil {
		t.Errorf("expected no error for different week, got %v", err)
	}
}

// TestNormalizerTeamID tests canonical team ID mapping
func TestNormalizerTeamID(t *testing.T) {
	normalizer := NewDataNormalizer(nil)

	tests := []struct {
		input    string
		expected string
	}{
		{"Ole Miss", "mississippi"},
		{"Texas A&M", "texas_am"},
		{"Miami (FL)", "miami"},
		{"Georgia", "georgia"},
		{"Notre Dame", "notre_dame"},
		{"Hawai'i", "hawaii"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizer.NormalizeTeamID(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
