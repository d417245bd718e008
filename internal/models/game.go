package models

import (
	"time"

	"github.com/google/uuid"
)

// Game set labels partition games into the two evaluation sets used by
// calibration: set A is the high-confidence/recent slice, set B the earlier one.
const (
	SetLabelPrimary   = "A"
	SetLabelSecondary = "B"
)

// Game represents a single completed game observation with its market target.
// TargetSpread is in home-minus-away convention: negative means the home team
// was favored.
type Game struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Season       int       `db:"season" json:"season" validate:"required,gt=0"`
	Week         int       `db:"week" json:"week" validate:"required,gt=0"`
	HomeTeamID   string    `db:"home_team_id" json:"home_team_id" validate:"required"`
	AwayTeamID   string    `db:"away_team_id" json:"away_team_id" validate:"required"`
	NeutralSite  bool      `db:"neutral_site" json:"neutral_site"`
	TargetSpread float64   `db:"target_spread" json:"target_spread"`
	SetLabel     string    `db:"set_label" json:"set_label" validate:"required,oneof=A B"`
	RowWeight    float64   `db:"row_weight" json:"row_weight" validate:"required,gt=0"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TeamPrior holds raw external prior signals for one team. Any field may be
// nil when the upstream source has no value; missing signals are treated as
// league-average after standardization.
type TeamPrior struct {
	TeamID           string   `db:"team_id" json:"team_id" validate:"required"`
	Season           int      `db:"season" json:"season" validate:"required,gt=0"`
	TalentScore      *float64 `db:"talent_score" json:"talent_score,omitempty"`
	ReturningProdOff *float64 `db:"returning_prod_off" json:"returning_prod_off,omitempty"`
	ReturningProdDef *float64 `db:"returning_prod_def" json:"returning_prod_def,omitempty"`
}

// ExternalRating is one entry of the independently produced rating source
// consumed by the blend optimizer.
type ExternalRating struct {
	TeamID string  `db:"team_id" json:"team_id" validate:"required"`
	Season int     `db:"season" json:"season" validate:"required,gt=0"`
	Rating float64 `db:"rating" json:"rating"`
}
