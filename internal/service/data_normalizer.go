package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/datasource"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
)

// DataNormalizer normalizes feed records to the internal schema
type DataNormalizer struct {
	teamNameMap map[string]string // Maps provider team names to canonical IDs
	logger      *logrus.Logger
}

// NewDataNormalizer creates a new data normalizer
func NewDataNormalizer(logger *logrus.Logger) *DataNormalizer {
	return &DataNormalizer{
		teamNameMap: buildTeamNameMap(),
		logger:      logger,
	}
}

// NormalizeGame converts a GameRecord from any source to the internal Game
// model. The market spread is kept in home-minus-away convention.
func (n *DataNormalizer) NormalizeGame(record *datasource.GameRecord, setLabel string) (*models.Game, error) {
	if record == nil {
		return nil, fmt.Errorf("source game is nil")
	}
	if record.Spread == nil {
		return nil, fmt.Errorf("game %s has no market line", record.SourceID)
	}

	now := time.Now()
	game := &models.Game{
		ID:           uuid.New(),
		Season:       record.Season,
		Week:         record.Week,
		HomeTeamID:   n.NormalizeTeamID(record.HomeTeam),
		AwayTeamID:   n.NormalizeTeamID(record.AwayTeam),
		NeutralSite:  record.NeutralSite,
		TargetSpread: record.Spread.InexactFloat64(),
		SetLabel:     setLabel,
		RowWeight:    1.0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return game, nil
}

// NormalizeTalent converts a TalentRecord to the internal TeamPrior model.
// Missing signals stay nil and are treated as league-average downstream.
func (n *DataNormalizer) NormalizeTalent(record *datasource.TalentRecord) (*models.TeamPrior, error) {
	if record == nil {
		return nil, fmt.Errorf("source talent record is nil")
	}

	prior := &models.TeamPrior{
		TeamID: n.NormalizeTeamID(record.Team),
		Season: record.Season,
	}

	if record.TalentScore != nil {
		v := record.TalentScore.InexactFloat64()
		prior.TalentScore = &v
	}
	if record.ReturningOff != nil {
		v := record.ReturningOff.InexactFloat64()
		prior.ReturningProdOff = &v
	}
	if record.ReturningDef != nil {
		v := record.ReturningDef.InexactFloat64()
		prior.ReturningProdDef = &v
	}

	return prior, nil
}

// NormalizeExternalRating converts an ExternalRatingRecord to the internal model
func (n *DataNormalizer) NormalizeExternalRating(record *datasource.ExternalRatingRecord) (*models.ExternalRating, error) {
	if record == nil {
		return nil, fmt.Errorf("source rating record is nil")
	}

	return &models.ExternalRating{
		TeamID: n.NormalizeTeamID(record.Team),
		Season: record.Season,
		Rating: record.Rating.InexactFloat64(),
	}, nil
}

// NormalizeTeamID converts provider-specific team names to canonical IDs
func (n *DataNormalizer) NormalizeTeamID(team string) string {
	if team == "" {
		return ""
	}

	if canonical, ok := n.teamNameMap[strings.ToLower(team)]; ok {
		return canonical
	}

	// Fall back to a slug of the provider name
	slug := strings.ToLower(strings.TrimSpace(team))
	slug = strings.ReplaceAll(slug, "&", "and")
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '.', r == '\'':
			return '_'
		default:
			return -1
		}
	}, slug)

	// Collapse repeated separators introduced by punctuation
	for strings.Contains(slug, "__") {
		slug = strings.ReplaceAll(slug, "__", "_")
	}
	return strings.Trim(slug, "_")
}

// buildTeamNameMap returns known provider aliases for canonical team IDs
func buildTeamNameMap() map[string]string {
	return map[string]string{
		"ole miss":         "mississippi",
		"miami (fl)":       "miami",
		"miami (oh)":       "miami_oh",
		"southern cal":     "usc",
		"pitt":             "pittsburgh",
		"uconn":            "connecticut",
		"umass":            "massachusetts",
		"app state":        "appalachian_state",
		"texas a&m":        "texas_am",
		"hawai'i":          "hawaii",
		"san jose state":   "san_jose_state",
		"louisiana-monroe": "ul_monroe",
		"middle tennessee": "middle_tennessee_state",
	}
}
