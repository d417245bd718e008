package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamRating is one row of a solved rating table. Ratings are unitless and
// only meaningful as differences; the solver centers them to mean zero.
type TeamRating struct {
	RunID     uuid.UUID `db:"run_id" json:"run_id"`
	Season    int       `db:"season" json:"season"`
	TeamID    string    `db:"team_id" json:"team_id"`
	Rating    float64   `db:"rating" json:"rating"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RatingTable is the primary solver artifact: the centered team ratings plus
// the jointly solved home-field-advantage constant.
type RatingTable struct {
	RunID   uuid.UUID          `json:"run_id"`
	Season  int                `json:"season"`
	Ratings map[string]float64 `json:"ratings"`
	HFA     float64            `json:"hfa"`
	Lambda  float64            `json:"lambda"`
}

// BlendNormalization holds the standardization constants of both rating
// sources, retained so downstream prediction can reproduce the blend exactly.
type BlendNormalization struct {
	MeanA float64 `db:"mean_a" json:"mean_a"`
	StdA  float64 `db:"std_a" json:"std_a"`
	MeanB float64 `db:"mean_b" json:"mean_b"`
	StdB  float64 `db:"std_b" json:"std_b"`
}

// BlendConfig is the blend optimizer artifact persisted for downstream
// prediction.
type BlendConfig struct {
	RunID         uuid.UUID                `db:"run_id" json:"run_id"`
	Season        int                      `db:"season" json:"season"`
	OptimalWeight float64                  `db:"optimal_weight" json:"optimal_weight"`
	Normalization BlendNormalization       `json:"normalization"`
	PerSetMetrics map[string]MetricsRecord `json:"per_set_metrics"`
	FloorForced   bool                     `db:"floor_forced" json:"floor_forced"`
	Suspect       bool                     `db:"suspect" json:"suspect"`
	SanityFailed  bool                     `db:"sanity_failed" json:"sanity_failed"`
	CreatedAt     time.Time                `db:"created_at" json:"created_at"`
}

// MetricsRecord holds the evaluation metrics for one dataset split.
type MetricsRecord struct {
	RMSE          float64 `db:"rmse" json:"rmse"`
	MAE           float64 `db:"mae" json:"mae"`
	Pearson       float64 `db:"pearson" json:"pearson"`
	Spearman      float64 `db:"spearman" json:"spearman"`
	SignAgreement float64 `db:"sign_agreement" json:"sign_agreement"`
	Rows          int     `db:"rows" json:"rows"`
}

// BaselineComparison is one row of the baseline suite table produced by the
// evaluator.
type BaselineComparison struct {
	Model   string        `json:"model"`
	Metrics MetricsRecord `json:"metrics"`
	Skipped bool          `json:"skipped,omitempty"`
	Reason  string        `json:"reason,omitempty"`
}

// MetricsReport is the full evaluation artifact for one pipeline run.
type MetricsReport struct {
	RunID      uuid.UUID                `json:"run_id"`
	Season     int                      `json:"season"`
	PerSplit   map[string]MetricsRecord `json:"per_split"`
	Baselines  []BaselineComparison     `json:"baselines"`
	Deployable bool                     `json:"deployable"`
	CreatedAt  time.Time                `json:"created_at"`
}
