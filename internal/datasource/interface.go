package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// GameFeed defines the interface for fetching completed games with their
// market lines from external providers
type GameFeed interface {
	// FetchGames retrieves completed games for the given season and weeks
	FetchGames(ctx context.Context, season int, weeks []int) ([]GameRecord, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// TeamFeed defines the interface for fetching preseason team signals
type TeamFeed interface {
	// FetchTalent retrieves talent-composite and returning-production signals
	FetchTalent(ctx context.Context, season int) ([]TalentRecord, error)

	// FetchExternalRatings retrieves the independently produced rating source
	FetchExternalRatings(ctx context.Context, season int) ([]ExternalRatingRecord, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// GameRecord represents one normalized game observation from any provider.
// Spread is the closing market line in home-minus-away convention.
type GameRecord struct {
	SourceID    string           `json:"source_id"`
	Season      int              `json:"season"`
	Week        int              `json:"week"`
	HomeTeam    string           `json:"home_team"`
	AwayTeam    string           `json:"away_team"`
	NeutralSite bool             `json:"neutral_site"`
	Spread      *decimal.Decimal `json:"spread"`
	Completed   bool             `json:"completed"`
	FetchedAt   time.Time        `json:"fetched_at"`
}

// TalentRecord represents normalized preseason signals for one team. Any
// signal may be nil when the provider has no value for the team.
type TalentRecord struct {
	Team         string           `json:"team"`
	Season       int              `json:"season"`
	TalentScore  *decimal.Decimal `json:"talent_score"`
	ReturningOff *decimal.Decimal `json:"returning_off"`
	ReturningDef *decimal.Decimal `json:"returning_def"`
}

// ExternalRatingRecord represents one entry of the independent rating source
type ExternalRatingRecord struct {
	Team   string          `json:"team"`
	Season int             `json:"season"`
	Rating decimal.Decimal `json:"rating"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
