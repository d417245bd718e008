package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/metrics"
)

const (
	scheduleFeedName      = "schedule_feed"
	feedOutcomeSuccess    = "success"
	feedOutcomeError      = "error"
	dataSourceDisabledMsg = "data source is disabled"
	gameCacheTTL          = 15 * time.Minute
)

// ScheduleFeedClient implements GameFeed against the schedule/lines API
type ScheduleFeedClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	cache      *gocache.Cache
	logger     *logrus.Logger
}

// scheduleFeedGame is the provider's wire format for one game
type scheduleFeedGame struct {
	ID          string `json:"id"`
	Season      int    `json:"season"`
	Week        int    `json:"week"`
	HomeTeam    string `json:"homeTeam"`
	AwayTeam    string `json:"awayTeam"`
	NeutralSite bool   `json:"neutralSite"`
	Completed   bool   `json:"completed"`
	Lines       []struct {
		Provider string  `json:"provider"`
		Spread   *string `json:"spread"`
	} `json:"lines"`
}

// NewScheduleFeedClient creates a new schedule feed client
func NewScheduleFeedClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *ScheduleFeedClient {
	return &ScheduleFeedClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		cache:      gocache.New(gameCacheTTL, 2*gameCacheTTL),
		logger:     logger,
	}
}

// FetchGames retrieves completed games for the given season and weeks. Weeks
// already fetched within the cache TTL are served from memory.
func (c *ScheduleFeedClient) FetchGames(ctx context.Context, season int, weeks []int) ([]GameRecord, error) {
	if !c.enabled {
		return nil, NewDataSourceError(scheduleFeedName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	var games []GameRecord
	for _, week := range weeks {
		weekGames, err := c.fetchWeek(ctx, season, week)
		if err != nil {
			metrics.FeedRequestsTotal.WithLabelValues(scheduleFeedName, feedOutcomeError).Inc()
			return nil, err
		}
		metrics.FeedRequestsTotal.WithLabelValues(scheduleFeedName, feedOutcomeSuccess).Inc()
		games = append(games, weekGames...)
	}

	return games, nil
}

// fetchWeek retrieves one week of games, consulting the cache first
func (c *ScheduleFeedClient) fetchWeek(ctx context.Context, season, week int) ([]GameRecord, error) {
	cacheKey := fmt.Sprintf("games:%d:%d", season, week)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]GameRecord), nil
	}

	url := fmt.Sprintf("%s?year=%d&week=%d", c.baseURL, season, week)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(scheduleFeedName, ErrCodeNetworkError, "failed to create request", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(scheduleFeedName, ErrCodeNetworkError, "failed to fetch games", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewDataSourceError(scheduleFeedName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError(scheduleFeedName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(scheduleFeedName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var feedGames []scheduleFeedGame
	if err := json.NewDecoder(resp.Body).Decode(&feedGames); err != nil {
		return nil, NewDataSourceError(scheduleFeedName, ErrCodeInvalidData, "failed to parse response", err)
	}

	games := make([]GameRecord, 0, len(feedGames))
	for _, fg := range feedGames {
		games = append(games, c.convertGame(&fg))
	}

	c.cache.Set(cacheKey, games, gocache.DefaultExpiration)
	return games, nil
}

// Name returns the data source name
func (c *ScheduleFeedClient) Name() string {
	return scheduleFeedName
}

// IsEnabled returns whether this data source is enabled
func (c *ScheduleFeedClient) IsEnabled() bool {
	return c.enabled
}

// convertGame converts the provider format to a GameRecord, taking the first
// line that parses as the market spread
func (c *ScheduleFeedClient) convertGame(fg *scheduleFeedGame) GameRecord {
	record := GameRecord{
		SourceID:    fg.ID,
		Season:      fg.Season,
		Week:        fg.Week,
		HomeTeam:    fg.HomeTeam,
		AwayTeam:    fg.AwayTeam,
		NeutralSite: fg.NeutralSite,
		Completed:   fg.Completed,
		FetchedAt:   time.Now(),
	}

	for _, line := range fg.Lines {
		if spread := parseDecimal(line.Spread); spread != nil {
			record.Spread = spread
			break
		}
	}

	if record.Spread == nil && len(fg.Lines) > 0 && c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"game_id": fg.ID,
			"lines":   len(fg.Lines),
		}).Debug("No parseable spread line for game")
	}

	return record
}

// parseDecimal parses a string to decimal.Decimal, returning nil if invalid
func parseDecimal(s *string) *decimal.Decimal {
	if s == nil || *s == "" {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}
