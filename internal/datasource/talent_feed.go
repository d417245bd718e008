package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/metrics"
)

const (
	talentFeedName = "talent_feed"
	talentCacheTTL = gameCacheTTL
)

// TalentFeedClient implements TeamFeed against the team-signal API
type TalentFeedClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	cache      *gocache.Cache
	logger     *logrus.Logger
}

// talentFeedTeam is the provider's wire format for one team's signals
type talentFeedTeam struct {
	School       string  `json:"school"`
	Season       int     `json:"year"`
	Talent       *string `json:"talent"`
	ReturningOff *string `json:"returningOffense"`
	ReturningDef *string `json:"returningDefense"`
}

// talentFeedRating is the provider's wire format for one external rating
type talentFeedRating struct {
	School string `json:"school"`
	Season int    `json:"year"`
	Rating string `json:"rating"`
}

// NewTalentFeedClient creates a new talent feed client
func NewTalentFeedClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *TalentFeedClient {
	return &TalentFeedClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		cache:      gocache.New(talentCacheTTL, 2*talentCacheTTL),
		logger:     logger,
	}
}

// FetchTalent retrieves talent-composite and returning-production signals
func (c *TalentFeedClient) FetchTalent(ctx context.Context, season int) ([]TalentRecord, error) {
	if !c.enabled {
		return nil, NewDataSourceError(talentFeedName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	cacheKey := fmt.Sprintf("talent:%d", season)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]TalentRecord), nil
	}

	url := fmt.Sprintf("%s?year=%d", c.baseURL, season)

	var feedTeams []talentFeedTeam
	if err := c.getJSON(ctx, url, &feedTeams); err != nil {
		metrics.FeedRequestsTotal.WithLabelValues(talentFeedName, feedOutcomeError).Inc()
		return nil, err
	}
	metrics.FeedRequestsTotal.WithLabelValues(talentFeedName, feedOutcomeSuccess).Inc()

	records := make([]TalentRecord, 0, len(feedTeams))
	for _, team := range feedTeams {
		records = append(records, TalentRecord{
			Team:         team.School,
			Season:       team.Season,
			TalentScore:  parseDecimal(team.Talent),
			ReturningOff: parseDecimal(team.ReturningOff),
			ReturningDef: parseDecimal(team.ReturningDef),
		})
	}

	c.cache.Set(cacheKey, records, gocache.DefaultExpiration)
	return records, nil
}

// FetchExternalRatings retrieves the independently produced rating source
func (c *TalentFeedClient) FetchExternalRatings(ctx context.Context, season int) ([]ExternalRatingRecord, error) {
	if !c.enabled {
		return nil, NewDataSourceError(talentFeedName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	cacheKey := fmt.Sprintf("ratings:%d", season)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]ExternalRatingRecord), nil
	}

	url := fmt.Sprintf("%s/ratings?year=%d", c.baseURL, season)

	var feedRatings []talentFeedRating
	if err := c.getJSON(ctx, url, &feedRatings); err != nil {
		metrics.FeedRequestsTotal.WithLabelValues(talentFeedName, feedOutcomeError).Inc()
		return nil, err
	}
	metrics.FeedRequestsTotal.WithLabelValues(talentFeedName, feedOutcomeSuccess).Inc()

	records := make([]ExternalRatingRecord, 0, len(feedRatings))
	for _, fr := range feedRatings {
		rating, err := decimal.NewFromString(fr.Rating)
		if err != nil {
			if c.logger != nil {
				c.logger.WithFields(logrus.Fields{
					"team":   fr.School,
					"rating": fr.Rating,
				}).Warn("Skipping unparseable external rating")
			}
			continue
		}
		records = append(records, ExternalRatingRecord{
			Team:   fr.School,
			Season: fr.Season,
			Rating: rating,
		})
	}

	c.cache.Set(cacheKey, records, gocache.DefaultExpiration)
	return records, nil
}

// Name returns the data source name
func (c *TalentFeedClient) Name() string {
	return talentFeedName
}

// IsEnabled returns whether this data source is enabled
func (c *TalentFeedClient) IsEnabled() bool {
	return c.enabled
}

// getJSON performs an authenticated GET and decodes the JSON response
func (c *TalentFeedClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDataSourceError(talentFeedName, ErrCodeNetworkError, "failed to create request", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(talentFeedName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return NewDataSourceError(talentFeedName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case http.StatusTooManyRequests:
		return NewDataSourceError(talentFeedName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case http.StatusNotFound:
		return NewDataSourceError(talentFeedName, ErrCodeNotFound, "resource not found", nil)
	default:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(talentFeedName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(talentFeedName, ErrCodeInvalidData, "failed to parse response", err)
	}

	return nil
}
