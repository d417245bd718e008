package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/config"
)

// Feeds bundles the concrete feed clients built from configuration
type Feeds struct {
	Games GameFeed
	Teams TeamFeed
}

// Factory creates feed clients based on configuration
type Factory struct {
	logger *logrus.Logger
}

// NewFactory creates a new data source factory
func NewFactory(logger *logrus.Logger) *Factory {
	return &Factory{logger: logger}
}

// NewFeeds creates all enabled feed clients from configuration
func (f *Factory) NewFeeds(cfg config.IngestionConfig, httpClient *RateLimitedHTTPClient) (*Feeds, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	feeds := &Feeds{}
	for _, srcCfg := range cfg.Sources {
		if !srcCfg.Enabled {
			if f.logger != nil {
				f.logger.WithField("source", srcCfg.Name).Info("Skipping disabled data source")
			}
			continue
		}

		switch srcCfg.Name {
		case scheduleFeedName:
			if srcCfg.APIKey == "" {
				return nil, fmt.Errorf("schedule feed API key is required")
			}
			feeds.Games = NewScheduleFeedClient(httpClient, srcCfg.URL, srcCfg.APIKey, srcCfg.Enabled, f.logger)

		case talentFeedName:
			if srcCfg.APIKey == "" {
				return nil, fmt.Errorf("talent feed API key is required")
			}
			feeds.Teams = NewTalentFeedClient(httpClient, srcCfg.URL, srcCfg.APIKey, srcCfg.Enabled, f.logger)

		default:
			return nil, fmt.Errorf("unknown data source: %s", srcCfg.Name)
		}

		if f.logger != nil {
			f.logger.WithField("source", srcCfg.Name).Info("Created data source")
		}
	}

	if feeds.Games == nil && feeds.Teams == nil {
		return nil, fmt.Errorf("no enabled data sources configured")
	}

	return feeds, nil
}
