// Package config provides configuration management for the Gridiron Edge
// rating pipeline.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" validate:"required"`
	Ingestion IngestionConfig `mapstructure:"ingestion" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// PipelineConfig represents rating-pipeline invocation parameters
type PipelineConfig struct {
	Season                int       `mapstructure:"season" validate:"required,gt=0"`
	Weeks                 []int     `mapstructure:"weeks" validate:"required,min=1,weeks"`
	ValidationWeeks       []int     `mapstructure:"validation_weeks" validate:"required,min=1,weeks"`
	LambdaGrid            []float64 `mapstructure:"lambda_grid" validate:"required,min=1"`
	BlendWeightStep       float64   `mapstructure:"blend_weight_step" validate:"required,gt=0,lte=0.5"`
	OutlierCap            float64   `mapstructure:"outlier_cap" validate:"required,gt=0"`
	MinGames              int       `mapstructure:"min_games" validate:"required,gt=0"`
	BlendFloorWeight      float64   `mapstructure:"blend_floor_weight" validate:"gte=0,lte=1"`
	SecondaryGuardPearson float64   `mapstructure:"secondary_guard_pearson" validate:"gte=0,lte=1"`
	PriorTalentWeight     float64   `mapstructure:"prior_talent_weight" validate:"gte=0"`
	PriorReturningOff     float64   `mapstructure:"prior_returning_off_weight" validate:"gte=0"`
	PriorReturningDef     float64   `mapstructure:"prior_returning_def_weight" validate:"gte=0"`
	OutputPath            string    `mapstructure:"output_path" validate:"required"`
}

// IngestionConfig represents data ingestion configuration
type IngestionConfig struct {
	Sources  []DataSourceConfig `mapstructure:"sources" validate:"required,min=1"`
	Schedule ScheduleConfig     `mapstructure:"schedule" validate:"required"`
}

// DataSourceConfig represents a single feed source configuration
type DataSourceConfig struct {
	Name      string `mapstructure:"name" validate:"required"`
	URL       string `mapstructure:"url" validate:"omitempty,url"`
	Enabled   bool   `mapstructure:"enabled"`
	BatchSize int    `mapstructure:"batch_size" validate:"omitempty,gt=0"`
	APIKey    string `mapstructure:"api_key"`
}

// ScheduleConfig represents feed synchronization scheduling
type ScheduleConfig struct {
	HistoricalSync      string `mapstructure:"historical_sync" validate:"required"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
