// Package config provides configuration management for the Gridiron Edge
// rating pipeline.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("weeks", validateWeeks)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateWeeks validates a week-number list
func validateWeeks(fl validator.FieldLevel) bool {
	weeks, ok := fl.Field().Interface().([]int)
	if !ok || len(weeks) == 0 {
		return false
	}

	seen := make(map[int]bool, len(weeks))
	for _, week := range weeks {
		if week < 1 || week > 20 {
			return false
		}
		if seen[week] {
			return false
		}
		seen[week] = true
	}
	return true
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Validation weeks must be drawn from the configured season weeks
	seasonWeeks := make(map[int]bool, len(cfg.Pipeline.Weeks))
	for _, week := range cfg.Pipeline.Weeks {
		seasonWeeks[week] = true
	}
	for _, week := range cfg.Pipeline.ValidationWeeks {
		if !seasonWeeks[week] {
			return fmt.Errorf("validation week %d is not in pipeline.weeks", week)
		}
	}

	// Lambda grid values must be non-negative
	for _, lambda := range cfg.Pipeline.LambdaGrid {
		if lambda < 0 {
			return fmt.Errorf("lambda_grid values must be non-negative, got %v", lambda)
		}
	}

	// The blend grid must include both endpoints
	if cfg.Pipeline.BlendWeightStep > 0 {
		steps := 1.0 / cfg.Pipeline.BlendWeightStep
		if steps != float64(int(steps)) {
			return fmt.Errorf("blend_weight_step must divide 1.0 evenly, got %v", cfg.Pipeline.BlendWeightStep)
		}
	}

	// Validate production environment requirements
	if cfg.IsProduction() {
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	// Validate connection pool settings
	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "weeks":
			errMsg += fmt.Sprintf("- Field '%s' must be a non-empty list of distinct week numbers between 1 and 20\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		// Production must have SSL enabled
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}

		// Production feeds must carry real credentials
		for _, source := range cfg.Ingestion.Sources {
			if source.Enabled && source.APIKey == "" {
				return fmt.Errorf("production feed source %q requires an API key", source.Name)
			}
		}
	}

	return nil
}
