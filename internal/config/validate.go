// Package config provides configuration validation for quill.
package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validation errors.
var (
	ErrInvalidEndpoint    = errors.New("backend endpoint is not a valid http(s) URL")
	ErrInvalidMaxTokens   = errors.New("max-tokens must be between 1 and 32768")
	ErrInvalidTemperature = errors.New("temperature must be between 0 and 2")
	ErrInvalidLogLevel    = errors.New("log level must be debug, info, warn, or error")
)

// Bounds for numeric settings.
const (
	MaxMaxTokens   = 32768
	MaxTemperature = 2.0
)

// validLogLevels is the set of accepted log levels.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidationError wraps a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks a loaded configuration.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.Backend.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{
			Field:   "backend.endpoint",
			Value:   cfg.Backend.Endpoint,
			Message: "must be an http or https URL",
			Err:     ErrInvalidEndpoint,
		}
	}

	if cfg.Backend.MaxTokens < 1 || cfg.Backend.MaxTokens > MaxMaxTokens {
		return &ValidationError{
			Field:   "backend.max-tokens",
			Value:   fmt.Sprintf("%d", cfg.Backend.MaxTokens),
			Message: fmt.Sprintf("must be between 1 and %d", MaxMaxTokens),
			Err:     ErrInvalidMaxTokens,
		}
	}

	if cfg.Backend.Temperature < 0 || cfg.Backend.Temperature > MaxTemperature {
		return &ValidationError{
			Field:   "backend.temperature",
			Value:   fmt.Sprintf("%g", cfg.Backend.Temperature),
			Message: fmt.Sprintf("must be between 0 and %g", MaxTemperature),
			Err:     ErrInvalidTemperature,
		}
	}

	if !validLogLevels[cfg.Log.Level] {
		return &ValidationError{
			Field:   "log.level",
			Value:   cfg.Log.Level,
			Message: "must be debug, info, warn, or error",
			Err:     ErrInvalidLogLevel,
		}
	}

	return nil
}
