// Package config provides configuration loading and validation for quill.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/quillmail/quill/internal/paths"
)

// Defaults applied when the config file is absent or fields are unset.
const (
	DefaultEndpoint    = "http://localhost:8787/api/chat"
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
	DefaultLogLevel    = "info"
)

// Config is the global quill configuration.
type Config struct {
	// Backend configures the streaming reply endpoint.
	Backend BackendConfig `toml:"backend"`

	// Chat configures conversation behavior.
	Chat ChatConfig `toml:"chat"`

	// Log configures logging.
	Log LogConfig `toml:"log"`
}

// BackendConfig configures the streaming reply endpoint.
type BackendConfig struct {
	Endpoint    string  `toml:"endpoint"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max-tokens"`
	Temperature float64 `toml:"temperature"`
}

// ChatConfig configures conversation behavior.
type ChatConfig struct {
	// Greeting seeds every new conversation.
	Greeting string `toml:"greeting"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Endpoint:    DefaultEndpoint,
			Model:       DefaultModel,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads the global config from its default path. A missing file is
// not an error: defaults are returned.
func Load() (*Config, error) {
	path, err := paths.ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the config from a specific path, applying defaults
// for unset fields. A missing file yields the full defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills fields an explicit config file left unset.
func applyDefaults(cfg *Config) {
	if cfg.Backend.Endpoint == "" {
		cfg.Backend.Endpoint = DefaultEndpoint
	}
	if cfg.Backend.Model == "" {
		cfg.Backend.Model = DefaultModel
	}
	if cfg.Backend.MaxTokens == 0 {
		cfg.Backend.MaxTokens = DefaultMaxTokens
	}
	if cfg.Backend.Temperature == 0 {
		cfg.Backend.Temperature = DefaultTemperature
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
