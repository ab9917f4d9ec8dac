// Package config loads the dashboard's operator settings.
//
// Settings are layered, lowest precedence first: built-in defaults, an
// optional YAML file named by PODIUM_CONFIG, then PODIUM_* environment
// variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/navidrome/podium/consts"
)

const (
	envPrefix     = "PODIUM_"
	configFileEnv = "PODIUM_CONFIG"
)

// ErrInvalidConfig marks settings that failed validation.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Port the HTTP server listens on.
	Port string `koanf:"port"`

	// DataFolder is the base directory for the data file and the exported
	// chart data. Relative DataFile paths are resolved against it.
	DataFolder string `koanf:"data_folder"`
	DataFile   string `koanf:"data_file"`

	// PreferredCountry is selected by default when the dataset has it.
	PreferredCountry string `koanf:"preferred_country"`
	TopAthletes      int    `koanf:"top_athletes"`

	// APIKey protects /api/charts when set.
	APIKey string `koanf:"api_key"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		Port:              consts.DefaultPort,
		DataFolder:        ".",
		DataFile:          consts.DataFile,
		PreferredCountry:  consts.PreferredCountry,
		TopAthletes:       consts.TopAthletesCount,
		RateLimitRequests: consts.RateLimitRequests,
		RateLimitWindow:   consts.RateLimitWindow,
	}
}

// Load builds a Config from defaults, the optional file and the environment.
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(configFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	// PODIUM_DATA_FILE -> data_file
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Port == "":
		return fmt.Errorf("%w: port must not be empty", ErrInvalidConfig)
	case c.DataFile == "":
		return fmt.Errorf("%w: data_file must not be empty", ErrInvalidConfig)
	case c.TopAthletes <= 0:
		return fmt.Errorf("%w: top_athletes must be positive, got %d", ErrInvalidConfig, c.TopAthletes)
	case c.RateLimitRequests <= 0:
		return fmt.Errorf("%w: rate_limit_requests must be positive, got %d", ErrInvalidConfig, c.RateLimitRequests)
	case c.RateLimitWindow <= 0:
		return fmt.Errorf("%w: rate_limit_window must be positive, got %s", ErrInvalidConfig, c.RateLimitWindow)
	}
	return nil
}

// DataPath returns the location of the source file.
func (c *Config) DataPath() string {
	if filepath.IsAbs(c.DataFile) {
		return c.DataFile
	}
	return filepath.Join(c.DataFolder, c.DataFile)
}

// ChartDataDir returns where exported chart data is written.
func (c *Config) ChartDataDir() string {
	return filepath.Join(c.DataFolder, consts.ChartDataDir)
}
