// Package config loads CLI configuration from GPUCLOUD_* environment
// variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config holds client configuration loaded from environment variables.
type Config struct {
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8080/api/v1"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"30s"`
	Debug      bool          `envconfig:"DEBUG" default:"false"`

	// TokenFile is where the CLI persists the session; empty means
	// ~/.gpucloud/tokens.json.
	TokenFile string `envconfig:"TOKEN_FILE" default:""`

	// RedisAddr switches token storage to redis when set.
	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"gpucloud:"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("gpucloud", &cfg); err != nil {
		return nil, errors.Wrap(err, "config: process environment")
	}
	if cfg.TokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "config: resolve home directory")
		}
		cfg.TokenFile = filepath.Join(home, ".gpucloud", "tokens.json")
	}
	return &cfg, nil
}
