package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SCOUTOPS_"

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. YAML file named by SCOUTOPS_CONFIG, if set
//  3. SCOUTOPS_* environment variables
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SCOUTOPS_PERSIST_QUEUE_SIZE -> persist_queue_size; keys stay flat.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.PersistQueueSize < 1:
		return fmt.Errorf("%w: persist_queue_size must be positive", ErrInvalidConfig)
	case c.PersistWorkers < 1:
		return fmt.Errorf("%w: persist_workers must be positive", ErrInvalidConfig)
	case c.MaxMatchCount < 0:
		return fmt.Errorf("%w: max_match_count must not be negative", ErrInvalidConfig)
	case c.MaxRobotsPerMatch < 0:
		return fmt.Errorf("%w: max_robots_per_match must not be negative", ErrInvalidConfig)
	}
	return nil
}
