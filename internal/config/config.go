// Package config defines service configuration structures and loading hooks.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PersistQueueSize bounds the in-memory persist job queue.
	PersistQueueSize int `koanf:"persist_queue_size"`

	// PersistWorkers sets the number of workers writing picklists to the store.
	PersistWorkers int `koanf:"persist_workers"`

	// DedupeSize bounds how many mutation request ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxMatchCount caps the number of matches per schedule request.
	MaxMatchCount int `koanf:"max_match_count"`

	// MaxRobotsPerMatch caps robots tracked per match.
	MaxRobotsPerMatch int `koanf:"max_robots_per_match"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		PersistQueueSize:  10_000,
		PersistWorkers:    runtime.NumCPU(),
		DedupeSize:        50_000,
		MaxMatchCount:     200,
		MaxRobotsPerMatch: 6,
	}
}
