package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
// It covers process-level concerns only; the matrix itself is declared in
// grid files.
type Config struct {
	GridPath string // .hcl file or directory

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// MaxConcurrency, when positive, overrides the settings block of the
	// grid files.
	MaxConcurrency int
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	if cfg.MaxConcurrency < 0 {
		return nil, errors.New("MaxConcurrency cannot be negative")
	}

	return &cfg, nil
}
