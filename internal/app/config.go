package app

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by NewConfig for unusable settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GridPath    string // hcl files
	ModulesPath string // runner manifests

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int

	// Resume lists "<runner_type>.<name>" steps released from a manual pause.
	Resume []string
	// ReportPath, when set, receives a YAML summary of the run.
	ReportPath string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, fmt.Errorf("%w: GridPath is a required configuration field and cannot be empty", ErrInvalidConfig)
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("%w: worker count must be at least 1, got %d", ErrInvalidConfig, cfg.WorkerCount)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("%w: healthcheck port %d out of range", ErrInvalidConfig, cfg.HealthcheckPort)
	}
	return &cfg, nil
}
