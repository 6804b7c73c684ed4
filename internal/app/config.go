package app

import "errors"

// Config holds the process-level configuration for an App instance to run.
// Everything about the sweep itself lives in the campaign file.
type Config struct {
	ConfigPath string // campaign HCL file
	BasePath   string // optional override of the campaign's base_path

	LogFormat    string
	LogLevel     string
	EstimateOnly bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
