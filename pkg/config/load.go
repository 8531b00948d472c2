package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, applies defaults, applies QQR_*
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to the defaults when the
// file does not exist. The deployment runs the binary with no arguments and
// no mounted config, so a missing file is the normal case, not an error.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		applyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// applyEnvOverrides applies the optional QQR_* environment overrides.
// Unset variables leave the configuration untouched; none are required.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("QQR_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("QQR_MAX_CONNECTIONS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Server.MaxConnections = n
		}
	}
	if val := os.Getenv("QQR_DRAIN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.DrainTimeout = Duration(d)
		}
	}
	if val := os.Getenv("QQR_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("QQR_METRICS_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
		cfg.Telemetry.Metrics.Enabled = true
	}
}
