package config

import (
	"strings"
	"testing"
)

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.ListenAddress = "not-an-address"
	cfg.Server.MaxFrameBytes = -1
	cfg.QR.MinImageSize = 0
	cfg.QR.MinImageSize = -5

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation to fail")
	}

	verr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("Expected 3 field errors, got %d: %v", len(verr.Errors), verr)
	}
	if !strings.Contains(err.Error(), "server.listen_address") {
		t.Errorf("Missing listen_address error in: %s", err)
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad listen address", func(c *Config) { c.Server.ListenAddress = "8000" }, "server.listen_address"},
		{"negative connections", func(c *Config) { c.Server.MaxConnections = -1 }, "server.max_connections"},
		{"zero drain timeout", func(c *Config) { c.Server.DrainTimeout = 0 }, "server.drain_timeout"},
		{"negative idle timeout", func(c *Config) { c.Server.IdleTimeout = -1 }, "server.idle_timeout"},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "chatty" }, "telemetry.logging.level"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{
			"bad metrics address",
			func(c *Config) {
				c.Telemetry.Metrics.Enabled = true
				c.Telemetry.Metrics.ListenAddress = "nope"
			},
			"telemetry.metrics.listen_address",
		},
		{
			"request log path required",
			func(c *Config) {
				c.RequestLog.Enabled = true
				c.RequestLog.Path = ""
			},
			"request_log.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Expected validation to fail")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Expected error on %s, got: %s", tt.field, err)
			}
		})
	}
}

func TestValidate_DisabledSectionsSkipped(t *testing.T) {
	cfg := Default()
	// Bad values in disabled sections must not fail validation.
	cfg.Telemetry.Metrics.ListenAddress = "nope"
	cfg.RequestLog.Path = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("Disabled sections should not be validated: %v", err)
	}
}
