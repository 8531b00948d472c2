// Package config loads, validates and watches the service configuration.
//
// # Overview
//
// Configuration comes from a YAML file; every field has a default, so the
// binary also runs with no file at all (the deployment contract declares no
// required environment and no flags). Loading is defaults-then-validate:
//
//	cfg, err := config.Load("config.yaml")
//
// Environment variables with the QQR_ prefix may override a small set of
// fields (listen address, log level, connection limit, drain timeout,
// metrics address); they are optional and never required.
//
// # Immutability
//
// Listener-level fields (address, limits, timeouts) are immutable after
// start. The optional file watcher re-reads the file on change and applies
// only the runtime-safe subset — currently the log level — leaving the
// serving configuration untouched.
package config
