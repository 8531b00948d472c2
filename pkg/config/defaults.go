package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults. The listen port is fixed by the deployment
	// contract: one TCP port, 8000, bound on all interfaces.
	DefaultListenAddress  = "0.0.0.0:8000"
	DefaultMaxConnections = 1024
	DefaultBacklog        = 128
	DefaultIdleTimeout    = 120 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultDrainTimeout   = 30 * time.Second
	DefaultMaxFrameBytes  = 2 << 20 // 2 MiB

	// QR defaults
	DefaultMinImageSize    = 1000
	DefaultMaxContentBytes = 2 << 20

	// Request log defaults
	DefaultRequestLogPath        = "data/requests.db"
	DefaultRequestLogBufferSize  = 1024
	DefaultRequestLogBusyTimeout = 5 * time.Second
	DefaultRetentionDays         = 30
	DefaultPruneSchedule         = "0 3 * * *"

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsAddress   = "127.0.0.1:9090"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "qqr"
)

// Default returns a fully populated configuration. The result satisfies the
// deployment contract with no file and no environment present.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields in place. Explicitly configured
// values are never overwritten.
func ApplyDefaults(cfg *Config) {
	s := &cfg.Server
	if s.ListenAddress == "" {
		s.ListenAddress = DefaultListenAddress
	}
	if s.MaxConnections == 0 {
		s.MaxConnections = DefaultMaxConnections
	}
	if s.Backlog == 0 {
		s.Backlog = DefaultBacklog
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = Duration(DefaultIdleTimeout)
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = Duration(DefaultWriteTimeout)
	}
	if s.DrainTimeout == 0 {
		s.DrainTimeout = Duration(DefaultDrainTimeout)
	}
	if s.MaxFrameBytes == 0 {
		s.MaxFrameBytes = DefaultMaxFrameBytes
	}

	q := &cfg.QR
	if q.MinImageSize == 0 {
		q.MinImageSize = DefaultMinImageSize
	}
	if q.MaxContentBytes == 0 {
		q.MaxContentBytes = DefaultMaxContentBytes
	}

	r := &cfg.RequestLog
	if r.Path == "" {
		r.Path = DefaultRequestLogPath
	}
	if r.BufferSize == 0 {
		r.BufferSize = DefaultRequestLogBufferSize
	}
	if r.BusyTimeout == 0 {
		r.BusyTimeout = Duration(DefaultRequestLogBusyTimeout)
	}
	if r.RetentionDays == 0 {
		r.RetentionDays = DefaultRetentionDays
	}
	if r.PruneSchedule == "" {
		r.PruneSchedule = DefaultPruneSchedule
	}

	t := &cfg.Telemetry
	if t.Logging.Level == "" {
		t.Logging.Level = DefaultLogLevel
	}
	if t.Logging.Format == "" {
		t.Logging.Format = DefaultLogFormat
	}
	if t.Metrics.ListenAddress == "" {
		t.Metrics.ListenAddress = DefaultMetricsAddress
	}
	if t.Metrics.Path == "" {
		t.Metrics.Path = DefaultMetricsPath
	}
	if t.Metrics.Namespace == "" {
		t.Metrics.Namespace = DefaultMetricsNamespace
	}
}
