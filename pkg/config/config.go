package config

// Config is the root configuration for the qqr service.
type Config struct {
	// Server configures the TCP listener and connection handling.
	Server ServerConfig `yaml:"server"`

	// QR configures the QR rendering dispatcher.
	QR QRConfig `yaml:"qr"`

	// RequestLog configures the optional SQLite request audit log.
	RequestLog RequestLogConfig `yaml:"request_log"`

	// Telemetry configures logging and the optional metrics listener.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains the listener and connection settings. All fields
// are immutable once the server has started.
type ServerConfig struct {
	// ListenAddress is the host:port the service binds.
	// Default: "0.0.0.0:8000".
	ListenAddress string `yaml:"listen_address"`

	// MaxConnections bounds concurrently open connections; connections
	// beyond the limit are rejected immediately. Zero means unlimited.
	// Default: 1024.
	MaxConnections int `yaml:"max_connections"`

	// Backlog is the desired listen(2) backlog. Go's runtime manages the
	// real backlog, so this field is advisory and only validated; the
	// effective backpressure mechanism is MaxConnections.
	Backlog int `yaml:"backlog"`

	// IdleTimeout closes a connection when no complete frame arrives
	// within the interval. Default: 120s.
	IdleTimeout Duration `yaml:"idle_timeout"`

	// WriteTimeout bounds writing one response. Default: 30s.
	WriteTimeout Duration `yaml:"write_timeout"`

	// DrainTimeout bounds the graceful shutdown wait before remaining
	// connections are force-closed. Default: 30s.
	DrainTimeout Duration `yaml:"drain_timeout"`

	// MaxFrameBytes bounds a single request body. Default: 2 MiB.
	MaxFrameBytes int `yaml:"max_frame_bytes"`
}

// QRConfig contains the QR rendering settings.
type QRConfig struct {
	// MinImageSize is the minimum rendered image edge in pixels.
	// Default: 1000.
	MinImageSize int `yaml:"min_image_size"`

	// MaxContentBytes bounds the text accepted for encoding.
	// Default: 2 MiB (matching MaxFrameBytes).
	MaxContentBytes int `yaml:"max_content_bytes"`
}

// RequestLogConfig contains the request audit log settings. The log is off
// by default because the runtime image promises no writable paths.
type RequestLogConfig struct {
	// Enabled turns the request log on.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `yaml:"path"`

	// BufferSize is the async write queue length; records are dropped,
	// not blocked on, when the queue is full. Default: 1024.
	BufferSize int `yaml:"buffer_size"`

	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout Duration `yaml:"busy_timeout"`

	// RetentionDays prunes records older than this. Zero disables
	// age-based pruning. Default: 30.
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords caps the table row count; the oldest rows beyond the cap
	// are pruned. Zero disables the cap.
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduled pruning.
	// Default: "0 3 * * *" (daily at 3 AM). Empty disables the scheduler.
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`

	// WatchConfig re-reads the config file on change and applies the
	// runtime-safe subset (log level). Default: false.
	WatchConfig bool `yaml:"watch_config"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error. Default: info.
	Level string `yaml:"level"`

	// Format is json or text. Default: json.
	Format string `yaml:"format"`
}

// MetricsConfig controls the optional Prometheus listener. It is off by
// default so the deployed contract of a single TCP port holds.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the host:port of the admin listener.
	// Default: "127.0.0.1:9090".
	ListenAddress string `yaml:"listen_address"`

	// Path is the exposition endpoint. Default: "/metrics".
	Path string `yaml:"path"`

	// Namespace prefixes every metric name. Default: "qqr".
	Namespace string `yaml:"namespace"`
}
