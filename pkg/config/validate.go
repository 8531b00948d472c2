package config

import (
	"fmt"
	"net"
	"strings"
)

// FieldError is a validation error for one configuration field.
type FieldError struct {
	// Field is the dotted path of the field (e.g. "server.listen_address").
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every validation failure in a configuration so
// one run reports all problems at once.
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks the whole configuration and returns a ValidationError
// listing every failed field, or nil when the configuration is valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateQR(&cfg.QR)...)
	errs = append(errs, validateRequestLog(&cfg.RequestLog)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(s *ServerConfig) []FieldError {
	var errs []FieldError

	if _, _, err := net.SplitHostPort(s.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid host:port %q", s.ListenAddress),
		})
	}
	if s.MaxConnections < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_connections",
			Message: "must not be negative",
		})
	}
	if s.Backlog < 0 {
		errs = append(errs, FieldError{
			Field:   "server.backlog",
			Message: "must not be negative",
		})
	}
	if s.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "must not be negative",
		})
	}
	if s.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "must not be negative",
		})
	}
	if s.DrainTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.drain_timeout",
			Message: "must be positive",
		})
	}
	if s.MaxFrameBytes <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_frame_bytes",
			Message: "must be positive",
		})
	}

	return errs
}

func validateQR(q *QRConfig) []FieldError {
	var errs []FieldError

	if q.MinImageSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "qr.min_image_size",
			Message: "must be positive",
		})
	}
	if q.MaxContentBytes <= 0 {
		errs = append(errs, FieldError{
			Field:   "qr.max_content_bytes",
			Message: "must be positive",
		})
	}

	return errs
}

func validateRequestLog(r *RequestLogConfig) []FieldError {
	var errs []FieldError

	if !r.Enabled {
		return nil
	}
	if r.Path == "" {
		errs = append(errs, FieldError{
			Field:   "request_log.path",
			Message: "must be set when the request log is enabled",
		})
	}
	if r.BufferSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "request_log.buffer_size",
			Message: "must be positive",
		})
	}
	if r.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "request_log.retention_days",
			Message: "must not be negative",
		})
	}
	if r.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "request_log.max_records",
			Message: "must not be negative",
		})
	}

	return errs
}

func validateTelemetry(t *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch t.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q", t.Logging.Level),
		})
	}
	switch t.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q", t.Logging.Format),
		})
	}

	if t.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(t.Metrics.ListenAddress); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: fmt.Sprintf("invalid host:port %q", t.Metrics.ListenAddress),
			})
		}
		if !strings.HasPrefix(t.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "must start with /",
			})
		}
	}

	return errs
}
