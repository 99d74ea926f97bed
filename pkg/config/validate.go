package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "bigtable.timeout").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
//
// Project and instance are not required here: commands that never contact
// the admin API run without them. Use RequireTarget before dialing.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateBigtable(&cfg.Bigtable)...)
	errs = append(errs, validateSchema(&cfg.Schema)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// RequireTarget checks the fields needed to address a table.
func (c *BigtableConfig) RequireTarget() error {
	var errs []FieldError
	if c.Project == "" {
		errs = append(errs, FieldError{Field: "bigtable.project", Message: "project is required"})
	}
	if c.Instance == "" {
		errs = append(errs, FieldError{Field: "bigtable.instance", Message: "instance is required"})
	}
	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateBigtable(cfg *BigtableConfig) []FieldError {
	var errs []FieldError

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "bigtable.timeout",
			Message: "timeout must not be negative",
		})
	}

	if cfg.EmulatorHost != "" {
		if _, _, err := net.SplitHostPort(cfg.EmulatorHost); err != nil {
			errs = append(errs, FieldError{
				Field:   "bigtable.emulator_host",
				Message: fmt.Sprintf("invalid emulator host %q: must be host:port", cfg.EmulatorHost),
			})
		}
	} else if cfg.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "bigtable.endpoint",
			Message: "endpoint is required when no emulator host is set",
		})
	}

	if cfg.EmulatorHost != "" && cfg.CredentialsFile != "" {
		errs = append(errs, FieldError{
			Field:   "bigtable.credentials_file",
			Message: "credentials are not used with the emulator",
		})
	}

	return errs
}

func validateSchema(cfg *SchemaConfig) []FieldError {
	var errs []FieldError

	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "schema.path",
			Message: "schema path is required",
		})
	}

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "schema.debounce",
			Message: "debounce must not be negative",
		})
	}

	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "schema.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Schedule, err),
			})
		}
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	if cfg.Retention < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention",
			Message: "retention must not be negative",
		})
	}

	switch cfg.Backend {
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "history.sqlite.path",
				Message: "sqlite path is required when backend is sqlite",
			})
		}
		if cfg.SQLite.MaxOpenConns < 1 {
			errs = append(errs, FieldError{
				Field:   "history.sqlite.max_open_conns",
				Message: "max open connections must be at least 1",
			})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{
				Field:   "history.sqlite.busy_timeout",
				Message: "busy timeout must not be negative",
			})
		}
	case "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "history.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'sqlite' or 'memory'", cfg.Backend),
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Path == "" || cfg.Metrics.Path[0] != '/' {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with /",
			})
		}
		if _, _, err := net.SplitHostPort(cfg.Metrics.ListenAddress); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: fmt.Sprintf("invalid listen address %q: must be host:port", cfg.Metrics.ListenAddress),
			})
		}
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	if cfg.Health.Enabled {
		for field, path := range map[string]string{
			"telemetry.health.liveness_path":  cfg.Health.LivenessPath,
			"telemetry.health.readiness_path": cfg.Health.ReadinessPath,
		} {
			if path == "" || path[0] != '/' {
				errs = append(errs, FieldError{
					Field:   field,
					Message: "path must start with /",
				})
			}
		}
		if cfg.Health.CheckTimeout <= 0 {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.check_timeout",
				Message: "check timeout must be positive",
			})
		}
	}

	return errs
}
