package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates all validation failures so operators see every
// problem in one pass.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d configuration error(s): %s", len(e), strings.Join(msgs, "; "))
}

// Validate checks the configuration for consistency. Defaults must already
// be applied.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	// Store
	switch cfg.Store.Driver {
	case "sqlite3", "sqlite":
	default:
		errs = append(errs, &ValidationError{
			Field:   "store.driver",
			Message: fmt.Sprintf("unsupported driver %q (valid: sqlite3, sqlite)", cfg.Store.Driver),
		})
	}
	if cfg.Store.Path == "" {
		errs = append(errs, &ValidationError{
			Field:   "store.path",
			Message: "database path is required",
		})
	}
	if cfg.Store.MaxOpenConns < 0 {
		errs = append(errs, &ValidationError{
			Field:   "store.max_open_conns",
			Message: "must not be negative",
		})
	}
	if cfg.Store.MaxIdleConns < 0 {
		errs = append(errs, &ValidationError{
			Field:   "store.max_idle_conns",
			Message: "must not be negative",
		})
	}
	if cfg.Store.BusyTimeout < 0 {
		errs = append(errs, &ValidationError{
			Field:   "store.busy_timeout",
			Message: "must not be negative",
		})
	}

	// Policy
	if cfg.Policy.FilePath == "" {
		errs = append(errs, &ValidationError{
			Field:   "policy.file_path",
			Message: "rule file path is required",
		})
	}

	// Janitor
	if cfg.Janitor.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Janitor.Schedule); err != nil {
			errs = append(errs, &ValidationError{
				Field:   "janitor.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Janitor.Schedule, err),
			})
		}
	}
	if cfg.Janitor.Interval <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "janitor.interval",
			Message: "must be positive",
		})
	}
	if cfg.Janitor.Workers <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "janitor.workers",
			Message: "must be positive",
		})
	}
	if cfg.Janitor.MaxAttempts <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "janitor.max_attempts",
			Message: "must be positive",
		})
	}
	if cfg.Janitor.RetryBackoff <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "janitor.retry_backoff",
			Message: "must be positive",
		})
	}
	if cfg.Janitor.ArchiveBeforeDelete && cfg.Janitor.ArchivePath == "" {
		errs = append(errs, &ValidationError{
			Field:   "janitor.archive_path",
			Message: "required when archive_before_delete is enabled",
		})
	}

	// Telemetry
	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, &ValidationError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (valid: debug, info, warn, error)", cfg.Telemetry.Logging.Level),
		})
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, &ValidationError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (valid: json, text)", cfg.Telemetry.Logging.Format),
		})
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		errs = append(errs, &ValidationError{
			Field:   "telemetry.metrics.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.Telemetry.Tracing.Enabled {
		if cfg.Telemetry.Tracing.Endpoint == "" {
			errs = append(errs, &ValidationError{
				Field:   "telemetry.tracing.endpoint",
				Message: "endpoint is required when tracing is enabled",
			})
		}
		switch cfg.Telemetry.Tracing.Sampler {
		case "always", "never", "ratio":
		default:
			errs = append(errs, &ValidationError{
				Field:   "telemetry.tracing.sampler",
				Message: fmt.Sprintf("unknown sampler %q (valid: always, never, ratio)", cfg.Telemetry.Tracing.Sampler),
			})
		}
		if cfg.Telemetry.Tracing.Sampler == "ratio" &&
			(cfg.Telemetry.Tracing.SampleRatio < 0 || cfg.Telemetry.Tracing.SampleRatio > 1) {
			errs = append(errs, &ValidationError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: "must be between 0.0 and 1.0",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
