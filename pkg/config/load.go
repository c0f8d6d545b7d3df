package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the convention
// JANITOR_SECTION_FIELD (e.g. JANITOR_STORE_PATH) and always take precedence
// over file values.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies JANITOR_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	// Store overrides
	if val := os.Getenv("JANITOR_STORE_DRIVER"); val != "" {
		cfg.Store.Driver = val
	}
	if val := os.Getenv("JANITOR_STORE_PATH"); val != "" {
		cfg.Store.Path = val
	}
	if val := os.Getenv("JANITOR_STORE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Store.BusyTimeout = Duration(d)
		}
	}

	// Policy overrides
	if val := os.Getenv("JANITOR_POLICY_FILE_PATH"); val != "" {
		cfg.Policy.FilePath = val
	}
	if val := os.Getenv("JANITOR_POLICY_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Policy.Watch = b
		}
	}

	// Janitor overrides
	if val := os.Getenv("JANITOR_RUN_SCHEDULE"); val != "" {
		cfg.Janitor.Schedule = val
	}
	if val := os.Getenv("JANITOR_RUN_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Janitor.Interval = Duration(d)
		}
	}
	if val := os.Getenv("JANITOR_RUN_WORKERS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Janitor.Workers = i
		}
	}
	if val := os.Getenv("JANITOR_DRY_RUN"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Janitor.DryRun = b
		}
	}
	if val := os.Getenv("JANITOR_MAX_ATTEMPTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Janitor.MaxAttempts = i
		}
	}
	if val := os.Getenv("JANITOR_RETRY_BACKOFF"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Janitor.RetryBackoff = Duration(d)
		}
	}
	if val := os.Getenv("JANITOR_ARCHIVE_BEFORE_DELETE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Janitor.ArchiveBeforeDelete = b
		}
	}
	if val := os.Getenv("JANITOR_ARCHIVE_PATH"); val != "" {
		cfg.Janitor.ArchivePath = val
	}

	// Telemetry overrides
	if val := os.Getenv("JANITOR_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("JANITOR_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("JANITOR_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
	if val := os.Getenv("JANITOR_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("JANITOR_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("JANITOR_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("JANITOR_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}
