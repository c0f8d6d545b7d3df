package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML either as a Go
// duration string ("30s", "720h") or as integer nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}

	return fmt.Errorf("invalid duration value at line %d", value.Line)
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration for the janitor.
type Config struct {
	// Store configures the portal data store connection.
	Store StoreConfig `yaml:"store"`

	// Policy configures the cleanup rule table.
	Policy PolicyConfig `yaml:"policy"`

	// Janitor configures run scheduling and execution.
	Janitor JanitorConfig `yaml:"janitor"`

	// Telemetry configures logging, metrics, and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StoreConfig contains data store configuration.
type StoreConfig struct {
	// Driver selects the SQLite driver: "sqlite3" (cgo, mattn) or
	// "sqlite" (pure Go, modernc).
	// Default: "sqlite3"
	Driver string `yaml:"driver"`

	// Path is the SQLite database file path.
	// Default: "data/portal.db"
	Path string `yaml:"path"`

	// MaxOpenConns limits open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns limits idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode *bool `yaml:"wal_mode"`

	// BusyTimeout is the SQLite busy timeout.
	// Default: 5s
	BusyTimeout Duration `yaml:"busy_timeout"`
}

// PolicyConfig contains cleanup policy configuration.
type PolicyConfig struct {
	// FilePath is the path to the YAML rule file.
	// Default: "config/policy.yaml"
	FilePath string `yaml:"file_path"`

	// Watch enables hot reload of the rule file on change.
	// Default: false
	Watch bool `yaml:"watch"`
}

// JanitorConfig contains run scheduling and execution configuration.
type JanitorConfig struct {
	// Schedule is a cron expression for run triggers. When set it takes
	// precedence over Interval.
	// Example: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule"`

	// Interval is the fixed delay between runs when Schedule is empty.
	// Default: 30s
	Interval Duration `yaml:"interval"`

	// Workers is the number of concurrent cleanup workers per run.
	// Default: 4
	Workers int `yaml:"workers"`

	// DryRun logs would-be actions instead of applying them.
	// Default: false
	DryRun bool `yaml:"dry_run"`

	// MaxAttempts bounds retries for retryable store errors per entity.
	// Default: 3
	MaxAttempts int `yaml:"max_attempts"`

	// RetryBackoff is the initial retry delay; it doubles per attempt.
	// Default: 500ms
	RetryBackoff Duration `yaml:"retry_backoff"`

	// ArchiveBeforeDelete exports entities to JSON before destructive
	// actions.
	// Default: false
	ArchiveBeforeDelete bool `yaml:"archive_before_delete"`

	// ArchivePath is the directory for archived entities.
	// Default: "data/archives/"
	ArchivePath string `yaml:"archive_path"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// Enabled controls the metrics endpoint.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// ListenAddress is the operations listener address serving /metrics
	// and the health probes.
	// Default: ":9090"
	ListenAddress string `yaml:"listen_address"`

	// Namespace is the metric name prefix.
	// Default: "trainingportal"
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains tracing configuration.
type TracingConfig struct {
	// Enabled controls span recording and export.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS on the exporter connection.
	// Default: true
	Insecure *bool `yaml:"insecure"`

	// Sampler is the sampling strategy ("always", "never", "ratio").
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the sampling ratio for the "ratio" strategy.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`
}
