package config

import "time"

// Default values applied to unset configuration fields.
const (
	DefaultStoreDriver    = "sqlite3"
	DefaultStorePath      = "data/portal.db"
	DefaultMaxOpenConns   = 10
	DefaultMaxIdleConns   = 5
	DefaultBusyTimeout    = 5 * time.Second
	DefaultPolicyFilePath = "config/policy.yaml"
	DefaultInterval       = 30 * time.Second
	DefaultWorkers        = 4
	DefaultMaxAttempts    = 3
	DefaultRetryBackoff   = 500 * time.Millisecond
	DefaultArchivePath    = "data/archives/"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultListenAddress  = ":9090"
	DefaultNamespace      = "trainingportal"
	DefaultTraceEndpoint  = "localhost:4317"
	DefaultTraceSampler   = "always"
)

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with their default values. It never
// overwrites a value the operator has set.
func ApplyDefaults(cfg *Config) {
	// Store defaults
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DefaultStoreDriver
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	if cfg.Store.MaxOpenConns == 0 {
		cfg.Store.MaxOpenConns = DefaultMaxOpenConns
	}
	if cfg.Store.MaxIdleConns == 0 {
		cfg.Store.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Store.WALMode == nil {
		walMode := true
		cfg.Store.WALMode = &walMode
	}
	if cfg.Store.BusyTimeout == 0 {
		cfg.Store.BusyTimeout = Duration(DefaultBusyTimeout)
	}

	// Policy defaults
	if cfg.Policy.FilePath == "" {
		cfg.Policy.FilePath = DefaultPolicyFilePath
	}

	// Janitor defaults
	if cfg.Janitor.Interval == 0 {
		cfg.Janitor.Interval = Duration(DefaultInterval)
	}
	if cfg.Janitor.Workers == 0 {
		cfg.Janitor.Workers = DefaultWorkers
	}
	if cfg.Janitor.MaxAttempts == 0 {
		cfg.Janitor.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Janitor.RetryBackoff == 0 {
		cfg.Janitor.RetryBackoff = Duration(DefaultRetryBackoff)
	}
	if cfg.Janitor.ArchivePath == "" {
		cfg.Janitor.ArchivePath = DefaultArchivePath
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Enabled == nil {
		enabled := true
		cfg.Telemetry.Metrics.Enabled = &enabled
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultListenAddress
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultNamespace
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTraceEndpoint
	}
	if cfg.Telemetry.Tracing.Insecure == nil {
		insecure := true
		cfg.Telemetry.Tracing.Insecure = &insecure
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTraceSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = 1.0
	}
}
