// Package config defines the janitor's configuration model.
//
// Configuration is loaded from a YAML file, filled with defaults, overridden
// by JANITOR_* environment variables, and validated — in that order.
//
//	store:
//	  driver: sqlite3
//	  path: data/portal.db
//	policy:
//	  file_path: config/policy.yaml
//	  watch: true
//	janitor:
//	  interval: 30s
//	  workers: 4
//	telemetry:
//	  logging:
//	    level: info
//	  metrics:
//	    listen_address: ":9090"
//
// Durations are written as Go duration strings ("30s", "720h").
//
// # Environment Overrides
//
// Every operational field has a JANITOR_SECTION_FIELD override, e.g.
// JANITOR_STORE_PATH, JANITOR_RUN_INTERVAL, JANITOR_DRY_RUN,
// JANITOR_POLICY_FILE_PATH, JANITOR_LOGGING_LEVEL,
// JANITOR_METRICS_LISTEN_ADDRESS. Overrides always win over file values.
//
// # Singleton
//
// Initialize loads the global configuration once at startup; GetConfig and
// MustGetConfig read it afterwards. Tests should construct Config values
// directly instead.
package config
