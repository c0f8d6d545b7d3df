package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"trainingportal-hq/janitor/pkg/janitor"
)

// Config contains metrics collection configuration.
type Config struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool

	// Namespace is the metric name prefix.
	// Default: "trainingportal"
	Namespace string

	// Subsystem is the metric subsystem name.
	// Default: "janitor"
	Subsystem string

	// RunDurationBuckets defines histogram buckets for run duration in seconds.
	// Default: [0.1, 0.5, 1.0, 5.0, 15.0, 60.0, 300.0, 900.0]
	RunDurationBuckets []float64
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:            true,
		Namespace:          "trainingportal",
		Subsystem:          "janitor",
		RunDurationBuckets: []float64{0.1, 0.5, 1.0, 5.0, 15.0, 60.0, 300.0, 900.0},
	}
}

// Collector owns the Prometheus registry and all janitor metrics.
//
// Exposed metrics:
//
//   - trainingportal_janitor_runs_total{state}: cleanup runs by final state
//   - trainingportal_janitor_run_duration_seconds: run duration histogram
//   - trainingportal_janitor_entities_evaluated_total{category}: evaluated entities
//   - trainingportal_janitor_actions_total{action,outcome}: executor outcomes
//   - trainingportal_janitor_policy_violations_total: entities skipped for malformed data
//   - trainingportal_janitor_triggers_coalesced_total: triggers dropped while a run was active
//
// All methods are nil-safe so callers never need to guard the disabled case.
type Collector struct {
	registry *prometheus.Registry
	config   *Config

	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	evaluatedTotal  *prometheus.CounterVec
	actionsTotal    *prometheus.CounterVec
	violationsTotal prometheus.Counter
	coalescedTotal  prometheus.Counter
}

// NewCollector creates a collector with a private registry and registers the
// janitor metrics plus the standard Go and process collectors.
func NewCollector(config *Config) *Collector {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Namespace == "" {
		config.Namespace = "trainingportal"
	}
	if config.Subsystem == "" {
		config.Subsystem = "janitor"
	}
	if len(config.RunDurationBuckets) == 0 {
		config.RunDurationBuckets = DefaultConfig().RunDurationBuckets
	}

	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		config:   config,

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of cleanup runs by final state",
			},
			[]string{"state"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of cleanup runs in seconds",
				Buckets:   config.RunDurationBuckets,
			},
		),

		evaluatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "entities_evaluated_total",
				Help:      "Total number of entities evaluated by category",
			},
			[]string{"category"},
		),

		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "actions_total",
				Help:      "Total number of cleanup actions by action and outcome",
			},
			[]string{"action", "outcome"},
		),

		violationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "policy_violations_total",
				Help:      "Total number of entities skipped for malformed data",
			},
		),

		coalescedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: config.Namespace,
				Subsystem: config.Subsystem,
				Name:      "triggers_coalesced_total",
				Help:      "Total number of run triggers coalesced while a run was active",
			},
		),
	}

	registry.MustRegister(
		c.runsTotal,
		c.runDuration,
		c.evaluatedTotal,
		c.actionsTotal,
		c.violationsTotal,
		c.coalescedTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// RecordRun records one finished run with its final state ("completed",
// "partial", "failed") and duration.
func (c *Collector) RecordRun(state string, duration time.Duration) {
	if c == nil {
		return
	}
	c.runsTotal.WithLabelValues(state).Inc()
	c.runDuration.Observe(duration.Seconds())
}

// RecordEvaluated records an evaluated entity.
func (c *Collector) RecordEvaluated(category string) {
	if c == nil {
		return
	}
	c.evaluatedTotal.WithLabelValues(category).Inc()
}

// RecordAction records one executor outcome.
func (c *Collector) RecordAction(action janitor.Action, outcome janitor.Outcome) {
	if c == nil {
		return
	}
	c.actionsTotal.WithLabelValues(string(action), string(outcome)).Inc()
}

// RecordPolicyViolation records an entity skipped for malformed data.
func (c *Collector) RecordPolicyViolation() {
	if c == nil {
		return
	}
	c.violationsTotal.Inc()
}

// RecordCoalescedTrigger records a run trigger dropped because a run was
// already active.
func (c *Collector) RecordCoalescedTrigger() {
	if c == nil {
		return
	}
	c.coalescedTotal.Inc()
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
