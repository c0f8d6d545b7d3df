// Package metrics provides Prometheus metrics for the training portal janitor.
//
// # Overview
//
// The Collector owns a private Prometheus registry holding counters for
// cleanup runs, evaluated entities, executor outcomes, policy violations, and
// coalesced triggers, plus a run-duration histogram. The standard Go and
// process collectors are registered alongside.
//
// # Usage
//
//	collector := metrics.NewCollector(metrics.DefaultConfig())
//
//	collector.RecordEvaluated("session")
//	collector.RecordAction(janitor.ActionDelete, janitor.OutcomeApplied)
//	collector.RecordRun("completed", 12*time.Second)
//
// All Record methods are nil-receiver safe, so a disabled collector can be
// passed around as nil without guards.
//
// # Endpoint
//
// Metrics are served on a dedicated listener, separate from any portal
// traffic:
//
//	srv := metrics.NewServer(":9090", collector)
//	srv.Start()
//	defer srv.Shutdown(ctx)
//
// Example exposition:
//
//	# HELP trainingportal_janitor_runs_total Total number of cleanup runs by final state
//	# TYPE trainingportal_janitor_runs_total counter
//	trainingportal_janitor_runs_total{state="completed"} 42
package metrics
