// Package health provides liveness and readiness probes for the janitor.
//
// The Checker aggregates named component checks: the store's Ping and the
// runner's last-run state are registered at startup. Probes are served on
// the same listener as the metrics endpoint:
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("store", store.Ping)
//	health.Register(mux, checker, version, commit, buildTime)
//
// Liveness is always ok while the process runs; readiness degrades (503)
// when any component check fails.
package health
