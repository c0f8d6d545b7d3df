// Package runner drives scheduled cleanup runs for the training portal.
//
// # Lifecycle
//
// The Runner is a three-state machine: Idle, Running, and Failed. A trigger
// moves Idle (or Failed) to Running; the run finishes back in Idle, or in
// Failed when the store was unreachable before any entity was processed.
// Only one run is ever active: triggers landing mid-run return ErrRunActive
// and are dropped, not queued.
//
// # Run Pipeline
//
// Each run enumerates candidates per policy category (or the whole store
// when a wildcard rule exists), deduplicates them, and fans entities out to
// a bounded pool of workers. Workers evaluate each entity against the rule
// table and hand eligible decisions to the executor. Entity failures never
// abort the run; a cancelled run finishes as partial with everything
// processed so far accounted for.
//
// # Scheduling
//
// The Scheduler triggers runs on a cron expression or, when none is set, on
// a fixed interval with an immediate first run. One-shot invocations call
// Runner.TryRun directly.
//
// # Reports
//
// Every run produces a Report carrying a unique run ID, the final state
// (completed, partial, failed), and counters for evaluated, applied,
// skipped, and failed entities. The last report is retained for inspection
// and health checks.
package runner
