// Package executor applies cleanup decisions against the portal store.
//
// # Outcomes
//
// Every decision yields exactly one outcome:
//
//   - applied: the action was performed
//   - skipped: nothing to do (entity already gone, or dry-run mode)
//   - failed: the action was rejected after bounded retries
//
// # Idempotence
//
// Actions are safe to retry across runs: deleting an entity that no longer
// exists surfaces as a NotFoundError from the store and is recorded as
// skipped. Re-archiving an archived entity and re-anonymizing an anonymized
// one are no-ops at the store level.
//
// # Failure Isolation
//
// Retryable (connectivity) errors are retried with exponential backoff up to
// MaxAttempts; everything else fails immediately. Failures are recorded in
// the outcome and never propagate to the run level.
//
// # Archiving
//
// When an Archiver is attached, entities are exported to timestamped JSON
// files before delete and archive actions. An archive failure fails the
// decision - the entity is not touched.
package executor
