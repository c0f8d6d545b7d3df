// Package janitor defines the core domain types for the training portal
// janitor: entities subject to cleanup, policy decisions, executor outcomes,
// and the Store interface that abstracts the portal's persistent store.
//
// # Data Model
//
// The janitor operates on three kinds of data:
//
//  1. Entity - a cleanup-eligible portal record (session, enrollment, artifact)
//  2. Decision - the policy evaluator's verdict on one entity (action + reason)
//  3. RunReport - the aggregate of all outcomes for one cleanup run
//
// Entities are created and owned by the portal application. The janitor reads
// them, evaluates them against the retention policy, and applies at most one
// action per entity per run. Decisions are transient; only the run report
// survives the run, as the sole surfaced failure summary.
//
// # Cleanup Actions
//
// Three actions are recognized:
//
//   - delete: remove the entity (delete-if-exists semantics)
//   - archive: mark the entity archived, retaining the record
//   - anonymize: clear the owning-user reference, retaining the record
//
// All actions are idempotent from the executor's perspective: re-applying an
// action to an entity that is already gone yields a NotFoundError, which the
// executor records as skipped rather than failed.
//
// # Error Taxonomy
//
// Store and executor failures are classified into four types:
//
//   - ConnectivityError: store unreachable - retryable, run-fatal if it
//     happens before any entity is processed
//   - NotFoundError: entity vanished - non-fatal, treated as already clean
//   - PolicyViolationError: malformed entity data - logged, entity skipped
//   - ExecutionError: action rejected by the store - retried bounded, then
//     recorded as failed
//
// Entity-level errors never escape to the run level.
package janitor
