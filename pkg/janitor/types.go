package janitor

import (
	"context"
	"time"
)

// Entity is a cleanup-eligible record in the training portal's store:
// a workshop session, a course enrollment, or an uploaded artifact.
// Entities are created by the portal application; the janitor only reads
// them until a cleanup action is applied.
type Entity struct {
	// ID uniquely identifies the entity within its category.
	ID string `json:"id"`

	// Category is the cleanup category ("session", "enrollment", "artifact").
	// Must match a category registered in the policy table.
	Category string `json:"category"`

	// Status is the portal-assigned lifecycle status ("active", "completed",
	// "abandoned", "archived", ...). Rules may require a specific status.
	Status string `json:"status"`

	// OwnerID references the owning portal user. Cleared by the anonymize action.
	OwnerID string `json:"owner_id"`

	// CreatedAt is when the portal created the entity.
	CreatedAt time.Time `json:"created_at"`

	// LastActiveAt is the last recorded activity on the entity.
	// Zero when the portal never recorded activity.
	LastActiveAt time.Time `json:"last_active_at"`

	// ExpiresAt is an optional explicit expiry set by the portal, as a raw
	// annotation string. Accepted layouts: "2006-01-02T15:04:05Z",
	// "2006-01-02T15:04", "2006-01-02". An explicit expiry in the past makes
	// the entity deletable regardless of category rules.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Action is a cleanup action applied to an entity.
type Action string

const (
	// ActionDelete removes the entity from the store.
	ActionDelete Action = "delete"

	// ActionArchive marks the entity archived without removing it.
	ActionArchive Action = "archive"

	// ActionAnonymize clears the owning-user reference, retaining the record.
	ActionAnonymize Action = "anonymize"
)

// ValidAction reports whether a is one of the recognized cleanup actions.
func ValidAction(a Action) bool {
	switch a {
	case ActionDelete, ActionArchive, ActionAnonymize:
		return true
	}
	return false
}

// Decision is the policy evaluator's verdict on a single entity.
// Decisions are transient: they live for one run and are reflected in the
// run report as outcomes, never persisted.
type Decision struct {
	// Entity is the evaluated entity.
	Entity *Entity `json:"entity"`

	// Action to apply.
	Action Action `json:"action"`

	// Reason is a short machine-readable reason code ("expired", "stale",
	// "orphaned", ...). Taken from the matching rule, or "expired" for an
	// explicit expiry.
	Reason string `json:"reason"`

	// RuleID identifies the rule that produced the decision.
	// Empty when the decision came from an explicit expiry annotation.
	RuleID string `json:"rule_id,omitempty"`
}

// Outcome is the executor's result for a single decision.
type Outcome string

const (
	// OutcomeApplied means the action was performed.
	OutcomeApplied Outcome = "applied"

	// OutcomeSkipped means no action was needed: the entity was already gone,
	// or the janitor is in dry-run mode.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFailed means the action was attempted and rejected, after
	// bounded retries for retryable errors.
	OutcomeFailed Outcome = "failed"
)

// EntityOutcome records the outcome of one decision within a run.
type EntityOutcome struct {
	EntityID string  `json:"entity_id"`
	Category string  `json:"category"`
	Action   Action  `json:"action"`
	Reason   string  `json:"reason"`
	Outcome  Outcome `json:"outcome"`
	Error    string  `json:"error,omitempty"`
}

// Store abstracts reads and writes against the training portal's persistent
// store. Implementations must be safe for concurrent use: candidate streaming
// is read-only and Apply calls are independently safe to issue from multiple
// workers, relying on the store's per-entity atomicity.
type Store interface {
	// FetchCandidates streams the entities of one cleanup category, ordered
	// by creation time ascending for deterministic enumeration. An empty
	// category streams every entity. The stream is finite and restartable
	// per call.
	//
	// Returns:
	//   - entityCh: channel of candidate entities (buffered)
	//   - errCh: channel for errors (buffered, max 1 error)
	//   - error: immediate error (e.g. store unreachable)
	//
	// Both channels are closed when the stream completes or errors. Callers
	// should read from both channels until they are closed.
	FetchCandidates(ctx context.Context, category string) (<-chan *Entity, <-chan error, error)

	// Get retrieves a single entity by ID. Returns a NotFoundError when the
	// entity does not exist.
	Get(ctx context.Context, id string) (*Entity, error)

	// Apply performs a cleanup action on the identified entity. The mutation
	// is isolated to that entity; no cascading deletes are performed.
	// Applying to a missing entity returns a NotFoundError.
	Apply(ctx context.Context, entityID string, action Action) error

	// Count returns the number of entities in a category. An empty category
	// counts all entities.
	Count(ctx context.Context, category string) (int64, error)

	// Ping verifies store connectivity. Used by the runner before processing
	// any entity; a failure here makes the whole run Failed.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// ParseExpiry parses an explicit expiry annotation value. It tries each
// accepted layout in order and returns the first match.
func ParseExpiry(value string) (time.Time, error) {
	layouts := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &PolicyViolationError{
		Reason: "expiry value " + value + " does not match format 2022-01-01T13:23:54Z, 2022-01-01T13:23, or 2022-01-01",
	}
}
