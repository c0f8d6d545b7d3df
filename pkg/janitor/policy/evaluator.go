package policy

import (
	"time"

	"trainingportal-hq/janitor/pkg/janitor"
)

// ReasonExpired is the reason code for entities past an explicit expiry.
const ReasonExpired = "expired"

// Evaluator decides whether an entity is eligible for cleanup. Evaluation is
// a pure function of entity state and the supplied clock value: no I/O, no
// side effects, so every policy rule can be tested exhaustively.
type Evaluator struct {
	table *Table
}

// NewEvaluator creates an evaluator over a validated rule table.
func NewEvaluator(table *Table) *Evaluator {
	return &Evaluator{table: table}
}

// Table returns the evaluator's rule table.
func (e *Evaluator) Table() *Table {
	return e.table
}

// Evaluate classifies one entity at the given time.
//
// Returns:
//   - a non-nil Decision when the entity is eligible for cleanup
//   - (nil, nil) when the entity should be left alone
//   - a PolicyViolationError when malformed entity data prevents evaluation;
//     the caller logs and skips the entity, the run continues
//
// An explicit expiry annotation takes precedence over category rules: a past
// expiry yields a delete decision, a future expiry suppresses any decision,
// and an unparseable value is a policy violation.
func (e *Evaluator) Evaluate(entity *janitor.Entity, now time.Time) (*janitor.Decision, error) {
	if entity.ExpiresAt != "" {
		expiry, err := janitor.ParseExpiry(entity.ExpiresAt)
		if err != nil {
			return nil, &janitor.PolicyViolationError{
				EntityID: entity.ID,
				Reason:   err.Error(),
			}
		}
		if now.After(expiry) {
			return &janitor.Decision{
				Entity: entity,
				Action: janitor.ActionDelete,
				Reason: ReasonExpired,
			}, nil
		}
		// Explicit future expiry overrides rule-based aging.
		return nil, nil
	}

	rule := e.table.Match(entity)
	if rule == nil {
		return nil, nil
	}

	deadline := entity.CreatedAt.Add(rule.MaxAge + rule.GracePeriod)
	if !now.After(deadline) {
		return nil, nil
	}

	return &janitor.Decision{
		Entity: entity,
		Action: rule.Action,
		Reason: rule.Reason,
		RuleID: rule.ID,
	}, nil
}
