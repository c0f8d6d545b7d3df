package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trainingportal-hq/janitor/pkg/janitor"
)

// Custom attribute keys use the "janitor.*" namespace.
const (
	AttrRunID    = "janitor.run_id"
	AttrRunState = "janitor.run_state"
	AttrCategory = "janitor.category"
	AttrEntityID = "janitor.entity_id"
	AttrAction   = "janitor.action"
	AttrOutcome  = "janitor.outcome"
	AttrRuleID   = "janitor.rule_id"

	AttrEvaluated = "janitor.entities_evaluated"
	AttrApplied   = "janitor.entities_applied"
	AttrSkipped   = "janitor.entities_skipped"
	AttrFailed    = "janitor.entities_failed"
)

// SetRunAttributes annotates a run span with its identity.
func SetRunAttributes(span trace.Span, runID string) {
	span.SetAttributes(
		attribute.String(AttrRunID, runID),
	)
}

// SetRunSummaryAttributes annotates a run span with its final counters.
func SetRunSummaryAttributes(span trace.Span, state string, evaluated, applied, skipped, failed int) {
	span.SetAttributes(
		attribute.String(AttrRunState, state),
		attribute.Int(AttrEvaluated, evaluated),
		attribute.Int(AttrApplied, applied),
		attribute.Int(AttrSkipped, skipped),
		attribute.Int(AttrFailed, failed),
	)
}

// SetEntityAttributes annotates a span with one entity outcome.
func SetEntityAttributes(span trace.Span, outcome janitor.EntityOutcome) {
	span.SetAttributes(
		attribute.String(AttrEntityID, outcome.EntityID),
		attribute.String(AttrCategory, outcome.Category),
		attribute.String(AttrAction, string(outcome.Action)),
		attribute.String(AttrOutcome, string(outcome.Outcome)),
	)
}
