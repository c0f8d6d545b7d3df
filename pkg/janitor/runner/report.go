package runner

import (
	"time"

	"github.com/google/uuid"

	"trainingportal-hq/janitor/pkg/janitor"
)

// State is the runner's lifecycle state.
type State string

const (
	// StateIdle means no run is in progress.
	StateIdle State = "idle"

	// StateRunning means a cleanup run is in progress.
	StateRunning State = "running"

	// StateFailed means the last run aborted before processing any entity,
	// typically because the store was unreachable. The next trigger moves
	// the runner back through Running.
	StateFailed State = "failed"
)

// Final run states recorded on reports.
const (
	// RunCompleted: the run enumerated and processed every candidate.
	// Individual entity failures do not change this state.
	RunCompleted = "completed"

	// RunPartial: the run was cancelled or lost a candidate stream mid-way;
	// everything processed up to that point is accounted for.
	RunPartial = "partial"

	// RunFailed: the run aborted at startup with zero entities processed.
	RunFailed = "failed"
)

// Report summarizes one cleanup run. A report is complete once FinishedAt is
// set; it is never mutated afterwards.
type Report struct {
	// RunID uniquely identifies this run in logs and traces.
	RunID string `json:"run_id"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// State is the final run state: completed, partial, or failed.
	State string `json:"state"`

	// DryRun records whether actions were logged instead of applied.
	DryRun bool `json:"dry_run"`

	// Evaluated counts every candidate the policy evaluator saw, including
	// those it left alone.
	Evaluated int `json:"evaluated"`

	// Applied, Skipped, Failed count executor outcomes.
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`

	// Violations counts entities skipped for malformed data.
	Violations int `json:"violations"`

	// Outcomes holds the per-entity results of actionable decisions.
	// Entities the evaluator left alone are counted but not listed.
	Outcomes []janitor.EntityOutcome `json:"outcomes,omitempty"`
}

func newReport(dryRun bool) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		DryRun:    dryRun,
	}
}

// record folds one executor outcome into the report. Not safe for concurrent
// use; the runner calls it from a single collector goroutine.
func (r *Report) record(outcome janitor.EntityOutcome) {
	switch outcome.Outcome {
	case janitor.OutcomeApplied:
		r.Applied++
	case janitor.OutcomeSkipped:
		r.Skipped++
	case janitor.OutcomeFailed:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, outcome)
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// HasFailures reports whether any entity failed after bounded retries.
func (r *Report) HasFailures() bool {
	return r.Failed > 0
}
