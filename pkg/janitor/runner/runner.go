package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"trainingportal-hq/janitor/pkg/janitor"
	"trainingportal-hq/janitor/pkg/janitor/executor"
	"trainingportal-hq/janitor/pkg/janitor/policy"
	"trainingportal-hq/janitor/pkg/telemetry/metrics"
	"trainingportal-hq/janitor/pkg/telemetry/tracing"
)

// Config contains configuration for the cleanup runner.
type Config struct {
	// Workers is the number of concurrent executor workers per run.
	// Default: 4
	Workers int

	// DryRun is recorded on reports; the executor enforces it.
	DryRun bool
}

// DefaultConfig returns the default runner configuration.
func DefaultConfig() *Config {
	return &Config{
		Workers: 4,
	}
}

// Runner drives cleanup runs: it enumerates candidates per category,
// evaluates them against the policy table, and dispatches decisions to a
// bounded pool of executor workers.
//
// At most one run is active at a time. Triggers arriving while a run is in
// progress are coalesced, not queued.
type Runner struct {
	store    janitor.Store
	executor *executor.Executor
	config   *Config
	logger   *slog.Logger

	collector *metrics.Collector
	tracer    *tracing.Tracer

	mu         sync.Mutex
	evaluator  *policy.Evaluator
	state      State
	lastReport *Report
	lastErr    error
}

// New creates a runner over a store, a policy evaluator, and an executor.
func New(store janitor.Store, evaluator *policy.Evaluator, exec *executor.Executor, config *Config) *Runner {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Workers <= 0 {
		config.Workers = 4
	}

	return &Runner{
		store:     store,
		executor:  exec,
		evaluator: evaluator,
		config:    config,
		state:     StateIdle,
		logger:    slog.Default().With("component", "janitor.runner"),
	}
}

// AttachMetrics wires a metrics collector into the runner.
func (r *Runner) AttachMetrics(collector *metrics.Collector) {
	r.collector = collector
}

// AttachTracer wires a tracer into the runner; each run becomes one span.
func (r *Runner) AttachTracer(tracer *tracing.Tracer) {
	r.tracer = tracer
}

// UpdateTable swaps in a new rule table. The next run picks it up; a run in
// progress keeps the table it started with.
func (r *Runner) UpdateTable(table *policy.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evaluator = policy.NewEvaluator(table)
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastReport returns the report of the most recently finished run, or nil
// before the first run finishes.
func (r *Runner) LastReport() *Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastReport
}

// Healthy implements a health check: unhealthy while the last run failed at
// startup, healthy otherwise.
func (r *Runner) Healthy(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateFailed {
		if r.lastErr != nil {
			return fmt.Errorf("last cleanup run failed: %w", r.lastErr)
		}
		return fmt.Errorf("last cleanup run failed")
	}
	return nil
}

// TryRun starts a cleanup run, or returns ErrRunActive when one is already
// in progress. A non-nil report is returned for every run that starts, even
// runs that fail at startup.
//
// Run semantics:
//   - Store connectivity is verified before any entity is touched; a failure
//     finishes the run as failed with zero entities processed.
//   - Individual entity failures are isolated: the run continues and finishes
//     as completed.
//   - Context cancellation stops enumeration and drains in-flight workers;
//     the run finishes as partial.
//   - No entity is processed twice within one run, even when categories
//     overlap.
func (r *Runner) TryRun(ctx context.Context) (*Report, error) {
	r.mu.Lock()
	if r.state == StateRunning {
		r.mu.Unlock()
		r.collector.RecordCoalescedTrigger()
		r.logger.Info("cleanup run already active, trigger coalesced")
		return nil, janitor.ErrRunActive
	}
	r.state = StateRunning
	evaluator := r.evaluator
	r.mu.Unlock()

	report := newReport(r.config.DryRun)

	ctx, span := r.tracer.Start(ctx, "janitor.run")
	defer span.End()
	tracing.SetRunAttributes(span, report.RunID)

	r.logger.Info("cleanup run started",
		"run_id", report.RunID,
		"workers", r.config.Workers,
		"rules", evaluator.Table().Len(),
		"dry_run", r.config.DryRun,
	)

	// Verify connectivity before touching anything. A store that is down at
	// run start fails the whole run; mid-run errors degrade per entity.
	if err := r.store.Ping(ctx); err != nil {
		report.State = RunFailed
		report.FinishedAt = time.Now()
		tracing.SetStatus(span, err)
		r.finish(report, StateFailed, err)
		r.logger.Error("cleanup run failed: store unreachable",
			"run_id", report.RunID,
			"error", err,
		)
		return report, err
	}

	partial := r.process(ctx, evaluator, report)

	switch {
	case ctx.Err() != nil:
		report.State = RunPartial
		r.logger.Warn("cleanup run cancelled, finishing as partial",
			"run_id", report.RunID,
		)
	case partial:
		report.State = RunPartial
	default:
		report.State = RunCompleted
	}
	report.FinishedAt = time.Now()

	tracing.SetRunSummaryAttributes(span, report.State,
		report.Evaluated, report.Applied, report.Skipped, report.Failed)
	tracing.SetStatus(span, nil)

	r.finish(report, StateIdle, nil)

	r.logger.Info("cleanup run finished",
		"run_id", report.RunID,
		"state", report.State,
		"duration_ms", report.Duration().Milliseconds(),
		"evaluated", report.Evaluated,
		"applied", report.Applied,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"violations", report.Violations,
	)

	return report, nil
}

// result carries one evaluated candidate from a worker to the collector.
// A nil outcome means the evaluator left the entity alone.
type result struct {
	category  string
	outcome   *janitor.EntityOutcome
	violation bool
}

// process runs the enumerate-evaluate-execute pipeline. Returns true when
// enumeration was cut short by a stream error.
func (r *Runner) process(ctx context.Context, evaluator *policy.Evaluator, report *Report) bool {
	table := evaluator.Table()

	// A wildcard rule can match any category, so enumerate the whole store.
	categories := table.Categories()
	if table.HasWildcard() {
		categories = []string{""}
	}

	jobs := make(chan *janitor.Entity)
	results := make(chan result)

	var workers sync.WaitGroup
	for i := 0; i < r.config.Workers; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for entity := range jobs {
				results <- r.processEntity(ctx, evaluator, entity)
			}
		}()
	}

	// Single producer: enumerates categories in order and deduplicates, so
	// no entity is dispatched twice within this run.
	var partial bool
	go func() {
		defer close(jobs)

		seen := make(map[string]struct{})
		for _, category := range categories {
			if ctx.Err() != nil {
				return
			}
			if !r.enumerate(ctx, category, seen, jobs, report) {
				partial = true
			}
		}
	}()

	go func() {
		workers.Wait()
		close(results)
	}()

	for res := range results {
		report.Evaluated++
		r.collector.RecordEvaluated(res.category)
		if res.violation {
			report.Violations++
		}
		if res.outcome != nil {
			report.record(*res.outcome)
			r.collector.RecordAction(res.outcome.Action, res.outcome.Outcome)
		}
	}

	return partial
}

// enumerate streams one category's candidates into the jobs channel.
// Returns false when the stream broke before completing.
func (r *Runner) enumerate(ctx context.Context, category string, seen map[string]struct{}, jobs chan<- *janitor.Entity, report *Report) bool {
	entityCh, errCh, err := r.store.FetchCandidates(ctx, category)
	if err != nil {
		r.logger.Error("failed to enumerate candidates",
			"run_id", report.RunID,
			"category", category,
			"error", err,
		)
		return false
	}

	for entity := range entityCh {
		if _, dup := seen[entity.ID]; dup {
			continue
		}
		seen[entity.ID] = struct{}{}

		select {
		case <-ctx.Done():
			return false
		case jobs <- entity:
		}
	}

	if err := <-errCh; err != nil {
		if ctx.Err() == nil {
			r.logger.Error("candidate stream broke mid-run",
				"run_id", report.RunID,
				"category", category,
				"error", err,
			)
		}
		return false
	}

	return true
}

// processEntity evaluates one candidate and executes its decision.
func (r *Runner) processEntity(ctx context.Context, evaluator *policy.Evaluator, entity *janitor.Entity) result {
	res := result{category: entity.Category}

	decision, err := evaluator.Evaluate(entity, time.Now())
	if err != nil {
		// Malformed entity data. Log, count, and leave the entity alone.
		r.logger.Warn("entity skipped: policy violation",
			"entity_id", entity.ID,
			"category", entity.Category,
			"error", err,
		)
		r.collector.RecordPolicyViolation()
		res.violation = true
		res.outcome = &janitor.EntityOutcome{
			EntityID: entity.ID,
			Category: entity.Category,
			Reason:   err.Error(),
			Outcome:  janitor.OutcomeSkipped,
		}
		return res
	}

	if decision == nil {
		return res
	}

	outcome := r.executor.Execute(ctx, decision)
	res.outcome = &outcome
	return res
}

// finish records the run's terminal state.
func (r *Runner) finish(report *Report, state State, err error) {
	r.collector.RecordRun(report.State, report.Duration())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	r.lastReport = report
	r.lastErr = err
}
