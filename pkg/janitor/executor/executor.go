package executor

import (
	"context"
	"log/slog"
	"time"

	"trainingportal-hq/janitor/pkg/janitor"
)

// Config contains configuration for the cleanup executor.
type Config struct {
	// MaxAttempts bounds retries for retryable store errors.
	// Default: 3
	MaxAttempts int

	// RetryBackoff is the initial delay between attempts; it doubles after
	// each failed attempt.
	// Default: 500ms
	RetryBackoff time.Duration

	// DryRun logs the would-be action instead of applying it.
	// Default: false
	DryRun bool
}

// DefaultConfig returns the default executor configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:  3,
		RetryBackoff: 500 * time.Millisecond,
		DryRun:       false,
	}
}

// Executor applies cleanup decisions against the store with idempotence and
// partial-failure isolation: no single entity's failure ever aborts a run.
type Executor struct {
	store    janitor.Store
	config   *Config
	archiver *Archiver
	logger   *slog.Logger
}

// New creates a new executor. The archiver is optional; when set, entities
// are exported to JSON before delete and archive actions are applied.
func New(store janitor.Store, config *Config, archiver *Archiver) *Executor {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = 500 * time.Millisecond
	}

	return &Executor{
		store:    store,
		config:   config,
		archiver: archiver,
		logger:   slog.Default().With("component", "janitor.executor"),
	}
}

// Execute applies one decision and returns its outcome.
//
// Idempotence: re-invoking with the same decision after the entity is gone
// yields skipped, never failed. Retryable store errors are retried up to
// MaxAttempts with exponential backoff; non-retryable errors are recorded
// immediately as failed.
func (e *Executor) Execute(ctx context.Context, decision *janitor.Decision) janitor.EntityOutcome {
	entity := decision.Entity
	outcome := janitor.EntityOutcome{
		EntityID: entity.ID,
		Category: entity.Category,
		Action:   decision.Action,
		Reason:   decision.Reason,
	}

	if e.config.DryRun {
		e.logger.Info("**DRY-RUN**: would apply cleanup action",
			"entity_id", entity.ID,
			"category", entity.Category,
			"action", decision.Action,
			"reason", decision.Reason,
		)
		outcome.Outcome = janitor.OutcomeSkipped
		return outcome
	}

	if e.archiver != nil && (decision.Action == janitor.ActionDelete || decision.Action == janitor.ActionArchive) {
		if err := e.archiver.Archive(ctx, entity); err != nil {
			e.logger.Error("failed to archive entity before cleanup",
				"entity_id", entity.ID,
				"action", decision.Action,
				"error", err,
			)
			outcome.Outcome = janitor.OutcomeFailed
			outcome.Error = err.Error()
			return outcome
		}
	}

	err := e.applyWithRetry(ctx, entity.ID, decision.Action)
	switch {
	case err == nil:
		e.logger.Info("cleanup action applied",
			"entity_id", entity.ID,
			"category", entity.Category,
			"action", decision.Action,
			"reason", decision.Reason,
		)
		outcome.Outcome = janitor.OutcomeApplied

	case janitor.IsNotFound(err):
		// Entity vanished between enumeration and action: already clean.
		e.logger.Debug("entity already gone, skipping",
			"entity_id", entity.ID,
			"action", decision.Action,
		)
		outcome.Outcome = janitor.OutcomeSkipped

	default:
		e.logger.Error("cleanup action failed",
			"entity_id", entity.ID,
			"action", decision.Action,
			"error", err,
		)
		outcome.Outcome = janitor.OutcomeFailed
		outcome.Error = err.Error()
	}

	return outcome
}

// applyWithRetry issues the store mutation, retrying retryable errors with
// exponential backoff until MaxAttempts is exhausted.
func (e *Executor) applyWithRetry(ctx context.Context, entityID string, action janitor.Action) error {
	backoff := e.config.RetryBackoff

	var err error
	for attempt := 1; attempt <= e.config.MaxAttempts; attempt++ {
		err = e.store.Apply(ctx, entityID, action)
		if err == nil || !janitor.IsRetryable(err) {
			return err
		}

		if attempt == e.config.MaxAttempts {
			break
		}

		e.logger.Warn("retryable store error, backing off",
			"entity_id", entityID,
			"action", action,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return janitor.NewExecutionError(entityID, action, err)
}
