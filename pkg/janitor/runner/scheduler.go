package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"trainingportal-hq/janitor/pkg/janitor"
)

// SchedulerConfig contains configuration for the run scheduler.
type SchedulerConfig struct {
	// Schedule is a cron expression. When set it takes precedence over
	// Interval.
	// Example: "0 3 * * *" (daily at 3 AM)
	Schedule string

	// Interval is the fixed delay between run triggers when no cron
	// schedule is configured. The first run fires immediately.
	// Default: 30s
	Interval time.Duration
}

// DefaultSchedulerConfig returns the default scheduler configuration.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Interval: 30 * time.Second,
	}
}

// Scheduler triggers cleanup runs either on a cron schedule or on a fixed
// interval. Triggers that land while a run is active are coalesced by the
// runner; the scheduler just logs and waits for the next tick.
type Scheduler struct {
	runner *Runner
	config *SchedulerConfig
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler driving the given runner.
func NewScheduler(runner *Runner, config *SchedulerConfig) *Scheduler {
	if config == nil {
		config = DefaultSchedulerConfig()
	}
	if config.Interval <= 0 {
		config.Interval = 30 * time.Second
	}

	return &Scheduler{
		runner: runner,
		config: config,
		cron:   cron.New(),
		logger: slog.Default().With("component", "janitor.scheduler"),
		stopCh: make(chan struct{}),
	}
}

// Start begins triggering runs. With a cron schedule the first run waits for
// the first cron tick; in interval mode the first run fires immediately.
//
// Common cron expressions:
//   - "0 3 * * *"    - daily at 3 AM
//   - "0 */6 * * *"  - every 6 hours
//   - "*/15 * * * *" - every 15 minutes
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if s.config.Schedule != "" {
		if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
		}

		if _, err := s.cron.AddFunc(s.config.Schedule, func() {
			s.trigger(ctx)
		}); err != nil {
			return fmt.Errorf("failed to schedule cleanup runs: %w", err)
		}

		s.cron.Start()
		s.logger.Info("scheduler started",
			"mode", "cron",
			"schedule", s.config.Schedule,
		)
	} else {
		s.wg.Add(1)
		go s.intervalLoop(ctx)
		s.logger.Info("scheduler started",
			"mode", "interval",
			"interval", s.config.Interval,
		)
	}

	s.running = true

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// intervalLoop triggers a run immediately, then every Interval.
func (s *Scheduler) intervalLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.trigger(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

// trigger executes one scheduled run.
func (s *Scheduler) trigger(ctx context.Context) {
	report, err := s.runner.TryRun(ctx)
	if errors.Is(err, janitor.ErrRunActive) {
		s.logger.Info("previous cleanup run still active, trigger skipped")
		return
	}
	if err != nil {
		// Startup connectivity failure. The run is recorded as failed; the
		// process stays up and retries on the next tick.
		s.logger.Error("scheduled cleanup run failed", "error", err)
		return
	}

	if report.HasFailures() {
		s.logger.Warn("scheduled cleanup run finished with entity failures",
			"run_id", report.RunID,
			"failed", report.Failed,
		)
	}
}

// Stop stops the scheduler and waits for any in-flight cron job and the
// interval loop to return. The active run itself honors its context.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	if s.config.Schedule != "" {
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
	} else {
		close(s.stopCh)
		s.wg.Wait()
	}

	s.running = false
	s.logger.Info("scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled run time in cron mode, nil in interval
// mode or when the scheduler is stopped.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" || !s.running {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
