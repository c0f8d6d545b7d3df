package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"trainingportal-hq/janitor/pkg/cli"
	"trainingportal-hq/janitor/pkg/config"
	"trainingportal-hq/janitor/pkg/janitor/executor"
	"trainingportal-hq/janitor/pkg/janitor/policy"
	"trainingportal-hq/janitor/pkg/janitor/runner"
	"trainingportal-hq/janitor/pkg/janitor/storage"
	"trainingportal-hq/janitor/pkg/telemetry/health"
	"trainingportal-hq/janitor/pkg/telemetry/logging"
	"trainingportal-hq/janitor/pkg/telemetry/metrics"
	"trainingportal-hq/janitor/pkg/telemetry/tracing"
)

var runFlags struct {
	once     bool
	interval time.Duration
	dryRun   bool
	logLevel string
	output   string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the janitor",
	Long: `Start the janitor with the specified configuration.

The janitor triggers cleanup runs on the configured schedule. Each run
enumerates candidate entities per policy category, evaluates them against
the rule table, and applies eligible actions with a bounded worker pool.

Examples:
  # Start with default config
  janitor run

  # Start with custom config
  janitor run --config /etc/janitor/config.yaml

  # Run a single cleanup pass and print the report
  janitor run --once --output json

  # Override the run interval
  janitor run --interval 5m

  # Log would-be actions without applying them
  janitor run --dry-run`,
	RunE: runJanitor,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runFlags.once, "once", false, "run a single cleanup pass and exit")
	runCmd.Flags().DurationVar(&runFlags.interval, "interval", 0, "override the run interval")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "log would-be actions without applying them")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().StringVarP(&runFlags.output, "output", "o", "text", "report output format for --once (text, json)")
}

func runJanitor(cmd *cobra.Command, args []string) error {
	// Load configuration
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if runFlags.interval > 0 {
		cfg.Janitor.Interval = config.Duration(runFlags.interval)
		cfg.Janitor.Schedule = ""
	}
	if runFlags.dryRun {
		cfg.Janitor.DryRun = true
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Init(&logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	}); err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	// Open the portal store. A store that cannot be opened is an
	// unrecoverable startup failure: the process exits non-zero.
	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
		Driver:       cfg.Store.Driver,
		Path:         cfg.Store.Path,
		MaxOpenConns: cfg.Store.MaxOpenConns,
		MaxIdleConns: cfg.Store.MaxIdleConns,
		WALMode:      *cfg.Store.WALMode,
		BusyTimeout:  cfg.Store.BusyTimeout.Std(),
	})
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to open store: %w", err))
	}
	defer store.Close()
	fmt.Printf("✓ Store opened (%s, driver %s)\n", cfg.Store.Path, cfg.Store.Driver)

	// Load and validate the policy table. An invalid policy is likewise
	// unrecoverable at startup.
	table, err := policy.LoadFile(cfg.Policy.FilePath)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to load policy: %w", err))
	}
	fmt.Printf("✓ Policy loaded (%d rules)\n", table.Len())

	// Build the cleanup pipeline
	var archiver *executor.Archiver
	if cfg.Janitor.ArchiveBeforeDelete {
		archiver = executor.NewArchiver(cfg.Janitor.ArchivePath)
	}

	exec := executor.New(store, &executor.Config{
		MaxAttempts:  cfg.Janitor.MaxAttempts,
		RetryBackoff: cfg.Janitor.RetryBackoff.Std(),
		DryRun:       cfg.Janitor.DryRun,
	}, archiver)

	run := runner.New(store, policy.NewEvaluator(table), exec, &runner.Config{
		Workers: cfg.Janitor.Workers,
		DryRun:  cfg.Janitor.DryRun,
	})

	// Telemetry: metrics + health on the operations listener, optional
	// tracing over OTLP.
	var opsServer *metrics.Server
	if *cfg.Telemetry.Metrics.Enabled {
		collector := metrics.NewCollector(&metrics.Config{
			Enabled:   true,
			Namespace: cfg.Telemetry.Metrics.Namespace,
			Subsystem: "janitor",
		})
		run.AttachMetrics(collector)

		checker := health.New(5 * time.Second)
		checker.RegisterCheck("store", store.Ping)
		checker.RegisterCheck("runner", run.Healthy)

		mux := http.NewServeMux()
		health.Register(mux, checker, Version, GitCommit, BuildDate)

		opsServer = metrics.NewServer(cfg.Telemetry.Metrics.ListenAddress, collector, mux)
		opsServer.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = opsServer.Shutdown(shutdownCtx)
		}()
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Telemetry.Metrics.ListenAddress)
	}

	if cfg.Telemetry.Tracing.Enabled {
		tracer, err := tracing.New(&tracing.Config{
			Enabled:     true,
			Endpoint:    cfg.Telemetry.Tracing.Endpoint,
			Insecure:    *cfg.Telemetry.Tracing.Insecure,
			Sampler:     cfg.Telemetry.Tracing.Sampler,
			SampleRatio: cfg.Telemetry.Tracing.SampleRatio,
		})
		if err != nil {
			slog.Warn("failed to initialize tracing, continuing without it", "error", err)
		} else {
			run.AttachTracer(tracer)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tracer.Shutdown(shutdownCtx)
			}()
		}
	}

	ctx := cli.SetupSignalHandler()

	// Hot reload of the policy file
	if cfg.Policy.Watch {
		watcher, err := policy.NewWatcher(cfg.Policy.FilePath, nil)
		if err != nil {
			slog.Warn("failed to create policy watcher, hot reload disabled", "error", err)
		} else {
			go func() {
				if err := watcher.Watch(ctx, run.UpdateTable); err != nil {
					slog.Error("policy watcher stopped", "error", err)
				}
			}()
			fmt.Printf("✓ Policy hot reload enabled (%s)\n", cfg.Policy.FilePath)
		}
	}

	if runFlags.once {
		return runOnce(ctx, run)
	}

	sched := runner.NewScheduler(run, &runner.SchedulerConfig{
		Schedule: cfg.Janitor.Schedule,
		Interval: cfg.Janitor.Interval.Std(),
	})
	if err := sched.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	defer sched.Stop()

	if next := sched.NextRun(); next != nil {
		fmt.Printf("✓ Next scheduled run: %s\n", next.Format(time.RFC3339))
	}
	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")
	return nil
}

// runOnce executes a single cleanup pass and prints its report.
//
// Exit status follows run semantics: a run that completes exits zero even
// when individual entities failed; only a run that could not start (store
// unreachable) exits non-zero.
func runOnce(ctx context.Context, run *runner.Runner) error {
	report, err := run.TryRun(ctx)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	formatter := cli.NewFormatter(cli.OutputFormat(runFlags.output))
	if runFlags.output == "json" {
		if err := formatter.FormatTo(os.Stdout, report); err != nil {
			return cli.NewCommandError("run", err)
		}
		return nil
	}

	fmt.Printf("Run %s %s in %s\n", report.RunID, report.State, report.Duration().Round(time.Millisecond))
	fmt.Printf("  evaluated: %d\n", report.Evaluated)
	fmt.Printf("  applied:   %d\n", report.Applied)
	fmt.Printf("  skipped:   %d\n", report.Skipped)
	fmt.Printf("  failed:    %d\n", report.Failed)
	if report.Violations > 0 {
		fmt.Printf("  policy violations: %d\n", report.Violations)
	}
	return nil
}
