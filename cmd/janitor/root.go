package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "janitor",
	Short: "Trainingportal Janitor - scheduled cleanup for training portal data",
	Long: `Trainingportal Janitor removes or archives stale training portal entities
(sessions, enrollments, artifacts) according to a declarative cleanup policy.

Cleanup behavior is data, not code: rules in a YAML file map entity
categories to age thresholds and actions (delete, archive, anonymize).
Runs are scheduled on a cron expression or fixed interval, process entities
concurrently, and tolerate individual entity failures without aborting.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
