// Package cli provides shared helpers for the janitor's command line:
// signal-aware contexts, command and config error types, and output
// formatters for run reports (text or JSON).
package cli
