// Package logging configures structured logging for the janitor.
//
// Init installs a slog default logger built from the configuration; every
// package then derives a component-scoped logger:
//
//	logger := slog.Default().With("component", "janitor.runner")
//
// Two output formats are supported: JSON (the default, for log pipelines)
// and text (for local runs). Logs go to stderr so stdout stays clean for
// command output.
package logging
