// Trainingportal Janitor is a scheduled maintenance process for the training
// portal: it removes or archives stale sessions, enrollments, and artifacts
// according to a declarative cleanup policy.
//
// Usage:
//
//	# Start the janitor with default configuration
//	janitor run
//
//	# Start with a custom configuration file
//	janitor run --config /etc/janitor/config.yaml
//
//	# Run a single cleanup pass and exit
//	janitor run --once
//
//	# Log would-be actions without applying them
//	janitor run --once --dry-run
//
//	# Validate configuration and policy files
//	janitor validate
//
//	# Show version information
//	janitor version
package main

func main() {
	Execute()
}
