// Package telemetry groups the janitor's observability concerns.
//
// # Components
//
//   - logging: structured slog setup (JSON or text)
//   - metrics: Prometheus metrics with a dedicated endpoint
//   - tracing: OpenTelemetry spans over OTLP gRPC
//   - health: liveness and readiness probes
//
// Metrics, health probes, and version info share one operations listener,
// kept separate from portal traffic. Tracing is off by default.
package telemetry
