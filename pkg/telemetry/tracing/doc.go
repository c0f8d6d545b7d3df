// Package tracing provides OpenTelemetry tracing for the janitor.
//
// Spans are exported over OTLP gRPC with parent-based sampling. Tracing is
// disabled by default; when disabled (or when the Tracer is nil) all
// operations are noops, so callers never branch on the tracing state.
//
//	tracer, err := tracing.New(&tracing.Config{
//		Enabled:  true,
//		Endpoint: "localhost:4317",
//		Insecure: true,
//		Sampler:  tracing.SamplerRatio,
//		SampleRatio: 0.1,
//	})
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "janitor.run")
//	defer span.End()
//
// Each cleanup run is one root span annotated with the run ID and final
// counters via the janitor.* attribute namespace.
package tracing
