package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/credentials/insecure"
)

// Config contains tracing configuration.
type Config struct {
	// Enabled controls whether spans are recorded and exported.
	// Default: false
	Enabled bool

	// ServiceName identifies this process in trace backends.
	// Default: "trainingportal-janitor"
	ServiceName string

	// Endpoint is the OTLP gRPC collector endpoint (host:port).
	// Default: "localhost:4317"
	Endpoint string

	// Insecure disables TLS on the exporter connection.
	// Default: true
	Insecure bool

	// Sampler is the sampling strategy ("always", "never", "ratio").
	// Default: "always"
	Sampler string

	// SampleRatio is the sampling ratio for the "ratio" strategy.
	// Default: 1.0
	SampleRatio float64

	// ExportTimeout bounds each export call.
	// Default: 10s
	ExportTimeout time.Duration
}

// DefaultConfig returns the default tracing configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:       false,
		ServiceName:   "trainingportal-janitor",
		Endpoint:      "localhost:4317",
		Insecure:      true,
		Sampler:       SamplerAlways,
		SampleRatio:   1.0,
		ExportTimeout: 10 * time.Second,
	}
}

// Tracer wraps the OpenTelemetry tracer with the janitor's setup: an OTLP
// gRPC exporter, parent-based sampling, and W3C trace context propagation.
type Tracer struct {
	config   *Config
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	enabled  bool
}

// New creates a tracer from the configuration. When tracing is disabled a
// noop tracer is returned so callers never need to branch.
//
// The tracer must be shut down when no longer needed:
//
//	defer tracer.Shutdown(context.Background())
func New(cfg *Config) (*Tracer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	t := &Tracer{
		config:  cfg,
		enabled: cfg.Enabled,
	}

	if !cfg.Enabled {
		t.tracer = noop.NewTracerProvider().Tracer("trainingportal-janitor")
		return t, nil
	}

	sampler, err := createSampler(cfg.Sampler, cfg.SampleRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	exporter, err := createOTLPExporter(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "trainingportal-janitor"
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	t.tracer = t.provider.Tracer("trainingportal-janitor")

	return t, nil
}

// Start creates a new span linked to the parent span from the context.
// Nil-receiver safe: a nil tracer yields a noop span.
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if t == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return t.tracer.Start(ctx, name, opts...)
}

// Shutdown flushes pending spans and shuts down the exporter.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || !t.enabled || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Enabled reports whether tracing is enabled.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// createOTLPExporter creates an OTLP gRPC exporter.
func createOTLPExporter(cfg *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}

	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}

	if cfg.ExportTimeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.ExportTimeout))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := otlptracegrpc.NewClient(opts...)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return exporter, nil
}

// SetStatus sets the span status based on an error. A nil error sets OK.
func SetStatus(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
