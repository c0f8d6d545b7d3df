package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler exposing the collector's registry in the
// Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}

// Server serves the operations endpoints (metrics, health probes) on a
// dedicated listener, separate from any portal traffic.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates an operations server exposing the collector at /metrics
// on the given mux. Callers may pre-mount additional endpoints (health
// probes, version info) on the same mux; a nil mux gets a fresh one.
func NewServer(addr string, collector *Collector, mux *http.ServeMux) *Server {
	if mux == nil {
		mux = http.NewServeMux()
	}
	mux.Handle("/metrics", collector.Handler())

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: slog.Default().With("component", "telemetry.metrics"),
	}
}

// Start begins serving in a background goroutine. Listener failures are
// logged rather than returned; a broken metrics endpoint must never take the
// janitor down.
func (s *Server) Start() {
	go func() {
		s.logger.Info("metrics server listening", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
