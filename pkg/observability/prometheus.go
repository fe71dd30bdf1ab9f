package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// metricsPath is where the scrape endpoint is mounted.
const metricsPath = "/metrics"

// readHeaderTimeout bounds slow clients on the metrics listener.
const readHeaderTimeout = 5 * time.Second

// newPrometheusReader creates an OTel reader backed by its own Prometheus
// registry, plus the handler serving that registry. Each call has an
// independent registry so repeated Init calls do not collide.
func newPrometheusReader() (sdkmetric.Reader, http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return exporter, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

// MetricsServer serves a metrics handler until its context is cancelled.
type MetricsServer struct {
	listener net.Listener
	server   *http.Server
	logger   *slog.Logger
}

// NewMetricsServer binds addr and mounts handler at /metrics behind the
// tracing middleware.
func NewMetricsServer(addr string, handler http.Handler, tracer trace.Tracer, logger *slog.Logger) (*MetricsServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, HTTPMiddleware(tracer, handler))

	return &MetricsServer{
		listener: listener,
		server:   &http.Server{Handler: mux, ReadHeaderTimeout: readHeaderTimeout},
		logger:   logger,
	}, nil
}

// Addr is the bound listener address.
func (ms *MetricsServer) Addr() string {
	return ms.listener.Addr().String()
}

// Serve blocks until ctx is done, then shuts the server down.
func (ms *MetricsServer) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- ms.server.Serve(ms.listener)
	}()

	ms.logger.InfoContext(ctx, "metrics endpoint listening", "addr", ms.Addr(), "path", metricsPath)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), readHeaderTimeout)
		defer cancel()

		err := ms.server.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}

		return nil
	}
}
