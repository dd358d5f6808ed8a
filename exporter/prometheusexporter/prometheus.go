// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package prometheusexporter serves collected records on a Prometheus
// scrape endpoint.
package prometheusexporter // import "go.opentelemetry.io/telemetrycore/exporter/prometheusexporter"

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	ocprom "contrib.go.opencensus.io/exporter/prometheus"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/exporter"
	"go.opentelemetry.io/telemetrycore/metric"
)

const readHeaderTimeout = time.Minute

type prometheusExporter struct {
	collector *collector
	server    *http.Server
	serveDone chan struct{}
	logger    *zap.Logger
}

// NewMetricsExporter creates an exporter.Metrics and starts serving
// /metrics on cfg.Endpoint.
func NewMetricsExporter(cfg *Config, logger *zap.Logger) (exporter.Metrics, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := newCollector(cfg, logger)
	registry := prometheus.NewRegistry()
	if err := registry.Register(c); err != nil {
		return nil, err
	}
	if cfg.PipelineMetrics {
		_, err := ocprom.NewExporter(ocprom.Options{
			Namespace:   cfg.Namespace,
			Registry:    registry,
			ConstLabels: cfg.ConstLabels,
			OnError: func(err error) {
				logger.Warn("Failed to read pipeline metrics", zap.Error(err))
			},
		})
		if err != nil {
			return nil, err
		}
	}

	ln, err := net.Listen("tcp", cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})).Methods(http.MethodGet)

	var handler http.Handler = router
	if len(cfg.CORSAllowedOrigins) > 0 {
		handler = cors.New(cors.Options{AllowedOrigins: cfg.CORSAllowedOrigins}).Handler(handler)
	}

	pe := &prometheusExporter{
		collector: c,
		server:    &http.Server{Handler: handler, ReadHeaderTimeout: readHeaderTimeout},
		serveDone: make(chan struct{}),
		logger:    logger,
	}
	go func() {
		defer close(pe.serveDone)
		if errHTTP := pe.server.Serve(ln); errHTTP != nil && !errors.Is(errHTTP, http.ErrServerClosed) {
			logger.Error("Prometheus scrape endpoint stopped", zap.Error(errHTTP))
		}
	}()
	return pe, nil
}

func (pe *prometheusExporter) Export(_ context.Context, records []metric.Record) error {
	pe.collector.processRecords(records)
	return nil
}

// Shutdown stops the exporter and is invoked during shutdown.
func (pe *prometheusExporter) Shutdown(ctx context.Context) error {
	err := pe.server.Shutdown(ctx)
	<-pe.serveDone
	return err
}
