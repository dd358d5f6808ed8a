// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package service // import "go.opentelemetry.io/telemetrycore/service"

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/config"
	"go.opentelemetry.io/telemetrycore/exporter"
	"go.opentelemetry.io/telemetrycore/exporter/exporterhelper"
	"go.opentelemetry.io/telemetrycore/exporter/fileexporter"
	"go.opentelemetry.io/telemetrycore/exporter/kafkaexporter"
	"go.opentelemetry.io/telemetrycore/exporter/loggingexporter"
	"go.opentelemetry.io/telemetrycore/exporter/prometheusexporter"
	"go.opentelemetry.io/telemetrycore/exporter/zipkinexporter"
	"go.opentelemetry.io/telemetrycore/metric"
	"go.opentelemetry.io/telemetrycore/trace"
)

// builtExporters holds the wrapped exporters of each signal, in the order of
// Exporters.Names.
type builtExporters struct {
	traces  []exporter.Traces
	metrics []exporter.Metrics
}

type exportersBuilder struct {
	logger  *zap.Logger
	options []exporterhelper.Option
	built   builtExporters
	errs    error
}

func buildExporters(cfg *config.Config, set Settings, logger *zap.Logger) (builtExporters, error) {
	b := &exportersBuilder{
		logger: logger,
		options: []exporterhelper.Option{
			exporterhelper.WithTimeout(exporterhelper.TimeoutSettings{Timeout: cfg.ExportTimeout}),
			exporterhelper.WithRetry(cfg.Retry),
		},
	}

	e := cfg.Exporters
	for _, name := range e.Names() {
		expLogger := logger.With(zap.String("kind", "exporter"), zap.String("name", name))
		switch name {
		case "logging":
			traces, err := loggingexporter.NewTracesExporter(e.Logging, expLogger)
			b.built.traces = addExporter(b, name, b.built.traces, traces, err)
			metrics, err := loggingexporter.NewMetricsExporter(e.Logging, expLogger)
			b.built.metrics = addExporter(b, name, b.built.metrics, metrics, err)
		case "file":
			traces, err := fileexporter.NewTracesExporter(e.File)
			b.built.traces = addExporter(b, name, b.built.traces, traces, err)
			metrics, err := fileexporter.NewMetricsExporter(e.File)
			b.built.metrics = addExporter(b, name, b.built.metrics, metrics, err)
		case "zipkin":
			traces, err := zipkinexporter.NewTracesExporter(e.Zipkin)
			b.built.traces = addExporter(b, name, b.built.traces, traces, err)
		case "prometheus":
			metrics, err := prometheusexporter.NewMetricsExporter(e.Prometheus, expLogger)
			b.built.metrics = addExporter(b, name, b.built.metrics, metrics, err)
		case "kafka":
			traces, err := kafkaexporter.NewTracesExporter(e.Kafka, expLogger)
			b.built.traces = addExporter(b, name, b.built.traces, traces, err)
			metrics, err := kafkaexporter.NewMetricsExporter(e.Kafka, expLogger)
			b.built.metrics = addExporter(b, name, b.built.metrics, metrics, err)
		}
	}
	if set.TracesExporter != nil {
		b.built.traces = addExporter(b, "custom", b.built.traces, set.TracesExporter, nil)
	}
	if set.MetricsExporter != nil {
		b.built.metrics = addExporter(b, "custom", b.built.metrics, set.MetricsExporter, nil)
	}

	if b.errs != nil {
		// Release listeners, files and producers opened before the failure.
		return builtExporters{}, multierr.Append(b.errs, b.built.shutdown(context.Background()))
	}
	return b.built, nil
}

func addExporter[T any](b *exportersBuilder, name string, list []exporter.Exporter[T], exp exporter.Exporter[T], err error) []exporter.Exporter[T] {
	if err != nil {
		b.errs = multierr.Append(b.errs, fmt.Errorf("failed to create %q exporter: %w", name, err))
		return list
	}
	wrapped, err := exporterhelper.New[T](name, exp, b.logger, b.options...)
	if err != nil {
		b.errs = multierr.Append(b.errs, err)
		return list
	}
	return append(list, wrapped)
}

// tracesExporter returns nil when no trace exporter is enabled.
func (be builtExporters) tracesExporter() exporter.Traces {
	if len(be.traces) == 0 {
		return nil
	}
	return exporter.NewFanout[trace.SpanData](be.traces...)
}

// metricsExporter returns nil when no metric exporter is enabled.
func (be builtExporters) metricsExporter() exporter.Metrics {
	if len(be.metrics) == 0 {
		return nil
	}
	return exporter.NewFanout[metric.Record](be.metrics...)
}

func (be builtExporters) shutdown(ctx context.Context) error {
	var errs error
	for _, exp := range be.traces {
		errs = multierr.Append(errs, exp.Shutdown(ctx))
	}
	for _, exp := range be.metrics {
		errs = multierr.Append(errs, exp.Shutdown(ctx))
	}
	return errs
}
