// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package loggingexporter writes spans and records to a zap logger.
package loggingexporter // import "go.opentelemetry.io/telemetrycore/exporter/loggingexporter"

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/config/configtelemetry"
	"go.opentelemetry.io/telemetrycore/exporter"
	"go.opentelemetry.io/telemetrycore/metric"
	"go.opentelemetry.io/telemetrycore/trace"
)

var attributeEncoder = attribute.DefaultEncoder()

type loggingExporter struct {
	verbosity configtelemetry.Level
	logger    *zap.Logger
}

func newLoggingExporter(cfg *Config, logger *zap.Logger) (*loggingExporter, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, errors.New("nil logger")
	}
	return &loggingExporter{verbosity: cfg.Verbosity, logger: logger}, nil
}

func (s *loggingExporter) pushSpans(_ context.Context, spans []trace.SpanData) error {
	s.logger.Info("TracesExporter", zap.Int("#spans", len(spans)))
	switch {
	case s.verbosity.PerItem():
		for _, sd := range spans {
			s.logger.Info(sd.Name,
				zap.Stringer("trace_id", sd.TraceID()),
				zap.Stringer("span_id", sd.SpanID()),
				zap.String("parent_id", parentID(sd)),
				zap.Duration("duration", sd.Duration()),
				zap.Stringer("status", sd.Status.Code),
			)
		}
	case s.verbosity.Dump():
		s.logger.Info(string(marshalSpans(spans)))
	}
	return nil
}

func (s *loggingExporter) pushRecords(_ context.Context, records []metric.Record) error {
	s.logger.Info("MetricsExporter", zap.Int("#records", len(records)))
	switch {
	case s.verbosity.PerItem():
		for _, r := range records {
			s.logger.Info(r.Descriptor.Name,
				zap.Stringer("kind", r.Descriptor.Kind),
				zap.String("attributes", r.Attributes.Encoded(attributeEncoder)),
				zap.Stringer("aggregation", r.Aggregation.Kind),
				zap.Float64("value", r.Aggregation.Value()),
			)
		}
	case s.verbosity.Dump():
		s.logger.Info(string(marshalRecords(records)))
	}
	return nil
}

func (s *loggingExporter) shutdown(context.Context) error {
	// Sync on stdout and stderr fails with a platform-specific error that is safe to ignore.
	if err := s.logger.Sync(); err != nil && !knownSyncError(err) {
		return err
	}
	return nil
}

type tracesExporter struct{ *loggingExporter }

func (e tracesExporter) Export(ctx context.Context, spans []trace.SpanData) error {
	return e.pushSpans(ctx, spans)
}

func (e tracesExporter) Shutdown(ctx context.Context) error { return e.shutdown(ctx) }

type metricsExporter struct{ *loggingExporter }

func (e metricsExporter) Export(ctx context.Context, records []metric.Record) error {
	return e.pushRecords(ctx, records)
}

func (e metricsExporter) Shutdown(ctx context.Context) error { return e.shutdown(ctx) }

// NewTracesExporter creates an exporter.Traces that logs the spans it
// receives at the configured verbosity.
func NewTracesExporter(cfg *Config, logger *zap.Logger) (exporter.Traces, error) {
	le, err := newLoggingExporter(cfg, logger)
	if err != nil {
		return nil, err
	}
	return tracesExporter{le}, nil
}

// NewMetricsExporter creates an exporter.Metrics that logs the records it
// receives at the configured verbosity.
func NewMetricsExporter(cfg *Config, logger *zap.Logger) (exporter.Metrics, error) {
	le, err := newLoggingExporter(cfg, logger)
	if err != nil {
		return nil, err
	}
	return metricsExporter{le}, nil
}
