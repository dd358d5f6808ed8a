// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package service assembles the tracing and metrics pipelines of one
// process from a config.Config and owns their lifecycle.
package service // import "go.opentelemetry.io/telemetrycore/service"

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.opencensus.io/stats/view"
	"go.opentelemetry.io/otel"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
	"go.opentelemetry.io/telemetrycore/config"
	"go.opentelemetry.io/telemetrycore/exporter"
	"go.opentelemetry.io/telemetrycore/exporter/kafkaexporter"
	"go.opentelemetry.io/telemetrycore/metric"
	"go.opentelemetry.io/telemetrycore/processor/batchprocessor"
	"go.opentelemetry.io/telemetrycore/resource"
	"go.opentelemetry.io/telemetrycore/service/internal/proctelemetry"
	"go.opentelemetry.io/telemetrycore/trace"
)

// Settings holds the options of New that do not come from the configuration.
type Settings struct {
	// Logger replaces the logger built from config.LogConfig.
	Logger *zap.Logger

	// LoggingOptions provides a way to change behavior of zap logging.
	LoggingOptions []zap.Option

	// Version becomes the service.version resource attribute when set.
	Version string

	// TracesExporter and MetricsExporter receive batches in addition to the
	// configured exporters.
	TracesExporter  exporter.Traces
	MetricsExporter exporter.Metrics
}

// Service is the process-wide telemetry pipeline: a tracer provider and a
// meter provider feeding one batch processor each.
type Service struct {
	logger   *zap.Logger
	resource *resource.Resource
	views    []*view.View

	tracerProvider *trace.TracerProvider
	meterProvider  *metric.MeterProvider
	controller     *metric.Controller

	spanProcessor   *batchprocessor.Processor[trace.SpanData]
	recordProcessor *batchprocessor.Processor[metric.Record]

	shutdownOnce sync.Once
	shutdownErr  error
}

// New builds and starts the pipelines described by cfg.
func New(cfg *config.Config, set Settings) (*Service, error) {
	if cfg == nil {
		return nil, componenterror.Validationf("nil configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, componenterror.Validationf("invalid configuration: %v", err)
	}

	logger := set.Logger
	if logger == nil {
		var err error
		if logger, err = newLogger(cfg.Log, set.LoggingOptions); err != nil {
			return nil, fmt.Errorf("failed to get logger: %w", err)
		}
	}

	// Non-fatal API errors, such as skipped baggage members, go to the log.
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logger.Warn("Telemetry API error", zap.Error(err))
	}))

	res, err := buildResource(cfg, set.Version)
	if err != nil {
		return nil, componenterror.Validationf("%v", err)
	}

	srv := &Service{
		logger:   logger,
		resource: res,
		views:    append(batchprocessor.MetricViews(), kafkaexporter.MetricViews()...),
	}
	if err = view.Register(srv.views...); err != nil {
		return nil, fmt.Errorf("failed to register views: %w", err)
	}

	exporters, err := buildExporters(cfg, set, logger)
	if err != nil {
		view.Unregister(srv.views...)
		return nil, err
	}
	if err = srv.buildPipelines(cfg, exporters); err != nil {
		view.Unregister(srv.views...)
		return nil, multierr.Append(err, exporters.shutdown(context.Background()))
	}

	logger.Info("Starting telemetry pipelines...",
		zap.String("service.name", res.ServiceName()),
		zap.Strings("exporters", cfg.Exporters.Names()),
		zap.Int("NumCPU", runtime.NumCPU()),
	)
	if err = srv.start(cfg); err != nil {
		return nil, multierr.Append(err, srv.Shutdown(context.Background()))
	}
	return srv, nil
}

func (srv *Service) buildPipelines(cfg *config.Config, exporters builtExporters) error {
	traceOpts := []trace.Option{
		trace.WithResource(srv.resource),
		trace.WithStrict(cfg.Strict),
		trace.WithLogger(srv.logger),
	}
	if exp := exporters.tracesExporter(); exp != nil {
		proc, err := batchprocessor.New[trace.SpanData](
			batchprocessor.Settings{Name: "traces", Logger: srv.logger}, cfg.Config, exp)
		if err != nil {
			return err
		}
		srv.spanProcessor = proc
		traceOpts = append(traceOpts, trace.WithSpanSink(proc))
	} else {
		srv.logger.Warn("No trace exporter enabled, spans will be dropped.")
	}

	meterOpts := []metric.Option{
		metric.WithResource(srv.resource),
		metric.WithStrict(cfg.Strict),
		metric.WithLogger(srv.logger),
		metric.WithCollectDeadline(cfg.CollectDeadline),
	}
	if exp := exporters.metricsExporter(); exp != nil {
		proc, err := batchprocessor.New[metric.Record](
			batchprocessor.Settings{Name: "metrics", Logger: srv.logger}, cfg.Config, exp)
		if err != nil {
			return err
		}
		srv.recordProcessor = proc
		meterOpts = append(meterOpts, metric.WithRecordSink(proc))
	} else {
		srv.logger.Warn("No metric exporter enabled, records will be dropped.")
	}

	srv.tracerProvider = trace.NewTracerProvider(traceOpts...)
	srv.meterProvider = metric.NewMeterProvider(meterOpts...)
	srv.controller = metric.NewController(srv.meterProvider, cfg.CollectInterval)
	if cfg.ProcessMetrics {
		if err := proctelemetry.Register(srv.meterProvider.Meter(proctelemetry.MeterName)); err != nil {
			return fmt.Errorf("failed to register process metrics: %w", err)
		}
	}
	return nil
}

func (srv *Service) start(cfg *config.Config) error {
	ctx := context.Background()
	if srv.spanProcessor != nil {
		if err := srv.spanProcessor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start traces pipeline: %w", err)
		}
	}
	if srv.recordProcessor != nil {
		if err := srv.recordProcessor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics pipeline: %w", err)
		}
	}
	if err := srv.controller.Start(ctx); err != nil {
		return fmt.Errorf("failed to start metric collection every %v: %w", cfg.CollectInterval, err)
	}
	return nil
}

// InitTracer returns the tracer registered under name.
func (srv *Service) InitTracer(name string) *trace.Tracer {
	return srv.tracerProvider.Tracer(name)
}

// InitMeter returns the meter registered under name.
func (srv *Service) InitMeter(name string) *metric.Meter {
	return srv.meterProvider.Meter(name)
}

// Logger returns the logger created for this service.
func (srv *Service) Logger() *zap.Logger {
	return srv.logger
}

// Resource returns the resource attached to every span and record.
func (srv *Service) Resource() *resource.Resource {
	return srv.resource
}

// ForceFlush collects the meters and exports everything buffered by both
// pipelines.
func (srv *Service) ForceFlush(ctx context.Context) error {
	errs := srv.meterProvider.Collect(ctx)
	if srv.spanProcessor != nil {
		errs = multierr.Append(errs, srv.spanProcessor.ForceFlush(ctx))
	}
	if srv.recordProcessor != nil {
		errs = multierr.Append(errs, srv.recordProcessor.ForceFlush(ctx))
	}
	return errs
}

// Shutdown stops metric collection after a final cycle, then drains and
// shuts down both pipelines concurrently. Only the first call does the work;
// later calls return its result.
func (srv *Service) Shutdown(ctx context.Context) error {
	srv.shutdownOnce.Do(func() {
		srv.shutdownErr = srv.shutdown(ctx)
	})
	return srv.shutdownErr
}

func (srv *Service) shutdown(ctx context.Context) error {
	// Accumulate errors and proceed with shutting down remaining components.
	var errs error

	srv.logger.Info("Starting shutdown...")

	if err := srv.controller.Stop(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to stop metric collection: %w", err))
	}

	var g errgroup.Group
	if srv.spanProcessor != nil {
		g.Go(func() error {
			if err := srv.spanProcessor.Shutdown(ctx); err != nil {
				return fmt.Errorf("failed to shutdown traces pipeline: %w", err)
			}
			return nil
		})
	}
	if srv.recordProcessor != nil {
		g.Go(func() error {
			if err := srv.recordProcessor.Shutdown(ctx); err != nil {
				return fmt.Errorf("failed to shutdown metrics pipeline: %w", err)
			}
			return nil
		})
	}
	errs = multierr.Append(errs, g.Wait())

	view.Unregister(srv.views...)
	srv.logger.Info("Shutdown complete.",
		zap.Int64("dropped_spans", srv.DroppedSpans()),
		zap.Int64("dropped_records", srv.DroppedRecords()),
	)
	return errs
}

// DroppedSpans returns how many spans never reached an exporter or failed
// to export.
func (srv *Service) DroppedSpans() int64 {
	n := srv.tracerProvider.Dropped()
	if srv.spanProcessor != nil {
		n += srv.spanProcessor.Dropped()
	}
	return n
}

// DroppedRecords returns how many records never reached an exporter or
// failed to export.
func (srv *Service) DroppedRecords() int64 {
	n := srv.meterProvider.Dropped()
	if srv.recordProcessor != nil {
		n += srv.recordProcessor.Dropped()
	}
	return n
}
