// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package exporter defines the contract between the batch processors and
// the backends that ship telemetry out of the process.
package exporter // import "go.opentelemetry.io/telemetrycore/exporter"

import (
	"context"

	"go.uber.org/multierr"

	"go.opentelemetry.io/telemetrycore/metric"
	"go.opentelemetry.io/telemetrycore/trace"
)

// Exporter ships batches of T to a backend.
//
// Export is called by one goroutine at a time and owns batch until it
// returns. It should honor ctx cancellation. Shutdown flushes and releases
// resources; Export must not be called after it.
type Exporter[T any] interface {
	Export(ctx context.Context, batch []T) error
	Shutdown(ctx context.Context) error
}

// Traces exports ended spans.
type Traces = Exporter[trace.SpanData]

// Metrics exports collected records.
type Metrics = Exporter[metric.Record]

// ExportFunc adapts a function to an Exporter with a no-op Shutdown.
type ExportFunc[T any] func(ctx context.Context, batch []T) error

// Export calls f.
func (f ExportFunc[T]) Export(ctx context.Context, batch []T) error {
	return f(ctx, batch)
}

// Shutdown does nothing.
func (f ExportFunc[T]) Shutdown(context.Context) error {
	return nil
}

type fanout[T any] struct {
	exporters []Exporter[T]
}

// NewFanout returns an exporter passing every batch to each of exporters in
// order. Errors are combined; one failing exporter does not prevent the
// others from receiving the batch.
func NewFanout[T any](exporters ...Exporter[T]) Exporter[T] {
	if len(exporters) == 1 {
		return exporters[0]
	}
	return &fanout[T]{exporters: exporters}
}

func (f *fanout[T]) Export(ctx context.Context, batch []T) error {
	var errs error
	for _, exp := range f.exporters {
		errs = multierr.Append(errs, exp.Export(ctx, batch))
	}
	return errs
}

func (f *fanout[T]) Shutdown(ctx context.Context) error {
	var errs error
	for _, exp := range f.exporters {
		errs = multierr.Append(errs, exp.Shutdown(ctx))
	}
	return errs
}
