// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exportertest // import "go.opentelemetry.io/telemetrycore/exporter/exportertest"

import (
	"context"

	"go.uber.org/atomic"
)

// ErrExporter drops all received data and returns the configured error
// from Export.
type ErrExporter[T any] struct {
	err   error
	calls *atomic.Int64
}

// NewErr returns an exporter that just drops all received data and returns
// err to Export callers.
func NewErr[T any](err error) *ErrExporter[T] {
	return &ErrExporter[T]{err: err, calls: atomic.NewInt64(0)}
}

// Export returns the configured error.
func (e *ErrExporter[T]) Export(context.Context, []T) error {
	e.calls.Inc()
	return e.err
}

// Shutdown returns nil.
func (e *ErrExporter[T]) Shutdown(context.Context) error {
	return nil
}

// Calls returns how many times Export was called.
func (e *ErrExporter[T]) Calls() int64 {
	return e.calls.Load()
}
