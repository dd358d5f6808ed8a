// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package exporterhelper wraps an exporter.Exporter with per-call timeouts,
// optional retries with exponential backoff, uniform error reporting and an
// idempotent Shutdown.
package exporterhelper // import "go.opentelemetry.io/telemetrycore/exporter/exporterhelper"

import (
	"context"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
	"go.opentelemetry.io/telemetrycore/exporter"
)

// request is one batch travelling down the sender chain.
type request[T any] struct {
	ctx   context.Context
	batch []T
}

// requestSender is a stage of the chain.
type requestSender[T any] interface {
	send(req request[T]) error
}

type exportSender[T any] struct {
	next exporter.Exporter[T]
}

func (es *exportSender[T]) send(req request[T]) error {
	return es.next.Export(req.ctx, req.batch)
}

type settings struct {
	timeout TimeoutSettings
	retry   RetrySettings
}

// Option apply changes to the wrapper.
type Option func(*settings)

// WithTimeout overrides the default TimeoutSettings.
func WithTimeout(timeoutSettings TimeoutSettings) Option {
	return func(s *settings) {
		s.timeout = timeoutSettings
	}
}

// WithRetry overrides the default RetrySettings.
func WithRetry(retrySettings RetrySettings) Option {
	return func(s *settings) {
		s.retry = retrySettings
	}
}

// Exporter is an exporter.Exporter decorated with the helper senders.
type Exporter[T any] struct {
	name   string
	next   exporter.Exporter[T]
	logger *zap.Logger

	first       requestSender[T]
	retryStopCh chan struct{}

	stopped      *atomic.Bool
	shutdownOnce sync.Once
	shutdownErr  error
}

var _ exporter.Exporter[int] = (*Exporter[int])(nil)

// New wraps next. name identifies the exporter in errors and logs.
func New[T any](name string, next exporter.Exporter[T], logger *zap.Logger, options ...Option) (*Exporter[T], error) {
	if next == nil {
		return nil, componenterror.Validationf("exporter %q: nil exporter", name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &settings{
		timeout: NewDefaultTimeoutSettings(),
		retry:   NewDefaultRetrySettings(),
	}
	for _, op := range options {
		op(s)
	}

	logger = logger.With(zap.String("exporter", name))
	e := &Exporter[T]{
		name:        name,
		next:        next,
		logger:      logger,
		retryStopCh: make(chan struct{}),
		stopped:     atomic.NewBool(false),
	}
	timeout := &timeoutSender[T]{cfg: s.timeout, nextSender: &exportSender[T]{next: next}}
	e.first = &retrySender[T]{
		cfg:        s.retry,
		nextSender: timeout,
		stopCh:     e.retryStopCh,
		logger:     logger,
	}
	return e, nil
}

// Name returns the exporter name.
func (e *Exporter[T]) Name() string {
	return e.name
}

// Export sends batch down the chain. Failures are returned as
// *exporter.ExportError.
func (e *Exporter[T]) Export(ctx context.Context, batch []T) error {
	if e.stopped.Load() {
		return &exporter.ExportError{
			Exporter: e.name,
			Items:    len(batch),
			Err:      componenterror.Shutdownf("exporter %q is shut down", e.name),
		}
	}
	if len(batch) == 0 {
		return nil
	}
	if err := e.first.send(request[T]{ctx: ctx, batch: batch}); err != nil {
		return &exporter.ExportError{Exporter: e.name, Items: len(batch), Err: err}
	}
	return nil
}

// Shutdown interrupts pending retries and shuts the wrapped exporter down.
// Only the first call has an effect; later calls return its result.
func (e *Exporter[T]) Shutdown(ctx context.Context) error {
	e.shutdownOnce.Do(func() {
		e.stopped.Store(true)
		close(e.retryStopCh)
		e.shutdownErr = e.next.Shutdown(ctx)
	})
	return e.shutdownErr
}
