// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package batchprocessor buffers ended spans or collected metric records and
// hands them to an exporter in batches.
package batchprocessor // import "go.opentelemetry.io/telemetrycore/processor/batchprocessor"

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
	"go.opentelemetry.io/telemetrycore/exporter"
	"go.opentelemetry.io/telemetrycore/internal/lifecycle"
)

// Settings carries the identity and logger of a processor.
type Settings struct {
	Name   string
	Logger *zap.Logger
}

// Processor is a component that accepts items of type T, places them into
// batches and sends them to an exporter.
//
// Batches are sent out with any of the following conditions:
// - the number of buffered items reaches cfg.MaxBatchSize
// - cfg.FlushInterval is elapsed since the previous batch was sent out
// - ForceFlush or Shutdown is called.
//
// Producers only take mu to append; exporting happens on the processor
// goroutine and at most one export is in flight at any time.
type Processor[T any] struct {
	name     string
	cfg      Config
	exporter exporter.Exporter[T]
	logger   *zap.Logger

	mu     sync.Mutex
	buf    []T
	closed bool

	sizeC       chan struct{}
	flushC      chan flushRequest
	shutdownC   chan struct{}
	shutdownCtx context.Context
	done        chan struct{}
	timer       *time.Timer

	state    *lifecycle.Machine
	started  *atomic.Bool
	exportMu sync.Mutex

	exported     *atomic.Int64
	exportErrors *atomic.Int64
	droppedItems *atomic.Int64

	warnLimiter *rate.Limiter
	telemetry   *processorTelemetry
}

type flushRequest struct {
	ctx  context.Context
	done chan struct{}
}

// New creates a stopped processor. Items may be enqueued before Start and
// are exported on the first trigger after it.
func New[T any](set Settings, cfg Config, exp exporter.Exporter[T]) (*Processor[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, componenterror.Validationf("batch processor %q: %v", set.Name, err)
	}
	if exp == nil {
		return nil, componenterror.Validationf("batch processor %q: nil exporter", set.Name)
	}
	logger := set.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor[T]{
		name:     set.Name,
		cfg:      cfg,
		exporter: exp,
		logger:   logger.With(zap.String("processor", set.Name)),

		buf: make([]T, 0, cfg.MaxBatchSize),

		sizeC:     make(chan struct{}, 1),
		flushC:    make(chan flushRequest),
		shutdownC: make(chan struct{}),
		done:      make(chan struct{}),

		state:   lifecycle.NewMachine(),
		started: atomic.NewBool(false),

		exported:     atomic.NewInt64(0),
		exportErrors: atomic.NewInt64(0),
		droppedItems: atomic.NewInt64(0),

		warnLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
		telemetry:   newProcessorTelemetry(set.Name),
	}, nil
}

// Start launches the processing loop.
func (bp *Processor[T]) Start(context.Context) error {
	if bp.state.Load() >= lifecycle.ShuttingDown {
		return componenterror.Shutdownf("batch processor %q is shut down", bp.name)
	}
	if !bp.started.CompareAndSwap(false, true) {
		return componenterror.ErrAlreadyStarted
	}
	bp.timer = time.NewTimer(bp.cfg.FlushInterval)
	go bp.startProcessingCycle()
	return nil
}

// Enqueue appends item to the active buffer. It never blocks on export.
func (bp *Processor[T]) Enqueue(item T) error {
	bp.mu.Lock()
	if bp.closed {
		bp.mu.Unlock()
		return componenterror.Shutdownf("batch processor %q is shut down", bp.name)
	}
	bp.buf = append(bp.buf, item)
	full := len(bp.buf) >= bp.cfg.MaxBatchSize
	bp.mu.Unlock()

	if full {
		bp.signalFull()
	}
	return nil
}

// EnqueueAll appends items contiguously, so they are exported in the same
// batch.
func (bp *Processor[T]) EnqueueAll(items []T) error {
	if len(items) == 0 {
		return nil
	}
	bp.mu.Lock()
	if bp.closed {
		bp.mu.Unlock()
		return componenterror.Shutdownf("batch processor %q is shut down", bp.name)
	}
	bp.buf = append(bp.buf, items...)
	full := len(bp.buf) >= bp.cfg.MaxBatchSize
	bp.mu.Unlock()

	if full {
		bp.signalFull()
	}
	return nil
}

func (bp *Processor[T]) signalFull() {
	select {
	case bp.sizeC <- struct{}{}:
	default:
	}
}

// ForceFlush exports everything buffered so far and waits for it.
func (bp *Processor[T]) ForceFlush(ctx context.Context) error {
	if bp.state.Load() >= lifecycle.ShuttingDown {
		return componenterror.Shutdownf("batch processor %q is shut down", bp.name)
	}
	if !bp.started.Load() {
		bp.drain(ctx, triggerFlush)
		return nil
	}
	req := flushRequest{ctx: ctx, done: make(chan struct{})}
	select {
	case bp.flushC <- req:
	case <-bp.done:
		return componenterror.Shutdownf("batch processor %q is shut down", bp.name)
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown rejects new items, exports what is buffered and shuts the
// exporter down. It waits at most cfg.ShutdownTimeout or until ctx is done.
// When the final export outlives that wait, the exporter is shut down in
// the background once the export returns, never alongside it.
// Only the first call does anything; later calls return nil.
func (bp *Processor[T]) Shutdown(ctx context.Context) error {
	if !bp.state.BeginShutdown() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, bp.cfg.ShutdownTimeout)
	defer cancel()

	bp.mu.Lock()
	bp.closed = true
	bp.mu.Unlock()

	if !bp.started.Load() {
		bp.drain(ctx, triggerShutdown)
		bp.state.Finish()
		return bp.exporter.Shutdown(ctx)
	}

	bp.shutdownCtx = ctx
	close(bp.shutdownC)
	select {
	case <-bp.done:
		bp.state.Finish()
		return bp.exporter.Shutdown(ctx)
	case <-ctx.Done():
	}
	err := fmt.Errorf("batch processor %q: final export did not finish: %w", bp.name, ctx.Err())
	bp.state.Finish()
	go func() {
		<-bp.done
		if serr := bp.exporter.Shutdown(context.Background()); serr != nil {
			bp.logger.Warn("Failed to shut down exporter after late final export", zap.Error(serr))
		}
	}()
	return err
}

// State returns the current stage of the export cycle.
func (bp *Processor[T]) State() lifecycle.State {
	return bp.state.Load()
}

// ExportErrors returns how many batches failed to export.
func (bp *Processor[T]) ExportErrors() int64 {
	return bp.exportErrors.Load()
}

// Exported returns how many items were exported successfully.
func (bp *Processor[T]) Exported() int64 {
	return bp.exported.Load()
}

// Dropped returns how many items were discarded by failed exports.
func (bp *Processor[T]) Dropped() int64 {
	return bp.droppedItems.Load()
}

func (bp *Processor[T]) startProcessingCycle() {
	defer close(bp.done)
	for {
		select {
		case <-bp.shutdownC:
			bp.stopTimer()
			bp.drain(bp.shutdownCtx, triggerShutdown)
			return
		case <-bp.sizeC:
			bp.drain(context.Background(), triggerBatchSize)
			bp.stopTimer()
			bp.resetTimer()
		case req := <-bp.flushC:
			bp.drain(req.ctx, triggerFlush)
			close(req.done)
		case <-bp.timer.C:
			bp.drain(context.Background(), triggerTimeout)
			bp.resetTimer()
		}
	}
}

func (bp *Processor[T]) resetTimer() {
	bp.timer.Reset(bp.cfg.FlushInterval)
}

// drain swaps the active buffer for an empty one and exports the old one.
func (bp *Processor[T]) drain(ctx context.Context, t trigger) {
	bp.exportMu.Lock()
	defer bp.exportMu.Unlock()

	// During shutdown the machine stays in ShuttingDown.
	cycling := bp.state.Transition(lifecycle.Idle, lifecycle.Draining)

	bp.mu.Lock()
	batch := bp.buf
	if len(batch) > 0 {
		bp.buf = make([]T, 0, bp.cfg.MaxBatchSize)
	}
	bp.mu.Unlock()

	if len(batch) == 0 {
		if cycling {
			bp.state.Transition(lifecycle.Draining, lifecycle.Idle)
		}
		return
	}

	if cycling {
		bp.state.Transition(lifecycle.Draining, lifecycle.Exporting)
	}
	bp.export(ctx, batch, t)
	if cycling {
		bp.state.Transition(lifecycle.Exporting, lifecycle.Idle)
	}
}

func (bp *Processor[T]) export(ctx context.Context, batch []T, t trigger) {
	bp.telemetry.recordSend(t, len(batch))
	err := bp.exporter.Export(ctx, batch)
	if err == nil {
		bp.exported.Add(int64(len(batch)))
		return
	}

	bp.exportErrors.Inc()
	bp.droppedItems.Add(int64(len(batch)))
	bp.telemetry.recordFailure()
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("dropped_items", len(batch)),
		zap.Stringer("trigger", t),
		zap.Int64("export_errors", bp.exportErrors.Load()),
	}
	if bp.warnLimiter.Allow() {
		bp.logger.Warn("Exporting failed. Dropping data.", fields...)
		return
	}
	bp.logger.Debug("Exporting failed. Dropping data.", fields...)
}
