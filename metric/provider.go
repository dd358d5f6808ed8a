// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package metric implements synchronous and asynchronous instruments, a
// Meter buffering their measurements, and the periodic collection that
// aggregates them into Records handed to a RecordSink.
package metric // import "go.opentelemetry.io/telemetrycore/metric"

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
	"go.opentelemetry.io/telemetrycore/resource"
)

const defaultCollectDeadline = 5 * time.Second

// RecordSink receives the records of one collection cycle as a unit.
type RecordSink interface {
	EnqueueAll([]Record) error
}

// MeterProvider owns the meters of a process and collects them together.
type MeterProvider struct {
	resource        *resource.Resource
	sink            RecordSink
	strict          bool
	logger          *zap.Logger
	collectDeadline time.Duration
	selector        AggregatorSelector

	mu     sync.Mutex
	meters map[string]*Meter
	order  []*Meter

	batchSeq *atomic.Uint64
	dropped  *atomic.Int64
	shutdown *atomic.Bool
}

// Option configures a MeterProvider.
type Option func(*MeterProvider)

// WithResource sets the resource attached to every record.
func WithResource(res *resource.Resource) Option {
	return func(mp *MeterProvider) {
		if res != nil {
			mp.resource = res
		}
	}
}

// WithRecordSink sets where collected records are sent.
func WithRecordSink(sink RecordSink) Option {
	return func(mp *MeterProvider) {
		mp.sink = sink
	}
}

// WithStrict makes recording and collection return ShutdownError instead of
// silently dropping.
func WithStrict(strict bool) Option {
	return func(mp *MeterProvider) {
		mp.strict = strict
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(mp *MeterProvider) {
		if logger != nil {
			mp.logger = logger
		}
	}
}

// WithCollectDeadline bounds how long observer callbacks may run per cycle.
func WithCollectDeadline(d time.Duration) Option {
	return func(mp *MeterProvider) {
		if d > 0 {
			mp.collectDeadline = d
		}
	}
}

// WithAggregatorSelector replaces DefaultAggregatorSelector.
func WithAggregatorSelector(selector AggregatorSelector) Option {
	return func(mp *MeterProvider) {
		if selector != nil {
			mp.selector = selector
		}
	}
}

// NewMeterProvider returns a provider configured by opts.
func NewMeterProvider(opts ...Option) *MeterProvider {
	mp := &MeterProvider{
		resource:        resource.Empty(),
		logger:          zap.NewNop(),
		collectDeadline: defaultCollectDeadline,
		selector:        DefaultAggregatorSelector,
		meters:          make(map[string]*Meter),
		batchSeq:        atomic.NewUint64(0),
		dropped:         atomic.NewInt64(0),
		shutdown:        atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(mp)
	}
	return mp
}

// Meter returns the meter for the named instrumentation, creating it on
// first use.
func (mp *MeterProvider) Meter(name string) *Meter {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if m, ok := mp.meters[name]; ok {
		return m
	}
	m := newMeter(name, mp)
	mp.meters[name] = m
	mp.order = append(mp.order, m)
	return m
}

// Resource returns the resource attached to records.
func (mp *MeterProvider) Resource() *resource.Resource {
	return mp.resource
}

// Dropped returns the number of measurements and records discarded
// because the pipeline was shut down or an observer was late.
func (mp *MeterProvider) Dropped() int64 {
	return mp.dropped.Load()
}

// Collect collects every meter and enqueues all records of the cycle into
// the sink in one call.
func (mp *MeterProvider) Collect(ctx context.Context) error {
	mp.mu.Lock()
	meters := make([]*Meter, len(mp.order))
	copy(meters, mp.order)
	mp.mu.Unlock()

	var records []Record
	for _, m := range meters {
		records = append(records, m.Collect(ctx)...)
	}
	if len(records) == 0 {
		return nil
	}
	if mp.sink == nil {
		mp.dropped.Add(int64(len(records)))
		return nil
	}
	if err := mp.sink.EnqueueAll(records); err != nil {
		mp.dropped.Add(int64(len(records)))
		if mp.strict {
			return err
		}
		mp.logger.Debug("Dropping collected records", zap.Int("records", len(records)), zap.Error(err))
	}
	return nil
}

// Shutdown performs a final collection and rejects further recordings.
// A recording that passed its shutdown check before Shutdown either lands
// in the final collection or is rejected and counted as dropped.
// Calling it again is a no-op.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if !mp.shutdown.CompareAndSwap(false, true) {
		return nil
	}
	mp.mu.Lock()
	meters := make([]*Meter, len(mp.order))
	copy(meters, mp.order)
	mp.mu.Unlock()
	for _, m := range meters {
		m.close()
	}
	return mp.Collect(ctx)
}

func (mp *MeterProvider) isShutdown() bool {
	return mp.shutdown.Load()
}

func (mp *MeterProvider) rejectRecording(n int) error {
	mp.dropped.Add(int64(n))
	if mp.strict {
		return componenterror.Shutdownf("meter provider is shut down")
	}
	return nil
}

func (mp *MeterProvider) aggregator(d Descriptor) Aggregator {
	if agg := mp.selector(d); agg != nil {
		return agg
	}
	return DefaultAggregatorSelector(d)
}
