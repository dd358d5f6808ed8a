// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package trace records spans and hands them, once ended, to a SpanSink.
package trace // import "go.opentelemetry.io/telemetrycore/trace"

import (
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/resource"
)

// TracerProvider owns the configuration shared by all tracers of a process.
type TracerProvider struct {
	resource    *resource.Resource
	idGenerator IDGenerator
	sink        SpanSink
	strict      bool
	logger      *zap.Logger

	mu      sync.Mutex
	tracers map[string]*Tracer

	dropped *atomic.Int64
}

// NewTracerProvider returns a provider configured by opts. Without a sink
// ended spans are counted as dropped.
func NewTracerProvider(opts ...Option) *TracerProvider {
	tp := &TracerProvider{
		resource: resource.Empty(),
		logger:   zap.NewNop(),
		tracers:  make(map[string]*Tracer),
		dropped:  atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(tp)
	}
	if tp.idGenerator == nil {
		tp.idGenerator = newRandomIDGenerator()
	}
	return tp
}

// Tracer returns the tracer for the named instrumentation, creating it on
// first use.
func (tp *TracerProvider) Tracer(name string) *Tracer {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	if t, ok := tp.tracers[name]; ok {
		return t
	}
	t := &Tracer{name: name, provider: tp}
	tp.tracers[name] = t
	return t
}

// Resource returns the resource attached to spans.
func (tp *TracerProvider) Resource() *resource.Resource {
	return tp.resource
}

// Dropped returns the number of ended spans the sink did not accept.
func (tp *TracerProvider) Dropped() int64 {
	return tp.dropped.Load()
}

func (tp *TracerProvider) submit(sd SpanData) error {
	if tp.sink == nil {
		tp.dropped.Inc()
		return nil
	}
	err := tp.sink.Enqueue(sd)
	if err == nil {
		return nil
	}
	tp.dropped.Inc()
	if tp.strict {
		return err
	}
	logDropped(tp.logger, sd, err)
	return nil
}
