// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric // import "go.opentelemetry.io/telemetrycore/metric"

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
)

type instrument struct {
	meter    *Meter
	desc     Descriptor
	index    int
	callback ObserverCallback
}

// Descriptor returns the instrument descriptor.
func (i *instrument) Descriptor() Descriptor {
	return i.desc
}

// Measurement pairs an instrument with a value for Meter.RecordBatch.
type Measurement struct {
	inst  *instrument
	value float64
}

// Descriptor returns the descriptor of the measured instrument.
func (m Measurement) Descriptor() Descriptor {
	if m.inst == nil {
		return Descriptor{}
	}
	return m.inst.desc
}

// Value returns the measured value.
func (m Measurement) Value() float64 {
	return m.value
}

// Counter is a synchronous instrument accumulating non-negative increments.
type Counter struct {
	*instrument
}

// Add records an increment of v. Negative values are rejected.
func (c Counter) Add(ctx context.Context, v float64, attrs ...attribute.KeyValue) error {
	return c.meter.record(ctx, Measurement{inst: c.instrument, value: v}, attrs)
}

// Measurement returns a measurement of v for RecordBatch.
func (c Counter) Measurement(v float64) Measurement {
	return Measurement{inst: c.instrument, value: v}
}

// ValueRecorder is a synchronous instrument recording arbitrary values,
// aggregated as min, max, sum and count.
type ValueRecorder struct {
	*instrument
}

// Record records v.
func (r ValueRecorder) Record(ctx context.Context, v float64, attrs ...attribute.KeyValue) error {
	return r.meter.record(ctx, Measurement{inst: r.instrument, value: v}, attrs)
}

// Measurement returns a measurement of v for RecordBatch.
func (r ValueRecorder) Measurement(v float64) Measurement {
	return Measurement{inst: r.instrument, value: v}
}

// Bind returns a recorder with attrs fixed. An invalid attribute makes
// every Record on the bound recorder fail.
func (r ValueRecorder) Bind(attrs ...attribute.KeyValue) BoundValueRecorder {
	b := BoundValueRecorder{recorder: r}
	if err := validateAttributes(attrs); err != nil {
		b.err = err
		return b
	}
	b.attrs = make([]attribute.KeyValue, len(attrs))
	copy(b.attrs, attrs)
	return b
}

// BoundValueRecorder is a ValueRecorder with a pre-bound attribute set.
type BoundValueRecorder struct {
	recorder ValueRecorder
	attrs    []attribute.KeyValue
	err      error
}

// Record records v with the bound attributes.
func (b BoundValueRecorder) Record(ctx context.Context, v float64) error {
	if b.err != nil {
		return b.err
	}
	return b.recorder.Record(ctx, v, b.attrs...)
}

// ObserverResult receives the observations of a callback.
type ObserverResult interface {
	Observe(value float64, attrs ...attribute.KeyValue)
}

// ObserverCallback is run once per collection cycle. It must return
// promptly once ctx is done; observations made after that are discarded.
type ObserverCallback func(ctx context.Context, result ObserverResult)

// ValueObserver is an asynchronous instrument reporting the last observed
// value per attribute set.
type ValueObserver struct {
	*instrument
}

func validateValue(desc Descriptor, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return componenterror.Validationf("instrument %q: value %v is not finite", desc.Name, v)
	}
	if desc.Kind == CounterKind && v < 0 {
		return componenterror.Validationf("counter %q: negative increment %v", desc.Name, v)
	}
	return nil
}

func validateAttributes(attrs []attribute.KeyValue) error {
	for _, kv := range attrs {
		if !kv.Valid() {
			return componenterror.Validationf("invalid attribute %q", string(kv.Key))
		}
	}
	return nil
}
