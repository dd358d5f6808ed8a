// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric // import "go.opentelemetry.io/telemetrycore/metric"

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"go.opentelemetry.io/telemetrycore/baggage"
	"go.opentelemetry.io/telemetrycore/resource"
)

// Exemplar is the last measurement that contributed to a Record. It ties
// the aggregate back to the span and baggage active when it was recorded.
type Exemplar struct {
	Value   float64
	Time    time.Time
	TraceID oteltrace.TraceID
	SpanID  oteltrace.SpanID
	Baggage baggage.Baggage
	// BatchID is non-zero when the measurement was part of a RecordBatch call.
	BatchID uint64
}

// Record is the result of one collection cycle for one instrument and
// attribute set.
type Record struct {
	Descriptor  Descriptor
	Attributes  attribute.Set
	Resource    *resource.Resource
	Aggregation Aggregation
	StartTime   time.Time
	EndTime     time.Time
	Exemplar    Exemplar
}

// measurement is one buffered value waiting for the next collection.
type measurement struct {
	inst    *instrument
	value   float64
	attrs   attribute.Set
	time    time.Time
	traceID oteltrace.TraceID
	spanID  oteltrace.SpanID
	baggage baggage.Baggage
	batchID uint64
}

func (m measurement) exemplar() Exemplar {
	return Exemplar{
		Value:   m.value,
		Time:    m.time,
		TraceID: m.traceID,
		SpanID:  m.spanID,
		Baggage: m.baggage,
		BatchID: m.batchID,
	}
}
