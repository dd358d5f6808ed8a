// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/telemetrycore/trace"

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"go.opentelemetry.io/telemetrycore/resource"
)

// Event is a timestamped annotation on a span.
type Event struct {
	Name       string
	Time       time.Time
	Attributes []attribute.KeyValue
}

// Status is the outcome of the operation a span represents.
type Status struct {
	Code        codes.Code
	Description string
}

// SpanData is the immutable snapshot of an ended span handed to exporters.
type SpanData struct {
	Name                string
	SpanContext         oteltrace.SpanContext
	Parent              oteltrace.SpanContext
	StartTime           time.Time
	EndTime             time.Time
	Attributes          []attribute.KeyValue
	Events              []Event
	Status              Status
	InstrumentationName string
	Resource            *resource.Resource
}

// TraceID returns the trace the span belongs to.
func (sd SpanData) TraceID() oteltrace.TraceID { return sd.SpanContext.TraceID() }

// SpanID returns the span's own id.
func (sd SpanData) SpanID() oteltrace.SpanID { return sd.SpanContext.SpanID() }

// ParentSpanID returns the parent span id, invalid for root spans.
func (sd SpanData) ParentSpanID() oteltrace.SpanID { return sd.Parent.SpanID() }

// IsRoot reports whether the span has no parent.
func (sd SpanData) IsRoot() bool { return !sd.Parent.SpanID().IsValid() }

// Duration returns EndTime - StartTime.
func (sd SpanData) Duration() time.Duration { return sd.EndTime.Sub(sd.StartTime) }
