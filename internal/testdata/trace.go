// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package testdata // import "go.opentelemetry.io/telemetrycore/internal/testdata"

import (
	"time"

	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"go.opentelemetry.io/telemetrycore/trace"
)

var (
	TestSpanStartTime = time.Date(2020, 2, 11, 20, 26, 12, 321, time.UTC)
	TestSpanEventTime = time.Date(2020, 2, 11, 20, 26, 13, 123, time.UTC)
	TestSpanEndTime   = time.Date(2020, 2, 11, 20, 26, 13, 789, time.UTC)

	TestTraceID = oteltrace.TraceID{1, 2, 3, 4, 5, 6, 7, 8, 8, 7, 6, 5, 4, 3, 2, 1}
)

// SpanContext returns a sampled span context in TestTraceID.
func SpanContext(spanID byte) oteltrace.SpanContext {
	return oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    TestTraceID,
		SpanID:     oteltrace.SpanID{0, 0, 0, 0, 0, 0, 0, spanID},
		TraceFlags: oteltrace.FlagsSampled,
	})
}

// GenerateSpans returns count spans of one trace. The first is the root,
// every other span is its child.
func GenerateSpans(count int) []trace.SpanData {
	spans := make([]trace.SpanData, 0, count)
	for i := 0; i < count; i++ {
		sd := trace.SpanData{
			Name:                "operationA",
			SpanContext:         SpanContext(byte(i + 1)),
			StartTime:           TestSpanStartTime,
			EndTime:             TestSpanEndTime,
			Attributes:          spanAttributes,
			InstrumentationName: TestScopeName,
			Resource:            TestResource(),
			Events: []trace.Event{
				{Name: "event-with-attr", Time: TestSpanEventTime, Attributes: spanEventAttributes},
				{Name: "event", Time: TestSpanEventTime},
			},
			Status: trace.Status{Code: codes.Ok},
		}
		if i > 0 {
			sd.Name = "operationB"
			sd.Parent = SpanContext(1)
			sd.Status = trace.Status{Code: codes.Error, Description: "status-cancelled"}
		}
		spans = append(spans, sd)
	}
	return spans
}
