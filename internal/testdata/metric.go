// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package testdata // import "go.opentelemetry.io/telemetrycore/internal/testdata"

import (
	"time"

	"go.opentelemetry.io/otel/attribute"

	"go.opentelemetry.io/telemetrycore/baggage"
	"go.opentelemetry.io/telemetrycore/metric"
)

var (
	TestMetricStartTime    = time.Date(2020, 2, 11, 20, 26, 12, 321, time.UTC)
	TestMetricExemplarTime = time.Date(2020, 2, 11, 20, 26, 13, 123, time.UTC)
	TestMetricEndTime      = time.Date(2020, 2, 11, 20, 26, 13, 789, time.UTC)
)

const (
	TestCounterName  = "counter-int"
	TestRecorderName = "recorder-double"
	TestObserverName = "observer-double"
)

// GenerateRecords returns one record per instrument kind: a counter summed
// to 3, a value recorder with two samples and an observer at 1.
func GenerateRecords() []metric.Record {
	m, _ := baggage.NewMember("ex.com/another", "xyz")
	bg, _ := baggage.New(m)
	attrs1 := attribute.NewSet(attribute.String(TestLabelKey1, TestLabelValue1))
	attrs2 := attribute.NewSet(
		attribute.String(TestLabelKey1, TestLabelValue1),
		attribute.String(TestLabelKey2, TestLabelValue2),
	)
	exemplar := metric.Exemplar{
		Value:   1,
		Time:    TestMetricExemplarTime,
		TraceID: TestTraceID,
		SpanID:  SpanContext(1).SpanID(),
		Baggage: bg,
		BatchID: 1,
	}
	return []metric.Record{
		{
			Descriptor:  metric.Descriptor{Name: TestCounterName, Kind: metric.CounterKind, Description: "a counter", Unit: "1", InstrumentationName: TestScopeName},
			Attributes:  attrs1,
			Resource:    TestResource(),
			Aggregation: metric.Aggregation{Kind: metric.SumAggregation, Sum: 3, Count: 3},
			StartTime:   TestMetricStartTime,
			EndTime:     TestMetricEndTime,
			Exemplar:    exemplar,
		},
		{
			Descriptor:  metric.Descriptor{Name: TestRecorderName, Kind: metric.ValueRecorderKind, Unit: "ms", InstrumentationName: TestScopeName},
			Attributes:  attrs2,
			Resource:    TestResource(),
			Aggregation: metric.Aggregation{Kind: metric.MinMaxSumCountAggregation, Sum: 3, Count: 2, Min: 1, Max: 2},
			StartTime:   TestMetricStartTime,
			EndTime:     TestMetricEndTime,
			Exemplar:    exemplar,
		},
		{
			Descriptor:  metric.Descriptor{Name: TestObserverName, Kind: metric.ValueObserverKind, Description: "A ValueObserver set to 1.0", InstrumentationName: TestScopeName},
			Attributes:  attrs1,
			Resource:    TestResource(),
			Aggregation: metric.Aggregation{Kind: metric.LastValueAggregation, LastValue: 1, Count: 1},
			StartTime:   TestMetricStartTime,
			EndTime:     TestMetricEndTime,
		},
	}
}
