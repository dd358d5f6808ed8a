// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package loggingexporter // import "go.opentelemetry.io/telemetrycore/exporter/loggingexporter"

import (
	"bytes"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"go.opentelemetry.io/telemetrycore/metric"
	"go.opentelemetry.io/telemetrycore/resource"
	"go.opentelemetry.io/telemetrycore/trace"
)

type dataBuffer struct {
	buf bytes.Buffer
}

func (b *dataBuffer) logEntry(format string, a ...any) {
	b.buf.WriteString(fmt.Sprintf(format, a...))
	b.buf.WriteString("\n")
}

func (b *dataBuffer) logAttr(label string, value any) {
	b.logEntry("    %-15s: %s", label, value)
}

func (b *dataBuffer) logAttributes(header string, kvs []attribute.KeyValue) {
	if len(kvs) == 0 {
		return
	}
	b.logEntry("%s:", header)
	for _, kv := range kvs {
		b.logEntry("     -> %s: %s(%s)", kv.Key, kv.Value.Type(), kv.Value.Emit())
	}
}

func (b *dataBuffer) logResource(res *resource.Resource) {
	b.logAttributes("Resource attributes", res.Attributes())
}

func (b *dataBuffer) logTime(label string, t time.Time) {
	b.logAttr(label, t.UTC().Format(time.RFC3339Nano))
}

func (b *dataBuffer) logEvents(events []trace.Event) {
	if len(events) == 0 {
		return
	}
	b.logEntry("Events:")
	for i, e := range events {
		b.logEntry("SpanEvent #%d", i)
		b.logEntry("     -> Name: %s", e.Name)
		b.logEntry("     -> Timestamp: %s", e.Time.UTC().Format(time.RFC3339Nano))
		for _, kv := range e.Attributes {
			b.logEntry("         -> %s: %s(%s)", kv.Key, kv.Value.Type(), kv.Value.Emit())
		}
	}
}

// marshalSpans renders every field of every span.
func marshalSpans(spans []trace.SpanData) []byte {
	var b dataBuffer
	for i, sd := range spans {
		b.logEntry("Span #%d", i)
		b.logAttr("Trace ID", sd.TraceID())
		b.logAttr("Parent ID", parentID(sd))
		b.logAttr("ID", sd.SpanID())
		b.logAttr("Name", sd.Name)
		b.logAttr("Scope", sd.InstrumentationName)
		b.logTime("Start time", sd.StartTime)
		b.logTime("End time", sd.EndTime)
		b.logAttr("Status code", sd.Status.Code)
		b.logAttr("Status message", sd.Status.Description)
		b.logResource(sd.Resource)
		b.logAttributes("Attributes", sd.Attributes)
		b.logEvents(sd.Events)
	}
	return b.buf.Bytes()
}

// marshalRecords renders every field of every record.
func marshalRecords(records []metric.Record) []byte {
	var b dataBuffer
	for i, r := range records {
		b.logEntry("Record #%d", i)
		b.logEntry("Descriptor:")
		b.logEntry("     -> Name: %s", r.Descriptor.Name)
		b.logEntry("     -> Kind: %s", r.Descriptor.Kind)
		b.logEntry("     -> Description: %s", r.Descriptor.Description)
		b.logEntry("     -> Unit: %s", r.Descriptor.Unit)
		b.logEntry("     -> Scope: %s", r.Descriptor.InstrumentationName)
		b.logResource(r.Resource)
		b.logAttributes("Data point attributes", r.Attributes.ToSlice())
		b.logTime("StartTimestamp", r.StartTime)
		b.logTime("Timestamp", r.EndTime)
		logAggregation(&b, r.Aggregation)
		if !r.Exemplar.Time.IsZero() {
			b.logEntry("Exemplar:")
			b.logEntry("     -> Value: %f", r.Exemplar.Value)
			b.logEntry("     -> Timestamp: %s", r.Exemplar.Time.UTC().Format(time.RFC3339Nano))
			if r.Exemplar.TraceID.IsValid() {
				b.logEntry("     -> Trace ID: %s", r.Exemplar.TraceID)
				b.logEntry("     -> Span ID: %s", r.Exemplar.SpanID)
			}
			if r.Exemplar.Baggage.Len() > 0 {
				b.logEntry("     -> Baggage: %s", r.Exemplar.Baggage.String())
			}
			if r.Exemplar.BatchID != 0 {
				b.logEntry("     -> Batch: %d", r.Exemplar.BatchID)
			}
		}
	}
	return b.buf.Bytes()
}

func logAggregation(b *dataBuffer, agg metric.Aggregation) {
	switch agg.Kind {
	case metric.SumAggregation:
		b.logEntry("Sum: %f", agg.Sum)
	case metric.LastValueAggregation:
		b.logEntry("Value: %f", agg.LastValue)
	case metric.MinMaxSumCountAggregation:
		b.logEntry("Count: %d", agg.Count)
		b.logEntry("Sum: %f", agg.Sum)
		b.logEntry("Min: %f", agg.Min)
		b.logEntry("Max: %f", agg.Max)
	}
}

func parentID(sd trace.SpanData) string {
	if sd.IsRoot() {
		return ""
	}
	return sd.ParentSpanID().String()
}
