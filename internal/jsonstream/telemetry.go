// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package jsonstream // import "go.opentelemetry.io/telemetrycore/internal/jsonstream"

import (
	"bytes"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"go.opentelemetry.io/telemetrycore/metric"
	"go.opentelemetry.io/telemetrycore/resource"
	"go.opentelemetry.io/telemetrycore/trace"
)

// MarshalSpans encodes spans as a JSON array.
func MarshalSpans(spans []trace.SpanData) ([]byte, error) {
	return marshalArray(len(spans), func(s *Stream, i int) { writeSpan(s, spans[i]) })
}

// MarshalSpan encodes one span as a JSON object.
func MarshalSpan(sd trace.SpanData) ([]byte, error) {
	return marshal(func(s *Stream) { writeSpan(s, sd) })
}

// MarshalRecords encodes records as a JSON array.
func MarshalRecords(records []metric.Record) ([]byte, error) {
	return marshalArray(len(records), func(s *Stream, i int) { writeRecord(s, records[i]) })
}

// MarshalRecord encodes one record as a JSON object.
func MarshalRecord(r metric.Record) ([]byte, error) {
	return marshal(func(s *Stream) { writeRecord(s, r) })
}

func marshal(write func(*Stream)) ([]byte, error) {
	var buf bytes.Buffer
	s := BorrowStream(&buf)
	defer ReturnStream(s)
	write(s)
	if err := s.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), s.Error
}

func marshalArray(n int, writeItem func(*Stream, int)) ([]byte, error) {
	return marshal(func(s *Stream) {
		s.WriteArrayStart()
		for i := 0; i < n; i++ {
			if i > 0 {
				s.WriteMore()
			}
			writeItem(s, i)
		}
		s.WriteArrayEnd()
	})
}

func writeSpan(s *Stream, sd trace.SpanData) {
	s.WriteObjectStart()
	s.WriteObjectField("name")
	s.WriteString(sd.Name)
	s.WriteObjectField("trace_id")
	s.WriteString(sd.TraceID().String())
	s.WriteObjectField("span_id")
	s.WriteString(sd.SpanID().String())
	if !sd.IsRoot() {
		s.WriteObjectField("parent_span_id")
		s.WriteString(sd.ParentSpanID().String())
	}
	s.WriteObjectField("start_time")
	writeTime(s, sd.StartTime)
	s.WriteObjectField("end_time")
	writeTime(s, sd.EndTime)
	if len(sd.Attributes) > 0 {
		s.WriteObjectField("attributes")
		writeAttributes(s, sd.Attributes)
	}
	if len(sd.Events) > 0 {
		s.WriteObjectField("events")
		s.WriteArrayStart()
		for i, ev := range sd.Events {
			if i > 0 {
				s.WriteMore()
			}
			s.WriteObjectStart()
			s.WriteObjectField("name")
			s.WriteString(ev.Name)
			s.WriteObjectField("time")
			writeTime(s, ev.Time)
			if len(ev.Attributes) > 0 {
				s.WriteObjectField("attributes")
				writeAttributes(s, ev.Attributes)
			}
			s.WriteObjectEnd()
		}
		s.WriteArrayEnd()
	}
	s.WriteObjectField("status")
	s.WriteObjectStart()
	s.WriteObjectField("code")
	s.WriteString(sd.Status.Code.String())
	if sd.Status.Description != "" {
		s.WriteObjectField("description")
		s.WriteString(sd.Status.Description)
	}
	s.WriteObjectEnd()
	s.WriteObjectField("instrumentation")
	s.WriteString(sd.InstrumentationName)
	writeResource(s, sd.Resource)
	s.WriteObjectEnd()
}

func writeRecord(s *Stream, r metric.Record) {
	s.WriteObjectStart()
	s.WriteObjectField("name")
	s.WriteString(r.Descriptor.Name)
	s.WriteObjectField("kind")
	s.WriteString(r.Descriptor.Kind.String())
	if r.Descriptor.Description != "" {
		s.WriteObjectField("description")
		s.WriteString(r.Descriptor.Description)
	}
	if r.Descriptor.Unit != "" {
		s.WriteObjectField("unit")
		s.WriteString(r.Descriptor.Unit)
	}
	s.WriteObjectField("instrumentation")
	s.WriteString(r.Descriptor.InstrumentationName)
	if r.Attributes.Len() > 0 {
		s.WriteObjectField("attributes")
		writeAttributes(s, r.Attributes.ToSlice())
	}
	s.WriteObjectField("start_time")
	writeTime(s, r.StartTime)
	s.WriteObjectField("end_time")
	writeTime(s, r.EndTime)

	agg := r.Aggregation
	s.WriteObjectField("aggregation")
	s.WriteObjectStart()
	s.WriteObjectField("kind")
	s.WriteString(agg.Kind.String())
	switch agg.Kind {
	case metric.SumAggregation:
		s.WriteObjectField("sum")
		s.WriteFloat64(agg.Sum)
	case metric.LastValueAggregation:
		s.WriteObjectField("last_value")
		s.WriteFloat64(agg.LastValue)
	case metric.MinMaxSumCountAggregation:
		s.WriteObjectField("min")
		s.WriteFloat64(agg.Min)
		s.WriteObjectField("max")
		s.WriteFloat64(agg.Max)
		s.WriteObjectField("sum")
		s.WriteFloat64(agg.Sum)
	}
	s.WriteObjectField("count")
	s.WriteUint64(agg.Count)
	s.WriteObjectEnd()

	ex := r.Exemplar
	s.WriteObjectField("exemplar")
	s.WriteObjectStart()
	s.WriteObjectField("value")
	s.WriteFloat64(ex.Value)
	s.WriteObjectField("time")
	writeTime(s, ex.Time)
	if ex.TraceID.IsValid() {
		s.WriteObjectField("trace_id")
		s.WriteString(ex.TraceID.String())
		s.WriteObjectField("span_id")
		s.WriteString(ex.SpanID.String())
	}
	if ex.Baggage.Len() > 0 {
		s.WriteObjectField("baggage")
		s.WriteString(ex.Baggage.String())
	}
	if ex.BatchID != 0 {
		s.WriteObjectField("batch_id")
		s.WriteUint64(ex.BatchID)
	}
	s.WriteObjectEnd()

	writeResource(s, r.Resource)
	s.WriteObjectEnd()
}

func writeResource(s *Stream, res *resource.Resource) {
	if res.Len() == 0 {
		return
	}
	s.WriteObjectField("resource")
	writeAttributes(s, res.Attributes())
}

// writeAttributes writes kvs as an array of {"key","value"} objects, which
// keeps duplicate keys and their order.
func writeAttributes(s *Stream, kvs []attribute.KeyValue) {
	s.WriteArrayStart()
	for i, kv := range kvs {
		if i > 0 {
			s.WriteMore()
		}
		s.WriteObjectStart()
		s.WriteObjectField("key")
		s.WriteString(string(kv.Key))
		s.WriteObjectField("value")
		writeValue(s, kv.Value)
		s.WriteObjectEnd()
	}
	s.WriteArrayEnd()
}

func writeValue(s *Stream, v attribute.Value) {
	switch v.Type() {
	case attribute.BOOL:
		s.WriteBool(v.AsBool())
	case attribute.INT64:
		s.WriteInt64(v.AsInt64())
	case attribute.FLOAT64:
		s.WriteFloat64(v.AsFloat64())
	case attribute.STRING:
		s.WriteString(v.AsString())
	default:
		s.WriteVal(v.AsInterface())
	}
}

func writeTime(s *Stream, t time.Time) {
	s.WriteString(t.UTC().Format(time.RFC3339Nano))
}
