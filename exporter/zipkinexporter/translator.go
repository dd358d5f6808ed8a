// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package zipkinexporter // import "go.opentelemetry.io/telemetrycore/exporter/zipkinexporter"

import (
	"encoding/binary"
	"strings"

	zipkinmodel "github.com/openzipkin/zipkin-go/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"go.opentelemetry.io/telemetrycore/trace"
)

const (
	tagStatusCode     = "otel.status_code"
	tagError          = "error"
	tagScopeName      = "otel.scope.name"
	annotationSpacing = " "
)

func toZipkinSpans(spans []trace.SpanData, defaultServiceName string) []*zipkinmodel.SpanModel {
	out := make([]*zipkinmodel.SpanModel, 0, len(spans))
	for i := range spans {
		out = append(out, toZipkinSpan(spans[i], defaultServiceName))
	}
	return out
}

func toZipkinSpan(sd trace.SpanData, defaultServiceName string) *zipkinmodel.SpanModel {
	sampled := sd.SpanContext.IsSampled()
	zs := &zipkinmodel.SpanModel{
		SpanContext: zipkinmodel.SpanContext{
			TraceID: toZipkinTraceID(sd.TraceID()),
			ID:      toZipkinID(sd.SpanID()),
			Sampled: &sampled,
		},
		Name:          sd.Name,
		Timestamp:     sd.StartTime,
		Duration:      sd.Duration(),
		LocalEndpoint: &zipkinmodel.Endpoint{ServiceName: serviceName(sd, defaultServiceName)},
		Annotations:   toZipkinAnnotations(sd.Events),
		Tags:          toZipkinTags(sd),
	}
	if !sd.IsRoot() {
		parent := toZipkinID(sd.ParentSpanID())
		zs.ParentID = &parent
	}
	return zs
}

func toZipkinTraceID(id oteltrace.TraceID) zipkinmodel.TraceID {
	return zipkinmodel.TraceID{
		High: binary.BigEndian.Uint64(id[:8]),
		Low:  binary.BigEndian.Uint64(id[8:]),
	}
}

func toZipkinID(id oteltrace.SpanID) zipkinmodel.ID {
	return zipkinmodel.ID(binary.BigEndian.Uint64(id[:]))
}

func serviceName(sd trace.SpanData, defaultServiceName string) string {
	if name := sd.Resource.ServiceName(); name != "" {
		return name
	}
	return defaultServiceName
}

// toZipkinAnnotations renders each event as "name" or "name key=value,...".
func toZipkinAnnotations(events []trace.Event) []zipkinmodel.Annotation {
	if len(events) == 0 {
		return nil
	}
	annotations := make([]zipkinmodel.Annotation, 0, len(events))
	for _, e := range events {
		value := e.Name
		if len(e.Attributes) > 0 {
			set := attribute.NewSet(e.Attributes...)
			value += annotationSpacing + set.Encoded(attribute.DefaultEncoder())
		}
		annotations = append(annotations, zipkinmodel.Annotation{Timestamp: e.Time, Value: value})
	}
	return annotations
}

// toZipkinTags flattens span attributes into tags. Zipkin tags are a map, so
// the last value recorded for a repeated key wins.
func toZipkinTags(sd trace.SpanData) map[string]string {
	tags := make(map[string]string, len(sd.Attributes)+3)
	for _, kv := range sd.Attributes {
		tags[string(kv.Key)] = kv.Value.Emit()
	}
	if sd.InstrumentationName != "" {
		tags[tagScopeName] = sd.InstrumentationName
	}
	switch sd.Status.Code {
	case codes.Ok:
		tags[tagStatusCode] = strings.ToUpper(codes.Ok.String())
	case codes.Error:
		tags[tagStatusCode] = strings.ToUpper(codes.Error.String())
		tags[tagError] = sd.Status.Description
	}
	return tags
}
