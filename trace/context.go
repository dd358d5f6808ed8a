// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/telemetrycore/trace"

import (
	"context"

	oteltrace "go.opentelemetry.io/otel/trace"
)

type spanKey struct{}

// ContextWithSpan returns a copy of parent with span as the active span.
func ContextWithSpan(parent context.Context, span *Span) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithValue(parent, spanKey{}, span)
}

// SpanFromContext returns the active span or nil.
func SpanFromContext(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(spanKey{}).(*Span)
	return s
}

// SpanContextFromContext returns the identity of the active span, or an
// invalid SpanContext if there is none.
func SpanContextFromContext(ctx context.Context) oteltrace.SpanContext {
	return SpanFromContext(ctx).SpanContext()
}
