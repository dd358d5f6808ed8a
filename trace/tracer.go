// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/telemetrycore/trace"

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
)

// Tracer creates spans for one instrumentation scope.
type Tracer struct {
	name     string
	provider *TracerProvider
}

// Name returns the instrumentation name.
func (t *Tracer) Name() string {
	return t.name
}

// Start creates a recording span and returns it together with a context
// in which it is the active span.
//
// The parent is taken from WithParent if given, otherwise from the span
// active in ctx, unless WithNewRoot is set. A child inherits the parent's
// trace id. Invalid initial attributes are dropped.
func (t *Tracer) Start(ctx context.Context, name string, opts ...StartOption) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := startConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	var parent oteltrace.SpanContext
	switch {
	case cfg.newRoot:
	case cfg.hasParent:
		parent = cfg.parent
	default:
		parent = SpanContextFromContext(ctx)
	}

	tp := t.provider
	var (
		traceID oteltrace.TraceID
		spanID  oteltrace.SpanID
	)
	if parent.TraceID().IsValid() {
		traceID = parent.TraceID()
		spanID = tp.idGenerator.NewSpanID(traceID)
	} else {
		traceID, spanID = tp.idGenerator.NewIDs()
		parent = oteltrace.SpanContext{}
	}

	start := cfg.timestamp
	if start.IsZero() {
		start = time.Now()
	}

	s := &Span{
		tracer: t,
		state:  spanCreated,
		data: SpanData{
			Name: name,
			SpanContext: oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
				TraceID:    traceID,
				SpanID:     spanID,
				TraceFlags: oteltrace.FlagsSampled,
			}),
			Parent:              parent,
			StartTime:           start,
			InstrumentationName: t.name,
			Resource:            tp.resource,
		},
	}
	for _, kv := range cfg.attributes {
		if !kv.Valid() {
			tp.logger.Debug("Dropping invalid span attribute",
				zap.String("span", name),
				zap.String("key", string(kv.Key)))
			continue
		}
		s.data.Attributes = append(s.data.Attributes, kv)
	}
	s.state = spanRecording

	return ContextWithSpan(ctx, s), s
}

// InSpan runs fn inside a new span. The span is always ended: after fn
// returns, or after fn panics, in which case the panic is re-raised once the
// span has ended. A non-nil error from fn is recorded on the span and
// returned unchanged. If fn succeeds, the error of ending the span (strict
// mode only) is returned.
func (t *Tracer) InSpan(ctx context.Context, name string, fn func(context.Context) error, opts ...StartOption) (err error) {
	ctx, span := t.Start(ctx, name, opts...)
	defer func() {
		if r := recover(); r != nil {
			_ = span.SetStatus(codes.Error, fmt.Sprint(r))
			_ = span.End()
			panic(r)
		}
	}()

	err = fn(ctx)
	if err != nil {
		_ = span.RecordError(err)
		_ = span.SetStatus(codes.Error, err.Error())
	}
	// fn may have ended the span itself.
	if endErr := span.End(); endErr != nil && err == nil && !errors.Is(endErr, componenterror.ErrInvalidState) {
		return endErr
	}
	return err
}
