// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package internal // import "go.opentelemetry.io/telemetrycore/cmd/otelbasic/internal"

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"go.opentelemetry.io/telemetrycore/baggage"
	"go.opentelemetry.io/telemetrycore/metric"
	"go.opentelemetry.io/telemetrycore/service"
	"go.opentelemetry.io/telemetrycore/trace"
)

const (
	instrumentationName = "ex.com/basic"

	fooKey     = "ex.com/foo"
	barKey     = "ex.com/bar"
	lemonsKey  = attribute.Key("ex.com/lemons")
	anotherKey = attribute.Key("ex.com/another")
)

var commonAttributes = []attribute.KeyValue{
	lemonsKey.Int64(10),
	attribute.String("A", "1"),
	attribute.String("B", "2"),
	attribute.String("C", "3"),
}

func runDemo(ctx context.Context, srv *service.Service) error {
	tracer := srv.InitTracer(instrumentationName)
	meter := srv.InitMeter(instrumentationName)

	_, err := meter.ValueObserver("ex.com.one", func(_ context.Context, result metric.ObserverResult) {
		result.Observe(1.0, commonAttributes...)
	}, metric.WithDescription("A ValueObserver set to 1.0"))
	if err != nil {
		return err
	}

	valueRecorderTwo, err := meter.ValueRecorder("ex.com.two")
	if err != nil {
		return err
	}

	foo, err := baggage.NewMember(fooKey, "foo1")
	if err != nil {
		return err
	}
	bar, err := baggage.NewMember(barKey, "bar1")
	if err != nil {
		return err
	}
	scope := baggage.Attach(ctx, foo, bar)
	defer scope.Detach()

	valueRecorder := valueRecorderTwo.Bind(commonAttributes...)

	return tracer.InSpan(scope.Context(), "operation", func(ctx context.Context) error {
		span := trace.SpanFromContext(ctx)
		if err := span.AddEvent("Nice operation!", attribute.Int64("bogons", 100)); err != nil {
			return err
		}
		if err := span.SetAttributes(anotherKey.String("yes")); err != nil {
			return err
		}

		// Call-site variables added as baggage.
		another, err := baggage.NewMember(string(anotherKey), "xyz")
		if err != nil {
			return err
		}
		batchScope := baggage.Attach(ctx, another)
		err = meter.RecordBatch(batchScope.Context(), commonAttributes, valueRecorderTwo.Measurement(2.0))
		batchScope.Detach()
		if err != nil {
			return fmt.Errorf("failed to record batch: %w", err)
		}

		return tracer.InSpan(ctx, "Sub operation...", func(ctx context.Context) error {
			span := trace.SpanFromContext(ctx)
			if err := span.SetAttributes(lemonsKey.String("five")); err != nil {
				return err
			}
			if err := span.AddEvent("Sub span event"); err != nil {
				return err
			}
			return valueRecorder.Record(ctx, 1.3)
		})
	})
}
