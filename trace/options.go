// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/telemetrycore/trace"

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/resource"
)

// Option configures a TracerProvider.
type Option func(*TracerProvider)

// WithResource sets the resource attached to every span.
func WithResource(res *resource.Resource) Option {
	return func(tp *TracerProvider) {
		if res != nil {
			tp.resource = res
		}
	}
}

// WithIDGenerator replaces the random trace and span id generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(tp *TracerProvider) {
		if gen != nil {
			tp.idGenerator = gen
		}
	}
}

// WithSpanSink sets where ended spans are sent.
func WithSpanSink(sink SpanSink) Option {
	return func(tp *TracerProvider) {
		tp.sink = sink
	}
}

// WithStrict makes Span.End return sink errors instead of dropping the span.
func WithStrict(strict bool) Option {
	return func(tp *TracerProvider) {
		tp.strict = strict
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(tp *TracerProvider) {
		if logger != nil {
			tp.logger = logger
		}
	}
}

// StartOption configures a span at start.
type StartOption func(*startConfig)

type startConfig struct {
	parent     oteltrace.SpanContext
	hasParent  bool
	newRoot    bool
	attributes []attribute.KeyValue
	timestamp  time.Time
}

// WithParent makes sc the parent of the new span, overriding the span in
// the context.
func WithParent(sc oteltrace.SpanContext) StartOption {
	return func(c *startConfig) {
		c.parent = sc
		c.hasParent = true
	}
}

// WithNewRoot ignores any parent and starts a new trace.
func WithNewRoot() StartOption {
	return func(c *startConfig) {
		c.newRoot = true
	}
}

// WithAttributes sets the initial attributes of the span.
func WithAttributes(kv ...attribute.KeyValue) StartOption {
	return func(c *startConfig) {
		c.attributes = append(c.attributes, kv...)
	}
}

// WithTimestamp overrides the start time.
func WithTimestamp(t time.Time) StartOption {
	return func(c *startConfig) {
		c.timestamp = t
	}
}

// EndOption configures Span.End.
type EndOption func(*endConfig)

type endConfig struct {
	timestamp time.Time
}

// WithEndTimestamp overrides the end time. A time before the span start is
// clamped to the start.
func WithEndTimestamp(t time.Time) EndOption {
	return func(c *endConfig) {
		c.timestamp = t
	}
}
