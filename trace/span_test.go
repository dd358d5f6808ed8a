// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
	"go.opentelemetry.io/telemetrycore/resource"
)

type recordingSink struct {
	mu    sync.Mutex
	spans []SpanData
	err   error
}

func (rs *recordingSink) Enqueue(sd SpanData) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.err != nil {
		return rs.err
	}
	rs.spans = append(rs.spans, sd)
	return nil
}

func (rs *recordingSink) all() []SpanData {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]SpanData, len(rs.spans))
	copy(out, rs.spans)
	return out
}

func newTestTracer(t *testing.T, opts ...Option) (*Tracer, *recordingSink) {
	sink := &recordingSink{}
	tp := NewTracerProvider(append([]Option{WithSpanSink(sink)}, opts...)...)
	return tp.Tracer(t.Name()), sink
}

func TestSpanAttributeAndEventOrder(t *testing.T) {
	tr, sink := newTestTracer(t)
	_, span := tr.Start(context.Background(), "operation", WithAttributes(attribute.String("first", "0")))

	require.NoError(t, span.SetAttributes(attribute.Int("a", 1), attribute.Int("b", 2)))
	require.NoError(t, span.AddEvent("one"))
	require.NoError(t, span.SetAttributes(attribute.Int("a", 3)))
	require.NoError(t, span.AddEvent("two", attribute.Int("bogons", 100)))
	require.NoError(t, span.End())

	spans := sink.all()
	require.Len(t, spans, 1)
	sd := spans[0]
	assert.Equal(t, []attribute.KeyValue{
		attribute.String("first", "0"),
		attribute.Int("a", 1),
		attribute.Int("b", 2),
		attribute.Int("a", 3),
	}, sd.Attributes)
	require.Len(t, sd.Events, 2)
	assert.Equal(t, "one", sd.Events[0].Name)
	assert.Equal(t, "two", sd.Events[1].Name)
	assert.Equal(t, []attribute.KeyValue{attribute.Int("bogons", 100)}, sd.Events[1].Attributes)
	assert.False(t, sd.Events[1].Time.Before(sd.Events[0].Time))
	assert.Equal(t, tr.Name(), sd.InstrumentationName)
}

func TestSpanInvalidAttributeAppendsNothing(t *testing.T) {
	tr, sink := newTestTracer(t)
	_, span := tr.Start(context.Background(), "op")

	err := span.SetAttributes(attribute.Int("ok", 1), attribute.String("", "bad"))
	assert.True(t, errors.Is(err, componenterror.ErrValidation))
	err = span.AddEvent("ev", attribute.KeyValue{Key: "k"})
	assert.True(t, errors.Is(err, componenterror.ErrValidation))
	err = span.AddEvent("")
	assert.True(t, errors.Is(err, componenterror.ErrValidation))

	require.NoError(t, span.End())
	sd := sink.all()[0]
	assert.Empty(t, sd.Attributes)
	assert.Empty(t, sd.Events)
}

func TestSpanDoubleEnd(t *testing.T) {
	tr, sink := newTestTracer(t)
	_, span := tr.Start(context.Background(), "op")

	require.NoError(t, span.End())
	first := span.EndTime()
	require.False(t, first.IsZero())

	err := span.End(WithEndTimestamp(first.Add(time.Hour)))
	assert.True(t, errors.Is(err, componenterror.ErrInvalidState))
	assert.Equal(t, first, span.EndTime())
	assert.Len(t, sink.all(), 1)
	assert.False(t, span.IsRecording())
}

func TestSpanMutationAfterEnd(t *testing.T) {
	tr, _ := newTestTracer(t)
	_, span := tr.Start(context.Background(), "op")
	require.NoError(t, span.End())

	assert.True(t, errors.Is(span.SetAttributes(attribute.Int("k", 1)), componenterror.ErrInvalidState))
	assert.True(t, errors.Is(span.AddEvent("late"), componenterror.ErrInvalidState))
	assert.True(t, errors.Is(span.SetStatus(codes.Ok, ""), componenterror.ErrInvalidState))
	assert.True(t, errors.Is(span.RecordError(errors.New("boom")), componenterror.ErrInvalidState))
}

func TestSpanEndBeforeStartIsClamped(t *testing.T) {
	tr, sink := newTestTracer(t)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	_, span := tr.Start(context.Background(), "op", WithTimestamp(start))
	require.NoError(t, span.End(WithEndTimestamp(start.Add(-time.Second))))

	sd := sink.all()[0]
	assert.Equal(t, start, sd.StartTime)
	assert.Equal(t, start, sd.EndTime)
	assert.Zero(t, sd.Duration())
}

func TestSpanStatusPrecedence(t *testing.T) {
	tr, sink := newTestTracer(t)
	_, span := tr.Start(context.Background(), "op")

	require.NoError(t, span.SetStatus(codes.Error, "failed"))
	require.NoError(t, span.SetStatus(codes.Unset, "ignored"))
	require.NoError(t, span.SetStatus(codes.Ok, "dropped description"))
	require.NoError(t, span.SetStatus(codes.Error, "too late"))
	require.NoError(t, span.End())

	assert.Equal(t, Status{Code: codes.Ok}, sink.all()[0].Status)
}

func TestSpanRecordError(t *testing.T) {
	tr, sink := newTestTracer(t)
	_, span := tr.Start(context.Background(), "op")
	require.NoError(t, span.RecordError(nil))
	require.NoError(t, span.RecordError(errors.New("boom")))
	require.NoError(t, span.End())

	sd := sink.all()[0]
	require.Len(t, sd.Events, 1)
	assert.Equal(t, "exception", sd.Events[0].Name)
	assert.Contains(t, sd.Events[0].Attributes, attribute.String("exception.message", "boom"))
	assert.Contains(t, sd.Events[0].Attributes, attribute.String("exception.type", "*errors.errorString"))
}

func TestSpanSnapshotIsImmutable(t *testing.T) {
	tr, sink := newTestTracer(t)
	attrs := []attribute.KeyValue{attribute.Int("k", 1)}
	_, span := tr.Start(context.Background(), "op")
	require.NoError(t, span.SetAttributes(attrs...))
	require.NoError(t, span.End())

	attrs[0] = attribute.Int("k", 2)
	assert.Equal(t, attribute.Int("k", 1), sink.all()[0].Attributes[0])
}

func TestSpanEndAfterSinkShutdown(t *testing.T) {
	shutdownErr := componenterror.Shutdownf("processor closed")

	t.Run("lenient", func(t *testing.T) {
		tr, sink := newTestTracer(t)
		sink.err = shutdownErr
		_, span := tr.Start(context.Background(), "op")
		assert.NoError(t, span.End())
		assert.EqualValues(t, 1, tr.provider.Dropped())
	})

	t.Run("strict", func(t *testing.T) {
		tr, sink := newTestTracer(t, WithStrict(true))
		sink.err = shutdownErr
		_, span := tr.Start(context.Background(), "op")
		err := span.End()
		assert.True(t, errors.Is(err, componenterror.ErrShutdown))
		assert.EqualValues(t, 1, tr.provider.Dropped())
	})
}

func TestSpanConcurrentMutation(t *testing.T) {
	tr, sink := newTestTracer(t)
	_, span := tr.Start(context.Background(), "op")

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				assert.NoError(t, span.SetAttributes(attribute.Int("j", j)))
				assert.NoError(t, span.AddEvent("ev"))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, span.End())

	sd := sink.all()[0]
	assert.Len(t, sd.Attributes, workers*perWorker)
	assert.Len(t, sd.Events, workers*perWorker)
}

func TestSpanCarriesResource(t *testing.T) {
	res := resource.New(attribute.String(resource.AttributeServiceName, "trace-demo"))
	tr, sink := newTestTracer(t, WithResource(res))
	_, span := tr.Start(context.Background(), "op")
	require.NoError(t, span.End())
	assert.Equal(t, "trace-demo", sink.all()[0].Resource.ServiceName())
}

func TestNilSpan(t *testing.T) {
	var span *Span
	assert.False(t, span.IsRecording())
	assert.False(t, span.SpanContext().IsValid())
	assert.True(t, errors.Is(span.End(), componenterror.ErrInvalidState))
	assert.True(t, errors.Is(span.AddEvent("x"), componenterror.ErrInvalidState))
}
