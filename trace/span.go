// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package trace // import "go.opentelemetry.io/telemetrycore/trace"

import (
	"errors"
	"reflect"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
)

const (
	exceptionEventName  = "exception"
	exceptionTypeKey    = attribute.Key("exception.type")
	exceptionMessageKey = attribute.Key("exception.message")
)

// SpanSink receives ended spans. It is implemented by the batch processor.
type SpanSink interface {
	Enqueue(SpanData) error
}

type spanState int

const (
	spanCreated spanState = iota
	spanRecording
	spanEnded
)

// Span is a single timed operation. A Span records attributes, events and
// status until End is called; afterwards every mutation fails with an
// InvalidState error. All methods are safe for concurrent use.
type Span struct {
	tracer *Tracer

	mu    sync.Mutex
	state spanState
	data  SpanData
}

// SpanContext returns the identity of the span. It is fixed at creation.
func (s *Span) SpanContext() oteltrace.SpanContext {
	if s == nil {
		return oteltrace.SpanContext{}
	}
	return s.data.SpanContext
}

// Name returns the span name.
func (s *Span) Name() string {
	if s == nil {
		return ""
	}
	return s.data.Name
}

// IsRecording reports whether the span still accepts mutations.
func (s *Span) IsRecording() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == spanRecording
}

// EndTime returns the end timestamp, zero while recording.
func (s *Span) EndTime() time.Time {
	if s == nil {
		return time.Time{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.EndTime
}

// SetAttributes appends kv to the span in call order. Duplicate keys are
// kept. If any key is invalid nothing from this call is appended.
func (s *Span) SetAttributes(kv ...attribute.KeyValue) error {
	if err := validateAttributes(kv); err != nil {
		return err
	}
	return s.mutate("SetAttributes", func() {
		s.data.Attributes = append(s.data.Attributes, kv...)
	})
}

// AddEvent appends a named event stamped with the current time.
func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) error {
	if name == "" {
		return componenterror.Validationf("event name is empty")
	}
	if err := validateAttributes(attrs); err != nil {
		return err
	}
	ev := Event{Name: name, Time: time.Now(), Attributes: copyAttributes(attrs)}
	return s.mutate("AddEvent", func() {
		s.data.Events = append(s.data.Events, ev)
	})
}

// SetStatus sets the span status. Ok is final, an Error status can only be
// replaced by Ok, and Unset never overrides a status already set. The
// description is kept for Error only.
func (s *Span) SetStatus(code codes.Code, description string) error {
	return s.mutate("SetStatus", func() {
		if s.data.Status.Code > code {
			return
		}
		st := Status{Code: code}
		if code == codes.Error {
			st.Description = description
		}
		s.data.Status = st
	})
}

// RecordError adds an "exception" event describing err. A nil err is ignored.
func (s *Span) RecordError(err error) error {
	if err == nil {
		return nil
	}
	return s.AddEvent(exceptionEventName,
		exceptionTypeKey.String(errorType(err)),
		exceptionMessageKey.String(err.Error()),
	)
}

// End completes the span and hands its snapshot to the sink. Only the first
// call has any effect; later calls return an InvalidState error and keep
// the original end time.
func (s *Span) End(opts ...EndOption) error {
	if s == nil {
		return componenterror.InvalidStatef("end called on nil span")
	}
	cfg := endConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	end := cfg.timestamp
	if end.IsZero() {
		end = time.Now()
	}

	s.mu.Lock()
	if s.state == spanEnded {
		s.mu.Unlock()
		return componenterror.InvalidStatef("span %q already ended", s.data.Name)
	}
	if end.Before(s.data.StartTime) {
		end = s.data.StartTime
	}
	s.data.EndTime = end
	s.state = spanEnded
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return s.tracer.provider.submit(snapshot)
}

func (s *Span) mutate(op string, fn func()) error {
	if s == nil {
		return componenterror.InvalidStatef("%s called on nil span", op)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != spanRecording {
		return componenterror.InvalidStatef("%s on ended span %q", op, s.data.Name)
	}
	fn()
	return nil
}

func (s *Span) snapshotLocked() SpanData {
	sd := s.data
	sd.Attributes = copyAttributes(s.data.Attributes)
	if len(s.data.Events) > 0 {
		sd.Events = make([]Event, len(s.data.Events))
		copy(sd.Events, s.data.Events)
	}
	return sd
}

func validateAttributes(kv []attribute.KeyValue) error {
	for _, a := range kv {
		if !a.Valid() {
			return componenterror.Validationf("invalid attribute %q", string(a.Key))
		}
	}
	return nil
}

func copyAttributes(kv []attribute.KeyValue) []attribute.KeyValue {
	if len(kv) == 0 {
		return nil
	}
	out := make([]attribute.KeyValue, len(kv))
	copy(out, kv)
	return out
}

func errorType(err error) string {
	// Prefer the innermost wrapped error's type.
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	t := reflect.TypeOf(err)
	if t.PkgPath() == "" && t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func logDropped(logger *zap.Logger, sd SpanData, err error) {
	logger.Debug("Dropping ended span",
		zap.String("span", sd.Name),
		zap.String("trace_id", sd.TraceID().String()),
		zap.Error(err))
}
