// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric // import "go.opentelemetry.io/telemetrycore/metric"

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/baggage"
	"go.opentelemetry.io/telemetrycore/component/componenterror"
	"go.opentelemetry.io/telemetrycore/trace"
)

// Meter registers instruments for one instrumentation scope and buffers
// their measurements until the next collection.
type Meter struct {
	name     string
	provider *MeterProvider

	regMu       sync.Mutex
	instruments map[string]*instrument
	observers   []*instrument

	// bufMu guards buf and closed and is the only lock taken on the
	// recording path.
	bufMu  sync.Mutex
	buf    []measurement
	closed bool

	collectMu   sync.Mutex
	lastCollect time.Time
}

func newMeter(name string, mp *MeterProvider) *Meter {
	return &Meter{
		name:        name,
		provider:    mp,
		instruments: make(map[string]*instrument),
		lastCollect: time.Now(),
		closed:      mp.isShutdown(),
	}
}

// Name returns the instrumentation name.
func (m *Meter) Name() string {
	return m.name
}

// Counter registers or returns the counter called name.
func (m *Meter) Counter(name string, opts ...InstrumentOption) (Counter, error) {
	inst, err := m.register(name, CounterKind, nil, opts)
	if err != nil {
		return Counter{}, err
	}
	return Counter{inst}, nil
}

// ValueRecorder registers or returns the value recorder called name.
func (m *Meter) ValueRecorder(name string, opts ...InstrumentOption) (ValueRecorder, error) {
	inst, err := m.register(name, ValueRecorderKind, nil, opts)
	if err != nil {
		return ValueRecorder{}, err
	}
	return ValueRecorder{inst}, nil
}

// ValueObserver registers an observer whose callback runs on every
// collection. Registering an existing name returns the first registration
// and keeps its callback.
func (m *Meter) ValueObserver(name string, callback ObserverCallback, opts ...InstrumentOption) (ValueObserver, error) {
	if callback == nil {
		return ValueObserver{}, componenterror.Validationf("value observer %q: nil callback", name)
	}
	inst, err := m.register(name, ValueObserverKind, callback, opts)
	if err != nil {
		return ValueObserver{}, err
	}
	return ValueObserver{inst}, nil
}

func (m *Meter) register(name string, kind InstrumentKind, cb ObserverCallback, opts []InstrumentOption) (*instrument, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	m.regMu.Lock()
	defer m.regMu.Unlock()
	if existing, ok := m.instruments[name]; ok {
		if existing.desc.Kind != kind {
			return nil, componenterror.Conflictf("instrument %q already registered as %s, requested %s",
				name, existing.desc.Kind, kind)
		}
		return existing, nil
	}
	desc := Descriptor{Name: name, Kind: kind, InstrumentationName: m.name}
	for _, o := range opts {
		o(&desc)
	}
	inst := &instrument{meter: m, desc: desc, index: len(m.instruments), callback: cb}
	m.instruments[name] = inst
	if kind == ValueObserverKind {
		m.observers = append(m.observers, inst)
	}
	return inst, nil
}

// RecordBatch records all measurements with the same attributes and the same
// snapshot of ctx. They are appended in one step, so they are collected in
// the same cycle and share the exemplar context. Nothing is recorded if any
// measurement is invalid.
func (m *Meter) RecordBatch(ctx context.Context, attrs []attribute.KeyValue, measurements ...Measurement) error {
	if len(measurements) == 0 {
		return nil
	}
	if err := validateAttributes(attrs); err != nil {
		return err
	}
	for _, ms := range measurements {
		if ms.inst == nil {
			return componenterror.Validationf("measurement without instrument")
		}
		if ms.inst.meter != m {
			return componenterror.Validationf("instrument %q belongs to meter %q, not %q",
				ms.inst.desc.Name, ms.inst.meter.name, m.name)
		}
		if err := validateValue(ms.inst.desc, ms.value); err != nil {
			return err
		}
	}
	if m.provider.isShutdown() {
		return m.provider.rejectRecording(len(measurements))
	}

	proto := m.snapshot(ctx, attrs)
	proto.batchID = m.provider.batchSeq.Inc()

	m.bufMu.Lock()
	if m.closed {
		m.bufMu.Unlock()
		return m.provider.rejectRecording(len(measurements))
	}
	for _, ms := range measurements {
		entry := proto
		entry.inst = ms.inst
		entry.value = ms.value
		m.buf = append(m.buf, entry)
	}
	m.bufMu.Unlock()
	return nil
}

func (m *Meter) record(ctx context.Context, ms Measurement, attrs []attribute.KeyValue) error {
	if err := validateValue(ms.inst.desc, ms.value); err != nil {
		return err
	}
	if err := validateAttributes(attrs); err != nil {
		return err
	}
	if m.provider.isShutdown() {
		return m.provider.rejectRecording(1)
	}
	entry := m.snapshot(ctx, attrs)
	entry.inst = ms.inst
	entry.value = ms.value

	m.bufMu.Lock()
	if m.closed {
		m.bufMu.Unlock()
		return m.provider.rejectRecording(1)
	}
	m.buf = append(m.buf, entry)
	m.bufMu.Unlock()
	return nil
}

// close makes every later recording fail. Measurements appended before it
// returns are part of the next Collect.
func (m *Meter) close() {
	m.bufMu.Lock()
	m.closed = true
	m.bufMu.Unlock()
}

func (m *Meter) snapshot(ctx context.Context, attrs []attribute.KeyValue) measurement {
	sc := trace.SpanContextFromContext(ctx)
	return measurement{
		attrs:   attribute.NewSet(attrs...),
		time:    time.Now(),
		traceID: sc.TraceID(),
		spanID:  sc.SpanID(),
		baggage: baggage.FromContext(ctx),
	}
}

// Collect swaps the measurement buffer, runs the observer callbacks and
// returns one Record per (instrument, attribute set) seen since the
// previous collection, ordered by instrument registration and then by
// first appearance.
func (m *Meter) Collect(ctx context.Context) []Record {
	m.collectMu.Lock()
	defer m.collectMu.Unlock()

	m.bufMu.Lock()
	pending := m.buf
	m.buf = nil
	m.bufMu.Unlock()

	start := m.lastCollect
	pending = append(pending, m.runObservers(ctx)...)
	end := time.Now()
	m.lastCollect = end

	if len(pending) == 0 {
		return nil
	}
	return m.aggregate(pending, start, end)
}

type seriesKey struct {
	inst     *instrument
	distinct attribute.Distinct
}

type series struct {
	inst       *instrument
	attrs      attribute.Set
	aggregator Aggregator
	last       measurement
}

func (m *Meter) aggregate(pending []measurement, start, end time.Time) []Record {
	index := make(map[seriesKey]int)
	var all []*series
	for _, ms := range pending {
		key := seriesKey{inst: ms.inst, distinct: ms.attrs.Equivalent()}
		i, ok := index[key]
		if !ok {
			i = len(all)
			index[key] = i
			all = append(all, &series{
				inst:       ms.inst,
				attrs:      ms.attrs,
				aggregator: m.provider.aggregator(ms.inst.desc),
			})
		}
		s := all[i]
		s.aggregator.Update(ms.value)
		if !ms.time.Before(s.last.time) {
			s.last = ms
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].inst.index < all[j].inst.index
	})

	res := m.provider.resource
	records := make([]Record, 0, len(all))
	for _, s := range all {
		records = append(records, Record{
			Descriptor:  s.inst.desc,
			Attributes:  s.attrs,
			Resource:    res,
			Aggregation: s.aggregator.Checkpoint(),
			StartTime:   start,
			EndTime:     end,
			Exemplar:    s.last.exemplar(),
		})
	}
	return records
}

// observerResult collects observations of one callback. Once closed, late
// observations are discarded and counted.
type observerResult struct {
	inst  *instrument
	proto measurement

	mu     sync.Mutex
	closed bool
	out    []measurement
}

func (r *observerResult) Observe(value float64, attrs ...attribute.KeyValue) {
	if validateValue(r.inst.desc, value) != nil || validateAttributes(attrs) != nil {
		return
	}
	entry := r.proto
	entry.inst = r.inst
	entry.value = value
	entry.attrs = attribute.NewSet(attrs...)
	entry.time = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.inst.meter.provider.dropped.Inc()
		return
	}
	r.out = append(r.out, entry)
}

func (r *observerResult) close() []measurement {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return r.out
}

func (m *Meter) runObservers(ctx context.Context) []measurement {
	m.regMu.Lock()
	observers := make([]*instrument, len(m.observers))
	copy(observers, m.observers)
	m.regMu.Unlock()
	if len(observers) == 0 {
		return nil
	}

	logger := m.provider.logger
	cctx, cancel := context.WithTimeout(ctx, m.provider.collectDeadline)
	defer cancel()

	proto := m.snapshot(ctx, nil)
	results := make([]*observerResult, len(observers))
	done := make(chan int, len(observers))
	for i, inst := range observers {
		results[i] = &observerResult{inst: inst, proto: proto}
		go func(i int, inst *instrument) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Observer callback panicked",
						zap.String("instrument", inst.desc.Name),
						zap.String("panic", fmt.Sprint(r)))
				}
				done <- i
			}()
			inst.callback(cctx, results[i])
		}(i, inst)
	}

	finished := make([]bool, len(observers))
wait:
	for remaining := len(observers); remaining > 0; remaining-- {
		select {
		case i := <-done:
			finished[i] = true
		case <-cctx.Done():
			break wait
		}
	}

	var out []measurement
	for i, r := range results {
		out = append(out, r.close()...)
		if !finished[i] {
			logger.Warn("Observer callback missed the collection deadline, discarding late observations",
				zap.String("instrument", r.inst.desc.Name),
				zap.Duration("deadline", m.provider.collectDeadline))
		}
	}
	return out
}
