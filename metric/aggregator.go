// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric // import "go.opentelemetry.io/telemetrycore/metric"

import "math"

// AggregationKind identifies the shape of an Aggregation.
type AggregationKind int

const (
	SumAggregation AggregationKind = iota
	LastValueAggregation
	MinMaxSumCountAggregation
)

func (k AggregationKind) String() string {
	switch k {
	case SumAggregation:
		return "Sum"
	case LastValueAggregation:
		return "LastValue"
	case MinMaxSumCountAggregation:
		return "MinMaxSumCount"
	}
	return "Unknown"
}

// Aggregation is the checkpointed state of an aggregator for one cycle.
// Only the fields meaningful for Kind are set.
type Aggregation struct {
	Kind      AggregationKind
	Sum       float64
	Count     uint64
	Min       float64
	Max       float64
	LastValue float64
}

// Value returns the single number that best represents the aggregation:
// the sum for Sum and MinMaxSumCount, the last value for LastValue.
func (a Aggregation) Value() float64 {
	if a.Kind == LastValueAggregation {
		return a.LastValue
	}
	return a.Sum
}

// Aggregator folds the measurements of one (instrument, attribute set)
// during a collection cycle. Aggregators are used by a single goroutine.
type Aggregator interface {
	Update(value float64)
	Checkpoint() Aggregation
}

// AggregatorSelector returns a fresh Aggregator for the instrument.
type AggregatorSelector func(Descriptor) Aggregator

// DefaultAggregatorSelector maps counters to Sum, value recorders to
// MinMaxSumCount and value observers to LastValue.
func DefaultAggregatorSelector(d Descriptor) Aggregator {
	switch d.Kind {
	case CounterKind:
		return &sumAggregator{}
	case ValueObserverKind:
		return &lastValueAggregator{}
	default:
		return &minMaxSumCountAggregator{min: math.Inf(1), max: math.Inf(-1)}
	}
}

type sumAggregator struct {
	sum   float64
	count uint64
}

func (a *sumAggregator) Update(v float64) {
	a.sum += v
	a.count++
}

func (a *sumAggregator) Checkpoint() Aggregation {
	return Aggregation{Kind: SumAggregation, Sum: a.sum, Count: a.count}
}

type lastValueAggregator struct {
	last  float64
	count uint64
}

func (a *lastValueAggregator) Update(v float64) {
	a.last = v
	a.count++
}

func (a *lastValueAggregator) Checkpoint() Aggregation {
	return Aggregation{Kind: LastValueAggregation, LastValue: a.last, Count: a.count}
}

type minMaxSumCountAggregator struct {
	min, max, sum float64
	count         uint64
}

func (a *minMaxSumCountAggregator) Update(v float64) {
	a.min = math.Min(a.min, v)
	a.max = math.Max(a.max, v)
	a.sum += v
	a.count++
}

func (a *minMaxSumCountAggregator) Checkpoint() Aggregation {
	agg := Aggregation{Kind: MinMaxSumCountAggregation, Sum: a.sum, Count: a.count}
	if a.count > 0 {
		agg.Min, agg.Max = a.min, a.max
	}
	return agg
}
