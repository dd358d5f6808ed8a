// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
)

func TestControllerCollectsPeriodically(t *testing.T) {
	sink := &recordSink{}
	mp := NewMeterProvider(WithRecordSink(sink))
	c, err := mp.Meter("test").Counter("ticks")
	require.NoError(t, err)

	ctrl := NewController(mp, 10*time.Millisecond)
	require.NoError(t, ctrl.Start(context.Background()))
	assert.True(t, errors.Is(ctrl.Start(context.Background()), componenterror.ErrAlreadyStarted))

	require.NoError(t, c.Add(context.Background(), 1))
	assert.Eventually(t, func() bool {
		return len(sink.all()) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, c.Add(context.Background(), 2))
	require.NoError(t, ctrl.Stop(context.Background()))
	require.NoError(t, ctrl.Stop(context.Background()))

	var total float64
	for _, r := range sink.all() {
		total += r.Aggregation.Sum
	}
	assert.Equal(t, 3.0, total)
	assert.NoError(t, c.Add(context.Background(), 1))
	assert.EqualValues(t, 1, mp.Dropped())
}

func TestControllerStopWithoutStart(t *testing.T) {
	sink := &recordSink{}
	mp := NewMeterProvider(WithRecordSink(sink))
	c, err := mp.Meter("test").Counter("ticks")
	require.NoError(t, err)
	require.NoError(t, c.Add(context.Background(), 1))

	ctrl := NewController(mp, time.Hour)
	require.NoError(t, ctrl.Stop(context.Background()))
	assert.Len(t, sink.all(), 1)
}

// stuckSink blocks its first EnqueueAll until release is closed.
type stuckSink struct {
	recordSink
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *stuckSink) EnqueueAll(records []Record) error {
	first := false
	s.once.Do(func() { first = true })
	if first {
		close(s.entered)
		<-s.release
	}
	return s.recordSink.EnqueueAll(records)
}

func TestControllerStopDeadlineStillShutsDown(t *testing.T) {
	sink := &stuckSink{entered: make(chan struct{}), release: make(chan struct{})}
	mp := NewMeterProvider(WithRecordSink(sink))
	c, err := mp.Meter("test").Counter("ticks")
	require.NoError(t, err)

	ctrl := NewController(mp, 10*time.Millisecond)
	require.NoError(t, ctrl.Start(context.Background()))
	require.NoError(t, c.Add(context.Background(), 1))
	<-sink.entered
	require.NoError(t, c.Add(context.Background(), 2))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = ctrl.Stop(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, err, ctrl.Stop(context.Background()))

	// The final collection ran although the loop was still busy.
	records := sink.all()
	require.Len(t, records, 1)
	assert.Equal(t, 2.0, records[0].Aggregation.Sum)
	assert.NoError(t, c.Add(context.Background(), 1))
	assert.EqualValues(t, 1, mp.Dropped())

	close(sink.release)
	<-ctrl.done
	assert.Len(t, sink.all(), 2)
}

func TestControllerInvalidInterval(t *testing.T) {
	ctrl := NewController(NewMeterProvider(), 0)
	assert.True(t, errors.Is(ctrl.Start(context.Background()), componenterror.ErrValidation))
}
