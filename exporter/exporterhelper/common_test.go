// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exporterhelper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
	"go.opentelemetry.io/telemetrycore/exporter"
	"go.opentelemetry.io/telemetrycore/exporter/exportertest"
)

type flakyExporter struct {
	failures *atomic.Int64
	calls    *atomic.Int64
	err      error
}

func newFlaky(failures int64, err error) *flakyExporter {
	return &flakyExporter{failures: atomic.NewInt64(failures), calls: atomic.NewInt64(0), err: err}
}

func (f *flakyExporter) Export(context.Context, []int) error {
	f.calls.Inc()
	if f.failures.Dec() >= 0 {
		return f.err
	}
	return nil
}

func (f *flakyExporter) Shutdown(context.Context) error { return nil }

func fastRetry() RetrySettings {
	rCfg := NewDefaultRetrySettings()
	rCfg.Enabled = true
	rCfg.InitialInterval = time.Millisecond
	rCfg.MaxInterval = 5 * time.Millisecond
	rCfg.MaxElapsedTime = time.Second
	return rCfg
}

func TestNewNilExporter(t *testing.T) {
	_, err := New[int]("nil", nil, zap.NewNop())
	assert.True(t, errors.Is(err, componenterror.ErrValidation))
}

func TestExportSuccess(t *testing.T) {
	sink := new(exportertest.Sink[int])
	exp, err := New[int]("sink", sink, nil)
	require.NoError(t, err)
	assert.Equal(t, "sink", exp.Name())

	require.NoError(t, exp.Export(context.Background(), []int{1, 2, 3}))
	require.NoError(t, exp.Export(context.Background(), nil))
	assert.Equal(t, 3, sink.ItemCount())
	assert.Len(t, sink.AllBatches(), 1)
}

func TestExportFailureIsWrapped(t *testing.T) {
	errDown := errors.New("backend down")
	exp, err := New[int]("err", exportertest.NewErr[int](errDown), zap.NewNop())
	require.NoError(t, err)

	err = exp.Export(context.Background(), []int{1, 2})
	var ee *exporter.ExportError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "err", ee.Exporter)
	assert.Equal(t, 2, ee.Items)
	assert.True(t, errors.Is(err, errDown))
}

func TestRetryDisabledByDefault(t *testing.T) {
	flaky := newFlaky(1, errors.New("transient"))
	exp, err := New[int]("flaky", flaky, zap.NewNop())
	require.NoError(t, err)

	assert.Error(t, exp.Export(context.Background(), []int{1}))
	assert.EqualValues(t, 1, flaky.calls.Load())
}

func TestRetryUntilSuccess(t *testing.T) {
	flaky := newFlaky(3, errors.New("transient"))
	exp, err := New[int]("flaky", flaky, zap.NewNop(), WithRetry(fastRetry()))
	require.NoError(t, err)

	require.NoError(t, exp.Export(context.Background(), []int{1}))
	assert.EqualValues(t, 4, flaky.calls.Load())
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	flaky := newFlaky(10, exporter.Permanent(errors.New("bad payload")))
	exp, err := New[int]("flaky", flaky, zap.NewNop(), WithRetry(fastRetry()))
	require.NoError(t, err)

	err = exp.Export(context.Background(), []int{1})
	assert.True(t, exporter.IsPermanent(err))
	assert.EqualValues(t, 1, flaky.calls.Load())
}

func TestRetryMaxElapsedTime(t *testing.T) {
	rCfg := fastRetry()
	rCfg.MaxElapsedTime = 20 * time.Millisecond
	flaky := newFlaky(1<<30, errors.New("transient"))
	exp, err := New[int]("flaky", flaky, zap.NewNop(), WithRetry(rCfg))
	require.NoError(t, err)

	err = exp.Export(context.Background(), []int{1})
	assert.ErrorContains(t, err, "max elapsed time expired")
	assert.Greater(t, flaky.calls.Load(), int64(1))
}

func TestRetryInterruptedByShutdown(t *testing.T) {
	rCfg := fastRetry()
	rCfg.InitialInterval = time.Hour
	rCfg.MaxInterval = time.Hour
	rCfg.MaxElapsedTime = 0
	flaky := newFlaky(1<<30, errors.New("transient"))
	exp, err := New[int]("flaky", flaky, zap.NewNop(), WithRetry(rCfg))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- exp.Export(context.Background(), []int{1})
	}()
	assert.Eventually(t, func() bool { return flaky.calls.Load() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, exp.Shutdown(context.Background()))

	select {
	case err = <-done:
		assert.ErrorContains(t, err, "interrupted due to shutdown")
	case <-time.After(5 * time.Second):
		t.Fatal("export was not interrupted by shutdown")
	}
}

type blockingExporter struct{}

func (blockingExporter) Export(ctx context.Context, _ []int) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingExporter) Shutdown(context.Context) error { return nil }

func TestTimeout(t *testing.T) {
	exp, err := New[int]("slow", blockingExporter{}, zap.NewNop(),
		WithTimeout(TimeoutSettings{Timeout: 10 * time.Millisecond}))
	require.NoError(t, err)

	err = exp.Export(context.Background(), []int{1})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestShutdownIdempotent(t *testing.T) {
	sink := new(exportertest.Sink[int])
	exp, err := New[int]("sink", sink, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, exp.Shutdown(context.Background()))
	require.NoError(t, exp.Shutdown(context.Background()))
	assert.Equal(t, 1, sink.ShutdownCount())

	err = exp.Export(context.Background(), []int{1})
	assert.True(t, errors.Is(err, componenterror.ErrShutdown))
	assert.Equal(t, 0, sink.ItemCount())
}
