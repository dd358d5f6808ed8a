// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package loggingexporter

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go.opentelemetry.io/telemetrycore/config/configtelemetry"
	"go.opentelemetry.io/telemetrycore/internal/testdata"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return zap.New(core), logs
}

func TestLoggingTracesExporterNoErrors(t *testing.T) {
	for _, lvl := range []configtelemetry.Level{configtelemetry.LevelBasic, configtelemetry.LevelNormal, configtelemetry.LevelDetailed} {
		t.Run(lvl.String(), func(t *testing.T) {
			lte, err := NewTracesExporter(&Config{Verbosity: lvl}, zap.NewNop())
			require.NoError(t, err)
			assert.NoError(t, lte.Export(context.Background(), nil))
			assert.NoError(t, lte.Export(context.Background(), testdata.GenerateSpans(2)))
			assert.NoError(t, lte.Shutdown(context.Background()))
		})
	}
}

func TestLoggingMetricsExporterNoErrors(t *testing.T) {
	for _, lvl := range []configtelemetry.Level{configtelemetry.LevelBasic, configtelemetry.LevelNormal, configtelemetry.LevelDetailed} {
		t.Run(lvl.String(), func(t *testing.T) {
			lme, err := NewMetricsExporter(&Config{Verbosity: lvl}, zap.NewNop())
			require.NoError(t, err)
			assert.NoError(t, lme.Export(context.Background(), nil))
			assert.NoError(t, lme.Export(context.Background(), testdata.GenerateRecords()))
			assert.NoError(t, lme.Shutdown(context.Background()))
		})
	}
}

func TestLoggingExporterInvalidConfig(t *testing.T) {
	_, err := NewTracesExporter(&Config{Verbosity: configtelemetry.LevelNone}, zap.NewNop())
	assert.Error(t, err)
	_, err = NewMetricsExporter(nil, nil)
	assert.Error(t, err)
}

func TestLoggingTracesExporterVerbosity(t *testing.T) {
	spans := testdata.GenerateSpans(2)

	logger, logs := newObservedLogger()
	lte, err := NewTracesExporter(&Config{Verbosity: configtelemetry.LevelBasic}, logger)
	require.NoError(t, err)
	require.NoError(t, lte.Export(context.Background(), spans))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "TracesExporter", logs.All()[0].Message)
	assert.Equal(t, int64(2), logs.All()[0].ContextMap()["#spans"])

	logger, logs = newObservedLogger()
	lte, err = NewTracesExporter(&Config{Verbosity: configtelemetry.LevelNormal}, logger)
	require.NoError(t, err)
	require.NoError(t, lte.Export(context.Background(), spans))
	require.Equal(t, 3, logs.Len())
	child := logs.All()[2]
	assert.Equal(t, "operationB", child.Message)
	assert.Equal(t, testdata.TestTraceID.String(), child.ContextMap()["trace_id"])
	assert.Equal(t, spans[0].SpanID().String(), child.ContextMap()["parent_id"])
	assert.Equal(t, "Error", child.ContextMap()["status"])

	logger, logs = newObservedLogger()
	lte, err = NewTracesExporter(&Config{Verbosity: configtelemetry.LevelDetailed}, logger)
	require.NoError(t, err)
	require.NoError(t, lte.Export(context.Background(), spans))
	require.Equal(t, 2, logs.Len())
	detail := logs.All()[1].Message
	assert.Contains(t, detail, "Span #0")
	assert.Contains(t, detail, "Span #1")
	assert.Contains(t, detail, "-> span-attr: STRING(span-attr-val)")
	assert.Contains(t, detail, "SpanEvent #1")
	assert.Contains(t, detail, "-> service.name: STRING("+testdata.TestServiceName+")")
	assert.Contains(t, detail, "status-cancelled")
}

func TestLoggingMetricsExporterVerbosity(t *testing.T) {
	records := testdata.GenerateRecords()

	logger, logs := newObservedLogger()
	lme, err := NewMetricsExporter(&Config{Verbosity: configtelemetry.LevelNormal}, logger)
	require.NoError(t, err)
	require.NoError(t, lme.Export(context.Background(), records))
	require.Equal(t, 1+len(records), logs.Len())
	counter := logs.All()[1]
	assert.Equal(t, testdata.TestCounterName, counter.Message)
	assert.Equal(t, float64(3), counter.ContextMap()["value"])
	assert.Equal(t, fmt.Sprintf("%s=%s", testdata.TestLabelKey1, testdata.TestLabelValue1), counter.ContextMap()["attributes"])

	logger, logs = newObservedLogger()
	lme, err = NewMetricsExporter(&Config{Verbosity: configtelemetry.LevelDetailed}, logger)
	require.NoError(t, err)
	require.NoError(t, lme.Export(context.Background(), records))
	require.Equal(t, 2, logs.Len())
	detail := logs.All()[1].Message
	assert.Contains(t, detail, "Record #2")
	assert.Contains(t, detail, "-> Description: A ValueObserver set to 1.0")
	assert.Contains(t, detail, "Min: 1.000000")
	assert.Contains(t, detail, "-> Baggage: ex.com/another=xyz")
	assert.Contains(t, detail, "-> Batch: 1")
}
