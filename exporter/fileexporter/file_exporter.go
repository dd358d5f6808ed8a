// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package fileexporter appends batches to a file as JSON lines.
package fileexporter // import "go.opentelemetry.io/telemetrycore/exporter/fileexporter"

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/telemetrycore/exporter"
	"go.opentelemetry.io/telemetrycore/internal/jsonstream"
	"go.opentelemetry.io/telemetrycore/internal/sharedcomponent"
	"go.opentelemetry.io/telemetrycore/metric"
	"go.opentelemetry.io/telemetrycore/trace"
)

// Traces and metrics configured with the same path write to one file.
var exporters = sharedcomponent.NewMap[string, *fileExporter]()

// fileExporter writes one JSON object per batch followed by a newline:
// {"spans":[...]} or {"records":[...]}.
type fileExporter struct {
	file  io.WriteCloser
	mutex sync.Mutex
}

func (e *fileExporter) writeLine(field string, payload []byte) error {
	// Ensure only one write operation happens at a time.
	e.mutex.Lock()
	defer e.mutex.Unlock()

	line := make([]byte, 0, len(payload)+len(field)+6)
	line = append(line, `{"`...)
	line = append(line, field...)
	line = append(line, `":`...)
	line = append(line, payload...)
	line = append(line, "}\n"...)
	_, err := e.file.Write(line)
	return err
}

func (e *fileExporter) exportSpans(_ context.Context, spans []trace.SpanData) error {
	buf, err := jsonstream.MarshalSpans(spans)
	if err != nil {
		return exporter.Permanent(err)
	}
	return e.writeLine("spans", buf)
}

func (e *fileExporter) exportRecords(_ context.Context, records []metric.Record) error {
	buf, err := jsonstream.MarshalRecords(records)
	if err != nil {
		return exporter.Permanent(err)
	}
	return e.writeLine("records", buf)
}

// Shutdown stops the exporter and is invoked during shutdown.
func (e *fileExporter) Shutdown(context.Context) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.file.Close()
}

func newFileExporter(cfg *Config) (*sharedcomponent.SharedComponent[*fileExporter], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return exporters.LoadOrStore(cfg.Path, func() (*fileExporter, error) {
		f, err := os.OpenFile(cfg.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
		if err != nil {
			return nil, err
		}
		return &fileExporter{file: f}, nil
	})
}

type tracesExporter struct {
	*sharedcomponent.SharedComponent[*fileExporter]
}

func (e tracesExporter) Export(ctx context.Context, spans []trace.SpanData) error {
	return e.Unwrap().exportSpans(ctx, spans)
}

type metricsExporter struct {
	*sharedcomponent.SharedComponent[*fileExporter]
}

func (e metricsExporter) Export(ctx context.Context, records []metric.Record) error {
	return e.Unwrap().exportRecords(ctx, records)
}

// NewTracesExporter creates an exporter.Traces appending span batches to cfg.Path.
func NewTracesExporter(cfg *Config) (exporter.Traces, error) {
	sc, err := newFileExporter(cfg)
	if err != nil {
		return nil, err
	}
	return tracesExporter{sc}, nil
}

// NewMetricsExporter creates an exporter.Metrics appending record batches to cfg.Path.
func NewMetricsExporter(cfg *Config) (exporter.Metrics, error) {
	sc, err := newFileExporter(cfg)
	if err != nil {
		return nil, err
	}
	return metricsExporter{sc}, nil
}
