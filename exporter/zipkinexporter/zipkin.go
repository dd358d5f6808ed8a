// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package zipkinexporter sends spans to a Zipkin v2 collector over HTTP.
package zipkinexporter // import "go.opentelemetry.io/telemetrycore/exporter/zipkinexporter"

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/openzipkin/zipkin-go/proto/zipkin_proto3"
	zipkinreporter "github.com/openzipkin/zipkin-go/reporter"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"go.opentelemetry.io/telemetrycore/exporter"
	"go.opentelemetry.io/telemetrycore/trace"
)

type zipkinExporter struct {
	defaultServiceName string

	url        string
	transport  *http.Transport
	client     *http.Client
	serializer zipkinreporter.SpanSerializer
}

// NewTracesExporter creates an exporter.Traces POSTing every batch to cfg.Endpoint.
func NewTracesExporter(cfg *Config) (exporter.Traces, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	ze := &zipkinExporter{
		defaultServiceName: cfg.DefaultServiceName,
		url:                cfg.Endpoint,
		transport:          transport,
		// The otel propagator and providers registered globally see every
		// export request, so a caller's trace context reaches the collector.
		client: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   cfg.Timeout,
		},
	}

	switch cfg.Format {
	case "json":
		ze.serializer = zipkinreporter.JSONSerializer{}
	case "proto":
		ze.serializer = zipkin_proto3.SpanSerializer{}
	}
	return ze, nil
}

func (ze *zipkinExporter) Export(ctx context.Context, spans []trace.SpanData) error {
	body, err := ze.serializer.Serialize(toZipkinSpans(spans, ze.defaultServiceName))
	if err != nil {
		return exporter.Permanent(fmt.Errorf("failed to push trace data via Zipkin exporter: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ze.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to push trace data via Zipkin exporter: %w", err)
	}
	req.Header.Set("Content-Type", ze.serializer.ContentType())

	resp, err := ze.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push trace data via Zipkin exporter: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("failed the request with status code %d", resp.StatusCode)
	}
	return nil
}

func (ze *zipkinExporter) Shutdown(context.Context) error {
	ze.transport.CloseIdleConnections()
	return nil
}
