// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package kafkaexporter // import "go.opentelemetry.io/telemetrycore/exporter/kafkaexporter"

import (
	"github.com/Shopify/sarama"

	"go.opentelemetry.io/telemetrycore/internal/jsonstream"
	"go.opentelemetry.io/telemetrycore/metric"
	"go.opentelemetry.io/telemetrycore/trace"
)

// TracesMarshaler marshals spans into Message array.
type TracesMarshaler interface {
	// Marshal serializes spans into sarama's ProducerMessages
	Marshal(spans []trace.SpanData, topic string) ([]*sarama.ProducerMessage, error)

	// Encoding returns encoding name
	Encoding() string
}

// MetricsMarshaler marshals records into Message array
type MetricsMarshaler interface {
	// Marshal serializes records into sarama's ProducerMessages
	Marshal(records []metric.Record, topic string) ([]*sarama.ProducerMessage, error)

	// Encoding returns encoding name
	Encoding() string
}

// tracesMarshalers returns map of supported encodings with TracesMarshaler.
func tracesMarshalers() map[string]TracesMarshaler {
	j := jsonTracesMarshaler{}
	return map[string]TracesMarshaler{
		j.Encoding(): j,
	}
}

// metricsMarshalers returns map of supported encodings and MetricsMarshaler
func metricsMarshalers() map[string]MetricsMarshaler {
	j := jsonMetricsMarshaler{}
	return map[string]MetricsMarshaler{
		j.Encoding(): j,
	}
}

// jsonTracesMarshaler produces one message per span, keyed by trace id so
// that the spans of a trace land in the same partition.
type jsonTracesMarshaler struct{}

func (jsonTracesMarshaler) Marshal(spans []trace.SpanData, topic string) ([]*sarama.ProducerMessage, error) {
	messages := make([]*sarama.ProducerMessage, 0, len(spans))
	for i := range spans {
		bts, err := jsonstream.MarshalSpan(spans[i])
		if err != nil {
			return nil, err
		}
		messages = append(messages, &sarama.ProducerMessage{
			Topic: topic,
			Key:   sarama.StringEncoder(spans[i].TraceID().String()),
			Value: sarama.ByteEncoder(bts),
		})
	}
	return messages, nil
}

func (jsonTracesMarshaler) Encoding() string {
	return defaultEncoding
}

// jsonMetricsMarshaler produces one message per record, keyed by
// instrument name.
type jsonMetricsMarshaler struct{}

func (jsonMetricsMarshaler) Marshal(records []metric.Record, topic string) ([]*sarama.ProducerMessage, error) {
	messages := make([]*sarama.ProducerMessage, 0, len(records))
	for i := range records {
		bts, err := jsonstream.MarshalRecord(records[i])
		if err != nil {
			return nil, err
		}
		messages = append(messages, &sarama.ProducerMessage{
			Topic: topic,
			Key:   sarama.StringEncoder(records[i].Descriptor.Name),
			Value: sarama.ByteEncoder(bts),
		})
	}
	return messages, nil
}

func (jsonMetricsMarshaler) Encoding() string {
	return defaultEncoding
}
