// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package kafkaexporter publishes spans and records to a Kafka topic.
package kafkaexporter // import "go.opentelemetry.io/telemetrycore/exporter/kafkaexporter"

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shopify/sarama"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/exporter"
	"go.opentelemetry.io/telemetrycore/internal/sharedcomponent"
	"go.opentelemetry.io/telemetrycore/metric"
	"go.opentelemetry.io/telemetrycore/trace"
)

// Traces and metrics created from the same *Config share one producer.
var producers = sharedcomponent.NewMap[*Config, *kafkaProducer]()

var errUnrecognizedEncoding = errors.New("unrecognized encoding")

// kafkaProducer uses sarama to produce messages to Kafka.
type kafkaProducer struct {
	producer         sarama.SyncProducer
	topic            string
	tracesMarshaler  TracesMarshaler
	metricsMarshaler MetricsMarshaler
	logger           *zap.Logger
}

// newSyncProducer is replaced in tests.
var newSyncProducer = sarama.NewSyncProducer

func newKafkaProducer(cfg *Config, logger *zap.Logger) (*kafkaProducer, error) {
	tm, ok := tracesMarshalers()[cfg.Encoding]
	if !ok {
		return nil, fmt.Errorf("%w %q", errUnrecognizedEncoding, cfg.Encoding)
	}
	mm, ok := metricsMarshalers()[cfg.Encoding]
	if !ok {
		return nil, fmt.Errorf("%w %q", errUnrecognizedEncoding, cfg.Encoding)
	}
	c, err := cfg.saramaConfig()
	if err != nil {
		return nil, err
	}
	producer, err := newSyncProducer(cfg.Brokers, c)
	if err != nil {
		return nil, err
	}
	return &kafkaProducer{
		producer:         producer,
		topic:            cfg.Topic,
		tracesMarshaler:  tm,
		metricsMarshaler: mm,
		logger:           logger,
	}, nil
}

func (e *kafkaProducer) send(ctx context.Context, signal string, messages []*sarama.ProducerMessage) error {
	statsTags := []tag.Mutator{tag.Upsert(tagSignalKey, signal)}
	err := e.producer.SendMessages(messages)
	if err == nil {
		_ = stats.RecordWithTags(ctx, statsTags, statSendSuccess.M(int64(len(messages))))
		return nil
	}

	var prodErrs sarama.ProducerErrors
	if errors.As(err, &prodErrs) {
		_ = stats.RecordWithTags(ctx, statsTags,
			statSendSuccess.M(int64(len(messages)-len(prodErrs))),
			statSendErr.M(int64(len(prodErrs))))
		e.logger.Error("Sending messages to Kafka failed",
			zap.String("signal", signal),
			zap.Int("failed", len(prodErrs)),
			zap.Int("total", len(messages)),
			zap.Error(prodErrs[0].Err))
		return fmt.Errorf("failed to send %d of %d messages: %w", len(prodErrs), len(messages), prodErrs[0].Err)
	}
	_ = stats.RecordWithTags(ctx, statsTags, statSendErr.M(int64(len(messages))))
	return err
}

func (e *kafkaProducer) spansPusher(ctx context.Context, spans []trace.SpanData) error {
	messages, err := e.tracesMarshaler.Marshal(spans, e.topic)
	if err != nil {
		return exporter.Permanent(err)
	}
	return e.send(ctx, "traces", messages)
}

func (e *kafkaProducer) recordsPusher(ctx context.Context, records []metric.Record) error {
	messages, err := e.metricsMarshaler.Marshal(records, e.topic)
	if err != nil {
		return exporter.Permanent(err)
	}
	return e.send(ctx, "metrics", messages)
}

// Shutdown closes the producer.
func (e *kafkaProducer) Shutdown(context.Context) error {
	return e.producer.Close()
}

type tracesExporter struct {
	*sharedcomponent.SharedComponent[*kafkaProducer]
}

func (e tracesExporter) Export(ctx context.Context, spans []trace.SpanData) error {
	return e.Unwrap().spansPusher(ctx, spans)
}

type metricsExporter struct {
	*sharedcomponent.SharedComponent[*kafkaProducer]
}

func (e metricsExporter) Export(ctx context.Context, records []metric.Record) error {
	return e.Unwrap().recordsPusher(ctx, records)
}

func loadProducer(cfg *Config, logger *zap.Logger) (*sharedcomponent.SharedComponent[*kafkaProducer], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return producers.LoadOrStore(cfg, func() (*kafkaProducer, error) {
		return newKafkaProducer(cfg, logger)
	})
}

// NewTracesExporter creates an exporter.Traces publishing one message per span.
func NewTracesExporter(cfg *Config, logger *zap.Logger) (exporter.Traces, error) {
	sc, err := loadProducer(cfg, logger)
	if err != nil {
		return nil, err
	}
	return tracesExporter{sc}, nil
}

// NewMetricsExporter creates an exporter.Metrics publishing one message per record.
func NewMetricsExporter(cfg *Config, logger *zap.Logger) (exporter.Metrics, error) {
	sc, err := loadProducer(cfg, logger)
	if err != nil {
		return nil, err
	}
	return metricsExporter{sc}, nil
}
