// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package kafkaexporter // import "go.opentelemetry.io/telemetrycore/exporter/kafkaexporter"

import (
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	tagSignalKey, _ = tag.NewKey("signal")

	statSendSuccess = stats.Int64("kafka_exporter_messages_sent", "Number of messages sent to Kafka", stats.UnitDimensionless)
	statSendErr     = stats.Int64("kafka_exporter_send_errors", "Number of messages Kafka rejected", stats.UnitDimensionless)
)

// MetricViews return metric views for Kafka exporter.
func MetricViews() []*view.View {
	tagKeys := []tag.Key{tagSignalKey}

	countMessages := &view.View{
		Name:        statSendSuccess.Name(),
		Measure:     statSendSuccess,
		Description: statSendSuccess.Description(),
		TagKeys:     tagKeys,
		Aggregation: view.Sum(),
	}

	countErrors := &view.View{
		Name:        statSendErr.Name(),
		Measure:     statSendErr,
		Description: statSendErr.Description(),
		TagKeys:     tagKeys,
		Aggregation: view.Sum(),
	}

	return []*view.View{
		countMessages,
		countErrors,
	}
}
