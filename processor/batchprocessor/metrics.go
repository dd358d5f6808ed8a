// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package batchprocessor // import "go.opentelemetry.io/telemetrycore/processor/batchprocessor"

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

type trigger int

const (
	typeStr                = "batch"
	triggerTimeout trigger = iota
	triggerBatchSize
	triggerFlush
	triggerShutdown
)

func (t trigger) String() string {
	switch t {
	case triggerTimeout:
		return "timeout"
	case triggerBatchSize:
		return "batch_size"
	case triggerFlush:
		return "flush"
	case triggerShutdown:
		return "shutdown"
	}
	return "unknown"
}

// TagProcessorNameKey tags the processor measures with the processor name.
var TagProcessorNameKey = tag.MustNewKey("processor")

var (
	statBatchSizeTriggerSend = stats.Int64("processor/"+typeStr+"/batch_size_trigger_send",
		"Number of times the batch was sent due to a size trigger", stats.UnitDimensionless)
	statTimeoutTriggerSend = stats.Int64("processor/"+typeStr+"/timeout_trigger_send",
		"Number of times the batch was sent due to a timeout trigger", stats.UnitDimensionless)
	statBatchSendSize = stats.Int64("processor/"+typeStr+"/batch_send_size",
		"Number of units in the batch", stats.UnitDimensionless)
	statExportFailures = stats.Int64("processor/"+typeStr+"/export_failures",
		"Number of batches dropped because the exporter failed", stats.UnitDimensionless)
)

// MetricViews returns the metrics views related to batching
func MetricViews() []*view.View {
	tagKeys := []tag.Key{TagProcessorNameKey}

	countBatchSizeTriggerSendView := &view.View{
		Name:        statBatchSizeTriggerSend.Name(),
		Measure:     statBatchSizeTriggerSend,
		Description: statBatchSizeTriggerSend.Description(),
		TagKeys:     tagKeys,
		Aggregation: view.Sum(),
	}

	countTimeoutTriggerSendView := &view.View{
		Name:        statTimeoutTriggerSend.Name(),
		Measure:     statTimeoutTriggerSend,
		Description: statTimeoutTriggerSend.Description(),
		TagKeys:     tagKeys,
		Aggregation: view.Sum(),
	}

	distributionBatchSendSizeView := &view.View{
		Name:        statBatchSendSize.Name(),
		Measure:     statBatchSendSize,
		Description: statBatchSendSize.Description(),
		TagKeys:     tagKeys,
		Aggregation: view.Distribution(10, 25, 50, 75, 100, 250, 500, 750, 1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000, 9000, 10000, 20000, 30000, 50000, 100000),
	}

	countExportFailuresView := &view.View{
		Name:        statExportFailures.Name(),
		Measure:     statExportFailures,
		Description: statExportFailures.Description(),
		TagKeys:     tagKeys,
		Aggregation: view.Sum(),
	}

	return []*view.View{
		countBatchSizeTriggerSendView,
		countTimeoutTriggerSendView,
		distributionBatchSendSizeView,
		countExportFailuresView,
	}
}

type processorTelemetry struct {
	exportCtx context.Context
}

func newProcessorTelemetry(name string) *processorTelemetry {
	ctx, _ := tag.New(context.Background(), tag.Insert(TagProcessorNameKey, name))
	return &processorTelemetry{exportCtx: ctx}
}

func (pt *processorTelemetry) recordSend(t trigger, sent int) {
	switch t {
	case triggerBatchSize:
		stats.Record(pt.exportCtx, statBatchSizeTriggerSend.M(1))
	case triggerTimeout:
		stats.Record(pt.exportCtx, statTimeoutTriggerSend.M(1))
	}
	stats.Record(pt.exportCtx, statBatchSendSize.M(int64(sent)))
}

func (pt *processorTelemetry) recordFailure() {
	stats.Record(pt.exportCtx, statExportFailures.M(1))
}
