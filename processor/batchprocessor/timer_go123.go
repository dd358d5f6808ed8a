// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

//go:build go1.23

package batchprocessor // import "go.opentelemetry.io/telemetrycore/processor/batchprocessor"

func (bp *Processor[T]) stopTimer() {
	bp.timer.Stop()
}
