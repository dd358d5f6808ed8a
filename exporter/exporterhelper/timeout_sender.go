// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exporterhelper // import "go.opentelemetry.io/telemetrycore/exporter/exporterhelper"

import (
	"context"
	"time"
)

// TimeoutSettings for timeout. The timeout applies to individual attempts to send data to the backend.
type TimeoutSettings struct {
	// Timeout is the timeout for every attempt to send data to the backend.
	// A zero timeout disables it.
	Timeout time.Duration `mapstructure:"timeout"`
}

// NewDefaultTimeoutSettings returns the default settings for TimeoutSettings.
func NewDefaultTimeoutSettings() TimeoutSettings {
	return TimeoutSettings{
		Timeout: 5 * time.Second,
	}
}

// timeoutSender is a requestSender that adds a `timeout` to every request that passes this sender.
type timeoutSender[T any] struct {
	cfg        TimeoutSettings
	nextSender requestSender[T]
}

func (ts *timeoutSender[T]) send(req request[T]) error {
	if ts.cfg.Timeout <= 0 {
		return ts.nextSender.send(req)
	}
	// Intentionally don't overwrite the context inside the request, because in case of retries deadline will not be
	// updated because this deadline most likely is before the next one.
	ctx, cancel := context.WithTimeout(req.ctx, ts.cfg.Timeout)
	defer cancel()
	return ts.nextSender.send(request[T]{ctx: ctx, batch: req.batch})
}
