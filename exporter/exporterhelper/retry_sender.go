// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exporterhelper // import "go.opentelemetry.io/telemetrycore/exporter/exporterhelper"

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/exporter"
)

// RetrySettings defines configuration for retrying batches in case of export failure.
// The current supported strategy is exponential backoff.
type RetrySettings struct {
	// Enabled indicates whether to not retry sending batches in case of export failure.
	Enabled bool `mapstructure:"enabled"`
	// InitialInterval the time to wait after the first failure before retrying.
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	// MaxInterval is the upper bound on backoff interval. Once this value is reached the delay between
	// consecutive retries will always be `MaxInterval`.
	MaxInterval time.Duration `mapstructure:"max_interval"`
	// MaxElapsedTime is the maximum amount of time (including retries) spent trying to send a request/batch.
	// Once this value is reached, the data is discarded.
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time"`
}

// NewDefaultRetrySettings returns the default settings for RetrySettings.
// Retries are disabled: a failed batch is dropped by the processor.
func NewDefaultRetrySettings() RetrySettings {
	return RetrySettings{
		Enabled:         false,
		InitialInterval: 5 * time.Second,
		MaxInterval:     30 * time.Second,
		MaxElapsedTime:  5 * time.Minute,
	}
}

type retrySender[T any] struct {
	cfg        RetrySettings
	nextSender requestSender[T]
	stopCh     chan struct{}
	logger     *zap.Logger
}

func (rs *retrySender[T]) send(req request[T]) error {
	if !rs.cfg.Enabled {
		return rs.nextSender.send(req)
	}

	// Do not use NewExponentialBackOff since it calls Reset and the code here must
	// call Reset after changing the InitialInterval (this saves an unnecessary call to Now).
	expBackoff := backoff.ExponentialBackOff{
		InitialInterval:     rs.cfg.InitialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         rs.cfg.MaxInterval,
		MaxElapsedTime:      rs.cfg.MaxElapsedTime,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	expBackoff.Reset()
	for {
		err := rs.nextSender.send(req)
		if err == nil {
			return nil
		}

		// Immediately drop data on permanent errors.
		if exporter.IsPermanent(err) {
			rs.logger.Debug("Exporting failed. The error is not retryable. Dropping data.",
				zap.Error(err), zap.Int("dropped_items", len(req.batch)))
			return err
		}

		backoffDelay := expBackoff.NextBackOff()
		if backoffDelay == backoff.Stop {
			// throw away the batch
			return fmt.Errorf("max elapsed time expired %w", err)
		}

		rs.logger.Debug("Exporting failed. Will retry the request after interval.",
			zap.Error(err), zap.String("interval", backoffDelay.String()))

		// back-off, but get interrupted when shutting down or request is cancelled or timed out.
		timer := time.NewTimer(backoffDelay)
		select {
		case <-req.ctx.Done():
			timer.Stop()
			return fmt.Errorf("request is cancelled or timed out %w", err)
		case <-rs.stopCh:
			timer.Stop()
			return fmt.Errorf("interrupted due to shutdown %w", err)
		case <-timer.C:
		}
	}
}
