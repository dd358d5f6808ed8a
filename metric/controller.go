// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric // import "go.opentelemetry.io/telemetrycore/metric"

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/component/componenterror"
)

// Controller collects a MeterProvider on a fixed interval.
type Controller struct {
	provider *MeterProvider
	interval time.Duration
	logger   *zap.Logger

	started  *atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
	stopErr  error
}

// NewController returns a stopped controller for mp.
func NewController(mp *MeterProvider, interval time.Duration) *Controller {
	return &Controller{
		provider: mp,
		interval: interval,
		logger:   mp.logger,
		started:  atomic.NewBool(false),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the collection loop.
func (c *Controller) Start(_ context.Context) error {
	if c.interval <= 0 {
		return componenterror.Validationf("collect interval must be positive, got %v", c.interval)
	}
	if !c.started.CompareAndSwap(false, true) {
		return componenterror.ErrAlreadyStarted
	}
	go c.run()
	return nil
}

func (c *Controller) run() {
	defer close(c.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			if err := c.provider.Collect(context.Background()); err != nil {
				c.logger.Warn("Metric collection failed", zap.Error(err))
			}
		}
	}
}

// Stop ends the loop and shuts the provider down, which performs the final
// collection. If ctx is done before the loop exits, the provider is still
// shut down and ctx's error is returned with its result. Subsequent calls
// return the result of the first.
func (c *Controller) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if c.started.Load() {
			select {
			case <-c.done:
			case <-ctx.Done():
				c.stopErr = fmt.Errorf("metric collection loop did not exit: %w", ctx.Err())
			}
		}
		c.stopErr = multierr.Append(c.stopErr, c.provider.Shutdown(ctx))
	})
	return c.stopErr
}
