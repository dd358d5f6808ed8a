// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package batchprocessor // import "go.opentelemetry.io/telemetrycore/processor/batchprocessor"

import (
	"errors"
	"time"

	"go.uber.org/multierr"
)

const (
	defaultFlushInterval   = 5 * time.Second
	defaultMaxBatchSize    = 512
	defaultShutdownTimeout = 30 * time.Second
)

// Config defines configuration for a batch processor.
type Config struct {
	// FlushInterval is the time after which a batch will be sent regardless of size.
	FlushInterval time.Duration `mapstructure:"flush_interval"`

	// MaxBatchSize is the number of buffered items which, once reached, triggers a
	// send without waiting for FlushInterval.
	MaxBatchSize int `mapstructure:"max_batch_size"`

	// ShutdownTimeout bounds the final drain performed by Shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// NewDefaultConfig returns the default processor configuration.
func NewDefaultConfig() Config {
	return Config{
		FlushInterval:   defaultFlushInterval,
		MaxBatchSize:    defaultMaxBatchSize,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// Validate checks if the processor configuration is valid.
func (cfg *Config) Validate() error {
	var errs error
	if cfg.FlushInterval <= 0 {
		errs = multierr.Append(errs, errors.New("flush_interval must be positive"))
	}
	if cfg.MaxBatchSize <= 0 {
		errs = multierr.Append(errs, errors.New("max_batch_size must be positive"))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = multierr.Append(errs, errors.New("shutdown_timeout must be positive"))
	}
	return errs
}
