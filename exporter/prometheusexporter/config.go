// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package prometheusexporter // import "go.opentelemetry.io/telemetrycore/exporter/prometheusexporter"

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var errBlankPrometheusAddress = errors.New("expecting a non-blank address to run the Prometheus metrics handler")

// Config defines configuration for Prometheus exporter.
type Config struct {
	// The address on which the Prometheus scrape handler will be run on.
	Endpoint string `mapstructure:"endpoint"`

	// Namespace if set, exports metrics under the provided value.
	Namespace string `mapstructure:"namespace"`

	// ConstLabels are values that are applied for every exported metric.
	ConstLabels prometheus.Labels `mapstructure:"const_labels"`

	// SendTimestamps will send the underlying scrape timestamp with the export
	SendTimestamps bool `mapstructure:"send_timestamps"`

	// MetricExpiration defines how long metrics are kept without updates
	MetricExpiration time.Duration `mapstructure:"metric_expiration"`

	// CORSAllowedOrigins lists the origins allowed to scrape from a browser.
	// CORS is disabled when empty.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	// PipelineMetrics also serves the registered OpenCensus views, such as
	// the batch processor and kafka exporter statistics.
	PipelineMetrics bool `mapstructure:"pipeline_metrics"`
}

// NewDefaultConfig returns the default settings, without an endpoint.
func NewDefaultConfig() *Config {
	return &Config{
		ConstLabels:      map[string]string{},
		MetricExpiration: 5 * time.Minute,
	}
}

// Validate checks if the exporter configuration is valid
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return errBlankPrometheusAddress
	}
	if cfg.MetricExpiration <= 0 {
		return errors.New("metric_expiration must be positive")
	}
	return nil
}
