// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package zipkinexporter // import "go.opentelemetry.io/telemetrycore/exporter/zipkinexporter"

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config defines configuration settings for the Zipkin exporter.
type Config struct {
	// Endpoint is the URL spans are POSTed to,
	// for example http://localhost:9411/api/v2/spans.
	Endpoint string `mapstructure:"endpoint"`

	// Timeout bounds one HTTP request.
	Timeout time.Duration `mapstructure:"timeout"`

	// Format is the span encoding, "json" or "proto".
	Format string `mapstructure:"format"`

	// DefaultServiceName is used for spans whose resource has no service.name.
	DefaultServiceName string `mapstructure:"default_service_name"`
}

// NewDefaultConfig returns the default settings, without an endpoint.
func NewDefaultConfig() *Config {
	return &Config{
		Timeout:            5 * time.Second,
		Format:             "json",
		DefaultServiceName: "<missing service name>",
	}
}

// Validate checks if the exporter configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Endpoint == "" {
		return errors.New("exporter config requires a non-empty 'endpoint'")
	}
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	if cfg.Format != "json" && cfg.Format != "proto" {
		return fmt.Errorf("%s is not one of json or proto", cfg.Format)
	}
	if cfg.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	return nil
}
