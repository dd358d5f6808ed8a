// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package fileexporter // import "go.opentelemetry.io/telemetrycore/exporter/fileexporter"

import "errors"

// Config defines configuration for file exporter.
type Config struct {
	// Path of the file to write to. Path is relative to current directory.
	Path string `mapstructure:"path"`
}

// Validate checks if the exporter configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Path == "" {
		return errors.New("path must be non-empty")
	}
	return nil
}
