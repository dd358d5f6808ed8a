// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package config defines the settings of a telemetry pipeline and loads
// them from a YAML file, the environment and command line flags.
package config // import "go.opentelemetry.io/telemetrycore/config"

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cast"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"go.opentelemetry.io/telemetrycore/exporter/exporterhelper"
	"go.opentelemetry.io/telemetrycore/exporter/fileexporter"
	"go.opentelemetry.io/telemetrycore/exporter/kafkaexporter"
	"go.opentelemetry.io/telemetrycore/exporter/loggingexporter"
	"go.opentelemetry.io/telemetrycore/exporter/prometheusexporter"
	"go.opentelemetry.io/telemetrycore/exporter/zipkinexporter"
	"go.opentelemetry.io/telemetrycore/processor/batchprocessor"
)

const (
	defaultServiceName     = "unknown_service"
	defaultCollectInterval = 10 * time.Second
	defaultCollectDeadline = 5 * time.Second
)

// Config is the configuration of one process-wide telemetry pipeline.
type Config struct {
	// ServiceName becomes the service.name resource attribute.
	ServiceName string `mapstructure:"service_name"`
	// StaticTags are added to the resource of every span and record.
	StaticTags map[string]interface{} `mapstructure:"static_tags"`

	// Batch settings shared by the trace and metric processors.
	batchprocessor.Config `mapstructure:",squash"`

	// ExportTimeout bounds a single Export call. Zero disables it.
	ExportTimeout time.Duration `mapstructure:"export_timeout"`
	// Retry configures retrying failed exports.
	Retry exporterhelper.RetrySettings `mapstructure:"retry"`

	// CollectInterval is the period of metric collection.
	CollectInterval time.Duration `mapstructure:"collect_interval"`
	// CollectDeadline bounds every observer callback.
	CollectDeadline time.Duration `mapstructure:"collect_deadline"`

	// Strict makes recording after shutdown return an error instead of
	// silently dropping.
	Strict bool `mapstructure:"strict"`

	// ProcessMetrics registers observers for the CPU, memory and uptime of
	// the running process.
	ProcessMetrics bool `mapstructure:"process_metrics"`

	Log       LogConfig `mapstructure:"log"`
	Exporters Exporters `mapstructure:"exporters"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is the minimum enabled logging level.
	Level string `mapstructure:"level"`
	// Development puts the logger in development mode.
	Development bool `mapstructure:"development"`
	// Encoding sets the logger's encoding, "json" or "console".
	Encoding string `mapstructure:"encoding"`
}

// Exporters lists the enabled exporters. A nil entry is disabled.
type Exporters struct {
	Logging    *loggingexporter.Config    `mapstructure:"logging"`
	File       *fileexporter.Config       `mapstructure:"file"`
	Zipkin     *zipkinexporter.Config     `mapstructure:"zipkin"`
	Prometheus *prometheusexporter.Config `mapstructure:"prometheus"`
	Kafka      *kafkaexporter.Config      `mapstructure:"kafka"`
}

// NewDefaultConfig returns a Config with every default set and no exporter enabled.
func NewDefaultConfig() *Config {
	return &Config{
		ServiceName:     defaultServiceName,
		StaticTags:      map[string]interface{}{},
		Config:          batchprocessor.NewDefaultConfig(),
		ExportTimeout:   exporterhelper.NewDefaultTimeoutSettings().Timeout,
		Retry:           exporterhelper.NewDefaultRetrySettings(),
		CollectInterval: defaultCollectInterval,
		CollectDeadline: defaultCollectDeadline,
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	var errs error
	if cfg.ServiceName == "" {
		errs = multierr.Append(errs, errors.New("service_name must be non-empty"))
	}
	if _, err := cfg.Tags(); err != nil {
		errs = multierr.Append(errs, err)
	}
	errs = multierr.Append(errs, cfg.Config.Validate())
	if cfg.ExportTimeout < 0 {
		errs = multierr.Append(errs, errors.New("export_timeout must be non-negative"))
	}
	if cfg.Retry.Enabled && (cfg.Retry.InitialInterval <= 0 || cfg.Retry.MaxInterval <= 0) {
		errs = multierr.Append(errs, errors.New("retry intervals must be positive"))
	}
	if cfg.CollectInterval <= 0 {
		errs = multierr.Append(errs, errors.New("collect_interval must be positive"))
	}
	if cfg.CollectDeadline <= 0 {
		errs = multierr.Append(errs, errors.New("collect_deadline must be positive"))
	}
	errs = multierr.Append(errs, cfg.Log.Validate())
	errs = multierr.Append(errs, cfg.Exporters.Validate())
	return errs
}

// Validate checks if the logger configuration is valid
func (lc *LogConfig) Validate() error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(lc.Level)); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if lc.Encoding != "json" && lc.Encoding != "console" {
		return fmt.Errorf("log: unknown encoding %q", lc.Encoding)
	}
	return nil
}

type validatable interface {
	Validate() error
}

// Validate checks every enabled exporter.
func (e *Exporters) Validate() error {
	var errs error
	for name, v := range e.enabled() {
		if err := v.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("exporters::%s: %w", name, err))
		}
	}
	return errs
}

// Names returns the names of the enabled exporters, sorted.
func (e *Exporters) Names() []string {
	enabled := e.enabled()
	names := make([]string, 0, len(enabled))
	for name := range enabled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Exporters) enabled() map[string]validatable {
	out := map[string]validatable{}
	if e.Logging != nil {
		out["logging"] = e.Logging
	}
	if e.File != nil {
		out["file"] = e.File
	}
	if e.Zipkin != nil {
		out["zipkin"] = e.Zipkin
	}
	if e.Prometheus != nil {
		out["prometheus"] = e.Prometheus
	}
	if e.Kafka != nil {
		out["kafka"] = e.Kafka
	}
	return out
}

// Tags converts StaticTags into attributes sorted by key. Integers, floats,
// booleans and strings keep their type; anything else must be convertible
// to a string.
func (cfg *Config) Tags() ([]attribute.KeyValue, error) {
	keys := make([]string, 0, len(cfg.StaticTags))
	for k := range cfg.StaticTags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			return nil, errors.New("static_tags: empty key")
		}
		switch val := cfg.StaticTags[k].(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
			tags = append(tags, attribute.Int64(k, cast.ToInt64(val)))
		case float32, float64:
			tags = append(tags, attribute.Float64(k, cast.ToFloat64(val)))
		case bool:
			tags = append(tags, attribute.Bool(k, val))
		case string:
			tags = append(tags, attribute.String(k, val))
		default:
			s, err := cast.ToStringE(val)
			if err != nil {
				return nil, fmt.Errorf("static_tags: unsupported value type %T for %q", val, k)
			}
			tags = append(tags, attribute.String(k, s))
		}
	}
	return tags, nil
}
