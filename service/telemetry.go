// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package service // import "go.opentelemetry.io/telemetrycore/service"

import (
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go.opentelemetry.io/telemetrycore/config"
	"go.opentelemetry.io/telemetrycore/resource"
)

func newLogger(cfg config.LogConfig, options []zap.Option) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.Encoding = cfg.Encoding
	if zapCfg.Encoding == "console" {
		// Human-readable timestamps for console format of logs.
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return zapCfg.Build(options...)
}

// buildResource describes the process. Static tags are applied last, so a
// tag may replace service.instance.id or service.version.
func buildResource(cfg *config.Config, version string) (*resource.Resource, error) {
	tags, err := cfg.Tags()
	if err != nil {
		return nil, err
	}

	attrs := []attribute.KeyValue{
		attribute.String(resource.AttributeServiceName, cfg.ServiceName),
	}
	instanceUUID, err := uuid.NewRandom()
	if err == nil {
		attrs = append(attrs, attribute.String(resource.AttributeServiceInstanceID, instanceUUID.String()))
	}
	if version != "" {
		attrs = append(attrs, attribute.String(resource.AttributeServiceVersion, version))
	}
	return resource.New(append(attrs, tags...)...), nil
}
