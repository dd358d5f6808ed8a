// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package loggingexporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.opentelemetry.io/telemetrycore/config/configtelemetry"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		verbosity configtelemetry.Level
		expectErr string
	}{
		{name: "basic", verbosity: configtelemetry.LevelBasic},
		{name: "normal", verbosity: configtelemetry.LevelNormal},
		{name: "detailed", verbosity: configtelemetry.LevelDetailed},
		{name: "none", verbosity: configtelemetry.LevelNone, expectErr: `verbosity level "None" is not supported`},
		{name: "unknown", verbosity: configtelemetry.Level(42), expectErr: `verbosity level "" is not supported`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Config{Verbosity: tt.verbosity}).Validate()
			if tt.expectErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.expectErr)
			}
		})
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, configtelemetry.LevelNormal, cfg.Verbosity)
	assert.NoError(t, cfg.Validate())
}
