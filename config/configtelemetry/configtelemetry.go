// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package configtelemetry defines the verbosity levels shared by the
// exporters that print telemetry.
package configtelemetry // import "go.opentelemetry.io/telemetrycore/config/configtelemetry"

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LevelNone prints nothing.
	LevelNone Level = iota - 1
	// LevelBasic prints one summary line per exported batch.
	LevelBasic
	// LevelNormal adds one line per span or record.
	LevelNormal
	// LevelDetailed prints whole batches as JSON.
	LevelDetailed
)

var levelNames = map[Level]string{
	LevelNone:     "None",
	LevelBasic:    "Basic",
	LevelNormal:   "Normal",
	LevelDetailed: "Detailed",
}

// Level is how much of every exported batch a printing exporter writes.
type Level int32

// String returns the level name, or "" for an unknown level.
func (l Level) String() string {
	return levelNames[l]
}

// Summary reports whether a batch summary line is printed.
func (l Level) Summary() bool {
	return l >= LevelBasic
}

// PerItem reports whether spans and records are printed one per line.
func (l Level) PerItem() bool {
	return l == LevelNormal
}

// Dump reports whether batches are printed in full as JSON.
func (l Level) Dump() bool {
	return l == LevelDetailed
}

// MarshalText marshals Level to text.
func (l Level) MarshalText() (text []byte, err error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a level name, ignoring case.
func (l *Level) UnmarshalText(text []byte) error {
	if l == nil {
		return errors.New("cannot unmarshal to a nil *Level")
	}
	for lvl, name := range levelNames {
		if strings.EqualFold(name, string(text)) {
			*l = lvl
			return nil
		}
	}
	return fmt.Errorf("unknown verbosity level %q", strings.ToLower(string(text)))
}
