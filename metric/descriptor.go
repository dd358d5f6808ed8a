// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package metric // import "go.opentelemetry.io/telemetrycore/metric"

import (
	"go.opentelemetry.io/telemetrycore/component/componenterror"
)

const maxNameLength = 255

// InstrumentKind identifies the kind of an instrument.
type InstrumentKind int

const (
	// CounterKind is a monotonic, synchronous instrument.
	CounterKind InstrumentKind = iota
	// ValueRecorderKind records arbitrary values synchronously.
	ValueRecorderKind
	// ValueObserverKind is observed by a callback once per collection.
	ValueObserverKind
)

func (k InstrumentKind) String() string {
	switch k {
	case CounterKind:
		return "Counter"
	case ValueRecorderKind:
		return "ValueRecorder"
	case ValueObserverKind:
		return "ValueObserver"
	}
	return "Unknown"
}

// Descriptor describes an instrument.
type Descriptor struct {
	Name                string
	Kind                InstrumentKind
	Description         string
	Unit                string
	InstrumentationName string
}

// InstrumentOption configures an instrument at registration.
type InstrumentOption func(*Descriptor)

// WithDescription sets a human readable description.
func WithDescription(desc string) InstrumentOption {
	return func(d *Descriptor) {
		d.Description = desc
	}
}

// WithUnit sets the unit, e.g. "ms" or "By".
func WithUnit(unit string) InstrumentOption {
	return func(d *Descriptor) {
		d.Unit = unit
	}
}

// validateName accepts names starting with a letter followed by letters,
// digits, '_', '.', '-' or '/'.
func validateName(name string) error {
	if name == "" {
		return componenterror.Validationf("instrument name is empty")
	}
	if len(name) > maxNameLength {
		return componenterror.Validationf("instrument name %q exceeds %d characters", name, maxNameLength)
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '_' || r == '.' || r == '-' || r == '/'):
		default:
			return componenterror.Validationf("instrument name %q contains invalid character %q", name, r)
		}
	}
	return nil
}
