// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package componenterror defines the error taxonomy shared by the tracing
// and metrics pipelines. Every error returned at a call site wraps exactly
// one of the sentinels below so callers can branch with errors.Is.
package componenterror // import "go.opentelemetry.io/telemetrycore/component/componenterror"

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates a malformed key, attribute or value. It is
	// returned at the call site and does not affect other telemetry.
	ErrValidation = errors.New("validation error")

	// ErrInvalidState indicates an operation on an ended span or a stopped component.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict indicates an instrument registered twice under the same name
	// with a different kind.
	ErrConflict = errors.New("conflict")

	// ErrShutdown indicates telemetry submitted after shutdown began.
	ErrShutdown = errors.New("shutdown")

	// ErrAlreadyStarted indicates an error on starting an already-started component.
	ErrAlreadyStarted = errors.New("already started")
)

// Validationf returns an error wrapping ErrValidation.
func Validationf(format string, args ...interface{}) error {
	return wrapf(ErrValidation, format, args...)
}

// InvalidStatef returns an error wrapping ErrInvalidState.
func InvalidStatef(format string, args ...interface{}) error {
	return wrapf(ErrInvalidState, format, args...)
}

// Conflictf returns an error wrapping ErrConflict.
func Conflictf(format string, args ...interface{}) error {
	return wrapf(ErrConflict, format, args...)
}

// Shutdownf returns an error wrapping ErrShutdown.
func Shutdownf(format string, args ...interface{}) error {
	return wrapf(ErrShutdown, format, args...)
}

func wrapf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
