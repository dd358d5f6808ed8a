// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package exporter // import "go.opentelemetry.io/telemetrycore/exporter"

import (
	"errors"
	"fmt"
)

// ExportError reports a batch an exporter failed to deliver.
type ExportError struct {
	Exporter string
	Items    int
	Err      error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("exporter %q failed to export %d items: %v", e.Exporter, e.Items, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// permanent is an error that will always be returned if its source
// receives the same inputs.
type permanent struct {
	err error
}

// Permanent wraps an error to indicate that it is a permanent error, i.e. an
// error that will be always returned if its source receives the same inputs.
func Permanent(err error) error {
	return permanent{err: err}
}

func (p permanent) Error() string {
	return "Permanent error: " + p.err.Error()
}

func (p permanent) Unwrap() error {
	return p.err
}

// IsPermanent checks if an error was wrapped with the Permanent function, which
// is used to indicate that a given error will always be returned in the case
// that its sources receives the same input.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	return errors.As(err, &permanent{})
}
