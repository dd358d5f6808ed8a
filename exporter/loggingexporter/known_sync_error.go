// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package loggingexporter // import "go.opentelemetry.io/telemetrycore/exporter/loggingexporter"

import (
	"errors"
	"syscall"
)

// knownSyncError returns true if the given error is one of the known
// non-actionable errors returned by Sync on Linux and macOS:
//
// Linux:
// - sync /dev/stdout: invalid argument
//
// macOS:
// - sync /dev/stdout: inappropriate ioctl for device
func knownSyncError(err error) bool {
	for _, syncError := range []error{syscall.EINVAL, syscall.ENOTSUP, syscall.ENOTTY} {
		if errors.Is(err, syncError) {
			return true
		}
	}
	return false
}
