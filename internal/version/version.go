// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package version describes the build of the running binary.
package version // import "go.opentelemetry.io/telemetrycore/internal/version"

import (
	"bytes"
	"fmt"
	"runtime"
)

const (
	buildDev     = "dev"
	buildRelease = "release"
)

// Version variable will be replaced at link time after `make` has been run.
var Version = "latest"

// GitHash variable will be replaced at link time after `make` has been run.
var GitHash = "<NOT PROPERLY GENERATED>"

// BuildType should be one of (dev, release).
var BuildType = buildDev

// IsDevBuild returns true if this is a development (local) build.
func IsDevBuild() bool {
	return BuildType == buildDev
}

// IsReleaseBuild returns true if this is a release build.
func IsReleaseBuild() bool {
	return BuildType == buildRelease
}

// Info has properties about the build and runtime.
type Info [][2]string

// Current returns the build and runtime properties of this binary.
func Current() Info {
	return Info{
		{"Version", Version},
		{"GitHash", GitHash},
		{"BuildType", BuildType},
		{"Goversion", runtime.Version()},
		{"OS", runtime.GOOS},
		{"Architecture", runtime.GOARCH},
	}
}

// String returns a formatted string, with linebreaks, intended to be displayed
// on stdout.
func (i Info) String() string {
	buf := new(bytes.Buffer)
	maxRow1Alignment := 0
	for _, prop := range i {
		if cl0 := len(prop[0]); cl0 > maxRow1Alignment {
			maxRow1Alignment = cl0
		}
	}

	for _, prop := range i {
		fmt.Fprintf(buf, "%*s %s\n", -maxRow1Alignment, prop[0], prop[1])
	}
	return buf.String()
}
