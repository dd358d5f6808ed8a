// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildType(t *testing.T) {
	defer func(bt string) { BuildType = bt }(BuildType)

	BuildType = buildDev
	assert.True(t, IsDevBuild())
	assert.False(t, IsReleaseBuild())

	BuildType = buildRelease
	assert.False(t, IsDevBuild())
	assert.True(t, IsReleaseBuild())
}

func TestInfoString(t *testing.T) {
	info := Info{{"a", "1"}, {"long", "2"}}
	assert.Equal(t, "a    1\nlong 2\n", info.String())

	assert.Contains(t, Current().String(), "Goversion    "+runtime.Version()+"\n")
}
