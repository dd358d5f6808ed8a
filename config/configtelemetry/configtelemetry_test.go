// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package configtelemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelOutput(t *testing.T) {
	tests := []struct {
		level   Level
		summary bool
		perItem bool
		dump    bool
	}{
		{level: LevelNone},
		{level: LevelBasic, summary: true},
		{level: LevelNormal, summary: true, perItem: true},
		{level: LevelDetailed, summary: true, dump: true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.summary, tt.level.Summary())
			assert.Equal(t, tt.perItem, tt.level.PerItem())
			assert.Equal(t, tt.dump, tt.level.Dump())
		})
	}
}

func TestLevelTextRoundTrip(t *testing.T) {
	for _, lvl := range []Level{LevelNone, LevelBasic, LevelNormal, LevelDetailed} {
		text, err := lvl.MarshalText()
		require.NoError(t, err)

		var got Level
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, lvl, got)
	}
}

func TestUnmarshalTextIgnoresCase(t *testing.T) {
	for _, str := range []string{"detailed", "Detailed", "DETAILED", "dEtAiLeD"} {
		var lvl Level
		require.NoError(t, lvl.UnmarshalText([]byte(str)))
		assert.Equal(t, LevelDetailed, lvl)
	}
}

func TestUnmarshalTextErrors(t *testing.T) {
	var lvl Level
	assert.EqualError(t, lvl.UnmarshalText([]byte("Verbose")), `unknown verbosity level "verbose"`)
	assert.EqualError(t, lvl.UnmarshalText(nil), `unknown verbosity level ""`)
	assert.Equal(t, LevelBasic, lvl)

	assert.Error(t, (*Level)(nil).UnmarshalText([]byte("normal")))
}

func TestUnknownLevelHasNoName(t *testing.T) {
	lvl := Level(42)
	assert.Equal(t, "", lvl.String())
	text, err := lvl.MarshalText()
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.True(t, lvl.Summary())
	assert.False(t, lvl.PerItem())
	assert.False(t, lvl.Dump())
}
