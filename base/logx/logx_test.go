// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	log := slog.New(NewHandler(&buf, lvl))

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("xyz.World.Tick", "frame", 3)
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "frame=3")
	assert.NotContains(t, out, "time=")
}

func TestSetLevel(t *testing.T) {
	prev := UserLevel.Level()
	defer UserLevel.Set(prev)

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, slog.LevelDebug, UserLevel.Level())
	require.NoError(t, SetLevel("Error"))
	assert.Equal(t, slog.LevelError, UserLevel.Level())
	assert.Error(t, SetLevel("loud"))
}
