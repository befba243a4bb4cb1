// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/engine/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cf := New()
	require.NoError(t, cf.Validate())
	assert.Equal(t, 1280, cf.Window.Width)
	assert.Equal(t, 8, cf.Frame.MaxSubsteps)
	assert.InDelta(t, float64(time.Second/60), float64(cf.Frame.Interval()), float64(time.Microsecond))
	assert.InDelta(t, 1.0/60, cf.Frame.FixedTimestep(), 1e-7)
	assert.Equal(t, math32.Vec3(0, -9.81, 0), cf.Physics.GravityVector())
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xyz.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[window]
title = "demo"

[frame]
rate = 30

[physics]
gravity = [0, -1.5, 0]

[assets]
prefabs = ["level.yaml"]
`), 0o644))

	cf, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cf.Window.Title)
	assert.Equal(t, 720, cf.Window.Height, "unset keys keep defaults")
	assert.InDelta(t, float64(time.Second/30), float64(cf.Frame.Interval()), float64(time.Microsecond))
	assert.Equal(t, float32(-1.5), cf.Physics.Gravity[1])
	assert.Equal(t, []string{"level.yaml"}, cf.Assets.Prefabs)
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[window]\nwidht = 3\n"), 0o644))
	_, err = Open(bad)
	assert.Error(t, err, "unknown keys")

	zero := filepath.Join(dir, "zero.toml")
	require.NoError(t, os.WriteFile(zero, []byte("[frame]\nrate = 0\n"), 0o644))
	_, err = Open(zero)
	assert.ErrorContains(t, err, "frame rate")
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	cf := New()
	cf.Window.Title = "saved"
	cf.Assets.Watch = true
	require.NoError(t, cf.Save(path))

	back, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "saved", back.Window.Title)
	assert.True(t, back.Assets.Watch)
	assert.Equal(t, cf.Physics.Gravity, back.Physics.Gravity)
	assert.Equal(t, cf.Frame, back.Frame)
}
