// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/engine/config"
	"cogentcore.org/engine/input"
	"cogentcore.org/engine/render"
	"cogentcore.org/engine/xyz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	inits, updates, lates int
	failAt                int
	keys                  int
}

var errBoom = errors.New("boom")

func (c *counter) Init(w *xyz.World) error {
	c.inits++
	_, err := w.SpawnNamed("Cube")
	return err
}

func (c *counter) Update(w *xyz.World) error {
	c.updates++
	if c.failAt > 0 && c.updates == c.failAt {
		return errBoom
	}
	if w.Input().IsKeyDown(input.KeyW) {
		c.keys++
	}
	return nil
}

func (c *counter) LateUpdate(w *xyz.World) error {
	c.lates++
	return nil
}

func fastConfig() *config.Config {
	cf := config.New()
	cf.Frame.Rate = 1000
	cf.Window.Title = "test"
	return cf
}

func run(t *testing.T, ap *App) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := ap.Run(ctx)
	require.NoError(t, ctx.Err(), "run did not end by itself")
	return err
}

func TestRunMaxFrames(t *testing.T) {
	st := &counter{}
	ap := &App{Config: fastConfig(), State: st, MaxFrames: 5}
	require.NoError(t, run(t, ap))
	assert.Equal(t, 1, st.inits)
	assert.Equal(t, 5, st.updates)
	assert.Equal(t, 5, st.lates)
	assert.True(t, ap.World.IsTornDown())
	assert.Equal(t, 0, ap.World.NumObjects())
}

func TestRunHookError(t *testing.T) {
	st := &counter{failAt: 3}
	ap := &App{Config: fastConfig(), State: st}
	err := run(t, ap)
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorContains(t, err, "Update")
	assert.Equal(t, 3, st.updates)
	assert.True(t, ap.World.IsTornDown())
}

func TestRunWindow(t *testing.T) {
	win := make(chan render.Event)
	dev := render.NewHeadless(320, 200)
	st := &counter{}
	ap := &App{Config: fastConfig(), State: st, Device: dev, Window: win}

	go func() {
		win <- render.Event{Kind: render.EventResize, Width: 800, Height: 600}
		win <- render.Event{Kind: render.EventInput, Input: input.Event{Kind: input.KeyPress, Key: input.KeyW}}
		time.Sleep(20 * time.Millisecond)
		win <- render.Event{Kind: render.EventClose}
	}()
	require.NoError(t, run(t, ap))

	w, h := ap.World.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, 800, dev.Width)
	assert.Greater(t, st.keys, 0)
	assert.True(t, ap.World.IsTornDown())
}

func TestRunQuitOnEscape(t *testing.T) {
	win := make(chan render.Event, 1)
	win <- render.Event{Kind: render.EventInput, Input: input.Event{Kind: input.KeyPress, Key: input.KeyEscape}}
	ap := &App{Config: fastConfig(), State: &counter{}, Window: win}
	require.NoError(t, run(t, ap))
	assert.True(t, ap.World.IsTornDown())
}

func TestRunCancel(t *testing.T) {
	ap := &App{Config: fastConfig(), State: &counter{}}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, ap.Run(ctx))
	assert.True(t, ap.World.IsTornDown())
}

func TestSetupPrefabs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefabs:\n  - name: pillar\n    mesh: cube\n"), 0o644))

	cf := fastConfig()
	cf.Assets.Prefabs = []string{path}
	ap := &App{Config: cf}
	require.NoError(t, ap.Setup())
	_, ok := ap.Library.Get("pillar")
	assert.True(t, ok)
	_, ok = ap.Library.Get("Cube")
	assert.True(t, ok)
	assert.NotNil(t, ap.Renderer)

	cf = fastConfig()
	cf.Assets.Prefabs = []string{filepath.Join(t.TempDir(), "missing.yaml")}
	assert.Error(t, (&App{Config: cf}).Setup())

	cf = fastConfig()
	cf.Window.Width = 0
	assert.Error(t, (&App{Config: cf}).Setup())
}

func TestRunFunc(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	dev := render.NewHeadless(64, 64)
	require.NoError(t, Run(ctx, fastConfig(), &counter{}, dev))
}
