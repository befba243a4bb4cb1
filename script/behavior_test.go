// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package script

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/engine/input"
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/xyz"
	lua "github.com/yuin/gopher-lua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scene struct {
	w     *xyz.World
	sc    *xyz.Scheduler
	clock *xyz.ManualClock
}

func newScene(t *testing.T) *scene {
	s := &scene{clock: &xyz.ManualClock{}}
	s.w = xyz.NewWorld(xyz.Options{Clock: s.clock})
	s.sc = xyz.NewScheduler(s.w, nil)
	require.NoError(t, s.sc.Init())
	return s
}

func (s *scene) object(t *testing.T, name string) (xyz.ObjectID, *xyz.Object) {
	id := s.w.NewObject(name)
	require.NoError(t, s.w.AddChild(id))
	o, _ := s.w.Object(id)
	return id, o
}

func (s *scene) behavior(t *testing.T, obj xyz.ObjectID, src string) *Behavior {
	_, bh, err := xyz.AddComponentWith(s.w, obj, func(bh *Behavior) { bh.Source = src })
	require.NoError(t, err)
	return bh
}

func (s *scene) tick(t *testing.T, d time.Duration) {
	s.clock.Advance(d)
	require.NoError(t, s.sc.Tick())
}

func TestBehaviorMoves(t *testing.T) {
	s := newScene(t)
	id, o := s.object(t, "mover")
	bh := s.behavior(t, id, `
		calls = 0
		function init()
			object.set_position(1, 0, 0)
		end
		function update(dt)
			calls = calls + 1
			object.translate(0, 10 * dt, 0)
		end
	`)
	assert.Equal(t, math32.Vec3(1, 0, 0), o.Transform.Position())

	s.tick(t, 100*time.Millisecond)
	s.tick(t, 100*time.Millisecond)
	assert.Equal(t, lua.LNumber(2), bh.Global("calls"))
	assert.InDelta(t, 2, o.Transform.Position().Y, 1e-4)
}

func TestBehaviorProps(t *testing.T) {
	s := newScene(t)
	id, o := s.object(t, "crate")
	o.SetProp("hp", 10)
	s.behavior(t, id, `
		function update(dt)
			object.set_prop("hp", object.prop("hp") - 1)
			object.set_prop("who", object.name())
		end
	`)
	s.tick(t, 10*time.Millisecond)
	hp, _ := o.Prop("hp")
	assert.Equal(t, 9.0, hp)
	who, _ := o.Prop("who")
	assert.Equal(t, "crate", who)
}

func TestBehaviorErrors(t *testing.T) {
	s := newScene(t)
	id, o := s.object(t, "broken")

	_, _, err := xyz.AddComponent[Behavior](s.w, id)
	assert.ErrorIs(t, err, ErrNoSource)

	_, _, err = xyz.AddComponentWith(s.w, id, func(bh *Behavior) { bh.Source = "this is not lua" })
	assert.Error(t, err)

	_, _, err = xyz.AddComponentWith(s.w, id, func(bh *Behavior) { bh.Source = `function init() error("nope") end` })
	assert.ErrorContains(t, err, "nope")
	assert.Empty(t, o.Components(), "failed inits remove the component")

	s.behavior(t, id, `function update(dt) error("boom") end`)
	s.clock.Advance(time.Millisecond)
	err = s.sc.Tick()
	assert.ErrorContains(t, err, "boom")
	assert.True(t, s.w.IsTornDown())
}

func TestBehaviorDeletesSelf(t *testing.T) {
	s := newScene(t)
	id, _ := s.object(t, "doomed")
	bh := s.behavior(t, id, `function update(dt) object.delete() end`)
	s.tick(t, 10*time.Millisecond)
	_, ok := s.w.Object(id)
	assert.False(t, ok)
	assert.Equal(t, lua.LNil, bh.Global("update"), "state closed after the call")
}

func TestBehaviorWorld(t *testing.T) {
	s := newScene(t)
	s.w.Library().Add(&xyz.PrefabFunc{Name: "dot", Func: func(w *xyz.World) (xyz.ObjectID, error) {
		return w.NewObject("dot"), nil
	}})
	id, _ := s.object(t, "ctl")
	bh := s.behavior(t, id, `
		function update(dt)
			ok, err = world.spawn("dot")
			bad, msg = world.spawn("missing")
			space = world.key_down("space")
			jump = world.jump_pressed()
			stick = world.gamepad_axis("left_x")
			if world.frame() >= 2 then world.shutdown() end
		end
	`)
	s.w.Input().Push(input.Event{Kind: input.KeyPress, Key: input.KeySpace})
	s.w.Input().Push(input.Event{Kind: input.GamepadAxisChange, Axis: input.LeftStickX, Value: 0.5})
	s.tick(t, 10*time.Millisecond)
	assert.Equal(t, lua.LTrue, bh.Global("ok"))
	assert.Equal(t, lua.LFalse, bh.Global("bad"))
	assert.Contains(t, bh.Global("msg").String(), "missing")
	assert.Equal(t, lua.LTrue, bh.Global("space"))
	assert.Equal(t, lua.LTrue, bh.Global("jump"))
	assert.Equal(t, lua.LNumber(0.5), bh.Global("stick"))

	s.tick(t, 10*time.Millisecond)
	_, ok := s.w.FindObjectByName("dot")
	assert.True(t, ok)

	s.clock.Advance(10 * time.Millisecond)
	err := s.sc.Tick()
	assert.ErrorIs(t, err, xyz.ErrShutdown)
}

func TestBehaviorFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spin.lua")
	require.NoError(t, os.WriteFile(path, []byte(`function update(dt) object.rotate(0, 1, 0, 90) end`), 0o644))

	s := newScene(t)
	id, o := s.object(t, "spinner")
	_, _, err := xyz.AddComponentWith(s.w, id, func(bh *Behavior) { bh.Path = path })
	require.NoError(t, err)
	s.tick(t, 10*time.Millisecond)
	assert.NotEqual(t, math32.QuatIdentity(), o.Transform.Rotation())

	var bh Behavior
	require.NoError(t, bh.LoadFile(path))
	assert.Contains(t, bh.Source, "object.rotate")
}

func TestBehaviorByName(t *testing.T) {
	s := newScene(t)
	id, _ := s.object(t, "named")
	c, err := s.w.NewComponentByName(id, "Behavior", func(c xyz.Component) error {
		c.(*Behavior).Source = `x = 1`
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(1), c.(*Behavior).Global("x"))
}
