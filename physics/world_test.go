// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"testing"

	"cogentcore.org/engine/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeFall(t *testing.T) {
	sm := NewSimulator()
	bd := Body{Kind: Dynamic, Shape: &Sphere{Radius: 1}}
	bd.Defaults()
	bd.State.Pos = math32.Vec3(0, 10, 0)
	h := sm.AddBody(bd)
	st := sm.AddBody(Body{Kind: Static, Shape: &Box{Size: math32.Vec3(10, 1, 10)}})

	for range 60 {
		sm.Step(1.0 / 60)
	}
	fall := sm.Body(h)
	require.NotNil(t, fall)
	// semi-implicit Euler over one second ends close to 10 - g/2
	assert.InDelta(t, 10-9.81/2, fall.State.Pos.Y, 0.2)
	assert.InDelta(t, -9.81, fall.State.LinVel.Y, 1e-3)
	assert.Equal(t, math32.Vector3{}, sm.Body(st).State.Pos)
	assert.Equal(t, 60, sm.Steps)

	assert.True(t, sm.RemoveBody(h))
	assert.Nil(t, sm.Body(h))
	assert.False(t, sm.RemoveBody(h))
	assert.Equal(t, 1, sm.NumBodies())
}

func TestKinematicIgnoresGravity(t *testing.T) {
	sm := NewSimulator()
	h := sm.AddBody(Body{Kind: Kinematic, State: State{LinVel: math32.Vec3(1, 0, 0)}})
	sm.Step(0.5)
	assert.Equal(t, math32.Vec3(0.5, 0, 0), sm.Body(h).State.Pos)
}

func TestCastRay(t *testing.T) {
	sm := NewSimulator()
	near := sm.AddBody(Body{Kind: Static, Shape: &Sphere{Radius: 1}, State: State{Pos: math32.Vec3(0, 0, 5)}, UserData: "near"})
	sm.AddBody(Body{Kind: Static, Shape: &Box{Size: math32.Vec3(2, 2, 2)}, State: State{Pos: math32.Vec3(0, 0, 10)}, UserData: "far"})

	ray := math32.NewRay(math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 1))
	hit, ok := sm.CastRay(ray, 100)
	require.True(t, ok)
	assert.Equal(t, near, hit.Body)
	assert.Equal(t, "near", hit.UserData)
	assert.InDelta(t, 4, hit.TOI, 1e-5)

	sm.RemoveBody(near)
	hit, ok = sm.CastRay(ray, 100)
	require.True(t, ok)
	assert.Equal(t, "far", hit.UserData)
	assert.InDelta(t, 9, hit.TOI, 1e-5)

	_, ok = sm.CastRay(ray, 5)
	assert.False(t, ok, "hit beyond maxTOI")
}

func TestStepByAngVel(t *testing.T) {
	st := State{AngVel: math32.Vec3(0, 0, math32.Pi/2)}
	st.Defaults()
	for range 10 {
		st.StepByAngVel(0.1)
	}
	v := math32.Vec3(1, 0, 0).MulQuat(st.Quat)
	assert.True(t, v.IsEqualTol(math32.Vec3(0, 1, 0), 1e-4), "have %v", v)
}

func TestSetPoseMatrix(t *testing.T) {
	st := State{LinVel: math32.Vec3(1, 0, 0)}
	q := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.Pi/2)
	var m math32.Matrix4
	m.SetTransform(math32.Vec3(1, 2, 3), q, math32.Vec3(2, 2, 2))
	st.SetPoseMatrix(&m)
	assert.True(t, st.Pos.IsEqualTol(math32.Vec3(1, 2, 3), 1e-5), "have %v", st.Pos)
	v := math32.Vec3(1, 0, 0).MulQuat(st.Quat)
	assert.True(t, v.IsEqualTol(math32.Vec3(1, 0, 0).MulQuat(q), 1e-4), "have %v", v)
	assert.Equal(t, math32.Vec3(1, 0, 0), st.LinVel)
}

func TestRopeJoint(t *testing.T) {
	sm := NewSimulator()
	anchor := sm.AddBody(Body{Kind: Static, State: State{Pos: math32.Vec3(0, 10, 0)}})
	bd := Body{Kind: Dynamic}
	bd.Defaults()
	bd.State.Pos = math32.Vec3(0, 8, 0)
	weight := sm.AddBody(bd)
	h := sm.AddJoint(Joint{Kind: Rope, A: anchor, B: weight, Length: 3})
	assert.Equal(t, 1, sm.NumJoints())

	for range 120 {
		sm.Step(1.0 / 60)
	}
	w := sm.Body(weight)
	assert.InDelta(t, 7, w.State.Pos.Y, 1e-4, "hangs at the rope length")
	assert.InDelta(t, 0, w.State.LinVel.Y, 0.2)
	assert.Equal(t, math32.Vec3(0, 10, 0), sm.Body(anchor).State.Pos)

	sm.Joint(h).Length = 5
	for range 60 {
		sm.Step(1.0 / 60)
	}
	assert.InDelta(t, 5, w.State.Pos.Y, 1e-4)

	assert.True(t, sm.RemoveJoint(h))
	assert.Nil(t, sm.Joint(h))
	sm.Step(1.0 / 60)
	assert.Less(t, w.State.Pos.Y, float32(5), "falls once the rope is gone")
}

func TestSpringJoint(t *testing.T) {
	sm := NewSimulator()
	sm.SetGravity(math32.Vector3{})
	mk := func(x float32) BodyHandle {
		bd := Body{Kind: Dynamic}
		bd.Defaults()
		bd.State.Pos = math32.Vec3(x, 0, 0)
		return sm.AddBody(bd)
	}
	a, b := mk(0), mk(4)
	sm.AddJoint(Joint{Kind: Spring, A: a, B: b, Length: 2, Stiffness: 20, Damping: 4})

	sm.Step(1.0 / 60)
	assert.Greater(t, sm.Body(a).State.LinVel.X, float32(0), "stretched spring pulls together")
	assert.Less(t, sm.Body(b).State.LinVel.X, float32(0))

	for range 600 {
		sm.Step(1.0 / 60)
	}
	d := sm.Body(b).State.Pos.Sub(sm.Body(a).State.Pos).Length()
	assert.InDelta(t, 2, d, 0.05, "settles at the rest length")
	center := sm.Body(a).State.Pos.Add(sm.Body(b).State.Pos).MulScalar(0.5)
	assert.InDelta(t, 2, center.X, 1e-3, "momentum is conserved")

	sm.RemoveBody(a)
	sm.Step(1.0 / 60) // joints with a missing body are skipped
}
