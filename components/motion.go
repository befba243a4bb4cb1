// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package components

import (
	"cogentcore.org/engine/input"
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/xyz"
)

// Rotate spins its object around a local axis.
type Rotate struct {
	xyz.ComponentBase

	Axis math32.Vector3 `yaml:"axis"`

	// Speed in degrees per second.
	Speed float32 `yaml:"speed"`
}

func (rt *Rotate) Defaults() {
	rt.Axis.Set(0, 1, 0)
	rt.Speed = 45
}

func (rt *Rotate) Update(w *xyz.World) error {
	o, ok := rt.Object(w)
	if !ok {
		return nil
	}
	o.Transform.RotateAxis(rt.Axis, rt.Speed*w.DeltaSeconds())
	return nil
}

// Gravity makes its object fall without a physics body, accelerating
// up to a maximum speed.
type Gravity struct {
	xyz.ComponentBase

	// Acceleration in m/s^2 along -Y.
	Acceleration float32 `yaml:"acceleration"`

	// MaxVelocity caps the falling speed.
	MaxVelocity float32 `yaml:"max_velocity"`

	// Velocity is the current vertical velocity.
	Velocity float32 `yaml:"velocity"`
}

func (gv *Gravity) Defaults() {
	gv.Acceleration = 9.80665
	gv.MaxVelocity = 100
}

func (gv *Gravity) Update(w *xyz.World) error {
	o, ok := gv.Object(w)
	if !ok {
		return nil
	}
	dt := w.DeltaSeconds()
	gv.Velocity = math32.Clamp(gv.Velocity-gv.Acceleration*dt, -gv.MaxVelocity, gv.MaxVelocity)
	o.Transform.Translate(math32.Vec3(0, gv.Velocity*dt, 0))
	return nil
}

// FreeCam flies its object with WASD, Space and Shift, and turns
// it with the mouse while the cursor is locked.
type FreeCam struct {
	xyz.ComponentBase

	// Speed in units per second.
	Speed float32 `yaml:"speed"`

	// Sensitivity in degrees per pixel of mouse motion.
	Sensitivity float32 `yaml:"sensitivity"`

	// Yaw and Pitch are the current angles in degrees.
	Yaw   float32 `yaml:"yaw"`
	Pitch float32 `yaml:"pitch"`
}

func (fc *FreeCam) Defaults() {
	fc.Speed = 5
	fc.Sensitivity = 0.1
}

func (fc *FreeCam) Update(w *xyz.World) error {
	o, ok := fc.Object(w)
	if !ok {
		return nil
	}
	in := w.Input()
	if in.IsCursorLocked() {
		d := in.MouseDelta()
		fc.Yaw -= d.X * fc.Sensitivity
		fc.Pitch = math32.Clamp(fc.Pitch-d.Y*fc.Sensitivity, -89, 89)
		yaw := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.DegToRad(fc.Yaw))
		pitch := math32.NewQuatAxisAngle(math32.Vec3(1, 0, 0), math32.DegToRad(fc.Pitch))
		o.Transform.SetRotation(yaw.Mul(pitch))
	}
	tr := &o.Transform
	move := tr.Forward().MulScalar(in.Axis(input.KeyS, input.KeyW))
	move.SetAdd(tr.Right().MulScalar(in.Axis(input.KeyA, input.KeyD)))
	move.SetAdd(math32.Vec3(0, in.Axis(input.KeyShiftLeft, input.KeySpace), 0))
	if move.LengthSquared() > 0 {
		tr.Translate(move.Normal().MulScalar(fc.Speed * w.DeltaSeconds()))
	}
	return nil
}
