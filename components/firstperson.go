// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package components

import (
	"log/slog"

	"cogentcore.org/engine/input"
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/xyz"
)

// FPCamera is a first person camera controller. It pitches and rolls
// its own object, yaws the parent object, bobs while walking and dips
// on jumps. It drives the zoom of a [Camera] on the same object.
type FPCamera struct {
	xyz.ComponentBase

	// MouseSensitivity scales mouse motion on each axis.
	MouseSensitivity math32.Vector2 `yaml:"mouse_sensitivity"`

	// ControllerSensitivity scales right stick motion on each axis.
	ControllerSensitivity math32.Vector2 `yaml:"controller_sensitivity"`

	// MaxPitch is the largest up or down angle in degrees.
	MaxPitch float32 `yaml:"max_pitch"`

	// MaxRoll is the largest tilt in degrees when turning.
	MaxRoll float32 `yaml:"max_roll"`

	// BobAmplitude is the walking bob on X and Y.
	BobAmplitude math32.Vector3 `yaml:"bob_amplitude"`

	// SmoothingSpeed is how fast roll and bob settle.
	SmoothingSpeed float32 `yaml:"smoothing_speed"`

	JumpBobHeight float32 `yaml:"jump_bob_height"`
	JumpBobSpeed  float32 `yaml:"jump_bob_speed"`

	// NormalFOV and ZoomFOV are the fields of view in degrees at
	// zoom 0 and 1.
	NormalFOV  float32 `yaml:"normal_fov"`
	ZoomFOV    float32 `yaml:"zoom_fov"`
	EnableZoom bool    `yaml:"enable_zoom"`

	// Velocity is the velocity of the body carrying the camera.
	Velocity math32.Vector3 `yaml:"-"`

	yaw, pitch float32
	smoothRoll float32
	bobOffset  math32.Vector3
	bobPhase   math32.Vector2

	jumpOffset  float32
	jumpBob     float32
	jumpBobRate float32
	jumping     bool
	falling     bool

	zoom    float32
	basePos math32.Vector3
}

func (fc *FPCamera) Defaults() {
	fc.MouseSensitivity = math32.Vec2(0.6, 0.6)
	fc.ControllerSensitivity = math32.Vec2(1, 1)
	fc.MaxPitch = 89.9
	fc.MaxRoll = 1.5
	fc.BobAmplitude.Set(0.05, 0.05, 0)
	fc.SmoothingSpeed = 10
	fc.JumpBobHeight = 0.5
	fc.JumpBobSpeed = 5
	fc.NormalFOV = 60
	fc.ZoomFOV = 30
	fc.EnableZoom = true
}

func (fc *FPCamera) Init(w *xyz.World) error {
	if o, ok := fc.Object(w); ok {
		fc.basePos = o.Transform.Position()
	}
	return nil
}

// Yaw returns the turn angle of the parent object in degrees.
func (fc *FPCamera) Yaw() float32 { return fc.yaw }

// Pitch returns the up and down angle in degrees.
func (fc *FPCamera) Pitch() float32 { return fc.pitch }

// SetZoom sets the zoom in [0, 1].
func (fc *FPCamera) SetZoom(zoom float32) {
	fc.zoom = math32.Clamp(zoom, 0, 1)
}

// FOV returns the field of view for the current zoom.
func (fc *FPCamera) FOV() float32 {
	if !fc.EnableZoom {
		return fc.NormalFOV
	}
	return math32.Lerp(fc.NormalFOV, fc.ZoomFOV, fc.zoom)
}

// UpdateRoll tilts the camera by delta, limited to limit degrees.
func (fc *FPCamera) UpdateRoll(delta, limit float32) {
	fc.smoothRoll = math32.Clamp(fc.smoothRoll+delta/70, -limit, limit)
}

// UpdateBob advances the walking bob for the given speed.
func (fc *FPCamera) UpdateBob(speed, dt float32) {
	const freqX, freqY = 5, 10
	mul := math32.Clamp(speed/4, 0, 2)
	fc.bobPhase.X = math32.Mod(fc.bobPhase.X+dt*freqX*mul, 2*math32.Pi)
	fc.bobPhase.Y = math32.Mod(fc.bobPhase.Y+dt*freqY*mul, 2*math32.Pi)
	target := math32.Vec3(math32.Sin(fc.bobPhase.X)*fc.BobAmplitude.X*mul, math32.Sin(fc.bobPhase.Y)*fc.BobAmplitude.Y*mul, 0)
	fc.bobOffset = fc.bobOffset.Lerp(target, 0.04*mul)
}

// SignalJump starts the jump dip.
func (fc *FPCamera) SignalJump() {
	fc.jumping = true
	fc.falling = fc.Velocity.Y < 1e-6
	fc.jumpOffset = fc.JumpBobHeight
}

func (fc *FPCamera) Update(w *xyz.World) error {
	o, ok := fc.Object(w)
	if !ok {
		return nil
	}
	dt := w.DeltaSeconds()
	fc.stepJumpBob(dt)
	bob := o.Transform.Right().MulScalar(fc.bobOffset.X)
	bob.Y += fc.bobOffset.Y + fc.jumpBob
	o.Transform.SetPosition(fc.basePos.Add(bob))

	in := w.Input()
	if !in.IsCursorLocked() {
		return nil
	}
	d := in.MouseDelta()
	fc.yaw -= d.X*fc.MouseSensitivity.X/30 + in.GamepadAxis(input.RightStickX)*fc.ControllerSensitivity.X*100*dt
	fc.pitch -= d.Y*fc.MouseSensitivity.Y/30 - in.GamepadAxis(input.RightStickY)*fc.ControllerSensitivity.Y*100*dt
	fc.pitch = math32.Clamp(fc.pitch, -fc.MaxPitch, fc.MaxPitch)

	flat := math32.Vec3(fc.Velocity.X, 0, fc.Velocity.Z)
	fwd := o.Transform.Forward()
	fwd.Y = 0
	if flat.Length() < 0.01 || (fwd.LengthSquared() > 0 && flat.Normal().Dot(fwd.Normal()) > 0.9) {
		fc.UpdateRoll(d.X, fc.MaxRoll)
	}
	fc.smoothRoll = math32.Lerp(fc.smoothRoll, 0, math32.Min(fc.SmoothingSpeed*dt, 1))
	fc.bobOffset = fc.bobOffset.Lerp(math32.Vector3{}, math32.Min(fc.SmoothingSpeed*dt, 1))

	pitch := math32.NewQuatAxisAngle(math32.Vec3(1, 0, 0), math32.DegToRad(fc.pitch))
	roll := math32.NewQuatAxisAngle(math32.Vec3(0, 0, 1), math32.DegToRad(fc.smoothRoll))
	o.Transform.SetRotation(pitch.Mul(roll))
	if p, ok := w.Object(o.Parent()); ok {
		p.Transform.SetAxisRotation(math32.Vec3(0, 1, 0), math32.DegToRad(fc.yaw))
	}

	if cm, ok := xyz.FirstComponent[Camera](w, fc.Parent()); ok {
		cm.FOV = fc.FOV()
	} else {
		slog.Warn("components.FPCamera: no camera", "object", fc.Parent())
	}
	return nil
}

// stepJumpBob moves the jump dip toward its target: up on the jump,
// down when the body starts falling, and back to rest on landing.
func (fc *FPCamera) stepJumpBob(dt float32) {
	if fc.jumping {
		switch {
		case !fc.falling && fc.Velocity.Y <= 0:
			fc.falling = true
			fc.jumpOffset = -fc.JumpBobHeight
			fc.jumpBobRate = 0
		case fc.falling && math32.Abs(fc.Velocity.Y) < 1e-3:
			fc.jumping = false
			fc.falling = false
			fc.jumpOffset = 0
		}
	}
	fc.jumpBobRate = math32.Lerp(fc.jumpBobRate, fc.JumpBobSpeed, math32.Min(dt*5, 1))
	fc.jumpBob = math32.Lerp(fc.jumpBob, fc.jumpOffset, math32.Min(fc.jumpBobRate*dt, 1))
}

// FPMovement walks the rigid body of its object with WASD or the left
// stick, relative to the facing of the object, and jumps with Space or
// the south gamepad button. The body does not rotate: it follows the
// yaw set by an [FPCamera] in a child.
type FPMovement struct {
	xyz.ComponentBase

	// MoveSpeed in units per second.
	MoveSpeed float32 `yaml:"move_speed"`

	// JumpFactor scales the jump impulse.
	JumpFactor float32 `yaml:"jump_factor"`

	SprintMultiplier float32 `yaml:"sprint_multiplier"`

	// VelocityInterp is how fast the velocity reaches its target.
	VelocityInterp float32 `yaml:"velocity_interp"`

	// Velocity is the current horizontal velocity.
	Velocity math32.Vector3 `yaml:"-"`
}

func (fm *FPMovement) Defaults() {
	fm.MoveSpeed = 5
	fm.JumpFactor = 100
	fm.SprintMultiplier = 2
	fm.VelocityInterp = 6
}

// camera returns the first person camera of the first child having one.
func (fm *FPMovement) camera(w *xyz.World) (*FPCamera, bool) {
	for _, ch := range w.ChildrenOf(fm.Parent()) {
		if fc, ok := xyz.FirstComponent[FPCamera](w, ch); ok {
			return fc, true
		}
	}
	return nil, false
}

func (fm *FPMovement) Update(w *xyz.World) error {
	o, ok := fm.Object(w)
	if !ok {
		return nil
	}
	rb, ok := xyz.FirstComponent[RigidBody](w, fm.Parent())
	if !ok {
		slog.Warn("components.FPMovement: no rigid body", "object", fm.Parent())
		return nil
	}
	bd := rb.Body(w)
	if bd == nil {
		return nil
	}
	in := w.Input()
	if !in.IsCursorLocked() {
		return nil
	}

	jumping := in.IsJumpPressed()
	if jumping {
		bd.ApplyImpulse(math32.Vec3(0, 0.2*fm.JumpFactor, 0))
	}
	speed := fm.MoveSpeed
	if in.IsSprinting() {
		speed *= fm.SprintMultiplier
	}

	fb := in.Axis(input.KeyS, input.KeyW)
	lr := in.Axis(input.KeyA, input.KeyD)
	if fb == 0 {
		fb = in.GamepadAxis(input.LeftStickY)
	}
	if lr == 0 {
		lr = in.GamepadAxis(input.LeftStickX)
	}
	target := o.Transform.Forward().MulScalar(fb)
	target.SetAdd(o.Transform.Right().MulScalar(lr))
	if target.Length() > 0.5 {
		target = target.Normal()
	}
	target = target.MulScalar(speed)
	dt := w.DeltaSeconds()
	fm.Velocity = fm.Velocity.Lerp(target, math32.Min(fm.VelocityInterp*dt, 1))

	if fc, ok := fm.camera(w); ok {
		fc.UpdateRoll(-lr*speed*dt*100, 4-math32.Abs(fb)*2)
		fc.UpdateBob(fm.Velocity.Length(), dt)
		fc.Velocity = bd.State.LinVel
		if jumping {
			fc.SignalJump()
		}
	}
	bd.State.LinVel.X = fm.Velocity.X
	bd.State.LinVel.Z = fm.Velocity.Z
	return nil
}

// LateUpdate turns the body to the facing of the object, so the yaw
// set during Update survives the next physics step.
func (fm *FPMovement) LateUpdate(w *xyz.World) error {
	rb, ok := xyz.FirstComponent[RigidBody](w, fm.Parent())
	if !ok {
		return nil
	}
	bd := rb.Body(w)
	if bd == nil {
		return nil
	}
	if m, ok := w.WorldMatrix(fm.Parent()); ok {
		_, rot, _ := m.Decompose()
		bd.State.Quat = rot
	}
	bd.State.AngVel.SetZero()
	return nil
}
