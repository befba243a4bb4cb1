// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"math"

	"cogentcore.org/engine/math32"
)

// State is the world-space physical state of a body.
type State struct {

	// position of center of mass of object
	Pos math32.Vector3

	// rotation specified as a Quat
	Quat math32.Quat

	// linear velocity in units per second
	LinVel math32.Vector3

	// angular velocity, as axis scaled by radians per second
	AngVel math32.Vector3
}

// Defaults sets the identity rotation if it is unset.
func (ps *State) Defaults() {
	if ps.Quat.IsNil() {
		ps.Quat.SetIdentity()
	}
}

// SetPose places the body, keeping its velocities.
func (ps *State) SetPose(pos math32.Vector3, quat math32.Quat) {
	ps.Pos = pos
	ps.Quat = quat
}

// SetPoseMatrix places the body at the translation and rotation of a
// world matrix; scale is ignored.
func (ps *State) SetPoseMatrix(m *math32.Matrix4) {
	pos, quat, _ := m.Decompose()
	ps.SetPose(pos, quat)
}

// AngMotionMax is maximum angular motion that can be taken per update
const AngMotionMax = math.Pi / 4

// StepByAngVel steps the Quat rotation from angular velocity
func (ps *State) StepByAngVel(step float32) {
	ang := ps.AngVel.Length()
	if ang < 1e-6 {
		return
	}
	axis := ps.AngVel.DivScalar(ang)

	// limit the angular motion
	if ang*step > AngMotionMax {
		ang = AngMotionMax / step
	}
	dq := math32.NewQuatAxisAngle(axis, ang*step)
	ps.Quat = dq.Mul(ps.Quat)
	ps.Quat.Normalize()
}

// StepByLinVel steps the Pos from the linear velocity
func (ps *State) StepByLinVel(step float32) {
	ps.Pos.SetAdd(ps.LinVel.MulScalar(step))
}
