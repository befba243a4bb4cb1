// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"sync/atomic"

	"cogentcore.org/engine/math32"
)

// transformVersions issues transform versions. Versions are unique
// across all transforms, so equal versions always mean equal values,
// including for transforms copied between objects.
var transformVersions atomic.Uint64

// Transform is the local position, rotation and scale of an object
// relative to its parent. The local values are the only source of
// truth: world matrices are derived from them on demand by [World].
// Every change takes a new version used to invalidate derived
// matrices, so fields are only set through methods.
type Transform struct {
	pos     math32.Vector3
	rot     math32.Quat
	scale   math32.Vector3
	version uint64
}

// Defaults sets the identity transform.
func (tr *Transform) Defaults() {
	tr.pos.SetZero()
	tr.rot.SetIdentity()
	tr.scale.Set(1, 1, 1)
	tr.changed()
}

func (tr *Transform) changed() {
	tr.version = transformVersions.Add(1)
}

// Version returns the version of the current values. Copies of a
// transform share its version until either one changes.
func (tr *Transform) Version() uint64 {
	return tr.version
}

// Position returns the local position.
func (tr *Transform) Position() math32.Vector3 {
	return tr.pos
}

// SetPosition sets the local position.
func (tr *Transform) SetPosition(pos math32.Vector3) {
	tr.pos = pos
	tr.changed()
}

// Translate moves the local position by the given delta.
func (tr *Transform) Translate(delta math32.Vector3) {
	tr.pos.SetAdd(delta)
	tr.changed()
}

// Rotation returns the local rotation.
func (tr *Transform) Rotation() math32.Quat {
	return tr.rot
}

// SetRotation sets the local rotation.
func (tr *Transform) SetRotation(rot math32.Quat) {
	tr.rot = rot
	tr.changed()
}

// SetEulerRotation sets the local rotation from Euler angles in
// degrees, applied in X, Y, Z order.
func (tr *Transform) SetEulerRotation(x, y, z float32) {
	tr.rot.SetFromEuler(math32.Vec3(math32.DegToRad(x), math32.DegToRad(y), math32.DegToRad(z)))
	tr.changed()
}

// SetAxisRotation sets the local rotation to the given angle in
// degrees around the given axis.
func (tr *Transform) SetAxisRotation(axis math32.Vector3, angle float32) {
	tr.rot.SetFromAxisAngle(axis, math32.DegToRad(angle))
	tr.changed()
}

// Rotate applies the given rotation on top of the current one,
// in the local frame.
func (tr *Transform) Rotate(rot math32.Quat) {
	tr.rot = tr.rot.Mul(rot)
	tr.rot.Normalize()
	tr.changed()
}

// RotateAxis rotates by the given angle in degrees around
// the given local axis.
func (tr *Transform) RotateAxis(axis math32.Vector3, angle float32) {
	tr.Rotate(math32.NewQuatAxisAngle(axis, math32.DegToRad(angle)))
}

// Scale returns the local scale.
func (tr *Transform) Scale() math32.Vector3 {
	return tr.scale
}

// SetScale sets the local scale.
func (tr *Transform) SetScale(scale math32.Vector3) {
	tr.scale = scale
	tr.changed()
}

// SetUniformScale sets the same local scale on all axes.
func (tr *Transform) SetUniformScale(s float32) {
	tr.scale.SetScalar(s)
	tr.changed()
}

// Matrix returns the local transformation matrix:
// scale, then rotation, then translation.
func (tr *Transform) Matrix() math32.Matrix4 {
	return *math32.NewMatrix4Transform(tr.pos, tr.rot, tr.scale)
}

// SetMatrix sets position, rotation and scale from a local matrix.
func (tr *Transform) SetMatrix(m *math32.Matrix4) {
	tr.pos, tr.rot, tr.scale = m.Decompose()
	tr.changed()
}

// Forward returns the local forward direction, -Z rotated.
func (tr *Transform) Forward() math32.Vector3 {
	return math32.Vec3(0, 0, -1).MulQuat(tr.rot)
}

// Right returns the local right direction, +X rotated.
func (tr *Transform) Right() math32.Vector3 {
	return math32.Vec3(1, 0, 0).MulQuat(tr.rot)
}

// Up returns the local up direction, +Y rotated.
func (tr *Transform) Up() math32.Vector3 {
	return math32.Vec3(0, 1, 0).MulQuat(tr.rot)
}
