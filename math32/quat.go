// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit Cogent Core functionality.

package math32

// Quat is quaternion with X,Y,Z and W components.
type Quat struct {
	X float32
	Y float32
	Z float32
	W float32
}

// QuatIdentity returns the identity quaternion.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// NewQuatAxisAngle returns a new quaternion from given axis and angle rotation (radians).
func NewQuatAxisAngle(axis Vector3, angle float32) Quat {
	nq := Quat{}
	nq.SetFromAxisAngle(axis, angle)
	return nq
}

// NewQuatEuler returns a new quaternion from given Euler angles (radians),
// applied in X, Y, Z order.
func NewQuatEuler(euler Vector3) Quat {
	nq := Quat{}
	nq.SetFromEuler(euler)
	return nq
}

// IsNil returns true if all values are 0 (uninitialized).
func (q Quat) IsNil() bool {
	return q.X == 0 && q.Y == 0 && q.Z == 0 && q.W == 0
}

// IsIdentity returns if this is an identity quaternion.
func (q Quat) IsIdentity() bool {
	return q.X == 0 && q.Y == 0 && q.Z == 0 && q.W == 1
}

// SetIdentity sets this quanternion to the identity quaternion.
func (q *Quat) SetIdentity() {
	*q = QuatIdentity()
}

// SetFromEuler sets this quaternion from the specified vector with
// Euler angles for each axis (radians), XYZ order.
func (q *Quat) SetFromEuler(euler Vector3) {
	c1 := Cos(euler.X / 2)
	c2 := Cos(euler.Y / 2)
	c3 := Cos(euler.Z / 2)
	s1 := Sin(euler.X / 2)
	s2 := Sin(euler.Y / 2)
	s3 := Sin(euler.Z / 2)

	q.X = s1*c2*c3 + c1*s2*s3
	q.Y = c1*s2*c3 - s1*c2*s3
	q.Z = c1*c2*s3 + s1*s2*c3
	q.W = c1*c2*c3 - s1*s2*s3
}

// SetFromAxisAngle sets this quaternion with the rotation
// specified by the given axis and angle (radians).
func (q *Quat) SetFromAxisAngle(axis Vector3, angle float32) {
	axis = axis.Normal()
	halfAngle := angle / 2
	s := Sin(halfAngle)
	q.X = axis.X * s
	q.Y = axis.Y * s
	q.Z = axis.Z * s
	q.W = Cos(halfAngle)
}

// SetFromRotationMatrix sets this quaternion from the specified rotation matrix,
// which must have unscaled upper 3x3 columns.
func (q *Quat) SetFromRotationMatrix(m *Matrix4) {
	m11 := m[0]
	m12 := m[4]
	m13 := m[8]
	m21 := m[1]
	m22 := m[5]
	m23 := m[9]
	m31 := m[2]
	m32 := m[6]
	m33 := m[10]
	trace := m11 + m22 + m33

	var s float32
	switch {
	case trace > 0:
		s = 0.5 / Sqrt(trace+1.0)
		q.W = 0.25 / s
		q.X = (m32 - m23) * s
		q.Y = (m13 - m31) * s
		q.Z = (m21 - m12) * s
	case m11 > m22 && m11 > m33:
		s = 2.0 * Sqrt(1.0+m11-m22-m33)
		q.W = (m32 - m23) / s
		q.X = 0.25 * s
		q.Y = (m12 + m21) / s
		q.Z = (m13 + m31) / s
	case m22 > m33:
		s = 2.0 * Sqrt(1.0+m22-m11-m33)
		q.W = (m13 - m31) / s
		q.X = (m12 + m21) / s
		q.Y = 0.25 * s
		q.Z = (m23 + m32) / s
	default:
		s = 2.0 * Sqrt(1.0+m33-m11-m22)
		q.W = (m21 - m12) / s
		q.X = (m13 + m31) / s
		q.Y = (m23 + m32) / s
		q.Z = 0.25 * s
	}
}

// Conjugate returns the conjugate of this quaternion,
// which is its inverse when the quaternion is normalized.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Inverse returns the inverse of this quaternion.
func (q Quat) Inverse() Quat {
	nq := q.Conjugate()
	nq.Normalize()
	return nq
}

// Dot returns the dot products of this quaternion with other.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Length returns the length of this quaternion
func (q Quat) Length() float32 {
	return Sqrt(q.Dot(q))
}

// Normalize normalizes this quaternion.
func (q *Quat) Normalize() {
	l := q.Length()
	if l == 0 {
		q.SetIdentity()
		return
	}
	l = 1 / l
	q.X *= l
	q.Y *= l
	q.Z *= l
	q.W *= l
}

// Mul returns the Hamilton product q * other: the rotation that
// applies other first and then q.
func (q Quat) Mul(other Quat) Quat {
	qax := q.X
	qay := q.Y
	qaz := q.Z
	qaw := q.W
	qbx := other.X
	qby := other.Y
	qbz := other.Z
	qbw := other.W

	return Quat{
		qax*qbw + qaw*qbx + qay*qbz - qaz*qby,
		qay*qbw + qaw*qby + qaz*qbx - qax*qbz,
		qaz*qbw + qaw*qbz + qax*qby - qay*qbx,
		qaw*qbw - qax*qbx - qay*qby - qaz*qbz,
	}
}
