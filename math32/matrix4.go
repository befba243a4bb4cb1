// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit Cogent Core functionality.

package math32

// Matrix4 is 4x4 matrix organized internally as column matrix.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() *Matrix4 {
	m := &Matrix4{}
	m.SetIdentity()
	return m
}

// NewMatrix4Transform returns a new matrix composed of the given
// position, quaternion rotation and scale, applied scale first,
// then rotation, then translation.
func NewMatrix4Transform(pos Vector3, quat Quat, scale Vector3) *Matrix4 {
	m := &Matrix4{}
	m.SetTransform(pos, quat, scale)
	return m
}

// Set sets all the elements of this matrix row by row starting at row1, column1,
// row1, column2, row1, column3 and so forth.
func (m *Matrix4) Set(n11, n12, n13, n14, n21, n22, n23, n24, n31, n32, n33, n34, n41, n42, n43, n44 float32) {
	m[0] = n11
	m[4] = n12
	m[8] = n13
	m[12] = n14
	m[1] = n21
	m[5] = n22
	m[9] = n23
	m[13] = n24
	m[2] = n31
	m[6] = n32
	m[10] = n33
	m[14] = n34
	m[3] = n41
	m[7] = n42
	m[11] = n43
	m[15] = n44
}

// SetIdentity sets this matrix as the identity matrix.
func (m *Matrix4) SetIdentity() {
	m.Set(
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	)
}

// IsIdentity returns true if this matrix is the identity matrix.
func (m *Matrix4) IsIdentity() bool {
	return *m == *Identity4()
}

// SetTransform sets this matrix to a transformation matrix for the specified position,
// rotation specified by the quaternion and scale.
func (m *Matrix4) SetTransform(pos Vector3, quat Quat, scale Vector3) {
	x := quat.X
	y := quat.Y
	z := quat.Z
	w := quat.W
	x2 := x + x
	y2 := y + y
	z2 := z + z
	xx := x * x2
	xy := x * y2
	xz := x * z2
	yy := y * y2
	yz := y * z2
	zz := z * z2
	wx := w * x2
	wy := w * y2
	wz := w * z2

	m[0] = (1 - (yy + zz)) * scale.X
	m[1] = (xy + wz) * scale.X
	m[2] = (xz - wy) * scale.X
	m[3] = 0
	m[4] = (xy - wz) * scale.Y
	m[5] = (1 - (xx + zz)) * scale.Y
	m[6] = (yz + wx) * scale.Y
	m[7] = 0
	m[8] = (xz + wy) * scale.Z
	m[9] = (yz - wx) * scale.Z
	m[10] = (1 - (xx + yy)) * scale.Z
	m[11] = 0
	m[12] = pos.X
	m[13] = pos.Y
	m[14] = pos.Z
	m[15] = 1
}

// Decompose returns the position, quaternion rotation and scale
// encoded in this transformation matrix.
func (m *Matrix4) Decompose() (pos Vector3, quat Quat, scale Vector3) {
	sx := Vec3(m[0], m[1], m[2]).Length()
	sy := Vec3(m[4], m[5], m[6]).Length()
	sz := Vec3(m[8], m[9], m[10]).Length()

	// if determinant is negative, we need to invert one scale
	if m.Determinant() < 0 {
		sx = -sx
	}

	pos = Vec3(m[12], m[13], m[14])
	scale = Vec3(sx, sy, sz)

	// scale the rotation part
	rot := *m
	if sx != 0 {
		rot[0] /= sx
		rot[1] /= sx
		rot[2] /= sx
	}
	if sy != 0 {
		rot[4] /= sy
		rot[5] /= sy
		rot[6] /= sy
	}
	if sz != 0 {
		rot[8] /= sz
		rot[9] /= sz
		rot[10] /= sz
	}
	quat.SetFromRotationMatrix(&rot)
	return
}

// Translation returns the position component of this matrix.
func (m *Matrix4) Translation() Vector3 {
	return Vec3(m[12], m[13], m[14])
}

// Mul returns this matrix times other matrix (this matrix is unchanged)
func (m *Matrix4) Mul(other *Matrix4) *Matrix4 {
	nm := &Matrix4{}
	nm.MulMatrices(m, other)
	return nm
}

// MulMatrices sets this matrix as the matrix product a * b.
func (m *Matrix4) MulMatrices(a, b *Matrix4) {
	var r Matrix4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var s float32
			for k := 0; k < 4; k++ {
				s += a[k*4+row] * b[c*4+k]
			}
			r[c*4+row] = s
		}
	}
	*m = r
}

// Determinant calculates and returns the determinant of this matrix.
func (m *Matrix4) Determinant() float32 {
	n11 := m[0]
	n12 := m[4]
	n13 := m[8]
	n14 := m[12]
	n21 := m[1]
	n22 := m[5]
	n23 := m[9]
	n24 := m[13]
	n31 := m[2]
	n32 := m[6]
	n33 := m[10]
	n34 := m[14]
	n41 := m[3]
	n42 := m[7]
	n43 := m[11]
	n44 := m[15]

	return n41*(n14*n23*n32-n13*n24*n32-n14*n22*n33+n12*n24*n33+n13*n22*n34-n12*n23*n34) +
		n42*(n11*n23*n34-n11*n24*n33+n14*n21*n33-n13*n21*n34+n13*n24*n31-n14*n23*n31) +
		n43*(n11*n24*n32-n11*n22*n34-n14*n21*n32+n12*n21*n34+n14*n22*n31-n12*n24*n31) +
		n44*(-n13*n22*n31-n11*n23*n32+n11*n22*n33+n13*n21*n32-n12*n21*n33+n12*n23*n31)
}

// Inverse returns the inverse of this matrix.
// If the matrix cannot be inverted returns the zero matrix
// and false.
func (m *Matrix4) Inverse() (*Matrix4, bool) {
	n11 := m[0]
	n21 := m[1]
	n31 := m[2]
	n41 := m[3]
	n12 := m[4]
	n22 := m[5]
	n32 := m[6]
	n42 := m[7]
	n13 := m[8]
	n23 := m[9]
	n33 := m[10]
	n43 := m[11]
	n14 := m[12]
	n24 := m[13]
	n34 := m[14]
	n44 := m[15]

	t11 := n23*n34*n42 - n24*n33*n42 + n24*n32*n43 - n22*n34*n43 - n23*n32*n44 + n22*n33*n44
	t12 := n14*n33*n42 - n13*n34*n42 - n14*n32*n43 + n12*n34*n43 + n13*n32*n44 - n12*n33*n44
	t13 := n13*n24*n42 - n14*n23*n42 + n14*n22*n43 - n12*n24*n43 - n13*n22*n44 + n12*n23*n44
	t14 := n14*n23*n32 - n13*n24*n32 - n14*n22*n33 + n12*n24*n33 + n13*n22*n34 - n12*n23*n34

	det := n11*t11 + n21*t12 + n31*t13 + n41*t14
	if det == 0 {
		return &Matrix4{}, false
	}
	di := 1 / det

	r := &Matrix4{}
	r[0] = t11 * di
	r[1] = (n24*n33*n41 - n23*n34*n41 - n24*n31*n43 + n21*n34*n43 + n23*n31*n44 - n21*n33*n44) * di
	r[2] = (n22*n34*n41 - n24*n32*n41 + n24*n31*n42 - n21*n34*n42 - n22*n31*n44 + n21*n32*n44) * di
	r[3] = (n23*n32*n41 - n22*n33*n41 - n23*n31*n42 + n21*n33*n42 + n22*n31*n43 - n21*n32*n43) * di

	r[4] = t12 * di
	r[5] = (n13*n34*n41 - n14*n33*n41 + n14*n31*n43 - n11*n34*n43 - n13*n31*n44 + n11*n33*n44) * di
	r[6] = (n14*n32*n41 - n12*n34*n41 - n14*n31*n42 + n11*n34*n42 + n12*n31*n44 - n11*n32*n44) * di
	r[7] = (n12*n33*n41 - n13*n32*n41 + n13*n31*n42 - n11*n33*n42 - n12*n31*n43 + n11*n32*n43) * di

	r[8] = t13 * di
	r[9] = (n14*n23*n41 - n13*n24*n41 - n14*n21*n43 + n11*n24*n43 + n13*n21*n44 - n11*n23*n44) * di
	r[10] = (n12*n24*n41 - n14*n22*n41 + n14*n21*n42 - n11*n24*n42 - n12*n21*n44 + n11*n22*n44) * di
	r[11] = (n13*n22*n41 - n12*n23*n41 - n13*n21*n42 + n11*n23*n42 + n12*n21*n43 - n11*n22*n43) * di

	r[12] = t14 * di
	r[13] = (n13*n24*n31 - n14*n23*n31 + n14*n21*n33 - n11*n24*n33 - n13*n21*n34 + n11*n23*n34) * di
	r[14] = (n14*n22*n31 - n12*n24*n31 - n14*n21*n32 + n11*n24*n32 + n12*n21*n34 - n11*n22*n34) * di
	r[15] = (n12*n23*n31 - n13*n22*n31 + n13*n21*n32 - n11*n23*n32 - n12*n21*n33 + n11*n22*n33) * di
	return r, true
}

// MulVector3AsPoint multiplies the given point (w = 1) by this matrix
// and returns the resulting point.
func (m *Matrix4) MulVector3AsPoint(v Vector3) Vector3 {
	return Vector3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
}

// MulVector3AsVector multiplies the given direction (w = 0) by this matrix,
// ignoring the translation.
func (m *Matrix4) MulVector3AsVector(v Vector3) Vector3 {
	return Vector3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// SetPerspective sets this matrix to a perspective projection matrix
// with the specified vertical field of view in degrees,
// aspect ratio (width/height) and near and far planes.
func (m *Matrix4) SetPerspective(fov, aspect, near, far float32) {
	ymax := near * Tan(DegToRad(fov*0.5))
	ymin := -ymax
	xmin := ymin * aspect
	xmax := ymax * aspect
	m.SetFrustum(xmin, xmax, ymin, ymax, near, far)
}

// SetFrustum sets this matrix to a projection frustum matrix bounded by the specified planes.
func (m *Matrix4) SetFrustum(left, right, bottom, top, near, far float32) {
	fmn := far - near
	x := 2 * near / (right - left)
	y := 2 * near / (top - bottom)
	a := (right + left) / (right - left)
	b := (top + bottom) / (top - bottom)
	c := -(far + near) / fmn
	d := -2 * far * near / fmn
	m.Set(
		x, 0, a, 0,
		0, y, b, 0,
		0, 0, c, d,
		0, 0, -1, 0,
	)
}
