// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Box3 is an axis-aligned bounding box. A box with Min greater than
// Max on any axis is empty.
type Box3 struct {
	Min Vector3
	Max Vector3
}

// B3 returns the box spanning the two corners.
func B3(x0, y0, z0, x1, y1, z1 float32) Box3 {
	return Box3{Min: Vec3(x0, y0, z0), Max: Vec3(x1, y1, z1)}
}

// SetEmpty makes the box empty so that the first expanded point
// becomes both corners.
func (b *Box3) SetEmpty() {
	b.Min.SetScalar(Infinity)
	b.Max.SetScalar(-Infinity)
}

// IsEmpty returns whether the box contains no point.
func (b Box3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// ExpandByPoint grows the box to contain the point.
func (b *Box3) ExpandByPoint(p Vector3) {
	b.Min.SetMin(p)
	b.Max.SetMax(p)
}

func (b Box3) Center() Vector3 {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

func (b Box3) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// ContainsPoint returns whether the point is inside or on the box.
func (b Box3) ContainsPoint(p Vector3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// MulMatrix4 returns the box containing the eight corners of b
// transformed by m.
func (b Box3) MulMatrix4(m *Matrix4) Box3 {
	var nb Box3
	nb.SetEmpty()
	for i := range 8 {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		nb.ExpandByPoint(m.MulVector3AsPoint(c))
	}
	return nb
}
