// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"cogentcore.org/engine/math32"
)

// NewCube returns an axis-aligned cube mesh centered at the origin
// with the given edge length, with separate vertices per face.
func NewCube(size float32) *Mesh {
	h := size / 2
	ms := &Mesh{}
	faces := [6][3]math32.Vector3{
		{math32.Vec3(1, 0, 0), math32.Vec3(0, 0, -1), math32.Vec3(0, 1, 0)},
		{math32.Vec3(-1, 0, 0), math32.Vec3(0, 0, 1), math32.Vec3(0, 1, 0)},
		{math32.Vec3(0, 1, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 0, -1)},
		{math32.Vec3(0, -1, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 0, 1)},
		{math32.Vec3(0, 0, 1), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0)},
		{math32.Vec3(0, 0, -1), math32.Vec3(-1, 0, 0), math32.Vec3(0, 1, 0)},
	}
	for _, f := range faces {
		n, u, v := f[0], f[1], f[2]
		base := uint32(len(ms.Positions))
		c := n.MulScalar(h)
		u = u.MulScalar(h)
		v = v.MulScalar(h)
		ms.Positions = append(ms.Positions,
			c.Sub(u).Sub(v), c.Add(u).Sub(v), c.Add(u).Add(v), c.Sub(u).Add(v))
		ms.Normals = append(ms.Normals, n, n, n, n)
		ms.UVs = append(ms.UVs, math32.Vec2(0, 1), math32.Vec2(1, 1), math32.Vec2(1, 0), math32.Vec2(0, 0))
		ms.Indices = append(ms.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	ms.ComputeBounds()
	return ms
}

// NewSphere returns a UV sphere mesh centered at the origin.
// segments is the number of divisions around the vertical axis
// and rings the number from pole to pole.
func NewSphere(radius float32, segments, rings int) *Mesh {
	segments = max(segments, 3)
	rings = max(rings, 2)
	ms := &Mesh{}
	for r := 0; r <= rings; r++ {
		v := float32(r) / float32(rings)
		phi := v * math32.Pi
		for s := 0; s <= segments; s++ {
			u := float32(s) / float32(segments)
			theta := u * 2 * math32.Pi
			n := math32.Vec3(math32.Sin(phi)*math32.Cos(theta), math32.Cos(phi), math32.Sin(phi)*math32.Sin(theta))
			ms.Positions = append(ms.Positions, n.MulScalar(radius))
			ms.Normals = append(ms.Normals, n)
			ms.UVs = append(ms.UVs, math32.Vec2(u, v))
		}
	}
	stride := uint32(segments + 1)
	for r := range uint32(rings) {
		for s := range uint32(segments) {
			a := r*stride + s
			b := a + stride
			ms.Indices = append(ms.Indices, a, a+1, b, b, a+1, b+1)
		}
	}
	ms.ComputeBounds()
	return ms
}

// NewQuad returns a quad mesh in the XY plane facing +Z,
// centered at the origin.
func NewQuad(width, height float32) *Mesh {
	w := width / 2
	h := height / 2
	n := math32.Vec3(0, 0, 1)
	ms := &Mesh{
		Positions: []math32.Vector3{
			math32.Vec3(-w, -h, 0), math32.Vec3(w, -h, 0), math32.Vec3(w, h, 0), math32.Vec3(-w, h, 0),
		},
		Normals: []math32.Vector3{n, n, n, n},
		UVs:     []math32.Vector2{math32.Vec2(0, 1), math32.Vec2(1, 1), math32.Vec2(1, 0), math32.Vec2(0, 0)},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
	ms.ComputeBounds()
	return ms
}

// NewCheckerTexture returns a size x size texture of alternating
// colored cells, used as the fallback texture.
func NewCheckerTexture(size, cell int, a, b [4]byte) *Texture {
	tx := &Texture{Width: size, Height: size, Pixels: make([]byte, size*size*4)}
	for y := range size {
		for x := range size {
			c := a
			if ((x/cell)+(y/cell))%2 == 1 {
				c = b
			}
			copy(tx.Pixels[(y*size+x)*4:], c[:])
		}
	}
	return tx
}
