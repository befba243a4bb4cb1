// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"cogentcore.org/engine/math32"
)

// Shape is the collision shape of a body, in body-local coordinates
// centered on the body position.
type Shape interface {
	// BBox returns the world-space bounding box of the shape
	// for the given state.
	BBox(st *State) math32.Box3

	// IntersectRay returns the distance along the world-space ray to the
	// first intersection with the shape in the given state.
	IntersectRay(ray math32.Ray, st *State) (float32, bool)
}

// Sphere is a spherical body shape.
type Sphere struct {
	Radius float32
}

func (sp *Sphere) BBox(st *State) math32.Box3 {
	r := math32.Vector3Scalar(sp.Radius)
	return math32.Box3{Min: st.Pos.Sub(r), Max: st.Pos.Add(r)}
}

func (sp *Sphere) IntersectRay(ray math32.Ray, st *State) (float32, bool) {
	return ray.IntersectSphere(st.Pos, sp.Radius)
}

// Box is a box body shape.
type Box struct {
	// Size is the full extent of the box along each local axis.
	Size math32.Vector3
}

func (bx *Box) local() math32.Box3 {
	h := bx.Size.MulScalar(0.5)
	return math32.Box3{Min: h.Negate(), Max: h}
}

func (bx *Box) BBox(st *State) math32.Box3 {
	return bx.local().MulMatrix4(math32.NewMatrix4Transform(st.Pos, st.Quat, math32.Vector3Scalar(1)))
}

func (bx *Box) IntersectRay(ray math32.Ray, st *State) (float32, bool) {
	inv := st.Quat.Inverse()
	lr := math32.Ray{
		Origin: ray.Origin.Sub(st.Pos).MulQuat(inv),
		Dir:    ray.Dir.MulQuat(inv),
	}
	return lr.IntersectBox(bx.local())
}
