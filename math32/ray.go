// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit Cogent Core functionality.

package math32

// Ray represents an oriented 3D line segment defined by an origin point and a direction vector.
type Ray struct {
	Origin Vector3
	Dir    Vector3
}

// NewRay creates and returns a pointer to a Ray object with
// the specified origin and direction vectors.
// The direction is normalized.
func NewRay(origin, dir Vector3) Ray {
	return Ray{Origin: origin, Dir: dir.Normal()}
}

// At calculates the point in the ray which is at the specified t distance from the origin
// along its direction.
func (ray Ray) At(t float32) Vector3 {
	return ray.Dir.MulScalar(t).Add(ray.Origin)
}

// IntersectSphere returns the distance along the ray of the first
// intersection with the given sphere, and false if there is none in
// front of the origin. A ray starting inside the sphere hits at 0.
func (ray Ray) IntersectSphere(center Vector3, radius float32) (float32, bool) {
	oc := ray.Origin.Sub(center)
	b := oc.Dot(ray.Dir)
	c := oc.LengthSquared() - radius*radius
	if c <= 0 {
		return 0, true
	}
	disc := b*b - c
	if b > 0 || disc < 0 {
		return 0, false
	}
	t := -b - Sqrt(disc)
	return Max(t, 0), true
}

// IntersectBox returns the distance along the ray of the first
// intersection with the given axis-aligned box, and false if there is
// none in front of the origin. A ray starting inside the box hits at 0.
func (ray Ray) IntersectBox(box Box3) (float32, bool) {
	tmin := float32(0)
	tmax := Infinity
	o := [3]float32{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	d := [3]float32{ray.Dir.X, ray.Dir.Y, ray.Dir.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}
	for i := range 3 {
		if d[i] == 0 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d[i]
		t0 := (lo[i] - o[i]) * inv
		t1 := (hi[i] - o[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = Max(tmin, t0)
		tmax = Min(tmax, t1)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
