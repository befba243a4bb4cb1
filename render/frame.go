// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"cogentcore.org/engine/assets"
	"cogentcore.org/engine/math32"
)

// Proxy is the render-side description of one drawable scene object:
// asset handles plus its world matrix at the time of the snapshot.
type Proxy struct {
	// Object is the packed id of the scene object.
	Object uint64

	Mesh     assets.HMesh
	Material assets.HMaterial
	Model    math32.Matrix4
}

// Camera is the view of a frame.
type Camera struct {
	Position   math32.Vector3
	View       math32.Matrix4
	Projection math32.Matrix4
}

// LightKinds are the kinds of [Light].
type LightKinds int32

const (
	PointLight LightKinds = iota
	SunLight
	SpotLight
)

// Light is a light source of a frame.
type Light struct {
	Kind      LightKinds
	Color     math32.Vector3
	Intensity float32
	Position  math32.Vector3
	Direction math32.Vector3
	Range     float32
}

// Frame is a complete snapshot of what to draw, produced by the
// logic goroutine at the end of each tick. A frame is immutable once
// published: the render goroutine only reads it.
type Frame struct {
	// Number is the logic tick that produced the frame.
	Number uint64

	// Time is the logic time of the frame in seconds.
	Time float64

	Proxies []Proxy

	Camera    Camera
	HasCamera bool

	Lights []Light
}
