// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package components

import (
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/render"
	"cogentcore.org/engine/xyz"
)

// Camera is a perspective camera looking down the -Z axis of its
// object. The first camera added becomes the active camera of the
// world; only the active camera is written to frame snapshots.
type Camera struct {
	xyz.ComponentBase

	// FOV is the vertical field of view in degrees.
	FOV float32 `yaml:"fov"`

	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

func (cm *Camera) Defaults() {
	cm.FOV = 60
	cm.Near = 0.01
	cm.Far = 1000
}

func (cm *Camera) Init(w *xyz.World) error {
	if _, ok := w.ActiveCamera(); !ok {
		w.SetActiveCamera(cm.Parent())
	}
	return nil
}

// IsActiveCamera returns whether this camera is the one frames are drawn from.
func (cm *Camera) IsActiveCamera(w *xyz.World) bool {
	id, ok := w.ActiveCamera()
	return ok && id == cm.Parent()
}

// Projection returns the projection matrix for the surface size of the world.
func (cm *Camera) Projection(w *xyz.World) math32.Matrix4 {
	width, height := w.Size()
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	var m math32.Matrix4
	m.SetPerspective(cm.FOV, aspect, cm.Near, cm.Far)
	return m
}

// View returns the view matrix: the inverse of the world matrix
// of the camera object.
func (cm *Camera) View(w *xyz.World) (math32.Matrix4, bool) {
	m, ok := w.WorldMatrix(cm.Parent())
	if !ok {
		return math32.Matrix4{}, false
	}
	inv, ok := m.Inverse()
	if !ok {
		return math32.Matrix4{}, false
	}
	return *inv, true
}

// Ray returns the ray from the camera position along its view direction.
func (cm *Camera) Ray(w *xyz.World) (math32.Ray, bool) {
	m, ok := w.WorldMatrix(cm.Parent())
	if !ok {
		return math32.Ray{}, false
	}
	dir := m.MulVector3AsVector(math32.Vec3(0, 0, -1))
	return math32.NewRay(m.Translation(), dir), true
}

func (cm *Camera) Contribute(w *xyz.World, f *render.Frame) {
	if !cm.IsActiveCamera(w) {
		return
	}
	view, ok := cm.View(w)
	if !ok {
		return
	}
	pos, _ := w.WorldPosition(cm.Parent())
	f.Camera = render.Camera{Position: pos, View: view, Projection: cm.Projection(w)}
	f.HasCamera = true
}

func (cm *Camera) Delete(w *xyz.World) {
	if cm.IsActiveCamera(w) {
		w.SetActiveCamera(xyz.ObjectID{})
	}
}

// Light is a light source at its object, shining along the -Z axis
// of the object for sun and spot lights.
type Light struct {
	xyz.ComponentBase

	Kind render.LightKinds `yaml:"kind"`

	// Color is the linear RGB color.
	Color math32.Vector3 `yaml:"color"`

	Intensity float32 `yaml:"intensity"`

	// Range is the distance reached by point and spot lights.
	Range float32 `yaml:"range"`
}

func (lt *Light) Defaults() {
	lt.Color.Set(1, 1, 1)
	lt.Intensity = 1
	lt.Range = 20
}

func (lt *Light) Contribute(w *xyz.World, f *render.Frame) {
	m, ok := w.WorldMatrix(lt.Parent())
	if !ok {
		return
	}
	f.Lights = append(f.Lights, render.Light{
		Kind:      lt.Kind,
		Color:     lt.Color,
		Intensity: lt.Intensity,
		Position:  m.Translation(),
		Direction: m.MulVector3AsVector(math32.Vec3(0, 0, -1)).Normal(),
		Range:     lt.Range,
	})
}
