// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prefabs provides the built-in prefabs and prefab
// definitions loaded from YAML.
package prefabs

import (
	"cogentcore.org/engine/assets"
	"cogentcore.org/engine/components"
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/render"
	"cogentcore.org/engine/xyz"
)

// Cube is a unit cube drawn with a material.
type Cube struct {
	// Material defaults to the default material.
	Material assets.HMaterial

	// Collider adds a box collider.
	Collider bool
}

func (cb *Cube) PrefabName() string { return "Cube" }

func (cb *Cube) Build(w *xyz.World) (xyz.ObjectID, error) {
	return buildShape(w, cb.PrefabName(), assets.MeshCube, cb.Material, cb.Collider, components.ColliderBox)
}

// Sphere is a sphere of radius 0.5 drawn with a material.
type Sphere struct {
	Material assets.HMaterial

	// Collider adds a sphere collider.
	Collider bool
}

func (sp *Sphere) PrefabName() string { return "Sphere" }

func (sp *Sphere) Build(w *xyz.World) (xyz.ObjectID, error) {
	return buildShape(w, sp.PrefabName(), assets.MeshSphere, sp.Material, sp.Collider, components.ColliderSphere)
}

func buildShape(w *xyz.World, name string, mesh assets.HMesh, mat assets.HMaterial, collider bool, shape components.ColliderShapes) (xyz.ObjectID, error) {
	if mat.IsNil() {
		mat = assets.MaterialDefault
	}
	id := w.NewObject(name)
	o, _ := w.Object(id)
	o.SetDrawable(mesh, mat)
	if collider {
		if _, _, err := xyz.AddComponentWith(w, id, func(cl *components.Collider) { cl.Shape = shape }); err != nil {
			w.DeleteObject(id)
			return xyz.ObjectID{}, err
		}
	}
	return id, nil
}

// Camera is a camera object, optionally flown with a [components.FreeCam].
type Camera struct {
	Position math32.Vector3
	FreeCam  bool
}

func (cm *Camera) PrefabName() string { return "Camera" }

func (cm *Camera) Build(w *xyz.World) (xyz.ObjectID, error) {
	id := w.NewObject(cm.PrefabName())
	o, _ := w.Object(id)
	o.Transform.SetPosition(cm.Position)
	if _, _, err := xyz.AddComponent[components.Camera](w, id); err != nil {
		w.DeleteObject(id)
		return xyz.ObjectID{}, err
	}
	if cm.FreeCam {
		if _, _, err := xyz.AddComponent[components.FreeCam](w, id); err != nil {
			w.DeleteObject(id)
			return xyz.ObjectID{}, err
		}
	}
	return id, nil
}

// Sun is a directional light pointing down at the given angle
// from the vertical, in degrees.
type Sun struct {
	Angle     float32
	Intensity float32
}

func (sn *Sun) PrefabName() string { return "Sun" }

func (sn *Sun) Build(w *xyz.World) (xyz.ObjectID, error) {
	id := w.NewObject(sn.PrefabName())
	o, _ := w.Object(id)
	o.Transform.SetEulerRotation(-90+sn.Angle, 0, 0)
	_, _, err := xyz.AddComponentWith(w, id, func(lt *components.Light) {
		lt.Kind = render.SunLight
		if sn.Intensity > 0 {
			lt.Intensity = sn.Intensity
		}
	})
	if err != nil {
		w.DeleteObject(id)
		return xyz.ObjectID{}, err
	}
	return id, nil
}

// FirstPersonPlayer is a walking player: a box shaped rigid body
// moved by a [components.FPMovement], with a first person camera at
// eye height that also receives audio. The camera becomes the active
// camera.
type FirstPersonPlayer struct {
	// Mass of the body; 5 when zero.
	Mass float32
}

func (fp *FirstPersonPlayer) PrefabName() string { return "First Person Player" }

func (fp *FirstPersonPlayer) Build(w *xyz.World) (xyz.ObjectID, error) {
	id := w.NewObject(fp.PrefabName())
	cam := w.NewObject("Camera")
	if err := fp.build(w, id, cam); err != nil {
		w.DeleteObject(id)
		w.DeleteObject(cam)
		return xyz.ObjectID{}, err
	}
	w.SetActiveCamera(cam)
	return id, nil
}

func (fp *FirstPersonPlayer) build(w *xyz.World, id, cam xyz.ObjectID) error {
	if err := w.AddChildTo(id, cam); err != nil {
		return err
	}
	co, _ := w.Object(cam)
	co.Transform.SetPosition(math32.Vec3(0, 1, 0))
	if _, _, err := xyz.AddComponent[components.Camera](w, cam); err != nil {
		return err
	}
	if _, _, err := xyz.AddComponent[components.FPCamera](w, cam); err != nil {
		return err
	}
	if _, _, err := xyz.AddComponent[components.AudioReceiver](w, cam); err != nil {
		return err
	}

	_, _, err := xyz.AddComponentWith(w, id, func(cl *components.Collider) { cl.Size.Set(0.5, 2.5, 0.5) })
	if err != nil {
		return err
	}
	_, _, err = xyz.AddComponentWith(w, id, func(rb *components.RigidBody) {
		rb.Mass = fp.Mass
		if rb.Mass <= 0 {
			rb.Mass = 5
		}
	})
	if err != nil {
		return err
	}
	_, _, err = xyz.AddComponent[components.FPMovement](w, id)
	return err
}

// AddBuiltins adds the built-in prefabs to the library.
func AddBuiltins(lib *xyz.Library) {
	lib.Add(&Cube{})
	lib.Add(&Sphere{})
	lib.Add(&Camera{Position: math32.Vec3(0, 0, 10)})
	lib.Add(&Sun{Angle: 30})
	lib.Add(&FirstPersonPlayer{})
}
