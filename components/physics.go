// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package components

import (
	"fmt"
	"log/slog"

	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/physics"
	"cogentcore.org/engine/xyz"
)

// RigidBody owns a physics body that follows its object. Kinematic
// bodies are moved to the object before each physics step; dynamic
// bodies move the object after each step.
type RigidBody struct {
	xyz.ComponentBase

	Kind physics.BodyKinds `yaml:"kind"`

	// Mass in kilograms.
	Mass float32 `yaml:"mass"`

	LinearDamping  float32 `yaml:"linear_damping"`
	AngularDamping float32 `yaml:"angular_damping"`

	// GravityScale multiplies the world gravity.
	GravityScale float32 `yaml:"gravity_scale"`

	handle physics.BodyHandle
}

func (rb *RigidBody) Defaults() {
	rb.Kind = physics.Dynamic
	rb.Mass = 1
	rb.GravityScale = 1
}

func (rb *RigidBody) Init(w *xyz.World) error {
	m, ok := w.WorldMatrix(rb.Parent())
	if !ok {
		return fmt.Errorf("components.RigidBody: %w", xyz.ErrStaleID)
	}
	bd := physics.Body{
		Kind:           rb.Kind,
		Mass:           rb.Mass,
		LinearDamping:  rb.LinearDamping,
		AngularDamping: rb.AngularDamping,
		GravityScale:   rb.GravityScale,
		UserData:       rb.Parent(),
	}
	bd.State.SetPoseMatrix(&m)
	if cl, ok := xyz.FirstComponent[Collider](w, rb.Parent()); ok {
		bd.Shape = cl.shape()
		cl.unlink(w)
	}
	rb.handle = w.Physics().AddBody(bd)
	return nil
}

// Handle returns the physics body handle.
func (rb *RigidBody) Handle() physics.BodyHandle {
	return rb.handle
}

// Body returns the physics body, or nil if it is gone.
func (rb *RigidBody) Body(w *xyz.World) *physics.Body {
	return w.Physics().Body(rb.handle)
}

// ApplyImpulse applies an impulse to a dynamic body.
func (rb *RigidBody) ApplyImpulse(w *xyz.World, impulse math32.Vector3) {
	if bd := rb.Body(w); bd != nil {
		bd.ApplyImpulse(impulse)
	}
}

// Velocity returns the linear velocity of the body.
func (rb *RigidBody) Velocity(w *xyz.World) math32.Vector3 {
	if bd := rb.Body(w); bd != nil {
		return bd.State.LinVel
	}
	return math32.Vector3{}
}

func (rb *RigidBody) PreFixedUpdate(w *xyz.World) error {
	bd := rb.Body(w)
	if bd == nil {
		slog.Warn("components.RigidBody: body is gone", "object", rb.Parent())
		return nil
	}
	if bd.Kind == physics.Dynamic {
		return nil
	}
	if m, ok := w.WorldMatrix(rb.Parent()); ok {
		bd.State.SetPoseMatrix(&m)
	}
	return nil
}

func (rb *RigidBody) FixedUpdate(w *xyz.World) error {
	bd := rb.Body(w)
	if bd == nil || bd.Kind != physics.Dynamic {
		return nil
	}
	o, ok := rb.Object(w)
	if !ok {
		return nil
	}
	w.SetWorldPosition(rb.Parent(), bd.State.Pos)
	rot := bd.State.Quat
	if p, ok := w.WorldMatrix(o.Parent()); ok {
		_, prot, _ := p.Decompose()
		rot = prot.Inverse().Mul(rot)
	}
	o.Transform.SetRotation(rot)
	return nil
}

func (rb *RigidBody) Delete(w *xyz.World) {
	w.Physics().RemoveBody(rb.handle)
	if o, ok := rb.Object(w); !ok || o.IsDeleting() {
		return
	}
	if cl, ok := xyz.FirstComponent[Collider](w, rb.Parent()); ok {
		cl.link(w)
	}
}

// ColliderShapes are the shapes of a [Collider].
type ColliderShapes int32

const (
	// ColliderBox is a box of the collider size.
	ColliderBox ColliderShapes = iota

	// ColliderSphere is a sphere of the collider radius.
	ColliderSphere
)

// Collider gives its object a ray castable shape. On an object with a
// [RigidBody] the shape is set on that body; otherwise the collider
// owns a static body that follows the object.
type Collider struct {
	xyz.ComponentBase

	Shape ColliderShapes `yaml:"shape"`

	// Size is the full extent of a box.
	Size math32.Vector3 `yaml:"size"`

	// Radius of a sphere.
	Radius float32 `yaml:"radius"`

	handle physics.BodyHandle
}

func (cl *Collider) Defaults() {
	cl.Size.Set(1, 1, 1)
	cl.Radius = 0.5
}

func (cl *Collider) shape() physics.Shape {
	if cl.Shape == ColliderSphere {
		return &physics.Sphere{Radius: cl.Radius}
	}
	return &physics.Box{Size: cl.Size}
}

func (cl *Collider) Init(w *xyz.World) error {
	cl.link(w)
	return nil
}

// link attaches the shape to the rigid body of the object, or to an
// own static body when there is none.
func (cl *Collider) link(w *xyz.World) {
	if rb, ok := xyz.FirstComponent[RigidBody](w, cl.Parent()); ok {
		if bd := rb.Body(w); bd != nil {
			bd.Shape = cl.shape()
			return
		}
	}
	if !cl.handle.IsNil() {
		return
	}
	bd := physics.Body{Kind: physics.Static, Shape: cl.shape(), UserData: cl.Parent()}
	cl.handle = w.Physics().AddBody(bd)
	cl.sync(w)
}

// unlink removes the own static body.
func (cl *Collider) unlink(w *xyz.World) {
	if cl.handle.IsNil() {
		return
	}
	w.Physics().RemoveBody(cl.handle)
	cl.handle = physics.BodyHandle{}
}

func (cl *Collider) sync(w *xyz.World) {
	bd := w.Physics().Body(cl.handle)
	if bd == nil {
		return
	}
	if m, ok := w.WorldMatrix(cl.Parent()); ok {
		bd.State.SetPoseMatrix(&m)
	}
}

func (cl *Collider) PreFixedUpdate(w *xyz.World) error {
	cl.sync(w)
	return nil
}

func (cl *Collider) Update(w *xyz.World) error {
	cl.sync(w)
	return nil
}

func (cl *Collider) Delete(w *xyz.World) {
	cl.unlink(w)
	if rb, ok := xyz.FirstComponent[RigidBody](w, cl.Parent()); ok {
		if bd := rb.Body(w); bd != nil {
			bd.Shape = nil
		}
	}
}
