// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package components

import (
	"errors"
	"fmt"

	"cogentcore.org/engine/physics"
	"cogentcore.org/engine/xyz"
)

// ErrNoRigidBody is returned when a joint end has no [RigidBody].
var ErrNoRigidBody = errors.New("components: object has no rigid body")

// joint is the connection shared by [Rope] and [Spring].
type joint struct {
	connected xyz.ObjectID
	handle    physics.JointHandle
}

// connect joins the rigid bodies of the two objects, replacing any
// previous connection.
func (jn *joint) connect(w *xyz.World, self, other xyz.ObjectID, jt physics.Joint) error {
	if _, ok := w.Object(other); !ok {
		return xyz.ErrStaleID
	}
	a, ok := xyz.FirstComponent[RigidBody](w, self)
	if !ok {
		return fmt.Errorf("%v: %w", self, ErrNoRigidBody)
	}
	b, ok := xyz.FirstComponent[RigidBody](w, other)
	if !ok {
		return fmt.Errorf("%v: %w", other, ErrNoRigidBody)
	}
	jn.disconnect(w)
	jt.A, jt.B = a.Handle(), b.Handle()
	jn.handle = w.Physics().AddJoint(jt)
	jn.connected = other
	return nil
}

func (jn *joint) disconnect(w *xyz.World) {
	if jn.handle.IsNil() {
		return
	}
	w.Physics().RemoveJoint(jn.handle)
	jn.handle = physics.JointHandle{}
	jn.connected = xyz.ObjectID{}
}

// update changes the parameters of a live joint.
func (jn *joint) update(w *xyz.World, fn func(jt *physics.Joint)) {
	if jt := w.Physics().Joint(jn.handle); jt != nil {
		fn(jt)
	}
}

// Rope keeps the rigid body of its object at most Length away from
// the rigid body of a connected object.
type Rope struct {
	xyz.ComponentBase

	Length float32 `yaml:"length"`

	joint joint
}

func (rp *Rope) Defaults() {
	rp.Length = 10
}

// ConnectTo ties the rope to the rigid body of the other object.
func (rp *Rope) ConnectTo(w *xyz.World, other xyz.ObjectID) error {
	err := rp.joint.connect(w, rp.Parent(), other, physics.Joint{Kind: physics.Rope, Length: rp.Length})
	if err != nil {
		return fmt.Errorf("components.Rope.ConnectTo: %w", err)
	}
	return nil
}

// Connected returns the object the rope is tied to.
func (rp *Rope) Connected() (xyz.ObjectID, bool) {
	return rp.joint.connected, !rp.joint.handle.IsNil()
}

// SetLength sets the maximum distance.
func (rp *Rope) SetLength(w *xyz.World, length float32) {
	rp.Length = length
	rp.joint.update(w, func(jt *physics.Joint) { jt.Length = length })
}

func (rp *Rope) Disconnect(w *xyz.World) {
	rp.joint.disconnect(w)
}

func (rp *Rope) Delete(w *xyz.World) {
	rp.joint.disconnect(w)
}

// Spring pulls the rigid body of its object toward RestLength away
// from the rigid body of a connected object.
type Spring struct {
	xyz.ComponentBase

	RestLength float32 `yaml:"rest_length"`
	Stiffness  float32 `yaml:"stiffness"`
	Damping    float32 `yaml:"damping"`

	joint joint
}

func (sp *Spring) Defaults() {
	sp.RestLength = 10
	sp.Stiffness = 10
	sp.Damping = 1
}

// ConnectTo attaches the spring to the rigid body of the other object.
func (sp *Spring) ConnectTo(w *xyz.World, other xyz.ObjectID) error {
	err := sp.joint.connect(w, sp.Parent(), other, sp.params())
	if err != nil {
		return fmt.Errorf("components.Spring.ConnectTo: %w", err)
	}
	return nil
}

func (sp *Spring) params() physics.Joint {
	return physics.Joint{Kind: physics.Spring, Length: sp.RestLength, Stiffness: sp.Stiffness, Damping: sp.Damping}
}

// Connected returns the object the spring is attached to.
func (sp *Spring) Connected() (xyz.ObjectID, bool) {
	return sp.joint.connected, !sp.joint.handle.IsNil()
}

// SetParams sets the rest length, stiffness and damping.
func (sp *Spring) SetParams(w *xyz.World, restLength, stiffness, damping float32) {
	sp.RestLength, sp.Stiffness, sp.Damping = restLength, stiffness, damping
	p := sp.params()
	sp.joint.update(w, func(jt *physics.Joint) {
		jt.Length, jt.Stiffness, jt.Damping = p.Length, p.Stiffness, p.Damping
	})
}

func (sp *Spring) Disconnect(w *xyz.World) {
	sp.joint.disconnect(w)
}

func (sp *Spring) Delete(w *xyz.World) {
	sp.joint.disconnect(w)
}
