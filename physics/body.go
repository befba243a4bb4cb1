// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/slotmap"
)

// BodyKinds are the ways a body participates in the simulation.
type BodyKinds int32

const (
	// Dynamic bodies are moved by the simulation.
	Dynamic BodyKinds = iota

	// Kinematic bodies are moved by the scene and are not
	// affected by gravity, but have velocity.
	Kinematic

	// Static bodies never move.
	Static
)

func (bk BodyKinds) String() string {
	switch bk {
	case Dynamic:
		return "Dynamic"
	case Kinematic:
		return "Kinematic"
	case Static:
		return "Static"
	}
	return "BodyKinds(?)"
}

// BodyHandle identifies a body in a [World]. Handles of removed
// bodies never resolve again.
type BodyHandle struct {
	key slotmap.Key
}

// IsNil returns true if this is the zero handle.
func (bh BodyHandle) IsNil() bool {
	return bh.key.IsNil()
}

func (bh BodyHandle) String() string {
	return "body:" + bh.key.String()
}

// Body is a rigid body in the simulation.
type Body struct {
	Kind BodyKinds

	// Shape is the collision shape; nil bodies are not ray castable.
	Shape Shape

	// State is the world-space physical state.
	State State

	// Mass in kilograms; only used for impulses.
	Mass float32

	// LinearDamping and AngularDamping are the fraction of
	// velocity lost per second.
	LinearDamping  float32
	AngularDamping float32

	// GravityScale multiplies the world gravity for this body.
	GravityScale float32

	// UserData is an opaque value returned in ray cast hits,
	// typically the owning scene object.
	UserData any
}

// Defaults sets default body parameters.
func (bd *Body) Defaults() {
	bd.State.Defaults()
	if bd.Mass == 0 {
		bd.Mass = 1
	}
	bd.GravityScale = 1
}

// ApplyImpulse changes the linear velocity by impulse / mass.
func (bd *Body) ApplyImpulse(impulse math32.Vector3) {
	if bd.Kind != Dynamic || bd.Mass <= 0 {
		return
	}
	bd.State.LinVel.SetAdd(impulse.DivScalar(bd.Mass))
}
