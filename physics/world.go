// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package physics provides the physics collaborator of the scene:
// a [World] interface that is stepped at a fixed rate and answers ray
// queries, and [Simulator], a simple built-in implementation that
// integrates rigid bodies under gravity without collision response.
package physics

import (
	"cmp"
	"slices"

	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/slotmap"
)

// DefaultGravity is the default gravity, in m/s^2 along -Y.
var DefaultGravity = math32.Vec3(0, -9.81, 0)

// Hit is the result of a ray cast.
type Hit struct {
	// TOI is the time of impact: the distance along the
	// normalized ray direction to the hit point.
	TOI float32

	// Body is the body that was hit.
	Body BodyHandle

	// UserData is the user data of the hit body.
	UserData any
}

// World is the physics world consumed by the scene. Scene components
// own bodies through handles; the scene pushes kinematic poses before
// each step and pulls dynamic poses after it.
type World interface {
	// Step advances the simulation by dt seconds.
	Step(dt float32)

	// CastRay returns the closest hit along the ray within maxTOI.
	CastRay(ray math32.Ray, maxTOI float32) (Hit, bool)

	// AddBody adds a body and returns its handle.
	AddBody(body Body) BodyHandle

	// RemoveBody removes a body; stale handles are ignored.
	RemoveBody(h BodyHandle) bool

	// Body returns the body for the handle for in-place access, or nil
	// if the handle is stale.
	Body(h BodyHandle) *Body

	// SetGravity sets the world gravity.
	SetGravity(g math32.Vector3)

	// NumBodies returns the number of bodies.
	NumBodies() int

	// AddJoint connects two bodies and returns the joint handle.
	AddJoint(jt Joint) JointHandle

	// RemoveJoint removes a joint; stale handles are ignored.
	RemoveJoint(h JointHandle) bool

	// Joint returns the joint for in-place access, or nil if the
	// handle is stale.
	Joint(h JointHandle) *Joint

	// NumJoints returns the number of joints.
	NumJoints() int
}

// Simulator is the built-in [World]: semi-implicit Euler integration
// of velocities under gravity with damping.
type Simulator struct {
	Gravity math32.Vector3

	bodies *slotmap.Map[*Body]
	joints *slotmap.Map[*Joint]

	// Steps is the number of steps taken.
	Steps int
}

// NewSimulator returns a new [Simulator] with default gravity.
func NewSimulator() *Simulator {
	return &Simulator{Gravity: DefaultGravity, bodies: slotmap.New[*Body](), joints: slotmap.New[*Joint]()}
}

// Step applies spring forces, integrates every body and then
// resolves taut ropes. Joints whose bodies are gone are skipped.
func (sm *Simulator) Step(dt float32) {
	for _, jt := range sm.joints.All() {
		if a, b, ok := sm.jointBodies(jt); ok && jt.Kind == Spring {
			jt.applySpring(a, b, dt)
		}
	}
	for _, bd := range sm.bodies.All() {
		if bd.Kind == Static {
			continue
		}
		if bd.Kind == Dynamic {
			bd.State.LinVel.SetAdd(sm.Gravity.MulScalar(bd.GravityScale * dt))
			if bd.LinearDamping > 0 {
				bd.State.LinVel = bd.State.LinVel.MulScalar(math32.Max(0, 1-bd.LinearDamping*dt))
			}
			if bd.AngularDamping > 0 {
				bd.State.AngVel = bd.State.AngVel.MulScalar(math32.Max(0, 1-bd.AngularDamping*dt))
			}
		}
		bd.State.StepByLinVel(dt)
		bd.State.StepByAngVel(dt)
	}
	for _, jt := range sm.joints.All() {
		if a, b, ok := sm.jointBodies(jt); ok && jt.Kind == Rope {
			jt.solveRope(a, b)
		}
	}
	sm.Steps++
}

func (sm *Simulator) CastRay(ray math32.Ray, maxTOI float32) (Hit, bool) {
	var hits []Hit
	for k, bd := range sm.bodies.All() {
		if bd.Shape == nil {
			continue
		}
		if _, ok := ray.IntersectBox(bd.Shape.BBox(&bd.State)); !ok {
			continue
		}
		toi, ok := bd.Shape.IntersectRay(ray, &bd.State)
		if !ok || toi > maxTOI {
			continue
		}
		hits = append(hits, Hit{TOI: toi, Body: BodyHandle{key: k}, UserData: bd.UserData})
	}
	if len(hits) == 0 {
		return Hit{}, false
	}
	return slices.MinFunc(hits, func(a, b Hit) int { return cmp.Compare(a.TOI, b.TOI) }), true
}

func (sm *Simulator) AddBody(body Body) BodyHandle {
	body.State.Defaults()
	bd := body
	return BodyHandle{key: sm.bodies.Insert(&bd)}
}

func (sm *Simulator) RemoveBody(h BodyHandle) bool {
	_, ok := sm.bodies.Remove(h.key)
	return ok
}

func (sm *Simulator) Body(h BodyHandle) *Body {
	bd, ok := sm.bodies.Get(h.key)
	if !ok {
		return nil
	}
	return bd
}

func (sm *Simulator) SetGravity(g math32.Vector3) {
	sm.Gravity = g
}

func (sm *Simulator) NumBodies() int {
	return sm.bodies.Len()
}
