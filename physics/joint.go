// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package physics

import (
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/slotmap"
)

// JointKinds are the kinds of [Joint].
type JointKinds int32

const (
	// Rope keeps two bodies at most Length apart.
	Rope JointKinds = iota

	// Spring pulls two bodies toward Length apart with a force
	// proportional to the stretch, damped along the joint axis.
	Spring
)

func (jk JointKinds) String() string {
	switch jk {
	case Rope:
		return "Rope"
	case Spring:
		return "Spring"
	}
	return "JointKinds(?)"
}

// JointHandle identifies a joint in a [World].
type JointHandle struct {
	key slotmap.Key
}

// IsNil returns true if this is the zero handle.
func (jh JointHandle) IsNil() bool {
	return jh.key.IsNil()
}

func (jh JointHandle) String() string {
	return "joint:" + jh.key.String()
}

// Joint connects the centers of two bodies.
type Joint struct {
	Kind JointKinds

	A, B BodyHandle

	// Length is the maximum distance of a rope
	// and the rest length of a spring.
	Length float32

	// Stiffness is the spring force per unit of stretch.
	Stiffness float32

	// Damping is the spring force per unit of relative
	// speed along the joint axis.
	Damping float32
}

// invMass returns the inverse mass of a body; bodies that are not
// moved by the simulation have none.
func invMass(bd *Body) float32 {
	if bd.Kind != Dynamic || bd.Mass <= 0 {
		return 0
	}
	return 1 / bd.Mass
}

// axis returns the unit vector from a to b and the distance.
func axis(a, b *Body) (math32.Vector3, float32) {
	d := b.State.Pos.Sub(a.State.Pos)
	dist := d.Length()
	if dist < 1e-6 {
		return math32.Vector3{}, 0
	}
	return d.DivScalar(dist), dist
}

// applySpring changes the velocities of a spring's bodies by the
// spring and damping forces over dt.
func (jt *Joint) applySpring(a, b *Body, dt float32) {
	ia, ib := invMass(a), invMass(b)
	if ia+ib == 0 {
		return
	}
	n, dist := axis(a, b)
	if dist == 0 {
		return
	}
	rel := b.State.LinVel.Sub(a.State.LinVel).Dot(n)
	force := jt.Stiffness*(dist-jt.Length) + jt.Damping*rel
	imp := n.MulScalar(force * dt)
	a.State.LinVel.SetAdd(imp.MulScalar(ia))
	b.State.LinVel.SetAdd(imp.MulScalar(-ib))
}

// solveRope pulls the bodies of a taut rope back to its length and
// removes their separating velocity.
func (jt *Joint) solveRope(a, b *Body) {
	ia, ib := invMass(a), invMass(b)
	if ia+ib == 0 {
		return
	}
	n, dist := axis(a, b)
	if dist <= jt.Length {
		return
	}
	over := dist - jt.Length
	a.State.Pos.SetAdd(n.MulScalar(over * ia / (ia + ib)))
	b.State.Pos.SetAdd(n.MulScalar(-over * ib / (ia + ib)))
	rel := b.State.LinVel.Sub(a.State.LinVel).Dot(n)
	if rel <= 0 {
		return
	}
	a.State.LinVel.SetAdd(n.MulScalar(rel * ia / (ia + ib)))
	b.State.LinVel.SetAdd(n.MulScalar(-rel * ib / (ia + ib)))
}

func (sm *Simulator) AddJoint(jt Joint) JointHandle {
	j := jt
	return JointHandle{key: sm.joints.Insert(&j)}
}

func (sm *Simulator) RemoveJoint(h JointHandle) bool {
	_, ok := sm.joints.Remove(h.key)
	return ok
}

func (sm *Simulator) Joint(h JointHandle) *Joint {
	jt, ok := sm.joints.Get(h.key)
	if !ok {
		return nil
	}
	return jt
}

func (sm *Simulator) NumJoints() int {
	return sm.joints.Len()
}

// jointBodies returns the bodies of the joint, or false if either
// of them is gone.
func (sm *Simulator) jointBodies(jt *Joint) (*Body, *Body, bool) {
	a, b := sm.Body(jt.A), sm.Body(jt.B)
	return a, b, a != nil && b != nil
}
