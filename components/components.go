// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package components provides the built-in scene components: physics
// bodies and colliders, simple motion, cameras, lights, spatial audio,
// a fly camera, first person camera and movement controllers, and
// rope and spring joints. All of them are registered by name for
// data-driven construction.
package components

import "cogentcore.org/engine/xyz"

func init() {
	xyz.RegisterComponent[RigidBody]("RigidBody")
	xyz.RegisterComponent[Collider]("Collider")
	xyz.RegisterComponent[Rotate]("Rotate")
	xyz.RegisterComponent[Gravity]("Gravity")
	xyz.RegisterComponent[Camera]("Camera")
	xyz.RegisterComponent[Light]("Light")
	xyz.RegisterComponent[AudioEmitter]("AudioEmitter")
	xyz.RegisterComponent[AudioReceiver]("AudioReceiver")
	xyz.RegisterComponent[FreeCam]("FreeCam")
	xyz.RegisterComponent[FPCamera]("FPCamera")
	xyz.RegisterComponent[FPMovement]("FPMovement")
	xyz.RegisterComponent[Rope]("Rope")
	xyz.RegisterComponent[Spring]("Spring")
}
