// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package audio

import (
	"cogentcore.org/engine/math32"
)

// MinDB is the floor of [VolumeToDB], treated as silence.
const MinDB = -60

// VolumeLinear returns the linear distance attenuation for a source at
// the given distance from the listener: 1 at the listener, falling to
// 0 at maxDistance and beyond.
func VolumeLinear(distance, maxDistance float32) float32 {
	if maxDistance <= 0 || distance >= maxDistance {
		return 0
	}
	return math32.Clamp(1-distance/maxDistance, 0, 1)
}

// VolumeToDB converts a linear volume to decibels, clamped
// to [MinDB, 0].
func VolumeToDB(volume float32) float32 {
	if volume <= 0 {
		return MinDB
	}
	if volume >= 1 {
		return 0
	}
	return math32.Max(20*math32.Log10(volume), MinDB)
}

// Pan returns the stereo pan in [-1, 1] of a source at the given
// position for a listener at listenerPos oriented by listenerRot,
// where the listener's right is local +X.
func Pan(pos, listenerPos math32.Vector3, listenerRot math32.Quat) float32 {
	d := pos.Sub(listenerPos)
	dist := d.Length()
	if dist < 1e-6 {
		return 0
	}
	local := d.MulQuat(listenerRot.Inverse())
	return math32.Clamp(local.X/dist, -1, 1)
}
