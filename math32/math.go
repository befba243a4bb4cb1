// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package math32 is the float32 3D math used by the engine: vectors,
// quaternions, 4x4 transform matrices, rays and boxes. Scalar functions
// forward to github.com/chewxy/math32.
package math32

import (
	"math"

	"github.com/chewxy/math32"
)

// Pi is the float32 value of pi.
const Pi = math.Pi

// Infinity is positive float32 infinity.
var Infinity = float32(math.Inf(1))

// DegToRad converts degrees to radians.
func DegToRad(degrees float32) float32 {
	return degrees * (Pi / 180)
}

// Scalar functions of github.com/chewxy/math32.
var (
	Abs   = math32.Abs
	Sqrt  = math32.Sqrt
	Sin   = math32.Sin
	Cos   = math32.Cos
	Tan   = math32.Tan
	Log10 = math32.Log10
	Min   = math32.Min
	Max   = math32.Max
	Mod   = math32.Mod
)

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	return Min(Max(x, lo), hi)
}

// Lerp returns the value alpha of the way from a to b.
func Lerp(a, b, alpha float32) float32 {
	return a + (b-a)*alpha
}
