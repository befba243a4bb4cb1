// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"encoding/binary"
	"image/color"
	"math"

	"cogentcore.org/engine/math32"
	"github.com/cespare/xxhash/v2"
	"github.com/faiface/beep"
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Positions []math32.Vector3
	Normals   []math32.Vector3
	UVs       []math32.Vector2
	Indices   []uint32

	// Bounds is the bounding box of Positions, computed by [Mesh.ComputeBounds].
	Bounds math32.Box3
}

// ComputeBounds sets Bounds from Positions.
func (ms *Mesh) ComputeBounds() {
	ms.Bounds.SetEmpty()
	for _, p := range ms.Positions {
		ms.Bounds.ExpandByPoint(p)
	}
}

// NumTriangles returns the number of indexed triangles.
func (ms *Mesh) NumTriangles() int {
	return len(ms.Indices) / 3
}

// Hash returns the xxhash digest of the vertex and index data.
func (ms *Mesh) Hash() uint64 {
	d := xxhash.New()
	var b [4]byte
	f := func(v float32) {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		d.Write(b[:])
	}
	for _, p := range ms.Positions {
		f(p.X)
		f(p.Y)
		f(p.Z)
	}
	for _, n := range ms.Normals {
		f(n.X)
		f(n.Y)
		f(n.Z)
	}
	for _, uv := range ms.UVs {
		f(uv.X)
		f(uv.Y)
	}
	for _, i := range ms.Indices {
		binary.LittleEndian.PutUint32(b[:], i)
		d.Write(b[:])
	}
	return d.Sum64()
}

// Material describes the surface properties used to shade a mesh.
type Material struct {
	Name string

	// Color is the base color; its alpha is the opacity.
	Color color.RGBA

	// Emissive is the color emitted independent of any lighting.
	Emissive color.RGBA

	Metallic  float32
	Roughness float32

	// Texture is an optional base color texture.
	Texture HTexture

	// Shader is the shader program; nil uses the default shader.
	Shader HShader
}

// Defaults sets the default material values.
func (mt *Material) Defaults() {
	mt.Color = color.RGBA{200, 200, 200, 255}
	mt.Roughness = 0.5
}

// Shader is the source of a shader program.
type Shader struct {
	Name   string
	Source string

	// Path is the file the source was loaded from, if any,
	// and is used for hot reloading.
	Path string
}

// Hash returns the xxhash digest of the shader source.
func (sh *Shader) Hash() uint64 {
	return xxhash.Sum64String(sh.Source)
}

// Texture is an RGBA8 image.
type Texture struct {
	Width  int
	Height int
	Pixels []byte
}

// Hash returns the xxhash digest of the texture size and pixels.
func (tx *Texture) Hash() uint64 {
	d := xxhash.New()
	var b [8]byte
	binary.LittleEndian.PutUint32(b[:4], uint32(tx.Width))
	binary.LittleEndian.PutUint32(b[4:], uint32(tx.Height))
	d.Write(b[:])
	d.Write(tx.Pixels)
	return d.Sum64()
}

// Sound is a decoded audio clip held in memory.
type Sound struct {
	Name   string
	Buffer *beep.Buffer
}

// Duration returns the length of the sound.
func (sd *Sound) Duration() float64 {
	if sd.Buffer == nil {
		return 0
	}
	return sd.Buffer.Format().SampleRate.D(sd.Buffer.Len()).Seconds()
}
