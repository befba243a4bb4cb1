// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assets provides the CPU-side asset stores shared by the
// logic and render goroutines. Scene objects reference assets only
// through typed integer handles; the render goroutine materializes
// GPU resources for them lazily.
package assets

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
)

// Builtin asset handles, valid in every [Assets] returned by [New].
var (
	MeshCube   = HMesh{id: 1}
	MeshSphere = HMesh{id: 2}
	MeshQuad   = HMesh{id: 3}

	ShaderDefault  = HShader{id: 1}
	ShaderFallback = HShader{id: 2}

	MaterialDefault  = HMaterial{id: 1}
	MaterialFallback = HMaterial{id: 2}

	TextureFallback = HTexture{id: 1}
)

// DefaultShaderSource is the source of [ShaderDefault].
const DefaultShaderSource = `// default lit shader
@vertex fn vs_main() {}
@fragment fn fs_main() {}
`

// FallbackShaderSource is the source of [ShaderFallback],
// which draws everything in a flat color.
const FallbackShaderSource = `// fallback flat shader
@vertex fn vs_main() {}
@fragment fn fs_main() {}
`

// Assets bundles the stores for every asset kind.
type Assets struct {
	Meshes    *Store[Mesh]
	Materials *Store[Material]
	Shaders   *Store[Shader]
	Textures  *Store[Texture]
	Sounds    *Store[Sound]
}

// New returns a new set of stores populated with the builtin assets,
// which are also the fallbacks for failed lookups.
func New() *Assets {
	as := &Assets{
		Meshes:    NewStore[Mesh](),
		Materials: NewStore[Material](),
		Shaders:   NewStore[Shader](),
		Textures:  NewStore[Texture](),
		Sounds:    NewStore[Sound](),
	}
	mustBe(MeshCube, as.Meshes.AddNamed("cube", *NewCube(1)))
	mustBe(MeshSphere, as.Meshes.AddNamed("sphere", *NewSphere(0.5, 32, 16)))
	mustBe(MeshQuad, as.Meshes.AddNamed("quad", *NewQuad(1, 1)))

	mustBe(ShaderDefault, as.Shaders.AddNamed("default", Shader{Name: "default", Source: DefaultShaderSource}))
	mustBe(ShaderFallback, as.Shaders.AddNamed("fallback", Shader{Name: "fallback", Source: FallbackShaderSource}))

	def := Material{Name: "default"}
	def.Defaults()
	mustBe(MaterialDefault, as.Materials.AddNamed("default", def))
	mustBe(MaterialFallback, as.Materials.AddNamed("fallback", Material{
		Name: "fallback", Color: color.RGBA{255, 0, 255, 255}, Shader: ShaderFallback}))

	mustBe(TextureFallback, as.Textures.AddNamed("fallback",
		*NewCheckerTexture(8, 4, [4]byte{255, 0, 255, 255}, [4]byte{0, 0, 0, 255})))

	as.Meshes.SetFallback(MeshCube)
	as.Materials.SetFallback(MaterialFallback)
	as.Shaders.SetFallback(ShaderFallback)
	as.Textures.SetFallback(TextureFallback)

	as.Meshes.sealBuiltins()
	as.Materials.sealBuiltins()
	as.Shaders.sealBuiltins()
	as.Textures.sealBuiltins()
	as.Sounds.sealBuiltins()
	return as
}

func mustBe[T any](want, have H[T]) {
	if want != have {
		panic(fmt.Sprintf("assets: builtin %v was issued as %v", want, have))
	}
}

// LoadShaderFile reads a shader source file and adds it to the
// shader store, named by its base file name.
func (as *Assets) LoadShaderFile(path string) (HShader, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return HShader{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return HShader{}, err
	}
	name := filepath.Base(path)
	return as.Shaders.AddNamed(name, Shader{Name: name, Source: string(src), Path: abs}), nil
}

// ReloadShaderFile re-reads every shader loaded from the given path
// and marks the changed ones dirty. It returns the number of shaders
// that changed.
func (as *Assets) ReloadShaderFile(path string) (int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	var src []byte
	n := 0
	for h, sh := range as.Shaders.All() {
		if sh.Path != abs {
			continue
		}
		if src == nil {
			if src, err = os.ReadFile(abs); err != nil {
				return n, err
			}
		}
		if sh.Source == string(src) {
			continue
		}
		sh.Source = string(src)
		if err := as.Shaders.Set(h, sh); err != nil {
			return n, err
		}
		slog.Info("assets.Assets.ReloadShaderFile", "shader", sh.Name, "path", abs)
		n++
	}
	return n, nil
}
