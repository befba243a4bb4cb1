// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"cogentcore.org/engine/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltins(t *testing.T) {
	as := New()
	cube, ok := as.Meshes.Get(MeshCube)
	require.True(t, ok)
	assert.Equal(t, 12, cube.NumTriangles())
	assert.Equal(t, math32.B3(-0.5, -0.5, -0.5, 0.5, 0.5, 0.5), cube.Bounds)

	h, ok := as.Meshes.FindByName("sphere")
	assert.True(t, ok)
	assert.Equal(t, MeshSphere, h)

	assert.True(t, as.Materials.IsBuiltin(MaterialFallback))
	assert.False(t, as.Materials.Remove(MaterialDefault), "builtins cannot be removed")

	// builtins are dirty until the renderer first drains them
	assert.Len(t, as.Meshes.PopDirty(), 3)
	assert.Empty(t, as.Meshes.PopDirty())
}

func TestStoreFallback(t *testing.T) {
	as := New()
	mt, fell := as.Materials.GetOrFallback(HMaterial{id: 999})
	assert.True(t, fell)
	assert.Equal(t, "fallback", mt.Name)

	mt, fell = as.Materials.GetOrFallback(MaterialDefault)
	assert.False(t, fell)
	assert.Equal(t, "default", mt.Name)
}

func TestStoreDirty(t *testing.T) {
	st := NewStore[Shader]()
	a := st.Add(Shader{Name: "a", Source: "x"})
	b := st.AddNamed("b", Shader{Name: "b", Source: "y"})
	assert.Equal(t, []HShader{a, b}, st.PopDirty())

	// unchanged content does not mark dirty
	require.NoError(t, st.Set(a, Shader{Name: "a", Source: "x"}))
	assert.Empty(t, st.PopDirty())

	require.NoError(t, st.Set(a, Shader{Name: "a", Source: "z"}))
	require.NoError(t, st.Update(b, func(sh *Shader) { sh.Source = "w" }))
	assert.Equal(t, []HShader{a, b}, st.PopDirty())

	assert.True(t, st.Remove(a))
	assert.Equal(t, []HShader{a}, st.PopDirty())
	_, ok := st.Get(a)
	assert.False(t, ok)
	assert.ErrorIs(t, st.Set(a, Shader{}), ErrNotFound)
}

func TestStoreShared(t *testing.T) {
	st := NewStore[Mesh]()
	a := st.AddShared(*NewQuad(1, 1))
	b := st.AddShared(*NewQuad(1, 1))
	c := st.AddShared(*NewQuad(2, 1))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 2, st.Len())
}

func TestStoreConcurrent(t *testing.T) {
	st := NewStore[Texture]()
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				h := st.Add(Texture{Width: 1, Height: 1, Pixels: []byte{1, 2, 3, 4}})
				st.Get(h)
				st.PopDirty()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, st.Len())
}

func TestShaderReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lit.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	as := New()
	h, err := as.LoadShaderFile(path)
	require.NoError(t, err)
	as.Shaders.PopDirty()

	n, err := as.ReloadShaderFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "unchanged source is not reloaded")

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	n, err = as.ReloadShaderFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	sh, _ := as.Shaders.Get(h)
	assert.Equal(t, "v2", sh.Source)
	assert.Equal(t, []HShader{h}, as.Shaders.PopDirty())
}
