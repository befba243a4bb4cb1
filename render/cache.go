// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"log/slog"

	"cogentcore.org/engine/assets"
)

// Cache is the GPU-resident mirror of the asset stores. Resources are
// created lazily the first time a handle is drawn and recreated after
// the store marks the asset dirty. Handles that do not resolve are
// drawn with the store fallback. Cache is owned by the render goroutine.
type Cache struct {
	assets *assets.Assets
	device Device

	meshes    map[assets.HMesh]ResourceID
	materials map[assets.HMaterial]ResourceID
	shaders   map[assets.HShader]ResourceID
	textures  map[assets.HTexture]ResourceID

	warned map[string]bool
}

// NewCache returns a new empty [Cache].
func NewCache(as *assets.Assets, dev Device) *Cache {
	return &Cache{
		assets:    as,
		device:    dev,
		meshes:    map[assets.HMesh]ResourceID{},
		materials: map[assets.HMaterial]ResourceID{},
		shaders:   map[assets.HShader]ResourceID{},
		textures:  map[assets.HTexture]ResourceID{},
		warned:    map[string]bool{},
	}
}

// evict releases the cached resources of the given handles.
func evict[T any](dev Device, m map[assets.H[T]]ResourceID, hs []assets.H[T]) int {
	n := 0
	for _, h := range hs {
		if id, ok := m[h]; ok {
			dev.Release(id)
			delete(m, h)
			n++
		}
	}
	return n
}

// Refresh drains the dirty lists of the stores and evicts the stale
// resources, so that they are recreated on next use. Materials are
// evicted whenever a shader or texture they may bind changed.
func (ch *Cache) Refresh() {
	evict(ch.device, ch.meshes, ch.assets.Meshes.PopDirty())
	evict(ch.device, ch.materials, ch.assets.Materials.PopDirty())
	ns := evict(ch.device, ch.shaders, ch.assets.Shaders.PopDirty())
	nt := evict(ch.device, ch.textures, ch.assets.Textures.PopDirty())
	if ns+nt > 0 {
		for h, id := range ch.materials {
			ch.device.Release(id)
			delete(ch.materials, h)
		}
	}
}

func (ch *Cache) warnFallback(h fmt.Stringer) {
	key := h.String()
	if ch.warned[key] {
		return
	}
	ch.warned[key] = true
	slog.Warn("render.Cache: missing asset, using fallback", "handle", key)
}

// Mesh returns the resource for the mesh handle, creating it if needed.
func (ch *Cache) Mesh(h assets.HMesh) (ResourceID, error) {
	if id, ok := ch.meshes[h]; ok {
		return id, nil
	}
	ms, fell := ch.assets.Meshes.GetOrFallback(h)
	if fell {
		fb := ch.assets.Meshes.Fallback()
		if fb == h {
			return 0, fmt.Errorf("render.Cache.Mesh %v: %w", h, assets.ErrNotFound)
		}
		ch.warnFallback(h)
		return ch.Mesh(fb)
	}
	id, err := ch.device.CreateMesh(&ms)
	if err != nil {
		return 0, err
	}
	ch.meshes[h] = id
	return id, nil
}

// Shader returns the resource for the shader handle; the nil handle
// is the default shader.
func (ch *Cache) Shader(h assets.HShader) (ResourceID, error) {
	if h.IsNil() {
		h = assets.ShaderDefault
	}
	if id, ok := ch.shaders[h]; ok {
		return id, nil
	}
	sh, fell := ch.assets.Shaders.GetOrFallback(h)
	if fell {
		fb := ch.assets.Shaders.Fallback()
		if fb == h {
			return 0, fmt.Errorf("render.Cache.Shader %v: %w", h, assets.ErrNotFound)
		}
		ch.warnFallback(h)
		return ch.Shader(fb)
	}
	id, err := ch.device.CreateShader(&sh)
	if err != nil {
		return 0, err
	}
	ch.shaders[h] = id
	return id, nil
}

// Texture returns the resource for the texture handle.
func (ch *Cache) Texture(h assets.HTexture) (ResourceID, error) {
	if id, ok := ch.textures[h]; ok {
		return id, nil
	}
	tx, fell := ch.assets.Textures.GetOrFallback(h)
	if fell {
		fb := ch.assets.Textures.Fallback()
		if fb == h {
			return 0, fmt.Errorf("render.Cache.Texture %v: %w", h, assets.ErrNotFound)
		}
		ch.warnFallback(h)
		return ch.Texture(fb)
	}
	id, err := ch.device.CreateTexture(&tx)
	if err != nil {
		return 0, err
	}
	ch.textures[h] = id
	return id, nil
}

// Material returns the resource for the material handle, creating
// its shader and texture first.
func (ch *Cache) Material(h assets.HMaterial) (ResourceID, error) {
	if id, ok := ch.materials[h]; ok {
		return id, nil
	}
	mt, fell := ch.assets.Materials.GetOrFallback(h)
	if fell {
		fb := ch.assets.Materials.Fallback()
		if fb == h {
			return 0, fmt.Errorf("render.Cache.Material %v: %w", h, assets.ErrNotFound)
		}
		ch.warnFallback(h)
		return ch.Material(fb)
	}
	sid, err := ch.Shader(mt.Shader)
	if err != nil {
		return 0, err
	}
	var tid ResourceID
	if !mt.Texture.IsNil() {
		if tid, err = ch.Texture(mt.Texture); err != nil {
			return 0, err
		}
	}
	id, err := ch.device.CreateMaterial(&mt, sid, tid)
	if err != nil {
		return 0, err
	}
	ch.materials[h] = id
	return id, nil
}

// Len returns the number of cached resources.
func (ch *Cache) Len() int {
	return len(ch.meshes) + len(ch.materials) + len(ch.shaders) + len(ch.textures)
}

// Release releases every cached resource.
func (ch *Cache) Release() {
	for _, id := range ch.meshes {
		ch.device.Release(id)
	}
	for _, id := range ch.materials {
		ch.device.Release(id)
	}
	for _, id := range ch.shaders {
		ch.device.Release(id)
	}
	for _, id := range ch.textures {
		ch.device.Release(id)
	}
	clear(ch.meshes)
	clear(ch.materials)
	clear(ch.shaders)
	clear(ch.textures)
}
