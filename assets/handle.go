// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import "fmt"

// H is an opaque, typed handle into a [Store] of T.
// Handles are plain integer keys that can be copied freely
// across goroutines; the zero handle is nil.
type H[T any] struct {
	id uint32
}

// Handle types for each asset kind.
type (
	HMesh     = H[Mesh]
	HMaterial = H[Material]
	HShader   = H[Shader]
	HTexture  = H[Texture]
	HSound    = H[Sound]
)

// ID returns the raw integer key of the handle.
func (h H[T]) ID() uint32 {
	return h.id
}

// IsNil returns true if this is the zero handle.
func (h H[T]) IsNil() bool {
	return h.id == 0
}

func (h H[T]) String() string {
	var zero T
	return fmt.Sprintf("%T#%d", zero, h.id)
}
