// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"slices"

	"cogentcore.org/engine/assets"
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/slotmap"
)

// ObjectID identifies a scene object in its [World]. It is a
// generation-stamped slot key, so an id captured before the object
// was reclaimed never resolves to a later object in the same slot.
// The zero ObjectID is nil and never refers to an object.
type ObjectID struct {
	key slotmap.Key
}

// IsNil returns whether the id is the nil id.
func (id ObjectID) IsNil() bool {
	return id.key.IsNil()
}

// Key returns the underlying slot key.
func (id ObjectID) Key() slotmap.Key {
	return id.key
}

// Uint64 packs the id into a single integer, for use across the
// render boundary and as physics user data.
func (id ObjectID) Uint64() uint64 {
	return uint64(id.key.Index)<<32 | uint64(id.key.Generation)
}

// ObjectIDFromUint64 unpacks an id packed with [ObjectID.Uint64].
func ObjectIDFromUint64(v uint64) ObjectID {
	return ObjectID{key: slotmap.Key{Index: uint32(v >> 32), Generation: uint32(v)}}
}

func (id ObjectID) String() string {
	if id.IsNil() {
		return "Object(nil)"
	}
	return fmt.Sprintf("Object(%d:%d)", id.key.Index, id.key.Generation)
}

// Drawable is the optional renderable attachment of an [Object]:
// asset handles resolved by the render goroutine.
type Drawable struct {
	Mesh     assets.HMesh
	Material assets.HMaterial

	// Visible is whether the drawable is included in frame snapshots.
	Visible bool
}

// Object is one node of the scene hierarchy. Objects are owned by
// their [World] and addressed by [ObjectID]; they never hold pointers
// to other objects or to components, only ids resolved through the world.
type Object struct {
	// Name is the display name, used by [World.FindObjectByName].
	Name string

	// Transform is the local transform relative to the parent.
	Transform Transform

	// Drawable is the optional renderable attachment.
	Drawable *Drawable

	// Props holds arbitrary custom properties.
	Props map[string]any

	id         ObjectID
	parent     ObjectID
	inRoot     bool
	children   []ObjectID
	components []ComponentID

	strong   int
	deleted  bool
	deleting bool
	active   bool

	world       math32.Matrix4
	stamp       uint64
	cacheLocal  uint64
	cacheParent ObjectID
	cacheStamp  uint64
}

// ID returns the id of the object.
func (o *Object) ID() ObjectID {
	return o.id
}

// Parent returns the parent id; it is nil for root-level
// and unattached objects.
func (o *Object) Parent() ObjectID {
	return o.parent
}

// Children returns a copy of the ordered child ids.
func (o *Object) Children() []ObjectID {
	return slices.Clone(o.children)
}

// NumChildren returns the number of children.
func (o *Object) NumChildren() int {
	return len(o.children)
}

// Components returns a copy of the ordered component ids.
func (o *Object) Components() []ComponentID {
	return slices.Clone(o.components)
}

// IsAttached returns whether the object is in the scene tree,
// either at the root level or under a parent.
func (o *Object) IsAttached() bool {
	return o.inRoot || !o.parent.IsNil()
}

// IsDeleted returns whether the object has been logically deleted.
// A deleted object is only reachable through a [StrongRef].
func (o *Object) IsDeleted() bool {
	return o.deleted
}

// IsDeleting returns whether the object is being deleted: it is set
// while the Delete hooks of its components run.
func (o *Object) IsDeleting() bool {
	return o.deleting || o.deleted
}

// IsActive returns whether the object takes part in hook passes.
// Objects created during a tick become active at the end of it.
func (o *Object) IsActive() bool {
	return o.active
}

// StrongCount returns the number of outstanding strong references.
func (o *Object) StrongCount() int {
	return o.strong
}

// SetProp sets a custom property.
func (o *Object) SetProp(key string, value any) {
	if o.Props == nil {
		o.Props = map[string]any{}
	}
	o.Props[key] = value
}

// Prop returns a custom property.
func (o *Object) Prop(key string) (any, bool) {
	v, ok := o.Props[key]
	return v, ok
}

// SetDrawable attaches a visible drawable with the given mesh and material.
func (o *Object) SetDrawable(mesh assets.HMesh, mat assets.HMaterial) *Drawable {
	o.Drawable = &Drawable{Mesh: mesh, Material: mat, Visible: true}
	return o.Drawable
}
