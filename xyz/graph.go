// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"cogentcore.org/engine/math32"
)

const (
	// Continue = true can be returned from tree iteration functions to continue
	// processing down the tree, as compared to Break = false which stops this branch.
	Continue = true

	// Break = false can be returned from tree iteration functions to stop processing
	// this branch of the tree.
	Break = false
)

// AddChild attaches the object at the root level of the scene.
func (w *World) AddChild(child ObjectID) error {
	return w.AddChildTo(ObjectID{}, child)
}

// AddChildTo attaches child under parent, or at the root level if
// parent is nil. The child is first detached from wherever it is, so
// this is also the only way to reparent. Attaching an object under
// itself or one of its descendants returns [ErrCycle]; stale ids
// return [ErrStaleID]. The tree is unchanged on error.
func (w *World) AddChildTo(parent, child ObjectID) error {
	c, ok := w.Object(child)
	if !ok {
		return fmt.Errorf("xyz.World.AddChildTo: child %v: %w", child, ErrStaleID)
	}
	if parent.IsNil() {
		w.detach(c)
		c.inRoot = true
		w.roots = append(w.roots, child)
		return nil
	}
	p, ok := w.Object(parent)
	if !ok {
		return fmt.Errorf("xyz.World.AddChildTo: parent %v: %w", parent, ErrStaleID)
	}
	if w.IsAncestor(child, parent) {
		return fmt.Errorf("xyz.World.AddChildTo %v under %v: %w", child, parent, ErrCycle)
	}
	w.detach(c)
	c.parent = parent
	p.children = append(p.children, child)
	return nil
}

// IsAncestor returns whether a is b or one of the ancestors of b.
func (w *World) IsAncestor(a, b ObjectID) bool {
	for id := b; !id.IsNil(); {
		if id == a {
			return true
		}
		o := w.objectAny(id)
		if o == nil {
			return false
		}
		id = o.parent
	}
	return false
}

// Detach removes the object from its parent, or from the root level.
// The object stays alive as an unattached orphan until it is attached
// again or deleted. Detaching an unattached object returns [ErrNotAttached].
func (w *World) Detach(child ObjectID) error {
	c, ok := w.Object(child)
	if !ok {
		return fmt.Errorf("xyz.World.Detach %v: %w", child, ErrStaleID)
	}
	if !c.IsAttached() {
		return fmt.Errorf("xyz.World.Detach %v: %w", child, ErrNotAttached)
	}
	w.detach(c)
	return nil
}

func (w *World) detach(c *Object) {
	if c.inRoot {
		w.roots = deleteID(w.roots, c.id)
		c.inRoot = false
	}
	if c.parent.IsNil() {
		return
	}
	if p := w.objectAny(c.parent); p != nil {
		p.children = deleteID(p.children, c.id)
	}
	c.parent = ObjectID{}
}

// Children returns the ids of the root-level objects in attach order.
func (w *World) Children() []ObjectID {
	return slices.Clone(w.roots)
}

// ChildrenOf returns the child ids of the object, in attach order.
func (w *World) ChildrenOf(id ObjectID) []ObjectID {
	o, ok := w.Object(id)
	if !ok {
		return nil
	}
	return o.Children()
}

// IsAttached returns whether the object is live and in the scene tree.
func (w *World) IsAttached(id ObjectID) bool {
	for {
		o, ok := w.Object(id)
		if !ok {
			return false
		}
		if o.inRoot {
			return true
		}
		if o.parent.IsNil() {
			return false
		}
		id = o.parent
	}
}

// WalkDown calls fn on every attached object in pre-order: a parent
// before its children, siblings in attach order. If fn returns
// [Break], the children of that object are skipped. fn must not
// change the tree; hook passes take a snapshot with [World.Traversal].
func (w *World) WalkDown(fn func(o *Object) bool) {
	var walk func(ids []ObjectID)
	walk = func(ids []ObjectID) {
		for _, id := range ids {
			o, ok := w.Object(id)
			if !ok {
				continue
			}
			if fn(o) == Continue {
				walk(o.children)
			}
		}
	}
	walk(w.roots)
}

// Traversal returns the pre-order list of attached object ids.
func (w *World) Traversal() []ObjectID {
	ids := make([]ObjectID, 0, w.objects.Len())
	w.WalkDown(func(o *Object) bool {
		ids = append(ids, o.id)
		return Continue
	})
	return ids
}

// WorldMatrix returns the world matrix of the object: the product of
// the local matrices along its parent chain. The result is cached per
// object and recomputed only when the local transform or the parent
// chain changed.
func (w *World) WorldMatrix(id ObjectID) (math32.Matrix4, bool) {
	o, ok := w.Object(id)
	if !ok {
		return math32.Matrix4{}, false
	}
	return *w.worldMatrix(o), true
}

func (w *World) worldMatrix(o *Object) *math32.Matrix4 {
	var pm *math32.Matrix4
	var pstamp uint64
	if p := w.objectAny(o.parent); p != nil {
		pm = w.worldMatrix(p)
		pstamp = p.stamp
	}
	if o.stamp != 0 && o.cacheLocal == o.Transform.version && o.cacheParent == o.parent && o.cacheStamp == pstamp {
		return &o.world
	}
	local := o.Transform.Matrix()
	if pm != nil {
		o.world.MulMatrices(pm, &local)
	} else {
		o.world = local
	}
	o.cacheLocal = o.Transform.version
	o.cacheParent = o.parent
	o.cacheStamp = pstamp
	w.stamp++
	o.stamp = w.stamp
	return &o.world
}

// UpdateWorldMatrices brings the world matrix of every attached object
// up to date, top-down.
func (w *World) UpdateWorldMatrices() {
	w.WalkDown(func(o *Object) bool {
		w.worldMatrix(o)
		return Continue
	})
}

// WorldPosition returns the position of the object in world space.
func (w *World) WorldPosition(id ObjectID) (math32.Vector3, bool) {
	m, ok := w.WorldMatrix(id)
	if !ok {
		return math32.Vector3{}, false
	}
	return m.Translation(), true
}

// SetWorldPosition sets the local position of the object so that
// its world position is pos.
func (w *World) SetWorldPosition(id ObjectID, pos math32.Vector3) bool {
	o, ok := w.Object(id)
	if !ok {
		return false
	}
	if p := w.objectAny(o.parent); p != nil {
		inv, ok := w.worldMatrix(p).Inverse()
		if !ok {
			return false
		}
		pos = inv.MulVector3AsPoint(pos)
	}
	o.Transform.SetPosition(pos)
	return true
}

// String returns an indented listing of the scene tree.
func (w *World) String() string {
	var b strings.Builder
	var walk func(ids []ObjectID, depth int)
	walk = func(ids []ObjectID, depth int) {
		for _, id := range ids {
			o, ok := w.Object(id)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "%s%s %v components=%d\n", strings.Repeat("  ", depth), o.Name, id, len(o.components))
			walk(o.children, depth+1)
		}
	}
	walk(w.roots, 0)
	return b.String()
}

// PrintObjects logs the scene tree at debug level.
func (w *World) PrintObjects() {
	slog.Debug("xyz.World.PrintObjects", "objects", w.NumObjects(), "tree", "\n"+w.String())
}
