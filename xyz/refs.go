// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

// StrongRef is a counted reference to an object that keeps its storage
// slot occupied after the object is logically deleted, so that code
// holding it can finish its work safely. The slot is reclaimed at the
// first deletion flush after the last strong reference is released.
type StrongRef struct {
	w        *World
	id       ObjectID
	released bool
}

// ObjectRef returns a strong reference to a live object.
func (w *World) ObjectRef(id ObjectID) (*StrongRef, bool) {
	o, ok := w.Object(id)
	if !ok {
		return nil, false
	}
	o.strong++
	return &StrongRef{w: w, id: id}, true
}

// ID returns the id of the referenced object.
func (r *StrongRef) ID() ObjectID {
	return r.id
}

// Object returns the referenced object, including after it was
// logically deleted. It returns nil once the reference is released.
func (r *StrongRef) Object() *Object {
	if r.released {
		return nil
	}
	return r.w.objectAny(r.id)
}

// IsDeleted returns whether the referenced object was logically deleted.
func (r *StrongRef) IsDeleted() bool {
	o := r.Object()
	return o == nil || o.deleted
}

// Release drops the reference. Calling it more than once has no effect.
func (r *StrongRef) Release() {
	if r.released {
		return
	}
	r.released = true
	o := r.w.objectAny(r.id)
	if o == nil {
		return
	}
	o.strong--
	if o.strong == 0 && o.deleted && r.w.tornDown {
		r.w.reclaim(o)
	}
}

// WeakRef is a reference to an object that never extends its lifetime.
type WeakRef struct {
	id ObjectID
}

// Weak returns a weak reference to the object.
func (w *World) Weak(id ObjectID) WeakRef {
	return WeakRef{id: id}
}

// ID returns the id of the referenced object.
func (r WeakRef) ID() ObjectID {
	return r.id
}

// Exists returns whether the referenced object is live.
func (r WeakRef) Exists(w *World) bool {
	_, ok := w.Object(r.id)
	return ok
}

// Upgrade returns a strong reference if the object is still live.
// It fails once the object is logically deleted, even while other
// strong references keep its storage alive.
func (r WeakRef) Upgrade(w *World) (*StrongRef, bool) {
	return w.ObjectRef(r.id)
}
