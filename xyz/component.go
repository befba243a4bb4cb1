// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"iter"
	"reflect"

	"cogentcore.org/engine/slotmap"
)

// Component is a unit of behavior attached to exactly one [Object].
// Every hook receives the [World] explicitly. Hook errors are fatal
// for the frame loop. Implementations embed [ComponentBase] for the
// back-references and no-op defaults, and are used through a pointer.
type Component interface {
	// AsComponentBase returns the embedded [ComponentBase].
	AsComponentBase() *ComponentBase

	// Init is called once, right after the component is attached
	// to its object. An error removes the component again.
	Init(w *World) error

	// PreFixedUpdate is called before each physics step.
	PreFixedUpdate(w *World) error

	// FixedUpdate is called after each physics step.
	FixedUpdate(w *World) error

	// Update is called once per tick, in scene pre-order.
	Update(w *World) error

	// LateUpdate is called once per tick after every Update.
	LateUpdate(w *World) error

	// PostUpdate is called once per tick after world matrices
	// are final and before the frame snapshot is built.
	PostUpdate(w *World) error

	// Delete is called when the component is removed, either
	// directly or because its object was deleted.
	Delete(w *World)
}

// ComponentBase is embedded in every [Component] type. It holds the
// id of the component and of its parent object, and provides no-op
// implementations of the hooks.
type ComponentBase struct {
	id      ComponentID
	parent  ObjectID
	removed bool
	active  bool
}

func (cb *ComponentBase) AsComponentBase() *ComponentBase { return cb }

// ID returns the id of the component.
func (cb *ComponentBase) ID() ComponentID { return cb.id }

// Parent returns the id of the object the component is attached to.
func (cb *ComponentBase) Parent() ObjectID { return cb.parent }

// IsRemoved returns whether the component has been removed.
func (cb *ComponentBase) IsRemoved() bool { return cb.removed }

// IsActive returns whether the component takes part in hook passes.
func (cb *ComponentBase) IsActive() bool { return cb.active }

// Object returns the parent object, if it is still live.
func (cb *ComponentBase) Object(w *World) (*Object, bool) {
	return w.Object(cb.parent)
}

func (cb *ComponentBase) Init(w *World) error           { return nil }
func (cb *ComponentBase) PreFixedUpdate(w *World) error { return nil }
func (cb *ComponentBase) FixedUpdate(w *World) error    { return nil }
func (cb *ComponentBase) Update(w *World) error         { return nil }
func (cb *ComponentBase) LateUpdate(w *World) error     { return nil }
func (cb *ComponentBase) PostUpdate(w *World) error     { return nil }
func (cb *ComponentBase) Delete(w *World)               {}

// ComponentID identifies a component of any type: the component type
// plus a generation-stamped key into the store of that type.
type ComponentID struct {
	typ reflect.Type
	key slotmap.Key
}

// IsNil returns whether the id is the nil id.
func (id ComponentID) IsNil() bool {
	return id.typ == nil || id.key.IsNil()
}

// Type returns the component type.
func (id ComponentID) Type() reflect.Type {
	return id.typ
}

func (id ComponentID) String() string {
	if id.IsNil() {
		return "Component(nil)"
	}
	return fmt.Sprintf("%s(%d:%d)", id.typ.Name(), id.key.Index, id.key.Generation)
}

// Handle is a typed [ComponentID].
type Handle[T any] struct {
	key slotmap.Key
}

// IsNil returns whether the handle is the nil handle.
func (h Handle[T]) IsNil() bool {
	return h.key.IsNil()
}

// ID returns the untyped id of the component.
func (h Handle[T]) ID() ComponentID {
	return ComponentID{typ: reflect.TypeFor[T](), key: h.key}
}

func (h Handle[T]) String() string {
	return h.ID().String()
}

// componentPtr constrains a pointer to a component type T.
type componentPtr[T any] interface {
	*T
	Component
}

// componentStore is the type-erased view of a per-type store.
type componentStore interface {
	get(k slotmap.Key) (Component, bool)
	remove(k slotmap.Key) bool
	len() int

	// clone inserts a copy of the given component and returns it.
	clone(src Component) (Component, slotmap.Key, error)
}

// typedStore is the dense store of one component type.
// Components are stored by pointer so hooks can hold them
// across store growth.
type typedStore[T any, PT componentPtr[T]] struct {
	items *slotmap.Map[PT]
}

func (ts *typedStore[T, PT]) get(k slotmap.Key) (Component, bool) {
	c, ok := ts.items.Get(k)
	if !ok {
		return nil, false
	}
	return c, true
}

func (ts *typedStore[T, PT]) remove(k slotmap.Key) bool {
	_, ok := ts.items.Remove(k)
	return ok
}

func (ts *typedStore[T, PT]) len() int {
	return ts.items.Len()
}

func (ts *typedStore[T, PT]) clone(src Component) (Component, slotmap.Key, error) {
	sc, ok := src.(PT)
	if !ok {
		return nil, slotmap.Key{}, fmt.Errorf("xyz: cannot clone %T into store of %v", src, reflect.TypeFor[T]())
	}
	dst := PT(new(T))
	if err := copyComponent(dst, sc); err != nil {
		return nil, slotmap.Key{}, err
	}
	*dst.AsComponentBase() = ComponentBase{}
	return dst, ts.items.Insert(dst), nil
}

// storeFor returns the store for T, creating it if needed.
func storeFor[T any, PT componentPtr[T]](w *World) *typedStore[T, PT] {
	typ := reflect.TypeFor[T]()
	if st, ok := w.stores[typ]; ok {
		return st.(*typedStore[T, PT])
	}
	st := &typedStore[T, PT]{items: slotmap.New[PT]()}
	w.stores[typ] = st
	w.storeOrder = append(w.storeOrder, typ)
	return st
}

// lookupStore returns the store for T if any component of T was
// ever added.
func lookupStore[T any, PT componentPtr[T]](w *World) (*typedStore[T, PT], bool) {
	st, ok := w.stores[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	ts, ok := st.(*typedStore[T, PT])
	return ts, ok
}

// AddComponent constructs a new component of type T, attaches it to
// the given object and runs its Init hook. The component is the zero
// value of T, with Defaults applied when T has a Defaults method. If
// Init fails the component is removed and the error is returned.
func AddComponent[T any, PT componentPtr[T]](w *World, obj ObjectID) (Handle[T], PT, error) {
	return addComponent[T, PT](w, obj, nil)
}

// AddComponentWith is [AddComponent] with a configure function that
// is called before Init, so that Init sees the configured values.
func AddComponentWith[T any, PT componentPtr[T]](w *World, obj ObjectID, configure func(c PT)) (Handle[T], PT, error) {
	return addComponent[T, PT](w, obj, func(c PT) error {
		configure(c)
		return nil
	})
}

func addComponent[T any, PT componentPtr[T]](w *World, obj ObjectID, configure func(c PT) error) (Handle[T], PT, error) {
	o, ok := w.Object(obj)
	if !ok {
		return Handle[T]{}, nil, fmt.Errorf("xyz.AddComponent %v to %v: %w", reflect.TypeFor[T]().Name(), obj, ErrStaleID)
	}
	c := PT(new(T))
	if d, ok := any(c).(interface{ Defaults() }); ok {
		d.Defaults()
	}
	if configure != nil {
		if err := configure(c); err != nil {
			return Handle[T]{}, nil, err
		}
	}
	st := storeFor[T, PT](w)
	key := st.items.Insert(c)
	id := ComponentID{typ: reflect.TypeFor[T](), key: key}
	w.attachComponent(o, c, id)
	if err := c.Init(w); err != nil {
		w.RemoveComponent(id)
		return Handle[T]{}, nil, fmt.Errorf("xyz.AddComponent %v: init: %w", id, err)
	}
	return Handle[T]{key: key}, c, nil
}

// attachComponent sets the back-references of a newly stored component
// and appends it to the component list of its object.
func (w *World) attachComponent(o *Object, c Component, id ComponentID) {
	cb := c.AsComponentBase()
	cb.id = id
	cb.parent = o.id
	cb.removed = false
	cb.active = !w.inTick()
	if !cb.active {
		w.pendingComponents = append(w.pendingComponents, id)
	}
	o.components = append(o.components, id)
}

// GetComponent returns the component for the handle, and false if it
// was removed or the handle is stale.
func GetComponent[T any, PT componentPtr[T]](w *World, h Handle[T]) (PT, bool) {
	st, ok := lookupStore[T, PT](w)
	if !ok {
		return nil, false
	}
	c, ok := st.items.Get(h.key)
	if !ok || c.AsComponentBase().removed {
		return nil, false
	}
	return c, true
}

// ValuesOf returns an iterator over every live component of type T in
// store order. The iterator is empty when no component of type T was
// ever added.
func ValuesOf[T any, PT componentPtr[T]](w *World) iter.Seq[PT] {
	return func(yield func(PT) bool) {
		st, ok := lookupStore[T, PT](w)
		if !ok {
			return
		}
		for _, c := range st.items.All() {
			if c.AsComponentBase().removed {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// CountOf returns the number of live components of type T.
func CountOf[T any, PT componentPtr[T]](w *World) int {
	n := 0
	for range ValuesOf[T, PT](w) {
		n++
	}
	return n
}

// ComponentsOf returns the live components of type T attached to the
// given object, in attach order.
func ComponentsOf[T any, PT componentPtr[T]](w *World, obj ObjectID) []PT {
	o, ok := w.Object(obj)
	if !ok {
		return nil
	}
	typ := reflect.TypeFor[T]()
	var cs []PT
	for _, id := range o.components {
		if id.typ != typ {
			continue
		}
		if c, ok := w.Component(id); ok {
			cs = append(cs, c.(PT))
		}
	}
	return cs
}

// FirstComponent returns the first live component of type T attached
// to the given object.
func FirstComponent[T any, PT componentPtr[T]](w *World, obj ObjectID) (PT, bool) {
	o, ok := w.Object(obj)
	if !ok {
		return nil, false
	}
	typ := reflect.TypeFor[T]()
	for _, id := range o.components {
		if id.typ != typ {
			continue
		}
		if c, ok := w.Component(id); ok {
			return c.(PT), true
		}
	}
	return nil, false
}

// Component returns the live component for the id.
func (w *World) Component(id ComponentID) (Component, bool) {
	if id.IsNil() {
		return nil, false
	}
	st, ok := w.stores[id.typ]
	if !ok {
		return nil, false
	}
	c, ok := st.get(id.key)
	if !ok || c.AsComponentBase().removed {
		return nil, false
	}
	return c, true
}

// RemoveComponent detaches the component from its object and calls its
// Delete hook. The handle is invalid from then on; the storage slot is
// reclaimed at the next deletion flush. It returns false for stale ids.
func (w *World) RemoveComponent(id ComponentID) bool {
	c, ok := w.Component(id)
	if !ok {
		return false
	}
	cb := c.AsComponentBase()
	cb.removed = true
	cb.active = false
	if o := w.objectAny(cb.parent); o != nil {
		o.components = deleteID(o.components, id)
	}
	c.Delete(w)
	w.removedComponents = append(w.removedComponents, id)
	return true
}

// RemoveHandle removes the component for the typed handle.
func RemoveHandle[T any](w *World, h Handle[T]) bool {
	return w.RemoveComponent(h.ID())
}

// NumComponents returns the number of live components of all types.
func (w *World) NumComponents() int {
	n := 0
	for _, typ := range w.storeOrder {
		n += w.stores[typ].len()
	}
	return n - len(w.removedComponents)
}

func deleteID[E comparable](s []E, v E) []E {
	for i, e := range s {
		if e == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
