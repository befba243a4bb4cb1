// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// ErrNotFound is returned when a handle or name does not resolve.
var ErrNotFound = errors.New("assets: not found")

// Hasher is implemented by assets that can report a content hash,
// used to skip redundant updates and to share identical assets.
type Hasher interface {
	Hash() uint64
}

type entry[T any] struct {
	value T
	name  string
	hash  uint64
}

// Store holds the CPU-side descriptions of one kind of asset.
// The logic goroutine inserts assets and receives a handle
// synchronously; the render goroutine reads them and drains the
// dirty list to know what to upload again. Store is safe for
// concurrent use.
type Store[T any] struct {
	mu      sync.RWMutex
	items   map[uint32]*entry[T]
	names   map[string]uint32
	dirty   map[uint32]struct{}
	next    uint32
	builtin uint32

	// fallback is used when a lookup misses.
	fallback H[T]
}

// NewStore returns a new empty [Store].
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		items: map[uint32]*entry[T]{},
		names: map[string]uint32{},
		dirty: map[uint32]struct{}{},
		next:  1,
	}
}

func hashOf[T any](v T) uint64 {
	if h, ok := any(v).(Hasher); ok {
		return h.Hash()
	}
	if h, ok := any(&v).(Hasher); ok {
		return h.Hash()
	}
	return 0
}

// Add inserts the asset and returns its handle.
// The new asset is marked dirty.
func (st *Store[T]) Add(v T) H[T] {
	return st.AddNamed("", v)
}

// AddNamed inserts the asset under the given name, which can
// later be resolved with [Store.FindByName]. An empty name
// is not indexed. A later asset with the same name shadows
// the earlier one in name lookups.
func (st *Store[T]) AddNamed(name string, v T) H[T] {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.addLocked(name, v)
}

func (st *Store[T]) addLocked(name string, v T) H[T] {
	id := st.next
	st.next++
	st.items[id] = &entry[T]{value: v, name: name, hash: hashOf(v)}
	if name != "" {
		st.names[name] = id
	}
	st.dirty[id] = struct{}{}
	return H[T]{id: id}
}

// AddShared returns the handle of an existing asset with the same
// content hash, or inserts the asset if there is none. Assets
// that do not implement [Hasher] are always inserted.
func (st *Store[T]) AddShared(v T) H[T] {
	hash := hashOf(v)
	st.mu.Lock()
	defer st.mu.Unlock()
	if hash != 0 {
		for _, id := range slices.Sorted(maps.Keys(st.items)) {
			if st.items[id].hash == hash {
				return H[T]{id: id}
			}
		}
	}
	return st.addLocked("", v)
}

// Get returns the asset for the handle, and false if it does not exist.
func (st *Store[T]) Get(h H[T]) (T, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	e, ok := st.items[h.id]
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// GetOrFallback returns the asset for the handle, or the fallback
// asset of the store if the handle does not resolve, in which case
// fellBack is true. A missing fallback returns the zero value.
func (st *Store[T]) GetOrFallback(h H[T]) (v T, fellBack bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if e, ok := st.items[h.id]; ok {
		return e.value, false
	}
	if e, ok := st.items[st.fallback.id]; ok {
		return e.value, true
	}
	var zero T
	return zero, true
}

// Set replaces the asset for the handle and marks it dirty,
// unless the content hash is unchanged.
func (st *Store[T]) Set(h H[T], v T) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.items[h.id]
	if !ok {
		return fmt.Errorf("assets.Store.Set %v: %w", h, ErrNotFound)
	}
	hash := hashOf(v)
	e.value = v
	if hash != 0 && hash == e.hash {
		return nil
	}
	e.hash = hash
	st.dirty[h.id] = struct{}{}
	return nil
}

// Update calls fn with a pointer to the stored asset under the store
// lock and marks it dirty.
func (st *Store[T]) Update(h H[T], fn func(v *T)) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.items[h.id]
	if !ok {
		return fmt.Errorf("assets.Store.Update %v: %w", h, ErrNotFound)
	}
	fn(&e.value)
	e.hash = hashOf(e.value)
	st.dirty[h.id] = struct{}{}
	return nil
}

// Remove deletes the asset for the handle. Builtin assets
// cannot be removed.
func (st *Store[T]) Remove(h H[T]) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.items[h.id]
	if !ok || h.id <= st.builtin {
		return false
	}
	if e.name != "" && st.names[e.name] == h.id {
		delete(st.names, e.name)
	}
	delete(st.items, h.id)
	st.dirty[h.id] = struct{}{}
	return true
}

// FindByName returns the handle of the asset with the given name.
func (st *Store[T]) FindByName(name string) (H[T], bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	id, ok := st.names[name]
	return H[T]{id: id}, ok
}

// Name returns the name the asset was added with.
func (st *Store[T]) Name(h H[T]) string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if e, ok := st.items[h.id]; ok {
		return e.name
	}
	return ""
}

// Len returns the number of assets in the store.
func (st *Store[T]) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.items)
}

// SetFallback sets the asset returned by [Store.GetOrFallback]
// when a lookup misses.
func (st *Store[T]) SetFallback(h H[T]) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.fallback = h
}

// Fallback returns the fallback handle of the store.
func (st *Store[T]) Fallback() H[T] {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.fallback
}

// sealBuiltins marks every asset added so far as builtin.
func (st *Store[T]) sealBuiltins() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.builtin = st.next - 1
}

// IsBuiltin returns whether the handle refers to a builtin asset.
func (st *Store[T]) IsBuiltin(h H[T]) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return h.id != 0 && h.id <= st.builtin
}

// PopDirty returns the handles of all assets added, changed or removed
// since the last call, in ascending order, and clears the dirty list.
func (st *Store[T]) PopDirty() []H[T] {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.dirty) == 0 {
		return nil
	}
	ids := slices.Sorted(maps.Keys(st.dirty))
	clear(st.dirty)
	hs := make([]H[T], len(ids))
	for i, id := range ids {
		hs[i] = H[T]{id: id}
	}
	slog.Debug("assets.Store.PopDirty", "type", fmt.Sprintf("%T", *new(T)), "n", len(hs))
	return hs
}

// All returns an iterator over a snapshot of the handles and assets
// in ascending handle order. The store is not locked while yielding.
func (st *Store[T]) All() iter.Seq2[H[T], T] {
	st.mu.RLock()
	ids := slices.Sorted(maps.Keys(st.items))
	vals := make([]T, len(ids))
	for i, id := range ids {
		vals[i] = st.items[id].value
	}
	st.mu.RUnlock()
	return func(yield func(H[T], T) bool) {
		for i, id := range ids {
			if !yield(H[T]{id: id}, vals[i]) {
				return
			}
		}
	}
}
