// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slotmap provides a dense, generation-checked slot allocator.
// Values are addressed by a [Key] made of a slot index and the
// generation of that slot at insertion time. Removing a value bumps the
// generation of its slot, so keys captured before the removal never
// resolve again, even after the slot index is reused.
package slotmap

import (
	"fmt"
	"iter"
	"math"
)

// Key is a generation-stamped index into a [Map].
// The zero Key is never issued and never resolves.
type Key struct {
	Index      uint32
	Generation uint32
}

// IsNil returns true if this is the zero Key.
func (k Key) IsNil() bool {
	return k.Generation == 0
}

func (k Key) String() string {
	if k.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("%dv%d", k.Index, k.Generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Map stores values of type T in slots addressed by [Key].
// It is not safe for concurrent use.
type Map[T any] struct {
	slots []slot[T]

	// free is a stack of unoccupied slot indexes; the most
	// recently freed slot is reused first.
	free []uint32

	n int
}

// New returns a new empty [Map].
func New[T any]() *Map[T] {
	return &Map[T]{}
}

// Insert stores the value in a free slot and returns its key.
// Freed slots are reused with their bumped generation,
// otherwise a new slot is appended. Insert never fails.
func (m *Map[T]) Insert(v T) Key {
	var idx uint32
	if n := len(m.free); n > 0 {
		idx = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		idx = uint32(len(m.slots))
		m.slots = append(m.slots, slot[T]{generation: 1})
	}
	s := &m.slots[idx]
	s.value = v
	s.occupied = true
	m.n++
	return Key{Index: idx, Generation: s.generation}
}

// slot returns the occupied slot for the key, or nil if the key is stale.
func (m *Map[T]) slot(k Key) *slot[T] {
	if k.IsNil() || int(k.Index) >= len(m.slots) {
		return nil
	}
	s := &m.slots[k.Index]
	if !s.occupied || s.generation != k.Generation {
		return nil
	}
	return s
}

// Get returns the value for the key, and false if the
// slot is empty or its generation does not match.
func (m *Map[T]) Get(k Key) (T, bool) {
	s := m.slot(k)
	if s == nil {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Ptr returns a pointer to the stored value for in-place mutation,
// or nil if the key is stale. The pointer is only valid until the
// next Insert, which may grow the slot array.
func (m *Map[T]) Ptr(k Key) *T {
	s := m.slot(k)
	if s == nil {
		return nil
	}
	return &s.value
}

// Contains returns whether the key resolves to a live value.
func (m *Map[T]) Contains(k Key) bool {
	return m.slot(k) != nil
}

// Remove frees the slot of the key and returns its value.
// The slot generation is bumped so that all outstanding keys
// for it become stale. Removing a stale key is a no-op that
// returns false.
func (m *Map[T]) Remove(k Key) (T, bool) {
	var zero T
	s := m.slot(k)
	if s == nil {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.occupied = false
	m.n--
	if s.generation == math.MaxUint32 {
		// retired: reusing it would wrap the generation
		// around to an already issued value.
		return v, true
	}
	s.generation++
	m.free = append(m.free, k.Index)
	return v, true
}

// Len returns the number of live values.
func (m *Map[T]) Len() int {
	return m.n
}

// Cap returns the number of allocated slots, live or free.
func (m *Map[T]) Cap() int {
	return len(m.slots)
}

// All returns an iterator over the live keys and values in slot order.
func (m *Map[T]) All() iter.Seq2[Key, T] {
	return func(yield func(Key, T) bool) {
		for i := range m.slots {
			s := &m.slots[i]
			if !s.occupied {
				continue
			}
			if !yield(Key{Index: uint32(i), Generation: s.generation}, s.value) {
				return
			}
		}
	}
}

// Keys returns an iterator over the live keys in slot order.
func (m *Map[T]) Keys() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Clear removes all values, invalidating every outstanding key.
func (m *Map[T]) Clear() {
	for i := range m.slots {
		if m.slots[i].occupied {
			m.Remove(Key{Index: uint32(i), Generation: m.slots[i].generation})
		}
	}
}
