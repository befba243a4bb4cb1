// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slotmap

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertGetRemove(t *testing.T) {
	m := New[string]()
	a := m.Insert("a")
	b := m.Insert("b")
	assert.Equal(t, 2, m.Len())
	assert.False(t, a.IsNil())

	v, ok := m.Get(a)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	*m.Ptr(b) = "bb"
	v, _ = m.Get(b)
	assert.Equal(t, "bb", v)

	v, ok = m.Remove(a)
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, 1, m.Len())

	_, ok = m.Get(a)
	assert.False(t, ok)
	assert.Nil(t, m.Ptr(a))

	// double free is a no-op
	_, ok = m.Remove(a)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())

	_, ok = m.Get(Key{})
	assert.False(t, ok)
	_, ok = m.Get(Key{Index: 99, Generation: 1})
	assert.False(t, ok)
}

func TestSlotReuse(t *testing.T) {
	m := New[int]()
	a := m.Insert(1)
	m.Remove(a)
	c := m.Insert(2)

	assert.Equal(t, a.Index, c.Index, "freed index is reused")
	assert.NotEqual(t, a.Generation, c.Generation)
	assert.Equal(t, 1, m.Cap())

	_, ok := m.Get(a)
	assert.False(t, ok, "stale key must not alias the new value")
	v, ok := m.Get(c)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestRetiredSlot(t *testing.T) {
	m := New[int]()
	a := m.Insert(1)
	m.slots[a.Index].generation = math.MaxUint32
	k := Key{Index: a.Index, Generation: math.MaxUint32}
	_, ok := m.Remove(k)
	assert.True(t, ok)
	b := m.Insert(2)
	assert.NotEqual(t, a.Index, b.Index)
}

func TestAllOrder(t *testing.T) {
	m := New[int]()
	keys := []Key{m.Insert(0), m.Insert(1), m.Insert(2), m.Insert(3)}
	m.Remove(keys[1])

	var vals []int
	for k, v := range m.All() {
		assert.True(t, m.Contains(k))
		vals = append(vals, v)
	}
	assert.Equal(t, []int{0, 2, 3}, vals)

	n := 0
	for range m.Keys() {
		n++
		break
	}
	assert.Equal(t, 1, n)

	m.Clear()
	assert.Equal(t, 0, m.Len())
	for _, k := range keys {
		assert.False(t, m.Contains(k))
	}
}

// TestNoKeyReissued runs random insert/remove sequences and checks
// that no (index, generation) pair is ever issued twice and that
// removed keys never resolve again.
func TestNoKeyReissued(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	m := New[int]()
	issued := map[Key]bool{}
	var live, dead []Key
	for i := range 5000 {
		if len(live) == 0 || rnd.Intn(3) > 0 {
			k := m.Insert(i)
			require.False(t, issued[k], "key %v issued twice", k)
			issued[k] = true
			live = append(live, k)
		} else {
			j := rnd.Intn(len(live))
			k := live[j]
			live = append(live[:j], live[j+1:]...)
			_, ok := m.Remove(k)
			require.True(t, ok)
			dead = append(dead, k)
		}
	}
	for _, k := range dead {
		assert.False(t, m.Contains(k))
	}
	for _, k := range live {
		assert.True(t, m.Contains(k))
	}
	assert.Equal(t, len(live), m.Len())
}
