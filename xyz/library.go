// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"errors"
	"maps"
	"slices"
)

// ErrNoPrefab is returned when a prefab name is not in the [Library].
var ErrNoPrefab = errors.New("xyz: prefab not found")

// Prefab is a reusable recipe for an object subtree.
type Prefab interface {
	// PrefabName returns the name of the prefab, also used
	// as the name of the root object it builds.
	PrefabName() string

	// Build creates the subtree in the world and returns its root,
	// which the caller attaches.
	Build(w *World) (ObjectID, error)
}

// PrefabFunc adapts a name and a build function to a [Prefab].
type PrefabFunc struct {
	Name string
	Func func(w *World) (ObjectID, error)
}

func (pf *PrefabFunc) PrefabName() string                { return pf.Name }
func (pf *PrefabFunc) Build(w *World) (ObjectID, error) { return pf.Func(w) }

// Library is a registry of prefabs by unique name.
type Library struct {
	prefabs map[string]Prefab
}

// NewLibrary returns a new empty [Library].
func NewLibrary() *Library {
	return &Library{prefabs: map[string]Prefab{}}
}

// Add adds the prefab under its name, replacing any prefab
// with the same name.
func (lb *Library) Add(p Prefab) {
	lb.prefabs[p.PrefabName()] = p
}

// Get returns the prefab of the given name.
func (lb *Library) Get(name string) (Prefab, bool) {
	p, ok := lb.prefabs[name]
	return p, ok
}

// Names returns the sorted names of all prefabs.
func (lb *Library) Names() []string {
	return slices.Sorted(maps.Keys(lb.prefabs))
}

// Len returns the number of prefabs.
func (lb *Library) Len() int {
	return len(lb.prefabs)
}
