// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
)

// ComponentType describes a component type registered by name with
// [RegisterComponent], for data-driven construction such as prefab
// definitions and scripts.
type ComponentType struct {
	// Name is the registered name.
	Name string

	// Type is the Go type of the component value.
	Type reflect.Type

	add func(w *World, obj ObjectID, configure func(c Component) error) (Component, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*ComponentType{}
)

// RegisterComponent registers the component type T under the given
// name. Registering the same name again replaces the earlier type.
func RegisterComponent[T any, PT componentPtr[T]](name string) *ComponentType {
	ct := &ComponentType{
		Name: name,
		Type: reflect.TypeFor[T](),
		add: func(w *World, obj ObjectID, configure func(c Component) error) (Component, error) {
			var cfg func(c PT) error
			if configure != nil {
				cfg = func(c PT) error { return configure(c) }
			}
			_, c, err := addComponent[T, PT](w, obj, cfg)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
	registryMu.Lock()
	registry[name] = ct
	registryMu.Unlock()
	return ct
}

// ComponentTypeByName returns the component type registered under the name.
func ComponentTypeByName(name string) (*ComponentType, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ct, ok := registry[name]
	return ct, ok
}

// ComponentTypeNames returns the sorted names of all registered types.
func ComponentTypeNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}

// NewComponentByName adds a component of the type registered under the
// name to the object. configure, if non-nil, is called on the new
// component before its Init hook.
func (w *World) NewComponentByName(obj ObjectID, name string, configure func(c Component) error) (Component, error) {
	ct, ok := ComponentTypeByName(name)
	if !ok {
		return nil, fmt.Errorf("xyz.World.NewComponentByName: unknown component type %q", name)
	}
	return ct.add(w, obj, configure)
}
