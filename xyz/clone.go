// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"maps"

	"github.com/jinzhu/copier"
)

// copyComponent deep-copies the exported fields of src into dst.
func copyComponent(dst, src Component) error {
	return copier.CopyWithOption(dst, src, copier.Option{CaseSensitive: true, DeepCopy: true})
}

// CloneObject creates a deep copy of the object and its subtree: names,
// transforms, drawables, properties and components. Component values
// are copied field by field, unexported state excluded, and each copy
// runs its Init hook. The clone is returned unattached.
func (w *World) CloneObject(id ObjectID) (ObjectID, error) {
	src, ok := w.Object(id)
	if !ok {
		return ObjectID{}, fmt.Errorf("xyz.World.CloneObject %v: %w", id, ErrStaleID)
	}
	cid := w.NewObject(src.Name)
	dst := w.objectAny(cid)
	dst.Transform = src.Transform
	if src.Drawable != nil {
		dr := *src.Drawable
		dst.Drawable = &dr
	}
	if src.Props != nil {
		dst.Props = maps.Clone(src.Props)
	}
	for _, compID := range src.Components() {
		c, ok := w.Component(compID)
		if !ok {
			continue
		}
		nc, key, err := w.stores[compID.typ].clone(c)
		if err != nil {
			w.DeleteObject(cid)
			return ObjectID{}, fmt.Errorf("xyz.World.CloneObject %v: %w", id, err)
		}
		ncid := ComponentID{typ: compID.typ, key: key}
		w.attachComponent(dst, nc, ncid)
		if err := nc.Init(w); err != nil {
			w.DeleteObject(cid)
			return ObjectID{}, fmt.Errorf("xyz.World.CloneObject %v: init %v: %w", id, ncid, err)
		}
	}
	for _, child := range src.Children() {
		cc, err := w.CloneObject(child)
		if err != nil {
			w.DeleteObject(cid)
			return ObjectID{}, err
		}
		if err := w.AddChildTo(cid, cc); err != nil {
			w.DeleteObject(cc)
			w.DeleteObject(cid)
			return ObjectID{}, err
		}
	}
	return cid, nil
}
