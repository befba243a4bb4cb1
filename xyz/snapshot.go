// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import "cogentcore.org/engine/render"

// SnapshotContributor is implemented by components that add data
// other than drawables to the frame snapshot, such as cameras and lights.
type SnapshotContributor interface {
	Contribute(w *World, f *render.Frame)
}

// Snapshot builds the render snapshot of the current state: a proxy
// for every visible drawable of an active attached object with its
// world matrix, in scene pre-order, plus the contributions of active
// components. World matrices must be up to date.
func (w *World) Snapshot() *render.Frame {
	f := &render.Frame{Number: w.frame, Time: w.elapsed}
	w.WalkDown(func(o *Object) bool {
		if !o.active {
			return Continue
		}
		if dr := o.Drawable; dr != nil && dr.Visible {
			f.Proxies = append(f.Proxies, render.Proxy{
				Object:   o.id.Uint64(),
				Mesh:     dr.Mesh,
				Material: dr.Material,
				Model:    *w.worldMatrix(o),
			})
		}
		for _, cid := range o.components {
			c, ok := w.Component(cid)
			if !ok || !c.AsComponentBase().active {
				continue
			}
			if sc, ok := c.(SnapshotContributor); ok {
				sc.Contribute(w, f)
			}
		}
		return Continue
	})
	return f
}
