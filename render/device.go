// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"errors"
	"sync"

	"cogentcore.org/engine/assets"
	"cogentcore.org/engine/math32"
)

// ErrNotReady is returned by a [Device] whose resources
// cannot be created yet, for example before the surface exists.
var ErrNotReady = errors.New("render: device not ready")

// ResourceID identifies a GPU resource created by a [Device].
type ResourceID uint64

// DrawCommand draws one mesh with one material.
type DrawCommand struct {
	Object   uint64
	Mesh     ResourceID
	Material ResourceID
	Model    math32.Matrix4
}

// Device is the GPU collaborator: it creates resources from asset
// descriptions and draws command lists. It is only used by the
// render goroutine.
type Device interface {
	CreateMesh(ms *assets.Mesh) (ResourceID, error)
	CreateTexture(tx *assets.Texture) (ResourceID, error)
	CreateShader(sh *assets.Shader) (ResourceID, error)

	// CreateMaterial creates a material bound to the given shader and
	// texture resources; texture is 0 when the material has none.
	CreateMaterial(mt *assets.Material, shader, texture ResourceID) (ResourceID, error)

	Release(id ResourceID)
	Resize(width, height int)
	Draw(cmds []DrawCommand, cam Camera, lights []Light) error
	Present() error
}

// Window is the optional window surface of a [Device].
type Window interface {
	SetTitle(title string)
	SetCursorLocked(locked bool)
}

// Headless is a [Device] and [Window] that records what it is asked
// to do without a GPU. It is used for tests and offscreen runs.
type Headless struct {
	mu sync.Mutex

	next      ResourceID
	resources map[ResourceID]string

	// Created counts resource creations per kind.
	Created map[string]int

	Width, Height int
	Title         string
	CursorLocked  bool

	// Frames is the number of presented frames.
	Frames int

	// LastDraw is the command list of the last draw.
	LastDraw []DrawCommand

	// LastCamera is the camera of the last draw.
	LastCamera Camera
}

// NewHeadless returns a new [Headless] device of the given size.
func NewHeadless(width, height int) *Headless {
	return &Headless{
		resources: map[ResourceID]string{},
		Created:   map[string]int{},
		Width:     width,
		Height:    height,
	}
}

func (hd *Headless) create(kind string) (ResourceID, error) {
	hd.mu.Lock()
	defer hd.mu.Unlock()
	hd.next++
	hd.resources[hd.next] = kind
	hd.Created[kind]++
	return hd.next, nil
}

func (hd *Headless) CreateMesh(ms *assets.Mesh) (ResourceID, error) {
	if len(ms.Indices)%3 != 0 {
		return 0, errors.New("render.Headless.CreateMesh: index count is not a multiple of 3")
	}
	return hd.create("mesh")
}

func (hd *Headless) CreateTexture(tx *assets.Texture) (ResourceID, error) {
	if len(tx.Pixels) != tx.Width*tx.Height*4 {
		return 0, errors.New("render.Headless.CreateTexture: pixel data does not match size")
	}
	return hd.create("texture")
}

func (hd *Headless) CreateShader(sh *assets.Shader) (ResourceID, error) {
	return hd.create("shader")
}

func (hd *Headless) CreateMaterial(mt *assets.Material, shader, texture ResourceID) (ResourceID, error) {
	return hd.create("material")
}

func (hd *Headless) Release(id ResourceID) {
	hd.mu.Lock()
	defer hd.mu.Unlock()
	delete(hd.resources, id)
}

// NumResources returns the number of live resources.
func (hd *Headless) NumResources() int {
	hd.mu.Lock()
	defer hd.mu.Unlock()
	return len(hd.resources)
}

func (hd *Headless) Resize(width, height int) {
	hd.mu.Lock()
	defer hd.mu.Unlock()
	hd.Width, hd.Height = width, height
}

func (hd *Headless) Draw(cmds []DrawCommand, cam Camera, lights []Light) error {
	hd.mu.Lock()
	defer hd.mu.Unlock()
	hd.LastDraw = cmds
	hd.LastCamera = cam
	return nil
}

func (hd *Headless) Present() error {
	hd.mu.Lock()
	defer hd.mu.Unlock()
	hd.Frames++
	return nil
}

func (hd *Headless) SetTitle(title string) {
	hd.mu.Lock()
	defer hd.mu.Unlock()
	hd.Title = title
}

func (hd *Headless) SetCursorLocked(locked bool) {
	hd.mu.Lock()
	defer hd.mu.Unlock()
	hd.CursorLocked = locked
}

// Snapshot returns the frame count and the last draw list
// under the device lock.
func (hd *Headless) Snapshot() (frames int, last []DrawCommand, title string) {
	hd.mu.Lock()
	defer hd.mu.Unlock()
	return hd.Frames, hd.LastDraw, hd.Title
}
