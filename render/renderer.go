// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cogentcore.org/engine/base/errors"
)

// EventBufferSize is the capacity of the render to logic event channel.
const EventBufferSize = 64

// Renderer is the render goroutine. It paces the logic goroutine with
// StartFrame events, forwards window events to it, draws the latest
// published [Frame] and applies window requests from the game.
type Renderer struct {
	Device  Device
	Cache   *Cache
	Mailbox *Mailbox

	// Events is the bounded channel to the logic goroutine.
	Events chan<- Event

	// GameEvents are window requests from the logic goroutine.
	GameEvents <-chan GameEvent

	// Window is the source of window and device events; it may be nil
	// for headless runs. A EventClose on it ends [Renderer.Run].
	Window <-chan Event

	// FrameInterval is the pacing interval of StartFrame events.
	FrameInterval time.Duration

	// Width and Height are the initial surface size.
	Width, Height int

	// Rendered is the number of frames drawn.
	Rendered int

	// StartsDropped is the number of StartFrame events dropped
	// because the logic goroutine was behind.
	StartsDropped int
}

// Defaults sets default values for unset fields.
func (rn *Renderer) Defaults() {
	if rn.FrameInterval == 0 {
		rn.FrameInterval = time.Second / 60
	}
	if rn.Width == 0 {
		rn.Width, rn.Height = 1280, 720
	}
}

func (rn *Renderer) send(ctx context.Context, ev Event) error {
	select {
	case rn.Events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run runs the render loop until the context is canceled or the
// window closes. It releases all cached resources on return.
func (rn *Renderer) Run(ctx context.Context) error {
	rn.Defaults()
	defer rn.Cache.Release()
	rn.Device.Resize(rn.Width, rn.Height)
	if err := rn.send(ctx, Event{Kind: EventInit, Width: rn.Width, Height: rn.Height}); err != nil {
		return nil
	}
	ticker := time.NewTicker(rn.FrameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			select {
			case rn.Events <- Event{Kind: EventStartFrame}:
			default:
				rn.StartsDropped++
			}
		case <-rn.Mailbox.Ready():
			if f, ok := rn.Mailbox.Take(); ok {
				if err := rn.RenderFrame(f); err != nil {
					return fmt.Errorf("render frame %d: %w", f.Number, err)
				}
			}
		case ge := <-rn.GameEvents:
			rn.handleGameEvent(ge)
		case ev, ok := <-rn.Window:
			if !ok {
				rn.Window = nil
				continue
			}
			if ev.Kind == EventResize {
				rn.Width, rn.Height = ev.Width, ev.Height
				rn.Device.Resize(ev.Width, ev.Height)
			}
			if err := rn.send(ctx, ev); err != nil {
				return nil
			}
			if ev.Kind == EventClose {
				return nil
			}
		}
	}
}

func (rn *Renderer) handleGameEvent(ge GameEvent) {
	win, ok := rn.Device.(Window)
	if !ok {
		slog.Debug("render.Renderer: device has no window", "event", ge.Kind)
		return
	}
	switch ge.Kind {
	case GameWindowTitle:
		win.SetTitle(ge.Title)
	case GameCursorMode:
		win.SetCursorLocked(ge.CursorLocked)
	}
}

// RenderFrame draws the given frame. Proxies whose resources cannot
// be created are logged and skipped; device draw errors are returned.
func (rn *Renderer) RenderFrame(f *Frame) error {
	rn.Cache.Refresh()
	cmds := make([]DrawCommand, 0, len(f.Proxies))
	for _, px := range f.Proxies {
		mesh, err := rn.Cache.Mesh(px.Mesh)
		if errors.Log(err) != nil {
			continue
		}
		mat, err := rn.Cache.Material(px.Material)
		if errors.Log(err) != nil {
			continue
		}
		cmds = append(cmds, DrawCommand{Object: px.Object, Mesh: mesh, Material: mat, Model: px.Model})
	}
	cam := f.Camera
	if !f.HasCamera {
		cam = DefaultCamera(rn.Width, rn.Height)
	}
	if err := rn.Device.Draw(cmds, cam, f.Lights); err != nil {
		return err
	}
	rn.Rendered++
	return rn.Device.Present()
}

// DefaultCamera returns the camera used for frames that have none:
// at (0, 0, 10) looking down -Z with a 60 degree field of view.
func DefaultCamera(width, height int) Camera {
	cam := Camera{}
	cam.Position.Set(0, 0, 10)
	cam.View.SetIdentity()
	cam.View[14] = -10
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	cam.Projection.SetPerspective(60, aspect, 0.01, 1000)
	return cam
}
