// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package input merges window and device events into a per-frame
// input snapshot queried by scene components.
package input

import (
	"log/slog"
	"slices"

	"cogentcore.org/engine/math32"
)

// Manager holds the input snapshot of the current frame. Events are
// queued with [Manager.Push] as they arrive and only become visible
// when [Manager.Merge] runs at the start of the next frame, so every
// component of a frame sees the same input. Manager is owned by the
// logic goroutine.
type Manager struct {
	pending []Event

	keys       map[Key]bool
	keysEdge   []Key
	buttons    map[Button]bool
	buttonEdge []Button

	mousePos   math32.Vector2
	mouseDelta math32.Vector2
	wheelDelta float32
	gamepad    gamepad
	focused    bool
	locked     bool
	quit       bool

	// QuitOnEscape requests quit when Escape is pressed while
	// the cursor is not locked.
	QuitOnEscape bool

	// AutoCursorLock locks the cursor on a left or right click
	// and unlocks it on Escape.
	AutoCursorLock bool

	// OnCursorMode is called when the cursor lock state changes,
	// to forward the request to the window.
	OnCursorMode func(locked bool)
}

// NewManager returns a new [Manager].
func NewManager() *Manager {
	return &Manager{
		keys:    map[Key]bool{},
		buttons: map[Button]bool{},
		gamepad: gamepad{
			axes:    map[GamepadAxis]float32{},
			buttons: map[GamepadButton]float32{},
		},
		focused: true,
	}
}

// Push queues an event for the next [Manager.Merge].
func (im *Manager) Push(ev Event) {
	im.pending = append(im.pending, ev)
}

// Merge ends the previous frame and applies all queued events,
// producing the snapshot for the current frame. It returns the
// number of events applied.
func (im *Manager) Merge() int {
	im.nextFrame()
	n := len(im.pending)
	for _, ev := range im.pending {
		im.apply(ev)
	}
	im.pending = im.pending[:0]
	im.policies()
	return n
}

func (im *Manager) nextFrame() {
	im.keysEdge = im.keysEdge[:0]
	im.buttonEdge = im.buttonEdge[:0]
	im.gamepad.buttonEdge = im.gamepad.buttonEdge[:0]
	im.mouseDelta = math32.Vector2{}
	im.wheelDelta = 0
}

func (im *Manager) apply(ev Event) {
	switch ev.Kind {
	case KeyPress:
		if !im.keys[ev.Key] {
			im.keysEdge = append(im.keysEdge, ev.Key)
		}
		im.keys[ev.Key] = true
	case KeyRelease:
		if im.keys[ev.Key] {
			im.keysEdge = append(im.keysEdge, ev.Key)
		}
		im.keys[ev.Key] = false
	case ButtonPress:
		if !im.buttons[ev.Button] {
			im.buttonEdge = append(im.buttonEdge, ev.Button)
		}
		im.buttons[ev.Button] = true
	case ButtonRelease:
		if im.buttons[ev.Button] {
			im.buttonEdge = append(im.buttonEdge, ev.Button)
		}
		im.buttons[ev.Button] = false
	case CursorMove:
		im.mousePos = ev.Pos
	case MouseMotion:
		im.mouseDelta = im.mouseDelta.Add(ev.Delta)
	case Scroll:
		im.wheelDelta += ev.Delta.Y
	case Focus:
		im.focused = ev.Focused
		if !ev.Focused {
			// keys held while focus is lost never see their release
			clear(im.keys)
			clear(im.buttons)
		}
	case GamepadConnect, GamepadAxisChange, GamepadButtonChange:
		im.gamepad.apply(ev)
	}
}

func (im *Manager) policies() {
	if im.QuitOnEscape && im.IsKeyPressed(KeyEscape) && !im.locked {
		slog.Info("input.Manager: quit requested by escape")
		im.quit = true
	}
	if !im.AutoCursorLock {
		return
	}
	if im.IsKeyPressed(KeyEscape) {
		im.UnlockCursor()
	}
	if im.IsButtonPressed(ButtonLeft) || im.IsButtonPressed(ButtonRight) {
		im.LockCursor()
	}
}

// IsKeyDown returns whether the key is held.
func (im *Manager) IsKeyDown(k Key) bool {
	return im.keys[k]
}

// IsKeyPressed returns whether the key went down this frame.
func (im *Manager) IsKeyPressed(k Key) bool {
	return im.keys[k] && slices.Contains(im.keysEdge, k)
}

// IsKeyReleased returns whether the key went up this frame.
func (im *Manager) IsKeyReleased(k Key) bool {
	return !im.keys[k] && slices.Contains(im.keysEdge, k)
}

// IsButtonDown returns whether the mouse button is held.
func (im *Manager) IsButtonDown(b Button) bool {
	return im.buttons[b]
}

// IsButtonPressed returns whether the mouse button went down this frame.
func (im *Manager) IsButtonPressed(b Button) bool {
	return im.buttons[b] && slices.Contains(im.buttonEdge, b)
}

// IsButtonReleased returns whether the mouse button went up this frame.
func (im *Manager) IsButtonReleased(b Button) bool {
	return !im.buttons[b] && slices.Contains(im.buttonEdge, b)
}

// MousePosition returns the cursor position in window pixels.
func (im *Manager) MousePosition() math32.Vector2 {
	return im.mousePos
}

// MouseDelta returns the accumulated relative mouse motion of this frame.
func (im *Manager) MouseDelta() math32.Vector2 {
	return im.mouseDelta
}

// WheelDelta returns the accumulated scroll of this frame.
func (im *Manager) WheelDelta() float32 {
	return im.wheelDelta
}

// Focused returns whether the window has focus.
func (im *Manager) Focused() bool {
	return im.focused
}

// Axis returns -1, 0 or 1 from a pair of opposing keys.
func (im *Manager) Axis(neg, pos Key) float32 {
	var v float32
	if im.IsKeyDown(neg) {
		v--
	}
	if im.IsKeyDown(pos) {
		v++
	}
	return v
}

// LockCursor locks and hides the cursor.
func (im *Manager) LockCursor() {
	if im.locked {
		return
	}
	im.locked = true
	if im.OnCursorMode != nil {
		im.OnCursorMode(true)
	}
}

// UnlockCursor releases the cursor.
func (im *Manager) UnlockCursor() {
	if !im.locked {
		return
	}
	im.locked = false
	if im.OnCursorMode != nil {
		im.OnCursorMode(false)
	}
}

// IsCursorLocked returns whether the cursor is locked.
func (im *Manager) IsCursorLocked() bool {
	return im.locked
}

// QuitRequested returns whether an input policy asked to quit.
func (im *Manager) QuitRequested() bool {
	return im.quit
}
