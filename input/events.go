// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package input

import (
	"fmt"

	"cogentcore.org/engine/math32"
)

// Key is a physical keyboard key.
type Key int32

// Keys used by the built-in components; windowing backends
// may send any other value.
const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyEnter
	KeyTab
	KeyShiftLeft
	KeyControlLeft
	KeyA
	KeyD
	KeyE
	KeyQ
	KeyS
	KeyW
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
)

// Button is a mouse button.
type Button int32

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// EventKinds are the kinds of input [Event].
type EventKinds int32

const (
	// KeyPress and KeyRelease report a key changing state.
	KeyPress EventKinds = iota
	KeyRelease

	// ButtonPress and ButtonRelease report a mouse button changing state.
	ButtonPress
	ButtonRelease

	// CursorMove reports the absolute cursor position in window pixels.
	CursorMove

	// MouseMotion reports raw relative mouse motion, also
	// delivered while the cursor is locked.
	MouseMotion

	// Scroll reports vertical wheel motion in lines.
	Scroll

	// Focus reports the window gaining or losing focus.
	Focus

	// GamepadConnect reports a gamepad connecting or disconnecting.
	GamepadConnect

	// GamepadAxisChange reports a new gamepad axis value.
	GamepadAxisChange

	// GamepadButtonChange reports a new analog gamepad button value;
	// digital buttons send 0 or 1.
	GamepadButtonChange
)

var eventKindNames = [...]string{"KeyPress", "KeyRelease", "ButtonPress", "ButtonRelease", "CursorMove", "MouseMotion", "Scroll", "Focus", "GamepadConnect", "GamepadAxisChange", "GamepadButtonChange"}

func (ek EventKinds) String() string {
	if ek < 0 || int(ek) >= len(eventKindNames) {
		return fmt.Sprintf("EventKinds(%d)", ek)
	}
	return eventKindNames[ek]
}

// Event is a window or device input event, sent from the
// render goroutine to the logic goroutine.
type Event struct {
	Kind EventKinds

	Key    Key
	Button Button

	// Pos is the cursor position for CursorMove.
	Pos math32.Vector2

	// Delta is the motion for MouseMotion and Scroll (in Y).
	Delta math32.Vector2

	// Focused is the new focus state for Focus.
	Focused bool

	Axis          GamepadAxis
	GamepadButton GamepadButton

	// Value is the new gamepad axis or button value.
	Value float32

	// Gamepad is the device name and Connected the new state for GamepadConnect.
	Gamepad   string
	Connected bool
}
