// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package input

import (
	"log/slog"
	"slices"
)

// GamepadAxis is an analog gamepad axis, in [-1, 1] for sticks
// and [0, 1] for triggers.
type GamepadAxis int32

const (
	LeftStickX GamepadAxis = iota
	LeftStickY
	RightStickX
	RightStickY
	LeftTrigger
	RightTrigger
)

// GamepadButton is a gamepad button, named by its position.
type GamepadButton int32

const (
	GamepadSouth GamepadButton = iota
	GamepadEast
	GamepadNorth
	GamepadWest
	GamepadLeftBumper
	GamepadRightBumper
	GamepadLeftThumb
	GamepadRightThumb
	GamepadSelect
	GamepadStart
)

// gamepad is the merged state of all connected gamepads.
type gamepad struct {
	axes       map[GamepadAxis]float32
	buttons    map[GamepadButton]float32
	buttonEdge []GamepadButton
	connected  int
}

func (gp *gamepad) apply(ev Event) {
	switch ev.Kind {
	case GamepadConnect:
		if ev.Connected {
			gp.connected++
			slog.Debug("input.Manager: gamepad connected", "name", ev.Gamepad)
			return
		}
		gp.connected = max(0, gp.connected-1)
		slog.Debug("input.Manager: gamepad disconnected", "name", ev.Gamepad)
		if gp.connected == 0 {
			clear(gp.axes)
			clear(gp.buttons)
		}
	case GamepadAxisChange:
		gp.axes[ev.Axis] = ev.Value
	case GamepadButtonChange:
		was := gp.buttons[ev.GamepadButton] > 0.5
		gp.buttons[ev.GamepadButton] = ev.Value
		if was != (ev.Value > 0.5) {
			gp.buttonEdge = append(gp.buttonEdge, ev.GamepadButton)
		}
	}
}

// GamepadAxis returns the value of the gamepad axis.
func (im *Manager) GamepadAxis(a GamepadAxis) float32 {
	return im.gamepad.axes[a]
}

// GamepadButton returns the analog value of the gamepad button.
func (im *Manager) GamepadButton(b GamepadButton) float32 {
	return im.gamepad.buttons[b]
}

// IsGamepadButtonDown returns whether the gamepad button is held.
func (im *Manager) IsGamepadButtonDown(b GamepadButton) bool {
	return im.gamepad.buttons[b] > 0.5
}

// IsGamepadButtonPressed returns whether the gamepad button went down this frame.
func (im *Manager) IsGamepadButtonPressed(b GamepadButton) bool {
	return im.IsGamepadButtonDown(b) && slices.Contains(im.gamepad.buttonEdge, b)
}

// IsGamepadButtonReleased returns whether the gamepad button went up this frame.
func (im *Manager) IsGamepadButtonReleased(b GamepadButton) bool {
	return !im.IsGamepadButtonDown(b) && slices.Contains(im.gamepad.buttonEdge, b)
}

// NumGamepads returns the number of connected gamepads.
func (im *Manager) NumGamepads() int {
	return im.gamepad.connected
}

// IsJumpPressed returns whether Space or the south gamepad
// button went down this frame.
func (im *Manager) IsJumpPressed() bool {
	return im.IsKeyPressed(KeySpace) || im.IsGamepadButtonPressed(GamepadSouth)
}

// IsSprinting returns whether left Shift or the left stick is held.
func (im *Manager) IsSprinting() bool {
	return im.IsKeyDown(KeyShiftLeft) || im.IsGamepadButtonDown(GamepadLeftThumb)
}
