// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package input

import (
	"testing"

	"cogentcore.org/engine/math32"
	"github.com/stretchr/testify/assert"
)

func TestKeyEdges(t *testing.T) {
	im := NewManager()
	im.Push(Event{Kind: KeyPress, Key: KeyW})
	assert.False(t, im.IsKeyDown(KeyW), "events are invisible until merged")

	assert.Equal(t, 1, im.Merge())
	assert.True(t, im.IsKeyDown(KeyW))
	assert.True(t, im.IsKeyPressed(KeyW))

	// key repeat does not produce a second press edge
	im.Push(Event{Kind: KeyPress, Key: KeyW})
	im.Merge()
	assert.True(t, im.IsKeyDown(KeyW))
	assert.False(t, im.IsKeyPressed(KeyW))

	im.Push(Event{Kind: KeyRelease, Key: KeyW})
	im.Merge()
	assert.False(t, im.IsKeyDown(KeyW))
	assert.True(t, im.IsKeyReleased(KeyW))

	im.Merge()
	assert.False(t, im.IsKeyReleased(KeyW))
	assert.Equal(t, float32(0), im.Axis(KeyS, KeyW))
}

func TestMouse(t *testing.T) {
	im := NewManager()
	im.Push(Event{Kind: CursorMove, Pos: math32.Vec2(10, 20)})
	im.Push(Event{Kind: MouseMotion, Delta: math32.Vec2(1, 2)})
	im.Push(Event{Kind: MouseMotion, Delta: math32.Vec2(3, 4)})
	im.Push(Event{Kind: Scroll, Delta: math32.Vec2(0, -1)})
	im.Push(Event{Kind: ButtonPress, Button: ButtonLeft})
	im.Merge()
	assert.Equal(t, math32.Vec2(10, 20), im.MousePosition())
	assert.Equal(t, math32.Vec2(4, 6), im.MouseDelta())
	assert.Equal(t, float32(-1), im.WheelDelta())
	assert.True(t, im.IsButtonPressed(ButtonLeft))

	im.Merge()
	assert.Equal(t, math32.Vector2{}, im.MouseDelta())
	assert.True(t, im.IsButtonDown(ButtonLeft))
	assert.False(t, im.IsButtonPressed(ButtonLeft))
}

func TestFocusLossClearsKeys(t *testing.T) {
	im := NewManager()
	im.Push(Event{Kind: KeyPress, Key: KeyA})
	im.Push(Event{Kind: Focus, Focused: false})
	im.Merge()
	assert.False(t, im.IsKeyDown(KeyA))
	assert.False(t, im.Focused())
}

func TestCursorPolicies(t *testing.T) {
	im := NewManager()
	im.AutoCursorLock = true
	im.QuitOnEscape = true
	var modes []bool
	im.OnCursorMode = func(locked bool) { modes = append(modes, locked) }

	im.Push(Event{Kind: ButtonPress, Button: ButtonLeft})
	im.Merge()
	assert.True(t, im.IsCursorLocked())

	// escape while locked only unlocks
	im.Push(Event{Kind: KeyPress, Key: KeyEscape})
	im.Merge()
	assert.False(t, im.IsCursorLocked())
	assert.False(t, im.QuitRequested())

	im.Push(Event{Kind: KeyRelease, Key: KeyEscape})
	im.Push(Event{Kind: KeyPress, Key: KeyEscape})
	im.Merge()
	assert.True(t, im.QuitRequested())
	assert.Equal(t, []bool{true, false}, modes)
}

func TestGamepad(t *testing.T) {
	im := NewManager()
	im.Push(Event{Kind: GamepadConnect, Gamepad: "pad", Connected: true})
	im.Push(Event{Kind: GamepadAxisChange, Axis: LeftStickY, Value: 0.75})
	im.Push(Event{Kind: GamepadButtonChange, GamepadButton: GamepadSouth, Value: 1})
	im.Merge()
	assert.Equal(t, 1, im.NumGamepads())
	assert.Equal(t, float32(0.75), im.GamepadAxis(LeftStickY))
	assert.Equal(t, float32(0), im.GamepadAxis(RightStickX))
	assert.True(t, im.IsGamepadButtonPressed(GamepadSouth))
	assert.True(t, im.IsJumpPressed())

	// analog changes above the threshold are no new press
	im.Push(Event{Kind: GamepadButtonChange, GamepadButton: GamepadSouth, Value: 0.9})
	im.Merge()
	assert.True(t, im.IsGamepadButtonDown(GamepadSouth))
	assert.False(t, im.IsGamepadButtonPressed(GamepadSouth))
	assert.False(t, im.IsJumpPressed())

	im.Push(Event{Kind: GamepadButtonChange, GamepadButton: GamepadSouth, Value: 0})
	im.Push(Event{Kind: GamepadButtonChange, GamepadButton: GamepadLeftThumb, Value: 1})
	im.Merge()
	assert.True(t, im.IsGamepadButtonReleased(GamepadSouth))
	assert.True(t, im.IsSprinting())

	im.Push(Event{Kind: GamepadConnect, Gamepad: "pad"})
	im.Merge()
	assert.Equal(t, 0, im.NumGamepads())
	assert.Equal(t, float32(0), im.GamepadAxis(LeftStickY), "state is cleared with the last gamepad")
	assert.False(t, im.IsSprinting())
}
