// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"

	"cogentcore.org/engine/input"
)

// EventKinds are the kinds of [Event] sent from the render
// goroutine to the logic goroutine.
type EventKinds int32

const (
	// EventInit is sent once when the device is ready.
	EventInit EventKinds = iota

	// EventInput carries a window or device input event.
	EventInput

	// EventStartFrame asks the logic goroutine to run one tick.
	EventStartFrame

	// EventResize reports a new surface size.
	EventResize

	// EventClose reports that the window is closing.
	EventClose
)

var eventKindNames = [...]string{"Init", "Input", "StartFrame", "Resize", "Close"}

func (ek EventKinds) String() string {
	if ek < 0 || int(ek) >= len(eventKindNames) {
		return fmt.Sprintf("EventKinds(%d)", ek)
	}
	return eventKindNames[ek]
}

// Event is a message from the render goroutine to the logic goroutine.
type Event struct {
	Kind EventKinds

	// Input is the input event for EventInput.
	Input input.Event

	// Width and Height are the surface size for EventResize and EventInit.
	Width  int
	Height int
}

// GameEventKinds are the kinds of [GameEvent] sent from the logic
// goroutine to the render goroutine.
type GameEventKinds int32

const (
	// GameWindowTitle sets the window title.
	GameWindowTitle GameEventKinds = iota

	// GameCursorMode locks or releases the cursor.
	GameCursorMode
)

// GameEvent is a window request from the logic goroutine.
type GameEvent struct {
	Kind GameEventKinds

	Title string

	// CursorLocked grabs and hides the cursor when true.
	CursorLocked bool
}
