// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package script

import (
	"strings"

	"cogentcore.org/engine/input"
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/xyz"
	lua "github.com/yuin/gopher-lua"
)

// keyNames maps the names scripts use for keys.
var keyNames = map[string]input.Key{
	"escape": input.KeyEscape,
	"space":  input.KeySpace,
	"enter":  input.KeyEnter,
	"tab":    input.KeyTab,
	"shift":  input.KeyShiftLeft,
	"ctrl":   input.KeyControlLeft,
	"a":      input.KeyA,
	"d":      input.KeyD,
	"e":      input.KeyE,
	"q":      input.KeyQ,
	"s":      input.KeyS,
	"w":      input.KeyW,
	"up":     input.KeyUp,
	"down":   input.KeyDown,
	"left":   input.KeyLeft,
	"right":  input.KeyRight,
	"f1":     input.KeyF1,
}

var axisNames = map[string]input.GamepadAxis{
	"left_x":        input.LeftStickX,
	"left_y":        input.LeftStickY,
	"right_x":       input.RightStickX,
	"right_y":       input.RightStickY,
	"left_trigger":  input.LeftTrigger,
	"right_trigger": input.RightTrigger,
}

func checkKey(L *lua.LState, n int) input.Key {
	name := L.CheckString(n)
	k, ok := keyNames[strings.ToLower(name)]
	if !ok {
		L.ArgError(n, "unknown key "+name)
	}
	return k
}

func worldTable(vm *lua.LState, w *xyz.World) *lua.LTable {
	t := vm.NewTable()
	vm.SetFuncs(t, map[string]lua.LGFunction{
		"time": func(L *lua.LState) int {
			L.Push(lua.LNumber(w.Time()))
			return 1
		},
		"frame": func(L *lua.LState) int {
			L.Push(lua.LNumber(w.Frame()))
			return 1
		},
		"spawn": func(L *lua.LState) int {
			_, err := w.SpawnNamed(L.CheckString(1))
			if err != nil {
				L.Push(lua.LFalse)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LTrue)
			return 1
		},
		"shutdown": func(L *lua.LState) int {
			w.Shutdown()
			return 0
		},
		"key_down": func(L *lua.LState) int {
			L.Push(lua.LBool(w.Input().IsKeyDown(checkKey(L, 1))))
			return 1
		},
		"key_pressed": func(L *lua.LState) int {
			L.Push(lua.LBool(w.Input().IsKeyPressed(checkKey(L, 1))))
			return 1
		},
		"jump_pressed": func(L *lua.LState) int {
			L.Push(lua.LBool(w.Input().IsJumpPressed()))
			return 1
		},
		"gamepad_axis": func(L *lua.LState) int {
			name := L.CheckString(1)
			a, ok := axisNames[strings.ToLower(name)]
			if !ok {
				L.ArgError(1, "unknown axis "+name)
			}
			L.Push(lua.LNumber(w.Input().GamepadAxis(a)))
			return 1
		},
	})
	return t
}

func checkVec3(L *lua.LState, n int) math32.Vector3 {
	return math32.Vec3(float32(L.CheckNumber(n)), float32(L.CheckNumber(n+1)), float32(L.CheckNumber(n+2)))
}

// toLua converts an object property to a Lua value.
// Unsupported types become nil.
func toLua(v any) lua.LValue {
	switch v := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case string:
		return lua.LString(v)
	case int:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case float32:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case lua.LValue:
		return v
	}
	return lua.LNil
}

// fromLua converts a Lua value to an object property.
// Tables and functions are kept as Lua values.
func fromLua(v lua.LValue) any {
	switch v := v.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LString:
		return string(v)
	case lua.LNumber:
		return float64(v)
	}
	if v == lua.LNil {
		return nil
	}
	return v
}
