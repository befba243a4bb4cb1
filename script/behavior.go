// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package script provides [Behavior], a component whose per-frame
// logic is a Lua script.
//
// A script may define the global functions init(), update(dt) and
// late_update(dt). It sees its object through the object table:
//
//	object.name()                  -- name of the object
//	object.position()              -- x, y, z
//	object.set_position(x, y, z)
//	object.translate(x, y, z)
//	object.rotate(ax, ay, az, deg) -- local axis rotation
//	object.prop(key)
//	object.set_prop(key, value)
//	object.delete()
//
// and the world through the world table:
//
//	world.time(), world.frame(), world.spawn(prefab), world.shutdown()
//	world.key_down(name), world.key_pressed(name)
//
// log(msg) writes an info record to the default logger.
package script

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"cogentcore.org/engine/xyz"
	lua "github.com/yuin/gopher-lua"
)

func init() {
	xyz.RegisterComponent[Behavior]("Behavior")
}

// ErrNoSource is returned by [Behavior.Init] when neither
// Source nor Path is set.
var ErrNoSource = errors.New("script: no source")

// Behavior runs a Lua script on its object. Each behavior has its own
// interpreter state, used only from the logic goroutine.
type Behavior struct {
	xyz.ComponentBase

	// Source is the script text; it takes precedence over Path.
	Source string `yaml:"source"`

	// Path is a script file to load when Source is empty.
	Path string `yaml:"path"`

	vm *lua.LState

	// running is set while a script function is executing, so that
	// a script deleting its own object closes the state afterwards.
	running bool
	closing bool
}

// Init creates the interpreter, runs the script body and then its
// init function, if any.
func (bh *Behavior) Init(w *xyz.World) error {
	if bh.Source == "" && bh.Path == "" {
		return ErrNoSource
	}
	vm := lua.NewState()
	bh.vm = vm
	bh.openAPI(w)
	var err error
	if bh.Source != "" {
		err = vm.DoString(bh.Source)
	} else {
		err = vm.DoFile(bh.Path)
	}
	if err != nil {
		bh.close()
		return fmt.Errorf("script %s: %w", bh.name(), err)
	}
	if err := bh.call("init"); err != nil {
		bh.close()
		return err
	}
	return nil
}

func (bh *Behavior) Update(w *xyz.World) error {
	return bh.call("update", lua.LNumber(w.DeltaSeconds()))
}

func (bh *Behavior) LateUpdate(w *xyz.World) error {
	return bh.call("late_update", lua.LNumber(w.DeltaSeconds()))
}

func (bh *Behavior) Delete(w *xyz.World) {
	if bh.running {
		bh.closing = true
		return
	}
	bh.close()
}

func (bh *Behavior) close() {
	if bh.vm != nil {
		bh.vm.Close()
		bh.vm = nil
	}
}

// Call calls a global function of the script. It is a no-op when
// the function is not defined.
func (bh *Behavior) Call(fn string, args ...lua.LValue) error {
	return bh.call(fn, args...)
}

// Global returns the value of a global variable of the script.
func (bh *Behavior) Global(name string) lua.LValue {
	if bh.vm == nil {
		return lua.LNil
	}
	return bh.vm.GetGlobal(name)
}

func (bh *Behavior) call(name string, args ...lua.LValue) error {
	if bh.vm == nil {
		return nil
	}
	fn := bh.vm.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return nil
	}
	bh.running = true
	err := bh.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	bh.running = false
	if bh.closing {
		bh.close()
	}
	if err != nil {
		return fmt.Errorf("script %s: %s: %w", bh.name(), name, err)
	}
	return nil
}

func (bh *Behavior) name() string {
	if bh.Path != "" {
		return bh.Path
	}
	return bh.ID().String()
}

// LoadFile reads the script at path into Source.
func (bh *Behavior) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	bh.Source = string(b)
	bh.Path = path
	return nil
}

func (bh *Behavior) openAPI(w *xyz.World) {
	vm := bh.vm
	vm.SetGlobal("log", vm.NewFunction(func(L *lua.LState) int {
		slog.Info("script", "object", bh.Parent(), "msg", L.CheckString(1))
		return 0
	}))
	vm.SetGlobal("object", bh.objectTable(w))
	vm.SetGlobal("world", worldTable(vm, w))
}

func (bh *Behavior) objectTable(w *xyz.World) *lua.LTable {
	vm := bh.vm
	t := vm.NewTable()
	// object looks the parent up on every call, since scripts may
	// outlive the object within a frame.
	object := func(L *lua.LState) *xyz.Object {
		o, ok := w.Object(bh.Parent())
		if !ok {
			L.RaiseError("object %v is deleted", bh.Parent())
		}
		return o
	}
	fns := map[string]lua.LGFunction{
		"name": func(L *lua.LState) int {
			L.Push(lua.LString(object(L).Name))
			return 1
		},
		"position": func(L *lua.LState) int {
			p := object(L).Transform.Position()
			L.Push(lua.LNumber(p.X))
			L.Push(lua.LNumber(p.Y))
			L.Push(lua.LNumber(p.Z))
			return 3
		},
		"set_position": func(L *lua.LState) int {
			object(L).Transform.SetPosition(checkVec3(L, 1))
			return 0
		},
		"translate": func(L *lua.LState) int {
			object(L).Transform.Translate(checkVec3(L, 1))
			return 0
		},
		"rotate": func(L *lua.LState) int {
			axis := checkVec3(L, 1)
			object(L).Transform.RotateAxis(axis, float32(L.CheckNumber(4)))
			return 0
		},
		"prop": func(L *lua.LState) int {
			v, _ := object(L).Prop(L.CheckString(1))
			L.Push(toLua(v))
			return 1
		},
		"set_prop": func(L *lua.LState) int {
			object(L).SetProp(L.CheckString(1), fromLua(L.Get(2)))
			return 0
		},
		"delete": func(L *lua.LState) int {
			w.DeleteObject(bh.Parent())
			return 0
		},
	}
	vm.SetFuncs(t, fns)
	return t
}
