// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xyz is the scene runtime: objects in a parent/child tree
// addressed by generation-stamped ids, components attached to them,
// strong and weak references with two-phase deletion, and the
// [Scheduler] that runs the per-frame phases over a [World].
package xyz

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"cogentcore.org/engine/assets"
	"cogentcore.org/engine/audio"
	"cogentcore.org/engine/input"
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/physics"
	"cogentcore.org/engine/render"
	"cogentcore.org/engine/slotmap"
)

var (
	// ErrStaleID is returned when an id does not refer to a live object.
	ErrStaleID = errors.New("xyz: stale or deleted id")

	// ErrCycle is returned when attaching an object under itself
	// or one of its descendants.
	ErrCycle = errors.New("xyz: object would become its own ancestor")

	// ErrNotAttached is returned when detaching an object that is
	// not in the scene tree.
	ErrNotAttached = errors.New("xyz: object is not attached")

	// ErrShutdown is returned by [Scheduler.Tick] after the world
	// was shut down and torn down.
	ErrShutdown = errors.New("xyz: world shut down")
)

// Clock is the source of time of a [World].
type Clock interface {
	Now() time.Time
}

// SystemClock is the [Clock] of the system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a [Clock] that only moves when advanced.
type ManualClock struct {
	T time.Time
}

func (mc *ManualClock) Now() time.Time { return mc.T }

// Advance moves the clock forward.
func (mc *ManualClock) Advance(d time.Duration) {
	mc.T = mc.T.Add(d)
}

// FrameSink receives the frame snapshot built at the end of each tick.
// [render.Mailbox] is a FrameSink.
type FrameSink interface {
	Publish(f *render.Frame)
}

// Options are the collaborators and settings of a [World].
type Options struct {
	Physics physics.World
	Audio   *audio.Scene
	Input   *input.Manager
	Assets  *assets.Assets
	Library *Library

	// Frames receives frame snapshots; nil disables them.
	Frames FrameSink

	// GameEvents receives window requests; nil drops them.
	GameEvents chan<- render.GameEvent

	Clock Clock

	// FixedTimestep is the physics step in seconds.
	FixedTimestep float32

	// MaxSubsteps caps the number of physics steps per tick.
	MaxSubsteps int

	// Width and Height are the initial surface size.
	Width, Height int
}

// Defaults fills unset options with the built-in collaborators.
func (op *Options) Defaults() {
	if op.Physics == nil {
		op.Physics = physics.NewSimulator()
	}
	if op.Audio == nil {
		op.Audio = audio.NewScene(audio.DefaultSampleRate)
	}
	if op.Input == nil {
		op.Input = input.NewManager()
	}
	if op.Assets == nil {
		op.Assets = assets.New()
	}
	if op.Library == nil {
		op.Library = NewLibrary()
	}
	if op.Clock == nil {
		op.Clock = SystemClock{}
	}
	if op.FixedTimestep <= 0 {
		op.FixedTimestep = 1.0 / 60
	}
	if op.MaxSubsteps <= 0 {
		op.MaxSubsteps = 8
	}
	if op.Width <= 0 || op.Height <= 0 {
		op.Width, op.Height = 1280, 720
	}
}

// World is the single coordination point of the scene: it owns the
// objects, the scene tree and the component stores, and gives access
// to the physics, audio, input and asset collaborators. It is owned
// by the logic goroutine and is not safe for concurrent use.
type World struct {
	opts Options

	objects    *slotmap.Map[*Object]
	roots      []ObjectID
	stores     map[reflect.Type]componentStore
	storeOrder []reflect.Type

	// pending objects and components become active at the end of the tick.
	pendingObjects    []ObjectID
	pendingComponents []ComponentID

	// deleted objects wait for their strong count to drop to zero.
	deletedObjects    []ObjectID
	removedComponents []ComponentID

	phase    Phase
	tornDown bool
	shutdown bool

	frame     uint64
	startTime time.Time
	lastTime  time.Time
	delta     time.Duration
	elapsed   float64

	accumulator float32
	fixedAlpha  float32

	activeCamera ObjectID
	width        int
	height       int

	stamp uint64
}

// NewWorld returns a new empty [World] with the given collaborators.
func NewWorld(opts Options) *World {
	opts.Defaults()
	w := &World{
		opts:    opts,
		objects: slotmap.New[*Object](),
		stores:  map[reflect.Type]componentStore{},
		width:   opts.Width,
		height:  opts.Height,
	}
	now := opts.Clock.Now()
	w.startTime, w.lastTime = now, now
	if opts.Input.OnCursorMode == nil {
		opts.Input.OnCursorMode = w.SetCursorMode
	}
	return w
}

// Physics returns the physics collaborator.
func (w *World) Physics() physics.World { return w.opts.Physics }

// Audio returns the audio collaborator.
func (w *World) Audio() *audio.Scene { return w.opts.Audio }

// Input returns the input snapshot of the current frame.
func (w *World) Input() *input.Manager { return w.opts.Input }

// Assets returns the asset stores.
func (w *World) Assets() *assets.Assets { return w.opts.Assets }

// Library returns the prefab library.
func (w *World) Library() *Library { return w.opts.Library }

// FixedTimestep returns the physics step in seconds.
func (w *World) FixedTimestep() float32 { return w.opts.FixedTimestep }

// NewObject creates a new object with the given name. The object is
// not attached to the scene tree: use [World.AddChild] or
// [World.AddChildTo]. Objects created during a tick take part in hook
// passes from the next tick on.
func (w *World) NewObject(name string) ObjectID {
	o := &Object{Name: name}
	o.Transform.Defaults()
	o.id = ObjectID{key: w.objects.Insert(o)}
	o.active = !w.inTick()
	if !o.active {
		w.pendingObjects = append(w.pendingObjects, o.id)
	}
	return o.id
}

// Object returns the live object for the id. Logically deleted
// objects are not returned.
func (w *World) Object(id ObjectID) (*Object, bool) {
	o := w.objectAny(id)
	if o == nil || o.deleted {
		return nil, false
	}
	return o, true
}

// objectAny returns the object in the slot, including a logically
// deleted one that is kept alive by strong references.
func (w *World) objectAny(id ObjectID) *Object {
	if id.IsNil() {
		return nil
	}
	o, _ := w.objects.Get(id.key)
	return o
}

// FindObjectByName returns the first live object with the given
// name, in slot order.
func (w *World) FindObjectByName(name string) (ObjectID, bool) {
	for _, o := range w.objects.All() {
		if !o.deleted && o.Name == name {
			return o.id, true
		}
	}
	return ObjectID{}, false
}

// NumObjects returns the number of live objects.
func (w *World) NumObjects() int {
	return w.objects.Len() - len(w.deletedObjects)
}

// NumSlots returns the number of occupied object slots, including
// logically deleted objects that are not reclaimed yet.
func (w *World) NumSlots() int {
	return w.objects.Len()
}

// DeleteObject logically deletes the object and its whole subtree:
// they are detached, their components are removed, and they vanish
// from lookups and traversal at once. Storage is reclaimed at the next
// deletion flush once no strong reference remains.
// It returns false for stale ids.
func (w *World) DeleteObject(id ObjectID) bool {
	o, ok := w.Object(id)
	if !ok {
		return false
	}
	w.detach(o)
	w.deleteTree(o)
	return true
}

func (w *World) deleteTree(o *Object) {
	o.deleting = true
	for _, cid := range o.Components() {
		w.RemoveComponent(cid)
	}
	children := o.children
	o.children = nil
	o.deleted = true
	o.active = false
	if w.activeCamera == o.id {
		w.activeCamera = ObjectID{}
	}
	w.deletedObjects = append(w.deletedObjects, o.id)
	for _, cid := range children {
		if c := w.objectAny(cid); c != nil && !c.deleted {
			c.parent = ObjectID{}
			w.deleteTree(c)
		}
	}
}

// reclaim frees the storage slot of a deleted object.
func (w *World) reclaim(o *Object) {
	w.deletedObjects = deleteID(w.deletedObjects, o.id)
	w.objects.Remove(o.id.key)
}

// flushDeletions physically removes the components removed so far and
// the deleted objects without strong references. It returns the number
// of reclaimed objects.
func (w *World) flushDeletions() int {
	for _, id := range w.removedComponents {
		if st, ok := w.stores[id.typ]; ok {
			st.remove(id.key)
		}
	}
	w.removedComponents = w.removedComponents[:0]
	n := 0
	kept := w.deletedObjects[:0]
	for _, id := range w.deletedObjects {
		o := w.objectAny(id)
		if o == nil {
			continue
		}
		if o.strong > 0 {
			kept = append(kept, id)
			continue
		}
		w.objects.Remove(id.key)
		n++
	}
	w.deletedObjects = kept
	return n
}

// activatePending makes the objects and components created during
// the current tick visible to hook passes.
func (w *World) activatePending() {
	for _, id := range w.pendingObjects {
		if o, ok := w.Object(id); ok {
			o.active = true
		}
	}
	w.pendingObjects = w.pendingObjects[:0]
	for _, id := range w.pendingComponents {
		if c, ok := w.Component(id); ok {
			c.AsComponentBase().active = true
		}
	}
	w.pendingComponents = w.pendingComponents[:0]
}

// Phase returns the phase the world is in.
func (w *World) Phase() Phase {
	return w.phase
}

func (w *World) inTick() bool {
	return w.phase != PhaseIdle && w.phase != PhaseTeardown
}

// Frame returns the number of completed ticks.
func (w *World) Frame() uint64 {
	return w.frame
}

// DeltaTime returns the time between the start of the previous tick
// and the start of the current one.
func (w *World) DeltaTime() time.Duration {
	return w.delta
}

// DeltaSeconds returns [World.DeltaTime] in seconds.
func (w *World) DeltaSeconds() float32 {
	return float32(w.delta.Seconds())
}

// Time returns the time since the world started, in seconds.
func (w *World) Time() float64 {
	return w.elapsed
}

// StartTime returns the time the world started.
func (w *World) StartTime() time.Time {
	return w.startTime
}

// FixedAlpha returns the fraction of a physics step that remained in
// the accumulator after the last FixedUpdate, for interpolation.
func (w *World) FixedAlpha() float32 {
	return w.fixedAlpha
}

// advanceClock updates the delta time from the clock.
func (w *World) advanceClock() {
	now := w.opts.Clock.Now()
	w.delta = now.Sub(w.lastTime)
	if w.delta < 0 {
		w.delta = 0
	}
	w.lastTime = now
	w.elapsed = now.Sub(w.startTime).Seconds()
}

// Shutdown requests the frame loop to stop. The world is torn down
// after the deletion flush of the current tick.
func (w *World) Shutdown() {
	if !w.shutdown {
		slog.Info("xyz.World.Shutdown", "frame", w.frame)
	}
	w.shutdown = true
}

// IsShuttingDown returns whether [World.Shutdown] was called.
func (w *World) IsShuttingDown() bool {
	return w.shutdown
}

// IsTornDown returns whether the world has been torn down.
func (w *World) IsTornDown() bool {
	return w.tornDown
}

func (w *World) sendGameEvent(ev render.GameEvent) {
	if w.opts.GameEvents == nil {
		return
	}
	select {
	case w.opts.GameEvents <- ev:
	default:
		slog.Warn("xyz.World: game event channel full, dropping request", "kind", ev.Kind)
	}
}

// SetWindowTitle asks the render goroutine to set the window title.
func (w *World) SetWindowTitle(title string) {
	w.sendGameEvent(render.GameEvent{Kind: render.GameWindowTitle, Title: title})
}

// SetCursorMode asks the render goroutine to lock or release the cursor.
func (w *World) SetCursorMode(locked bool) {
	w.sendGameEvent(render.GameEvent{Kind: render.GameCursorMode, CursorLocked: locked})
}

// Resize sets the surface size, used by cameras for their aspect ratio.
func (w *World) Resize(width, height int) {
	if width > 0 && height > 0 {
		w.width, w.height = width, height
	}
}

// Size returns the surface size.
func (w *World) Size() (width, height int) {
	return w.width, w.height
}

// ActiveCamera returns the object whose camera the frame is drawn from.
func (w *World) ActiveCamera() (ObjectID, bool) {
	if _, ok := w.Object(w.activeCamera); !ok {
		return ObjectID{}, false
	}
	return w.activeCamera, true
}

// SetActiveCamera sets the object whose camera the frame is drawn from.
func (w *World) SetActiveCamera(id ObjectID) {
	w.activeCamera = id
}

// CastRay casts a ray into the physics world and returns the closest
// live object that was hit, with the distance to it.
func (w *World) CastRay(ray math32.Ray, maxTOI float32) (ObjectID, float32, bool) {
	hit, ok := w.opts.Physics.CastRay(ray, maxTOI)
	if !ok {
		return ObjectID{}, 0, false
	}
	id, ok := hit.UserData.(ObjectID)
	if !ok {
		return ObjectID{}, 0, false
	}
	if _, ok := w.Object(id); !ok {
		return ObjectID{}, 0, false
	}
	return id, hit.TOI, true
}

// Spawn builds the prefab and attaches the returned root at the root
// level of the scene.
func (w *World) Spawn(p Prefab) (ObjectID, error) {
	id, err := p.Build(w)
	if err != nil {
		return ObjectID{}, fmt.Errorf("xyz.World.Spawn %q: %w", p.PrefabName(), err)
	}
	if err := w.AddChild(id); err != nil {
		w.DeleteObject(id)
		return ObjectID{}, fmt.Errorf("xyz.World.Spawn %q: %w", p.PrefabName(), err)
	}
	return id, nil
}

// SpawnNamed spawns the prefab registered under the name in the library.
func (w *World) SpawnNamed(name string) (ObjectID, error) {
	p, ok := w.opts.Library.Get(name)
	if !ok {
		return ObjectID{}, fmt.Errorf("xyz.World.SpawnNamed %q: %w", name, ErrNoPrefab)
	}
	return w.Spawn(p)
}
