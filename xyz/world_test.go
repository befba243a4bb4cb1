// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"cogentcore.org/engine/assets"
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/physics"
	"cogentcore.org/engine/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder logs the hooks it receives.
type recorder struct {
	ComponentBase
	Label string
	Log   *[]string

	inits   int
	deletes int
}

func (rc *recorder) Init(w *World) error {
	rc.inits++
	return nil
}

func (rc *recorder) Update(w *World) error {
	if rc.Log != nil {
		*rc.Log = append(*rc.Log, rc.Label)
	}
	return nil
}

func (rc *recorder) Delete(w *World) {
	rc.deletes++
}

// failing returns an error from Update.
type failing struct {
	ComponentBase
}

var errBoom = errors.New("boom")

func (fl *failing) Update(w *World) error {
	return errBoom
}

// spawner creates a new object with a recorder on its first Update.
type spawner struct {
	ComponentBase
	Log     *[]string
	spawned bool
}

func (sp *spawner) Update(w *World) error {
	if sp.spawned {
		return nil
	}
	sp.spawned = true
	id := w.NewObject("late")
	if err := w.AddChild(id); err != nil {
		return err
	}
	_, _, err := AddComponentWith(w, id, func(rc *recorder) {
		rc.Label = "late"
		rc.Log = sp.Log
	})
	return err
}

func newTestWorld() (*World, *ManualClock) {
	clk := &ManualClock{T: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	w := NewWorld(Options{Clock: clk, FixedTimestep: 0.01})
	return w, clk
}

func TestSpawnDelete(t *testing.T) {
	w, _ := newTestWorld()
	before := len(w.Children())

	id := w.NewObject("Test")
	assert.False(t, w.IsAttached(id))
	require.NoError(t, w.AddChild(id))
	assert.Len(t, w.Children(), before+1)

	found, ok := w.FindObjectByName("Test")
	require.True(t, ok)
	assert.Equal(t, id, found)

	assert.True(t, w.DeleteObject(id))
	_, ok = w.FindObjectByName("Test")
	assert.False(t, ok)
	_, ok = w.Object(id)
	assert.False(t, ok)
	assert.Len(t, w.Children(), before)
	assert.False(t, w.DeleteObject(id), "deleting twice is a no-op")
}

func TestComponentCascade(t *testing.T) {
	w, _ := newTestWorld()
	id := w.NewObject("holder")
	require.NoError(t, w.AddChild(id))

	h1, c1, err := AddComponent[recorder](w, id)
	require.NoError(t, err)
	_, c2, err := AddComponent[recorder](w, id)
	require.NoError(t, err)
	assert.Equal(t, 1, c1.inits)
	assert.Equal(t, id, c1.Parent())
	assert.Equal(t, 2, CountOf[recorder](w))
	assert.Len(t, ComponentsOf[recorder](w, id), 2)

	first, ok := FirstComponent[recorder](w, id)
	require.True(t, ok)
	assert.Same(t, c1, first)

	w.DeleteObject(id)
	assert.Equal(t, 0, CountOf[recorder](w))
	assert.Equal(t, 1, c1.deletes)
	assert.Equal(t, 1, c2.deletes)
	_, ok = GetComponent(w, h1)
	assert.False(t, ok)
	assert.Equal(t, 0, w.NumComponents())
}

func TestValuesOfUnregistered(t *testing.T) {
	w, _ := newTestWorld()
	n := 0
	for range ValuesOf[failing](w) {
		n++
	}
	assert.Zero(t, n)
}

func TestRemoveComponent(t *testing.T) {
	w, _ := newTestWorld()
	id := w.NewObject("holder")
	h, c, err := AddComponent[recorder](w, id)
	require.NoError(t, err)

	assert.True(t, RemoveHandle(w, h))
	assert.False(t, RemoveHandle(w, h))
	assert.Equal(t, 1, c.deletes)
	assert.True(t, c.IsRemoved())
	o, _ := w.Object(id)
	assert.Empty(t, o.Components())
	_, ok := GetComponent(w, h)
	assert.False(t, ok)

	w.flushDeletions()
	h2, _, err := AddComponent[recorder](w, id)
	require.NoError(t, err)
	assert.Equal(t, h.key.Index, h2.key.Index)
	assert.NotEqual(t, h.key.Generation, h2.key.Generation)
	_, ok = GetComponent(w, h)
	assert.False(t, ok, "old handle must not alias the new component")
}

func TestStrongWeakLifetime(t *testing.T) {
	w, _ := newTestWorld()
	id := w.NewObject("kept")
	require.NoError(t, w.AddChild(id))
	ref, ok := w.ObjectRef(id)
	require.True(t, ok)
	weak := w.Weak(id)
	assert.True(t, weak.Exists(w))

	w.DeleteObject(id)
	_, ok = w.FindObjectByName("kept")
	assert.False(t, ok)
	_, ok = w.Object(id)
	assert.False(t, ok)
	_, ok = weak.Upgrade(w)
	assert.False(t, ok, "weak refs never revive a deleted object")
	assert.False(t, weak.Exists(w))

	w.flushDeletions()
	assert.Equal(t, 1, w.NumSlots(), "strong ref keeps the slot")
	assert.Equal(t, 0, w.NumObjects())
	require.NotNil(t, ref.Object())
	assert.Equal(t, "kept", ref.Object().Name)
	assert.True(t, ref.IsDeleted())

	ref.Release()
	ref.Release()
	assert.Nil(t, ref.Object())
	assert.Equal(t, 1, w.NumSlots(), "reclaim waits for the flush")
	w.flushDeletions()
	assert.Equal(t, 0, w.NumSlots())

	nid := w.NewObject("new")
	assert.Equal(t, id.key.Index, nid.key.Index)
	_, ok = w.Object(id)
	assert.False(t, ok)
	_, ok = weak.Upgrade(w)
	assert.False(t, ok)
}

func TestUpgrade(t *testing.T) {
	w, _ := newTestWorld()
	id := w.NewObject("a")
	ref, ok := w.Weak(id).Upgrade(w)
	require.True(t, ok)
	o, _ := w.Object(id)
	assert.Equal(t, 1, o.StrongCount())
	ref.Release()
	assert.Equal(t, 0, o.StrongCount())
}

func TestCycleRejected(t *testing.T) {
	w, _ := newTestWorld()
	a := w.NewObject("a")
	b := w.NewObject("b")
	c := w.NewObject("c")
	require.NoError(t, w.AddChild(a))
	require.NoError(t, w.AddChildTo(a, b))
	require.NoError(t, w.AddChildTo(b, c))

	assert.ErrorIs(t, w.AddChildTo(c, a), ErrCycle)
	assert.ErrorIs(t, w.AddChildTo(a, a), ErrCycle)
	assert.Equal(t, []ObjectID{b}, w.ChildrenOf(a), "tree is unchanged on error")
	assert.Equal(t, []ObjectID{a}, w.Children())

	assert.ErrorIs(t, w.Detach(w.NewObject("loose")), ErrNotAttached)
	assert.NoError(t, w.AddChildTo(ObjectID{}, a))
	assert.ErrorIs(t, w.AddChildTo(a, ObjectID{}), ErrStaleID)
}

func TestTreeInvariant(t *testing.T) {
	w, _ := newTestWorld()
	rnd := rand.New(rand.NewSource(1))
	var ids []ObjectID
	for i := 0; i < 20; i++ {
		ids = append(ids, w.NewObject("n"))
	}
	for i := 0; i < 500; i++ {
		a := ids[rnd.Intn(len(ids))]
		switch rnd.Intn(3) {
		case 0:
			w.AddChild(a)
		case 1:
			w.AddChildTo(ids[rnd.Intn(len(ids))], a)
		case 2:
			w.Detach(a)
		}
		seen := map[ObjectID]ObjectID{}
		for _, r := range w.Children() {
			o, _ := w.Object(r)
			assert.True(t, o.Parent().IsNil())
			seen[r] = ObjectID{}
		}
		for _, id := range ids {
			o, _ := w.Object(id)
			for _, c := range o.children {
				_, dup := seen[c]
				require.False(t, dup, "%v appears in two child lists", c)
				seen[c] = id
				co, _ := w.Object(c)
				require.Equal(t, id, co.Parent())
			}
		}
		for _, id := range ids {
			o, _ := w.Object(id)
			if !o.Parent().IsNil() {
				require.Equal(t, o.Parent(), seen[id])
			}
		}
	}
}

func TestTraversalOrder(t *testing.T) {
	w, _ := newTestWorld()
	var log []string
	add := func(name string, parent ObjectID) ObjectID {
		id := w.NewObject(name)
		if parent.IsNil() {
			require.NoError(t, w.AddChild(id))
		} else {
			require.NoError(t, w.AddChildTo(parent, id))
		}
		_, _, err := AddComponentWith(w, id, func(rc *recorder) {
			rc.Label = name
			rc.Log = &log
		})
		require.NoError(t, err)
		return id
	}
	root := add("root", ObjectID{})
	a := add("A", root)
	add("B", a)
	add("C", a)

	sc := NewScheduler(w, nil)
	require.NoError(t, sc.Tick())
	assert.Equal(t, []string{"root", "A", "B", "C"}, log)
}

func TestFrameTiming(t *testing.T) {
	w := NewWorld(Options{})
	sc := NewScheduler(w, nil)
	require.NoError(t, sc.Init())
	time.Sleep(time.Millisecond)
	require.NoError(t, sc.Tick())
	assert.Greater(t, w.DeltaTime(), time.Duration(0))
	assert.Equal(t, uint64(1), w.Frame())
}

func TestVisibleNextTick(t *testing.T) {
	w, _ := newTestWorld()
	var log []string
	id := w.NewObject("spawner")
	require.NoError(t, w.AddChild(id))
	_, _, err := AddComponentWith(w, id, func(sp *spawner) { sp.Log = &log })
	require.NoError(t, err)

	sc := NewScheduler(w, nil)
	require.NoError(t, sc.Tick())
	assert.Empty(t, log, "created during the tick, not updated in it")
	late, ok := w.FindObjectByName("late")
	require.True(t, ok)
	o, _ := w.Object(late)
	assert.True(t, o.IsActive(), "activated at the deletion flush boundary")

	require.NoError(t, sc.Tick())
	assert.Equal(t, []string{"late"}, log)
}

type initLogic struct {
	updates int
	err     error
}

func (il *initLogic) Init(w *World) error {
	id := w.NewObject("from-init")
	return w.AddChild(id)
}

func (il *initLogic) Update(w *World) error {
	il.updates++
	return il.err
}

func (il *initLogic) LateUpdate(w *World) error { return nil }

func TestInitActivates(t *testing.T) {
	w, _ := newTestWorld()
	lg := &initLogic{}
	sc := NewScheduler(w, lg)
	require.NoError(t, sc.Init())
	id, ok := w.FindObjectByName("from-init")
	require.True(t, ok)
	o, _ := w.Object(id)
	assert.True(t, o.IsActive())
	assert.Error(t, sc.Init())
}

func TestHookErrorFatal(t *testing.T) {
	w, _ := newTestWorld()
	id := w.NewObject("bad")
	require.NoError(t, w.AddChild(id))
	_, _, err := AddComponent[failing](w, id)
	require.NoError(t, err)

	sc := NewScheduler(w, nil)
	err = sc.Tick()
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "Update")
	assert.True(t, w.IsTornDown())
	assert.Equal(t, 0, w.NumSlots())
	assert.ErrorIs(t, sc.Tick(), ErrShutdown)
}

func TestLogicErrorFatal(t *testing.T) {
	w, _ := newTestWorld()
	lg := &initLogic{err: errBoom}
	sc := NewScheduler(w, lg)
	assert.ErrorIs(t, sc.Tick(), errBoom)
	assert.Equal(t, 1, lg.updates)
	assert.True(t, w.IsTornDown())
}

func TestPhaseOrder(t *testing.T) {
	w, _ := newTestWorld()
	var phases []Phase
	sc := NewScheduler(w, nil)
	sc.OnPhase = func(ph Phase) { phases = append(phases, ph) }
	require.NoError(t, sc.Tick())
	assert.Equal(t, []Phase{PhaseInit, PhaseIdle, PhaseInput, PhaseFixedUpdate, PhaseUpdate,
		PhaseLateUpdate, PhasePostUpdate, PhaseDeletionFlush, PhaseIdle}, phases)
	assert.Equal(t, "DeletionFlush", PhaseDeletionFlush.String())
}

func TestFixedUpdateSubsteps(t *testing.T) {
	w, clk := newTestWorld()
	sim := w.Physics().(*physics.Simulator)
	sc := NewScheduler(w, nil)
	require.NoError(t, sc.Init())

	clk.Advance(35 * time.Millisecond)
	require.NoError(t, sc.Tick())
	assert.Equal(t, 3, sim.Steps)
	assert.InDelta(t, 0.5, w.FixedAlpha(), 0.01)

	clk.Advance(time.Second)
	require.NoError(t, sc.Tick())
	assert.Equal(t, 3+8, sim.Steps, "substeps are capped")
	assert.Zero(t, w.FixedAlpha())
}

func TestShutdown(t *testing.T) {
	w, _ := newTestWorld()
	id := w.NewObject("held")
	require.NoError(t, w.AddChild(id))
	ref, _ := w.ObjectRef(id)

	sc := NewScheduler(w, nil)
	require.NoError(t, sc.Tick())
	w.Shutdown()
	assert.ErrorIs(t, sc.Tick(), ErrShutdown)
	assert.True(t, w.IsTornDown())
	assert.Equal(t, 1, w.NumSlots())
	ref.Release()
	assert.Equal(t, 0, w.NumSlots(), "release after teardown reclaims at once")
}

func TestWorldMatrix(t *testing.T) {
	w, _ := newTestWorld()
	p := w.NewObject("parent")
	c := w.NewObject("child")
	require.NoError(t, w.AddChild(p))
	require.NoError(t, w.AddChildTo(p, c))
	po, _ := w.Object(p)
	co, _ := w.Object(c)
	po.Transform.SetPosition(math32.Vec3(1, 0, 0))
	co.Transform.SetPosition(math32.Vec3(0, 2, 0))

	pos, ok := w.WorldPosition(c)
	require.True(t, ok)
	assert.True(t, pos.IsEqualTol(math32.Vec3(1, 2, 0), 1e-5))

	stamp := co.stamp
	w.WorldMatrix(c)
	assert.Equal(t, stamp, co.stamp, "cached when nothing changed")

	po.Transform.SetAxisRotation(math32.Vec3(0, 0, 1), 90)
	pos, _ = w.WorldPosition(c)
	assert.True(t, pos.IsEqualTol(math32.Vec3(-1, 0, 0), 1e-5), "%v", pos)

	require.NoError(t, w.AddChild(c))
	pos, _ = w.WorldPosition(c)
	assert.True(t, pos.IsEqualTol(math32.Vec3(0, 2, 0), 1e-5))

	require.NoError(t, w.AddChildTo(p, c))
	require.True(t, w.SetWorldPosition(c, math32.Vec3(1, 5, 0)))
	pos, _ = w.WorldPosition(c)
	assert.True(t, pos.IsEqualTol(math32.Vec3(1, 5, 0), 1e-4), "%v", pos)
}

func TestCloneObject(t *testing.T) {
	w, _ := newTestWorld()
	var log []string
	a := w.NewObject("a")
	b := w.NewObject("b")
	require.NoError(t, w.AddChildTo(a, b))
	ao, _ := w.Object(a)
	ao.SetDrawable(assets.MeshCube, assets.MaterialDefault)
	ao.SetProp("hp", 10)
	ao.Transform.SetPosition(math32.Vec3(3, 0, 0))
	_, _, err := AddComponentWith(w, b, func(rc *recorder) {
		rc.Label = "b"
		rc.Log = &log
	})
	require.NoError(t, err)

	cl, err := w.CloneObject(a)
	require.NoError(t, err)
	assert.NotEqual(t, a, cl)
	clo, _ := w.Object(cl)
	assert.Equal(t, "a", clo.Name)
	assert.False(t, clo.IsAttached())
	assert.Equal(t, math32.Vec3(3, 0, 0), clo.Transform.Position())
	require.NotNil(t, clo.Drawable)
	assert.NotSame(t, ao.Drawable, clo.Drawable)
	hp, _ := clo.Prop("hp")
	assert.Equal(t, 10, hp)

	kids := w.ChildrenOf(cl)
	require.Len(t, kids, 1)
	rc, ok := FirstComponent[recorder](w, kids[0])
	require.True(t, ok)
	assert.Equal(t, "b", rc.Label)
	assert.Equal(t, kids[0], rc.Parent())
	assert.Equal(t, 1, rc.inits)
	assert.Equal(t, 2, CountOf[recorder](w))
}

func TestRegistry(t *testing.T) {
	RegisterComponent[recorder]("test.recorder")
	assert.Contains(t, ComponentTypeNames(), "test.recorder")

	w, _ := newTestWorld()
	id := w.NewObject("data")
	c, err := w.NewComponentByName(id, "test.recorder", func(c Component) error {
		c.(*recorder).Label = "configured"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "configured", c.(*recorder).Label)
	assert.Equal(t, 1, c.(*recorder).inits)

	_, err = w.NewComponentByName(id, "nope", nil)
	assert.Error(t, err)
}

type camContrib struct {
	ComponentBase
}

func (cc *camContrib) Contribute(w *World, f *render.Frame) {
	f.HasCamera = true
}

func TestSnapshot(t *testing.T) {
	mb := render.NewMailbox()
	clk := &ManualClock{}
	w := NewWorld(Options{Clock: clk, Frames: mb})
	a := w.NewObject("a")
	require.NoError(t, w.AddChild(a))
	ao, _ := w.Object(a)
	ao.SetDrawable(assets.MeshCube, assets.MaterialDefault)
	ao.Transform.SetPosition(math32.Vec3(0, 1, 0))
	hidden := w.NewObject("hidden")
	require.NoError(t, w.AddChild(hidden))
	ho, _ := w.Object(hidden)
	ho.SetDrawable(assets.MeshCube, assets.MaterialDefault).Visible = false
	_, _, err := AddComponent[camContrib](w, a)
	require.NoError(t, err)

	sc := NewScheduler(w, nil)
	require.NoError(t, sc.Tick())
	f, ok := mb.Take()
	require.True(t, ok)
	require.Len(t, f.Proxies, 1)
	assert.Equal(t, a.Uint64(), f.Proxies[0].Object)
	assert.Equal(t, a, ObjectIDFromUint64(f.Proxies[0].Object))
	assert.Equal(t, float32(1), f.Proxies[0].Model[13])
	assert.True(t, f.HasCamera)

	w.DeleteObject(a)
	require.NoError(t, sc.Tick())
	f, _ = mb.Take()
	assert.Empty(t, f.Proxies, "deleted objects drop out of the next snapshot")
}

func TestCastRay(t *testing.T) {
	w, _ := newTestWorld()
	id := w.NewObject("target")
	bd := physics.Body{Kind: physics.Static, Shape: &physics.Sphere{Radius: 1}, UserData: id}
	bd.State.Defaults()
	bd.State.Pos = math32.Vec3(0, 0, -5)
	w.Physics().AddBody(bd)

	hit, toi, ok := w.CastRay(math32.NewRay(math32.Vector3{}, math32.Vec3(0, 0, -1)), 100)
	require.True(t, ok)
	assert.Equal(t, id, hit)
	assert.InDelta(t, 4, toi, 1e-4)

	w.DeleteObject(id)
	_, _, ok = w.CastRay(math32.NewRay(math32.Vector3{}, math32.Vec3(0, 0, -1)), 100)
	assert.False(t, ok)
}

func TestSpawn(t *testing.T) {
	w, _ := newTestWorld()
	w.Library().Add(&PrefabFunc{Name: "thing", Func: func(w *World) (ObjectID, error) {
		return w.NewObject("thing"), nil
	}})
	id, err := w.SpawnNamed("thing")
	require.NoError(t, err)
	assert.True(t, w.IsAttached(id))
	_, err = w.SpawnNamed("missing")
	assert.ErrorIs(t, err, ErrNoPrefab)
}

func TestGameEvents(t *testing.T) {
	ch := make(chan render.GameEvent, 1)
	w := NewWorld(Options{GameEvents: ch})
	w.SetWindowTitle("a")
	w.SetWindowTitle("b") // dropped, channel full
	ev := <-ch
	assert.Equal(t, "a", ev.Title)
	w.Input().LockCursor()
	ev = <-ch
	assert.Equal(t, render.GameCursorMode, ev.Kind)
	assert.True(t, ev.CursorLocked)
}

func TestWorldMatrixTransformCopy(t *testing.T) {
	w, _ := newTestWorld()
	a := w.NewObject("a")
	b := w.NewObject("b")
	require.NoError(t, w.AddChild(a))
	require.NoError(t, w.AddChild(b))
	oa, _ := w.Object(a)
	ob, _ := w.Object(b)
	oa.Transform.SetPosition(math32.Vec3(1, 0, 0))
	ob.Transform.SetPosition(math32.Vec3(5, 0, 0))

	pos, _ := w.WorldPosition(a)
	assert.Equal(t, math32.Vec3(1, 0, 0), pos)
	assert.NotEqual(t, oa.Transform.Version(), ob.Transform.Version())

	oa.Transform = ob.Transform
	pos, _ = w.WorldPosition(a)
	assert.Equal(t, math32.Vec3(5, 0, 0), pos)

	var zero Transform
	oa.Transform = zero
	pos, _ = w.WorldPosition(a)
	assert.Equal(t, math32.Vector3{}, pos)
}

// litter creates an attached object, with a recorder, from its Delete hook.
type litter struct {
	ComponentBase
}

func (lt *litter) Delete(w *World) {
	id := w.NewObject("litter")
	if err := w.AddChild(id); err != nil {
		panic(err)
	}
	AddComponent[recorder](w, id)
}

func TestTeardownDeleteHookObjects(t *testing.T) {
	w, _ := newTestWorld()
	id := w.NewObject("messy")
	require.NoError(t, w.AddChild(id))
	_, _, err := AddComponent[recorder](w, id)
	require.NoError(t, err)
	other := w.NewObject("other")
	require.NoError(t, w.AddChild(other))
	_, _, err = AddComponent[litter](w, other)
	require.NoError(t, err)

	sc := NewScheduler(w, nil)
	require.NoError(t, sc.Init())
	sc.Teardown()
	assert.True(t, w.IsTornDown())
	assert.Equal(t, 0, w.NumObjects())
	assert.Equal(t, 0, w.NumSlots())
	_, ok := w.FindObjectByName("litter")
	assert.False(t, ok)
}

// rootKiller deletes every object named "root" when initialized with Kill set.
type rootKiller struct {
	ComponentBase
	Kill bool
}

func (rk *rootKiller) Init(w *World) error {
	if !rk.Kill {
		return nil
	}
	for id, ok := w.FindObjectByName("root"); ok; id, ok = w.FindObjectByName("root") {
		w.DeleteObject(id)
	}
	return nil
}

func TestCloneObjectAttachFailure(t *testing.T) {
	w, _ := newTestWorld()
	root := w.NewObject("root")
	child := w.NewObject("child")
	require.NoError(t, w.AddChild(root))
	require.NoError(t, w.AddChildTo(root, child))
	_, rk, err := AddComponent[rootKiller](w, child)
	require.NoError(t, err)
	rk.Kill = true

	_, err = w.CloneObject(root)
	assert.ErrorIs(t, err, ErrStaleID)
	assert.Equal(t, 0, w.NumObjects(), "no orphan clone is left behind")
}
