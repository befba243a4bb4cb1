// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Phase is a phase of the frame lifecycle.
type Phase int32

const (
	// PhaseIdle is outside of any phase: before Init and between ticks.
	PhaseIdle Phase = iota
	PhaseInit
	PhaseInput
	PhaseFixedUpdate
	PhaseUpdate
	PhaseLateUpdate
	PhasePostUpdate
	PhaseDeletionFlush
	PhaseTeardown
)

var phaseNames = [...]string{"Idle", "Init", "Input", "FixedUpdate", "Update", "LateUpdate", "PostUpdate", "DeletionFlush", "Teardown"}

func (ph Phase) String() string {
	if ph < 0 || int(ph) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", ph)
	}
	return phaseNames[ph]
}

// TickPhases are the phases of one tick, in the order they run.
var TickPhases = []Phase{PhaseInput, PhaseFixedUpdate, PhaseUpdate, PhaseLateUpdate, PhasePostUpdate, PhaseDeletionFlush}

// Logic is the game logic driven by a [Scheduler]. Hook errors stop
// the frame loop.
type Logic interface {
	Init(w *World) error
	Update(w *World) error
	LateUpdate(w *World) error
}

// Scheduler runs the frame lifecycle of a [World]:
// Init, then ticks of Input, FixedUpdate, Update, LateUpdate,
// PostUpdate and DeletionFlush, then Teardown. Any hook error is
// fatal: it is logged, the world is torn down and the error returned.
type Scheduler struct {
	World *World

	// Logic is the game logic; it may be nil.
	Logic Logic

	// OnPhase, if set, is called at the start of every phase.
	OnPhase func(ph Phase)

	initialized bool
}

// NewScheduler returns a new [Scheduler] for the world and logic.
func NewScheduler(w *World, logic Logic) *Scheduler {
	return &Scheduler{World: w, Logic: logic}
}

// Phase returns the current phase.
func (sc *Scheduler) Phase() Phase {
	return sc.World.phase
}

// IsInitialized returns whether the Init phase has run.
func (sc *Scheduler) IsInitialized() bool {
	return sc.initialized
}

func (sc *Scheduler) enter(ph Phase) {
	sc.World.phase = ph
	if sc.OnPhase != nil {
		sc.OnPhase(ph)
	}
}

// fail logs a fatal hook error, tears the world down and
// returns the error wrapped with the phase.
func (sc *Scheduler) fail(ph Phase, err error) error {
	w := sc.World
	slog.Error("xyz.Scheduler: fatal hook error", "phase", ph, "frame", w.frame, "err", err)
	sc.Teardown()
	return fmt.Errorf("xyz: %v phase of frame %d: %w", ph, w.frame, err)
}

// Init runs the Init phase: the clock starts and the logic Init hook
// runs. Everything created during Init is active for the first tick.
func (sc *Scheduler) Init() error {
	w := sc.World
	if sc.initialized {
		return errors.New("xyz.Scheduler.Init: already initialized")
	}
	sc.initialized = true
	sc.enter(PhaseInit)
	now := w.opts.Clock.Now()
	w.startTime, w.lastTime = now, now
	if sc.Logic != nil {
		if err := sc.Logic.Init(w); err != nil {
			return sc.fail(PhaseInit, err)
		}
	}
	w.activatePending()
	sc.enter(PhaseIdle)
	return nil
}

// Tick runs one tick: all of [TickPhases] in order. If the world was
// shut down during the tick, it is torn down after the deletion flush
// and [ErrShutdown] is returned.
func (sc *Scheduler) Tick() error {
	w := sc.World
	if w.tornDown {
		return ErrShutdown
	}
	if !sc.initialized {
		if err := sc.Init(); err != nil {
			return err
		}
	}
	for _, ph := range TickPhases {
		sc.enter(ph)
		if err := sc.runPhase(ph); err != nil {
			return sc.fail(ph, err)
		}
	}
	w.frame++
	sc.enter(PhaseIdle)
	if w.shutdown {
		sc.Teardown()
		return ErrShutdown
	}
	return nil
}

func (sc *Scheduler) runPhase(ph Phase) error {
	w := sc.World
	switch ph {
	case PhaseInput:
		w.advanceClock()
		w.opts.Input.Merge()
		if w.opts.Input.QuitRequested() {
			w.Shutdown()
		}
	case PhaseFixedUpdate:
		return sc.fixedUpdate()
	case PhaseUpdate:
		if sc.Logic != nil {
			if err := sc.Logic.Update(w); err != nil {
				return err
			}
		}
		return w.runHooks(Component.Update)
	case PhaseLateUpdate:
		if sc.Logic != nil {
			if err := sc.Logic.LateUpdate(w); err != nil {
				return err
			}
		}
		return w.runHooks(Component.LateUpdate)
	case PhasePostUpdate:
		w.UpdateWorldMatrices()
		if err := w.runHooks(Component.PostUpdate); err != nil {
			return err
		}
		if w.opts.Frames != nil {
			w.opts.Frames.Publish(w.Snapshot())
		}
	case PhaseDeletionFlush:
		w.flushDeletions()
		w.activatePending()
	}
	return nil
}

// fixedUpdate steps physics as many times as the accumulated time
// allows, up to the substep cap; leftover time beyond the cap is dropped.
func (sc *Scheduler) fixedUpdate() error {
	w := sc.World
	step := w.opts.FixedTimestep
	w.accumulator += w.DeltaSeconds()
	n := 0
	for w.accumulator >= step && n < w.opts.MaxSubsteps {
		if err := w.runHooks(Component.PreFixedUpdate); err != nil {
			return err
		}
		w.opts.Physics.Step(step)
		if err := w.runHooks(Component.FixedUpdate); err != nil {
			return err
		}
		w.accumulator -= step
		n++
	}
	if w.accumulator >= step {
		slog.Debug("xyz.Scheduler: physics is behind, dropping time", "dropped", w.accumulator, "substeps", n)
		w.accumulator = 0
	}
	w.fixedAlpha = w.accumulator / step
	return nil
}

// runHooks calls the hook on every active component of every active
// attached object, in scene pre-order and component attach order.
// The traversal is fixed at the start of the pass; objects and
// components deleted during the pass are skipped.
func (w *World) runHooks(hook func(c Component, w *World) error) error {
	for _, id := range w.Traversal() {
		o, ok := w.Object(id)
		if !ok || !o.active {
			continue
		}
		for _, cid := range o.Components() {
			c, ok := w.Component(cid)
			if !ok || !c.AsComponentBase().active {
				continue
			}
			if err := hook(c, w); err != nil {
				return fmt.Errorf("%v of %q: %w", cid, o.Name, err)
			}
		}
	}
	return nil
}

// maxTeardownPasses bounds the delete passes of [Scheduler.Teardown].
const maxTeardownPasses = 64

// Teardown deletes every object, flushes all deletions and marks the
// world as torn down. Strong references released afterwards reclaim
// their object at once. Calling it more than once has no effect.
func (sc *Scheduler) Teardown() {
	w := sc.World
	if w.tornDown {
		return
	}
	sc.enter(PhaseTeardown)
	// Delete hooks may create objects, so repeat until none are left.
	for pass := 0; ; pass++ {
		var live []*Object
		for _, o := range w.objects.All() {
			if !o.deleted {
				live = append(live, o)
			}
		}
		if len(live) == 0 {
			break
		}
		if pass == maxTeardownPasses {
			slog.Error("xyz.Scheduler.Teardown: delete hooks keep creating objects", "passes", pass, "live", len(live))
			break
		}
		for _, o := range live {
			if !o.deleted {
				w.detach(o)
				w.deleteTree(o)
			}
		}
	}
	w.flushDeletions()
	w.pendingObjects = nil
	w.pendingComponents = nil
	w.tornDown = true
	slog.Debug("xyz.Scheduler.Teardown", "frames", w.frame, "remaining", w.NumSlots())
}

// Run initializes the world if needed, then runs one tick for every
// value received on frames until the channel is closed, the context
// is canceled or the world shuts down. Fatal hook errors are returned.
func (sc *Scheduler) Run(ctx context.Context, frames <-chan struct{}) error {
	if !sc.initialized {
		if err := sc.Init(); err != nil {
			return err
		}
	}
	defer sc.Teardown()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			if err := sc.Tick(); err != nil {
				if errors.Is(err, ErrShutdown) {
					return nil
				}
				return err
			}
		}
	}
}
