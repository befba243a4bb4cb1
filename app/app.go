// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app runs a game: the logic goroutine ticking the [xyz.World]
// and the render goroutine drawing its frames, under one errgroup.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cogentcore.org/engine/assets"
	"cogentcore.org/engine/audio"
	"cogentcore.org/engine/config"
	"cogentcore.org/engine/input"
	"cogentcore.org/engine/physics"
	"cogentcore.org/engine/prefabs"
	"cogentcore.org/engine/render"
	"cogentcore.org/engine/xyz"
	"github.com/faiface/beep"
	"golang.org/x/sync/errgroup"
)

// State is the game logic driven by the frame loop. Init is called
// once with the world before the first tick; Update and LateUpdate
// run before the component hooks of their phase.
type State interface {
	xyz.Logic
}

// App holds everything a run needs. The zero values of the optional
// fields are replaced with defaults by [App.Run].
type App struct {
	Config *config.Config
	State  State
	Device render.Device

	// Window is the source of window and device events; nil for
	// headless runs.
	Window <-chan render.Event

	// Assets are shared by both goroutines.
	Assets *assets.Assets

	// Library holds the prefabs; the built-ins and the definitions
	// listed in the config are added to it.
	Library *xyz.Library

	Clock xyz.Clock

	// MaxFrames ends the run after that many ticks when positive.
	MaxFrames int

	// World, Scheduler and Renderer are set by [App.Run].
	World     *xyz.World
	Scheduler *xyz.Scheduler
	Renderer  *render.Renderer

	events chan render.Event
}

// Run runs the state with the config on the device until the game shuts
// down, the window closes or ctx is canceled. See [App.Run].
func Run(ctx context.Context, cfg *config.Config, state State, device render.Device) error {
	ap := &App{Config: cfg, State: state, Device: device}
	return ap.Run(ctx)
}

func (ap *App) defaults() error {
	if ap.Config == nil {
		ap.Config = config.New()
	}
	if err := ap.Config.Validate(); err != nil {
		return err
	}
	if ap.Device == nil {
		ap.Device = render.NewHeadless(ap.Config.Window.Width, ap.Config.Window.Height)
	}
	if ap.Assets == nil {
		ap.Assets = assets.New()
	}
	if ap.Library == nil {
		ap.Library = xyz.NewLibrary()
	}
	prefabs.AddBuiltins(ap.Library)
	for _, path := range ap.Config.Assets.Prefabs {
		defs, err := prefabs.LoadDefinitionsFile(path)
		if err != nil {
			return err
		}
		prefabs.AddDefinitions(ap.Library, defs)
	}
	return nil
}

// Setup creates the world, scheduler and renderer without running them.
// It is called by [App.Run] when World is nil.
func (ap *App) Setup() error {
	if err := ap.defaults(); err != nil {
		return fmt.Errorf("app.Setup: %w", err)
	}
	cf := ap.Config
	events := make(chan render.Event, cf.Render.EventBuffer)
	gameEvents := make(chan render.GameEvent, cf.Render.EventBuffer)
	mailbox := render.NewMailbox()

	phys := physics.NewSimulator()
	phys.SetGravity(cf.Physics.GravityVector())
	snd := audio.NewScene(beep.SampleRate(cf.Audio.SampleRate))
	snd.SetMasterVolume(cf.Audio.Volume)
	in := input.NewManager()
	in.QuitOnEscape = cf.Input.QuitOnEscape
	in.AutoCursorLock = cf.Input.AutoCursorLock

	ap.World = xyz.NewWorld(xyz.Options{
		Physics:       phys,
		Audio:         snd,
		Input:         in,
		Assets:        ap.Assets,
		Library:       ap.Library,
		Frames:        mailbox,
		GameEvents:    gameEvents,
		Clock:         ap.Clock,
		FixedTimestep: cf.Frame.FixedTimestep(),
		MaxSubsteps:   cf.Frame.MaxSubsteps,
		Width:         cf.Window.Width,
		Height:        cf.Window.Height,
	})
	ap.Scheduler = xyz.NewScheduler(ap.World, ap.State)
	ap.Renderer = &render.Renderer{
		Device:        ap.Device,
		Cache:         render.NewCache(ap.Assets, ap.Device),
		Mailbox:       mailbox,
		Events:        events,
		GameEvents:    gameEvents,
		Window:        ap.Window,
		FrameInterval: cf.Frame.Interval(),
		Width:         cf.Window.Width,
		Height:        cf.Window.Height,
	}
	ap.events = events
	ap.World.SetWindowTitle(cf.Window.Title)
	return nil
}

// Run runs the render and logic goroutines. It returns the first fatal
// error of either, or nil when the game shut down, the window closed
// or ctx was canceled. The world is torn down on return.
func (ap *App) Run(ctx context.Context) error {
	if ap.World == nil {
		if err := ap.Setup(); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return ap.Renderer.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return ap.game(ctx)
	})
	if ap.Config.Assets.Watch {
		wt, err := assets.NewWatcher(ap.Assets)
		if err != nil {
			slog.Warn("app.App.Run: no asset watcher", "err", err)
		} else if err := wt.Add(ap.Config.Assets.Dirs...); err != nil {
			slog.Warn("app.App.Run: no asset watcher", "err", err)
			wt.Close()
		} else {
			wt.OnReload = func(path string, n int) {
				slog.Info("app: reloaded", "path", path, "shaders", n)
			}
			g.Go(func() error { return wt.Run(ctx) })
		}
	}
	return g.Wait()
}

// game is the logic goroutine. It blocks on render events; on each
// StartFrame it drains the events already queued and runs one tick.
func (ap *App) game(ctx context.Context) error {
	sc := ap.Scheduler
	defer sc.Teardown()
	ticks := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ap.events:
			if !ok {
				return nil
			}
			if ev.Kind != render.EventStartFrame {
				if done, err := ap.handle(ev); done || err != nil {
					return err
				}
				continue
			}
			if done, err := ap.pump(); done || err != nil {
				return err
			}
			if ap.MaxFrames > 0 && ticks+1 >= ap.MaxFrames {
				ap.World.Shutdown()
			}
			ticks++
			if err := sc.Tick(); err != nil {
				if errors.Is(err, xyz.ErrShutdown) {
					return nil
				}
				return err
			}
		}
	}
}

// pump handles the events queued behind a StartFrame without blocking.
func (ap *App) pump() (bool, error) {
	for {
		select {
		case ev := <-ap.events:
			if ev.Kind == render.EventStartFrame {
				continue
			}
			if done, err := ap.handle(ev); done || err != nil {
				return done, err
			}
		default:
			return false, nil
		}
	}
}

// handle applies one render event. It reports whether the game is over.
func (ap *App) handle(ev render.Event) (bool, error) {
	w := ap.World
	switch ev.Kind {
	case render.EventInit:
		w.Resize(ev.Width, ev.Height)
		if ap.Scheduler.IsInitialized() {
			break
		}
		if err := ap.Scheduler.Init(); err != nil {
			return true, err
		}
		slog.Debug("app: initialized", "width", ev.Width, "height", ev.Height, "objects", w.NumObjects())
	case render.EventInput:
		w.Input().Push(ev.Input)
	case render.EventResize:
		w.Resize(ev.Width, ev.Height)
	case render.EventClose:
		slog.Info("app: window closed", "frame", w.Frame())
		return true, nil
	}
	return false, nil
}
