// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command xyz runs a small demo scene headless: a floor, falling
// physics spheres, a Lua-scripted spinning cube, a camera and a sun.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"cogentcore.org/engine/app"
	"cogentcore.org/engine/base/errors"
	"cogentcore.org/engine/base/logx"
	"cogentcore.org/engine/components"
	"cogentcore.org/engine/config"
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/prefabs"
	"cogentcore.org/engine/render"
	"cogentcore.org/engine/script"
	"cogentcore.org/engine/xyz"
)

var (
	configFile = flag.String("config", "", "TOML config file")
	frames     = flag.Int("frames", 300, "number of frames to run; 0 runs until interrupted")
	logLevel   = flag.String("log", "", "log level (debug, info, warn, error); overrides the config")
)

const spinScript = `
function update(dt)
	object.rotate(0, 1, 0, 90 * dt)
	if world.frame() % 60 == 0 then
		log("spinning at frame " .. world.frame())
	end
end
`

type demo struct{}

func (demo) Init(w *xyz.World) error {
	if _, err := w.Spawn(&prefabs.Camera{Position: math32.Vec3(0, 4, 12)}); err != nil {
		return err
	}
	if _, err := w.SpawnNamed("Sun"); err != nil {
		return err
	}

	floor, err := w.Spawn(&prefabs.Cube{})
	if err != nil {
		return err
	}
	fo, _ := w.Object(floor)
	fo.Name = "floor"
	fo.Transform.SetPosition(math32.Vec3(0, -0.5, 0))
	fo.Transform.SetScale(math32.Vec3(20, 1, 20))
	_, _, err = xyz.AddComponentWith(w, floor, func(cl *components.Collider) { cl.Size.Set(20, 1, 20) })
	if err != nil {
		return err
	}

	for i := range 5 {
		id, err := w.Spawn(&prefabs.Sphere{Collider: true})
		if err != nil {
			return err
		}
		o, _ := w.Object(id)
		o.Transform.SetPosition(math32.Vec3(float32(i-2)*1.5, 3+float32(i), 0))
		if _, _, err := xyz.AddComponent[components.RigidBody](w, id); err != nil {
			return err
		}
	}

	spinner, err := w.Spawn(&prefabs.Cube{})
	if err != nil {
		return err
	}
	so, _ := w.Object(spinner)
	so.Transform.SetPosition(math32.Vec3(4, 1, -2))
	_, _, err = xyz.AddComponentWith(w, spinner, func(bh *script.Behavior) { bh.Source = spinScript })
	return err
}

func (demo) Update(w *xyz.World) error { return nil }

func (demo) LateUpdate(w *xyz.World) error { return nil }

func main() {
	flag.Parse()
	logx.SetDefault(os.Stderr)

	cfg := config.New()
	if *configFile != "" {
		cfg = errors.Log1(config.Open(*configFile))
		if cfg == nil {
			os.Exit(1)
		}
	}
	level := cfg.Log.Level
	if *logLevel != "" {
		level = *logLevel
	}
	if errors.Log(logx.SetLevel(level)) != nil {
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dev := render.NewHeadless(cfg.Window.Width, cfg.Window.Height)
	ap := &app.App{Config: cfg, State: demo{}, Device: dev, MaxFrames: *frames}
	if err := ap.Run(ctx); err != nil {
		slog.Error("xyz", "err", err)
		os.Exit(1)
	}
	n, last, title := dev.Snapshot()
	fmt.Printf("%s: %d frames simulated, %d drawn, %d objects in the last frame\n", title, ap.World.Frame(), n, len(last))
}
