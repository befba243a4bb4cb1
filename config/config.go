// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the engine configuration, stored as TOML.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"cogentcore.org/engine/math32"
	"github.com/pelletier/go-toml/v2"
)

// Config is the complete engine configuration.
type Config struct {
	Window  Window  `toml:"window"`
	Frame   Frame   `toml:"frame"`
	Physics Physics `toml:"physics"`
	Audio   Audio   `toml:"audio"`
	Input   Input   `toml:"input"`
	Render  Render  `toml:"render"`
	Assets  Assets  `toml:"assets"`
	Log     Log     `toml:"log"`
}

// Window configures the window the render thread presents into.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

func (wn *Window) Defaults() {
	wn.Title = "xyz"
	wn.Width = 1280
	wn.Height = 720
}

// Frame configures frame pacing and the fixed timestep.
type Frame struct {
	// Rate is the target frame rate, in frames per second.
	Rate float64 `toml:"rate"`

	// FixedRate is the physics step rate, in steps per second.
	FixedRate float64 `toml:"fixed_rate"`

	// MaxSubsteps caps the physics steps per frame.
	MaxSubsteps int `toml:"max_substeps"`
}

func (fr *Frame) Defaults() {
	fr.Rate = 60
	fr.FixedRate = 60
	fr.MaxSubsteps = 8
}

// Interval returns the frame interval for Rate.
func (fr *Frame) Interval() time.Duration {
	return time.Duration(float64(time.Second) / fr.Rate)
}

// FixedTimestep returns the physics step in seconds.
func (fr *Frame) FixedTimestep() float32 {
	return float32(1 / fr.FixedRate)
}

// Physics configures the physics simulation.
type Physics struct {
	Gravity [3]float32 `toml:"gravity"`
}

func (ph *Physics) Defaults() {
	ph.Gravity = [3]float32{0, -9.81, 0}
}

// GravityVector returns Gravity as a vector.
func (ph *Physics) GravityVector() math32.Vector3 {
	return math32.Vec3(ph.Gravity[0], ph.Gravity[1], ph.Gravity[2])
}

// Audio configures the audio mix.
type Audio struct {
	SampleRate int `toml:"sample_rate"`

	// Volume is the master volume in [0, 1].
	Volume float32 `toml:"volume"`
}

func (au *Audio) Defaults() {
	au.SampleRate = 44100
	au.Volume = 1
}

// Input configures the input policies.
type Input struct {
	// QuitOnEscape quits when Escape is pressed while the cursor is free.
	QuitOnEscape bool `toml:"quit_on_escape"`

	// AutoCursorLock locks the cursor on click and frees it on Escape.
	AutoCursorLock bool `toml:"auto_cursor_lock"`
}

func (in *Input) Defaults() {
	in.QuitOnEscape = true
	in.AutoCursorLock = true
}

// Render configures the render thread.
type Render struct {
	// EventBuffer is the capacity of the render event channels.
	EventBuffer int `toml:"event_buffer"`
}

func (rn *Render) Defaults() {
	rn.EventBuffer = 64
}

// Assets configures asset loading.
type Assets struct {
	// Dirs are searched for shader sources and prefab definitions.
	Dirs []string `toml:"dirs"`

	// Prefabs are YAML prefab definition files.
	Prefabs []string `toml:"prefabs"`

	// Watch enables hot reload of file-backed shaders.
	Watch bool `toml:"watch"`
}

func (as *Assets) Defaults() {}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

func (lg *Log) Defaults() {
	lg.Level = "info"
}

// Defaults sets the default values of every section.
func (cf *Config) Defaults() {
	cf.Window.Defaults()
	cf.Frame.Defaults()
	cf.Physics.Defaults()
	cf.Audio.Defaults()
	cf.Input.Defaults()
	cf.Render.Defaults()
	cf.Assets.Defaults()
	cf.Log.Defaults()
}

// New returns a new [Config] with defaults.
func New() *Config {
	cf := &Config{}
	cf.Defaults()
	return cf
}

// Validate returns an error for values the engine cannot run with.
func (cf *Config) Validate() error {
	switch {
	case cf.Window.Width <= 0 || cf.Window.Height <= 0:
		return fmt.Errorf("config: invalid window size %dx%d", cf.Window.Width, cf.Window.Height)
	case cf.Frame.Rate <= 0:
		return fmt.Errorf("config: invalid frame rate %g", cf.Frame.Rate)
	case cf.Frame.FixedRate <= 0:
		return fmt.Errorf("config: invalid fixed rate %g", cf.Frame.FixedRate)
	case cf.Frame.MaxSubsteps <= 0:
		return fmt.Errorf("config: invalid max substeps %d", cf.Frame.MaxSubsteps)
	case cf.Render.EventBuffer <= 0:
		return fmt.Errorf("config: invalid event buffer %d", cf.Render.EventBuffer)
	}
	return nil
}

// Read decodes TOML data on top of the current values.
// Unknown keys are errors.
func (cf *Config) Read(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cf); err != nil {
		return err
	}
	return cf.Validate()
}

// Open returns the defaults overridden by the TOML file at path.
func Open(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Open: %w", err)
	}
	cf := New()
	if err := cf.Read(data); err != nil {
		return nil, fmt.Errorf("config.Open %s: %w", path, err)
	}
	return cf, nil
}

// Save writes the config as TOML to path.
func (cf *Config) Save(path string) error {
	data, err := toml.Marshal(cf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
