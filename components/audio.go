// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package components

import (
	"fmt"

	"cogentcore.org/engine/assets"
	"cogentcore.org/engine/audio"
	"cogentcore.org/engine/xyz"
)

// AudioEmitter plays a sound at the position of its object. Spatial
// voices follow the object every tick.
type AudioEmitter struct {
	xyz.ComponentBase

	Sound assets.HSound `yaml:"-"`

	// Volume is the linear gain in [0, 1].
	Volume float32 `yaml:"volume"`

	Loop    bool `yaml:"loop"`
	Spatial bool `yaml:"spatial"`

	// MaxDistance is the distance at which the sound is silent.
	MaxDistance float32 `yaml:"max_distance"`

	// PlayOnInit starts playing when the component is added.
	PlayOnInit bool `yaml:"play_on_init"`

	voice audio.VoiceID
}

func (ae *AudioEmitter) Defaults() {
	var po audio.PlayOptions
	po.Defaults()
	ae.Volume = po.Volume
	ae.MaxDistance = po.MaxDistance
	ae.Spatial = true
}

func (ae *AudioEmitter) Init(w *xyz.World) error {
	if ae.PlayOnInit {
		return ae.Play(w)
	}
	return nil
}

// Play starts the sound, stopping the previous voice of the emitter.
func (ae *AudioEmitter) Play(w *xyz.World) error {
	snd, ok := w.Assets().Sounds.Get(ae.Sound)
	if !ok {
		return fmt.Errorf("components.AudioEmitter.Play %v: %w", ae.Sound, assets.ErrNotFound)
	}
	ae.Stop(w)
	pos, _ := w.WorldPosition(ae.Parent())
	id, err := w.Audio().Play(&snd, audio.PlayOptions{
		Volume:      ae.Volume,
		Loop:        ae.Loop,
		Spatial:     ae.Spatial,
		Position:    pos,
		MaxDistance: ae.MaxDistance,
	})
	if err != nil {
		return err
	}
	ae.voice = id
	return nil
}

// Stop stops the current voice.
func (ae *AudioEmitter) Stop(w *xyz.World) {
	if !ae.voice.IsNil() {
		w.Audio().Stop(ae.voice)
		ae.voice = audio.VoiceID{}
	}
}

// IsPlaying returns whether the current voice is still playing.
func (ae *AudioEmitter) IsPlaying(w *xyz.World) bool {
	return !ae.voice.IsNil() && w.Audio().Playing(ae.voice)
}

func (ae *AudioEmitter) PostUpdate(w *xyz.World) error {
	if ae.voice.IsNil() || !ae.Spatial {
		return nil
	}
	if pos, ok := w.WorldPosition(ae.Parent()); ok {
		w.Audio().SetVoicePosition(ae.voice, pos)
	}
	return nil
}

func (ae *AudioEmitter) Delete(w *xyz.World) {
	ae.Stop(w)
}

// AudioReceiver moves the audio listener to its object every tick.
type AudioReceiver struct {
	xyz.ComponentBase
}

func (ar *AudioReceiver) PostUpdate(w *xyz.World) error {
	m, ok := w.WorldMatrix(ar.Parent())
	if !ok {
		return nil
	}
	pos, rot, _ := m.Decompose()
	w.Audio().SetListener(pos, rot)
	return nil
}
