// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package audio provides the audio collaborator of the scene: a mixer
// of fire-and-forget voices with spatial parameters pulled from scene
// transforms, producing a single [beep.Streamer] for an output device.
package audio

import (
	"errors"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"cogentcore.org/engine/assets"
	"cogentcore.org/engine/math32"
	"cogentcore.org/engine/slotmap"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

// DefaultSampleRate is the sample rate of the mix.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNoBuffer is returned when playing a sound without decoded samples.
var ErrNoBuffer = errors.New("audio: sound has no buffer")

// VoiceID identifies a playing sound. IDs of stopped or finished
// voices never resolve again.
type VoiceID struct {
	key slotmap.Key
}

// IsNil returns true if this is the zero id.
func (id VoiceID) IsNil() bool {
	return id.key.IsNil()
}

// PlayOptions are the parameters of a voice.
type PlayOptions struct {
	// Volume is the linear gain in [0, 1].
	Volume float32

	// Loop repeats the sound until stopped.
	Loop bool

	// Spatial attenuates and pans the voice relative to the listener.
	Spatial bool

	// Position is the world position of a spatial voice.
	Position math32.Vector3

	// MaxDistance is the distance at which a spatial voice is silent.
	MaxDistance float32
}

// Defaults sets the default play options.
func (po *PlayOptions) Defaults() {
	po.Volume = 1
	po.MaxDistance = 50
}

type voice struct {
	opts PlayOptions
	ctrl *beep.Ctrl
	vol  *effects.Volume
	pan  *effects.Pan
	done atomic.Bool
}

// doneStreamer flags its voice once the wrapped streamer is drained.
type doneStreamer struct {
	s    beep.Streamer
	done *atomic.Bool
}

func (ds *doneStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := ds.s.Stream(samples)
	if !ok {
		ds.done.Store(true)
	}
	return n, ok
}

func (ds *doneStreamer) Err() error {
	return ds.s.Err()
}

// Scene mixes all playing voices. Voices are started and moved by the
// logic goroutine while the output device pulls samples from
// [Scene.Streamer], so Scene is safe for concurrent use.
type Scene struct {
	mu     sync.Mutex
	format beep.Format
	mixer  beep.Mixer
	voices *slotmap.Map[*voice]

	listenerPos math32.Vector3
	listenerRot math32.Quat

	// master is the linear gain applied to the whole mix.
	master float64
}

// NewScene returns a new [Scene] mixing at the given sample rate.
func NewScene(sampleRate beep.SampleRate) *Scene {
	return &Scene{
		format:      beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2},
		voices:      slotmap.New[*voice](),
		listenerRot: math32.QuatIdentity(),
		master:      1,
	}
}

// SetMasterVolume sets the linear gain of the whole mix,
// clamped to [0, 1].
func (sc *Scene) SetMasterVolume(v float32) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.master = float64(math32.Clamp(v, 0, 1))
}

// MasterVolume returns the linear gain of the whole mix.
func (sc *Scene) MasterVolume() float32 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return float32(sc.master)
}

// Format returns the output format of the mix.
func (sc *Scene) Format() beep.Format {
	return sc.format
}

// Play starts playing the sound, resampled to the mix rate if needed.
func (sc *Scene) Play(sound *assets.Sound, opts PlayOptions) (VoiceID, error) {
	if sound == nil || sound.Buffer == nil {
		return VoiceID{}, ErrNoBuffer
	}
	buf := sound.Buffer
	var s beep.Streamer
	if opts.Loop {
		s = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	} else {
		s = buf.Streamer(0, buf.Len())
	}
	if sr := buf.Format().SampleRate; sr != sc.format.SampleRate {
		s = beep.Resample(4, sr, sc.format.SampleRate, s)
	}
	return sc.PlayStreamer(s, opts), nil
}

// PlayStreamer starts playing the given streamer, which must produce
// samples at the mix rate.
func (sc *Scene) PlayStreamer(s beep.Streamer, opts PlayOptions) VoiceID {
	vc := &voice{opts: opts}
	vc.vol = &effects.Volume{Streamer: &doneStreamer{s: s, done: &vc.done}, Base: 2}
	vc.pan = &effects.Pan{Streamer: vc.vol}
	vc.ctrl = &beep.Ctrl{Streamer: vc.pan}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.applyLocked(vc)
	sc.mixer.Add(vc.ctrl)
	return VoiceID{key: sc.voices.Insert(vc)}
}

// applyLocked updates the gain and pan of the voice
// from its options and the listener.
func (sc *Scene) applyLocked(vc *voice) {
	gain := vc.opts.Volume
	pan := float32(0)
	if vc.opts.Spatial {
		gain *= VolumeLinear(vc.opts.Position.DistanceTo(sc.listenerPos), vc.opts.MaxDistance)
		pan = Pan(vc.opts.Position, sc.listenerPos, sc.listenerRot)
	}
	if gain <= 0 {
		vc.vol.Silent = true
		vc.vol.Volume = 0
	} else {
		vc.vol.Silent = false
		vc.vol.Volume = math.Log2(float64(gain))
	}
	vc.pan.Pan = float64(pan)
}

// voiceLocked returns the live voice for the id, reaping it if it finished.
func (sc *Scene) voiceLocked(id VoiceID) *voice {
	vc, ok := sc.voices.Get(id.key)
	if !ok {
		return nil
	}
	if vc.done.Load() {
		sc.voices.Remove(id.key)
		return nil
	}
	return vc
}

// Stop stops the voice. It returns false if the voice
// already finished or was stopped.
func (sc *Scene) Stop(id VoiceID) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	vc := sc.voiceLocked(id)
	if vc == nil {
		return false
	}
	// a nil Streamer makes the mixer drop the voice
	vc.ctrl.Streamer = nil
	sc.voices.Remove(id.key)
	return true
}

// Playing returns whether the voice is still playing.
func (sc *Scene) Playing(id VoiceID) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.voiceLocked(id) != nil
}

// SetPaused pauses or resumes the voice.
func (sc *Scene) SetPaused(id VoiceID, paused bool) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	vc := sc.voiceLocked(id)
	if vc == nil {
		return false
	}
	vc.ctrl.Paused = paused
	return true
}

// SetVoicePosition moves a spatial voice.
func (sc *Scene) SetVoicePosition(id VoiceID, pos math32.Vector3) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	vc := sc.voiceLocked(id)
	if vc == nil {
		return false
	}
	vc.opts.Position = pos
	sc.applyLocked(vc)
	return true
}

// SetListener moves the listener and updates all spatial voices.
func (sc *Scene) SetListener(pos math32.Vector3, rot math32.Quat) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.listenerPos = pos
	sc.listenerRot = rot
	for _, vc := range sc.voices.All() {
		if vc.opts.Spatial {
			sc.applyLocked(vc)
		}
	}
}

// Listener returns the listener position and rotation.
func (sc *Scene) Listener() (math32.Vector3, math32.Quat) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.listenerPos, sc.listenerRot
}

// NumVoices returns the number of voices still playing.
func (sc *Scene) NumVoices() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	n := 0
	for k, vc := range sc.voices.All() {
		if vc.done.Load() {
			sc.voices.Remove(k)
			continue
		}
		n++
	}
	return n
}

// StopAll stops every voice.
func (sc *Scene) StopAll() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.mixer.Clear()
	sc.voices.Clear()
	slog.Debug("audio.Scene.StopAll")
}

// Streamer returns the mix of all voices, for an output device.
// It never ends and streams silence when nothing plays.
func (sc *Scene) Streamer() beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		sc.mu.Lock()
		defer sc.mu.Unlock()
		n, ok := sc.mixer.Stream(samples)
		if sc.master != 1 {
			for i := range samples[:n] {
				samples[i][0] *= sc.master
				samples[i][1] *= sc.master
			}
		}
		return n, ok
	})
}
