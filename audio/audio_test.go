// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package audio

import (
	"math"
	"testing"

	"cogentcore.org/engine/assets"
	"cogentcore.org/engine/math32"
	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolumeLinear(t *testing.T) {
	assert.InDelta(t, 0.5, VolumeLinear(25, 50), 1e-5)
	assert.Equal(t, float32(0), VolumeLinear(100, 50))
	assert.Equal(t, float32(1), VolumeLinear(0, 50))
	assert.Equal(t, float32(0), VolumeLinear(1, 0))
}

func TestVolumeToDB(t *testing.T) {
	assert.Equal(t, float32(-60), VolumeToDB(-1))
	assert.Equal(t, float32(-60), VolumeToDB(0))
	mid := VolumeToDB(0.5)
	assert.True(t, mid > -60 && mid < 0)
	assert.Equal(t, float32(0), VolumeToDB(2))
	assert.Equal(t, float32(0), VolumeToDB(1))
}

func TestPan(t *testing.T) {
	id := math32.QuatIdentity()
	assert.InDelta(t, 1, Pan(math32.Vec3(5, 0, 0), math32.Vector3{}, id), 1e-5)
	assert.InDelta(t, -1, Pan(math32.Vec3(-5, 0, 0), math32.Vector3{}, id), 1e-5)
	assert.InDelta(t, 0, Pan(math32.Vec3(0, 0, -5), math32.Vector3{}, id), 1e-5)

	// listener turned 180 degrees around Y hears +X on its left
	turned := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.Pi)
	assert.InDelta(t, -1, Pan(math32.Vec3(5, 0, 0), math32.Vector3{}, turned), 1e-5)
}

func constant(n int) beep.Streamer {
	return beep.Take(n, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{0.5, 0.5}
		}
		return len(samples), true
	}))
}

func TestPlayStop(t *testing.T) {
	sc := NewScene(DefaultSampleRate)
	opts := PlayOptions{}
	opts.Defaults()
	id := sc.PlayStreamer(constant(100), opts)
	assert.True(t, sc.Playing(id))
	assert.Equal(t, 1, sc.NumVoices())

	out := make([][2]float64, 50)
	n, ok := sc.Streamer().Stream(out)
	assert.Equal(t, 50, n)
	assert.True(t, ok)
	assert.Greater(t, out[10][0], 0.0)

	assert.True(t, sc.Stop(id))
	assert.False(t, sc.Playing(id))
	assert.False(t, sc.Stop(id), "double stop is a no-op")

	sc.Streamer().Stream(out)
	assert.Equal(t, 0.0, out[10][0])
}

func TestVoiceFinishes(t *testing.T) {
	sc := NewScene(DefaultSampleRate)
	opts := PlayOptions{}
	opts.Defaults()
	id := sc.PlayStreamer(constant(100), opts)

	out := make([][2]float64, 200)
	sc.Streamer().Stream(out)
	sc.Streamer().Stream(out)
	assert.False(t, sc.Playing(id))
	assert.Equal(t, 0, sc.NumVoices())
}

func TestSpatial(t *testing.T) {
	sc := NewScene(DefaultSampleRate)
	opts := PlayOptions{Volume: 1, Spatial: true, Position: math32.Vec3(25, 0, 0), MaxDistance: 50}
	id := sc.PlayStreamer(constant(1000), opts)

	vc, ok := sc.voices.Get(id.key)
	require.True(t, ok)
	assert.InDelta(t, math.Log2(0.5), vc.vol.Volume, 1e-5)
	assert.InDelta(t, 1, vc.pan.Pan, 1e-5)

	sc.SetVoicePosition(id, math32.Vec3(0, 0, 100))
	assert.True(t, vc.vol.Silent)

	sc.SetListener(math32.Vec3(0, 0, 90), math32.QuatIdentity())
	assert.False(t, vc.vol.Silent)
	assert.InDelta(t, math.Log2(0.8), vc.vol.Volume, 1e-5)
}

func TestPlaySound(t *testing.T) {
	sc := NewScene(DefaultSampleRate)
	_, err := sc.Play(&assets.Sound{}, PlayOptions{Volume: 1})
	assert.ErrorIs(t, err, ErrNoBuffer)

	buf := beep.NewBuffer(beep.Format{SampleRate: 22050, NumChannels: 2, Precision: 2})
	buf.Append(constant(100))
	id, err := sc.Play(&assets.Sound{Name: "pop", Buffer: buf}, PlayOptions{Volume: 1, Loop: true})
	require.NoError(t, err)

	out := make([][2]float64, 1000)
	sc.Streamer().Stream(out)
	sc.Streamer().Stream(out)
	assert.True(t, sc.Playing(id), "looping voices keep playing")
	sc.StopAll()
	assert.False(t, sc.Playing(id))
}

func TestMasterVolume(t *testing.T) {
	sc := NewScene(DefaultSampleRate)
	assert.Equal(t, float32(1), sc.MasterVolume())
	sc.SetMasterVolume(2)
	assert.Equal(t, float32(1), sc.MasterVolume())
	sc.SetMasterVolume(0.5)

	opts := PlayOptions{}
	opts.Defaults()
	sc.PlayStreamer(constant(100), opts)
	out := make([][2]float64, 10)
	sc.Streamer().Stream(out)
	assert.InDelta(t, 0.25, out[5][0], 1e-9)
}
