// Package audio turns engine cues into short synthesized tones.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/poppy/internal/core"
)

// SampleRate is the rate every tone is rendered at.
const SampleRate = beep.SampleRate(44100)

// note is one tone of a cue. A zero freq is a rest.
type note struct {
	freq   float64
	length time.Duration
	square bool
	gain   float64
}

var cueNotes = map[core.Cue][]note{
	core.CueCountdownTick: {{freq: 660, length: 60 * time.Millisecond, gain: 0.5}},
	core.CueRoundStart:    {{freq: 880, length: 180 * time.Millisecond, gain: 0.6}},
	core.CueScored:        {{freq: 1320, length: 40 * time.Millisecond, gain: 0.4}},
	core.CueIllegalTap:    {{freq: 110, length: 220 * time.Millisecond, square: true, gain: 0.35}},
	core.CueClear: {
		{freq: 988, length: 70 * time.Millisecond, gain: 0.5},
		{freq: 1319, length: 120 * time.Millisecond, gain: 0.5},
	},
	core.CueClearReady: {
		{freq: 784, length: 50 * time.Millisecond, gain: 0.4},
		{length: 30 * time.Millisecond},
		{freq: 784, length: 50 * time.Millisecond, gain: 0.4},
	},
	core.CueStepShown: {{freq: 523, length: 120 * time.Millisecond, gain: 0.5}},
	core.CueRoundComplete: {
		{freq: 523, length: 60 * time.Millisecond, gain: 0.5},
		{freq: 659, length: 60 * time.Millisecond, gain: 0.5},
		{freq: 784, length: 100 * time.Millisecond, gain: 0.5},
	},
	core.CueRoundEnd: {
		{freq: 440, length: 150 * time.Millisecond, gain: 0.5},
		{freq: 330, length: 150 * time.Millisecond, gain: 0.5},
		{freq: 220, length: 300 * time.Millisecond, gain: 0.5},
	},
}

// Tone returns a finite streamer for c, or nil for cues without a sound.
func Tone(c core.Cue, volume float64) beep.Streamer {
	notes, ok := cueNotes[c]
	if !ok {
		return nil
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		s := render(n)
		if s == nil {
			return nil
		}
		parts = append(parts, s)
	}
	return newVolume(beep.Seq(parts...), volume)
}

// Length returns how long the tone for c plays.
func Length(c core.Cue) time.Duration {
	var total time.Duration
	for _, n := range cueNotes[c] {
		total += n.length
	}
	return total
}

func render(n note) beep.Streamer {
	samples := SampleRate.N(n.length)
	if n.freq == 0 {
		return generators.Silence(samples)
	}

	var (
		osc beep.Streamer
		err error
	)
	if n.square {
		osc, err = generators.SquareTone(SampleRate, n.freq)
	} else {
		osc, err = generators.SineTone(SampleRate, n.freq)
	}
	if err != nil {
		return nil
	}
	return newVolume(fade(beep.Take(samples, osc), samples), n.gain)
}

// fade ramps the last few milliseconds down to avoid clicks.
func fade(s beep.Streamer, total int) beep.Streamer {
	release := SampleRate.N(10 * time.Millisecond)
	if release > total {
		release = total
	}
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			if left := total - pos; left < release {
				vol := float64(left) / float64(release)
				samples[i][0] *= vol
				samples[i][1] *= vol
			}
			pos++
		}
		return n, ok
	})
}

// math.Log2(0) is -Inf, so zero volume is rendered silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
