package audio

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/poppy/internal/core"
)

// drain streams s to the end and returns the sample count and peak level.
func drain(s interface {
	Stream([][2]float64) (int, bool)
}) (int, float64) {
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok || n == 0 {
			return total, peak
		}
	}
}

func TestToneEveryCue(t *testing.T) {
	cues := []core.Cue{
		core.CueCountdownTick,
		core.CueRoundStart,
		core.CueScored,
		core.CueIllegalTap,
		core.CueClear,
		core.CueClearReady,
		core.CueStepShown,
		core.CueRoundComplete,
		core.CueRoundEnd,
	}
	for _, c := range cues {
		t.Run(c.String(), func(t *testing.T) {
			s := Tone(c, 1)
			if s == nil {
				t.Fatal("expected a tone")
			}
			n, peak := drain(s)

			want := SampleRate.N(Length(c))
			// Each note is rounded to whole samples
			if d := n - want; d < -3 || d > 3 {
				t.Errorf("tone has %d samples, expected about %d", n, want)
			}
			if peak == 0 || peak > 1 {
				t.Errorf("peak = %f, expected within (0, 1]", peak)
			}
		})
	}
}

func TestToneUnknownCue(t *testing.T) {
	if s := Tone(core.Cue(99), 1); s != nil {
		t.Error("unknown cue should have no tone")
	}
	if Length(core.Cue(99)) != 0 {
		t.Error("unknown cue should have zero length")
	}
}

func TestToneVolume(t *testing.T) {
	_, loud := drain(Tone(core.CueRoundStart, 1))
	_, quiet := drain(Tone(core.CueRoundStart, 0.25))
	_, silent := drain(Tone(core.CueRoundStart, 0))

	if quiet >= loud {
		t.Errorf("quarter volume peak %f should be below full %f", quiet, loud)
	}
	if silent != 0 {
		t.Errorf("zero volume peak = %f", silent)
	}
}

func TestLengthOrdering(t *testing.T) {
	if Length(core.CueScored) >= Length(core.CueRoundEnd) {
		t.Error("a pop should be shorter than the round end jingle")
	}
	if Length(core.CueScored) > 100*time.Millisecond {
		t.Errorf("scored tone too long: %v", Length(core.CueScored))
	}
}
