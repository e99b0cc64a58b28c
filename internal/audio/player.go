package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/poppy/internal/core"
)

// maxVoices bounds how many tones may overlap.
const maxVoices = 8

// Player is a core.CueSink that mixes cue tones into one stream.
// Cue never blocks on the audio device.
type Player struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	volume  float64
	playing bool
}

// NewPlayer creates a player. volume is in [0,1]; 0 mutes it.
func NewPlayer(volume float64) *Player {
	if volume > 1 {
		volume = 1
	}
	return &Player{mixer: &beep.Mixer{}, volume: volume}
}

// Open starts playback on the system speaker.
func (p *Player) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.playing = true
	return nil
}

// Close silences the player. The speaker itself stays initialized because
// it can only be set up once per process.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lock()
	p.mixer.Clear()
	p.unlock()
	p.playing = false
}

// Cue implements core.CueSink.
func (p *Player) Cue(c core.Cue) {
	if p.volume <= 0 {
		return
	}
	s := Tone(c, p.volume)
	if s == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.lock()
	defer p.unlock()
	if p.mixer.Len() >= maxVoices {
		return
	}
	p.mixer.Add(s)
}

// Stream renders the mix directly. Used when no speaker is attached.
func (p *Player) Stream(samples [][2]float64) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lock()
	defer p.unlock()
	return p.mixer.Stream(samples)
}

// Voices returns the number of tones still sounding.
func (p *Player) Voices() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lock()
	defer p.unlock()
	return p.mixer.Len()
}

// lock guards the mixer against the speaker goroutine. Caller holds mu.
func (p *Player) lock() {
	if p.playing {
		speaker.Lock()
	}
}

func (p *Player) unlock() {
	if p.playing {
		speaker.Unlock()
	}
}

var _ core.CueSink = (*Player)(nil)
