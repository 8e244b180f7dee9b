package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/hero"
)

// Sound describes one cue the dispatcher can play.
type Sound struct {
	Name string

	// File is an optional .wav under the sounds directory. When it is
	// missing the procedural generator is used instead.
	File string

	Loop      bool
	Resumable bool          // paused (not stopped) while the view is hidden
	Volume    float64       // linear gain, 1 = unchanged
	Duration  time.Duration // length of a generated one-shot

	Generate func(sr beep.SampleRate) beep.Streamer
}

// DefaultSounds is the cue set of the hero section.
func DefaultSounds() []Sound {
	return []Sound{
		{Name: hero.CueGlitch, File: "glitch.wav", Loop: true, Volume: 0.35, Generate: newCrackle},
		{Name: hero.CueLand, File: "land.wav", Volume: 0.6, Duration: 220 * time.Millisecond, Generate: newThump},
		{Name: hero.CuePop, File: "pop.wav", Volume: 0.7, Duration: 90 * time.Millisecond, Generate: newBlip},
		{Name: hero.CueMusic, File: "game-music.wav", Loop: true, Resumable: true, Volume: 0.4, Generate: newSynthwave},
		{Name: hero.CueWin, File: "win.wav", Volume: 0.7, Duration: 600 * time.Millisecond, Generate: newArpeggio},
	}
}

// generator adapts a per-sample function into an endless beep.Streamer.
type generator struct {
	sr  beep.SampleRate
	pos int
	f   func(t float64, pos int) float64
}

func (g *generator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		v := g.f(t, g.pos)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *generator) Err() error { return nil }

// newCrackle is a bit-crushed noise bed for the glitch loop.
func newCrackle(sr beep.SampleRate) beep.Streamer {
	seed := uint32(2463534242)
	var hold float64
	return &generator{sr: sr, f: func(t float64, pos int) float64 {
		if pos%int(sr.N(3*time.Millisecond)+1) == 0 {
			seed ^= seed << 13
			seed ^= seed >> 17
			seed ^= seed << 5
			hold = float64(seed)/float64(math.MaxUint32)*2 - 1
		}
		return 0.2 * hold * (0.6 + 0.4*math.Sin(2*math.Pi*7*t))
	}}
}

// newThump is a falling sine for the title landing.
func newThump(sr beep.SampleRate) beep.Streamer {
	return &generator{sr: sr, f: func(t float64, _ int) float64 {
		freq := 90 + 220*math.Exp(-t*18)
		return 0.5 * math.Exp(-t*12) * math.Sin(2*math.Pi*freq*t)
	}}
}

// newBlip is a short rising chirp for a popped letter.
func newBlip(sr beep.SampleRate) beep.Streamer {
	return &generator{sr: sr, f: func(t float64, _ int) float64 {
		freq := 660 + 2400*t
		return 0.4 * math.Exp(-t*35) * math.Sin(2*math.Pi*freq*t)
	}}
}

// newSynthwave is a kick plus bass pattern at 100 BPM.
func newSynthwave(sr beep.SampleRate) beep.Streamer {
	beat := sr.N(600 * time.Millisecond)
	kickLen := sr.N(100 * time.Millisecond)
	notes := []float64{110, 110, 130.81, 98}
	return &generator{sr: sr, f: func(_ float64, pos int) float64 {
		beatPos := pos % beat
		bt := float64(beatPos) / float64(sr)
		kick := 0.0
		if beatPos < kickLen {
			env := 1 - float64(beatPos)/float64(kickLen)
			kick = 0.4 * env * math.Sin(2*math.Pi*60*(1+2*env)*bt)
		}
		note := notes[(pos/beat)%len(notes)]
		bass := 0.15 * math.Sin(2*math.Pi*note*float64(pos)/float64(sr))
		return kick + bass
	}}
}

// newArpeggio steps through a major triad for the win stinger.
func newArpeggio(sr beep.SampleRate) beep.Streamer {
	step := sr.N(120 * time.Millisecond)
	notes := []float64{523.25, 659.25, 783.99, 1046.5}
	return &generator{sr: sr, f: func(t float64, pos int) float64 {
		i := pos / step
		if i >= len(notes) {
			i = len(notes) - 1
		}
		local := float64(pos%step) / float64(sr)
		return 0.3 * math.Exp(-local*6) * math.Sin(2*math.Pi*notes[i]*t)
	}}
}
