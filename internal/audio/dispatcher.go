// internal/audio/dispatcher.go
//
// Audio cue dispatcher for the hero section.
// Responsibilities:
//   - Load every cue once (wav file or procedural generator), best effort.
//   - Play one-shots and loops on a shared mixer; loops never overlap.
//   - Honour the persisted mute preference and view visibility.
//
// Notes:
//   - Play is a no-op while muted, hidden or not loaded. Stop always applies.
//   - Mute is a master volume switch, so loops keep their position while muted.
//   - Failures are logged and swallowed; a failed cue is simply skipped.

package audio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/rs/zerolog/log"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/store"
)

// SampleRate is the mix rate; wav files are resampled to it.
const SampleRate = beep.SampleRate(44100)

// MuteKey is the preference key holding the mute flag (a JSON boolean).
const MuteKey = "isMuted"

// Dispatcher plays the hero's audio cues. Construct one per view.
type Dispatcher struct {
	mu sync.Mutex

	out    Output
	prefs  store.Store
	rate   beep.SampleRate
	sounds map[string]Sound
	order  []string

	sources map[string]func() beep.Streamer // cue name -> fresh streamer
	mixer   *beep.Mixer
	master  *effects.Volume
	loops   map[string]*beep.Ctrl
	held    map[string]bool // loops paused by Hide

	muted   bool
	hidden  bool
	loading bool // Load is decoding or opening the output
	started bool
	closed  bool
}

// New builds a dispatcher for sounds and reads the mute preference once.
// A nil prefs store keeps the preference in memory only.
func New(ctx context.Context, out Output, prefs store.Store, sounds []Sound) *Dispatcher {
	if prefs == nil {
		prefs = store.NewMemoryStore()
	}
	d := &Dispatcher{
		out:     out,
		prefs:   prefs,
		rate:    SampleRate,
		sounds:  make(map[string]Sound, len(sounds)),
		sources: make(map[string]func() beep.Streamer),
		mixer:   &beep.Mixer{},
		loops:   make(map[string]*beep.Ctrl),
		held:    make(map[string]bool),
	}
	for _, s := range sounds {
		d.sounds[s.Name] = s
		d.order = append(d.order, s.Name)
	}

	var muted bool
	if _, err := prefs.Get(ctx, MuteKey, &muted); err != nil {
		log.Warn().Err(err).Msg("audio: mute preference unreadable, defaulting to unmuted")
		muted = false
	}
	d.muted = muted
	d.master = &effects.Volume{Streamer: d.mixer, Base: 2, Silent: muted}
	return d
}

// Load prepares every cue and opens the output. Cues that fail are logged
// and skipped. If the output cannot be opened the dispatcher stays silent
// and the error is returned for the caller to log.
//
// Decoding and opening the device run without the lock, so cue calls made
// meanwhile return at once (as no-ops).
func (d *Dispatcher) Load(dir string) error {
	d.mu.Lock()
	if d.started || d.closed || d.loading {
		d.mu.Unlock()
		return nil
	}
	d.loading = true
	d.mu.Unlock()

	sources := make(map[string]func() beep.Streamer, len(d.order))
	for _, name := range d.order {
		src, err := d.prepare(dir, d.sounds[name])
		if err != nil {
			log.Warn().Err(err).Str("cue", name).Msg("audio: cue skipped")
			continue
		}
		sources[name] = src
	}

	var err error
	switch {
	case d.out == nil:
		err = errors.New("audio: no output")
	default:
		if ierr := d.out.Init(d.rate, d.master); ierr != nil {
			err = fmt.Errorf("audio: init output: %w", ierr)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if err != nil {
		return err
	}
	if d.closed {
		// closed while the device was opening
		d.out.Close()
		return nil
	}
	d.sources = sources
	d.started = true
	// mute may have changed while loading
	d.withOutput(func() { d.master.Silent = d.muted })
	log.Debug().Int("cues", len(d.sources)).Msg("audio: loaded")
	return nil
}

// prepare returns a factory producing a fresh streamer for s.
func (d *Dispatcher) prepare(dir string, s Sound) (func() beep.Streamer, error) {
	if s.File != "" && dir != "" {
		buf, err := decodeWAV(filepath.Join(dir, s.File), d.rate)
		switch {
		case err == nil:
			if s.Loop {
				return func() beep.Streamer { return withGain(&bufferLoop{buf: buf}, s.Volume) }, nil
			}
			return func() beep.Streamer { return withGain(buf.Streamer(0, buf.Len()), s.Volume) }, nil
		case !errors.Is(err, fs.ErrNotExist) || s.Generate == nil:
			return nil, err
		}
	}
	if s.Generate == nil {
		return nil, fmt.Errorf("no source for %q", s.Name)
	}
	if s.Loop {
		return func() beep.Streamer { return withGain(s.Generate(d.rate), s.Volume) }, nil
	}
	dur := s.Duration
	if dur <= 0 {
		dur = 200 * time.Millisecond
	}
	n := d.rate.N(dur)
	return func() beep.Streamer { return withGain(beep.Take(n, s.Generate(d.rate)), s.Volume) }, nil
}

// Play starts the named cue.
func (d *Dispatcher) Play(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started || d.closed || d.muted || d.hidden {
		return
	}
	src, ok := d.sources[name]
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("cue", name).Msg("audio: play failed")
		}
	}()

	if d.sounds[name].Loop {
		if _, playing := d.loops[name]; playing {
			return
		}
		ctrl := &beep.Ctrl{Streamer: src()}
		d.loops[name] = ctrl
		delete(d.held, name)
		d.withOutput(func() { d.mixer.Add(ctrl) })
		return
	}
	s := src()
	d.withOutput(func() { d.mixer.Add(s) })
}

// Stop ends the named loop. One-shots run to completion.
func (d *Dispatcher) Stop(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked(name)
}

func (d *Dispatcher) stopLocked(name string) {
	ctrl, ok := d.loops[name]
	if !ok {
		return
	}
	delete(d.loops, name)
	delete(d.held, name)
	// a Ctrl without a streamer is drained from the mixer
	d.withOutput(func() { ctrl.Streamer = nil })
}

// Hide pauses resumable loops and stops the rest.
func (d *Dispatcher) Hide() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hidden = true
	for name, ctrl := range d.loops {
		if !d.sounds[name].Resumable {
			d.stopLocked(name)
			continue
		}
		if !ctrl.Paused {
			d.withOutput(func() { ctrl.Paused = true })
			d.held[name] = true
		}
	}
}

// Show marks the view visible again. Loops paused by Hide continue only
// if resume is true; otherwise they are stopped.
func (d *Dispatcher) Show(resume bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hidden = false
	for name := range d.held {
		ctrl := d.loops[name]
		if !resume || ctrl == nil {
			d.stopLocked(name)
			continue
		}
		d.withOutput(func() { ctrl.Paused = false })
		delete(d.held, name)
	}
}

// Muted reports the current mute state.
func (d *Dispatcher) Muted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.muted
}

// SetMuted switches the master volume and persists the preference.
func (d *Dispatcher) SetMuted(ctx context.Context, muted bool) error {
	d.mu.Lock()
	d.muted = muted
	if !d.loading {
		d.withOutput(func() { d.master.Silent = muted })
	}
	d.mu.Unlock()

	if err := d.prefs.Set(ctx, MuteKey, muted); err != nil {
		return fmt.Errorf("audio: persist mute: %w", err)
	}
	return nil
}

// ToggleMute flips the mute state and returns the new value.
func (d *Dispatcher) ToggleMute(ctx context.Context) (bool, error) {
	muted := !d.Muted()
	return muted, d.SetMuted(ctx, muted)
}

// Close stops every cue and releases the output.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	for name := range d.loops {
		d.stopLocked(name)
	}
	if d.started {
		d.withOutput(func() { d.mixer.Clear() })
		d.out.Close()
	}
	d.closed = true
	d.started = false
}

// withOutput runs f while the output is not pulling samples.
func (d *Dispatcher) withOutput(f func()) {
	if !d.started || d.out == nil {
		f()
		return
	}
	d.out.Lock()
	defer d.out.Unlock()
	f()
}
