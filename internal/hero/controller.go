// internal/hero/controller.go
//
// Title animation controller for the hero section.
// Responsibilities:
//   - Sequencer: cycle through the title list with a glitch transition.
//   - Presentation modes: glow, punch reveal, colour convergence, mini-game.
//   - Mini-game scheduling: idle timeout, rounds, winner message.
//   - Audio cues through the Cues interface.
//
// Notes:
//   - Exactly one phase owns the display at a time. Every phase transition
//     cancels all timers of the previous phase before arming its own.
//   - Timer callbacks re-acquire the lock and are dropped when their
//     generation no longer matches, so a cancelled timer that already fired
//     can never touch the new phase.
//   - State lives in a single struct read fresh by every callback.

package hero

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Options configures a Controller. Titles is required; the rest defaults.
type Options struct {
	Titles []Title
	Timing *Timing
	Clock  Clock
	Rand   *rand.Rand
	Cues   Cues

	// OnWin is called with the lock held when a session is won; it must not block.
	OnWin func(gameID, title string, elapsed time.Duration)
}

// Controller drives the animated hero title.
type Controller struct {
	mu sync.Mutex

	titles []Title
	timing Timing
	clock  Clock
	rng    *rand.Rand
	cues   Cues
	onWin  func(string, string, time.Duration)

	timers  timerSet
	closed  bool
	visible bool

	st state
}

// state is the single source of truth for what is on screen.
type state struct {
	phase     Phase
	committed int
	text      string
	glow      int
	punch     []PunchCell
	colors    []ColorCell
	game      *Game
	winner    bool
}

// timerSet tracks the timers armed by the active phase.
type timerSet struct {
	gen  uint64
	next uint64
	live map[uint64]Timer
}

// New constructs a Controller resting on the first title.
func New(opts Options) (*Controller, error) {
	if len(opts.Titles) == 0 {
		return nil, errors.New("hero: no titles")
	}
	for _, t := range opts.Titles {
		if _, err := ParseMode(string(t.Mode)); err != nil {
			return nil, err
		}
	}
	c := &Controller{
		titles:  append([]Title(nil), opts.Titles...),
		timing:  DefaultTiming(),
		clock:   opts.Clock,
		rng:     opts.Rand,
		cues:    opts.Cues,
		onWin:   opts.OnWin,
		visible: true,
		timers:  timerSet{live: make(map[uint64]Timer)},
	}
	if opts.Timing != nil {
		c.timing = *opts.Timing
	}
	if c.clock == nil {
		c.clock = RealClock()
	}
	if c.rng == nil {
		now := uint64(time.Now().UnixNano())
		c.rng = rand.New(rand.NewPCG(now, now>>17|1))
	}
	if c.cues == nil {
		c.cues = nopCues{}
	}
	c.rest(0)
	return c, nil
}

// ---------------------------------------------------------------------------
// external triggers

// Enter handles pointer-enter (or the auto-start timer on small screens).
// An idle mini-game resumes its idle countdown instead of advancing; a
// running or won session ignores it.
func (c *Controller) Enter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	switch {
	case c.gameIdle():
		c.cancel()
		c.armIdle()
	case c.st.phase == PhaseGame && c.st.game != nil:
		// only a win or Leave ends the session
	default:
		c.advance()
	}
}

// Advance moves to the next title. It is a no-op while the mini-game
// waits for its first click.
func (c *Controller) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance()
}

// Leave handles pointer-leave.
func (c *Controller) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.cues.Stop(CueGlitch)

	g := c.st.game
	switch {
	case c.st.phase == PhaseGame && g != nil && g.State == GameWon:
		// the winner dwell owns the only pending timer; it must still advance
		return
	case c.st.phase == PhaseGame && g != nil && g.State == GameActive:
		c.cancel()
		c.cues.Stop(CueMusic)
		log.Debug().Str("game", g.ID).Msg("mini-game abandoned")
		c.st.game = NewGame(c.titles[c.st.committed].Text, c.timing.RoundTargets, c.rng)
	case c.st.phase == PhaseGame && g != nil:
		c.cancel()
	default:
		c.cancel()
		c.rest(c.st.committed)
	}
}

// Click pops the letter with the given id if it is highlighted.
func (c *Controller) Click(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.st.phase != PhaseGame || c.st.game == nil {
		return ErrNoGame
	}
	g := c.st.game
	res, err := g.Pop(id, c.clock.Now())
	if err != nil {
		return err
	}
	c.cues.Play(CuePop)

	if res.Started {
		c.cancel()
		c.cues.Play(CueMusic)
		log.Debug().Str("game", g.ID).Msg("mini-game started")
	}
	switch {
	case res.Won:
		c.win()
	case res.Started:
		c.after(c.timing.FirstRound, c.round)
	case res.Highlighted == 0:
		c.cancel()
		c.round()
	}
	return nil
}

// SetVisible reports page visibility changes.
func (c *Controller) SetVisible(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.visible == visible {
		return
	}
	c.visible = visible
	if !visible {
		c.cues.Hide()
		return
	}
	g := c.st.game
	resume := c.st.phase == PhaseGame && g != nil && g.State == GameActive && !c.st.winner
	c.cues.Show(resume)
}

// Close cancels everything and silences the cues. The controller is unusable afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.cancel()
	c.cues.Stop(CueGlitch)
	c.cues.Stop(CueMusic)
	c.closed = true
}

// CancelAll cancels every pending timer of the active phase. Calling it
// repeatedly has the same effect as calling it once.
func (c *Controller) CancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
}

// Snapshot returns a copy of the current display state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.titles[c.st.committed]
	s := Snapshot{
		Phase:   c.st.phase,
		Index:   c.st.committed,
		Title:   t.Text,
		Mode:    t.Mode,
		Text:    c.st.text,
		Glow:    c.st.glow,
		Punch:   append([]PunchCell(nil), c.st.punch...),
		Colors:  append([]ColorCell(nil), c.st.colors...),
		Visible: c.visible,
	}
	if g := c.st.game; g != nil {
		s.Letters = append([]GameLetter(nil), g.Letters...)
		s.Game = g.State
		s.Elapsed = g.Elapsed(c.clock.Now())
		if c.st.winner {
			s.Winner = WinnerMessage(s.Elapsed)
		}
	}
	return s
}

// WinnerMessage formats the message shown after a win.
func WinnerMessage(elapsed time.Duration) string {
	return fmt.Sprintf("Winner! Time: %.2fs", elapsed.Seconds())
}

// ---------------------------------------------------------------------------
// sequencer

func (c *Controller) advance() {
	if c.closed {
		return
	}
	if c.gameIdle() {
		log.Debug().Msg("advance refused: mini-game waiting for first click")
		return
	}
	c.cancel()
	c.cues.Stop(CueMusic)
	c.clearModes()

	next := (c.st.committed + 1) % len(c.titles)
	target := c.titles[next].Text
	budget := c.timing.GlitchMinIterations
	if c.timing.GlitchIterationSpread > 0 {
		budget += c.rng.IntN(c.timing.GlitchIterationSpread)
	}
	c.st.phase = PhaseGlitch

	iter := 0
	c.every(c.timing.GlitchTick, func() bool {
		if iter < budget {
			if iter == 0 {
				c.cues.Play(CueGlitch)
			}
			c.st.text = Scramble(target, c.timing.GlitchIntensity, c.rng)
			iter++
			return true
		}
		c.cues.Stop(CueGlitch)
		c.commit(next)
		return false
	})
}

// commit lands on title idx and hands over to its presentation mode.
func (c *Controller) commit(idx int) {
	c.cancel()
	c.st.committed = idx
	t := c.titles[idx]
	c.st.text = t.Text
	if t.Mode != ModeGame {
		c.cues.Play(CueLand)
	}
	log.Debug().Str("title", t.Text).Str("mode", string(t.Mode)).Msg("title committed")

	switch t.Mode {
	case ModePunch:
		c.enterPunch()
	case ModeConverge:
		c.enterConverge()
	case ModeGame:
		c.enterGame()
	default:
		c.enterGlow()
	}
}

// rest shows title idx in its terminal visual state with nothing scheduled.
func (c *Controller) rest(idx int) {
	c.clearModes()
	c.st.committed = idx
	t := c.titles[idx]
	c.st.text = t.Text
	c.st.phase = PhaseRest

	switch t.Mode {
	case ModePunch:
		c.st.punch = punchCells(t.Text)
	case ModeConverge:
		c.st.colors = settledCells(t.Text)
	case ModeGame:
		c.st.phase = PhaseGame
		c.st.game = NewGame(t.Text, c.timing.RoundTargets, c.rng)
	}
}

func (c *Controller) clearModes() {
	c.st.glow = -1
	c.st.punch = nil
	c.st.colors = nil
	c.st.game = nil
	c.st.winner = false
}

func (c *Controller) gameIdle() bool {
	return c.st.phase == PhaseGame && c.st.game != nil && c.st.game.State == GameIdle
}

// dwell is the randomized hold time after a mode has finished animating.
func (c *Controller) dwell() time.Duration {
	return c.timing.DwellBase + c.jitter(c.timing.DwellJitter)
}

func (c *Controller) jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(c.rng.Int64N(int64(d)))
}

// ---------------------------------------------------------------------------
// timers

// after arms a timer owned by the current phase.
func (c *Controller) after(d time.Duration, f func()) {
	gen := c.timers.gen
	c.timers.next++
	id := c.timers.next
	t := c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || c.timers.gen != gen {
			return
		}
		delete(c.timers.live, id)
		f()
	})
	c.timers.live[id] = t
}

// every calls f every d until f returns false or the phase is cancelled.
func (c *Controller) every(d time.Duration, f func() bool) {
	var tick func()
	tick = func() {
		if f() {
			c.after(d, tick)
		}
	}
	c.after(d, tick)
}

// cancel stops every timer of the current phase.
func (c *Controller) cancel() {
	for id, t := range c.timers.live {
		t.Stop()
		delete(c.timers.live, id)
	}
	c.timers.gen++
}
