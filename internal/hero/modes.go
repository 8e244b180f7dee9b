package hero

import (
	"time"

	"github.com/rs/zerolog/log"
)

// enterGlow holds the static title with a pulsing style until the next advance.
func (c *Controller) enterGlow() {
	c.st.phase = PhaseGlow
	c.st.glow = c.rng.IntN(GlowStyles)
	c.after(c.dwell(), c.advance)
}

// enterPunch emphasises each letter in turn, left to right.
// The last letter reverts before the advance fires because
// PunchHold < PunchStagger + PunchTail.
func (c *Controller) enterPunch() {
	c.st.phase = PhasePunch
	c.st.punch = punchCells(c.st.text)

	stagger, hold := c.timing.PunchStagger, c.timing.PunchHold
	for i := range c.st.punch {
		c.after(stagger*time.Duration(i), func() {
			c.st.punch[i].Emphasized = true
			c.after(hold, func() { c.st.punch[i].Emphasized = false })
		})
	}
	c.after(c.timing.PunchDwell(len(c.st.punch), c.jitter(c.timing.DwellJitter)), c.advance)
}

// enterConverge runs the chaotic colour phase, then settles letters in order.
func (c *Controller) enterConverge() {
	c.st.phase = PhaseConverge
	c.st.colors = convergeCells(c.st.text, c.randomChaotic)

	c.every(c.timing.ChaosTick, func() bool {
		for i := range c.st.colors {
			if !c.st.colors[i].Settled {
				c.st.colors[i].Current = c.randomChaotic()
			}
		}
		return true
	})

	c.after(c.timing.ChaosDuration, func() {
		c.cancel() // stops the chaos ticker
		stagger := c.timing.SettleStagger
		for i := range c.st.colors {
			if c.st.colors[i].Char == ' ' {
				c.st.colors[i].Current = ""
				c.st.colors[i].Settled = true
				continue
			}
			c.after(stagger*time.Duration(i), func() {
				c.st.colors[i].Current = c.st.colors[i].Final
				c.st.colors[i].Settled = true
			})
		}
		c.after(c.timing.SettleDwell(len(c.st.colors), c.jitter(c.timing.DwellJitter)), c.advance)
	})
}

func (c *Controller) randomChaotic() string {
	return ChaoticPalette[c.rng.IntN(len(ChaoticPalette))]
}

// ---------------------------------------------------------------------------
// mini-game

func (c *Controller) enterGame() {
	c.st.phase = PhaseGame
	c.st.game = NewGame(c.st.text, c.timing.RoundTargets, c.rng)
	c.armIdle()
}

// armIdle forces an advance if nobody starts the game in time.
func (c *Controller) armIdle() {
	c.after(c.timing.IdleTimeout, func() {
		log.Debug().Msg("mini-game idle timeout")
		c.st.game = nil
		c.st.phase = PhaseRest
		c.advance()
	})
}

// round regenerates highlights and schedules the next round.
func (c *Controller) round() {
	g := c.st.game
	if g == nil || g.State != GameActive {
		return
	}
	g.Regenerate()
	c.after(c.timing.RoundMin+c.jitter(c.timing.RoundSpread), c.round)
}

func (c *Controller) win() {
	c.cancel()
	g := c.st.game
	c.cues.Stop(CueMusic)
	c.cues.Play(CueWin)
	c.st.winner = true

	elapsed := g.Elapsed(c.clock.Now())
	log.Info().Str("game", g.ID).Dur("elapsed", elapsed).Msg("mini-game won")
	if c.onWin != nil {
		c.onWin(g.ID, g.Title, elapsed)
	}

	c.after(c.timing.WinnerDwell, func() {
		c.st.winner = false
		c.st.game = nil
		c.st.phase = PhaseRest
		c.advance()
	})
}

// ---------------------------------------------------------------------------
// cells

func punchCells(text string) []PunchCell {
	runes := []rune(text)
	cells := make([]PunchCell, len(runes))
	for i, r := range runes {
		cells[i] = PunchCell{Char: r, Visible: true}
	}
	return cells
}

// convergeCells builds unsettled cells with their word-based final colours.
func convergeCells(text string, chaotic func() string) []ColorCell {
	runes := []rune(text)
	finals := finalColors(runes)
	cells := make([]ColorCell, len(runes))
	for i, r := range runes {
		cells[i] = ColorCell{Char: r, Final: finals[i]}
		if r != ' ' {
			cells[i].Current = chaotic()
		}
	}
	return cells
}

// settledCells is the terminal state of the convergence mode.
func settledCells(text string) []ColorCell {
	runes := []rune(text)
	finals := finalColors(runes)
	cells := make([]ColorCell, len(runes))
	for i, r := range runes {
		cells[i] = ColorCell{Char: r, Current: finals[i], Final: finals[i], Settled: true}
	}
	return cells
}

// finalColors assigns WordPalette colours by word index; spaces are transparent.
func finalColors(runes []rune) []string {
	out := make([]string, len(runes))
	word, inWord := 0, false
	for i, r := range runes {
		if r == ' ' {
			if inWord {
				word++
			}
			inWord = false
			continue
		}
		inWord = true
		out[i] = WordPalette[word%len(WordPalette)]
	}
	return out
}
