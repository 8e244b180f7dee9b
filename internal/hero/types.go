// internal/hero/types.go
//
// Type definitions for the hero title controller.
// Defines:
//   - Mode: presentation behaviour bound to a title.
//   - Phase: which part of the choreography currently owns the display.
//   - Per-letter cells for the punch and colour-convergence modes.
//   - Snapshot: an immutable copy of everything a renderer needs.

package hero

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects how a committed title is presented.
type Mode string

const (
	ModeGlow     Mode = "glow"
	ModePunch    Mode = "punch"
	ModeConverge Mode = "converge"
	ModeGame     Mode = "game"
)

// ParseMode maps a config string to a Mode. Empty means glow.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeGlow, nil
	case ModeGlow, ModePunch, ModeConverge, ModeGame:
		return m, nil
	default:
		return "", fmt.Errorf("hero: unknown mode %q", s)
	}
}

// Title is one entry of the cycling title list.
type Title struct {
	Text string
	Mode Mode
}

// Phase is the tag of the single active phase.
type Phase int

const (
	// PhaseRest shows the committed title in its terminal state; no timers run.
	PhaseRest Phase = iota
	PhaseGlitch
	PhaseGlow
	PhasePunch
	PhaseConverge
	PhaseGame
)

func (p Phase) String() string {
	switch p {
	case PhaseRest:
		return "rest"
	case PhaseGlitch:
		return "glitch"
	case PhaseGlow:
		return "glow"
	case PhasePunch:
		return "punch"
	case PhaseConverge:
		return "converge"
	case PhaseGame:
		return "game"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// PunchCell is one letter of the sequential reveal.
type PunchCell struct {
	Char       rune
	Visible    bool
	Emphasized bool
}

// ColorCell is one letter of the colour-convergence mode.
// Colours are "#rrggbb"; the empty string means transparent.
type ColorCell struct {
	Char    rune
	Current string
	Final   string
	Settled bool
}

// Snapshot is a copy of the controller's display state.
type Snapshot struct {
	Phase Phase
	Index int    // committed title index
	Title string // committed title text
	Mode  Mode   // mode of the committed title
	Text  string // what is on screen right now (scrambled during glitch)
	Glow  int    // glow style index, -1 when not glowing

	Punch   []PunchCell
	Colors  []ColorCell
	Letters []GameLetter

	Game    GameState // empty when no mini-game is on screen
	Elapsed time.Duration
	Winner  string // non-empty while the winner message is displayed
	Visible bool
}

// Cue names understood by the audio dispatcher.
const (
	CueGlitch = "glitch"
	CueLand   = "land"
	CuePop    = "pop"
	CueMusic  = "music"
	CueWin    = "win"
)

// Cues receives audio cues from the controller. Calls are made while the
// controller holds its lock, so implementations must not call back into it.
type Cues interface {
	Play(name string)
	Stop(name string)
	// Hide is called when the view becomes hidden.
	Hide()
	// Show is called when the view becomes visible again; resume tells
	// whether paused game music may continue.
	Show(resume bool)
}

type nopCues struct{}

func (nopCues) Play(string) {}
func (nopCues) Stop(string) {}
func (nopCues) Hide()       {}
func (nopCues) Show(bool)   {}
