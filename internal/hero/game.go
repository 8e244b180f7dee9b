// internal/hero/game.go
//
// Pop-the-letter mini-game played on one title.
// Responsibilities:
//   - Build letter cells with stable identities ("<char>-<index>").
//   - Seed the idle round with one highlighted letter.
//   - Regenerate rounds: clear highlights, highlight 1..maxTargets unsolved letters.
//   - Apply pops and track state transitions: idle → active → won.
//
// Notes:
//   - Spaces are never playable and never count towards the win.
//   - Popped letters are terminal; they are never highlighted again.
//   - The end timestamp is written exactly once per session.
//
// The Game carries no timers; the Controller owns scheduling.
package hero

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// LetterStatus is the per-letter state of the mini-game.
type LetterStatus string

const (
	LetterNeutral     LetterStatus = "neutral"
	LetterHighlighted LetterStatus = "highlighted"
	LetterPopped      LetterStatus = "popped"
)

// GameLetter is one clickable character.
type GameLetter struct {
	ID     string
	Char   rune
	Status LetterStatus
}

// GameState is the coarse state of a session.
type GameState string

const (
	GameIdle   GameState = "idle"
	GameActive GameState = "active"
	GameWon    GameState = "won"
)

var (
	ErrLetterNotFound = errors.New("hero: letter not found")
	ErrNotHighlighted = errors.New("hero: letter is not highlighted")
	ErrGameFinished   = errors.New("hero: game finished")
	ErrNoGame         = errors.New("hero: no game on screen")
)

// Game holds the state of one mini-game session.
type Game struct {
	ID      string
	Title   string
	Letters []GameLetter
	State   GameState
	Start   time.Time // zero until the first pop
	End     time.Time // zero until won

	maxTargets int
	rng        *rand.Rand
}

// PopResult describes what a successful pop changed.
type PopResult struct {
	Started     bool // this pop moved the game from idle to active
	Won         bool // this pop solved the last letter
	Remaining   int  // unsolved non-space letters after the pop
	Highlighted int  // highlighted letters after the pop
}

// NewGame builds an idle game for title with one letter pre-highlighted.
func NewGame(title string, maxTargets int, rng *rand.Rand) *Game {
	if maxTargets < 1 {
		maxTargets = 1
	}
	runes := []rune(title)
	letters := make([]GameLetter, len(runes))
	for i, r := range runes {
		letters[i] = GameLetter{
			ID:     fmt.Sprintf("%c-%d", r, i),
			Char:   r,
			Status: LetterNeutral,
		}
	}
	g := &Game{
		ID:         uuid.NewString(),
		Title:      title,
		Letters:    letters,
		State:      GameIdle,
		maxTargets: maxTargets,
		rng:        rng,
	}
	g.seed()
	return g
}

// seed highlights a single random unsolved letter.
func (g *Game) seed() {
	open := g.unsolved()
	if len(open) == 0 {
		return
	}
	g.Letters[open[g.rng.IntN(len(open))]].Status = LetterHighlighted
}

// Regenerate starts a new round and returns how many letters it highlighted.
// While unsolved letters remain the result is always at least one.
func (g *Game) Regenerate() int {
	if g.State == GameWon {
		return 0
	}
	for i := range g.Letters {
		if g.Letters[i].Status == LetterHighlighted {
			g.Letters[i].Status = LetterNeutral
		}
	}
	open := g.unsolved()
	if len(open) == 0 {
		return 0
	}
	n := 1 + g.rng.IntN(g.maxTargets)
	if n > len(open) {
		n = len(open)
	}
	g.rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	for _, idx := range open[:n] {
		g.Letters[idx].Status = LetterHighlighted
	}
	return n
}

// Pop applies a click on the letter with the given id.
//
// Validation rules:
//   - Game must not be won.
//   - Letter must exist and be highlighted.
//
// State transitions:
//   - The first pop of an idle game starts the session clock.
//   - Popping the last unsolved letter sets End and moves to won.
func (g *Game) Pop(id string, now time.Time) (PopResult, error) {
	if g.State == GameWon {
		return PopResult{}, ErrGameFinished
	}
	i := g.index(id)
	if i < 0 {
		return PopResult{}, ErrLetterNotFound
	}
	if g.Letters[i].Status != LetterHighlighted {
		return PopResult{}, ErrNotHighlighted
	}
	g.Letters[i].Status = LetterPopped

	var res PopResult
	if g.State == GameIdle {
		g.State = GameActive
		g.Start = now
		res.Started = true
	}
	res.Remaining = g.Remaining()
	res.Highlighted = g.Highlighted()
	if res.Remaining == 0 && g.End.IsZero() {
		g.End = now
		g.State = GameWon
		res.Won = true
	}
	return res, nil
}

// Total counts the playable (non-space) letters.
func (g *Game) Total() int {
	n := 0
	for _, l := range g.Letters {
		if l.Char != ' ' {
			n++
		}
	}
	return n
}

// Remaining counts unsolved playable letters.
func (g *Game) Remaining() int { return len(g.unsolved()) }

// Highlighted counts letters currently highlighted.
func (g *Game) Highlighted() int {
	n := 0
	for _, l := range g.Letters {
		if l.Status == LetterHighlighted {
			n++
		}
	}
	return n
}

// Elapsed is the session duration: zero before the first pop, frozen once won.
func (g *Game) Elapsed(now time.Time) time.Duration {
	if g.Start.IsZero() {
		return 0
	}
	if !g.End.IsZero() {
		return g.End.Sub(g.Start)
	}
	return now.Sub(g.Start)
}

func (g *Game) unsolved() []int {
	var out []int
	for i, l := range g.Letters {
		if l.Char != ' ' && l.Status != LetterPopped {
			out = append(out, i)
		}
	}
	return out
}

func (g *Game) index(id string) int {
	for i, l := range g.Letters {
		if l.ID == id {
			return i
		}
	}
	return -1
}
