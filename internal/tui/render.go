package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/hero"
)

type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout is recomputed on every draw and used to hit-test the mouse.
type layout struct {
	hero    rect
	titleY  int
	letters map[int]string // screen column -> game letter id
}

var (
	nameStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	restStyle   = tcell.StyleDefault.Foreground(tcell.GetColor("#e5e7eb"))
	glitchStyle = tcell.StyleDefault.Foreground(tcell.GetColor("#22d3ee"))
	dimStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	winStyle    = tcell.StyleDefault.Foreground(tcell.GetColor("#facc15")).Bold(true)

	// one per hero.GlowStyles
	glowColors = []tcell.Color{
		tcell.GetColor("#ec4899"),
		tcell.GetColor("#22d3ee"),
		tcell.GetColor("#a855f7"),
		tcell.GetColor("#f97316"),
		tcell.GetColor("#84cc16"),
	}

	punchStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	emphasisStyle = tcell.StyleDefault.Foreground(tcell.GetColor("#ec4899")).Bold(true)

	neutralStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	targetStyle  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.GetColor("#facc15")).Bold(true)
	poppedStyle  = tcell.StyleDefault.Foreground(tcell.GetColor("#22d3ee")).Dim(true)
)

const heroHeight = 6

func (a *App) draw() {
	s := a.ctrl.Snapshot()
	a.screen.Clear()
	w, h := a.screen.Size()

	top := (h - heroHeight) / 2
	if top < 0 {
		top = 0
	}
	titleRunes := []rune(s.Text)
	if s.Phase == hero.PhaseGame && len(s.Letters) > 0 {
		titleRunes = titleRunes[:0]
		for _, l := range s.Letters {
			titleRunes = append(titleRunes, l.Char)
		}
	}
	blockW := max(len([]rune(a.opts.Name)), len(titleRunes), len([]rune(a.opts.Tagline)))
	a.lay = layout{
		hero:    rect{x: (w - blockW) / 2, y: top, w: blockW, h: heroHeight},
		titleY:  top + 2,
		letters: make(map[int]string),
	}

	a.centered(top, a.opts.Name, nameStyle)
	a.drawTitle(s, w)
	a.centered(top+3, a.status(s), statusStyle(s))
	a.centered(top+5, a.opts.Tagline, dimStyle)

	help := "q quit"
	if a.opts.Audio != nil {
		if a.opts.Audio.Muted() {
			help = "m unmute · " + help
		} else {
			help = "m mute · " + help
		}
	}
	a.text(1, h-1, help, dimStyle)
	a.screen.Show()
}

func (a *App) drawTitle(s hero.Snapshot, w int) {
	y := a.lay.titleY
	phase := s.Phase
	if phase == hero.PhaseRest {
		// rest keeps the terminal look of the committed mode
		switch {
		case len(s.Punch) > 0:
			phase = hero.PhasePunch
		case len(s.Colors) > 0:
			phase = hero.PhaseConverge
		}
	}
	switch phase {
	case hero.PhaseGlitch:
		a.centered(y, s.Text, glitchStyle)

	case hero.PhaseGlow:
		st := restStyle
		if s.Glow >= 0 {
			st = tcell.StyleDefault.Foreground(glowColors[s.Glow%len(glowColors)])
			if (a.frame/8)%2 == 0 {
				st = st.Bold(true)
			}
		}
		a.centered(y, s.Text, st)

	case hero.PhasePunch:
		x := (w - len(s.Punch)) / 2
		for i, c := range s.Punch {
			if !c.Visible {
				continue
			}
			st := punchStyle
			if c.Emphasized {
				st = emphasisStyle
			}
			a.screen.SetContent(x+i, y, c.Char, nil, st)
		}

	case hero.PhaseConverge:
		x := (w - len(s.Colors)) / 2
		for i, c := range s.Colors {
			st := tcell.StyleDefault
			if c.Current != "" {
				st = st.Foreground(tcell.GetColor(c.Current))
			}
			if c.Settled {
				st = st.Bold(true)
			}
			a.screen.SetContent(x+i, y, c.Char, nil, st)
		}

	case hero.PhaseGame:
		x := (w - len(s.Letters)) / 2
		for i, l := range s.Letters {
			st := neutralStyle
			switch l.Status {
			case hero.LetterHighlighted:
				st = targetStyle
			case hero.LetterPopped:
				st = poppedStyle
			}
			a.screen.SetContent(x+i, y, l.Char, nil, st)
			if l.Char != ' ' {
				a.lay.letters[x+i] = l.ID
			}
		}

	default:
		a.centered(y, s.Text, restStyle)
	}
}

func (a *App) status(s hero.Snapshot) string {
	switch {
	case s.Winner != "":
		return s.Winner
	case s.Game == hero.GameActive:
		return fmt.Sprintf("%.1fs", s.Elapsed.Seconds())
	case s.Game == hero.GameIdle && s.Phase == hero.PhaseGame:
		return "pop the highlighted letter to start"
	}
	return ""
}

func statusStyle(s hero.Snapshot) tcell.Style {
	if s.Winner != "" {
		return winStyle
	}
	return dimStyle
}

func (a *App) centered(y int, s string, st tcell.Style) {
	w, _ := a.screen.Size()
	a.text((w-len([]rune(s)))/2, y, s, st)
}

func (a *App) text(x, y int, s string, st tcell.Style) {
	for i, r := range []rune(s) {
		a.screen.SetContent(x+i, y, r, nil, st)
	}
}
