package tui

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/hero"
)

type fakeMuter struct{ muted bool }

func (f *fakeMuter) Muted() bool { return f.muted }

func (f *fakeMuter) ToggleMute(context.Context) (bool, error) {
	f.muted = !f.muted
	return f.muted, nil
}

func testTiming() hero.Timing {
	tm := hero.DefaultTiming()
	tm.GlitchIterationSpread = 0
	tm.DwellJitter = 0
	return tm
}

func newTestApp(t *testing.T, width int) (*App, tcell.SimulationScreen, *hero.Controller, *hero.ManualClock) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	sim.SetSize(width, 24)
	t.Cleanup(sim.Fini)

	tm := testTiming()
	clk := hero.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	ctrl, err := hero.New(hero.Options{
		Titles: []hero.Title{{Text: "Intro", Mode: hero.ModeGlow}, {Text: "Go Dev", Mode: hero.ModeGame}},
		Timing: &tm,
		Clock:  clk,
		Rand:   rand.New(rand.NewPCG(7, 7)),
	})
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)

	app := New(sim, ctrl, Options{Name: "Test Person", Tagline: "Makes things", Audio: &fakeMuter{}})
	return app, sim, ctrl, clk
}

func row(sim tcell.SimulationScreen, y int) string {
	w, _ := sim.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := sim.GetContent(x, y)
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func mouseAt(x, y int, btn tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, btn, tcell.ModNone)
}

func toGame(t *testing.T, app *App, ctrl *hero.Controller, clk *hero.ManualClock) hero.Snapshot {
	t.Helper()
	tm := testTiming()
	ctrl.Advance()
	clk.Advance(tm.GlitchTick * time.Duration(tm.GlitchMinIterations+1))
	s := ctrl.Snapshot()
	require.Equal(t, hero.PhaseGame, s.Phase)
	app.draw()
	return s
}

func TestDrawResting(t *testing.T) {
	app, sim, _, _ := newTestApp(t, 100)
	app.draw()

	assert.Equal(t, "Test Person", row(sim, app.lay.hero.y))
	assert.Equal(t, "Intro", row(sim, app.lay.titleY))
	assert.Equal(t, "Makes things", row(sim, app.lay.hero.y+5))
	assert.Equal(t, "m mute · q quit", row(sim, 23))
}

func TestHoverEntersAndLeaves(t *testing.T) {
	app, _, ctrl, _ := newTestApp(t, 100)
	app.draw()
	ctx := context.Background()

	app.handle(ctx, mouseAt(app.lay.hero.x+1, app.lay.titleY, tcell.ButtonNone))
	assert.Equal(t, hero.PhaseGlitch, ctrl.Snapshot().Phase)

	// moving within the block does not re-enter
	app.handle(ctx, mouseAt(app.lay.hero.x+2, app.lay.titleY, tcell.ButtonNone))
	assert.True(t, app.hovering)

	app.handle(ctx, mouseAt(0, 0, tcell.ButtonNone))
	assert.False(t, app.hovering)
	assert.Equal(t, hero.PhaseRest, ctrl.Snapshot().Phase)
}

func TestClickPopsHighlightedLetter(t *testing.T) {
	app, sim, ctrl, clk := newTestApp(t, 100)
	s := toGame(t, app, ctrl, clk)
	assert.Equal(t, "Go Dev", row(sim, app.lay.titleY))
	assert.Equal(t, "pop the highlighted letter to start", row(sim, app.lay.titleY+1))

	var target string
	for _, l := range s.Letters {
		if l.Status == hero.LetterHighlighted {
			target = l.ID
		}
	}
	require.NotEmpty(t, target)
	col := -1
	for x, id := range app.lay.letters {
		if id == target {
			col = x
		}
	}
	require.GreaterOrEqual(t, col, 0)
	assert.Len(t, app.lay.letters, 5, "spaces are not clickable")

	app.handle(context.Background(), mouseAt(col, app.lay.titleY, tcell.Button1))
	assert.Equal(t, hero.GameActive, ctrl.Snapshot().Game)
}

func TestClickOutsideGameIsIgnored(t *testing.T) {
	app, _, ctrl, _ := newTestApp(t, 100)
	app.draw()
	app.handle(context.Background(), mouseAt(app.lay.hero.x, app.lay.titleY, tcell.Button1))
	assert.Equal(t, hero.PhaseGlitch, ctrl.Snapshot().Phase, "the press still counts as hover")
	assert.Empty(t, app.lay.letters)
}

func TestWinnerLine(t *testing.T) {
	app, sim, ctrl, clk := newTestApp(t, 100)
	s := toGame(t, app, ctrl, clk)

	// pop highlighted letters round by round until the game is won
	for i := 0; i < 50 && s.Winner == ""; i++ {
		for _, l := range s.Letters {
			if l.Status == hero.LetterHighlighted {
				require.NoError(t, ctrl.Click(l.ID))
			}
		}
		s = ctrl.Snapshot()
		if s.Winner == "" {
			clk.Advance(2 * time.Second)
			s = ctrl.Snapshot()
		}
	}
	require.NotEmpty(t, s.Winner)
	app.draw()
	assert.Equal(t, s.Winner, row(sim, app.lay.titleY+1))
}

func TestFocusTogglesVisibility(t *testing.T) {
	app, _, ctrl, _ := newTestApp(t, 100)
	ctx := context.Background()

	app.handle(ctx, tcell.NewEventFocus(false))
	assert.False(t, ctrl.Snapshot().Visible)
	app.handle(ctx, tcell.NewEventFocus(true))
	assert.True(t, ctrl.Snapshot().Visible)
}

func TestKeys(t *testing.T) {
	app, sim, _, _ := newTestApp(t, 100)
	ctx := context.Background()

	assert.True(t, app.handle(ctx, tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone)))
	app.draw()
	assert.Equal(t, "m unmute · q quit", row(sim, 23))

	assert.False(t, app.handle(ctx, tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, app.handle(ctx, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.False(t, app.handle(ctx, tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)))
}

func TestNarrowScreenAutoStarts(t *testing.T) {
	app, _, ctrl, _ := newTestApp(t, 40)
	app.opts.AutoStart = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		return ctrl.Snapshot().Phase == hero.PhaseGlitch
	}, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
