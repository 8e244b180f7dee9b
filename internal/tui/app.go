// Package tui renders the animated hero in a terminal.
//
// The screen shows the owner's name, the cycling title, a status line and
// the tagline. Pointer motion over the hero block stands in for hover;
// clicking a highlighted letter pops it during the mini-game.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/hero"
)

// Muter is the mute switch of the audio layer.
type Muter interface {
	Muted() bool
	ToggleMute(ctx context.Context) (bool, error)
}

// Options configures an App.
type Options struct {
	Name    string
	Tagline string
	Audio   Muter // nil hides the mute control

	Frame time.Duration // redraw period, default ~30 FPS
	// Screens narrower than NarrowWidth have no hover; the hero starts on
	// its own after AutoStart.
	NarrowWidth int
	AutoStart   time.Duration
}

// App owns the screen and forwards input to the hero controller.
type App struct {
	screen tcell.Screen
	ctrl   *hero.Controller
	opts   Options

	frame    int
	hovering bool
	lay      layout
}

// New wires an initialised screen to ctrl.
func New(screen tcell.Screen, ctrl *hero.Controller, opts Options) *App {
	if opts.Frame <= 0 {
		opts.Frame = 33 * time.Millisecond
	}
	if opts.NarrowWidth <= 0 {
		opts.NarrowWidth = 80
	}
	if opts.AutoStart <= 0 {
		opts.AutoStart = 2 * time.Second
	}
	return &App{screen: screen, ctrl: ctrl, opts: opts}
}

// Run draws and handles input until ctx is done or the user quits.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse(tcell.MouseMotionEvents)
	a.screen.EnableFocus()
	a.screen.HideCursor()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		defer close(events)
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(a.opts.Frame)
	defer ticker.Stop()

	var autoStart <-chan time.Time
	if w, _ := a.screen.Size(); w < a.opts.NarrowWidth {
		t := time.NewTimer(a.opts.AutoStart)
		defer t.Stop()
		autoStart = t.C
		log.Debug().Int("width", w).Msg("narrow screen; hero starts on its own")
	}

	a.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-autoStart:
			autoStart = nil
			a.ctrl.Enter()
		case ev, ok := <-events:
			if !ok || !a.handle(ctx, ev) {
				return nil
			}
		case <-ticker.C:
			a.frame++
			a.draw()
		}
	}
}

// handle processes one event; it returns false to quit.
func (a *App) handle(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'm':
			a.toggleMute(ctx)
		case ev.Key() == tcell.KeyEnter, ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			a.ctrl.Enter()
		}
	case *tcell.EventMouse:
		a.mouse(ev)
	case *tcell.EventFocus:
		a.ctrl.SetVisible(ev.Focused)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) mouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	inside := a.lay.hero.contains(x, y)
	switch {
	case inside && !a.hovering:
		a.hovering = true
		a.ctrl.Enter()
	case !inside && a.hovering:
		a.hovering = false
		a.ctrl.Leave()
	}
	if ev.Buttons()&tcell.Button1 == 0 || y != a.lay.titleY {
		return
	}
	if id, ok := a.lay.letters[x]; ok {
		if err := a.ctrl.Click(id); err != nil {
			log.Debug().Err(err).Str("letter", id).Msg("click ignored")
		}
	}
}

func (a *App) toggleMute(ctx context.Context) {
	if a.opts.Audio == nil {
		return
	}
	muted, err := a.opts.Audio.ToggleMute(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("save mute preference")
	}
	log.Debug().Bool("muted", muted).Msg("mute toggled")
}
