package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/audio"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/content"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/hero"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/scores"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/store"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/tui"
)

var heroCmd = &cobra.Command{
	Use:   "hero",
	Short: "Play the animated hero title in the terminal",
	Long: `Renders the cycling hero title. Move the mouse over it to start the
sequence, click highlighted letters during the mini-game, press m to mute
and q to quit.

Logs go to HERO_LOG_FILE since the terminal is in use. Wins are posted to
HERO_REPORT_URL when it is set.`,
	Args: cobra.NoArgs,
	RunE: runHero,
}

func runHero(cmd *cobra.Command, args []string) error {
	logPath := getEnv("HERO_LOG_FILE", filepath.Join(os.TempDir(), "portfolio-hero.log"))
	lf, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer lf.Close()
	setupLogging(lf)

	site, err := content.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	prefs := store.NewFileStore(getEnv("HERO_PREFS_FILE", defaultPrefsPath()))
	sound := audio.New(ctx, audio.SpeakerOutput{}, prefs, audio.DefaultSounds())
	defer sound.Close()

	g, gctx := errgroup.WithContext(ctx)

	var onWin func(gameID, title string, elapsed time.Duration)
	if url := getEnv("HERO_REPORT_URL", ""); url != "" {
		rep := scores.NewReporter(url)
		onWin = rep.Enqueue
		g.Go(func() error { return rep.Run(gctx) })
	}

	ctrl, err := hero.New(hero.Options{Titles: site.HeroTitles(), Cues: sound, OnWin: onWin})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	// Sound is optional; the hero runs while cues load.
	g.Go(func() error {
		if err := sound.Load(getEnv("HERO_SOUNDS_DIR", "")); err != nil {
			log.Warn().Err(err).Msg("audio unavailable; running silent")
		}
		return nil
	})

	app := tui.New(screen, ctrl, tui.Options{
		Name:    site.Profile.Name,
		Tagline: site.Profile.Tagline,
		Audio:   sound,
	})
	g.Go(func() error {
		defer cancel()
		return app.Run(gctx)
	})
	return g.Wait()
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "portfolio", "hero-prefs.json")
}
