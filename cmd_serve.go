package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/michaelcstraus/portfolio/apps/go-server/assets"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/content"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/events"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/httpserver"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/mailer"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/scores"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	site, err := content.Load()
	if err != nil {
		return err
	}
	db, err := openMigrated()
	if err != nil {
		return err
	}
	defer db.Close()

	src, err := eventsSource(db)
	if err != nil {
		return err
	}

	srv, err := httpserver.New(httpserver.Deps{
		Content: site,
		Events:  src,
		Relay:   mailer.NewRelay(mailConfig(), nil),
		Scores:  scores.NewStore(db),
		Passwords: map[string]string{
			httpserver.ScopeGames: getEnv("SHOWCASE_PASSWORD", "gamepass123"),
			httpserver.ScopeMedia: getEnv("MEDIA_PASSWORD", "portfolio123"),
		},
	})
	if err != nil {
		return err
	}

	port := getEnv("PORT", "5175")
	hs := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", port).Msg("starting portfolio server")
		if err := hs.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return hs.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openMigrated opens DB_PATH and applies the embedded migrations.
func openMigrated() (*sql.DB, error) {
	db, err := openDB(getEnv("DB_PATH", "./data/portfolio.db"))
	if err != nil {
		return nil, err
	}
	if err := migrate(db, assets.Migrations()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func mailConfig() mailer.Config {
	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		log.Warn().Str("SMTP_PORT", getEnv("SMTP_PORT", "")).Msg("invalid SMTP_PORT; using 587")
		port = 587
	}
	user := getEnv("EMAIL_USER", "")
	return mailer.Config{
		User: user,
		Pass: getEnv("EMAIL_PASS", ""),
		To:   getEnv("EMAIL_TO", user),
		Host: getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port: port,
	}
}

// eventsSource picks the events backend from EVENTS_SOURCE ("sqlite" or "hosted").
// The hosted source is cached for EVENTS_TTL.
func eventsSource(db *sql.DB) (events.Source, error) {
	switch kind := getEnv("EVENTS_SOURCE", "sqlite"); kind {
	case "sqlite":
		return events.NewSQLStore(db), nil
	case "hosted":
		h, err := hostedSource()
		if err != nil {
			return nil, err
		}
		ttl, err := time.ParseDuration(getEnv("EVENTS_TTL", "1h"))
		if err != nil {
			return nil, fmt.Errorf("EVENTS_TTL: %w", err)
		}
		return events.NewCachedSource(h, ttl), nil
	default:
		return nil, fmt.Errorf("EVENTS_SOURCE: unknown source %q", kind)
	}
}

func hostedSource() (*events.HostedSource, error) {
	return events.NewHostedSource(getEnv("SUPABASE_URL", ""), getEnv("SUPABASE_ANON_KEY", ""))
}
