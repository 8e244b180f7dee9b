// internal/httpserver/server.go
//
// HTTP server wiring for the portfolio backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Contact relay: POST /api/contact.
//   - Events read API: /api/events, /api/events/genres.
//   - Static content: /api/content, /api/content/skills.
//   - Password-gated showcase: /api/showcase/* (JWT cookie per unlocked scope).
//   - Hero mini-game results + leaderboard: /api/hero/*.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the showcase cookie works).
//   - Handlers never retry; upstream failures are logged and surfaced as a
//     generic JSON error.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/content"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/events"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/mailer"
	"github.com/michaelcstraus/portfolio/apps/go-server/internal/scores"
)

// Deps are the services the routes are built on.
type Deps struct {
	Content *content.Site
	Events  events.Source
	Relay   *mailer.Relay
	Scores  *scores.Store

	// Passwords maps a showcase scope ("games", "media") to its password.
	Passwords map[string]string

	// Clock stamps tokens and result dates; the real clock when nil.
	Clock clockwork.Clock
}

// Server bundles the router and its dependencies.
type Server struct {
	r    *chi.Mux
	deps Deps
	gate *gate
}

// New constructs a Server, installs middleware, and registers routes.
func New(deps Deps) (*Server, error) {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	g, err := newGate(deps.Passwords)
	if err != nil {
		return nil, err
	}
	s := &Server{r: chi.NewRouter(), deps: deps, gate: g}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(20 * time.Second)) // bound handler time (SMTP can be slow)
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"portfolio-go","endpoints":["/health","POST /api/contact","/api/events","/api/content","/api/showcase/*","/api/hero/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/api", func(r chi.Router) {
		s.mountContact(r)
		s.mountEvents(r)
		s.mountContent(r)
		s.mountShowcase(r)
		s.mountHero(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, map[string]any{"error": "not_found", "path": r.URL.Path})
	})

	return s, nil
}

// Handler returns the root handler, for use with an http.Server.
func (s *Server) Handler() http.Handler { return s.r }
