package httpserver

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const wrongPassword = "Incorrect password. Please try again."

// mountContent registers the public content endpoints:
//
//	GET /api/content                 whole site minus gated sections
//	GET /api/content/skills?category= skills of one category ("all" for every skill)
func (s *Server) mountContent(r chi.Router) {
	r.Route("/content", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, s.deps.Content)
		})
		r.Get("/skills", func(w http.ResponseWriter, r *http.Request) {
			cat := r.URL.Query().Get("category")
			writeJSON(w, map[string]any{
				"categories": s.deps.Content.Categories(),
				"skills":     s.deps.Content.SkillsIn(cat),
			})
		})
	})
}

type unlockReq struct {
	Scope    string `json:"scope"` // "games" (default) | "media"
	Password string `json:"password"`
}

// mountShowcase registers the password-gated sections:
//
//	POST /api/showcase/unlock  {scope, password} → sets token cookie
//	POST /api/showcase/lock    clears the cookie
//	GET  /api/showcase/status  unlocked scopes
//	GET  /api/showcase/games   (games scope)
//	GET  /api/showcase/media   (media scope)
func (s *Server) mountShowcase(r chi.Router) {
	r.Route("/showcase", func(r chi.Router) {
		r.Post("/unlock", s.handleUnlock)
		r.Post("/lock", func(w http.ResponseWriter, r *http.Request) {
			clearAuthCookie(w)
			writeJSON(w, map[string]bool{"ok": true})
		})
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"scopes": scopesOf(r)})
		})
		r.With(requireScope(ScopeGames)).Get("/games", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, s.deps.Content.Games)
		})
		r.With(requireScope(ScopeMedia)).Get("/media", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"items": s.deps.Content.Media})
		})
	})
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req unlockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}
	if req.Scope == "" {
		req.Scope = ScopeGames
	}
	if req.Scope != ScopeGames && req.Scope != ScopeMedia {
		writeError(w, http.StatusBadRequest, map[string]string{"error": errUnknownScope.Error()})
		return
	}
	if !s.gate.check(req.Scope, req.Password) {
		log.Info().Str("scope", req.Scope).Msg("showcase unlock rejected")
		writeError(w, http.StatusUnauthorized, map[string]string{"error": wrongPassword})
		return
	}

	// Keep scopes unlocked earlier in the same session.
	scopes := scopesOf(r)
	if !slices.Contains(scopes, req.Scope) {
		scopes = append(scopes, req.Scope)
	}
	slices.Sort(scopes)

	tok, exp, err := signJWT(scopes, s.deps.Clock.Now())
	if err != nil {
		log.Error().Err(err).Msg("sign showcase token")
		writeError(w, http.StatusInternalServerError, map[string]string{"error": "server_error"})
		return
	}
	setAuthCookie(w, tok, exp)
	writeJSON(w, map[string]any{"ok": true, "scopes": scopes, "token": tok})
}
