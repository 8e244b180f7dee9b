// HTTP routes for the hero mini-game.
// Exposes two endpoints under /hero:
//   - POST /hero/results     → record a won session (once per game id)
//   - GET  /hero/leaderboard → fastest sessions today (or a given date)
//
// Players are anonymous; results are attributed to the player cookie.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/scores"
)

// heroServer wraps dependencies for /hero endpoints.
type heroServer struct {
	srv    *Server
	store  *scores.Store
	titles map[string]bool // titles a result may name
}

// mountHero registers all /hero routes. Without a score store the routes
// are not mounted.
func (s *Server) mountHero(r chi.Router) {
	if s.deps.Scores == nil {
		return
	}
	hs := &heroServer{srv: s, store: s.deps.Scores, titles: make(map[string]bool)}
	for _, t := range s.deps.Content.Titles {
		hs.titles[t.Text] = true
	}
	r.Route("/hero", func(r chi.Router) {
		r.Post("/results", hs.handleResult)
		r.Get("/leaderboard", hs.handleLeaderboard)
	})
}

type resultReq struct {
	GameID    string `json:"gameId"`
	Title     string `json:"title"`
	ElapsedMs int64  `json:"elapsedMs"`
}

type resultRes struct {
	Date   string `json:"date"`
	Stored bool   `json:"stored"`
}

// handleResult stores one won session for today's board.
func (h *heroServer) handleResult(w http.ResponseWriter, r *http.Request) {
	var req resultReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}
	if !h.titles[req.Title] {
		writeError(w, http.StatusBadRequest, map[string]string{"error": "unknown_title"})
		return
	}

	res := scores.Result{
		GameID:    req.GameID,
		PlayerID:  ensureAnonID(w, r),
		Date:      scores.DateKey(h.srv.deps.Clock.Now()),
		Title:     req.Title,
		ElapsedMs: req.ElapsedMs,
	}
	stored, err := h.store.Insert(r.Context(), res)
	switch {
	case errors.Is(err, scores.ErrInvalidResult):
		writeError(w, http.StatusBadRequest, map[string]string{"error": "invalid_result"})
		return
	case err != nil:
		log.Error().Err(err).Str("game_id", req.GameID).Msg("insert hero result")
		writeError(w, http.StatusInternalServerError, map[string]string{"error": "server_error"})
		return
	}
	writeJSON(w, resultRes{Date: res.Date, Stored: stored})
}

// lbRes is returned by /hero/leaderboard.
type lbRes struct {
	Date string         `json:"date"`
	Top  []scores.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (h *heroServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = scores.DateKey(h.srv.deps.Clock.Now())
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := h.store.Leaderboard(r.Context(), date, limit)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("hero leaderboard")
		writeError(w, http.StatusInternalServerError, map[string]string{"error": "server_error"})
		return
	}
	writeJSON(w, lbRes{Date: date, Top: rows})
}
