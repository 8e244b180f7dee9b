package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/events"
)

// mountEvents registers the events read API:
//
//	GET /api/events?date=&genre=&q=&from=&to=
//	GET /api/events/genres
func (s *Server) mountEvents(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			list, ok := s.fetchEvents(w, r)
			if !ok {
				return
			}
			q := r.URL.Query()
			out := events.Apply(list, events.Filter{
				Date:  q.Get("date"),
				Genre: q.Get("genre"),
				Query: q.Get("q"),
				From:  q.Get("from"),
				To:    q.Get("to"),
			})
			writeJSON(w, map[string]any{"events": out, "count": len(out)})
		})
		r.Get("/genres", func(w http.ResponseWriter, r *http.Request) {
			list, ok := s.fetchEvents(w, r)
			if !ok {
				return
			}
			writeJSON(w, map[string]any{"genres": events.Genres(list)})
		})
	})
}

func (s *Server) fetchEvents(w http.ResponseWriter, r *http.Request) ([]events.Event, bool) {
	if s.deps.Events == nil {
		writeError(w, http.StatusServiceUnavailable, map[string]string{"error": "events_unavailable"})
		return nil, false
	}
	list, err := s.deps.Events.Fetch(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("fetch events")
		writeError(w, http.StatusBadGateway, map[string]string{"error": "events_unavailable"})
		return nil, false
	}
	return list, true
}
