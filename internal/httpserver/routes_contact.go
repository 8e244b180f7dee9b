package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/michaelcstraus/portfolio/apps/go-server/internal/mailer"
)

// mountContact registers POST /api/contact.
func (s *Server) mountContact(r chi.Router) {
	r.Post("/contact", func(w http.ResponseWriter, r *http.Request) {
		var sub mailer.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			writeError(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
			return
		}
		res, err := s.deps.Relay.Submit(r.Context(), sub)
		var ve *mailer.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, map[string]any{"error": "Missing required fields", "fields": ve.Fields})
		case err != nil:
			writeError(w, http.StatusInternalServerError, map[string]string{"error": "Failed to send email"})
		default:
			writeJSON(w, res)
		}
	})
}
