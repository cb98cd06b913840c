package adapthttp

import (
	"net/http"

	"portions/internal/app"
)

func (s *Server) handlePortionEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body app.EstimateRequest
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	body.Locale = requestLocale(r, body.Locale)

	est, err := s.portions.Estimate(r.Context(), body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *Server) handlePortionSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	items, err := s.portions.Suggest(r.Context(), app.SuggestRequest{
		Barcode:     q.Get("barcode"),
		ServingText: q.Get("serving"),
		Locale:      requestLocale(r, q.Get("locale")),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleServingParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	parsed, err := s.portions.Parse(q.Get("text"), requestLocale(r, q.Get("locale")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parsed)
}
