package adapthttp

import (
	"fmt"
	"net/http"
	"strconv"

	"portions/internal/app"
)

func (s *Server) handleFoods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		items, err := s.catalog.ListRecent(ctx, intQuery(r, "limit", 20))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var body app.FoodInput
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		food, err := s.catalog.RegisterFood(ctx, body)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if p, ok := principalFrom(ctx); ok {
			s.logger.InfoContext(ctx, "food registered", "barcode", food.Barcode, "by", p.Name())
		}
		writeJSON(w, http.StatusCreated, map[string]any{"food": food})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleFoodLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	food, err := s.catalog.LookupBarcode(r.Context(), r.URL.Query().Get("barcode"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"food": food})
}

func (s *Server) handleFoodByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeServiceError(w, fmt.Errorf("%w: id must be an integer", app.ErrInvalidInput))
		return
	}
	food, err := s.catalog.GetFood(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"food": food})
}
