package web

import (
	"encoding/json"
	"net/http"

	"crmgrid/internal/grid"
	"crmgrid/internal/web/middleware"
)

// handleGetColumns returns the user's persisted column layout, falling
// back to the catalog defaults when nothing was ever saved.
func (s *Server) handleGetColumns(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	payload, ok, err := s.store.LoadColumnPrefs(r.Context(), user.ID, grid.StorageKey)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	cs := grid.DefaultColumns()
	if ok {
		// A corrupt saved layout falls back to defaults rather than
		// locking the user out of the grid.
		if err := json.Unmarshal(payload, cs); err != nil {
			cs = grid.DefaultColumns()
		}
	}
	respondJSON(w, http.StatusOK, cs)
}

// handlePutColumns replaces the user's persisted column layout.
func (s *Server) handlePutColumns(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	cs := grid.DefaultColumns()
	if err := decodeJSON(r, cs); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := cs.Validate(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	normalized, err := json.Marshal(cs)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if err := s.store.SaveColumnPrefs(r.Context(), user.ID, grid.StorageKey, normalized); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, cs)
}
