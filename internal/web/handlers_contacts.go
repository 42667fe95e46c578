package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crmgrid/internal/contact"
	"crmgrid/internal/logging"
	"crmgrid/internal/store"
	"crmgrid/internal/web/middleware"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into v with a size cap.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// storeFilterFromQuery maps the listing query params onto a store filter.
func storeFilterFromQuery(r *http.Request) store.Filter {
	return store.Filter{
		Status: r.URL.Query().Get("status"),
		Source: r.URL.Query().Get("source"),
		Search: r.URL.Query().Get("search"),
	}
}

// handleListContacts returns the tenant's contacts, optionally narrowed
// by search/status/source query params.
func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	contacts, err := s.store.List(r.Context(), user.OrgID, storeFilterFromQuery(r))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if contacts == nil {
		contacts = []*contact.Contact{}
	}
	respondJSON(w, http.StatusOK, contacts)
}

// validationResponse is the 400 payload for field-level failures.
type validationResponse struct {
	Error  string                    `json:"error"`
	Fields []contact.ValidationError `json:"fields"`
}

// handleCreateContact inserts one contact after schema validation.
func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var c contact.Contact
	if err := decodeJSON(r, &c); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	c.OrgID = user.OrgID
	c.UserID = user.ID
	c.ApplyDefaults()

	if errs := c.Validate(); len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, validationResponse{
			Error:  errs[0].Message,
			Fields: errs,
		})
		return
	}

	created, err := s.store.Create(r.Context(), &c)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("contact created", "contact_id", created.ID)
	respondJSON(w, http.StatusCreated, created)
}

// handleUpdateContact applies a partial update by field id. Inline-edit
// commits from the grid land here.
func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	updated, err := s.store.Update(r.Context(), user.OrgID, id, fields)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// handleDeleteContact hard-deletes a contact.
func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.store.Delete(r.Context(), user.OrgID, id); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("contact deleted", "contact_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe returns the authenticated user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	respondJSON(w, http.StatusOK, user)
}
