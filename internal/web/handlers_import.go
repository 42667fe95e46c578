package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"crmgrid/internal/impex"
	"crmgrid/internal/logging"
	"crmgrid/internal/web/middleware"
)

// sessionResponse describes an import session to the client.
type sessionResponse struct {
	ID       string        `json:"id"`
	State    impex.State   `json:"state"`
	FileName string        `json:"file_name,omitempty"`
	Headers  []string      `json:"headers,omitempty"`
	RowCount int           `json:"row_count"`
	Mapping  impex.Mapping `json:"mapping"`
}

func describeSession(sess *impex.Session) sessionResponse {
	return sessionResponse{
		ID:       sess.ID,
		State:    sess.State(),
		FileName: sess.FileName(),
		Headers:  sess.Headers(),
		RowCount: sess.RowCount(),
		Mapping:  sess.Mapping(),
	}
}

// handleStartImport accepts a multipart file upload, parses it into a
// fresh session and pre-fills the mapping from header names.
func (s *Server) handleStartImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Import.MaxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.respondError(w, r, fmt.Errorf("file too large: %w", err), http.StatusRequestEntityTooLarge)
			return
		}
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("no file provided: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sess := s.imports.Open()
	if err := sess.Load(header.Filename, data); err != nil {
		s.imports.Close(sess.ID)
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	// Best-effort pre-mapping; the user can still adjust every binding.
	if err := sess.SetMapping(impex.SuggestMapping(sess.Headers())); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("import session opened",
		"session_id", sess.ID,
		"file", header.Filename,
		"rows", sess.RowCount(),
	)
	respondJSON(w, http.StatusCreated, describeSession(sess))
}

// handleImportSession returns the current state of a session.
func (s *Server) handleImportSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.imports.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, describeSession(sess))
}

// mappingRequest carries one or more mapping edits. A binding mapped to
// "" is cleared.
type mappingRequest struct {
	Mapping map[string]string `json:"mapping"`
}

// handleImportMapping edits the target-field to source-header bindings.
func (s *Server) handleImportMapping(w http.ResponseWriter, r *http.Request) {
	sess, err := s.imports.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	var req mappingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	for field, headerName := range req.Mapping {
		if err := sess.MapField(field, headerName); err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
	}
	respondJSON(w, http.StatusOK, describeSession(sess))
}

// handleConfirmImport validates and bulk-inserts the mapped rows,
// stamped with the acting user's tenant.
func (s *Server) handleConfirmImport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	sess, err := s.imports.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	importLogger := logging.WithFields(r.Context(),
		"session_id", sess.ID,
		"file", sess.FileName(),
	)

	result, err := sess.Confirm(r.Context(), impex.Identity{
		UserID: user.ID,
		OrgID:  user.OrgID,
	}, s.store)
	if err != nil {
		importLogger.Warn("import rejected", "error", err)
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	s.imports.Close(sess.ID)
	importLogger.Info("import completed",
		"admitted", result.Admitted,
		"discarded", result.Discarded,
	)
	respondJSON(w, http.StatusOK, result)
}

// handleCancelImport discards a session and everything it parsed.
func (s *Server) handleCancelImport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.imports.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	sess.Cancel()
	s.imports.Close(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// handleExport streams every tenant contact as a dated CSV or XLSX
// attachment in the canonical field order.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(impex.FormatCSV)
	}
	format, err := impex.ParseFormat(raw)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	contacts, err := s.store.List(r.Context(), user.OrgID, storeFilterFromQuery(r))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	data, err := impex.Export(contacts, format)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	name := impex.Filename(format, time.Now())
	switch format {
	case impex.FormatXLSX:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}
