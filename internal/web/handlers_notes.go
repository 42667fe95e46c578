package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"crmgrid/internal/logging"
	"crmgrid/internal/notes"
	"crmgrid/internal/store"
	"crmgrid/internal/web/middleware"
)

// handleListInteractions returns a contact's logged touches, most
// recent first.
func (s *Server) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	contactID := chi.URLParam(r, "id")

	list, err := s.store.ListInteractions(r.Context(), user.OrgID, contactID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []store.Interaction{}
	}
	respondJSON(w, http.StatusOK, list)
}

type interactionRequest struct {
	Type       string    `json:"type"`
	Note       string    `json:"note"`
	OccurredAt time.Time `json:"occurred_at"`
}

// handleAddInteraction records a touch; the store also bumps the
// contact's derniere_interaction stamp.
func (s *Server) handleAddInteraction(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	contactID := chi.URLParam(r, "id")

	var req interactionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	created, err := s.store.AddInteraction(r.Context(), user.OrgID, &store.Interaction{
		ContactID:  contactID,
		UserID:     user.ID,
		Type:       req.Type,
		Note:       req.Note,
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// handleListReminders returns a contact's follow-ups, soonest due first.
func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	contactID := chi.URLParam(r, "id")

	list, err := s.store.ListRappels(r.Context(), user.OrgID, contactID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []store.Rappel{}
	}
	respondJSON(w, http.StatusOK, list)
}

type reminderRequest struct {
	Title string    `json:"title"`
	DueAt time.Time `json:"due_at"`
}

// handleAddReminder schedules a follow-up.
func (s *Server) handleAddReminder(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	contactID := chi.URLParam(r, "id")

	var req reminderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	created, err := s.store.AddRappel(r.Context(), user.OrgID, &store.Rappel{
		ContactID: contactID,
		UserID:    user.ID,
		Title:     req.Title,
		DueAt:     req.DueAt,
	})
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// handleCompleteReminder marks a follow-up done.
func (s *Server) handleCompleteReminder(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	reminderID := chi.URLParam(r, "reminderID")

	if err := s.store.CompleteRappel(r.Context(), user.OrgID, reminderID); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListNotes returns a contact's internal notes, oldest first.
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	contactID := chi.URLParam(r, "id")

	list, err := s.store.ListNotes(r.Context(), user.OrgID, contactID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []store.InternalNote{}
	}
	respondJSON(w, http.StatusOK, list)
}

type noteRequest struct {
	Body string `json:"body"`
}

// handleAddNote stores an internal note and records a notification row
// for every @mentioned team member.
func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	contactID := chi.URLParam(r, "id")

	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	created, err := s.store.AddNote(r.Context(), user.OrgID, &store.InternalNote{
		ContactID: contactID,
		AuthorID:  user.ID,
		Body:      req.Body,
	})
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.notifyMentions(r, user, contactID, created.Body)
	respondJSON(w, http.StatusCreated, created)
}

// notifyMentions resolves @handles in a note body against the org's
// members and records one notification per match. A failed fan-out is
// logged but never fails the note itself.
func (s *Server) notifyMentions(r *http.Request, author *store.User, contactID, body string) {
	logger := logging.FromContext(r.Context())

	members, err := s.store.OrgUsers(r.Context(), author.OrgID)
	if err != nil {
		logger.Warn("mention fan-out: listing members failed", "error", err)
		return
	}

	candidates := make([]notes.Mentionable, 0, len(members))
	for _, m := range members {
		candidates = append(candidates, notes.Mentionable{
			UserID:      m.ID,
			DisplayName: m.DisplayName,
			Email:       m.Email,
		})
	}

	for _, mentioned := range notes.ResolveMentions(body, candidates) {
		if mentioned.UserID == author.ID {
			continue
		}
		err := s.store.Notify(r.Context(), author.OrgID, mentioned.UserID, contactID, "mention", body)
		if err != nil {
			logger.Warn("mention fan-out: notify failed",
				"user_id", mentioned.UserID,
				"error", err,
			)
		}
	}
}
