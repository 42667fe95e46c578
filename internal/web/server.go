// Package web provides the JSON HTTP API for the contact grid.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"crmgrid/internal/config"
	"crmgrid/internal/impex"
	"crmgrid/internal/store"
	"crmgrid/internal/web/middleware"
)

// Server is the HTTP server for the contact API.
type Server struct {
	cfg     *config.Config
	store   *store.Store
	imports *impex.Registry
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, st *store.Store, imports *impex.Registry) *Server {
	s := &Server{
		cfg:     cfg,
		store:   st,
		imports: imports,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := middleware.NewRateLimiter(s.cfg.Rate.RequestsPerMinute)
		s.router.Use(limiter.Middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.SessionAuth(s.store))

		// Current user
		r.Get("/me", s.handleMe)

		// Contacts
		r.Get("/contacts", s.handleListContacts)
		r.Post("/contacts", s.handleCreateContact)
		r.Patch("/contacts/{id}", s.handleUpdateContact)
		r.Delete("/contacts/{id}", s.handleDeleteContact)

		// Contact activity
		r.Get("/contacts/{id}/interactions", s.handleListInteractions)
		r.Post("/contacts/{id}/interactions", s.handleAddInteraction)
		r.Get("/contacts/{id}/reminders", s.handleListReminders)
		r.Post("/contacts/{id}/reminders", s.handleAddReminder)
		r.Post("/contacts/{id}/reminders/{reminderID}/done", s.handleCompleteReminder)
		r.Get("/contacts/{id}/notes", s.handleListNotes)
		r.Post("/contacts/{id}/notes", s.handleAddNote)

		// Column preferences
		r.Get("/columns", s.handleGetColumns)
		r.Put("/columns", s.handlePutColumns)

		// Import sessions
		r.Group(func(r chi.Router) {
			if s.cfg.Rate.Enabled {
				importLimiter := middleware.NewRateLimiter(s.cfg.Rate.ImportLimit)
				r.Use(importLimiter.Middleware)
			}
			r.Post("/import", s.handleStartImport)
		})
		r.Get("/import/{id}", s.handleImportSession)
		r.Post("/import/{id}/mapping", s.handleImportMapping)
		r.Post("/import/{id}", s.handleConfirmImport)
		r.Delete("/import/{id}", s.handleCancelImport)

		// Export
		r.Get("/export", s.handleExport)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}
