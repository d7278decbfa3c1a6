// Package api exposes the note operations over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/raido/internal/ops"
	"github.com/starford/raido/internal/search"
	"github.com/starford/raido/internal/sse"
)

// Server wires handlers to the operation layer.
type Server struct {
	ops    *ops.Operations
	search *search.DB
	broker *sse.Broker
	logger *slog.Logger
}

// NewServer returns a Server; search and broker may be nil (the
// corresponding endpoints then report unavailable).
func NewServer(o *ops.Operations, db *search.DB, broker *sse.Broker, logger *slog.Logger) *Server {
	return &Server{ops: o, search: db, broker: broker, logger: logger}
}

// Router builds the chi router with all API routes mounted under /api/v1.
func (s *Server) Router(authMode, authToken string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(bearerAuth(authMode, authToken))

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", s.handleListNotes)
			r.Post("/", s.handleCreateNote)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", s.handleReadNote)
				r.Put("/", s.handleUpdateNote)
				r.Delete("/", s.handleDeleteNote)
				r.Post("/append", s.handleAppendNote)
				r.Post("/rename", s.handleRenameNote)
				r.Get("/headings", s.handleHeadings)
				r.Get("/links", s.handleLinks)
				r.Get("/section", s.handleReadSection)
				r.Put("/section", s.handleUpdateSection)
				r.Delete("/section", s.handleDeleteSection)
				r.Post("/section/append", s.handleAppendSection)
				r.Get("/frontmatter", s.handleGetFrontmatter)
				r.Put("/frontmatter", s.handleSetFrontmatter)
				r.Post("/tags", s.handleAddTag)
				r.Delete("/tags/{tag}", s.handleRemoveTag)
				r.Post("/replace", s.handleReplace)
				r.Post("/insert", s.handleInsert)
			})
		})

		r.Get("/search", s.handleSearch)
		r.Get("/search/tags", s.handleSearchTags)
		r.Get("/search/fulltext", s.handleFulltext)
		r.Get("/links/broken", s.handleBrokenLinks)
		r.Get("/tags", s.handleAllTags)
		r.Post("/batch/rename", s.handleBatchRename)
		r.Post("/batch/delete", s.handleBatchDelete)

		if s.broker != nil {
			r.Get("/events", s.broker.ServeHTTP)
		}
	})

	return r
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if _, err := s.ops.Vault().ListNotes(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) publish(kind, name string) {
	if s.broker == nil {
		return
	}
	s.broker.Publish(sse.Event{Kind: kind, Name: name})
}

func (s *Server) publishRename(oldName, newName string) {
	if s.broker == nil {
		return
	}
	s.broker.Publish(sse.Event{Kind: sse.EventNoteRenamed, Name: oldName, NewName: newName})
}
