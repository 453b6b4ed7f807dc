package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/noter/internal/noteservice"
)

// NewRouter creates a chi router with all read-only API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/notes", h.ListNotes)
	r.Get("/notes/{title}", h.GetNote)
	r.Get("/notes/{title}/backlinks", h.Backlinks)
	r.Get("/search", h.Search)
	r.Get("/tags", h.Tags)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
