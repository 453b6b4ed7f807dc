package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/noter/internal/apperr"
	"github.com/starford/noter/internal/noteservice"
	"github.com/starford/noter/internal/parser"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// titleParam extracts the note title from the URL, decoding escapes chi
// leaves in place when the request carries a raw path.
func titleParam(r *http.Request) string {
	raw := chi.URLParam(r, "title")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListNotes handles GET /api/notes?tag=a&tag=b&match=all.
// Each tag parameter may also hold several whitespace-separated tags.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var tags []string
	for _, v := range q["tag"] {
		tags = append(tags, parser.SplitQuery(v)...)
	}
	matchAll := q.Get("match") == "all"

	items, err := h.svc.ListNotes(r.Context(), tags, matchAll)
	if err != nil {
		writeInternal(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: len(items)})
}

// GetNote handles GET /api/notes/{title}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	title := titleParam(r)
	note, err := h.svc.GetNote(r.Context(), title)
	if err != nil {
		writeServiceError(w, "get note", title, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Backlinks handles GET /api/notes/{title}/backlinks.
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	title := titleParam(r)
	bl, err := h.svc.Backlinks(r.Context(), title)
	if err != nil {
		writeServiceError(w, "backlinks", title, err)
		return
	}
	writeJSON(w, http.StatusOK, BacklinksResponse{Title: title, Backlinks: bl})
}

// Search handles GET /api/search?q=...&limit=N.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeInternal(w, "search", err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: nonNil(results)})
}

// Tags handles GET /api/tags.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags(r.Context())
	if err != nil {
		writeInternal(w, "list tags", err)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

func writeServiceError(w http.ResponseWriter, op, title string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrInvalidTitle):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeInternal(w, op, err, slog.String("title", title))
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
