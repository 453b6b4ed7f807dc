package noteservice

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/starford/noter/internal/apperr"
	"github.com/starford/noter/internal/checksum"
	"github.com/starford/noter/internal/index"
	"github.com/starford/noter/internal/models"
	"github.com/starford/noter/internal/parser"
)

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Title     string        `json:"title"`
	Text      string        `json:"text"`
	Checksum  string        `json:"checksum"`
	Tags      []string      `json:"tags"`
	Links     []models.Link `json:"links"`
	Backlinks []string      `json:"backlinks"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Title     string    `json:"title"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetNote reads a note straight from disk, so it reflects the saved state
// rather than any in-memory edits.
func (s *Service) GetNote(ctx context.Context, title string) (*NoteDetail, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	path := models.FileName(title)
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	meta, err := s.store.Stat(path)
	if err != nil {
		return nil, err
	}
	res := parser.Parse(string(data))
	backlinks, err := s.Backlinks(ctx, title)
	if err != nil {
		return nil, err
	}
	return &NoteDetail{
		Title:     title,
		Text:      string(data),
		Checksum:  checksum.Sum(data),
		Tags:      nonNilSlice(res.Tags),
		Links:     nonNilSlice(res.Links),
		Backlinks: backlinks,
		UpdatedAt: meta.UpdatedAt,
	}, nil
}

// ListNotes returns the saved notes, restricted to those carrying any (or,
// with matchAll, every) of tags when tags is non-empty.
func (s *Service) ListNotes(_ context.Context, tags []string, matchAll bool) ([]NoteListItem, error) {
	metas, err := s.store.List()
	if err != nil {
		return nil, err
	}
	var keep map[string]struct{}
	if len(tags) > 0 {
		paths, err := s.db.PathsByTags(tags, matchAll)
		if err != nil {
			return nil, err
		}
		keep = make(map[string]struct{}, len(paths))
		for _, p := range paths {
			keep[p] = struct{}{}
		}
	}
	items := []NoteListItem{}
	for _, m := range metas {
		if keep != nil {
			if _, ok := keep[m.Path]; !ok {
				continue
			}
		}
		items = append(items, NoteListItem{Title: m.Title, Checksum: m.Checksum, UpdatedAt: m.UpdatedAt})
	}
	return items, nil
}

// Backlinks returns the titles of the notes linking to title.
func (s *Service) Backlinks(_ context.Context, title string) ([]string, error) {
	paths, err := s.db.Backlinks(title)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = models.TitleFromPath(p)
	}
	return out, nil
}

// Search delegates text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Tags returns every tag with its note count.
func (s *Service) Tags(_ context.Context) ([]index.TagCount, error) {
	tags, err := s.db.Tags()
	return nonNilSlice(tags), err
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
