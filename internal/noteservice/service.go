// Package noteservice owns the in-memory note collection of one notes
// directory and keeps its files and index in step.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/starford/noter/internal/apperr"
	"github.com/starford/noter/internal/checksum"
	"github.com/starford/noter/internal/editor"
	"github.com/starford/noter/internal/index"
	"github.com/starford/noter/internal/models"
	"github.com/starford/noter/internal/parser"
	"github.com/starford/noter/internal/storage"
)

// DBFileName is the index file created inside a notes directory when no
// explicit database path is configured.
const DBFileName = ".noter.db"

// Service coordinates storage, index and the loaded notes.
type Service struct {
	store  storage.Provider
	db     index.NoteIndex
	logger *slog.Logger
	notes  []*models.Note
}

var _ editor.Persister = (*Service)(nil)

// NewService creates a service over an already opened store and index.
// Call Load to populate the collection.
func NewService(store storage.Provider, db index.NoteIndex, logger *slog.Logger) *Service {
	return &Service{store: store, db: db, logger: logger}
}

// Open prepares dir for use: the directory is created if missing, the index
// at dbPath (or dir/.noter.db when empty) is opened and synced, and every
// note is loaded.
func Open(dir, dbPath string, logger *slog.Logger) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("noteservice: create notes dir: %w", err)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		return nil, err
	}
	if dbPath == "" {
		dbPath = filepath.Join(store.Root(), DBFileName)
	}
	db, err := index.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := index.Sync(db, store, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("noteservice: sync index: %w", err)
	}
	svc := NewService(store, db, logger)
	if err := svc.Load(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("notes directory opened", slog.String("path", store.Root()), slog.Int("notes", len(svc.notes)))
	return svc, nil
}

// Root returns the absolute notes directory.
func (s *Service) Root() string {
	return s.store.Root()
}

// Close releases the index.
func (s *Service) Close() error {
	return s.db.Close()
}

// Watch re-indexes external file changes until ctx is cancelled, calling cb
// after each index change.
func (s *Service) Watch(ctx context.Context, cb index.EventCallback) error {
	return index.Watch(ctx, s.db, s.store, s.logger, cb)
}

// Load replaces the collection with the notes currently on disk.
func (s *Service) Load() error {
	notes, err := s.readAll()
	if err != nil {
		return err
	}
	s.notes = notes
	return nil
}

// Reload re-reads the directory. Notes with unsaved edits are kept as they
// are; other notes already loaded keep their identity and take the disk
// contents.
func (s *Service) Reload() error {
	disk, err := s.readAll()
	if err != nil {
		return err
	}
	byTitle := make(map[string]*models.Note, len(disk))
	for _, n := range disk {
		byTitle[n.Title] = n
	}

	out := make([]*models.Note, 0, len(disk))
	seen := make(map[string]struct{}, len(s.notes))
	for _, n := range s.notes {
		if n.Edited {
			out = append(out, n)
			seen[n.Title] = struct{}{}
			continue
		}
		fresh, ok := byTitle[n.Title]
		if !ok {
			continue
		}
		n.Text = fresh.Text
		n.Tags = fresh.Tags
		n.Links = fresh.Links
		n.UpdatedAt = fresh.UpdatedAt
		out = append(out, n)
		seen[n.Title] = struct{}{}
	}
	for _, n := range disk {
		if _, ok := seen[n.Title]; !ok {
			out = append(out, n)
		}
	}
	s.notes = out
	return nil
}

func (s *Service) readAll() ([]*models.Note, error) {
	metas, err := s.store.List()
	if err != nil {
		return nil, err
	}
	notes := make([]*models.Note, 0, len(metas))
	for _, m := range metas {
		data, err := s.store.Read(m.Path)
		if err != nil {
			s.logger.Warn("load: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		n := &models.Note{
			Title:     m.Title,
			Text:      string(data),
			UpdatedAt: m.UpdatedAt,
		}
		parser.Apply(n)
		notes = append(notes, n)
	}
	return notes, nil
}

// Notes returns the collection in display order.
func (s *Service) Notes() []*models.Note {
	return slices.Clone(s.notes)
}

// Get returns the loaded note with the given title.
func (s *Service) Get(title string) (*models.Note, error) {
	for _, n := range s.notes {
		if n.Title == title {
			return n, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// Register adds n to the collection unless it is already present.
func (s *Service) Register(n *models.Note) {
	if slices.Contains(s.notes, n) {
		return
	}
	s.notes = append(s.notes, n)
}

// Filter returns the notes matching a whitespace-separated tag query: any
// tag by default, every tag when matchAll is set. An empty query or a query
// nothing matches yields the whole collection.
func (s *Service) Filter(query string, matchAll bool) ([]*models.Note, error) {
	tags := parser.SplitQuery(query)
	if len(tags) == 0 {
		return s.Notes(), nil
	}
	paths, err := s.db.PathsByTags(tags, matchAll)
	if err != nil {
		return nil, err
	}
	hit := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		hit[models.TitleFromPath(p)] = struct{}{}
	}
	var out []*models.Note
	for _, n := range s.notes {
		if _, ok := hit[n.Title]; ok {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return s.Notes(), nil
	}
	return out, nil
}

// CheckTitle validates title as a new title for n and reports
// apperr.ErrAlreadyExists when another note already uses it.
func (s *Service) CheckTitle(n *models.Note, title string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	for _, other := range s.notes {
		if other != n && other.Title == title {
			return fmt.Errorf("noteservice: %q: %w", title, apperr.ErrAlreadyExists)
		}
	}
	return nil
}

// Persist writes text to the file for title and indexes it.
func (s *Service) Persist(title, text string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	path := models.FileName(title)
	data := []byte(text)
	if err := s.store.Write(path, data); err != nil {
		return err
	}
	meta := models.NoteMetadata{Path: path, Title: title, Checksum: checksum.Sum(data), UpdatedAt: time.Now()}
	if err := index.IndexFile(s.db, meta, data); err != nil {
		return fmt.Errorf("noteservice: index %s: %w", path, err)
	}
	s.logger.Info("note saved", slog.String("title", title))
	return nil
}

// Remove deletes the file for title and drops it from the index. A file
// that is already gone is not an error.
func (s *Service) Remove(title string) error {
	path := models.FileName(title)
	if err := s.store.Delete(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := s.db.DeleteNote(path); err != nil {
		return fmt.Errorf("noteservice: unindex %s: %w", path, err)
	}
	s.logger.Info("note removed", slog.String("title", title))
	return nil
}
