// Package testutil provides shared test helpers for setting up notes
// directories, indexes and services.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/noter/internal/index"
	"github.com/starford/noter/internal/noteservice"
	"github.com/starford/noter/internal/storage"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestNotesDir creates a temporary notes directory with a storage.Provider.
func TestNotesDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteNotes creates one file per title in dir.
func WriteNotes(t *testing.T, dir string, notes map[string]string) {
	t.Helper()
	for title, text := range notes {
		if err := os.WriteFile(filepath.Join(dir, title+".md"), []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// TestService opens a service over a temporary directory seeded with notes.
func TestService(t *testing.T, notes map[string]string) (string, *noteservice.Service) {
	t.Helper()
	dir := t.TempDir()
	WriteNotes(t, dir, notes)
	svc, err := noteservice.Open(dir, filepath.Join(t.TempDir(), "index.db"), Logger())
	if err != nil {
		t.Fatalf("noteservice.Open: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return dir, svc
}
