// Package storage defines the notes directory file-system abstraction.
package storage

import "github.com/starford/noter/internal/models"

// Provider is the interface for note file operations.
type Provider interface {
	// Root returns the absolute notes directory.
	Root() string
	// List returns metadata for every .md file directly under the root.
	List() ([]models.NoteMetadata, error)
	// Stat returns the path, title and modification time of the file at
	// path (relative to root). Checksum is left empty.
	Stat(path string) (models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to root).
	Delete(path string) error
}
