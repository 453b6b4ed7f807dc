// Package models defines the domain types for noter.
package models

import (
	"strings"
	"time"
)

// FileExt is the suffix every note file carries.
const FileExt = ".md"

// Note is one note file: its title is the file stem, its text the file body.
type Note struct {
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Tags      []string  `json:"tags"`
	Links     []Link    `json:"links"`
	UpdatedAt time.Time `json:"updated_at"`

	// Edited is set by every mutation and cleared once the note is persisted.
	Edited bool `json:"-"`
	// OldTitle is the title snapshot taken when title editing starts.
	// Empty means the note has never been persisted under any title.
	OldTitle string `json:"-"`
}

// FileName returns the file name the note is stored under.
func (n *Note) FileName() string {
	return FileName(n.Title)
}

// HasTag reports whether the note carries tag (without the leading '#').
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TagQuery renders the note's tags as a whitespace-separated search string.
func (n *Note) TagQuery() string {
	return strings.Join(n.Tags, " ")
}

// Link is a [label](target) reference found in a note.
type Link struct {
	Label  string `json:"label"`
	Target string `json:"target"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileName maps a title to its file name.
func FileName(title string) string {
	return title + FileExt
}

// TitleFromPath returns the title encoded in a note file path.
func TitleFromPath(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, FileExt)
}
