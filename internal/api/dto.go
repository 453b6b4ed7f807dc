package api

import (
	"github.com/starford/noter/internal/index"
	"github.com/starford/noter/internal/noteservice"
)

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes"`
	Total int            `json:"total"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}

// TagsResponse wraps the tag counts.
type TagsResponse struct {
	Tags []index.TagCount `json:"tags"`
}

// BacklinksResponse lists the titles linking to a note.
type BacklinksResponse struct {
	Title     string   `json:"title"`
	Backlinks []string `json:"backlinks"`
}
