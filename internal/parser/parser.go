// Package parser extracts #tags and [label](target) links from note text.
package parser

import (
	"regexp"
	"strings"

	"github.com/starford/noter/internal/models"
)

var linkRe = regexp.MustCompile(`\[([^\]]*)\]\(([^()\s]+)\)`)

// Result holds the tokens found in a note.
type Result struct {
	Tags  []string
	Links []models.Link
}

// Parse scans text for tags and links.
func Parse(text string) *Result {
	return &Result{
		Tags:  ExtractTags(text),
		Links: extractLinks(text),
	}
}

// Apply re-derives n's tags and links from its text.
func Apply(n *models.Note) {
	res := Parse(n.Text)
	n.Tags = res.Tags
	n.Links = res.Links
}

// ExtractTags returns the deduplicated tags of text in order of first use,
// without the leading '#'. Tags are the tokens IsTagToken accepts, so the
// index and the editor's colouring agree.
func ExtractTags(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, token := range strings.Fields(text) {
		if !IsTagToken(token) {
			continue
		}
		t := token[1:]
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// SplitQuery turns a whitespace-separated tag search into tag names.
// A leading '#' on each word is optional.
func SplitQuery(query string) []string {
	var out []string
	for _, w := range strings.Fields(query) {
		w = strings.TrimLeft(w, "#")
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// IsTagToken reports whether a whitespace-delimited token is a tag: '#'
// followed by at least one character and no further '#'.
func IsTagToken(token string) bool {
	return len(token) > 1 && token[0] == '#' && !strings.ContainsRune(token[1:], '#')
}

func extractLinks(text string) []models.Link {
	var out []models.Link
	for _, m := range linkRe.FindAllStringSubmatch(text, -1) {
		target := strings.TrimSpace(m[2])
		if target == "" {
			continue
		}
		out = append(out, models.Link{Label: m[1], Target: target})
	}
	return out
}
