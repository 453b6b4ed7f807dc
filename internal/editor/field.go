package editor

import "strings"

// Field is a single-line text value edited with the same Cursor as a Buffer.
// Titles and the list's tag search use it.
type Field struct {
	buf *Buffer
}

// NewField returns a Field holding s. Line breaks become spaces.
func NewField(s string) *Field {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return &Field{buf: FromText(s)}
}

// String returns the field's text.
func (f *Field) String() string {
	return f.buf.Line(0)
}

// Len returns the rune length.
func (f *Field) Len() int {
	return f.buf.LineLength(0)
}

// Set replaces the whole value.
func (f *Field) Set(s string) {
	*f = *NewField(s)
}

// InsertChar inserts ch at col.
func (f *Field) InsertChar(col int, ch rune) {
	f.buf.InsertChar(0, col, ch)
}

// DeleteCharBefore removes the rune before col; no-op at col 0.
func (f *Field) DeleteCharBefore(col int) {
	f.buf.DeleteCharBefore(0, col)
}

// LineCount is always one.
func (f *Field) LineCount() int { return 1 }

// LineLength returns the field length; row must be 0.
func (f *Field) LineLength(row int) int { return f.buf.LineLength(row) }

// LineRunes returns the field runes; row must be 0.
func (f *Field) LineRunes(row int) []rune { return f.buf.LineRunes(row) }
