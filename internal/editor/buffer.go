// Package editor implements the note text-editing engine: a line-addressed
// text buffer, a clamped cursor, the Normal/Insert/EditTitle mode machine and
// the keystroke processor that ties them together.
//
// The package performs no I/O. Persistence is delegated to a Persister.
package editor

import (
	"strings"
	"unicode/utf8"
)

// Buffer holds a note's text as an ordered sequence of lines.
// It always holds at least one line; an empty text is a single empty line.
//
// Lines keep their original bytes. Columns count runes, and a byte that is
// not valid UTF-8 counts as one column, so such text survives editing.
type Buffer struct {
	lines []string
}

// FromText splits s on '\n'. Splitting "" yields one empty line.
func FromText(s string) *Buffer {
	return &Buffer{lines: strings.Split(s, "\n")}
}

// Text joins the lines with '\n'.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// LineCount returns the number of lines, never less than one.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// LineLength returns the rune length of the line at row.
func (b *Buffer) LineLength(row int) int {
	b.checkRow("line_length", row)
	return utf8.RuneCountInString(b.lines[row])
}

// LineRunes returns a copy of the line at row. Invalid bytes read as
// utf8.RuneError, one per byte.
func (b *Buffer) LineRunes(row int) []rune {
	b.checkRow("line_runes", row)
	return []rune(b.lines[row])
}

// Line returns the line at row as stored.
func (b *Buffer) Line(row int) string {
	b.checkRow("line", row)
	return b.lines[row]
}

// Lines returns a copy of every line.
func (b *Buffer) Lines() []string {
	return append([]string(nil), b.lines...)
}

// InsertChar inserts ch at col, shifting the rest of the line right.
func (b *Buffer) InsertChar(row, col int, ch rune) {
	b.checkPos("insert_char", row, col)
	line := b.lines[row]
	off := byteOffset(line, col)
	b.lines[row] = line[:off] + string(ch) + line[off:]
}

// DeleteCharBefore removes the rune at col-1. At col 0 it does nothing;
// joining lines is JoinLineWithPrevious's job.
func (b *Buffer) DeleteCharBefore(row, col int) {
	b.checkPos("delete_char_before", row, col)
	if col == 0 {
		return
	}
	line := b.lines[row]
	start := byteOffset(line, col-1)
	_, size := utf8.DecodeRuneInString(line[start:])
	b.lines[row] = line[:start] + line[start+size:]
}

// SplitLine cuts the line at row: [0,col) stays, [col,end) becomes a new
// line at row+1. A col at or past the line end produces an empty new line.
func (b *Buffer) SplitLine(row, col int) {
	b.checkRow("split_line", row)
	if col < 0 {
		outOfBounds("split_line", row, col)
	}
	line := b.lines[row]
	off := byteOffset(line, col)

	lines := make([]string, 0, len(b.lines)+1)
	lines = append(lines, b.lines[:row]...)
	lines = append(lines, line[:off], line[off:])
	lines = append(lines, b.lines[row+1:]...)
	b.lines = lines
}

// JoinLineWithPrevious appends the line at row to the line above and removes
// it. It returns the column of the seam, the original length of line row-1.
// Row 0 has nothing to join with and is left alone.
func (b *Buffer) JoinLineWithPrevious(row int) int {
	b.checkRow("join_line_with_previous", row)
	if row == 0 {
		return 0
	}
	seam := utf8.RuneCountInString(b.lines[row-1])
	b.lines[row-1] += b.lines[row]
	b.lines = append(b.lines[:row], b.lines[row+1:]...)
	return seam
}

// Equal reports whether both buffers hold the same lines.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || len(b.lines) != len(other.lines) {
		return false
	}
	for i := range b.lines {
		if b.lines[i] != other.lines[i] {
			return false
		}
	}
	return true
}

func (b *Buffer) checkRow(op string, row int) {
	if row < 0 || row >= len(b.lines) {
		outOfBounds(op, row, 0)
	}
}

func (b *Buffer) checkPos(op string, row, col int) {
	b.checkRow(op, row)
	if col < 0 || col > utf8.RuneCountInString(b.lines[row]) {
		outOfBounds(op, row, col)
	}
}

// byteOffset returns the byte index of column col in line, or len(line)
// when col is at or past the end.
func byteOffset(line string, col int) int {
	off := 0
	for ; col > 0 && off < len(line); col-- {
		_, size := utf8.DecodeRuneInString(line[off:])
		off += size
	}
	return off
}
