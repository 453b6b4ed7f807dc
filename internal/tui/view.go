package tui

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/starford/noter/internal/editor"
	"github.com/starford/noter/internal/parser"
)

const listShare = 15 // percent of the width given to the note list

var (
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	caretStyle    = lipgloss.NewStyle().Reverse(true)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	modeStyle     = lipgloss.NewStyle().Bold(true).Padding(0, 1).Reverse(true)

	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
	activeStyle = paneStyle.BorderForeground(lipgloss.Color("15")).Bold(true)
)

// View renders the list pane, the note pane and the instruction bar.
func (m *Model) View() string {
	bar := m.instructionBar()
	height := max(m.height-lipgloss.Height(bar), 3)
	listW := max(m.width*listShare/100, 8)
	noteW := max(m.width-listW, 8)

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.listPane(listW, height),
		m.notePane(noteW, height),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panes, bar)
}

func pane(active bool, width, height int, body string) string {
	st := paneStyle
	if active {
		st = activeStyle
	}
	return st.Width(width - 2).Height(height - 2).MaxHeight(height).Render(body)
}

func (m *Model) listPane(width, height int) string {
	inner := width - 2
	rows := height - 2
	var lines []string

	header := filepath.Base(m.svc.Root())
	lines = append(lines, titleStyle.Render(runewidth.Truncate(header, inner, "…")))
	if m.searching {
		match := "any"
		if m.matchAll {
			match = "all"
		}
		lines = append(lines, dimStyle.Render(match))
		lines = append(lines, renderRunes([]rune(m.search.String()), nil, m.searchCur.Col, 0, inner))
	}

	avail := max(rows-len(lines), 1)
	top := 0
	if m.selected >= avail {
		top = m.selected - avail + 1
	}
	for i := top; i < len(m.visible) && i < top+avail; i++ {
		name := runewidth.Truncate(displayTitle(m.visible[i].Title), inner, "…")
		if i == m.selected {
			name = selectedStyle.Render(runewidth.FillRight(name, inner))
		}
		lines = append(lines, name)
	}
	if len(m.visible) == 0 {
		lines = append(lines, dimStyle.Render("no notes"))
	}
	return pane(m.frame == frameList, width, height, strings.Join(lines, "\n"))
}

func (m *Model) notePane(width, height int) string {
	inner := width - 2
	rows := max(height-3, 1) // border and title line

	if m.session == nil {
		if len(m.visible) == 0 {
			return pane(false, width, height, "")
		}
		n := m.visible[m.selected]
		body := editor.FromText(n.Text)
		return pane(false, width, height, m.renderNote(n.Title, -1, body, -1, 0, inner, rows))
	}

	s := m.session
	titleCaret := -1
	bodyRow, bodyCol := s.Cursor().Row, s.Cursor().Col
	if s.Mode() == editor.EditTitle {
		titleCaret = s.TitleCursor().Col
		bodyRow = -1
	}
	return pane(true, width, height, m.renderNote(s.Title(), titleCaret, s.Buffer(), bodyRow, bodyCol, inner, rows))
}

// renderNote draws a centred title above the body. caretRow < 0 hides the
// body caret; titleCaret < 0 hides the title caret.
func (m *Model) renderNote(title string, titleCaret int, body *editor.Buffer, caretRow, caretCol, width, rows int) string {
	var titleLine string
	if titleCaret >= 0 {
		titleLine = renderRunes([]rune(title), nil, titleCaret, 0, width)
	} else {
		titleLine = titleStyle.Render(runewidth.Truncate(displayTitle(title), width, "…"))
	}
	lines := []string{lipgloss.PlaceHorizontal(width, lipgloss.Center, titleLine)}

	top := 0
	if caretRow >= rows {
		top = caretRow - rows + 1
	}
	hOff := 0
	if caretRow >= 0 && caretRow < body.LineCount() {
		hOff = scrollOffset(body.LineRunes(caretRow), caretCol, width)
	}
	for row := top; row < body.LineCount() && row < top+rows; row++ {
		runes := body.LineRunes(row)
		caret := -1
		if row == caretRow {
			caret = caretCol
		}
		lines = append(lines, renderRunes(runes, tagMask(runes), caret, hOff, width))
	}
	return strings.Join(lines, "\n")
}

func displayTitle(title string) string {
	if title == "" {
		return "(untitled)"
	}
	return title
}

// scrollOffset returns the first visible rune so that the caret at col fits
// in width cells.
func scrollOffset(runes []rune, col, width int) int {
	col = min(col, len(runes))
	off := 0
	for off < col && runewidth.StringWidth(string(runes[off:col]))+1 > width {
		off++
	}
	return off
}

// tagMask marks the runes that belong to a #tag token.
func tagMask(runes []rune) []bool {
	mask := make([]bool, len(runes))
	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		j := i
		for j < len(runes) && !unicode.IsSpace(runes[j]) {
			j++
		}
		if parser.IsTagToken(string(runes[i:j])) {
			for k := i; k < j; k++ {
				mask[k] = true
			}
		}
		i = j
	}
	return mask
}

type runeClass int

const (
	classText runeClass = iota
	classTag
	classCaret
	classPlain
)

func styleFor(c runeClass) lipgloss.Style {
	switch c {
	case classTag:
		return tagStyle
	case classCaret:
		return caretStyle
	case classText:
		return textStyle
	}
	return lipgloss.NewStyle()
}

// renderRunes styles runes[off:] into at most width cells. A nil mask
// renders unstyled text. caret < 0 draws no caret; a caret past the end is
// drawn on a blank cell.
func renderRunes(runes []rune, mask []bool, caret, off, width int) string {
	var sb strings.Builder
	var seg []rune
	segClass := classPlain
	flush := func() {
		if len(seg) > 0 {
			sb.WriteString(styleFor(segClass).Render(string(seg)))
			seg = seg[:0]
		}
	}

	used := 0
	for i := off; i < len(runes); i++ {
		w := runewidth.RuneWidth(runes[i])
		if used+w > width {
			break
		}
		used += w
		c := classPlain
		switch {
		case i == caret:
			c = classCaret
		case mask == nil:
		case mask[i]:
			c = classTag
		default:
			c = classText
		}
		if c != segClass {
			flush()
			segClass = c
		}
		seg = append(seg, runes[i])
	}
	flush()
	if caret >= len(runes) && used < width {
		sb.WriteString(caretStyle.Render(" "))
	}
	return sb.String()
}

func (m *Model) instructionBar() string {
	label, keys := m.barState()
	parts := []string{modeStyle.Render(label)}
	if m.status != "" {
		st := dimStyle
		if m.statusErr {
			st = errorStyle
		}
		parts = append(parts, st.Render(m.status))
	}
	parts = append(parts, m.help.View(keys))
	bar := strings.Join(parts, " ")
	if m.width > 0 {
		// The bar is already styled; cut on cells, not bytes.
		bar = ansi.Truncate(bar, m.width, "…")
	}
	return bar
}

func (m *Model) barState() (string, help.KeyMap) {
	if m.session != nil {
		switch m.session.Mode() {
		case editor.Insert:
			return editor.Insert.String(), m.keys.insert
		case editor.EditTitle:
			return editor.EditTitle.String(), m.keys.title
		default:
			return editor.Normal.String(), m.keys.normal
		}
	}
	if m.searching {
		return "SEARCH", m.keys.search
	}
	return "LIST", m.keys.list
}
