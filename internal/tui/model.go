// Package tui is the terminal front end: a note list beside the note being
// edited, driven by bubbletea.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/noter/internal/editor"
	"github.com/starford/noter/internal/models"
	"github.com/starford/noter/internal/noteservice"
	"github.com/starford/noter/internal/parser"
)

// OpenFunc opens the notes directory dir.
type OpenFunc func(dir string) (*noteservice.Service, error)

// Options configures a Model.
type Options struct {
	// Dir is the configured notes directory shown at start.
	Dir string
	// LocalDir is the directory Tab switches to from the list.
	LocalDir string
	Open     OpenFunc
	Logger   *slog.Logger
}

type frame int

const (
	frameList frame = iota
	frameNote
)

// notesChangedMsg reports that the watcher re-indexed a file.
type notesChangedMsg struct{}

// Model is the bubbletea model of the whole application.
type Model struct {
	ctx    context.Context
	opts   Options
	logger *slog.Logger
	keys   keyMaps
	help   help.Model

	svc       *noteservice.Service
	local     bool
	watching  bool
	stopWatch context.CancelFunc
	watchDone chan struct{}
	changes   chan struct{}
	// pendingReload is set when the directory changed while a note was open.
	pendingReload bool

	frame    frame
	visible  []*models.Note
	selected int

	searching bool
	matchAll  bool
	search    *editor.Field
	searchCur editor.Cursor

	session *editor.Session

	status    string
	statusErr bool
	width     int
	height    int
}

// New opens opts.Dir and returns a model showing its notes.
func New(ctx context.Context, opts Options) (*Model, error) {
	svc, err := opts.Open(opts.Dir)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		ctx:     ctx,
		opts:    opts,
		logger:  logger,
		keys:    defaultKeyMaps(),
		help:    help.New(),
		svc:     svc,
		changes: make(chan struct{}, 1),
		search:  editor.NewField(""),
		width:   80,
		height:  24,
	}
	m.refresh()
	return m, nil
}

// Init starts watching the notes directory.
func (m *Model) Init() tea.Cmd {
	m.watching = true
	m.startWatch()
	return waitForChange(m.changes)
}

// Close stops the watcher and releases the open directory.
func (m *Model) Close() error {
	m.stopWatcher()
	return m.svc.Close()
}

// stopWatcher cancels the watcher and waits for it to return, so the index
// is no longer in use once it comes back.
func (m *Model) stopWatcher() {
	if m.stopWatch == nil {
		return
	}
	m.stopWatch()
	<-m.watchDone
	m.stopWatch, m.watchDone = nil, nil
}

func (m *Model) startWatch() {
	m.stopWatcher()
	ctx, cancel := context.WithCancel(m.ctx)
	done := make(chan struct{})
	m.stopWatch, m.watchDone = cancel, done
	svc, ch, logger := m.svc, m.changes, m.logger
	go func() {
		defer close(done)
		err := svc.Watch(ctx, func(kind, path string) {
			logger.Debug("notes changed", slog.String("kind", kind), slog.String("path", path))
			select {
			case ch <- struct{}{}:
			default:
			}
		})
		if err != nil {
			logger.Warn("watcher failed", slog.String("path", svc.Root()), slog.String("error", err.Error()))
		}
	}()
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return notesChangedMsg{}
	}
}

// Update handles window, watcher and key messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case notesChangedMsg:
		// An open note keeps its buffer; the list catches up when it is closed.
		if m.frame == frameNote {
			m.pendingReload = true
		} else {
			m.reload()
			m.refresh()
		}
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.status, m.statusErr = "", false
		switch {
		case m.frame == frameNote:
			return m.updateNote(msg)
		case m.searching:
			return m.updateSearch(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.list.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.list.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.list.Open):
		m.openSelected()
	case key.Matches(msg, m.keys.list.New):
		m.openNote(&models.Note{})
	case key.Matches(msg, m.keys.list.Search):
		m.beginSearch("")
	case key.Matches(msg, m.keys.list.Toggle):
		m.toggleDir()
	case key.Matches(msg, m.keys.list.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.search.Up):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, m.keys.search.Down):
		m.moveSelection(1)
		return m, nil
	case key.Matches(msg, m.keys.search.Open):
		m.openSelected()
		return m, nil
	case key.Matches(msg, m.keys.search.Match):
		m.matchAll = !m.matchAll
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.search.Exit):
		m.searching = false
		m.search.Set("")
		m.searchCur.Reset()
		m.refresh()
		return m, nil
	}

	changed := false
	for _, k := range toKeys(msg) {
		m.searchCur.Clamp(m.search)
		switch {
		case k.Printable():
			m.search.InsertChar(m.searchCur.Col, k.Rune)
			m.searchCur.MoveRight(m.search)
			changed = true
		case k.Kind == editor.KeyBackspace:
			if m.searchCur.Col > 0 {
				m.search.DeleteCharBefore(m.searchCur.Col)
				m.searchCur.Col--
				changed = true
			}
		case k.Kind == editor.KeyLeft:
			m.searchCur.MoveLeft(m.search)
		case k.Kind == editor.KeyRight:
			m.searchCur.MoveRight(m.search)
		case k.Kind == editor.KeyHome:
			m.searchCur.MoveHome(m.search)
		case k.Kind == editor.KeyEnd:
			m.searchCur.MoveEnd(m.search)
		}
	}
	if changed {
		m.selected = 0
		m.refresh()
	}
	return m, nil
}

func (m *Model) updateNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for _, k := range toKeys(msg) {
		switch m.session.HandleKey(k) {
		case editor.ActionQuit:
			return m, tea.Quit
		case editor.ActionSave:
			m.save()
		case editor.ActionCommitTitle:
			m.commitTitle()
		case editor.ActionExitToList:
			m.closeNote()
			return m, nil
		case editor.ActionSearchTags:
			query := m.session.Note().TagQuery()
			m.closeNote()
			m.beginSearch(query)
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) save() {
	n := m.session.Note()
	if err := m.session.Save(m.svc); err != nil {
		m.fail("save", err)
		return
	}
	parser.Apply(n)
	m.setStatus(fmt.Sprintf("saved %q", n.Title))
}

func (m *Model) commitTitle() {
	n := m.session.Note()
	title := m.session.Title()
	if err := m.svc.CheckTitle(n, title); err != nil {
		m.fail("rename", err)
		return
	}
	created, err := m.session.CommitTitle(m.svc)
	if err != nil {
		m.fail("rename", err)
		return
	}
	parser.Apply(n)
	m.svc.Register(n)
	if created {
		m.setStatus(fmt.Sprintf("created %q", n.Title))
	} else {
		m.setStatus(fmt.Sprintf("renamed to %q", n.Title))
	}
}

func (m *Model) openSelected() {
	if len(m.visible) == 0 {
		return
	}
	m.openNote(m.visible[m.selected])
}

func (m *Model) openNote(n *models.Note) {
	m.session = editor.NewSession(n)
	m.frame = frameNote
}

func (m *Model) closeNote() {
	n := m.session.Note()
	m.session = nil
	m.frame = frameList
	if m.pendingReload {
		m.reload()
	}
	m.refresh()
	if i := slices.Index(m.visible, n); i >= 0 {
		m.selected = i
	}
}

func (m *Model) beginSearch(query string) {
	m.searching = true
	m.search.Set(query)
	m.searchCur.Reset()
	m.searchCur.MoveEnd(m.search)
	m.selected = 0
	m.refresh()
}

func (m *Model) toggleDir() {
	next := m.opts.LocalDir
	if m.local {
		next = m.opts.Dir
	}
	svc, err := m.opts.Open(next)
	if err != nil {
		m.fail("open", err)
		return
	}
	m.stopWatcher()
	if err := m.svc.Close(); err != nil {
		m.logger.Warn("close notes dir", slog.String("path", m.svc.Root()), slog.String("error", err.Error()))
	}
	m.svc = svc
	m.local = !m.local
	m.pendingReload = false
	m.selected = 0
	m.refresh()
	if m.watching {
		m.startWatch()
	}
	m.setStatus(svc.Root())
}

func (m *Model) reload() {
	m.pendingReload = false
	if err := m.svc.Reload(); err != nil {
		m.fail("reload", err)
	}
}

// refresh recomputes the visible list from the current search.
func (m *Model) refresh() {
	var current *models.Note
	if m.selected < len(m.visible) {
		current = m.visible[m.selected]
	}
	query := ""
	if m.searching {
		query = m.search.String()
	}
	notes, err := m.svc.Filter(query, m.matchAll)
	if err != nil {
		m.fail("search", err)
		notes = m.svc.Notes()
	}
	m.visible = notes
	if i := slices.Index(notes, current); current != nil && i >= 0 {
		m.selected = i
	}
	if m.selected >= len(notes) {
		m.selected = max(len(notes)-1, 0)
	}
}

// moveSelection moves through the visible list, wrapping at both ends.
func (m *Model) moveSelection(delta int) {
	n := len(m.visible)
	if n == 0 {
		return
	}
	m.selected = ((m.selected+delta)%n + n) % n
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) fail(op string, err error) {
	m.logger.Error(op+" failed", slog.String("error", err.Error()))
	m.status, m.statusErr = op+": "+err.Error(), true
}
