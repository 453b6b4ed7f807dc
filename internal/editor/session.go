package editor

import "github.com/starford/noter/internal/models"

// Action reports an effect of a key press that reaches beyond the note.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionSave
	ActionCommitTitle
	ActionExitToList
	ActionSearchTags
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionSave:
		return "save"
	case ActionCommitTitle:
		return "commit-title"
	case ActionExitToList:
		return "exit-to-list"
	case ActionSearchTags:
		return "search-tags"
	default:
		return "none"
	}
}

// Persister writes and removes note files by title.
type Persister interface {
	Persist(title, text string) error
	Remove(title string) error
}

// Session is the editing state of the active note: its buffer, title field,
// cursors and mode. It writes every mutation back to the note it was opened on.
type Session struct {
	note     *models.Note
	buf      *Buffer
	title    *Field
	cur      Cursor
	titleCur Cursor
	mode     Mode

	// editedBeforeTitle restores Edited when a title edit is cancelled.
	editedBeforeTitle bool
}

// NewSession activates n for editing: mode Normal, cursor at (0,0).
func NewSession(n *models.Note) *Session {
	return &Session{
		note:  n,
		buf:   FromText(n.Text),
		title: NewField(n.Title),
		mode:  Normal,
	}
}

// Note returns the note being edited.
func (s *Session) Note() *models.Note { return s.note }

// Mode returns the active mode.
func (s *Session) Mode() Mode { return s.mode }

// Buffer returns the text buffer. Callers must treat it as read-only.
func (s *Session) Buffer() *Buffer { return s.buf }

// Cursor returns the body cursor.
func (s *Session) Cursor() Cursor { return s.cur }

// TitleCursor returns the cursor over the title field.
func (s *Session) TitleCursor() Cursor { return s.titleCur }

// Title returns the title as currently typed.
func (s *Session) Title() string { return s.title.String() }

// HandleKey interprets k in the current mode, mutating the buffer, title and
// cursors as needed. Effects outside the note are returned as an Action.
func (s *Session) HandleKey(k Key) Action {
	switch s.mode {
	case Normal:
		return s.handleNormal(k)
	case Insert:
		return s.handleInsert(k)
	case EditTitle:
		return s.handleTitle(k)
	}
	return ActionNone
}

func (s *Session) handleNormal(k Key) Action {
	if next, ok := s.mode.Next(k); ok {
		if next == EditTitle {
			s.beginTitle()
		}
		s.mode = next
		return ActionNone
	}
	switch {
	case k.IsChar('q'):
		return ActionQuit
	case k.IsChar('s'):
		if s.note.Edited {
			return ActionSave
		}
	case k.IsChar('T'):
		return ActionSearchTags
	case k.IsChar('w'):
		s.cur.MoveWordForward(s.buf)
	case k.IsChar('b'):
		s.cur.MoveWordBackward(s.buf)
	case k.Kind == KeyEsc:
		return ActionExitToList
	default:
		s.moveBody(k)
	}
	return ActionNone
}

func (s *Session) handleInsert(k Key) Action {
	if next, ok := s.mode.Next(k); ok {
		s.mode = next
		return ActionNone
	}
	switch {
	case k.Kind == KeyEnter:
		s.cur.Clamp(s.buf)
		s.buf.SplitLine(s.cur.Row, s.cur.Col)
		s.cur.Row++
		s.cur.Col = 0
		s.touchBody()
	case k.Kind == KeyBackspace:
		s.backspace()
	case k.Printable():
		s.cur.Clamp(s.buf)
		s.buf.InsertChar(s.cur.Row, s.cur.Col, k.Rune)
		s.cur.MoveRight(s.buf)
		s.touchBody()
	default:
		s.moveBody(k)
	}
	return ActionNone
}

func (s *Session) backspace() {
	s.cur.Clamp(s.buf)
	switch {
	case s.cur.Col > 0:
		s.buf.DeleteCharBefore(s.cur.Row, s.cur.Col)
		s.cur.Col--
	case s.cur.Row > 0:
		s.cur.Col = s.buf.JoinLineWithPrevious(s.cur.Row)
		s.cur.Row--
	default:
		return
	}
	s.touchBody()
}

func (s *Session) handleTitle(k Key) Action {
	switch {
	case k.Kind == KeyEnter:
		return ActionCommitTitle
	case k.Kind == KeyEsc:
		s.cancelTitle()
	case k.Kind == KeyBackspace:
		s.titleCur.Clamp(s.title)
		if s.titleCur.Col > 0 {
			s.title.DeleteCharBefore(s.titleCur.Col)
			s.titleCur.Col--
			s.touchTitle()
		}
	case k.Printable():
		s.titleCur.Clamp(s.title)
		s.title.InsertChar(s.titleCur.Col, k.Rune)
		s.titleCur.MoveRight(s.title)
		s.touchTitle()
	case k.Kind == KeyLeft:
		s.titleCur.MoveLeft(s.title)
	case k.Kind == KeyRight:
		s.titleCur.MoveRight(s.title)
	case k.Kind == KeyHome:
		s.titleCur.MoveHome(s.title)
	case k.Kind == KeyEnd:
		s.titleCur.MoveEnd(s.title)
	}
	return ActionNone
}

func (s *Session) moveBody(k Key) {
	switch k.Kind {
	case KeyLeft:
		s.cur.MoveLeft(s.buf)
	case KeyRight:
		s.cur.MoveRight(s.buf)
	case KeyUp:
		s.cur.MoveUp(s.buf)
	case KeyDown:
		s.cur.MoveDown(s.buf)
	case KeyHome:
		s.cur.MoveHome(s.buf)
	case KeyEnd:
		s.cur.MoveEnd(s.buf)
	}
}

func (s *Session) beginTitle() {
	s.note.OldTitle = s.note.Title
	s.editedBeforeTitle = s.note.Edited
	s.titleCur.Reset()
}

func (s *Session) cancelTitle() {
	s.title.Set(s.note.OldTitle)
	s.note.Title = s.note.OldTitle
	s.note.Edited = s.editedBeforeTitle
	s.titleCur.Reset()
	s.mode = Normal
}

func (s *Session) touchBody() {
	s.note.Text = s.buf.Text()
	s.note.Edited = true
}

func (s *Session) touchTitle() {
	s.note.Title = s.title.String()
	s.note.Edited = true
}

// CommitTitle persists a finished title edit. A note whose OldTitle is empty
// has never been stored and is persisted as new (created is true); otherwise
// the file under OldTitle is removed before the note is written under its new
// title. Only a fully persisted commit returns the session to Normal and
// clears Edited.
func (s *Session) CommitTitle(p Persister) (created bool, err error) {
	if s.mode != EditTitle {
		return false, nil
	}
	title := s.title.String()
	if s.note.OldTitle == "" {
		if err := p.Persist(title, s.note.Text); err != nil {
			return false, err
		}
		created = true
	} else {
		if err := p.Remove(s.note.OldTitle); err != nil {
			return false, err
		}
		// The old file is gone; a retry after a failed write starts from scratch.
		s.note.OldTitle = ""
		if err := p.Persist(title, s.note.Text); err != nil {
			return false, err
		}
	}
	s.note.Title = title
	s.note.OldTitle = ""
	s.note.Edited = false
	s.mode = Normal
	s.titleCur.Reset()
	s.cur.Clamp(s.buf)
	s.cur.Col = 0
	return created, nil
}

// Save persists the note under its current title when it has unsaved edits.
func (s *Session) Save(p Persister) error {
	if !s.note.Edited {
		return nil
	}
	if err := p.Persist(s.note.Title, s.note.Text); err != nil {
		return err
	}
	s.note.Edited = false
	return nil
}
