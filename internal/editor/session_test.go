package editor

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/starford/noter/internal/models"
)

type recordingPersister struct {
	calls      []string
	persisted  map[string]string
	persistErr error
	removeErr  error
}

func newRecordingPersister() *recordingPersister {
	return &recordingPersister{persisted: make(map[string]string)}
}

func (p *recordingPersister) Persist(title, text string) error {
	p.calls = append(p.calls, "persist:"+title)
	if p.persistErr != nil {
		return p.persistErr
	}
	p.persisted[title] = text
	return nil
}

func (p *recordingPersister) Remove(title string) error {
	p.calls = append(p.calls, "remove:"+title)
	if p.removeErr != nil {
		return p.removeErr
	}
	delete(p.persisted, title)
	return nil
}

func press(s *Session, keys ...Key) Action {
	var last Action
	for _, k := range keys {
		last = s.HandleKey(k)
	}
	return last
}

func typeText(s *Session, text string) {
	for _, r := range text {
		s.HandleKey(Char(r))
	}
}

func TestNewSession_StartsNormalAtOrigin(t *testing.T) {
	s := NewSession(&models.Note{Title: "n", Text: "abc\ndef"})
	if s.Mode() != Normal {
		t.Errorf("mode = %s, want NORMAL", s.Mode())
	}
	if s.Cursor() != (Cursor{}) {
		t.Errorf("cursor = %+v, want (0,0)", s.Cursor())
	}
}

func TestInsert_EnterAtLineEnd(t *testing.T) {
	n := &models.Note{Title: "n", Text: "hello"}
	s := NewSession(n)
	press(s, Char('i'), Named(KeyEnd), Named(KeyEnter))

	assertLines(t, s.Buffer(), "hello", "")
	if s.Cursor() != (Cursor{Row: 1, Col: 0}) {
		t.Errorf("cursor = %+v, want (1,0)", s.Cursor())
	}
	if !n.Edited {
		t.Error("note should be marked edited")
	}
	if n.Text != "hello\n" {
		t.Errorf("note text = %q, want %q", n.Text, "hello\n")
	}
}

func TestInsert_KeepsInvalidUTF8(t *testing.T) {
	n := &models.Note{Title: "n", Text: "caf\xe9 ok"}
	s := NewSession(n)
	press(s, Char('i'), Named(KeyEnd))
	typeText(s, "!")

	if n.Text != "caf\xe9 ok!" {
		t.Errorf("note text = %q, want the original bytes kept", n.Text)
	}
	if s.Cursor() != (Cursor{Row: 0, Col: 7}) {
		t.Errorf("cursor = %+v, want (0,7)", s.Cursor())
	}
}

func TestInsert_EnterMidLine(t *testing.T) {
	s := NewSession(&models.Note{Text: "hello world"})
	press(s, Char('i'), Char('w'))
	s.cur = Cursor{Row: 0, Col: 6}
	press(s, Named(KeyEnter))
	assertLines(t, s.Buffer(), "whello", " world")
}

func TestInsert_BackspaceJoinsLines(t *testing.T) {
	n := &models.Note{Text: "foo\nbar"}
	s := NewSession(n)
	press(s, Char('i'), Named(KeyDown))
	if s.Cursor() != (Cursor{Row: 1, Col: 0}) {
		t.Fatalf("cursor = %+v, want (1,0)", s.Cursor())
	}
	press(s, Named(KeyBackspace))

	assertLines(t, s.Buffer(), "foobar")
	if s.Cursor() != (Cursor{Row: 0, Col: 3}) {
		t.Errorf("cursor = %+v, want (0,3)", s.Cursor())
	}
	if n.Text != "foobar" || !n.Edited {
		t.Errorf("note = %+v", n)
	}
}

func TestInsert_BackspaceAtOriginIsNoop(t *testing.T) {
	n := &models.Note{Text: ""}
	s := NewSession(n)
	press(s, Char('i'), Named(KeyBackspace))
	assertLines(t, s.Buffer(), "")
	if n.Edited {
		t.Error("no-op backspace must not mark the note edited")
	}
}

func TestInsert_BackspaceDeletesChar(t *testing.T) {
	s := NewSession(&models.Note{Text: "abc"})
	press(s, Char('i'), Named(KeyEnd), Named(KeyBackspace))
	assertLines(t, s.Buffer(), "ab")
	if s.Cursor().Col != 2 {
		t.Errorf("col = %d, want 2", s.Cursor().Col)
	}
}

func TestInsert_TypingAdvancesCursor(t *testing.T) {
	n := &models.Note{Text: ""}
	s := NewSession(n)
	press(s, Char('i'))
	typeText(s, "hi #go")
	if n.Text != "hi #go" {
		t.Errorf("text = %q", n.Text)
	}
	if s.Cursor().Col != 6 {
		t.Errorf("col = %d, want 6", s.Cursor().Col)
	}
	press(s, Named(KeyEsc))
	if s.Mode() != Normal {
		t.Errorf("mode = %s, want NORMAL", s.Mode())
	}
}

func TestNormal_CommandsDoNotEdit(t *testing.T) {
	n := &models.Note{Title: "t", Text: "the quick fox"}
	s := NewSession(n)
	press(s, Char('w'))
	if s.Cursor().Col != 4 {
		t.Errorf("w: col = %d, want 4", s.Cursor().Col)
	}
	press(s, Char('x'), Named(KeyBackspace), Named(KeyEnter))
	if n.Edited || n.Text != "the quick fox" {
		t.Errorf("normal mode mutated the note: %+v", n)
	}
}

func TestNormal_Actions(t *testing.T) {
	n := &models.Note{Title: "t", Text: "x"}
	s := NewSession(n)
	if a := s.HandleKey(Char('q')); a != ActionQuit {
		t.Errorf("q = %s", a)
	}
	if a := s.HandleKey(Named(KeyEsc)); a != ActionExitToList {
		t.Errorf("esc = %s", a)
	}
	if a := s.HandleKey(Char('T')); a != ActionSearchTags {
		t.Errorf("T = %s", a)
	}
	if a := s.HandleKey(Char('s')); a != ActionNone {
		t.Errorf("s on a clean note = %s, want none", a)
	}
	n.Edited = true
	if a := s.HandleKey(Char('s')); a != ActionSave {
		t.Errorf("s on an edited note = %s, want save", a)
	}
}

func TestEditTitle_EnterSnapshotsAndResets(t *testing.T) {
	n := &models.Note{Title: "draft", Text: "body"}
	s := NewSession(n)
	press(s, Char('t'))
	if s.Mode() != EditTitle {
		t.Fatalf("mode = %s, want TITLE", s.Mode())
	}
	if n.OldTitle != "draft" {
		t.Errorf("OldTitle = %q, want draft", n.OldTitle)
	}
	if s.TitleCursor().Col != 0 {
		t.Errorf("title col = %d, want 0", s.TitleCursor().Col)
	}
}

func TestEditTitle_TypingAndBackspace(t *testing.T) {
	n := &models.Note{Title: "ab", Text: "body"}
	s := NewSession(n)
	press(s, Char('t'), Named(KeyEnd), Char('c'), Named(KeyEnter))
	if n.Title != "abc" {
		t.Errorf("title = %q, want abc", n.Title)
	}
	press(s, Named(KeyHome), Named(KeyBackspace))
	if n.Title != "abc" {
		t.Errorf("backspace at column 0 changed title to %q", n.Title)
	}
	press(s, Named(KeyRight), Named(KeyBackspace))
	if n.Title != "bc" {
		t.Errorf("title = %q, want bc", n.Title)
	}
	if s.Buffer().Text() != "body" {
		t.Error("title editing must not touch the body")
	}
}

func TestEditTitle_EscCancels(t *testing.T) {
	n := &models.Note{Title: "keep", Text: "body"}
	s := NewSession(n)
	press(s, Char('t'))
	typeText(s, "zz")
	press(s, Named(KeyEsc))
	if s.Mode() != Normal {
		t.Errorf("mode = %s, want NORMAL", s.Mode())
	}
	if n.Title != "keep" || s.Title() != "keep" {
		t.Errorf("title = %q / %q, want keep", n.Title, s.Title())
	}
	if n.Edited {
		t.Error("cancel should restore the edited flag")
	}
}

func TestCommitTitle_RenameRemovesThenPersists(t *testing.T) {
	n := &models.Note{Title: "draft", Text: "some text"}
	s := NewSession(n)
	press(s, Char('t'))
	for i := 0; i < 5; i++ {
		press(s, Named(KeyRight))
	}
	for i := 0; i < 5; i++ {
		press(s, Named(KeyBackspace))
	}
	typeText(s, "final")
	if a := press(s, Named(KeyEnter)); a != ActionCommitTitle {
		t.Fatalf("enter = %s, want commit-title", a)
	}

	p := newRecordingPersister()
	created, err := s.CommitTitle(p)
	if err != nil {
		t.Fatalf("CommitTitle: %v", err)
	}
	if created {
		t.Error("rename should not report a new note")
	}
	want := []string{"remove:draft", "persist:final"}
	if len(p.calls) != len(want) || p.calls[0] != want[0] || p.calls[1] != want[1] {
		t.Fatalf("calls = %v, want %v", p.calls, want)
	}
	if p.persisted["final"] != "some text" {
		t.Errorf("persisted text = %q", p.persisted["final"])
	}
	if s.Mode() != Normal || n.Edited || n.Title != "final" {
		t.Errorf("after commit: mode=%s edited=%v title=%q", s.Mode(), n.Edited, n.Title)
	}
}

func TestCommitTitle_NewNotePersistsOnly(t *testing.T) {
	n := &models.Note{}
	s := NewSession(n)
	press(s, Char('t'))
	typeText(s, "fresh")
	p := newRecordingPersister()
	created, err := s.CommitTitle(p)
	if err != nil {
		t.Fatalf("CommitTitle: %v", err)
	}
	if !created {
		t.Error("note without old title should be reported as created")
	}
	if len(p.calls) != 1 || p.calls[0] != "persist:fresh" {
		t.Errorf("calls = %v", p.calls)
	}
}

func TestCommitTitle_FailureKeepsMode(t *testing.T) {
	n := &models.Note{Title: "a", Text: "x"}
	s := NewSession(n)
	press(s, Char('t'), Named(KeyEnd), Char('b'))
	p := newRecordingPersister()
	p.removeErr = errors.New("disk gone")

	if _, err := s.CommitTitle(p); err == nil {
		t.Fatal("expected error")
	}
	if s.Mode() != EditTitle {
		t.Errorf("mode = %s, want TITLE", s.Mode())
	}
	if !n.Edited {
		t.Error("edited must survive a failed commit")
	}
	if len(p.calls) != 1 {
		t.Errorf("persist must not run after a failed remove: %v", p.calls)
	}
}

func TestCommitTitle_WriteFailureRetriesAsNew(t *testing.T) {
	n := &models.Note{Title: "a", Text: "x"}
	s := NewSession(n)
	press(s, Char('t'), Named(KeyEnd), Char('b'))
	p := newRecordingPersister()
	p.persistErr = errors.New("read-only")
	if _, err := s.CommitTitle(p); err == nil {
		t.Fatal("expected error")
	}
	p.persistErr = nil
	p.calls = nil
	if _, err := s.CommitTitle(p); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(p.calls) != 1 || p.calls[0] != "persist:ab" {
		t.Errorf("retry calls = %v, want [persist:ab]", p.calls)
	}
}

func TestCommitTitle_OutsideEditTitleNoop(t *testing.T) {
	s := NewSession(&models.Note{Title: "a"})
	p := newRecordingPersister()
	if _, err := s.CommitTitle(p); err != nil {
		t.Fatal(err)
	}
	if len(p.calls) != 0 {
		t.Errorf("calls = %v", p.calls)
	}
}

func TestSave(t *testing.T) {
	n := &models.Note{Title: "n", Text: "a"}
	s := NewSession(n)
	p := newRecordingPersister()
	if err := s.Save(p); err != nil || len(p.calls) != 0 {
		t.Fatalf("clean save: err=%v calls=%v", err, p.calls)
	}
	press(s, Char('i'), Char('b'))
	p.persistErr = errors.New("boom")
	if err := s.Save(p); err == nil {
		t.Fatal("expected error")
	}
	if !n.Edited {
		t.Error("failed save must keep edited")
	}
	p.persistErr = nil
	if err := s.Save(p); err != nil {
		t.Fatal(err)
	}
	if n.Edited || p.persisted["n"] != "ba" {
		t.Errorf("edited=%v persisted=%q", n.Edited, p.persisted["n"])
	}
}

func TestRandomKeys_KeepCursorInBounds(t *testing.T) {
	keys := []Key{
		Char('i'), Char('a'), Char(' '), Char('w'), Char('b'), Char('é'),
		Named(KeyEnter), Named(KeyBackspace), Named(KeyBackspace),
		Named(KeyLeft), Named(KeyRight), Named(KeyUp), Named(KeyDown),
		Named(KeyHome), Named(KeyEnd), Named(KeyEsc),
	}
	rng := rand.New(rand.NewPCG(7, 11))
	for run := 0; run < 50; run++ {
		n := &models.Note{Title: "p", Text: "seed line\n\nthird one"}
		s := NewSession(n)
		for step := 0; step < 400; step++ {
			k := keys[rng.IntN(len(keys))]
			if k.Kind == KeyEsc && s.Mode() == Normal {
				continue
			}
			s.HandleKey(k)
			c := s.Cursor()
			b := s.Buffer()
			if c.Row < 0 || c.Row >= b.LineCount() || c.Col < 0 || c.Col > b.LineLength(c.Row) {
				t.Fatalf("run %d step %d: cursor %+v outside %q", run, step, c, b.Lines())
			}
			if got := FromText(b.Text()); !got.Equal(b) {
				t.Fatalf("run %d step %d: round trip mismatch", run, step)
			}
		}
	}
}
