package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/starford/noter/internal/editor"
	"github.com/starford/noter/internal/noteservice"
	"github.com/starford/noter/internal/testutil"
)

func openFunc(t *testing.T) OpenFunc {
	t.Helper()
	return func(dir string) (*noteservice.Service, error) {
		return noteservice.Open(dir, "", testutil.Logger())
	}
}

func newTestModel(t *testing.T, notes map[string]string) (*Model, string) {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteNotes(t, dir, notes)
	m, err := New(context.Background(), Options{
		Dir:      dir,
		LocalDir: filepath.Join(t.TempDir(), "local"),
		Open:     openFunc(t),
		Logger:   testutil.Logger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m, dir
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func keyOf(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func send(t *testing.T, m *Model, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeText(t *testing.T, m *Model, s string) {
	t.Helper()
	for _, r := range s {
		if r == ' ' {
			send(t, m, keyOf(tea.KeySpace))
			continue
		}
		send(t, m, runes(string(r)))
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func visibleTitles(m *Model) []string {
	out := make([]string, len(m.visible))
	for i, n := range m.visible {
		out[i] = n.Title
	}
	return out
}

func readNote(t *testing.T, dir, title string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, title+".md"))
	if err != nil {
		t.Fatalf("read %s: %v", title, err)
	}
	return string(data)
}

func TestList_SelectionWraps(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"a": "", "b": "", "c": ""})

	send(t, m, keyOf(tea.KeyUp))
	if m.selected != 2 {
		t.Fatalf("up from top: selected = %d, want 2", m.selected)
	}
	send(t, m, keyOf(tea.KeyDown))
	if m.selected != 0 {
		t.Fatalf("down from bottom: selected = %d, want 0", m.selected)
	}
}

func TestList_Quit(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if !isQuit(send(t, m, runes("q"))) {
		t.Fatal("q in list should quit")
	}
}

func TestNote_EditAndSave(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"todo": "milk"})

	send(t, m, keyOf(tea.KeyEnter))
	if m.frame != frameNote || m.session.Mode() != editor.Normal {
		t.Fatalf("expected note frame in Normal mode")
	}
	send(t, m, runes("i"))
	typeText(t, m, "buy ")
	send(t, m, keyOf(tea.KeyEsc), runes("s"))

	if got := readNote(t, dir, "todo"); got != "buy milk" {
		t.Fatalf("saved text = %q", got)
	}
	if m.session.Note().Edited {
		t.Error("note still marked edited after save")
	}
	if m.statusErr {
		t.Errorf("unexpected error status %q", m.status)
	}
}

func TestNote_DraftLifecycle(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"other": ""})

	send(t, m, runes("n"), runes("i"))
	typeText(t, m, "hello #draft")
	send(t, m, keyOf(tea.KeyEsc), runes("s"))
	if !m.statusErr || !strings.Contains(m.status, "invalid title") {
		t.Fatalf("saving an untitled draft should fail, status = %q", m.status)
	}

	send(t, m, runes("t"))
	typeText(t, m, "fresh")
	send(t, m, keyOf(tea.KeyEnter))
	if m.session.Mode() != editor.Normal {
		t.Fatalf("commit failed: %q", m.status)
	}
	if got := readNote(t, dir, "fresh"); got != "hello #draft" {
		t.Fatalf("draft file = %q", got)
	}
	if !m.session.Note().HasTag("draft") {
		t.Error("tags not re-derived after commit")
	}

	send(t, m, keyOf(tea.KeyEsc))
	if m.frame != frameList {
		t.Fatal("esc should return to list")
	}
	if got := visibleTitles(m); len(got) != 2 || got[m.selected] != "fresh" {
		t.Errorf("list = %v selected %d", got, m.selected)
	}
}

func TestNote_DraftDiscardedOnExit(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"a": ""})
	send(t, m, runes("n"), runes("i"))
	typeText(t, m, "scratch")
	send(t, m, keyOf(tea.KeyEsc), keyOf(tea.KeyEsc))
	if got := visibleTitles(m); len(got) != 1 {
		t.Errorf("uncommitted draft leaked into list: %v", got)
	}
}

func TestNote_RenameCollisionKeepsTitleMode(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"a": "one", "b": "two"})

	send(t, m, keyOf(tea.KeyEnter), runes("t"), keyOf(tea.KeyEnd), keyOf(tea.KeyBackspace), runes("b"), keyOf(tea.KeyEnter))
	if m.session.Mode() != editor.EditTitle {
		t.Fatalf("mode = %v, want EditTitle after collision", m.session.Mode())
	}
	if !m.statusErr {
		t.Error("expected error status")
	}
	if readNote(t, dir, "a") != "one" || readNote(t, dir, "b") != "two" {
		t.Error("files changed by failed rename")
	}

	send(t, m, keyOf(tea.KeyEsc))
	if m.session.Mode() != editor.Normal || m.session.Note().Title != "a" {
		t.Errorf("cancel: mode %v title %q", m.session.Mode(), m.session.Note().Title)
	}
}

func TestNote_Rename(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"a": "one"})

	send(t, m, keyOf(tea.KeyEnter), runes("t"), keyOf(tea.KeyEnd))
	typeText(t, m, "bc")
	send(t, m, keyOf(tea.KeyEnter))

	if _, err := os.Stat(filepath.Join(dir, "a.md")); !errors.Is(err, os.ErrNotExist) {
		t.Error("old file should be removed")
	}
	if readNote(t, dir, "abc") != "one" {
		t.Error("renamed file missing")
	}
}

func TestNote_QuitFromNormal(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"a": ""})
	send(t, m, keyOf(tea.KeyEnter))
	if !isQuit(send(t, m, runes("q"))) {
		t.Fatal("q in Normal mode should quit")
	}
}

func TestSearch_FilterAndMatchMode(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{
		"a": "#go #work",
		"b": "#go",
		"c": "#home",
	})

	send(t, m, runes("s"))
	typeText(t, m, "go work")
	if got := visibleTitles(m); strings.Join(got, ",") != "a,b" {
		t.Fatalf("any match = %v", got)
	}
	send(t, m, keyOf(tea.KeyTab))
	if got := visibleTitles(m); strings.Join(got, ",") != "a" {
		t.Fatalf("all match = %v", got)
	}
	send(t, m, runes("q"))
	if isQuit(send(t, m, keyOf(tea.KeyBackspace))) || m.search.String() != "go work" {
		t.Fatalf("search text = %q", m.search.String())
	}

	send(t, m, keyOf(tea.KeyEsc))
	if m.searching || len(m.visible) != 3 {
		t.Errorf("leaving search: searching=%v visible=%v", m.searching, visibleTitles(m))
	}
}

func TestSearch_FromNoteTags(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{
		"a": "#home",
		"b": "#go",
		"c": "#home #garden",
	})

	send(t, m, keyOf(tea.KeyEnter))
	if m.session.Note().Title != "a" {
		t.Fatalf("opened %q", m.session.Note().Title)
	}
	send(t, m, runes("T"))
	if m.frame != frameList || !m.searching {
		t.Fatal("T should open the search")
	}
	if m.search.String() != "home" {
		t.Errorf("search prefilled with %q", m.search.String())
	}
	if got := visibleTitles(m); strings.Join(got, ",") != "a,c" {
		t.Errorf("visible = %v", got)
	}
	send(t, m, keyOf(tea.KeyDown), keyOf(tea.KeyEnter))
	if m.frame != frameNote || m.session.Note().Title != "c" {
		t.Error("enter in search should open the selected note")
	}
}

func TestToggleDir(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"a": ""})

	send(t, m, keyOf(tea.KeyTab))
	if !m.local || len(m.visible) != 0 {
		t.Fatalf("local dir: local=%v visible=%v", m.local, visibleTitles(m))
	}
	if _, err := os.Stat(m.opts.LocalDir); err != nil {
		t.Fatalf("local dir not created: %v", err)
	}
	send(t, m, keyOf(tea.KeyTab))
	if m.local || m.svc.Root() != mustAbs(t, dir) {
		t.Fatalf("back to configured dir: root = %s", m.svc.Root())
	}
}

func mustAbs(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	if err != nil {
		t.Fatal(err)
	}
	return abs
}

func TestNotesChanged_ReloadsList(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"a": ""})
	testutil.WriteNotes(t, dir, map[string]string{"b": "#new"})

	if cmd := send(t, m, notesChangedMsg{}); cmd == nil {
		t.Fatal("watcher wait should be re-armed")
	}
	if got := visibleTitles(m); strings.Join(got, ",") != "a,b" {
		t.Errorf("visible after reload = %v", got)
	}
}

func TestNotesChanged_IgnoredWhileEditing(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"a": "mine"})
	send(t, m, keyOf(tea.KeyEnter), runes("i"), runes("x"))
	testutil.WriteNotes(t, dir, map[string]string{"a": "theirs"})

	send(t, m, notesChangedMsg{})
	if m.session.Note().Text != "xmine" {
		t.Errorf("open note changed under the editor: %q", m.session.Note().Text)
	}
}

func TestNotesChanged_AppliedWhenNoteCloses(t *testing.T) {
	m, dir := newTestModel(t, map[string]string{"a": "mine"})
	send(t, m, keyOf(tea.KeyEnter), runes("i"), runes("x"))
	testutil.WriteNotes(t, dir, map[string]string{"b": "#new"})

	send(t, m, notesChangedMsg{})
	if got := visibleTitles(m); strings.Join(got, ",") != "a" {
		t.Fatalf("list changed while editing: %v", got)
	}

	send(t, m, keyOf(tea.KeyEsc), keyOf(tea.KeyEsc))
	if m.frame != frameList {
		t.Fatalf("frame = %v, want list", m.frame)
	}
	if got := visibleTitles(m); strings.Join(got, ",") != "a,b" {
		t.Errorf("visible after closing = %v, want a,b", got)
	}
	if m.pendingReload {
		t.Error("pending reload not cleared")
	}
	n, err := m.svc.Get("a")
	if err != nil || n.Text != "xmine" {
		t.Errorf("unsaved edit lost on reload: %v %+v", err, n)
	}
}

func TestView_RendersPanes(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"alpha": "some #tag text"})
	send(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})

	v := m.View()
	for _, want := range []string{"alpha", "some", "#tag", "LIST"} {
		if !strings.Contains(v, want) {
			t.Errorf("list view missing %q", want)
		}
	}

	send(t, m, keyOf(tea.KeyEnter), runes("i"))
	if v := m.View(); !strings.Contains(v, "INSERT") {
		t.Error("insert mode not shown in instruction bar")
	}
}

func TestInstructionBar_FitsWidth(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"alpha": "text"})
	send(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})

	if w := ansi.StringWidth(m.instructionBar()); w > 20 {
		t.Errorf("instruction bar width = %d, want <= 20", w)
	}
}

func TestToggleDir_StopsWatcherBeforeClosing(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"a": ""})
	m.Init()
	old := m.watchDone
	if old == nil {
		t.Fatal("watcher not started")
	}

	send(t, m, keyOf(tea.KeyTab))
	if !m.local {
		t.Fatalf("toggle failed: %s", m.status)
	}
	select {
	case <-old:
	default:
		t.Fatal("previous watcher still running after toggle")
	}
	if m.watchDone == nil || m.watchDone == old {
		t.Error("watcher not restarted on the new directory")
	}
}
