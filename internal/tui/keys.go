package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/noter/internal/editor"
)

// toKeys translates a terminal key event into editor key presses. Pasted
// text arrives as one event carrying several runes.
func toKeys(msg tea.KeyMsg) []editor.Key {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		keys := make([]editor.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			switch r {
			case '\n', '\r':
				keys = append(keys, editor.Named(editor.KeyEnter))
			case '\t':
				keys = append(keys, editor.Named(editor.KeyTab))
			default:
				keys = append(keys, editor.Char(r))
			}
		}
		return keys
	case tea.KeySpace:
		return []editor.Key{editor.Char(' ')}
	case tea.KeyEnter:
		return []editor.Key{editor.Named(editor.KeyEnter)}
	case tea.KeyBackspace:
		return []editor.Key{editor.Named(editor.KeyBackspace)}
	case tea.KeyLeft:
		return []editor.Key{editor.Named(editor.KeyLeft)}
	case tea.KeyRight:
		return []editor.Key{editor.Named(editor.KeyRight)}
	case tea.KeyUp:
		return []editor.Key{editor.Named(editor.KeyUp)}
	case tea.KeyDown:
		return []editor.Key{editor.Named(editor.KeyDown)}
	case tea.KeyHome:
		return []editor.Key{editor.Named(editor.KeyHome)}
	case tea.KeyEnd:
		return []editor.Key{editor.Named(editor.KeyEnd)}
	case tea.KeyEsc:
		return []editor.Key{editor.Named(editor.KeyEsc)}
	case tea.KeyTab:
		return []editor.Key{editor.Named(editor.KeyTab)}
	}
	return nil
}

type listKeyMap struct {
	Up, Down, Open, New, Search, Toggle, Quit key.Binding
}

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.New, k.Search, k.Toggle, k.Quit}
}

func (k listKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

type searchKeyMap struct {
	Up, Down, Open, Match, Exit key.Binding
}

func (k searchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Match, k.Exit}
}

func (k searchKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

type normalKeyMap struct {
	Insert, Title, Save, Tags, Words, Back, Quit key.Binding
}

func (k normalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Insert, k.Title, k.Save, k.Tags, k.Words, k.Back, k.Quit}
}

func (k normalKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

type insertKeyMap struct {
	Newline, Delete, Normal key.Binding
}

func (k insertKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Newline, k.Delete, k.Normal}
}

func (k insertKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

type titleKeyMap struct {
	Commit, Cancel key.Binding
}

func (k titleKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Commit, k.Cancel} }

func (k titleKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

type keyMaps struct {
	list   listKeyMap
	search searchKeyMap
	normal normalKeyMap
	insert insertKeyMap
	title  titleKeyMap
}

func defaultKeyMaps() keyMaps {
	up := key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up"))
	down := key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down"))
	open := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	return keyMaps{
		list: listKeyMap{
			Up:     up,
			Down:   down,
			Open:   open,
			New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
			Search: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search tags")),
			Toggle: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch dir")),
			Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		},
		search: searchKeyMap{
			Up:    up,
			Down:  down,
			Open:  open,
			Match: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "any/all")),
			Exit:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
		},
		normal: normalKeyMap{
			Insert: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "insert")),
			Title:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "title")),
			Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
			Tags:   key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "same tags")),
			Words:  key.NewBinding(key.WithKeys("w", "b"), key.WithHelp("w/b", "word")),
			Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "list")),
			Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		},
		insert: insertKeyMap{
			Newline: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "newline")),
			Delete:  key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
			Normal:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "normal")),
		},
		title: titleKeyMap{
			Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "rename")),
			Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		},
	}
}
