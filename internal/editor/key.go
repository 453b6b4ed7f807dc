package editor

import "unicode"

// KeyKind names a key press the editor understands.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyEnter
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyEsc
	KeyTab
)

var keyNames = map[KeyKind]string{
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyEsc:       "esc",
	KeyTab:       "tab",
}

// Key is one discrete key press: a character or a named key.
type Key struct {
	Kind KeyKind
	Rune rune
}

// Char returns the key press for character r.
func Char(r rune) Key {
	return Key{Kind: KeyRune, Rune: r}
}

// Named returns the key press for a named key.
func Named(k KeyKind) Key {
	return Key{Kind: k}
}

// Printable reports whether the key inserts text.
func (k Key) Printable() bool {
	return k.Kind == KeyRune && unicode.IsPrint(k.Rune)
}

// IsChar reports whether the key is the character r.
func (k Key) IsChar(r rune) bool {
	return k.Kind == KeyRune && k.Rune == r
}

func (k Key) String() string {
	if k.Kind == KeyRune {
		return string(k.Rune)
	}
	if name, ok := keyNames[k.Kind]; ok {
		return name
	}
	return "unknown"
}
