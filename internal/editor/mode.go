package editor

// Mode gates how a key press is interpreted.
type Mode int

const (
	Normal Mode = iota
	Insert
	EditTitle
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "NORMAL"
	case Insert:
		return "INSERT"
	case EditTitle:
		return "TITLE"
	default:
		return "UNKNOWN"
	}
}

// Next returns the mode a key press leads to and whether the key is a
// transition at all. Leaving EditTitle through Enter is reported here but
// only takes effect once the title commit has been persisted.
//
//	Normal    -i-> Insert
//	Normal    -t-> EditTitle
//	Insert    -Esc-> Normal
//	EditTitle -Enter-> Normal (commit)
//	EditTitle -Esc-> Normal (cancel)
//
// Esc in Normal leaves the note altogether and is not a mode change.
func (m Mode) Next(k Key) (Mode, bool) {
	switch m {
	case Normal:
		switch {
		case k.IsChar('i'):
			return Insert, true
		case k.IsChar('t'):
			return EditTitle, true
		}
	case Insert:
		if k.Kind == KeyEsc {
			return Normal, true
		}
	case EditTitle:
		if k.Kind == KeyEnter || k.Kind == KeyEsc {
			return Normal, true
		}
	}
	return m, false
}
