package editor

import "testing"

func TestModeNext(t *testing.T) {
	tests := []struct {
		from Mode
		key  Key
		to   Mode
		ok   bool
	}{
		{Normal, Char('i'), Insert, true},
		{Normal, Char('t'), EditTitle, true},
		{Normal, Named(KeyEsc), Normal, false},
		{Normal, Char('x'), Normal, false},
		{Insert, Named(KeyEsc), Normal, true},
		{Insert, Char('i'), Insert, false},
		{Insert, Named(KeyEnter), Insert, false},
		{EditTitle, Named(KeyEnter), Normal, true},
		{EditTitle, Named(KeyEsc), Normal, true},
		{EditTitle, Char('t'), EditTitle, false},
	}
	for _, tt := range tests {
		to, ok := tt.from.Next(tt.key)
		if to != tt.to || ok != tt.ok {
			t.Errorf("%s.Next(%s) = (%s, %v), want (%s, %v)", tt.from, tt.key, to, ok, tt.to, tt.ok)
		}
	}
}

func TestKeyPrintable(t *testing.T) {
	if !Char('a').Printable() || !Char('é').Printable() || !Char(' ').Printable() {
		t.Error("letters and space should be printable")
	}
	if Char('\x07').Printable() {
		t.Error("control characters are not printable")
	}
	if Named(KeyEnter).Printable() {
		t.Error("named keys are not printable")
	}
}
