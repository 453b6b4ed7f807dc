package editor

// TextView is the read-only shape a Cursor moves over.
// Buffer and Field both satisfy it.
type TextView interface {
	LineCount() int
	LineLength(row int) int
	LineRunes(row int) []rune
}

// Cursor is a (row, column) position. Column may equal the line length,
// meaning "after the last character".
//
// Every movement saturates at the nearest legal position; none fails.
type Cursor struct {
	Row int
	Col int
}

// Reset moves the cursor to (0,0).
func (c *Cursor) Reset() {
	c.Row, c.Col = 0, 0
}

// Clamp pulls the cursor back inside v.
func (c *Cursor) Clamp(v TextView) {
	c.Row = clamp(c.Row, 0, v.LineCount()-1)
	c.Col = clamp(c.Col, 0, v.LineLength(c.Row))
}

// MoveLeft steps one column left. It never wraps to the previous line.
func (c *Cursor) MoveLeft(v TextView) {
	c.Clamp(v)
	if c.Col > 0 {
		c.Col--
	}
}

// MoveRight steps one column right, stopping at the line end. It never wraps.
func (c *Cursor) MoveRight(v TextView) {
	c.Clamp(v)
	if c.Col < v.LineLength(c.Row) {
		c.Col++
	}
}

// MoveUp steps one row up and returns to column 0. At row 0 nothing changes.
func (c *Cursor) MoveUp(v TextView) {
	c.Clamp(v)
	if c.Row > 0 {
		c.Row--
		c.Col = 0
	}
}

// MoveDown steps one row down. The column shrinks to the destination line
// length when it would overshoot; it never grows.
func (c *Cursor) MoveDown(v TextView) {
	c.Clamp(v)
	if c.Row < v.LineCount()-1 {
		c.Row++
		if n := v.LineLength(c.Row); c.Col > n {
			c.Col = n
		}
	}
}

// MoveHome jumps to column 0.
func (c *Cursor) MoveHome(v TextView) {
	c.Clamp(v)
	c.Col = 0
}

// MoveEnd jumps past the last character of the line.
func (c *Cursor) MoveEnd(v TextView) {
	c.Clamp(v)
	c.Col = v.LineLength(c.Row)
}

// MoveWordForward lands just after the next space following the cursor,
// or at the line end when there is none.
func (c *Cursor) MoveWordForward(v TextView) {
	c.Clamp(v)
	line := v.LineRunes(c.Row)
	if c.Col >= len(line) {
		return
	}
	for i := c.Col + 1; i < len(line); i++ {
		if line[i] == ' ' {
			c.Col = i + 1
			return
		}
	}
	c.Col = len(line)
}

// MoveWordBackward lands on the last space before the character preceding
// the cursor, or at column 0 when there is none.
func (c *Cursor) MoveWordBackward(v TextView) {
	c.Clamp(v)
	if c.Col == 0 {
		return
	}
	line := v.LineRunes(c.Row)
	for i := c.Col - 2; i >= 0; i-- {
		if line[i] == ' ' {
			c.Col = i
			return
		}
	}
	c.Col = 0
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
