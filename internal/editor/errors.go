package editor

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds marks a row or column outside the current buffer shape.
// It is raised with panic: reaching it means a caller skipped cursor clamping.
var ErrOutOfBounds = errors.New("editor: position out of bounds")

// OutOfBoundsError describes the offending access.
type OutOfBoundsError struct {
	Op  string
	Row int
	Col int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("editor: %s: position (%d,%d) out of bounds", e.Op, e.Row, e.Col)
}

// Unwrap lets errors.Is match ErrOutOfBounds.
func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}

func outOfBounds(op string, row, col int) {
	panic(&OutOfBoundsError{Op: op, Row: row, Col: col})
}
