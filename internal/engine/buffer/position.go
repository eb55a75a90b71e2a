package buffer

import "fmt"

// Position represents a location in a document.
// Both Line and Column are 1-based.
// Column is measured in UTF-16 code units from the start of the line,
// so a code point outside the Basic Multilingual Plane advances the
// column by two. This matches the addressing convention used by
// editor selection and display layers.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column (UTF-16 code units)
}

// NewPosition creates a new Position.
func NewPosition(line, column int) Position {
	return Position{Line: line, Column: column}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Equals returns true if both positions are identical.
func (p Position) Equals(other Position) bool {
	return p.Line == other.Line && p.Column == other.Column
}

// IsValid returns true if the position has 1-based coordinates.
func (p Position) IsValid() bool {
	return p.Line >= 1 && p.Column >= 1
}
