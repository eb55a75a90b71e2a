package buffer

import "fmt"

// Range represents a span of a document between two positions.
// A Range is always normalized so that its start position is not
// after its end position. A range whose start equals its end denotes
// an insertion point.
type Range struct {
	StartLine   int // 1-based line of the start position
	StartColumn int // 1-based column of the start position (UTF-16 code units)
	EndLine     int // 1-based line of the end position
	EndColumn   int // 1-based column of the end position (UTF-16 code units)
}

// NewRange creates a normalized range from four coordinates.
// If the given start position is after the given end position the two
// are swapped. Callers submit semantic "from/to" pairs, not pre-sorted
// ones, so swapping beats rejecting.
func NewRange(startLine, startColumn, endLine, endColumn int) Range {
	if startLine > endLine || (startLine == endLine && startColumn > endColumn) {
		return Range{
			StartLine:   endLine,
			StartColumn: endColumn,
			EndLine:     startLine,
			EndColumn:   startColumn,
		}
	}
	return Range{
		StartLine:   startLine,
		StartColumn: startColumn,
		EndLine:     endLine,
		EndColumn:   endColumn,
	}
}

// RangeFromPositions creates a normalized range between two positions.
func RangeFromPositions(start, end Position) Range {
	return NewRange(start.Line, start.Column, end.Line, end.Column)
}

// EmptyRangeAt returns the zero-length range at the given position.
func EmptyRangeAt(p Position) Range {
	return Range{StartLine: p.Line, StartColumn: p.Column, EndLine: p.Line, EndColumn: p.Column}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d -> %d,%d]", r.StartLine, r.StartColumn, r.EndLine, r.EndColumn)
}

// Start returns the start position of the range.
func (r Range) Start() Position {
	return Position{Line: r.StartLine, Column: r.StartColumn}
}

// End returns the end position of the range.
func (r Range) End() Position {
	return Position{Line: r.EndLine, Column: r.EndColumn}
}

// IsEmpty returns true if the range has zero length (start == end).
func (r Range) IsEmpty() bool {
	return r.StartLine == r.EndLine && r.StartColumn == r.EndColumn
}

// IsSingleLine returns true if the range starts and ends on one line.
func (r Range) IsSingleLine() bool {
	return r.StartLine == r.EndLine
}

// ContainsPosition returns true if the position lies within the range,
// boundaries included.
func (r Range) ContainsPosition(p Position) bool {
	return p.Compare(r.Start()) >= 0 && p.Compare(r.End()) <= 0
}

// ContainsRange returns true if other lies entirely within this range,
// boundaries included.
func (r Range) ContainsRange(other Range) bool {
	return other.Start().Compare(r.Start()) >= 0 && other.End().Compare(r.End()) <= 0
}

// Intersects returns true if the two ranges share at least one
// position strictly between their boundaries. Ranges that merely
// touch (one's end equals the other's start) do not intersect.
func (r Range) Intersects(other Range) bool {
	return r.Start().Compare(other.End()) < 0 && other.Start().Compare(r.End()) < 0
}

// IntersectsOrTouches returns true if the ranges intersect or share a
// boundary position.
func (r Range) IntersectsOrTouches(other Range) bool {
	return r.Start().Compare(other.End()) <= 0 && other.Start().Compare(r.End()) <= 0
}

// PlusRange returns the smallest range covering both ranges.
func (r Range) PlusRange(other Range) Range {
	start := r.Start()
	if other.Start().Before(start) {
		start = other.Start()
	}
	end := r.End()
	if other.End().After(end) {
		end = other.End()
	}
	return RangeFromPositions(start, end)
}

// CollapseToStart returns the empty range at this range's start.
func (r Range) CollapseToStart() Range {
	return EmptyRangeAt(r.Start())
}
