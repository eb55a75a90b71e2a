package buffer

import (
	"errors"
	"strings"
)

// Errors returned by buffer operations.
var (
	// ErrInvalidRange indicates malformed or out-of-bounds coordinates
	// that could not be corrected by clamping.
	ErrInvalidRange = errors.New("invalid range")

	// ErrOverlappingEdits indicates a batch with truly overlapping
	// (not merely touching) edit ranges. The whole batch is rejected.
	ErrOverlappingEdits = errors.New("overlapping edit operations")
)

// Buffer owns the authoritative line-array representation of a
// document. It exposes offset/position conversion, validation, search
// and batch edit application.
//
// A Buffer is a pure transform over its line array: it holds no
// subscriber state, so it can be reasoned about without regard to
// reentrancy. The observable layer lives in the model package.
type Buffer struct {
	lines []string
	eol   LineEnding
}

// NewBuffer creates a buffer from a parsed text source.
// The source's line array is copied; the source stays immutable.
func NewBuffer(src *TextSource) *Buffer {
	lines := make([]string, len(src.Lines))
	copy(lines, src.Lines)
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &Buffer{lines: lines, eol: src.EOL}
}

// NewBufferFromString creates a buffer directly from raw text.
func NewBufferFromString(text string, defaultEOL LineEnding) *Buffer {
	return NewBuffer(NewTextSource(text, defaultEOL))
}

// Read Operations

// LineCount returns the number of lines. Always at least 1.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the content of a line (1-based, without terminator).
func (b *Buffer) Line(lineNumber int) (string, error) {
	if lineNumber < 1 || lineNumber > len(b.lines) {
		return "", ErrInvalidRange
	}
	return b.lines[lineNumber-1], nil
}

// Lines returns a copy of the full line array.
func (b *Buffer) Lines() []string {
	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	return lines
}

// LineLength returns the length of a line in UTF-16 code units.
func (b *Buffer) LineLength(lineNumber int) (int, error) {
	line, err := b.Line(lineNumber)
	if err != nil {
		return 0, err
	}
	return UTF16Length(line), nil
}

// LastLineLength returns the length of the final line in UTF-16 code
// units.
func (b *Buffer) LastLineLength() int {
	return UTF16Length(b.lines[len(b.lines)-1])
}

// EOL returns the line ending style in effect for serialization.
func (b *Buffer) EOL() LineEnding {
	return b.eol
}

// SetEOL changes the serialization line ending. In-memory line
// splitting is untouched; only Value output changes.
func (b *Buffer) SetEOL(eol LineEnding) {
	b.eol = eol
}

// Value returns the full document content joined with the buffer's
// line ending.
func (b *Buffer) Value() string {
	return strings.Join(b.lines, b.eol.Sequence())
}

// ValueInRange returns the text spanned by the range, clamped to
// document bounds.
func (b *Buffer) ValueInRange(r Range) string {
	return b.valueInRange(b.ValidateRange(r))
}

// valueInRange assumes a validated range.
func (b *Buffer) valueInRange(r Range) string {
	startLine := b.lines[r.StartLine-1]
	if r.IsSingleLine() {
		return startLine[ByteIndexForColumn(startLine, r.StartColumn):ByteIndexForColumn(startLine, r.EndColumn)]
	}

	eol := b.eol.Sequence()
	var sb strings.Builder
	sb.WriteString(startLine[ByteIndexForColumn(startLine, r.StartColumn):])
	for line := r.StartLine + 1; line < r.EndLine; line++ {
		sb.WriteString(eol)
		sb.WriteString(b.lines[line-1])
	}
	endLine := b.lines[r.EndLine-1]
	sb.WriteString(eol)
	sb.WriteString(endLine[:ByteIndexForColumn(endLine, r.EndColumn)])
	return sb.String()
}

// Validation

// ValidatePosition clamps a position to document bounds.
func (b *Buffer) ValidatePosition(p Position) Position {
	if p.Line < 1 {
		return Position{Line: 1, Column: 1}
	}
	if p.Line > len(b.lines) {
		last := len(b.lines)
		return Position{Line: last, Column: UTF16Length(b.lines[last-1]) + 1}
	}
	if p.Column < 1 {
		return Position{Line: p.Line, Column: 1}
	}
	if maxColumn := UTF16Length(b.lines[p.Line-1]) + 1; p.Column > maxColumn {
		return Position{Line: p.Line, Column: maxColumn}
	}
	return p
}

// ValidateRange clamps a range to document bounds and normalizes it so
// that start <= end.
func (b *Buffer) ValidateRange(r Range) Range {
	start := b.ValidatePosition(r.Start())
	end := b.ValidatePosition(r.End())
	return RangeFromPositions(start, end)
}

// Offset Conversion
//
// Absolute offsets count UTF-16 code units from the start of the
// document. Each line break contributes the length of the buffer's
// line ending sequence (1 for LF, 2 for CRLF).

// OffsetAt converts a position to an absolute offset.
// The position is validated first.
func (b *Buffer) OffsetAt(p Position) int {
	p = b.ValidatePosition(p)
	eolLen := len(b.eol.Sequence())
	offset := 0
	for line := 1; line < p.Line; line++ {
		offset += UTF16Length(b.lines[line-1]) + eolLen
	}
	return offset + p.Column - 1
}

// PositionAt converts an absolute offset to a position.
// Offsets beyond the end of the document clamp to the final position.
func (b *Buffer) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	eolLen := len(b.eol.Sequence())
	for line := 1; line <= len(b.lines); line++ {
		lineLen := UTF16Length(b.lines[line-1])
		if offset <= lineLen || line == len(b.lines) {
			if offset > lineLen {
				offset = lineLen
			}
			return Position{Line: line, Column: offset + 1}
		}
		offset -= lineLen + eolLen
		if offset < 0 {
			// Offset pointed inside the line break.
			return Position{Line: line, Column: lineLen + 1}
		}
	}
	// Unreachable: the loop always returns on the last line.
	return Position{Line: len(b.lines), Column: b.LastLineLength() + 1}
}

// UTF-16 Helpers

// UTF16Length returns the number of UTF-16 code units needed to
// encode s.
func UTF16Length(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// ByteIndexForColumn converts a 1-based UTF-16 column to a byte index
// within line. Columns past the end of the line clamp to len(line);
// a column landing between the two halves of a surrogate pair snaps
// back to the start of the pair.
func ByteIndexForColumn(line string, column int) int {
	target := column - 1
	if target <= 0 {
		return 0
	}
	acc := 0
	for i, r := range line {
		if acc == target {
			return i
		}
		w := 1
		if r >= 0x10000 {
			w = 2
		}
		if acc+w > target {
			// Column lands between the halves of a surrogate pair.
			return i
		}
		acc += w
	}
	return len(line)
}

// ColumnForByteIndex converts a byte index within line to a 1-based
// UTF-16 column.
func ColumnForByteIndex(line string, index int) int {
	if index > len(line) {
		index = len(line)
	}
	return UTF16Length(line[:index]) + 1
}
