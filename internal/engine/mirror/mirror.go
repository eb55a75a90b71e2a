package mirror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/textmodel/internal/engine/buffer"
	"github.com/dshills/textmodel/internal/engine/model"
)

// ErrVersionMismatch indicates an event whose version does not
// immediately follow the mirror's. It means events were dropped or
// reordered upstream: a delivery bug, not a recoverable runtime
// condition.
var ErrVersionMismatch = errors.New("content change event out of sequence")

// Model is the event-driven replica. It is never edited directly;
// its lifetime and mutation are driven solely by incoming events.
type Model struct {
	lines     []string
	eol       string
	versionID int
}

// New creates a mirror from a content snapshot and starting version.
func New(lines []string, eol string, versionID int) *Model {
	copied := make([]string, len(lines))
	copy(copied, lines)
	if len(copied) == 0 {
		copied = []string{""}
	}
	return &Model{lines: copied, eol: eol, versionID: versionID}
}

// ForModel creates a mirror snapshotting the given model's current
// state. The caller still has to subscribe the mirror to the model's
// events.
func ForModel(m *model.TextModel) *Model {
	return New(m.Lines(), m.EOL().Sequence(), m.VersionID())
}

// VersionID returns the version of the last applied event, or the
// starting version.
func (m *Model) VersionID() int {
	return m.versionID
}

// LineCount returns the number of lines.
func (m *Model) LineCount() int {
	return len(m.lines)
}

// Value returns the reconstructed document content.
func (m *Model) Value() string {
	return strings.Join(m.lines, m.eol)
}

// Apply incorporates one content change event. Events must arrive
// strictly in version order; anything else fails with
// ErrVersionMismatch and leaves the mirror unchanged.
func (m *Model) Apply(e *model.ContentChangedEvent) error {
	if e.VersionID != m.versionID+1 {
		return fmt.Errorf("%w: mirror at version %d, event declares %d",
			ErrVersionMismatch, m.versionID, e.VersionID)
	}

	for i := range e.Changes {
		c := &e.Changes[i]
		m.acceptDeleteRange(c.Range)
		m.acceptInsertText(c.Range.Start(), c.Text)
	}
	if e.IsFlush && e.EOL != "" {
		m.eol = e.EOL
	}
	m.versionID = e.VersionID
	return nil
}

// acceptDeleteRange removes the text spanned by a range, splicing the
// line array in place.
func (m *Model) acceptDeleteRange(r buffer.Range) {
	if r.IsEmpty() {
		return
	}

	startLine := m.lines[r.StartLine-1]
	prefix := startLine[:buffer.ByteIndexForColumn(startLine, r.StartColumn)]

	if r.IsSingleLine() {
		m.lines[r.StartLine-1] = prefix + startLine[buffer.ByteIndexForColumn(startLine, r.EndColumn):]
		return
	}

	endLine := m.lines[r.EndLine-1]
	m.lines[r.StartLine-1] = prefix + endLine[buffer.ByteIndexForColumn(endLine, r.EndColumn):]
	m.lines = append(m.lines[:r.StartLine], m.lines[r.EndLine:]...)
}

// acceptInsertText inserts text (which may contain line breaks of any
// style) at a position.
func (m *Model) acceptInsertText(p buffer.Position, text string) {
	if text == "" {
		return
	}

	line := m.lines[p.Line-1]
	idx := buffer.ByteIndexForColumn(line, p.Column)
	prefix, suffix := line[:idx], line[idx:]

	ins := buffer.SplitLines(text)
	if len(ins) == 1 {
		m.lines[p.Line-1] = prefix + ins[0] + suffix
		return
	}

	newLines := make([]string, len(ins))
	copy(newLines, ins)
	newLines[0] = prefix + newLines[0]
	newLines[len(newLines)-1] += suffix

	m.lines = append(m.lines[:p.Line-1], append(newLines, m.lines[p.Line:]...)...)
}
