package engine

import (
	"strings"

	"github.com/dshills/textmodel/internal/config"
	"github.com/dshills/textmodel/internal/engine/buffer"
	"github.com/dshills/textmodel/internal/engine/history"
	"github.com/dshills/textmodel/internal/engine/marker"
	"github.com/dshills/textmodel/internal/engine/model"
)

// Document bundles a text model with an undo stack, a marker tracker,
// and the editing options that govern them. It is the surface most
// callers use; the subpackages remain available for consumers that
// need only one piece.
//
// Like the model it wraps, a Document belongs to a single goroutine.
type Document struct {
	model   *model.TextModel
	history *history.Stack
	markers *marker.Tracker

	markerSub *model.Subscription

	trimAutoWhitespace bool

	// Lines that the last trivial batch filled with auto-inserted
	// whitespace. Candidates for removal on the next real edit.
	autoWhitespaceLines []int
}

// NewDocument creates a document holding text, configured by opts.
// Zero-value option fields fall back to defaults.
func NewDocument(text string, opts config.Options) *Document {
	var mopts []model.Option
	if opts.DefaultEOL != "" {
		eol := buffer.LineEndingLF
		if opts.DefaultEOL == config.EOLCRLF {
			eol = buffer.LineEndingCRLF
		}
		mopts = append(mopts, model.WithDefaultEOL(eol))
	}
	maxUndo := opts.UndoStackSize
	if maxUndo <= 0 {
		maxUndo = history.DefaultMaxEntries
	}

	m := model.New(text, mopts...)
	d := &Document{
		model:              m,
		history:            history.NewStack(m, maxUndo),
		markers:            marker.NewTracker(),
		trimAutoWhitespace: opts.TrimAutoWhitespace,
	}
	d.markerSub = m.OnContentChanged(d.markers.ApplyEvent)
	return d
}

// Model returns the underlying text model.
func (d *Document) Model() *model.TextModel {
	return d.model
}

// ApplyEdits applies a batch of edits, recording an undo entry for any
// batch that changes content. Batches consisting entirely of
// auto-whitespace edits are applied but not recorded; the lines they
// touched are remembered, and if trim-auto-whitespace is enabled those
// lines are deleted as part of the next ordinary batch, provided they
// are still pure whitespace and the batch does not touch them itself.
func (d *Document) ApplyEdits(ops []buffer.EditOperation) ([]buffer.ReverseEdit, error) {
	trivial := isTrivialBatch(ops)
	if !trivial {
		ops = d.withTrimEdits(ops)
	}

	reverse, err := d.model.ApplyEdits(ops)
	if err != nil {
		return nil, err
	}

	if trivial {
		d.rememberAutoWhitespace(reverse)
		return reverse, nil
	}

	d.autoWhitespaceLines = d.autoWhitespaceLines[:0]
	if hasEffect(reverse) {
		d.history.Record(reverse)
	}
	return reverse, nil
}

// isTrivialBatch reports whether every edit is an auto-whitespace
// insertion. An empty batch is not trivial; it is nothing.
func isTrivialBatch(ops []buffer.EditOperation) bool {
	if len(ops) == 0 {
		return false
	}
	for _, op := range ops {
		if !op.IsAutoWhitespace {
			return false
		}
	}
	return true
}

// hasEffect reports whether any reverse edit would do work when
// replayed. Batches of pure no-ops produce empty reverse edits and do
// not belong on the undo stack.
func hasEffect(reverse []buffer.ReverseEdit) bool {
	for _, r := range reverse {
		if r.Text != "" || !r.Range.IsEmpty() {
			return true
		}
	}
	return false
}

// withTrimEdits folds deletions of stale auto-whitespace lines into an
// ordinary batch. A remembered line is trimmed only while it is still
// pure whitespace and none of the batch's own ranges touch it.
func (d *Document) withTrimEdits(ops []buffer.EditOperation) []buffer.EditOperation {
	if !d.trimAutoWhitespace || len(d.autoWhitespaceLines) == 0 {
		return ops
	}

	out := ops
	copied := false
	for _, ln := range d.autoWhitespaceLines {
		line, err := d.model.Line(ln)
		if err != nil {
			continue
		}
		if line == "" || strings.Trim(line, " \t") != "" {
			continue
		}
		lineRange := buffer.NewRange(ln, 1, ln, buffer.UTF16Length(line)+1)
		touched := false
		for _, op := range ops {
			if op.Range.IntersectsOrTouches(lineRange) {
				touched = true
				break
			}
		}
		if touched {
			continue
		}
		if !copied {
			out = append([]buffer.EditOperation(nil), ops...)
			copied = true
		}
		out = append(out, buffer.EditDelete(lineRange))
	}
	return out
}

// rememberAutoWhitespace records the lines a trivial batch left its
// whitespace on, taken from the inverse ranges of the applied edits.
func (d *Document) rememberAutoWhitespace(reverse []buffer.ReverseEdit) {
	for _, r := range reverse {
		ln := r.Range.EndLine
		seen := false
		for _, have := range d.autoWhitespaceLines {
			if have == ln {
				seen = true
				break
			}
		}
		if !seen {
			d.autoWhitespaceLines = append(d.autoWhitespaceLines, ln)
		}
	}
}

// Undo reverts the most recent recorded batch.
func (d *Document) Undo() error {
	return d.history.Undo()
}

// Redo re-applies the most recently undone batch.
func (d *Document) Redo() error {
	return d.history.Redo()
}

// CanUndo reports whether an undo entry is available.
func (d *Document) CanUndo() bool {
	return d.history.CanUndo()
}

// CanRedo reports whether a redo entry is available.
func (d *Document) CanRedo() bool {
	return d.history.CanRedo()
}

// AddMarker registers a tracked position and returns its id. The
// marker follows subsequent edits automatically.
func (d *Document) AddMarker(p buffer.Position) string {
	return d.markers.Add(p)
}

// Marker returns the current position of a tracked marker.
func (d *Document) Marker(id string) (buffer.Position, bool) {
	return d.markers.Get(id)
}

// RemoveMarker stops tracking a marker.
func (d *Document) RemoveMarker(id string) {
	d.markers.Remove(id)
}

// OnContentChanged subscribes fn to the model's change events.
func (d *Document) OnContentChanged(fn model.Listener) *model.Subscription {
	return d.model.OnContentChanged(fn)
}

// Value returns the full document text.
func (d *Document) Value() (string, error) {
	return d.model.Value()
}

// Line returns the content of a 1-based line.
func (d *Document) Line(lineNumber int) (string, error) {
	return d.model.Line(lineNumber)
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return d.model.LineCount()
}

// VersionID returns the model's current version.
func (d *Document) VersionID() int {
	return d.model.VersionID()
}

// EOL returns the serialization line ending in effect.
func (d *Document) EOL() buffer.LineEnding {
	return d.model.EOL()
}

// SetEOL rewrites the serialization line ending. EOL-only changes do
// not create undo entries.
func (d *Document) SetEOL(eol buffer.LineEnding) error {
	return d.model.SetEOL(eol)
}

// SetValue replaces the whole document and clears edit history.
func (d *Document) SetValue(text string) error {
	if err := d.model.SetValue(text); err != nil {
		return err
	}
	d.history.Clear()
	d.autoWhitespaceLines = d.autoWhitespaceLines[:0]
	return nil
}

// FindMatches returns the ranges of every single-line occurrence of
// term.
func (d *Document) FindMatches(term string, matchCase bool) []buffer.Range {
	return d.model.FindMatches(term, matchCase)
}

// Dispose releases the document. Further edits fail with ErrDisposed.
func (d *Document) Dispose() {
	d.markerSub.Dispose()
	d.model.Dispose()
}
