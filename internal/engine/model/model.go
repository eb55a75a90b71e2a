package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/textmodel/internal/engine/buffer"
	"github.com/dshills/textmodel/internal/event/dispatch"
	"github.com/dshills/textmodel/internal/logger"
)

// ErrDisposed indicates an operation on a model after Dispose.
var ErrDisposed = errors.New("text model is disposed")

// TextModel is the mutable, observable document. It owns exactly one
// buffer at a time (replaced wholesale on SetValue, mutated in place
// for edits), assigns version numbers, maintains the conservative
// derived flags, and fans change notifications out to subscribers.
//
// A model is owned by a single goroutine; there is no internal
// locking. The one supported form of concurrency is reentrancy:
// a listener may apply further edits from inside its notification,
// and such nested calls are serialized on the call stack.
type TextModel struct {
	id  string
	buf *buffer.Buffer

	versionID int
	disposed  bool

	mightContainRTL           bool
	mightContainNonBasicASCII bool

	listeners  []*listenerEntry
	dispatcher *dispatch.SyncDispatcher
	emitDepth  int
}

type listenerEntry struct {
	fn      Listener
	removed bool
}

// Option configures a TextModel at construction.
type Option func(*options)

type options struct {
	defaultEOL buffer.LineEnding
}

// WithDefaultEOL sets the end-of-line style used when the input text
// has no clear majority. Defaults to LF.
func WithDefaultEOL(eol buffer.LineEnding) Option {
	return func(o *options) {
		o.defaultEOL = eol
	}
}

// New creates a model from raw text. The text is parsed exactly once;
// subsequent edits only rescan the text they insert.
func New(text string, opts ...Option) *TextModel {
	o := options{defaultEOL: buffer.LineEndingLF}
	for _, opt := range opts {
		opt(&o)
	}

	src := buffer.NewTextSource(text, o.defaultEOL)
	m := &TextModel{
		id:                        uuid.NewString(),
		buf:                       buffer.NewBuffer(src),
		versionID:                 1,
		mightContainRTL:           src.ContainsRTL,
		mightContainNonBasicASCII: src.ContainsNonBasicASCII,
	}
	m.dispatcher = dispatch.NewSyncDispatcher(dispatch.WithPanicHandler(m.onListenerPanic))
	return m
}

func (m *TextModel) onListenerPanic(_ any, panicValue any, stack []byte) {
	logger.S.Errorw("content change listener panicked",
		"model", m.id,
		"panic", panicValue,
		"stack", string(stack),
	)
}

// ID returns the model's unique instance id.
func (m *TextModel) ID() string {
	return m.id
}

// VersionID returns the current version. It increases by exactly one
// per mutating operation that produced a visible change.
func (m *TextModel) VersionID() int {
	return m.versionID
}

// MightContainRTL reports whether right-to-left text may be present.
// The flag is accumulated conservatively: insertions can set it,
// deletions never clear it. A false positive is safe where a false
// negative is not.
func (m *TextModel) MightContainRTL() bool {
	return m.mightContainRTL
}

// MightContainNonBasicASCII reports whether non-ASCII text may be
// present, with the same conservative accumulation as
// MightContainRTL.
func (m *TextModel) MightContainNonBasicASCII() bool {
	return m.mightContainNonBasicASCII
}

// EOL returns the line ending style currently in effect.
func (m *TextModel) EOL() buffer.LineEnding {
	return m.buf.EOL()
}

// LineCount returns the number of lines.
func (m *TextModel) LineCount() int {
	return m.buf.LineCount()
}

// Value returns the full document content.
func (m *TextModel) Value() (string, error) {
	if m.disposed {
		return "", ErrDisposed
	}
	return m.buf.Value(), nil
}

// Line returns the content of a 1-based line.
func (m *TextModel) Line(lineNumber int) (string, error) {
	if m.disposed {
		return "", ErrDisposed
	}
	return m.buf.Line(lineNumber)
}

// Lines returns a copy of the full line array.
func (m *TextModel) Lines() []string {
	return m.buf.Lines()
}

// ValueInRange returns the text spanned by a range, clamped to
// document bounds.
func (m *TextModel) ValueInRange(r buffer.Range) (string, error) {
	if m.disposed {
		return "", ErrDisposed
	}
	return m.buf.ValueInRange(r), nil
}

// FindMatches searches the document line by line.
func (m *TextModel) FindMatches(term string, matchCase bool) []buffer.Range {
	if m.disposed {
		return nil
	}
	return m.buf.FindMatches(term, matchCase)
}

// OnContentChanged registers a listener for content change events.
func (m *TextModel) OnContentChanged(fn Listener) *Subscription {
	entry := &listenerEntry{fn: fn}
	m.listeners = append(m.listeners, entry)
	return &Subscription{model: m, entry: entry}
}

func (m *TextModel) removeListener(entry *listenerEntry) {
	entry.removed = true
	for i, e := range m.listeners {
		if e == entry {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

// ApplyEdits validates and applies a batch of edit operations
// atomically, then notifies subscribers with one aggregate event.
// It returns one reverse edit per submitted operation, in submission
// order, for undo-stack construction by the caller.
//
// The whole batch is rejected, with zero mutation, if any two ranges
// truly overlap. A batch in which every edit reduces to a no-op leaves
// the version untouched and emits nothing.
func (m *TextModel) ApplyEdits(ops []buffer.EditOperation) ([]buffer.ReverseEdit, error) {
	if m.disposed {
		return nil, ErrDisposed
	}

	res, err := m.buf.ApplyEdits(ops)
	if err != nil {
		return nil, fmt.Errorf("applying %d edit(s): %w", len(ops), err)
	}
	if !res.ContentChanged {
		return res.Reverse, nil
	}

	m.accumulateFlags(res.Changes)
	m.versionID++

	logger.S.Debugw("edits applied",
		"model", m.id,
		"version", m.versionID,
		"changes", len(res.Changes),
	)

	m.emit(&ContentChangedEvent{
		Changes:        res.Changes,
		EOL:            m.buf.EOL().Sequence(),
		VersionID:      m.versionID,
		LineCount:      m.buf.LineCount(),
		LastLineLength: m.buf.LastLineLength(),
		IsTrivial:      res.IsTrivial,
	})
	return res.Reverse, nil
}

// accumulateFlags ORs in the character classes of inserted text.
// Only changed text is scanned, never the whole document, and flags
// are never cleared: the model promises no false negatives, not a
// precise "currently contains" predicate.
func (m *TextModel) accumulateFlags(changes []buffer.ContentChange) {
	for _, c := range changes {
		if c.Text == "" {
			continue
		}
		if m.mightContainRTL && m.mightContainNonBasicASCII {
			return
		}
		f := buffer.ScanText(c.Text)
		m.mightContainRTL = m.mightContainRTL || f.RTL
		m.mightContainNonBasicASCII = m.mightContainNonBasicASCII || f.NonBasicASCII
	}
}

// SetEOL rewrites the line ending convention used for serialization.
// In-memory line splitting is untouched. A changed EOL advances the
// version and emits a flush event carrying the whole document, so raw
// consumers can resynchronize losslessly.
func (m *TextModel) SetEOL(eol buffer.LineEnding) error {
	if m.disposed {
		return ErrDisposed
	}
	if eol == m.buf.EOL() {
		return nil
	}

	flushChange := m.wholeDocumentChange()
	m.buf.SetEOL(eol)
	flushChange.Text = m.buf.Value()
	m.versionID++
	m.emitFlush(flushChange)
	return nil
}

// SetValue replaces the document content wholesale: the buffer is
// rebuilt from a fresh text source and a flush event is emitted.
// Derived flags accumulate from the new source; they are never reset
// within a model instance.
func (m *TextModel) SetValue(text string) error {
	if m.disposed {
		return ErrDisposed
	}

	flushChange := m.wholeDocumentChange()
	src := buffer.NewTextSource(text, m.buf.EOL())
	m.buf = buffer.NewBuffer(src)
	m.mightContainRTL = m.mightContainRTL || src.ContainsRTL
	m.mightContainNonBasicASCII = m.mightContainNonBasicASCII || src.ContainsNonBasicASCII

	flushChange.Text = m.buf.Value()
	m.versionID++
	m.emitFlush(flushChange)
	return nil
}

// wholeDocumentChange builds a change spanning the entire current
// content, expressed against the pre-change document.
func (m *TextModel) wholeDocumentChange() buffer.ContentChange {
	lastLine := m.buf.LineCount()
	full := buffer.NewRange(1, 1, lastLine, m.buf.LastLineLength()+1)
	return buffer.ContentChange{
		Range:       full,
		RangeOffset: 0,
		RangeLength: m.buf.OffsetAt(full.End()),
	}
}

func (m *TextModel) emitFlush(change buffer.ContentChange) {
	m.emit(&ContentChangedEvent{
		Changes:        []buffer.ContentChange{change},
		EOL:            m.buf.EOL().Sequence(),
		VersionID:      m.versionID,
		LineCount:      m.buf.LineCount(),
		LastLineLength: m.buf.LastLineLength(),
		IsFlush:        true,
	})
}

// emit fans an event out to the listeners registered at emit time.
// Fan-out is synchronous and strictly serialized: a listener that
// mutates the model triggers a nested emit that completes before the
// remaining listeners here see the current event.
func (m *TextModel) emit(e *ContentChangedEvent) {
	if len(m.listeners) == 0 {
		return
	}

	snapshot := make([]*listenerEntry, len(m.listeners))
	copy(snapshot, m.listeners)

	m.emitDepth++
	defer func() { m.emitDepth-- }()

	for _, entry := range snapshot {
		if m.disposed {
			return
		}
		if entry.removed {
			continue
		}
		fn := entry.fn
		m.dispatcher.Dispatch(e, dispatch.HandlerFunc(func(event any) {
			fn(event.(*ContentChangedEvent))
		}))
	}
}

// Dispose releases the model and all subscriptions. Any mutating or
// content-reading operation afterwards fails with ErrDisposed.
// Dispose is idempotent and safe to call from inside a listener.
func (m *TextModel) Dispose() {
	if m.disposed {
		return
	}
	if m.emitDepth > 0 {
		logger.S.Debugw("model disposed during change notification", "model", m.id)
	}
	m.disposed = true
	m.listeners = nil
}

// IsDisposed reports whether Dispose has been called.
func (m *TextModel) IsDisposed() bool {
	return m.disposed
}
