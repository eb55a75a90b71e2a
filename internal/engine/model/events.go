package model

import "github.com/dshills/textmodel/internal/engine/buffer"

// ContentChangedEvent describes everything one successful mutating
// call did to a model. Exactly one event is emitted per batch, never
// one per individual edit.
type ContentChangedEvent struct {
	// Changes lists the applied contiguous replacements in application
	// order. Each change's coordinates refer to the document state it
	// was applied to, so a consumer replaying them sequentially
	// reconstructs the new content exactly.
	Changes []buffer.ContentChange

	// EOL is the line ending sequence in effect after the change.
	EOL string

	// VersionID is the model version after this change.
	VersionID int

	// LineCount is the resulting number of lines.
	LineCount int

	// LastLineLength is the resulting length of the final line in
	// UTF-16 code units.
	LastLineLength int

	// IsFlush marks a whole-document replacement (SetValue, SetEOL).
	// Raw consumers such as mirrors still reconstruct from Changes;
	// semantic consumers may want to suppress flushes from e.g. undo
	// history.
	IsFlush bool

	// IsTrivial is true when every edit in the batch was flagged as an
	// auto-whitespace insertion.
	IsTrivial bool
}

// Listener receives content change notifications. Listeners run
// synchronously on the mutating call's stack and may themselves apply
// further edits; such reentrant batches complete in full (including
// their own notification) before the current fan-out resumes.
type Listener func(*ContentChangedEvent)

// Subscription represents a registered listener. Dispose unregisters
// it; disposing during a fan-out is safe and takes effect immediately.
type Subscription struct {
	model *TextModel
	entry *listenerEntry
}

// Dispose removes the listener from the model.
func (s *Subscription) Dispose() {
	if s.model == nil {
		return
	}
	s.model.removeListener(s.entry)
	s.model = nil
}
