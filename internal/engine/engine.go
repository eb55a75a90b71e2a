package engine

import (
	"github.com/dshills/textmodel/internal/engine/buffer"
	"github.com/dshills/textmodel/internal/engine/history"
	"github.com/dshills/textmodel/internal/engine/mirror"
	"github.com/dshills/textmodel/internal/engine/model"
)

// Re-export commonly used types for convenience.
type (
	// Position represents a 1-based line/column location.
	Position = buffer.Position

	// Range represents a span between two positions.
	Range = buffer.Range

	// EditOperation is a single range replacement in a batch.
	EditOperation = buffer.EditOperation

	// ReverseEdit describes how to undo one applied operation.
	ReverseEdit = buffer.ReverseEdit

	// ContentChange is one applied contiguous replacement.
	ContentChange = buffer.ContentChange

	// LineEnding specifies the serialization line ending style.
	LineEnding = buffer.LineEnding

	// ContentChangedEvent is the aggregate per-batch notification.
	ContentChangedEvent = model.ContentChangedEvent

	// MirrorModel reconstructs content purely from change events.
	MirrorModel = mirror.Model
)

// Line ending styles.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
)

// Errors surfaced from the engine's packages.
var (
	// ErrInvalidRange indicates malformed coordinates that clamping
	// could not correct.
	ErrInvalidRange = buffer.ErrInvalidRange

	// ErrOverlappingEdits indicates a batch with truly overlapping
	// ranges; the whole batch is rejected.
	ErrOverlappingEdits = buffer.ErrOverlappingEdits

	// ErrDisposed indicates an operation on a disposed document.
	ErrDisposed = model.ErrDisposed

	// ErrVersionMismatch indicates an out-of-sequence mirror event.
	ErrVersionMismatch = mirror.ErrVersionMismatch

	// ErrNothingToUndo indicates an empty undo stack.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates an empty redo stack.
	ErrNothingToRedo = history.ErrNothingToRedo
)
