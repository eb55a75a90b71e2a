package history

import (
	"errors"
	"time"

	"github.com/dshills/textmodel/internal/engine/buffer"
	"github.com/dshills/textmodel/internal/engine/model"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when no limit is given.
const DefaultMaxEntries = 1000

// entry is one undoable batch.
type entry struct {
	edits     []buffer.EditOperation
	timestamp time.Time
}

// Stack manages undo/redo state for one model.
type Stack struct {
	model      *model.TextModel
	undo       []*entry
	redo       []*entry
	maxEntries int
}

// NewStack creates a history stack for the given model.
// maxEntries <= 0 selects DefaultMaxEntries.
func NewStack(m *model.TextModel, maxEntries int) *Stack {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Stack{model: m, maxEntries: maxEntries}
}

// Record pushes the reverse edits of a just-applied batch onto the
// undo stack and clears the redo stack. Empty batches are ignored.
func (s *Stack) Record(reverse []buffer.ReverseEdit) {
	if len(reverse) == 0 {
		return
	}
	s.undo = append(s.undo, &entry{
		edits:     reverseToEdits(reverse),
		timestamp: time.Now(),
	})
	if len(s.undo) > s.maxEntries {
		s.undo = s.undo[len(s.undo)-s.maxEntries:]
	}
	s.redo = nil
}

// reverseToEdits converts reverse edits into a replayable batch,
// keeping each operation's correlation token.
func reverseToEdits(reverse []buffer.ReverseEdit) []buffer.EditOperation {
	edits := make([]buffer.EditOperation, len(reverse))
	for i, rev := range reverse {
		op := buffer.EditReplace(rev.Range, rev.Text)
		op.ID = rev.ID
		edits[i] = op
	}
	return edits
}

// Undo reverses the most recently recorded batch.
func (s *Stack) Undo() error {
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	e := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	reverse, err := s.model.ApplyEdits(e.edits)
	if err != nil {
		return err
	}
	s.redo = append(s.redo, &entry{
		edits:     reverseToEdits(reverse),
		timestamp: time.Now(),
	})
	return nil
}

// Redo re-applies the most recently undone batch.
func (s *Stack) Redo() error {
	if len(s.redo) == 0 {
		return ErrNothingToRedo
	}
	e := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	reverse, err := s.model.ApplyEdits(e.edits)
	if err != nil {
		return err
	}
	s.undo = append(s.undo, &entry{
		edits:     reverseToEdits(reverse),
		timestamp: time.Now(),
	})
	return nil
}

// CanUndo returns true if an undo step is available.
func (s *Stack) CanUndo() bool {
	return len(s.undo) > 0
}

// CanRedo returns true if a redo step is available.
func (s *Stack) CanRedo() bool {
	return len(s.redo) > 0
}

// Depth returns the number of recorded undo steps.
func (s *Stack) Depth() int {
	return len(s.undo)
}

// Clear drops all undo and redo state.
func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
}
