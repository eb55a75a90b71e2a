// Package history provides undo/redo functionality for the document engine.
//
// The history system is built on the inverse edits the buffer computes
// during batch application: each successful batch yields one reverse
// edit per operation, and replaying those reverse edits as a batch
// restores the prior content exactly.
//
// # History Stack
//
// The Stack type manages bounded undo and redo stacks of edit batches:
//
//	stack := history.NewStack(m, history.DefaultMaxEntries)
//
//	reverse, _ := m.ApplyEdits(ops)
//	stack.Record(reverse)
//
//	stack.Undo() // replays the reverse batch through the model
//	stack.Redo() // replays the undo's own inverse
//
// Undo and Redo go through the model's ordinary ApplyEdits path, so
// they version, notify, and produce inverse edits like any other
// batch. The inverse of an undo becomes the redo entry, which keeps
// the two stacks exact mirrors of each other.
//
// Recording a new batch clears the redo stack. When the undo stack
// exceeds its bound the oldest entry is dropped.
package history
