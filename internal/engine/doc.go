// Package engine provides the core text document engine for textmodel.
//
// The engine package serves as the main facade, combining the buffer,
// model, history, and marker sub-packages into a single Document type
// suitable for building editors on top of.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: line-array text storage, positions and ranges, and the
//     batch edit pipeline (validation, sorting, inverse ranges,
//     coalescing)
//   - model: the versioned, observable text model with derived flags
//     and reentrant-safe change notification
//   - mirror: an event-driven replica of a model's content
//   - history: bounded undo/redo stacks of edit batches
//   - marker: positions that follow the document as it is edited
//
// # Concurrency
//
// A Document and its model belong to a single goroutine. Listener
// callbacks run synchronously on the editing goroutine and may submit
// further edits; nested batches complete fully before the outer
// notification resumes.
//
// # Basic Usage
//
// Create a document and apply an edit batch:
//
//	doc := engine.NewDocument("hello world", config.DefaultOptions())
//	reverse, err := doc.ApplyEdits([]engine.EditOperation{
//		buffer.EditReplace(buffer.NewRange(1, 1, 1, 6), "goodbye"),
//	})
//	if err != nil {
//		return err
//	}
//	_ = reverse // feed to an undo stack, or use doc.Undo()
package engine
