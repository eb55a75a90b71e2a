// Package marker provides positions that follow the document as it is
// edited.
//
// A Tracker holds named markers and consumes content-changed events,
// adjusting each marker per change:
//
//   - Markers before a change are untouched.
//   - Markers at the change's start stay there, unless the change
//     requests force-move, which pushes them past the inserted text.
//   - Markers inside the replaced span collapse to its start (or to
//     the insertion's end under force-move).
//   - Markers at or after the span's end shift by the change's line
//     and column delta.
//
// Flush events (whole-document replacements) clamp every marker to
// the new bounds.
//
// Wire a tracker to a model directly:
//
//	t := marker.NewTracker()
//	sub := m.OnContentChanged(t.ApplyEvent)
//	defer sub.Dispose()
//
//	id := t.Add(buffer.NewPosition(3, 7))
//	// ...edits...
//	p, ok := t.Get(id)
package marker
