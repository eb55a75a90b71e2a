// Package mirror provides an event-driven replica of a text model.
//
// A mirror holds its own line array and version counter and is mutated
// only by the content-changed events a model emits, never by direct
// edits. Applying every event in order reproduces the model's content
// byte for byte, including EOL rewrites and wholesale resets, which
// arrive as flush events carrying the full document.
//
// Events must arrive in sequence: Apply rejects an event whose version
// is not exactly one past the mirror's with ErrVersionMismatch, and
// leaves the mirror untouched so the caller can resynchronize.
//
//	mm := mirror.ForModel(m)
//	sub := m.OnContentChanged(func(e *model.ContentChangedEvent) {
//		if err := mm.Apply(e); err != nil {
//			// rebuild via mirror.ForModel
//		}
//	})
//	defer sub.Dispose()
package mirror
