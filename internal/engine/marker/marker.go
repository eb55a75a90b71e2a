package marker

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/textmodel/internal/engine/buffer"
	"github.com/dshills/textmodel/internal/engine/model"
)

// Tracker holds markers for one document and adjusts them on every
// content change event. All operations are thread-safe.
type Tracker struct {
	mu      sync.RWMutex
	markers map[string]buffer.Position
}

// NewTracker creates an empty marker tracker.
func NewTracker() *Tracker {
	return &Tracker{markers: make(map[string]buffer.Position)}
}

// Add registers a marker at a position and returns its id.
func (t *Tracker) Add(p buffer.Position) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := uuid.NewString()
	t.markers[id] = p
	return id
}

// Get returns a marker's current position.
func (t *Tracker) Get(id string) (buffer.Position, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.markers[id]
	return p, ok
}

// Remove deletes a marker.
func (t *Tracker) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.markers, id)
}

// Len returns the number of tracked markers.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.markers)
}

// ApplyEvent adjusts every marker for one content change event.
// Changes are applied in the order the event lists them, matching how
// the document itself was mutated.
func (t *Tracker) ApplyEvent(e *model.ContentChangedEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range e.Changes {
		c := &e.Changes[i]
		for id, p := range t.markers {
			t.markers[id] = adjustPosition(p, c)
		}
	}
	// A flush may shrink the document; clamp strays.
	if e.IsFlush {
		for id, p := range t.markers {
			if p.Line > e.LineCount {
				t.markers[id] = buffer.Position{Line: e.LineCount, Column: e.LastLineLength + 1}
			} else if p.Line == e.LineCount && p.Column > e.LastLineLength+1 {
				t.markers[id] = buffer.Position{Line: p.Line, Column: e.LastLineLength + 1}
			}
		}
	}
}

// adjustPosition maps one marker position across one contiguous
// replacement.
func adjustPosition(p buffer.Position, c *buffer.ContentChange) buffer.Position {
	start := c.Range.Start()
	oldEnd := c.Range.End()
	newEnd := insertionEnd(start, c.Text)

	switch {
	case p.Before(start):
		// Entirely before the change.
		return p

	case p.Equals(start):
		if c.ForceMoveMarkers {
			return newEnd
		}
		return p

	case p.After(oldEnd) || p.Equals(oldEnd):
		// After the replaced span: shift by the change's net effect.
		lineDelta := newEnd.Line - oldEnd.Line
		if p.Line == oldEnd.Line {
			return buffer.Position{
				Line:   newEnd.Line,
				Column: newEnd.Column + (p.Column - oldEnd.Column),
			}
		}
		return buffer.Position{Line: p.Line + lineDelta, Column: p.Column}

	default:
		// Inside the replaced span: collapse to the change start.
		if c.ForceMoveMarkers {
			return newEnd
		}
		return start
	}
}

// insertionEnd computes where inserted text ends, given its start.
func insertionEnd(start buffer.Position, text string) buffer.Position {
	if text == "" {
		return start
	}
	lines := buffer.SplitLines(text)
	if len(lines) == 1 {
		return buffer.Position{Line: start.Line, Column: start.Column + buffer.UTF16Length(lines[0])}
	}
	return buffer.Position{
		Line:   start.Line + len(lines) - 1,
		Column: buffer.UTF16Length(lines[len(lines)-1]) + 1,
	}
}
