package engine

import (
	"testing"

	"github.com/dshills/textmodel/internal/config"
	"github.com/dshills/textmodel/internal/engine/buffer"
)

func testOptions() config.Options {
	opts := config.DefaultOptions()
	opts.TrimAutoWhitespace = true
	opts.UndoStackSize = 10
	return opts
}

func mustValue(t *testing.T, d *Document) string {
	t.Helper()
	v, err := d.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	return v
}

func TestDocumentApplyUndoRedo(t *testing.T) {
	d := NewDocument("hello world", testOptions())
	defer d.Dispose()

	_, err := d.ApplyEdits([]buffer.EditOperation{
		buffer.EditReplace(buffer.NewRange(1, 1, 1, 6), "goodbye"),
	})
	if err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	if got := mustValue(t, d); got != "goodbye world" {
		t.Fatalf("after edit: %q", got)
	}
	if !d.CanUndo() {
		t.Fatal("expected undo entry after edit")
	}

	if err := d.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := mustValue(t, d); got != "hello world" {
		t.Errorf("after undo: %q", got)
	}
	if !d.CanRedo() {
		t.Error("expected redo entry after undo")
	}

	if err := d.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := mustValue(t, d); got != "goodbye world" {
		t.Errorf("after redo: %q", got)
	}
}

func TestTrivialBatchNotRecorded(t *testing.T) {
	d := NewDocument("alpha()\nomega", testOptions())
	defer d.Dispose()

	_, err := d.ApplyEdits([]buffer.EditOperation{
		{
			Range:            buffer.NewRange(1, 8, 1, 8),
			Lines:            []string{"", "    "},
			IsAutoWhitespace: true,
		},
	})
	if err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	if got := mustValue(t, d); got != "alpha()\n    \nomega" {
		t.Fatalf("after auto whitespace: %q", got)
	}
	if d.CanUndo() {
		t.Error("auto-whitespace batch should not create an undo entry")
	}
	if d.VersionID() != 2 {
		t.Errorf("version = %d, want 2", d.VersionID())
	}
}

func TestAutoWhitespaceTrimmedByNextEdit(t *testing.T) {
	d := NewDocument("alpha()\nomega", testOptions())
	defer d.Dispose()

	_, err := d.ApplyEdits([]buffer.EditOperation{
		{
			Range:            buffer.NewRange(1, 8, 1, 8),
			Lines:            []string{"", "    "},
			IsAutoWhitespace: true,
		},
	})
	if err != nil {
		t.Fatalf("auto whitespace: %v", err)
	}

	// Editing elsewhere trims the abandoned whitespace line as part
	// of the same batch.
	_, err = d.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(3, 6), "!"),
	})
	if err != nil {
		t.Fatalf("next edit: %v", err)
	}
	if got := mustValue(t, d); got != "alpha()\n\nomega!" {
		t.Fatalf("after trim: %q", got)
	}

	// One undo restores both the edit and the trimmed whitespace.
	if err := d.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := mustValue(t, d); got != "alpha()\n    \nomega" {
		t.Errorf("after undo: %q", got)
	}
}

func TestAutoWhitespaceKeptWhenLineTouched(t *testing.T) {
	d := NewDocument("alpha()\nomega", testOptions())
	defer d.Dispose()

	_, err := d.ApplyEdits([]buffer.EditOperation{
		{
			Range:            buffer.NewRange(1, 8, 1, 8),
			Lines:            []string{"", "    "},
			IsAutoWhitespace: true,
		},
	})
	if err != nil {
		t.Fatalf("auto whitespace: %v", err)
	}

	// Typing on the whitespace line keeps it.
	_, err = d.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(2, 3), "x"),
	})
	if err != nil {
		t.Fatalf("typing: %v", err)
	}
	if got := mustValue(t, d); got != "alpha()\n  x  \nomega" {
		t.Errorf("after typing: %q", got)
	}
}

func TestAutoWhitespaceTrimDisabled(t *testing.T) {
	opts := testOptions()
	opts.TrimAutoWhitespace = false
	d := NewDocument("alpha()\nomega", opts)
	defer d.Dispose()

	_, err := d.ApplyEdits([]buffer.EditOperation{
		{
			Range:            buffer.NewRange(1, 8, 1, 8),
			Lines:            []string{"", "    "},
			IsAutoWhitespace: true,
		},
	})
	if err != nil {
		t.Fatalf("auto whitespace: %v", err)
	}
	_, err = d.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(3, 6), "!"),
	})
	if err != nil {
		t.Fatalf("next edit: %v", err)
	}
	if got := mustValue(t, d); got != "alpha()\n    \nomega!" {
		t.Errorf("whitespace trimmed with option off: %q", got)
	}
}

func TestNoOpBatchNotRecorded(t *testing.T) {
	d := NewDocument("stable", testOptions())
	defer d.Dispose()

	_, err := d.ApplyEdits([]buffer.EditOperation{
		buffer.EditDelete(buffer.NewRange(1, 3, 1, 3)),
	})
	if err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	if d.CanUndo() {
		t.Error("no-op batch should not create an undo entry")
	}
	if d.VersionID() != 1 {
		t.Errorf("version = %d, want 1", d.VersionID())
	}
}

func TestSetValueClearsHistory(t *testing.T) {
	d := NewDocument("one", testOptions())
	defer d.Dispose()

	if _, err := d.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(1, 4), " two"),
	}); err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	if !d.CanUndo() {
		t.Fatal("expected undo entry")
	}

	if err := d.SetValue("fresh"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if d.CanUndo() || d.CanRedo() {
		t.Error("SetValue should clear edit history")
	}
	if got := mustValue(t, d); got != "fresh" {
		t.Errorf("value = %q", got)
	}
}

func TestDocumentMarkersFollowEdits(t *testing.T) {
	d := NewDocument("hello world", testOptions())
	defer d.Dispose()

	id := d.AddMarker(buffer.NewPosition(1, 5))
	if _, err := d.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(1, 1), "XY"),
	}); err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}

	p, ok := d.Marker(id)
	if !ok {
		t.Fatal("marker lost")
	}
	if p.Line != 1 || p.Column != 7 {
		t.Errorf("marker = %v, want (1,7)", p)
	}

	d.RemoveMarker(id)
	if _, ok := d.Marker(id); ok {
		t.Error("marker still present after remove")
	}
}

func TestDocumentFindMatches(t *testing.T) {
	d := NewDocument("cat\nconcatenate", testOptions())
	defer d.Dispose()

	got := d.FindMatches("cat", true)
	if len(got) != 2 {
		t.Fatalf("matches = %d, want 2", len(got))
	}
	want0 := buffer.NewRange(1, 1, 1, 4)
	want1 := buffer.NewRange(2, 4, 2, 7)
	if got[0] != want0 || got[1] != want1 {
		t.Errorf("matches = %v, want [%v %v]", got, want0, want1)
	}
}

func TestDisposedDocumentRejectsEdits(t *testing.T) {
	d := NewDocument("x", testOptions())
	d.Dispose()

	if _, err := d.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(1, 1), "y"),
	}); err == nil {
		t.Error("expected error editing a disposed document")
	}
}
