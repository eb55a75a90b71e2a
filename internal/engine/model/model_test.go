package model

import (
	"errors"
	"testing"

	"github.com/dshills/textmodel/internal/engine/buffer"
)

func mustValue(t *testing.T, m *TextModel) string {
	t.Helper()
	v, err := m.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	return v
}

func TestNewModel(t *testing.T) {
	m := New("one\ntwo")

	if m.VersionID() != 1 {
		t.Errorf("expected version 1, got %d", m.VersionID())
	}
	if m.LineCount() != 2 {
		t.Errorf("expected 2 lines, got %d", m.LineCount())
	}
	if mustValue(t, m) != "one\ntwo" {
		t.Errorf("unexpected value %q", mustValue(t, m))
	}
	if m.ID() == "" {
		t.Error("expected a model id")
	}
}

func TestApplyEditsBumpsVersion(t *testing.T) {
	m := New("hello")

	rev, err := m.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(1, 6), " world"),
	})
	if err != nil {
		t.Fatalf("ApplyEdits failed: %v", err)
	}

	if m.VersionID() != 2 {
		t.Errorf("expected version 2, got %d", m.VersionID())
	}
	if mustValue(t, m) != "hello world" {
		t.Errorf("unexpected value %q", mustValue(t, m))
	}
	if len(rev) != 1 {
		t.Fatalf("expected 1 reverse edit, got %d", len(rev))
	}
}

func TestNoOpBatchKeepsVersion(t *testing.T) {
	m := New("hello")

	var events int
	m.OnContentChanged(func(*ContentChangedEvent) { events++ })

	_, err := m.ApplyEdits([]buffer.EditOperation{
		{Range: buffer.NewRange(1, 3, 1, 3)},
	})
	if err != nil {
		t.Fatalf("ApplyEdits failed: %v", err)
	}

	if m.VersionID() != 1 {
		t.Errorf("no-op batch must not advance version, got %d", m.VersionID())
	}
	if events != 0 {
		t.Errorf("no-op batch must not notify, got %d events", events)
	}
}

func TestOverlapRejectionLeavesModelIntact(t *testing.T) {
	m := New("hello world")

	_, err := m.ApplyEdits([]buffer.EditOperation{
		buffer.EditReplace(buffer.NewRange(1, 1, 1, 3), "x"),
		buffer.EditReplace(buffer.NewRange(1, 2, 1, 4), "y"),
	})

	if !errors.Is(err, buffer.ErrOverlappingEdits) {
		t.Fatalf("expected ErrOverlappingEdits, got %v", err)
	}
	if m.VersionID() != 1 || mustValue(t, m) != "hello world" {
		t.Error("rejected batch must leave model untouched")
	}
}

func TestEventContents(t *testing.T) {
	m := New("one\ntwo")

	var got *ContentChangedEvent
	m.OnContentChanged(func(e *ContentChangedEvent) { got = e })

	if _, err := m.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(2, 4), "\nthree"),
	}); err != nil {
		t.Fatalf("ApplyEdits failed: %v", err)
	}

	if got == nil {
		t.Fatal("expected an event")
	}
	if got.VersionID != 2 {
		t.Errorf("expected event version 2, got %d", got.VersionID)
	}
	if got.LineCount != 3 || got.LastLineLength != 5 {
		t.Errorf("expected 3 lines / last length 5, got %d/%d", got.LineCount, got.LastLineLength)
	}
	if len(got.Changes) != 1 {
		t.Fatalf("expected one change, got %d", len(got.Changes))
	}
	if got.Changes[0].Text != "\nthree" {
		t.Errorf("unexpected change text %q", got.Changes[0].Text)
	}
	if got.IsFlush || got.IsTrivial {
		t.Error("plain edit should be neither flush nor trivial")
	}
}

func TestOneEventPerBatch(t *testing.T) {
	m := New("one\ntwo\nthree")

	var events int
	m.OnContentChanged(func(*ContentChangedEvent) { events++ })

	if _, err := m.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(1, 1), "A"),
		buffer.EditInsert(buffer.NewPosition(3, 1), "C"),
	}); err != nil {
		t.Fatalf("ApplyEdits failed: %v", err)
	}

	if events != 1 {
		t.Errorf("expected one aggregate event per batch, got %d", events)
	}
}

func TestFlagMonotonicity(t *testing.T) {
	m := New("plain ascii")

	if m.MightContainRTL() || m.MightContainNonBasicASCII() {
		t.Fatal("plain ASCII should start with clear flags")
	}

	if _, err := m.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(1, 1), "שלום "),
	}); err != nil {
		t.Fatalf("ApplyEdits failed: %v", err)
	}
	if !m.MightContainRTL() || !m.MightContainNonBasicASCII() {
		t.Fatal("inserting Hebrew should set both flags")
	}

	// Delete the entire document; flags must survive.
	line, _ := m.Line(1)
	if _, err := m.ApplyEdits([]buffer.EditOperation{
		buffer.EditDelete(buffer.NewRange(1, 1, 1, buffer.UTF16Length(line)+1)),
	}); err != nil {
		t.Fatalf("ApplyEdits failed: %v", err)
	}
	if mustValue(t, m) != "" {
		t.Fatalf("expected empty document, got %q", mustValue(t, m))
	}
	if !m.MightContainRTL() || !m.MightContainNonBasicASCII() {
		t.Error("flags must never be cleared by deletions")
	}
}

func TestSetEOL(t *testing.T) {
	m := New("one\ntwo")

	var got *ContentChangedEvent
	m.OnContentChanged(func(e *ContentChangedEvent) { got = e })

	if err := m.SetEOL(buffer.LineEndingCRLF); err != nil {
		t.Fatalf("SetEOL failed: %v", err)
	}

	if mustValue(t, m) != "one\r\ntwo" {
		t.Errorf("expected CRLF serialization, got %q", mustValue(t, m))
	}
	if m.VersionID() != 2 {
		t.Errorf("EOL change must advance version, got %d", m.VersionID())
	}
	if got == nil || !got.IsFlush {
		t.Fatal("EOL change must emit a flush event")
	}
	if got.EOL != "\r\n" {
		t.Errorf("expected event EOL \\r\\n, got %q", got.EOL)
	}
	if got.Changes[0].Text != "one\r\ntwo" {
		t.Errorf("flush change must carry the full document, got %q", got.Changes[0].Text)
	}

	// Setting the same EOL again is a no-op.
	got = nil
	if err := m.SetEOL(buffer.LineEndingCRLF); err != nil {
		t.Fatalf("SetEOL failed: %v", err)
	}
	if got != nil || m.VersionID() != 2 {
		t.Error("unchanged EOL must not bump version or notify")
	}
}

func TestSetValueFlush(t *testing.T) {
	m := New("old content")

	var got *ContentChangedEvent
	m.OnContentChanged(func(e *ContentChangedEvent) { got = e })

	if err := m.SetValue("new\ncontent"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	if mustValue(t, m) != "new\ncontent" {
		t.Errorf("unexpected value %q", mustValue(t, m))
	}
	if got == nil || !got.IsFlush {
		t.Fatal("SetValue must emit a flush event")
	}
	if m.VersionID() != 2 {
		t.Errorf("expected version 2, got %d", m.VersionID())
	}
}

func TestReentrantEditFromListener(t *testing.T) {
	m := New("base")

	var order []int
	first := true
	m.OnContentChanged(func(e *ContentChangedEvent) {
		order = append(order, e.VersionID)
		if first {
			first = false
			// Reentrant batch: must complete, including its own
			// notification, before remaining listeners see the
			// outer event.
			if _, err := m.ApplyEdits([]buffer.EditOperation{
				buffer.EditInsert(buffer.NewPosition(1, 1), "!"),
			}); err != nil {
				t.Errorf("nested ApplyEdits failed: %v", err)
			}
		}
	})

	var second []int
	m.OnContentChanged(func(e *ContentChangedEvent) {
		second = append(second, e.VersionID)
	})

	if _, err := m.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(1, 5), "?"),
	}); err != nil {
		t.Fatalf("ApplyEdits failed: %v", err)
	}

	if mustValue(t, m) != "!base?" {
		t.Errorf("unexpected value %q", mustValue(t, m))
	}
	if m.VersionID() != 3 {
		t.Errorf("expected version 3, got %d", m.VersionID())
	}
	// First listener: outer v2, then nested v3.
	if len(order) != 2 || order[0] != 2 || order[1] != 3 {
		t.Errorf("first listener saw %v, want [2 3]", order)
	}
	// Second listener: nested v3 completes before it sees outer v2.
	if len(second) != 2 || second[0] != 3 || second[1] != 2 {
		t.Errorf("second listener saw %v, want [3 2]", second)
	}
}

func TestListenerPanicDoesNotUnwind(t *testing.T) {
	m := New("text")

	m.OnContentChanged(func(*ContentChangedEvent) {
		panic("listener bug")
	})
	var reached bool
	m.OnContentChanged(func(*ContentChangedEvent) {
		reached = true
	})

	if _, err := m.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(1, 1), "x"),
	}); err != nil {
		t.Fatalf("ApplyEdits failed: %v", err)
	}

	if !reached {
		t.Error("a panicking listener must not stop the fan-out")
	}
	if mustValue(t, m) != "xtext" {
		t.Errorf("unexpected value %q", mustValue(t, m))
	}
}

func TestSubscriptionDispose(t *testing.T) {
	m := New("text")

	var events int
	sub := m.OnContentChanged(func(*ContentChangedEvent) { events++ })
	sub.Dispose()

	if _, err := m.ApplyEdits([]buffer.EditOperation{
		buffer.EditInsert(buffer.NewPosition(1, 1), "x"),
	}); err != nil {
		t.Fatalf("ApplyEdits failed: %v", err)
	}
	if events != 0 {
		t.Errorf("disposed subscription must not fire, got %d", events)
	}
}

func TestDisposedModelRejectsOperations(t *testing.T) {
	m := New("text")
	m.Dispose()

	if _, err := m.ApplyEdits(nil); !errors.Is(err, ErrDisposed) {
		t.Errorf("expected ErrDisposed from ApplyEdits, got %v", err)
	}
	if err := m.SetEOL(buffer.LineEndingCRLF); !errors.Is(err, ErrDisposed) {
		t.Errorf("expected ErrDisposed from SetEOL, got %v", err)
	}
	if err := m.SetValue("x"); !errors.Is(err, ErrDisposed) {
		t.Errorf("expected ErrDisposed from SetValue, got %v", err)
	}
	if _, err := m.Value(); !errors.Is(err, ErrDisposed) {
		t.Errorf("expected ErrDisposed from Value, got %v", err)
	}

	// Dispose is idempotent.
	m.Dispose()
	if !m.IsDisposed() {
		t.Error("expected IsDisposed")
	}
}

func TestTrivialEventFlag(t *testing.T) {
	m := New("one\n")

	var got *ContentChangedEvent
	m.OnContentChanged(func(e *ContentChangedEvent) { got = e })

	if _, err := m.ApplyEdits([]buffer.EditOperation{
		{Range: buffer.NewRange(2, 1, 2, 1), Lines: []string{"\t"}, IsAutoWhitespace: true},
	}); err != nil {
		t.Fatalf("ApplyEdits failed: %v", err)
	}

	if got == nil || !got.IsTrivial {
		t.Error("all-auto-whitespace batch should emit a trivial event")
	}
}
