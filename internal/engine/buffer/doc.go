// Package buffer provides the line-array text buffer at the heart of
// the document engine: position and range primitives, text source
// parsing, offset conversion, search, and atomic batch edit
// application.
//
// The buffer package provides:
//
//   - Position/Range primitives with 1-based lines and UTF-16 code
//     unit columns
//   - TextSource: one-time parsing of raw input into lines with
//     end-of-line detection and character-class flags
//   - Validated, sorted, overlap-checked batch edit application with
//     inverse-range computation for undo
//   - Coalescing of touching edits into single contiguous replacements
//   - Line ending policy (LF/CRLF) applied at serialization time
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello World", buffer.LineEndingLF)
//
//	res, err := buf.ApplyEdits([]buffer.EditOperation{
//	    buffer.EditInsert(buffer.NewPosition(1, 6), ","),
//	})
//	// buf.Value() == "Hello, World"
//	// res.Reverse[0] undoes the insertion
//
// A Buffer is a pure transform from (old lines, edit batch) to
// (new lines, reverse edits): it holds no subscriber state and is not
// safe for concurrent use. The observable, versioned layer lives in
// the model package, which owns exactly one Buffer at a time.
package buffer
