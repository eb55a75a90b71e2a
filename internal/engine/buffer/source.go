package buffer

import (
	"golang.org/x/text/unicode/bidi"
)

// LineEnding specifies the line ending style used when the document is
// serialized to a single string.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingLF:
		return "\\n"
	case LineEndingCRLF:
		return "\\r\\n"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	default:
		return "\n"
	}
}

// TextFlags describes character-level properties of a piece of text.
type TextFlags struct {
	// NonBasicASCII is true if the text contains any code point outside
	// tab, carriage return, line feed and the printable ASCII range 32..126.
	NonBasicASCII bool

	// RTL is true if the text contains a code point from a
	// right-to-left script (bidi classes R and AL).
	RTL bool

	// SurrogatePairs is true if the text contains a code point outside
	// the Basic Multilingual Plane, i.e. one that needs a UTF-16
	// surrogate pair.
	SurrogatePairs bool
}

// ScanText inspects a piece of text for the character classes tracked
// by TextFlags. A single linear scan covers all three flags.
func ScanText(s string) TextFlags {
	var f TextFlags
	for _, r := range s {
		if r == '\t' || r == '\n' || r == '\r' || (r >= 32 && r <= 126) {
			continue
		}
		f.NonBasicASCII = true
		if r >= 0x10000 {
			f.SurrogatePairs = true
		}
		if !f.RTL {
			props, _ := bidi.LookupRune(r)
			if c := props.Class(); c == bidi.R || c == bidi.AL {
				f.RTL = true
			}
		}
		if f.RTL && f.SurrogatePairs {
			// NonBasicASCII is already set; nothing left to learn.
			break
		}
	}
	return f
}

// TextSource is the parsed form of raw document input: the line array
// plus everything detected during the one-time scan. A TextSource is
// produced once at model construction and never mutated.
type TextSource struct {
	// Lines holds the document split into lines, without terminators.
	// Always at least one entry; an empty document is one empty line.
	Lines []string

	// EOL is the detected predominant line ending style.
	EOL LineEnding

	// ContainsNonBasicASCII reports a code point outside the printable
	// ASCII range anywhere in the source.
	ContainsNonBasicASCII bool

	// ContainsRTL reports a right-to-left script code point anywhere
	// in the source.
	ContainsRTL bool

	// ContainsSurrogatePairs reports a code point needing a UTF-16
	// surrogate pair anywhere in the source.
	ContainsSurrogatePairs bool
}

// NewTextSource parses raw text into lines and detects its properties.
// Lines are split on \r\n, \r and \n. The predominant line ending is
// chosen by majority vote; ties (including text with no terminators at
// all) favor the caller-supplied default.
func NewTextSource(raw string, defaultEOL LineEnding) *TextSource {
	lines, lfCount, crCount, crlfCount := splitLines(raw)

	eol := defaultEOL
	if crlfCount > lfCount+crCount {
		eol = LineEndingCRLF
	} else if lfCount+crCount > crlfCount {
		eol = LineEndingLF
	}

	flags := ScanText(raw)

	return &TextSource{
		Lines:                  lines,
		EOL:                    eol,
		ContainsNonBasicASCII:  flags.NonBasicASCII,
		ContainsRTL:            flags.RTL,
		ContainsSurrogatePairs: flags.SurrogatePairs,
	}
}

// SplitLines splits text on \r\n, \r and \n.
// The result always has at least one element: an empty string yields
// one empty line, and a trailing terminator yields a final empty line.
func SplitLines(text string) []string {
	lines, _, _, _ := splitLines(text)
	return lines
}

// splitLines is the shared splitter. It also counts each terminator
// style so the caller can run the end-of-line majority vote without a
// second pass.
func splitLines(text string) (lines []string, lfCount, crCount, crlfCount int) {
	lines = make([]string, 0, 16)
	start := 0
	i := 0
	for i < len(text) {
		switch text[i] {
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				crlfCount++
				i += 2
			} else {
				crCount++
				i++
			}
			start = i
		case '\n':
			lines = append(lines, text[start:i])
			lfCount++
			i++
			start = i
		default:
			i++
		}
	}
	lines = append(lines, text[start:])
	return lines, lfCount, crCount, crlfCount
}
