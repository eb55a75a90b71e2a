package buffer

import "strings"

// FindMatches returns the range of every occurrence of term, scanning
// line by line in document order. Matches never span line breaks, so
// term must not contain one. When matchCase is false, comparison uses
// ASCII case folding.
func (b *Buffer) FindMatches(term string, matchCase bool) []Range {
	if term == "" || strings.ContainsAny(term, "\r\n") {
		return nil
	}

	needle := term
	if !matchCase {
		needle = foldASCII(term)
	}

	var matches []Range
	for lineNumber, line := range b.lines {
		haystack := line
		if !matchCase {
			haystack = foldASCII(line)
		}
		from := 0
		for {
			idx := strings.Index(haystack[from:], needle)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(needle)
			matches = append(matches, Range{
				StartLine:   lineNumber + 1,
				StartColumn: ColumnForByteIndex(line, start),
				EndLine:     lineNumber + 1,
				EndColumn:   ColumnForByteIndex(line, end),
			})
			from = end
		}
	}
	return matches
}

// foldASCII lowercases ASCII letters only, leaving byte offsets
// stable for any input.
func foldASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	buf := []byte(s)
	for i, c := range buf {
		if c >= 'A' && c <= 'Z' {
			buf[i] = c + 'a' - 'A'
		}
	}
	return string(buf)
}
