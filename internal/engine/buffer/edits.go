package buffer

import (
	"sort"
	"strings"
)

// EditOperation is a single range-replacement request submitted as
// part of a batch.
type EditOperation struct {
	// ID is an opaque correlation token. The engine never interprets
	// it; it is threaded through to the matching reverse edit so the
	// caller can tie inverse edits back to their requests. Empty means
	// no identifier.
	ID string

	// Range is the document span to replace. It is clamped to document
	// bounds and normalized during validation.
	Range Range

	// Lines is the replacement text as an ordered sequence of line
	// strings. A single element with no line breaks is a same-line
	// replacement; nil (or a single empty string) is a deletion. A
	// batch element count above one always introduces count-1 line
	// breaks, even between empty strings: an empty string between two
	// breaks is a genuinely blank line.
	Lines []string

	// ForceMoveMarkers requests that markers sitting exactly at the
	// edit's boundary be moved past the inserted text instead of
	// staying put. The engine carries the flag verbatim; the marker
	// tracking collaborator decides the behavior.
	ForceMoveMarkers bool

	// IsAutoWhitespace marks the edit as a trimmable trailing
	// whitespace insertion, eligible for special handling by callers.
	IsAutoWhitespace bool
}

// EditReplace creates an edit replacing a range with text.
// The text may contain line breaks.
func EditReplace(r Range, text string) EditOperation {
	return EditOperation{Range: r, Lines: textToLines(text)}
}

// EditInsert creates an edit inserting text at a position.
func EditInsert(p Position, text string) EditOperation {
	return EditOperation{Range: EmptyRangeAt(p), Lines: textToLines(text)}
}

// EditDelete creates an edit removing a range of text.
func EditDelete(r Range) EditOperation {
	return EditOperation{Range: r}
}

// textToLines normalizes replacement text into the line form used by
// EditOperation: nil for an empty replacement.
func textToLines(text string) []string {
	if text == "" {
		return nil
	}
	return SplitLines(text)
}

// ReverseEdit describes how to undo one applied edit operation: the
// range in the post-edit document spanning the text the edit inserted,
// plus the original text that the edit replaced. Re-applying
// Range/Text as an edit reverses the operation.
type ReverseEdit struct {
	ID    string // the submitting operation's correlation token
	Range Range  // inverse range in the post-edit document
	Text  string // the replaced original text
}

// ContentChange describes one contiguous replacement actually applied
// to the line array. Coordinates refer to the document state this
// change was applied to.
type ContentChange struct {
	Range            Range  // replaced span
	RangeOffset      int    // absolute UTF-16 offset of the span start
	RangeLength      int    // UTF-16 length of the replaced span
	Text             string // inserted text, joined with the buffer's EOL
	ForceMoveMarkers bool
}

// ApplyResult aggregates the outcome of one edit batch.
type ApplyResult struct {
	// Reverse holds one entry per submitted operation, in submission
	// order.
	Reverse []ReverseEdit

	// Changes holds the applied contiguous replacements in application
	// order (descending document offsets).
	Changes []ContentChange

	// ContentChanged is false when every operation reduced to a no-op.
	ContentChanged bool

	// LineCountChanged is true when the batch changed the number of
	// lines.
	LineCountChanged bool

	// IsTrivial is true when every submitted operation was flagged as
	// auto whitespace.
	IsTrivial bool
}

// validatedOperation is an input operation augmented with everything
// the apply pass needs, computed once before any mutation. It is owned
// exclusively by the in-progress ApplyEdits call.
type validatedOperation struct {
	sortIndex   int // position in the input sequence; deterministic tie-break
	id          string
	rng         Range
	lines       []string
	forceMove   bool
	rangeOffset int // absolute UTF-16 offset of the range start
	rangeLength int // UTF-16 length of the replaced range
	noop        bool
}

// mergedOperation is the minimal-spanning merge of one or more
// touching validated operations: one contiguous replacement covering
// the union of their ranges, with unaffected inter-edit text spliced
// between their replacement lines.
type mergedOperation struct {
	rng         Range
	rangeOffset int
	rangeLength int
	lines       []string
	forceMove   bool
}

// ApplyEdits validates, normalizes and applies a batch of possibly
// out-of-order, possibly touching edit operations as one atomic
// transformation.
//
// Operations are clamped to document bounds, sorted by start offset
// (submission order breaks ties, so multiple insertions at one point
// apply in submission order), and rejected wholesale with
// ErrOverlappingEdits if any two truly overlap. Touching operations
// are merged into one contiguous replacement per affected region and
// the line array is rewritten in a single pass per region.
//
// On error no mutation is visible. On success the result carries one
// reverse edit per submitted operation and one content change per
// applied region.
func (b *Buffer) ApplyEdits(ops []EditOperation) (*ApplyResult, error) {
	res := &ApplyResult{}
	if len(ops) == 0 {
		return res, nil
	}

	res.IsTrivial = true
	validated := make([]*validatedOperation, len(ops))
	for i, op := range ops {
		if !op.IsAutoWhitespace {
			res.IsTrivial = false
		}
		r := b.ValidateRange(op.Range)
		lines := op.Lines
		if len(lines) == 1 && lines[0] == "" {
			lines = nil
		}
		v := &validatedOperation{
			sortIndex:   i,
			id:          op.ID,
			rng:         r,
			lines:       lines,
			forceMove:   op.ForceMoveMarkers,
			rangeOffset: b.OffsetAt(r.Start()),
		}
		v.rangeLength = b.OffsetAt(r.End()) - v.rangeOffset
		v.noop = v.rangeLength == 0 && v.lines == nil
		validated[i] = v
	}

	sorted := make([]*validatedOperation, len(validated))
	copy(sorted, validated)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].rangeOffset != sorted[j].rangeOffset {
			return sorted[i].rangeOffset < sorted[j].rangeOffset
		}
		return sorted[i].sortIndex < sorted[j].sortIndex
	})

	// Overlap is a caller contract violation, checked before any
	// mutation so rejection leaves the document untouched.
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.rangeOffset+prev.rangeLength > cur.rangeOffset {
			return nil, ErrOverlappingEdits
		}
	}

	inverse := computeInverseRanges(sorted)
	res.Reverse = make([]ReverseEdit, len(ops))
	for k, v := range sorted {
		res.Reverse[v.sortIndex] = ReverseEdit{
			ID:    v.id,
			Range: inverse[k],
			Text:  b.valueInRange(v.rng),
		}
	}

	merged := b.coalesce(sorted)

	lineCountBefore := len(b.lines)
	eol := b.eol.Sequence()
	for i := len(merged) - 1; i >= 0; i-- {
		m := merged[i]
		res.Changes = append(res.Changes, ContentChange{
			Range:            m.rng,
			RangeOffset:      m.rangeOffset,
			RangeLength:      m.rangeLength,
			Text:             strings.Join(m.lines, eol),
			ForceMoveMarkers: m.forceMove,
		})
		b.spliceLines(m.rng, m.lines)
	}

	res.ContentChanged = len(res.Changes) > 0
	res.LineCountChanged = len(b.lines) != lineCountBefore
	if !res.ContentChanged {
		res.IsTrivial = false
	}
	return res, nil
}

// computeInverseRanges derives, for each sorted operation, the range
// in the post-edit document that exactly spans its replacement text.
// Later operations' positions are shifted by the net line/column
// effect of all earlier operations in the batch; the column shift only
// survives while no line break has intervened, since columns restart
// on a fresh line.
func computeInverseRanges(ops []*validatedOperation) []Range {
	result := make([]Range, len(ops))
	var prev *validatedOperation
	prevEndLine, prevEndColumn := 0, 0

	for i, op := range ops {
		var startLine, startColumn int
		if prev == nil {
			startLine = op.rng.StartLine
			startColumn = op.rng.StartColumn
		} else if prev.rng.EndLine == op.rng.StartLine {
			startLine = prevEndLine
			startColumn = prevEndColumn + (op.rng.StartColumn - prev.rng.EndColumn)
		} else {
			startLine = prevEndLine + (op.rng.StartLine - prev.rng.EndLine)
			startColumn = op.rng.StartColumn
		}

		endLine, endColumn := startLine, startColumn
		if n := len(op.lines); n == 1 {
			endColumn = startColumn + UTF16Length(op.lines[0])
		} else if n > 1 {
			endLine = startLine + n - 1
			endColumn = UTF16Length(op.lines[n-1]) + 1
		}

		result[i] = Range{
			StartLine:   startLine,
			StartColumn: startColumn,
			EndLine:     endLine,
			EndColumn:   endColumn,
		}
		prev = op
		prevEndLine, prevEndColumn = endLine, endColumn
	}
	return result
}

// coalesce merges sorted, non-overlapping operations that affect a
// contiguous line region into one replacement each. Replacement lines
// of consecutive members are joined through the verbatim original text
// between them, so adjacent edits never gain an accidental line break
// at the seam. True no-ops are dropped here and never reach the line
// array or the emitted changes.
func (b *Buffer) coalesce(sorted []*validatedOperation) []*mergedOperation {
	var merged []*mergedOperation
	var cur *mergedOperation
	var curLast *validatedOperation

	for _, op := range sorted {
		if op.noop {
			continue
		}
		if cur != nil && op.rng.StartLine <= cur.rng.EndLine {
			// Same affected line region: splice the untouched gap
			// between the previous member's end and this start.
			gap := Range{
				StartLine:   curLast.rng.EndLine,
				StartColumn: curLast.rng.EndColumn,
				EndLine:     op.rng.StartLine,
				EndColumn:   op.rng.StartColumn,
			}
			cur.lines = appendSpliced(cur.lines, SplitLines(b.valueInRange(gap)))
			cur.lines = appendSpliced(cur.lines, opLines(op))
			cur.rng = Range{
				StartLine:   cur.rng.StartLine,
				StartColumn: cur.rng.StartColumn,
				EndLine:     op.rng.EndLine,
				EndColumn:   op.rng.EndColumn,
			}
			cur.rangeLength = op.rangeOffset + op.rangeLength - cur.rangeOffset
			cur.forceMove = cur.forceMove || op.forceMove
			curLast = op
			continue
		}

		cur = &mergedOperation{
			rng:         op.rng,
			rangeOffset: op.rangeOffset,
			rangeLength: op.rangeLength,
			lines:       appendSpliced(nil, opLines(op)),
			forceMove:   op.forceMove,
		}
		curLast = op
		merged = append(merged, cur)
	}
	return merged
}

// opLines returns the operation's replacement lines in splice form:
// a deletion contributes one empty line.
func opLines(op *validatedOperation) []string {
	if op.lines == nil {
		return []string{""}
	}
	return op.lines
}

// appendSpliced appends src lines to dst, concatenating at the seam:
// the first src line continues the last dst line rather than starting
// a new one.
func appendSpliced(dst, src []string) []string {
	if len(dst) == 0 {
		dst = make([]string, len(src))
		copy(dst, src)
		return dst
	}
	dst[len(dst)-1] += src[0]
	return append(dst, src[1:]...)
}

// spliceLines replaces the lines spanned by a validated range with the
// composed replacement lines, in one pass.
func (b *Buffer) spliceLines(r Range, lines []string) {
	if len(lines) == 0 {
		lines = []string{""}
	}
	startIdx := r.StartLine - 1
	endIdx := r.EndLine - 1

	startLine := b.lines[startIdx]
	endLine := b.lines[endIdx]
	prefix := startLine[:ByteIndexForColumn(startLine, r.StartColumn)]
	suffix := endLine[ByteIndexForColumn(endLine, r.EndColumn):]

	newLines := make([]string, len(lines))
	copy(newLines, lines)
	newLines[0] = prefix + newLines[0]
	newLines[len(newLines)-1] += suffix

	b.lines = append(b.lines[:startIdx], append(newLines, b.lines[endIdx+1:]...)...)
}
