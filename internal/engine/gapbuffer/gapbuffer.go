package gapbuffer

import "fmt"

// Line describes one newline-delimited line. Start is the rune offset of
// the line's first character; End is the offset of its terminating
// newline, or the document length for the final line. Data carries the
// caller's payload and is zeroed whenever an edit rebuilds the record.
type Line[T any] struct {
	Start int
	End   int
	Data  T
}

// Buffer stores document characters and line-boundary records in two gap
// buffers kept in lockstep. The zero value is not usable; call New.
type Buffer[T any] struct {
	charsLeft  []rune
	charsRight []rune // reversed

	linesLeft  []Line[T]
	linesRight []Line[T] // reversed, offsets mirrored against Len()
}

// New returns an empty buffer holding the single line {0, 0}.
func New[T any]() *Buffer[T] {
	return &Buffer[T]{linesLeft: []Line[T]{{}}}
}

// Len returns the document length in runes.
func (b *Buffer[T]) Len() int {
	return len(b.charsLeft) + len(b.charsRight)
}

// NumLines returns the number of line records, at least 1.
func (b *Buffer[T]) NumLines() int {
	return len(b.linesLeft) + len(b.linesRight)
}

// CharAt returns the rune at pos. pos must be in [0, Len()).
func (b *Buffer[T]) CharAt(pos int) rune {
	if pos < 0 || pos >= b.Len() {
		panic(fmt.Sprintf("gapbuffer: CharAt(%d) outside document of length %d", pos, b.Len()))
	}
	if pos < len(b.charsLeft) {
		return b.charsLeft[pos]
	}
	return b.charsRight[len(b.charsRight)-1-(pos-len(b.charsLeft))]
}

// Runes returns a copy of the text in [start, end).
func (b *Buffer[T]) Runes(start, end int) []rune {
	b.checkRange(start, end)
	out := make([]rune, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, b.CharAt(i))
	}
	return out
}

// Slice returns the text in [start, end) as a string.
func (b *Buffer[T]) Slice(start, end int) string {
	return string(b.Runes(start, end))
}

// String returns the full document text.
func (b *Buffer[T]) String() string {
	return b.Slice(0, b.Len())
}

// Line returns the record for line i with Start and End resolved to
// absolute offsets. i must be in [0, NumLines()).
func (b *Buffer[T]) Line(i int) Line[T] {
	b.checkLine(i)
	if i < len(b.linesLeft) {
		return b.linesLeft[i]
	}
	n := b.Len()
	m := b.linesRight[len(b.linesRight)-1-(i-len(b.linesLeft))]
	return Line[T]{Start: n - m.Start, End: n - m.End, Data: m.Data}
}

// SetLineData stores payload data on line i.
func (b *Buffer[T]) SetLineData(i int, data T) {
	b.checkLine(i)
	if i < len(b.linesLeft) {
		b.linesLeft[i].Data = data
		return
	}
	b.linesRight[len(b.linesRight)-1-(i-len(b.linesLeft))].Data = data
}

// ResetLineData zeroes every line's payload.
func (b *Buffer[T]) ResetLineData() {
	var zero T
	for i := range b.linesLeft {
		b.linesLeft[i].Data = zero
	}
	for i := range b.linesRight {
		b.linesRight[i].Data = zero
	}
}

// FindLine returns the index of the line containing pos: the unique i
// with Line(i).Start <= pos <= Line(i).End. pos must be in [0, Len()];
// pos == Len() resolves to the last line.
func (b *Buffer[T]) FindLine(pos int) int {
	if pos < 0 || pos > b.Len() {
		panic(fmt.Sprintf("gapbuffer: FindLine(%d) outside document of length %d", pos, b.Len()))
	}
	left, right := 0, b.NumLines()
	for right-left > 1 {
		mid := (left + right) / 2
		if b.Line(mid).Start <= pos {
			left = mid
		} else {
			right = mid
		}
	}
	return left
}

// ReplaceSlice replaces the text in [start, end) with text, splitting and
// merging line records as newlines appear or vanish. start == end inserts;
// empty text deletes. Affected lines are rebuilt with zeroed payloads.
//
// The rescan bounds come from the old line table: from the start of the
// first affected line to the end of the last affected line adjusted by the
// length delta. Only that span is rescanned for newlines.
func (b *Buffer[T]) ReplaceSlice(start, end int, text []rune) {
	b.checkRange(start, end)

	lineLeft := b.FindLine(start)
	lineRight := b.FindLine(end) + 1
	recomputeLeft := b.Line(lineLeft).Start
	recomputeRight := b.Line(lineRight-1).End - (end - start) + len(text)

	b.moveLineGap(lineLeft)
	b.linesRight = b.linesRight[:len(b.linesRight)-(lineRight-lineLeft)]

	b.moveCharGap(start)
	b.charsRight = b.charsRight[:len(b.charsRight)-(end-start)]
	b.charsLeft = append(b.charsLeft, text...)

	lineStart := recomputeLeft
	for i := recomputeLeft; i < recomputeRight; i++ {
		if b.CharAt(i) == '\n' {
			b.linesLeft = append(b.linesLeft, Line[T]{Start: lineStart, End: i})
			lineStart = i + 1
		}
	}
	b.linesLeft = append(b.linesLeft, Line[T]{Start: lineStart, End: recomputeRight})
}

// moveCharGap relocates the character gap so that pos characters sit on
// the left side.
func (b *Buffer[T]) moveCharGap(pos int) {
	for len(b.charsLeft) > pos {
		r := b.charsLeft[len(b.charsLeft)-1]
		b.charsLeft = b.charsLeft[:len(b.charsLeft)-1]
		b.charsRight = append(b.charsRight, r)
	}
	for len(b.charsLeft) < pos {
		r := b.charsRight[len(b.charsRight)-1]
		b.charsRight = b.charsRight[:len(b.charsRight)-1]
		b.charsLeft = append(b.charsLeft, r)
	}
}

// moveLineGap relocates the line gap so that idx records sit on the left
// side. Records crossing the gap have their offsets mirrored against the
// current length; mirroring twice with the same length restores them.
func (b *Buffer[T]) moveLineGap(idx int) {
	n := b.Len()
	for len(b.linesLeft) > idx {
		l := b.linesLeft[len(b.linesLeft)-1]
		b.linesLeft = b.linesLeft[:len(b.linesLeft)-1]
		b.linesRight = append(b.linesRight, Line[T]{Start: n - l.Start, End: n - l.End, Data: l.Data})
	}
	for len(b.linesLeft) < idx {
		l := b.linesRight[len(b.linesRight)-1]
		b.linesRight = b.linesRight[:len(b.linesRight)-1]
		b.linesLeft = append(b.linesLeft, Line[T]{Start: n - l.Start, End: n - l.End, Data: l.Data})
	}
}

func (b *Buffer[T]) checkRange(start, end int) {
	if start < 0 || start > end || end > b.Len() {
		panic(fmt.Sprintf("gapbuffer: range [%d,%d) invalid for document of length %d", start, end, b.Len()))
	}
}

func (b *Buffer[T]) checkLine(i int) {
	if i < 0 || i >= b.NumLines() {
		panic(fmt.Sprintf("gapbuffer: line %d outside [0,%d)", i, b.NumLines()))
	}
}
