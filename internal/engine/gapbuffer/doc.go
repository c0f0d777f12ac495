// Package gapbuffer implements the document store for the editing engine:
// a gap buffer that keeps characters and line-boundary records side by
// side, so one positional edit updates both.
//
// Each sequence is split around a movable gap. Content before the gap
// lives in a left slice; content after it lives in a right slice held in
// reverse order, so moving the gap is a pop from one side and a push onto
// the other. Line records on the right side additionally store their
// offsets mirrored against the current document length, which makes every
// line after an edit shift automatically when the edit changes the
// document length.
//
// All offsets are rune offsets. A buffer always holds at least one line;
// the empty document is the single line {0, 0}. Line records carry a
// caller-defined payload that is reset to its zero value whenever an edit
// rebuilds the record, which gives callers free invalidation for per-line
// caches:
//
//	buf := gapbuffer.New[myCache]()
//	buf.ReplaceSlice(0, 0, []rune("hello\nworld"))
//	buf.SetLineData(1, cached)          // survives edits to other lines
//	buf.ReplaceSlice(6, 7, []rune("W")) // line 1 payload reset to zero
//
// Edit cost is proportional to the gap relocation distance plus the
// rescanned span, never to the document length.
package gapbuffer
