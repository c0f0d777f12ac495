package engine

import "fmt"

// opKind tags the editing operation that last mutated the document.
// Runs of the same kind share one undo checkpoint, so a burst of typing
// or a held backspace reverts as a single step.
type opKind int

const (
	opNone opKind = iota // never groups
	opInsert
	opBackspace
	opDelete
)

// checkpoint opens an undo step for an edit of the given kind unless it
// extends a running group of the same kind or an explicit edit group is
// open.
func (e *Engine) checkpoint(kind opKind) {
	if e.grouping {
		return
	}
	if kind == opNone || kind != e.lastOp {
		e.hist.MakeSnapshot(e.cursorPos)
	}
	e.lastOp = kind
}

// replaceRange is the single mutation path: checkpoint, edit through
// the history log, then rebuild the derived cursor and viewport state.
func (e *Engine) replaceRange(kind opKind, start, end int, text []rune) {
	e.checkpoint(kind)
	e.hist.ReplaceSlice(e.buf, start, end, text)
	e.cursorPos = start + len(text)
	e.selectionPos = e.cursorPos
	e.refreshAnchorX()
	e.ensureCursorVisible()
}

// InsertRune inserts r at the cursor, replacing the selection if one is
// active.
func (e *Engine) InsertRune(r rune) {
	defer e.guard()()
	start, end := e.selectionRange()
	e.replaceRange(opInsert, start, end, []rune{r})
}

// Backspace deletes the selection, or the rune before the cursor when
// nothing is selected. At the document start it does nothing.
func (e *Engine) Backspace() {
	defer e.guard()()
	start, end := e.selectionRange()
	if start == end {
		if start == 0 {
			return
		}
		start--
	}
	e.replaceRange(opBackspace, start, end, nil)
}

// Delete deletes the selection, or the rune after the cursor when
// nothing is selected. At the document end it does nothing.
func (e *Engine) Delete() {
	defer e.guard()()
	start, end := e.selectionRange()
	if start == end {
		if end == e.buf.Len() {
			return
		}
		end++
	}
	e.replaceRange(opDelete, start, end, nil)
}

// Paste replaces the selection with text, or inserts it at the cursor.
// Each paste is its own undo step.
func (e *Engine) Paste(text string) {
	defer e.guard()()
	start, end := e.selectionRange()
	if start == end && text == "" {
		return
	}
	e.replaceRange(opNone, start, end, []rune(text))
}

// CutSelection removes the selected text and returns it. With no
// selection it returns the empty string and edits nothing.
func (e *Engine) CutSelection() string {
	defer e.guard()()
	start, end := e.selectionRange()
	if start == end {
		return ""
	}
	text := e.buf.Slice(start, end)
	e.replaceRange(opNone, start, end, nil)
	return text
}

// Replace substitutes text for the range [start, end) as one undo step,
// leaving the cursor after the inserted text. The range must satisfy
// 0 <= start <= end <= Len().
func (e *Engine) Replace(start, end int, text string) {
	defer e.guard()()
	e.checkPos(start)
	e.checkPos(end)
	if start > end {
		panic(fmt.Sprintf("engine: inverted range [%d,%d)", start, end))
	}
	e.replaceRange(opNone, start, end, []rune(text))
}

// MakeSnapshot opens an explicit undo checkpoint at the current state.
// Hosts call it before a compound action so the whole action reverts
// together.
func (e *Engine) MakeSnapshot() {
	defer e.guard()()
	e.hist.MakeSnapshot(e.cursorPos)
	e.lastOp = opNone
}

// BeginGroup opens an undo checkpoint and holds it open: every edit
// until EndGroup lands in the same undo step, regardless of kind. Hosts
// use it for compound actions whose individual edits must not split,
// such as a script run.
func (e *Engine) BeginGroup() {
	defer e.guard()()
	e.hist.MakeSnapshot(e.cursorPos)
	e.lastOp = opNone
	e.grouping = true
}

// EndGroup closes the group opened by BeginGroup. The next edit opens a
// fresh undo step.
func (e *Engine) EndGroup() {
	defer e.guard()()
	e.grouping = false
	e.lastOp = opNone
}

// Undo reverts the most recent undo step and restores the cursor
// recorded with it. The selection collapses.
func (e *Engine) Undo() {
	defer e.guard()()
	if pos, ok := e.hist.Undo(e.buf, e.cursorPos); ok {
		e.cursorPos, e.selectionPos = pos, pos
		e.refreshAnchorX()
		e.ensureCursorVisible()
	}
	e.lastOp = opNone
	e.grouping = false
}

// Redo re-applies the most recently undone step.
func (e *Engine) Redo() {
	defer e.guard()()
	if pos, ok := e.hist.Redo(e.buf, e.cursorPos); ok {
		e.cursorPos, e.selectionPos = pos, pos
		e.refreshAnchorX()
		e.ensureCursorVisible()
	}
	e.lastOp = opNone
	e.grouping = false
}
