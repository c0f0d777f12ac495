package engine

import (
	"fmt"
	"unicode"
)

// Movement methods move the cursor and never touch the selection
// endpoint. Hosts that want plain (non-extending) movement follow the
// call with ClearSelection; holding the endpoint still while the cursor
// moves is what extends a selection.

// CursorPos returns the cursor's document offset.
func (e *Engine) CursorPos() int {
	defer e.guard()()
	return e.cursorPos
}

// CursorLineCol returns the cursor's zero-based line index and rune
// column within that line.
func (e *Engine) CursorLineCol() (line, col int) {
	defer e.guard()()
	li := e.buf.FindLine(e.cursorPos)
	return li, e.cursorPos - e.buf.Line(li).Start
}

// Selection returns the selected range in document order. start == end
// when nothing is selected.
func (e *Engine) Selection() (start, end int) {
	defer e.guard()()
	return e.selectionRange()
}

// HasSelection reports whether the selection is non-empty.
func (e *Engine) HasSelection() bool {
	defer e.guard()()
	return e.cursorPos != e.selectionPos
}

// SelectedText returns the selected text, empty when nothing is
// selected.
func (e *Engine) SelectedText() string {
	defer e.guard()()
	start, end := e.selectionRange()
	return e.buf.Slice(start, end)
}

// ClearSelection collapses the selection onto the cursor.
func (e *Engine) ClearSelection() {
	defer e.guard()()
	e.selectionPos = e.cursorPos
}

// SetCursor places the cursor at pos and collapses the selection. pos
// must be in [0, Len()].
func (e *Engine) SetCursor(pos int) {
	defer e.guard()()
	e.checkPos(pos)
	e.setCursor(pos)
	e.selectionPos = pos
}

// DocumentStart moves the cursor to offset zero.
func (e *Engine) DocumentStart() {
	defer e.guard()()
	e.setCursor(0)
}

// DocumentEnd moves the cursor past the last rune.
func (e *Engine) DocumentEnd() {
	defer e.guard()()
	e.setCursor(e.buf.Len())
}

// Left moves the cursor one rune left, clamped at the document start.
func (e *Engine) Left() {
	defer e.guard()()
	e.setCursor(clamp(e.cursorPos-1, 0, e.buf.Len()))
}

// Right moves the cursor one rune right, clamped at the document end.
func (e *Engine) Right() {
	defer e.guard()()
	e.setCursor(clamp(e.cursorPos+1, 0, e.buf.Len()))
}

// WordLeft moves the cursor to the start of the previous word: back one
// rune, then further while the position is not a space-to-word
// transition.
func (e *Engine) WordLeft() {
	defer e.guard()()
	p := e.cursorPos
	if p > 0 {
		p--
		for p > 0 && !(isSpaceRune(e.buf.CharAt(p-1)) && !isSpaceRune(e.buf.CharAt(p))) {
			p--
		}
	}
	e.setCursor(p)
}

// WordRight moves the cursor to the end of the next word: forward one
// rune, then further while the position is not a word-to-space
// transition.
func (e *Engine) WordRight() {
	defer e.guard()()
	p, n := e.cursorPos, e.buf.Len()
	if p < n {
		p++
		for p < n && !(!isSpaceRune(e.buf.CharAt(p-1)) && isSpaceRune(e.buf.CharAt(p))) {
			p++
		}
	}
	e.setCursor(p)
}

// Home moves the cursor to the start of its current sub-line, so a
// soft-wrapped line homes to the wrap boundary rather than the line
// start.
func (e *Engine) Home() {
	defer e.guard()()
	li := e.buf.FindLine(e.cursorPos)
	ln := e.buf.Line(li)
	subs := e.layoutFor(li).SubLines()
	k := subLineIndex(subs, e.cursorPos-ln.Start)
	e.setCursor(ln.Start + subs[k])
}

// End moves the cursor to the end of its current sub-line.
func (e *Engine) End() {
	defer e.guard()()
	li := e.buf.FindLine(e.cursorPos)
	ln := e.buf.Line(li)
	subs := e.layoutFor(li).SubLines()
	if k := subLineIndex(subs, e.cursorPos-ln.Start); k+1 < len(subs) {
		e.setCursor(ln.Start + subs[k+1])
	} else {
		e.setCursor(ln.End)
	}
}

// Up moves the cursor one text row up, keeping the sticky horizontal
// anchor captured by the last horizontal movement.
func (e *Engine) Up() {
	defer e.guard()()
	e.moveVertical(-e.shaper.LineHeight())
}

// Down moves the cursor one text row down.
func (e *Engine) Down() {
	defer e.guard()()
	e.moveVertical(e.shaper.LineHeight())
}

// PageUp moves the cursor up by almost a viewport, overlapping one row
// so consecutive pages share context.
func (e *Engine) PageUp() {
	defer e.guard()()
	e.moveVertical(-e.pageStep())
}

// PageDown moves the cursor down by almost a viewport.
func (e *Engine) PageDown() {
	defer e.guard()()
	e.moveVertical(e.pageStep())
}

// Click places the cursor at the document position nearest the viewport
// coordinate (x, y). The selection endpoint stays put.
func (e *Engine) Click(x, y int) {
	defer e.guard()()
	e.setCursor(e.coordToPos(x, y))
}

// DoubleClick selects the run of letters and digits around the position
// nearest (x, y).
func (e *Engine) DoubleClick(x, y int) {
	defer e.guard()()
	pos := e.coordToPos(x, y)
	start, end := pos, pos
	for start > 0 && isWordRune(e.buf.CharAt(start-1)) {
		start--
	}
	for end < e.buf.Len() && isWordRune(e.buf.CharAt(end)) {
		end++
	}
	e.selectionPos = start
	e.setCursor(end)
}

// SelectAll selects the whole document without scrolling.
func (e *Engine) SelectAll() {
	defer e.guard()()
	e.selectionPos = 0
	e.cursorPos = e.buf.Len()
	e.refreshAnchorX()
	e.lastOp = opNone
}

// setCursor finishes a horizontal cursor move: recapture the sticky x,
// scroll the cursor into view, and break any running edit group.
func (e *Engine) setCursor(pos int) {
	e.cursorPos = pos
	e.refreshAnchorX()
	e.ensureCursorVisible()
	e.lastOp = opNone
}

// moveVertical moves the cursor dy pixels vertically, steering by the
// sticky anchorX instead of the cursor's own x so columns stay aligned
// across rows of different widths. anchorX itself is left alone.
func (e *Engine) moveVertical(dy int) {
	_, y := e.posToCoord(e.cursorPos)
	e.cursorPos = e.coordToPos(e.anchorX, y+dy)
	e.ensureCursorVisible()
	e.lastOp = opNone
}

// refreshAnchorX recaptures the sticky x from the cursor's shaped
// position within its own line.
func (e *Engine) refreshAnchorX() {
	li := e.buf.FindLine(e.cursorPos)
	ln := e.buf.Line(li)
	x, _ := e.layoutFor(li).CursorCoords(e.cursorPos - ln.Start)
	e.anchorX = x
}

func (e *Engine) pageStep() int {
	return e.height - e.shaper.LineHeight()/2
}

// selectionRange returns cursor and selection endpoint in document
// order.
func (e *Engine) selectionRange() (start, end int) {
	if e.cursorPos < e.selectionPos {
		return e.cursorPos, e.selectionPos
	}
	return e.selectionPos, e.cursorPos
}

func (e *Engine) checkPos(pos int) {
	if pos < 0 || pos > e.buf.Len() {
		panic(fmt.Sprintf("engine: position %d outside document of length %d", pos, e.buf.Len()))
	}
}

// subLineIndex returns the index of the sub-line containing the
// line-relative offset off: the greatest k with subs[k] <= off.
func subLineIndex(subs []int, off int) int {
	k := 0
	for k+1 < len(subs) && subs[k+1] <= off {
		k++
	}
	return k
}

func isSpaceRune(r rune) bool { return unicode.IsSpace(r) }

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
