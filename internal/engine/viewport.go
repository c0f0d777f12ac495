package engine

// The viewport anchors scrolling to a document offset plus the viewport
// y of that offset's row top, never to an absolute document-top pixel.
// Every walk below is bounded by the visible line count or the scroll
// distance, so no operation's cost grows with document length.

// Resize sets the viewport dimensions. A width change drops every
// cached layout, since wrap points move.
func (e *Engine) Resize(width, height int) {
	defer e.guard()()
	if width < 0 || height < 0 {
		panic("engine: negative viewport size")
	}
	if width == e.width && height == e.height {
		return
	}
	if width != e.width {
		e.buf.ResetLineData()
	}
	e.width, e.height = width, height
	e.refreshAnchorX()
	e.ensureCursorVisible()
}

// Scroll moves the view deltaLines text rows through the document,
// positive toward the end. The cursor stays put; only the anchor moves.
func (e *Engine) Scroll(deltaLines int) {
	defer e.guard()()
	e.anchorY -= deltaLines * e.shaper.LineHeight()
	e.clipScroll()
	e.anchorToTop()
}

// VisibleLines returns the half-open line range [first, last) that
// intersects the viewport, and the viewport y of line first's top.
func (e *Engine) VisibleLines() (topY, first, last int) {
	defer e.guard()()
	return e.visibleLines()
}

// CursorScreen returns the cursor's viewport coordinates. The y is the
// top of the cursor's row; it may lie outside [0, height) if the host
// scrolled the cursor away.
func (e *Engine) CursorScreen() (x, y int) {
	defer e.guard()()
	return e.posToCoord(e.cursorPos)
}

// CursorAtWrap returns the trailing-edge caret position when the cursor
// sits exactly on a soft-wrap boundary, where it paints twice: at the
// start of one row and the end of the row above.
func (e *Engine) CursorAtWrap() (x, y int, ok bool) {
	defer e.guard()()
	li := e.buf.FindLine(e.cursorPos)
	off := e.cursorPos - e.buf.Line(li).Start
	l := e.layoutFor(li)
	cx, cy := l.CursorCoords(off)
	tx, ty := l.TrailingCoords(off)
	if tx == cx && ty == cy {
		return 0, 0, false
	}
	return tx, e.lineTopY(li) + ty, true
}

// SelectionRects returns viewport-space rectangles covering the
// selected text across the visible lines. A selected newline shows as a
// line-height-square stub past the line end, which also marks empty
// lines inside the selection.
func (e *Engine) SelectionRects() []Rect {
	defer e.guard()()
	start, end := e.selectionRange()
	if start == end {
		return nil
	}
	topY, first, last := e.visibleLines()
	var rects []Rect
	y := topY
	for i := first; i < last; i++ {
		ln := e.buf.Line(i)
		l := e.layoutFor(i)
		s, t := start, end
		if s < ln.Start {
			s = ln.Start
		}
		if t > ln.End {
			t = ln.End
		}
		if s < t {
			for _, r := range l.RangeRects(s-ln.Start, t-ln.Start) {
				r.Y += y
				rects = append(rects, r)
			}
		}
		if start <= ln.End && ln.End < end {
			cx, cy := l.CursorCoords(ln.End - ln.Start)
			lh := l.LineHeight()
			rects = append(rects, Rect{X: cx, Y: y + cy, W: lh, H: lh})
		}
		y += l.Height()
	}
	return rects
}

// anchorLineAndY resolves the anchor to its containing line and the
// viewport y of that line's top, backing the anchor's own row offset
// out of anchorY.
func (e *Engine) anchorLineAndY() (li, top int) {
	li = e.buf.FindLine(e.anchorPos)
	ln := e.buf.Line(li)
	_, dy := e.layoutFor(li).CursorCoords(e.anchorPos - ln.Start)
	return li, e.anchorY - dy
}

// visibleLines finds the line range intersecting the viewport by
// walking out from the anchor: backward while space remains above the
// top, forward past any lines wholly above it, then forward until the
// viewport is covered.
func (e *Engine) visibleLines() (topY, first, last int) {
	li, y := e.anchorLineAndY()
	for li > 0 && y > 0 {
		li--
		y -= e.layoutFor(li).Height()
	}
	for li+1 < e.buf.NumLines() {
		h := e.layoutFor(li).Height()
		if y+h > 0 {
			break
		}
		y += h
		li++
	}
	topY, first = y, li
	last = first
	for {
		y += e.layoutFor(last).Height()
		last++
		if y >= e.height || last == e.buf.NumLines() {
			return topY, first, last
		}
	}
}

// clipScroll pins the view inside the document: content may not end
// above the viewport bottom, and may not start below the viewport top.
// The top rule runs second so it wins when the document is shorter than
// the viewport.
func (e *Engine) clipScroll() {
	li, y := e.anchorLineAndY()
	bottom := y
	for i := li; i < e.buf.NumLines(); i++ {
		bottom += e.layoutFor(i).Height()
		if bottom >= e.height {
			break
		}
	}
	if bottom < e.height {
		e.anchorY += e.height - bottom
	}

	li, y = e.anchorLineAndY()
	top := y
	for i := li; i > 0; i-- {
		top -= e.layoutFor(i - 1).Height()
		if top <= 0 {
			break
		}
	}
	if top > 0 {
		e.anchorY -= top
	}
}

// anchorToTop re-anchors at the first sub-line boundary at or below the
// viewport top, keeping the anchor normalized so later walks start from
// the visible region. When the viewport top falls mid-row (row height
// above one and a height that is not a row multiple) the first line may
// have no boundary at or below it; the anchor then moves to the next
// line, or stays on the last row when no next line exists.
func (e *Engine) anchorToTop() {
	topY, first, _ := e.visibleLines()
	l := e.layoutFor(first)
	lh := l.LineHeight()
	k := 0
	if topY < 0 {
		k = (-topY + lh - 1) / lh
	}
	subs := l.SubLines()
	if k >= len(subs) {
		if first+1 < e.buf.NumLines() {
			e.anchorPos = e.buf.Line(first + 1).Start
			e.anchorY = topY + l.Height()
			return
		}
		k = len(subs) - 1
	}
	e.anchorPos = e.buf.Line(first).Start + subs[k]
	e.anchorY = topY + k*lh
}

// ensureCursorVisible scrolls just enough to bring the cursor's row
// fully inside the viewport. The line-range comparison runs first so a
// far jump re-anchors directly instead of walking the gap.
func (e *Engine) ensureCursorVisible() {
	if e.anchorPos > e.buf.Len() {
		e.anchorPos = e.buf.Len()
	}
	topY, first, last := e.visibleLines()
	cl := e.buf.FindLine(e.cursorPos)
	if cl < first {
		e.reanchorAtCursor(true)
		return
	}
	if cl >= last {
		e.reanchorAtCursor(false)
		return
	}
	y := topY
	for i := first; i < cl; i++ {
		y += e.layoutFor(i).Height()
	}
	ln := e.buf.Line(cl)
	_, dy := e.layoutFor(cl).CursorCoords(e.cursorPos - ln.Start)
	y += dy
	switch {
	case y < 0:
		e.reanchorAtCursor(true)
	case y > e.height-e.shaper.LineHeight():
		e.reanchorAtCursor(false)
	default:
		e.clipScroll()
		e.anchorToTop()
	}
}

// reanchorAtCursor pins the cursor's row to the top or bottom viewport
// edge and renormalizes.
func (e *Engine) reanchorAtCursor(top bool) {
	e.anchorPos = e.cursorPos
	if top {
		e.anchorY = 0
	} else {
		e.anchorY = e.height - e.shaper.LineHeight()
	}
	e.clipScroll()
	e.anchorToTop()
}

// lineTopY returns the viewport y of line target's top by walking from
// the anchor.
func (e *Engine) lineTopY(target int) int {
	li, y := e.anchorLineAndY()
	for li < target {
		y += e.layoutFor(li).Height()
		li++
	}
	for li > target {
		li--
		y -= e.layoutFor(li).Height()
	}
	return y
}

// posToCoord converts a document offset to viewport coordinates.
func (e *Engine) posToCoord(pos int) (x, y int) {
	li := e.buf.FindLine(pos)
	ln := e.buf.Line(li)
	cx, cy := e.layoutFor(li).CursorCoords(pos - ln.Start)
	return cx, e.lineTopY(li) + cy
}

// coordToPos converts viewport coordinates to the nearest document
// offset, clamping above the first line and below the last.
func (e *Engine) coordToPos(x, y int) int {
	li, top := e.anchorLineAndY()
	for y < top && li > 0 {
		li--
		top -= e.layoutFor(li).Height()
	}
	for {
		h := e.layoutFor(li).Height()
		if y < top+h || li+1 == e.buf.NumLines() {
			break
		}
		top += h
		li++
	}
	ln := e.buf.Line(li)
	return ln.Start + e.layoutFor(li).CoordToPos(x, y-top)
}
