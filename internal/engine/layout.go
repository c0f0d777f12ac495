package engine

// lineSlot is the per-line payload stored in the gap buffer: the cached
// layout of the line's text at the current viewport width. The buffer
// zeroes the slot whenever an edit rebuilds the line record, so a nil
// layout always means "shape again".
type lineSlot struct {
	layout Layout
}

// layoutFor returns the layout for line li, shaping on demand and
// caching the result in the line's slot.
func (e *Engine) layoutFor(li int) Layout {
	ln := e.buf.Line(li)
	if ln.Data.layout != nil {
		return ln.Data.layout
	}
	l := e.shaper.Shape(e.buf.Slice(ln.Start, ln.End), e.width)
	e.buf.SetLineData(li, lineSlot{layout: l})
	return l
}

// LayoutFor returns the layout for line li, shaping it if no cached
// layout exists. Renderers use this to paint with the same geometry the
// engine used for cursor motion.
func (e *Engine) LayoutFor(li int) Layout {
	defer e.guard()()
	return e.layoutFor(li)
}

// LineSpan returns the [start, end) rune offsets of line li, excluding
// the terminating newline.
func (e *Engine) LineSpan(li int) (start, end int) {
	defer e.guard()()
	ln := e.buf.Line(li)
	return ln.Start, ln.End
}

// LineText returns the text of line li without its terminating newline.
func (e *Engine) LineText(li int) string {
	defer e.guard()()
	ln := e.buf.Line(li)
	return e.buf.Slice(ln.Start, ln.End)
}

// InvalidateLayout drops every cached line layout. Call after anything
// that changes how text shapes without editing it, such as a font or
// tab-width change.
func (e *Engine) InvalidateLayout() {
	defer e.guard()()
	e.buf.ResetLineData()
	e.refreshAnchorX()
	e.ensureCursorVisible()
}
