package engine

// Rect is an axis-aligned rectangle in viewport pixel space.
type Rect struct {
	X, Y, W, H int
}

// Layout is one line of text shaped for display: measured, hit-testable,
// and segmented into soft-wrapped sub-lines. Offsets are rune offsets
// within the shaped text, in [0, length]; coordinates are pixels relative
// to the shaped block's top-left corner.
type Layout interface {
	// Width returns the widest sub-line's advance.
	Width() int

	// Height returns the shaped height: sub-line count times line height.
	Height() int

	// LineHeight returns the height of one sub-line row.
	LineHeight() int

	// CursorCoords returns the leading-edge caret position for offset: x
	// before the offset's character and y at its row top. An offset that
	// sits exactly on a soft-wrap boundary resolves to the start of the
	// following row.
	CursorCoords(off int) (x, y int)

	// TrailingCoords is CursorCoords except that a soft-wrap boundary
	// offset resolves to the end of the preceding row, where a second
	// caret glyph is drawn.
	TrailingCoords(off int) (x, y int)

	// CoordToPos hit-tests a point to the nearest caret offset. Points
	// outside the shaped block clamp to the nearest row edge.
	CoordToPos(x, y int) int

	// SubLines returns the start offset of every soft-wrapped row. The
	// first element is always 0. Callers must not modify the slice.
	SubLines() []int

	// RangeRects returns highlight rectangles covering [start, end), one
	// per touched row. Empty ranges yield nil.
	RangeRects(start, end int) []Rect
}

// Shaper turns line text into layouts. The engine calls it synchronously
// and caches results per line until an edit, resize, or format change
// invalidates them.
type Shaper interface {
	// Shape lays out text soft-wrapped to maxWidth pixels. maxWidth <= 0
	// disables wrapping.
	Shape(text string, maxWidth int) Layout

	// LineHeight returns the row height shared by all layouts.
	LineHeight() int
}
