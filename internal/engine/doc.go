// Package engine implements the editing engine for one document view:
// the gap-buffer document, cursor and selection, grouped undo history,
// and an anchor-based scroll viewport, behind a single synchronous
// method surface.
//
// The engine owns no presentation. Text measurement comes from an
// injected Shaper; each line caches its shaped Layout inside the gap
// buffer's line payload, so editing a line invalidates exactly that
// line's cache. A renderer reads the visible range back out through
// VisibleLines, LayoutFor, CursorScreen, and SelectionRects and performs
// no mutation.
//
// Basic use:
//
//	eng := engine.New(shaper, engine.WithSize(640, 480))
//	eng.Load("hello\nworld", false)
//	eng.SetCursor(5)
//	eng.InsertRune('!')
//	eng.Undo()
//
// Coordinates are integer pixels with y growing downward; a terminal
// front end uses cell-sized pixels with a line height of 1. Document
// positions are rune offsets in [0, Len()].
//
// An engine is exclusively owned by one host and is not safe for
// concurrent use. Public methods claim a runtime guard and panic on
// reentrant calls, as do out-of-range positions; the host is expected to
// feed offsets derived from valid UI events.
package engine
