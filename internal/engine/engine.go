package engine

import (
	"github.com/dshills/typewright/internal/engine/gapbuffer"
	"github.com/dshills/typewright/internal/engine/history"
)

// Engine is the editing engine for one document view. See the package
// documentation for the ownership and units model.
type Engine struct {
	buf    *gapbuffer.Buffer[lineSlot]
	hist   *history.History[lineSlot]
	shaper Shaper

	// cursor state
	cursorPos    int
	selectionPos int
	anchorX      int // sticky x for vertical motion

	// viewport state
	anchorPos int // document offset known to be on-screen
	anchorY   int // viewport y of the anchor's own row top
	width     int
	height    int

	lastOp   opKind // groups runs of like edits into one undo step
	grouping bool   // open edit group; suppresses checkpoints
	busy     bool   // exclusive-access guard
}

// New returns an engine over an empty document. The viewport starts at
// zero size; call Resize before painting.
func New(shaper Shaper, opts ...Option) *Engine {
	if shaper == nil {
		panic("engine: nil shaper")
	}
	e := &Engine{
		buf:  gapbuffer.New[lineSlot](),
		hist: history.New[lineSlot](),

		shaper: shaper,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// guard claims the exclusive-access token for one public call. Claiming
// while another call is live means the host reentered the engine, which
// is a programming error; it panics immediately instead of corrupting
// state.
func (e *Engine) guard() func() {
	if e.busy {
		panic("engine: reentrant call on exclusively owned engine")
	}
	e.busy = true
	return e.release
}

func (e *Engine) release() { e.busy = false }

// Load replaces the document wholesale and resets cursor, selection,
// viewport, and history. forceModified loads the text already in the
// modified state, for documents whose in-memory form differs from their
// source.
func (e *Engine) Load(text string, forceModified bool) {
	defer e.guard()()
	e.load(text, forceModified)
}

func (e *Engine) load(text string, forceModified bool) {
	e.buf = gapbuffer.New[lineSlot]()
	if text != "" {
		e.buf.ReplaceSlice(0, 0, []rune(text))
	}
	e.hist.Clear()
	if forceModified {
		e.hist.ClearSaved()
	}
	e.cursorPos, e.selectionPos, e.anchorX = 0, 0, 0
	e.anchorPos, e.anchorY = 0, 0
	e.lastOp = opNone
}

// Content returns the full document text.
func (e *Engine) Content() string {
	defer e.guard()()
	return e.buf.String()
}

// Len returns the document length in runes.
func (e *Engine) Len() int {
	defer e.guard()()
	return e.buf.Len()
}

// NumLines returns the number of lines, at least 1.
func (e *Engine) NumLines() int {
	defer e.guard()()
	return e.buf.NumLines()
}

// Modified reports whether the document differs from its last saved
// state, tracking undo and redo across the save point.
func (e *Engine) Modified() bool {
	defer e.guard()()
	return e.hist.Modified()
}

// MarkSaved records the current undo depth as the saved state.
func (e *Engine) MarkSaved() {
	defer e.guard()()
	e.hist.MarkSaved()
}

// CanUndo reports whether an undo step exists.
func (e *Engine) CanUndo() bool {
	defer e.guard()()
	return e.hist.CanUndo()
}

// CanRedo reports whether an undone step can be re-applied.
func (e *Engine) CanRedo() bool {
	defer e.guard()()
	return e.hist.CanRedo()
}

// Size returns the viewport dimensions.
func (e *Engine) Size() (width, height int) {
	defer e.guard()()
	return e.width, e.height
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
