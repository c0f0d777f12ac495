package history

import (
	"fmt"

	"github.com/dshills/typewright/internal/engine/gapbuffer"
)

// SliceEdit records the inverse of one buffer mutation: replacing the
// text now in [Start, End) with Old restores the state before it.
type SliceEdit struct {
	Start int
	End   int
	Old   []rune
}

// Snapshot is an undo checkpoint: the edit-log depth and cursor position
// at the moment a user-visible step began.
type Snapshot struct {
	EditCount int
	Cursor    int
}

// History holds the undo and redo logs for one document. The type
// parameter matches the line payload of the buffer it operates on.
type History[T any] struct {
	undoEdits []SliceEdit
	redoEdits []SliceEdit
	undoSnaps []Snapshot
	redoSnaps []Snapshot

	// undo-snapshot depth considered saved, -1 when no reachable depth
	// matches the on-disk state
	savedAt int
}

// New returns an empty history in the unmodified state.
func New[T any]() *History[T] {
	return &History[T]{}
}

// replace applies one mutation to buf and returns its inverse.
func replace[T any](buf *gapbuffer.Buffer[T], start, end int, text []rune) SliceEdit {
	inv := SliceEdit{Start: start, End: start + len(text), Old: buf.Runes(start, end)}
	buf.ReplaceSlice(start, end, text)
	return inv
}

// sameContent reports whether [start, end) already holds text.
func sameContent[T any](buf *gapbuffer.Buffer[T], start, end int, text []rune) bool {
	if end-start != len(text) {
		return false
	}
	for i, r := range text {
		if buf.CharAt(start+i) != r {
			return false
		}
	}
	return true
}

// ReplaceSlice performs the edit through the undo log. Writes that leave
// the slice unchanged are skipped entirely so they never pollute history.
// Reports whether the buffer changed.
func (h *History[T]) ReplaceSlice(buf *gapbuffer.Buffer[T], start, end int, text []rune) bool {
	if sameContent(buf, start, end, text) {
		return false
	}
	h.undoEdits = append(h.undoEdits, replace(buf, start, end, text))
	return true
}

// MakeSnapshot opens a checkpoint at the current edit depth and cursor.
// A checkpoint identical to the one on top of the stack is dropped, which
// lets a run of like edits share one user-visible step. A pushed
// checkpoint invalidates the redo state and, when the saved depth lay in
// that discarded future, the saved marker too.
func (h *History[T]) MakeSnapshot(cursor int) {
	snap := Snapshot{EditCount: len(h.undoEdits), Cursor: cursor}
	if n := len(h.undoSnaps); n > 0 && h.undoSnaps[n-1] == snap {
		return
	}
	if h.savedAt > len(h.undoSnaps) {
		h.savedAt = -1
	}
	h.undoSnaps = append(h.undoSnaps, snap)
	h.redoEdits = h.redoEdits[:0]
	h.redoSnaps = h.redoSnaps[:0]
}

// Undo reverts the document to the most recent checkpoint and returns the
// cursor recorded there. cursor is the caller's current position, kept in
// the mirrored checkpoint so Redo can restore it. Returns ok == false
// when there is nothing to undo.
func (h *History[T]) Undo(buf *gapbuffer.Buffer[T], cursor int) (int, bool) {
	if len(h.undoSnaps) == 0 {
		return 0, false
	}
	snap := h.undoSnaps[len(h.undoSnaps)-1]
	h.undoSnaps = h.undoSnaps[:len(h.undoSnaps)-1]
	if snap.EditCount > len(h.undoEdits) {
		panic(fmt.Sprintf("history: checkpoint expects %d edits, log holds %d", snap.EditCount, len(h.undoEdits)))
	}
	h.redoSnaps = append(h.redoSnaps, Snapshot{EditCount: len(h.redoEdits), Cursor: cursor})
	for len(h.undoEdits) > snap.EditCount {
		e := h.undoEdits[len(h.undoEdits)-1]
		h.undoEdits = h.undoEdits[:len(h.undoEdits)-1]
		h.redoEdits = append(h.redoEdits, replace(buf, e.Start, e.End, e.Old))
	}
	return snap.Cursor, true
}

// Redo re-applies the most recently undone step: it is Undo run against
// the swapped stacks.
func (h *History[T]) Redo(buf *gapbuffer.Buffer[T], cursor int) (int, bool) {
	h.swap()
	pos, ok := h.Undo(buf, cursor)
	h.swap()
	return pos, ok
}

func (h *History[T]) swap() {
	h.undoEdits, h.redoEdits = h.redoEdits, h.undoEdits
	h.undoSnaps, h.redoSnaps = h.redoSnaps, h.undoSnaps
}

// CanUndo reports whether an undo checkpoint exists.
func (h *History[T]) CanUndo() bool {
	return len(h.undoSnaps) > 0
}

// CanRedo reports whether an undone step can be re-applied.
func (h *History[T]) CanRedo() bool {
	return len(h.redoSnaps) > 0
}

// Modified reports whether the current checkpoint depth differs from the
// saved one.
func (h *History[T]) Modified() bool {
	return h.savedAt != len(h.undoSnaps)
}

// MarkSaved records the current checkpoint depth as the saved state.
func (h *History[T]) MarkSaved() {
	h.savedAt = len(h.undoSnaps)
}

// ClearSaved makes every depth read as modified until the next MarkSaved.
// Used when a document is loaded in a form that differs from its source.
func (h *History[T]) ClearSaved() {
	h.savedAt = -1
}

// Clear discards all history and returns to the unmodified state.
func (h *History[T]) Clear() {
	h.undoEdits, h.redoEdits = nil, nil
	h.undoSnaps, h.redoSnaps = nil, nil
	h.savedAt = 0
}
