package history

import (
	"testing"

	"github.com/dshills/typewright/internal/engine/gapbuffer"
)

func newDoc(text string) *gapbuffer.Buffer[struct{}] {
	b := gapbuffer.New[struct{}]()
	if text != "" {
		b.ReplaceSlice(0, 0, []rune(text))
	}
	return b
}

func TestUndoSingleStep(t *testing.T) {
	buf := newDoc("hello")
	h := New[struct{}]()

	h.MakeSnapshot(5)
	h.ReplaceSlice(buf, 5, 5, []rune(" world"))

	pos, ok := h.Undo(buf, 11)
	if !ok {
		t.Fatal("Undo returned ok = false")
	}
	if pos != 5 {
		t.Errorf("Undo cursor = %d, want 5", pos)
	}
	if got := buf.String(); got != "hello" {
		t.Errorf("content = %q, want %q", got, "hello")
	}
	if _, ok := h.Undo(buf, pos); ok {
		t.Error("second Undo should have nothing to do")
	}
}

func TestGroupedEditsRevertTogether(t *testing.T) {
	buf := newDoc("")
	h := New[struct{}]()

	h.MakeSnapshot(0)
	h.ReplaceSlice(buf, 0, 0, []rune("a"))
	h.ReplaceSlice(buf, 1, 1, []rune("b"))
	h.ReplaceSlice(buf, 2, 2, []rune("c"))

	pos, ok := h.Undo(buf, 3)
	if !ok || pos != 0 {
		t.Fatalf("Undo = (%d, %v), want (0, true)", pos, ok)
	}
	if got := buf.String(); got != "" {
		t.Errorf("content = %q after undo, want empty", got)
	}
}

func TestUndoRedoInverse(t *testing.T) {
	buf := newDoc("base\ntext")
	h := New[struct{}]()

	type state struct {
		content string
		cursor  int
	}
	states := []state{{buf.String(), 0}}
	cursor := 0

	apply := func(start, end int, text string, newCursor int) {
		h.MakeSnapshot(cursor)
		h.ReplaceSlice(buf, start, end, []rune(text))
		cursor = newCursor
		states = append(states, state{buf.String(), cursor})
	}

	apply(0, 0, "x", 1)
	apply(5, 9, "", 5)
	apply(5, 5, "multi\nline\ninsert", 22)
	apply(2, 8, "q", 3)

	for i := len(states) - 2; i >= 0; i-- {
		pos, ok := h.Undo(buf, cursor)
		if !ok {
			t.Fatalf("Undo %d returned ok = false", len(states)-2-i)
		}
		cursor = pos
		if buf.String() != states[i].content || cursor != states[i].cursor {
			t.Fatalf("after undo to step %d: content %q cursor %d, want %q %d",
				i, buf.String(), cursor, states[i].content, states[i].cursor)
		}
	}
	for i := 1; i < len(states); i++ {
		pos, ok := h.Redo(buf, cursor)
		if !ok {
			t.Fatalf("Redo %d returned ok = false", i)
		}
		cursor = pos
		if buf.String() != states[i].content || cursor != states[i].cursor {
			t.Fatalf("after redo to step %d: content %q cursor %d, want %q %d",
				i, buf.String(), cursor, states[i].content, states[i].cursor)
		}
	}
}

func TestSnapshotDedupe(t *testing.T) {
	buf := newDoc("ab")
	h := New[struct{}]()

	h.MakeSnapshot(0)
	h.MakeSnapshot(0) // identical, dropped
	h.ReplaceSlice(buf, 2, 2, []rune("c"))

	if _, ok := h.Undo(buf, 3); !ok {
		t.Fatal("first Undo failed")
	}
	if _, ok := h.Undo(buf, 0); ok {
		t.Error("duplicate checkpoint was pushed")
	}
}

func TestNewCheckpointInvalidatesRedo(t *testing.T) {
	buf := newDoc("")
	h := New[struct{}]()

	h.MakeSnapshot(0)
	h.ReplaceSlice(buf, 0, 0, []rune("one"))
	h.Undo(buf, 3)
	if !h.CanRedo() {
		t.Fatal("expected redo after undo")
	}

	h.MakeSnapshot(0)
	h.ReplaceSlice(buf, 0, 0, []rune("two"))
	if h.CanRedo() {
		t.Error("redo survived a fresh checkpoint")
	}
	if got := buf.String(); got != "two" {
		t.Errorf("content = %q, want %q", got, "two")
	}
}

func TestNoOpEditSkipped(t *testing.T) {
	buf := newDoc("same")
	h := New[struct{}]()

	h.MakeSnapshot(0)
	if h.ReplaceSlice(buf, 0, 4, []rune("same")) {
		t.Error("identical replacement reported a change")
	}
	pos, ok := h.Undo(buf, 4)
	if !ok || pos != 0 {
		t.Fatalf("Undo = (%d, %v), want (0, true)", pos, ok)
	}
	if got := buf.String(); got != "same" {
		t.Errorf("content = %q, want %q", got, "same")
	}
}

func TestModifiedLifecycle(t *testing.T) {
	buf := newDoc("")
	h := New[struct{}]()

	if h.Modified() {
		t.Error("fresh history reads modified")
	}

	h.MakeSnapshot(0)
	h.ReplaceSlice(buf, 0, 0, []rune("text"))
	if !h.Modified() {
		t.Error("not modified after an edit")
	}

	h.MarkSaved()
	if h.Modified() {
		t.Error("modified right after MarkSaved")
	}

	h.Undo(buf, 4)
	if !h.Modified() {
		t.Error("not modified after undoing past the saved depth")
	}

	h.Redo(buf, 0)
	if h.Modified() {
		t.Error("modified after redoing back to the saved depth")
	}
}

func TestSavedDepthUnreachable(t *testing.T) {
	buf := newDoc("")
	h := New[struct{}]()

	h.MakeSnapshot(0)
	h.ReplaceSlice(buf, 0, 0, []rune("one"))
	h.MarkSaved()

	h.Undo(buf, 3)
	h.MakeSnapshot(0)
	h.ReplaceSlice(buf, 0, 0, []rune("two"))

	// the saved depth pointed into the discarded future
	if !h.Modified() {
		t.Error("modified flag lost track of an unreachable saved depth")
	}
	h.Undo(buf, 3)
	if !h.Modified() {
		t.Error("no depth should read as saved any more")
	}
}

func TestClear(t *testing.T) {
	buf := newDoc("")
	h := New[struct{}]()
	h.MakeSnapshot(0)
	h.ReplaceSlice(buf, 0, 0, []rune("x"))
	h.Undo(buf, 1)

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("stacks survive Clear")
	}
	if h.Modified() {
		t.Error("cleared history reads modified")
	}

	h.ClearSaved()
	if !h.Modified() {
		t.Error("ClearSaved should read as modified at every depth")
	}
}
