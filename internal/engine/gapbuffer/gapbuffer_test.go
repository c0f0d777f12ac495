package gapbuffer

import (
	"strings"
	"testing"
)

func lineSpans[T any](b *Buffer[T]) [][2]int {
	spans := make([][2]int, b.NumLines())
	for i := range spans {
		ln := b.Line(i)
		spans[i] = [2]int{ln.Start, ln.End}
	}
	return spans
}

func checkSpans[T any](t *testing.T, b *Buffer[T], want [][2]int) {
	t.Helper()
	got := lineSpans(b)
	if len(got) != len(want) {
		t.Fatalf("line spans = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line spans = %v, want %v", got, want)
		}
	}
}

// checkPartition verifies that the line records partition [0, len] and
// that FindLine agrees with a linear scan at every position.
func checkPartition[T any](t *testing.T, b *Buffer[T]) {
	t.Helper()
	if b.NumLines() < 1 {
		t.Fatal("buffer has no lines")
	}
	if b.Line(0).Start != 0 {
		t.Fatalf("first line starts at %d", b.Line(0).Start)
	}
	if b.Line(b.NumLines()-1).End != b.Len() {
		t.Fatalf("last line ends at %d, document length %d", b.Line(b.NumLines()-1).End, b.Len())
	}
	for i := 0; i < b.NumLines(); i++ {
		ln := b.Line(i)
		if ln.Start > ln.End {
			t.Fatalf("line %d has start %d > end %d", i, ln.Start, ln.End)
		}
		if i > 0 {
			prev := b.Line(i - 1)
			if ln.Start != prev.End+1 {
				t.Fatalf("line %d starts at %d, previous ends at %d", i, ln.Start, prev.End)
			}
			if b.CharAt(prev.End) != '\n' {
				t.Fatalf("line %d does not end in newline", i-1)
			}
		}
	}
	for p := 0; p <= b.Len(); p++ {
		i := b.FindLine(p)
		ln := b.Line(i)
		if p < ln.Start || p > ln.End {
			t.Fatalf("FindLine(%d) = %d with span [%d,%d]", p, i, ln.Start, ln.End)
		}
	}
}

func TestNewEmpty(t *testing.T) {
	b := New[struct{}]()
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
	if b.NumLines() != 1 {
		t.Errorf("NumLines() = %d, want 1", b.NumLines())
	}
	checkSpans(t, b, [][2]int{{0, 0}})
	if b.FindLine(0) != 0 {
		t.Errorf("FindLine(0) = %d, want 0", b.FindLine(0))
	}
}

func TestReplaceSliceChain(t *testing.T) {
	b := New[struct{}]()

	b.ReplaceSlice(0, 0, []rune("hello"))
	if got := b.String(); got != "hello" {
		t.Fatalf("content = %q, want %q", got, "hello")
	}
	checkSpans(t, b, [][2]int{{0, 5}})

	b.ReplaceSlice(2, 3, []rune("--"))
	if got := b.String(); got != "he--lo" {
		t.Fatalf("content = %q, want %q", got, "he--lo")
	}
	checkSpans(t, b, [][2]int{{0, 6}})

	b.ReplaceSlice(2, 3, []rune("z\n\nz"))
	if got := b.String(); got != "hez\n\nz-lo" {
		t.Fatalf("content = %q, want %q", got, "hez\n\nz-lo")
	}
	checkSpans(t, b, [][2]int{{0, 3}, {4, 4}, {5, 9}})

	b.ReplaceSlice(0, 4, []rune("q"))
	if got := b.String(); got != "q\nz-lo" {
		t.Fatalf("content = %q, want %q", got, "q\nz-lo")
	}
	checkSpans(t, b, [][2]int{{0, 1}, {2, 6}})

	b.ReplaceSlice(0, b.Len(), nil)
	if got := b.String(); got != "" {
		t.Fatalf("content = %q, want empty", got)
	}
	checkSpans(t, b, [][2]int{{0, 0}})
}

func TestRoundTrip(t *testing.T) {
	texts := []string{
		"",
		"a",
		"hello world",
		"one\ntwo\nthree",
		"\n",
		"\n\n\n",
		"trailing\n",
		"wide 日本語 and emoji 🙂 mixed\nsecond",
	}
	for _, text := range texts {
		b := New[struct{}]()
		b.ReplaceSlice(0, 0, []rune("seed\ncontent"))
		b.ReplaceSlice(0, b.Len(), []rune(text))
		if got := b.String(); got != text {
			t.Errorf("round trip of %q = %q", text, got)
		}
		wantLines := strings.Count(text, "\n") + 1
		if b.NumLines() != wantLines {
			t.Errorf("NumLines() after %q = %d, want %d", text, b.NumLines(), wantLines)
		}
		checkPartition(t, b)
	}
}

func TestFindLineAtDocumentEnd(t *testing.T) {
	b := New[struct{}]()
	b.ReplaceSlice(0, 0, []rune("ab\ncd\n"))
	// document ends just after a newline: position len sits on the final
	// empty line
	if got := b.FindLine(b.Len()); got != 2 {
		t.Errorf("FindLine(len) = %d, want 2", got)
	}
	checkSpans(t, b, [][2]int{{0, 2}, {3, 5}, {6, 6}})
}

func TestCharAtAcrossGap(t *testing.T) {
	b := New[struct{}]()
	b.ReplaceSlice(0, 0, []rune("abcdefgh"))
	// leave the gap in the middle
	b.ReplaceSlice(4, 4, []rune("XY"))
	want := "abcdXYefgh"
	for i, r := range []rune(want) {
		if got := b.CharAt(i); got != r {
			t.Errorf("CharAt(%d) = %q, want %q", i, got, r)
		}
	}
	if got := b.Slice(2, 8); got != "cdXYef" {
		t.Errorf("Slice(2,8) = %q, want %q", got, "cdXYef")
	}
}

func TestLineDataSurvivesUnrelatedEdits(t *testing.T) {
	b := New[int]()
	b.ReplaceSlice(0, 0, []rune("aa\nbb\ncc"))
	b.SetLineData(2, 42)

	// editing line 0 must not disturb line 2's payload
	b.ReplaceSlice(0, 1, []rune("AAA"))
	if got := b.Line(2).Data; got != 42 {
		t.Errorf("line 2 payload = %d after edit to line 0, want 42", got)
	}

	// editing line 2 rebuilds its record and zeroes the payload
	b.ReplaceSlice(b.Len()-1, b.Len(), []rune("C"))
	if got := b.Line(2).Data; got != 0 {
		t.Errorf("line 2 payload = %d after edit to line 2, want 0", got)
	}
}

func TestLineDataResetAll(t *testing.T) {
	b := New[int]()
	b.ReplaceSlice(0, 0, []rune("a\nb"))
	b.SetLineData(0, 1)
	b.SetLineData(1, 2)
	b.ResetLineData()
	for i := 0; i < b.NumLines(); i++ {
		if got := b.Line(i).Data; got != 0 {
			t.Errorf("line %d payload = %d after reset, want 0", i, got)
		}
	}
}

func TestEditsJoiningAndSplittingLines(t *testing.T) {
	b := New[struct{}]()
	b.ReplaceSlice(0, 0, []rune("one\ntwo\nthree"))
	checkSpans(t, b, [][2]int{{0, 3}, {4, 7}, {8, 13}})

	// delete the first newline: lines 0 and 1 join
	b.ReplaceSlice(3, 4, nil)
	if got := b.String(); got != "onetwo\nthree" {
		t.Fatalf("content = %q", got)
	}
	checkSpans(t, b, [][2]int{{0, 6}, {7, 12}})

	// insert two newlines mid-word: one line becomes three
	b.ReplaceSlice(10, 10, []rune("\nX\n"))
	if got := b.String(); got != "onetwo\nthr\nX\nee" {
		t.Fatalf("content = %q", got)
	}
	checkSpans(t, b, [][2]int{{0, 6}, {7, 10}, {11, 12}, {13, 15}})
	checkPartition(t, b)
}

func TestAlternatingEndEdits(t *testing.T) {
	// forces full-distance gap relocation both ways each iteration
	b := New[struct{}]()
	b.ReplaceSlice(0, 0, []rune("start\nmiddle\nend"))
	for i := 0; i < 8; i++ {
		b.ReplaceSlice(0, 0, []rune("a"))
		b.ReplaceSlice(b.Len(), b.Len(), []rune("z"))
	}
	want := strings.Repeat("a", 8) + "start\nmiddle\nend" + strings.Repeat("z", 8)
	if got := b.String(); got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	checkPartition(t, b)
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestPreconditionPanics(t *testing.T) {
	b := New[struct{}]()
	b.ReplaceSlice(0, 0, []rune("abc"))
	mustPanic(t, "CharAt(-1)", func() { b.CharAt(-1) })
	mustPanic(t, "CharAt(len)", func() { b.CharAt(3) })
	mustPanic(t, "FindLine(len+1)", func() { b.FindLine(4) })
	mustPanic(t, "ReplaceSlice reversed range", func() { b.ReplaceSlice(2, 1, nil) })
	mustPanic(t, "ReplaceSlice past end", func() { b.ReplaceSlice(0, 4, nil) })
	mustPanic(t, "Line out of range", func() { b.Line(1) })
}
