package script

import (
	"strings"
	"testing"
	"time"
)

// fakeHost is a minimal in-memory Host for exercising the Lua binding.
type fakeHost struct {
	text   string
	cursor int
	selA   int
	selB   int
}

func (h *fakeHost) Content() string { return h.text }

func (h *fakeHost) LineCount() int {
	return strings.Count(h.text, "\n") + 1
}

func (h *fakeHost) Cursor() int { return h.cursor }

func (h *fakeHost) SetCursor(pos int) error {
	if pos < 0 || pos > len(h.text) {
		return errOutOfRange
	}
	h.cursor = pos
	return nil
}

func (h *fakeHost) Selection() (int, int) {
	if h.selA < h.selB {
		return h.selA, h.selB
	}
	return h.selB, h.selA
}

func (h *fakeHost) SelectedText() string {
	a, b := h.Selection()
	return h.text[a:b]
}

func (h *fakeHost) Insert(text string) error {
	h.text = h.text[:h.cursor] + text + h.text[h.cursor:]
	h.cursor += len(text)
	return nil
}

func (h *fakeHost) Replace(start, end int, text string) error {
	if start < 0 || end > len(h.text) || start > end {
		return errOutOfRange
	}
	h.text = h.text[:start] + text + h.text[end:]
	h.cursor = start + len(text)
	return nil
}

var errOutOfRange = &hostError{"out of range"}

type hostError struct{ msg string }

func (e *hostError) Error() string { return e.msg }

func TestRunStringEditorTable(t *testing.T) {
	tests := []struct {
		name string
		text string
		code string
		want string
	}{
		{
			name: "replace range",
			text: "hello world",
			code: `editor.replace(0, 5, "goodbye")`,
			want: "goodbye world",
		},
		{
			name: "insert at cursor",
			text: "ab",
			code: `editor.set_cursor(1); editor.insert("--")`,
			want: "a--b",
		},
		{
			name: "delete everything",
			text: "scratch",
			code: `editor.replace(0, #editor.content(), "")`,
			want: "",
		},
		{
			name: "upcase content",
			text: "abc\ndef",
			code: `editor.replace(0, #editor.content(), string.upper(editor.content()))`,
			want: "ABC\nDEF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &fakeHost{text: tt.text}
			r := NewRunner(host)
			if err := r.RunString(tt.code); err != nil {
				t.Fatalf("RunString() error = %v", err)
			}
			if host.text != tt.want {
				t.Errorf("content = %q, want %q", host.text, tt.want)
			}
		})
	}
}

func TestRunStringReadsState(t *testing.T) {
	host := &fakeHost{text: "one\ntwo\nthree", cursor: 4, selA: 4, selB: 7}
	r := NewRunner(host)

	code := `
		print(editor.line_count())
		print(editor.cursor())
		local a, b = editor.selection()
		print(a, b)
		print(editor.sel_text())
	`
	if err := r.RunString(code); err != nil {
		t.Fatalf("RunString() error = %v", err)
	}

	want := []string{"3", "4", "4\t7", "two"}
	got := r.Printed()
	if len(got) != len(want) {
		t.Fatalf("Printed() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Printed()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHostErrorFailsRun(t *testing.T) {
	host := &fakeHost{text: "abc"}
	r := NewRunner(host)

	if err := r.RunString(`editor.replace(-1, 2, "x")`); err == nil {
		t.Fatal("RunString() with bad range should fail")
	}
	if host.text != "abc" {
		t.Errorf("content = %q, want unchanged %q", host.text, "abc")
	}

	if err := r.RunString(`editor.set_cursor(99)`); err == nil {
		t.Fatal("RunString() with bad cursor should fail")
	}
}

func TestSandboxStripsUnsafeLibs(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"os", `if os ~= nil then error("os is visible") end`},
		{"io", `if io ~= nil then error("io is visible") end`},
		{"debug", `if debug ~= nil then error("debug is visible") end`},
		{"dofile", `if dofile ~= nil then error("dofile is visible") end`},
		{"loadstring", `if loadstring ~= nil then error("loadstring is visible") end`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(&fakeHost{})
			if err := r.RunString(tt.code); err != nil {
				t.Errorf("sandbox leak: %v", err)
			}
		})
	}
}

func TestSafeLibsAvailable(t *testing.T) {
	r := NewRunner(&fakeHost{text: "x"})
	code := `
		local t = {3, 1, 2}
		table.sort(t)
		print(table.concat(t, ","), string.rep("a", 3), math.floor(2.9))
	`
	if err := r.RunString(code); err != nil {
		t.Fatalf("RunString() error = %v", err)
	}
	if got := r.Printed(); len(got) != 1 || got[0] != "1,2,3\taaa\t2" {
		t.Errorf("Printed() = %v", got)
	}
}

func TestTimeoutStopsRunawayScript(t *testing.T) {
	if testing.Short() {
		t.Skip("runs a deliberately infinite loop")
	}
	r := NewRunner(&fakeHost{}, WithTimeout(50*time.Millisecond))

	start := time.Now()
	err := r.RunString(`while true do end`)
	if err == nil {
		t.Fatal("infinite loop should time out")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestPrintStaysOffTheTerminal(t *testing.T) {
	r := NewRunner(&fakeHost{})
	if err := r.RunString(`print("hello", 42)`); err != nil {
		t.Fatalf("RunString() error = %v", err)
	}
	got := r.Printed()
	if len(got) != 1 || got[0] != "hello\t42" {
		t.Errorf("Printed() = %v, want [hello\\t42]", got)
	}

	// A second run starts with a clean capture.
	if err := r.RunString(`print("fresh")`); err != nil {
		t.Fatalf("RunString() error = %v", err)
	}
	if got := r.Printed(); len(got) != 1 || got[0] != "fresh" {
		t.Errorf("Printed() after second run = %v", got)
	}
}
