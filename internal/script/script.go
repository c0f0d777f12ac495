// Package script runs user Lua scripts against an open document. Each
// run gets a fresh sandboxed interpreter with an `editor` table bound
// to the host, so scripts cannot see each other's state or touch the
// system.
package script

import (
	"context"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Host is the editor surface exposed to scripts. Offsets are the
// engine's rune offsets: zero-based, the same values cursor() and
// selection() report. Implementations validate positions and return
// errors instead of panicking.
type Host interface {
	Content() string
	LineCount() int
	Cursor() int
	SetCursor(pos int) error
	Selection() (start, end int)
	SelectedText() string
	Insert(text string) error
	Replace(start, end int, text string) error
}

// DefaultTimeout bounds a script run. Scripts share the editor's
// goroutine, so a runaway loop would otherwise hang the UI.
const DefaultTimeout = 5 * time.Second

// Runner executes scripts against a Host. It is not safe for
// concurrent use; run scripts from the goroutine that owns the editor.
type Runner struct {
	host    Host
	timeout time.Duration
	printed []string
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout overrides the per-run execution limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRunner creates a Runner bound to host.
func NewRunner(host Host, opts ...Option) *Runner {
	r := &Runner{host: host, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunFile executes the Lua file at path.
func (r *Runner) RunFile(path string) error {
	return r.run(func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// RunString executes code as a Lua chunk.
func (r *Runner) RunString(code string) error {
	return r.run(func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// Printed returns what the last run passed to print, one entry per
// call.
func (r *Runner) Printed() []string {
	return r.printed
}

func (r *Runner) run(do func(*lua.LState) error) error {
	r.printed = nil

	L := newSandboxedState()
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	L.SetContext(ctx)

	r.bindEditor(L)

	if err := do(L); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// bindEditor installs the editor table and reroutes print into the
// runner, keeping script output off the terminal the UI owns.
func (r *Runner) bindEditor(L *lua.LState) {
	ed := L.NewTable()
	L.SetField(ed, "content", L.NewFunction(r.content))
	L.SetField(ed, "line_count", L.NewFunction(r.lineCount))
	L.SetField(ed, "cursor", L.NewFunction(r.cursor))
	L.SetField(ed, "set_cursor", L.NewFunction(r.setCursor))
	L.SetField(ed, "selection", L.NewFunction(r.selection))
	L.SetField(ed, "sel_text", L.NewFunction(r.selText))
	L.SetField(ed, "insert", L.NewFunction(r.insert))
	L.SetField(ed, "replace", L.NewFunction(r.replace))
	L.SetGlobal("editor", ed)

	L.SetGlobal("print", L.NewFunction(r.print))
}

// content() -> string
func (r *Runner) content(L *lua.LState) int {
	L.Push(lua.LString(r.host.Content()))
	return 1
}

// line_count() -> number
func (r *Runner) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(r.host.LineCount()))
	return 1
}

// cursor() -> number
func (r *Runner) cursor(L *lua.LState) int {
	L.Push(lua.LNumber(r.host.Cursor()))
	return 1
}

// set_cursor(pos)
func (r *Runner) setCursor(L *lua.LState) int {
	pos := L.CheckInt(1)
	if err := r.host.SetCursor(pos); err != nil {
		L.RaiseError("set_cursor: %v", err)
	}
	return 0
}

// selection() -> start, end
func (r *Runner) selection(L *lua.LState) int {
	start, end := r.host.Selection()
	L.Push(lua.LNumber(start))
	L.Push(lua.LNumber(end))
	return 2
}

// sel_text() -> string
func (r *Runner) selText(L *lua.LState) int {
	L.Push(lua.LString(r.host.SelectedText()))
	return 1
}

// insert(text)
func (r *Runner) insert(L *lua.LState) int {
	text := L.CheckString(1)
	if err := r.host.Insert(text); err != nil {
		L.RaiseError("insert: %v", err)
	}
	return 0
}

// replace(from, to, text)
func (r *Runner) replace(L *lua.LState) int {
	from := L.CheckInt(1)
	to := L.CheckInt(2)
	text := L.CheckString(3)
	if err := r.host.Replace(from, to, text); err != nil {
		L.RaiseError("replace: %v", err)
	}
	return 0
}

func (r *Runner) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	r.printed = append(r.printed, strings.Join(parts, "\t"))
	return 0
}
