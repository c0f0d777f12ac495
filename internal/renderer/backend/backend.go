// Package backend abstracts the terminal the editor draws into, so the
// renderer and the event loop can run against a real screen or an
// in-memory one.
package backend

import (
	"strings"

	"github.com/dshills/typewright/internal/renderer/core"
)

// CursorStyle selects the hardware cursor shape.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
)

// EventType identifies a terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventPaste
	EventRefresh // posted by background work to wake the event loop
)

// Key identifies a non-printing key. Printable input, including control
// chords, arrives as KeyRune with the Rune and Mod fields set.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// ModMask is a bitmask of held modifier keys.
type ModMask int

const (
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// ModNone is the empty modifier set.
const ModNone ModMask = 0

// Has reports whether the mask contains mod.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton identifies which button or wheel direction fired.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Event is one terminal event. Only the fields for its Type are set.
type Event struct {
	Type EventType

	// Key events
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse events
	MouseX, MouseY int
	Button         MouseButton

	// Resize events
	Width, Height int

	// Paste events mark the bracketed-paste boundaries; the pasted text
	// itself arrives as the key events in between.
	Start bool
}

// Backend is a drawable, event-producing terminal surface.
type Backend interface {
	// Init prepares the surface. Call before any drawing.
	Init() error

	// Shutdown restores the terminal and releases resources.
	Shutdown()

	// Size returns the surface dimensions in cells.
	Size() (width, height int)

	// SetCell draws one cell. Out-of-bounds positions are ignored.
	SetCell(x, y int, cell core.Cell)

	// GetCell reads one cell back. Out-of-bounds reads return an empty cell.
	GetCell(x, y int) core.Cell

	// Fill draws cell over a rectangle, clipped to the surface.
	Fill(x, y, w, h int, cell core.Cell)

	// Clear blanks the whole surface.
	Clear()

	// Show flushes pending drawing to the display.
	Show()

	// ShowCursor places and reveals the hardware cursor.
	ShowCursor(x, y int)

	// HideCursor hides the hardware cursor.
	HideCursor()

	// SetCursorStyle changes the hardware cursor shape.
	SetCursorStyle(style CursorStyle)

	// PollEvent blocks until the next event.
	PollEvent() Event

	// PostEvent queues a synthetic event for PollEvent. Safe to call from
	// any goroutine; events may be dropped if the queue is full.
	PostEvent(ev Event)

	// HasTrueColor reports 24-bit color support.
	HasTrueColor() bool

	// Beep sounds the terminal bell.
	Beep()

	// EnableMouse turns on mouse reporting.
	EnableMouse()

	// DisableMouse turns off mouse reporting.
	DisableMouse()

	// EnablePaste turns on bracketed paste.
	EnablePaste()

	// DisablePaste turns off bracketed paste.
	DisablePaste()
}

// NullBackend is an in-memory Backend for tests. It records every drawn
// cell and feeds events from a queue.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell

	cursorX, cursorY int
	cursorShown      bool
	cursorStyle      CursorStyle

	beeps  int
	events chan Event
}

// NewNullBackend creates an in-memory backend of the given size.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{events: make(chan Event, 64)}
	b.alloc(width, height)
	return b
}

func (b *NullBackend) alloc(width, height int) {
	b.width, b.height = width, height
	b.cells = make([][]core.Cell, height)
	for y := range b.cells {
		b.cells[y] = make([]core.Cell, width)
		for x := range b.cells[y] {
			b.cells[y][x] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Init() error { return nil }
func (b *NullBackend) Shutdown()  {}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

func (b *NullBackend) GetCell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Fill(x, y, w, h int, cell core.Cell) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			b.SetCell(xx, yy, cell)
		}
	}
}

func (b *NullBackend) Clear() {
	b.Fill(0, 0, b.width, b.height, core.EmptyCell())
}

func (b *NullBackend) Show() {}

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX, b.cursorY = x, y
	b.cursorShown = true
}

func (b *NullBackend) HideCursor() {
	b.cursorShown = false
}

func (b *NullBackend) SetCursorStyle(style CursorStyle) {
	b.cursorStyle = style
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(ev Event) {
	select {
	case b.events <- ev:
	default:
	}
}

func (b *NullBackend) HasTrueColor() bool { return true }

func (b *NullBackend) Beep() {
	b.beeps++
}

func (b *NullBackend) EnableMouse()  {}
func (b *NullBackend) DisableMouse() {}
func (b *NullBackend) EnablePaste()  {}
func (b *NullBackend) DisablePaste() {}

// Resize changes the surface size, blanks it, and queues the resize event.
func (b *NullBackend) Resize(width, height int) {
	b.alloc(width, height)
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

// RowText returns the visible runes of one row with trailing blanks
// stripped, for test assertions.
func (b *NullBackend) RowText(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < b.width; x++ {
		c := b.cells[y][x]
		if c.IsContinuation() {
			continue
		}
		sb.WriteRune(c.Rune)
	}
	return strings.TrimRight(sb.String(), " ")
}

// CursorPosition reports the last hardware cursor placement.
func (b *NullBackend) CursorPosition() (x, y int, shown bool) {
	return b.cursorX, b.cursorY, b.cursorShown
}

// CursorShape reports the last requested cursor style.
func (b *NullBackend) CursorShape() CursorStyle {
	return b.cursorStyle
}

// Beeps reports how many times the bell rang.
func (b *NullBackend) Beeps() int {
	return b.beeps
}
