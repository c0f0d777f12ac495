package backend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/typewright/internal/renderer/core"
)

// Terminal implements Backend on a real terminal via tcell. Apart from
// PostEvent its methods must be called from one goroutine.
type Terminal struct {
	screen tcell.Screen
}

// NewTerminal allocates a terminal backend; Init attaches it.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

func (t *Terminal) Init() error {
	return t.screen.Init()
}

func (t *Terminal) Shutdown() {
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	// tcell paints wide runes across both columns itself.
	if cell.IsContinuation() {
		return
	}
	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) GetCell(x, y int) core.Cell {
	mainc, _, style, _ := t.screen.GetContent(x, y)
	return core.Cell{
		Rune:  mainc,
		Width: core.RuneWidth(mainc),
		Style: convertTcellStyle(style),
	}
}

func (t *Terminal) Fill(x, y, w, h int, cell core.Cell) {
	style := convertStyle(cell.Style)
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			t.screen.SetContent(xx, yy, cell.Rune, nil, style)
		}
	}
}

func (t *Terminal) Clear() {
	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.screen.HideCursor()
}

func (t *Terminal) SetCursorStyle(style CursorStyle) {
	switch style {
	case CursorUnderline:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyUnderline)
	case CursorBar:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
	default:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	}
}

func (t *Terminal) PollEvent() Event {
	return convertEvent(t.screen.PollEvent())
}

// postedEvent carries an already-converted Event through tcell's queue.
type postedEvent struct {
	tcell.EventTime
	ev Event
}

func (t *Terminal) PostEvent(ev Event) {
	p := &postedEvent{ev: ev}
	p.SetEventNow()
	_ = t.screen.PostEvent(p)
}

func (t *Terminal) HasTrueColor() bool {
	return t.screen.Colors() > 256
}

func (t *Terminal) Beep() {
	_ = t.screen.Beep()
}

func (t *Terminal) EnableMouse() {
	t.screen.EnableMouse()
}

func (t *Terminal) DisableMouse() {
	t.screen.DisableMouse()
}

func (t *Terminal) EnablePaste() {
	t.screen.EnablePaste()
}

func (t *Terminal) DisablePaste() {
	t.screen.DisablePaste()
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *postedEvent:
		return e.ev

	case *tcell.EventKey:
		return convertKey(e)

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:   EventMouse,
			MouseX: x,
			MouseY: y,
			Button: convertButtons(e.Buttons()),
			Mod:    convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventPaste:
		return Event{Type: EventPaste, Start: e.Start()}

	case *tcell.EventInterrupt:
		return Event{Type: EventRefresh}

	default:
		return Event{Type: EventNone}
	}
}

// convertKey flattens tcell's key space: dedicated constants for the
// editing and navigation keys, and KeyRune plus ModCtrl for control
// chords, so keymaps match on the letter rather than a C0 code.
func convertKey(ev *tcell.EventKey) Event {
	out := Event{Type: EventKey, Mod: convertMod(ev.Modifiers())}

	k := ev.Key()
	switch k {
	case tcell.KeyRune:
		out.Key, out.Rune = KeyRune, ev.Rune()
		return out
	case tcell.KeyEnter:
		out.Key = KeyEnter
		return out
	case tcell.KeyTab:
		out.Key = KeyTab
		return out
	case tcell.KeyBacktab:
		out.Key = KeyTab
		out.Mod |= ModShift
		return out
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		out.Key = KeyBackspace
		return out
	case tcell.KeyEscape:
		out.Key = KeyEscape
		return out
	case tcell.KeyDelete:
		out.Key = KeyDelete
		return out
	case tcell.KeyInsert:
		out.Key = KeyInsert
		return out
	case tcell.KeyHome:
		out.Key = KeyHome
		return out
	case tcell.KeyEnd:
		out.Key = KeyEnd
		return out
	case tcell.KeyPgUp:
		out.Key = KeyPageUp
		return out
	case tcell.KeyPgDn:
		out.Key = KeyPageDown
		return out
	case tcell.KeyUp:
		out.Key = KeyUp
		return out
	case tcell.KeyDown:
		out.Key = KeyDown
		return out
	case tcell.KeyLeft:
		out.Key = KeyLeft
		return out
	case tcell.KeyRight:
		out.Key = KeyRight
		return out
	}

	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		out.Key = KeyF1 + Key(k-tcell.KeyF1)
		return out
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		out.Key = KeyRune
		out.Rune = rune('a' + k - tcell.KeyCtrlA)
		out.Mod |= ModCtrl
		return out
	}

	out.Key = KeyNone
	return out
}

func convertMod(m tcell.ModMask) ModMask {
	var out ModMask
	if m&tcell.ModShift != 0 {
		out |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= ModMeta
	}
	return out
}

func convertButtons(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseLeft
	case b&tcell.Button2 != 0:
		return MouseMiddle
	case b&tcell.Button3 != 0:
		return MouseRight
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	default:
		return MouseNone
	}
}

func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		style = style.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		style = style.Background(convertColor(s.Background))
	}

	attrs := s.Attributes
	if attrs.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if attrs.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if attrs.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if attrs.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if attrs.Has(core.AttrBlink) {
		style = style.Blink(true)
	}
	if attrs.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	if attrs.Has(core.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}
	return style
}

func convertColor(c core.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func convertTcellStyle(ts tcell.Style) core.Style {
	fg, bg, attrs := ts.Decompose()

	s := core.Style{
		Foreground: convertTcellColor(fg),
		Background: convertTcellColor(bg),
	}
	if attrs&tcell.AttrBold != 0 {
		s.Attributes = s.Attributes.With(core.AttrBold)
	}
	if attrs&tcell.AttrDim != 0 {
		s.Attributes = s.Attributes.With(core.AttrDim)
	}
	if attrs&tcell.AttrItalic != 0 {
		s.Attributes = s.Attributes.With(core.AttrItalic)
	}
	if attrs&tcell.AttrUnderline != 0 {
		s.Attributes = s.Attributes.With(core.AttrUnderline)
	}
	if attrs&tcell.AttrBlink != 0 {
		s.Attributes = s.Attributes.With(core.AttrBlink)
	}
	if attrs&tcell.AttrReverse != 0 {
		s.Attributes = s.Attributes.With(core.AttrReverse)
	}
	if attrs&tcell.AttrStrikeThrough != 0 {
		s.Attributes = s.Attributes.With(core.AttrStrikethrough)
	}
	return s
}

func convertTcellColor(tc tcell.Color) core.Color {
	if tc == tcell.ColorDefault {
		return core.ColorDefault
	}
	if tc&tcell.ColorIsRGB != 0 {
		r, g, b := tc.RGB()
		return core.ColorFromRGB(uint8(r), uint8(g), uint8(b))
	}
	return core.ColorFromIndex(uint8(tc &^ tcell.ColorValid))
}
