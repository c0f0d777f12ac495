// Package renderer paints an engine viewport onto a backend surface:
// wrapped text, selection, carets, line-number gutter, and status line.
package renderer

import (
	"fmt"

	"github.com/dshills/typewright/internal/engine"
	"github.com/dshills/typewright/internal/renderer/backend"
	"github.com/dshills/typewright/internal/renderer/core"
	"github.com/dshills/typewright/internal/renderer/layout"
)

// Status carries the document facts the status line displays.
type Status struct {
	Name     string
	Modified bool
	ReadOnly bool
	Encoding string
	LineEnd  string
	Message  string // transient; shown in place of the file name
}

// Renderer draws complete frames. It owns the screen geometry: every
// frame it splits the surface into gutter, text area, and status line,
// and sizes the engine viewport to the text area.
type Renderer struct {
	b       backend.Backend
	eng     *engine.Engine
	theme   Theme
	showNum bool
	status  Status

	gutterW int
}

// New creates a renderer drawing eng onto b.
func New(b backend.Backend, eng *engine.Engine, theme Theme) *Renderer {
	return &Renderer{b: b, eng: eng, theme: theme, showNum: true}
}

// SetTheme swaps the color scheme.
func (r *Renderer) SetTheme(t Theme) {
	r.theme = t
}

// SetShowLineNumbers toggles the gutter.
func (r *Renderer) SetShowLineNumbers(on bool) {
	r.showNum = on
}

// SetStatus updates the status line content for the next frame.
func (r *Renderer) SetStatus(s Status) {
	r.status = s
}

// TextOrigin returns the screen position of the text area's top-left
// cell, as of the last frame. Mouse coordinates translate through it.
func (r *Renderer) TextOrigin() (x, y int) {
	return r.gutterW, 0
}

// Frame repaints the whole surface and flushes it.
func (r *Renderer) Frame() {
	w, h := r.b.Size()
	if w <= 0 || h <= 0 {
		return
	}

	textH := h
	statusY := -1
	if h >= 2 {
		textH = h - 1
		statusY = h - 1
	}

	r.gutterW = r.gutterWidth()
	textW := w - r.gutterW
	if textW < 1 {
		r.gutterW = 0
		textW = w
	}
	r.eng.Resize(textW, textH)

	r.b.Fill(0, 0, w, textH, core.Cell{Rune: ' ', Width: 1, Style: r.theme.Text})
	r.paintText(textW, textH)
	if r.gutterW > 0 {
		r.paintGutter(textH)
	}
	if statusY >= 0 {
		r.paintStatus(w, statusY)
	}
	r.placeCursor(textW, textH)
	r.b.Show()
}

func (r *Renderer) gutterWidth() int {
	if !r.showNum {
		return 0
	}
	digits := 1
	for n := r.eng.NumLines(); n >= 10; n /= 10 {
		digits++
	}
	if digits < 2 {
		digits = 2
	}
	return digits + 2
}

type span struct{ x, w int }

func (r *Renderer) paintText(textW, textH int) {
	sel := r.selectionByRow()

	topY, first, last := r.eng.VisibleLines()
	y := topY
	for li := first; li < last; li++ {
		l := r.eng.LayoutFor(li)
		ln, ok := l.(*layout.Line)
		if !ok {
			panic("renderer: layouts must be shaped by the layout package")
		}
		lh := l.LineHeight()
		for k := 0; k < l.Height()/lh; k++ {
			rowY := y + k*lh
			if rowY >= 0 && rowY < textH {
				r.paintRow(ln.CellsForRow(k), rowY, textW, sel[rowY])
			}
		}
		y += l.Height()
	}
}

func (r *Renderer) paintRow(cells []core.Cell, rowY, textW int, sel []span) {
	for x, c := range cells {
		if x >= textW {
			break
		}
		style := r.theme.Text
		if inSpan(sel, x) {
			style = r.theme.Selection
		}
		r.b.SetCell(r.gutterW+x, rowY, c.WithStyle(style))
	}
	// Selected newlines and empty lines highlight past the text.
	blank := core.Cell{Rune: ' ', Width: 1, Style: r.theme.Selection}
	for _, s := range sel {
		for x := max(s.x, len(cells)); x < s.x+s.w && x < textW; x++ {
			r.b.SetCell(r.gutterW+x, rowY, blank)
		}
	}
}

func (r *Renderer) selectionByRow() map[int][]span {
	rects := r.eng.SelectionRects()
	if len(rects) == 0 {
		return nil
	}
	m := make(map[int][]span, len(rects))
	for _, rc := range rects {
		m[rc.Y] = append(m[rc.Y], span{rc.X, rc.W})
	}
	return m
}

func inSpan(spans []span, x int) bool {
	for _, s := range spans {
		if x >= s.x && x < s.x+s.w {
			return true
		}
	}
	return false
}

func (r *Renderer) paintGutter(textH int) {
	curLine, _ := r.eng.CursorLineCol()

	topY, first, last := r.eng.VisibleLines()
	y := topY
	for li := first; li < last; li++ {
		if y >= 0 && y < textH {
			style := r.theme.LineNumber
			if li == curLine {
				style = r.theme.CurrentNum
			}
			num := fmt.Sprintf("%*d ", r.gutterW-1, li+1)
			for x := 0; x < len(num) && x < r.gutterW; x++ {
				r.b.SetCell(x, y, core.NewStyledCell(rune(num[x]), style))
			}
		}
		y += r.eng.LayoutFor(li).Height()
	}
}

func (r *Renderer) placeCursor(textW, textH int) {
	cx, cy := r.eng.CursorScreen()
	if cy < 0 || cy >= textH {
		r.b.HideCursor()
		return
	}
	r.b.ShowCursor(r.gutterW+min(cx, textW-1), cy)

	// At a soft-wrap boundary the caret also marks the end of the row
	// above, drawn as a restyled cell since there is one hardware cursor.
	if wx, wy, ok := r.eng.CursorAtWrap(); ok && wy >= 0 && wy < textH {
		x := r.gutterW + min(wx, textW-1)
		c := r.b.GetCell(x, wy)
		r.b.SetCell(x, wy, c.WithStyle(r.theme.WrapCaret))
	}
}
