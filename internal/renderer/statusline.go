package renderer

import (
	"fmt"

	"github.com/dshills/typewright/internal/renderer/core"
)

// paintStatus draws the bottom row: file name and flags on the left,
// encoding, line ending, and cursor position on the right. A transient
// message takes over the left side. The right side wins the space when
// the terminal is too narrow for both.
func (r *Renderer) paintStatus(w, y int) {
	r.b.Fill(0, y, w, 1, core.Cell{Rune: ' ', Width: 1, Style: r.theme.Status})

	line, col := r.eng.CursorLineCol()
	_, _, last := r.eng.VisibleLines()
	n := r.eng.NumLines()
	right := fmt.Sprintf("Ln %d/%d, Col %d  %d%% ", line+1, n, col+1, 100*last/n)
	if r.status.LineEnd != "" {
		right = r.status.LineEnd + "  " + right
	}
	if r.status.Encoding != "" {
		right = r.status.Encoding + "  " + right
	}
	rx := w - cellWidth(right)
	if rx < 0 {
		rx = 0
	}
	r.paintString(rx, y, w, right, r.theme.Status)

	left := " " + r.status.Name
	if r.status.Name == "" {
		left = " untitled"
	}
	if r.status.Modified {
		left += "*"
	}
	if r.status.ReadOnly {
		left += " [RO]"
	}
	style := r.theme.Status
	if r.status.Message != "" {
		left = " " + r.status.Message
		style = r.theme.StatusWarn
	}
	r.paintString(0, y, rx, left, style)
}

// paintString draws s from x, stopping before maxX, and returns the
// column after the last cell drawn.
func (r *Renderer) paintString(x, y, maxX int, s string, style core.Style) int {
	for _, ch := range s {
		cw := core.RuneWidth(ch)
		if cw == 0 {
			continue
		}
		if x+cw > maxX {
			break
		}
		r.b.SetCell(x, y, core.NewStyledCell(ch, style))
		for i := 1; i < cw; i++ {
			r.b.SetCell(x+i, y, core.ContinuationCell(style))
		}
		x += cw
	}
	return x
}

func cellWidth(s string) int {
	w := 0
	for _, ch := range s {
		w += core.RuneWidth(ch)
	}
	return w
}
