// Package layout shapes buffer lines into terminal cells.
//
// A shaped Line is a flat run of cells addressed by continuous visual
// columns; soft wrapping divides that run into display rows without
// re-laying anything out. Two index maps tie the cells back to the rune
// offsets of the source text, which is what makes caret placement and
// hit-testing cheap.
package layout

import (
	"sort"

	"github.com/dshills/typewright/internal/engine"
	"github.com/dshills/typewright/internal/renderer/core"
)

// Line is one shaped buffer line. It implements engine.Layout with rows
// exactly one cell tall, so every y coordinate is a row index.
type Line struct {
	cells []core.Cell
	vis   []int // visual column -> rune offset of the owning cluster
	cols  []int // rune offset -> visual column of its cluster
	rows  []int // visual column where each display row starts; rows[0] == 0
	subs  []int // rune offset where each display row starts; subs[0] == 0
	n     int   // rune count of the source text
}

// Width returns the cell count of the widest display row.
func (l *Line) Width() int {
	w := 0
	for k := range l.rows {
		if rl := l.rowEnd(k) - l.rows[k]; rl > w {
			w = rl
		}
	}
	return w
}

// Height returns the number of display rows.
func (l *Line) Height() int {
	return len(l.rows)
}

// LineHeight returns 1: every row is one terminal cell tall.
func (l *Line) LineHeight() int {
	return 1
}

// SubLines returns the rune offset of each display row's first cluster.
func (l *Line) SubLines() []int {
	return l.subs
}

// CursorCoords returns the caret cell for a rune offset. An offset on a
// wrap boundary resolves to column zero of the following row.
func (l *Line) CursorCoords(off int) (x, y int) {
	c := l.colAt(off)
	k := l.rowOf(c)
	return c - l.rows[k], k
}

// TrailingCoords is CursorCoords except that a wrap boundary resolves to
// the end of the preceding row.
func (l *Line) TrailingCoords(off int) (x, y int) {
	x, y = l.CursorCoords(off)
	if y > 0 && x == 0 {
		return l.rows[y] - l.rows[y-1], y - 1
	}
	return x, y
}

// CoordToPos returns the nearest caret offset to a cell position. A hit
// on the trailing half of a wide cluster lands after it; a hit past the
// end of a row lands on the row's final caret.
func (l *Line) CoordToPos(x, y int) int {
	k := y
	if k < 0 {
		k = 0
	}
	if k >= len(l.rows) {
		k = len(l.rows) - 1
	}
	start, end := l.rows[k], l.rowEnd(k)
	c := start + x
	if c < start {
		c = start
	}
	if c >= end {
		if k == len(l.rows)-1 {
			return l.n
		}
		return l.subs[k+1]
	}

	r := l.vis[c]
	c0 := l.cols[r]
	cw := 1
	for c0+cw < len(l.vis) && l.vis[c0+cw] == r {
		cw++
	}
	if c-c0 < (cw+1)/2 {
		return r
	}
	nr := r + 1
	for nr < l.n && l.cols[nr] == c0 {
		nr++
	}
	return nr
}

// RangeRects returns one highlight rectangle per display row touched by
// the rune range [start, end).
func (l *Line) RangeRects(start, end int) []engine.Rect {
	if start < 0 {
		start = 0
	}
	if end > l.n {
		end = l.n
	}
	if start >= end {
		return nil
	}
	vs, ve := l.colAt(start), l.colAt(end)
	if vs == ve {
		return nil
	}

	var rects []engine.Rect
	for k := l.rowOf(vs); k < len(l.rows); k++ {
		rs, re := l.rows[k], l.rowEnd(k)
		s, t := vs, ve
		if s < rs {
			s = rs
		}
		if t > re {
			t = re
		}
		if s < t {
			rects = append(rects, engine.Rect{X: s - rs, Y: k, W: t - s, H: 1})
		}
		if re >= ve {
			break
		}
	}
	return rects
}

// CellsForRow returns the cells of one display row. The slice aliases
// the line's storage and must not be modified.
func (l *Line) CellsForRow(k int) []core.Cell {
	return l.cells[l.rows[k]:l.rowEnd(k)]
}

func (l *Line) rowEnd(k int) int {
	if k+1 < len(l.rows) {
		return l.rows[k+1]
	}
	return len(l.cells)
}

func (l *Line) rowOf(c int) int {
	return sort.Search(len(l.rows), func(i int) bool { return l.rows[i] > c }) - 1
}

func (l *Line) colAt(off int) int {
	if off >= l.n {
		return len(l.cells)
	}
	return l.cols[off]
}
