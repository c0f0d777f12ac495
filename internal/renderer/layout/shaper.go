package layout

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/typewright/internal/engine"
	"github.com/dshills/typewright/internal/renderer/core"
)

const defaultTabWidth = 4

// Shaper shapes line text into monospace cell layouts. It iterates
// grapheme clusters so a combining sequence or a wide rune always lands
// in one unsplittable group of cells.
type Shaper struct {
	tabWidth int
	wordWrap bool
}

// NewShaper creates a shaper. tabWidth <= 0 selects the default of 4.
func NewShaper(tabWidth int, wordWrap bool) *Shaper {
	if tabWidth <= 0 {
		tabWidth = defaultTabWidth
	}
	return &Shaper{tabWidth: tabWidth, wordWrap: wordWrap}
}

// LineHeight returns 1; shaped rows are one terminal cell tall.
func (s *Shaper) LineHeight() int {
	return 1
}

// TabWidth returns the current tab stop interval.
func (s *Shaper) TabWidth() int {
	return s.tabWidth
}

// SetTabWidth changes the tab stop interval. Layouts shaped earlier keep
// the old expansion, so callers invalidate cached layouts afterwards.
func (s *Shaper) SetTabWidth(w int) {
	if w <= 0 {
		w = defaultTabWidth
	}
	s.tabWidth = w
}

// SetWordWrap toggles breaking at whitespace instead of mid-word.
func (s *Shaper) SetWordWrap(on bool) {
	s.wordWrap = on
}

// Shape lays out text into cells soft-wrapped at maxWidth columns.
// maxWidth <= 0 disables wrapping. Tabs expand to the next tab stop
// measured in continuous columns, wide clusters get continuation cells,
// and zero-width clusters occupy no cells at all.
func (s *Shaper) Shape(text string, maxWidth int) engine.Layout {
	ln := &Line{rows: []int{0}, subs: []int{0}}

	lastBreak := -1 // column just after the most recent breakable cluster in this row
	state := -1
	off := 0

	for rest := text; rest != ""; {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)

		tab := cluster == "\t"
		if tab {
			width = s.tabWidth - len(ln.cells)%s.tabWidth
		}

		if maxWidth > 0 && width > 0 {
			if rl := len(ln.cells) - ln.rows[len(ln.rows)-1]; rl > 0 && rl+width > maxWidth {
				ln.wrap(s.wordWrap, lastBreak, off)
				lastBreak = -1
			}
		}

		runes := []rune(cluster)
		col := len(ln.cells)
		switch {
		case tab:
			for i := 0; i < width; i++ {
				ln.cells = append(ln.cells, core.Cell{Rune: ' ', Width: 1})
				ln.vis = append(ln.vis, off)
			}
		case width > 0:
			ln.cells = append(ln.cells, core.Cell{Rune: runes[0], Width: width})
			ln.vis = append(ln.vis, off)
			for i := 1; i < width; i++ {
				ln.cells = append(ln.cells, core.ContinuationCell(core.Style{}))
				ln.vis = append(ln.vis, off)
			}
		}
		for range runes {
			ln.cols = append(ln.cols, col)
		}
		ln.n += len(runes)
		off += len(runes)

		if tab || cluster == " " {
			lastBreak = len(ln.cells)
		}
	}
	return ln
}

// wrap starts a new display row before the cluster about to be placed.
// With word wrapping the break moves back to just after the row's last
// breakable cluster, provided that leaves the row non-empty.
func (l *Line) wrap(wordWrap bool, lastBreak, pendingOff int) {
	br := len(l.cells)
	if wordWrap && lastBreak > l.rows[len(l.rows)-1] {
		br = lastBreak
	}
	l.rows = append(l.rows, br)
	if br < len(l.vis) {
		l.subs = append(l.subs, l.vis[br])
	} else {
		l.subs = append(l.subs, pendingOff)
	}
}
