// Package core defines the cell, color, and style primitives shared by the
// renderer packages.
package core

import (
	"fmt"

	"github.com/rivo/uniseg"
)

// Attribute is a bitmask of text display attributes.
type Attribute uint16

const (
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrStrikethrough
)

// AttrNone is the empty attribute set.
const AttrNone Attribute = 0

// Has reports whether the mask contains all bits of attr.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr == attr
}

// With returns the mask with attr added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns the mask with attr removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// Color is a terminal color. The zero value is the terminal's default color.
type Color struct {
	R, G, B uint8
	Indexed bool // R holds a palette index, G and B are unused
	set     bool
}

// ColorDefault is the terminal's default foreground or background.
var ColorDefault = Color{}

// ColorFromRGB returns a 24-bit color.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, set: true}
}

// ColorFromIndex returns a color from the 256-color terminal palette.
func ColorFromIndex(idx uint8) Color {
	return Color{R: idx, Indexed: true, set: true}
}

// ColorFromHex parses "#RRGGBB" or "#RGB" into a 24-bit color.
func ColorFromHex(s string) (Color, error) {
	if len(s) == 0 || s[0] != '#' {
		return Color{}, fmt.Errorf("color %q: missing # prefix", s)
	}
	hex := s[1:]
	var digits [6]uint8
	switch len(hex) {
	case 6:
		for i := 0; i < 6; i++ {
			d, ok := hexDigit(hex[i])
			if !ok {
				return Color{}, fmt.Errorf("color %q: invalid hex digit %q", s, hex[i])
			}
			digits[i] = d
		}
	case 3:
		for i := 0; i < 3; i++ {
			d, ok := hexDigit(hex[i])
			if !ok {
				return Color{}, fmt.Errorf("color %q: invalid hex digit %q", s, hex[i])
			}
			digits[2*i] = d
			digits[2*i+1] = d
		}
	default:
		return Color{}, fmt.Errorf("color %q: want #RRGGBB or #RGB", s)
	}
	return ColorFromRGB(
		digits[0]<<4|digits[1],
		digits[2]<<4|digits[3],
		digits[4]<<4|digits[5],
	), nil
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// IsDefault reports whether the color is the terminal default.
func (c Color) IsDefault() bool {
	return !c.set
}

// Equals reports whether two colors are the same.
func (c Color) Equals(o Color) bool {
	return c == o
}

func (c Color) String() string {
	if !c.set {
		return "default"
	}
	if c.Indexed {
		return fmt.Sprintf("indexed(%d)", c.R)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Style describes how a cell is drawn. The zero value is the terminal's
// default style.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// NewStyle returns a style with the given foreground and background.
func NewStyle(fg, bg Color) Style {
	return Style{Foreground: fg, Background: bg}
}

// WithForeground returns the style with the foreground replaced.
func (s Style) WithForeground(c Color) Style {
	s.Foreground = c
	return s
}

// WithBackground returns the style with the background replaced.
func (s Style) WithBackground(c Color) Style {
	s.Background = c
	return s
}

// WithAttr returns the style with attr added.
func (s Style) WithAttr(attr Attribute) Style {
	s.Attributes = s.Attributes.With(attr)
	return s
}

// Bold returns the style with the bold attribute added.
func (s Style) Bold() Style {
	return s.WithAttr(AttrBold)
}

// Dim returns the style with the dim attribute added.
func (s Style) Dim() Style {
	return s.WithAttr(AttrDim)
}

// Reverse returns the style with the reverse-video attribute added.
func (s Style) Reverse() Style {
	return s.WithAttr(AttrReverse)
}

// Underline returns the style with the underline attribute added.
func (s Style) Underline() Style {
	return s.WithAttr(AttrUnderline)
}

// Cell is one screen cell: a rune, its display width, and its style.
// Wide runes occupy their own cell followed by Width-1 continuation cells.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

// EmptyCell returns a blank cell with the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1}
}

// NewCell returns an unstyled cell for r.
func NewCell(r rune) Cell {
	return Cell{Rune: r, Width: RuneWidth(r)}
}

// NewStyledCell returns a styled cell for r.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// WithStyle returns the cell with its style replaced.
func (c Cell) WithStyle(style Style) Cell {
	c.Style = style
	return c
}

// ContinuationCell returns the filler placed after a wide rune.
func ContinuationCell(style Style) Cell {
	return Cell{Style: style}
}

// IsContinuation reports whether the cell is the trailing half of a wide rune.
func (c Cell) IsContinuation() bool {
	return c.Rune == 0 && c.Width == 0
}

// RuneWidth returns the number of terminal columns r occupies.
// Control characters and combining marks report zero.
func RuneWidth(r rune) int {
	if r >= 0x20 && r < 0x7f {
		return 1
	}
	return uniseg.StringWidth(string(r))
}
