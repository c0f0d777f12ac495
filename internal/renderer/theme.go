package renderer

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/typewright/internal/renderer/core"
)

// Theme holds every style the renderer paints with.
type Theme struct {
	Name string

	Text       core.Style
	Selection  core.Style // replaces the background under selected cells
	WrapCaret  core.Style // the secondary caret at a soft-wrap boundary
	LineNumber core.Style
	CurrentNum core.Style // line number of the cursor's line
	Status     core.Style
	StatusWarn core.Style // transient status messages
}

// DarkTheme is the default color scheme.
func DarkTheme() Theme {
	bg := mustHex("#1c2023")
	fg := mustHex("#d4d7d9")
	accent := mustHex("#3a7bd5")

	return Theme{
		Name:       "dark",
		Text:       core.NewStyle(fg, bg),
		Selection:  core.NewStyle(fg, blend(bg, accent, 0.45)),
		WrapCaret:  core.NewStyle(fg, bg).Reverse().Dim(),
		LineNumber: core.NewStyle(blend(fg, bg, 0.6), bg),
		CurrentNum: core.NewStyle(accent, bg).Bold(),
		Status:     core.NewStyle(bg, blend(fg, bg, 0.25)),
		StatusWarn: core.NewStyle(bg, blend(fg, bg, 0.25)).Bold(),
	}
}

// LightTheme is the light color scheme.
func LightTheme() Theme {
	bg := mustHex("#fbfbf8")
	fg := mustHex("#2a2d31")
	accent := mustHex("#2d6cc0")

	return Theme{
		Name:       "light",
		Text:       core.NewStyle(fg, bg),
		Selection:  core.NewStyle(fg, blend(bg, accent, 0.3)),
		WrapCaret:  core.NewStyle(fg, bg).Reverse().Dim(),
		LineNumber: core.NewStyle(blend(fg, bg, 0.55), bg),
		CurrentNum: core.NewStyle(accent, bg).Bold(),
		Status:     core.NewStyle(bg, blend(fg, bg, 0.2)),
		StatusWarn: core.NewStyle(bg, blend(fg, bg, 0.2)).Bold(),
	}
}

// ThemeByName resolves a configured theme name.
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "", "dark":
		return DarkTheme(), true
	case "light":
		return LightTheme(), true
	}
	return Theme{}, false
}

// WithAccent rebuilds the accent-derived styles around a new accent
// color, keeping the rest of the theme.
func (t Theme) WithAccent(accent core.Color) Theme {
	if accent.IsDefault() || accent.Indexed {
		return t
	}
	bg := t.Text.Background
	t.Selection = t.Selection.WithBackground(blend(bg, accent, 0.4))
	t.CurrentNum = t.CurrentNum.WithForeground(accent)
	return t
}

// blend mixes two colors in Lab space, which keeps midpoints from going
// muddy the way naive RGB averaging does.
func blend(a, b core.Color, frac float64) core.Color {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	m := ca.BlendLab(cb, frac).Clamped()
	return core.ColorFromRGB(
		uint8(m.R*255+0.5),
		uint8(m.G*255+0.5),
		uint8(m.B*255+0.5),
	)
}

func mustHex(s string) core.Color {
	c, err := core.ColorFromHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
