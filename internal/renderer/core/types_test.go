package core

import "testing"

func TestAttributeOps(t *testing.T) {
	a := AttrNone.With(AttrBold).With(AttrUnderline)

	if !a.Has(AttrBold) {
		t.Error("expected bold after With")
	}
	if !a.Has(AttrBold | AttrUnderline) {
		t.Error("Has should require all bits of the query mask")
	}
	if a.Has(AttrItalic) {
		t.Error("italic was never added")
	}

	a = a.Without(AttrBold)
	if a.Has(AttrBold) {
		t.Error("bold should be removed by Without")
	}
	if !a.Has(AttrUnderline) {
		t.Error("Without removed an unrelated attribute")
	}
}

func TestColorZeroValueIsDefault(t *testing.T) {
	var c Color
	if !c.IsDefault() {
		t.Error("zero value should be the terminal default")
	}
	if !c.Equals(ColorDefault) {
		t.Error("zero value should equal ColorDefault")
	}
	if ColorFromRGB(0, 0, 0).IsDefault() {
		t.Error("explicit black is not the default color")
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		wantErr bool
	}{
		{in: "#1E90FF", r: 0x1e, g: 0x90, b: 0xff},
		{in: "#1e90ff", r: 0x1e, g: 0x90, b: 0xff},
		{in: "#fff", r: 0xff, g: 0xff, b: 0xff},
		{in: "#a3c", r: 0xaa, g: 0x33, b: 0xcc},
		{in: "1E90FF", wantErr: true},
		{in: "#1E90F", wantErr: true},
		{in: "#GGGGGG", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		c, err := ColorFromHex(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ColorFromHex(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ColorFromHex(%q): %v", tt.in, err)
			continue
		}
		if c.R != tt.r || c.G != tt.g || c.B != tt.b {
			t.Errorf("ColorFromHex(%q) = %v, want #%02X%02X%02X", tt.in, c, tt.r, tt.g, tt.b)
		}
		if c.IsDefault() || c.Indexed {
			t.Errorf("ColorFromHex(%q): expected a set RGB color", tt.in)
		}
	}
}

func TestColorString(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{ColorDefault, "default"},
		{ColorFromIndex(5), "indexed(5)"},
		{ColorFromRGB(0x1e, 0x90, 0xff), "#1E90FF"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestStyleBuilders(t *testing.T) {
	fg := ColorFromRGB(200, 200, 200)
	bg := ColorFromRGB(20, 20, 20)

	s := NewStyle(fg, bg).Bold().Underline()
	if !s.Foreground.Equals(fg) || !s.Background.Equals(bg) {
		t.Errorf("NewStyle lost colors: %+v", s)
	}
	if !s.Attributes.Has(AttrBold | AttrUnderline) {
		t.Errorf("builder attributes missing: %v", s.Attributes)
	}

	// Builders return copies.
	base := Style{}
	_ = base.Reverse()
	if base.Attributes != AttrNone {
		t.Error("Reverse mutated the receiver")
	}

	if got := base.WithForeground(fg).Foreground; !got.Equals(fg) {
		t.Errorf("WithForeground = %v, want %v", got, fg)
	}
}

func TestCellWidths(t *testing.T) {
	if c := NewCell('a'); c.Width != 1 {
		t.Errorf("width of 'a' = %d, want 1", c.Width)
	}
	if c := NewCell('世'); c.Width != 2 {
		t.Errorf("width of '世' = %d, want 2", c.Width)
	}
	if c := EmptyCell(); c.Rune != ' ' || c.Width != 1 {
		t.Errorf("EmptyCell = %+v", c)
	}
}

func TestContinuationCell(t *testing.T) {
	style := Style{}.Reverse()
	c := ContinuationCell(style)
	if !c.IsContinuation() {
		t.Error("ContinuationCell should report IsContinuation")
	}
	if c.Style != style {
		t.Error("ContinuationCell should carry the style")
	}
	if NewCell('x').IsContinuation() {
		t.Error("a normal cell is not a continuation")
	}
}

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{' ', 1},
		{'~', 1},
		{'世', 2},
		{'界', 2},
		{'\n', 0},
		{'\x01', 0},
	}
	for _, tt := range tests {
		if got := RuneWidth(tt.r); got != tt.want {
			t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}
