package config

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Editor.TabWidth != 4 {
		t.Errorf("TabWidth = %d, want 4", cfg.Editor.TabWidth)
	}
	if !cfg.Editor.WordWrap {
		t.Error("WordWrap should default on")
	}
	if !cfg.Editor.LineNumbers {
		t.Error("LineNumbers should default on")
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.UI.Theme)
	}
	if cfg.UI.CursorStyle != "bar" {
		t.Errorf("CursorStyle = %q, want bar", cfg.UI.CursorStyle)
	}
	if cfg.Files.Encoding != "utf-8" {
		t.Errorf("Encoding = %q, want utf-8", cfg.Files.Encoding)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
[editor]
tab_width = 8
word_wrap = false

[ui]
theme = "light"
accent = "#cc4455"

[log]
level = "debug"
file = "/tmp/tw.log"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Errorf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if cfg.Editor.WordWrap {
		t.Error("WordWrap should be off")
	}
	if cfg.UI.Theme != "light" || cfg.UI.Accent != "#cc4455" {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/tw.log" {
		t.Errorf("Log = %+v", cfg.Log)
	}

	// Sections the file omits keep their defaults.
	if !cfg.Editor.LineNumbers {
		t.Error("LineNumbers should keep its default")
	}
	if cfg.Files.Encoding != "utf-8" {
		t.Errorf("Encoding = %q, want default", cfg.Files.Encoding)
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
[editor]
tab_width = 2
from_the_future = "yes"

[telepathy]
enabled = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unknown keys should not error: %v", err)
	}
	if cfg.Editor.TabWidth != 2 {
		t.Errorf("TabWidth = %d, want 2", cfg.Editor.TabWidth)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "[editor\ntab_width = ")

	cfg, err := Load(path)
	if err == nil {
		t.Fatal("malformed TOML should error")
	}
	if cfg != Default() {
		t.Errorf("malformed file should fall back to defaults, got %+v", cfg)
	}
}

func TestLoadClampsTabWidth(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero", 0, 4},
		{"negative", -3, 4},
		{"huge", 99, 16},
		{"sane", 8, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.toml",
				"[editor]\ntab_width = "+strconv.Itoa(tt.in))
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Editor.TabWidth != tt.want {
				t.Errorf("TabWidth = %d, want %d", cfg.Editor.TabWidth, tt.want)
			}
		})
	}
}
