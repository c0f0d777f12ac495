// Package config loads the editor's TOML configuration file and watches
// it for changes.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds every user-tunable setting, one sub-struct per file
// section. Unknown keys in the file are ignored so configs written for
// newer versions still load.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	UI     UIConfig     `toml:"ui"`
	Files  FilesConfig  `toml:"files"`
	Log    LogConfig    `toml:"log"`
}

// EditorConfig holds text editing settings.
type EditorConfig struct {
	// TabWidth is the column multiple tab stops sit on, clamped to [1, 16].
	TabWidth int `toml:"tab_width"`

	// WordWrap breaks long lines at word boundaries instead of mid-word.
	WordWrap bool `toml:"word_wrap"`

	// LineNumbers shows the line-number gutter.
	LineNumbers bool `toml:"line_numbers"`

	// Script is a Lua file F2 runs against the open document.
	Script string `toml:"script"`
}

// UIConfig holds appearance settings.
type UIConfig struct {
	// Theme is the color scheme name ("dark", "light").
	Theme string `toml:"theme"`

	// Accent recolors the theme's accent as a hex color ("#3a7bd5").
	// Empty keeps the theme's own accent.
	Accent string `toml:"accent"`

	// CursorStyle is the terminal cursor shape ("bar", "block", "underline").
	CursorStyle string `toml:"cursor_style"`
}

// FilesConfig holds file loading settings.
type FilesConfig struct {
	// Encoding decodes files that carry no byte order mark ("utf-8",
	// "utf-16le", "utf-16be", "latin-1", "windows-1252").
	Encoding string `toml:"encoding"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum level written ("debug", "info", "warn", "error").
	Level string `toml:"level"`

	// File receives log output when set. Empty discards logs, since the
	// terminal is busy being an editor.
	File string `toml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TabWidth:    4,
			WordWrap:    true,
			LineNumbers: true,
		},
		UI: UIConfig{
			Theme:       "dark",
			CursorStyle: "bar",
		},
		Files: FilesConfig{
			Encoding: "utf-8",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the per-user config file location,
// $XDG_CONFIG_HOME/typewright/config.toml or the platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "typewright", "config.toml"), nil
}

// Load reads the file at path over the defaults. A missing file is not
// an error; a malformed one returns the defaults along with the error so
// the caller can keep running.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize pulls out-of-range values back to something usable rather
// than failing the whole load.
func (c *Config) normalize() {
	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = Default().Editor.TabWidth
	}
	if c.Editor.TabWidth > 16 {
		c.Editor.TabWidth = 16
	}
}
