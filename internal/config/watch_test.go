package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, ch <-chan Config) Config {
	t.Helper()
	select {
	case cfg := <-ch:
		return cfg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return Config{}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "[editor]\ntab_width = 4")

	ch := make(chan Config, 4)
	w, err := Watch(path, func(c Config) { ch <- c }, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	writeFile(t, dir, "config.toml", "[editor]\ntab_width = 8")

	if cfg := waitFor(t, ch); cfg.Editor.TabWidth != 8 {
		t.Errorf("TabWidth after reload = %d, want 8", cfg.Editor.TabWidth)
	}
}

func TestWatcherSurvivesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "[ui]\ntheme = \"dark\"")

	ch := make(chan Config, 4)
	w, err := Watch(path, func(c Config) { ch <- c }, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	// Save the way editors do: temp file renamed over the original.
	tmp := writeFile(t, dir, "config.toml.tmp", "[ui]\ntheme = \"light\"")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}

	if cfg := waitFor(t, ch); cfg.UI.Theme != "light" {
		t.Errorf("Theme after replace = %q, want light", cfg.UI.Theme)
	}
}

func TestWatcherReportsReloadErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "[editor]\ntab_width = 4")

	errCh := make(chan error, 4)
	w, err := Watch(path, func(Config) {},
		WithDebounce(20*time.Millisecond),
		WithErrorHandler(func(e error) { errCh <- e }))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	writeFile(t, dir, "config.toml", "[editor\nbroken")

	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload error")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "config.toml")
	if _, err := Watch(path, func(Config) {}); err == nil {
		t.Fatal("watching a missing directory should error")
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "")

	w, err := Watch(path, func(Config) {})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
