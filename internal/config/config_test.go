package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("QPAD_CONFIG_HOME", "/tmp/qpad-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/qpad-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/qpad-config")
	}

	t.Setenv("QPAD_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/qpad" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/qpad")
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv("QPAD_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	def := Default()
	if cfg.Editor != def.Editor {
		t.Fatalf("Editor = %+v, want %+v", cfg.Editor, def.Editor)
	}
	if cfg.Keymap.App["ctrl+s"] != "save" || cfg.Keymap.App["alt+3"] != "tab_3" {
		t.Fatalf("app keymap = %v", cfg.Keymap.App)
	}
}

func TestLoadWithThemeAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QPAD_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "night.toml"), `
base = "dracula"

[colors]
foreground = "#111111"
background = "#222222"
`)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
tab-width = 8
font-size = 16
line-height = 22.5
line-numbers = "off"
click-interval-ms = 300
word-motion-crosses-lines = true

[theme]
name = "night"

[theme.colors]
background = "#123456"

[keymap.editor]
"ctrl+d" = "delete_word"

[keymap.app]
"ctrl+s" = "quit"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Fatalf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if cfg.Editor.FontSize != 16 || cfg.Editor.LineHeight != 22.5 {
		t.Fatalf("metrics = %v/%v, want 16/22.5", cfg.Editor.FontSize, cfg.Editor.LineHeight)
	}
	if cfg.Editor.ShowLineNumbers() {
		t.Fatalf("ShowLineNumbers = true, want false")
	}
	if cfg.Editor.ClickIntervalMS != 300 || !cfg.Editor.WordMotionCrossesLines {
		t.Fatalf("editor = %+v", cfg.Editor)
	}
	if cfg.Editor.HistoryLimit != 1000 {
		t.Fatalf("HistoryLimit = %d, want default 1000", cfg.Editor.HistoryLimit)
	}
	if cfg.Theme.Name != "dracula" {
		t.Fatalf("Theme.Name = %q, want dracula", cfg.Theme.Name)
	}
	if cfg.Theme.Colors["foreground"] != "#111111" {
		t.Fatalf("foreground = %q, want #111111", cfg.Theme.Colors["foreground"])
	}
	if cfg.Theme.Colors["background"] != "#123456" {
		t.Fatalf("background = %q, want #123456", cfg.Theme.Colors["background"])
	}
	if cfg.Keymap.Editor["ctrl+d"] != "delete_word" {
		t.Fatalf("keymap ctrl+d = %q", cfg.Keymap.Editor["ctrl+d"])
	}
	if cfg.Keymap.App["ctrl+s"] != "quit" || cfg.Keymap.App["ctrl+w"] != "close_tab" {
		t.Fatalf("app keymap = %v", cfg.Keymap.App)
	}
}

func TestLoadThemeBuiltin(t *testing.T) {
	t.Setenv("QPAD_CONFIG_HOME", t.TempDir())
	theme, err := LoadTheme("monokai")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Name != "monokai" || len(theme.Colors) != 0 {
		t.Fatalf("theme = %+v, want bare monokai", theme)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QPAD_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), "[editor\ntab-width = ")
	cfg, err := Load()
	if err == nil {
		t.Fatalf("Load error = nil, want parse error")
	}
	if cfg.Editor.TabWidth != 4 {
		t.Fatalf("TabWidth = %d, want default on error", cfg.Editor.TabWidth)
	}
}
