package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Keymap binds chords to action names. Editor bindings override the
// built-in editing keys; App bindings drive tabs and files.
type Keymap struct {
	Editor map[string]string `toml:"editor"`
	App    map[string]string `toml:"app"`
}

type EditorOptions struct {
	TabWidth               int     `toml:"tab-width"`
	FontSize               float32 `toml:"font-size"`
	LineHeight             float32 `toml:"line-height"`
	LineNumbers            string  `toml:"line-numbers"`
	ClickIntervalMS        int     `toml:"click-interval-ms"`
	WordMotionCrossesLines bool    `toml:"word-motion-crosses-lines"`
	HistoryLimit           int     `toml:"history-limit"`
	ScrollLines            int     `toml:"scroll-lines"`
	Font                   string  `toml:"font"`
}

// Theme names a chroma style and overrides single colors of it.
type Theme struct {
	Name   string            `toml:"name"`
	Colors map[string]string `toml:"colors"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

func Default() Config {
	app := map[string]string{
		"ctrl+s": "save",
		"ctrl+w": "close_tab",
		"ctrl+n": "new_tab",
		"ctrl+q": "quit",
		"ctrl+o": "open",
	}
	for i := 1; i <= 9; i++ {
		app["alt+"+strconv.Itoa(i)] = "tab_" + strconv.Itoa(i)
	}
	return Config{
		Editor: EditorOptions{
			TabWidth:        4,
			FontSize:        14,
			LineHeight:      20,
			LineNumbers:     "absolute",
			ClickIntervalMS: 500,
			HistoryLimit:    1000,
			ScrollLines:     3,
			Font:            "gomono",
		},
		Theme: Theme{
			Name:   "catppuccin-mocha",
			Colors: map[string]string{},
		},
		Keymap: Keymap{
			Editor: map[string]string{},
			App:    app,
		},
	}
}

// ShowLineNumbers reports whether the gutter is drawn.
func (o EditorOptions) ShowLineNumbers() bool {
	return o.LineNumbers != "off" && o.LineNumbers != "none"
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	mergeEditor(&cfg.Editor, userCfg.Editor)

	if userCfg.Theme.Name != "" {
		cfg.Theme.Name = userCfg.Theme.Name
		theme, err := LoadTheme(userCfg.Theme.Name)
		if err != nil {
			return cfg, err
		}
		cfg.Theme.Name = theme.Name
		for k, v := range theme.Colors {
			cfg.Theme.Colors[k] = v
		}
	}
	for k, v := range userCfg.Theme.Colors {
		cfg.Theme.Colors[k] = v
	}
	for k, v := range userCfg.Keymap.Editor {
		cfg.Keymap.Editor[k] = v
	}
	for k, v := range userCfg.Keymap.App {
		cfg.Keymap.App[k] = v
	}
	return cfg, nil
}

func mergeEditor(dst *EditorOptions, src EditorOptions) {
	if src.TabWidth > 0 {
		dst.TabWidth = src.TabWidth
	}
	if src.FontSize > 0 {
		dst.FontSize = src.FontSize
	}
	if src.LineHeight > 0 {
		dst.LineHeight = src.LineHeight
	}
	if src.LineNumbers != "" {
		dst.LineNumbers = src.LineNumbers
	}
	if src.ClickIntervalMS > 0 {
		dst.ClickIntervalMS = src.ClickIntervalMS
	}
	if src.WordMotionCrossesLines {
		dst.WordMotionCrossesLines = true
	}
	if src.HistoryLimit > 0 {
		dst.HistoryLimit = src.HistoryLimit
	}
	if src.ScrollLines > 0 {
		dst.ScrollLines = src.ScrollLines
	}
	if src.Font != "" {
		dst.Font = src.Font
	}
}

// themeFile is a user theme: a chroma style to start from plus colors.
type themeFile struct {
	Base   string            `toml:"base"`
	Colors map[string]string `toml:"colors"`
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme resolves name to a theme. A file <config dir>/theme/<name>.toml
// wins; otherwise name is taken as a built-in chroma style.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Theme{Name: name}, nil
		}
		return Theme{}, err
	}
	var tf themeFile
	if _, err := toml.Decode(string(data), &tf); err != nil {
		return Theme{}, fmt.Errorf("parse theme %s: %w", path, err)
	}
	t := Theme{Name: tf.Base, Colors: tf.Colors}
	if t.Name == "" {
		t.Name = Default().Theme.Name
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QPAD_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qpad"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qpad"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
