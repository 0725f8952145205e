package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Language maps file types to a grammar name.
type Language struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

// DefaultLanguages covers the grammars compiled into the binary.
func DefaultLanguages() Languages {
	return Languages{Languages: []Language{
		{Name: "go", FileTypes: []string{"go"}},
		{Name: "yaml", FileTypes: []string{"yaml", "yml"}},
		{Name: "toml", FileTypes: []string{"toml", "Cargo.lock"}},
		{Name: "bash", FileTypes: []string{"sh", "bash", ".bashrc", ".bash_profile", ".zshrc"}},
	}}
}

func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// LoadLanguages reads languages.toml. User entries are matched before the
// defaults.
func LoadLanguages() (Languages, error) {
	defaults := DefaultLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return defaults, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults, nil
		}
		return defaults, err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return defaults, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Languages = append(cfg.Languages, defaults.Languages...)
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
