package input

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chord is a key plus modifiers, as written in keymaps ("cmd+shift+left").
type Chord struct {
	Mods Modifiers
	Key  Key
	Rune rune
}

var modifierNames = map[string]Modifiers{
	"cmd":    ModMeta,
	"meta":   ModMeta,
	"super":  ModMeta,
	"ctrl":   ModCtrl,
	"alt":    ModAlt,
	"opt":    ModAlt,
	"option": ModAlt,
	"shift":  ModShift,
}

var keyAliases = map[string]Key{
	"return":   KeyEnter,
	"delete":   KeyDelete,
	"escape":   KeyEscape,
	"pageup":   KeyPageUp,
	"pagedown": KeyPageDown,
}

// ParseChord parses a keymap chord. Modifier names may appear in any order;
// the last component is the key.
func ParseChord(s string) (Chord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Chord{}, fmt.Errorf("empty chord")
	}
	parts := strings.Split(s, "+")
	// "ctrl++" binds the plus key.
	if strings.HasSuffix(s, "++") {
		parts = append(parts[:len(parts)-2], "+")
	}
	var c Chord
	for _, p := range parts[:len(parts)-1] {
		m, ok := modifierNames[strings.ToLower(p)]
		if !ok {
			return Chord{}, fmt.Errorf("chord %q: unknown modifier %q", s, p)
		}
		c.Mods |= m
	}
	key := parts[len(parts)-1]
	switch {
	case key == "space":
		c.Key, c.Rune = KeyRune, ' '
	case utf8.RuneCountInString(key) == 1:
		r, _ := utf8.DecodeRuneInString(key)
		c.Key, c.Rune = KeyRune, unicode.ToLower(r)
		if unicode.IsUpper(r) {
			c.Mods |= ModShift
		}
	default:
		k, ok := lookupKey(strings.ToLower(key))
		if !ok {
			return Chord{}, fmt.Errorf("chord %q: unknown key %q", s, key)
		}
		c.Key = k
	}
	if c.Key == KeyBacktab {
		c.Key = KeyTab
		c.Mods |= ModShift
	}
	return c, nil
}

func lookupKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	k, ok := keyAliases[name]
	return k, ok
}

// ChordOf returns the chord a key event matches in a keymap.
func ChordOf(ev KeyEvent) Chord {
	c := Chord{Mods: ev.Mods, Key: ev.Key}
	switch ev.Key {
	case KeyRune:
		c.Rune = unicode.ToLower(ev.Rune)
		if unicode.IsUpper(ev.Rune) {
			c.Mods |= ModShift
		}
	case KeyBacktab:
		c.Key = KeyTab
		c.Mods |= ModShift
	}
	return c
}

func (c Chord) String() string {
	var sb strings.Builder
	for _, m := range []struct {
		mod  Modifiers
		name string
	}{{ModMeta, "cmd"}, {ModCtrl, "ctrl"}, {ModAlt, "alt"}, {ModShift, "shift"}} {
		if c.Mods.Has(m.mod) {
			sb.WriteString(m.name)
			sb.WriteByte('+')
		}
	}
	switch {
	case c.Key == KeyRune && c.Rune == ' ':
		sb.WriteString("space")
	case c.Key == KeyRune:
		sb.WriteRune(c.Rune)
	default:
		sb.WriteString(c.Key.String())
	}
	return sb.String()
}
