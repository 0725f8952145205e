package input

import (
	"errors"
	"fmt"
)

// Translator classifies key presses, consulting user bindings before the
// built-in ones.
type Translator struct {
	platform Platform
	bindings map[Chord]Action
}

// NewTranslator builds a translator for p. Entries of keymap that fail to
// parse are skipped and reported together in the returned error; the
// translator is usable either way.
func NewTranslator(p Platform, keymap map[string]string) (*Translator, error) {
	t := &Translator{platform: p, bindings: make(map[Chord]Action, len(keymap))}
	var errs []error
	for chord, name := range keymap {
		c, err := ParseChord(chord)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		a, ok := ParseAction(name)
		if !ok {
			errs = append(errs, fmt.Errorf("keymap %q: unknown action %q", chord, name))
			continue
		}
		t.bindings[c] = a
	}
	return t, errors.Join(errs...)
}

func (t *Translator) Platform() Platform {
	return t.platform
}

// Translate returns the action for ev, if any.
func (t *Translator) Translate(ev KeyEvent) (Action, bool) {
	if a, ok := t.bindings[ChordOf(ev)]; ok {
		return a, true
	}
	return Classify(ev, t.platform)
}
