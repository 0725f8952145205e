package input

import (
	"strings"
	"unicode"

	"github.com/kobzarvs/qpad/internal/motion"
)

// Classify maps a key press to the action it triggers on platform p, using
// only the built-in bindings.
func Classify(ev KeyEvent, p Platform) (Action, bool) {
	primary := ev.Mods.Has(p.Primary())
	jump := ev.Mods.Has(p.Jump())
	shift := ev.Mods.Has(ModShift)

	if m, ok := directional(ev.Key, p, primary, jump); ok {
		if shift {
			return Select(m), true
		}
		return Move(m), true
	}

	switch ev.Key {
	case KeyEnter:
		return Do(ActionEnter), true
	case KeyTab:
		if shift {
			return Do(ActionUnindent), true
		}
		return Do(ActionTab), true
	case KeyBacktab:
		return Do(ActionUnindent), true
	case KeyBackspace:
		if jump {
			return Do(ActionBackspaceWord), true
		}
		return Do(ActionBackspace), true
	case KeyDelete:
		if jump {
			return Do(ActionDeleteWord), true
		}
		return Do(ActionDelete), true
	case KeyEscape:
		return Do(ActionUnfocus), true
	case KeyRune:
		if primary {
			return shortcut(ev.Rune, shift)
		}
	}

	if ev.Mods.Has(ModAlt) || primary || ev.Text == "" {
		return Action{}, false
	}
	if strings.IndexFunc(ev.Text, unicode.IsControl) >= 0 {
		return Action{}, false
	}
	return InsertChar(ev.Text), true
}

func directional(k Key, p Platform, primary, jump bool) (motion.Motion, bool) {
	var m motion.Motion
	switch k {
	case KeyLeft:
		m = motion.Left
	case KeyRight:
		m = motion.Right
	case KeyUp:
		m = motion.Up
	case KeyDown:
		m = motion.Down
	case KeyHome:
		m = motion.Home
	case KeyEnd:
		m = motion.End
	case KeyPageUp:
		return motion.PageUp, true
	case KeyPageDown:
		return motion.PageDown, true
	default:
		return 0, false
	}

	if p == PlatformMac && primary {
		switch m {
		case motion.Left:
			return motion.Home, true
		case motion.Right:
			return motion.End, true
		case motion.Up, motion.Home:
			return motion.DocumentStart, true
		case motion.Down, motion.End:
			return motion.DocumentEnd, true
		}
	}
	if jump {
		switch m {
		case motion.Left:
			return motion.WordLeft, true
		case motion.Right:
			return motion.WordRight, true
		case motion.Home:
			return motion.DocumentStart, true
		case motion.End:
			return motion.DocumentEnd, true
		}
	}
	return m, true
}

func shortcut(r rune, shift bool) (Action, bool) {
	switch unicode.ToLower(r) {
	case 'a':
		return Do(ActionSelectAll), true
	case 'c':
		return Do(ActionCopy), true
	case 'x':
		return Do(ActionCut), true
	case 'v':
		return Do(ActionPaste), true
	case 'y':
		return Do(ActionRedo), true
	case 'z':
		if shift {
			return Do(ActionRedo), true
		}
		return Do(ActionUndo), true
	}
	return Action{}, false
}
