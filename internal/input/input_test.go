package input

import (
	"testing"

	"github.com/kobzarvs/qpad/internal/motion"
)

func TestClassifyMotions(t *testing.T) {
	tests := []struct {
		name string
		ev   KeyEvent
		p    Platform
		want Action
	}{
		{"left", KeyEvent{Key: KeyLeft}, PlatformOther, Move(motion.Left)},
		{"shift+left", KeyEvent{Key: KeyLeft, Mods: ModShift}, PlatformOther, Select(motion.Left)},
		{"ctrl+left", KeyEvent{Key: KeyLeft, Mods: ModCtrl}, PlatformOther, Move(motion.WordLeft)},
		{"ctrl+shift+right", KeyEvent{Key: KeyRight, Mods: ModCtrl | ModShift}, PlatformOther, Select(motion.WordRight)},
		{"ctrl+home", KeyEvent{Key: KeyHome, Mods: ModCtrl}, PlatformOther, Move(motion.DocumentStart)},
		{"ctrl+end", KeyEvent{Key: KeyEnd, Mods: ModCtrl}, PlatformOther, Move(motion.DocumentEnd)},
		{"mac alt+left", KeyEvent{Key: KeyLeft, Mods: ModAlt}, PlatformMac, Move(motion.WordLeft)},
		{"mac cmd+left", KeyEvent{Key: KeyLeft, Mods: ModMeta}, PlatformMac, Move(motion.Home)},
		{"mac cmd+shift+right", KeyEvent{Key: KeyRight, Mods: ModMeta | ModShift}, PlatformMac, Select(motion.End)},
		{"mac cmd+up", KeyEvent{Key: KeyUp, Mods: ModMeta}, PlatformMac, Move(motion.DocumentStart)},
		{"mac cmd+down", KeyEvent{Key: KeyDown, Mods: ModMeta}, PlatformMac, Move(motion.DocumentEnd)},
		{"mac ctrl+left", KeyEvent{Key: KeyLeft, Mods: ModCtrl}, PlatformMac, Move(motion.Left)},
		{"pgdn", KeyEvent{Key: KeyPageDown}, PlatformOther, Move(motion.PageDown)},
		{"shift+pgup", KeyEvent{Key: KeyPageUp, Mods: ModShift}, PlatformOther, Select(motion.PageUp)},
	}
	for _, tt := range tests {
		got, ok := Classify(tt.ev, tt.p)
		if !ok || got != tt.want {
			t.Fatalf("%s: Classify = %v ok=%v, want %v", tt.name, got, ok, tt.want)
		}
	}
}

func TestClassifyCommands(t *testing.T) {
	tests := []struct {
		ev   KeyEvent
		p    Platform
		want ActionKind
	}{
		{KeyEvent{Key: KeyEnter}, PlatformOther, ActionEnter},
		{KeyEvent{Key: KeyTab}, PlatformOther, ActionTab},
		{KeyEvent{Key: KeyTab, Mods: ModShift}, PlatformOther, ActionUnindent},
		{KeyEvent{Key: KeyBacktab}, PlatformOther, ActionUnindent},
		{KeyEvent{Key: KeyBackspace}, PlatformOther, ActionBackspace},
		{KeyEvent{Key: KeyBackspace, Mods: ModCtrl}, PlatformOther, ActionBackspaceWord},
		{KeyEvent{Key: KeyBackspace, Mods: ModAlt}, PlatformMac, ActionBackspaceWord},
		{KeyEvent{Key: KeyDelete}, PlatformOther, ActionDelete},
		{KeyEvent{Key: KeyDelete, Mods: ModCtrl}, PlatformOther, ActionDeleteWord},
		{KeyEvent{Key: KeyEscape}, PlatformOther, ActionUnfocus},
		{KeyEvent{Key: KeyRune, Rune: 'c', Mods: ModCtrl}, PlatformOther, ActionCopy},
		{KeyEvent{Key: KeyRune, Rune: 'x', Mods: ModCtrl}, PlatformOther, ActionCut},
		{KeyEvent{Key: KeyRune, Rune: 'v', Mods: ModMeta}, PlatformMac, ActionPaste},
		{KeyEvent{Key: KeyRune, Rune: 'a', Mods: ModMeta}, PlatformMac, ActionSelectAll},
		{KeyEvent{Key: KeyRune, Rune: 'z', Mods: ModCtrl}, PlatformOther, ActionUndo},
		{KeyEvent{Key: KeyRune, Rune: 'Z', Mods: ModCtrl | ModShift}, PlatformOther, ActionRedo},
		{KeyEvent{Key: KeyRune, Rune: 'y', Mods: ModCtrl}, PlatformOther, ActionRedo},
	}
	for _, tt := range tests {
		got, ok := Classify(tt.ev, tt.p)
		if !ok || got.Kind != tt.want {
			t.Fatalf("Classify(%+v) = %v ok=%v, want %v", tt.ev, got, ok, Do(tt.want))
		}
	}
}

func TestClassifyTextInsertion(t *testing.T) {
	got, ok := Classify(KeyEvent{Key: KeyRune, Rune: 'a', Text: "a"}, PlatformOther)
	if !ok || got != InsertChar("a") {
		t.Fatalf("plain a = %v ok=%v", got, ok)
	}
	got, ok = Classify(KeyEvent{Key: KeyRune, Rune: 'a', Text: "A", Mods: ModShift}, PlatformOther)
	if !ok || got != InsertChar("A") {
		t.Fatalf("shift+a = %v ok=%v", got, ok)
	}
	rejected := []KeyEvent{
		{Key: KeyRune, Rune: 's', Text: "s", Mods: ModCtrl},
		{Key: KeyRune, Rune: 's', Text: "ß", Mods: ModAlt},
		{Key: KeyRune, Rune: 'k', Text: "k", Mods: ModMeta},
		{Key: KeyNone, Text: "\x1b"},
		{Key: KeyNone, Text: ""},
	}
	platforms := []Platform{PlatformOther, PlatformMac, PlatformMac, PlatformOther, PlatformOther}
	for i, ev := range rejected {
		if a, ok := Classify(ev, platforms[i]); ok {
			t.Fatalf("Classify(%+v) = %v, want no action", ev, a)
		}
	}
}

func TestParseChord(t *testing.T) {
	tests := []struct {
		in   string
		want Chord
	}{
		{"cmd+shift+left", Chord{Mods: ModMeta | ModShift, Key: KeyLeft}},
		{"ctrl+d", Chord{Mods: ModCtrl, Key: KeyRune, Rune: 'd'}},
		{"alt+Z", Chord{Mods: ModAlt | ModShift, Key: KeyRune, Rune: 'z'}},
		{"pgdn", Chord{Key: KeyPageDown}},
		{"ctrl+space", Chord{Mods: ModCtrl, Key: KeyRune, Rune: ' '}},
		{"ctrl++", Chord{Mods: ModCtrl, Key: KeyRune, Rune: '+'}},
		{"backtab", Chord{Mods: ModShift, Key: KeyTab}},
		{"option+delete", Chord{Mods: ModAlt, Key: KeyDelete}},
	}
	for _, tt := range tests {
		got, err := ParseChord(tt.in)
		if err != nil {
			t.Fatalf("ParseChord(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseChord(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "hyper+a", "ctrl+nosuchkey"} {
		if _, err := ParseChord(bad); err == nil {
			t.Fatalf("ParseChord(%q) succeeded", bad)
		}
	}
}

func TestChordString(t *testing.T) {
	c, err := ParseChord("shift+cmd+left")
	if err != nil {
		t.Fatalf("ParseChord: %v", err)
	}
	if got := c.String(); got != "cmd+shift+left" {
		t.Fatalf("String = %q, want cmd+shift+left", got)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		name string
		want Action
	}{
		{"undo", Do(ActionUndo)},
		{"select_all", Do(ActionSelectAll)},
		{"word_left", Move(motion.WordLeft)},
		{"select_document_end", Select(motion.DocumentEnd)},
	}
	for _, tt := range tests {
		got, ok := ParseAction(tt.name)
		if !ok || got != tt.want {
			t.Fatalf("ParseAction(%q) = %v ok=%v, want %v", tt.name, got, ok, tt.want)
		}
		if got.String() != tt.name {
			t.Fatalf("String = %q, want %q", got.String(), tt.name)
		}
	}
	if _, ok := ParseAction("fly"); ok {
		t.Fatalf("ParseAction(fly) succeeded")
	}
}

func TestTranslatorOverrides(t *testing.T) {
	tr, err := NewTranslator(PlatformOther, map[string]string{
		"ctrl+d":     "delete_word",
		"ctrl+c":     "cut",
		"ctrl+bogus": "undo",
		"ctrl+q":     "teleport",
	})
	if err == nil {
		t.Fatalf("expected error for invalid entries")
	}
	got, ok := tr.Translate(KeyEvent{Key: KeyRune, Rune: 'd', Mods: ModCtrl})
	if !ok || got.Kind != ActionDeleteWord {
		t.Fatalf("ctrl+d = %v ok=%v, want delete_word", got, ok)
	}
	got, _ = tr.Translate(KeyEvent{Key: KeyRune, Rune: 'c', Mods: ModCtrl})
	if got.Kind != ActionCut {
		t.Fatalf("ctrl+c = %v, want cut", got)
	}
	got, _ = tr.Translate(KeyEvent{Key: KeyRune, Rune: 'v', Mods: ModCtrl})
	if got.Kind != ActionPaste {
		t.Fatalf("ctrl+v = %v, want built-in paste", got)
	}
}

func TestMutates(t *testing.T) {
	if !InsertChar("x").Mutates() || !Do(ActionCut).Mutates() {
		t.Fatalf("edits should mutate")
	}
	if Do(ActionCopy).Mutates() || Move(motion.Left).Mutates() || Do(ActionUndo).Mutates() {
		t.Fatalf("non-edits should not mutate")
	}
}
