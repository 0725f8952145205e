package input

import (
	"strings"

	"github.com/kobzarvs/qpad/internal/motion"
)

// ActionKind enumerates the editing commands the editor understands.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionEnter
	ActionTab
	ActionUnindent
	ActionBackspace
	ActionBackspaceWord
	ActionDelete
	ActionDeleteWord
	ActionUnfocus
	ActionCopy
	ActionCut
	ActionPaste
	ActionSelectAll
	ActionMove
	ActionSelect
	ActionUndo
	ActionRedo
	ActionInsertChar
)

var actionNames = map[ActionKind]string{
	ActionEnter:         "enter",
	ActionTab:           "tab",
	ActionUnindent:      "unindent",
	ActionBackspace:     "backspace",
	ActionBackspaceWord: "backspace_word",
	ActionDelete:        "delete",
	ActionDeleteWord:    "delete_word",
	ActionUnfocus:       "unfocus",
	ActionCopy:          "copy",
	ActionCut:           "cut",
	ActionPaste:         "paste",
	ActionSelectAll:     "select_all",
	ActionUndo:          "undo",
	ActionRedo:          "redo",
}

// Action is one editing command. Motion is set for ActionMove and
// ActionSelect, Text for ActionInsertChar.
type Action struct {
	Kind   ActionKind
	Motion motion.Motion
	Text   string
}

func Do(k ActionKind) Action {
	return Action{Kind: k}
}

func Move(m motion.Motion) Action {
	return Action{Kind: ActionMove, Motion: m}
}

func Select(m motion.Motion) Action {
	return Action{Kind: ActionSelect, Motion: m}
}

func InsertChar(s string) Action {
	return Action{Kind: ActionInsertChar, Text: s}
}

// Mutates reports whether the action can change the document text.
func (a Action) Mutates() bool {
	switch a.Kind {
	case ActionEnter, ActionTab, ActionUnindent, ActionBackspace, ActionBackspaceWord,
		ActionDelete, ActionDeleteWord, ActionCut, ActionPaste, ActionInsertChar:
		return true
	}
	return false
}

// String renders the action the way keymaps name it.
func (a Action) String() string {
	switch a.Kind {
	case ActionMove:
		return a.Motion.String()
	case ActionSelect:
		return "select_" + a.Motion.String()
	case ActionInsertChar:
		return "insert:" + a.Text
	}
	if n, ok := actionNames[a.Kind]; ok {
		return n
	}
	return "none"
}

// ParseAction resolves a keymap action name: a command ("undo"), a motion
// ("word_left") or a selecting motion ("select_word_left").
func ParseAction(name string) (Action, bool) {
	for k, n := range actionNames {
		if n == name {
			return Do(k), true
		}
	}
	if m, ok := motion.Parse(name); ok {
		return Move(m), true
	}
	if rest, ok := strings.CutPrefix(name, "select_"); ok {
		if m, ok := motion.Parse(rest); ok {
			return Select(m), true
		}
	}
	return Action{}, false
}
