package editor

import (
	"strings"

	"github.com/kobzarvs/qpad/internal/input"
	"github.com/kobzarvs/qpad/internal/motion"
	"github.com/kobzarvs/qpad/internal/text"
)

// HandleKey translates a key press and applies the resulting action. It
// reports whether the press was consumed. An unfocused editor ignores keys.
func (e *Editor) HandleKey(ev input.KeyEvent) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.focused {
		return false
	}
	a, ok := e.tr.Translate(ev)
	if !ok {
		return false
	}
	e.apply(a)
	return true
}

// Apply performs a single action. Every text mutation becomes its own
// undoable change.
func (e *Editor) Apply(a input.Action) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apply(a)
}

func (e *Editor) apply(a input.Action) {
	switch a.Kind {
	case input.ActionNone:
		return
	case input.ActionUnfocus:
		e.setFocus(false)
		return
	case input.ActionMove:
		motion.Move(e.buf, a.Motion, e.motionOpts)
	case input.ActionSelect:
		motion.Select(e.buf, a.Motion, e.motionOpts)
	case input.ActionSelectAll:
		end := e.buf.End()
		e.buf.SetCursor(end)
		e.buf.SetSelection(text.Cursor{}, end)
	case input.ActionCopy:
		if s, ok := e.buf.SelectedText(); ok {
			e.clip.Write(s)
		}
		return
	case input.ActionUndo:
		e.log.Undo()
	case input.ActionRedo:
		e.log.Redo()
	default:
		e.log.Start()
		e.edit(a)
		e.log.Finish()
	}
	e.pipe.EnsureVisible(e.buf.Cursor())
}

func (e *Editor) edit(a input.Action) {
	switch a.Kind {
	case input.ActionInsertChar:
		e.insert(a.Text)
	case input.ActionEnter:
		e.deleteSelection()
		ending := e.buf.Line(e.buf.Cursor().Line).Ending
		if ending == text.EndingNone {
			ending = e.buf.DominantEnding()
		}
		e.insert(ending.String())
	case input.ActionTab:
		if start, end, ok := e.buf.Selection().Bounds(); ok {
			e.indent(start, end)
		} else {
			e.insert("\t")
		}
	case input.ActionUnindent:
		e.unindent()
	case input.ActionBackspace, input.ActionBackspaceWord:
		e.backspace(a.Kind == input.ActionBackspaceWord)
	case input.ActionDelete, input.ActionDeleteWord:
		e.deleteForward(a.Kind == input.ActionDeleteWord)
	case input.ActionCut:
		if s, ok := e.buf.SelectedText(); ok {
			e.clip.Write(s)
			e.deleteSelection()
		}
	case input.ActionPaste:
		if s, ok := e.clip.Read(); ok && s != "" {
			e.insert(s)
		}
	}
}

// insert replaces the selection, if any, with s.
func (e *Editor) insert(s string) {
	e.deleteSelection()
	e.buf.SetCursor(e.buf.Insert(e.buf.Cursor(), s))
}

func (e *Editor) deleteSelection() bool {
	start, end, ok := e.buf.Selection().Bounds()
	if !ok {
		return false
	}
	e.buf.ClearSelection()
	e.buf.DeleteRange(start, end)
	e.buf.SetCursor(start)
	return true
}

func (e *Editor) backspace(word bool) {
	if e.deleteSelection() {
		return
	}
	c := e.buf.Cursor()
	from := c
	switch {
	case c.Col > 0 && word:
		from.Col = motion.PrevWordStart(e.buf.LineText(c.Line), c.Col)
	case c.Col > 0:
		from.Col = text.PrevBoundary(e.buf.LineText(c.Line), c.Col)
	case c.Line > 0:
		from = text.Cursor{Line: c.Line - 1, Col: len(e.buf.LineText(c.Line - 1))}
	default:
		return
	}
	e.buf.DeleteRange(from, c)
	e.buf.SetCursor(from)
}

func (e *Editor) deleteForward(word bool) {
	if e.deleteSelection() {
		return
	}
	c := e.buf.Cursor()
	line := e.buf.LineText(c.Line)
	to := c
	switch {
	case c.Col < len(line) && word:
		to.Col = motion.NextWordEnd(line, c.Col)
	case c.Col < len(line):
		to.Col = text.NextBoundary(line, c.Col)
	case c.Line < e.buf.LineCount()-1:
		to = text.Cursor{Line: c.Line + 1}
	default:
		return
	}
	e.buf.DeleteRange(c, to)
	e.buf.SetCursor(c)
}

// selectedLines is the line range a block operation covers. A selection
// ending at column 0 leaves that last line out.
func selectedLines(start, end text.Cursor) (first, last int) {
	last = end.Line
	if end.Col == 0 && end.Line > start.Line {
		last--
	}
	return start.Line, last
}

func (e *Editor) indent(start, end text.Cursor) {
	sel, c := e.buf.Selection(), e.buf.Cursor()
	first, last := selectedLines(start, end)
	for i := first; i <= last; i++ {
		e.buf.Insert(text.Cursor{Line: i}, "\t")
	}
	shift := func(c text.Cursor) text.Cursor {
		if c.Line >= first && c.Line <= last {
			c.Col++
		}
		return c
	}
	e.buf.SetCursor(shift(c))
	e.buf.SetSelection(shift(sel.Anchor), shift(sel.Active))
}

// unindent removes one level of indentation, a tab or up to tabWidth
// spaces, from the caret line or every selected line.
func (e *Editor) unindent() {
	sel := e.buf.Selection()
	c := e.buf.Cursor()
	first, last := c.Line, c.Line
	if start, end, ok := sel.Bounds(); ok {
		first, last = selectedLines(start, end)
	}
	removed := make(map[int]int)
	for i := first; i <= last; i++ {
		line := e.buf.LineText(i)
		n := 0
		if strings.HasPrefix(line, "\t") {
			n = 1
		} else {
			for n < e.tabWidth && n < len(line) && line[n] == ' ' {
				n++
			}
		}
		if n > 0 {
			e.buf.DeleteRange(text.Cursor{Line: i}, text.Cursor{Line: i, Col: n})
			removed[i] = n
		}
	}
	shift := func(c text.Cursor) text.Cursor {
		c.Col = max(0, c.Col-removed[c.Line])
		return c
	}
	e.buf.SetCursor(shift(c))
	if !sel.IsNone() {
		e.buf.SetSelection(shift(sel.Anchor), shift(sel.Active))
	}
}
