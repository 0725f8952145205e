package motion

import "github.com/kobzarvs/qpad/internal/text"

// Move relocates the caret and drops any selection. With a selection the
// caret collapses onto the selection edge the motion points at instead of
// moving from the active end.
func Move(b *text.Buffer, m Motion, opts Options) {
	if start, end, ok := b.Selection().Bounds(); ok {
		b.ClearSelection()
		if m.Backward() {
			b.SetCursor(start)
		} else {
			b.SetCursor(end)
		}
		return
	}
	b.SetCursor(Apply(b, b.Cursor(), m, opts))
}

// Select moves the active end of the selection, anchoring a new one at the
// caret when none exists.
func Select(b *text.Buffer, m Motion, opts Options) {
	anchor := b.Cursor()
	if sel := b.Selection(); !sel.IsNone() {
		anchor = sel.Anchor
	}
	next := Apply(b, b.Cursor(), m, opts)
	b.SetCursor(next)
	b.SetSelection(anchor, next)
}

// SelectWord selects the word under c and leaves the caret at its end.
func SelectWord(b *text.Buffer, c text.Cursor) {
	c = b.Clamp(c)
	start, end := WordAt(b.LineText(c.Line), c.Col)
	b.SetCursor(text.Cursor{Line: c.Line, Col: end})
	b.SetSelection(text.Cursor{Line: c.Line, Col: start}, text.Cursor{Line: c.Line, Col: end})
}

// LineAt returns the range covering line i together with its terminator, so a
// cut or delete takes the whole line.
func LineAt(b *text.Buffer, i int) (start, end text.Cursor) {
	start = b.Clamp(text.Cursor{Line: i})
	if start.Line < b.LineCount()-1 {
		return start, text.Cursor{Line: start.Line + 1}
	}
	return start, text.Cursor{Line: start.Line, Col: len(b.LineText(start.Line))}
}

// SelectLine selects line i and leaves the caret at the end of the range.
func SelectLine(b *text.Buffer, i int) {
	start, end := LineAt(b, i)
	b.SetCursor(end)
	b.SetSelection(start, end)
}

// Extend moves the active end of the selection to c, the way a shift-click
// or a drag does.
func Extend(b *text.Buffer, c text.Cursor) {
	anchor := b.Cursor()
	if sel := b.Selection(); !sel.IsNone() {
		anchor = sel.Anchor
	}
	c = b.Clamp(c)
	b.SetCursor(c)
	b.SetSelection(anchor, c)
}
