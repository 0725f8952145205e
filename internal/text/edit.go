package text

// EditKind identifies a primitive buffer mutation.
type EditKind uint8

const (
	EditInsert EditKind = iota
	EditDelete
	EditEnding
	// EditJoin folds the empty LF line after a CR line into a CRLF
	// terminator at At. EditSplit reverses it.
	EditJoin
	EditSplit
)

// Edit records one primitive mutation with enough data to invert it.
type Edit struct {
	Kind EditKind
	At   Cursor
	End  Cursor
	Text string

	// Ending mutations only.
	Ending     LineEnding
	PrevEnding LineEnding
}

// Invert returns the edit that undoes e.
func (e Edit) Invert() Edit {
	inv := e
	switch e.Kind {
	case EditInsert:
		inv.Kind = EditDelete
	case EditDelete:
		inv.Kind = EditInsert
	case EditJoin:
		inv.Kind = EditSplit
	case EditSplit:
		inv.Kind = EditJoin
	default:
		inv.Ending, inv.PrevEnding = e.PrevEnding, e.Ending
	}
	return inv
}

// Apply replays e against b exactly as recorded and returns the cursor left
// behind. Replays skip the CR normalization so a recorded sequence
// reproduces its own joins.
func (e Edit) Apply(b *Buffer) Cursor {
	switch e.Kind {
	case EditInsert:
		return b.insert(e.At, e.Text)
	case EditDelete:
		b.deleteRange(e.At, e.End)
		return e.At
	case EditJoin:
		if b.joinable(e.At.Line) {
			b.joinCR(e.At.Line)
		}
		return e.At
	case EditSplit:
		b.splitCR(e.At.Line)
		return Cursor{Line: e.At.Line + 1}
	default:
		b.setLineEnding(e.At.Line, e.Ending)
		return e.At
	}
}

// MapCursor moves c across a join or split. Other kinds return c as is.
func (e Edit) MapCursor(c Cursor) Cursor {
	switch e.Kind {
	case EditJoin:
		if c.Line == e.At.Line+1 {
			return Cursor{Line: e.At.Line, Col: e.At.Col}
		}
		if c.Line > e.At.Line+1 {
			c.Line--
		}
	case EditSplit:
		if c.Line > e.At.Line {
			c.Line++
		}
	}
	return c
}
