package history

import "github.com/kobzarvs/qpad/internal/text"

// DefaultLimit bounds the undo stack when no limit is configured.
const DefaultLimit = 1000

// Change is one undo unit: the primitive edits performed between Start and
// Finish, in the order they happened.
type Change struct {
	ID    uint64
	Edits []text.Edit
}

func (c Change) Empty() bool {
	return len(c.Edits) == 0
}

// Reverse returns the change that undoes c.
func (c Change) Reverse() Change {
	out := make([]text.Edit, len(c.Edits))
	for i, e := range c.Edits {
		out[len(c.Edits)-1-i] = e.Invert()
	}
	return Change{ID: c.ID, Edits: out}
}

// Apply replays c against b and returns where the caret should go.
func (c Change) Apply(b *text.Buffer) text.Cursor {
	cur := b.Cursor()
	for _, e := range c.Edits {
		switch e.Kind {
		case text.EditJoin, text.EditSplit:
			e.Apply(b)
			cur = e.MapCursor(cur)
		default:
			cur = e.Apply(b)
		}
	}
	return cur
}

// Log records buffer mutations into changes and keeps the undo and redo
// stacks for one buffer.
type Log struct {
	buf       *text.Buffer
	undo      []Change
	redo      []Change
	open      *Change
	replaying bool
	limit     int
	seq       uint64

	// base is the ID of the newest change trimmed off the undo stack: the
	// state reached by undoing everything that is left.
	base uint64
}

// New attaches a log to b. A limit <= 0 selects DefaultLimit.
func New(b *text.Buffer, limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	l := &Log{buf: b, limit: limit}
	b.Observe(l.record)
	return l
}

func (l *Log) record(e text.Edit) {
	if l.replaying || l.open == nil {
		return
	}
	// A fresh edit makes the redo entries unreachable even before the
	// change is committed.
	l.redo = l.redo[:0]
	l.open.Edits = append(l.open.Edits, e)
}

// Start opens a recording scope. Starting while a change is open keeps
// recording into the open change.
func (l *Log) Start() {
	if l.open != nil {
		return
	}
	l.open = &Change{}
}

func (l *Log) Open() bool {
	return l.open != nil
}

// Finish closes the open change. It returns false when nothing was
// recorded since Start.
func (l *Log) Finish() (Change, bool) {
	if l.open == nil {
		return Change{}, false
	}
	c := *l.open
	l.open = nil
	if c.Empty() {
		return Change{}, false
	}
	l.redo = l.redo[:0]
	l.seq++
	c.ID = l.seq
	l.undo = append(l.undo, c)
	if drop := len(l.undo) - l.limit; drop > 0 {
		l.base = l.undo[drop-1].ID
		l.undo = append([]Change(nil), l.undo[drop:]...)
	}
	return c, true
}

// Undo reverses the most recent change. An open change counts as the most
// recent one and is finished first.
func (l *Log) Undo() bool {
	if l.open != nil {
		l.Finish()
	}
	if len(l.undo) == 0 {
		return false
	}
	c := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	inv := c.Reverse()
	l.replay(inv)
	l.redo = append(l.redo, inv)
	return true
}

// Redo replays the most recently undone change. It does nothing while a
// change is open.
func (l *Log) Redo() bool {
	if l.open != nil || len(l.redo) == 0 {
		return false
	}
	inv := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	c := inv.Reverse()
	l.replay(c)
	l.undo = append(l.undo, c)
	return true
}

func (l *Log) replay(c Change) {
	l.replaying = true
	defer func() { l.replaying = false }()
	cur := c.Apply(l.buf)
	l.buf.ClearSelection()
	l.buf.SetCursor(cur)
}

func (l *Log) CanUndo() bool {
	return len(l.undo) > 0 || (l.open != nil && !l.open.Empty())
}

func (l *Log) CanRedo() bool {
	return l.open == nil && len(l.redo) > 0
}

// Head identifies the state reached by the committed changes; 0 is the
// state the log was attached or cleared at. Once the limit trims changes,
// the empty undo stack stands for the state after the newest trimmed one.
func (l *Log) Head() uint64 {
	if len(l.undo) == 0 {
		return l.base
	}
	return l.undo[len(l.undo)-1].ID
}

// Depth is the number of committed changes on the undo stack.
func (l *Log) Depth() int {
	return len(l.undo)
}

// Clear drops both stacks and any open change, e.g. when a new document is
// loaded.
func (l *Log) Clear() {
	l.undo = nil
	l.redo = nil
	l.open = nil
	l.base = 0
}
