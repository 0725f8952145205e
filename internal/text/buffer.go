package text

import (
	"fmt"
	"slices"
	"strings"
)

// Metrics are the font metrics the layout is computed with, in pixels.
type Metrics struct {
	FontSize   float32
	LineHeight float32
}

// DefaultMetrics matches a 14px monospace face on a 20px line.
var DefaultMetrics = Metrics{FontSize: 14, LineHeight: 20}

// Scroll is the viewport offset. Vertical is in whole lines, Horizontal in
// pixels.
type Scroll struct {
	Horizontal float32
	Vertical   int
}

// Buffer is the document model: lines plus the caret, selection, scroll
// offset and metrics of the view onto it. The zero value is not usable; call
// NewBuffer.
type Buffer struct {
	lines   []Line
	cursor  Cursor
	sel     Selection
	scroll  Scroll
	metrics Metrics
	width   float32
	height  float32

	redraw  bool
	version uint64
	stamp   uint64

	observers []observer
	observed  int
}

type observer struct {
	id int
	fn func(Edit)
}

func NewBuffer() *Buffer {
	b := &Buffer{metrics: DefaultMetrics, redraw: true}
	b.lines = []Line{b.newLine("", EndingNone)}
	return b
}

// Observe registers fn to receive every primitive mutation, in
// registration order. Calling cancel detaches it.
func (b *Buffer) Observe(fn func(Edit)) (cancel func()) {
	b.observed++
	id := b.observed
	b.observers = append(b.observers, observer{id: id, fn: fn})
	return func() {
		b.observers = slices.DeleteFunc(b.observers, func(o observer) bool { return o.id == id })
	}
}

func (b *Buffer) newLine(s string, e LineEnding) Line {
	b.stamp++
	return Line{Text: s, Ending: e, rev: b.stamp}
}

func (b *Buffer) touch() {
	b.version++
	b.redraw = true
}

func (b *Buffer) notify(e Edit) {
	for _, o := range slices.Clone(b.observers) {
		o.fn(e)
	}
}

// Version increases on every content mutation.
func (b *Buffer) Version() uint64 {
	return b.version
}

// Redraw reports whether the view needs to be re-rendered.
func (b *Buffer) Redraw() bool {
	return b.redraw
}

func (b *Buffer) SetRedraw(v bool) {
	b.redraw = v
}

func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Lines returns the backing lines. Callers must not modify the slice.
func (b *Buffer) Lines() []Line {
	return b.lines
}

func (b *Buffer) Line(i int) Line {
	if i < 0 || i >= len(b.lines) {
		return Line{}
	}
	return b.lines[i]
}

func (b *Buffer) LineText(i int) string {
	return b.Line(i).Text
}

// Clamp returns the nearest valid position to c.
func (b *Buffer) Clamp(c Cursor) Cursor {
	if c.Line < 0 {
		return Cursor{}
	}
	if c.Line >= len(b.lines) {
		last := len(b.lines) - 1
		return Cursor{Line: last, Col: len(b.lines[last].Text)}
	}
	c.Col = SnapBoundary(b.lines[c.Line].Text, c.Col)
	return c
}

// End is the position after the last character of the document.
func (b *Buffer) End() Cursor {
	last := len(b.lines) - 1
	return Cursor{Line: last, Col: len(b.lines[last].Text)}
}

func (b *Buffer) Cursor() Cursor {
	return b.cursor
}

func (b *Buffer) SetCursor(c Cursor) {
	c = b.Clamp(c)
	if c != b.cursor {
		b.cursor = c
		b.redraw = true
	}
}

func (b *Buffer) Selection() Selection {
	return b.sel
}

// SetSelection stores the interval anchor..active; equal ends clear it.
func (b *Buffer) SetSelection(anchor, active Cursor) {
	s := NewSelection(b.Clamp(anchor), b.Clamp(active))
	if s != b.sel {
		b.sel = s
		b.redraw = true
	}
}

func (b *Buffer) ClearSelection() {
	if !b.sel.IsNone() {
		b.sel = Selection{}
		b.redraw = true
	}
}

// SelectedText returns the selected text with literal line endings.
func (b *Buffer) SelectedText() (string, bool) {
	start, end, ok := b.sel.Bounds()
	if !ok {
		return "", false
	}
	return b.TextRange(start, end), true
}

// TextRange returns the text between two positions in either order.
func (b *Buffer) TextRange(from, to Cursor) string {
	from, to = b.Clamp(from), b.Clamp(to)
	if to.Less(from) {
		from, to = to, from
	}
	if from.Line == to.Line {
		return b.lines[from.Line].Text[from.Col:to.Col]
	}
	var sb strings.Builder
	first := b.lines[from.Line]
	sb.WriteString(first.Text[from.Col:])
	sb.WriteString(first.Ending.String())
	for i := from.Line + 1; i < to.Line; i++ {
		sb.WriteString(b.lines[i].Text)
		sb.WriteString(b.lines[i].Ending.String())
	}
	sb.WriteString(b.lines[to.Line].Text[:to.Col])
	return sb.String()
}

func (b *Buffer) Scroll() Scroll {
	return b.scroll
}

// SetScroll clamps the vertical offset to the document; the horizontal
// offset only to zero, since its upper bound depends on shaped widths.
func (b *Buffer) SetScroll(s Scroll) {
	if s.Vertical > len(b.lines)-1 {
		s.Vertical = len(b.lines) - 1
	}
	if s.Vertical < 0 {
		s.Vertical = 0
	}
	if s.Horizontal < 0 {
		s.Horizontal = 0
	}
	if s != b.scroll {
		b.scroll = s
		b.redraw = true
	}
}

func (b *Buffer) Metrics() Metrics {
	return b.metrics
}

// SetMetrics ignores non-positive sizes.
func (b *Buffer) SetMetrics(fontSize, lineHeight float32) {
	if fontSize <= 0 || lineHeight <= 0 {
		return
	}
	m := Metrics{FontSize: fontSize, LineHeight: lineHeight}
	if m != b.metrics {
		b.metrics = m
		b.touchLayout()
	}
}

func (b *Buffer) Viewport() (width, height float32) {
	return b.width, b.height
}

func (b *Buffer) SetViewportSize(width, height float32) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width != b.width || height != b.height {
		b.width, b.height = width, height
		b.redraw = true
	}
}

// VisibleLines is the number of whole lines that fit the viewport, at least 1.
func (b *Buffer) VisibleLines() int {
	if b.metrics.LineHeight <= 0 {
		return 1
	}
	n := int(b.height / b.metrics.LineHeight)
	if n < 1 {
		return 1
	}
	return n
}

// touchLayout restamps every line so any cached shaping is discarded.
func (b *Buffer) touchLayout() {
	for i := range b.lines {
		b.stamp++
		b.lines[i].rev = b.stamp
	}
	b.redraw = true
}

// Insert puts s at the given position and returns the position after it.
func (b *Buffer) Insert(at Cursor, s string) Cursor {
	at = b.Clamp(at)
	end := b.insert(at, s)
	return b.normalize(at.Line-1, end.Line, end)
}

func (b *Buffer) insert(at Cursor, s string) Cursor {
	at = b.Clamp(at)
	if s == "" {
		return at
	}
	orig := b.lines[at.Line]
	parts := splitText(s)
	last := len(parts) - 1

	repl := make([]Line, len(parts))
	for i, p := range parts {
		repl[i] = b.newLine(p.Text, p.Ending)
	}
	repl[0].Text = orig.Text[:at.Col] + repl[0].Text
	end := Cursor{Line: at.Line + last, Col: len(repl[last].Text)}
	repl[last].Text += orig.Text[at.Col:]
	repl[last].Ending = orig.Ending

	b.splice(at.Line, at.Line+1, repl)
	b.afterMutation()
	b.notify(Edit{Kind: EditInsert, At: at, End: end, Text: s})
	return end
}

// DeleteRange removes the text between two positions in either order and
// returns it, line endings included.
func (b *Buffer) DeleteRange(from, to Cursor) string {
	from, to = b.Clamp(from), b.Clamp(to)
	if to.Less(from) {
		from, to = to, from
	}
	removed := b.deleteRange(from, to)
	if removed != "" {
		b.normalize(from.Line-1, from.Line, from)
	}
	return removed
}

func (b *Buffer) deleteRange(from, to Cursor) string {
	from, to = b.Clamp(from), b.Clamp(to)
	if to.Less(from) {
		from, to = to, from
	}
	if from == to {
		return ""
	}
	removed := b.TextRange(from, to)
	first := b.lines[from.Line]
	lastLine := b.lines[to.Line]
	merged := b.newLine(first.Text[:from.Col]+lastLine.Text[to.Col:], lastLine.Ending)

	b.splice(from.Line, to.Line+1, []Line{merged})
	b.afterMutation()
	b.notify(Edit{Kind: EditDelete, At: from, End: to, Text: removed})
	return removed
}

// SetLineEnding changes the terminator of line i. The last line of the
// document cannot carry one.
func (b *Buffer) SetLineEnding(i int, e LineEnding) {
	if b.setLineEnding(i, e) {
		b.normalize(i-1, i, b.cursor)
	}
}

func (b *Buffer) setLineEnding(i int, e LineEnding) bool {
	if i < 0 || i >= len(b.lines) {
		return false
	}
	if i == len(b.lines)-1 && e != EndingNone {
		return false
	}
	prev := b.lines[i].Ending
	if prev == e {
		return false
	}
	b.stamp++
	b.lines[i].Ending = e
	b.lines[i].rev = b.stamp
	b.touch()
	b.notify(Edit{Kind: EditEnding, At: Cursor{Line: i}, Ending: e, PrevEnding: prev})
	return true
}

// normalize joins every CR line in [lo, hi] that is followed by an empty
// LF line into one CRLF line, since "\r" then "\n" would read back as a
// single terminator. It returns c moved along with the joins.
func (b *Buffer) normalize(lo, hi int, c Cursor) Cursor {
	for i := min(hi, len(b.lines)-2); i >= max(lo, 0); i-- {
		if b.joinable(i) {
			c = b.joinCR(i).MapCursor(c)
		}
	}
	return c
}

func (b *Buffer) joinable(i int) bool {
	if i < 0 || i+1 >= len(b.lines) || b.lines[i].Ending != EndingCR {
		return false
	}
	next := b.lines[i+1]
	return next.Text == "" && next.Ending == EndingLF
}

// joinCR merges line i, ending in CR, with the empty LF line after it.
func (b *Buffer) joinCR(i int) Edit {
	e := Edit{Kind: EditJoin, At: Cursor{Line: i, Col: len(b.lines[i].Text)}}
	b.stamp++
	b.lines[i].Ending = EndingCRLF
	b.lines[i].rev = b.stamp
	b.splice(i+1, i+2, nil)
	b.remap(e)
	b.notify(e)
	return e
}

// splitCR undoes joinCR on line i.
func (b *Buffer) splitCR(i int) {
	if i < 0 || i >= len(b.lines) || b.lines[i].Ending != EndingCRLF {
		return
	}
	e := Edit{Kind: EditSplit, At: Cursor{Line: i, Col: len(b.lines[i].Text)}}
	b.stamp++
	b.lines[i].Ending = EndingCR
	b.lines[i].rev = b.stamp
	b.splice(i+1, i+1, []Line{b.newLine("", EndingLF)})
	b.remap(e)
	b.notify(e)
}

// remap carries the caret and selection across a join or split.
func (b *Buffer) remap(e Edit) {
	b.cursor = e.MapCursor(b.cursor)
	if !b.sel.IsNone() {
		b.sel = NewSelection(e.MapCursor(b.sel.Anchor), e.MapCursor(b.sel.Active))
	}
	b.afterMutation()
}

func (b *Buffer) splice(from, to int, repl []Line) {
	out := make([]Line, 0, len(b.lines)-(to-from)+len(repl))
	out = append(out, b.lines[:from]...)
	out = append(out, repl...)
	out = append(out, b.lines[to:]...)
	b.lines = out
}

func (b *Buffer) afterMutation() {
	b.cursor = b.Clamp(b.cursor)
	if !b.sel.IsNone() {
		b.sel = NewSelection(b.Clamp(b.sel.Anchor), b.Clamp(b.sel.Active))
	}
	if b.scroll.Vertical > len(b.lines)-1 {
		b.scroll.Vertical = len(b.lines) - 1
	}
	b.touch()
}

// SetText replaces the whole document and resets the view onto it. It is
// not reported to the observer.
func (b *Buffer) SetText(s string) {
	parts := splitText(s)
	lines := make([]Line, len(parts))
	for i, p := range parts {
		lines[i] = b.newLine(p.Text, p.Ending)
	}
	b.lines = lines
	b.cursor = Cursor{}
	b.sel = Selection{}
	b.scroll = Scroll{}
	b.touch()
}

// LoadText reads path through fs and replaces the document with it.
func (b *Buffer) LoadText(fs FileSystem, path string) error {
	data, err := fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	b.SetText(string(data))
	return nil
}

// Serialize concatenates every line with its recorded ending.
func (b *Buffer) Serialize() string {
	return joinLines(b.lines)
}

// DominantEnding is the most common terminator, LF for documents without one.
func (b *Buffer) DominantEnding() LineEnding {
	var counts [4]int
	for _, l := range b.lines {
		counts[l.Ending]++
	}
	best := EndingLF
	for _, e := range []LineEnding{EndingCRLF, EndingCR} {
		if counts[e] > counts[best] {
			best = e
		}
	}
	return best
}
