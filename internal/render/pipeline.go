package render

import (
	"math"
	"strconv"

	"github.com/kobzarvs/qpad/internal/highlight"
	"github.com/kobzarvs/qpad/internal/text"
)

const caretWidth = 2

type Options struct {
	TabWidth    int
	LineNumbers bool
}

// Pipeline turns a buffer into draw calls. Lines are shaped once per
// revision and highlight generation and reused until either changes.
type Pipeline struct {
	buf   *text.Buffer
	ras   Rasterizer
	hl    Highlighter
	theme highlight.Theme
	opts  Options

	cache   map[int]*shapedLine
	metrics text.Metrics
	gen     uint64
	focused bool
	dirty   bool

	maxWidth   float32
	maxVersion uint64
	maxValid   bool

	remainder float32
}

// New returns a pipeline drawing buf through ras. hl may be nil.
func New(buf *text.Buffer, ras Rasterizer, hl Highlighter, theme highlight.Theme, opts Options) *Pipeline {
	if opts.TabWidth < 1 {
		opts.TabWidth = 4
	}
	p := &Pipeline{
		buf:     buf,
		ras:     ras,
		hl:      hl,
		theme:   theme,
		opts:    opts,
		cache:   make(map[int]*shapedLine),
		metrics: buf.Metrics(),
		dirty:   true,
	}
	ras.SetMetrics(p.metrics)
	return p
}

func (p *Pipeline) Theme() highlight.Theme {
	return p.theme
}

func (p *Pipeline) SetTheme(t highlight.Theme) {
	p.theme = t
	p.Invalidate()
}

// SetHighlighter swaps the span source, e.g. after the document was
// saved under a new name.
func (p *Pipeline) SetHighlighter(hl Highlighter) {
	p.hl = hl
	p.gen = 0
	p.Invalidate()
}

func (p *Pipeline) SetFocused(focused bool) {
	if p.focused != focused {
		p.focused = focused
		p.dirty = true
	}
}

func (p *Pipeline) Focused() bool {
	return p.focused
}

// Invalidate drops every shaped line and forces the next Draw.
func (p *Pipeline) Invalidate() {
	clear(p.cache)
	p.maxValid = false
	p.dirty = true
}

// sync picks up metric changes made on the buffer.
func (p *Pipeline) sync() {
	if m := p.buf.Metrics(); m != p.metrics {
		p.metrics = m
		p.ras.SetMetrics(m)
		p.Invalidate()
	}
}

// Gutter is the width of the line number column, zero when numbers are
// hidden. It fits at least two digits plus a cell of padding each side.
func (p *Pipeline) Gutter() float32 {
	if !p.opts.LineNumbers {
		return 0
	}
	p.sync()
	digits := len(strconv.Itoa(p.buf.LineCount()))
	if digits < 2 {
		digits = 2
	}
	return float32(digits+2) * p.ras.Advance("0")
}

// Layout resizes the viewport and returns the resulting text area.
func (p *Pipeline) Layout(width, height float32) Rect {
	p.buf.SetViewportSize(width, height)
	p.clampScroll()
	return p.TextArea()
}

// TextArea is the part of the viewport right of the gutter.
func (p *Pipeline) TextArea() Rect {
	w, h := p.buf.Viewport()
	g := p.Gutter()
	return Rect{X: g, W: max(0, w-g), H: h}
}

// VisibleRange returns the half-open range of lines intersecting the
// viewport, including a partially visible last line.
func (p *Pipeline) VisibleRange() (first, last int) {
	_, h := p.buf.Viewport()
	lh := p.buf.Metrics().LineHeight
	n := 1
	if lh > 0 {
		n = max(1, int(math.Ceil(float64(h/lh))))
	}
	first = p.buf.Scroll().Vertical
	last = min(first+n, p.buf.LineCount())
	return first, last
}

func (p *Pipeline) line(i int, spans map[int][]highlight.Span) *shapedLine {
	l := p.buf.Line(i)
	if c := p.cache[i]; c != nil && c.rev == l.Revision() && c.gen == p.gen {
		return c
	}
	s := shape(l.Text, spans[i], p.ras, p.opts.TabWidth, &p.theme)
	s.rev, s.gen = l.Revision(), p.gen
	p.cache[i] = &s
	return &s
}

// geometry returns positions for line i without styling; a cached shape is
// reused whenever its text is current.
func (p *Pipeline) geometry(i int) *shapedLine {
	l := p.buf.Line(i)
	if c := p.cache[i]; c != nil && c.rev == l.Revision() {
		return c
	}
	s := shape(l.Text, nil, p.ras, p.opts.TabWidth, nil)
	return &s
}

// Draw paints the visible lines if anything changed since the last frame
// and reports whether it did.
func (p *Pipeline) Draw() bool {
	p.sync()
	p.clampScroll()
	gen := p.gen
	if p.hl != nil {
		gen = p.hl.Refresh(p.buf)
	}
	if !p.dirty && !p.buf.Redraw() && gen == p.gen {
		return false
	}
	p.gen = gen

	vw, vh := p.buf.Viewport()
	lh := p.metrics.LineHeight
	p.ras.Begin(int(math.Ceil(float64(vw))), int(math.Ceil(float64(vh))))
	p.ras.Fill(Rect{W: vw, H: vh}, p.theme.Background)

	gutter := p.Gutter()
	area := Rect{X: gutter, W: max(0, vw-gutter), H: vh}
	scroll := p.buf.Scroll()
	originX := gutter - scroll.Horizontal
	first, last := p.VisibleRange()

	var spans map[int][]highlight.Span
	if p.hl != nil {
		spans = p.hl.Highlights(first, last-1)
	}
	cursor := p.buf.Cursor()
	selStart, selEnd, hasSel := p.buf.Selection().Bounds()

	for i := first; i < last; i++ {
		y := float32(i-first) * lh
		l := p.line(i, spans)
		if p.focused && i == cursor.Line {
			p.ras.Fill(Rect{X: area.X, Y: y, W: area.W, H: lh}, p.theme.CurrentLine)
		}
		if hasSel && i >= selStart.Line && i <= selEnd.Line {
			from := 0
			if i == selStart.Line {
				from = selStart.Col
			}
			x0 := l.xAt(from)
			x1 := l.width + p.ras.Advance(" ")
			if i == selEnd.Line {
				x1 = l.xAt(selEnd.Col)
			}
			r := Rect{X: originX + x0, Y: y, W: x1 - x0, H: lh}.Intersect(area)
			if !r.Empty() {
				p.ras.Fill(r, p.theme.Selection)
			}
		}
		for _, g := range l.glyphs {
			gx := originX + g.x
			if gx > area.X+area.W {
				break
			}
			if g.text == "" || gx+g.w < area.X {
				continue
			}
			p.ras.Glyph(gx, y, g.text, g.style, area)
		}
	}

	if gutter > 0 {
		p.drawGutter(gutter, vh, first, last, cursor.Line)
	}
	p.drawCaret(cursor, first, last, originX, area)

	p.ras.End()
	for i := range p.cache {
		if i < first || i >= last {
			delete(p.cache, i)
		}
	}
	p.dirty = false
	p.buf.SetRedraw(false)
	return true
}

func (p *Pipeline) drawGutter(width, height float32, first, last, active int) {
	clip := Rect{W: width, H: height}
	p.ras.Fill(clip, p.theme.Gutter)
	adv := p.ras.Advance("0")
	lh := p.metrics.LineHeight
	for i := first; i < last; i++ {
		num := strconv.Itoa(i + 1)
		st := highlight.Style{Color: p.theme.LineNumber}
		if i == active {
			st.Color = p.theme.LineNumberActive
		}
		x := width - adv - float32(len(num))*adv
		y := float32(i-first) * lh
		for k, d := range num {
			p.ras.Glyph(x+float32(k)*adv, y, string(d), st, clip)
		}
	}
}

func (p *Pipeline) drawCaret(c text.Cursor, first, last int, originX float32, area Rect) {
	var x, y float32
	visible := p.focused && c.Line >= first && c.Line < last
	if visible {
		x = originX + p.line(c.Line, nil).xAt(c.Col)
		y = float32(c.Line-first) * p.metrics.LineHeight
		visible = x >= area.X && x <= area.X+area.W
	}
	if cp, ok := p.ras.(CaretPlacer); ok {
		cp.PlaceCaret(x, y, visible)
		return
	}
	if visible {
		r := Rect{X: x, Y: y, W: caretWidth, H: p.metrics.LineHeight}.Intersect(area)
		p.ras.Fill(r, p.theme.Cursor)
	}
}

// HitTest maps a point in the viewport to the nearest cluster boundary.
// Points outside the document clamp to its first or last line.
func (p *Pipeline) HitTest(x, y float32) text.Cursor {
	p.sync()
	lh := p.metrics.LineHeight
	line := p.buf.Scroll().Vertical
	if lh > 0 {
		line += int(math.Floor(float64(y / lh)))
	}
	line = max(0, min(line, p.buf.LineCount()-1))
	tx := x - p.Gutter() + p.buf.Scroll().Horizontal
	return text.Cursor{Line: line, Col: p.geometry(line).colAt(tx)}
}

// EnsureVisible scrolls the least amount needed to show c.
func (p *Pipeline) EnsureVisible(c text.Cursor) {
	p.sync()
	s := p.buf.Scroll()
	if vis := p.buf.VisibleLines(); c.Line < s.Vertical {
		s.Vertical = c.Line
	} else if c.Line >= s.Vertical+vis {
		s.Vertical = c.Line - vis + 1
	}
	c = p.buf.Clamp(c)
	x := p.geometry(c.Line).xAt(c.Col)
	w := p.TextArea().W
	if x < s.Horizontal {
		s.Horizontal = x
	} else if margin := p.ras.Advance("0"); x+margin > s.Horizontal+w {
		s.Horizontal = x + margin - w
	}
	s.Horizontal = max(0, min(s.Horizontal, p.scrollLimit()))
	p.buf.SetScroll(s)
}

// scrollLimit is the largest horizontal offset: the widest line against
// the text area.
func (p *Pipeline) scrollLimit() float32 {
	return max(0, p.MaxLineWidth()-p.TextArea().W)
}

// clampScroll pulls the horizontal offset back after the widest line
// shrank or the viewport grew.
func (p *Pipeline) clampScroll() {
	s := p.buf.Scroll()
	if limit := p.scrollLimit(); s.Horizontal > limit {
		s.Horizontal = limit
		p.buf.SetScroll(s)
	}
}

// MaxLineWidth is the widest shaped line of the document, cached until the
// buffer or the metrics change.
func (p *Pipeline) MaxLineWidth() float32 {
	p.sync()
	if p.maxValid && p.maxVersion == p.buf.Version() {
		return p.maxWidth
	}
	var w float32
	for i := 0; i < p.buf.LineCount(); i++ {
		w = max(w, p.geometry(i).width)
	}
	p.maxWidth, p.maxVersion, p.maxValid = w, p.buf.Version(), true
	return w
}
