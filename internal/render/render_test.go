package render

import (
	"image/color"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/qpad/internal/highlight"
	"github.com/kobzarvs/qpad/internal/text"
)

type fill struct {
	r Rect
	c color.RGBA
}

type drawnGlyph struct {
	x, y    float32
	cluster string
}

// recorder is a rasterizer with ten pixel cells that remembers its calls.
type recorder struct {
	frames   int
	advances map[string]int
	fills    []fill
	glyphs   []drawnGlyph
}

func newRecorder() *recorder {
	return &recorder{advances: make(map[string]int)}
}

func (r *recorder) SetMetrics(text.Metrics) {}

func (r *recorder) Advance(cluster string) float32 {
	r.advances[cluster]++
	return float32(10 * runewidth.StringWidth(cluster))
}

func (r *recorder) Begin(int, int) {
	r.frames++
	r.fills = nil
	r.glyphs = nil
}

func (r *recorder) Fill(rect Rect, c color.RGBA) {
	r.fills = append(r.fills, fill{rect, c})
}

func (r *recorder) Glyph(x, y float32, cluster string, _ highlight.Style, _ Rect) {
	r.glyphs = append(r.glyphs, drawnGlyph{x, y, cluster})
}

func (r *recorder) End() {}

func (r *recorder) filled(c color.RGBA) []Rect {
	var out []Rect
	for _, f := range r.fills {
		if f.c == c {
			out = append(out, f.r)
		}
	}
	return out
}

var (
	testSelection = color.RGBA{R: 1, A: 255}
	testCursor    = color.RGBA{G: 1, A: 255}
	testCurrent   = color.RGBA{B: 1, A: 255}
)

func newTestPipeline(content string, opts Options) (*text.Buffer, *recorder, *Pipeline) {
	b := text.NewBuffer()
	b.SetText(content)
	b.SetMetrics(14, 20)
	b.SetViewportSize(200, 100)
	ras := newRecorder()
	theme := highlight.Theme{
		Selection:   testSelection,
		Cursor:      testCursor,
		CurrentLine: testCurrent,
	}
	return b, ras, New(b, ras, nil, theme, opts)
}

func TestDrawOnlyWhenDirty(t *testing.T) {
	b, ras, p := newTestPipeline("abc\ndef", Options{})
	if !p.Draw() {
		t.Fatalf("first Draw = false, want true")
	}
	if p.Draw() {
		t.Fatalf("second Draw = true without changes")
	}
	b.SetCursor(text.Cursor{Line: 1, Col: 1})
	if !p.Draw() {
		t.Fatalf("Draw after cursor move = false")
	}
	p.SetFocused(true)
	if !p.Draw() {
		t.Fatalf("Draw after focus = false")
	}
	if ras.frames != 3 {
		t.Fatalf("frames = %d, want 3", ras.frames)
	}
	if b.Redraw() {
		t.Fatalf("redraw flag left set")
	}
}

func TestReshapesOnlyStaleLines(t *testing.T) {
	b, ras, p := newTestPipeline("aaa\nbbb\nccc", Options{})
	p.Draw()
	clear(ras.advances)

	b.Insert(text.Cursor{Line: 1}, "x")
	p.Draw()
	if ras.advances["a"] != 0 || ras.advances["c"] != 0 {
		t.Fatalf("untouched lines reshaped: %v", ras.advances)
	}
	if ras.advances["b"] != 3 || ras.advances["x"] != 1 {
		t.Fatalf("edited line not reshaped: %v", ras.advances)
	}
	if len(ras.glyphs) != 10 {
		t.Fatalf("glyphs = %d, want 10", len(ras.glyphs))
	}
}

func TestGutterWidth(t *testing.T) {
	_, _, p := newTestPipeline("a\nb", Options{LineNumbers: true})
	if got := p.Gutter(); got != 40 {
		t.Fatalf("Gutter = %v, want 40", got)
	}
	_, _, p = newTestPipeline(strings.Repeat("\n", 149), Options{LineNumbers: true})
	if got := p.Gutter(); got != 50 {
		t.Fatalf("Gutter(150 lines) = %v, want 50", got)
	}
	_, _, p = newTestPipeline("a", Options{})
	if got := p.Gutter(); got != 0 {
		t.Fatalf("Gutter(hidden) = %v, want 0", got)
	}
}

func TestLineNumbersRightAligned(t *testing.T) {
	_, ras, p := newTestPipeline("a\nb", Options{LineNumbers: true})
	p.Draw()
	var digits []drawnGlyph
	for _, g := range ras.glyphs {
		if g.cluster == "1" || g.cluster == "2" {
			digits = append(digits, g)
		}
	}
	if len(digits) != 2 || digits[0].x != 20 || digits[1].y != 20 {
		t.Fatalf("line numbers = %+v", digits)
	}
}

func TestHitTest(t *testing.T) {
	b, _, p := newTestPipeline("a\tb\n漢x", Options{TabWidth: 4, LineNumbers: true})
	tests := []struct {
		x, y float32
		want text.Cursor
	}{
		{0, 0, text.Cursor{Line: 0, Col: 0}},
		{40 + 4, 5, text.Cursor{Line: 0, Col: 0}},
		{40 + 6, 5, text.Cursor{Line: 0, Col: 1}},
		{40 + 30, 5, text.Cursor{Line: 0, Col: 2}},
		{40 + 44, 5, text.Cursor{Line: 0, Col: 2}},
		{40 + 46, 5, text.Cursor{Line: 0, Col: 3}},
		{40 + 9, 25, text.Cursor{Line: 1, Col: 0}},
		{40 + 11, 25, text.Cursor{Line: 1, Col: 3}},
		{40 + 500, 25, text.Cursor{Line: 1, Col: 4}},
		{40, 500, text.Cursor{Line: 1, Col: 0}},
		{40, -30, text.Cursor{Line: 0, Col: 0}},
	}
	for _, tt := range tests {
		if got := p.HitTest(tt.x, tt.y); got != tt.want {
			t.Fatalf("HitTest(%v, %v) = %+v, want %+v", tt.x, tt.y, got, tt.want)
		}
	}

	b.SetScroll(text.Scroll{Horizontal: 10})
	if got := p.HitTest(40+36, 5); got != (text.Cursor{Line: 0, Col: 3}) {
		t.Fatalf("HitTest with horizontal scroll = %+v", got)
	}
}

func TestSelectionAndCaret(t *testing.T) {
	b, ras, p := newTestPipeline("abc\ndef", Options{})
	b.SetSelection(text.Cursor{Line: 0, Col: 1}, text.Cursor{Line: 1, Col: 2})
	b.SetCursor(text.Cursor{Line: 1, Col: 2})
	p.Draw()

	sel := ras.filled(testSelection)
	want := []Rect{{X: 10, Y: 0, W: 30, H: 20}, {X: 0, Y: 20, W: 20, H: 20}}
	if len(sel) != 2 || sel[0] != want[0] || sel[1] != want[1] {
		t.Fatalf("selection = %+v, want %+v", sel, want)
	}
	if got := ras.filled(testCursor); len(got) != 0 {
		t.Fatalf("caret drawn while unfocused: %+v", got)
	}

	p.SetFocused(true)
	p.Draw()
	caret := ras.filled(testCursor)
	if len(caret) != 1 || caret[0] != (Rect{X: 20, Y: 20, W: caretWidth, H: 20}) {
		t.Fatalf("caret = %+v", caret)
	}
	if cur := ras.filled(testCurrent); len(cur) != 1 || cur[0].Y != 20 {
		t.Fatalf("current line = %+v", cur)
	}
}

func TestScrollWheelLines(t *testing.T) {
	b, _, p := newTestPipeline(strings.Repeat("x\n", 99), Options{})
	if p.ScrollWheel(0, -1, false, false) {
		t.Fatalf("scrolling up at the top reported a change")
	}
	p.ScrollWheel(0, 1, false, false)
	if got := b.Scroll().Vertical; got != 1 {
		t.Fatalf("Vertical = %d, want 1", got)
	}
	p.ScrollWheel(0, 0.2, false, false)
	if got := b.Scroll().Vertical; got != 2 {
		t.Fatalf("small delta Vertical = %d, want 2", got)
	}
	// 10 lines accelerate to 3+sqrt(7), about 5.65.
	p.ScrollWheel(0, 10, false, false)
	if got := b.Scroll().Vertical; got != 7 {
		t.Fatalf("accelerated Vertical = %d, want 7", got)
	}
	p.ScrollWheel(0, 0.5, true, false)
	if got := b.Scroll().Vertical; got != 7 {
		t.Fatalf("pixel Vertical = %d, want 7", got)
	}
	// The carried fraction tips half a line over.
	p.ScrollWheel(0, 10, true, false)
	if got := b.Scroll().Vertical; got != 8 {
		t.Fatalf("carried Vertical = %d, want 8", got)
	}
}

func TestScrollWheelPixelsCarry(t *testing.T) {
	b, _, p := newTestPipeline(strings.Repeat("x\n", 99), Options{})
	if p.ScrollWheel(0, 10, true, false) {
		t.Fatalf("half a line moved the view")
	}
	if !p.ScrollWheel(0, 10, true, false) || b.Scroll().Vertical != 1 {
		t.Fatalf("Vertical = %d, want 1", b.Scroll().Vertical)
	}
}

func TestScrollWheelDirectionChangeDropsCarry(t *testing.T) {
	b, _, p := newTestPipeline(strings.Repeat("x\n", 99), Options{})
	p.ScrollWheel(0, 30, true, false)
	if got := b.Scroll().Vertical; got != 1 {
		t.Fatalf("Vertical = %d, want 1", got)
	}
	// Half a line is carried down; scrolling up must not spend it.
	p.ScrollWheel(0, -25, true, false)
	if got := b.Scroll().Vertical; got != 0 {
		t.Fatalf("Vertical after reversing = %d, want 0", got)
	}
}

func TestHorizontalScrollStaysWithinWidestLine(t *testing.T) {
	b, _, p := newTestPipeline(strings.Repeat("x", 200), Options{})
	limit := p.MaxLineWidth() - p.TextArea().W
	p.EnsureVisible(text.Cursor{Col: 200})
	if got := b.Scroll().Horizontal; got != limit {
		t.Fatalf("Horizontal = %v, want %v", got, limit)
	}

	b.DeleteRange(text.Cursor{}, text.Cursor{Col: 200})
	b.Insert(text.Cursor{}, "y")
	p.EnsureVisible(text.Cursor{Col: 1})
	if got := b.Scroll().Horizontal; got != 0 {
		t.Fatalf("Horizontal after shrinking = %v, want 0", got)
	}

	b.SetText(strings.Repeat("x", 200))
	b.SetScroll(text.Scroll{Horizontal: limit})
	b.DeleteRange(text.Cursor{Col: 10}, text.Cursor{Col: 200})
	p.Draw()
	if got := b.Scroll().Horizontal; got != 0 {
		t.Fatalf("Horizontal after Draw = %v, want 0", got)
	}

	b.SetText(strings.Repeat("x", 30))
	b.SetScroll(text.Scroll{Horizontal: 100})
	p.Layout(400, 100)
	if got := b.Scroll().Horizontal; got != 0 {
		t.Fatalf("Horizontal after widening = %v, want 0", got)
	}
}

func TestScrollWheelHorizontal(t *testing.T) {
	b, _, p := newTestPipeline(strings.Repeat("x", 50), Options{})
	p.ScrollWheel(0, 5, false, true)
	if got := b.Scroll(); got.Horizontal != 100 || got.Vertical != 0 {
		t.Fatalf("Scroll = %+v, want 100px horizontal", got)
	}
	p.ScrollWheel(0, 100, false, true)
	if got := b.Scroll().Horizontal; got != 300 {
		t.Fatalf("Horizontal = %v, want clamp at 300", got)
	}
	p.ScrollWheel(-1000, 0, true, false)
	if got := b.Scroll().Horizontal; got != 0 {
		t.Fatalf("Horizontal = %v, want 0", got)
	}
}

func TestEnsureVisible(t *testing.T) {
	b, _, p := newTestPipeline(strings.Repeat("x\n", 99)+strings.Repeat("y", 40), Options{})
	p.EnsureVisible(text.Cursor{Line: 50})
	if got := b.Scroll().Vertical; got != 46 {
		t.Fatalf("Vertical = %d, want 46", got)
	}
	p.EnsureVisible(text.Cursor{Line: 10})
	if got := b.Scroll().Vertical; got != 10 {
		t.Fatalf("Vertical = %d, want 10", got)
	}
	p.EnsureVisible(text.Cursor{Line: 99, Col: 40})
	if got := b.Scroll().Horizontal; got != 200 {
		t.Fatalf("Horizontal = %v, want 200", got)
	}
	p.EnsureVisible(text.Cursor{Line: 99, Col: 5})
	if got := b.Scroll().Horizontal; got != 50 {
		t.Fatalf("Horizontal = %v, want 50", got)
	}
}
