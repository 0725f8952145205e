package cells

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qpad/internal/highlight"
	"github.com/kobzarvs/qpad/internal/render"
	"github.com/kobzarvs/qpad/internal/text"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func newTestPipeline(s tcell.Screen, content string) (*text.Buffer, *Screen, *render.Pipeline) {
	b := text.NewBuffer()
	b.SetText(content)
	b.SetMetrics(Metrics.FontSize, Metrics.LineHeight)
	b.SetViewportSize(20, 3)
	theme, _ := highlight.LoadTheme("")
	c := New(s)
	return b, c, render.New(b, c, nil, theme, render.Options{TabWidth: 4})
}

func TestRenderTabsAndWideRunes(t *testing.T) {
	s := newTestScreen(t, 20, 4)
	_, _, p := newTestPipeline(s, "a\tb\n漢x")
	p.Draw()
	s.Show()

	cells, w, _ := s.GetContents()
	want := map[int]rune{0: 'a', 4: 'b', w: '漢', w + 2: 'x'}
	for i, r := range want {
		if len(cells[i].Runes) == 0 || cells[i].Runes[0] != r {
			t.Fatalf("cell %d = %q, want %q", i, cells[i].Runes, r)
		}
	}
}

func TestRenderOrigin(t *testing.T) {
	s := newTestScreen(t, 20, 4)
	_, c, p := newTestPipeline(s, "abc")
	c.SetOrigin(0, 1)
	p.Draw()
	s.Show()

	cells, w, _ := s.GetContents()
	if r := cells[w].Runes; len(r) == 0 || r[0] != 'a' {
		t.Fatalf("origin cell = %q, want 'a'", r)
	}
	if r := cells[0].Runes; len(r) > 0 && r[0] == 'a' {
		t.Fatalf("row above origin was drawn")
	}
}

func TestRenderCaretAndSelection(t *testing.T) {
	s := newTestScreen(t, 20, 4)
	b, _, p := newTestPipeline(s, "a\tbc")
	b.SetCursor(text.Cursor{Line: 0, Col: 2})
	b.SetSelection(text.Cursor{Line: 0, Col: 3}, text.Cursor{Line: 0, Col: 4})
	p.SetFocused(true)
	p.Draw()
	s.Show()

	x, y, visible := s.GetCursor()
	if !visible || x != 4 || y != 0 {
		t.Fatalf("cursor = (%d, %d, %v), want (4, 0, true)", x, y, visible)
	}
	cells, _, _ := s.GetContents()
	_, bgPlain, _ := cells[4].Style.Decompose()
	_, bgSelected, _ := cells[5].Style.Decompose()
	if bgPlain == bgSelected {
		t.Fatalf("selection background not applied")
	}

	p.SetFocused(false)
	p.Draw()
	s.Show()
	if _, _, visible := s.GetCursor(); visible {
		t.Fatalf("cursor visible without focus")
	}
}

func TestRenderBoldAttribute(t *testing.T) {
	s := newTestScreen(t, 4, 1)
	c := New(s)
	c.Begin(4, 1)
	c.Glyph(1, 0, "k", highlight.Style{Bold: true}, render.Rect{W: 4, H: 1})
	c.End()
	s.Show()

	cells, _, _ := s.GetContents()
	_, _, attrs := cells[1].Style.Decompose()
	if attrs&tcell.AttrBold == 0 {
		t.Fatalf("bold attribute missing")
	}
}
