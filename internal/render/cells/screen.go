// Package cells paints the render pipeline onto a terminal through tcell.
// One unit of the layout is one character cell.
package cells

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/qpad/internal/highlight"
	"github.com/kobzarvs/qpad/internal/render"
	"github.com/kobzarvs/qpad/internal/text"
)

// Metrics are the layout metrics of a cell grid.
var Metrics = text.Metrics{FontSize: 1, LineHeight: 1}

type cell struct {
	main  rune
	comb  []rune
	fg    color.RGBA
	bg    color.RGBA
	attrs tcell.AttrMask
	wide  bool // right half of a double-width glyph
}

// Screen is a render.Rasterizer writing into a region of a tcell screen.
// The frame is composed off-screen and copied on End; showing the screen
// is left to the caller.
type Screen struct {
	s      tcell.Screen
	x0, y0 int
	w, h   int
	grid   []cell
}

var (
	_ render.Rasterizer  = (*Screen)(nil)
	_ render.CaretPlacer = (*Screen)(nil)
)

func New(s tcell.Screen) *Screen {
	return &Screen{s: s}
}

// SetOrigin moves the region the frame is copied to.
func (c *Screen) SetOrigin(x, y int) {
	c.x0, c.y0 = x, y
}

func (c *Screen) SetMetrics(text.Metrics) {}

func (c *Screen) Advance(cluster string) float32 {
	return float32(runewidth.StringWidth(cluster))
}

func (c *Screen) Begin(width, height int) {
	c.w, c.h = max(0, width), max(0, height)
	if cap(c.grid) < c.w*c.h {
		c.grid = make([]cell, c.w*c.h)
	}
	c.grid = c.grid[:c.w*c.h]
	clear(c.grid)
}

func (c *Screen) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.grid[y*c.w+x]
}

func (c *Screen) Fill(r render.Rect, col color.RGBA) {
	x0, y0, x1, y1 := span(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if p := c.at(x, y); p != nil {
				p.bg = col
			}
		}
	}
}

func (c *Screen) Glyph(x, y float32, cluster string, st highlight.Style, clip render.Rect) {
	cx0, cy0, cx1, cy1 := span(clip)
	gx := int(math.Floor(float64(x)))
	gy := int(math.Floor(float64(y)))
	width := runewidth.StringWidth(cluster)
	if gy < cy0 || gy >= cy1 || gx < cx0 || gx+max(width, 1) > cx1 {
		return
	}
	p := c.at(gx, gy)
	if p == nil {
		return
	}
	runes := []rune(cluster)
	p.main, p.comb = runes[0], runes[1:]
	p.fg = st.Color
	p.attrs = tcell.AttrNone
	if st.Bold {
		p.attrs |= tcell.AttrBold
	}
	if st.Italic {
		p.attrs |= tcell.AttrItalic
	}
	for i := 1; i < width; i++ {
		if q := c.at(gx+i, gy); q != nil {
			q.wide = true
		}
	}
}

func (c *Screen) End() {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			p := &c.grid[y*c.w+x]
			if p.wide {
				continue
			}
			st := tcell.StyleDefault.
				Background(rgb(p.bg)).
				Foreground(rgb(p.fg)).
				Attributes(p.attrs)
			main := p.main
			if main == 0 {
				main = ' '
			}
			c.s.SetContent(c.x0+x, c.y0+y, main, p.comb, st)
		}
	}
}

// PlaceCaret shows the terminal cursor at a cell of the region.
func (c *Screen) PlaceCaret(x, y float32, visible bool) {
	if !visible {
		c.s.HideCursor()
		return
	}
	c.s.SetCursorStyle(tcell.CursorStyleSteadyBar)
	c.s.ShowCursor(c.x0+int(x), c.y0+int(y))
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func span(r render.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(float64(r.X)))
	y0 = int(math.Floor(float64(r.Y)))
	x1 = int(math.Ceil(float64(r.X + r.W)))
	y1 = int(math.Ceil(float64(r.Y + r.H)))
	return
}
