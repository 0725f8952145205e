// Package render lays out the visible part of a buffer and paints it
// through a Rasterizer. The rasterizer owns the pixel or cell buffer; the
// pipeline only repaints it when something visible changed.
package render

import (
	"image/color"

	"github.com/kobzarvs/qpad/internal/highlight"
	"github.com/kobzarvs/qpad/internal/text"
)

// Rect is an axis-aligned rectangle in viewport pixels.
type Rect struct {
	X, Y, W, H float32
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Rasterizer shapes grapheme clusters and paints into a buffer it keeps
// between frames.
type Rasterizer interface {
	SetMetrics(m text.Metrics)
	// Advance is the horizontal size of a grapheme cluster.
	Advance(cluster string) float32
	// Begin starts a frame of the given size. The previous frame's content
	// is undefined afterwards.
	Begin(width, height int)
	Fill(r Rect, c color.RGBA)
	// Glyph paints cluster with its top-left corner at x, y, clipped to clip.
	Glyph(x, y float32, cluster string, st highlight.Style, clip Rect)
	End()
}

// CaretPlacer is implemented by rasterizers that show the caret
// themselves, such as a terminal cursor.
type CaretPlacer interface {
	PlaceCaret(x, y float32, visible bool)
}

// Highlighter supplies syntax spans for the visible lines.
type Highlighter interface {
	// Refresh catches up with b and returns a generation that changes
	// whenever the spans do.
	Refresh(b *text.Buffer) uint64
	Highlights(start, end int) map[int][]highlight.Span
}
