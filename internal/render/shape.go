package render

import (
	"github.com/rivo/uniseg"

	"github.com/kobzarvs/qpad/internal/highlight"
)

// glyph is one positioned grapheme cluster of a line. Tabs keep an empty
// text and the width up to the next tab stop.
type glyph struct {
	col   int
	end   int
	x     float32
	w     float32
	text  string
	style highlight.Style
}

type shapedLine struct {
	rev    uint64
	gen    uint64
	glyphs []glyph
	width  float32
}

// shape positions the clusters of s from x = 0. Styles come from spans
// when theme is non-nil.
func shape(s string, spans []highlight.Span, ras Rasterizer, tabWidth int, theme *highlight.Theme) shapedLine {
	if tabWidth < 1 {
		tabWidth = 1
	}
	tabStop := ras.Advance(" ") * float32(tabWidth)
	var runs []highlight.Span
	if theme != nil {
		runs = highlight.Flatten(spans, len(s))
	}
	run := 0

	var out shapedLine
	var x float32
	col := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		g := glyph{col: col, end: col + len(cluster), x: x}
		if cluster == "\t" {
			if tabStop > 0 {
				g.w = tabStop - modf(x, tabStop)
			}
		} else {
			g.text = cluster
			g.w = ras.Advance(cluster)
		}
		if theme != nil {
			for run < len(runs) && runs[run].End <= col {
				run++
			}
			if run < len(runs) && runs[run].Start <= col {
				g.style = theme.StyleFor(runs[run].Kind)
			} else {
				g.style = highlight.Style{Color: theme.Foreground}
			}
		}
		out.glyphs = append(out.glyphs, g)
		x += g.w
		col += len(cluster)
	}
	out.width = x
	return out
}

func modf(x, m float32) float32 {
	if m <= 0 {
		return 0
	}
	n := int(x / m)
	return x - float32(n)*m
}

// xAt is the offset of the boundary at byte col.
func (l *shapedLine) xAt(col int) float32 {
	for _, g := range l.glyphs {
		if g.col >= col {
			return g.x
		}
	}
	return l.width
}

// colAt maps an x offset to the nearest cluster boundary.
func (l *shapedLine) colAt(x float32) int {
	if x <= 0 {
		return 0
	}
	for _, g := range l.glyphs {
		if x < g.x+g.w/2 {
			return g.col
		}
	}
	if n := len(l.glyphs); n > 0 {
		return l.glyphs[n-1].end
	}
	return 0
}
