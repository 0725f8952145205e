package text

import "github.com/rivo/uniseg"

// Cursor is a caret position: a line index and a byte offset into that line.
type Cursor struct {
	Line int
	Col  int
}

// Less reports whether c sorts before o in document order.
func (c Cursor) Less(o Cursor) bool {
	if c.Line != o.Line {
		return c.Line < o.Line
	}
	return c.Col < o.Col
}

// Selection is an anchored interval. The zero value means "no selection".
type Selection struct {
	Anchor Cursor
	Active Cursor
	ok     bool
}

// NewSelection returns a selection, or none when both ends coincide.
func NewSelection(anchor, active Cursor) Selection {
	if anchor == active {
		return Selection{}
	}
	return Selection{Anchor: anchor, Active: active, ok: true}
}

func (s Selection) IsNone() bool {
	return !s.ok
}

// Bounds returns the ordered ends of the selection.
func (s Selection) Bounds() (start, end Cursor, ok bool) {
	if !s.ok {
		return Cursor{}, Cursor{}, false
	}
	if s.Active.Less(s.Anchor) {
		return s.Active, s.Anchor, true
	}
	return s.Anchor, s.Active, true
}

// PrevBoundary returns the grapheme boundary before col, or 0.
func PrevBoundary(s string, col int) int {
	if col <= 0 {
		return 0
	}
	prev := 0
	pos := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		next := pos + len(cluster)
		if next >= col {
			return pos
		}
		prev = next
		pos = next
	}
	return prev
}

// NextBoundary returns the grapheme boundary after col, or len(s).
func NextBoundary(s string, col int) int {
	if col >= len(s) {
		return len(s)
	}
	pos := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		pos += len(cluster)
		if pos > col {
			return pos
		}
	}
	return len(s)
}

// SnapBoundary returns the largest grapheme boundary that is <= col.
func SnapBoundary(s string, col int) int {
	if col <= 0 {
		return 0
	}
	if col >= len(s) {
		return len(s)
	}
	pos := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if pos+len(cluster) > col {
			return pos
		}
		pos += len(cluster)
	}
	return pos
}
