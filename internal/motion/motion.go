package motion

import (
	"unicode"
	"unicode/utf8"

	"github.com/kobzarvs/qpad/internal/text"
)

// Motion is a named caret relocation rule.
type Motion uint8

const (
	Left Motion = iota
	Right
	Up
	Down
	PageUp
	PageDown
	Home
	End
	WordLeft
	WordRight
	DocumentStart
	DocumentEnd
)

var motionNames = [...]string{
	Left:          "left",
	Right:         "right",
	Up:            "up",
	Down:          "down",
	PageUp:        "page_up",
	PageDown:      "page_down",
	Home:          "home",
	End:           "end",
	WordLeft:      "word_left",
	WordRight:     "word_right",
	DocumentStart: "document_start",
	DocumentEnd:   "document_end",
}

func (m Motion) String() string {
	if int(m) < len(motionNames) {
		return motionNames[m]
	}
	return "unknown"
}

// Parse resolves a motion name as written in keymaps.
func Parse(name string) (Motion, bool) {
	for i, n := range motionNames {
		if n == name {
			return Motion(i), true
		}
	}
	return 0, false
}

// Backward reports whether the motion heads towards the document start.
func (m Motion) Backward() bool {
	switch m {
	case Left, Up, PageUp, Home, WordLeft, DocumentStart:
		return true
	}
	return false
}

// Document is the read-only view motions are computed against.
type Document interface {
	LineCount() int
	LineText(i int) string
	VisibleLines() int
}

// Options tune motion semantics.
type Options struct {
	// WordCrossesLines lets word motions step onto the adjacent line when
	// the caret already sits at a line edge.
	WordCrossesLines bool
}

// Apply computes where m takes c. Positions outside the document are
// clamped first.
func Apply(doc Document, c text.Cursor, m Motion, opts Options) text.Cursor {
	c = clamp(doc, c)
	line := doc.LineText(c.Line)
	last := doc.LineCount() - 1

	switch m {
	case Left:
		if c.Col > 0 {
			c.Col = text.PrevBoundary(line, c.Col)
		} else if c.Line > 0 {
			c.Line--
			c.Col = len(doc.LineText(c.Line))
		}
	case Right:
		if c.Col < len(line) {
			c.Col = text.NextBoundary(line, c.Col)
		} else if c.Line < last {
			c.Line++
			c.Col = 0
		}
	case Up:
		if c.Line == 0 {
			c.Col = 0
		} else {
			c = vertical(doc, c, -1)
		}
	case Down:
		if c.Line == last {
			c.Col = len(line)
		} else {
			c = vertical(doc, c, 1)
		}
	case PageUp:
		c = vertical(doc, c, -page(doc))
	case PageDown:
		c = vertical(doc, c, page(doc))
	case Home:
		c.Col = 0
	case End:
		c.Col = len(line)
	case WordLeft:
		if c.Col == 0 {
			if opts.WordCrossesLines && c.Line > 0 {
				c.Line--
				c.Col = len(doc.LineText(c.Line))
			}
			break
		}
		c.Col = PrevWordStart(line, c.Col)
	case WordRight:
		if c.Col == len(line) {
			if opts.WordCrossesLines && c.Line < last {
				c.Line++
				c.Col = 0
			}
			break
		}
		c.Col = NextWordEnd(line, c.Col)
	case DocumentStart:
		c = text.Cursor{}
	case DocumentEnd:
		c = text.Cursor{Line: last, Col: len(doc.LineText(last))}
	}
	return c
}

func page(doc Document) int {
	n := doc.VisibleLines()
	if n < 1 {
		n = 1
	}
	return n
}

func vertical(doc Document, c text.Cursor, delta int) text.Cursor {
	c.Line += delta
	if c.Line < 0 {
		c.Line = 0
	}
	if c.Line > doc.LineCount()-1 {
		c.Line = doc.LineCount() - 1
	}
	c.Col = text.SnapBoundary(doc.LineText(c.Line), c.Col)
	return c
}

func clamp(doc Document, c text.Cursor) text.Cursor {
	if c.Line < 0 {
		return text.Cursor{}
	}
	if c.Line >= doc.LineCount() {
		last := doc.LineCount() - 1
		return text.Cursor{Line: last, Col: len(doc.LineText(last))}
	}
	c.Col = text.SnapBoundary(doc.LineText(c.Line), c.Col)
	return c
}

// IsWordRune reports whether r belongs to a word: letters, digits,
// underscore and the combining marks that attach to them.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// NextWordEnd returns the end of the first word ending after col, or the
// line length.
func NextWordEnd(line string, col int) int {
	i := col
	for i < len(line) {
		r, n := utf8.DecodeRuneInString(line[i:])
		if IsWordRune(r) {
			break
		}
		i += n
	}
	for i < len(line) {
		r, n := utf8.DecodeRuneInString(line[i:])
		if !IsWordRune(r) {
			break
		}
		i += n
	}
	return i
}

// PrevWordStart returns the start of the last word starting before col, or 0.
func PrevWordStart(line string, col int) int {
	i := col
	for i > 0 {
		r, n := utf8.DecodeLastRuneInString(line[:i])
		if IsWordRune(r) {
			break
		}
		i -= n
	}
	for i > 0 {
		r, n := utf8.DecodeLastRuneInString(line[:i])
		if !IsWordRune(r) {
			break
		}
		i -= n
	}
	return i
}

// WordAt returns the byte range of the run containing col: a word, a run of
// blanks, or a single other grapheme.
func WordAt(line string, col int) (start, end int) {
	if line == "" {
		return 0, 0
	}
	col = text.SnapBoundary(line, col)
	if col >= len(line) {
		col = text.PrevBoundary(line, len(line))
	}
	r, _ := utf8.DecodeRuneInString(line[col:])
	var same func(rune) bool
	switch {
	case IsWordRune(r):
		same = IsWordRune
	case r == ' ' || r == '\t':
		same = func(r rune) bool { return r == ' ' || r == '\t' }
	default:
		return col, text.NextBoundary(line, col)
	}
	start, end = col, col
	for start > 0 {
		r, n := utf8.DecodeLastRuneInString(line[:start])
		if !same(r) {
			break
		}
		start -= n
	}
	for end < len(line) {
		r, n := utf8.DecodeRuneInString(line[end:])
		if !same(r) {
			break
		}
		end += n
	}
	return start, end
}
