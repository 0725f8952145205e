package text

import "strings"

// LineEnding is the terminator recorded for a single line.
type LineEnding uint8

const (
	EndingNone LineEnding = iota
	EndingLF
	EndingCRLF
	EndingCR
)

func (e LineEnding) String() string {
	switch e {
	case EndingLF:
		return "\n"
	case EndingCRLF:
		return "\r\n"
	case EndingCR:
		return "\r"
	default:
		return ""
	}
}

// Name is the human readable form used in the status line.
func (e LineEnding) Name() string {
	switch e {
	case EndingLF:
		return "LF"
	case EndingCRLF:
		return "CRLF"
	case EndingCR:
		return "CR"
	default:
		return "none"
	}
}

// Line is one logical line of the document.
type Line struct {
	Text   string
	Ending LineEnding
	rev    uint64
}

// Revision changes whenever the line is created or rewritten.
func (l Line) Revision() uint64 {
	return l.rev
}

// splitText breaks s into lines, keeping the literal terminator of each.
// The final segment always has EndingNone, so "a\n" yields two lines.
func splitText(s string) []Line {
	out := make([]Line, 0, strings.Count(s, "\n")+1)
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			out = append(out, Line{Text: s[start:i], Ending: EndingLF})
			start = i + 1
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				out = append(out, Line{Text: s[start:i], Ending: EndingCRLF})
				i++
			} else {
				out = append(out, Line{Text: s[start:i], Ending: EndingCR})
			}
			start = i + 1
		}
	}
	out = append(out, Line{Text: s[start:]})
	return out
}

func joinLines(lines []Line) string {
	n := 0
	for _, l := range lines {
		n += len(l.Text) + len(l.Ending.String())
	}
	var sb strings.Builder
	sb.Grow(n)
	for _, l := range lines {
		sb.WriteString(l.Text)
		sb.WriteString(l.Ending.String())
	}
	return sb.String()
}
