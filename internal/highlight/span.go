package highlight

// Span marks bytes [Start, End) of one line with a capture kind such as
// "keyword" or "string".
type Span struct {
	Start int
	End   int
	Kind  string
}

// Kinds lists every capture kind a Theme can color.
var Kinds = []string{
	"keyword", "string", "comment", "type", "function", "number", "constant",
	"operator", "punctuation", "field", "builtin", "variable", "parameter",
}

func priority(kind string) int {
	switch kind {
	case "comment":
		return 7
	case "string":
		return 6
	case "keyword":
		return 5
	case "constant", "builtin":
		return 4
	case "parameter", "type", "function", "number":
		return 3
	case "field", "variable":
		return 2
	case "operator", "punctuation":
		return 1
	default:
		return 0
	}
}

// KindAt returns the highest priority kind covering col.
func KindAt(spans []Span, col int) (string, bool) {
	best, bestPriority := "", 0
	for _, s := range spans {
		if col < s.Start || col >= s.End {
			continue
		}
		if p := priority(s.Kind); p > bestPriority {
			best, bestPriority = s.Kind, p
		}
	}
	return best, best != ""
}

// Flatten resolves overlapping spans on a line of n bytes into ordered,
// disjoint runs. Bytes no span covers are left out.
func Flatten(spans []Span, n int) []Span {
	if len(spans) == 0 || n <= 0 {
		return nil
	}
	var out []Span
	for col := 0; col < n; col++ {
		kind, ok := KindAt(spans, col)
		if !ok {
			continue
		}
		if last := len(out) - 1; last >= 0 && out[last].End == col && out[last].Kind == kind {
			out[last].End++
			continue
		}
		out = append(out, Span{Start: col, End: col + 1, Kind: kind})
	}
	return out
}
