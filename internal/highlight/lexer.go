package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// lexerFor returns a coalescing chroma lexer for path, or nil when chroma
// does not recognise the file.
func lexerFor(path string) chroma.Lexer {
	if path == "" {
		return nil
	}
	lex := lexers.Match(path)
	if lex == nil {
		return nil
	}
	return chroma.Coalesce(lex)
}

// lex tokenises src and splits the tokens into per-line spans.
func lex(lexer chroma.Lexer, src string) (map[int][]Span, error) {
	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return nil, err
	}
	out := make(map[int][]Span)
	row, col := 0, 0
	for _, tok := range it.Tokens() {
		kind := tokenKind(tok.Type)
		for i, part := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				row++
				col = 0
			}
			if kind != "" && part != "" {
				out[row] = append(out[row], Span{Start: col, End: col + len(part), Kind: kind})
			}
			col += len(part)
		}
	}
	return out, nil
}

func tokenKind(tt chroma.TokenType) string {
	switch {
	case tt.InCategory(chroma.Comment):
		return "comment"
	case tt.InSubCategory(chroma.LiteralString):
		return "string"
	case tt.InSubCategory(chroma.LiteralNumber):
		return "number"
	case tt == chroma.KeywordType:
		return "type"
	case tt == chroma.KeywordConstant, tt == chroma.NameConstant:
		return "constant"
	case tt.InCategory(chroma.Keyword):
		return "keyword"
	case tt == chroma.NameFunction, tt == chroma.NameFunctionMagic:
		return "function"
	case tt == chroma.NameBuiltin, tt == chroma.NameBuiltinPseudo:
		return "builtin"
	case tt == chroma.NameClass, tt == chroma.NameNamespace:
		return "type"
	case tt == chroma.NameAttribute, tt == chroma.NameProperty, tt == chroma.NameTag:
		return "field"
	case tt >= chroma.NameVariable && tt <= chroma.NameVariableMagic:
		return "variable"
	case tt.InCategory(chroma.Operator):
		return "operator"
	case tt.InCategory(chroma.Punctuation):
		return "punctuation"
	}
	return ""
}
