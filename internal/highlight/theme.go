package highlight

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultTheme is the chroma style used when none is configured.
const DefaultTheme = "catppuccin-mocha"

// Style is how one capture kind is painted.
type Style struct {
	Color  color.RGBA
	Bold   bool
	Italic bool
}

// Theme holds every color the renderers paint with.
type Theme struct {
	Name             string
	Foreground       color.RGBA
	Background       color.RGBA
	Gutter           color.RGBA
	LineNumber       color.RGBA
	LineNumberActive color.RGBA
	CurrentLine      color.RGBA
	Selection        color.RGBA
	Cursor           color.RGBA
	Syntax           map[string]Style
}

var kindTokens = map[string]chroma.TokenType{
	"keyword":     chroma.Keyword,
	"string":      chroma.LiteralString,
	"comment":     chroma.Comment,
	"type":        chroma.KeywordType,
	"function":    chroma.NameFunction,
	"number":      chroma.LiteralNumber,
	"constant":    chroma.KeywordConstant,
	"operator":    chroma.Operator,
	"punctuation": chroma.Punctuation,
	"field":       chroma.NameAttribute,
	"builtin":     chroma.NameBuiltin,
	"variable":    chroma.NameVariable,
	"parameter":   chroma.NameVariable,
}

// LoadTheme builds a theme from the named chroma style. Unknown names
// report an error and fall back to DefaultTheme.
func LoadTheme(name string) (Theme, error) {
	if name == "" {
		name = DefaultTheme
	}
	var err error
	st, ok := styles.Registry[strings.ToLower(name)]
	if !ok {
		err = fmt.Errorf("unknown theme %q", name)
		name = DefaultTheme
		st = styles.Get(name)
	}
	return fromStyle(name, st), err
}

func fromStyle(name string, st *chroma.Style) Theme {
	base := st.Get(chroma.Background)
	fg := rgba(base.Colour, color.RGBA{R: 0xcd, G: 0xd6, B: 0xf4, A: 0xff})
	bg := rgba(base.Background, color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff})

	t := Theme{
		Name:       name,
		Foreground: fg,
		Background: bg,
		Gutter:     bg,
		Cursor:     fg,
		Syntax:     make(map[string]Style, len(kindTokens)),
	}
	t.LineNumber = rgba(st.Get(chroma.LineNumbers).Colour, blend(bg, fg, 0.4))
	t.LineNumberActive = fg
	t.CurrentLine = rgba(st.Get(chroma.LineHighlight).Background, blend(bg, fg, 0.08))
	t.Selection = blend(bg, fg, 0.25)
	for kind, tt := range kindTokens {
		e := st.Get(tt)
		t.Syntax[kind] = Style{
			Color:  rgba(e.Colour, fg),
			Bold:   e.Bold == chroma.Yes,
			Italic: e.Italic == chroma.Yes,
		}
	}
	return t
}

func rgba(c chroma.Colour, fallback color.RGBA) color.RGBA {
	if !c.IsSet() {
		return fallback
	}
	return color.RGBA{R: c.Red(), G: c.Green(), B: c.Blue(), A: 0xff}
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	r, g, bl := ca.BlendLab(cb, t).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 0xff}
}

// ParseColor parses "#rrggbb" or "#rgb".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Apply overrides individual colors. Keys are the theme fields in kebab
// case ("current-line") or "syntax-<kind>". Invalid entries are skipped and
// the first problem is returned.
func (t *Theme) Apply(overrides map[string]string) error {
	var firstErr error
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}
	for key, value := range overrides {
		c, err := ParseColor(value)
		if err != nil {
			fail(fmt.Errorf("theme %s: %w", key, err))
			continue
		}
		if kind, ok := strings.CutPrefix(key, "syntax-"); ok {
			if _, known := kindTokens[kind]; !known {
				fail(fmt.Errorf("theme %s: unknown syntax kind", key))
				continue
			}
			s := t.Syntax[kind]
			s.Color = c
			t.Syntax[kind] = s
			continue
		}
		dst := t.field(key)
		if dst == nil {
			fail(fmt.Errorf("theme %s: unknown key", key))
			continue
		}
		*dst = c
	}
	return firstErr
}

func (t *Theme) field(key string) *color.RGBA {
	switch key {
	case "foreground":
		return &t.Foreground
	case "background":
		return &t.Background
	case "gutter":
		return &t.Gutter
	case "line-number":
		return &t.LineNumber
	case "line-number-active":
		return &t.LineNumberActive
	case "current-line":
		return &t.CurrentLine
	case "selection":
		return &t.Selection
	case "cursor":
		return &t.Cursor
	}
	return nil
}

// StyleFor returns the style for a capture kind, or the foreground.
func (t Theme) StyleFor(kind string) Style {
	if s, ok := t.Syntax[kind]; ok {
		return s
	}
	return Style{Color: t.Foreground}
}
