// Package raster paints the render pipeline into an in-memory RGBA image
// with Go fonts. It backs headless rendering and PNG snapshots.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/kobzarvs/qpad/internal/highlight"
	"github.com/kobzarvs/qpad/internal/render"
	"github.com/kobzarvs/qpad/internal/text"
)

const (
	FontGoMono = "gomono"
	FontBasic  = "basic"
)

type variant int

const (
	regular variant = iota
	bold
	italic
	boldItalic
	variants
)

// Image is a render.Rasterizer drawing into an *image.RGBA.
type Image struct {
	fonts [variants]*opentype.Font
	faces [variants]font.Face

	img     *image.RGBA
	metrics text.Metrics
	cell    float32
	ascent  float32
	descent float32
}

var _ render.Rasterizer = (*Image)(nil)

// New loads the named font. FontBasic uses the fixed 7x13 bitmap face and
// ignores the font size.
func New(name string) (*Image, error) {
	r := &Image{}
	switch name {
	case "", FontGoMono:
		for v, ttf := range [variants][]byte{gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF} {
			f, err := opentype.Parse(ttf)
			if err != nil {
				return nil, fmt.Errorf("parse font: %w", err)
			}
			r.fonts[v] = f
		}
	case FontBasic:
	default:
		return nil, fmt.Errorf("unknown font %q", name)
	}
	r.SetMetrics(text.DefaultMetrics)
	return r, nil
}

func (r *Image) SetMetrics(m text.Metrics) {
	if m == r.metrics && r.faces[regular] != nil {
		return
	}
	r.metrics = m
	for v := range r.faces {
		r.faces[v] = basicfont.Face7x13
		if r.fonts[v] == nil {
			continue
		}
		face, err := opentype.NewFace(r.fonts[v], &opentype.FaceOptions{
			Size:    float64(m.FontSize),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			r.faces[v] = face
		}
	}
	face := r.faces[regular]
	adv, ok := face.GlyphAdvance('0')
	if !ok {
		adv = font.MeasureString(face, "0")
	}
	r.cell = fix(adv)
	fm := face.Metrics()
	r.ascent = fix(fm.Ascent)
	r.descent = fix(fm.Descent)
}

func fix(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

// Advance is a whole number of monospace cells.
func (r *Image) Advance(cluster string) float32 {
	return float32(runewidth.StringWidth(cluster)) * r.cell
}

func (r *Image) Begin(width, height int) {
	bounds := image.Rect(0, 0, width, height)
	if r.img == nil || r.img.Bounds() != bounds {
		r.img = image.NewRGBA(bounds)
	}
}

func (r *Image) Fill(rect render.Rect, c color.RGBA) {
	if r.img == nil || rect.Empty() {
		return
	}
	draw.Draw(r.img, bounds(rect), image.NewUniform(c), image.Point{}, draw.Src)
}

func (r *Image) Glyph(x, y float32, cluster string, st highlight.Style, clip render.Rect) {
	if r.img == nil || clip.Empty() {
		return
	}
	dst, ok := r.img.SubImage(bounds(clip)).(*image.RGBA)
	if !ok {
		return
	}
	v := regular
	switch {
	case st.Bold && st.Italic:
		v = boldItalic
	case st.Bold:
		v = bold
	case st.Italic:
		v = italic
	}
	baseline := y + (r.metrics.LineHeight-(r.ascent+r.descent))/2 + r.ascent
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(st.Color),
		Face: r.faces[v],
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(baseline * 64)},
	}
	d.DrawString(cluster)
}

func (r *Image) End() {}

// Image returns the last frame, or nil before the first Begin.
func (r *Image) Image() *image.RGBA {
	return r.img
}

// WritePNG encodes the last frame.
func (r *Image) WritePNG(w io.Writer) error {
	if r.img == nil {
		return fmt.Errorf("nothing rendered")
	}
	return png.Encode(w, r.img)
}

func bounds(rect render.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(float64(rect.X))),
		int(math.Floor(float64(rect.Y))),
		int(math.Ceil(float64(rect.X+rect.W))),
		int(math.Ceil(float64(rect.Y+rect.H))),
	)
}
