package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/kobzarvs/qpad/internal/highlight"
	"github.com/kobzarvs/qpad/internal/render"
	"github.com/kobzarvs/qpad/internal/text"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func inked(r *Image, x0, x1 int) int {
	n := 0
	img := r.Image()
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := x0; x < x1; x++ {
			if img.RGBAAt(x, y) != black {
				n++
			}
		}
	}
	return n
}

func TestBasicAdvance(t *testing.T) {
	r, err := New(FontBasic)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := r.Advance("a"); got != 7 {
		t.Fatalf("Advance(a) = %v, want 7", got)
	}
	if got := r.Advance("漢"); got != 14 {
		t.Fatalf("Advance(漢) = %v, want 14", got)
	}
}

func TestGoMonoScalesWithMetrics(t *testing.T) {
	r, err := New(FontGoMono)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.SetMetrics(text.Metrics{FontSize: 10, LineHeight: 14})
	small := r.Advance("a")
	r.SetMetrics(text.Metrics{FontSize: 20, LineHeight: 28})
	large := r.Advance("a")
	if small <= 0 || large <= small {
		t.Fatalf("advances = %v, %v; want growing with size", small, large)
	}
	if _, err := New("comic"); err == nil {
		t.Fatalf("unknown font accepted")
	}
}

func TestGlyphClipped(t *testing.T) {
	r, _ := New(FontBasic)
	r.SetMetrics(text.Metrics{FontSize: 13, LineHeight: 20})
	r.Begin(60, 20)
	r.Fill(render.Rect{W: 60, H: 20}, black)
	if n := inked(r, 0, 60); n != 0 {
		t.Fatalf("background not filled: %d pixels", n)
	}

	st := highlight.Style{Color: white}
	r.Glyph(0, 0, "X", st, render.Rect{X: 30, W: 30, H: 20})
	if n := inked(r, 0, 60); n != 0 {
		t.Fatalf("glyph outside clip drew %d pixels", n)
	}
	r.Glyph(35, 0, "X", st, render.Rect{X: 30, W: 30, H: 20})
	if n := inked(r, 30, 60); n == 0 {
		t.Fatalf("glyph inside clip drew nothing")
	}
	if n := inked(r, 0, 30); n != 0 {
		t.Fatalf("glyph leaked left of clip: %d pixels", n)
	}
}

func TestWritePNG(t *testing.T) {
	r, _ := New(FontBasic)
	var buf bytes.Buffer
	if err := r.WritePNG(&buf); err == nil {
		t.Fatalf("WritePNG before Begin succeeded")
	}
	r.Begin(8, 4)
	r.Fill(render.Rect{W: 8, H: 4}, white)
	if err := r.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Fatalf("bounds = %v, want 8x4", b)
	}
}

func TestPipelineSnapshot(t *testing.T) {
	r, _ := New(FontBasic)
	b := text.NewBuffer()
	b.SetText("hello\nworld")
	b.SetViewportSize(120, 40)
	theme, _ := highlight.LoadTheme("")
	p := render.New(b, r, nil, theme, render.Options{LineNumbers: true})
	if !p.Draw() {
		t.Fatalf("Draw = false")
	}
	if got := r.Image().RGBAAt(119, 39); got != theme.Background {
		t.Fatalf("corner = %v, want background %v", got, theme.Background)
	}
}
