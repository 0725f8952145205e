package render

import "math"

// accelerate keeps small deltas linear and damps large ones to the square
// root of the excess over three lines.
func accelerate(r float32) float32 {
	a := float32(math.Abs(float64(r)))
	if a > 3 {
		a = 3 + float32(math.Sqrt(float64(a-3)))
	}
	if r < 0 {
		return -a
	}
	return a
}

// ScrollWheel applies a wheel or touchpad delta. Positive dy scrolls
// towards the end of the document. Deltas are in lines unless pixels is
// set; shift turns a vertical delta horizontal. Fractional vertical
// movement is carried into the next call. It reports whether the scroll
// offset changed.
func (p *Pipeline) ScrollWheel(dx, dy float32, pixels, shift bool) bool {
	p.sync()
	lh := p.metrics.LineHeight
	if shift && dx == 0 {
		dx, dy = dy, 0
	}
	before := p.buf.Scroll()
	s := before

	if dy != 0 {
		r := dy
		if pixels && lh > 0 {
			r = dy / lh
		}
		r = accelerate(r)
		if !pixels && r > -1 && r < 1 {
			r = float32(math.Copysign(1, float64(r)))
		}
		if (r < 0) != (p.remainder < 0) {
			p.remainder = 0
		}
		total := p.remainder + r
		n := int(total)
		p.remainder = total - float32(n)
		s.Vertical += n
	}
	if dx != 0 {
		d := dx
		if !pixels {
			d = dx * lh
		}
		s.Horizontal = max(0, min(s.Horizontal+d, p.scrollLimit()))
	}

	p.buf.SetScroll(s)
	after := p.buf.Scroll()
	if after.Vertical != s.Vertical {
		// Pinned at an edge: drop the carried fraction.
		p.remainder = 0
	}
	return after != before
}
