package editor

import (
	"github.com/kobzarvs/qpad/internal/input"
	"github.com/kobzarvs/qpad/internal/motion"
)

// HandleMouse applies a pointer event and returns the auto-scroll state
// the host should follow.
func (e *Editor) HandleMouse(ev input.MouseEvent) AutoScroll {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev.Kind {
	case input.MouseWheel:
		e.pipe.ScrollWheel(ev.DeltaX, ev.DeltaY, ev.Unit == input.DeltaPixels, ev.Mods.Has(input.ModShift))
	case input.MousePress:
		if ev.Button == input.ButtonLeft {
			e.press(ev)
		}
	case input.MouseMove:
		if e.dragging {
			e.drag(ev.X, ev.Y)
		}
	case input.MouseRelease:
		e.stopDrag()
	}
	return e.autoScroll
}

func (e *Editor) press(ev input.MouseEvent) {
	e.setFocus(true)
	pos := e.pipe.HitTest(ev.X, ev.Y)
	e.dragging = true
	e.dragX, e.dragY = ev.X, ev.Y
	if ev.Mods.Has(input.ModShift) {
		e.clicks.Reset()
		motion.Extend(e.buf, pos)
		return
	}
	switch e.clicks.Record(pos, ev.When) {
	case motion.ClickDouble:
		motion.SelectWord(e.buf, pos)
	case motion.ClickTriple:
		motion.SelectLine(e.buf, pos.Line)
	default:
		e.buf.ClearSelection()
		e.buf.SetCursor(pos)
	}
}

func (e *Editor) drag(x, y float32) {
	e.dragX, e.dragY = x, y
	motion.Extend(e.buf, e.pipe.HitTest(x, y))
	_, h := e.buf.Viewport()
	switch {
	case y < 0:
		e.autoScroll = AutoScroll{Active: true, Direction: -1}
	case y >= h:
		e.autoScroll = AutoScroll{Active: true, Direction: 1}
	default:
		e.autoScroll = AutoScroll{}
	}
}

func (e *Editor) stopDrag() {
	e.dragging = false
	e.autoScroll = AutoScroll{}
}

// AutoScrollTick scrolls one line in the drag direction and extends the
// selection to the pointer. It reports whether the view moved.
func (e *Editor) AutoScrollTick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.autoScroll.Active {
		return false
	}
	s := e.buf.Scroll()
	before := s
	s.Vertical += e.autoScroll.Direction
	e.buf.SetScroll(s)
	motion.Extend(e.buf, e.pipe.HitTest(e.dragX, e.dragY))
	return e.buf.Scroll() != before
}

// AutoScrolling returns the current auto-scroll state.
func (e *Editor) AutoScrolling() AutoScroll {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.autoScroll
}
