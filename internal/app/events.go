package app

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qpad/internal/input"
)

var namedKeys = map[tcell.Key]input.Key{
	tcell.KeyEnter:      input.KeyEnter,
	tcell.KeyTab:        input.KeyTab,
	tcell.KeyBacktab:    input.KeyBacktab,
	tcell.KeyBackspace:  input.KeyBackspace,
	tcell.KeyBackspace2: input.KeyBackspace,
	tcell.KeyDelete:     input.KeyDelete,
	tcell.KeyEscape:     input.KeyEscape,
	tcell.KeyLeft:       input.KeyLeft,
	tcell.KeyRight:      input.KeyRight,
	tcell.KeyUp:         input.KeyUp,
	tcell.KeyDown:       input.KeyDown,
	tcell.KeyHome:       input.KeyHome,
	tcell.KeyEnd:        input.KeyEnd,
	tcell.KeyPgUp:       input.KeyPageUp,
	tcell.KeyPgDn:       input.KeyPageDown,
}

func modifiers(m tcell.ModMask) input.Modifiers {
	var out input.Modifiers
	if m&tcell.ModShift != 0 {
		out |= input.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= input.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= input.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= input.ModMeta
	}
	return out
}

// keyEvent converts a terminal key press. Control letters arrive as their
// own key codes and become the letter with ModCtrl.
func keyEvent(ev *tcell.EventKey) (input.KeyEvent, bool) {
	mods := modifiers(ev.Modifiers())
	if k, ok := namedKeys[ev.Key()]; ok {
		return input.KeyEvent{Key: k, Mods: mods}, true
	}
	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		r := ev.Rune()
		out := input.KeyEvent{Key: input.KeyRune, Rune: r, Mods: mods}
		if !mods.Has(input.ModCtrl) && !mods.Has(input.ModAlt) {
			out.Text = string(r)
		}
		return out, true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		r := rune('a' + k - tcell.KeyCtrlA)
		return input.KeyEvent{Key: input.KeyRune, Rune: r, Mods: mods | input.ModCtrl}, true
	}
	return input.KeyEvent{}, false
}

// pointer tracks button state between terminal mouse reports, which carry
// the buttons held rather than press and release transitions.
type pointer struct {
	buttons tcell.ButtonMask
	lines   float32
}

// events converts one mouse report into editor events, with coordinates
// relative to the cell at (x0, y0).
func (p *pointer) events(ev *tcell.EventMouse, x0, y0 int, now time.Time) []input.MouseEvent {
	x, y := ev.Position()
	base := input.MouseEvent{
		X:    float32(x - x0),
		Y:    float32(y - y0),
		Mods: modifiers(ev.Modifiers()),
		When: now,
	}
	btn := ev.Buttons()
	var out []input.MouseEvent
	wheel := func(dx, dy float32) {
		e := base
		e.Kind, e.DeltaX, e.DeltaY, e.Unit = input.MouseWheel, dx*p.lines, dy*p.lines, input.DeltaLines
		out = append(out, e)
	}
	switch {
	case btn&tcell.WheelUp != 0:
		wheel(0, -1)
	case btn&tcell.WheelDown != 0:
		wheel(0, 1)
	case btn&tcell.WheelLeft != 0:
		wheel(-1, 0)
	case btn&tcell.WheelRight != 0:
		wheel(1, 0)
	}

	held := btn & tcell.Button1
	e := base
	e.Button = input.ButtonLeft
	switch {
	case held != 0 && p.buttons&tcell.Button1 == 0:
		e.Kind = input.MousePress
		out = append(out, e)
	case held == 0 && p.buttons&tcell.Button1 != 0:
		e.Kind = input.MouseRelease
		out = append(out, e)
	case held != 0:
		e.Kind = input.MouseMove
		out = append(out, e)
	}
	p.buttons = held
	return out
}
