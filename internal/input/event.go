package input

import (
	"runtime"
	"time"
)

// Modifiers is the set of modifier keys held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

func (m Modifiers) Has(o Modifiers) bool {
	return m&o != 0
}

// Platform selects which physical modifier plays the primary and jump roles.
type Platform uint8

const (
	PlatformOther Platform = iota
	PlatformMac
)

// CurrentPlatform is the platform the binary was built for.
func CurrentPlatform() Platform {
	if runtime.GOOS == "darwin" {
		return PlatformMac
	}
	return PlatformOther
}

// Primary is the command modifier: Meta on macOS, Ctrl elsewhere.
func (p Platform) Primary() Modifiers {
	if p == PlatformMac {
		return ModMeta
	}
	return ModCtrl
}

// Jump turns character motions into word motions: Alt on macOS, Ctrl
// elsewhere.
func (p Platform) Jump() Modifiers {
	if p == PlatformMac {
		return ModAlt
	}
	return ModCtrl
}

// Key identifies a non-text key. Printable keys use KeyRune.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

var keyNames = map[Key]string{
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBacktab:   "backtab",
	KeyBackspace: "backspace",
	KeyDelete:    "del",
	KeyEscape:    "esc",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdn",
}

func (k Key) String() string {
	if k == KeyRune {
		return "rune"
	}
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "none"
}

// KeyEvent is a key press. Rune is the unmodified character of a KeyRune
// press; Text is what the host resolved the press to, if anything.
type KeyEvent struct {
	Key  Key
	Rune rune
	Text string
	Mods Modifiers
}

type MouseKind uint8

const (
	MousePress MouseKind = iota
	MouseRelease
	MouseMove
	MouseWheel
)

type MouseButton uint8

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// DeltaUnit tells whether wheel deltas count lines or pixels.
type DeltaUnit uint8

const (
	DeltaLines DeltaUnit = iota
	DeltaPixels
)

// MouseEvent carries a pointer position in viewport pixels.
type MouseEvent struct {
	Kind   MouseKind
	Button MouseButton
	X, Y   float32
	DeltaX float32
	DeltaY float32
	Unit   DeltaUnit
	Mods   Modifiers
	When   time.Time
}

type FocusEvent struct {
	Focused bool
}
