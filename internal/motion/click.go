package motion

import (
	"time"

	"github.com/kobzarvs/qpad/internal/text"
)

// DefaultClickInterval is the longest gap between clicks of one sequence.
const DefaultClickInterval = 500 * time.Millisecond

// ClickKind is the position of a click inside a multi-click sequence.
type ClickKind uint8

const (
	ClickSingle ClickKind = iota + 1
	ClickDouble
	ClickTriple
)

func (k ClickKind) String() string {
	switch k {
	case ClickSingle:
		return "single"
	case ClickDouble:
		return "double"
	case ClickTriple:
		return "triple"
	default:
		return "unknown"
	}
}

// ClickTracker classifies clicks into single, double and triple. A rapid
// click after a triple starts over at single.
type ClickTracker struct {
	interval time.Duration

	last     ClickKind
	lastPos  text.Cursor
	lastTime time.Time
}

func NewClickTracker(interval time.Duration) *ClickTracker {
	if interval <= 0 {
		interval = DefaultClickInterval
	}
	return &ClickTracker{interval: interval}
}

// Record registers a click at the resolved text position and returns its kind.
func (t *ClickTracker) Record(pos text.Cursor, at time.Time) ClickKind {
	if at.IsZero() {
		at = time.Now()
	}
	if t.continues(pos, at) {
		switch t.last {
		case ClickSingle:
			t.last = ClickDouble
		case ClickDouble:
			t.last = ClickTriple
		default:
			t.last = ClickSingle
		}
	} else {
		t.last = ClickSingle
	}
	t.lastPos = pos
	t.lastTime = at
	return t.last
}

func (t *ClickTracker) continues(pos text.Cursor, at time.Time) bool {
	if t.last == 0 || t.lastTime.IsZero() {
		return false
	}
	elapsed := at.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.interval {
		return false
	}
	return pos == t.lastPos
}

func (t *ClickTracker) Last() ClickKind {
	return t.last
}

func (t *ClickTracker) Reset() {
	*t = ClickTracker{interval: t.interval}
}
