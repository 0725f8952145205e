// Package clipboard abstracts the system clipboard so the editor can be
// driven without a display.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"

	"github.com/kobzarvs/qpad/internal/logger"
)

// Clipboard stores a single text value.
type Clipboard interface {
	// Read returns the stored text; ok is false when nothing is available.
	Read() (s string, ok bool)
	Write(s string)
}

// System uses the OS clipboard. When no clipboard utility is available it
// keeps the text in process so copy and paste still work within qpad.
type System struct {
	fallback Memory
}

func NewSystem() *System {
	return &System{}
}

func (c *System) Read() (string, bool) {
	if clipboard.Unsupported {
		return c.fallback.Read()
	}
	s, err := clipboard.ReadAll()
	if err != nil {
		logger.Warn("clipboard read failed", "error", err)
		return c.fallback.Read()
	}
	return s, s != ""
}

func (c *System) Write(s string) {
	c.fallback.Write(s)
	if clipboard.Unsupported {
		return
	}
	if err := clipboard.WriteAll(s); err != nil {
		logger.Warn("clipboard write failed", "error", err)
	}
}

// Memory is an in-process clipboard.
type Memory struct {
	mu  sync.Mutex
	s   string
	set bool
}

func (m *Memory) Read() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, m.set
}

func (m *Memory) Write(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s, m.set = s, true
}
