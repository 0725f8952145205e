// Package workspace keeps the open documents and which one is active.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/kobzarvs/qpad/internal/editor"
	"github.com/kobzarvs/qpad/internal/logger"
	"github.com/kobzarvs/qpad/internal/text"
)

// Workspace is an ordered list of editors ("tabs") with at most one active.
type Workspace struct {
	fs     text.FileSystem
	newTab func() *editor.Editor
	tabs   []*editor.Editor
	active int
}

// New returns an empty workspace. newTab builds the editor for every
// inserted document.
func New(fsys text.FileSystem, newTab func() *editor.Editor) *Workspace {
	if fsys == nil {
		fsys = text.OSFileSystem{}
	}
	return &Workspace{fs: fsys, newTab: newTab, active: -1}
}

// Insert appends a tab and returns its index. An empty path creates an
// untitled document; a path that does not exist yet creates an empty
// document that will be saved there. Insert does not activate the tab.
func (w *Workspace) Insert(path string) (int, error) {
	ed := w.newTab()
	if path != "" {
		canon, err := w.fs.Canonicalize(path)
		if err != nil {
			return -1, fmt.Errorf("open %s: %w", path, err)
		}
		if err := ed.Open(canon); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return -1, err
			}
			logger.Info("new file", "path", canon)
			ed.SetPath(canon)
		}
	}
	w.tabs = append(w.tabs, ed)
	return len(w.tabs) - 1, nil
}

// Remove closes tab i. When the active tab is at or after i the selection
// moves one tab to the left, staying on the first tab while any remain.
func (w *Workspace) Remove(i int) {
	if i < 0 || i >= len(w.tabs) {
		return
	}
	w.tabs = append(w.tabs[:i], w.tabs[i+1:]...)
	if w.active < i {
		return
	}
	switch {
	case w.active > 0:
		w.active--
	case len(w.tabs) > 0:
		w.active = 0
	default:
		w.active = -1
	}
}

// Activate selects tab i; out-of-range indices are ignored.
func (w *Workspace) Activate(i int) {
	if i >= 0 && i < len(w.tabs) {
		w.active = i
	}
}

// Active returns the index of the active tab.
func (w *Workspace) Active() (int, bool) {
	return w.active, w.active >= 0
}

// ActiveEditor returns the active tab's editor, or nil.
func (w *Workspace) ActiveEditor() *editor.Editor {
	if w.active < 0 {
		return nil
	}
	return w.tabs[w.active]
}

func (w *Workspace) Tab(i int) (*editor.Editor, bool) {
	if i < 0 || i >= len(w.tabs) {
		return nil, false
	}
	return w.tabs[i], true
}

func (w *Workspace) Len() int {
	return len(w.tabs)
}

// Position finds the tab holding path.
func (w *Workspace) Position(path string) (int, bool) {
	canon, err := w.fs.Canonicalize(path)
	if err != nil {
		return -1, false
	}
	for i, ed := range w.tabs {
		if p := ed.Path(); p != "" && p == canon {
			return i, true
		}
	}
	return -1, false
}

// Names lists the tab labels in order.
func (w *Workspace) Names() []string {
	out := make([]string, len(w.tabs))
	for i, ed := range w.tabs {
		out[i] = ed.Name()
	}
	return out
}
