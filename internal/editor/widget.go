// Package editor is the editing widget: it owns one document with its
// history and turns input events into edits, motions and redraws.
package editor

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/kobzarvs/qpad/internal/clipboard"
	"github.com/kobzarvs/qpad/internal/config"
	"github.com/kobzarvs/qpad/internal/highlight"
	"github.com/kobzarvs/qpad/internal/history"
	"github.com/kobzarvs/qpad/internal/input"
	"github.com/kobzarvs/qpad/internal/logger"
	"github.com/kobzarvs/qpad/internal/motion"
	"github.com/kobzarvs/qpad/internal/render"
	"github.com/kobzarvs/qpad/internal/text"
)

// UntitledName is shown for documents that were never saved.
const UntitledName = "New Tab"

// Documents above this size are not highlighted.
const maxHighlightBytes = 8 << 20

var ErrNoPath = errors.New("no file name")

// Deps are the collaborators an editor is built with. Only Rasterizer is
// required.
type Deps struct {
	Rasterizer render.Rasterizer
	FileSystem text.FileSystem
	Clipboard  clipboard.Clipboard
	Highlight  *highlight.Engine
	Theme      highlight.Theme
	Platform   input.Platform
}

// AutoScroll asks the host to call AutoScrollTick periodically while
// Active. Direction is -1 towards the top and 1 towards the bottom.
type AutoScroll struct {
	Active    bool
	Direction int
}

type Editor struct {
	mu sync.Mutex

	buf    *text.Buffer
	log    *history.Log
	tr     *input.Translator
	pipe   *render.Pipeline
	clicks *motion.ClickTracker
	clip   clipboard.Clipboard
	fs     text.FileSystem
	engine *highlight.Engine
	doc    *highlight.Document

	path       string
	savePoint  uint64
	motionOpts motion.Options
	tabWidth   int
	focused    bool

	dragging   bool
	dragX      float32
	dragY      float32
	autoScroll AutoScroll
}

func New(cfg config.Config, deps Deps) *Editor {
	if deps.FileSystem == nil {
		deps.FileSystem = text.OSFileSystem{}
	}
	if deps.Clipboard == nil {
		deps.Clipboard = &clipboard.Memory{}
	}
	tr, err := input.NewTranslator(deps.Platform, cfg.Keymap.Editor)
	if err != nil {
		logger.Warn("editor keymap", "error", err)
	}
	tabWidth := cfg.Editor.TabWidth
	if tabWidth < 1 {
		tabWidth = 1
	}

	b := text.NewBuffer()
	b.SetMetrics(cfg.Editor.FontSize, cfg.Editor.LineHeight)
	e := &Editor{
		buf:        b,
		log:        history.New(b, cfg.Editor.HistoryLimit),
		tr:         tr,
		clicks:     motion.NewClickTracker(time.Duration(cfg.Editor.ClickIntervalMS) * time.Millisecond),
		clip:       deps.Clipboard,
		fs:         deps.FileSystem,
		engine:     deps.Highlight,
		motionOpts: motion.Options{WordCrossesLines: cfg.Editor.WordMotionCrossesLines},
		tabWidth:   tabWidth,
	}
	e.pipe = render.New(b, deps.Rasterizer, nil, deps.Theme, render.Options{
		TabWidth:    tabWidth,
		LineNumbers: cfg.Editor.ShowLineNumbers(),
	})
	e.attachHighlighter()
	return e
}

func (e *Editor) attachHighlighter() {
	if e.engine == nil {
		return
	}
	if e.doc != nil {
		e.doc.Close()
		e.doc = nil
	}
	if size := len(e.buf.Serialize()); size > maxHighlightBytes {
		logger.Info("highlighting disabled", "path", e.path, "bytes", size)
		e.pipe.SetHighlighter(nil)
		return
	}
	e.doc = e.engine.Open(e.path)
	e.pipe.SetHighlighter(e.doc)
}

// Open replaces the document with the file at path and starts a fresh
// history. On error the current document is kept.
func (e *Editor) Open(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.buf.LoadText(e.fs, path); err != nil {
		return err
	}
	e.log.Clear()
	e.savePoint = e.log.Head()
	e.path = path
	e.attachHighlighter()
	logger.Info("opened", "path", path, "lines", e.buf.LineCount())
	return nil
}

// Save writes the document to its path.
func (e *Editor) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.save()
}

// SaveAs writes the document to path and keeps path as its name.
func (e *Editor) SaveAs(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.path
	e.path = path
	if err := e.save(); err != nil {
		e.path = prev
		return err
	}
	if prev != path {
		e.attachHighlighter()
	}
	return nil
}

func (e *Editor) save() error {
	if e.path == "" {
		return ErrNoPath
	}
	if err := e.fs.WriteFile(e.path, []byte(e.buf.Serialize())); err != nil {
		return fmt.Errorf("save %s: %w", e.path, err)
	}
	e.savePoint = e.log.Head()
	logger.Info("saved", "path", e.path)
	return nil
}

// Content is the document with its original line endings.
func (e *Editor) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Serialize()
}

// Modified reports whether the document differs from what was last
// loaded or saved.
func (e *Editor) Modified() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Head() != e.savePoint
}

func (e *Editor) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

// SetPath names a document that does not exist on disk yet.
func (e *Editor) SetPath(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.path = path
	e.attachHighlighter()
}

// Name is the label of the document: its file name, or UntitledName.
func (e *Editor) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.path == "" {
		return UntitledName
	}
	return filepath.Base(e.path)
}

// Cursor returns the caret and the document's dominant line ending, for
// status lines.
func (e *Editor) Cursor() (text.Cursor, text.LineEnding) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.buf.Cursor()
	return c, e.buf.DominantEnding()
}

// Language is the highlighter in use for the document, if any.
func (e *Editor) Language() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.engine == nil {
		return ""
	}
	return e.engine.Language(e.path)
}

func (e *Editor) Focused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused
}

func (e *Editor) HandleFocus(ev input.FocusEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setFocus(ev.Focused)
}

func (e *Editor) setFocus(focused bool) {
	e.focused = focused
	e.pipe.SetFocused(focused)
	if !focused {
		e.stopDrag()
	}
}

// Resize sets the viewport in layout units.
func (e *Editor) Resize(width, height float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pipe.Layout(width, height)
}

// SetMetrics changes the font size and line height.
func (e *Editor) SetMetrics(fontSize, lineHeight float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buf.SetMetrics(fontSize, lineHeight)
}

func (e *Editor) SetTheme(t highlight.Theme) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pipe.SetTheme(t)
}

// Draw repaints the rasterizer if the view changed and reports whether it
// did.
func (e *Editor) Draw() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pipe.Draw()
}

// Invalidate forces the next Draw, e.g. after the host cleared the screen.
func (e *Editor) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pipe.Invalidate()
}
