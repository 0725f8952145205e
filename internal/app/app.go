package app

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/qpad/internal/clipboard"
	"github.com/kobzarvs/qpad/internal/config"
	"github.com/kobzarvs/qpad/internal/editor"
	"github.com/kobzarvs/qpad/internal/gitinfo"
	"github.com/kobzarvs/qpad/internal/highlight"
	"github.com/kobzarvs/qpad/internal/input"
	"github.com/kobzarvs/qpad/internal/logger"
	"github.com/kobzarvs/qpad/internal/render/cells"
	"github.com/kobzarvs/qpad/internal/workspace"
)

const (
	autoScrollInterval = 50 * time.Millisecond
	branchMaxAge       = 2 * time.Second
)

// App is the top-level runtime for qpad.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	runtime.LockOSThread()
	if err := logger.Init(false); err != nil {
		fmt.Fprintln(os.Stderr, "qpad: log:", err)
	}
	defer logger.Close()

	paths, snapshot, err := parseArgs(a.args)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}
	engine := highlight.New(langs)
	if err := engine.Start(); err != nil {
		logger.Warn("highlight queries", "error", err)
	}
	theme := loadTheme(cfg.Theme)

	if snapshot != "" {
		return writeSnapshot(snapshot, paths, cfg, engine, theme)
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	s.EnableFocus()
	defer s.Fini()

	h := newHost(s, cfg, editor.Deps{
		Clipboard: clipboard.NewSystem(),
		Highlight: engine,
		Theme:     theme,
	})
	for _, p := range paths {
		h.open(p)
	}
	if h.ws.Len() == 0 {
		h.newTab()
	}
	h.activate(0)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(autoScrollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if h.scrolling.Load() {
					_ = s.PostEvent(tcell.NewEventInterrupt(nil))
				}
			}
		}
	}()

	h.draw()
	for !h.quit {
		h.handle(s.PollEvent())
		h.draw()
	}
	return nil
}

func parseArgs(args []string) (paths []string, snapshot string, err error) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--snapshot":
			if i+1 >= len(args) {
				return nil, "", errors.New("--snapshot needs an output file")
			}
			i++
			snapshot = args[i]
		default:
			paths = append(paths, args[i])
		}
	}
	return paths, snapshot, nil
}

// loadTheme resolves the configured theme. Problems are logged and the
// defaults kept.
func loadTheme(t config.Theme) highlight.Theme {
	theme, err := highlight.LoadTheme(t.Name)
	if err != nil {
		logger.Warn("theme", "name", t.Name, "error", err)
	}
	if err := theme.Apply(t.Colors); err != nil {
		logger.Warn("theme colors", "error", err)
	}
	return theme
}

// prompt reads a line of text on the status row.
type prompt struct {
	label string
	text  []rune
	done  func(string)
}

type tabExtent struct {
	from, to int
}

// host owns the terminal screen and the workspace shown on it. Row 0 is
// the tab bar, the last row the status line, the rest the active editor.
type host struct {
	s    tcell.Screen
	cfg  config.Config
	deps editor.Deps
	ras  *cells.Screen
	ws   *workspace.Workspace
	git  *gitinfo.Tracker
	keys map[input.Chord]string

	ptr       pointer
	tabs      []tabExtent
	status    string
	prompt    *prompt
	scrolling atomic.Bool
	quit      bool
}

func newHost(s tcell.Screen, cfg config.Config, deps editor.Deps) *host {
	h := &host{
		s:    s,
		cfg:  cfg,
		deps: deps,
		ras:  cells.New(s),
		git:  gitinfo.NewTracker(branchMaxAge),
		keys: make(map[input.Chord]string, len(cfg.Keymap.App)),
		ptr:  pointer{lines: float32(max(1, cfg.Editor.ScrollLines))},
	}
	h.ras.SetOrigin(0, 1)
	h.deps.Rasterizer = h.ras
	h.ws = workspace.New(deps.FileSystem, h.build)
	for chord, name := range cfg.Keymap.App {
		c, err := input.ParseChord(chord)
		if err != nil {
			logger.Warn("app keymap", "error", err)
			continue
		}
		h.keys[c] = name
	}
	return h
}

func (h *host) build() *editor.Editor {
	ed := editor.New(h.cfg, h.deps)
	ed.SetMetrics(cells.Metrics.FontSize, cells.Metrics.LineHeight)
	w, ht := h.editorSize()
	ed.Resize(float32(w), float32(ht))
	return ed
}

func (h *host) editorSize() (int, int) {
	w, ht := h.s.Size()
	return w, max(0, ht-2)
}

func (h *host) fail(err error) {
	logger.Error("io", "error", err)
	h.status = err.Error()
}

func (h *host) open(path string) {
	if i, ok := h.ws.Position(path); ok {
		h.activate(i)
		return
	}
	i, err := h.ws.Insert(path)
	if err != nil {
		h.fail(err)
		return
	}
	h.activate(i)
}

func (h *host) newTab() {
	i, err := h.ws.Insert("")
	if err != nil {
		h.fail(err)
		return
	}
	h.activate(i)
}

func (h *host) activate(i int) {
	prev := h.ws.ActiveEditor()
	h.ws.Activate(i)
	ed := h.ws.ActiveEditor()
	if ed == nil {
		return
	}
	if prev != nil && prev != ed {
		prev.HandleFocus(input.FocusEvent{Focused: false})
	}
	ed.HandleFocus(input.FocusEvent{Focused: true})
	ed.Invalidate()
}

func (h *host) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		h.handleKey(ev)
	case *tcell.EventMouse:
		h.handleMouse(ev)
	case *tcell.EventResize:
		h.s.Sync()
		w, ht := h.editorSize()
		for i := range h.ws.Len() {
			ed, _ := h.ws.Tab(i)
			ed.Resize(float32(w), float32(ht))
		}
		if ed := h.ws.ActiveEditor(); ed != nil {
			ed.Invalidate()
		}
	case *tcell.EventFocus:
		if ed := h.ws.ActiveEditor(); ed != nil {
			ed.HandleFocus(input.FocusEvent{Focused: ev.Focused})
		}
	case *tcell.EventInterrupt:
		if ed := h.ws.ActiveEditor(); ed != nil {
			ed.AutoScrollTick()
			h.scrolling.Store(ed.AutoScrolling().Active)
		}
	}
}

func (h *host) handleKey(ev *tcell.EventKey) {
	if h.prompt != nil {
		h.promptKey(ev)
		return
	}
	k, ok := keyEvent(ev)
	if !ok {
		return
	}
	if name, ok := h.keys[input.ChordOf(k)]; ok {
		h.command(name)
		return
	}
	ed := h.ws.ActiveEditor()
	if ed == nil {
		return
	}
	h.status = ""
	if !ed.Focused() {
		ed.HandleFocus(input.FocusEvent{Focused: true})
	}
	ed.HandleKey(k)
}

// command runs an application keymap action.
func (h *host) command(name string) {
	h.status = ""
	switch name {
	case "quit":
		h.quit = true
	case "new_tab":
		h.newTab()
	case "close_tab":
		if i, ok := h.ws.Active(); ok {
			h.ws.Remove(i)
		}
		if h.ws.Len() == 0 {
			h.newTab()
		} else if i, ok := h.ws.Active(); ok {
			h.activate(i)
		}
	case "save":
		h.save()
	case "open":
		h.prompt = &prompt{label: "open: ", done: h.open}
	default:
		if n, ok := strings.CutPrefix(name, "tab_"); ok {
			if i, err := strconv.Atoi(n); err == nil {
				h.activate(i - 1)
				return
			}
		}
		logger.Warn("unknown app action", "action", name)
	}
}

func (h *host) save() {
	ed := h.ws.ActiveEditor()
	if ed == nil {
		return
	}
	err := ed.Save()
	switch {
	case errors.Is(err, editor.ErrNoPath):
		h.prompt = &prompt{label: "save as: ", done: func(path string) {
			if err := ed.SaveAs(path); err != nil {
				h.fail(err)
				return
			}
			h.status = "saved " + ed.Name()
		}}
	case err != nil:
		h.fail(err)
	default:
		h.status = "saved " + ed.Name()
	}
}

func (h *host) promptKey(ev *tcell.EventKey) {
	p := h.prompt
	switch ev.Key() {
	case tcell.KeyEscape:
		h.closePrompt()
	case tcell.KeyEnter:
		h.closePrompt()
		if s := strings.TrimSpace(string(p.text)); s != "" {
			p.done(s)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(p.text); n > 0 {
			p.text = p.text[:n-1]
		}
	case tcell.KeyRune:
		p.text = append(p.text, ev.Rune())
	}
}

func (h *host) closePrompt() {
	h.prompt = nil
	if ed := h.ws.ActiveEditor(); ed != nil {
		ed.Invalidate()
	}
}

func (h *host) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	if y == 0 && ev.Buttons()&tcell.Button1 != 0 && h.ptr.buttons == 0 {
		h.ptr.buttons = tcell.Button1
		for i, t := range h.tabs {
			if x >= t.from && x < t.to {
				h.activate(i)
				break
			}
		}
		return
	}
	ed := h.ws.ActiveEditor()
	if ed == nil {
		return
	}
	for _, me := range h.ptr.events(ev, 0, 1, time.Now()) {
		as := ed.HandleMouse(me)
		h.scrolling.Store(as.Active)
	}
}

func (h *host) draw() {
	ed := h.ws.ActiveEditor()
	theme := h.deps.Theme
	w, ht := h.s.Size()
	h.drawTabs(w, theme)
	if ed != nil {
		ed.Draw()
	}
	h.drawStatus(w, ht-1, ed, theme)
	h.s.Show()
}

func (h *host) drawTabs(w int, theme highlight.Theme) {
	bar := style(theme.LineNumber, theme.Gutter)
	active := style(theme.Foreground, theme.Background).Bold(true)
	fill(h.s, 0, 0, w, bar)
	cur, _ := h.ws.Active()
	h.tabs = h.tabs[:0]
	x := 0
	for i := range h.ws.Len() {
		ed, _ := h.ws.Tab(i)
		label := " " + ed.Name()
		if ed.Modified() {
			label += " *"
		}
		label += " "
		st := bar
		if i == cur {
			st = active
		}
		end := puts(h.s, x, 0, w, label, st)
		h.tabs = append(h.tabs, tabExtent{from: x, to: end})
		x = end
	}
}

func (h *host) drawStatus(w, y int, ed *editor.Editor, theme highlight.Theme) {
	st := style(theme.Foreground, theme.CurrentLine)
	fill(h.s, 0, y, w, st)
	if h.prompt != nil {
		x := puts(h.s, 0, y, w, h.prompt.label+string(h.prompt.text), st)
		h.s.ShowCursor(x, y)
		return
	}
	if ed == nil {
		return
	}
	c, ending := ed.Cursor()
	left := " " + ed.Name()
	if ed.Modified() {
		left += " [+]"
	}
	right := fmt.Sprintf("Ln %d, Col %d  %s ", c.Line+1, c.Col+1, ending.Name())
	if lang := ed.Language(); lang != "" {
		right = lang + "  " + right
	}
	if b := h.git.Branch(ed.Path()); b != "" {
		right = b + "  " + right
	}
	if h.status != "" {
		left += "  " + h.status
	}
	puts(h.s, 0, y, w, left, st)
	if rw := runewidth.StringWidth(right); rw < w {
		puts(h.s, w-rw, y, w, right, st)
	}
}

func style(fg, bg color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(rgb(fg)).Background(rgb(bg))
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func fill(s tcell.Screen, x, y, w int, st tcell.Style) {
	for ; x < w; x++ {
		s.SetContent(x, y, ' ', nil, st)
	}
}

// puts writes str from column x, stopping before column limit, and returns
// the column after the last cell written.
func puts(s tcell.Screen, x, y, limit int, str string, st tcell.Style) int {
	for _, r := range str {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > limit {
			break
		}
		s.SetContent(x, y, r, nil, st)
		x += rw
	}
	return x
}
