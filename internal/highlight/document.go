package highlight

import (
	"bytes"
	"math"

	"github.com/alecthomas/chroma/v2"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kobzarvs/qpad/internal/logger"
	"github.com/kobzarvs/qpad/internal/text"
)

// maxPending bounds the edits queued between refreshes; past it the next
// refresh parses from scratch.
const maxPending = 512

// pendingEdit is one buffer mutation not yet folded into the tree. input is
// nil for mutations that leave the parsed source alone.
type pendingEdit struct {
	input   *sitter.EditInput
	version uint64
}

// Document highlights one buffer. Rows and columns of its spans are buffer
// line indices and byte offsets.
type Document struct {
	engine *Engine
	path   string
	lang   string
	lexer  chroma.Lexer

	buf     *text.Buffer
	cancel  func()
	pending []pendingEdit

	tree   *sitter.Tree
	source []byte

	// lexed holds chroma spans for rows below lexedRows, which is
	// math.MaxInt once the whole buffer is lexed.
	lexed     map[int][]Span
	lexedRows int

	version uint64
	synced  bool
	gen     uint64

	// Parse counters, by kind.
	fullParses        int
	incrementalParses int
}

// Open returns a highlighter for the document at path. An empty path or an
// unknown file type yields a document without highlights.
func (e *Engine) Open(path string) *Document {
	d := &Document{engine: e, path: path}
	if path == "" {
		return d
	}
	if lang := e.Language(path); lang != "" && e.hasGrammar(lang) {
		d.lang = lang
		return d
	}
	d.lexer = lexerFor(path)
	return d
}

func (d *Document) Path() string {
	return d.path
}

// Active reports whether the document has a grammar or lexer.
func (d *Document) Active() bool {
	return d.lang != "" || d.lexer != nil
}

// Close stops following the buffer. The document can be refreshed again
// afterwards and then reparses from scratch.
func (d *Document) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	d.buf, d.cancel, d.pending = nil, nil, nil
	d.synced = false
}

// attach starts recording the edits of b so the next refresh can reuse the
// previous tree.
func (d *Document) attach(b *text.Buffer) {
	if d.buf == b {
		return
	}
	d.Close()
	d.buf = b
	d.cancel = b.Observe(d.record)
}

func (d *Document) record(e text.Edit) {
	if len(d.pending) >= maxPending {
		d.pending = nil
		d.synced = false
		return
	}
	p := pendingEdit{version: d.buf.Version()}
	if in, ok := inputEdit(d.buf, e); ok {
		p.input = &in
	}
	d.pending = append(d.pending, p)
	if e.Kind != text.EditEnding {
		d.lexedRows = min(d.lexedRows, e.At.Line)
	}
}

// incremental reports whether the queued edits account for every version
// since the last refresh.
func (d *Document) incremental(b *text.Buffer) bool {
	if !d.synced || b.Version()-d.version != uint64(len(d.pending)) {
		return false
	}
	return len(d.pending) == 0 || d.pending[len(d.pending)-1].version == b.Version()
}

// Refresh catches up with b if it changed since the last call and returns
// the generation of the current spans. Tree-sitter documents reparse
// incrementally from the recorded edits when they cover every change.
func (d *Document) Refresh(b *text.Buffer) uint64 {
	if !d.Active() {
		return d.gen
	}
	d.attach(b)
	if d.synced && d.version == b.Version() {
		return d.gen
	}
	reuse := d.incremental(b)
	edits := d.pending
	d.pending = nil
	d.version = b.Version()
	d.synced = true
	d.gen++

	if d.lang == "" {
		if !reuse {
			d.lexedRows = 0
		}
		return d.gen
	}
	src := source(b)
	if reuse && d.tree != nil {
		inputs := make([]sitter.EditInput, 0, len(edits))
		for _, e := range edits {
			if e.input != nil {
				inputs = append(inputs, *e.input)
			}
		}
		d.tree = d.engine.parseEdit(d.lang, d.tree, inputs, src)
		d.incrementalParses++
	} else {
		d.tree = d.engine.parse(d.lang, src)
		d.fullParses++
	}
	d.source = src
	return d.gen
}

// source joins the lines with plain newlines so tree-sitter rows match
// buffer lines whatever their terminators.
func source(b *text.Buffer) []byte {
	var buf bytes.Buffer
	for i, l := range b.Lines() {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(l.Text)
	}
	return buf.Bytes()
}

// offset is the byte offset of c in source(b).
func offset(b *text.Buffer, c text.Cursor) uint32 {
	n := c.Col
	for i := 0; i < c.Line; i++ {
		n += len(b.LineText(i)) + 1
	}
	return uint32(n)
}

// sourceLen is the length s takes in source form, where every line break
// is a single '\n'.
func sourceLen(s string) uint32 {
	var n uint32
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			continue
		}
		n++
	}
	return n
}

func point(c text.Cursor) sitter.Point {
	return sitter.Point{Row: uint32(c.Line), Column: uint32(c.Col)}
}

// inputEdit describes e, already applied to b, as a tree-sitter edit. Lines
// above e.At are untouched by every mutation, so offsets are taken from b.
func inputEdit(b *text.Buffer, e text.Edit) (sitter.EditInput, bool) {
	start := offset(b, e.At)
	in := sitter.EditInput{
		StartIndex:  start,
		OldEndIndex: start,
		NewEndIndex: start,
		StartPoint:  point(e.At),
		OldEndPoint: point(e.At),
		NewEndPoint: point(e.At),
	}
	switch e.Kind {
	case text.EditInsert:
		in.NewEndIndex = start + sourceLen(e.Text)
		in.NewEndPoint = point(e.End)
	case text.EditDelete:
		in.OldEndIndex = start + sourceLen(e.Text)
		in.OldEndPoint = point(e.End)
	case text.EditJoin:
		in.OldEndIndex = start + 1
		in.OldEndPoint = sitter.Point{Row: uint32(e.At.Line + 1)}
	case text.EditSplit:
		in.NewEndIndex = start + 1
		in.NewEndPoint = sitter.Point{Row: uint32(e.At.Line + 1)}
	default:
		return sitter.EditInput{}, false
	}
	return in, true
}

// Highlights returns the spans for lines start..end inclusive. Chroma
// documents lex only the prefix of the buffer the request needs.
func (d *Document) Highlights(start, end int) map[int][]Span {
	if start < 0 || end < start {
		return nil
	}
	if d.lang != "" {
		return queryHighlights(d.engine.query(d.lang), d.tree, d.source, start, end)
	}
	if d.lexer == nil || d.buf == nil {
		return nil
	}
	if end >= d.lexedRows {
		d.lexPrefix(end)
	}
	out := make(map[int][]Span, end-start+1)
	for row := start; row <= min(end, d.lexedRows-1); row++ {
		if spans, ok := d.lexed[row]; ok {
			out[row] = spans
		}
	}
	return out
}

// lexPrefix tokenises the buffer through one line past end. The extra
// line is lexed but not kept, since its tokens may run on past the cut.
func (d *Document) lexPrefix(end int) {
	n := min(d.buf.LineCount(), end+2)
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(d.buf.LineText(i))
	}
	lexed, err := lex(d.lexer, buf.String())
	if err != nil {
		logger.Debug("tokenise failed", "path", d.path, "error", err)
		d.lexed, d.lexedRows = nil, 0
		return
	}
	d.lexed = lexed
	d.lexedRows = n - 1
	if n == d.buf.LineCount() {
		d.lexedRows = math.MaxInt
	}
}
