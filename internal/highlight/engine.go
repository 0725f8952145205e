package highlight

import (
	"context"
	"fmt"
	"math"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/kobzarvs/qpad/internal/config"
	"github.com/kobzarvs/qpad/internal/logger"
)

// Engine owns the tree-sitter parsers and compiled queries shared by every
// open document. Languages without a grammar fall back to chroma lexers.
type Engine struct {
	langs   config.Languages
	mu      sync.Mutex
	parsers map[string]*sitter.Parser
	queries map[string]*sitter.Query
}

func New(langs config.Languages) *Engine {
	return &Engine{
		langs:   langs,
		parsers: make(map[string]*sitter.Parser),
		queries: make(map[string]*sitter.Query),
	}
}

// Start compiles the highlight queries. A query that fails to compile
// disables tree-sitter for its language only.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var firstErr error
	for name, src := range highlightQueries {
		lang := grammar(name)
		q, err := sitter.NewQuery([]byte(src), lang)
		if err != nil {
			logger.Warn("highlight query failed", "language", name, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("compile %s query: %w", name, err)
			}
			continue
		}
		p := sitter.NewParser()
		p.SetLanguage(lang)
		e.parsers[name] = p
		e.queries[name] = q
	}
	return firstErr
}

func grammar(name string) *sitter.Language {
	switch name {
	case "go":
		return golang.GetLanguage()
	case "yaml":
		return yaml.GetLanguage()
	case "toml":
		return toml.GetLanguage()
	case "bash":
		return bash.GetLanguage()
	}
	return nil
}

// Language is the configured language name for path, or "".
func (e *Engine) Language(path string) string {
	if lang := e.langs.Match(path); lang != nil {
		return lang.Name
	}
	return ""
}

func (e *Engine) hasGrammar(lang string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queries[lang] != nil
}

func (e *Engine) parse(lang string, src []byte) *sitter.Tree {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.parsers[lang]
	if p == nil {
		return nil
	}
	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		logger.Debug("parse failed", "language", lang, "error", err)
		return nil
	}
	return tree
}

// parseEdit applies edits to prev and reparses src reusing the unchanged
// parts of the tree.
func (e *Engine) parseEdit(lang string, prev *sitter.Tree, edits []sitter.EditInput, src []byte) *sitter.Tree {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.parsers[lang]
	if p == nil {
		return nil
	}
	for _, in := range edits {
		prev.Edit(in)
	}
	tree, err := p.ParseCtx(context.Background(), prev, src)
	if err != nil {
		logger.Debug("incremental parse failed", "language", lang, "error", err)
		return nil
	}
	return tree
}

func (e *Engine) query(lang string) *sitter.Query {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queries[lang]
}

func queryHighlights(query *sitter.Query, tree *sitter.Tree, source []byte, startLine, endLine int) map[int][]Span {
	if query == nil || tree == nil {
		return nil
	}
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(query, tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := query.CaptureNameForId(capture.Index)
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			for row := int(start.Row); row <= int(end.Row); row++ {
				if row < startLine || row > endLine {
					continue
				}
				s := Span{Start: 0, End: math.MaxInt32, Kind: kind}
				if row == int(start.Row) {
					s.Start = int(start.Column)
				}
				if row == int(end.Row) {
					s.End = int(end.Column)
				}
				if s.End > s.Start {
					out[row] = append(out[row], s)
				}
			}
		}
	}
	return out
}
