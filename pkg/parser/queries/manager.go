// Package queries compiles and runs tree-sitter queries over snippet trees.
package queries

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/reactatoms/pkg/parser"
	"github.com/gnana997/reactatoms/pkg/parser/queries/imports"
)

// QueryManager compiles the module query once per dialect and caches it.
//
// Usage:
//
//	qm := queries.NewQueryManager(logger)
//	defer qm.Close()
//
//	q, err := qm.ModuleQuery(d)
//	if err != nil {
//	    return err
//	}
//	matches, err := qm.ExecuteQuery(tree, q, source)
type QueryManager struct {
	cache  map[parser.Dialect]*ts.Query
	mutex  sync.RWMutex
	logger *slog.Logger
}

// NewQueryManager creates a new query manager. Logger can be nil.
func NewQueryManager(logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryManager{
		cache:  make(map[parser.Dialect]*ts.Query),
		logger: logger,
	}
}

// ModuleQuery returns the compiled import/export query for d.
func (qm *QueryManager) ModuleQuery(d parser.Dialect) (*ts.Query, error) {
	qm.mutex.RLock()
	query, ok := qm.cache[d]
	qm.mutex.RUnlock()
	if ok {
		return query, nil
	}

	qm.mutex.Lock()
	defer qm.mutex.Unlock()
	if query, ok = qm.cache[d]; ok {
		return query, nil
	}

	langPtr, err := parser.LanguagePointer(d)
	if err != nil {
		return nil, fmt.Errorf("failed to get language pointer for %s: %w", d, err)
	}
	query, qerr := ts.NewQuery(ts.NewLanguage(langPtr), imports.ModuleQuery)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile module query for %s: %s", d, qerr.Message)
	}
	qm.cache[d] = query
	qm.logger.Debug("compiled query", "dialect", d.String())
	return query, nil
}

// ExecuteQuery runs query over tree and returns its matches with
// capture text resolved against source.
func (qm *QueryManager) ExecuteQuery(tree *ts.Tree, query *ts.Query, source []byte) ([]QueryMatch, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}
	if query == nil {
		return nil, fmt.Errorf("query is nil")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	names := query.CaptureNames()
	iter := cursor.Matches(query, tree.RootNode(), source)

	var matches []QueryMatch
	for match := iter.Next(); match != nil; match = iter.Next() {
		captures := make([]QueryCapture, 0, len(match.Captures))
		for _, c := range match.Captures {
			var name string
			if int(c.Index) < len(names) {
				name = names[c.Index]
			}
			category, field := parseCaptureName(name)
			node := c.Node
			captures = append(captures, QueryCapture{
				Name:     name,
				Category: category,
				Field:    field,
				Node:     &node,
				Text:     node.Utf8Text(source),
				Location: nodeLocation(&node),
			})
		}
		matches = append(matches, QueryMatch{
			PatternIndex: uint32(match.PatternIndex),
			Captures:     captures,
		})
	}
	return matches, nil
}

// Close releases all compiled queries.
func (qm *QueryManager) Close() error {
	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	for d, query := range qm.cache {
		query.Close()
		delete(qm.cache, d)
	}
	return nil
}

// QueryMatch is a single pattern match.
type QueryMatch struct {
	PatternIndex uint32
	Captures     []QueryCapture
}

// Capture returns the first capture named name, or nil.
func (m QueryMatch) Capture(name string) *QueryCapture {
	for i := range m.Captures {
		if m.Captures[i].Name == name {
			return &m.Captures[i]
		}
	}
	return nil
}

// QueryCapture is one captured node. A name such as "import.source"
// splits into Category "import" and Field "source".
type QueryCapture struct {
	Name     string
	Category string
	Field    string
	Node     *ts.Node
	Text     string
	Location Location
}

// Location is a 1-based line/column span plus 0-based byte offsets.
type Location struct {
	StartLine   uint32
	StartColumn uint32
	EndLine     uint32
	EndColumn   uint32
	StartByte   uint32
	EndByte     uint32
}

func parseCaptureName(name string) (category, field string) {
	if before, after, ok := strings.Cut(name, "."); ok {
		return before, after
	}
	return name, ""
}

func nodeLocation(node *ts.Node) Location {
	start := node.StartPosition()
	end := node.EndPosition()
	return Location{
		StartLine:   uint32(start.Row + 1),
		StartColumn: uint32(start.Column + 1),
		EndLine:     uint32(end.Row + 1),
		EndColumn:   uint32(end.Column + 1),
		StartByte:   uint32(node.StartByte()),
		EndByte:     uint32(node.EndByte()),
	}
}
