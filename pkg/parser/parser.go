// Package parser wraps tree-sitter for the TSX, TypeScript and JavaScript
// snippets shipped in the content bundle.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ParserManager hands out pooled tree-sitter parsers per dialect.
//
// Pools are created on first use. The manager owns the pools and must be
// closed; callers own the returned trees and must Close them.
//
// Example:
//
//	pm := parser.NewParserManager(logger)
//	defer pm.Close()
//
//	tree, err := pm.ParseFile(src, "code.tsx")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	pools    map[Dialect]*parserPool
	poolSize int
	mutex    sync.RWMutex
	logger   *slog.Logger

	parses int
}

// NewParserManager creates a manager whose pools hold up to
// util.GetOptimalPoolSize() parsers each.
func NewParserManager(logger *slog.Logger) *ParserManager {
	return NewParserManagerWithSize(logger, 0)
}

// NewParserManagerWithSize is NewParserManager with an explicit pool size.
// A size of 0 or less selects the default.
func NewParserManagerWithSize(logger *slog.Logger, size int) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:    make(map[Dialect]*parserPool),
		poolSize: poolSize(size),
		logger:   logger,
	}
}

// Parse parses source with the grammar for d. Trees with syntax errors are
// still returned; callers can check RootNode().HasError().
func (pm *ParserManager) Parse(source []byte, d Dialect) (*ts.Tree, error) {
	if d.Lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	pm.mutex.Lock()
	pm.parses++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(d)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", d, err)
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := p.Parse(source, nil)
	pool.release(p)

	if tree == nil {
		return nil, fmt.Errorf("parser returned nil tree for %s", d)
	}
	if tree.RootNode().HasError() {
		pm.logger.Debug("parse tree contains errors", "dialect", d.String())
	}
	return tree, nil
}

// ParseFile detects the dialect from fileName and parses source.
func (pm *ParserManager) ParseFile(source []byte, fileName string) (*ts.Tree, error) {
	d := DetectDialect(fileName)
	if d.Lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", fileName)
	}
	return pm.Parse(source, d)
}

// Close releases every pooled parser. The manager is unusable afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	for d, pool := range pm.pools {
		pool.close()
		delete(pm.pools, d)
	}
	pm.logger.Debug("parser manager closed", "parses", pm.parses)
	return nil
}

func (pm *ParserManager) getOrCreatePool(d Dialect) (*parserPool, error) {
	pm.mutex.RLock()
	pool, ok := pm.pools[d]
	pm.mutex.RUnlock()
	if ok {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	if pool, ok = pm.pools[d]; ok {
		return pool, nil
	}

	langPtr, err := LanguagePointer(d)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(d, langPtr, pm.poolSize, pm.logger)
	pm.pools[d] = pool
	pm.logger.Debug("created parser pool", "dialect", d.String(), "max_size", pm.poolSize)
	return pool, nil
}

// LanguagePointer returns the tree-sitter grammar for d. Queries must be
// compiled against the same grammar the tree was parsed with.
func LanguagePointer(d Dialect) (unsafe.Pointer, error) {
	switch d.Lang {
	case LanguageTypeScript:
		if d.IsTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", d.Lang)
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	created := 0
	for _, pool := range pm.pools {
		created += pool.createdCount()
	}
	return ParserStats{ParsersCreated: created, ParsesCalled: pm.parses}
}
