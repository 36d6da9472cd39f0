// Package bundle loads the catalog, snippets, previews and content pages
// into one immutable snapshot and swaps snapshots atomically on reload.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/gnana997/reactatoms/pkg/catalog"
	"github.com/gnana997/reactatoms/pkg/content"
	"github.com/gnana997/reactatoms/pkg/docs"
	"github.com/gnana997/reactatoms/pkg/extractor"
	"github.com/gnana997/reactatoms/pkg/metrics"
	"github.com/gnana997/reactatoms/pkg/parser"
	"github.com/gnana997/reactatoms/pkg/parser/queries"
	"github.com/gnana997/reactatoms/pkg/preview"
	"github.com/gnana997/reactatoms/pkg/snippets"
)

// CatalogFile is the registry document at the bundle root.
const CatalogFile = "catalog.json"

// Bundle is a loaded snapshot. Nothing in it is mutated after Load.
type Bundle struct {
	Name     string
	LoadedAt time.Time
	FS       fs.FS

	Catalog  *catalog.QueryService
	Snippets *snippets.Store
	Previews *preview.Resolver
	Content  *content.Pages
	Docs     *docs.Composer

	// Analyzed is set when snippets went through an Analyzer, so a nil
	// Snippet.Analysis means the source could not be parsed.
	Analyzed bool
}

// Version is the catalog version.
func (b *Bundle) Version() string {
	return b.Catalog.Catalog.Version
}

// Options configures Load.
type Options struct {
	// Analyzer parses snippet code. Without one snippets carry no
	// dependency or export information.
	Analyzer snippets.Analyzer
	Workers  int
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// Load builds a bundle from fsys. Catalog, snippet and content errors
// are collected and returned together.
func Load(ctx context.Context, name string, fsys fs.FS, opts Options) (*Bundle, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	var errs []error

	var q *catalog.QueryService
	data, err := fs.ReadFile(fsys, CatalogFile)
	if err != nil {
		errs = append(errs, fmt.Errorf("read %s: %w", CatalogFile, err))
	} else if q, err = catalog.LoadAndQueryBytes(data); err != nil {
		errs = append(errs, err)
	}

	store, err := snippets.Load(ctx, fsys, snippets.LoadOptions{
		Analyzer: opts.Analyzer,
		Workers:  opts.Workers,
		Logger:   logger,
	})
	if err != nil {
		errs = append(errs, err)
	}

	pages, err := content.Load(fsys)
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("load bundle %s: %w", name, errors.Join(errs...))
	}

	resolver := preview.NewResolver(fsys, logger, preview.WithMetrics(opts.Metrics))
	b := &Bundle{
		Name:     name,
		LoadedAt: time.Now(),
		FS:       fsys,
		Catalog:  q,
		Snippets: store,
		Previews: resolver,
		Content:  pages,
		Docs:     docs.NewComposer(q, store, resolver),
		Analyzed: opts.Analyzer != nil,
	}

	logger.Info("bundle loaded",
		"source", name,
		"version", b.Version(),
		"components", len(q.Catalog.Components),
		"categories", len(q.Catalog.Categories),
		"snippets", store.Len(),
		"duration_ms", time.Since(start).Milliseconds())
	return b, nil
}

// Analysis owns the tree-sitter parser and query managers behind an
// extractor. Close it after the last Load that uses it.
type Analysis struct {
	*extractor.Extractor
	parsers *parser.ParserManager
	queries *queries.QueryManager
}

// NewAnalysis creates the snippet analyzer used by Load.
func NewAnalysis(logger *slog.Logger) *Analysis {
	pm := parser.NewParserManager(logger)
	qm := queries.NewQueryManager(logger)
	return &Analysis{
		Extractor: extractor.NewExtractor(pm, qm, logger),
		parsers:   pm,
		queries:   qm,
	}
}

// Close releases parsers and compiled queries.
func (a *Analysis) Close() error {
	return errors.Join(a.queries.Close(), a.parsers.Close())
}
