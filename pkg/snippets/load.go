package snippets

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/reactatoms/pkg/extractor"
	"github.com/gnana997/reactatoms/pkg/util"
)

// Root is the bundle directory holding one folder per slug.
const Root = "snippets"

// Pattern matches snippet files inside Root.
const Pattern = Root + "/*/{code,usage}.{tsx,ts,jsx,js}"

// Analyzer parses snippet source. *extractor.Extractor implements it.
type Analyzer interface {
	Extract(source []byte, fileName string) (*extractor.FileResult, error)
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Analyzer is optional; without it snippets carry no Analysis.
	Analyzer Analyzer
	// Workers bounds concurrent analysis. 0 selects util.GetOptimalPoolSize.
	Workers int
	Logger  *slog.Logger
}

// Load reads snippets/<slug>/code.* and usage.* from fsys. Analysis
// failures are logged and never fail the load.
func Load(ctx context.Context, fsys fs.FS, opts LoadOptions) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	matches, err := doublestar.Glob(fsys, Pattern)
	if err != nil {
		return nil, fmt.Errorf("glob snippets: %w", err)
	}

	entries := make(map[string]Snippet)
	for _, p := range matches {
		slug := path.Base(path.Dir(p))
		kind := strings.TrimSuffix(path.Base(p), path.Ext(p))

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read snippet %s: %w", p, err)
		}

		snip := entries[slug]
		switch kind {
		case "code":
			if snip.CodeFile != "" {
				return nil, fmt.Errorf("snippet %q: multiple code files (%s, %s)", slug, snip.CodeFile, p)
			}
			snip.Code, snip.CodeFile = string(data), p
		case "usage":
			if snip.UsageFile != "" {
				return nil, fmt.Errorf("snippet %q: multiple usage files (%s, %s)", slug, snip.UsageFile, p)
			}
			snip.Usage, snip.UsageFile = string(data), p
		}
		entries[slug] = snip
	}

	if opts.Analyzer != nil {
		if err := analyze(ctx, entries, opts.Analyzer, util.GetOptimalPoolSizeWithOverride(opts.Workers), logger); err != nil {
			return nil, err
		}
	}

	logger.Debug("snippets loaded", "count", len(entries), "files", len(matches))
	return NewStore(entries), nil
}

type analysisResult struct {
	slug     string
	analysis *Analysis
}

func analyze(ctx context.Context, entries map[string]Snippet, a Analyzer, workers int, logger *slog.Logger) error {
	jobs := make(chan Snippet)
	results := make(chan analysisResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for snip := range jobs {
				results <- analysisResult{slug: snip.Slug, analysis: analyzeOne(snip, a, logger)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for slug, snip := range entries {
			snip.Slug = slug
			select {
			case jobs <- snip:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		snip := entries[r.slug]
		snip.Analysis = r.analysis
		entries[r.slug] = snip
	}
	return ctx.Err()
}

func analyzeOne(snip Snippet, a Analyzer, logger *slog.Logger) *Analysis {
	var out Analysis
	if snip.HasCode() {
		res, err := a.Extract([]byte(snip.Code), path.Base(snip.CodeFile))
		if err != nil {
			logger.Warn("snippet analysis failed", "slug", snip.Slug, "file", snip.CodeFile, "error", err)
			return nil
		}
		out.Code = res
	}
	if snip.HasUsage() {
		res, err := a.Extract([]byte(snip.Usage), path.Base(snip.UsageFile))
		if err != nil {
			logger.Warn("snippet analysis failed", "slug", snip.Slug, "file", snip.UsageFile, "error", err)
			return nil
		}
		out.Usage = res
	}
	return &out
}
