package main

import (
	"context"
	"io/fs"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/metrics"
)

// contentSource is where bundles are loaded from. dir is nil for the
// embedded bundle.
type contentSource struct {
	name string
	fsys fs.FS
	dir  *bundle.DirSource
}

func (a *app) openSource() (*contentSource, error) {
	if a.cfg.Content.Dir == "" {
		return &contentSource{name: bundle.EmbeddedName, fsys: bundle.Embedded()}, nil
	}
	ds, err := bundle.NewDirSource(a.cfg.Content.Dir, nil)
	if err != nil {
		return nil, err
	}
	return &contentSource{name: ds.Root(), fsys: ds, dir: ds}, nil
}

func (s *contentSource) Close() error {
	if s.dir == nil {
		return nil
	}
	return s.dir.Close()
}

// loader returns a bundle.Loader over src. analysis may be nil.
func (a *app) loader(src *contentSource, analysis *bundle.Analysis, m *metrics.Metrics) bundle.Loader {
	opts := bundle.Options{
		Workers: a.cfg.Export.Workers,
		Metrics: m,
		Logger:  a.logger,
	}
	if analysis != nil {
		opts.Analyzer = analysis
	}
	return func(ctx context.Context) (*bundle.Bundle, error) {
		return bundle.Load(ctx, src.name, src.fsys, opts)
	}
}

// loadOnce opens the configured source and loads one analyzed bundle. The
// returned cleanup releases the source and the analyzer.
func (a *app) loadOnce(ctx context.Context) (*bundle.Bundle, func(), error) {
	src, err := a.openSource()
	if err != nil {
		return nil, nil, err
	}
	analysis := bundle.NewAnalysis(a.logger)
	cleanup := func() {
		analysis.Close()
		src.Close()
	}
	b, err := a.loader(src, analysis, nil)(ctx)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return b, cleanup, nil
}
