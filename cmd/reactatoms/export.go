package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/export"
	"github.com/gnana997/reactatoms/pkg/site"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render every page to static HTML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := a.export(cmd.Context(), a.cfg.Export.Out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d pages to %s in %s\n",
				stats.Pages, a.cfg.Export.Out, stats.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "dist", "output directory")
	cmd.Flags().Int("workers", 0, "concurrent renders (0 selects from CPU count)")
	return cmd
}

// export renders the configured bundle into outDir. Any failed page fails
// the run.
func (a *app) export(ctx context.Context, outDir string) (*export.Stats, error) {
	b, cleanup, err := a.loadOnce(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	srv, err := site.New(bundle.Static(b), site.Config{}, site.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	exp := export.NewExporter(srv, b,
		export.WithWorkers(a.cfg.Export.Workers),
		export.WithLogger(a.logger))

	stats, err := exp.Export(ctx, outDir)
	if err != nil {
		return stats, err
	}
	if n := len(stats.Failures); n > 0 {
		for _, f := range stats.Failures {
			a.logger.Error("page export failed", "path", f.Path, "error", f.Err)
		}
		return stats, fmt.Errorf("%d pages failed to export", n)
	}
	return stats, nil
}
