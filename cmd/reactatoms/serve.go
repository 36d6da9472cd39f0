package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/metrics"
	"github.com/gnana997/reactatoms/pkg/site"
	"github.com/gnana997/reactatoms/pkg/watch"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Serve the documentation site",
		Long: `Serve the documentation site over HTTP.

With --dev and --content-dir the content directory is watched: edits reload
the bundle, purge the page cache and refresh open browser tabs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	f := cmd.Flags()
	f.String("addr", ":8080", "listen address")
	f.Bool("dev", false, "development mode: live reload and content watching")
	f.Int("cache-size", 512, "rendered pages kept in memory (0 disables the cache)")
	f.Float64("rate-limit", 0, "requests per second across all clients (0 disables)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	src, err := a.openSource()
	if err != nil {
		return err
	}
	defer src.Close()

	analysis := bundle.NewAnalysis(a.logger)
	defer analysis.Close()

	m := metrics.New()
	holder, err := bundle.NewHolder(ctx, a.loader(src, analysis, m),
		bundle.WithHolderMetrics(m),
		bundle.WithHolderLogger(a.logger))
	if err != nil {
		return err
	}

	sc := a.cfg.Server
	srv, err := site.New(holder, site.Config{
		CacheSize: sc.CacheSize,
		RateLimit: sc.RateLimit,
		Burst:     sc.Burst,
		Dev:       sc.Dev,
	}, site.WithMetrics(m), site.WithLogger(a.logger))
	if err != nil {
		return err
	}

	if sc.Dev {
		stopWatch, err := a.watchContent(ctx, src, holder)
		if err != nil {
			return err
		}
		defer stopWatch()
	}

	httpSrv := &http.Server{
		Addr:              sc.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("site listening", "addr", sc.Addr, "dev", sc.Dev, "bundle", holder.Current().Name)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// watchContent reloads the bundle whenever files under the content dir
// change. The site purges its cache and notifies live reload clients
// through the holder's reload listeners.
func (a *app) watchContent(ctx context.Context, src *contentSource, holder *bundle.Holder) (func(), error) {
	if src.dir == nil {
		a.logger.Warn("dev mode without --content-dir: the embedded bundle is never reloaded")
		return func() {}, nil
	}

	w, err := watch.New(func(paths []string) {
		src.dir.Invalidate(paths...)
		if _, err := holder.Reload(ctx); err != nil {
			a.logger.Error("content reload failed; keeping previous bundle", "error", err)
		}
	}, watch.DefaultOptions(), a.logger)
	if err != nil {
		return nil, err
	}
	if err := w.Start(src.dir.Root()); err != nil {
		w.Stop()
		return nil, err
	}
	return func() { w.Stop() }, nil
}
