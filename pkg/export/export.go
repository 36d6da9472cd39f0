// Package export renders every static route of the site to disk and
// publishes the result to S3.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/content"
	"github.com/gnana997/reactatoms/pkg/docs"
	"github.com/gnana997/reactatoms/pkg/metrics"
	"github.com/gnana997/reactatoms/pkg/site"
	"github.com/gnana997/reactatoms/pkg/util"
)

// NotFoundPath is rendered to 404.html for static hosts.
const NotFoundPath = "/404"

// Renderer renders one site path. *site.Server implements it.
type Renderer interface {
	RenderPath(ctx context.Context, target string) (*site.Rendered, error)
}

// Stats summarizes one export run.
type Stats struct {
	Pages    int
	Failures []PageError
	Duration time.Duration
}

// PageError is a route that could not be exported.
type PageError struct {
	Path string
	Err  error
}

func (e PageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Exporter writes <out>/<path>/index.html for every enumerated route.
type Exporter struct {
	renderer Renderer
	bundle   *bundle.Bundle
	workers  int
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithWorkers bounds concurrent renders. 0 selects util.GetOptimalPoolSize.
func WithWorkers(n int) Option {
	return func(e *Exporter) { e.workers = n }
}

// WithMetrics records per-page outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Exporter) { e.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// NewExporter creates an exporter that enumerates routes from b and
// renders them through r.
func NewExporter(r Renderer, b *bundle.Bundle, opts ...Option) *Exporter {
	e := &Exporter{renderer: r, bundle: b, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	e.workers = util.GetOptimalPoolSizeWithOverride(e.workers)
	return e
}

// Routes lists every static path in a stable order: landing, index,
// content pages, category pages, component pages, then previews.
func (e *Exporter) Routes() []string {
	routes := []string{"/", "/components"}
	for _, name := range content.Names {
		routes = append(routes, "/"+name)
	}
	for _, id := range e.bundle.Docs.CategoryParams() {
		routes = append(routes, docs.CategoryPath(id))
	}
	params := e.bundle.Docs.StaticParams()
	for _, p := range params {
		routes = append(routes, p.Path())
	}
	for _, p := range params {
		routes = append(routes, "/preview/"+p.Slug)
	}
	return routes
}

type exportJob struct {
	route string
}

// Export renders Routes() plus 404.html into outDir. Individual page
// failures are collected in Stats; the returned error is reserved for
// problems that stop the whole run.
func (e *Exporter) Export(ctx context.Context, outDir string) (*Stats, error) {
	start := time.Now()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	routes := e.Routes()
	e.logger.Info("export started", "routes", len(routes), "workers", e.workers, "out", outDir)

	jobs := make(chan exportJob)
	var (
		mu    sync.Mutex
		stats = &Stats{}
		wg    sync.WaitGroup
	)
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				err := e.exportOne(ctx, outDir, job.route)
				e.metrics.PageExported(err)
				mu.Lock()
				if err != nil {
					stats.Failures = append(stats.Failures, PageError{Path: job.route, Err: err})
				} else {
					stats.Pages++
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, r := range routes {
		select {
		case jobs <- exportJob{route: r}:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	if err := e.exportNotFound(ctx, outDir); err != nil {
		stats.Failures = append(stats.Failures, PageError{Path: NotFoundPath, Err: err})
	}

	stats.Duration = time.Since(start)
	e.logger.Info("export finished",
		"pages", stats.Pages,
		"failures", len(stats.Failures),
		"duration_ms", stats.Duration.Milliseconds())
	return stats, nil
}

func (e *Exporter) exportOne(ctx context.Context, outDir, route string) error {
	out, err := e.renderer.RenderPath(ctx, route)
	if err != nil {
		return err
	}
	if out.Status != http.StatusOK {
		return fmt.Errorf("rendered status %d", out.Status)
	}
	return writeFile(FilePath(outDir, route), out.Body)
}

func (e *Exporter) exportNotFound(ctx context.Context, outDir string) error {
	out, err := e.renderer.RenderPath(ctx, NotFoundPath)
	if err != nil {
		return err
	}
	if out.Status != http.StatusNotFound {
		return fmt.Errorf("rendered status %d, want 404", out.Status)
	}
	return writeFile(filepath.Join(outDir, "404.html"), out.Body)
}

// FilePath maps a route to <outDir>/<route>/index.html.
func FilePath(outDir, route string) string {
	clean := strings.Trim(path.Clean("/"+route), "/")
	if clean == "" {
		return filepath.Join(outDir, "index.html")
	}
	return filepath.Join(outDir, filepath.FromSlash(clean), "index.html")
}

func writeFile(p string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", p, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}
