// Package preview resolves a component slug to the live demo shown in the
// Preview tab.
package preview

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/gnana997/reactatoms/pkg/metrics"
)

// Dir is the bundle directory holding <DemoID>.html fragments.
const Dir = "previews"

// fallbackMarkup is used when placeholder.html itself cannot be read.
const fallbackMarkup = `<div class="ra-placeholder" role="img" aria-label="Preview coming soon"></div>`

// Renderable is a parameterless demo that writes its markup.
type Renderable interface {
	ID() DemoID
	Render(w io.Writer) error
}

// demo loads previews/<id>.html on first Render.
type demo struct {
	id       DemoID
	fsys     fs.FS
	fallback *demo
	logger   *slog.Logger

	once   sync.Once
	markup []byte
	err    error
}

func (d *demo) ID() DemoID { return d.id }

func (d *demo) Render(w io.Writer) error {
	d.load()
	if d.err != nil {
		if d.fallback != nil {
			return d.fallback.Render(w)
		}
		_, err := io.WriteString(w, fallbackMarkup)
		return err
	}
	_, err := w.Write(d.markup)
	return err
}

func (d *demo) load() {
	d.once.Do(func() {
		name := path.Join(Dir, string(d.id)+".html")
		d.markup, d.err = fs.ReadFile(d.fsys, name)
		if d.err != nil {
			d.logger.Warn("preview markup unavailable, rendering placeholder",
				"demo", d.id, "file", name, "error", d.err)
		}
	})
}

// Loaded reports whether the markup was read successfully. It forces the
// lazy load.
func (d *demo) Loaded() bool {
	d.load()
	return d.err == nil
}

// Resolver maps slugs to demos. It is immutable after NewResolver and safe
// for concurrent use.
type Resolver struct {
	demos       map[DemoID]*demo
	bySlug      map[string]*demo
	placeholder *demo
	metrics     *metrics.Metrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMetrics records hits and misses.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver builds the binding table over fsys. Markup is not read
// until a demo is rendered.
func NewResolver(fsys fs.FS, logger *slog.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{
		demos:  make(map[DemoID]*demo),
		bySlug: make(map[string]*demo, len(bindings)),
	}
	r.placeholder = &demo{id: DemoPlaceholder, fsys: fsys, logger: logger}

	for _, b := range bindings {
		d, ok := r.demos[b.Demo]
		if !ok {
			d = &demo{id: b.Demo, fsys: fsys, fallback: r.placeholder, logger: logger}
			r.demos[b.Demo] = d
		}
		r.bySlug[b.Slug] = d
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the demo bound to slug, or the placeholder demo. Aliases
// return the identical Renderable as their canonical slug.
func (r *Resolver) Resolve(slug string) Renderable {
	if d, ok := r.bySlug[slug]; ok {
		r.metrics.PreviewResolved(true)
		return d
	}
	r.metrics.PreviewResolved(false)
	return r.placeholder
}

// Bound reports whether slug has a binding.
func (r *Resolver) Bound(slug string) bool {
	_, ok := r.bySlug[slug]
	return ok
}

// Placeholder returns the fallback demo.
func (r *Resolver) Placeholder() Renderable {
	return r.placeholder
}

// MarkupAvailable reports whether the demo for id can be read from the
// bundle. Unknown ids report false.
func (r *Resolver) MarkupAvailable(id DemoID) bool {
	if id == DemoPlaceholder {
		return r.placeholder.Loaded()
	}
	d, ok := r.demos[id]
	return ok && d.Loaded()
}

// IsPlaceholder reports whether rd is the fallback demo.
func IsPlaceholder(rd Renderable) bool {
	return rd == nil || rd.ID() == DemoPlaceholder
}

// RenderString renders rd into a string for templates.
func RenderString(rd Renderable) string {
	var sb strings.Builder
	if err := rd.Render(&sb); err != nil {
		return fmt.Sprintf("<!-- preview %s failed: %v -->", rd.ID(), err)
	}
	return sb.String()
}
