package docs

import (
	"context"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gnana997/reactatoms/pkg/catalog"
	"github.com/gnana997/reactatoms/pkg/preview"
	"github.com/gnana997/reactatoms/pkg/snippets"
)

const tracerName = "github.com/gnana997/reactatoms/pkg/docs"

// Composer joins the registries, the snippet store and the preview
// resolver into page view models. It holds no mutable state.
type Composer struct {
	catalog  *catalog.QueryService
	snippets *snippets.Store
	previews *preview.Resolver
	tracer   trace.Tracer
}

// NewComposer creates a composer. The tracer comes from the global otel
// provider.
func NewComposer(q *catalog.QueryService, s *snippets.Store, r *preview.Resolver) *Composer {
	return &Composer{
		catalog:  q,
		snippets: s,
		previews: r,
		tracer:   otel.Tracer(tracerName),
	}
}

// Compose builds the documentation page for slug under categoryID. All
// lookup failures return an error wrapping ErrNotFound. Missing code,
// usage or preview markup degrade the page instead of failing it.
func (c *Composer) Compose(ctx context.Context, categoryID, slug string, opts Options) (*Page, error) {
	_, span := c.tracer.Start(ctx, "docs.Compose",
		trace.WithAttributes(
			attribute.String("category", categoryID),
			attribute.String("slug", slug),
		))
	defer span.End()

	page, err := c.compose(categoryID, slug, opts.normalized())
	span.SetAttributes(attribute.Bool("not_found", err != nil))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return page, nil
}

func (c *Composer) compose(categoryID, slug string, opts Options) (*Page, error) {
	cat, ok := c.catalog.CategoryByID(categoryID)
	if !ok {
		return nil, fmt.Errorf("category %q: %w", categoryID, ErrNotFound)
	}
	comp, ok := c.catalog.ComponentBySlug(slug)
	if !ok {
		return nil, fmt.Errorf("component %q: %w", slug, ErrNotFound)
	}
	if comp.Category != categoryID {
		return nil, fmt.Errorf("component %q is not in category %q: %w", slug, categoryID, ErrNotFound)
	}

	page := &Page{
		Category:  *cat,
		Component: *comp,
		Path:      ComponentPath(categoryID, slug),
		Code:      c.snippets.Code(slug),
		Usage:     c.snippets.Usage(slug),
		ActiveTab: opts.Tab,
		Theme:     opts.Theme,
	}

	snip, _ := c.snippets.Lookup(slug)
	page.MissingCode = !snip.HasCode()
	page.MissingUsage = !snip.HasUsage()
	if !page.MissingCode {
		page.CopyText = page.Code
	}
	page.Dependencies = snip.Dependencies()
	page.Exports = snip.Exports()

	page.Preview = c.previews.Resolve(slug)
	page.PreviewID = page.Preview.ID()
	page.MissingPreview = preview.IsPlaceholder(page.Preview) || !c.previews.MarkupAvailable(page.PreviewID)

	for _, t := range Tabs {
		page.Tabs = append(page.Tabs, TabView{
			ID:     t,
			Label:  t.Label(),
			Active: t == opts.Tab,
			Href:   withQuery(page.Path, t, opts.Theme),
		})
	}
	page.ThemeToggleHref = withQuery(page.Path, opts.Tab, opts.Theme.Toggle())

	for _, sib := range c.catalog.ComponentsByCategory(categoryID) {
		if sib.Slug != slug {
			page.Siblings = append(page.Siblings, sib)
		}
	}
	return page, nil
}

// ComposeCategory builds the listing page for one category.
func (c *Composer) ComposeCategory(ctx context.Context, categoryID string) (*CategoryPage, error) {
	_, span := c.tracer.Start(ctx, "docs.ComposeCategory",
		trace.WithAttributes(attribute.String("category", categoryID)))
	defer span.End()

	cat, ok := c.catalog.CategoryByID(categoryID)
	span.SetAttributes(attribute.Bool("not_found", !ok))
	if !ok {
		return nil, fmt.Errorf("category %q: %w", categoryID, ErrNotFound)
	}
	return &CategoryPage{
		Category:   *cat,
		Components: c.catalog.ComponentsByCategory(categoryID),
		Path:       CategoryPath(categoryID),
	}, nil
}

// ComposeIndex lists every category with its derived count and the new
// components.
func (c *Composer) ComposeIndex() *IndexPage {
	return &IndexPage{
		Categories: c.catalog.ListCategories(),
		New:        c.catalog.NewComponents(),
	}
}

// StaticParams enumerates every (category, slug) pair that composes,
// in registry order. Components whose category does not exist are
// skipped.
func (c *Composer) StaticParams() []Params {
	var out []Params
	for _, comp := range c.catalog.ListComponents() {
		if _, ok := c.catalog.CategoryByID(comp.Category); !ok {
			continue
		}
		out = append(out, Params{Category: comp.Category, Slug: comp.Slug})
	}
	return out
}

// CategoryParams lists every category id in registry order.
func (c *Composer) CategoryParams() []string {
	cats := c.catalog.ListCategories()
	out := make([]string, 0, len(cats))
	for _, cat := range cats {
		out = append(out, cat.ID)
	}
	return out
}

func withQuery(p string, tab Tab, theme Theme) string {
	q := url.Values{}
	if tab != TabPreview {
		q.Set("tab", string(tab))
	}
	if theme != ThemeDark {
		q.Set("theme", string(theme))
	}
	if len(q) == 0 {
		return p
	}
	return p + "?" + q.Encode()
}
