package site

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/catalog"
	"github.com/gnana997/reactatoms/pkg/content"
	"github.com/gnana997/reactatoms/pkg/docs"
	"github.com/gnana997/reactatoms/pkg/preview"
)

// staticPages are served at /<name> from the content pages.
var staticPages = content.Names

// view selects a template and its data.
type view struct {
	Template    string
	Title       string
	Description string
	Data        any
}

// layoutData is what every template receives.
type layoutData struct {
	Title       string
	Description string
	Version     string
	Path        string
	Nav         []navLink
	Categories  []catalog.Category
	Dev         bool
	Data        any
}

type navLink struct {
	Label  string
	Href   string
	Active bool
}

// pageFunc produces the status and view for one request against a bundle.
type pageFunc func(r *http.Request, b *bundle.Bundle) (int, view)

// page renders fn through the layout. 200 responses are cached by
// request URI and only served while their bundle is current.
func (s *Server) page(fn pageFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.RequestURI()
		b := s.holder.Current()
		if s.cache != nil {
			if p, ok := s.cache.get(key, b); ok {
				w.Header().Set("Content-Type", p.contentType)
				w.Header().Set("X-Cache", "hit")
				w.Write(p.body)
				return
			}
		}

		status, v := fn(r, b)
		body, err := s.templates.render(v.Template, s.layout(r, b, v))
		if err != nil {
			s.logger.Error("template render failed",
				"request_id", RequestID(r.Context()),
				"template", v.Template,
				"error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		const contentType = "text/html; charset=utf-8"
		if status == http.StatusOK && s.cache != nil {
			s.cache.add(key, cachedPage{bundle: b, contentType: contentType, body: body})
			w.Header().Set("X-Cache", "miss")
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		w.Write(body)
	}
}

func (s *Server) layout(r *http.Request, b *bundle.Bundle, v view) layoutData {
	nav := []navLink{
		{Label: "Components", Href: "/components"},
		{Label: "Docs", Href: "/docs"},
		{Label: "Changelog", Href: "/changelog"},
		{Label: "Roadmap", Href: "/roadmap"},
		{Label: "Partners", Href: "/partners"},
		{Label: "Tools", Href: "/tools"},
	}
	for i := range nav {
		nav[i].Active = r.URL.Path == nav[i].Href || strings.HasPrefix(r.URL.Path, nav[i].Href+"/")
	}
	title := "ReactAtoms"
	if v.Title != "" {
		title = v.Title + " · ReactAtoms"
	}
	return layoutData{
		Title:       title,
		Description: v.Description,
		Version:     b.Version(),
		Path:        r.URL.Path,
		Nav:         nav,
		Categories:  b.Catalog.ListCategories(),
		Dev:         s.hub != nil,
		Data:        v.Data,
	}
}

func (s *Server) handleLanding(r *http.Request, b *bundle.Bundle) (int, view) {
	return http.StatusOK, view{
		Template:    "landing",
		Description: "Copy-paste React animations, backgrounds, buttons and cards.",
		Data:        b.Docs.ComposeIndex(),
	}
}

func (s *Server) handleComponents(r *http.Request, b *bundle.Bundle) (int, view) {
	return http.StatusOK, view{
		Template: "components",
		Title:    "Components",
		Data:     b.Docs.ComposeIndex(),
	}
}

func (s *Server) handleCategory(r *http.Request, b *bundle.Bundle) (int, view) {
	cp, err := b.Docs.ComposeCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		return s.notFound(r, b, err)
	}
	return http.StatusOK, view{
		Template:    "category",
		Title:       cp.Category.Name,
		Description: cp.Category.Description,
		Data:        cp,
	}
}

// componentData adds the rendered preview markup to a doc page.
type componentData struct {
	*docs.Page
	PreviewHTML template.HTML
}

func (s *Server) handleComponent(r *http.Request, b *bundle.Bundle) (int, view) {
	page, err := b.Docs.Compose(r.Context(),
		chi.URLParam(r, "category"),
		chi.URLParam(r, "slug"),
		docs.OptionsFromQuery(r.URL.Query()))
	if err != nil {
		return s.notFound(r, b, err)
	}
	return http.StatusOK, view{
		Template:    "component",
		Title:       page.Component.Name,
		Description: page.Component.Description,
		Data: componentData{
			Page:        page,
			PreviewHTML: previewHTML(page.Preview),
		},
	}
}

// previewData is the iframe document for one demo.
type previewData struct {
	Slug        string
	Theme       docs.Theme
	Placeholder bool
	Markup      template.HTML
}

func (s *Server) handlePreview(r *http.Request, b *bundle.Bundle) (int, view) {
	slug := chi.URLParam(r, "slug")
	rd := b.Previews.Resolve(slug)
	return http.StatusOK, view{
		Template: "preview",
		Title:    slug,
		Data: previewData{
			Slug:        slug,
			Theme:       docs.ParseTheme(r.URL.Query().Get("theme")),
			Placeholder: preview.IsPlaceholder(rd),
			Markup:      previewHTML(rd),
		},
	}
}

// searchData is the /search view model.
type searchData struct {
	Query       string
	Results     []catalog.Component
	Suggestions []suggestion
}

func (s *Server) handleSearch(r *http.Request, b *bundle.Bundle) (int, view) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	data := searchData{Query: q}
	if q != "" {
		data.Results = b.Catalog.SearchComponents(q)
		if len(data.Results) == 0 {
			data.Suggestions = suggest(b, q, maxSuggestions)
		}
	}
	return http.StatusOK, view{Template: "search", Title: "Search", Data: data}
}

func (s *Server) handleContent(name string) pageFunc {
	return func(r *http.Request, b *bundle.Bundle) (int, view) {
		pg := b.Content.Get(name)
		return http.StatusOK, view{
			Template:    "content",
			Title:       pg.Title,
			Description: pg.Intro,
			Data:        pg,
		}
	}
}

// notFoundData is the generic 404 view model.
type notFoundData struct {
	Path        string
	Suggestions []suggestion
}

func (s *Server) handleNotFound(r *http.Request, b *bundle.Bundle) (int, view) {
	return s.notFound(r, b, nil)
}

func (s *Server) notFound(r *http.Request, b *bundle.Bundle, cause error) (int, view) {
	if cause != nil && !errors.Is(cause, docs.ErrNotFound) {
		s.logger.Warn("unexpected page error", "path", r.URL.Path, "error", cause)
	}
	return http.StatusNotFound, view{
		Template: "notfound",
		Title:    "Not found",
		Data: notFoundData{
			Path:        r.URL.Path,
			Suggestions: suggest(b, lastSegment(r.URL.Path), maxSuggestions),
		},
	}
}

func previewHTML(rd preview.Renderable) template.HTML {
	// Preview fragments are bundle content, authored alongside the catalog.
	return template.HTML(preview.RenderString(rd))
}
