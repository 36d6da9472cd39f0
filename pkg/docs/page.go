// Package docs composes documentation pages from the catalog, the
// snippet store and the preview resolver.
package docs

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gnana997/reactatoms/pkg/catalog"
	"github.com/gnana997/reactatoms/pkg/preview"
)

// ErrNotFound is returned for an unknown category, an unknown component,
// or a component requested under the wrong category.
var ErrNotFound = errors.New("not found")

// Tab identifies one of the three panels of a documentation page.
type Tab string

const (
	TabPreview Tab = "preview"
	TabCode    Tab = "code"
	TabUsage   Tab = "usage"
)

// Tabs lists the panels in display order.
var Tabs = []Tab{TabPreview, TabCode, TabUsage}

// Label is the tab's display name.
func (t Tab) Label() string {
	switch t {
	case TabCode:
		return "Code"
	case TabUsage:
		return "Usage"
	default:
		return "Preview"
	}
}

// ParseTab maps a query value to a Tab. Unknown values select the preview.
func ParseTab(s string) Tab {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabCode:
		return TabCode
	case TabUsage:
		return TabUsage
	default:
		return TabPreview
	}
}

// Theme is the preview panel background.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme maps a query value to a Theme. Unknown values select dark.
func ParseTheme(s string) Theme {
	if Theme(strings.ToLower(strings.TrimSpace(s))) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Options are the per-request view settings.
type Options struct {
	Tab   Tab
	Theme Theme
}

// OptionsFromQuery reads ?tab= and ?theme=.
func OptionsFromQuery(q url.Values) Options {
	return Options{Tab: ParseTab(q.Get("tab")), Theme: ParseTheme(q.Get("theme"))}
}

func (o Options) normalized() Options {
	return Options{Tab: ParseTab(string(o.Tab)), Theme: ParseTheme(string(o.Theme))}
}

// TabView is one rendered tab header.
type TabView struct {
	ID     Tab
	Label  string
	Active bool
	Href   string
}

// Page is the view model of /components/{category}/{slug}.
type Page struct {
	Category  catalog.Category
	Component catalog.Component
	Path      string

	Code  string
	Usage string
	// CopyText is what the copy button on the code tab puts on the
	// clipboard. Empty when the code is missing.
	CopyText string

	Preview   preview.Renderable
	PreviewID preview.DemoID

	Tabs      []TabView
	ActiveTab Tab
	Theme     Theme
	// ThemeToggleHref keeps the active tab and flips the theme.
	ThemeToggleHref string

	MissingCode    bool
	MissingUsage   bool
	MissingPreview bool

	Dependencies []string
	Exports      []string

	// Siblings are the other components of the same category, for the
	// sidebar.
	Siblings []catalog.Component
}

// CategoryPage is the view model of /components/{category}.
type CategoryPage struct {
	Category   catalog.Category
	Components []catalog.Component
	Path       string
}

// IndexPage is the view model of /components and the landing page.
type IndexPage struct {
	Categories []catalog.Category
	New        []catalog.Component
}

// Params identifies one statically enumerable documentation page.
type Params struct {
	Category string `json:"category"`
	Slug     string `json:"slug"`
}

// Path is the site path of the page.
func (p Params) Path() string {
	return ComponentPath(p.Category, p.Slug)
}

// ComponentPath builds /components/{category}/{slug}.
func ComponentPath(category, slug string) string {
	return "/components/" + url.PathEscape(category) + "/" + url.PathEscape(slug)
}

// CategoryPath builds /components/{category}.
func CategoryPath(category string) string {
	return "/components/" + url.PathEscape(category)
}
