// Package content loads the static informational pages (changelog,
// roadmap, partners, tools, docs) from YAML documents in the bundle.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Dir is the bundle directory holding the page documents.
const Dir = "content"

// Known page names, in navigation order.
var Names = []string{"docs", "changelog", "roadmap", "partners", "tools"}

// Page is one static page.
type Page struct {
	Name     string    `yaml:"-" json:"name"`
	Title    string    `yaml:"title" json:"title"`
	Intro    string    `yaml:"intro" json:"intro,omitempty"`
	Sections []Section `yaml:"sections" json:"sections,omitempty"`
	Links    []Link    `yaml:"links" json:"links,omitempty"`
}

// Section is a heading with either bullet items or a free text body.
type Section struct {
	Heading string   `yaml:"heading" json:"heading"`
	Date    string   `yaml:"date" json:"date,omitempty"`
	Anchor  string   `yaml:"anchor" json:"anchor,omitempty"`
	Items   []string `yaml:"items" json:"items,omitempty"`
	Body    string   `yaml:"body" json:"body,omitempty"`
}

// Link is an external reference, used by partners and tools.
type Link struct {
	Name        string `yaml:"name" json:"name"`
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// Empty reports whether the page has nothing to show beyond its title.
func (p *Page) Empty() bool {
	return p.Intro == "" && len(p.Sections) == 0 && len(p.Links) == 0
}

// Pages holds every known page by name. Lookups of unknown or missing
// pages return an empty page, never nil.
type Pages struct {
	byName map[string]*Page
}

// Get returns the named page. A page whose document was absent from the
// bundle comes back empty with a title derived from its name.
func (p *Pages) Get(name string) *Page {
	if p != nil {
		if pg, ok := p.byName[name]; ok {
			return pg
		}
	}
	return emptyPage(name)
}

// Has reports whether name was loaded from a document.
func (p *Pages) Has(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.byName[name]
	return ok
}

// Load parses content/<name>.yaml for every known name. Missing documents
// are skipped. Malformed documents are returned as a joined error.
func Load(fsys fs.FS) (*Pages, error) {
	pages := &Pages{byName: make(map[string]*Page, len(Names))}
	var errs []error
	for _, name := range Names {
		file := path.Join(Dir, name+".yaml")
		data, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", file, err))
			continue
		}
		pg, err := Parse(name, data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		pages.byName[name] = pg
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("content load failed: %w", errors.Join(errs...))
	}
	return pages, nil
}

// Parse decodes one page document.
func Parse(name string, data []byte) (*Page, error) {
	var pg Page
	if err := yaml.Unmarshal(data, &pg); err != nil {
		return nil, fmt.Errorf("failed to parse page YAML: %w", err)
	}
	pg.Name = name
	if pg.Title == "" {
		pg.Title = titleOf(name)
	}
	return &pg, nil
}

func emptyPage(name string) *Page {
	return &Page{Name: name, Title: titleOf(name)}
}

func titleOf(name string) string {
	return cases.Title(language.English).String(name)
}
