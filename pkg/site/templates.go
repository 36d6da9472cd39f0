package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/gnana997/reactatoms/pkg/docs"
)

//go:embed templates/*.html
var templateFS embed.FS

// framedPages render inside layout.html. barePages define their own
// "root" template.
var (
	framedPages = []string{"landing", "components", "category", "component", "search", "content", "notfound"}
	barePages   = []string{"preview"}
)

var templateFuncs = template.FuncMap{
	"componentPath": docs.ComponentPath,
	"categoryPath":  docs.CategoryPath,
	"join":          strings.Join,
}

type templateSet struct {
	pages map[string]*template.Template
}

func loadTemplates() (*templateSet, error) {
	base, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, err
	}
	ts := &templateSet{pages: make(map[string]*template.Template)}
	for _, name := range framedPages {
		t, err := template.Must(base.Clone()).ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		ts.pages[name] = t
	}
	for _, name := range barePages {
		t, err := template.New(name + ".html").Funcs(templateFuncs).ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		ts.pages[name] = t
	}
	return ts, nil
}

func (ts *templateSet) render(name string, data layoutData) ([]byte, error) {
	t, ok := ts.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "root", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
