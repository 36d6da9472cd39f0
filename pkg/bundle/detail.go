package bundle

import (
	"github.com/gnana997/reactatoms/pkg/catalog"
	"github.com/gnana997/reactatoms/pkg/docs"
)

// ComponentDetail is the machine-readable view of one component, shared by
// the JSON API and the MCP tools.
type ComponentDetail struct {
	Component    catalog.Component `json:"component"`
	Category     *catalog.Category `json:"category,omitempty"`
	Path         string            `json:"path"`
	Code         string            `json:"code"`
	Usage        string            `json:"usage"`
	MissingCode  bool              `json:"missing_code"`
	MissingUsage bool              `json:"missing_usage"`
	Dependencies []string          `json:"dependencies"`
	Exports      []string          `json:"exports"`
}

// Detail returns the detail for slug. Missing snippet files yield the
// placeholder text with the matching Missing flag set.
func (b *Bundle) Detail(slug string) (ComponentDetail, bool) {
	comp, ok := b.Catalog.ComponentBySlug(slug)
	if !ok {
		return ComponentDetail{}, false
	}
	cat, _ := b.Catalog.CategoryByID(comp.Category)
	snip, _ := b.Snippets.Lookup(slug)

	return ComponentDetail{
		Component:    *comp,
		Category:     cat,
		Path:         docs.ComponentPath(comp.Category, comp.Slug),
		Code:         b.Snippets.Code(slug),
		Usage:        b.Snippets.Usage(slug),
		MissingCode:  !snip.HasCode(),
		MissingUsage: !snip.HasUsage(),
		Dependencies: nonNil(snip.Dependencies()),
		Exports:      nonNil(snip.Exports()),
	}, true
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
