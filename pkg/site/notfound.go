package site

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/docs"
)

const maxSuggestions = 5

// suggestion is a "did you mean" link.
type suggestion struct {
	Label string
	Href  string
	key   string
}

// suggestions implements fuzzy.Source over the keys.
type suggestions []suggestion

func (s suggestions) String(i int) string { return s[i].key }
func (s suggestions) Len() int            { return len(s) }

// candidates lists every addressable page by its last path segment.
func candidates(b *bundle.Bundle) suggestions {
	var out suggestions
	for _, comp := range b.Catalog.ListComponents() {
		out = append(out, suggestion{
			Label: comp.Name,
			Href:  docs.ComponentPath(comp.Category, comp.Slug),
			key:   comp.Slug,
		})
	}
	for _, cat := range b.Catalog.ListCategories() {
		out = append(out, suggestion{
			Label: cat.Name,
			Href:  docs.CategoryPath(cat.ID),
			key:   cat.ID,
		})
	}
	for _, name := range staticPages {
		out = append(out, suggestion{
			Label: b.Content.Get(name).Title,
			Href:  "/" + name,
			key:   name,
		})
	}
	return out
}

// suggest returns up to limit pages whose key fuzzily matches query, best
// first.
func suggest(b *bundle.Bundle, query string, limit int) []suggestion {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	src := candidates(b)
	matches := fuzzy.FindFrom(query, src)
	out := make([]suggestion, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, src[m.Index])
	}
	return out
}

func lastSegment(p string) string {
	p = strings.Trim(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
