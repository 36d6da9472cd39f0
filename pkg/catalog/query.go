package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// QueryService provides read-only query methods over a loaded catalog.
// Lookups never fail: a miss is an empty slice or a nil, false pair.
type QueryService struct {
	Catalog *Catalog
	Index   *CatalogIndex
}

// NewQueryService creates a QueryService from a validated catalog and its index.
func NewQueryService(cat *Catalog, idx *CatalogIndex) *QueryService {
	return &QueryService{Catalog: cat, Index: idx}
}

// LoadAndQuery loads a catalog from file and returns a ready-to-use QueryService.
func LoadAndQuery(path string) (*QueryService, error) {
	cat, idx, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// LoadAndQueryBytes loads a catalog from raw JSON bytes and returns a ready-to-use QueryService.
func LoadAndQueryBytes(data []byte) (*QueryService, error) {
	cat, idx, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// ListCategories returns a copy of all categories in authored order.
func (q *QueryService) ListCategories() []Category {
	return slices.Clone(q.Catalog.Categories)
}

// ListComponents returns a copy of every component in insertion order.
func (q *QueryService) ListComponents() []Component {
	out := make([]Component, 0, len(q.Catalog.Components))
	for _, comp := range q.Catalog.Components {
		out = append(out, comp.clone())
	}
	return out
}

// ComponentsByCategory returns the components whose category matches id exactly.
func (q *QueryService) ComponentsByCategory(id string) []Component {
	return deref(q.Index.ComponentsByCategory[id])
}

// ComponentBySlug looks up a component by slug. The result is a copy.
func (q *QueryService) ComponentBySlug(slug string) (*Component, bool) {
	comp, ok := q.Index.ComponentBySlug[slug]
	if !ok {
		return nil, false
	}
	c := comp.clone()
	return &c, true
}

// CategoryByID looks up a category by id. The result is a copy.
func (q *QueryService) CategoryByID(id string) (*Category, bool) {
	cat, ok := q.Index.CategoryByID[id]
	if !ok {
		return nil, false
	}
	c := *cat
	return &c, true
}

// NewComponents returns the components flagged as new.
func (q *QueryService) NewComponents() []Component {
	result := make([]Component, 0)
	for _, comp := range q.Catalog.Components {
		if comp.IsNew {
			result = append(result, comp.clone())
		}
	}
	return result
}

// SearchComponents matches query case-insensitively as a substring of the
// name or description, or as an exact tag. A blank query matches everything.
func (q *QueryService) SearchComponents(query string) []Component {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(query))

	result := make([]Component, 0)
	for _, comp := range q.Catalog.Components {
		if matches(folder, comp, needle) {
			result = append(result, comp.clone())
		}
	}
	return result
}

// FilterComponents narrows by category and keyword. Both are optional;
// when both are given they combine with AND.
func (q *QueryService) FilterComponents(category, keyword string) []Component {
	var candidates []Component
	if category != "" {
		candidates = q.ComponentsByCategory(category)
	} else {
		candidates = q.Catalog.Components
	}

	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(keyword))

	result := make([]Component, 0, len(candidates))
	for _, comp := range candidates {
		if matches(folder, comp, needle) {
			result = append(result, comp.clone())
		}
	}
	return result
}

func matches(folder cases.Caser, comp Component, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(folder.String(comp.Name), needle) ||
		strings.Contains(folder.String(comp.Description), needle) {
		return true
	}
	for _, tag := range comp.Tags {
		if folder.String(tag) == needle {
			return true
		}
	}
	return false
}

func deref(in []*Component) []Component {
	out := make([]Component, 0, len(in))
	for _, c := range in {
		out = append(out, c.clone())
	}
	return out
}
