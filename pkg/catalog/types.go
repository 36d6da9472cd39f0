package catalog

import "slices"

// Component is one copy-paste snippet entry in the registry.
type Component struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	IsNew       bool     `json:"is_new"`
}

// Category groups components on the site.
// Count is computed by BuildIndex; any authored value is overwritten.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Count       int    `json:"count"`
}

// clone copies c so callers cannot reach the registry's Tags slice.
func (c Component) clone() Component {
	c.Tags = slices.Clone(c.Tags)
	return c
}
