package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
)

// Catalog holds the registry data as authored in catalog.json.
type Catalog struct {
	Name       string      `json:"name"`
	Version    string      `json:"version"`
	Categories []Category  `json:"categories"`
	Components []Component `json:"components"`
}

// CatalogIndex provides O(1) lookups into the catalog.
// Built during LoadFromBytes after validation passes.
type CatalogIndex struct {
	// ComponentBySlug maps slug -> *Component.
	ComponentBySlug map[string]*Component

	// CategoryByID maps category id -> *Category.
	CategoryByID map[string]*Category

	// ComponentsByCategory maps category id -> components in insertion order.
	ComponentsByCategory map[string][]*Component
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s can be used as a URL path segment key.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Validate checks the catalog for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (c *Catalog) Validate() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, fmt.Errorf("catalog name is required"))
	}
	if c.Version == "" {
		errs = append(errs, fmt.Errorf("catalog version is required"))
	}

	categoryIDs := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.ID == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: id is required", i))
			continue
		}
		if !ValidSlug(cat.ID) {
			errs = append(errs, fmt.Errorf("categories[%d]: id %q is not URL-safe", i, cat.ID))
		}
		if cat.Name == "" {
			errs = append(errs, fmt.Errorf("category %q: name is required", cat.ID))
		}
		if categoryIDs[cat.ID] {
			errs = append(errs, fmt.Errorf("categories[%d]: duplicate category id %q", i, cat.ID))
			continue
		}
		categoryIDs[cat.ID] = true
	}

	slugs := make(map[string]bool, len(c.Components))
	for i, comp := range c.Components {
		if comp.Slug == "" {
			errs = append(errs, fmt.Errorf("components[%d]: slug is required", i))
			continue
		}
		if !ValidSlug(comp.Slug) {
			errs = append(errs, fmt.Errorf("components[%d]: slug %q is not URL-safe", i, comp.Slug))
		}
		if comp.Name == "" {
			errs = append(errs, fmt.Errorf("component %q: name is required", comp.Slug))
		}
		if !categoryIDs[comp.Category] {
			errs = append(errs, fmt.Errorf("component %q: references unknown category %q", comp.Slug, comp.Category))
		}
		if slugs[comp.Slug] {
			errs = append(errs, fmt.Errorf("component %q: duplicate slug", comp.Slug))
			continue
		}
		slugs[comp.Slug] = true
	}

	return errs
}

// BuildIndex creates lookup maps for fast access and fills in each
// category's Count from the component list.
// Should be called after Validate() passes.
func (c *Catalog) BuildIndex() *CatalogIndex {
	idx := &CatalogIndex{
		ComponentBySlug:      make(map[string]*Component, len(c.Components)),
		CategoryByID:         make(map[string]*Category, len(c.Categories)),
		ComponentsByCategory: make(map[string][]*Component, len(c.Categories)),
	}

	for i := range c.Categories {
		idx.CategoryByID[c.Categories[i].ID] = &c.Categories[i]
	}

	for i := range c.Components {
		comp := &c.Components[i]
		idx.ComponentBySlug[comp.Slug] = comp
		idx.ComponentsByCategory[comp.Category] = append(idx.ComponentsByCategory[comp.Category], comp)
	}

	for i := range c.Categories {
		c.Categories[i].Count = len(idx.ComponentsByCategory[c.Categories[i].ID])
	}

	return idx
}

// LoadFromFile loads a catalog from a JSON file, validates it, and builds the index.
func LoadFromFile(path string) (*Catalog, *CatalogIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a catalog from raw JSON bytes, validates it, and builds the index.
func LoadFromBytes(data []byte) (*Catalog, *CatalogIndex, error) {
	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}

	if errs := catalog.Validate(); len(errs) > 0 {
		return nil, nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}

	index := catalog.BuildIndex()
	return &catalog, index, nil
}
