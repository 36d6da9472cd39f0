package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func minimalValidCatalog() *Catalog {
	return &Catalog{
		Name:    "test",
		Version: "1.0",
		Categories: []Category{
			{ID: "buttons", Name: "Buttons"},
		},
		Components: []Component{
			{Slug: "shimmer-button", Name: "Shimmer Button", Description: "A button", Category: "buttons"},
		},
	}
}

func writeTempCatalog(t *testing.T, catalog *Catalog) string {
	t.Helper()
	data, err := json.Marshal(catalog)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// --- Validate ---

func TestValidate_Valid(t *testing.T) {
	errs := minimalValidCatalog().Validate()
	assert.Empty(t, errs)
}

func TestValidate_MissingNameAndVersion(t *testing.T) {
	c := minimalValidCatalog()
	c.Name = ""
	c.Version = ""
	errs := c.Validate()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "catalog name is required")
	assert.Contains(t, errs[1].Error(), "catalog version is required")
}

func TestValidate_DuplicateSlug(t *testing.T) {
	c := minimalValidCatalog()
	c.Components = append(c.Components, Component{Slug: "shimmer-button", Name: "Again", Category: "buttons"})
	errs := c.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate slug")
}

func TestValidate_DuplicateSlugWithUnknownCategory(t *testing.T) {
	c := minimalValidCatalog()
	c.Components = append(c.Components, Component{Slug: "shimmer-button", Name: "Again", Category: "ghost"})
	errs := c.Validate()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), `unknown category "ghost"`)
	assert.Contains(t, errs[1].Error(), "duplicate slug")
}

func TestValidate_UnknownCategory(t *testing.T) {
	c := minimalValidCatalog()
	c.Components[0].Category = "widgets"
	errs := c.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `unknown category "widgets"`)
}

func TestValidate_EmptyCategoryIsUnknown(t *testing.T) {
	c := minimalValidCatalog()
	c.Components[0].Category = ""
	errs := c.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "unknown category")
}

func TestValidate_SlugNotURLSafe(t *testing.T) {
	c := minimalValidCatalog()
	c.Components[0].Slug = "Shimmer Button"
	errs := c.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "not URL-safe")
}

func TestValidate_MissingSlug(t *testing.T) {
	c := minimalValidCatalog()
	c.Components[0].Slug = ""
	errs := c.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "slug is required")
}

func TestValidate_DuplicateCategory(t *testing.T) {
	c := minimalValidCatalog()
	c.Categories = append(c.Categories, Category{ID: "buttons", Name: "More Buttons"})
	errs := c.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate category id")
}

func TestValidate_CollectsEveryError(t *testing.T) {
	c := minimalValidCatalog()
	c.Components = append(c.Components,
		Component{Slug: "a", Name: "A", Category: "nope"},
		Component{Slug: "a", Name: "A again", Category: "buttons"},
		Component{Slug: "", Name: "Nameless slug"},
	)
	errs := c.Validate()
	assert.Len(t, errs, 3)
}

func TestValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"gradient-text", true},
		{"a1", true},
		{"", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--dash", false},
		{"Upper", false},
		{"with/slash", false},
	}
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidSlug(tt.slug))
		})
	}
}

// --- BuildIndex ---

func TestBuildIndex_DerivesCount(t *testing.T) {
	c := minimalValidCatalog()
	c.Categories = append(c.Categories, Category{ID: "cards", Name: "Cards", Count: 42})
	c.Components = append(c.Components,
		Component{Slug: "ripple-button", Name: "Ripple Button", Category: "buttons"},
	)
	idx := c.BuildIndex()

	assert.Equal(t, 2, idx.CategoryByID["buttons"].Count)
	assert.Equal(t, 0, idx.CategoryByID["cards"].Count, "authored count is overwritten")
	assert.Equal(t, 2, c.Categories[0].Count)
}

func TestBuildIndex_PreservesInsertionOrder(t *testing.T) {
	c := minimalValidCatalog()
	c.Components = append(c.Components,
		Component{Slug: "ripple-button", Name: "Ripple", Category: "buttons"},
		Component{Slug: "magnetic-button", Name: "Magnetic", Category: "buttons"},
	)
	idx := c.BuildIndex()

	got := idx.ComponentsByCategory["buttons"]
	require.Len(t, got, 3)
	assert.Equal(t, "shimmer-button", got[0].Slug)
	assert.Equal(t, "ripple-button", got[1].Slug)
	assert.Equal(t, "magnetic-button", got[2].Slug)
}

func TestBuildIndex_PointsIntoCatalog(t *testing.T) {
	c := minimalValidCatalog()
	idx := c.BuildIndex()
	assert.Same(t, &c.Components[0], idx.ComponentBySlug["shimmer-button"])
}

// --- Loading ---

func TestLoadFromFile_Valid(t *testing.T) {
	path := writeTempCatalog(t, minimalValidCatalog())
	cat, idx, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cat.Name)
	assert.Contains(t, idx.ComponentBySlug, "shimmer-button")
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog file")
}

func TestLoadFromBytes_InvalidJSON(t *testing.T) {
	_, _, err := LoadFromBytes([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse catalog JSON")
}

func TestLoadFromBytes_ValidationFailure(t *testing.T) {
	c := minimalValidCatalog()
	c.Components[0].Category = "ghost"
	data, err := json.Marshal(c)
	require.NoError(t, err)

	_, _, err = LoadFromBytes(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog validation failed")
	assert.Contains(t, err.Error(), `unknown category "ghost"`)
}

func TestLoadFromBytes_IsNewField(t *testing.T) {
	data := []byte(`{
		"name": "t", "version": "1",
		"categories": [{"id": "cards", "name": "Cards", "count": 9}],
		"components": [{"slug": "flip-card", "name": "Flip Card", "category": "cards", "is_new": true}]
	}`)
	cat, idx, err := LoadFromBytes(data)
	require.NoError(t, err)
	assert.True(t, cat.Components[0].IsNew)
	assert.Equal(t, 1, idx.CategoryByID["cards"].Count)
}
