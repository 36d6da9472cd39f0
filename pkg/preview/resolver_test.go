package preview

import (
	"bytes"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/reactatoms/catalogs"
	"github.com/gnana997/reactatoms/pkg/util"
)

// countingFS counts Open calls so tests can observe lazy loading.
type countingFS struct {
	files fstest.MapFS
	mu    sync.Mutex
	opens map[string]int
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.mu.Lock()
	if c.opens == nil {
		c.opens = make(map[string]int)
	}
	c.opens[name]++
	c.mu.Unlock()
	return c.files.Open(name)
}

func (c *countingFS) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens[name]
}

func testFS() *countingFS {
	return &countingFS{files: fstest.MapFS{
		"previews/gradient-text.html":  {Data: []byte(`<span class="g">gradient</span>`)},
		"previews/decrypted-text.html": {Data: []byte(`<span>decrypt</span>`)},
		"previews/placeholder.html":    {Data: []byte(`<div>soon</div>`)},
	}}
}

func render(t *testing.T, r Renderable) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	return buf.String()
}

// --- Resolve ---

func TestResolve_Bound(t *testing.T) {
	r := NewResolver(testFS(), util.NopLogger())
	rd := r.Resolve("gradient-text")
	assert.Equal(t, DemoGradientText, rd.ID())
	assert.False(t, IsPlaceholder(rd))
	assert.Equal(t, `<span class="g">gradient</span>`, render(t, rd))
}

func TestResolve_MissReturnsPlaceholder(t *testing.T) {
	r := NewResolver(testFS(), util.NopLogger())
	rd := r.Resolve("does-not-exist")
	assert.True(t, IsPlaceholder(rd))
	assert.Same(t, r.Placeholder(), rd)
	assert.Equal(t, `<div>soon</div>`, render(t, rd))
}

func TestResolve_AliasIsSameRenderable(t *testing.T) {
	r := NewResolver(testFS(), util.NopLogger())
	assert.Same(t, r.Resolve("decrypted-text"), r.Resolve("decrypted-text-demo"))
	assert.Same(t, r.Resolve("gradient-text"), r.Resolve("gradient-text-demo"))
	assert.NotSame(t, r.Resolve("gradient-text"), r.Resolve("decrypted-text"))
}

func TestResolve_MissingMarkupFallsBack(t *testing.T) {
	r := NewResolver(testFS(), util.NopLogger())
	rd := r.Resolve("aurora")
	assert.Equal(t, DemoAurora, rd.ID(), "binding exists even when the fragment is missing")
	assert.Equal(t, `<div>soon</div>`, render(t, rd))
	assert.False(t, r.MarkupAvailable(DemoAurora))
}

func TestResolve_MissingPlaceholderUsesBuiltin(t *testing.T) {
	r := NewResolver(fstest.MapFS{}, util.NopLogger())
	assert.Equal(t, fallbackMarkup, render(t, r.Resolve("anything")))
	assert.Equal(t, fallbackMarkup, render(t, r.Resolve("aurora")))
}

// --- lazy loading ---

func TestRender_LoadsOnce(t *testing.T) {
	fsys := testFS()
	r := NewResolver(fsys, util.NopLogger())
	assert.Equal(t, 0, fsys.count("previews/gradient-text.html"))

	rd := r.Resolve("gradient-text")
	assert.Equal(t, 0, fsys.count("previews/gradient-text.html"), "resolve does not read markup")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			assert.NoError(t, rd.Render(&buf))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, fsys.count("previews/gradient-text.html"))
}

// --- binding table ---

func TestBindings_AliasesPointAtCanonicalDemos(t *testing.T) {
	canonical := make(map[DemoID]string)
	for _, b := range Bindings() {
		if !b.Alias {
			_, dup := canonical[b.Demo]
			assert.False(t, dup, "demo %s bound twice", b.Demo)
			canonical[b.Demo] = b.Slug
		}
	}
	for _, b := range Bindings() {
		if b.Alias {
			assert.Contains(t, canonical, b.Demo, b.Slug)
		}
	}
}

func TestIsAlias(t *testing.T) {
	assert.True(t, IsAlias("decrypted-text-demo"))
	assert.False(t, IsAlias("decrypted-text"))
	assert.False(t, IsAlias("unknown"))
}

func TestBundledPreviewsExist(t *testing.T) {
	r := NewResolver(catalogs.ReactAtoms(), util.NopLogger())
	for _, b := range Bindings() {
		assert.True(t, r.MarkupAvailable(b.Demo), b.Demo)
	}
	assert.True(t, r.MarkupAvailable(DemoPlaceholder))
	assert.Contains(t, RenderString(r.Resolve("gradient-text")), "ra-gradient")
}
