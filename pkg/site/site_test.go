package site

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/metrics"
	"github.com/gnana997/reactatoms/pkg/util"
)

// --- helpers ---

const testCatalog = `{
  "name": "test",
  "version": "0.1.0",
  "categories": [
    {"id": "text-animations", "name": "Text Animations", "description": "Animated type"},
    {"id": "buttons", "name": "Buttons"}
  ],
  "components": [
    {"slug": "gradient-text", "name": "Gradient Text", "description": "Looping gradient", "category": "text-animations", "tags": ["css"]},
    {"slug": "decrypted-text", "name": "Decrypted Text", "description": "Scramble reveal", "category": "text-animations", "is_new": true},
    {"slug": "shimmer-button", "name": "Shimmer Button", "description": "A shine sweeps across", "category": "buttons"}
  ]
}`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"catalog.json":                     {Data: []byte(testCatalog)},
		"snippets/gradient-text/code.tsx":  {Data: []byte(`export function GradientText() { return <span>&lt;hi&gt;</span>; }`)},
		"snippets/gradient-text/usage.tsx": {Data: []byte(`<GradientText />`)},
		"snippets/decrypted-text/code.tsx": {Data: []byte(`export const DecryptedText = () => null;`)},
		"previews/gradient-text.html":      {Data: []byte(`<span class="demo-gradient">gradient</span>`)},
		"previews/placeholder.html":        {Data: []byte(`<div class="ra-placeholder"></div>`)},
		"content/changelog.yaml":           {Data: []byte("title: Changelog\nsections:\n  - heading: \"1.0.0\"\n    items: [First release]\n")},
		"content/docs.yaml":                {Data: []byte("title: Documentation\nsections:\n  - heading: MCP\n    anchor: mcp\n    body: Run it.\n")},
	}
}

func newTestServer(t *testing.T, config Config, opts ...Option) (*Server, *bundle.Holder, fstest.MapFS) {
	t.Helper()
	fsys := testFS()
	holder, err := bundle.NewHolder(context.Background(), func(ctx context.Context) (*bundle.Bundle, error) {
		return bundle.Load(ctx, "test", fsys, bundle.Options{Logger: util.NopLogger()})
	}, bundle.WithHolderLogger(util.NopLogger()))
	require.NoError(t, err)

	opts = append([]Option{WithLogger(util.NopLogger())}, opts...)
	srv, err := New(holder, config, opts...)
	require.NoError(t, err)
	return srv, holder, fsys
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doc(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return d
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

// --- pages ---

func TestLanding(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())
	rec := get(t, srv.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	d := doc(t, rec)
	assert.Equal(t, 1, d.Find("#new .card").Length())
	assert.Contains(t, d.Find("#new").Text(), "Decrypted Text")
	assert.Equal(t, 2, d.Find("#categories .card").Length())
}

func TestComponentsIndex_DerivedCounts(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())
	d := doc(t, get(t, srv.Handler(), "/components"))
	var counts []string
	d.Find("#categories .card").Each(func(_ int, s *goquery.Selection) {
		c, _ := s.Attr("data-count")
		counts = append(counts, c)
	})
	assert.Equal(t, []string{"2", "1"}, counts)
}

func TestCategoryPage(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())
	rec := get(t, srv.Handler(), "/components/text-animations")
	require.Equal(t, http.StatusOK, rec.Code)
	d := doc(t, rec)
	assert.Equal(t, "Text Animations", strings.TrimSpace(d.Find("main h1").Text()))
	assert.Equal(t, 2, d.Find("#components .card").Length())

	assert.Equal(t, http.StatusNotFound, get(t, srv.Handler(), "/components/nope").Code)
}

func TestComponentPage(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())
	rec := get(t, srv.Handler(), "/components/text-animations/gradient-text")
	require.Equal(t, http.StatusOK, rec.Code)

	d := doc(t, rec)
	assert.Contains(t, d.Find("#component-name").Text(), "Gradient Text")
	assert.Equal(t, []string{"Preview", "Code", "Usage"}, texts(d.Find(".tabs a")))
	assert.Equal(t, "Preview", strings.TrimSpace(d.Find(".tabs a.active").Text()))
	assert.Equal(t, 1, d.Find(".ra-preview .demo-gradient").Length(), "preview markup is inlined unescaped")
	assert.Contains(t, d.Find("#code").Text(), "<span>&lt;hi&gt;</span>", "code is escaped as text")
	assert.Equal(t, "<GradientText />", d.Find("#usage").Text())
	assert.Equal(t, 1, d.Find("[data-copy]").Length())
	assert.Equal(t, 0, d.Find("#missing-preview").Length())

	_, hidden := d.Find("#panel-code").Attr("hidden")
	assert.True(t, hidden)
}

func TestComponentPage_TabAndTheme(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())
	d := doc(t, get(t, srv.Handler(), "/components/text-animations/gradient-text?tab=usage&theme=light"))

	assert.Equal(t, "Usage", strings.TrimSpace(d.Find(".tabs a.active").Text()))
	_, hidden := d.Find("#panel-usage").Attr("hidden")
	assert.False(t, hidden)
	assert.True(t, d.Find(".ra-preview").HasClass("ra-theme-light"))
	href, _ := d.Find("#theme-toggle").Attr("href")
	assert.Equal(t, "/components/text-animations/gradient-text?tab=usage", href)
}

func TestComponentPage_MissingContent(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())
	rec := get(t, srv.Handler(), "/components/buttons/shimmer-button")
	require.Equal(t, http.StatusOK, rec.Code)

	d := doc(t, rec)
	assert.Equal(t, "// code not found for shimmer-button", d.Find("#code").Text())
	assert.Equal(t, "// usage not found for shimmer-button", d.Find("#usage").Text())
	assert.Equal(t, 0, d.Find("[data-copy]").Length())
	assert.Equal(t, 1, d.Find("#missing-preview").Length())
	assert.Equal(t, 1, d.Find(".ra-preview .ra-placeholder").Length())
}

func TestComponentPage_NotFound(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())
	for _, target := range []string{
		"/components/text-animations/does-not-exist",
		"/components/buttons/gradient-text",
		"/components/nope/gradient-text",
	} {
		rec := get(t, srv.Handler(), target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, doc(t, rec).Find("main h1").Text(), "Page not found", target)
	}
}

func TestPreviewPage(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())

	d := doc(t, get(t, srv.Handler(), "/preview/gradient-text?theme=light"))
	assert.True(t, d.Find("body").HasClass("ra-theme-light"))
	assert.Equal(t, 1, d.Find(".demo-gradient").Length())

	alias := doc(t, get(t, srv.Handler(), "/preview/gradient-text-demo"))
	assert.Equal(t, 1, alias.Find(".demo-gradient").Length())

	rec := get(t, srv.Handler(), "/preview/unknown-thing")
	assert.Equal(t, http.StatusOK, rec.Code)
	d = doc(t, rec)
	ph, _ := d.Find("body").Attr("data-placeholder")
	assert.Equal(t, "true", ph)
	assert.Equal(t, 1, d.Find(".ra-placeholder").Length())
}

func TestSearch(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())

	d := doc(t, get(t, srv.Handler(), "/search?q=TEXT"))
	assert.Equal(t, 2, d.Find("#results .card").Length())

	d = doc(t, get(t, srv.Handler(), "/search?q=css"))
	assert.Equal(t, 1, d.Find("#results .card").Length())

	d = doc(t, get(t, srv.Handler(), "/search?q=shimmr"))
	assert.Equal(t, 1, d.Find("#no-results").Length())
	assert.Contains(t, d.Find("#suggestions").Text(), "Shimmer Button")
}

func TestStaticContentPages(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())

	d := doc(t, get(t, srv.Handler(), "/changelog"))
	assert.Contains(t, d.Find("main").Text(), "First release")

	d = doc(t, get(t, srv.Handler(), "/docs"))
	assert.Equal(t, 1, d.Find("section#mcp").Length())

	rec := get(t, srv.Handler(), "/roadmap")
	assert.Equal(t, http.StatusOK, rec.Code, "missing document renders an empty page")
	assert.Contains(t, doc(t, rec).Find("main").Text(), "Nothing here yet")
}

func TestUnknownRoute_FuzzySuggestions(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())
	rec := get(t, srv.Handler(), "/gradient-txt")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	d := doc(t, rec)
	assert.Contains(t, d.Find("main h1").Text(), "Page not found")
	href, ok := d.Find("#suggestions a").First().Attr("href")
	require.True(t, ok)
	assert.Equal(t, "/components/text-animations/gradient-text", href)
}

// --- API ---

func TestAPI_Components(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())

	var list componentList
	rec := get(t, srv.Handler(), "/api/components?category=text-animations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	list = componentList{}
	require.NoError(t, json.Unmarshal(get(t, srv.Handler(), "/api/components?new=true").Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "decrypted-text", list.Components[0].Slug)

	list = componentList{}
	require.NoError(t, json.Unmarshal(get(t, srv.Handler(), "/api/components?q=zzz").Body.Bytes(), &list))
	assert.Equal(t, 0, list.Count)
	assert.NotNil(t, list.Components)
}

func TestAPI_ComponentDetail(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())

	rec := get(t, srv.Handler(), "/api/components/gradient-text")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail bundle.ComponentDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "Gradient Text", detail.Component.Name)
	assert.Equal(t, "Text Animations", detail.Category.Name)
	assert.Equal(t, "<GradientText />", detail.Usage)
	assert.Equal(t, "/components/text-animations/gradient-text", detail.Path)
	assert.False(t, detail.MissingCode)

	rec = get(t, srv.Handler(), "/api/components/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var apiErr apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "nope", apiErr.Slug)

	assert.Equal(t, http.StatusNotFound, get(t, srv.Handler(), "/api/unknown").Code)
}

// --- middleware ---

func TestRequestID(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())

	rec := get(t, srv.Handler(), "/")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestPageCache_HitAndPurgeOnReload(t *testing.T) {
	srv, holder, fsys := newTestServer(t, DefaultConfig())
	h := srv.Handler()

	assert.Equal(t, "miss", get(t, h, "/components").Header().Get("X-Cache"))
	assert.Equal(t, "hit", get(t, h, "/components").Header().Get("X-Cache"))
	assert.Empty(t, get(t, h, "/nope").Header().Get("X-Cache"), "404s are not cached")

	fsys["catalog.json"] = &fstest.MapFile{Data: []byte(strings.Replace(testCatalog, "Text Animations", "Typography", 1))}
	_, err := holder.Reload(context.Background())
	require.NoError(t, err)

	rec := get(t, h, "/components")
	assert.Equal(t, "miss", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "Typography")
}

func TestPageCache_RenderAcrossReloadIsNotServed(t *testing.T) {
	srv, holder, fsys := newTestServer(t, DefaultConfig())

	// The render starts on the old bundle and a reload lands before the
	// page is stored.
	straddle := srv.page(func(r *http.Request, b *bundle.Bundle) (int, view) {
		fsys["catalog.json"] = &fstest.MapFile{Data: []byte(strings.Replace(testCatalog, "Text Animations", "Typography", 1))}
		_, err := holder.Reload(context.Background())
		require.NoError(t, err)
		return srv.handleComponents(r, b)
	})
	first := get(t, straddle, "/components")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), "Text Animations")

	rec := get(t, srv.Handler(), "/components")
	assert.Equal(t, "miss", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "Typography")
	assert.NotContains(t, rec.Body.String(), "Text Animations")

	assert.Equal(t, "hit", get(t, srv.Handler(), "/components").Header().Get("X-Cache"))
}

func TestPageCache_Disabled(t *testing.T) {
	srv, _, _ := newTestServer(t, Config{})
	get(t, srv.Handler(), "/")
	assert.Empty(t, get(t, srv.Handler(), "/").Header().Get("X-Cache"))
}

func TestRateLimit(t *testing.T) {
	m := metrics.New()
	srv, _, _ := newTestServer(t, Config{RateLimit: 1, Burst: 2}, WithMetrics(m))
	h := srv.Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/").Code)
	rec := get(t, h, "/")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	srv, _, _ := newTestServer(t, DefaultConfig(), WithMetrics(m))
	h := srv.Handler()

	get(t, h, "/components/text-animations/gradient-text")
	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "reactatoms_http_requests_total")
	assert.Contains(t, body, `route="/components/{category}/{slug}"`)

	noMetrics, _, _ := newTestServer(t, DefaultConfig())
	assert.Equal(t, http.StatusNotFound, get(t, noMetrics.Handler(), "/metrics").Code)
}

func TestLiveReloadRouteOnlyInDev(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())
	assert.Nil(t, srv.Hub())
	assert.Equal(t, http.StatusNotFound, get(t, srv.Handler(), "/livereload").Code)

	dev, _, _ := newTestServer(t, Config{Dev: true})
	require.NotNil(t, dev.Hub())
	assert.Contains(t, get(t, dev.Handler(), "/").Body.String(), "/livereload")
}

// --- RenderPath ---

func TestRenderPath(t *testing.T) {
	srv, _, _ := newTestServer(t, DefaultConfig())
	out, err := srv.RenderPath(context.Background(), "/components/text-animations/gradient-text")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, out.Status)
	assert.Contains(t, out.ContentType, "text/html")
	assert.Contains(t, string(out.Body), "Gradient Text")

	out, err = srv.RenderPath(context.Background(), "/components/x/y")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, out.Status)
}
