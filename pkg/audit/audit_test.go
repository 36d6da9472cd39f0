package audit

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/parser"
	"github.com/gnana997/reactatoms/pkg/util"
)

// --- helpers ---

const auditCatalog = `{
  "name": "audit",
  "version": "0.2.0",
  "categories": [
    {"id": "text-animations", "name": "Text Animations"},
    {"id": "buttons", "name": "Buttons"}
  ],
  "components": [
    {"slug": "gradient-text", "name": "Gradient Text", "category": "text-animations"},
    {"slug": "decrypted-text", "name": "Decrypted Text", "category": "text-animations"},
    {"slug": "split-text", "name": "Split Text", "category": "text-animations"},
    {"slug": "blur-text", "name": "Blur Text", "category": "text-animations"},
    {"slug": "shimmer-button", "name": "Shimmer Button", "category": "buttons"},
    {"slug": "my-widget", "name": "My Widget", "category": "buttons"}
  ]
}`

func auditFS() fstest.MapFS {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }
	return fstest.MapFS{
		"catalog.json": file(auditCatalog),

		"snippets/gradient-text/code.tsx":  file("export default function GradientText() {\n  return null;\n}\n"),
		"snippets/gradient-text/usage.tsx": file("import GradientText from \"@/components/atoms/GradientText\";\n\nexport const Demo = () => <GradientText />;\n"),

		"snippets/decrypted-text/code.tsx": file("export function DecryptedText() {\n  return null;\n}\n"),

		"snippets/split-text/code.tsx":  file("export function SplitText() {\n  return null;\n}\n"),
		"snippets/split-text/usage.tsx": file("import { SplitText } from \"@/components/SplitText\";\n\nexport const Demo = () => <div>nothing</div>;\n"),

		"snippets/blur-text/code.tsx":  file("export function BlurText( {\n"),
		"snippets/blur-text/usage.tsx": file("import { BlurText } from \"./BlurText\";\n\nexport const Demo = () => <BlurText />;\n"),

		"snippets/my-widget/code.tsx":  file("export function Widget() {\n  return null;\n}\n"),
		"snippets/my-widget/usage.tsx": file("import { Other } from \"./other\";\n\nexport const Demo = () => <Other />;\n"),

		"snippets/old-thing/code.tsx": file("export const Old = 1;\n"),

		"previews/gradient-text.html": file(`<span>gradient</span>`),
		"previews/split-text.html":    file(`<span>split</span>`),
		"previews/blur-text.html":     file(`<span>blur</span>`),
		"previews/placeholder.html":   file(`<div class="ra-placeholder"></div>`),
	}
}

func loadAudited(t *testing.T, analyzed bool) *bundle.Bundle {
	t.Helper()
	opts := bundle.Options{Logger: util.NopLogger()}
	if analyzed {
		a := bundle.NewAnalysis(util.NopLogger())
		t.Cleanup(func() { a.Close() })
		opts.Analyzer = a
	}
	b, err := bundle.Load(context.Background(), "audit", auditFS(), opts)
	require.NoError(t, err)
	return b
}

func testValidator(t *testing.T) *Validator {
	t.Helper()
	pm := parser.NewParserManager(util.NopLogger())
	t.Cleanup(func() { pm.Close() })
	return NewValidator(pm, util.NopLogger())
}

func rulesFor(r Report, slug string) []string {
	var out []string
	for _, v := range r.Violations {
		if v.Slug == slug {
			out = append(out, v.Rule)
		}
	}
	return out
}

func find(r Report, slug, rule string) (Violation, bool) {
	for _, v := range r.Violations {
		if v.Slug == slug && v.Rule == rule {
			return v, true
		}
	}
	return Violation{}, false
}

// --- per-component rules ---

func TestValidate_PerComponent(t *testing.T) {
	report := testValidator(t).Validate(loadAudited(t, true))

	tests := []struct {
		slug string
		want []string
	}{
		{"gradient-text", nil},
		{"decrypted-text", []string{RuleMissingUsage, RuleMissingPreview}},
		{"split-text", []string{RuleUsageNotRendered}},
		{"blur-text", []string{RuleUnanalyzableCode}},
		{"shimmer-button", []string{RuleMissingCode, RuleMissingUsage, RuleMissingPreview}},
		{"my-widget", []string{RuleMissingPreview, RuleUsageImportMismatch}},
	}
	for _, tc := range tests {
		t.Run(tc.slug, func(t *testing.T) {
			assert.Equal(t, tc.want, rulesFor(report, tc.slug))
		})
	}
}

func TestValidate_Severities(t *testing.T) {
	report := testValidator(t).Validate(loadAudited(t, true))

	v, ok := find(report, "shimmer-button", RuleMissingCode)
	require.True(t, ok)
	assert.Equal(t, SeverityError, v.Severity)
	assert.Equal(t, "snippets/shimmer-button/code.tsx", v.File)

	v, ok = find(report, "decrypted-text", RuleMissingPreview)
	require.True(t, ok)
	assert.Equal(t, SeverityWarning, v.Severity)
	assert.Equal(t, "previews/decrypted-text.html", v.File)

	v, ok = find(report, "my-widget", RuleMissingPreview)
	require.True(t, ok)
	assert.Empty(t, v.File, "unbound slugs have no demo file to point at")

	v, ok = find(report, "my-widget", RuleUsageImportMismatch)
	require.True(t, ok)
	assert.Equal(t, SeverityInfo, v.Severity)
	assert.Equal(t, "snippets/my-widget/usage.tsx", v.File)
	assert.Contains(t, v.Message, "Widget")

	v, ok = find(report, "blur-text", RuleUnanalyzableCode)
	require.True(t, ok)
	assert.Equal(t, SeverityWarning, v.Severity)

	assert.True(t, report.HasErrors())
	assert.Equal(t, 1, report.Count(SeverityError))
}

func TestValidate_ReportHeader(t *testing.T) {
	report := testValidator(t).Validate(loadAudited(t, true))
	assert.Equal(t, "audit", report.Bundle)
	assert.Equal(t, "0.2.0", report.Version)
	assert.Equal(t, 6, report.Components)
}

// --- orphans ---

func TestValidate_OrphanSnippet(t *testing.T) {
	report := testValidator(t).Validate(loadAudited(t, true))

	v, ok := find(report, "old-thing", RuleOrphanSnippet)
	require.True(t, ok)
	assert.Equal(t, SeverityWarning, v.Severity)
	assert.Equal(t, "snippets/old-thing", v.File)
}

func TestValidate_OrphanPreviewBindings(t *testing.T) {
	report := testValidator(t).Validate(loadAudited(t, true))

	var orphaned []string
	for _, v := range report.Violations {
		if v.Rule == RuleOrphanPreviewBinding {
			orphaned = append(orphaned, v.Slug)
			assert.Equal(t, SeverityInfo, v.Severity)
		}
	}
	// 19 canonical bindings, 5 of them in the fixture registry.
	assert.Len(t, orphaned, 14)
	assert.Contains(t, orphaned, "aurora")
	assert.NotContains(t, orphaned, "gradient-text")
	assert.NotContains(t, orphaned, "aurora-background", "aliases are never orphans")
	assert.NotContains(t, orphaned, "gradient-text-demo")
}

// --- configuration ---

func TestValidate_WithoutAnalysis(t *testing.T) {
	report := testValidator(t).Validate(loadAudited(t, false))

	rules := report.Rules()
	assert.NotContains(t, rules, RuleUnanalyzableCode)
	assert.NotContains(t, rules, RuleUsageImportMismatch)
	assert.NotContains(t, rules, RuleUsageNotRendered)
	assert.Contains(t, rules, RuleMissingCode)
}

func TestValidate_WithoutParser(t *testing.T) {
	report := NewValidator(nil, util.NopLogger()).Validate(loadAudited(t, true))

	assert.Empty(t, rulesFor(report, "split-text"))
	assert.Contains(t, rulesFor(report, "my-widget"), RuleUsageImportMismatch)
}

func TestReport_Rules(t *testing.T) {
	r := Report{Violations: []Violation{
		{Rule: RuleMissingUsage, Severity: SeverityWarning},
		{Rule: RuleMissingCode, Severity: SeverityError},
		{Rule: RuleMissingUsage, Severity: SeverityWarning},
	}}
	assert.Equal(t, []string{RuleMissingCode, RuleMissingUsage}, r.Rules())
	assert.Equal(t, 2, r.Count(SeverityWarning))
	assert.True(t, r.HasErrors())
	assert.False(t, Report{}.HasErrors())
}

// --- bundled content ---

func TestValidate_BundledContent(t *testing.T) {
	a := bundle.NewAnalysis(util.NopLogger())
	defer a.Close()
	b, err := bundle.Load(context.Background(), bundle.EmbeddedName, bundle.Embedded(), bundle.Options{
		Analyzer: a,
		Logger:   util.NopLogger(),
	})
	require.NoError(t, err)

	report := testValidator(t).Validate(b)
	assert.False(t, report.HasErrors())
	for _, rule := range []string{RuleMissingCode, RuleMissingUsage, RuleMissingPreview, RuleOrphanSnippet, RuleOrphanPreviewBinding} {
		assert.NotContains(t, report.Rules(), rule)
	}
}
