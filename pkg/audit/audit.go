// Package audit checks a loaded bundle for gaps a reader of the site would
// notice: components without source or preview, usage examples that do not
// match their component, and content nothing links to.
package audit

import (
	"fmt"
	"log/slog"
	"path"
	"sort"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/parser"
	"github.com/gnana997/reactatoms/pkg/preview"
	"github.com/gnana997/reactatoms/pkg/snippets"
)

// Severity ranks a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rule names.
const (
	RuleMissingCode          = "missing-code"
	RuleMissingUsage         = "missing-usage"
	RuleMissingPreview       = "missing-preview"
	RuleUnanalyzableCode     = "unanalyzable-code"
	RuleUsageImportMismatch  = "usage-import-mismatch"
	RuleUsageNotRendered     = "usage-not-rendered"
	RuleOrphanSnippet        = "orphan-snippet"
	RuleOrphanPreviewBinding = "orphan-preview-binding"
)

// Violation is one finding.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Slug     string   `json:"slug"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// Report is the result of auditing one bundle.
type Report struct {
	Bundle     string      `json:"bundle"`
	Version    string      `json:"version"`
	Components int         `json:"components"`
	Violations []Violation `json:"violations"`
}

// Count returns the number of violations with severity sev.
func (r Report) Count(sev Severity) int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors reports whether any violation is an error.
func (r Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

// Rules returns the distinct rule names present, sorted.
func (r Report) Rules() []string {
	seen := make(map[string]bool)
	for _, v := range r.Violations {
		seen[v.Rule] = true
	}
	out := make([]string, 0, len(seen))
	for rule := range seen {
		out = append(out, rule)
	}
	sort.Strings(out)
	return out
}

// Validator audits bundles.
type Validator struct {
	parser *parser.ParserManager
	logger *slog.Logger
}

// NewValidator creates a validator. pm is optional; without it the
// usage-not-rendered rule is skipped.
func NewValidator(pm *parser.ParserManager, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{parser: pm, logger: logger}
}

// Validate runs every rule against b. Component findings come first, in
// registry order, followed by orphans.
func (v *Validator) Validate(b *bundle.Bundle) Report {
	comps := b.Catalog.ListComponents()
	report := Report{
		Bundle:     b.Name,
		Version:    b.Version(),
		Components: len(comps),
		Violations: make([]Violation, 0),
	}
	add := func(vs ...Violation) {
		report.Violations = append(report.Violations, vs...)
	}

	for _, comp := range comps {
		snip, _ := b.Snippets.Lookup(comp.Slug)
		add(v.checkSource(comp.Slug, snip)...)
		add(checkPreview(b.Previews, comp.Slug)...)
		if b.Analyzed && snip.HasCode() {
			add(v.checkAnalysis(comp.Slug, snip)...)
		}
	}

	for _, slug := range b.Snippets.Slugs() {
		if _, ok := b.Catalog.ComponentBySlug(slug); ok {
			continue
		}
		snip, _ := b.Snippets.Lookup(slug)
		file := snip.CodeFile
		if file == "" {
			file = snip.UsageFile
		}
		add(Violation{
			Rule:     RuleOrphanSnippet,
			Severity: SeverityWarning,
			Slug:     slug,
			File:     path.Dir(file),
			Message:  fmt.Sprintf("snippet %q has no registry entry and is never shown", slug),
		})
	}

	for _, binding := range preview.Bindings() {
		if binding.Alias {
			continue
		}
		if _, ok := b.Catalog.ComponentBySlug(binding.Slug); ok {
			continue
		}
		add(Violation{
			Rule:     RuleOrphanPreviewBinding,
			Severity: SeverityInfo,
			Slug:     binding.Slug,
			Message:  fmt.Sprintf("preview binding %q -> %s has no registry entry", binding.Slug, binding.Demo),
		})
	}

	v.logger.Debug("bundle audited",
		"bundle", b.Name,
		"components", report.Components,
		"violations", len(report.Violations))
	return report
}

func (v *Validator) checkSource(slug string, snip snippets.Snippet) []Violation {
	var out []Violation
	if !snip.HasCode() {
		out = append(out, Violation{
			Rule:     RuleMissingCode,
			Severity: SeverityError,
			Slug:     slug,
			File:     path.Join(snippets.Root, slug, "code.tsx"),
			Message:  "component has no source file; the code tab shows a placeholder",
		})
	}
	if !snip.HasUsage() {
		out = append(out, Violation{
			Rule:     RuleMissingUsage,
			Severity: SeverityWarning,
			Slug:     slug,
			File:     path.Join(snippets.Root, slug, "usage.tsx"),
			Message:  "component has no usage example; the usage tab shows a placeholder",
		})
	}
	return out
}

func checkPreview(r *preview.Resolver, slug string) []Violation {
	if !r.Bound(slug) {
		return []Violation{{
			Rule:     RuleMissingPreview,
			Severity: SeverityWarning,
			Slug:     slug,
			Message:  "no preview demo is bound; the placeholder is shown",
		}}
	}
	id := r.Resolve(slug).ID()
	if !r.MarkupAvailable(id) {
		return []Violation{{
			Rule:     RuleMissingPreview,
			Severity: SeverityWarning,
			Slug:     slug,
			File:     path.Join(preview.Dir, string(id)+".html"),
			Message:  fmt.Sprintf("preview demo %s has no markup", id),
		}}
	}
	return nil
}

func (v *Validator) checkAnalysis(slug string, snip snippets.Snippet) []Violation {
	a := snip.Analysis
	if a == nil || a.Code == nil || a.Code.HasErrors {
		return []Violation{{
			Rule:     RuleUnanalyzableCode,
			Severity: SeverityWarning,
			Slug:     slug,
			File:     snip.CodeFile,
			Message:  "source could not be parsed cleanly; dependencies and exports may be incomplete",
		}}
	}
	if !snip.HasUsage() || a.Usage == nil {
		return nil
	}

	locals := importedExports(a.Code, a.Usage)
	if len(locals) == 0 {
		return []Violation{{
			Rule:     RuleUsageImportMismatch,
			Severity: SeverityInfo,
			Slug:     slug,
			File:     snip.UsageFile,
			Message:  fmt.Sprintf("usage example imports none of the component's exports %v", a.Code.ExportedNames()),
		}}
	}

	if v.parser == nil {
		return nil
	}
	rendered, err := v.renderedComponents(snip)
	if err != nil {
		v.logger.Debug("usage JSX walk failed", "slug", slug, "error", err)
		return nil
	}
	for _, local := range locals {
		if rendered[local] {
			return nil
		}
	}
	return []Violation{{
		Rule:     RuleUsageNotRendered,
		Severity: SeverityInfo,
		Slug:     slug,
		File:     snip.UsageFile,
		Message:  fmt.Sprintf("usage example imports %v but never renders it", locals),
	}}
}
