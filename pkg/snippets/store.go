// Package snippets holds the code and usage text shown in the Code and
// Usage tabs, keyed by component slug.
package snippets

import (
	"fmt"
	"sort"

	"github.com/gnana997/reactatoms/pkg/extractor"
)

// Snippet is the source text for one component.
type Snippet struct {
	Slug  string
	Code  string
	Usage string

	// CodeFile and UsageFile are the bundle paths the text was read from.
	CodeFile  string
	UsageFile string

	// Analysis is nil when the snippet could not be parsed.
	Analysis *Analysis
}

// Analysis is the parsed import/export view of a snippet.
type Analysis struct {
	Code  *extractor.FileResult
	Usage *extractor.FileResult
}

// HasCode reports whether real component code was found.
func (s Snippet) HasCode() bool { return s.CodeFile != "" }

// HasUsage reports whether a real usage example was found.
func (s Snippet) HasUsage() bool { return s.UsageFile != "" }

// Dependencies lists the npm packages the component code imports,
// excluding react and react-dom. Nil without analysis.
func (s Snippet) Dependencies() []string {
	if s.Analysis == nil || s.Analysis.Code == nil {
		return nil
	}
	return s.Analysis.Code.Dependencies()
}

// Exports lists the names exported by the component code.
func (s Snippet) Exports() []string {
	if s.Analysis == nil || s.Analysis.Code == nil {
		return nil
	}
	return s.Analysis.Code.ExportedNames()
}

// CodePlaceholder is the text shown when a slug has no code.
func CodePlaceholder(slug string) string {
	return fmt.Sprintf("// code not found for %s", slug)
}

// UsagePlaceholder is the text shown when a slug has no usage example.
func UsagePlaceholder(slug string) string {
	return fmt.Sprintf("// usage not found for %s", slug)
}

// Store is an immutable slug -> Snippet table.
type Store struct {
	entries map[string]Snippet
	slugs   []string
}

// NewStore builds a store. The map is copied.
func NewStore(entries map[string]Snippet) *Store {
	s := &Store{
		entries: make(map[string]Snippet, len(entries)),
		slugs:   make([]string, 0, len(entries)),
	}
	for slug, snip := range entries {
		snip.Slug = slug
		s.entries[slug] = snip
		s.slugs = append(s.slugs, slug)
	}
	sort.Strings(s.slugs)
	return s
}

// Code returns the component code for slug, or CodePlaceholder(slug).
func (s *Store) Code(slug string) string {
	if snip, ok := s.entries[slug]; ok && snip.HasCode() {
		return snip.Code
	}
	return CodePlaceholder(slug)
}

// Usage returns the usage example for slug, or UsagePlaceholder(slug).
func (s *Store) Usage(slug string) string {
	if snip, ok := s.entries[slug]; ok && snip.HasUsage() {
		return snip.Usage
	}
	return UsagePlaceholder(slug)
}

// Lookup returns the stored snippet. Partial snippets (code without usage
// or the reverse) are returned with ok set; check HasCode and HasUsage.
func (s *Store) Lookup(slug string) (Snippet, bool) {
	snip, ok := s.entries[slug]
	return snip, ok
}

// Slugs returns every slug with at least one file, sorted.
func (s *Store) Slugs() []string {
	out := make([]string, len(s.slugs))
	copy(out, s.slugs)
	return out
}

// Len returns the number of stored snippets.
func (s *Store) Len() int { return len(s.entries) }
