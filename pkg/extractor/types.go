// Package extractor pulls imports and exports out of snippet source so the
// catalog can list npm dependencies and check that usage examples import
// what the component file exports.
package extractor

import (
	"sort"
	"strings"

	"github.com/gnana997/reactatoms/pkg/parser"
)

// FileResult is everything extracted from one snippet file.
type FileResult struct {
	FileName string
	Dialect  parser.Dialect
	Imports  []ImportInfo
	Exports  []ExportInfo

	// HasErrors is set when tree-sitter recovered from syntax errors.
	// The lists above are still filled from the recovered tree.
	HasErrors bool
}

// ImportInfo represents one import statement.
type ImportInfo struct {
	Source     string            `json:"source"`
	Default    string            `json:"default,omitempty"`
	Namespace  string            `json:"namespace,omitempty"`
	Named      map[string]string `json:"named,omitempty"` // local name -> exported name
	IsExternal bool              `json:"is_external"`
	TypeOnly   bool              `json:"type_only,omitempty"`
	Location   Location          `json:"location"`
}

// ExportInfo represents one exported binding. A default export has Name
// "default" and carries the declared identifier, if any, in Local.
type ExportInfo struct {
	Name       string     `json:"name"`
	Local      string     `json:"local,omitempty"`
	ExportType ExportType `json:"export_type"`
	Kind       string     `json:"kind,omitempty"`
	Source     string     `json:"source,omitempty"`
	Location   Location   `json:"location"`
}

// ExportType identifies the type of export statement.
type ExportType string

const (
	ExportTypeNamed     ExportType = "named"     // export const x / export { x }
	ExportTypeDefault   ExportType = "default"   // export default X
	ExportTypeNamespace ExportType = "namespace" // export * from "./mod"
	ExportTypeReExport  ExportType = "re-export" // export { x } from "./mod"
)

// Location is a 1-based line/column position inside a snippet.
type Location struct {
	StartLine   uint32 `json:"start_line"`
	StartColumn uint32 `json:"start_column"`
	EndLine     uint32 `json:"end_line"`
	EndColumn   uint32 `json:"end_column"`
}

// implicitPackages are provided by every React project and never listed
// as snippet dependencies.
var implicitPackages = map[string]bool{
	"react":     true,
	"react-dom": true,
}

// Dependencies returns the sorted npm package roots the file imports,
// excluding react and react-dom. Type-only imports are ignored.
func (r *FileResult) Dependencies() []string {
	seen := make(map[string]bool)
	add := func(source string) {
		root := PackageRoot(source)
		if root == "" || implicitPackages[root] {
			return
		}
		seen[root] = true
	}
	for _, imp := range r.Imports {
		if imp.IsExternal && !imp.TypeOnly {
			add(imp.Source)
		}
	}
	for _, exp := range r.Exports {
		if exp.Source != "" && IsExternal(exp.Source) {
			add(exp.Source)
		}
	}

	deps := make([]string, 0, len(seen))
	for d := range seen {
		deps = append(deps, d)
	}
	sort.Strings(deps)
	return deps
}

// ExportedNames returns the exported binding names in source order,
// "default" included.
func (r *FileResult) ExportedNames() []string {
	names := make([]string, 0, len(r.Exports))
	for _, e := range r.Exports {
		if e.ExportType == ExportTypeNamespace {
			continue
		}
		names = append(names, e.Name)
	}
	return names
}

// DefaultExport returns the default export, if any.
func (r *FileResult) DefaultExport() (ExportInfo, bool) {
	for _, e := range r.Exports {
		if e.ExportType == ExportTypeDefault {
			return e, true
		}
	}
	return ExportInfo{}, false
}

// LocalImports returns the imports that point into the project (relative
// paths and "@/" or "~/" aliases).
func (r *FileResult) LocalImports() []ImportInfo {
	var out []ImportInfo
	for _, imp := range r.Imports {
		if !imp.IsExternal {
			out = append(out, imp)
		}
	}
	return out
}

// IsExternal reports whether an import source names an npm package rather
// than a project file.
func IsExternal(source string) bool {
	switch {
	case source == "":
		return false
	case strings.HasPrefix(source, "."), strings.HasPrefix(source, "/"):
		return false
	case strings.HasPrefix(source, "@/"), strings.HasPrefix(source, "~/"):
		return false
	}
	return true
}

// PackageRoot trims a module specifier to its package name:
// "@scope/pkg/sub" -> "@scope/pkg", "pkg/sub" -> "pkg". Project paths
// return "".
func PackageRoot(source string) string {
	if !IsExternal(source) {
		return ""
	}
	source = strings.TrimPrefix(source, "node:")
	parts := strings.Split(source, "/")
	if strings.HasPrefix(source, "@") {
		if len(parts) < 2 || parts[1] == "" {
			return ""
		}
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
