package audit

import (
	"sort"

	"github.com/gnana997/reactatoms/pkg/extractor"
)

// importedExports returns the local names under which usage imports
// something code exports. Only project-local imports count: the usage
// example imports the component from the reader's project.
func importedExports(code, usage *extractor.FileResult) []string {
	exported := make(map[string]bool)
	for _, name := range code.ExportedNames() {
		exported[name] = true
	}

	var locals []string
	for _, imp := range usage.LocalImports() {
		if imp.TypeOnly {
			continue
		}
		if imp.Default != "" && exported["default"] {
			locals = append(locals, imp.Default)
		}
		for local, name := range imp.Named {
			if exported[name] {
				locals = append(locals, local)
			}
		}
	}
	sort.Strings(locals)
	return locals
}
