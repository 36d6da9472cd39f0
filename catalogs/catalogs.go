// Package catalogs provides the embedded ReactAtoms content bundle.
package catalogs

import (
	"embed"
	"io/fs"
)

//go:embed reactatoms
var embedded embed.FS

// ReactAtoms returns the bundled content tree rooted at the directory that
// holds catalog.json, snippets/, previews/ and content/.
func ReactAtoms() fs.FS {
	sub, err := fs.Sub(embedded, "reactatoms")
	if err != nil {
		// fs.Sub only fails on an invalid path, and "reactatoms" is valid.
		panic(err)
	}
	return sub
}
