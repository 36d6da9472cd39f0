package bundle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/reactatoms/catalogs"
	"github.com/gnana997/reactatoms/pkg/util"
)

// EmbeddedName labels bundles loaded from the binary.
const EmbeddedName = "embedded"

// Embedded returns the bundle compiled into the binary.
func Embedded() fs.FS {
	return catalogs.ReactAtoms()
}

// ContentPatterns match every file a bundle is built from.
var ContentPatterns = []string{
	"catalog.json",
	"snippets/*/{code,usage}.{tsx,ts,jsx,js}",
	"previews/*.html",
	"content/*.yaml",
}

// DirSource serves a bundle from a directory on disk. Reads go through a
// memory-mapped FileCache so repeated reloads in dev mode only touch the
// files that changed.
type DirSource struct {
	root  string
	fsys  fs.FS
	cache util.FileCache
}

// NewDirSource opens root. A nil cache gets an unbounded one.
func NewDirSource(root string, cache util.FileCache) (*DirSource, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve content dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %s is not a directory", abs)
	}
	if cache == nil {
		cache = util.NewFileCache(util.UnboundedFileCacheConfig())
	}
	return &DirSource{root: abs, fsys: os.DirFS(abs), cache: cache}, nil
}

// Root is the absolute directory path.
func (d *DirSource) Root() string { return d.root }

// Open implements fs.FS.
func (d *DirSource) Open(name string) (fs.File, error) {
	return d.fsys.Open(name)
}

// ReadFile implements fs.ReadFileFS through the file cache.
func (d *DirSource) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	data, err := d.cache.Read(d.abs(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
		}
		return nil, err
	}
	return data, nil
}

// Invalidate drops cached content for the given absolute paths. Paths
// outside the root are ignored.
func (d *DirSource) Invalidate(paths ...string) {
	for _, p := range paths {
		d.cache.Invalidate(p)
	}
}

// Reset drops every cached file.
func (d *DirSource) Reset() {
	d.cache.Reset()
}

// Files lists every bundle file under the root, sorted.
func (d *DirSource) Files() ([]string, error) {
	return ContentFiles(d)
}

// Close releases the file cache.
func (d *DirSource) Close() error {
	return d.cache.Close()
}

func (d *DirSource) abs(name string) string {
	return filepath.Join(d.root, filepath.FromSlash(name))
}

// ContentFiles lists the files of fsys matching ContentPatterns, sorted.
func ContentFiles(fsys fs.FS) ([]string, error) {
	var out []string
	for _, pattern := range ContentPatterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		out = append(out, matches...)
	}
	sort.Strings(out)
	return out, nil
}
