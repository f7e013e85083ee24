// Package jarwalk enumerates the .class entries under a jar file or a
// directory tree, in a deterministic (path-sorted) order, for the
// classindex demo driver. It carries no knowledge of class-file contents;
// it only opens byte streams for the class-file reader to consume.
package jarwalk

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/edward-ap/classindex/internal/sortutil"
)

// Entry is one discovered .class file, not yet read.
type Entry struct {
	// Path is the entry's path for diagnostics: the archive member name
	// inside a jar, or the filesystem path under a directory root.
	Path string
	open func() (io.ReadCloser, error)
}

// Open returns a reader positioned at the start of this class file's bytes.
// The caller must Close it.
func (e Entry) Open() (io.ReadCloser, error) { return e.open() }

// Jar lists the .class entries inside the jar (zip) archive at path, sorted
// by member name.
func Jar(path string) ([]Entry, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening jar %s: %w", path, err)
	}
	byName := make(map[string]*zip.File)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, ".class") {
			byName[f.Name] = f
			names = append(names, f.Name)
		}
	}
	names = sortutil.StablePathSort(names)

	entries := make([]Entry, len(names))
	for i, name := range names {
		f := byName[name]
		entries[i] = Entry{
			Path: f.Name,
			open: func() (io.ReadCloser, error) { return f.Open() },
		}
	}
	// zr itself is never closed here: each Entry.Open lazily opens its own
	// section reader from the shared zip.Reader, and the caller has no
	// single point in time at which every Entry is done being read. Callers
	// that want the archive closed should wrap Jar with their own
	// zip.OpenReader/Close pair when this matters (e.g. long-lived watch
	// mode); the demo CLI's one-shot scan relies on process exit instead.
	return entries, nil
}

// Dir lists the .class files found by walking root recursively, sorted by
// relative path.
func Dir(root string) ([]Entry, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".class") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	paths = sortutil.StablePathSort(paths)

	entries := make([]Entry, len(paths))
	for i, p := range paths {
		p := p
		entries[i] = Entry{
			Path: p,
			open: func() (io.ReadCloser, error) { return os.Open(p) },
		}
	}
	return entries, nil
}
