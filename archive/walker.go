// Package archive walks html documents packed into zip archives.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk. The file argument is the zip.File structure for file in archive which
// satisfies match condition. If an error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk calls walkFn for every file in the archive accepted by match, in
// natural order of entry names. Nil match accepts everything. Archives with
// absolute entry names or ".." components are rejected before any file is
// visited.
func Walk(archive string, match func(name string) bool, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if errors.Is(err, zip.ErrInsecurePath) {
		r.Close()
		return fmt.Errorf("zip archive %q: unsafe path (absolute or contains path traversal): %w", archive, err)
	}
	if err != nil {
		return err
	}
	defer r.Close()

	files := make(map[string]*zip.File, len(r.File))
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || (match != nil && !match(name)) {
			continue
		}
		if _, dup := files[name]; dup {
			continue
		}
		files[name] = f
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))

	for _, name := range names {
		if err := walkFn(archive, files[name]); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
