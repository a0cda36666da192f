// Package archive walks zip archives looking for style sheets.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// MaxEntrySize limits how much of a single archive entry is read into memory.
const MaxEntrySize = 16 << 20

// MatchFunc decides whether archive entry with the given name is visited.
type MatchFunc func(name string) bool

// WalkFunc is called for each file in archive visited by Walk. The archive
// argument contains path to archive passed to Walk. If an error is returned,
// processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk visits all regular files in the archive accepted by match, in archive
// order. Archives with absolute entry names or ".." components are rejected.
func Walk(archive string, match MatchFunc, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || (match != nil && !match(name)) {
			continue
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile returns content of archive entry.
func ReadFile(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > MaxEntrySize {
		return nil, fmt.Errorf("zip entry %q is too large (%d bytes)", f.Name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, MaxEntrySize))
}

// IsZip sniffs file header to check if file is zip archive regardless of its
// extension.
func IsZip(fpath string) (bool, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.IsType(head[:n], matchers.TypeZip), nil
}

// HasExt reports whether entry name has one of the extensions, case
// insensitive.
func HasExt(name string, exts ...string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
