package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"github.com/bamsammich/partsplit/internal/filter"
)

// FileEntry is a regular file found by Walk.
type FileEntry struct {
	Path    string // absolute
	RelPath string // relative to the walk root, forward slashes
	Size    int64
}

// Walk enumerates every regular file under root. Symlinks and special
// files are skipped. Directories in prune, and directories or files the
// filter chain rejects, are left out. The full listing is returned in
// lexical order; any error aborts the walk.
func Walk(fsys afero.Fs, root string, chain *filter.Chain, prune ...string) ([]FileEntry, error) {
	root = filepath.Clean(root)

	var entries []FileEntry
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("rel path for %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel == "." {
				return nil
			}
			if slices.Contains(prune, path) || !chain.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() || !chain.Match(rel, false) {
			return nil
		}

		entries = append(entries, FileEntry{Path: path, RelPath: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
