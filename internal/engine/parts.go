package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

const tmpSuffix = ".split-tmp"

// ListParts returns the existing part files of base in dir, sorted
// lexically. A missing dir yields no parts.
func ListParts(fsys afero.Fs, dir, base string, width int) ([]string, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var parts []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		if b, _, ok := ParsePartName(info.Name(), width); ok && b == base {
			parts = append(parts, filepath.Join(dir, info.Name()))
		}
	}
	sort.Strings(parts)
	return parts, nil
}

// ResetParts deletes every existing part file of base in dir, plus any
// temp parts an interrupted split left behind. Files that vanish before
// they can be removed count as removed. Returns the part files deleted.
func ResetParts(fsys afero.Fs, dir, base string, width int) ([]string, error) {
	parts, err := ListParts(fsys, dir, base, width)
	if err != nil {
		return nil, err
	}

	for _, p := range parts {
		if err := removeIfExists(fsys, p); err != nil {
			return nil, fmt.Errorf("remove part %s: %w", p, err)
		}
	}

	if err := sweepTemps(fsys, dir, base); err != nil {
		return nil, err
	}
	return parts, nil
}

// sweepTemps removes ".<base>.partNN.<id>.split-tmp" leftovers.
func sweepTemps(fsys afero.Fs, dir, base string) error {
	temps, err := listTemps(fsys, dir, base)
	if err != nil {
		return err
	}
	for _, p := range temps {
		if err := removeIfExists(fsys, p); err != nil {
			return fmt.Errorf("remove stale temp %s: %w", p, err)
		}
		slog.Debug("removed stale temp part", "path", p)
	}
	return nil
}

// listTemps returns the temp part files a split of base left in dir.
func listTemps(fsys afero.Fs, dir, base string) ([]string, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	prefix := "." + base + partMarker
	var out []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, tmpSuffix) {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func removeIfExists(fsys afero.Fs, path string) error {
	if err := fsys.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
