package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// findInterrupted looks in the backup tree for originals an earlier run
// moved aside whose part set does not match what this configuration
// would produce (an interrupted split, or a changed chunk size). Such
// originals are re-split from the backup. Files still present under
// Root are skipped; the walk already covers them. A backup with neither
// its original nor any part or temp part beside it is left alone: the
// release was rebuilt without that file.
func findInterrupted(cfg Config) ([]Candidate, error) {
	if _, err := cfg.FS.Stat(cfg.BackupRoot); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat backup root: %w", err)
	}

	backups, err := Walk(cfg.FS, cfg.BackupRoot, nil, filepath.Join(cfg.BackupRoot, externalDir))
	if err != nil {
		return nil, fmt.Errorf("scan backups: %w", err)
	}

	loc := cfg.Locator()
	var out []Candidate
	for _, b := range backups {
		if b.Size <= cfg.MaxSize {
			continue
		}

		original := filepath.Join(cfg.RepoRoot, filepath.FromSlash(b.RelPath))
		if loc.PathFor(original) != b.Path {
			continue
		}
		rel, ok := relUnder(cfg.Root, original)
		if !ok || !cfg.Filter.Match(rel, false) {
			continue
		}
		if _, err := cfg.FS.Stat(original); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", original, err)
		}

		complete, found, err := partState(cfg, original, b.Size)
		if err != nil {
			return nil, err
		}
		if complete {
			continue
		}
		if found == 0 {
			dir, base := filepath.Split(original)
			temps, err := listTemps(cfg.FS, filepath.Clean(dir), base)
			if err != nil {
				return nil, err
			}
			if len(temps) == 0 {
				slog.Debug("backup has no original or parts, skipping", "backup", b.Path, "path", original)
				continue
			}
		}
		out = append(out, Candidate{Path: original, RelPath: rel, Size: b.Size, Backup: b.Path})
	}
	return out, nil
}

// partState reports how many parts sit next to original and whether they
// are exactly the set a split of size bytes would produce now.
func partState(cfg Config, original string, size int64) (complete bool, found int, err error) {
	dir, base := filepath.Split(original)
	parts, err := ListParts(cfg.FS, filepath.Clean(dir), base, cfg.PartWidth)
	if err != nil {
		return false, 0, err
	}

	want := PartSizes(size, cfg.ChunkSize)
	if len(parts) != len(want) {
		return false, len(parts), nil
	}
	for i, p := range parts {
		info, err := cfg.FS.Stat(p)
		if err != nil {
			return false, len(parts), fmt.Errorf("stat %s: %w", p, err)
		}
		if _, n, _ := ParsePartName(filepath.Base(p), cfg.PartWidth); n != i+1 || info.Size() != want[i] {
			return false, len(parts), nil
		}
	}
	return true, len(parts), nil
}

// relUnder returns path relative to root with forward slashes, or false
// if path is not below root.
func relUnder(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
