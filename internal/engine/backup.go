package engine

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Relocate moves src to its backup location and returns that path. Any
// stale backup at the destination is replaced. If Relocate fails, src is
// still in place; once it returns nil, the original bytes live at the
// returned path.
func Relocate(fsys afero.Fs, loc BackupLocator, src string) (string, error) {
	dst := loc.PathFor(src)

	if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create backup dir for %s: %w", dst, err)
	}
	if err := removeIfExists(fsys, dst); err != nil {
		return "", fmt.Errorf("remove stale backup %s: %w", dst, err)
	}
	if err := fsys.Rename(src, dst); err != nil {
		return "", fmt.Errorf("move %s -> %s: %w", src, dst, err)
	}
	return dst, nil
}
