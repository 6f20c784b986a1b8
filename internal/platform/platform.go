// Package platform holds OS-specific helpers used when writing part files.
package platform

import (
	"os"

	"github.com/spf13/afero"
)

// Preallocate reserves size bytes for f when it is backed by a real OS
// file. Files from in-memory filesystems are left untouched. The call is
// advisory and never fails.
func Preallocate(f afero.File, size int64) {
	if size <= 0 {
		return
	}
	if osf, ok := f.(*os.File); ok {
		preallocate(osf, size)
	}
}
