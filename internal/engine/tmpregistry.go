package engine

import (
	"sync"

	"github.com/spf13/afero"
)

// tmpRegistry tracks temp part files that have not been renamed into
// place yet, so a failed or cancelled split can remove them.
type tmpRegistry struct {
	fsys  afero.Fs
	mu    sync.Mutex
	paths map[string]struct{}
}

func newTmpRegistry(fsys afero.Fs) *tmpRegistry {
	return &tmpRegistry{fsys: fsys, paths: make(map[string]struct{})}
}

func (r *tmpRegistry) add(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[path] = struct{}{}
}

func (r *tmpRegistry) done(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.paths, path)
}

// cleanup removes every registered temp file and returns how many were
// still registered.
func (r *tmpRegistry) cleanup() int {
	r.mu.Lock()
	paths := make([]string, 0, len(r.paths))
	for p := range r.paths {
		paths = append(paths, p)
	}
	r.paths = make(map[string]struct{})
	r.mu.Unlock()

	for _, p := range paths {
		_ = r.fsys.Remove(p)
	}
	return len(paths)
}
