package engine

import (
	"cmp"
	"path/filepath"
	"slices"
)

// Candidate is a file selected for splitting.
type Candidate struct {
	Path    string
	RelPath string
	Size    int64

	// Backup is set when the candidate is recovered from an earlier,
	// interrupted run: the original is already in the backup tree and
	// the split reads from there without relocating anything.
	Backup string
}

// SelectCandidates keeps files larger than ceiling that are not part
// files, ordered largest first. Equal sizes keep discovery order.
func SelectCandidates(entries []FileEntry, ceiling int64, width int) []Candidate {
	var out []Candidate
	for _, e := range entries {
		if e.Size <= ceiling || IsPartFile(filepath.Base(e.Path), width) {
			continue
		}
		out = append(out, Candidate{Path: e.Path, RelPath: e.RelPath, Size: e.Size})
	}
	sortCandidates(out)
	return out
}

func sortCandidates(cs []Candidate) {
	slices.SortStableFunc(cs, func(a, b Candidate) int {
		return cmp.Compare(b.Size, a.Size)
	})
}
