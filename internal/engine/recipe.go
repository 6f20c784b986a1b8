package engine

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// Shell selects the syntax of a reconstruction recipe.
type Shell int

const (
	ShellPOSIX Shell = iota
	ShellWindows
)

// ParseShell maps "posix"/"sh" or "windows"/"cmd" to a Shell.
func ParseShell(s string) (Shell, error) {
	switch strings.ToLower(s) {
	case "posix", "sh", "bash":
		return ShellPOSIX, nil
	case "windows", "cmd":
		return ShellWindows, nil
	default:
		return 0, fmt.Errorf("unknown shell %q (use posix or windows)", s)
	}
}

// PartSet is the group of part files sharing a base name in one directory.
type PartSet struct {
	Dir     string
	Base    string
	Parts   []string // ordered by sequence number
	Missing []int    // sequence numbers absent between 1 and the highest found
	// Duplicates holds sequence numbers claimed by more than one file,
	// e.g. "a.bin.part01" next to "a.bin.PART01".
	Duplicates []int
	Size       int64
}

// Complete reports whether the set runs 1..N without gaps and with
// exactly one file per sequence number.
func (p PartSet) Complete() bool {
	return len(p.Missing) == 0 && len(p.Duplicates) == 0 && len(p.Parts) > 0
}

// DiscoverPartSets walks root and groups part files by directory and base
// name. Sets are ordered by directory, then base name.
func DiscoverPartSets(fsys afero.Fs, root string, width int) ([]PartSet, error) {
	type key struct{ dir, base string }
	type found struct {
		path string
		n    int
		size int64
	}
	groups := make(map[key][]found)

	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		base, n, ok := ParsePartName(info.Name(), width)
		if !ok {
			return nil
		}
		k := key{dir: filepath.Dir(path), base: base}
		groups[k] = append(groups[k], found{path: path, n: n, size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sets := make([]PartSet, 0, len(groups))
	for k, items := range groups {
		slices.SortFunc(items, func(a, b found) int {
			if c := cmp.Compare(a.n, b.n); c != 0 {
				return c
			}
			return cmp.Compare(a.path, b.path)
		})

		set := PartSet{Dir: k.dir, Base: k.base}
		next := 1
		for _, f := range items {
			if f.n < next {
				if !slices.Contains(set.Duplicates, f.n) {
					set.Duplicates = append(set.Duplicates, f.n)
				}
				set.Parts = append(set.Parts, f.path)
				continue
			}
			for ; next < f.n; next++ {
				set.Missing = append(set.Missing, next)
			}
			next = f.n + 1
			set.Parts = append(set.Parts, f.path)
			set.Size += f.size
		}
		sets = append(sets, set)
	}

	slices.SortFunc(sets, func(a, b PartSet) int {
		if c := cmp.Compare(a.Dir, b.Dir); c != 0 {
			return c
		}
		return cmp.Compare(a.Base, b.Base)
	})
	return sets, nil
}

// MergeRecipe renders the command that concatenates a part set back into
// its original file. The command is for the user or downstream tooling
// to run; nothing here executes it.
func MergeRecipe(set PartSet, shell Shell) string {
	out := filepath.Join(set.Dir, set.Base)
	switch shell {
	case ShellWindows:
		quoted := make([]string, len(set.Parts))
		for i, p := range set.Parts {
			quoted[i] = `"` + p + `"`
		}
		return fmt.Sprintf(`copy /b %s "%s"`, strings.Join(quoted, "+"), out)
	default:
		quoted := make([]string, len(set.Parts))
		for i, p := range set.Parts {
			quoted[i] = shellQuote(p)
		}
		return fmt.Sprintf("cat %s > %s", strings.Join(quoted, " "), shellQuote(out))
	}
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`!*?[]{}()<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
